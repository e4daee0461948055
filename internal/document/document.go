// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package document wraps the third-party PDF libraries behind small
// interfaces: an Author that lays out one image per page, and a Merger that
// appends the pages of existing documents into an accumulating target.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	// Decoders for the formats the authoring library can embed.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

var (
	// ErrUnsupportedImage is returned for payloads that are not JPEG, PNG or GIF.
	ErrUnsupportedImage = errors.New("unsupported image format")

	// ErrEmptyDocument is returned when finalizing or loading a document
	// without pages.
	ErrEmptyDocument = errors.New("document has no pages")
)

// ImageFormat names an embeddable image encoding.
type ImageFormat string

const (
	FormatJPEG ImageFormat = "JPEG"
	FormatPNG  ImageFormat = "PNG"
	FormatGIF  ImageFormat = "GIF"
)

// ImageInfo describes a decoded image payload.
type ImageInfo struct {
	Format ImageFormat
	Width  int
	Height int
}

// InspectImage identifies the format of data and decodes it in full, so a
// payload with a valid header but a truncated or corrupt body is rejected
// here rather than by the authoring library.
func InspectImage(data []byte) (ImageInfo, error) {
	img, name, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return ImageInfo{}, ErrUnsupportedImage
		}
		return ImageInfo{}, fmt.Errorf("decoding image: %w", err)
	}

	var format ImageFormat
	switch name {
	case "jpeg":
		format = FormatJPEG
	case "png":
		format = FormatPNG
	case "gif":
		format = FormatGIF
	default:
		return ImageInfo{}, fmt.Errorf("%w: %s", ErrUnsupportedImage, name)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return ImageInfo{}, fmt.Errorf("image has invalid dimensions %dx%d", b.Dx(), b.Dy())
	}
	return ImageInfo{Format: format, Width: b.Dx(), Height: b.Dy()}, nil
}

// ImageHandle refers to an image registered with an Author.
type ImageHandle string

// Author builds a new multi-page document. A fresh Author starts with one
// empty page.
type Author interface {
	// AddPage appends a new empty page and makes it current.
	AddPage()

	// PageWidth returns the width of the current page in document units.
	PageWidth() float64

	// RegisterImage parses data and stores it in the document without
	// placing it. A failed registration leaves the document unchanged.
	RegisterImage(name string, data []byte, format ImageFormat) (ImageHandle, error)

	// PlaceImage draws a registered image on the current page. A zero
	// height keeps the image's aspect ratio for the given width.
	PlaceImage(img ImageHandle, x, y, w, h float64) error

	// PageCount returns the number of pages in the document.
	PageCount() int

	// Bytes finalizes the document and returns its serialized form.
	Bytes() ([]byte, error)
}

// AuthorFactory creates a fresh Author for each run.
type AuthorFactory func() (Author, error)

// Source is a parsed input document ready for page copying.
type Source struct {
	Name  string
	Data  []byte
	Pages int
}

// PageIndices returns the zero-based indices of every page, in order.
func (s *Source) PageIndices() []int {
	indices := make([]int, s.Pages)
	for i := range indices {
		indices[i] = i
	}
	return indices
}

// Target accumulates pages copied from sources.
type Target interface {
	// CopyPages appends the given pages of src, in the order listed, after
	// the pages already in the target.
	CopyPages(src *Source, indices []int) error

	// PageCount returns the number of pages accumulated so far.
	PageCount() int

	// Bytes finalizes the target and returns its serialized form.
	Bytes() ([]byte, error)
}

// Merger loads existing documents and creates merge targets.
type Merger interface {
	// Create returns an empty accumulating document.
	Create() Target

	// Load parses data into a Source. name is used in error messages.
	Load(name string, data []byte) (*Source, error)
}
