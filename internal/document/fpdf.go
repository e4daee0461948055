// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/pdiddy/pdfbinder/pkg/types"
)

const creator = "pdfbinder"

// FpdfAuthor implements Author on top of go-pdf/fpdf.
type FpdfAuthor struct {
	pdf     *fpdf.Fpdf
	seq     int
	formats map[ImageHandle]ImageFormat
}

// NewFpdfAuthor creates a document with the given page geometry and one
// empty page.
func NewFpdfAuthor(cfg types.PageConfig) (*FpdfAuthor, error) {
	pdf := fpdf.New(cfg.Orientation, cfg.Unit, cfg.Size, "")
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("creating document (%s %s %s): %w", cfg.Size, cfg.Orientation, cfg.Unit, err)
	}
	pdf.SetCreator(creator, false)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	return &FpdfAuthor{pdf: pdf, formats: make(map[ImageHandle]ImageFormat)}, nil
}

// FpdfFactory returns an AuthorFactory producing FpdfAuthors for cfg.
func FpdfFactory(cfg types.PageConfig) AuthorFactory {
	return func() (Author, error) {
		return NewFpdfAuthor(cfg)
	}
}

func (a *FpdfAuthor) AddPage() { a.pdf.AddPage() }

func (a *FpdfAuthor) PageWidth() float64 {
	w, _ := a.pdf.GetPageSize()
	return w
}

func (a *FpdfAuthor) PageCount() int { return a.pdf.PageCount() }

// RegisterImage parses data under a run-unique key. fpdf reports malformed
// images either through its sticky error or by panicking on short reads;
// both come back as an error and the sticky error is cleared so later
// images still embed.
func (a *FpdfAuthor) RegisterImage(name string, data []byte, format ImageFormat) (handle ImageHandle, err error) {
	a.seq++
	key := fmt.Sprintf("img%04d", a.seq)

	defer func() {
		if r := recover(); r != nil {
			a.pdf.ClearError()
			handle, err = "", fmt.Errorf("embedding %s: malformed %s data: %v", name, format, r)
		}
	}()

	a.pdf.RegisterImageOptionsReader(key, imageOptions(format), bytes.NewReader(data))
	if err := a.pdf.Error(); err != nil {
		a.pdf.ClearError()
		return "", fmt.Errorf("embedding %s: %w", name, err)
	}
	a.formats[ImageHandle(key)] = format
	return ImageHandle(key), nil
}

func (a *FpdfAuthor) PlaceImage(img ImageHandle, x, y, w, h float64) error {
	format, ok := a.formats[img]
	if !ok {
		return fmt.Errorf("placing image: unknown handle %q", img)
	}
	a.pdf.ImageOptions(string(img), x, y, w, h, false, imageOptions(format), 0, "")
	if err := a.pdf.Error(); err != nil {
		a.pdf.ClearError()
		return fmt.Errorf("placing %s: %w", img, err)
	}
	return nil
}

func imageOptions(format ImageFormat) fpdf.ImageOptions {
	return fpdf.ImageOptions{ImageType: string(format)}
}

func (a *FpdfAuthor) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := a.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("finalizing document: %w", err)
	}
	return buf.Bytes(), nil
}
