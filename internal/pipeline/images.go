// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"

	"github.com/pdiddy/pdfbinder/internal/document"
	"github.com/pdiddy/pdfbinder/internal/source"
	"github.com/pdiddy/pdfbinder/pkg/types"
)

// ImagePipeline converts an ordered set of images into one document with
// one page per image.
type ImagePipeline struct {
	reader    *source.Reader
	newAuthor document.AuthorFactory
}

// NewImagePipeline returns a pipeline reading through r and authoring with
// documents from newAuthor.
func NewImagePipeline(r *source.Reader, newAuthor document.AuthorFactory) *ImagePipeline {
	return &ImagePipeline{reader: r, newAuthor: newAuthor}
}

// Run embeds each image on its own page, anchored at (margin, margin) with
// width pageWidth-2*margin and height chosen by the author to keep the
// aspect ratio. The first image uses the document's initial page.
func (p *ImagePipeline) Run(ctx context.Context, inputs []types.InputFile, opts Options) (*Result, error) {
	if len(inputs) == 0 {
		return nil, ErrNoInput
	}
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	author, err := p.newAuthor()
	if err != nil {
		return nil, err
	}

	// A fresh author starts on an empty page. A page is only added once an
	// image has parsed, so a skipped file never leaves a blank page behind.
	blank := true
	b := newBatch(len(inputs), opts)
	err = b.each(ctx, inputs, "added:", func(in types.InputFile) (int, error) {
		img, err := p.reader.ReadImage(in)
		if err != nil {
			return 0, err
		}
		handle, err := author.RegisterImage(in.Name, img.Data, img.Format)
		if err != nil {
			return 0, err
		}
		if !blank {
			author.AddPage()
			blank = true
		}
		width := author.PageWidth() - 2*opts.Margin
		if err := author.PlaceImage(handle, opts.Margin, opts.Margin, width, 0); err != nil {
			return 0, err
		}
		blank = false
		return 1, nil
	})
	if err != nil {
		return nil, err
	}
	if err := b.finish(author.PageCount()); err != nil {
		return nil, err
	}

	data, err := author.Bytes()
	if err != nil {
		return nil, fmt.Errorf("finalizing images document: %w", err)
	}
	b.result.Data = data
	return b.result, nil
}
