// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"

	"github.com/pdiddy/pdfbinder/internal/document"
	"github.com/pdiddy/pdfbinder/internal/source"
	"github.com/pdiddy/pdfbinder/pkg/types"
)

// MergePipeline concatenates the pages of an ordered set of documents.
type MergePipeline struct {
	reader *source.Reader
	merger document.Merger
}

// NewMergePipeline returns a pipeline reading through r and merging with m.
func NewMergePipeline(r *source.Reader, m document.Merger) *MergePipeline {
	return &MergePipeline{reader: r, merger: m}
}

// Run copies every page of every input, in input order, into one document.
// Each source keeps its own page order.
func (p *MergePipeline) Run(ctx context.Context, inputs []types.InputFile, opts Options) (*Result, error) {
	if len(inputs) == 0 {
		return nil, ErrNoInput
	}
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	target := p.merger.Create()

	b := newBatch(len(inputs), opts)
	err = b.each(ctx, inputs, "merged:", func(in types.InputFile) (int, error) {
		data, err := p.reader.ReadDocument(in)
		if err != nil {
			return 0, err
		}
		src, err := p.merger.Load(in.Name, data)
		if err != nil {
			return 0, err
		}
		if err := target.CopyPages(src, src.PageIndices()); err != nil {
			return 0, err
		}
		return src.Pages, nil
	})
	if err != nil {
		return nil, err
	}
	if err := b.finish(target.PageCount()); err != nil {
		return nil, err
	}

	data, err := target.Bytes()
	if err != nil {
		return nil, fmt.Errorf("finalizing merged document: %w", err)
	}
	b.result.Data = data
	return b.result, nil
}
