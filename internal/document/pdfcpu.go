// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PdfcpuMerger implements Merger on top of pdfcpu.
type PdfcpuMerger struct{}

// NewPdfcpuMerger returns a merger using pdfcpu's relaxed validation. The
// pdfcpu user config directory is not touched.
func NewPdfcpuMerger() *PdfcpuMerger {
	api.DisableConfigDir()
	return &PdfcpuMerger{}
}

// newConf returns a fresh configuration per operation; pdfcpu records the
// running command on it.
func newConf() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

func (m *PdfcpuMerger) Create() Target {
	return &pdfcpuTarget{}
}

// Load parses and validates data and records its page count.
func (m *PdfcpuMerger) Load(name string, data []byte) (*Source, error) {
	ctx, err := api.ReadContext(bytes.NewReader(data), newConf())
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	if err := api.ValidateContext(ctx); err != nil {
		return nil, fmt.Errorf("validating %s: %w", name, err)
	}
	if ctx.PageCount == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrEmptyDocument)
	}
	return &Source{Name: name, Data: data, Pages: ctx.PageCount}, nil
}

// pdfcpuTarget collects the selected pages of each source and merges
// them in one pass when finalized.
type pdfcpuTarget struct {
	parts [][]byte
	pages int
}

func (t *pdfcpuTarget) PageCount() int { return t.pages }

func (t *pdfcpuTarget) CopyPages(src *Source, indices []int) error {
	if len(indices) == 0 {
		return nil
	}
	part, err := t.selectPages(src, indices)
	if err != nil {
		return err
	}
	t.parts = append(t.parts, part)
	t.pages += len(indices)
	return nil
}

// selectPages returns src as-is when every page is requested in order, and
// otherwise collects the requested pages into a new document.
func (t *pdfcpuTarget) selectPages(src *Source, indices []int) ([]byte, error) {
	identity := len(indices) == src.Pages
	selected := make([]string, len(indices))
	for i, idx := range indices {
		if idx < 0 || idx >= src.Pages {
			return nil, fmt.Errorf("page index %d out of range for %s (%d pages)", idx, src.Name, src.Pages)
		}
		if idx != i {
			identity = false
		}
		selected[i] = strconv.Itoa(idx + 1)
	}
	if identity {
		return src.Data, nil
	}

	var buf bytes.Buffer
	if err := api.Collect(bytes.NewReader(src.Data), &buf, selected, newConf()); err != nil {
		return nil, fmt.Errorf("collecting pages of %s: %w", src.Name, err)
	}
	return buf.Bytes(), nil
}

// Bytes merges the collected parts in order and writes an optimized copy.
func (t *pdfcpuTarget) Bytes() ([]byte, error) {
	if t.pages == 0 {
		return nil, ErrEmptyDocument
	}

	merged := t.parts[0]
	if len(t.parts) > 1 {
		rsc := make([]io.ReadSeeker, len(t.parts))
		for i, part := range t.parts {
			rsc[i] = bytes.NewReader(part)
		}
		var buf bytes.Buffer
		if err := api.MergeRaw(rsc, &buf, false, newConf()); err != nil {
			return nil, fmt.Errorf("merging %d documents: %w", len(t.parts), err)
		}
		merged = buf.Bytes()
	}

	var buf bytes.Buffer
	if err := api.Optimize(bytes.NewReader(merged), &buf, newConf()); err != nil {
		return nil, fmt.Errorf("finalizing merged document: %w", err)
	}
	return buf.Bytes(), nil
}
