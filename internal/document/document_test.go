// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pdfbinder/pkg/types"
)

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, testImage(w, h), nil))
	return buf.Bytes()
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage(w, h)))
	return buf.Bytes()
}

func gifBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, testImage(w, h), nil))
	return buf.Bytes()
}

// embed registers data and places it at the usual inset on the current page.
func embed(t *testing.T, a *FpdfAuthor, name string, data []byte, format ImageFormat) error {
	t.Helper()
	h, err := a.RegisterImage(name, data, format)
	if err != nil {
		return err
	}
	return a.PlaceImage(h, 10, 10, a.PageWidth()-20, 0)
}

// truncatedPNG keeps the signature and header chunk of a valid PNG but cuts
// the body short.
func truncatedPNG(t *testing.T) []byte {
	t.Helper()
	return pngBytes(t, 20, 20)[:40]
}

// corruptPNG flips bytes inside the first IDAT chunk, leaving the header
// intact.
func corruptPNG(t *testing.T) []byte {
	t.Helper()
	data := append([]byte(nil), pngBytes(t, 20, 20)...)
	i := bytes.Index(data, []byte("IDAT"))
	require.Positive(t, i)
	for k := i + 6; k < i+14 && k < len(data); k++ {
		data[k] ^= 0xFF
	}
	return data
}

// buildPDF authors a document with pages JPEG pages.
func buildPDF(t *testing.T, pages int) []byte {
	t.Helper()
	return buildSizedPDF(t, "A4", pages)
}

func buildSizedPDF(t *testing.T, size string, pages int) []byte {
	t.Helper()
	cfg := types.DefaultPageConfig()
	cfg.Size = size
	a, err := NewFpdfAuthor(cfg)
	require.NoError(t, err)
	for i := 0; i < pages; i++ {
		if i > 0 {
			a.AddPage()
		}
		require.NoError(t, embed(t, a, "p", jpegBytes(t, 40, 20), FormatJPEG))
	}
	data, err := a.Bytes()
	require.NoError(t, err)
	return data
}

func pageCount(t *testing.T, data []byte) int {
	t.Helper()
	n, err := api.PageCount(bytes.NewReader(data), newConf())
	require.NoError(t, err)
	return n
}

// errAny marks a case that only needs to fail.
var errAny = errors.New("any error")

func TestInspectImage(t *testing.T) {
	tests := []struct {
		name       string
		data       func(t *testing.T) []byte
		wantFormat ImageFormat
		wantErr    error
	}{
		{name: "jpeg", data: func(t *testing.T) []byte { return jpegBytes(t, 30, 20) }, wantFormat: FormatJPEG},
		{name: "png", data: func(t *testing.T) []byte { return pngBytes(t, 30, 20) }, wantFormat: FormatPNG},
		{name: "gif", data: func(t *testing.T) []byte { return gifBytes(t, 30, 20) }, wantFormat: FormatGIF},
		{name: "not an image", data: func(*testing.T) []byte { return []byte("%PDF-1.7 not an image") }, wantErr: ErrUnsupportedImage},
		{name: "truncated png", data: truncatedPNG, wantErr: io.ErrUnexpectedEOF},
		{name: "corrupt png body", data: corruptPNG, wantErr: errAny},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := InspectImage(tt.data(t))
			if tt.wantErr == errAny {
				assert.Error(t, err)
				return
			}
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFormat, info.Format)
			assert.Equal(t, 30, info.Width)
			assert.Equal(t, 20, info.Height)
		})
	}
}

func TestFpdfAuthor_StartsWithOnePage(t *testing.T) {
	a, err := NewFpdfAuthor(types.DefaultPageConfig())
	require.NoError(t, err)
	assert.Equal(t, 1, a.PageCount())
	assert.InDelta(t, 210.0, a.PageWidth(), 0.01)
}

func TestFpdfAuthor_BadPageSize(t *testing.T) {
	cfg := types.DefaultPageConfig()
	cfg.Size = "Napkin"
	_, err := NewFpdfAuthor(cfg)
	assert.Error(t, err)
}

func TestFpdfAuthor_OnePagePerImage(t *testing.T) {
	data := buildPDF(t, 3)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	assert.Equal(t, 3, pageCount(t, data))
}

func TestFpdfAuthor_MixedFormats(t *testing.T) {
	a, err := NewFpdfAuthor(types.DefaultPageConfig())
	require.NoError(t, err)

	require.NoError(t, embed(t, a, "a.png", pngBytes(t, 16, 16), FormatPNG))
	a.AddPage()
	require.NoError(t, embed(t, a, "b.gif", gifBytes(t, 16, 8), FormatGIF))

	data, err := a.Bytes()
	require.NoError(t, err)
	assert.Equal(t, 2, pageCount(t, data))
}

func TestFpdfAuthor_FailedEmbedKeepsDocumentUsable(t *testing.T) {
	a, err := NewFpdfAuthor(types.DefaultPageConfig())
	require.NoError(t, err)

	err = embed(t, a, "broken.png", []byte("not a png"), FormatPNG)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.png")

	require.NoError(t, embed(t, a, "ok.jpg", jpegBytes(t, 10, 10), FormatJPEG))
	data, err := a.Bytes()
	require.NoError(t, err)
	assert.Equal(t, 1, pageCount(t, data))
}

func TestFpdfAuthor_TruncatedImageIsAnError(t *testing.T) {
	a, err := NewFpdfAuthor(types.DefaultPageConfig())
	require.NoError(t, err)

	var h ImageHandle
	require.NotPanics(t, func() {
		h, err = a.RegisterImage("short.png", truncatedPNG(t), FormatPNG)
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "short.png")
	assert.Empty(t, h)
	assert.Equal(t, 1, a.PageCount())

	require.NoError(t, embed(t, a, "ok.png", pngBytes(t, 8, 8), FormatPNG))
	data, err := a.Bytes()
	require.NoError(t, err)
	assert.Equal(t, 1, pageCount(t, data))
}

func TestFpdfAuthor_PlaceUnknownHandle(t *testing.T) {
	a, err := NewFpdfAuthor(types.DefaultPageConfig())
	require.NoError(t, err)
	assert.Error(t, a.PlaceImage("img9999", 10, 10, 190, 0))
}

func TestSource_PageIndices(t *testing.T) {
	s := &Source{Pages: 4}
	assert.Equal(t, []int{0, 1, 2, 3}, s.PageIndices())
	assert.Empty(t, (&Source{}).PageIndices())
}

func TestPdfcpuMerger_Load(t *testing.T) {
	m := NewPdfcpuMerger()

	src, err := m.Load("two.pdf", buildPDF(t, 2))
	require.NoError(t, err)
	assert.Equal(t, 2, src.Pages)
	assert.Equal(t, "two.pdf", src.Name)

	_, err = m.Load("junk.pdf", []byte("definitely not a pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "junk.pdf")
}

func TestPdfcpuMerger_ConcatenatesAllPages(t *testing.T) {
	m := NewPdfcpuMerger()
	target := m.Create()
	assert.Equal(t, 0, target.PageCount())

	for _, pages := range []int{2, 3} {
		src, err := m.Load("doc.pdf", buildPDF(t, pages))
		require.NoError(t, err)
		require.NoError(t, target.CopyPages(src, src.PageIndices()))
	}
	assert.Equal(t, 5, target.PageCount())

	out, err := target.Bytes()
	require.NoError(t, err)
	assert.Equal(t, 5, pageCount(t, out))
}

func TestPdfcpuMerger_KeepsSourcesContiguousAndOrdered(t *testing.T) {
	m := NewPdfcpuMerger()
	target := m.Create()

	for _, doc := range []struct {
		size  string
		pages int
	}{{"A5", 2}, {"A3", 3}, {"A5", 1}} {
		src, err := m.Load(doc.size+".pdf", buildSizedPDF(t, doc.size, doc.pages))
		require.NoError(t, err)
		require.NoError(t, target.CopyPages(src, src.PageIndices()))
	}

	out, err := target.Bytes()
	require.NoError(t, err)

	dims, err := api.PageDims(bytes.NewReader(out), newConf())
	require.NoError(t, err)
	require.Len(t, dims, 6)

	a5, a3 := dims[0].Height, dims[2].Height
	assert.Greater(t, a3, a5)
	for i, want := range []float64{a5, a5, a3, a3, a3, a5} {
		assert.InDelta(t, want, dims[i].Height, 0.5, "page %d", i+1)
	}
}

func TestPdfcpuTarget_SelectedPages(t *testing.T) {
	m := NewPdfcpuMerger()
	src, err := m.Load("three.pdf", buildPDF(t, 3))
	require.NoError(t, err)

	target := m.Create()
	require.NoError(t, target.CopyPages(src, []int{2, 0}))
	assert.Equal(t, 2, target.PageCount())

	err = target.CopyPages(src, []int{3})
	assert.Error(t, err)
	assert.Equal(t, 2, target.PageCount())

	out, err := target.Bytes()
	require.NoError(t, err)
	assert.Equal(t, 2, pageCount(t, out))
}

func TestPdfcpuTarget_EmptyBytes(t *testing.T) {
	_, err := NewPdfcpuMerger().Create().Bytes()
	assert.ErrorIs(t, err, ErrEmptyDocument)
}
