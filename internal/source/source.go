// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source reads user-selected input files and turns command-line
// arguments or a manifest into an ordered input selection.
package source

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/pdiddy/pdfbinder/internal/document"
	"github.com/pdiddy/pdfbinder/pkg/types"
)

// Image is an image payload together with its detected format.
type Image struct {
	Name   string
	Data   []byte
	Format document.ImageFormat
	Width  int
	Height int
}

// Reader reads input payloads from a filesystem.
type Reader struct {
	fs afero.Fs
}

// NewReader returns a Reader over fs.
func NewReader(fs afero.Fs) *Reader {
	return &Reader{fs: fs}
}

// ReadImage reads in and identifies its image format.
func (r *Reader) ReadImage(in types.InputFile) (*Image, error) {
	data, err := r.read(in)
	if err != nil {
		return nil, err
	}
	info, err := document.InspectImage(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", in.Path, err)
	}
	return &Image{
		Name:   in.Name,
		Data:   data,
		Format: info.Format,
		Width:  info.Width,
		Height: info.Height,
	}, nil
}

// ReadDocument reads the full binary content of in.
func (r *Reader) ReadDocument(in types.InputFile) ([]byte, error) {
	return r.read(in)
}

func (r *Reader) read(in types.InputFile) ([]byte, error) {
	info, err := r.fs.Stat(in.Path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", in.Path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("reading %s: is a directory", in.Path)
	}
	data, err := afero.ReadFile(r.fs, in.Path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", in.Path, err)
	}
	return data, nil
}

// Expand turns paths into an ordered input selection. Paths keep their
// argument order. A path containing glob metacharacters expands to its
// matches in lexical order and must match at least one file.
func Expand(fs afero.Fs, paths []string) ([]types.InputFile, error) {
	var files []types.InputFile
	for _, p := range paths {
		if !hasMeta(p) {
			files = append(files, NewInputFile(p))
			continue
		}
		matches, err := afero.Glob(fs, p)
		if err != nil {
			return nil, fmt.Errorf("expanding %q: %w", p, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("pattern %q matched no files", p)
		}
		sort.Strings(matches)
		for _, m := range matches {
			files = append(files, NewInputFile(m))
		}
	}
	return files, nil
}

// NewInputFile builds an InputFile named after the base of path.
func NewInputFile(path string) types.InputFile {
	return types.InputFile{Name: filepath.Base(path), Path: path}
}

func hasMeta(path string) bool {
	return strings.ContainsAny(path, `*?[`)
}
