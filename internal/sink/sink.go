// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sink persists a finished document exactly once, either into a
// folder the user picks or into the download location.
package sink

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/pdiddy/pdfbinder/internal/platform"
	"github.com/pdiddy/pdfbinder/pkg/types"
)

var (
	// ErrCanceled is returned when the user declines to choose a folder.
	ErrCanceled = errors.New("folder selection canceled")

	// ErrDirectoryWrite wraps every failure of the directory path.
	ErrDirectoryWrite = errors.New("saving to folder failed")
)

// Choice is the user's per-run output preference.
type Choice struct {
	SaveToDirectory bool
}

// Outcome describes where a buffer ended up.
type Outcome struct {
	Method types.SinkMethod
	Path   string
	Bytes  int
}

// DirectoryPicker lets the user choose a folder. Implementations return
// ErrCanceled when the user backs out.
type DirectoryPicker interface {
	PickDirectory(ctx context.Context) (string, error)
}

// Downloader saves a buffer to the default download location and returns
// the final path.
type Downloader interface {
	Download(ctx context.Context, name, mimeType string, data []byte) (string, error)
}

// Sink routes buffers to the directory path or the download path.
type Sink struct {
	fs         afero.Fs
	caps       platform.Capabilities
	picker     DirectoryPicker
	downloader Downloader
	log        zerolog.Logger
}

// New returns a Sink. picker may be nil when caps lacks directory access.
func New(fs afero.Fs, caps platform.Capabilities, picker DirectoryPicker, downloader Downloader, log zerolog.Logger) *Sink {
	return &Sink{
		fs:         fs,
		caps:       caps,
		picker:     picker,
		downloader: downloader,
		log:        log,
	}
}

// UsesDirectory reports whether choice selects the directory path.
func (s *Sink) UsesDirectory(choice Choice) bool {
	return choice.SaveToDirectory && s.caps.DirectoryAccess && s.picker != nil
}

// Persist writes data under name through exactly one path. A failure on
// the directory path is returned as ErrDirectoryWrite and never falls back
// to a download.
func (s *Sink) Persist(ctx context.Context, data []byte, name string, choice Choice) (Outcome, error) {
	if s.UsesDirectory(choice) {
		out := Outcome{Method: types.MethodDirectory}
		path, err := s.writeToDirectory(ctx, data, name)
		if err != nil {
			s.log.Error().Err(err).Str("file", name).Msg("saving to folder failed")
			return out, fmt.Errorf("%w: %w", ErrDirectoryWrite, err)
		}
		out.Path = path
		out.Bytes = len(data)
		s.log.Info().Str("path", path).Int("bytes", len(data)).Msg("saved to folder")
		return out, nil
	}

	out := Outcome{Method: types.MethodDownload}
	path, err := s.downloader.Download(ctx, name, types.PDFMimeType, data)
	if err != nil {
		s.log.Error().Err(err).Str("file", name).Msg("download failed")
		return out, err
	}
	out.Path = path
	out.Bytes = len(data)
	s.log.Info().Str("path", path).Int("bytes", len(data)).Msg("downloaded")
	return out, nil
}

// writeToDirectory creates or truncates name inside the picked folder. The
// file handle is closed on every path.
func (s *Sink) writeToDirectory(ctx context.Context, data []byte, name string) (path string, err error) {
	dir, err := s.picker.PickDirectory(ctx)
	if err != nil {
		return "", err
	}
	ok, err := afero.DirExists(s.fs, dir)
	if err != nil {
		return "", fmt.Errorf("checking folder %s: %w", dir, err)
	}
	if !ok {
		return "", fmt.Errorf("folder %s does not exist", dir)
	}

	path = filepath.Join(dir, name)
	f, err := s.fs.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()

	if _, err := f.Write(data); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
