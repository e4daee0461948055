// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sink

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// FileDownloader saves buffers into a download directory the way a browser
// does: the payload is first written to a transient part file, then moved
// to a name that does not clobber an earlier download.
type FileDownloader struct {
	fs  afero.Fs
	dir string
}

// NewFileDownloader returns a downloader writing into dir.
func NewFileDownloader(fs afero.Fs, dir string) *FileDownloader {
	return &FileDownloader{fs: fs, dir: dir}
}

// maxDuplicates bounds the " (N)" suffix search.
const maxDuplicates = 10000

func (d *FileDownloader) Download(ctx context.Context, name, mimeType string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name = withExtension(name, mimeType)

	if err := d.fs.MkdirAll(d.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating download directory %s: %w", d.dir, err)
	}

	tmp, err := afero.TempFile(d.fs, d.dir, "."+name+".*.part")
	if err != nil {
		return "", fmt.Errorf("creating transient file: %w", err)
	}
	tmpPath := tmp.Name()

	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if werr != nil || cerr != nil {
		d.fs.Remove(tmpPath)
		if werr != nil {
			return "", fmt.Errorf("writing %s: %w", tmpPath, werr)
		}
		return "", fmt.Errorf("closing %s: %w", tmpPath, cerr)
	}

	dest, err := d.claim(name)
	if err != nil {
		d.fs.Remove(tmpPath)
		return "", err
	}
	if err := d.fs.Rename(tmpPath, dest); err != nil {
		d.fs.Remove(tmpPath)
		return "", fmt.Errorf("saving %s: %w", dest, err)
	}
	return dest, nil
}

// claim returns the first free path among name, "stem (1).ext", "stem (2).ext", ...
func (d *FileDownloader) claim(name string) (string, error) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	candidate := filepath.Join(d.dir, name)
	for n := 1; n <= maxDuplicates; n++ {
		exists, err := afero.Exists(d.fs, candidate)
		if err != nil {
			return "", fmt.Errorf("checking %s: %w", candidate, err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = filepath.Join(d.dir, fmt.Sprintf("%s (%d)%s", stem, n, ext))
	}
	return "", fmt.Errorf("too many existing copies of %s in %s", name, d.dir)
}

// withExtension appends the extension registered for mimeType when name has
// none.
func withExtension(name, mimeType string) string {
	if filepath.Ext(name) != "" || mimeType == "" {
		return name
	}
	exts, err := mime.ExtensionsByType(mimeType)
	if err != nil || len(exts) == 0 {
		return name
	}
	return name + exts[0]
}
