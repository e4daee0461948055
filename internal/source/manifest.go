// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdfbinder/pkg/types"
)

// Manifest is the on-disk description of a run: its inputs in page order
// and optional output preferences.
type Manifest struct {
	Inputs          []string `yaml:"inputs"`
	Output          string   `yaml:"output,omitempty"`
	SaveToDirectory *bool    `yaml:"save_to_directory,omitempty"`
	Directory       string   `yaml:"directory,omitempty"`

	// dir is the manifest's own directory; relative paths resolve against it.
	dir string
}

// ReadManifest loads a manifest from path.
func ReadManifest(fs afero.Fs, path string) (*Manifest, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	if m.Output != "" && filepath.Base(m.Output) != m.Output {
		return nil, fmt.Errorf("manifest %s: output %q must be a file name, not a path", path, m.Output)
	}
	m.dir = filepath.Dir(path)
	return &m, nil
}

// Files resolves the manifest inputs into an ordered selection.
func (m *Manifest) Files(fs afero.Fs) ([]types.InputFile, error) {
	paths := make([]string, len(m.Inputs))
	for i, p := range m.Inputs {
		paths[i] = m.resolve(p)
	}
	return Expand(fs, paths)
}

// OutputDirectory returns Directory resolved against the manifest location.
func (m *Manifest) OutputDirectory() string {
	if m.Directory == "" {
		return ""
	}
	return m.resolve(m.Directory)
}

func (m *Manifest) resolve(p string) string {
	if filepath.IsAbs(p) || m.dir == "" {
		return p
	}
	return filepath.Join(m.dir, p)
}
