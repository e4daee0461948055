// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package platform describes host capabilities that the output sink
// depends on. The host resolves them once at startup and injects them.
package platform

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/pdiddy/pdfbinder/pkg/types"
)

// Capabilities reports what the host environment supports.
type Capabilities struct {
	// DirectoryAccess reports whether the user can choose a folder to write
	// into from within the application.
	DirectoryAccess bool
}

// Resolve derives Capabilities from the configured mode. In auto mode
// directory access is available when the user can be prompted (interactive)
// or a folder was preselected.
func Resolve(mode types.DirectoryAccessMode, interactive bool, presetDir string) (Capabilities, error) {
	switch mode {
	case types.DirectoryAccessOn:
		return Capabilities{DirectoryAccess: true}, nil
	case types.DirectoryAccessOff:
		return Capabilities{DirectoryAccess: false}, nil
	case types.DirectoryAccessAuto, "":
		return Capabilities{DirectoryAccess: interactive || presetDir != ""}, nil
	default:
		return Capabilities{}, fmt.Errorf("unknown directory access mode %q: use auto, on, or off", mode)
	}
}

// Interactive reports whether f is attached to a terminal.
func Interactive(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
