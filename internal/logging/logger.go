// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging builds the zerolog logger used for diagnostics.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/pdfbinder/pkg/types"
)

const defaultLevel = zerolog.WarnLevel

// New returns a logger writing to w (stderr when nil). Format "json" emits
// one JSON object per line; anything else uses the console writer.
func New(cfg types.LogConfig, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}

	var zl zerolog.Logger
	if strings.EqualFold(cfg.Format, "json") {
		zl = zerolog.New(w)
	} else {
		zl = zerolog.New(zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.Kitchen,
			NoColor:    true,
		})
	}

	return zl.Level(ParseLevel(cfg.Level)).With().
		Timestamp().
		Str("app", "pdfbinder").
		Logger()
}

// ParseLevel maps a level name to a zerolog level. Unknown or empty names
// give the default (warn).
func ParseLevel(name string) zerolog.Level {
	if name == "" {
		return defaultLevel
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(name))
	if err != nil {
		return defaultLevel
	}
	return lvl
}
