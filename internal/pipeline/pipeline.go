// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline implements the two batch pipelines: images to one
// document, and documents merged into one. Both process inputs strictly one
// at a time in selection order and report progress after each file.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/pdiddy/pdfbinder/internal/progress"
	"github.com/pdiddy/pdfbinder/pkg/types"
)

var (
	// ErrNoInput is returned when a run is started without input files.
	ErrNoInput = errors.New("no input files selected")

	// ErrNoPages is returned when every input was skipped.
	ErrNoPages = errors.New("no pages produced")
)

// Options controls a single pipeline run.
type Options struct {
	// Margin is the image inset in document units. Zero places images
	// flush against the top-left corner and page edges.
	Margin float64

	// SkipInvalid skips unreadable or malformed files instead of aborting.
	SkipInvalid bool

	// Progress receives the percentage after reset and after each file.
	Progress progress.Func

	// Status receives one human-readable line per file and a summary.
	Status io.Writer

	// Logger receives diagnostics. Nil disables them.
	Logger *zerolog.Logger
}

func (o Options) withDefaults() (Options, error) {
	if o.Margin < 0 {
		return o, fmt.Errorf("margin %g must not be negative", o.Margin)
	}
	if o.Status == nil {
		o.Status = io.Discard
	}
	if o.Logger == nil {
		nop := zerolog.Nop()
		o.Logger = &nop
	}
	return o, nil
}

// Result is the outcome of a successful run.
type Result struct {
	// Data is the finalized document.
	Data []byte

	// Pages is the number of pages in Data.
	Pages int

	// Added counts files whose content made it into Data.
	Added int

	// SkippedFiles lists the names of files skipped under SkipInvalid.
	SkippedFiles []string

	// Skipped aggregates the errors of skipped files, or is nil.
	Skipped error
}

// Runner is implemented by both pipelines.
type Runner interface {
	Run(ctx context.Context, inputs []types.InputFile, opts Options) (*Result, error)
}

// batch holds the bookkeeping shared by both pipelines: progress, per-file
// status lines, and the skip-or-abort decision.
type batch struct {
	opts    Options
	tracker *progress.Tracker
	result  *Result
	skipped *multierror.Error
}

func newBatch(total int, opts Options) *batch {
	b := &batch{
		opts:    opts,
		tracker: progress.NewTracker(total, opts.Progress),
		result:  &Result{},
	}
	b.tracker.Reset()
	return b
}

// each calls fn for every input in order. fn failures abort the run unless
// SkipInvalid is set. Progress advances once per input either way.
func (b *batch) each(ctx context.Context, inputs []types.InputFile, verb string, fn func(types.InputFile) (int, error)) error {
	for _, in := range inputs {
		if err := ctx.Err(); err != nil {
			return err
		}

		pages, err := fn(in)
		if err != nil {
			if !b.opts.SkipInvalid {
				fmt.Fprintf(b.opts.Status, "failed:  %s (%v)\n", in.Name, err)
				b.opts.Logger.Debug().Err(err).Str("file", in.Path).Msg("aborting run")
				return err
			}
			fmt.Fprintf(b.opts.Status, "skipped: %s (%v)\n", in.Name, err)
			b.opts.Logger.Warn().Err(err).Str("file", in.Path).Msg("skipping input")
			b.skipped = multierror.Append(b.skipped, fmt.Errorf("%s: %w", in.Name, err))
			b.result.SkippedFiles = append(b.result.SkippedFiles, in.Name)
		} else {
			b.result.Added++
			fmt.Fprintf(b.opts.Status, "%s %s (%d page(s))\n", verb, in.Name, pages)
			b.opts.Logger.Debug().Str("file", in.Path).Int("pages", pages).Msg(verb)
		}

		b.tracker.Advance()
	}
	return nil
}

// finish checks that something was produced and prints the summary line.
func (b *batch) finish(pages int) error {
	b.result.Pages = pages
	b.result.Skipped = b.skipped.ErrorOrNil()
	fmt.Fprintf(b.opts.Status, "\nBatch summary: %d added, %d skipped (total: %d, pages: %d)\n",
		b.result.Added, len(b.result.SkippedFiles), b.tracker.Total(), pages)
	if b.result.Added == 0 {
		return fmt.Errorf("%w: %v", ErrNoPages, b.result.Skipped)
	}
	return nil
}
