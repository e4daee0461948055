// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/pdiddy/pdfbinder/internal/binder"
	"github.com/pdiddy/pdfbinder/internal/progress"
)

// colorNotifier prints notices with a colored marker.
type colorNotifier struct {
	out io.Writer
}

func (n colorNotifier) Notify(notice binder.Notice) {
	var marker string
	switch notice.Level {
	case binder.LevelSuccess:
		marker = color.New(color.FgGreen, color.Bold).Sprint("✓")
	case binder.LevelFailure:
		marker = color.New(color.FgRed, color.Bold).Sprint("✗")
	default:
		marker = color.New(color.FgCyan).Sprint("ℹ")
	}
	fmt.Fprintf(n.out, "%s %s\n", marker, notice.Message)
}

// progressUI renders pipeline progress as a bar scaled to 100 and shows a
// spinner while the document is finalized and saved.
type progressUI struct {
	bar     *progressbar.ProgressBar
	spinner *spinner.Spinner
}

// newProgressUI returns nil when disabled; a nil *progressUI is a no-op.
func newProgressUI(enabled bool, w io.Writer, description string) *progressUI {
	if !enabled {
		return nil
	}
	bar := progressbar.NewOptions(100,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
	)

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = " finalizing document"

	return &progressUI{bar: bar, spinner: s}
}

// Func returns the callback handed to the pipeline.
func (p *progressUI) Func() progress.Func {
	if p == nil {
		return nil
	}
	return func(pct float64) {
		_ = p.bar.Set(int(pct))
		if pct >= 100 {
			p.spinner.Start()
		}
	}
}

// Stop halts the spinner. Safe to call more than once.
func (p *progressUI) Stop() {
	if p == nil {
		return
	}
	p.spinner.Stop()
}
