// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package binder runs one user action end to end: it drives a pipeline,
// hands the finished buffer to the output sink, records the run, and emits
// exactly one terminal notice.
package binder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/pdfbinder/internal/journal"
	"github.com/pdiddy/pdfbinder/internal/pipeline"
	"github.com/pdiddy/pdfbinder/internal/sink"
	"github.com/pdiddy/pdfbinder/pkg/types"
)

// Level classifies a notice.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelFailure
)

// Notice is a message shown to the user at the end of a run.
type Notice struct {
	Level   Level
	Message string
}

// Notifier shows notices to the user.
type Notifier interface {
	Notify(n Notice)
}

// Persister is the part of sink.Sink the service needs.
type Persister interface {
	Persist(ctx context.Context, data []byte, name string, choice sink.Choice) (sink.Outcome, error)
}

// Recorder stores finished runs.
type Recorder interface {
	Record(ctx context.Context, run journal.Run) error
}

// action holds the per-pipeline wording and defaults.
type action struct {
	kind        types.RunKind
	defaultName string
	emptyNotice string
	label       string
}

var (
	imagesAction = action{
		kind:        types.RunImages,
		defaultName: types.ImagesFileName,
		emptyNotice: "Please select at least one image.",
		label:       "Images PDF",
	}
	mergeAction = action{
		kind:        types.RunMerge,
		defaultName: types.MergedFileName,
		emptyNotice: "Please select at least one PDF file.",
		label:       "Merged PDF",
	}
)

// Request is the plain data a presentation layer passes for one action.
type Request struct {
	Inputs []types.InputFile

	// OutputName overrides the default artifact name.
	OutputName string

	Choice  sink.Choice
	Options pipeline.Options
}

// reportedError wraps an error the user has already seen as a notice.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func reported(err error) error {
	return &reportedError{err: err}
}

// Reported reports whether err was already shown to the user as a notice,
// so callers need not print it again.
func Reported(err error) bool {
	var r *reportedError
	return errors.As(err, &r)
}

// Report summarizes a finished action.
type Report struct {
	RunID   string
	Result  *pipeline.Result
	Outcome sink.Outcome
}

// Service wires the pipelines to the sink.
type Service struct {
	images  pipeline.Runner
	merge   pipeline.Runner
	sink    Persister
	notify  Notifier
	journal Recorder
	log     zerolog.Logger
	now     func() time.Time
}

// New returns a Service. rec may be nil to disable journaling.
func New(images, merge pipeline.Runner, p Persister, n Notifier, rec Recorder, log zerolog.Logger) *Service {
	return &Service{
		images:  images,
		merge:   merge,
		sink:    p,
		notify:  n,
		journal: rec,
		log:     log,
		now:     time.Now,
	}
}

// ConvertImages turns req.Inputs into one PDF and persists it.
func (s *Service) ConvertImages(ctx context.Context, req Request) (*Report, error) {
	return s.run(ctx, imagesAction, s.images, req)
}

// MergeDocuments merges req.Inputs into one PDF and persists it.
func (s *Service) MergeDocuments(ctx context.Context, req Request) (*Report, error) {
	return s.run(ctx, mergeAction, s.merge, req)
}

func (s *Service) run(ctx context.Context, a action, runner pipeline.Runner, req Request) (*Report, error) {
	if len(req.Inputs) == 0 {
		s.notify.Notify(Notice{Level: LevelFailure, Message: a.emptyNotice})
		return nil, reported(pipeline.ErrNoInput)
	}

	name := req.OutputName
	if name == "" {
		name = a.defaultName
	}
	if req.Options.Logger == nil {
		req.Options.Logger = &s.log
	}

	report := &Report{RunID: journal.NewRunID()}
	entry := journal.Run{
		ID:        report.RunID,
		Kind:      a.kind,
		Inputs:    inputPaths(req.Inputs),
		Method:    types.MethodNone,
		StartedAt: s.now(),
	}

	res, err := runner.Run(ctx, req.Inputs, req.Options)
	if err != nil {
		s.log.Debug().Err(err).Str("run", report.RunID).Str("kind", string(a.kind)).Msg("pipeline failed")
		s.notify.Notify(Notice{Level: LevelFailure, Message: fmt.Sprintf("Failed to create %s: %v", a.label, err)})
		s.record(ctx, entry, err)
		return nil, reported(err)
	}
	report.Result = res
	entry.Pages = res.Pages
	entry.Skipped = res.SkippedFiles

	out, err := s.sink.Persist(ctx, res.Data, name, req.Choice)
	report.Outcome = out
	entry.Method = out.Method
	entry.Path = out.Path
	entry.Bytes = out.Bytes
	if err != nil {
		s.notify.Notify(Notice{Level: LevelFailure, Message: failureMessage(a, err)})
		s.record(ctx, entry, err)
		return report, reported(err)
	}

	s.notify.Notify(Notice{Level: LevelSuccess, Message: successMessage(a, out, res)})
	s.record(ctx, entry, nil)
	return report, nil
}

func (s *Service) record(ctx context.Context, entry journal.Run, runErr error) {
	if s.journal == nil {
		return
	}
	entry.FinishedAt = s.now()
	entry.Status = types.RunSucceeded
	if runErr != nil {
		entry.Status = types.RunFailed
		entry.Error = runErr.Error()
	}
	if err := s.journal.Record(context.WithoutCancel(ctx), entry); err != nil {
		s.log.Warn().Err(err).Str("run", entry.ID).Msg("journal write failed")
	}
}

func successMessage(a action, out sink.Outcome, res *pipeline.Result) string {
	var msg string
	switch out.Method {
	case types.MethodDirectory:
		msg = fmt.Sprintf("%s saved to chosen folder! (%s)", a.label, out.Path)
	default:
		msg = fmt.Sprintf("%s downloaded to %s", a.label, out.Path)
	}
	if n := len(res.SkippedFiles); n > 0 {
		msg += fmt.Sprintf(" (%d file(s) skipped)", n)
	}
	return msg
}

func failureMessage(a action, err error) string {
	if errors.Is(err, sink.ErrCanceled) {
		return fmt.Sprintf("%s not saved: folder selection canceled.", a.label)
	}
	if errors.Is(err, sink.ErrDirectoryWrite) {
		return fmt.Sprintf("Failed to save %s to folder. Run with --log-level error for details.", a.label)
	}
	return fmt.Sprintf("Failed to save %s: %v", a.label, err)
}

func inputPaths(inputs []types.InputFile) []string {
	paths := make([]string, len(inputs))
	for i, in := range inputs {
		paths[i] = in.Path
	}
	return paths
}
