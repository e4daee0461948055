// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package binder

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pdfbinder/internal/journal"
	"github.com/pdiddy/pdfbinder/internal/pipeline"
	"github.com/pdiddy/pdfbinder/internal/sink"
	"github.com/pdiddy/pdfbinder/pkg/types"
)

type fakeRunner struct {
	calls  int
	result *pipeline.Result
	err    error
}

func (f *fakeRunner) Run(_ context.Context, _ []types.InputFile, _ pipeline.Options) (*pipeline.Result, error) {
	f.calls++
	return f.result, f.err
}

type fakePersister struct {
	calls   int
	gotName string
	gotData []byte
	outcome sink.Outcome
	err     error
}

func (f *fakePersister) Persist(_ context.Context, data []byte, name string, _ sink.Choice) (sink.Outcome, error) {
	f.calls++
	f.gotName = name
	f.gotData = data
	return f.outcome, f.err
}

type recordingNotifier struct {
	notices []Notice
}

func (r *recordingNotifier) Notify(n Notice) {
	r.notices = append(r.notices, n)
}

type fakeRecorder struct {
	runs []journal.Run
	err  error
}

func (f *fakeRecorder) Record(_ context.Context, run journal.Run) error {
	f.runs = append(f.runs, run)
	return f.err
}

func inputs(names ...string) []types.InputFile {
	out := make([]types.InputFile, len(names))
	for i, n := range names {
		out[i] = types.InputFile{Name: n, Path: "/in/" + n}
	}
	return out
}

type fixture struct {
	images, merge *fakeRunner
	persister     *fakePersister
	notifier      *recordingNotifier
	recorder      *fakeRecorder
	svc           *Service
}

func newFixture() *fixture {
	f := &fixture{
		images:    &fakeRunner{result: &pipeline.Result{Data: []byte("img"), Pages: 2, Added: 2}},
		merge:     &fakeRunner{result: &pipeline.Result{Data: []byte("pdf"), Pages: 5, Added: 2}},
		persister: &fakePersister{outcome: sink.Outcome{Method: types.MethodDownload, Path: "/dl/out.pdf", Bytes: 3}},
		notifier:  &recordingNotifier{},
		recorder:  &fakeRecorder{},
	}
	f.svc = New(f.images, f.merge, f.persister, f.notifier, f.recorder, zerolog.Nop())
	return f
}

func TestEmptySelection(t *testing.T) {
	tests := []struct {
		name   string
		run    func(*Service) (*Report, error)
		notice string
	}{
		{
			name: "images",
			run: func(s *Service) (*Report, error) {
				return s.ConvertImages(context.Background(), Request{})
			},
			notice: "Please select at least one image.",
		},
		{
			name: "merge",
			run: func(s *Service) (*Report, error) {
				return s.MergeDocuments(context.Background(), Request{})
			},
			notice: "Please select at least one PDF file.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			report, err := tt.run(f.svc)

			assert.ErrorIs(t, err, pipeline.ErrNoInput)
			assert.True(t, Reported(err))
			assert.Nil(t, report)
			require.Len(t, f.notifier.notices, 1)
			assert.Equal(t, tt.notice, f.notifier.notices[0].Message)
			assert.Equal(t, LevelFailure, f.notifier.notices[0].Level)
			assert.Zero(t, f.images.calls)
			assert.Zero(t, f.merge.calls)
			assert.Zero(t, f.persister.calls)
			assert.Empty(t, f.recorder.runs)
		})
	}
}

func TestConvertImagesDownload(t *testing.T) {
	f := newFixture()

	report, err := f.svc.ConvertImages(context.Background(), Request{Inputs: inputs("a.jpg", "b.png")})
	require.NoError(t, err)

	assert.Equal(t, 1, f.images.calls)
	assert.Zero(t, f.merge.calls)
	assert.Equal(t, types.ImagesFileName, f.persister.gotName)
	assert.Equal(t, []byte("img"), f.persister.gotData)
	assert.Equal(t, "/dl/out.pdf", report.Outcome.Path)

	require.Len(t, f.notifier.notices, 1)
	assert.Equal(t, LevelSuccess, f.notifier.notices[0].Level)
	assert.Contains(t, f.notifier.notices[0].Message, "/dl/out.pdf")

	require.Len(t, f.recorder.runs, 1)
	run := f.recorder.runs[0]
	assert.Equal(t, report.RunID, run.ID)
	assert.Equal(t, types.RunImages, run.Kind)
	assert.Equal(t, types.RunSucceeded, run.Status)
	assert.Equal(t, []string{"/in/a.jpg", "/in/b.png"}, run.Inputs)
	assert.Equal(t, 2, run.Pages)
	assert.Equal(t, types.MethodDownload, run.Method)
	assert.False(t, run.FinishedAt.Before(run.StartedAt))
}

func TestMergeDocumentsDirectory(t *testing.T) {
	f := newFixture()
	f.persister.outcome = sink.Outcome{Method: types.MethodDirectory, Path: "/out/merged_documents.pdf", Bytes: 3}

	_, err := f.svc.MergeDocuments(context.Background(), Request{
		Inputs: inputs("a.pdf", "b.pdf"),
		Choice: sink.Choice{SaveToDirectory: true},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, f.merge.calls)
	assert.Zero(t, f.images.calls)
	assert.Equal(t, types.MergedFileName, f.persister.gotName)
	require.Len(t, f.notifier.notices, 1)
	assert.Contains(t, f.notifier.notices[0].Message, "Merged PDF saved to chosen folder!")
	assert.Equal(t, types.MethodDirectory, f.recorder.runs[0].Method)
}

func TestOutputNameOverride(t *testing.T) {
	f := newFixture()

	_, err := f.svc.MergeDocuments(context.Background(), Request{Inputs: inputs("a.pdf"), OutputName: "report.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", f.persister.gotName)
}

func TestSkippedFilesInNotice(t *testing.T) {
	f := newFixture()
	f.images.result.SkippedFiles = []string{"bad.txt"}

	_, err := f.svc.ConvertImages(context.Background(), Request{Inputs: inputs("a.jpg", "bad.txt")})
	require.NoError(t, err)
	assert.Contains(t, f.notifier.notices[0].Message, "1 file(s) skipped")
	assert.Equal(t, []string{"bad.txt"}, f.recorder.runs[0].Skipped)
}

func TestPipelineFailure(t *testing.T) {
	f := newFixture()
	f.images.result = nil
	f.images.err = errors.New("broken header")

	report, err := f.svc.ConvertImages(context.Background(), Request{Inputs: inputs("a.jpg")})
	require.Error(t, err)
	assert.True(t, Reported(err))
	assert.Equal(t, "broken header", err.Error())
	assert.Nil(t, report)

	assert.Zero(t, f.persister.calls)
	require.Len(t, f.notifier.notices, 1)
	assert.Equal(t, LevelFailure, f.notifier.notices[0].Level)
	assert.Contains(t, f.notifier.notices[0].Message, "broken header")

	require.Len(t, f.recorder.runs, 1)
	assert.Equal(t, types.RunFailed, f.recorder.runs[0].Status)
	assert.Equal(t, types.MethodNone, f.recorder.runs[0].Method)
	assert.Equal(t, "broken header", f.recorder.runs[0].Error)
}

func TestSinkFailure(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
	}{
		{
			name:    "canceled",
			err:     sink.ErrCanceled,
			message: "folder selection canceled",
		},
		{
			name:    "directory write",
			err:     errors.Join(sink.ErrDirectoryWrite, errors.New("disk full")),
			message: "Failed to save Merged PDF to folder",
		},
		{
			name:    "download",
			err:     errors.New("no space"),
			message: "no space",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.persister.outcome = sink.Outcome{Method: types.MethodDirectory}
			f.persister.err = tt.err

			report, err := f.svc.MergeDocuments(context.Background(), Request{Inputs: inputs("a.pdf")})
			require.ErrorIs(t, err, tt.err)
			assert.True(t, Reported(err))
			require.NotNil(t, report)

			require.Len(t, f.notifier.notices, 1)
			assert.Equal(t, LevelFailure, f.notifier.notices[0].Level)
			assert.Contains(t, f.notifier.notices[0].Message, tt.message)
			assert.Equal(t, types.RunFailed, f.recorder.runs[0].Status)
		})
	}
}

func TestJournalFailureDoesNotFailRun(t *testing.T) {
	f := newFixture()
	f.recorder.err = errors.New("database is locked")

	_, err := f.svc.ConvertImages(context.Background(), Request{Inputs: inputs("a.jpg")})
	require.NoError(t, err)
	require.Len(t, f.notifier.notices, 1)
	assert.Equal(t, LevelSuccess, f.notifier.notices[0].Level)
}

func TestNilJournal(t *testing.T) {
	f := newFixture()
	svc := New(f.images, f.merge, f.persister, f.notifier, nil, zerolog.Nop())

	_, err := svc.ConvertImages(context.Background(), Request{Inputs: inputs("a.jpg")})
	require.NoError(t, err)
	assert.Equal(t, 1, f.persister.calls)
}

func TestReported(t *testing.T) {
	assert.False(t, Reported(nil))
	assert.False(t, Reported(errors.New("plain")))

	err := fmt.Errorf("running images: %w", reported(pipeline.ErrNoPages))
	assert.True(t, Reported(err))
	assert.ErrorIs(t, err, pipeline.ErrNoPages)
}
