// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/pdiddy/pdfbinder/internal/binder"
	"github.com/pdiddy/pdfbinder/internal/document"
	"github.com/pdiddy/pdfbinder/internal/journal"
	"github.com/pdiddy/pdfbinder/internal/pipeline"
	"github.com/pdiddy/pdfbinder/internal/platform"
	"github.com/pdiddy/pdfbinder/internal/sink"
	"github.com/pdiddy/pdfbinder/internal/source"
	"github.com/pdiddy/pdfbinder/pkg/types"
)

// addRunFlags registers the flags shared by the images and merge commands.
func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("save-to-dir", false, "save to a chosen folder instead of the download directory")
	cmd.Flags().String("dir", "", "folder to save into (implies --save-to-dir)")
	cmd.Flags().String("output", "", "output file name (default depends on the command)")
	cmd.Flags().String("manifest", "", "YAML manifest listing inputs and output preferences")
	cmd.Flags().Bool("skip-invalid", false, "skip unreadable files instead of aborting the run")
	cmd.Flags().String("download-dir", "", "download directory (default: ~/Downloads)")
	cmd.Flags().Bool("no-progress", false, "disable the progress bar")
}

// runSettings is everything one invocation needs, resolved from flags,
// manifest and config.
type runSettings struct {
	Inputs      []types.InputFile
	OutputName  string
	Choice      sink.Choice
	Directory   string
	DownloadDir string
	SkipInvalid bool
	Progress    bool
	Config      types.BinderConfig
}

// resolveSettings merges flags over the manifest over config. Flags win
// only when set explicitly.
func resolveSettings(cmd *cobra.Command, args []string, fsys afero.Fs, cfg types.BinderConfig) (*runSettings, error) {
	flags := cmd.Flags()
	manifestPath, _ := flags.GetString("manifest")

	s := &runSettings{
		Choice:      sink.Choice{SaveToDirectory: cfg.Output.SaveToDirectory},
		Directory:   cfg.Output.Directory,
		DownloadDir: cfg.Output.DownloadDir,
		Config:      cfg,
	}

	if manifestPath != "" {
		if len(args) > 0 {
			return nil, fmt.Errorf("--manifest cannot be combined with file arguments")
		}
		m, err := source.ReadManifest(fsys, manifestPath)
		if err != nil {
			return nil, err
		}
		if s.Inputs, err = m.Files(fsys); err != nil {
			return nil, err
		}
		s.OutputName = m.Output
		if m.SaveToDirectory != nil {
			s.Choice.SaveToDirectory = *m.SaveToDirectory
		}
		if dir := m.OutputDirectory(); dir != "" {
			s.Directory = dir
		}
	} else {
		inputs, err := source.Expand(fsys, args)
		if err != nil {
			return nil, err
		}
		s.Inputs = inputs
	}

	if flags.Changed("output") {
		s.OutputName, _ = flags.GetString("output")
	}
	if flags.Changed("save-to-dir") {
		s.Choice.SaveToDirectory, _ = flags.GetBool("save-to-dir")
	}
	if flags.Changed("dir") {
		s.Directory, _ = flags.GetString("dir")
		s.Choice.SaveToDirectory = true
	}
	if flags.Changed("download-dir") {
		s.DownloadDir, _ = flags.GetString("download-dir")
	}
	s.SkipInvalid, _ = flags.GetBool("skip-invalid")
	noProgress, _ := flags.GetBool("no-progress")
	s.Progress = !noProgress

	return s, nil
}

// pausingPicker stops the spinner before prompting so the prompt stays
// readable.
type pausingPicker struct {
	sink.DirectoryPicker
	ui *progressUI
}

func (p pausingPicker) PickDirectory(ctx context.Context) (string, error) {
	p.ui.Stop()
	return p.DirectoryPicker.PickDirectory(ctx)
}

// newPicker returns the folder picker for the directory path, or nil when
// the platform has no directory access. With access but no preselected
// folder the user is asked on in; a closed or empty input cancels.
func newPicker(fsys afero.Fs, dir string, caps platform.Capabilities, in io.Reader, ui *progressUI) sink.DirectoryPicker {
	switch {
	case !caps.DirectoryAccess:
		return nil
	case dir != "":
		return sink.StaticPicker{Dir: dir}
	default:
		return pausingPicker{DirectoryPicker: sink.NewPromptPicker(fsys, in, os.Stderr, ""), ui: ui}
	}
}

// openJournal opens the run journal. Failures are logged and disable
// journaling for this invocation.
func openJournal(cfg types.JournalConfig, log zerolog.Logger) (binder.Recorder, func()) {
	if cfg.Disabled || cfg.Path == "" {
		return nil, func() {}
	}
	store, err := journal.Open(cfg.Path)
	if err != nil {
		log.Warn().Err(err).Str("path", cfg.Path).Msg("run journal unavailable")
		return nil, func() {}
	}
	return store, func() {
		if err := store.Close(); err != nil {
			log.Warn().Err(err).Msg("closing run journal")
		}
	}
}

// runAction wires the pipelines, sink and journal for one invocation and
// runs kind.
func runAction(cmd *cobra.Command, args []string, kind types.RunKind) error {
	fsys := afero.NewOsFs()
	cfg := loadConfig()

	s, err := resolveSettings(cmd, args, fsys, cfg)
	if err != nil {
		return err
	}

	interactive := platform.Interactive(os.Stdin)
	caps, err := platform.Resolve(cfg.Platform.DirectoryAccess, interactive, s.Directory)
	if err != nil {
		return err
	}

	description := "Converting images"
	if kind == types.RunMerge {
		description = "Merging documents"
	}
	ui := newProgressUI(s.Progress && platform.Interactive(os.Stderr) && len(s.Inputs) > 0, os.Stderr, description)
	defer ui.Stop()

	out := sink.New(fsys, caps, newPicker(fsys, s.Directory, caps, cmd.InOrStdin(), ui),
		sink.NewFileDownloader(fsys, s.DownloadDir), logger)

	rec, closeJournal := openJournal(cfg.Journal, logger)
	defer closeJournal()

	reader := source.NewReader(fsys)
	svc := binder.New(
		pipeline.NewImagePipeline(reader, document.FpdfFactory(cfg.Page)),
		pipeline.NewMergePipeline(reader, document.NewPdfcpuMerger()),
		out,
		uiNotifier{ui: ui, next: colorNotifier{out: cmd.OutOrStdout()}},
		rec,
		logger,
	)

	req := binder.Request{
		Inputs:     s.Inputs,
		OutputName: s.OutputName,
		Choice:     s.Choice,
		Options: pipeline.Options{
			Margin:      cfg.Page.Margin,
			SkipInvalid: s.SkipInvalid,
			Progress:    ui.Func(),
			Status:      statusWriter(ui, cmd.OutOrStdout()),
			Logger:      &logger,
		},
	}

	if kind == types.RunMerge {
		_, err = svc.MergeDocuments(cmd.Context(), req)
	} else {
		_, err = svc.ConvertImages(cmd.Context(), req)
	}
	return err
}

// uiNotifier stops the spinner before a notice is printed.
type uiNotifier struct {
	ui   *progressUI
	next binder.Notifier
}

func (n uiNotifier) Notify(notice binder.Notice) {
	n.ui.Stop()
	n.next.Notify(notice)
}

// statusWriter keeps per-file lines off the terminal while the bar is
// drawn; they still reach the diagnostics log at debug level.
func statusWriter(ui *progressUI, out io.Writer) io.Writer {
	if ui != nil {
		return io.Discard
	}
	return out
}
