// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the data structures shared by the pdfbinder
// pipelines, sink, journal and CLI.
package types

// Output artifact names and their MIME type.
const (
	ImagesFileName = "converted_images.pdf"
	MergedFileName = "merged_documents.pdf"
	PDFMimeType    = "application/pdf"
)

// InputFile is one entry of an ordered input selection. Order in the
// enclosing slice determines page order in the output.
type InputFile struct {
	// Name is the display name (usually the base name of Path).
	Name string `json:"name" yaml:"name"`

	// Path is the location of the file on the host filesystem.
	Path string `json:"path" yaml:"path"`
}

// RunKind identifies which pipeline produced a run.
type RunKind string

const (
	RunImages RunKind = "images"
	RunMerge  RunKind = "merge"
)

// SinkMethod identifies how the output buffer was persisted.
type SinkMethod string

const (
	MethodNone      SinkMethod = "none"
	MethodDirectory SinkMethod = "directory"
	MethodDownload  SinkMethod = "download"
)

// RunStatus is the terminal state of a pipeline run.
type RunStatus string

const (
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)
