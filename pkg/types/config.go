package types

// PageConfig holds the page geometry used when embedding images.
type PageConfig struct {
	// Size is a page format known to the authoring library (e.g. "A4", "Letter").
	Size string `json:"size" yaml:"size"`

	// Orientation is "P" (portrait) or "L" (landscape).
	Orientation string `json:"orientation" yaml:"orientation"`

	// Unit is the measurement unit for page geometry: "mm", "pt", "cm" or "in".
	Unit string `json:"unit" yaml:"unit"`

	// Margin is the inset from the top-left corner and from each side (default 10).
	Margin float64 `json:"margin" yaml:"margin"`
}

// OutputConfig holds settings for the output sink.
type OutputConfig struct {
	// SaveToDirectory selects the directory path when the platform supports it.
	SaveToDirectory bool `json:"save_to_directory" yaml:"save_to_directory"`

	// Directory preselects the folder for the directory path. When empty the
	// user is prompted.
	Directory string `json:"directory,omitempty" yaml:"directory,omitempty"`

	// DownloadDir is the default download location (default ~/Downloads).
	DownloadDir string `json:"download_dir" yaml:"download_dir"`
}

// DirectoryAccessMode controls how directory-write capability is resolved.
type DirectoryAccessMode string

const (
	DirectoryAccessAuto DirectoryAccessMode = "auto"
	DirectoryAccessOn   DirectoryAccessMode = "on"
	DirectoryAccessOff  DirectoryAccessMode = "off"
)

// PlatformConfig describes host capabilities supplied at startup.
type PlatformConfig struct {
	// DirectoryAccess is "auto" (interactive terminal or preselected folder),
	// "on" or "off".
	DirectoryAccess DirectoryAccessMode `json:"directory_access" yaml:"directory_access"`
}

// JournalConfig holds settings for the run journal.
type JournalConfig struct {
	// Path is the SQLite database file (default ~/.local/share/pdfbinder/runs.db).
	Path string `json:"path" yaml:"path"`

	// Disabled turns off run recording.
	Disabled bool `json:"disabled" yaml:"disabled"`
}

// LogConfig holds diagnostic logging settings.
type LogConfig struct {
	// Level is a zerolog level name (default "warn").
	Level string `json:"level" yaml:"level"`

	// Format is "console" or "json".
	Format string `json:"format" yaml:"format"`
}

// BinderConfig groups all settings for a pdfbinder invocation.
type BinderConfig struct {
	Page     PageConfig     `json:"page" yaml:"page"`
	Output   OutputConfig   `json:"output" yaml:"output"`
	Platform PlatformConfig `json:"platform" yaml:"platform"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
	Log      LogConfig      `json:"log" yaml:"log"`
}

// DefaultPageConfig returns A4 portrait in millimetres with a 10 mm margin.
func DefaultPageConfig() PageConfig {
	return PageConfig{
		Size:        "A4",
		Orientation: "P",
		Unit:        "mm",
		Margin:      10,
	}
}
