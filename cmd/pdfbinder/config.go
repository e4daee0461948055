// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/pdiddy/pdfbinder/pkg/types"
)

// setDefaults registers the built-in value of every config key.
func setDefaults(v *viper.Viper) {
	page := types.DefaultPageConfig()
	v.SetDefault("page.size", page.Size)
	v.SetDefault("page.orientation", page.Orientation)
	v.SetDefault("page.unit", page.Unit)
	v.SetDefault("page.margin", page.Margin)

	v.SetDefault("output.save_to_directory", false)
	v.SetDefault("output.directory", "")
	v.SetDefault("output.download_dir", defaultDownloadDir())

	v.SetDefault("platform.directory_access", string(types.DirectoryAccessAuto))

	v.SetDefault("journal.path", defaultJournalPath())
	v.SetDefault("journal.disabled", false)

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
}

// configFrom reads a BinderConfig out of v.
func configFrom(v *viper.Viper) types.BinderConfig {
	return types.BinderConfig{
		Page: types.PageConfig{
			Size:        v.GetString("page.size"),
			Orientation: v.GetString("page.orientation"),
			Unit:        v.GetString("page.unit"),
			Margin:      v.GetFloat64("page.margin"),
		},
		Output: types.OutputConfig{
			SaveToDirectory: v.GetBool("output.save_to_directory"),
			Directory:       expandHome(v.GetString("output.directory")),
			DownloadDir:     expandHome(v.GetString("output.download_dir")),
		},
		Platform: types.PlatformConfig{
			DirectoryAccess: types.DirectoryAccessMode(strings.ToLower(v.GetString("platform.directory_access"))),
		},
		Journal: types.JournalConfig{
			Path:     expandHome(v.GetString("journal.path")),
			Disabled: v.GetBool("journal.disabled"),
		},
		Log: types.LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}
}

func loadConfig() types.BinderConfig {
	return configFrom(viper.GetViper())
}

func defaultDownloadDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "Downloads")
}

func defaultJournalPath() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "pdfbinder", "runs.db")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".pdfbinder", "runs.db")
	}
	return filepath.Join(home, ".local", "share", "pdfbinder", "runs.db")
}

// expandHome replaces a leading "~/" with the user's home directory.
func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
