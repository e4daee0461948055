// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pdfbinder CLI. It converts an
// ordered set of images into one PDF and merges an ordered set of PDFs
// into one.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pdfbinder/internal/binder"
	"github.com/pdiddy/pdfbinder/internal/logging"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is configured in PersistentPreRunE once flags and config are known.
var logger = zerolog.Nop()

// rootCmd is the base command for the pdfbinder CLI.
var rootCmd = &cobra.Command{
	Use:   "pdfbinder",
	Short: "Bind images into a PDF or merge PDFs into one",
	Long: `pdfbinder turns a batch of JPEG, PNG or GIF images into a single PDF
with one image per page, and merges several PDF documents into one, keeping
every page in selection order.

The result is saved to a folder of your choice (--save-to-dir) or, by
default, to the download directory without overwriting earlier files.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}
		cfg := loadConfig()
		logger = logging.New(cfg.Log, os.Stderr)
		if used := viper.ConfigFileUsed(); used != "" {
			logger.Info().Str("file", used).Msg("using config file")
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pdfbinder.yaml or ~/.config/pdfbinder/pdfbinder.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "diagnostic log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "diagnostic log format: console or json")

	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

func initConfig() {
	setDefaults(viper.GetViper())

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pdfbinder")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pdfbinder"))
		}
	}

	viper.SetEnvPrefix("PDFBINDER")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, "Error reading config:", err)
		}
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	os.Exit(exitCode(err, os.Stderr))
}

// exitCode prints err unless a notice already showed it, and returns the
// process exit status.
func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return 0
	}
	if !binder.Reported(err) {
		fmt.Fprintln(stderr, "Error:", err)
	}
	return 1
}
