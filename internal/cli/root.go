// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/phar

// Package cli implements the pharx command tree.
package cli

import (
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/woozymasta/phar"
	"github.com/woozymasta/phar/internal/config"
)

// app carries state shared by subcommands after config is loaded.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	cfgPath string
	verbose bool
	noColor bool
}

// Execute runs the root command with os.Args.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "pharx",
		Short:         "Inspect and extract PHAR archives",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgPath, "config", "", "config file (default $"+config.EnvPath+" or user config dir)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Log debug traces to stderr")
	flags.BoolVar(&a.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		newExtractCmd(a),
		newBoundaryCmd(a),
		newListCmd(a),
		newVerifyCmd(a),
		newCleanCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)

	return rootCmd
}

// load reads config and builds the logger.
func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if a.noColor || cfg.NoColor {
		color.NoColor = true
	}

	level, err := cfg.Level()
	if err != nil {
		return err
	}
	if a.verbose {
		level = slog.LevelDebug
	}

	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return nil
}

// stubPattern resolves pattern from flags first, then config.
func (a *app) stubPattern(pattern string, open bool) []byte {
	switch {
	case pattern != "":
		return []byte(pattern)
	case open:
		return []byte(phar.OpenPattern)
	default:
		return a.cfg.StubPattern()
	}
}

// readerOptions builds reader options from shared locate flags.
func (a *app) readerOptions(loc *locateFlags) phar.ReaderOptions {
	return phar.ReaderOptions{
		Pattern: a.stubPattern(loc.pattern, loc.open),
		Offset:  loc.offset,
	}
}

// locateFlags select how the manifest start is found.
type locateFlags struct {
	pattern string
	offset  int64
	open    bool
}

func (l *locateFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&l.pattern, "pattern", "", "End-of-stub pattern (default from config)")
	cmd.Flags().BoolVar(&l.open, "open", false, "Use the CRLF-terminated end-of-stub pattern")
	cmd.Flags().Int64Var(&l.offset, "offset", 0, "Manifest offset; skips the stub scan when set")
}
