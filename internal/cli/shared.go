// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/phar

package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/woozymasta/phar"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
)

// Process exit codes, one per error kind.
const (
	ExitOK                = 0
	ExitFailure           = 1
	ExitPatternNotFound   = 3
	ExitTruncatedRead     = 4
	ExitMissingCapability = 5
	ExitCorruptedFile     = 6
	ExitIO                = 7
)

// ExitCode maps err to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	switch phar.KindOf(err) {
	case phar.KindPatternNotFound:
		return ExitPatternNotFound
	case phar.KindTruncatedRead:
		return ExitTruncatedRead
	case phar.KindMissingCapability:
		return ExitMissingCapability
	case phar.KindCorruptedFile:
		return ExitCorruptedFile
	case phar.KindIO:
		return ExitIO
	default:
		return ExitFailure
	}
}

// PrintError writes err with its kind to w.
func PrintError(w io.Writer, err error) {
	kind := phar.KindOf(err)
	if kind == phar.KindUnknown {
		_, _ = fmt.Fprintf(w, "%s %v\n", red("✗"), err)
		return
	}

	_, _ = fmt.Fprintf(w, "%s %v %s\n", red("✗"), err, dim("["+kind.String()+"]"))
}

// newProgressBar renders entry progress on w.
func newProgressBar(w io.Writer, total int, desc string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

// formatSize renders a byte count for humans.
func formatSize(size uint64) string {
	return humanize.Bytes(size)
}

// dirSize sums regular file sizes under root. A missing root is empty.
func dirSize(root string) (int64, error) {
	var total int64
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		total += info.Size()
		return nil
	})
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}

	return total, err
}
