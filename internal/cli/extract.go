// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/phar

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/woozymasta/phar"
)

func newExtractCmd(a *app) *cobra.Command {
	var (
		loc      locateFlags
		dir      string
		verify   bool
		progress bool
	)

	cmd := &cobra.Command{
		Use:   "extract <archive>",
		Short: "Extract an archive into a cached directory and print its path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			archive := args[0]
			readerOpts := a.readerOptions(&loc)

			opts := phar.ExtractOptions{
				Dir:             dir,
				Pattern:         readerOpts.Pattern,
				Offset:          readerOpts.Offset,
				VerifySignature: verify || a.cfg.VerifySignature,
				Logger:          a.logger,
			}
			if opts.Dir == "" {
				opts.Dir = a.cfg.ExtractDir(archive)
			}

			if progress {
				entries, err := phar.ListEntriesWithOptions(archive, readerOpts)
				if err != nil {
					return err
				}

				bar := newProgressBar(cmd.ErrOrStderr(), len(entries), "Extracting")
				opts.OnEntryDone = func(phar.Entry, string) { _ = bar.Add(1) }
				defer func() { _ = bar.Finish() }()
			}

			out, err := phar.Extract(archive, opts)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}

	loc.register(cmd)
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Output directory (default <extract_root>/<archive name>)")
	cmd.Flags().BoolVar(&verify, "verify", false, "Require a valid signature trailer")
	cmd.Flags().BoolVar(&progress, "progress", false, "Show entry progress on stderr")
	return cmd
}
