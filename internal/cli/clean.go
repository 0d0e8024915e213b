// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/phar

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newCleanCmd(a *app) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "clean [archive...]",
		Short: "Remove extracted directories",
		Long: "Remove the extraction directory of each named archive, " +
			"or the whole extract root when no archive is given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			targets := cleanTargets(a, dir, args)

			w := cmd.OutOrStdout()
			var freed int64
			for _, target := range targets {
				if _, err := os.Stat(target); os.IsNotExist(err) {
					_, _ = fmt.Fprintf(w, "%s %s %s\n", dim("○"), target, yellow("not present"))
					continue
				}

				size, err := dirSize(target)
				if err != nil {
					return fmt.Errorf("measure %s: %w", target, err)
				}

				if err := os.RemoveAll(target); err != nil {
					return fmt.Errorf("remove %s: %w", target, err)
				}

				a.logger.Debug("removed", "dir", target, "bytes", size)
				freed += size
				_, _ = fmt.Fprintf(w, "%s %s removed\n", green("✓"), target)
			}

			_, err := fmt.Fprintf(w, "%s freed\n", bold(formatSize(uint64(freed))))
			return err
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Directory to remove instead of configured locations")
	return cmd
}

// cleanTargets resolves directories to remove: explicit dir, per-archive
// directories, or the whole extract root.
func cleanTargets(a *app, dir string, archives []string) []string {
	if dir != "" {
		return []string{dir}
	}

	if len(archives) == 0 {
		return []string{a.cfg.ExtractRoot}
	}

	targets := make([]string, 0, len(archives))
	for _, archive := range archives {
		targets = append(targets, a.cfg.ExtractDir(archive))
	}

	return targets
}
