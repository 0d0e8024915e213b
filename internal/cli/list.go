// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/phar

package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/woozymasta/pathrules"
	"github.com/woozymasta/phar"
)

func newListCmd(a *app) *cobra.Command {
	var (
		loc      locateFlags
		includes []string
		excludes []string
		prefix   string
		long     bool
	)

	cmd := &cobra.Command{
		Use:   "list <archive>",
		Short: "List archive entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manifest, err := phar.ReadManifest(args[0], a.readerOptions(&loc))
			if err != nil {
				return err
			}

			matcher, err := phar.NewEntryMatcher(filterRules(includes, excludes), pathrules.MatcherOptions{})
			if err != nil {
				return err
			}

			entries := phar.FilterEntriesByPrefix(manifest.Entries, prefix)
			entries = phar.FilterEntries(entries, matcher)

			w := cmd.OutOrStdout()
			if !long {
				for _, e := range entries {
					if _, err := fmt.Fprintln(w, phar.DisplayPath(e.Path)); err != nil {
						return err
					}
				}
				return nil
			}

			return printLongList(w, manifest, entries)
		},
	}

	loc.register(cmd)
	cmd.Flags().StringArrayVarP(&includes, "include", "i", nil, "Include pattern (repeatable)")
	cmd.Flags().StringArrayVarP(&excludes, "exclude", "e", nil, "Exclude pattern (repeatable)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Only entries under this path")
	cmd.Flags().BoolVarP(&long, "long", "l", false, "Show sizes, compression and modification time")
	return cmd
}

// filterRules orders includes before excludes so excludes win on overlap.
func filterRules(includes []string, excludes []string) []pathrules.Rule {
	rules := make([]pathrules.Rule, 0, len(includes)+len(excludes))
	for _, p := range includes {
		rules = append(rules, pathrules.Rule{Action: pathrules.ActionInclude, Pattern: p})
	}
	for _, p := range excludes {
		rules = append(rules, pathrules.Rule{Action: pathrules.ActionExclude, Pattern: p})
	}

	return rules
}

func printLongList(w io.Writer, manifest *phar.Manifest, entries []phar.Entry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "SIZE\tPACKED\tMETHOD\tMODIFIED\tPATH")

	var size, packed uint64
	for i := range entries {
		e := &entries[i]
		if e.IsDir() {
			_, _ = fmt.Fprintf(tw, "-\t-\t-\t%s\t%s\n", formatTime(e.ModTime()), cyan(phar.DisplayPath(e.Path)))
			continue
		}

		size += uint64(e.Size)
		packed += uint64(e.CompressedSize)
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			formatSize(uint64(e.Size)),
			formatSize(uint64(e.CompressedSize)),
			e.Compression(),
			formatTime(e.ModTime()),
			phar.DisplayPath(e.Path))
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "%s\n", dim(fmt.Sprintf("%d entries, %s (%s packed), api %s, alias %q",
		len(entries), formatSize(size), formatSize(packed), manifest.Version(), manifest.Alias)))
	return err
}

func formatTime(t time.Time) string {
	if t.Unix() == 0 {
		return "-"
	}

	return t.UTC().Format(time.DateTime)
}
