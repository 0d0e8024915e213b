// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/phar

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/woozymasta/phar"
)

func newBoundaryCmd(a *app) *cobra.Command {
	var (
		pattern string
		open    bool
	)

	cmd := &cobra.Command{
		Use:   "boundary <archive>",
		Short: "Print the offset right after the end-of-stub pattern",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			offset, err := phar.FindBoundary(args[0], a.stubPattern(pattern, open))
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), offset)
			return err
		},
	}

	cmd.Flags().StringVar(&pattern, "pattern", "", "End-of-stub pattern (default from config)")
	cmd.Flags().BoolVar(&open, "open", false, "Use the CRLF-terminated end-of-stub pattern")
	return cmd
}
