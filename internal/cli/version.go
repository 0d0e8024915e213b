// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/phar

package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/woozymasta/phar/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of pharx",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s-%s-%s/%s\n",
				bold("pharx"), bold(version.Version), runtime.GOOS, runtime.GOARCH)
			return err
		},
	}
}
