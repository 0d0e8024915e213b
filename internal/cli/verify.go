// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/phar

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/woozymasta/phar"
)

func newVerifyCmd(a *app) *cobra.Command {
	var (
		loc           locateFlags
		requireSigned bool
	)

	cmd := &cobra.Command{
		Use:   "verify <archive>",
		Short: "Check the signature trailer and every entry checksum",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := phar.OpenWithOptions(args[0], a.readerOptions(&loc))
			if err != nil {
				return err
			}
			defer func() { _ = r.Close() }()

			if err := r.CheckCapabilities(); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			sig, err := r.VerifySignature()
			switch {
			case errors.Is(err, phar.ErrNoSignature):
				if requireSigned {
					return err
				}
				_, _ = fmt.Fprintf(w, "%s no signature\n", dim("○"))
			case err != nil:
				return err
			default:
				_, _ = fmt.Fprintf(w, "%s %s signature valid (%s signed)\n",
					green("✓"), sig.Type, formatSize(uint64(sig.SignedSize)))
			}

			entries := r.Entries()
			for _, e := range entries {
				if _, err := r.ReadEntryInfo(e); err != nil {
					return err
				}
				a.logger.Debug("entry verified", "path", e.Path)
			}

			_, err = fmt.Fprintf(w, "%s %d entries verified\n", green("✓"), len(entries))
			return err
		},
	}

	loc.register(cmd)
	cmd.Flags().BoolVar(&requireSigned, "require-signature", false, "Fail when the archive is unsigned")
	return cmd
}
