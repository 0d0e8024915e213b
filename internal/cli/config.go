// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/phar

package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"github.com/woozymasta/phar/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	var initFile bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print effective settings or write a default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfgPath
			if path == "" {
				path = config.DefaultPath()
			}

			w := cmd.OutOrStdout()
			if initFile {
				if path == "" {
					return errors.New("no config path available, pass --config")
				}
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("config %s already exists", path)
				}
				if err := config.Save(path, config.DefaultConfig()); err != nil {
					return err
				}

				_, err := fmt.Fprintf(w, "%s wrote %s\n", green("✓"), path)
				return err
			}

			_, _ = fmt.Fprintf(w, "# %s\n", path)
			return toml.NewEncoder(w).Encode(a.cfg)
		},
	}

	cmd.Flags().BoolVar(&initFile, "init", false, "Write default settings to the config path")
	return cmd
}
