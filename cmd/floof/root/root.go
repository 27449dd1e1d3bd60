// Copyright (C) 2020 The floof Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Root command floof runs the "default" task from a config file. Use the "run"
// subcommand to name a different task.
//
// Usage:
//
//	floof --config /path/to/floof.yaml
package root

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/codeactual/floof/cmd/floof/internal/app"
)

// DefaultTask is run when neither the root command nor "run" names one.
const DefaultTask = "default"

// NewCommand returns the floof root command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "floof",
		Short: "Run the default task from a config file, watching for changes",
		Example: strings.Join([]string{
			"floof --config /path/to/floof.yaml",
		}, "\n"),
	}

	v := BindFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		os.Exit(app.Run(app.ResolveFlags(v), DefaultTask))
		return nil
	}

	return cmd
}

// BindFlags registers the CLI surface named in spec.md §6. It's exported so the
// "run" subcommand can share the exact same flag set without duplicating it.
func BindFlags(cmd *cobra.Command) *viper.Viper {
	return app.BindFlags(cmd)
}
