// Copyright (C) 2020 The floof Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Sub-command run executes one named task, defaulting to "default" when omitted.
//
// Usage:
//
//	floof run --config /path/to/floof.yaml TASK
package run

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/codeactual/floof/cmd/floof/internal/app"
	"github.com/codeactual/floof/cmd/floof/root"
)

// NewCommand returns the "run" subcommand.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [task]",
		Short: "Run a named task",
		Args:  cobra.MaximumNArgs(1),
		Example: strings.Join([]string{
			"floof run --config /path/to/floof.yaml build",
		}, "\n"),
	}

	v := root.BindFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		taskName := root.DefaultTask
		if len(args) == 1 {
			taskName = args[0]
		}
		os.Exit(app.Run(app.ResolveFlags(v), taskName))
		return nil
	}

	return cmd
}
