// Copyright (C) 2020 The floof Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package main

import (
	"github.com/pkg/errors"

	"github.com/codeactual/floof/cmd/floof/root"
	"github.com/codeactual/floof/cmd/floof/run"
)

func main() {
	rootCmd := root.NewCommand()
	rootCmd.AddCommand(run.NewCommand())
	if err := rootCmd.Execute(); err != nil {
		panic(errors.Wrap(err, "failed to execute command"))
	}
}
