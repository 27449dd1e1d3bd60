// Copyright (C) 2020 The floof Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package floof_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codeactual/floof/internal/floof"
)

func TestSetWorkDirOpPublishesWorkDir(t *testing.T) {
	dir, err := os.MkdirTemp("", "floof-setworkdir")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	root := floof.NewRootFrame()
	op := &floof.SetWorkDirOp{Path: dir}
	res := floof.Run(context.Background(), op, root)
	require.Equal(t, floof.Success, res.Outcome)

	v, ok := floof.GetVar[floof.WorkDir](root)
	require.True(t, ok)
	require.Equal(t, floof.WorkDir(dir), v)
}

func TestSetWorkDirOpRejectsMissingPath(t *testing.T) {
	root := floof.NewRootFrame()
	op := &floof.SetWorkDirOp{Path: "/floof/does/not/exist"}
	res := floof.Run(context.Background(), op, root)
	require.Equal(t, floof.Failure, res.Outcome)
}

func TestSetWorkDirOpRejectsFile(t *testing.T) {
	f, err := os.CreateTemp("", "floof-setworkdir-file")
	require.NoError(t, err)
	defer os.Remove(f.Name())
	f.Close()

	root := floof.NewRootFrame()
	op := &floof.SetWorkDirOp{Path: f.Name()}
	res := floof.Run(context.Background(), op, root)
	require.Equal(t, floof.Failure, res.Outcome)
}
