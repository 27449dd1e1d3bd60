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
	"time"

	"github.com/stretchr/testify/require"

	"github.com/codeactual/floof/internal/floof"
)

func TestCommandOpSuccess(t *testing.T) {
	op := &floof.CommandOp{Program: "true"}
	res := floof.Run(context.Background(), op, floof.NewRootFrame())
	require.Equal(t, floof.Success, res.Outcome)
	require.NoError(t, res.Err)
}

func TestCommandOpNonZeroExit(t *testing.T) {
	op := &floof.CommandOp{Program: "false"}
	res := floof.Run(context.Background(), op, floof.NewRootFrame())
	require.Equal(t, floof.Failure, res.Outcome)
}

func TestCommandOpUnknownProgramIsFailure(t *testing.T) {
	op := &floof.CommandOp{Program: "floof-does-not-exist-binary"}
	res := floof.Run(context.Background(), op, floof.NewRootFrame())
	require.Equal(t, floof.Failure, res.Outcome)
	require.Error(t, res.Err)
}

func TestCommandOpCancelKillsProcess(t *testing.T) {
	op := &floof.CommandOp{Program: "sleep", Args: []string{"30"}}
	root := floof.NewRootFrame()

	running := op.Start(context.Background(), root)
	time.Sleep(20 * time.Millisecond) // let the process actually start
	running.Cancel()

	select {
	case res := <-running.Done():
		require.Equal(t, floof.Cancelled, res.Outcome)
	case <-time.After(5 * time.Second):
		t.Fatal("cancelled command did not finish")
	}
}

func TestCommandOpResolvesWorkDirFromFrame(t *testing.T) {
	dir, err := os.MkdirTemp("", "floof-command-workdir")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	root := floof.NewRootFrame()
	floof.SetVar(root, floof.WorkDir(dir))

	op := &floof.CommandOp{Program: "pwd"}
	res := floof.Run(context.Background(), op, root)
	require.Equal(t, floof.Success, res.Outcome)
}
