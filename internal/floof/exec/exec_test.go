// Copyright (C) 2020 The floof Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package exec_test

import (
	std_exec "os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/codeactual/floof/internal/floof/exec"
)

func TestWaitReturnsSuccessStatus(t *testing.T) {
	sup := &exec.Supervisor{Cmd: std_exec.Command("true")}
	require.NoError(t, sup.Start())

	status, err := sup.Wait(make(chan struct{}))
	require.NoError(t, err)
	require.True(t, status.Success())
	require.False(t, status.Cancelled)
}

func TestWaitReturnsNonZeroExitCode(t *testing.T) {
	sup := &exec.Supervisor{Cmd: std_exec.Command("false")}
	require.NoError(t, sup.Start())

	status, err := sup.Wait(make(chan struct{}))
	require.NoError(t, err)
	require.False(t, status.Success())
	require.Equal(t, 1, status.ExitCode)
}

func TestWaitKillsOnCancel(t *testing.T) {
	sup := &exec.Supervisor{Cmd: std_exec.Command("sleep", "30")}
	require.NoError(t, sup.Start())

	cancel := make(chan struct{})
	doneCh := make(chan struct{})

	var status exec.Status
	go func() {
		status, _ = sup.Wait(cancel)
		close(doneCh)
	}()

	close(cancel)

	select {
	case <-doneCh:
	case <-time.After(5 * time.Second):
		t.Fatal("Wait did not return after cancel")
	}

	require.True(t, status.Cancelled)
	require.False(t, status.Success())
}

func TestStartUnknownCommandReturnsSpawnError(t *testing.T) {
	sup := &exec.Supervisor{Cmd: std_exec.Command("floof-does-not-exist-anywhere")}
	err := sup.Start()
	require.Error(t, err)
}
