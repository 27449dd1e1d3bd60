// Copyright (C) 2020 The floof Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package floof_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codeactual/floof/internal/floof"
)

func TestGetVarReturnsClosestValue(t *testing.T) {
	root := floof.NewRootFrame()
	floof.SetVar(root, floof.WorkDir("/root"))

	task := root.ForkTask("build")
	floof.SetVar(task, floof.WorkDir("/task"))

	op := task.ForkOperation("command")

	v, ok := floof.GetVar[floof.WorkDir](op)
	require.True(t, ok)
	require.Equal(t, floof.WorkDir("/task"), v)
}

func TestGetVarFallsBackToParent(t *testing.T) {
	root := floof.NewRootFrame()
	floof.SetVar(root, floof.WorkDir("/root"))

	task := root.ForkTask("build")
	op := task.ForkOperation("command")

	v, ok := floof.GetVar[floof.WorkDir](op)
	require.True(t, ok)
	require.Equal(t, floof.WorkDir("/root"), v)
}

func TestGetVarMissingReturnsZeroValue(t *testing.T) {
	root := floof.NewRootFrame()
	v, ok := floof.GetVar[floof.WorkDir](root)
	require.False(t, ok)
	require.Equal(t, floof.WorkDir(""), v)
}

func TestGetRootVarReturnsValueClosestToRoot(t *testing.T) {
	root := floof.NewRootFrame()
	floof.SetVar(root, floof.WorkDir("/root"))

	task := root.ForkTask("build")
	floof.SetVar(task, floof.WorkDir("/task"))

	v, ok := floof.GetRootVar[floof.WorkDir](task)
	require.True(t, ok)
	require.Equal(t, floof.WorkDir("/root"), v)
}

func TestFrameKindAndLabel(t *testing.T) {
	root := floof.NewRootFrame()
	require.Equal(t, floof.KindRoot, root.Kind())
	require.Equal(t, "root:root", root.Label())

	task := root.ForkTask("build")
	require.Equal(t, floof.KindTask, task.Kind())
	require.Equal(t, "task:build", task.Label())
	require.Equal(t, root, task.Parent())

	op := task.ForkOperation("command")
	require.Equal(t, floof.KindOperation, op.Kind())
	require.Equal(t, "root > task:build > operation:command", op.Path())
}

func TestSetVarIsScopedToOwningFrameAndDescendants(t *testing.T) {
	root := floof.NewRootFrame()
	taskA := root.ForkTask("a")
	taskB := root.ForkTask("b")

	floof.SetVar(taskA, floof.WorkDir("/a"))

	_, ok := floof.GetVar[floof.WorkDir](taskB)
	require.False(t, ok, "sibling frame must not see taskA's variable")
}
