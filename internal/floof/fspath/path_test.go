// Copyright (C) 2020 The floof Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package fspath_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codeactual/floof/internal/floof/fspath"
)

func TestJoinAbsolutePassesThrough(t *testing.T) {
	got, err := fspath.Join("/already/abs", "/closest", "/root")
	require.NoError(t, err)
	require.Equal(t, "/already/abs", got)
}

func TestJoinDotSlashUsesClosestWorkDir(t *testing.T) {
	got, err := fspath.Join("./sub/dir", "/closest", "/root")
	require.NoError(t, err)
	require.Equal(t, filepath.Join("/closest", "sub/dir"), got)
}

func TestJoinBareUsesRootWorkDir(t *testing.T) {
	got, err := fspath.Join("sub/dir", "/closest", "/root")
	require.NoError(t, err)
	require.Equal(t, filepath.Join("/root", "sub/dir"), got)
}

func TestJoinAlwaysReturnsAbsolute(t *testing.T) {
	for _, p := range []string{"/abs", "./rel", "rel"} {
		got, err := fspath.Join(p, "/closest", "/root")
		require.NoError(t, err)
		require.True(t, filepath.IsAbs(got))
	}
}

func TestAppendRejectsEscape(t *testing.T) {
	_, err := fspath.Append("/root/proj", "../../etc/passwd")
	require.Error(t, err)
}

func TestAppendRejectsRelativeRoot(t *testing.T) {
	_, err := fspath.Append("relative", "x")
	require.Error(t, err)
}
