// Copyright (C) 2020 The floof Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package floof_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codeactual/floof/internal/floof"
)

func TestCopyOpCopiesFile(t *testing.T) {
	dir, err := os.MkdirTemp("", "floof-copy")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	src := filepath.Join(dir, "src.txt")
	require.NoError(t, os.WriteFile(src, []byte("hello"), 0o644))
	dst := filepath.Join(dir, "dst.txt")

	op := &floof.CopyOp{Src: src, Dst: dst}
	res := floof.Run(context.Background(), op, floof.NewRootFrame())
	require.Equal(t, floof.Success, res.Outcome)

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, "hello", string(got))
}

func TestCopyOpMissingSourceIsFailure(t *testing.T) {
	dir, err := os.MkdirTemp("", "floof-copy-missing")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	op := &floof.CopyOp{Src: filepath.Join(dir, "nope"), Dst: filepath.Join(dir, "dst")}
	res := floof.Run(context.Background(), op, floof.NewRootFrame())
	require.Equal(t, floof.Failure, res.Outcome)
	require.Error(t, res.Err)
}
