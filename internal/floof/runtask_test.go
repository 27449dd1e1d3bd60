// Copyright (C) 2020 The floof Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package floof_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codeactual/floof/internal/floof"
)

func TestRunTaskOpRunsTargetTaskSequentially(t *testing.T) {
	cfg := &floof.Config{Tasks: map[string]*floof.TaskSpec{
		"build": {Name: "build", Operations: []floof.OperationSpec{
			{Keyword: "command", Body: "true"},
		}},
	}}

	op := &floof.RunTaskOp{Name: "build", Config: cfg}
	res := floof.Run(context.Background(), op, floof.NewRootFrame())
	require.Equal(t, floof.Success, res.Outcome)
}

func TestRunTaskOpUnknownTaskIsFailure(t *testing.T) {
	cfg := &floof.Config{Tasks: map[string]*floof.TaskSpec{}}
	op := &floof.RunTaskOp{Name: "missing", Config: cfg}
	res := floof.Run(context.Background(), op, floof.NewRootFrame())
	require.Equal(t, floof.Failure, res.Outcome)
	require.Error(t, res.Err)
}
