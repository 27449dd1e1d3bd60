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

func TestOnChangeSkipsWrappedOpWhenNotTriggeredByChange(t *testing.T) {
	ran := false
	spy := &spyOp{inner: &fakeOp{result: floof.Result{Outcome: floof.Success}}, ran: &ran}
	op := &floof.OnChangeOp{Wrapped: spy}

	root := floof.NewRootFrame()
	floof.SetVar(root, floof.TriggeredByChange(false))

	res := floof.Run(context.Background(), op, root)
	require.Equal(t, floof.Success, res.Outcome)
	require.False(t, ran, "wrapped operation must not run on a non-change-triggered frame")
}

func TestOnChangeRunsWrappedOpWhenTriggeredByChange(t *testing.T) {
	ran := false
	spy := &spyOp{inner: &fakeOp{result: floof.Result{Outcome: floof.Success}}, ran: &ran}
	op := &floof.OnChangeOp{Wrapped: spy}

	root := floof.NewRootFrame()
	floof.SetVar(root, floof.TriggeredByChange(true))

	res := floof.Run(context.Background(), op, root)
	require.Equal(t, floof.Success, res.Outcome)
	require.True(t, ran)
}

func TestOnChangeDefaultsToNotRunningWithoutAnyWatchAncestor(t *testing.T) {
	ran := false
	spy := &spyOp{inner: &fakeOp{result: floof.Result{Outcome: floof.Success}}, ran: &ran}
	op := &floof.OnChangeOp{Wrapped: spy}

	res := floof.Run(context.Background(), op, floof.NewRootFrame())
	require.Equal(t, floof.Success, res.Outcome)
	require.False(t, ran)
}

// spyOp records whether it ran before delegating to inner.
type spyOp struct {
	inner floof.Operation
	ran   *bool
}

func (s *spyOp) Keyword() string { return "spy" }

func (s *spyOp) Start(ctx context.Context, frame *floof.Frame) *floof.RunningOperation {
	*s.ran = true
	return s.inner.Start(ctx, frame)
}
