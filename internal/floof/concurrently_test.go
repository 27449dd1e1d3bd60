// Copyright (C) 2020 The floof Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package floof_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/codeactual/floof/internal/floof"
)

func TestConcurrentlyAllSucceed(t *testing.T) {
	op := &floof.ConcurrentlyOp{Ops: []floof.Operation{
		&fakeOp{result: floof.Result{Outcome: floof.Success}},
		&fakeOp{result: floof.Result{Outcome: floof.Success}},
	}}
	res := floof.Run(context.Background(), op, floof.NewRootFrame())
	require.Equal(t, floof.Success, res.Outcome)
}

func TestConcurrentlyFirstFailureCancelsSiblings(t *testing.T) {
	sibling := &fakeOp{waitForCancel: true, cancelledWith: floof.Result{Outcome: floof.Cancelled}}
	op := &floof.ConcurrentlyOp{Ops: []floof.Operation{
		&fakeOp{result: floof.Result{Outcome: floof.Failure}},
		sibling,
	}}

	done := make(chan floof.Result, 1)
	go func() { done <- floof.Run(context.Background(), op, floof.NewRootFrame()) }()

	select {
	case res := <-done:
		require.Equal(t, floof.Failure, res.Outcome)
	case <-time.After(5 * time.Second):
		t.Fatal("concurrently did not propagate sibling failure")
	}
}

func TestConcurrentlyCancelStopsAllChildren(t *testing.T) {
	op := &floof.ConcurrentlyOp{Ops: []floof.Operation{
		&fakeOp{waitForCancel: true, cancelledWith: floof.Result{Outcome: floof.Cancelled}},
		&fakeOp{waitForCancel: true, cancelledWith: floof.Result{Outcome: floof.Cancelled}},
	}}

	root := floof.NewRootFrame()
	running := op.Start(context.Background(), root)
	running.Cancel()

	select {
	case res := <-running.Done():
		require.Equal(t, floof.Cancelled, res.Outcome)
	case <-time.After(5 * time.Second):
		t.Fatal("concurrently did not cancel in time")
	}
}
