// Copyright (C) 2020 The floof Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package floof

import "context"

// OnChangeOp wraps exactly one operation and only runs it when the enclosing
// pipeline run was triggered by a filesystem change, i.e. when the closest
// TriggeredByChange frame variable is true (spec.md §4.5). It's a no-op during a
// Watch's initial startup run.
type OnChangeOp struct {
	Wrapped Operation
}

func (o *OnChangeOp) Keyword() string { return "on-change" }

func (o *OnChangeOp) Start(ctx context.Context, frame *Frame) *RunningOperation {
	running := NewRunningOperation()

	triggered, _ := GetVar[TriggeredByChange](frame)
	if !bool(triggered) {
		go running.Finish(Result{Outcome: Success})
		return running
	}

	go o.delegate(ctx, frame, running)
	return running
}

func (o *OnChangeOp) delegate(ctx context.Context, frame *Frame, running *RunningOperation) {
	wrapped := o.Wrapped.Start(ctx, frame)

	select {
	case <-running.CancelCh():
		wrapped.Cancel()
		running.Finish(<-wrapped.Done())
	case res := <-wrapped.Done():
		running.Finish(res)
	}
}

var _ Operation = (*OnChangeOp)(nil)
