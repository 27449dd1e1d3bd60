// Copyright (C) 2020 The floof Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package floof

import (
	"context"
	"reflect"
)

// ConcurrentlyOp starts an ordered list of operations together and waits on all of
// them via a fair multi-select (spec.md §4.6). The child count varies over its
// lifetime as children finish, so the select set is built with reflect.Select rather
// than a fixed Go select statement.
type ConcurrentlyOp struct {
	Ops []Operation
}

func (c *ConcurrentlyOp) Keyword() string { return "concurrently" }

func (c *ConcurrentlyOp) Start(ctx context.Context, frame *Frame) *RunningOperation {
	running := NewRunningOperation()
	go c.run(ctx, frame, running)
	return running
}

func (c *ConcurrentlyOp) run(ctx context.Context, frame *Frame, running *RunningOperation) {
	children := make([]*RunningOperation, len(c.Ops))
	for i, op := range c.Ops {
		children[i] = op.Start(ctx, frame)
	}

	remaining := make([]int, len(children))
	for i := range children {
		remaining[i] = i
	}

	cancelAndDrain := func(idxs []int) {
		for _, i := range idxs {
			children[i].Cancel()
		}
		for _, i := range idxs {
			<-children[i].Done()
		}
	}

	for len(remaining) > 0 {
		cases := make([]reflect.SelectCase, 0, len(remaining)+2)
		cases = append(cases, reflect.SelectCase{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(ctx.Done())})
		cases = append(cases, reflect.SelectCase{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(running.CancelCh())})
		for _, i := range remaining {
			cases = append(cases, reflect.SelectCase{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(children[i].Done())})
		}

		chosen, recv, _ := reflect.Select(cases)

		if chosen == 0 || chosen == 1 {
			cancelAndDrain(remaining)
			running.Finish(Result{Outcome: Cancelled})
			return
		}

		childPos := chosen - 2
		res := recv.Interface().(Result)
		remaining = append(remaining[:childPos], remaining[childPos+1:]...)

		if res.Err != nil || !res.Outcome.IsSuccess() {
			cancelAndDrain(remaining)
			running.Finish(res)
			return
		}
	}

	running.Finish(Result{Outcome: Success})
}

var _ Operation = (*ConcurrentlyOp)(nil)
