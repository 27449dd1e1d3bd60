// Copyright (C) 2020 The floof Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package floof

import (
	"context"

	"github.com/pkg/errors"

	"github.com/codeactual/floof/internal/floof/errkind"
)

// RunTaskOp forks a Task frame for Name and runs that task's operations
// sequentially (spec.md §4.7). Cycles among RunTaskOp references are rejected at
// config-validation time (spec.md §9), so Start here never recurses infinitely.
type RunTaskOp struct {
	Name   string
	Config *Config
}

func (r *RunTaskOp) Keyword() string { return "run-task" }

func (r *RunTaskOp) Start(ctx context.Context, frame *Frame) *RunningOperation {
	running := NewRunningOperation()
	go r.run(ctx, frame, running)
	return running
}

func (r *RunTaskOp) run(ctx context.Context, frame *Frame, running *RunningOperation) {
	task, ok := r.Config.Tasks[r.Name]
	if !ok {
		running.Finish(Result{Outcome: Failure, Err: errkind.New(errkind.Config, "run-task references unknown task: "+r.Name, nil)})
		return
	}

	ops, err := BuildOperations(r.Config, task.Operations)
	if err != nil {
		running.Finish(Result{Outcome: Failure, Err: errors.Wrapf(err, "run-task [%s]", r.Name)})
		return
	}

	taskFrame := frame.ForkTask(r.Name)
	res := runOperations(ctx, taskFrame, ops, running.CancelCh())
	if res.Err != nil {
		res.Err = errors.Wrapf(res.Err, "run-task [%s]", r.Name)
	}
	running.Finish(res)
}

var _ Operation = (*RunTaskOp)(nil)
