// Copyright (C) 2020 The floof Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package floof

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	cage_zap "github.com/codeactual/floof/internal/cage/log/zap"
	cagetime "github.com/codeactual/floof/internal/cage/time"
	"github.com/codeactual/floof/internal/floof/errkind"
)

// runOperations sequentially executes ops against frame, stopping at the first
// non-Success outcome or at the first sign of cancellation (spec.md §4.10), whichever
// of ctx or cancelCh closes first. It's the shared engine behind the top-level
// TaskRunner, RunTask, and Watch's inner pipeline.
func runOperations(ctx context.Context, frame *Frame, ops []Operation, cancelCh <-chan struct{}) Result {
	for _, op := range ops {
		running := op.Start(ctx, frame)

		select {
		case <-ctx.Done():
			running.Cancel()
			<-running.Done()
			return Result{Outcome: Cancelled}

		case <-cancelCh:
			running.Cancel()
			res := <-running.Done()
			if res.Err != nil {
				return res
			}
			return Result{Outcome: Cancelled}

		case res := <-running.Done():
			if res.Err != nil {
				return Result{Outcome: Failure, Err: errors.Wrapf(res.Err, "operation [%s]", op.Keyword())}
			}
			if !res.Outcome.IsSuccess() {
				return res
			}
		}
	}

	return Result{Outcome: Success}
}

// TaskRunner is the top-level entry point (spec.md §2 item 7, §4.10): it resolves a
// task by name, builds its operations, and runs them sequentially in a fresh Task
// frame forked from root.
type TaskRunner struct {
	Config *Config
}

// Run executes the named task to completion (or cancellation via ctx). Its returned
// Result's Outcome maps to the process exit codes named in spec.md §3.
func (t *TaskRunner) Run(ctx context.Context, root *Frame, taskName string) Result {
	task, ok := t.Config.Tasks[taskName]
	if !ok {
		return Result{Outcome: Failure, Err: errkind.New(errkind.Config, "unknown task: "+taskName, nil)}
	}

	ops, err := BuildOperations(t.Config, task.Operations)
	if err != nil {
		return Result{Outcome: Failure, Err: err}
	}

	taskFrame := root.ForkTask(taskName)
	never := make(chan struct{})

	started := cagetime.RealClock{}.Now()
	logger.Info("task started", cage_zap.Tag("floof", "task"), zap.String("task", taskName))

	res := runOperations(ctx, taskFrame, ops, never)
	elapsed := cagetime.RealClock{}.Now().Sub(started)

	if res.Err != nil {
		res.Err = errors.Wrapf(res.Err, "task [%s]", taskName)
	}
	logger.Info("task finished", cage_zap.Tag("floof", "task"), zap.String("task", taskName), zap.String("outcome", res.Outcome.String()), zap.String("elapsed", cagetime.DurationShort(elapsed)))
	return res
}
