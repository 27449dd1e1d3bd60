// Copyright (C) 2020 The floof Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package floof

import (
	"context"

	"github.com/codeactual/floof/internal/floof/errkind"
)

// ReloadOp looks up the closest Reloader in scope and enqueues a reload (spec.md
// §4.9). It returns synchronously: Reload only enqueues the request, it never waits
// for the drop to happen.
type ReloadOp struct{}

func (r *ReloadOp) Keyword() string { return "reload" }

func (r *ReloadOp) Start(ctx context.Context, frame *Frame) *RunningOperation {
	running := NewRunningOperation()
	go r.run(frame, running)
	return running
}

func (r *ReloadOp) run(frame *Frame, running *RunningOperation) {
	reloader, ok := GetVar[Reloader](frame)
	if !ok {
		running.Finish(Result{Outcome: Failure, Err: errkind.New(errkind.NoReloaderInScope, "reload has no Http operation in scope", nil)})
		return
	}

	reloader.Reload()
	running.Finish(Result{Outcome: Success})
}

var _ Operation = (*ReloadOp)(nil)
