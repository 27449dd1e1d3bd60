// Copyright (C) 2020 The floof Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package floof

import (
	"context"

	cage_file "github.com/codeactual/floof/internal/cage/os/file"
	"github.com/codeactual/floof/internal/floof/errkind"
	"github.com/codeactual/floof/internal/floof/fspath"
)

// CopyOp recursively copies Src to Dst, resolving both against the current frame's
// WorkDir per the join rules in spec.md §4.3. This is a real copy, not the no-op stub
// one revision of the original left unspecified (spec.md §9).
type CopyOp struct {
	Src string
	Dst string
}

func (c *CopyOp) Keyword() string { return "copy" }

func (c *CopyOp) Start(ctx context.Context, frame *Frame) *RunningOperation {
	running := NewRunningOperation()
	go c.run(frame, running)
	return running
}

func (c *CopyOp) run(frame *Frame, running *RunningOperation) {
	closest, _ := GetVar[WorkDir](frame)
	root, _ := GetRootVar[WorkDir](frame)

	src, err := fspath.Join(c.Src, string(closest), string(root))
	if err != nil {
		running.Finish(Result{Outcome: Failure, Err: errkind.New(errkind.Path, "failed to resolve copy src", err)})
		return
	}

	dst, err := fspath.Join(c.Dst, string(closest), string(root))
	if err != nil {
		running.Finish(Result{Outcome: Failure, Err: errkind.New(errkind.Path, "failed to resolve copy dst", err)})
		return
	}

	if err := cage_file.Copy(src, dst); err != nil {
		running.Finish(Result{Outcome: Failure, Err: errkind.New(errkind.Path, "failed to copy", err)})
		return
	}

	running.Finish(Result{Outcome: Success})
}

var _ Operation = (*CopyOp)(nil)
