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

// SetWorkDirOp resolves Path and publishes it as the WorkDir for the remainder of its
// frame's scope (spec.md §4.3).
type SetWorkDirOp struct {
	Path string
}

func (s *SetWorkDirOp) Keyword() string { return "set-workdir" }

func (s *SetWorkDirOp) Start(ctx context.Context, frame *Frame) *RunningOperation {
	running := NewRunningOperation()
	go s.run(frame, running)
	return running
}

func (s *SetWorkDirOp) run(frame *Frame, running *RunningOperation) {
	closest, _ := GetVar[WorkDir](frame)
	root, _ := GetRootVar[WorkDir](frame)

	resolved, err := fspath.Join(s.Path, string(closest), string(root))
	if err != nil {
		running.Finish(Result{Outcome: Failure, Err: errkind.New(errkind.Path, "failed to resolve set-workdir path", err)})
		return
	}

	exists, fi, err := cage_file.Exists(resolved)
	if err != nil {
		running.Finish(Result{Outcome: Failure, Err: errkind.New(errkind.Path, "failed to stat set-workdir path", err)})
		return
	}
	if !exists {
		running.Finish(Result{Outcome: Failure, Err: errkind.New(errkind.Path, "set-workdir path does not exist: "+resolved, nil)})
		return
	}
	if !fi.IsDir() {
		running.Finish(Result{Outcome: Failure, Err: errkind.New(errkind.Path, "set-workdir path is not a directory: "+resolved, nil)})
		return
	}

	SetVar(frame, WorkDir(resolved))
	running.Finish(Result{Outcome: Success})
}

var _ Operation = (*SetWorkDirOp)(nil)
