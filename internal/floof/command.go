// Copyright (C) 2020 The floof Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package floof

import (
	"context"
	"os"
	std_exec "os/exec"

	"go.uber.org/zap"

	cage_zap "github.com/codeactual/floof/internal/cage/log/zap"
	cagetime "github.com/codeactual/floof/internal/cage/time"
	"github.com/codeactual/floof/internal/floof/errkind"
	"github.com/codeactual/floof/internal/floof/exec"
	"github.com/codeactual/floof/internal/floof/fspath"
)

// CommandOp spawns and supervises exactly one child process (spec.md §4.2).
type CommandOp struct {
	Program string
	Args    []string

	// WorkDir, if non-empty, overrides the closest WorkDir per the join rules in
	// spec.md §4.3. Empty means "use the closest WorkDir as-is".
	WorkDir string
}

func (c *CommandOp) Keyword() string { return "command" }

func (c *CommandOp) Start(ctx context.Context, frame *Frame) *RunningOperation {
	running := NewRunningOperation()
	go c.run(frame, running)
	return running
}

func (c *CommandOp) run(frame *Frame, running *RunningOperation) {
	workDir, err := c.resolveWorkDir(frame)
	if err != nil {
		running.Finish(Result{Outcome: Failure, Err: err})
		return
	}

	cmd := std_exec.Command(c.Program, c.Args...) // #nosec G204 -- Command is the spec'd operation for running configured child processes
	cmd.Dir = workDir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	sup := &exec.Supervisor{Cmd: cmd}
	if err := sup.Start(); err != nil {
		logger.Error("failed to start command", cage_zap.Tag("floof", "command"), zap.String("program", c.Program), zap.Error(err))
		running.Finish(Result{Outcome: Failure, Err: err})
		return
	}

	started := cagetime.RealClock{}.Now()
	logger.Debug("command started", cage_zap.Tag("floof", "command"), zap.String("program", c.Program), zap.Strings("args", c.Args))

	status, err := sup.Wait(running.CancelCh())
	elapsed := cagetime.RealClock{}.Now().Sub(started)

	if err != nil {
		running.Finish(Result{Outcome: Failure, Err: errkind.New(errkind.Supervision, "failed to supervise command", err)})
		return
	}

	switch {
	case status.Cancelled:
		logger.Debug("command cancelled", cage_zap.Tag("floof", "command"), zap.String("program", c.Program), zap.String("elapsed", cagetime.DurationShort(elapsed)))
		running.Finish(Result{Outcome: Cancelled})
	case status.Success():
		logger.Debug("command succeeded", cage_zap.Tag("floof", "command"), zap.String("program", c.Program), zap.String("elapsed", cagetime.DurationShort(elapsed)))
		running.Finish(Result{Outcome: Success})
	default:
		logger.Info("command exited non-zero", cage_zap.Tag("floof", "command"), zap.String("program", c.Program), zap.Int("exitCode", status.ExitCode), zap.String("elapsed", cagetime.DurationShort(elapsed)))
		running.Finish(Result{Outcome: Failure})
	}
}

func (c *CommandOp) resolveWorkDir(frame *Frame) (string, error) {
	closest, _ := GetVar[WorkDir](frame)
	root, _ := GetRootVar[WorkDir](frame)

	if c.WorkDir == "" {
		return string(closest), nil
	}

	resolved, err := fspath.Join(c.WorkDir, string(closest), string(root))
	if err != nil {
		return "", errkind.New(errkind.Path, "failed to resolve command workdir", err)
	}
	return resolved, nil
}

var _ Operation = (*CommandOp)(nil)
