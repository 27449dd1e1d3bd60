// Copyright (C) 2020 The floof Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package floof

import (
	"context"
	"net/url"

	"go.uber.org/zap"

	cagetime "github.com/codeactual/floof/internal/cage/time"
	"github.com/codeactual/floof/internal/floof/errkind"
	"github.com/codeactual/floof/internal/floof/fspath"
	"github.com/codeactual/floof/internal/floof/httpdev"
)

// HttpOp binds the dev server described by its fields, publishes a Reloader into
// its frame's scope for sibling/descendant Reload operations, and blocks until
// cancelled (spec.md §4.8). Proxy and Serve are mutually exclusive.
type HttpOp struct {
	Proxy string
	Serve string
	Addr  string

	Logger *zap.Logger
}

func (h *HttpOp) Keyword() string { return "http" }

func (h *HttpOp) Start(ctx context.Context, frame *Frame) *RunningOperation {
	running := NewRunningOperation()
	go h.run(ctx, frame, running)
	return running
}

func (h *HttpOp) run(ctx context.Context, frame *Frame, running *RunningOperation) {
	cfg := httpdev.Config{
		Addr:   h.Addr,
		Inject: true,
		Clock:  cagetime.RealClock{},
		Logger: h.Logger,
	}

	if h.Proxy != "" {
		target, err := url.Parse(h.Proxy)
		if err != nil {
			running.Finish(Result{Outcome: Failure, Err: errkind.New(errkind.Config, "invalid proxy target: "+h.Proxy, err)})
			return
		}
		cfg.ProxyTarget = target
	} else {
		closest, _ := GetVar[WorkDir](frame)
		root, _ := GetRootVar[WorkDir](frame)

		serve := h.Serve
		if serve == "" {
			serve = "."
		}
		dir, err := fspath.Join(serve, string(closest), string(root))
		if err != nil {
			running.Finish(Result{Outcome: Failure, Err: errkind.New(errkind.Config, "invalid serve path: "+h.Serve, err)})
			return
		}
		cfg.StaticDir = dir
	}

	server, err := httpdev.New(cfg)
	if err != nil {
		running.Finish(Result{Outcome: Failure, Err: err})
		return
	}

	if err := server.Start(); err != nil {
		running.Finish(Result{Outcome: Failure, Err: err})
		return
	}

	reloadCtx, cancelReload := context.WithCancel(ctx)
	defer cancelReload()
	go server.HandleReloads(reloadCtx)

	SetVar[Reloader](frame, server.Reloader())

	<-running.CancelCh()
	cancelReload()
	_ = server.Shutdown(context.Background())
	running.Finish(Result{Outcome: Cancelled})
}

var _ Operation = (*HttpOp)(nil)
