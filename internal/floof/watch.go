// Copyright (C) 2020 The floof Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package floof

import (
	"context"
	"io/fs"
	"path/filepath"
	std_time "time"

	"go.uber.org/zap"

	cage_zap "github.com/codeactual/floof/internal/cage/log/zap"
	cage_file "github.com/codeactual/floof/internal/cage/os/file"
	"github.com/codeactual/floof/internal/cage/os/file/watcher"
	cagetime "github.com/codeactual/floof/internal/cage/time"
	"github.com/codeactual/floof/internal/floof/errkind"
	"github.com/codeactual/floof/internal/floof/fspath"
)

// DefaultDebounce is Watch's default settle window (spec.md §4.4).
const DefaultDebounce = 500 * std_time.Millisecond

// preDebounce coalesces duplicate fsnotify events fired when both a file and its
// parent directory are watched, mirroring the teacher's boone.PreDebounce constant.
const preDebounce = 500 * std_time.Millisecond

type watchState int

const (
	watchStateRunStartup watchState = iota
	watchStateRunChange
	watchStateWaitingForChange
	watchStateDebouncing
)

// WatchOp implements the 4-state debounce machine in spec.md §4.4: Paths are watched
// recursively, FS activity cancels any in-flight run of Run and collapses into a
// single re-run once the debounce window settles.
type WatchOp struct {
	Paths    []string
	Run      []Operation
	Debounce std_time.Duration // 0 means DefaultDebounce

	// Clock is overridable in tests; nil means cagetime.RealClock{}.
	Clock cagetime.Clock
}

func (w *WatchOp) Keyword() string { return "watch" }

func (w *WatchOp) Start(ctx context.Context, frame *Frame) *RunningOperation {
	running := NewRunningOperation()
	go w.run(ctx, frame, running)
	return running
}

func (w *WatchOp) run(ctx context.Context, frame *Frame, running *RunningOperation) {
	closest, _ := GetVar[WorkDir](frame)
	root, _ := GetRootVar[WorkDir](frame)

	resolvedPaths := make([]string, 0, len(w.Paths))
	for _, p := range w.Paths {
		resolved, err := fspath.Join(p, string(closest), string(root))
		if err != nil {
			running.Finish(Result{Outcome: Failure, Err: errkind.New(errkind.Path, "failed to resolve watch path: "+p, err)})
			return
		}
		exists, _, err := cage_file.Exists(resolved)
		if err != nil {
			running.Finish(Result{Outcome: Failure, Err: errkind.New(errkind.Path, "failed to stat watch path: "+p, err)})
			return
		}
		if !exists {
			running.Finish(Result{Outcome: Failure, Err: errkind.New(errkind.Path, "watch path does not exist: "+resolved, nil)})
			return
		}
		resolvedPaths = append(resolvedPaths, resolved)
	}

	// The fsnotify handle is owned by this goroutine for its entire lifetime and closed
	// only on return, so it always outlives the state machine it feeds (spec.md §9).
	fsWatcher := &watcher.Fsnotify{}
	fsWatcher.Debounce(preDebounce)
	defer func() { _ = fsWatcher.Close() }()

	sub := &watchSubscriber{
		events:    make(chan struct{}, 1),
		errs:      make(chan error, 1),
		fsWatcher: fsWatcher,
	}
	_ = fsWatcher.AddSubscriber(sub)

	for _, p := range resolvedPaths {
		if err := registerRecursive(fsWatcher, p); err != nil {
			running.Finish(Result{Outcome: Failure, Err: errkind.New(errkind.Watcher, "failed to register watch path: "+p, err)})
			return
		}
	}

	clock := w.Clock
	if clock == nil {
		clock = cagetime.RealClock{}
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	state := watchStateRunStartup
	inner := w.startPipeline(ctx, frame, false)
	var timer cagetime.Timer

	for {
		switch state {
		case watchStateRunStartup, watchStateRunChange:
			select {
			case <-running.CancelCh():
				inner.Cancel()
				<-inner.Done()
				running.Finish(Result{Outcome: Cancelled})
				return
			case <-sub.events:
				inner.Cancel()
				<-inner.Done()
				logger.Debug("watch run interrupted by fs event", cage_zap.Tag("floof", "watch"), zap.Strings("paths", resolvedPaths))
				timer = clock.NewTimer(debounce)
				state = watchStateDebouncing
			case err := <-sub.errs:
				inner.Cancel()
				<-inner.Done()
				running.Finish(Result{Outcome: Failure, Err: errkind.New(errkind.Watcher, "watcher error", err)})
				return
			case <-inner.Done():
				state = watchStateWaitingForChange
			}

		case watchStateWaitingForChange:
			select {
			case <-running.CancelCh():
				running.Finish(Result{Outcome: Cancelled})
				return
			case <-sub.events:
				timer = clock.NewTimer(debounce)
				state = watchStateDebouncing
			case err := <-sub.errs:
				running.Finish(Result{Outcome: Failure, Err: errkind.New(errkind.Watcher, "watcher error", err)})
				return
			}

		case watchStateDebouncing:
			select {
			case <-running.CancelCh():
				timer.Stop()
				running.Finish(Result{Outcome: Cancelled})
				return
			case <-sub.events:
				timer.Reset(debounce)
			case err := <-sub.errs:
				timer.Stop()
				running.Finish(Result{Outcome: Failure, Err: errkind.New(errkind.Watcher, "watcher error", err)})
				return
			case <-timer.C():
				logger.Debug("watch debounce settled, re-running", cage_zap.Tag("floof", "watch"), zap.String("debounce", cagetime.DurationShort(debounce)))
				inner = w.startPipeline(ctx, frame, true)
				state = watchStateRunChange
			}
		}
	}
}

// startPipeline runs Run sequentially in a fresh Operation frame, publishing
// TriggeredByChange before the first operation starts (spec.md §4.4/§4.5).
func (w *WatchOp) startPipeline(ctx context.Context, frame *Frame, triggeredByChange bool) *RunningOperation {
	running := NewRunningOperation()
	go func() {
		pipelineFrame := frame.ForkOperation("watch-run")
		SetVar(pipelineFrame, TriggeredByChange(triggeredByChange))
		res := runOperations(ctx, pipelineFrame, w.Run, running.CancelCh())
		running.Finish(res)
	}()
	return running
}

// registerRecursive walks root (if a directory) and registers every directory found,
// since the underlying fsnotify watch is non-recursive on its own.
func registerRecursive(fsWatcher watcher.Watcher, root string) error {
	exists, fi, err := cage_file.Exists(root)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	if !fi.IsDir() {
		return fsWatcher.AddPath(root)
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return fsWatcher.AddPath(path)
		}
		return nil
	})
}

// watchSubscriber receives events/errors from the Fsnotify monitor goroutine and
// coalesces them into unit signals for the state machine above, additionally
// registering newly created directories so recursive watches stay current.
type watchSubscriber struct {
	events    chan struct{}
	errs      chan error
	fsWatcher watcher.Watcher
}

func (s *watchSubscriber) Event(e watcher.Event) {
	if e.Op == watcher.Create {
		if exists, fi, err := cage_file.Exists(e.Path); err == nil && exists && fi.IsDir() {
			_ = s.fsWatcher.AddPath(e.Path)
		}
	}

	select {
	case s.events <- struct{}{}:
	default:
	}
}

func (s *watchSubscriber) Error(err error) {
	select {
	case s.errs <- err:
	default:
	}
}

var _ watcher.Subscriber = (*watchSubscriber)(nil)
var _ Operation = (*WatchOp)(nil)
