// Copyright (C) 2020 The floof Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package floof

import (
	std_time "time"

	"github.com/pkg/errors"
)

// BuildOperations turns a task's (or a watch/concurrently body's) decoded specs into
// concrete, runnable Operations in order, resolving each one via BuildOperation.
func BuildOperations(cfg *Config, specs []OperationSpec) ([]Operation, error) {
	ops := make([]Operation, 0, len(specs))
	for i, spec := range specs {
		op, err := BuildOperation(cfg, spec)
		if err != nil {
			return nil, errors.Wrapf(err, "operation %d [%s]", i, spec.Keyword)
		}
		ops = append(ops, op)
	}
	return ops, nil
}

// BuildOperation dispatches one OperationSpec to its concrete Operation type. Config
// validation (ParseConfig/validateConfig) already rejected malformed bodies and
// unrecognized keywords, so decode failures here would indicate a bug in that pass
// rather than a user config error.
func BuildOperation(cfg *Config, spec OperationSpec) (Operation, error) {
	switch spec.Keyword {
	case "command":
		cs, err := normalizeCommandBody(spec.Body)
		if err != nil {
			return nil, err
		}
		return &CommandOp{Program: cs.Program, Args: cs.Args, WorkDir: cs.WorkDir}, nil

	case "copy":
		var body copyBody
		if err := decodeBody(spec.Body, &body); err != nil {
			return nil, err
		}
		return &CopyOp{Src: body.Src, Dst: body.Dst}, nil

	case "set-workdir":
		path, _ := spec.Body.(string)
		return &SetWorkDirOp{Path: path}, nil

	case "watch":
		var body watchBody
		if err := decodeBody(spec.Body, &body); err != nil {
			return nil, err
		}
		innerSpecs, err := decodeInnerOperationList(body.Run)
		if err != nil {
			return nil, errors.Wrap(err, "watch [run]")
		}
		innerOps, err := BuildOperations(cfg, innerSpecs)
		if err != nil {
			return nil, errors.Wrap(err, "watch [run]")
		}
		var debounce std_time.Duration
		if body.Debounce > 0 {
			debounce = std_time.Duration(body.Debounce) * std_time.Millisecond
		}
		return &WatchOp{Paths: body.Paths, Run: innerOps, Debounce: debounce}, nil

	case "on-change":
		innerSpec, err := decodeOperationSpec(normalizeSingleOperation(spec.Body))
		if err != nil {
			return nil, err
		}
		wrapped, err := BuildOperation(cfg, innerSpec)
		if err != nil {
			return nil, err
		}
		return &OnChangeOp{Wrapped: wrapped}, nil

	case "http":
		var body httpBody
		if err := decodeBody(spec.Body, &body); err != nil {
			return nil, err
		}
		return &HttpOp{Proxy: body.Proxy, Serve: body.Serve, Addr: body.Addr, Logger: logger}, nil

	case "reload":
		return &ReloadOp{}, nil

	case "run-task":
		name, _ := spec.Body.(string)
		return &RunTaskOp{Name: name, Config: cfg}, nil

	case "concurrently":
		innerSpecs, err := decodeInnerOperationList(spec.Body)
		if err != nil {
			return nil, errors.Wrap(err, "concurrently")
		}
		innerOps, err := BuildOperations(cfg, innerSpecs)
		if err != nil {
			return nil, errors.Wrap(err, "concurrently")
		}
		return &ConcurrentlyOp{Ops: innerOps}, nil

	default:
		return nil, errors.Errorf("unrecognized operation keyword [%s]", spec.Keyword)
	}
}
