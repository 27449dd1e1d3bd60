// Copyright (C) 2020 The floof Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package errkind defines the error taxonomy raised by the operation runtime.
//
// Every kind wraps an underlying cause (usually produced with github.com/pkg/errors)
// so callers can still walk the cause chain while also recovering which
// taxonomy bucket an error belongs to via errors.As.
package errkind

import "fmt"

// Kind identifies which bucket of the taxonomy an error belongs to.
type Kind string

const (
	// Config covers validation of the configuration file: missing fields, unknown
	// keywords, invalid parent/child nesting, a RunTask referencing a missing task,
	// an empty command, a cyclical RunTask graph.
	Config Kind = "config"

	// Path covers a referenced path that does not exist, or is not a directory where
	// one is required.
	Path Kind = "path"

	// Spawn covers a child process that could not be started.
	Spawn Kind = "spawn"

	// Supervision covers an I/O error while waiting on or killing a child process.
	Supervision Kind = "supervision"

	// Watcher covers a filesystem notifier failure on setup or delivery.
	Watcher Kind = "watcher"

	// Bind covers an HTTP/WS bind failure.
	Bind Kind = "bind"

	// Upstream is non-fatal: it is surfaced as a synthetic HTTP response rather than
	// aborting the operation tree.
	Upstream Kind = "upstream"

	// NoReloaderInScope covers a Reload operation run outside any Http operation's frame.
	NoReloaderInScope Kind = "no_reloader_in_scope"
)

// Error associates a Kind with an underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New returns an *Error of the given Kind wrapping cause, which may be nil.
func New(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Is reports whether err (or any error in its chain) is an *Error of the given Kind.
func Is(err error, kind Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			if e.Kind == kind {
				return true
			}
			err = e.Cause
			continue
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
