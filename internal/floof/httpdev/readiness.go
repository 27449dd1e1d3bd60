// Copyright (C) 2020 The floof Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package httpdev

import (
	"context"
	"net"
	"net/url"
	std_time "time"

	"github.com/pkg/errors"

	cagetime "github.com/codeactual/floof/internal/cage/time"
	"github.com/codeactual/floof/internal/floof/errkind"
)

const (
	// readinessPollInterval is how often WaitReady dials the upstream target.
	readinessPollInterval = 20 * std_time.Millisecond

	// readinessDeadline bounds how long WaitReady will retry before giving up.
	readinessDeadline = 30 * std_time.Second
)

// WaitReady blocks until a TCP connection to target succeeds, the deadline elapses, or
// ctx is cancelled. In proxy mode the server calls it before dropping the control
// sessions on a reload request, so browsers don't reload before the upstream accepts
// connections again.
func WaitReady(ctx context.Context, clock cagetime.Clock, target *url.URL) error {
	deadline := clock.Now().Add(readinessDeadline)
	timer := clock.NewTimer(readinessPollInterval)
	defer timer.Stop()

	for {
		conn, err := net.Dial("tcp", target.Host)
		if err == nil {
			_ = conn.Close()
			return nil
		}

		if clock.Now().After(deadline) {
			return errkind.New(errkind.Upstream, "upstream never became ready: "+target.Host, err)
		}

		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "readiness wait cancelled")
		case <-timer.C():
			timer.Reset(readinessPollInterval)
		}
	}
}
