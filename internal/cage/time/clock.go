// Copyright (C) 2020 The floof Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package time provides a mockable Clock/Timer pair so debounce and
// readiness-polling logic can be tested without real sleeps.
package time

import (
	std_time "time"
)

// Clock abstracts time.Now and time.NewTimer for tests.
type Clock interface {
	Now() std_time.Time
	NewTimer(std_time.Duration) Timer
	Sleep(std_time.Duration)
}

// RealClock is the production Clock backed by the standard library.
type RealClock struct{}

// Now returns the current UTC time.Time (unlike the standard lib which returns local).
func (r RealClock) Now() std_time.Time {
	return std_time.Now().UTC()
}

func (r RealClock) NewTimer(d std_time.Duration) Timer {
	return &RealTimer{t: std_time.NewTimer(d)}
}

func (r RealClock) Sleep(d std_time.Duration) {
	std_time.Sleep(d)
}

var _ Clock = (*RealClock)(nil)
