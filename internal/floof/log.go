// Copyright (C) 2020 The floof Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package floof

import "go.uber.org/zap"

// logger is the process-wide telemetry sink every operation logs through. The CLI
// replaces it at startup via SetLogger; until then it's a no-op so library callers
// and tests never need to configure one.
var logger = zap.NewNop()

// SetLogger installs the process-wide logger used by every Operation.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}
