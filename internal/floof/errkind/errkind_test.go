// Copyright (C) 2020 The floof Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package errkind_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/codeactual/floof/internal/floof/errkind"
)

func TestIsWalksWrappedCause(t *testing.T) {
	cause := errkind.New(errkind.Path, "root missing", nil)
	wrapped := errors.Wrap(cause, "failed to validate target")

	require.True(t, errkind.Is(wrapped, errkind.Path))
	require.False(t, errkind.Is(wrapped, errkind.Config))
}

func TestErrorMessageIncludesCause(t *testing.T) {
	err := errkind.New(errkind.Spawn, "failed to start", errors.New("not found"))
	require.Contains(t, err.Error(), "not found")
}
