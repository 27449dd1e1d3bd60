// Copyright (C) 2020 The floof Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package httpdev_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codeactual/floof/internal/floof/httpdev"
)

func TestInjectBeforeLastBodyClose(t *testing.T) {
	script := httpdev.ReloadScript(9001)
	in := []byte("<html><body><p>hi</p></body></html>")
	out := string(httpdev.InjectReloadScript(in, script))

	require.True(t, strings.Contains(out, "<script>"))
	require.True(t, strings.Index(out, "<script>") < strings.Index(out, "</body>"))
}

func TestInjectIgnoresBodyCloseInsideComment(t *testing.T) {
	script := httpdev.ReloadScript(9001)
	in := []byte("<html><body><!-- </body> --><p>hi</p></body></html>")
	out := string(httpdev.InjectReloadScript(in, script))

	first := strings.Index(out, "</body>")
	scriptIdx := strings.Index(out, "<script>")
	last := strings.LastIndex(out, "</body>")

	require.True(t, scriptIdx > first)
	require.True(t, scriptIdx < last)
}

func TestInjectAppendsWhenNoBodyTag(t *testing.T) {
	script := httpdev.ReloadScript(9001)
	in := []byte("plain text, no html structure")
	out := string(httpdev.InjectReloadScript(in, script))

	require.True(t, strings.HasSuffix(out, "</script>"))
}

func TestInjectIsIdempotent(t *testing.T) {
	script := httpdev.ReloadScript(9001)
	in := []byte("<html><body></body></html>")
	once := httpdev.InjectReloadScript(in, script)
	twice := httpdev.InjectReloadScript(once, script)

	require.Equal(t, once, twice)
}
