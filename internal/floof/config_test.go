// Copyright (C) 2020 The floof Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package floof_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codeactual/floof/internal/floof"
)

func TestParseConfigBareStringShorthandIsACommand(t *testing.T) {
	cfg, err := floof.ParseConfig([]byte(`
default: go build ./...
`), "/root")
	require.NoError(t, err)
	require.Len(t, cfg.Tasks["default"].Operations, 1)
	require.Equal(t, "command", cfg.Tasks["default"].Operations[0].Keyword)
	require.Equal(t, "go build ./...", cfg.Tasks["default"].Operations[0].Body)
}

func TestParseConfigExplicitStringListIsACommand(t *testing.T) {
	cfg, err := floof.ParseConfig([]byte(`
default:
  - [go, build, ./...]
`), "/root")
	require.NoError(t, err)
	ops := cfg.Tasks["default"].Operations
	require.Len(t, ops, 1)
	require.Equal(t, "command", ops[0].Keyword)
	require.Equal(t, []string{"go", "build", "./..."}, ops[0].Body)
}

func TestParseConfigSingleKeyTaggedMapOperation(t *testing.T) {
	cfg, err := floof.ParseConfig([]byte(`
default:
  - copy:
      src: a.txt
      dst: b.txt
`), "/root")
	require.NoError(t, err)
	ops := cfg.Tasks["default"].Operations
	require.Len(t, ops, 1)
	require.Equal(t, "copy", ops[0].Keyword)
}

func TestParseConfigSingleOperationTaskShorthand(t *testing.T) {
	cfg, err := floof.ParseConfig([]byte(`
default:
  copy:
    src: a.txt
    dst: b.txt
`), "/root")
	require.NoError(t, err)
	ops := cfg.Tasks["default"].Operations
	require.Len(t, ops, 1)
	require.Equal(t, "copy", ops[0].Keyword)
}

func TestParseConfigNestedWatchConcurrentlyOnChange(t *testing.T) {
	cfg, err := floof.ParseConfig([]byte(`
default:
  - watch:
      paths: [src]
      debounce: 250
      run:
        - concurrently:
            - go test ./...
        - on-change: go vet ./...
`), "/root")
	require.NoError(t, err)

	ops := cfg.Tasks["default"].Operations
	require.Len(t, ops, 1)
	require.Equal(t, "watch", ops[0].Keyword)
}

func TestParseConfigOnChangeUnderConcurrentlyIsRejectedEvenInsideWatch(t *testing.T) {
	_, err := floof.ParseConfig([]byte(`
default:
  - watch:
      paths: [src]
      run:
        - concurrently:
            - go test ./...
            - on-change: go vet ./...
`), "/root")
	require.Error(t, err, "on-change's direct parent is concurrently here, not watch, so it must be rejected")
}

func TestParseConfigRunTaskReferencingUnknownTaskFails(t *testing.T) {
	_, err := floof.ParseConfig([]byte(`
default:
  - run-task: missing
`), "/root")
	require.Error(t, err)
}

func TestParseConfigRunTaskCycleIsRejected(t *testing.T) {
	_, err := floof.ParseConfig([]byte(`
a:
  - run-task: b
b:
  - run-task: a
`), "/root")
	require.Error(t, err)
}

func TestParseConfigOnChangeOutsideWatchIsRejected(t *testing.T) {
	_, err := floof.ParseConfig([]byte(`
default:
  - on-change: go vet ./...
`), "/root")
	require.Error(t, err)
}

func TestParseConfigHttpRequiresExactlyOneOfProxyOrServe(t *testing.T) {
	_, err := floof.ParseConfig([]byte(`
default:
  - http:
      proxy: http://localhost:3000
      serve: ./public
`), "/root")
	require.Error(t, err)

	_, err = floof.ParseConfig([]byte(`
default:
  - http:
      serve: ./public
`), "/root")
	require.NoError(t, err)
}

func TestParseConfigRejectsUnrecognizedKeyword(t *testing.T) {
	_, err := floof.ParseConfig([]byte(`
default:
  - bogus: whatever
`), "/root")
	require.Error(t, err)
}

func TestParseConfigInvalidYAMLFails(t *testing.T) {
	_, err := floof.ParseConfig([]byte(`default: [`), "/root")
	require.Error(t, err)
}
