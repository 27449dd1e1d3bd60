// Copyright (C) 2020 The floof Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package fspath implements the path-join rules shared by the Command and
// SetWorkDir operations (spec.md §4.3).
package fspath

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Join resolves p against the closest WorkDir (closestWorkDir) or, for bare relative
// paths, against the root frame's WorkDir (rootWorkDir):
//
//  1. absolute p -> p, unchanged.
//  2. p beginning with "./" -> closestWorkDir joined with the remainder.
//  3. otherwise -> rootWorkDir joined with p.
//
// The result is always absolute.
func Join(p, closestWorkDir, rootWorkDir string) (string, error) {
	if filepath.IsAbs(p) {
		return p, nil
	}

	if strings.HasPrefix(p, "./") || strings.HasPrefix(p, ".\\") {
		return Append(closestWorkDir, strings.TrimPrefix(strings.TrimPrefix(p, "./"), ".\\"))
	}

	return Append(rootWorkDir, p)
}

// Append joins root and p, requiring root to be absolute and the result to remain
// rooted at (or under) root -- i.e. p cannot escape root via "..".
func Append(root, p string) (string, error) {
	if !filepath.IsAbs(root) {
		return "", errors.Errorf("append root [%s] must be absolute", root)
	}

	joined := filepath.Join(root, p)

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", errors.Wrapf(err, "failed to get absolute path of root [%s]", root)
	}

	if joined != absRoot && !strings.HasPrefix(joined, absRoot+string(filepath.Separator)) {
		return "", errors.Errorf("path [%s] escapes root [%s]", p, root)
	}

	return joined, nil
}
