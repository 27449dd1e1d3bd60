// Copyright (C) 2019 The CodeActual Go Environment Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package file

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Exists checks if a file/directory exists.
func Exists(name string) (bool, os.FileInfo, error) {
	fi, err := os.Stat(name)
	if err == nil {
		return true, fi, nil
	}
	if os.IsNotExist(err) {
		return false, nil, nil
	}
	return false, nil, errors.Wrapf(err, "failed to stat [%s]", name)
}

// CreateFileAll calls MkdirAll to ensure all intermediate directories exist prior to creation.
func CreateFileAll(name string, fileFlag int, filePerm, dirPerm os.FileMode) (*os.File, error) {
	dirPath := filepath.Dir(name)
	if err := os.MkdirAll(dirPath, dirPerm); err != nil {
		return nil, errors.Wrapf(err, "failed to make dir [%s] for new file [%s]", dirPath, name)
	}

	f, err := os.OpenFile(name, os.O_CREATE|fileFlag, filePerm)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create file [%s]", name)
	}

	return f, nil
}

// Copy recursively copies src to dst. If src is a directory, dst is created (along with any
// missing ancestors) and every entry is copied into it preserving the directory's permission
// bits; if src is a regular file, dst's parent directories are created as needed.
func Copy(src, dst string) error {
	fi, err := os.Stat(src)
	if err != nil {
		return errors.Wrapf(err, "failed to stat copy source [%s]", src)
	}

	if fi.IsDir() {
		return copyDir(src, dst, fi)
	}
	return copyFile(src, dst, fi)
}

func copyDir(src, dst string, fi os.FileInfo) error {
	if err := os.MkdirAll(dst, fi.Mode()); err != nil {
		return errors.Wrapf(err, "failed to create copy destination dir [%s]", dst)
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return errors.Wrapf(err, "failed to read copy source dir [%s]", src)
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		entryInfo, err := entry.Info()
		if err != nil {
			return errors.Wrapf(err, "failed to stat copy source entry [%s]", srcPath)
		}

		if entry.IsDir() {
			if err := copyDir(srcPath, dstPath, entryInfo); err != nil {
				return err
			}
			continue
		}

		if err := copyFile(srcPath, dstPath, entryInfo); err != nil {
			return err
		}
	}

	return nil
}

func copyFile(src, dst string, fi os.FileInfo) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return errors.Wrapf(err, "failed to create copy destination parent dir for [%s]", dst)
	}

	in, err := os.Open(src) // #nosec G304
	if err != nil {
		return errors.Wrapf(err, "failed to open copy source [%s]", src)
	}
	defer in.Close() // nolint:errcheck

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, fi.Mode())
	if err != nil {
		return errors.Wrapf(err, "failed to create copy destination [%s]", dst)
	}
	defer out.Close() // nolint:errcheck

	if _, err := io.Copy(out, in); err != nil {
		return errors.Wrapf(err, "failed to copy [%s] to [%s]", src, dst)
	}

	return nil
}
