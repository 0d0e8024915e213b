// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/phar

package phar

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultExtractDir returns the output directory used when none is given:
// a per-archive directory under the system temp dir.
func DefaultExtractDir(archivePath string) string {
	return filepath.Join(os.TempDir(), DefaultExtractSubdir, filepath.Base(archivePath))
}

// materialize creates entry on disk under root and returns its output path.
// Directory entries become directories; file entries are written atomically.
func materialize(root string, entry *Entry, data []byte, dirMode os.FileMode, fileMode os.FileMode) (string, error) {
	relPath, err := normalizeExtractEntryPath(entry.Path)
	if err != nil {
		return "", fmt.Errorf("normalize entry path %q: %w", entry.Path, err)
	}

	outPath := filepath.Join(root, filepath.FromSlash(relPath))
	if entry.IsDir() {
		if err := os.MkdirAll(outPath, dirMode); err != nil {
			return "", newIOError("mkdir", outPath, err)
		}

		return outPath, nil
	}

	parent := filepath.Dir(outPath)
	if err := os.MkdirAll(parent, dirMode); err != nil {
		return "", newIOError("mkdir", parent, err)
	}

	if err := writeFileAtomic(outPath, data, fileMode); err != nil {
		return "", err
	}

	return outPath, nil
}

// writeFileAtomic writes data to a temp file beside path, applies mode and
// renames it into place, so path never holds partial contents.
func writeFileAtomic(path string, data []byte, mode os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".phar-*")
	if err != nil {
		return newIOError("create", path, err)
	}

	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return newIOError("write", path, err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return newIOError("close", path, err)
	}

	if err := os.Chmod(tmpPath, mode); err != nil {
		_ = os.Remove(tmpPath)
		return newIOError("chmod", path, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return newIOError("rename", path, err)
	}

	return nil
}
