// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/phar

package phar

import (
	_ "crypto/sha256" // registers digest.Canonical
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/opencontainers/go-digest"
)

// MarkerName returns the cache marker file name for the archive at path:
// the hex-encoded canonical content digest of the whole file.
func MarkerName(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open archive: %w", err)
	}
	defer func() { _ = f.Close() }()

	return markerNameFrom(f)
}

// MarkerName returns the cache marker file name for the whole underlying archive.
func (r *Reader) MarkerName() (string, error) {
	if err := r.ensureOpen(); err != nil {
		return "", err
	}

	return markerNameFrom(io.NewSectionReader(r.ra, 0, r.size))
}

// markerNameFrom digests all bytes of src.
func markerNameFrom(src io.Reader) (string, error) {
	d, err := digest.Canonical.FromReader(src)
	if err != nil {
		return "", fmt.Errorf("digest archive: %w", err)
	}

	return d.Encoded(), nil
}

// IsCached reports whether marker exists as a zero-length regular file directly inside dir.
func IsCached(dir string, marker string) bool {
	if dir == "" || marker == "" {
		return false
	}

	info, err := os.Stat(filepath.Join(dir, marker))
	return err == nil && info.Mode().IsRegular() && info.Size() == 0
}

// checkOutputDir fails when dir is archivePath or one of its ancestors.
func checkOutputDir(dir string, archivePath string) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return newIOError("resolve", dir, err)
	}

	absArchive, err := filepath.Abs(archivePath)
	if err != nil {
		return newIOError("resolve", archivePath, err)
	}

	rel, err := filepath.Rel(absDir, absArchive)
	if err != nil {
		return nil
	}

	if rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))) {
		return newIOError("reset", dir, fmt.Errorf("%w %q", ErrUnsafeOutputDir, archivePath))
	}

	return nil
}

// resetDir removes dir with all contents and recreates it empty.
func resetDir(dir string, mode os.FileMode) error {
	if err := os.RemoveAll(dir); err != nil {
		return newIOError("remove", dir, err)
	}

	if err := os.MkdirAll(dir, mode); err != nil {
		return newIOError("mkdir", dir, err)
	}

	return nil
}

// writeMarker creates zero-length marker file inside dir.
func writeMarker(dir string, marker string, mode os.FileMode) error {
	path := filepath.Join(dir, marker)
	if err := os.WriteFile(path, nil, mode); err != nil {
		return newIOError("create", path, err)
	}

	return newIOError("chmod", path, os.Chmod(path, mode))
}
