// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/phar

package phar

import (
	"fmt"
	"os"
)

// ReadManifest opens an archive and returns its parsed manifest without payload reads.
func ReadManifest(path string, opts ReaderOptions) (*Manifest, error) {
	r, err := OpenWithOptions(path, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	return r.Manifest(), nil
}

// ListEntries opens an archive and returns entry metadata without payload reads.
func ListEntries(path string) ([]Entry, error) {
	return ListEntriesWithOptions(path, ReaderOptions{})
}

// ListEntriesWithOptions opens an archive and returns entry metadata using reader options.
func ListEntriesWithOptions(path string, opts ReaderOptions) ([]Entry, error) {
	manifest, err := ReadManifest(path, opts)
	if err != nil {
		return nil, err
	}

	return manifest.Entries, nil
}

// openFileWithSize opens a file and returns a handle plus current size.
func openFileWithSize(path string) (*os.File, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open archive: %w", err)
	}

	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, fmt.Errorf("stat: %w", err)
	}

	return f, fi.Size(), nil
}
