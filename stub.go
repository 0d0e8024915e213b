// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/phar

package phar

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

// FindBoundary returns the offset immediately following the end-of-stub
// pattern in the file at path. Empty pattern means DefaultPattern.
func FindBoundary(path string, pattern []byte) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open archive: %w", err)
	}
	defer func() { _ = f.Close() }()

	offset, err := FindBoundaryReader(f, pattern)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}

	return offset, nil
}

// FindBoundaryReader scans r from its current position, which is treated as
// offset zero, and returns the offset immediately following pattern.
//
// The scan keeps one running match counter and resets it to zero on any
// mismatching byte without re-testing that byte against the pattern start,
// so a match that begins inside a failed partial match is not found.
func FindBoundaryReader(r io.Reader, pattern []byte) (int64, error) {
	if r == nil {
		return 0, ErrNilReader
	}
	if len(pattern) == 0 {
		pattern = []byte(DefaultPattern)
	}

	s := newByteScanner(r, 0)
	matched := 0
	for {
		b, err := s.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return 0, fmt.Errorf("%w: %s", ErrPatternNotFound, quotePattern(pattern))
			}

			return 0, fmt.Errorf("scan stub: %w", err)
		}

		if b != pattern[matched] {
			matched = 0
			continue
		}

		matched++
		if matched == len(pattern) {
			return s.Offset(), nil
		}
	}
}

// quotePattern renders pattern with escaped control bytes for messages.
func quotePattern(pattern []byte) string {
	return strconv.Quote(string(pattern))
}
