// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/phar

package phar

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/woozymasta/phar/internal/testutil"
)

func TestFindBoundaryReader(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		input   string
		pattern string
		want    int64
	}{
		{name: "default pattern", input: "<?php echo 1; " + DefaultPattern + "MANIFEST", want: int64(len("<?php echo 1; " + DefaultPattern))},
		{name: "empty pattern means default", input: "x" + DefaultPattern, pattern: "", want: int64(1 + len(DefaultPattern))},
		{name: "pattern at start", input: DefaultPattern, want: int64(len(DefaultPattern))},
		{name: "open pattern", input: "<?php " + OpenPattern + "rest", pattern: OpenPattern, want: int64(len("<?php " + OpenPattern))},
		{name: "first occurrence wins", input: "a" + DefaultPattern + "b" + DefaultPattern, want: int64(1 + len(DefaultPattern))},
		{name: "custom pattern", input: "0123END4567", pattern: "END", want: 7},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := FindBoundaryReader(strings.NewReader(tc.input), []byte(tc.pattern))
			if err != nil {
				t.Fatalf("FindBoundaryReader: %v", err)
			}
			if got != tc.want {
				t.Fatalf("FindBoundaryReader=%d, want %d", got, tc.want)
			}
		})
	}
}

func TestFindBoundaryReaderNotFound(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		input   string
		pattern string
	}{
		{name: "empty input", input: ""},
		{name: "partial pattern at end", input: "<?php __HALT_COMPILER();"},
		{name: "open pattern without crlf", input: "<?php " + DefaultPattern + "\n", pattern: OpenPattern},
		// The single counter is reset on "_" vs "H" and the third "_" is
		// not re-tested, so the real pattern start is skipped.
		{name: "overlapping prefix", input: "___HALT_COMPILER(); ?>"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := FindBoundaryReader(strings.NewReader(tc.input), []byte(tc.pattern))
			if !errors.Is(err, ErrPatternNotFound) {
				t.Fatalf("expected ErrPatternNotFound, got %v", err)
			}
			if KindOf(err) != KindPatternNotFound {
				t.Fatalf("KindOf=%s, want %s", KindOf(err), KindPatternNotFound)
			}
		})
	}
}

func TestFindBoundaryReaderMismatchByteNotRetested(t *testing.T) {
	t.Parallel()

	// "aab" against "ab": the second "a" breaks the partial match and is
	// consumed, so only a later clean occurrence is found.
	got, err := FindBoundaryReader(bytes.NewReader([]byte("aab-ab")), []byte("ab"))
	if err != nil {
		t.Fatalf("FindBoundaryReader: %v", err)
	}
	if got != 6 {
		t.Fatalf("FindBoundaryReader=%d, want 6", got)
	}
}

func TestFindBoundaryReaderNil(t *testing.T) {
	t.Parallel()

	if _, err := FindBoundaryReader(nil, nil); !errors.Is(err, ErrNilReader) {
		t.Fatalf("expected ErrNilReader, got %v", err)
	}
}

func TestFindBoundaryFile(t *testing.T) {
	t.Parallel()

	path, layout := testutil.Archive{
		Entries: []testutil.Entry{{Path: "a.php", Data: []byte("<?php echo 'a';")}},
	}.WriteFile(t, t.TempDir(), "app.phar")

	got, err := FindBoundary(path, nil)
	if err != nil {
		t.Fatalf("FindBoundary: %v", err)
	}
	if got != int64(layout.ManifestOffset) {
		t.Fatalf("FindBoundary=%d, want %d", got, layout.ManifestOffset)
	}

	_, err = FindBoundary(path, []byte("__NOT_THERE__"))
	if !errors.Is(err, ErrPatternNotFound) {
		t.Fatalf("expected ErrPatternNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("error %q does not name archive path", err)
	}
}
