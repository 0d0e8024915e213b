// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/phar

package phar

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/woozymasta/phar/internal/testutil"
)

func TestOpen_RoundTrip(t *testing.T) {
	t.Parallel()

	archive := sampleArchive()
	path, layout := archive.WriteFile(t, t.TempDir(), "app.phar")

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = r.Close() }()

	if r.ManifestOffset() != int64(layout.ManifestOffset) {
		t.Fatalf("ManifestOffset=%d, want %d", r.ManifestOffset(), layout.ManifestOffset)
	}
	if r.DataOffset() != int64(layout.DataOffset) {
		t.Fatalf("DataOffset=%d, want %d", r.DataOffset(), layout.DataOffset)
	}
	if err := r.CheckCapabilities(); err != nil {
		t.Fatalf("CheckCapabilities: %v", err)
	}

	for _, want := range archive.Entries {
		got, err := r.ReadEntry(want.Path)
		if err != nil {
			t.Fatalf("ReadEntry(%s): %v", want.Path, err)
		}
		if !bytes.Equal(got, want.Data) {
			t.Fatalf("ReadEntry(%s)=%q, want %q", want.Path, got, want.Data)
		}
	}
}

func TestOpen_EntriesReturnsCopy(t *testing.T) {
	t.Parallel()

	path, _ := sampleArchive().WriteFile(t, t.TempDir(), "app.phar")

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = r.Close() }()

	entries := r.Entries()
	entries[0].Path = "mutated"
	if r.Entries()[0].Path != "bin/run.php" {
		t.Fatal("Entries exposed internal manifest slice")
	}
}

func TestOpen_NotArchive(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "plain.php")
	if err := os.WriteFile(path, []byte("<?php echo 'no halt';"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Open(path)
	if !errors.Is(err, ErrPatternNotFound) {
		t.Fatalf("expected ErrPatternNotFound, got %v", err)
	}
}

func TestOpen_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Open(filepath.Join(t.TempDir(), "missing.phar"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}
}

func TestOpenWithOptions_ExplicitOffset(t *testing.T) {
	t.Parallel()

	// A stub without the pattern can only be opened with a known offset.
	path, layout := testutil.Archive{
		Stub:    "#!/bin/sh\nexit 0\n",
		Entries: []testutil.Entry{{Path: "a.txt", Data: []byte("alpha")}},
	}.WriteFile(t, t.TempDir(), "custom.phar")

	if _, err := Open(path); !errors.Is(err, ErrPatternNotFound) {
		t.Fatalf("expected ErrPatternNotFound without offset, got %v", err)
	}

	r, err := OpenWithOptions(path, ReaderOptions{Offset: int64(layout.ManifestOffset)})
	if err != nil {
		t.Fatalf("OpenWithOptions: %v", err)
	}
	defer func() { _ = r.Close() }()

	got, err := r.ReadEntry("a.txt")
	if err != nil {
		t.Fatalf("ReadEntry: %v", err)
	}
	if string(got) != "alpha" {
		t.Fatalf("ReadEntry=%q, want alpha", got)
	}
}

func TestOpenWithOptions_OffsetPastEnd(t *testing.T) {
	t.Parallel()

	data, _ := sampleArchive().MustBuild(t)
	path := testutil.WriteBytes(t, t.TempDir(), "app.phar", data)

	_, err := OpenWithOptions(path, ReaderOptions{Offset: int64(len(data))})
	if !errors.Is(err, ErrTruncatedRead) {
		t.Fatalf("expected ErrTruncatedRead, got %v", err)
	}
}

func TestOpenWithOptions_OpenPattern(t *testing.T) {
	t.Parallel()

	path, layout := testutil.Archive{
		Stub:    testutil.DefaultStub + "\r\n",
		Entries: []testutil.Entry{{Path: "a.txt", Data: []byte("alpha")}},
	}.WriteFile(t, t.TempDir(), "open.phar")

	r, err := OpenWithOptions(path, ReaderOptions{Pattern: []byte(OpenPattern)})
	if err != nil {
		t.Fatalf("OpenWithOptions: %v", err)
	}
	defer func() { _ = r.Close() }()

	if r.ManifestOffset() != int64(layout.ManifestOffset) {
		t.Fatalf("ManifestOffset=%d, want %d", r.ManifestOffset(), layout.ManifestOffset)
	}
}

func TestNewReaderFromReaderAt(t *testing.T) {
	t.Parallel()

	data, _ := sampleArchive().MustBuild(t)

	r, err := NewReaderFromReaderAt(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("NewReaderFromReaderAt: %v", err)
	}

	if r.Size() != int64(len(data)) {
		t.Fatalf("Size=%d, want %d", r.Size(), len(data))
	}
	if len(r.Entries()) != 5 {
		t.Fatalf("len(entries)=%d, want 5", len(r.Entries()))
	}

	if _, err := NewReaderFromReaderAt(nil, 0); !errors.Is(err, ErrNilReader) {
		t.Fatalf("expected ErrNilReader, got %v", err)
	}
}

func TestReader_Closed(t *testing.T) {
	t.Parallel()

	path, _ := sampleArchive().WriteFile(t, t.TempDir(), "app.phar")

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	if _, err := r.ReadEntry("bin/run.php"); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestListEntries(t *testing.T) {
	t.Parallel()

	path, _ := sampleArchive().WriteFile(t, t.TempDir(), "app.phar")

	entries, err := ListEntries(path)
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if len(entries) != 5 {
		t.Fatalf("len(entries)=%d, want 5", len(entries))
	}

	m, err := ReadManifest(path, ReaderOptions{})
	if err != nil {
		t.Fatalf("ReadManifest: %v", err)
	}
	if m.Alias != "app.phar" {
		t.Fatalf("Alias=%q, want app.phar", m.Alias)
	}
}
