// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/phar

package phar

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"
)

func TestMarkerName(t *testing.T) {
	t.Parallel()

	data, _ := sampleArchive().MustBuild(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "app.phar")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	sum := sha256.Sum256(data)
	want := hex.EncodeToString(sum[:])

	got, err := MarkerName(path)
	if err != nil {
		t.Fatalf("MarkerName: %v", err)
	}
	if got != want {
		t.Fatalf("MarkerName=%q, want %q", got, want)
	}

	fromReader, err := openBytes(t, data, ReaderOptions{}).MarkerName()
	if err != nil {
		t.Fatalf("Reader.MarkerName: %v", err)
	}
	if fromReader != want {
		t.Fatalf("Reader.MarkerName=%q, want %q", fromReader, want)
	}
}

func TestIsCached(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if IsCached(dir, "abc") {
		t.Fatal("missing marker reported as cached")
	}
	if IsCached("", "abc") || IsCached(dir, "") {
		t.Fatal("empty arguments reported as cached")
	}

	if err := os.Mkdir(filepath.Join(dir, "abc"), 0o755); err != nil {
		t.Fatal(err)
	}
	if IsCached(dir, "abc") {
		t.Fatal("directory named like marker reported as cached")
	}

	if err := os.WriteFile(filepath.Join(dir, "xyz"), []byte("entry payload"), 0o644); err != nil {
		t.Fatal(err)
	}
	if IsCached(dir, "xyz") {
		t.Fatal("non-empty file named like marker reported as cached")
	}

	if err := writeMarker(dir, "def", DefaultFileMode); err != nil {
		t.Fatalf("writeMarker: %v", err)
	}
	if !IsCached(dir, "def") {
		t.Fatal("written marker not reported as cached")
	}

	info, err := os.Stat(filepath.Join(dir, "def"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() != 0 {
		t.Fatalf("marker size=%d, want 0", info.Size())
	}
}

func TestResetDir(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "out")
	if err := os.MkdirAll(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "nested", "stale.txt"), []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := resetDir(dir, DefaultDirMode); err != nil {
		t.Fatalf("resetDir: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("resetDir left %d entries", len(entries))
	}
}
