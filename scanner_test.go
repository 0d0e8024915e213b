// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/phar

package phar

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestByteScannerTracksOffset(t *testing.T) {
	t.Parallel()

	s := newByteScanner(bytes.NewReader([]byte{'a', 0x01, 0x02, 0x03, 0x04, 'x', 'y'}), 100)

	b, err := s.ReadByte()
	if err != nil || b != 'a' {
		t.Fatalf("ReadByte=%q, %v; want 'a'", b, err)
	}
	if s.Offset() != 101 {
		t.Fatalf("Offset=%d, want 101", s.Offset())
	}

	v, err := s.ReadUint32("value")
	if err != nil {
		t.Fatalf("ReadUint32: %v", err)
	}
	if v != 0x04030201 {
		t.Fatalf("ReadUint32=0x%08x, want 0x04030201", v)
	}

	rest, err := s.ReadFull("rest", 2)
	if err != nil {
		t.Fatalf("ReadFull: %v", err)
	}
	if string(rest) != "xy" {
		t.Fatalf("ReadFull=%q, want xy", rest)
	}
	if s.Offset() != 107 {
		t.Fatalf("Offset=%d, want 107", s.Offset())
	}

	if _, err := s.ReadByte(); err != io.EOF {
		t.Fatalf("ReadByte at end: expected io.EOF, got %v", err)
	}
}

func TestByteScannerReadFullTruncated(t *testing.T) {
	t.Parallel()

	s := newByteScanner(bytes.NewReader([]byte("abc")), 10)

	_, err := s.ReadFull("payload", 8)
	if !errors.Is(err, ErrTruncatedRead) {
		t.Fatalf("expected ErrTruncatedRead, got %v", err)
	}
	if KindOf(err) != KindTruncatedRead {
		t.Fatalf("KindOf=%s, want %s", KindOf(err), KindTruncatedRead)
	}

	const want = "truncated read: payload: got 3 of 8 bytes at offset 10"
	if err.Error() != want {
		t.Fatalf("error=%q, want %q", err.Error(), want)
	}
}

func TestByteScannerReadUint32Empty(t *testing.T) {
	t.Parallel()

	s := newByteScanner(bytes.NewReader(nil), 0)
	if _, err := s.ReadUint32("size"); !errors.Is(err, ErrTruncatedRead) {
		t.Fatalf("expected ErrTruncatedRead, got %v", err)
	}
}
