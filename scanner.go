// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/phar

package phar

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// scannerBufferSize is read-ahead buffer for sequential scans.
const scannerBufferSize = 64 * 1024

// byteScanner reads a stream sequentially and tracks the absolute offset
// of the next unread byte.
type byteScanner struct {
	br     *bufio.Reader
	offset int64
}

// newByteScanner wraps r; start is the absolute offset r is positioned at.
func newByteScanner(r io.Reader, start int64) *byteScanner {
	return &byteScanner{
		br:     bufio.NewReaderSize(r, scannerBufferSize),
		offset: start,
	}
}

// Offset returns absolute offset of the next unread byte.
func (s *byteScanner) Offset() int64 {
	return s.offset
}

// ReadByte reads one byte. io.EOF is returned unwrapped at end of stream.
func (s *byteScanner) ReadByte() (byte, error) {
	b, err := s.br.ReadByte()
	if err != nil {
		return 0, err
	}

	s.offset++
	return b, nil
}

// ReadFull reads exactly n bytes or fails with ErrTruncatedRead.
func (s *byteScanner) ReadFull(what string, n int) ([]byte, error) {
	buf := make([]byte, n)
	got, err := io.ReadFull(s.br, buf)
	start := s.offset
	s.offset += int64(got)
	if err == nil {
		return buf, nil
	}

	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, truncatedReadError(what, got, uint64(n), start)
	}

	return nil, fmt.Errorf("read %s: %w", what, err)
}

// ReadUint32 reads one little-endian uint32.
func (s *byteScanner) ReadUint32(what string) (uint32, error) {
	buf, err := s.ReadFull(what, uint32Size)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(buf), nil
}
