// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/phar

package phar

import (
	"bytes"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
)

// decodeGrowLimit caps up-front buffer growth taken from declared entry sizes.
const decodeGrowLimit = 64 << 20

// findEntryByName resolves one entry by normalized path.
func (r *Reader) findEntryByName(name string) *Entry {
	lookupName := NormalizePath(name)
	for i := range r.manifest.Entries {
		if NormalizePath(r.manifest.Entries[i].Path) == lookupName {
			return &r.manifest.Entries[i]
		}
	}

	return nil
}

// ReadEntry reads full (decompressed, checksum-verified) content of the named entry.
func (r *Reader) ReadEntry(name string) ([]byte, error) {
	if err := r.ensureOpen(); err != nil {
		return nil, err
	}

	entry := r.findEntryByName(name)
	if entry == nil {
		return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, name)
	}

	return r.readEntryData(entry)
}

// ReadEntryInfo reads content of entry described by already resolved metadata.
func (r *Reader) ReadEntryInfo(entry Entry) ([]byte, error) {
	if err := r.ensureOpen(); err != nil {
		return nil, err
	}

	return r.readEntryData(&entry)
}

// readEntryData reads raw payload, decompresses it per entry flags and
// verifies size and CRC-32 of the result. Directories yield nil.
func (r *Reader) readEntryData(entry *Entry) ([]byte, error) {
	if entry.IsDir() {
		return nil, nil
	}

	raw, err := r.readRaw(entry)
	if err != nil {
		return nil, err
	}

	data, err := r.decompress(entry, raw)
	if err != nil {
		return nil, err
	}

	if uint64(len(data)) != uint64(entry.Size) {
		return nil, &CorruptedFileError{
			Path:     entry.Path,
			Reason:   "size",
			Expected: entry.Size,
			Actual:   uint32(min(uint64(len(data)), uint64(^uint32(0)))), //nolint:gosec // clamped above
		}
	}

	if sum := crc32.ChecksumIEEE(data); sum != entry.CRC32 {
		return nil, &CorruptedFileError{
			Path:     entry.Path,
			Reason:   "crc32",
			Expected: entry.CRC32,
			Actual:   sum,
		}
	}

	return data, nil
}

// readRaw reads exactly CompressedSize payload bytes of entry.
func (r *Reader) readRaw(entry *Entry) ([]byte, error) {
	start := r.dataStart + int64(entry.Offset) //nolint:gosec // offsets are sums of uint32 sizes
	want := int64(entry.CompressedSize)
	if start > r.size || want > r.size-start {
		available := max(r.size-start, 0)
		return nil, truncatedReadError(fmt.Sprintf("entry %q payload", entry.Path), int(available), uint64(want), start)
	}

	buf := make([]byte, want)
	n, err := io.ReadFull(io.NewSectionReader(r.ra, start, want), buf)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, truncatedReadError(fmt.Sprintf("entry %q payload", entry.Path), n, uint64(want), start)
		}

		return nil, fmt.Errorf("read entry %q payload: %w", entry.Path, err)
	}

	return buf, nil
}

// decompress dispatches raw payload to the codec selected by entry flags.
func (r *Reader) decompress(entry *Entry, raw []byte) ([]byte, error) {
	dec, err := selectDecompressor(entry.Compression(), r.decompressors)
	if err != nil {
		return nil, fmt.Errorf("entry %q: %w", entry.Path, err)
	}
	if dec == nil {
		return raw, nil
	}

	rc, err := dec(bytes.NewReader(raw))
	if err != nil {
		return nil, &CorruptedFileError{Path: entry.Path, Err: err}
	}
	defer func() { _ = rc.Close() }()

	var out bytes.Buffer
	out.Grow(int(min(uint64(entry.Size), decodeGrowLimit)))

	// One byte past the declared size is enough to detect oversized output.
	if _, err := io.Copy(&out, io.LimitReader(rc, int64(entry.Size)+1)); err != nil {
		return nil, &CorruptedFileError{Path: entry.Path, Err: fmt.Errorf("%s: %w", entry.Compression(), err)}
	}

	return out.Bytes(), nil
}
