// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/phar

package phar

import (
	"encoding/binary"
	"fmt"
	"io"
)

// ParseManifest reads a length-prefixed manifest block from r, which must be
// positioned at the manifest start. Zero maxSize means DefaultMaxManifestSize.
func ParseManifest(r io.Reader, maxSize uint32) (*Manifest, error) {
	if r == nil {
		return nil, ErrNilReader
	}
	if maxSize == 0 {
		maxSize = DefaultMaxManifestSize
	}

	return parseManifest(newByteScanner(r, 0), maxSize)
}

// parseManifest reads size prefix and manifest block from scanner.
func parseManifest(s *byteScanner, maxSize uint32) (*Manifest, error) {
	size, err := s.ReadUint32("manifest size")
	if err != nil {
		return nil, err
	}
	if size > maxSize {
		return nil, fmt.Errorf("%w: %w: %d > %d bytes", ErrTruncatedRead, ErrManifestTooLarge, size, maxSize)
	}

	blockStart := s.Offset()
	raw, err := s.ReadFull("manifest", int(size))
	if err != nil {
		return nil, err
	}

	m, err := decodeManifest(raw, blockStart)
	if err != nil {
		return nil, err
	}

	m.Size = size
	return m, nil
}

// manifestCursor is a bounds-checked little-endian reader over manifest bytes.
type manifestCursor struct {
	buf []byte
	// base is absolute file offset of buf[0], used in error messages.
	base int64
	pos  int
}

// take returns next n bytes or ErrTruncatedRead.
func (c *manifestCursor) take(what string, n uint32) ([]byte, error) {
	remaining := len(c.buf) - c.pos
	if uint64(n) > uint64(remaining) {
		return nil, truncatedReadError(what, remaining, uint64(n), c.base+int64(c.pos))
	}

	out := c.buf[c.pos : c.pos+int(n)]
	c.pos += int(n)
	return out, nil
}

// uint32 reads one little-endian uint32.
func (c *manifestCursor) uint32(what string) (uint32, error) {
	b, err := c.take(what, uint32Size)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(b), nil
}

// decodeManifest parses global header and entry records from manifest block.
func decodeManifest(raw []byte, base int64) (*Manifest, error) {
	c := &manifestCursor{buf: raw, base: base}

	count, err := c.uint32("file count")
	if err != nil {
		return nil, err
	}

	m := &Manifest{}
	if err := decodeGlobalHeader(c, m); err != nil {
		return nil, err
	}

	// Each record needs at least a path length and the fixed fields.
	minRecords := uint64(len(raw)-c.pos) / (uint32Size + entryFieldsSize)
	if uint64(count) > minRecords {
		return nil, fmt.Errorf("%w: manifest declares %d entries, room for at most %d",
			ErrTruncatedRead, count, minRecords)
	}

	m.Entries = make([]Entry, 0, count)
	var offset uint64
	for i := uint32(0); i < count; i++ {
		entry, err := decodeEntry(c, i)
		if err != nil {
			return nil, err
		}

		entry.Offset = offset
		if !entry.IsDir() {
			offset += uint64(entry.CompressedSize)
		}

		m.Flags |= entry.Compression()
		m.Entries = append(m.Entries, entry)
	}

	return m, nil
}

// decodeGlobalHeader reads api version, flags, alias and metadata.
// Values are kept for inspection but never validated.
func decodeGlobalHeader(c *manifestCursor, m *Manifest) error {
	api, err := c.take("api version", 2)
	if err != nil {
		return err
	}
	copy(m.APIVersion[:], api)

	if m.GlobalFlags, err = c.uint32("global flags"); err != nil {
		return err
	}

	aliasLen, err := c.uint32("alias length")
	if err != nil {
		return err
	}

	alias, err := c.take("alias", aliasLen)
	if err != nil {
		return err
	}
	m.Alias = string(alias)

	metaLen, err := c.uint32("global metadata length")
	if err != nil {
		return err
	}

	meta, err := c.take("global metadata", metaLen)
	if err != nil {
		return err
	}
	if len(meta) > 0 {
		m.Metadata = append([]byte(nil), meta...)
	}

	return nil
}

// decodeEntry reads one entry record.
func decodeEntry(c *manifestCursor, index uint32) (Entry, error) {
	entry, err := decodeEntryFields(c)
	if err != nil {
		return Entry{}, fmt.Errorf("entry %d: %w", index, err)
	}

	return entry, nil
}

// decodeEntryFields reads path, fixed fields and metadata of one record.
func decodeEntryFields(c *manifestCursor) (Entry, error) {
	pathLen, err := c.uint32("path length")
	if err != nil {
		return Entry{}, err
	}

	path, err := c.take("path", pathLen)
	if err != nil {
		return Entry{}, err
	}

	fields, err := c.take("fields", entryFieldsSize)
	if err != nil {
		return Entry{}, err
	}

	entry := Entry{
		Path:           string(path),
		Size:           binary.LittleEndian.Uint32(fields[0:4]),
		Timestamp:      binary.LittleEndian.Uint32(fields[4:8]),
		CompressedSize: binary.LittleEndian.Uint32(fields[8:12]),
		CRC32:          binary.LittleEndian.Uint32(fields[12:16]),
		Flags:          binary.LittleEndian.Uint32(fields[16:20]),
	}

	metaLen := binary.LittleEndian.Uint32(fields[20:24])
	meta, err := c.take("metadata", metaLen)
	if err != nil {
		return Entry{}, err
	}
	if len(meta) > 0 {
		entry.Metadata = append([]byte(nil), meta...)
	}

	return entry, nil
}
