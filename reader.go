// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/phar

package phar

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Reader provides read-only access to a parsed archive.
type Reader struct {
	// ra is the underlying random-access reader used for payload reads.
	ra io.ReaderAt
	// file is set when Reader owns an *os.File opened via Open.
	file *os.File
	// manifest stores parsed immutable manifest.
	manifest *Manifest
	// decompressors are codecs available to this reader.
	decompressors map[Compression]Decompressor
	// size is total source size in bytes.
	size int64
	// manifestOffset is absolute offset of the manifest size prefix.
	manifestOffset int64
	// dataStart is absolute offset of first payload byte.
	dataStart int64
	// mu guards closed state and close operation.
	mu sync.Mutex
	// closed reports whether Close was already called.
	closed bool
}

// Open opens archive file by path and parses its manifest.
func Open(path string) (*Reader, error) {
	return OpenWithOptions(path, ReaderOptions{})
}

// OpenWithOptions opens archive file by path and parses its manifest using explicit reader options.
func OpenWithOptions(path string, opts ReaderOptions) (*Reader, error) {
	f, size, err := openFileWithSize(path)
	if err != nil {
		return nil, err
	}

	r, err := NewReaderFromReaderAtWithOptions(f, size, opts)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	r.file = f
	return r, nil
}

// NewReaderFromReaderAt parses archive from existing ReaderAt and known size.
func NewReaderFromReaderAt(ra io.ReaderAt, size int64) (*Reader, error) {
	return NewReaderFromReaderAtWithOptions(ra, size, ReaderOptions{})
}

// NewReaderFromReaderAtWithOptions parses archive from existing ReaderAt and known size using explicit reader options.
func NewReaderFromReaderAtWithOptions(ra io.ReaderAt, size int64, opts ReaderOptions) (*Reader, error) {
	if ra == nil {
		return nil, ErrNilReader
	}

	opts.applyDefaults()

	r := &Reader{ra: ra, size: size, decompressors: opts.Decompressors}
	if err := r.parse(opts); err != nil {
		return nil, err
	}

	return r, nil
}

// parse locates the manifest and decodes it.
func (r *Reader) parse(opts ReaderOptions) error {
	offset := opts.Offset
	if offset <= 0 {
		found, err := FindBoundaryReader(io.NewSectionReader(r.ra, 0, r.size), opts.Pattern)
		if err != nil {
			return err
		}

		offset = found
	}

	if offset >= r.size {
		return truncatedReadError("manifest size", 0, uint32Size, offset)
	}

	s := newByteScanner(io.NewSectionReader(r.ra, offset, r.size-offset), offset)
	manifest, err := parseManifest(s, opts.MaxManifestSize)
	if err != nil {
		return err
	}

	r.manifest = manifest
	r.manifestOffset = offset
	r.dataStart = s.Offset()
	return nil
}

// Manifest returns parsed manifest. Callers must not modify it.
func (r *Reader) Manifest() *Manifest {
	if r == nil {
		return nil
	}

	return r.manifest
}

// Entries returns a copy of parsed entries.
func (r *Reader) Entries() []Entry {
	if r == nil || r.manifest == nil {
		return nil
	}

	entries := make([]Entry, len(r.manifest.Entries))
	copy(entries, r.manifest.Entries)
	return entries
}

// ManifestOffset returns absolute offset of the manifest (end of stub).
func (r *Reader) ManifestOffset() int64 {
	return r.manifestOffset
}

// DataOffset returns absolute offset of the contents blob.
func (r *Reader) DataOffset() int64 {
	return r.dataStart
}

// Size returns total archive size in bytes.
func (r *Reader) Size() int64 {
	return r.size
}

// CheckCapabilities fails with ErrMissingCapability when any compression
// method used by the manifest has no decompressor.
func (r *Reader) CheckCapabilities() error {
	if r == nil || r.manifest == nil {
		return ErrNilReader
	}

	return checkCapabilities(r.manifest.Flags, r.decompressors)
}

// Close closes the underlying file if reader owns one.
func (r *Reader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}

	r.closed = true
	if r.file != nil {
		return r.file.Close()
	}

	return nil
}

// ensureOpen reports ErrClosed after Close.
func (r *Reader) ensureOpen() error {
	if r == nil || r.ra == nil {
		return ErrNilReader
	}

	r.mu.Lock()
	closed := r.closed
	r.mu.Unlock()
	if closed {
		return ErrClosed
	}

	return nil
}
