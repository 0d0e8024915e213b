// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/phar

package phar

import (
	"fmt"
	"io"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/flate"
)

// Compression is the compression bit set stored in entry flags.
type Compression uint32

// Entry compression flags.
const (
	// CompressionNone marks stored (uncompressed) payload.
	CompressionNone Compression = 0
	// CompressionGZ marks raw deflate payload.
	CompressionGZ Compression = 0x1000
	// CompressionBZ2 marks bzip2 payload.
	CompressionBZ2 Compression = 0x2000
	// CompressionMask selects compression bits from entry flags.
	CompressionMask Compression = CompressionGZ | CompressionBZ2
)

// String returns a short method list, e.g. "gz", "bz2", "gz|bz2" or "none".
func (c Compression) String() string {
	var names []string
	if c&CompressionGZ != 0 {
		names = append(names, "gz")
	}
	if c&CompressionBZ2 != 0 {
		names = append(names, "bz2")
	}
	if len(names) == 0 {
		return "none"
	}

	return strings.Join(names, "|")
}

// Decompressor opens a decompressing stream over compressed payload.
type Decompressor func(r io.Reader) (io.ReadCloser, error)

// DefaultDecompressors returns codecs for every supported compression flag.
func DefaultDecompressors() map[Compression]Decompressor {
	return map[Compression]Decompressor{
		CompressionGZ:  decompressDeflate,
		CompressionBZ2: decompressBZip2,
	}
}

// decompressDeflate opens raw deflate stream.
func decompressDeflate(r io.Reader) (io.ReadCloser, error) {
	return flate.NewReader(r), nil
}

// decompressBZip2 opens bzip2 stream.
func decompressBZip2(r io.Reader) (io.ReadCloser, error) {
	return bzip2.NewReader(r, nil)
}

// checkCapabilities fails when any method in mask lacks a decompressor.
func checkCapabilities(mask Compression, decompressors map[Compression]Decompressor) error {
	var missing Compression
	for _, method := range []Compression{CompressionGZ, CompressionBZ2} {
		if mask&method == 0 {
			continue
		}

		if decompressors[method] == nil {
			missing |= method
		}
	}

	if missing != 0 {
		return fmt.Errorf("%w: %s required by archive", ErrMissingCapability, missing)
	}

	return nil
}

// selectDecompressor picks the codec for entry flags.
// BZ2 wins when both bits are set, matching writer-side precedence.
func selectDecompressor(c Compression, decompressors map[Compression]Decompressor) (Decompressor, error) {
	var method Compression
	switch {
	case c&CompressionBZ2 != 0:
		method = CompressionBZ2
	case c&CompressionGZ != 0:
		method = CompressionGZ
	default:
		return nil, nil
	}

	dec := decompressors[method]
	if dec == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingCapability, method)
	}

	return dec, nil
}
