// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/phar

package phar

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Internal binary layout and format limits.
const (
	uint32Size      = 4  // every manifest integer is uint32 little-endian
	entryFieldsSize = 24 // six uint32 fields after entry path
	permMask        = 0o777
)

// Default tuning values.
const (
	// DefaultMaxManifestSize bounds the manifest allocation.
	DefaultMaxManifestSize = 100 << 20
	// DefaultDirMode is applied to directories created during extraction.
	DefaultDirMode os.FileMode = 0o755
	// DefaultFileMode is applied to files written during extraction.
	DefaultFileMode os.FileMode = 0o644
	// DefaultExtractSubdir is the temp-dir namespace for default output directories.
	DefaultExtractSubdir = "pharextract"
)

// End-of-stub patterns.
const (
	// DefaultPattern terminates a stub rendered without trailing newline.
	DefaultPattern = "__HALT_COMPILER(); ?>"
	// OpenPattern terminates a stub written with the "open" marker (CRLF suffix).
	OpenPattern = DefaultPattern + "\r\n"
)

// Entry describes a single parsed manifest record.
type Entry struct {
	// Path is the slash-separated entry path; a trailing "/" denotes a directory.
	Path string `json:"path" yaml:"path"`
	// Metadata holds the raw serialized per-entry metadata.
	Metadata []byte `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	// Offset is payload offset relative to the start of the contents blob.
	Offset uint64 `json:"offset" yaml:"offset"`
	// Size is uncompressed size in bytes.
	Size uint32 `json:"size" yaml:"size"`
	// Timestamp is Unix modification time.
	Timestamp uint32 `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	// CompressedSize is stored payload size in bytes.
	CompressedSize uint32 `json:"compressed_size" yaml:"compressed_size"`
	// CRC32 is IEEE CRC-32 of uncompressed contents.
	CRC32 uint32 `json:"crc32" yaml:"crc32"`
	// Flags holds permission bits and compression flags.
	Flags uint32 `json:"flags" yaml:"flags"`
}

// IsDir reports whether entry is a directory record.
func (e *Entry) IsDir() bool {
	return strings.HasSuffix(e.Path, "/")
}

// Compression returns the compression method bits of entry flags.
func (e *Entry) Compression() Compression {
	return Compression(e.Flags) & CompressionMask
}

// ModTime returns entry timestamp as time.
func (e *Entry) ModTime() time.Time {
	return time.Unix(int64(e.Timestamp), 0)
}

// Perm returns permission bits recorded by the writer. Extraction ignores them.
func (e *Entry) Perm() os.FileMode {
	return os.FileMode(e.Flags & permMask)
}

// Manifest is the parsed archive manifest.
type Manifest struct {
	// Alias is the archive alias from the global header.
	Alias string `json:"alias,omitempty" yaml:"alias,omitempty"`
	// Metadata holds raw serialized global metadata.
	Metadata []byte `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	// Entries are kept in manifest order.
	Entries []Entry `json:"entries" yaml:"entries"`
	// Size is the manifest block size excluding its 4-byte prefix.
	Size uint32 `json:"size" yaml:"size"`
	// GlobalFlags holds archive-wide flags from the global header.
	GlobalFlags uint32 `json:"global_flags,omitempty" yaml:"global_flags,omitempty"`
	// Flags is the aggregated compression mask over all entries.
	Flags Compression `json:"flags" yaml:"flags"`
	// APIVersion is the nibble-encoded manifest API version.
	APIVersion [2]byte `json:"api_version" yaml:"api_version"`
}

// Version renders APIVersion as "major.minor.release".
func (m *Manifest) Version() string {
	return fmt.Sprintf("%d.%d.%d", m.APIVersion[0]>>4, m.APIVersion[0]&0x0f, m.APIVersion[1]>>4)
}

// ContentsSize returns total stored payload bytes referenced by entries.
func (m *Manifest) ContentsSize() uint64 {
	var total uint64
	for i := range m.Entries {
		if m.Entries[i].IsDir() {
			continue
		}

		total += uint64(m.Entries[i].CompressedSize)
	}

	return total
}

// ReaderOptions configures archive parsing.
type ReaderOptions struct {
	// Decompressors overrides available codecs. Nil means DefaultDecompressors;
	// a non-nil map without a method makes that method unavailable.
	Decompressors map[Compression]Decompressor `json:"-" yaml:"-"`
	// Pattern is the end-of-stub pattern used when Offset is zero.
	Pattern []byte `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	// Offset is manifest start offset; zero means locate it with Pattern.
	Offset int64 `json:"offset,omitempty" yaml:"offset,omitempty"`
	// MaxManifestSize rejects larger manifest size prefixes.
	MaxManifestSize uint32 `json:"max_manifest_size,omitempty" yaml:"max_manifest_size,omitempty"`
}

// ExtractOptions configures Extract behavior.
type ExtractOptions struct {
	// OnEntryDone is called after one entry is materialized on disk.
	OnEntryDone func(entry Entry, outputPath string) `json:"-" yaml:"-"`
	// Logger receives debug traces; nil discards.
	Logger *slog.Logger `json:"-" yaml:"-"`
	// Decompressors overrides available codecs, see ReaderOptions.
	Decompressors map[Compression]Decompressor `json:"-" yaml:"-"`
	// Dir is output directory; empty means DefaultExtractDir(archive).
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`
	// Pattern is the end-of-stub pattern used when Offset is zero.
	Pattern []byte `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	// Offset is manifest start offset; zero means locate it with Pattern.
	Offset int64 `json:"offset,omitempty" yaml:"offset,omitempty"`
	// MaxManifestSize rejects larger manifest size prefixes.
	MaxManifestSize uint32 `json:"max_manifest_size,omitempty" yaml:"max_manifest_size,omitempty"`
	// DirMode is applied to created directories.
	DirMode os.FileMode `json:"dir_mode,omitempty" yaml:"dir_mode,omitempty"`
	// FileMode is applied to written files.
	FileMode os.FileMode `json:"file_mode,omitempty" yaml:"file_mode,omitempty"`
	// VerifySignature requires a valid signature trailer before extraction.
	VerifySignature bool `json:"verify_signature,omitempty" yaml:"verify_signature,omitempty"`
}

// applyDefaults fills zero-valued reader options with defaults.
func (opts *ReaderOptions) applyDefaults() {
	if len(opts.Pattern) == 0 {
		opts.Pattern = []byte(DefaultPattern)
	}

	if opts.MaxManifestSize == 0 {
		opts.MaxManifestSize = DefaultMaxManifestSize
	}

	if opts.Decompressors == nil {
		opts.Decompressors = DefaultDecompressors()
	}
}

// applyDefaults fills zero-valued extract options with defaults.
func (opts *ExtractOptions) applyDefaults(archivePath string) {
	if opts.Dir == "" {
		opts.Dir = DefaultExtractDir(archivePath)
	}

	if opts.DirMode == 0 {
		opts.DirMode = DefaultDirMode
	}

	if opts.FileMode == 0 {
		opts.FileMode = DefaultFileMode
	}

	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
}

// readerOptions projects extract options onto reader options.
func (opts *ExtractOptions) readerOptions() ReaderOptions {
	return ReaderOptions{
		Decompressors:   opts.Decompressors,
		Pattern:         opts.Pattern,
		Offset:          opts.Offset,
		MaxManifestSize: opts.MaxManifestSize,
	}
}
