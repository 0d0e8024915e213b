// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/phar

// Package testutil builds byte-exact archives for tests.
package testutil

import (
	"bytes"
	"crypto/md5"  //nolint:gosec // fixture signatures.
	"crypto/sha1" //nolint:gosec // fixture signatures.
	"crypto/sha256"
	"crypto/sha512"
	"encoding/binary"
	"fmt"
	"hash"
	"hash/crc32"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/flate"
)

// Entry compression flags as stored in archives.
const (
	FlagGZ  uint32 = 0x1000
	FlagBZ2 uint32 = 0x2000
)

// Signature trailer types.
const (
	SignatureNone    uint32 = 0
	SignatureMD5     uint32 = 0x0001
	SignatureSHA1    uint32 = 0x0002
	SignatureSHA256  uint32 = 0x0003
	SignatureSHA512  uint32 = 0x0004
	SignatureOpenSSL uint32 = 0x0010
)

// End-of-stub patterns.
const (
	HaltPattern = "__HALT_COMPILER(); ?>"
	DefaultStub = "#!/usr/bin/env php\n<?php\nPhar::mapPhar('fixture.phar');\n" + HaltPattern
)

// globalSignatureFlag marks a signed archive in global flags.
const globalSignatureFlag = 0x00010000

// Entry describes one fixture entry.
type Entry struct {
	// Path is stored verbatim; a trailing "/" makes a directory entry.
	Path string
	// Data is the uncompressed contents used for size and CRC fields.
	Data []byte
	// Raw replaces the encoded payload when non-nil.
	Raw []byte
	// Metadata is stored as per-entry metadata.
	Metadata []byte
	// Flags holds compression bits (FlagGZ, FlagBZ2).
	Flags uint32
	// Timestamp is the Unix modification time.
	Timestamp uint32
}

// Archive describes a fixture archive.
type Archive struct {
	// Stub defaults to DefaultStub.
	Stub string
	// Alias is the archive alias.
	Alias string
	// Metadata is the global metadata.
	Metadata []byte
	Entries  []Entry
	// Signature selects a hash trailer, SignatureNone for unsigned.
	Signature uint32
	// OpenSSLSignature is the opaque signature value for SignatureOpenSSL.
	OpenSSLSignature []byte
}

// Layout reports absolute offsets inside a built archive.
type Layout struct {
	// ManifestOffset is the offset of the manifest size prefix.
	ManifestOffset int
	// DataOffset is the offset of the first payload byte.
	DataOffset int
	// Payloads holds the absolute payload offset per entry.
	Payloads []int
	// ContentsEnd is the offset right after the last payload.
	ContentsEnd int
}

// Build encodes the archive and returns its bytes and layout.
func (a Archive) Build() ([]byte, Layout, error) {
	stub := a.Stub
	if stub == "" {
		stub = DefaultStub
	}

	payloads := make([][]byte, len(a.Entries))
	for i, e := range a.Entries {
		if strings.HasSuffix(e.Path, "/") {
			continue
		}

		p, err := encodePayload(e)
		if err != nil {
			return nil, Layout{}, fmt.Errorf("entry %s: %w", e.Path, err)
		}
		payloads[i] = p
	}

	var block bytes.Buffer
	putUint32(&block, uint32(len(a.Entries)))
	block.Write([]byte{0x11, 0x10})

	globalFlags := uint32(0)
	if a.Signature != SignatureNone {
		globalFlags |= globalSignatureFlag
	}
	putUint32(&block, globalFlags)
	putUint32(&block, uint32(len(a.Alias)))
	block.WriteString(a.Alias)
	putUint32(&block, uint32(len(a.Metadata)))
	block.Write(a.Metadata)

	for i, e := range a.Entries {
		putUint32(&block, uint32(len(e.Path)))
		block.WriteString(e.Path)

		isDir := strings.HasSuffix(e.Path, "/")
		perm := uint32(0o644)
		if isDir {
			perm = 0o755
		}

		var size, crc uint32
		if !isDir {
			size = uint32(len(e.Data))
			crc = crc32.ChecksumIEEE(e.Data)
		}

		putUint32(&block, size)
		putUint32(&block, e.Timestamp)
		putUint32(&block, uint32(len(payloads[i])))
		putUint32(&block, crc)
		putUint32(&block, perm|e.Flags)
		putUint32(&block, uint32(len(e.Metadata)))
		block.Write(e.Metadata)
	}

	var out bytes.Buffer
	out.WriteString(stub)

	layout := Layout{ManifestOffset: out.Len(), Payloads: make([]int, len(a.Entries))}
	putUint32(&out, uint32(block.Len()))
	out.Write(block.Bytes())

	layout.DataOffset = out.Len()
	for i, p := range payloads {
		layout.Payloads[i] = out.Len()
		out.Write(p)
	}
	layout.ContentsEnd = out.Len()

	if err := appendSignature(&out, a.Signature, a.OpenSSLSignature); err != nil {
		return nil, Layout{}, err
	}

	return out.Bytes(), layout, nil
}

// MustBuild is Build failing tb on error.
func (a Archive) MustBuild(tb testing.TB) ([]byte, Layout) {
	tb.Helper()

	data, layout, err := a.Build()
	if err != nil {
		tb.Fatalf("build archive: %v", err)
	}

	return data, layout
}

// WriteFile builds the archive into dir/name and returns the file path.
func (a Archive) WriteFile(tb testing.TB, dir string, name string) (string, Layout) {
	tb.Helper()

	data, layout := a.MustBuild(tb)
	return WriteBytes(tb, dir, name, data), layout
}

// WriteBytes writes data into dir/name and returns the file path.
func WriteBytes(tb testing.TB, dir string, name string, data []byte) string {
	tb.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		tb.Fatalf("write %s: %v", path, err)
	}

	return path
}

// encodePayload compresses entry data per its flags unless Raw is set.
func encodePayload(e Entry) ([]byte, error) {
	if e.Raw != nil {
		return e.Raw, nil
	}

	switch {
	case e.Flags&FlagBZ2 != 0:
		return Bzip2(e.Data)
	case e.Flags&FlagGZ != 0:
		return Deflate(e.Data)
	default:
		return append([]byte(nil), e.Data...), nil
	}
}

// Deflate returns raw deflate encoding of data.
func Deflate(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return nil, err
	}

	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Bzip2 returns bzip2 encoding of data.
func Bzip2(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := bzip2.NewWriter(&buf, &bzip2.WriterConfig{Level: bzip2.BestCompression})
	if err != nil {
		return nil, err
	}

	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// appendSignature writes "value ++ [len] ++ flags ++ GBMB" over out contents.
func appendSignature(out *bytes.Buffer, sigType uint32, openssl []byte) error {
	if sigType == SignatureNone {
		return nil
	}

	if sigType == SignatureOpenSSL {
		out.Write(openssl)
		putUint32(out, uint32(len(openssl)))
		putUint32(out, sigType)
		out.WriteString("GBMB")
		return nil
	}

	var h hash.Hash
	switch sigType {
	case SignatureMD5:
		h = md5.New() //nolint:gosec // fixture signatures.
	case SignatureSHA1:
		h = sha1.New() //nolint:gosec // fixture signatures.
	case SignatureSHA256:
		h = sha256.New()
	case SignatureSHA512:
		h = sha512.New()
	default:
		return fmt.Errorf("unsupported fixture signature 0x%x", sigType)
	}

	h.Write(out.Bytes())
	out.Write(h.Sum(nil))
	putUint32(out, sigType)
	out.WriteString("GBMB")
	return nil
}

func putUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}
