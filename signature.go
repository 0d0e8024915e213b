// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/phar

package phar

import (
	"bytes"
	"crypto/md5"  //nolint:gosec // signature format requires MD5.
	"crypto/sha1" //nolint:gosec // signature format requires SHA1.
	"crypto/sha256"
	"crypto/sha512"
	"encoding/binary"
	"fmt"
	"hash"
	"io"
)

// signatureMagic terminates every signed archive.
const signatureMagic = "GBMB"

// signatureTrailerSize is flags + magic.
const signatureTrailerSize = uint32Size + len(signatureMagic)

// SignatureType is the signature algorithm flag stored in the trailer.
type SignatureType uint32

// Signature algorithm flags.
const (
	SignatureMD5           SignatureType = 0x0001
	SignatureSHA1          SignatureType = 0x0002
	SignatureSHA256        SignatureType = 0x0003
	SignatureSHA512        SignatureType = 0x0004
	SignatureOpenSSL       SignatureType = 0x0010
	SignatureOpenSSLSHA256 SignatureType = 0x0011
	SignatureOpenSSLSHA512 SignatureType = 0x0012
)

// String returns algorithm name.
func (t SignatureType) String() string {
	switch t {
	case SignatureMD5:
		return "MD5"
	case SignatureSHA1:
		return "SHA-1"
	case SignatureSHA256:
		return "SHA-256"
	case SignatureSHA512:
		return "SHA-512"
	case SignatureOpenSSL:
		return "OpenSSL"
	case SignatureOpenSSLSHA256:
		return "OpenSSL SHA-256"
	case SignatureOpenSSLSHA512:
		return "OpenSSL SHA-512"
	default:
		return fmt.Sprintf("unknown(0x%04x)", uint32(t))
	}
}

// isOpenSSL reports whether signature is length-prefixed public-key signature.
func (t SignatureType) isOpenSSL() bool {
	return t == SignatureOpenSSL || t == SignatureOpenSSLSHA256 || t == SignatureOpenSSLSHA512
}

// digestSize returns hash length for hash-based types, zero otherwise.
func (t SignatureType) digestSize() int {
	switch t {
	case SignatureMD5:
		return md5.Size
	case SignatureSHA1:
		return sha1.Size
	case SignatureSHA256:
		return sha256.Size
	case SignatureSHA512:
		return sha512.Size
	default:
		return 0
	}
}

// newHash returns hasher for hash-based types.
func (t SignatureType) newHash() hash.Hash {
	switch t {
	case SignatureMD5:
		return md5.New() //nolint:gosec // signature format requires MD5.
	case SignatureSHA1:
		return sha1.New() //nolint:gosec // signature format requires SHA1.
	case SignatureSHA256:
		return sha256.New()
	case SignatureSHA512:
		return sha512.New()
	default:
		return nil
	}
}

// Signature is a parsed signature trailer.
type Signature struct {
	// Value is the stored digest or public-key signature bytes.
	Value []byte `json:"value" yaml:"value"`
	// Type is the signature algorithm.
	Type SignatureType `json:"type" yaml:"type"`
	// SignedSize is the number of leading archive bytes covered by the signature.
	SignedSize int64 `json:"signed_size" yaml:"signed_size"`
}

// Signature parses the signature trailer. ErrNoSignature is returned for unsigned archives.
func (r *Reader) Signature() (*Signature, error) {
	if err := r.ensureOpen(); err != nil {
		return nil, err
	}

	return readSignature(r.ra, r.size, r.contentsEnd())
}

// VerifySignature parses the trailer and checks the digest over signed bytes.
// Public-key signatures yield ErrUnsupportedSignature.
func (r *Reader) VerifySignature() (*Signature, error) {
	sig, err := r.Signature()
	if err != nil {
		return nil, err
	}

	h := sig.Type.newHash()
	if h == nil {
		return sig, fmt.Errorf("%w: %s", ErrUnsupportedSignature, sig.Type)
	}

	if _, err := io.Copy(h, io.NewSectionReader(r.ra, 0, sig.SignedSize)); err != nil {
		return sig, fmt.Errorf("hash signed data: %w", err)
	}

	if sum := h.Sum(nil); !bytes.Equal(sum, sig.Value) {
		return sig, fmt.Errorf("%w: %s expected %x, got %x", ErrSignatureMismatch, sig.Type, sig.Value, sum)
	}

	return sig, nil
}

// VerifySignature opens archive at path and verifies its signature trailer.
func VerifySignature(path string) (*Signature, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	return r.VerifySignature()
}

// contentsEnd returns absolute offset right after the last entry payload.
func (r *Reader) contentsEnd() int64 {
	return r.dataStart + int64(r.manifest.ContentsSize()) //nolint:gosec // bounded by archive size checks
}

// readSignature decodes trailer "value ++ [len] ++ flags ++ GBMB" at end of source.
// The trailer must start at or after contentsEnd.
func readSignature(ra io.ReaderAt, size int64, contentsEnd int64) (*Signature, error) {
	if size-contentsEnd < int64(signatureTrailerSize) {
		return nil, ErrNoSignature
	}

	var tail [signatureTrailerSize]byte
	if _, err := ra.ReadAt(tail[:], size-int64(signatureTrailerSize)); err != nil {
		return nil, fmt.Errorf("read signature trailer: %w", err)
	}
	if string(tail[uint32Size:]) != signatureMagic {
		return nil, ErrNoSignature
	}

	sigType := SignatureType(binary.LittleEndian.Uint32(tail[:uint32Size]))
	end := size - int64(signatureTrailerSize)

	var valueLen int64
	switch {
	case sigType.digestSize() > 0:
		valueLen = int64(sigType.digestSize())
	case sigType.isOpenSSL():
		if end-contentsEnd < uint32Size {
			return nil, truncatedReadError("signature length", int(end-contentsEnd), uint32Size, contentsEnd)
		}

		var lenBuf [uint32Size]byte
		end -= uint32Size
		if _, err := ra.ReadAt(lenBuf[:], end); err != nil {
			return nil, fmt.Errorf("read signature length: %w", err)
		}

		valueLen = int64(binary.LittleEndian.Uint32(lenBuf[:]))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSignature, sigType)
	}

	start := end - valueLen
	if start < contentsEnd {
		return nil, truncatedReadError("signature", int(max(end-contentsEnd, 0)), uint64(valueLen), contentsEnd) //nolint:gosec // non-negative
	}

	value := make([]byte, valueLen)
	if _, err := ra.ReadAt(value, start); err != nil {
		return nil, fmt.Errorf("read signature: %w", err)
	}

	return &Signature{Type: sigType, Value: value, SignedSize: start}, nil
}
