// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/phar

package phar

import (
	"errors"
	"fmt"
)

// Sentinel errors for archive operations. Use errors.Is in callers.
var (
	// ErrPatternNotFound means the end-of-stub pattern is absent from the file.
	ErrPatternNotFound = errors.New("end-of-stub pattern not found")
	// ErrTruncatedRead means fewer bytes are available than a field declares.
	ErrTruncatedRead = errors.New("truncated read")
	// ErrMissingCapability means a decompressor required by the manifest is unavailable.
	ErrMissingCapability = errors.New("missing decompression capability")
	// ErrCorruptedFile means entry contents failed decompression or checksum verification.
	ErrCorruptedFile = errors.New("entry contents corrupted")
	// ErrIO means a filesystem create, write, chmod, or remove operation failed.
	ErrIO = errors.New("filesystem operation failed")
	// ErrNilReader means the reader is nil.
	ErrNilReader = errors.New("reader is nil")
	// ErrClosed means the reader or resource is already closed.
	ErrClosed = errors.New("reader or resource already closed")
	// ErrEntryNotFound means the entry is not found.
	ErrEntryNotFound = errors.New("entry not found")
	// ErrInvalidExtractPath means archive entry path is invalid for extraction destination.
	ErrInvalidExtractPath = errors.New("invalid extract path")
	// ErrUnsafeOutputDir means the output directory is or contains the archive being extracted.
	ErrUnsafeOutputDir = errors.New("output directory contains the archive")
	// ErrManifestTooLarge means the manifest size prefix exceeds the configured limit.
	ErrManifestTooLarge = errors.New("manifest exceeds size limit")
	// ErrNoSignature means the archive carries no signature trailer.
	ErrNoSignature = errors.New("archive has no signature")
	// ErrUnsupportedSignature means the signature type cannot be verified.
	ErrUnsupportedSignature = errors.New("unsupported signature type")
	// ErrSignatureMismatch means the stored signature does not match archive contents.
	ErrSignatureMismatch = errors.New("signature mismatch")
)

// ErrorKind classifies errors returned by this package.
type ErrorKind int

// Error kinds, in the order KindOf checks them.
const (
	KindUnknown ErrorKind = iota
	KindPatternNotFound
	KindTruncatedRead
	KindMissingCapability
	KindCorruptedFile
	KindIO
)

// String returns kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindPatternNotFound:
		return "pattern_not_found"
	case KindTruncatedRead:
		return "truncated_read"
	case KindMissingCapability:
		return "missing_capability"
	case KindCorruptedFile:
		return "corrupted_file"
	case KindIO:
		return "io"
	default:
		return "unknown"
	}
}

// KindOf maps err to its error kind. Nil and foreign errors yield KindUnknown.
// An unsafe entry path counts as a corrupted manifest.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrPatternNotFound):
		return KindPatternNotFound
	case errors.Is(err, ErrTruncatedRead):
		return KindTruncatedRead
	case errors.Is(err, ErrMissingCapability):
		return KindMissingCapability
	case errors.Is(err, ErrCorruptedFile), errors.Is(err, ErrInvalidExtractPath):
		return KindCorruptedFile
	case errors.Is(err, ErrIO):
		return KindIO
	default:
		return KindUnknown
	}
}

// CorruptedFileError reports an entry whose decoded contents cannot be trusted.
type CorruptedFileError struct {
	// Err is the decompressor failure, nil for checksum or size mismatches.
	Err error
	// Path is the entry path as stored in the manifest.
	Path string
	// Reason is a short description used when Err is nil.
	Reason string
	// Expected is the value recorded in the manifest.
	Expected uint32
	// Actual is the value computed from decoded contents.
	Actual uint32
}

// Error implements error.
func (e *CorruptedFileError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %q: %v", ErrCorruptedFile, e.Path, e.Err)
	}

	return fmt.Sprintf("%s: %q: %s mismatch: expected %d (0x%08x), got %d (0x%08x)",
		ErrCorruptedFile, e.Path, e.Reason, e.Expected, e.Expected, e.Actual, e.Actual)
}

// Is reports whether target is ErrCorruptedFile.
func (e *CorruptedFileError) Is(target error) bool {
	return target == ErrCorruptedFile
}

// Unwrap returns the underlying decompressor error.
func (e *CorruptedFileError) Unwrap() error {
	return e.Err
}

// IOError reports a failed filesystem operation on one path.
type IOError struct {
	// Err is the underlying OS error.
	Err error
	// Op names the operation ("mkdir", "write", "chmod", "remove", ...).
	Op string
	// Path is the offending filesystem path.
	Path string
}

// Error implements error.
func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s %q: %v", ErrIO, e.Op, e.Path, e.Err)
}

// Unwrap exposes both ErrIO and the OS error to errors.Is / errors.As.
func (e *IOError) Unwrap() []error {
	return []error{ErrIO, e.Err}
}

// newIOError wraps err for op on path; nil err stays nil.
func newIOError(op string, path string, err error) error {
	if err == nil {
		return nil
	}

	return &IOError{Op: op, Path: path, Err: err}
}

// truncatedReadError formats a short read in one place for scanner and parser.
func truncatedReadError(what string, got int, want uint64, offset int64) error {
	return fmt.Errorf("%w: %s: got %d of %d bytes at offset %d", ErrTruncatedRead, what, got, want, offset)
}
