// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/phar

package phar

import (
	"fmt"
	"log/slog"
	"time"
)

// Extract materializes every entry of the archive at archivePath into
// opts.Dir and returns that directory.
//
// The manifest start is located with opts.Pattern unless opts.Offset is set.
// A marker file named by the archive content digest short-circuits repeated
// calls: when present, the directory is returned untouched. Otherwise the
// directory is wiped, entries are decoded and written in manifest order, and
// the marker is written last, after every entry succeeded.
//
// Calls for the same directory must be serialized by the caller.
func Extract(archivePath string, opts ExtractOptions) (string, error) {
	opts.applyDefaults(archivePath)
	logger := opts.Logger.With(slog.String("archive", archivePath), slog.String("dir", opts.Dir))
	started := time.Now()

	r, err := OpenWithOptions(archivePath, opts.readerOptions())
	if err != nil {
		return "", err
	}
	defer func() { _ = r.Close() }()

	if opts.Offset <= 0 {
		logger.Debug("boundary found", slog.Int64("offset", r.ManifestOffset()))
	}

	manifest := r.Manifest()
	logger.Debug("manifest parsed",
		slog.Int64("offset", r.ManifestOffset()),
		slog.Int("entries", len(manifest.Entries)),
		slog.String("compression", manifest.Flags.String()))

	if err := r.CheckCapabilities(); err != nil {
		return "", fmt.Errorf("%s: %w", archivePath, err)
	}

	if opts.VerifySignature {
		sig, err := r.VerifySignature()
		if err != nil {
			return "", fmt.Errorf("%s: %w", archivePath, err)
		}

		logger.Debug("signature verified", slog.String("type", sig.Type.String()))
	}

	marker, err := r.MarkerName()
	if err != nil {
		return "", fmt.Errorf("%s: %w", archivePath, err)
	}

	if IsCached(opts.Dir, marker) {
		logger.Debug("extraction cached", slog.String("marker", marker))
		return opts.Dir, nil
	}

	logger.Debug("extraction not cached", slog.String("marker", marker))
	if err := checkOutputDir(opts.Dir, archivePath); err != nil {
		return "", err
	}

	if err := resetDir(opts.Dir, opts.DirMode); err != nil {
		return "", err
	}

	written, err := extractEntries(r, opts, logger)
	if err != nil {
		return "", err
	}

	if err := writeMarker(opts.Dir, marker, opts.FileMode); err != nil {
		return "", err
	}

	logger.Info("archive extracted",
		slog.Int("entries", written),
		slog.Duration("duration", time.Since(started)))

	return opts.Dir, nil
}

// extractEntries decodes and materializes entries in manifest order.
func extractEntries(r *Reader, opts ExtractOptions, logger *slog.Logger) (int, error) {
	entries := r.manifest.Entries
	for i := range entries {
		entry := &entries[i]

		data, err := r.readEntryData(entry)
		if err != nil {
			return i, err
		}

		outPath, err := materialize(opts.Dir, entry, data, opts.DirMode, opts.FileMode)
		if err != nil {
			return i, err
		}

		logger.Debug("entry written", slog.String("path", entry.Path), slog.Int("bytes", len(data)))
		if opts.OnEntryDone != nil {
			opts.OnEntryDone(*entry, outPath)
		}
	}

	return len(entries), nil
}
