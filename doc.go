// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/phar

/*
Package phar reads and extracts PHAR-style self-extracting archives: an
executable stub terminated by an end-of-stub pattern, followed by a
length-prefixed binary manifest, the concatenated entry payloads and an
optional signature trailer.

Layout (all integers uint32 little-endian):
  - stub bytes up to and including "__HALT_COMPILER(); ?>" (optionally "\r\n");
  - manifest size, then manifest block: entry count, api version (2 bytes),
    global flags, alias, global metadata, entry records;
  - payloads in manifest order (directory entries own no bytes);
  - optional trailer: digest, signature flags, "GBMB".

Entry flags carry compression bits: 0x1000 for raw deflate and 0x2000 for
bzip2. Every decoded payload is checked against the recorded size and
CRC-32 (IEEE).

# Reading

Open an archive and read entries:

	r, err := phar.Open("tool.phar")
	if err != nil {
	    return err
	}
	defer r.Close()
	if err := r.CheckCapabilities(); err != nil {
	    return err
	}
	for _, e := range r.Entries() {
	    data, err := r.ReadEntry(e.Path)
	    if err != nil {
	        return err
	    }
	    _ = data
	}

For metadata-only scans:

	entries, err := phar.ListEntries("tool.phar")
	if err != nil {
	    return err
	}
	_ = entries

The manifest start is found by scanning for DefaultPattern. Archives built
with the "open" stub variant use OpenPattern; a known offset skips the scan:

	r, err := phar.OpenWithOptions("tool.phar", phar.ReaderOptions{
	    Pattern: []byte(phar.OpenPattern),
	})

# Extracting

Extract materializes every entry and returns the output directory:

	dir, err := phar.Extract("tool.phar", phar.ExtractOptions{
	    Dir: "/tmp/pharextract/tool",
	})
	if err != nil {
	    return err
	}
	_ = dir

A marker file named by the archive content digest is written into the
directory after all entries succeed. A later call for an unchanged archive
finds the marker and returns immediately without touching any file. A
changed archive has a different marker, so the directory is wiped and
rebuilt. Concurrent calls for one directory must be serialized by the
caller.

Failures are classified by KindOf:

	switch phar.KindOf(err) {
	case phar.KindMissingCapability:
	    // install a decompressor or reject the archive
	case phar.KindCorruptedFile:
	    var cerr *phar.CorruptedFileError
	    if errors.As(err, &cerr) {
	        log.Printf("bad entry %s", cerr.Path)
	    }
	}

# Filtering

Listing supports ordered include/exclude rules:

	m, err := phar.NewEntryMatcher([]pathrules.Rule{
	    {Action: pathrules.ActionInclude, Pattern: "src/*.php"},
	}, pathrules.MatcherOptions{})
	if err != nil {
	    return err
	}
	selected := phar.FilterEntries(entries, m)
	_ = selected
*/
package phar
