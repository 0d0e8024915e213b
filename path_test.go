// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/phar

package phar

import (
	"errors"
	"testing"
)

func TestNormalizePath(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "slash", in: "/", want: ""},
		{name: "clean", in: "vendor/composer/autoload.php", want: "vendor/composer/autoload.php"},
		{name: "windows", in: `.\vendor\composer\`, want: "vendor/composer"},
		{name: "dot segments", in: "./a/../b//c.php", want: "b/c.php"},
		{name: "directory entry", in: "src/", want: "src"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := NormalizePath(tc.in)
			if got != tc.want {
				t.Fatalf("NormalizePath(%q)=%q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeExtractEntryPath(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()

		got, err := normalizeExtractEntryPath(`./src\Command/./Run.php`)
		if err != nil {
			t.Fatalf("normalizeExtractEntryPath: %v", err)
		}

		if want := "src/Command/Run.php"; got != want {
			t.Fatalf("normalizeExtractEntryPath=%q, want %q", got, want)
		}
	})

	invalid := []string{
		"",
		"   ",
		"/etc/passwd",
		`\windows\system32`,
		"C:/boot.ini",
		"../escape.php",
		"src/../../escape.php",
		"./",
		"a\x00b",
	}

	for _, in := range invalid {
		in := in
		t.Run("invalid "+in, func(t *testing.T) {
			t.Parallel()

			_, err := normalizeExtractEntryPath(in)
			if !errors.Is(err, ErrInvalidExtractPath) {
				t.Fatalf("normalizeExtractEntryPath(%q): expected ErrInvalidExtractPath, got %v", in, err)
			}
		})
	}
}

func TestDisplayPath(t *testing.T) {
	t.Parallel()

	testCases := map[string]string{
		"src/App.php":              "src/App.php",
		"src/\x1b[2Jevil.php":      "src/_[2Jevil.php",
		"a\tb\nc.php":              "a_b_c.php",
		"bidi\u202egnp.php":        "bidi_gnp.php",
		"bad\xffbyte.php":          "bad_byte.php",
		"unicode/\u0444\u0430.php": "unicode/\u0444\u0430.php",
	}

	for in, want := range testCases {
		if got := DisplayPath(in); got != want {
			t.Fatalf("DisplayPath(%q)=%q, want %q", in, got, want)
		}
	}
}
