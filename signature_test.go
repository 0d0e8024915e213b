// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/phar

package phar

import (
	"bytes"
	"errors"
	"testing"

	"github.com/woozymasta/phar/internal/testutil"
)

func TestVerifySignature(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		sigType uint32
		want    SignatureType
	}{
		{name: "md5", sigType: testutil.SignatureMD5, want: SignatureMD5},
		{name: "sha1", sigType: testutil.SignatureSHA1, want: SignatureSHA1},
		{name: "sha256", sigType: testutil.SignatureSHA256, want: SignatureSHA256},
		{name: "sha512", sigType: testutil.SignatureSHA512, want: SignatureSHA512},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			archive := sampleArchive()
			archive.Signature = tc.sigType
			path, layout := archive.WriteFile(t, t.TempDir(), "signed.phar")

			sig, err := VerifySignature(path)
			if err != nil {
				t.Fatalf("VerifySignature: %v", err)
			}
			if sig.Type != tc.want {
				t.Fatalf("Type=%s, want %s", sig.Type, tc.want)
			}
			if sig.SignedSize != int64(layout.ContentsEnd) {
				t.Fatalf("SignedSize=%d, want %d", sig.SignedSize, layout.ContentsEnd)
			}
		})
	}
}

func TestVerifySignature_Tampered(t *testing.T) {
	t.Parallel()

	archive := sampleArchive()
	archive.Signature = testutil.SignatureSHA256
	data, layout := archive.MustBuild(t)
	data[layout.Payloads[0]] ^= 0x20

	_, err := openBytes(t, data, ReaderOptions{}).VerifySignature()
	if !errors.Is(err, ErrSignatureMismatch) {
		t.Fatalf("expected ErrSignatureMismatch, got %v", err)
	}
}

func TestSignature_Unsigned(t *testing.T) {
	t.Parallel()

	data, _ := sampleArchive().MustBuild(t)

	_, err := openBytes(t, data, ReaderOptions{}).Signature()
	if !errors.Is(err, ErrNoSignature) {
		t.Fatalf("expected ErrNoSignature, got %v", err)
	}
}

func TestSignature_OpenSSL(t *testing.T) {
	t.Parallel()

	archive := sampleArchive()
	archive.Signature = testutil.SignatureOpenSSL
	archive.OpenSSLSignature = bytes.Repeat([]byte{0xab}, 128)
	data, layout := archive.MustBuild(t)

	r := openBytes(t, data, ReaderOptions{})

	sig, err := r.Signature()
	if err != nil {
		t.Fatalf("Signature: %v", err)
	}
	if sig.Type != SignatureOpenSSL || len(sig.Value) != 128 || sig.SignedSize != int64(layout.ContentsEnd) {
		t.Fatalf("unexpected signature: type=%s len=%d signed=%d", sig.Type, len(sig.Value), sig.SignedSize)
	}

	if _, err := r.VerifySignature(); !errors.Is(err, ErrUnsupportedSignature) {
		t.Fatalf("expected ErrUnsupportedSignature, got %v", err)
	}
}

func TestSignatureTypeString(t *testing.T) {
	t.Parallel()

	if got := SignatureSHA256.String(); got != "SHA-256" {
		t.Fatalf("String=%q, want SHA-256", got)
	}
	if got := SignatureType(0x99).String(); got != "unknown(0x0099)" {
		t.Fatalf("String=%q, want unknown(0x0099)", got)
	}
}
