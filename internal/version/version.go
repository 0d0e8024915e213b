// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/phar

// Package version holds build metadata.
package version

// Version is set via ldflags at build time:
// go build -ldflags "-X github.com/woozymasta/phar/internal/version.Version=v0.1.0"
var Version = "dev"
