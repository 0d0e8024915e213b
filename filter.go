// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/phar

package phar

import (
	"errors"
	"fmt"
	"strings"

	"github.com/woozymasta/pathrules"
)

// ErrInvalidFilterRule means one or more entry filter rules are invalid.
var ErrInvalidFilterRule = errors.New("invalid entry filter rules")

// EntryMatcher selects entries with ordered include/exclude path rules.
type EntryMatcher struct {
	matcher *pathrules.Matcher
}

// NewEntryMatcher compiles path rules. Empty rule set yields nil matcher,
// which matches every entry.
func NewEntryMatcher(rules []pathrules.Rule, opts pathrules.MatcherOptions) (*EntryMatcher, error) {
	rules = normalizeFilterRules(rules)
	if len(rules) == 0 {
		return nil, nil
	}

	if opts.DefaultAction == pathrules.ActionUnknown {
		opts.DefaultAction = pathrules.ActionInclude
		if hasIncludeRule(rules) {
			opts.DefaultAction = pathrules.ActionExclude
		}
	}

	matcher, err := pathrules.NewMatcher(rules, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: compile rules: %w", ErrInvalidFilterRule, err)
	}

	return &EntryMatcher{matcher: matcher}, nil
}

// hasIncludeRule reports whether rules contain at least one include rule,
// in which case unmatched paths are excluded by default.
func hasIncludeRule(rules []pathrules.Rule) bool {
	for _, rule := range rules {
		if rule.Action == pathrules.ActionInclude {
			return true
		}
	}

	return false
}

// normalizeFilterRules normalizes rule patterns and drops empty patterns.
func normalizeFilterRules(rules []pathrules.Rule) []pathrules.Rule {
	normalized := make([]pathrules.Rule, 0, len(rules))
	for _, rule := range rules {
		pattern := normalizePathForMatching(rule.Pattern)
		if pattern == "" {
			continue
		}

		normalized = append(normalized, pathrules.Rule{
			Action:  rule.Action,
			Pattern: pattern,
		})
	}

	return normalized
}

// Match reports whether entry is selected by rules.
func (m *EntryMatcher) Match(entry Entry) bool {
	if m == nil || m.matcher == nil {
		return true
	}

	candidate := NormalizePath(entry.Path)
	if candidate == "" {
		return false
	}

	return m.matcher.Included(candidate, entry.IsDir())
}

// FilterEntries keeps entries selected by matcher, preserving manifest order.
func FilterEntries(entries []Entry, matcher *EntryMatcher) []Entry {
	if matcher == nil {
		return entries
	}

	out := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if matcher.Match(entry) {
			out = append(out, entry)
		}
	}

	return out
}

// FilterEntriesByPrefix keeps entries under prefix (or exact match if it points to a file).
func FilterEntriesByPrefix(entries []Entry, prefix string) []Entry {
	prefix = NormalizePath(prefix)
	if prefix == "" {
		return entries
	}

	normalizedPrefix := prefix + "/"
	out := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		entryPath := NormalizePath(entry.Path)
		if entryPath == prefix || strings.HasPrefix(entryPath, normalizedPrefix) {
			out = append(out, entry)
		}
	}

	return out
}
