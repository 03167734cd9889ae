// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from post titles.
package slug

import (
	"regexp"
	"strings"
)

var (
	// disallowed matches anything that isn't a lowercase letter, digit,
	// space, or hyphen. Applied after lowercasing. Note the class admits
	// only the plain space: tabs and newlines are removed outright, they
	// never become hyphens.
	disallowed = regexp.MustCompile(`[^a-z0-9 -]`)
	// spaceRun collapses consecutive spaces into one hyphen.
	spaceRun = regexp.MustCompile(` +`)
	// hyphenRun collapses consecutive hyphens into one.
	hyphenRun = regexp.MustCompile(`-{2,}`)
)

// Generate creates a URL-friendly slug from the given title.
// Example: "Hello, World! 2026" → "hello-world-2026"
//
// The function is pure and idempotent: feeding a slug back in returns it
// unchanged. It does NOT guarantee uniqueness — that is enforced by the
// unique index on posts.slug.
func Generate(title string) string {
	result := strings.ToLower(title)
	result = disallowed.ReplaceAllString(result, "")
	result = spaceRun.ReplaceAllString(result, "-")
	result = hyphenRun.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	return result
}
