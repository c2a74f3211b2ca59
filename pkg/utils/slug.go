package utils

import (
	"regexp"
	"strings"
)

var (
	nonAlphanumericRe = regexp.MustCompile(`[^a-z0-9]+`)
	multipleDashRe    = regexp.MustCompile(`-+`)
)

// Slugify derives a URL-safe identifier: lowercased, runs of anything
// non-alphanumeric collapsed to a single hyphen, outer hyphens trimmed.
// Uniqueness is the caller's problem.
func Slugify(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	s = nonAlphanumericRe.ReplaceAllString(s, "-")
	s = multipleDashRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// NormalizeTagName canonicalizes a tag name the same way as Slugify.
// The normalized name is the tag's identity.
func NormalizeTagName(input string) string {
	return Slugify(input)
}

// TagDisplayName builds the default human-readable form of a raw tag input:
// each word capitalized, separators normalized to single spaces.
func TagDisplayName(input string) string {
	words := strings.Fields(strings.ReplaceAll(strings.TrimSpace(input), "-", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
