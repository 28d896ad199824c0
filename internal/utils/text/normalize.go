// Package text provides utilities for text normalization and analysis.
// This package includes the field normalization primitives shared by all
// source adapters: loose text extraction, slug derivation, and the stable
// content hash used for article identity.
package text

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// TextContent extracts plain text from a loosely-typed decoded value.
// Upstream payloads carry text in several shapes depending on the producer:
// a raw string, a CDATA wrapper ({"__cdata": "..."}), or a text-node wrapper
// ({"#text": "..."}). Nil yields the empty string. Any other value is
// stringified. This function never fails.
func TextContent(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case map[string]any:
		if s, ok := v["__cdata"].(string); ok {
			return s
		}
		if s, ok := v["#text"].(string); ok {
			return s
		}
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Slugify converts a string into a URL-safe slug: lowercased, diacritics
// stripped via NFKD decomposition, runs of non-alphanumeric characters
// collapsed to a single hyphen, leading and trailing hyphens trimmed.
// An empty result is possible (all-punctuation or non-Latin input) and the
// caller must supply a fallback.
func Slugify(input string) string {
	lowered := strings.ToLower(TextContent(input))
	decomposed := norm.NFKD.String(lowered)

	var b strings.Builder
	b.Grow(len(decomposed))
	pendingHyphen := false
	for _, r := range decomposed {
		// Drop combining marks left over from decomposition.
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}

	return b.String()
}

// HashString computes a deterministic non-negative hash of the input using
// the multiply-by-31 rolling scheme over UTF-16 code units, wrapped to
// 32-bit signed. Collisions are possible but rare enough for dedup keys.
func HashString(input string) int {
	var hash int32
	for _, unit := range utf16.Encode([]rune(input)) {
		hash = hash*31 + int32(unit)
	}

	v := int64(hash)
	if v < 0 {
		v = -v
	}
	return int(v)
}
