package text

// CountRunes counts Unicode characters (runes) in the given text. Excerpt
// truncation budgets are expressed in characters, not bytes, so multi-byte
// Arabic and accented French text must be measured in runes.
func CountRunes(text string) int {
	return len([]rune(text))
}

// Truncate shortens text to at most limit runes, appending the ellipsis
// marker when truncation happens. Three runes of the budget are reserved
// for the marker so the result never exceeds limit.
func Truncate(text string, limit int) string {
	if CountRunes(text) <= limit {
		return text
	}
	runes := []rune(text)
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}
