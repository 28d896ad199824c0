package text

import (
	"regexp"
	"strconv"
	"strings"
)

// namedEntities is the fixed decode table for entities commonly seen in the
// upstream feeds (French punctuation and accents dominate).
var namedEntities = map[string]string{
	"&nbsp;":  " ",
	"&amp;":   "&",
	"&lt;":    "<",
	"&gt;":    ">",
	"&quot;":  `"`,
	"&#39;":   "'",
	"&#8217;": "'",
	"&#8211;": "-",
	"&#8212;": "—",
	"&#8230;": "...",
	"&#233;":  "é",
	"&#232;":  "è",
	"&#224;":  "à",
	"&#226;":  "â",
	"&#234;":  "ê",
	"&#238;":  "î",
	"&#244;":  "ô",
	"&#251;":  "û",
	"&#231;":  "ç",
	"&#171;":  "«",
	"&#187;":  "»",
}

var (
	entityPattern = regexp.MustCompile(`&[a-zA-Z0-9#]+;`)
	tagPattern    = regexp.MustCompile(`<[^>]*>`)
)

// StripHTML converts an HTML fragment into plain text. It decodes the fixed
// entity table plus parseable numeric entities, removes tags with a
// conservative angle-bracket scan, and trims surrounding whitespace.
// Unknown named entities pass through unchanged.
func StripHTML(html string) string {
	if html == "" {
		return ""
	}

	decoded := entityPattern.ReplaceAllStringFunc(html, func(entity string) string {
		if replacement, ok := namedEntities[entity]; ok {
			return replacement
		}
		if strings.HasPrefix(entity, "&#") {
			if code, err := strconv.Atoi(entity[2 : len(entity)-1]); err == nil {
				return string(rune(code))
			}
		}
		return entity
	})

	return strings.TrimSpace(tagPattern.ReplaceAllString(decoded, ""))
}
