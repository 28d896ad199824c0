package adapter

import (
	"net/url"
	"regexp"
)

var tokenPattern = regexp.MustCompile(`\{(\w+)\}`)

// FillEndpointTemplate substitutes {token} placeholders in an endpoint
// template with the given values. Values are query-escaped; unknown tokens
// are left verbatim so a misconfigured template fails visibly upstream
// rather than silently producing a mangled URL.
func FillEndpointTemplate(template string, values map[string]string) string {
	return tokenPattern.ReplaceAllStringFunc(template, func(match string) string {
		token := match[1 : len(match)-1]
		if value, ok := values[token]; ok {
			return url.QueryEscape(value)
		}
		return match
	})
}
