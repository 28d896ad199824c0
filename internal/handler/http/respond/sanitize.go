package respond

import (
	"regexp"
)

var (
	// Credentials embedded in URLs (user:password@host), as seen in
	// misconfigured upstream endpoints.
	urlCredentialsPattern = regexp.MustCompile(`://([^:/]+):([^@/]+)@`)

	// Token-bearing query parameters on upstream URLs that end up in
	// fetch error messages.
	tokenParamPattern = regexp.MustCompile(`([?&](?:api_key|apikey|token|key)=)[^&\s"]+`)
)

// SanitizeError returns the error message with credential material masked.
// Upstream fetch errors embed the full request URL, which can carry auth
// tokens, so anything resembling a secret is replaced before logging.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	msg = urlCredentialsPattern.ReplaceAllString(msg, "://$1:****@")
	msg = tokenParamPattern.ReplaceAllString(msg, "$1****")
	return msg
}
