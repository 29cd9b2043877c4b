// Package redact scrubs credentials, tokens and other sensitive fragments from
// strings before they reach the logs. Connection URIs for both supported
// databases, session tokens in either transport, and raw SQL are covered.
package redact

import (
	"log/slog"
	"net/url"
	"regexp"
)

// Placeholders substituted for redacted fragments.
const (
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedTokenPlaceholder      = "[REDACTED_TOKEN]"
	RedactedJWTPlaceholder        = "[REDACTED_JWT]"
	RedactedEmailPlaceholder      = "[REDACTED_EMAIL]"
	RedactedPathPlaceholder       = "[REDACTED_PATH]"
	RedactedSQLPlaceholder        = "[REDACTED_SQL]"
	RedactedStackPlaceholder      = "[STACK_TRACE_REDACTED]"
)

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// rules run in order; earlier rules see the unmodified input.
var rules = []rule{
	{
		pattern:     regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`),
		replacement: RedactedJWTPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`(?i)\b(bearer)\s+[A-Za-z0-9_\-.~+/=]{8,}`),
		replacement: "${1} " + RedactedTokenPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`(?i)\b(postgres(?:ql)?|mongodb(?:\+srv)?)://[^@/\s]+@`),
		replacement: "${1}://" + RedactedCredentialPlaceholder + "@",
	},
	{
		pattern:     regexp.MustCompile(`(?i)\b(password|passwd|pwd)=[^&\s'"]+`),
		replacement: "${1}=" + RedactedCredentialPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`(?i)\b(session_secret|secret|api[_-]?key|token)([=:]\s*)['"]?[A-Za-z0-9_\-.~+/]{8,}['"]?`),
		replacement: "${1}${2}" + RedactedKeyPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
		replacement: RedactedEmailPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`(?:goroutine \d+|panic:)[\s\S]*?(\n\t.*)+`),
		replacement: RedactedStackPlaceholder,
	},
	{
		pattern:     regexp.MustCompile(`(?:/[\w.-]+){2,}`),
		replacement: RedactedPathPlaceholder,
	},
	{
		// Keywords are matched case-sensitively so ordinary messages such as
		// "failed to update post" survive.
		pattern:     regexp.MustCompile(`\b(?:SELECT|INSERT INTO|UPDATE|DELETE FROM)\s[^;]*`),
		replacement: RedactedSQLPlaceholder,
	},
}

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.replacement)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}

// Attr returns err as a redacted "error" log attribute.
func Attr(err error) slog.Attr {
	return slog.String("error", Error(err))
}

// URL masks the password of a connection URI so it can be logged.
// Input that does not parse as a URL is redacted as a plain string.
func URL(raw string) string {
	if raw == "" {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return String(raw)
	}
	return u.Redacted()
}
