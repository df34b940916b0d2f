// Package redact strips credentials, SQL literals, file paths and similar
// details from error text before it is logged. Client responses never carry
// raw errors; this package keeps the logs clean as well.
package redact

import (
	"log/slog"
	"regexp"
)

// Placeholders substituted for redacted fragments.
const (
	RedactionPlaceholder          = "[REDACTED]"
	RedactedPathPlaceholder       = "[REDACTED_PATH]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedEmailPlaceholder      = "[REDACTED_EMAIL]"
	RedactedStackPlaceholder      = "[STACK_TRACE_REDACTED]"
)

type rule struct {
	re          *regexp.Regexp
	replacement string
}

// rules are applied in order; earlier rules may consume text later ones would match.
var rules = []rule{
	{
		re:          regexp.MustCompile(`(?:goroutine \d+|panic:)[\s\S]*?(\n\t.*)+`),
		replacement: RedactedStackPlaceholder,
	},
	{
		// userinfo in postgres:// and redis:// connection URLs
		re:          regexp.MustCompile(`(?i)\b(postgres(?:ql)?|rediss?)://[^@\s/]+@`),
		replacement: "${1}://" + RedactedCredentialPlaceholder + "@",
	},
	{
		re:          regexp.MustCompile(`(?i)\b(password|passwd|pwd)\s*[=:]\s*[^\s&'"]+`),
		replacement: "${1}=" + RedactedCredentialPlaceholder,
	},
	{
		// single-quoted SQL literals
		re:          regexp.MustCompile(`'(?:[^']|'')*'`),
		replacement: "'" + RedactionPlaceholder + "'",
	},
	{
		re:          regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
		replacement: RedactedEmailPlaceholder,
	},
	{
		re:          regexp.MustCompile(`(/[\w.-]+){2,}`),
		replacement: RedactedPathPlaceholder,
	},
	{
		re:          regexp.MustCompile(`[A-Za-z]:\\[^\\\s]+(\\[^\\\s]+)+`),
		replacement: RedactedPathPlaceholder,
	},
}

// String redacts sensitive information from the input string
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.re.ReplaceAllString(result, r.replacement)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}

// ErrorAttr returns a slog attribute named "error" holding the redacted error.
func ErrorAttr(err error) slog.Attr {
	return slog.String("error", Error(err))
}
