package shared

import (
	"regexp"
	"strings"
)

const redactedPlaceholder = "[REDACTED]"

// secretPatterns matches credential-bearing patterns in log/error strings.
// Covers the key shapes of every provider the gateway talks to.
var secretPatterns = []*regexp.Regexp{
	// Generic key=value pairs with key-like prefixes.
	regexp.MustCompile(`(?i)(api[_-]?key|apikey|secret[_-]?key|auth[_-]?token|subscription[_-]?token)\s*[:=]\s*"?([A-Za-z0-9_\-./+=]{16,})"?`),
	// Bearer tokens in Authorization headers.
	regexp.MustCompile(`(?i)(Bearer\s+)([A-Za-z0-9_\-./+=]{16,})`),
	// Perplexity keys.
	regexp.MustCompile(`pplx-[A-Za-z0-9]{16,}`),
	// OpenRouter keys.
	regexp.MustCompile(`sk-or-[A-Za-z0-9\-]{16,}`),
	// Brave subscription tokens.
	regexp.MustCompile(`BSA[A-Za-z0-9_\-]{16,}`),
}

// Redact replaces credential-bearing patterns in the input with [REDACTED].
// Applied to everything that reaches a log sink or an error payload.
func Redact(input string) string {
	if input == "" {
		return input
	}
	result := input
	for _, pat := range secretPatterns {
		result = pat.ReplaceAllStringFunc(result, func(match string) string {
			// For patterns with a prefix group, keep the prefix and redact the value.
			submatch := pat.FindStringSubmatch(match)
			if len(submatch) >= 3 {
				return submatch[1] + redactedPlaceholder
			}
			return redactedPlaceholder
		})
	}
	return result
}

// RedactEnvValue returns a redacted value if the key name looks secret.
func RedactEnvValue(key, value string) string {
	keyLower := strings.ToLower(key)
	sensitiveKeys := []string{"api_key", "apikey", "secret", "token", "password", "credential"}
	for _, sensitive := range sensitiveKeys {
		if strings.Contains(keyLower, sensitive) {
			return redactedPlaceholder
		}
	}
	return value
}
