// Package safety wraps untrusted externally-sourced text before it is
// handed back to a tool caller. Search results are attacker-controlled:
// a page title or an AI-synthesized answer can carry prompt-injection
// payloads, so free text is neutralized and fenced. Destination URLs are
// NOT wrapped — downstream tools chain on the literal URL string, and
// wrapping them would break that. That tradeoff is intentional.
package safety

import (
	"regexp"
	"strings"
)

const (
	openMarker  = "<untrusted-content>"
	closeMarker = "</untrusted-content>"
)

// neutralizePatterns matches markup that could terminate the fence or
// smuggle chat-template control tags through it.
var neutralizePatterns = []struct {
	re          *regexp.Regexp
	replacement string
}{
	// A literal close marker inside the content would end the fence early.
	{regexp.MustCompile(`(?i)</?untrusted-content>`), ""},
	// Chat template tags ([SYSTEM], <|im_start|>, <system>).
	{regexp.MustCompile(`(?i)\[\s*SYSTEM\s*\]`), "[system]"},
	{regexp.MustCompile(`(?i)<\s*\|?\s*(system|im_start|im_end)\s*\|?\s*>`), ""},
}

// Sanitizer fences untrusted free text.
type Sanitizer struct{}

// NewSanitizer creates a Sanitizer.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{}
}

// Wrap neutralizes fence-breaking markup in text and encloses it in
// untrusted-content markers. Empty input stays empty so optional fields
// keep their omitempty behavior.
func (s *Sanitizer) Wrap(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	for _, pat := range neutralizePatterns {
		text = pat.re.ReplaceAllString(text, pat.replacement)
	}
	return openMarker + text + closeMarker
}

// WrapFunc adapts the sanitizer to the plain function shape the search
// core accepts, keeping the package a narrow collaborator.
func (s *Sanitizer) WrapFunc() func(string) string {
	return s.Wrap
}
