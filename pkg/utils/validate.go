package utils

import (
	"regexp"
	"strings"
)

// MaxPromptLength bounds the accepted prompt size in characters.
const MaxPromptLength = 5000

// MinSessionIDLength is the shortest accepted session identifier.
const MinSessionIDLength = 5

var sessionIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidSessionID reports whether the id meets the length and charset rules.
func ValidSessionID(id string) bool {
	if len(id) < MinSessionIDLength {
		return false
	}
	return sessionIDPattern.MatchString(id)
}

// SanitizePrompt trims the prompt and truncates it to MaxPromptLength.
func SanitizePrompt(text string) string {
	text = strings.TrimSpace(text)
	if len(text) > MaxPromptLength {
		text = text[:MaxPromptLength]
	}
	return text
}

// TruncateText shortens text for log lines.
func TruncateText(text string, maxLength int) string {
	const suffix = "..."
	if len(text) <= maxLength {
		return text
	}
	return text[:maxLength-len(suffix)] + suffix
}
