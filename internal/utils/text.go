package utils

import "strings"

// StripFences removes a surrounding markdown code fence, which models often
// add around JSON even when asked not to.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	// drop the opening fence line including any language tag
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// NormalizeKey lowercases and trims an enum-like input.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
