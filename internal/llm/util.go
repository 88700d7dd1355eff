// Package llm - util.go provides shared utilities for LLM response processing.
package llm

import "strings"

// CleanJSONBlock recovers the JSON payload from a model response. Models
// often wrap JSON in ```json fences or surround it with conversational
// preamble/trailer text even when instructed not to.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	// Handle ```json ... ``` blocks
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	// Handle generic ``` ... ``` blocks
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Skip a language identifier on the first line
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := text[:idx]
			if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.Contains(firstLine, "{") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	// No fences: scan for the first balanced JSON object or array, which
	// also drops any preamble and trailing chatter.
	objStart := strings.Index(text, "{")
	arrStart := strings.Index(text, "[")
	if objStart >= 0 && (arrStart < 0 || objStart < arrStart) {
		if obj := extractJSONObject(text[objStart:]); obj != "" {
			return obj
		}
	}
	if arrStart >= 0 {
		if arr := extractJSONArray(text[arrStart:]); arr != "" {
			return arr
		}
	}

	return text
}

// extractJSONObject returns the balanced {...} prefix of s, or "" if s does
// not start with a complete object. Braces inside string literals are
// ignored.
func extractJSONObject(s string) string {
	return extractBalanced(s, '{', '}')
}

// extractJSONArray returns the balanced [...] prefix of s, or "".
func extractJSONArray(s string) string {
	return extractBalanced(s, '[', ']')
}

func extractBalanced(s string, opener, closer byte) string {
	if len(s) == 0 || s[0] != opener {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case !inString && c == opener:
			depth++
		case !inString && c == closer:
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}
	return ""
}
