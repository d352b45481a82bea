// Package llm - util.go provides shared utilities for LLM response processing.
package llm

import "strings"

// CleanJSONBlock normalizes raw model output down to its JSON payload.
// LLMs often wrap JSON in ```json ... ``` blocks or surround it with
// conversational prose even when instructed not to; both are stripped here.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Skip a potential language identifier on the first line
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := text[:idx]
			if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.Contains(firstLine, "{") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}

	return salvageJSON(text)
}

// salvageJSON locates the outermost complete JSON value inside text that may
// carry preamble or trailing prose. Returns text unchanged when no complete
// value is found, leaving the decode error to the caller.
func salvageJSON(text string) string {
	objIdx := strings.Index(text, "{")
	arrIdx := strings.Index(text, "[")

	start := objIdx
	extract := extractJSONObject
	if objIdx < 0 || (arrIdx >= 0 && arrIdx < objIdx) {
		start = arrIdx
		extract = extractJSONArray
	}
	if start < 0 {
		return text
	}

	if result := extract(text[start:]); result != "" {
		return result
	}
	return text
}

// extractJSONObject returns the balanced JSON object at the start of text,
// or "" if text does not begin with one. Braces inside string literals and
// escaped quotes do not affect matching.
func extractJSONObject(text string) string {
	return extractBalanced(text, '{', '}')
}

// extractJSONArray returns the balanced JSON array at the start of text,
// or "" if text does not begin with one.
func extractJSONArray(text string) string {
	return extractBalanced(text, '[', ']')
}

func extractBalanced(text string, open, close byte) string {
	if len(text) == 0 || text[0] != open {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case open:
			if !inString {
				depth++
			}
		case close:
			if !inString {
				depth--
				if depth == 0 {
					return text[:i+1]
				}
			}
		}
	}

	return ""
}
