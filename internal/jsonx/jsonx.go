// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package jsonx locates a JSON object embedded in model prose.
package jsonx

import "strings"

// Extract returns the JSON object most likely intended by text that may
// wrap it in markdown fences or prose. In priority order: the content of
// the first triple-backtick block (an optional json language tag is
// dropped), then a brace-delimited object located by a depth-aware scan,
// then the input unchanged. The result is not validated; decoding is the
// caller's validation step.
func Extract(text string) string {
	if inner, ok := fencedBlock(text); ok {
		return inner
	}
	if obj, ok := braceObject(text); ok {
		return obj
	}
	return text
}

// fencedBlock returns the trimmed content of the first complete
// triple-backtick block. An unterminated fence does not match.
func fencedBlock(text string) (string, bool) {
	start := strings.Index(text, "```")
	if start < 0 {
		return "", false
	}
	rest := text[start+3:]
	end := strings.Index(rest, "```")
	if end < 0 {
		return "", false
	}
	inner := strings.TrimPrefix(rest[:end], "json")
	return strings.TrimSpace(inner), true
}

// braceObject scans from the first '{' tracking nesting depth, ignoring
// braces inside string literals and backslash escapes, and returns the
// substring that closes the opening brace. When the depth never returns
// to zero (truncated model output) it falls back to the greedy slice from
// the first '{' to the last '}'.
func braceObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}

	if end := strings.LastIndexByte(text, '}'); end > start {
		return text[start : end+1], true
	}
	return "", false
}
