// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// maxContentChars is the per-document character budget. Text beyond it is
// cut mid-word if that is where the budget lands.
const maxContentChars = 8000

// skippedElements are dropped with their entire subtrees before text
// extraction.
var skippedElements = map[string]bool{
	"script": true,
	"style":  true,
	"nav":    true,
	"footer": true,
	"header": true,
}

// ExtractText reduces raw HTML to readable plain text: boilerplate
// subtrees removed, whitespace normalized, result truncated to
// maxContentChars. It is pure and has no error path; malformed markup
// still yields whatever text the parser recovers, possibly the empty
// string.
func ExtractText(rawHTML string) string {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return ""
	}

	var sb strings.Builder
	collectText(doc, &sb)

	return truncate(normalizeWhitespace(sb.String()))
}

// collectText appends the data of every text node outside skipped
// subtrees, preserving the document's own whitespace for the normalizer.
func collectText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.ElementNode && skippedElements[n.Data] {
		return
	}
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}

// normalizeWhitespace strips each line, splits lines on runs of two
// spaces (a heuristic for headline fragments merged onto one line), drops
// empty pieces, and rejoins with single newlines.
func normalizeWhitespace(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var chunks []string
	for _, line := range strings.Split(text, "\n") {
		for _, phrase := range strings.Split(strings.TrimSpace(line), "  ") {
			if phrase = strings.TrimSpace(phrase); phrase != "" {
				chunks = append(chunks, phrase)
			}
		}
	}
	return strings.Join(chunks, "\n")
}

// truncate cuts text to at most maxContentChars characters.
func truncate(text string) string {
	if utf8.RuneCountInString(text) <= maxContentChars {
		return text
	}
	return string([]rune(text)[:maxContentChars])
}
