package browser

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// FlattenHTML reduces a raw HTML document to whitespace-normalized plain
// text suitable for pattern matching. Scripts, styles, and other non-text
// noise are dropped entirely.
func FlattenHTML(rawHTML string) (string, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	var builder strings.Builder
	collectText(doc, &builder)
	return normalizeSpace(builder.String()), nil
}

// collectText walks the node tree appending text content, skipping elements
// that never contain user-visible text.
func collectText(n *html.Node, builder *strings.Builder) {
	if n.Type == html.CommentNode {
		return
	}
	if n.Type == html.ElementNode && isNonTextElement(strings.ToLower(n.Data)) {
		return
	}

	if n.Type == html.TextNode {
		text := strings.TrimSpace(n.Data)
		if text != "" {
			builder.WriteString(text)
			builder.WriteString(" ")
		}
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, builder)
	}
}

// isNonTextElement returns true for elements whose content is never
// user-visible text.
func isNonTextElement(tagName string) bool {
	skipped := map[string]bool{
		"script":   true,
		"style":    true,
		"noscript": true,
		"iframe":   true,
		"embed":    true,
		"object":   true,
		"svg":      true,
		"head":     true,
	}
	return skipped[tagName]
}

// normalizeSpace collapses all runs of whitespace to single spaces.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
