// Package slides extracts per-slide text from a cached slide deck page.
package slides

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTMLExtractor reads slides from a deck page where each slide is a
// <section> element. A section holding other sections is a vertical
// stack; only its innermost sections are slides.
type HTMLExtractor struct{}

// Extract returns the plain text of each slide in page order. Slide 1 is
// element 0.
func (HTMLExtractor) Extract(page []byte) ([]string, error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("slides: parse page: %w", err)
	}
	var out []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if isSection(n) && !hasSection(n) {
			out = append(out, Text(n))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out, nil
}

func isSection(n *html.Node) bool {
	return n.Type == html.ElementNode && n.DataAtom == atom.Section
}

func hasSection(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if isSection(c) || hasSection(c) {
			return true
		}
	}
	return false
}

// Text returns the visible text under n with whitespace collapsed.
// Script and style contents are skipped.
func Text(n *html.Node) string {
	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			parts = append(parts, n.Data)
			return
		case n.Type == html.ElementNode && (n.DataAtom == atom.Script || n.DataAtom == atom.Style):
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}
