// Package inference derives a title, an excerpt and an author from the plain
// text of a document. Every rule is order-sensitive and first-match: the same
// input always yields the same output.
package inference

import "strings"

// Metadata is the result of running every inference rule over one text.
type Metadata struct {
	Title     string
	Excerpt   string
	Author    string
	HasAuthor bool
}

// Infer runs title, excerpt and author inference over text.
func Infer(text string) Metadata {
	author, ok := Author(text)
	return Metadata{
		Title:     Title(text),
		Excerpt:   Excerpt(text),
		Author:    author,
		HasAuthor: ok,
	}
}

// nonBlankLines splits text into trimmed lines, dropping blank ones.
func nonBlankLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(raw))
	for _, line := range raw {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
