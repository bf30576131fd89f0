package inference

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// FallbackTitle is used when no line of the text qualifies as a title.
const FallbackTitle = "Untitled Insight"

const (
	minTitleLen = 5
	maxTitleLen = 200
)

var (
	enumerationPrefix = regexp.MustCompile(`^\d+\.\s*`)
	leadingNonWord    = regexp.MustCompile(`^\W+`)
)

// Title returns the first line whose trimmed length is strictly between 5 and
// 200 characters and which still has more than 5 characters once a leading
// enumeration ("1. ") and leading punctuation are stripped.
func Title(text string) string {
	for _, line := range nonBlankLines(text) {
		n := utf8.RuneCountInString(line)
		if n <= minTitleLen || n >= maxTitleLen {
			continue
		}
		cleaned := enumerationPrefix.ReplaceAllString(line, "")
		cleaned = leadingNonWord.ReplaceAllString(cleaned, "")
		cleaned = strings.TrimSpace(cleaned)
		if utf8.RuneCountInString(cleaned) > minTitleLen {
			return cleaned
		}
	}
	return FallbackTitle
}
