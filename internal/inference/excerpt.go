package inference

import (
	"regexp"
	"strings"
)

const (
	// ExcerptLimit is the longest excerpt produced before the ellipsis.
	ExcerptLimit = 300
	// wordBoundaryFloor is the earliest cut point accepted for a word boundary.
	wordBoundaryFloor = 200
	ellipsis          = "..."
)

var (
	whitespaceRun     = regexp.MustCompile(`\s+`)
	excerptDisallowed = regexp.MustCompile(`[^\w\s.,!?-]`)
)

// Excerpt returns a cleaned preview of text of at most ExcerptLimit
// characters plus an ellipsis.
func Excerpt(text string) string {
	cleaned := whitespaceRun.ReplaceAllString(text, " ")
	cleaned = excerptDisallowed.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(cleaned)

	// Only ASCII survives the cleaning above, so byte offsets are character offsets.
	if len(cleaned) <= ExcerptLimit {
		return cleaned
	}

	window := cleaned[:ExcerptLimit]
	if cut := strings.LastIndex(window, " "); cut > wordBoundaryFloor {
		return window[:cut] + ellipsis
	}
	return window + ellipsis
}
