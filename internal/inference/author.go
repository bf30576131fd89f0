package inference

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	authorScanLines   = 10
	fallbackScanLines = 5
	minAuthorLen      = 2
	maxAuthorLen      = 50
)

// authorRule is one entry of the attribution decision list. Group 1 of
// Pattern holds the name.
type authorRule struct {
	Name    string
	Pattern *regexp.Regexp
}

// authorRules are evaluated in order; the first rule matching any of the
// scanned lines with a usable name wins.
var authorRules = []authorRule{
	{Name: "by", Pattern: regexp.MustCompile(`(?i)^by[:\s]\s*(.+)$`)},
	{Name: "author", Pattern: regexp.MustCompile(`(?i)^authors?\s*[:\-]?\s+(.+)$`)},
	{Name: "written-by", Pattern: regexp.MustCompile(`(?i)^(?:written|prepared|compiled)\s+by[:\s]\s*(.+)$`)},
	{Name: "doctor", Pattern: regexp.MustCompile(`^((?:Dr|Prof)\.?\s+[A-Z][A-Za-z.'-]*(?:\s+[A-Z][A-Za-z.'-]*){0,3})`)},
	{Name: "credential", Pattern: regexp.MustCompile(`^([A-Z][A-Za-z.'-]*(?:\s+[A-Z][A-Za-z.'-]*){1,3}),?\s+(?:Ph\.?D|FSA|FCAS|ASA|ACAS|MAAA|FIA|FIAA|CERA)\b`)},
}

var (
	authorDisallowed = regexp.MustCompile(`[^\w\s.-]`)
	personName       = regexp.MustCompile(`[A-Z][a-z]+\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)?`)
)

// Author infers the document's author from the first lines of text. The
// boolean is false when no rule produced an acceptable name; callers decide
// what placeholder to store.
func Author(text string) (string, bool) {
	lines := nonBlankLines(text)
	if len(lines) > authorScanLines {
		lines = lines[:authorScanLines]
	}

	for _, rule := range authorRules {
		for _, line := range lines {
			m := rule.Pattern.FindStringSubmatch(line)
			if len(m) < 2 {
				continue
			}
			if name, ok := cleanAuthor(m[1]); ok {
				return name, true
			}
		}
	}

	head := lines
	if len(head) > fallbackScanLines {
		head = head[:fallbackScanLines]
	}
	for _, candidate := range personName.FindAllString(strings.Join(head, " "), -1) {
		if strings.Contains(candidate, "PDF") || strings.Contains(candidate, "Document") {
			continue
		}
		if len(candidate) > maxAuthorLen {
			continue
		}
		if name, ok := cleanAuthor(candidate); ok {
			return name, true
		}
	}
	return "", false
}

func cleanAuthor(raw string) (string, bool) {
	name := authorDisallowed.ReplaceAllString(raw, "")
	name = strings.TrimSpace(whitespaceRun.ReplaceAllString(name, " "))
	if len(name) < minAuthorLen || len(name) > maxAuthorLen {
		return "", false
	}
	if strings.IndexFunc(name, unicode.IsLetter) < 0 {
		return "", false
	}
	return name, true
}
