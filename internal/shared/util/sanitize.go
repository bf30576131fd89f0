package util

import (
	"errors"
	"path/filepath"
	"strings"
	"unicode"
)

const maxFileNameLen = 180

// SanitizeFileName strips directory components and control characters from a
// client supplied file name. Names that reduce to a directory reference are
// rejected.
func SanitizeFileName(name string) (string, error) {
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "\\", "/")
	s = filepath.Base(s)
	s = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsControl(r):
			return -1
		case r == '"':
			return '\''
		}
		return r
	}, s)
	s = strings.TrimSpace(s)
	if s == "" || s == "." || s == ".." || s == "/" {
		return "", errors.New("invalid file name")
	}
	if runes := []rune(s); len(runes) > maxFileNameLen {
		s = string(runes[len(runes)-maxFileNameLen:])
	}
	return s, nil
}

// PDFFileName returns a sanitized name ending in .pdf, falling back to
// fallback when the client name is unusable.
func PDFFileName(name, fallback string) string {
	clean, err := SanitizeFileName(name)
	if err != nil {
		clean = fallback
	}
	if !strings.EqualFold(filepath.Ext(clean), ".pdf") {
		clean += ".pdf"
	}
	return clean
}
