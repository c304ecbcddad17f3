// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract finds numbered catechism paragraphs in plain text and
// cleans them of typesetting artifacts.
package extract

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrNotFound is returned when no paragraph starts with the requested
// identifier.
var ErrNotFound = errors.New("paragraph not found")

// Locate returns the raw body of the first paragraph whose leading number
// is exactly id. A paragraph starts on a line whose first non-blank token
// is a number followed by whitespace, and runs until the next line that
// starts with a digit or the end of text. The body is trimmed but not
// otherwise cleaned.
//
// Matching is by string, so "05" does not match a paragraph numbered 5.
func Locate(text, id string) (string, error) {
	if id == "" {
		return "", ErrNotFound
	}

	for lineStart := 0; lineStart <= len(text); {
		if start, ok := bodyStart(text, lineStart, id); ok {
			end := bodyEnd(text, start)
			span := strings.TrimSpace(text[start:end])
			if span == "" {
				return "", ErrNotFound
			}
			return span, nil
		}

		next := strings.IndexByte(text[lineStart:], '\n')
		if next < 0 {
			break
		}
		lineStart += next + 1
	}

	return "", ErrNotFound
}

// bodyStart checks whether id leads the line at lineStart, allowing
// leading whitespace and blank lines. It returns the offset of the first
// non-space rune after the identifier.
func bodyStart(text string, lineStart int, id string) (int, bool) {
	pos := skipSpace(text, lineStart)
	if !strings.HasPrefix(text[pos:], id) {
		return 0, false
	}
	pos += len(id)

	r, size := utf8.DecodeRuneInString(text[pos:])
	if size == 0 || !unicode.IsSpace(r) {
		return 0, false
	}
	return skipSpace(text, pos+size), true
}

// bodyEnd returns the offset of the first newline after start that is
// followed, past any whitespace, by a digit. The body always keeps at
// least the rune at start.
func bodyEnd(text string, start int) int {
	if start >= len(text) {
		return len(text)
	}
	_, size := utf8.DecodeRuneInString(text[start:])

	for i := start + size; i < len(text); {
		nl := strings.IndexByte(text[i:], '\n')
		if nl < 0 {
			break
		}
		i += nl
		if r, _ := utf8.DecodeRuneInString(text[skipSpace(text, i+1):]); unicode.IsDigit(r) {
			return i
		}
		i++
	}
	return len(text)
}

// skipSpace returns the offset of the first non-space rune at or after pos.
func skipSpace(text string, pos int) int {
	for pos < len(text) {
		r, size := utf8.DecodeRuneInString(text[pos:])
		if !unicode.IsSpace(r) {
			break
		}
		pos += size
	}
	return pos
}
