// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Stage is one step of the cleaning pipeline. Stages run in order over the
// text and share a vault of protected tokens.
type Stage struct {
	Name  string
	Apply func(text string, v *Vault) string
}

// Pipeline is the ordered list of stages Clean runs. Later stages rely on
// the normalisation done by earlier ones.
var Pipeline = []Stage{
	{Name: "collapse-whitespace", Apply: collapseWhitespace},
	{Name: "protect-scripture", Apply: protectScripture},
	{Name: "protect-years", Apply: protectYears},
	{Name: "strip-bare-numbers", Apply: stripBareNumbers},
	{Name: "collapse-whitespace", Apply: collapseWhitespace},
	{Name: "tighten-parentheses", Apply: tightenParentheses},
	{Name: "restore-protected", Apply: restoreProtected},
	{Name: "trim", Apply: trim},
}

// Clean normalises a raw paragraph span into a single line. Footnote and
// section numbers are removed; scripture references such as "1 Cor 3:16"
// and years such as "1994" are kept verbatim.
func Clean(raw string) string {
	return Run(Pipeline, raw)
}

// Run applies stages to text in order with a fresh vault.
func Run(stages []Stage, text string) string {
	v := &Vault{}
	for _, s := range stages {
		text = s.Apply(text, v)
	}
	return text
}

// Placeholder delimiters come from the Unicode private use area so they
// cannot collide with catechism text. Any stray copies in the input are
// dropped before protecting.
const (
	placeholderOpen  = "\uE000"
	placeholderClose = "\uE001"
)

var stripPlaceholderRunes = strings.NewReplacer(placeholderOpen, "", placeholderClose, "")

// Vault records protected tokens so they survive number stripping.
type Vault struct {
	tokens []string
}

// protect stores token and returns the placeholder that stands in for it.
// The placeholder index is glued to a letter, so no word boundary precedes
// its digits and number stripping leaves it alone.
func (v *Vault) protect(kind byte, token string) string {
	v.tokens = append(v.tokens, token)
	return placeholderOpen + string(kind) + strconv.Itoa(len(v.tokens)-1) + placeholderClose
}

// Len returns the number of protected tokens.
func (v *Vault) Len() int {
	return len(v.tokens)
}

var placeholderRe = regexp.MustCompile(placeholderOpen + `[A-Z](\d+)` + placeholderClose)

// restore swaps every placeholder back to its token. Unknown placeholders
// are left untouched.
func (v *Vault) restore(text string) string {
	return placeholderRe.ReplaceAllStringFunc(text, func(ph string) string {
		m := placeholderRe.FindStringSubmatch(ph)
		i, err := strconv.Atoi(m[1])
		if err != nil || i >= len(v.tokens) {
			return ph
		}
		return v.tokens[i]
	})
}

// whitespaceRe matches Unicode whitespace runs, including no-break and
// vertical spaces that \s alone misses.
var whitespaceRe = regexp.MustCompile(`[\s\v\p{Z}\x{85}]+`)

func collapseWhitespace(text string, _ *Vault) string {
	return whitespaceRe.ReplaceAllString(text, " ")
}

var (
	// scriptureRe matches references like "Rom 5:29", "1 Cor 3:16",
	// "Mt 5:3-12, 14".
	scriptureRe = regexp.MustCompile(`\b(?:[1-3]?\s*[A-Za-z]+\s+\d+:\d+(?:-\d+)?(?:,\s*\d+(?:-\d+)?)*)\b`)

	// yearRe matches 1000-1999 and 2000-2099.
	yearRe = regexp.MustCompile(`\b(?:1[0-9]{3}|20[0-9]{2})\b`)
)

func protectScripture(text string, v *Vault) string {
	text = stripPlaceholderRunes.Replace(text)
	return scriptureRe.ReplaceAllStringFunc(text, func(ref string) string {
		// A reference without a numbered book can start at the space
		// before the book name. Keep that space in the text.
		core := strings.TrimLeftFunc(ref, unicode.IsSpace)
		lead := ref[:len(ref)-len(core)]
		return lead + v.protect('S', core)
	})
}

func protectYears(text string, v *Vault) string {
	return yearRe.ReplaceAllStringFunc(text, func(year string) string {
		return v.protect('Y', year)
	})
}

// stripBareNumbers removes every maximal digit run bounded by non-word
// runes, unless it is followed by optional whitespace, a colon or period,
// and another digit, as in an unprotected "5:29".
func stripBareNumbers(text string, _ *Vault) string {
	var b strings.Builder
	b.Grow(len(text))

	last := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !unicode.IsDigit(r) {
			i += size
			continue
		}

		start := i
		for i < len(text) {
			r, size := utf8.DecodeRuneInString(text[i:])
			if !unicode.IsDigit(r) {
				break
			}
			i += size
		}

		if precededByWord(text, start) || followedByWord(text, i) || followedByVerse(text, i) {
			continue
		}
		b.WriteString(text[last:start])
		last = i
	}
	b.WriteString(text[last:])
	return b.String()
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

func precededByWord(text string, pos int) bool {
	r, size := utf8.DecodeLastRuneInString(text[:pos])
	return size > 0 && isWordRune(r)
}

func followedByWord(text string, pos int) bool {
	r, size := utf8.DecodeRuneInString(text[pos:])
	return size > 0 && isWordRune(r)
}

// followedByVerse reports whether pos starts with optional whitespace,
// then ':' or '.', then a digit.
func followedByVerse(text string, pos int) bool {
	pos = skipSpace(text, pos)
	if pos >= len(text) || (text[pos] != ':' && text[pos] != '.') {
		return false
	}
	r, _ := utf8.DecodeRuneInString(text[pos+1:])
	return unicode.IsDigit(r)
}

var (
	spaceBeforeCloseRe = regexp.MustCompile(`[\s\p{Z}]+\)`)
	spaceAfterOpenRe   = regexp.MustCompile(`\([\s\p{Z}]+`)
)

func tightenParentheses(text string, _ *Vault) string {
	text = spaceBeforeCloseRe.ReplaceAllString(text, ")")
	return spaceAfterOpenRe.ReplaceAllString(text, "(")
}

func restoreProtected(text string, v *Vault) string {
	return v.restore(text)
}

func trim(text string, _ *Vault) string {
	return strings.TrimSpace(text)
}
