// Package textutil prepares contract text for the PDF core fonts.
//
// The core fonts only cover Windows-1252, which lacks most Vietnamese letters.
// Sanitize folds accented Latin letters to their base letter so every glyph
// the layout engine emits exists in the font.
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// foldRanges are the Unicode blocks whose letters are folded: Latin-1
// Supplement letters, Latin Extended-A/B and Latin Extended Additional.
var foldRanges = []struct{ lo, hi rune }{
	{0x00C0, 0x024F},
	{0x1E00, 0x1EFF},
}

// explicitFolds covers letters whose stroke or bar does not decompose.
var explicitFolds = map[rune]string{
	'đ': "d", 'Đ': "D",
	'ø': "o", 'Ø': "O",
	'ł': "l", 'Ł': "L",
	'ħ': "h", 'Ħ': "H",
	'ŧ': "t", 'Ŧ': "T",
	'ƀ': "b", 'Ɨ': "I",
}

// table maps a rune to its replacement; "" deletes the rune.
var table = buildTable()

func buildTable() map[rune]string {
	t := make(map[rune]string, 1024)
	for _, rng := range foldRanges {
		for r := rng.lo; r <= rng.hi; r++ {
			if base, ok := fold(r); ok {
				t[r] = base
			}
		}
	}
	for r, s := range explicitFolds {
		t[r] = s
	}
	// Combining diacritics from text that arrives decomposed.
	for r := rune(0x0300); r <= 0x036F; r++ {
		t[r] = ""
	}
	return t
}

// fold strips combining marks from the canonical decomposition of r and
// reports whether a single ASCII letter remains.
func fold(r rune) (string, bool) {
	var base []rune
	for _, d := range norm.NFD.String(string(r)) {
		if unicode.Is(unicode.Mn, d) {
			continue
		}
		base = append(base, d)
	}
	if len(base) != 1 || base[0] > unicode.MaxASCII || !unicode.IsLetter(base[0]) {
		return "", false
	}
	return string(base[0]), true
}

// Sanitize replaces each rune found in the fold table and passes every other
// rune through. It never produces more runes than it receives.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if rep, ok := table[r]; ok {
			b.WriteString(rep)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Folded reports whether r has an entry in the fold table.
func Folded(r rune) bool {
	_, ok := table[r]
	return ok
}
