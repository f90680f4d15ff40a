// Package turkish provides Turkish-aware text normalization used by the
// search and facet engines. Go's unicode.ToLower maps 'I' to 'i', which is
// wrong for Turkish ('I' lowers to dotless 'ı', 'İ' lowers to 'i').
package turkish

import (
	"strings"
	"unicode"
)

// ToLower lowercases s using Turkish casing rules.
func ToLower(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case 'I':
			return 'ı'
		case 'İ':
			return 'i'
		}
		return unicode.ToLower(r)
	}, s)
}

// ToUpper uppercases s using Turkish casing rules.
func ToUpper(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case 'i':
			return 'İ'
		case 'ı':
			return 'I'
		}
		return unicode.ToUpper(r)
	}, s)
}

var foldTable = map[rune]rune{
	'ç': 'c', 'Ç': 'c',
	'ğ': 'g', 'Ğ': 'g',
	'ı': 'i', 'I': 'i', 'İ': 'i',
	'ö': 'o', 'Ö': 'o',
	'ş': 's', 'Ş': 's',
	'ü': 'u', 'Ü': 'u',
	'â': 'a', 'Â': 'a',
	'î': 'i', 'Î': 'i',
	'û': 'u', 'Û': 'u',
}

// Fold lowercases s and replaces Turkish diacritics with their ASCII
// equivalents. Used for diacritics-insensitive dictionary lookups, never for
// display.
func Fold(s string) string {
	return strings.Map(FoldRune, s)
}

// FoldRune folds a single rune. The mapping is 1:1, so folding preserves
// rune offsets.
func FoldRune(r rune) rune {
	if folded, ok := foldTable[r]; ok {
		return folded
	}
	return unicode.ToLower(r)
}

// Tokenize splits s into lowercase terms. Punctuation is treated as a
// separator except for '-', '/' and '.' which appear inside legal references
// (e.g. "2024/5", "m.122").
func Tokenize(s string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		switch r {
		case '-', '/', '.':
			return r
		}
		return ' '
	}, ToLower(s))

	return strings.Fields(cleaned)
}
