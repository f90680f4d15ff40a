package search

import (
	"strings"
	"unicode"

	"github.com/mevzuatlab/mevzuat/internal/turkish"
)

const (
	snippetWindow = 60
	maxHighlights = 3
	minTermLength = 3
)

// BuildSnippet returns a bounded excerpt of content around the first matched
// term with matched terms wrapped in <mark> tags, plus up to maxHighlights
// marked excerpts. Matching is case-insensitive and diacritics-insensitive
// under Turkish casing. When no term matches, the snippet is the head of the
// content and highlights are empty.
//
// Matching runs in rune space: the fold table maps runes 1:1, so indexes in
// the folded text align with the original.
func BuildSnippet(content string, terms []string) (string, []string) {
	runes := []rune(content)
	folded := foldRunes(runes)

	var highlights []string
	firstStart := -1
	var matched []string

	for _, term := range terms {
		needle := []rune(turkish.Fold(term))
		if len(needle) < minTermLength {
			continue
		}

		idx := indexRunes(folded, needle)
		if idx < 0 {
			continue
		}
		matched = append(matched, term)
		if firstStart < 0 {
			firstStart = idx
		}

		if len(highlights) < maxHighlights {
			start := max(0, idx-snippetWindow)
			end := min(len(runes), idx+len(needle)+snippetWindow)
			excerpt := markTerms(string(runes[start:end]), []string{term})
			highlights = append(highlights, strings.TrimSpace(excerpt))
		}
	}

	if firstStart < 0 {
		return headOf(runes, 2*snippetWindow), nil
	}

	start := max(0, firstStart-snippetWindow)
	end := min(len(runes), firstStart+2*snippetWindow)
	snippet := strings.TrimSpace(markTerms(string(runes[start:end]), matched))
	return snippet, highlights
}

// markTerms wraps occurrences of each term in <mark> tags.
func markTerms(text string, terms []string) string {
	runes := []rune(text)
	folded := foldRunes(runes)

	// Mark spans first, then rebuild, so overlapping terms do not corrupt
	// already-inserted tags.
	marked := make([]bool, len(runes))
	for _, term := range terms {
		needle := []rune(turkish.Fold(term))
		if len(needle) == 0 {
			continue
		}
		for from := 0; ; {
			idx := indexRunes(folded[from:], needle)
			if idx < 0 {
				break
			}
			for i := from + idx; i < from+idx+len(needle); i++ {
				marked[i] = true
			}
			from += idx + len(needle)
			if from >= len(folded) {
				break
			}
		}
	}

	var b strings.Builder
	inMark := false
	for i, r := range runes {
		if marked[i] && !inMark {
			b.WriteString("<mark>")
			inMark = true
		}
		if !marked[i] && inMark {
			b.WriteString("</mark>")
			inMark = false
		}
		b.WriteRune(r)
	}
	if inMark {
		b.WriteString("</mark>")
	}
	return b.String()
}

func foldRunes(runes []rune) []rune {
	out := make([]rune, len(runes))
	for i, r := range runes {
		out[i] = turkish.FoldRune(r)
	}
	return out
}

func indexRunes(haystack, needle []rune) int {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return -1
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

func headOf(runes []rune, n int) string {
	if len(runes) <= n {
		return strings.TrimSpace(string(runes))
	}
	head := string(runes[:n])
	// Cut at the last word boundary so the excerpt does not end mid-word.
	if i := strings.LastIndexFunc(head, unicode.IsSpace); i > 0 {
		head = head[:i]
	}
	return strings.TrimSpace(head)
}
