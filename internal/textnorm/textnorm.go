package textnorm

import (
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize lowercases s without locale rules and strips combining marks.
// Punctuation, digits and spacing are left untouched.
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	lowered := cases.Lower(language.Und).String(s)
	stripper := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(stripper, lowered)
	if err != nil {
		return lowered
	}
	return out
}

// ContainsWord reports whether word occurs in text with no letter or digit
// directly before or after it. Underscores and punctuation count as separators.
func ContainsWord(text, word string) bool {
	if word == "" {
		return false
	}

	runesText := []rune(text)
	runesWord := []rune(word)
	for start := 0; start+len(runesWord) <= len(runesText); start++ {
		if !equalAt(runesText, runesWord, start) {
			continue
		}
		end := start + len(runesWord)
		if start > 0 && isWordRune(runesText[start-1]) && isWordRune(runesWord[0]) {
			continue
		}
		if end < len(runesText) && isWordRune(runesText[end]) && isWordRune(runesWord[len(runesWord)-1]) {
			continue
		}
		return true
	}
	return false
}

func equalAt(text, word []rune, start int) bool {
	for i, r := range word {
		if text[start+i] != r {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
