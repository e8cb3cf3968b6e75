// Package slug builds URL slugs and search tokens from free text.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lowercases s and strips diacritics, so "Été" becomes "ete".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	// Casers hold state and are not shared between goroutines.
	return cases.Fold().String(out)
}

// Make turns a title into a slug: folded, with every run of characters
// other than ASCII letters and digits collapsed to a single dash.
func Make(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range Fold(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
		default:
			dash = true
		}
	}
	return b.String()
}

// stopWords are dropped by Tokens.
var stopWords = map[string]bool{
	"le": true, "la": true, "les": true, "un": true, "une": true, "des": true, "de": true,
	"du": true, "et": true, "ou": true, "a": true, "au": true, "aux": true, "en": true,
	"est": true, "que": true, "qui": true, "quoi": true, "vous": true, "nous": true,
	"je": true, "pour": true, "sur": true, "avec": true, "the": true, "and": true, "is": true,
	"what": true, "do": true, "you": true, "of": true, "to": true, "an": true,
}

// Tokens splits text into distinct folded words of two or more letters,
// without common French and English stop words.
func Tokens(s string) []string {
	words := strings.FieldsFunc(Fold(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	seen := make(map[string]bool, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		if len([]rune(w)) < 2 || stopWords[w] || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

// Title capitalises the first letter of each word.
func Title(s string) string {
	return cases.Title(language.French).String(strings.NewReplacer("-", " ", "_", " ").Replace(s))
}
