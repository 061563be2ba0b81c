// Package normalize turns noisy free text into comparable token sets: the
// Text Normalizer component of the matching engine.
package normalize

import (
	"sort"
	"strings"

	"github.com/sortable/listingmatch/internal/domain"
)

// separatorAlphabet is used by StripSeparators.
const separatorAlphabet = ",._-:/\\|"

// splitChars are the characters tokenize further splits each whitespace
// piece on, after synonym rewriting.
const splitChars = "-:_|()"

// stopwords are dropped after tokenization; "with", "and", "&" are noise
// words common to retail titles, the rest are the splitter's own delimiters
// surviving as standalone pieces.
var stopwords = map[string]struct{}{
	"":     {},
	"-":    {},
	":":    {},
	"_":    {},
	"|":    {},
	"(":    {},
	")":    {},
	"with": {},
	"and":  {},
	"&":    {},
}

// synonymTable is applied in order, left-to-right, each rule seeing the
// output of the previous one. Preserved verbatim from the reference
// implementation, including the case-flipping mpix/Mpix round trip and the
// vestigial " mpix"->"mpix" rule — do not reorder or prune entries.
var synonymTable = []struct{ from, to string }{
	{"mega pixels", "mpix"},
	{"mega-pixels", "mpix"},
	{"megapixels", "mpix"},
	{"mega pixel", "mpix"},
	{"mega-pixel", "mpix"},
	{"megapixel", "mpix"},
	{"mega pix", "mpix"},
	{"mega-pix", "mpix"},
	{"megapix", "mpix"},
	{"Mpixels", "mpix"},
	{"mpix", "Mpix"},
	{"mp", "mpix"},
	{"Mpix", "mpix"},
	{" mpix", "mpix"},
	{"w/", "with "},
}

// Normalize lowercases and trims leading/trailing whitespace. No other
// change.
func Normalize(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}

// StripSeparators replaces each character of the separator alphabet with a
// space, then collapses and removes all whitespace, producing a
// concatenation of the separator-split pieces.
func StripSeparators(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if strings.ContainsRune(separatorAlphabet, r) {
			continue // dropped, not just blanked: whitespace is removed below
		}
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SynonymRewrite applies the fixed synonym table as literal, ordered
// substring replacements.
func SynonymRewrite(s string) string {
	for _, rule := range synonymTable {
		s = strings.ReplaceAll(s, rule.from, rule.to)
	}
	return s
}

// Tokenize applies SynonymRewrite to each field, splits on whitespace, then
// repeatedly splits each piece on each character of splitChars. It drops
// empties and stopwords, deduplicates, and returns the result sorted
// ascending.
func Tokenize(fields []string) domain.TokenSet {
	var pieces []string
	for _, f := range fields {
		pieces = append(pieces, strings.Fields(SynonymRewrite(f))...)
	}

	for _, sep := range splitChars {
		var next []string
		for _, w := range pieces {
			next = append(next, strings.Split(w, string(sep))...)
		}
		pieces = next
	}

	seen := make(map[string]struct{}, len(pieces))
	out := make([]string, 0, len(pieces))
	for _, w := range pieces {
		if _, skip := stopwords[w]; skip {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	sort.Strings(out)
	return domain.TokenSet(out)
}
