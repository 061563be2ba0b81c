// Package match implements the matching predicates over token sets: plain
// containment, the compound-word relaxation the resolver actually uses, and
// two additional predicates reserved for diagnostics and tie-breaking.
package match

import (
	"strings"

	"github.com/sortable/listingmatch/internal/domain"
)

// Matched reports whether every token in a is present in b, or can be
// explained as one half of a compound token in b formed by concatenating it
// with another token of a. This lets a product token "7100" match a listing
// token "dmcfx7100" when the listing also carries "dmcfx".
func Matched(a, b domain.TokenSet) bool {
	for _, w := range a {
		if b.Contains(w) {
			continue
		}
		if !compoundExplains(w, a, b) {
			return false
		}
	}
	return true
}

func compoundExplains(w string, a, b domain.TokenSet) bool {
	for _, z := range b {
		if strings.HasPrefix(z, w) {
			for _, u := range a {
				if w+u == z {
					return true
				}
			}
		}
		if strings.HasSuffix(z, w) {
			for _, u := range a {
				if u+w == z {
					return true
				}
			}
		}
	}
	return false
}

// MatchedStrongly reports plain containment: a ⊆ b.
func MatchedStrongly(a, b domain.TokenSet) bool {
	for _, w := range a {
		if !b.Contains(w) {
			return false
		}
	}
	return true
}

// MatchedStartOrEnd reports whether every token in a is a prefix or suffix
// of some token in b.
func MatchedStartOrEnd(a, b domain.TokenSet) bool {
	for _, w := range a {
		found := false
		for _, z := range b {
			if strings.HasPrefix(z, w) || strings.HasSuffix(z, w) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// MatchedSubstr reports whether every token in a is a substring of some
// token in b.
func MatchedSubstr(a, b domain.TokenSet) bool {
	for _, w := range a {
		found := false
		for _, z := range b {
			if strings.Contains(z, w) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
