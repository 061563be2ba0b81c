package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sortable/listingmatch/internal/domain"
)

func TestTokenize_Idempotent(t *testing.T) {
	fields := []string{"Canon EOS Rebel T3i 18.0 MP Digital SLR Camera w/ EF-S 18-55mm"}
	first := Tokenize(fields)
	second := Tokenize([]string{joinTokens(first)})
	assert.Equal(t, first, second)
}

func joinTokens(ts domain.TokenSet) string {
	out := ""
	for i, tok := range ts {
		if i > 0 {
			out += " "
		}
		out += tok
	}
	return out
}

func TestTokenize_DropsStopwordsAndEmpties(t *testing.T) {
	got := Tokenize([]string{"Canon and Nikon with & EOS - : _ | ( )"})
	for _, tok := range got {
		assert.NotEmpty(t, tok)
		assert.NotContains(t, []string{"with", "and", "&", "-", ":", "_", "|", "(", ")"}, tok)
	}
}

func TestTokenize_SortedAndDeduplicated(t *testing.T) {
	got := Tokenize([]string{"zebra apple apple mango zebra"})
	assert.Equal(t, domain.TokenSet{"apple", "mango", "zebra"}, got)
}

func TestTokenize_SynonymFolding_AllVariantsEqual(t *testing.T) {
	// Mirrors the real pipeline: fields are lowercased by Normalize before
	// Tokenize ever sees them, so the synonym table's literal, case-sensitive
	// rules behave consistently across variants.
	variants := []string{
		"14.1 Megapixel",
		"14.1MP",
		"14.1 mpix",
	}
	var sets []domain.TokenSet
	for _, v := range variants {
		sets = append(sets, Tokenize([]string{Normalize(v)}))
	}
	for i := 1; i < len(sets); i++ {
		assert.Equal(t, sets[0], sets[i], "variant %q should fold to the same token set as %q", variants[i], variants[0])
	}
	// The folded token carries both the digits and the "mpix" unit, whether
	// fused into one compound token or not.
	joined := joinTokens(sets[0])
	assert.Contains(t, joined, "14.1")
	assert.Contains(t, joined, "mpix")
}

func TestTokenize_NoMegapixelSynonymSurvives(t *testing.T) {
	got := Tokenize([]string{"Canon 20 megapixels with w/ flash mp"})
	joined := joinTokens(got)
	for _, banned := range []string{"megapixel", "megapixels", "megapix", "w/"} {
		assert.NotContains(t, joined, banned)
	}
}

func TestNormalize_LowercasesAndTrims(t *testing.T) {
	assert.Equal(t, "canon", Normalize("  Canon  "))
}

func TestStripSeparators_CollapsesSeparatorsAndWhitespace(t *testing.T) {
	assert.Equal(t, "fujifilm", StripSeparators("fuji film"))
	assert.Equal(t, "hewlettpackard", StripSeparators("hewlett-packard"))
	assert.Equal(t, "abc", StripSeparators("a.b_c"))
}

func TestSynonymRewrite_OrderedRules(t *testing.T) {
	assert.Equal(t, "mpix", SynonymRewrite("megapixel"))
	assert.Equal(t, "with flash", SynonymRewrite("w/flash"))
}
