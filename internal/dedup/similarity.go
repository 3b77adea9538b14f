package dedup

import "strings"

// Similarity scores how alike two normalized titles are, in [0,1].
// Implementations must be symmetric; the resolver treats scores at or above
// its cutoff as "same story".
type Similarity interface {
	Score(a, b string) float64
}

// TokenSet measures Jaccard overlap between title token sets. Word order
// does not matter, so reshuffled wire headlines still group together.
type TokenSet struct{}

var _ Similarity = TokenSet{}

// Score returns |A∩B| / |A∪B| over whitespace-separated tokens.
func (TokenSet) Score(a, b string) float64 {
	ta := tokens(a)
	tb := tokens(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	inter := 0
	for tok := range ta {
		if _, ok := tb[tok]; ok {
			inter++
		}
	}

	union := len(ta) + len(tb) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func tokens(s string) map[string]struct{} {
	fields := strings.Fields(s)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
