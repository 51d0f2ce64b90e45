package dedup

import (
	"math"
	"sort"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// TokenSortRatio scores how alike two titles are on a 0..100 scale. Both
// sides are lowercased, split into whitespace tokens, sorted and rejoined
// before a Levenshtein comparison, so word order and casing never affect the
// score. Two empty strings score 100, a single empty side scores 0.
func TokenSortRatio(a, b string) int {
	na := sortTokens(a)
	nb := sortTokens(b)
	if na == "" && nb == "" {
		return 100
	}
	if na == "" || nb == "" {
		return 0
	}
	return int(math.Round(strutil.Similarity(na, nb, metrics.NewLevenshtein()) * 100))
}

func sortTokens(s string) string {
	tokens := strings.Fields(strings.ToLower(s))
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}
