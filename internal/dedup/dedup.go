package dedup

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"NewsDesk/internal/domain"
)

var (
	nonWord = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
	spaces  = regexp.MustCompile(`\s+`)
)

// NormalizeTitle strips punctuation, collapses whitespace, and lowercases so
// duplicate headlines compare equal across formatting differences.
func NormalizeTitle(title string) string {
	n := nonWord.ReplaceAllString(title, "")
	n = spaces.ReplaceAllString(n, " ")
	return strings.ToLower(strings.TrimSpace(n))
}

// Weights blends the judge scores and the source tier into the composite
// ranking score. Missing judge scores count as zero.
type Weights struct {
	Print        float64
	Practicality float64
	SourceTier   float64
}

// Resolver partitions reviews into duplicate groups by transitive title
// similarity and keeps exactly one representative per group.
type Resolver struct {
	sim     Similarity
	cutoff  float64
	weights Weights
	tiers   map[string]float64
}

// NewResolver builds a resolver. A nil similarity defaults to TokenSet.
func NewResolver(sim Similarity, cutoff float64, weights Weights, tiers map[string]float64) *Resolver {
	if sim == nil {
		sim = TokenSet{}
	}
	return &Resolver{sim: sim, cutoff: cutoff, weights: weights, tiers: tiers}
}

// Resolve groups the reviews, elects one winner per group by composite
// score, and returns the winners ranked composite desc, published desc.
// Losers come back as duplicate_excluded rejections. Resolving an already
// resolved set returns it unchanged.
func (r *Resolver) Resolve(reviews []domain.Review) ([]domain.Review, []domain.Rejection) {
	if len(reviews) == 0 {
		return nil, nil
	}

	norm := make([]string, len(reviews))
	for i := range reviews {
		norm[i] = NormalizeTitle(reviews[i].Article.Title)
	}

	uf := newUnionFind(len(reviews))
	for i := 0; i < len(reviews); i++ {
		for j := i + 1; j < len(reviews); j++ {
			if uf.find(i) == uf.find(j) {
				continue
			}
			if norm[i] == norm[j] || r.sim.Score(norm[i], norm[j]) >= r.cutoff {
				uf.union(i, j)
			}
		}
	}

	groups := make(map[int][]int)
	for i := range reviews {
		root := uf.find(i)
		groups[root] = append(groups[root], i)
	}

	// Roots are the smallest member index of each group, so sorting them
	// numbers groups in first-appearance order.
	roots := make([]int, 0, len(groups))
	for root := range groups {
		roots = append(roots, root)
	}
	sort.Ints(roots)

	selected := make([]domain.Review, 0, len(groups))
	var rejected []domain.Rejection

	for gid, root := range roots {
		members := groups[root]
		for _, idx := range members {
			reviews[idx].GroupID = gid
			reviews[idx].CompositeScore = r.Composite(reviews[idx])
		}

		winner := members[0]
		for _, idx := range members[1:] {
			if r.better(reviews[idx], reviews[winner]) {
				winner = idx
			}
		}

		for _, idx := range members {
			if idx == winner {
				reviews[idx].Selected = true
				selected = append(selected, reviews[idx])
				continue
			}
			reviews[idx].Selected = false
			rejected = append(rejected, domain.Rejection{
				Article: reviews[idx].Article,
				Stage:   domain.StageDedup,
				Reason:  domain.ReasonDuplicateExcluded,
				Detail:  fmt.Sprintf("lost to %s", reviews[winner].Article.Link),
			})
		}
	}

	sort.Slice(selected, func(i, j int) bool {
		a, b := selected[i], selected[j]
		if a.CompositeScore != b.CompositeScore {
			return a.CompositeScore > b.CompositeScore
		}
		if !a.Article.PublishedAt.Equal(b.Article.PublishedAt) {
			return a.Article.PublishedAt.After(b.Article.PublishedAt)
		}
		return a.Article.Link < b.Article.Link
	})

	return selected, rejected
}

// Composite blends print score, practicality score, and source tier with
// the configured weights. Unset scores contribute zero; they never imply a
// pass.
func (r *Resolver) Composite(rev domain.Review) float64 {
	return r.weights.Print*deref(rev.PrintScore) +
		r.weights.Practicality*deref(rev.PracticalityScore) +
		r.weights.SourceTier*r.tiers[rev.Article.Source]
}

// better decides the group winner: highest composite, then earliest
// publication, then lexicographic link. Never leaves a tie unresolved.
func (r *Resolver) better(a, b domain.Review) bool {
	if a.CompositeScore != b.CompositeScore {
		return a.CompositeScore > b.CompositeScore
	}
	if !a.Article.PublishedAt.Equal(b.Article.PublishedAt) {
		return a.Article.PublishedAt.Before(b.Article.PublishedAt)
	}
	return a.Article.Link < b.Article.Link
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

type unionFind struct {
	parent []int
}

func newUnionFind(n int) *unionFind {
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	return &unionFind{parent: parent}
}

func (u *unionFind) find(x int) int {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

// union keeps the smaller index as root so group ids stay stable across
// comparison order.
func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	if rb < ra {
		ra, rb = rb, ra
	}
	u.parent[rb] = ra
}
