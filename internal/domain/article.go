package domain

import (
	"sort"
	"time"
)

// Article is a core entity describing one news candidate in a pipeline run.
type Article struct {
	Title           string
	Summary         string
	Link            string
	Source          string
	PublishedAt     time.Time
	MatchedKeywords []string
}

// Review carries an accepted article through judging and duplicate resolution.
// Score pointers stay nil until the corresponding judge has run; a nil score
// counts as zero in the composite.
type Review struct {
	Article           Article
	PrintScore        *float64
	PracticalityScore *float64
	ObjectivityScore  *float64
	Tags              []string
	JudgeNote         string
	Failures          []JudgeFailure
	CompositeScore    float64
	GroupID           int
	Selected          bool
}

// NewReview wraps a filtered article for the judging stages.
func NewReview(article Article) Review {
	return Review{Article: article}
}

// Failed reports whether the given judge task errored for this review.
func (r Review) Failed(task JudgeTask) bool {
	for _, f := range r.Failures {
		if f.Task == task {
			return true
		}
	}
	return false
}

// UnionKeywords merges two keyword lists into one sorted set, dropping
// empties. An article retrieved by several keyword queries stays a single
// candidate carrying all of them.
func UnionKeywords(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	union := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, kw := range list {
			if kw == "" {
				continue
			}
			if _, ok := seen[kw]; ok {
				continue
			}
			seen[kw] = struct{}{}
			union = append(union, kw)
		}
	}
	sort.Strings(union)
	return union
}
