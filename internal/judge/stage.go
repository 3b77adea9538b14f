package judge

import (
	"context"
	"fmt"

	"NewsDesk/internal/domain"
	"NewsDesk/internal/ports"
)

// FallbackPolicy decides what happens to an article whose judge call failed.
type FallbackPolicy string

const (
	FallbackPass   FallbackPolicy = "pass"
	FallbackReject FallbackPolicy = "reject"
)

// Stage runs one judging task over a batch of reviews with bounded
// concurrency and applies that task's acceptance rule.
type Stage struct {
	judge       ports.Judge
	task        domain.JudgeTask
	threshold   float64
	fallback    FallbackPolicy
	excludeTags map[string]bool
	concurrency int
}

// NewPrintStage gates reviews on the print-edition probability.
func NewPrintStage(judge ports.Judge, threshold float64, fallback FallbackPolicy, concurrency int) *Stage {
	return &Stage{
		judge:       judge,
		task:        domain.TaskPrint,
		threshold:   threshold,
		fallback:    fallback,
		concurrency: concurrency,
	}
}

// NewRelevanceStage gates reviews on the combined practicality/objectivity
// score and on hard-excluded categories.
func NewRelevanceStage(judge ports.Judge, threshold float64, fallback FallbackPolicy, excludeTags []string, concurrency int) *Stage {
	tags := make(map[string]bool, len(excludeTags))
	for _, tag := range excludeTags {
		tags[tag] = true
	}
	return &Stage{
		judge:       judge,
		task:        domain.TaskRelevance,
		threshold:   threshold,
		fallback:    fallback,
		excludeTags: tags,
		concurrency: concurrency,
	}
}

// Evaluate judges every review at most once and splits the batch into
// survivors and rejections, preserving input order. Reviews that already
// carry a score for this task are thresholded without another judge call.
func (s *Stage) Evaluate(ctx context.Context, reviews []domain.Review) ([]domain.Review, []domain.Rejection) {
	if s == nil || s.judge == nil || len(reviews) == 0 {
		return reviews, nil
	}

	pending := make([]int, 0, len(reviews))
	articles := make([]domain.Article, 0, len(reviews))
	for i := range reviews {
		if s.judged(reviews[i]) {
			continue
		}
		pending = append(pending, i)
		articles = append(articles, reviews[i].Article)
	}

	outcomes := judgeAll(ctx, s.judge, s.task, articles, s.concurrency)
	for k, idx := range pending {
		s.apply(&reviews[idx], outcomes[k])
	}

	var passed []domain.Review
	var rejected []domain.Rejection
	for i := range reviews {
		reason, detail, keep := s.decide(reviews[i])
		if !keep {
			rejected = append(rejected, domain.Rejection{
				Article: reviews[i].Article,
				Stage:   s.stage(),
				Reason:  reason,
				Detail:  detail,
			})
			continue
		}
		passed = append(passed, reviews[i])
	}
	return passed, rejected
}

// judged reports whether this task already ran for the review.
func (s *Stage) judged(rev domain.Review) bool {
	if rev.Failed(s.task) {
		return true
	}
	if s.task == domain.TaskPrint {
		return rev.PrintScore != nil
	}
	return rev.PracticalityScore != nil || rev.ObjectivityScore != nil
}

// apply copies a verdict onto the review without overwriting earlier scores.
// A failed call is recorded on the review together with the raw reply.
func (s *Stage) apply(rev *domain.Review, out outcome) {
	if out.err != nil {
		rev.Failures = append(rev.Failures, domain.JudgeFailure{
			Task: s.task,
			Err:  out.err.Error(),
			Raw:  out.verdict.Raw,
		})
		return
	}

	v := out.verdict
	if rev.PrintScore == nil && v.PrintScore != nil {
		rev.PrintScore = v.PrintScore
	}
	if rev.PracticalityScore == nil && v.Practicality != nil {
		rev.PracticalityScore = v.Practicality
	}
	if rev.ObjectivityScore == nil && v.Objectivity != nil {
		rev.ObjectivityScore = v.Objectivity
	}
	if len(v.Tags) > 0 {
		rev.Tags = v.Tags
	}
	if v.Reason != "" {
		rev.JudgeNote = v.Reason
	}
}

func (s *Stage) decide(rev domain.Review) (domain.Reason, string, bool) {
	if rev.Failed(s.task) {
		if s.fallback == FallbackReject {
			return domain.ReasonJudgeError, failureDetail(rev, s.task), false
		}
		return "", "", true
	}

	if s.task == domain.TaskPrint {
		var score float64
		if rev.PrintScore != nil {
			score = *rev.PrintScore
		}
		if score < s.threshold {
			return domain.ReasonBelowPrintThreshold,
				fmt.Sprintf("print score %.2f below threshold %.2f", score, s.threshold), false
		}
		return "", "", true
	}

	for _, tag := range rev.Tags {
		if s.excludeTags[tag] {
			return domain.ReasonExcludedCategory,
				fmt.Sprintf("category %s is excluded", tag), false
		}
	}
	combined := combinedRelevance(rev)
	if combined < s.threshold {
		return domain.ReasonBelowRelevanceThreshold,
			fmt.Sprintf("relevance score %.2f below threshold %.2f", combined, s.threshold), false
	}
	return "", "", true
}

func (s *Stage) stage() domain.Stage {
	if s.task == domain.TaskRelevance {
		return domain.StageRelevance
	}
	return domain.StagePrint
}

// combinedRelevance averages the relevance scores that are present.
func combinedRelevance(rev domain.Review) float64 {
	var sum float64
	var n int
	if rev.PracticalityScore != nil {
		sum += *rev.PracticalityScore
		n++
	}
	if rev.ObjectivityScore != nil {
		sum += *rev.ObjectivityScore
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func failureDetail(rev domain.Review, task domain.JudgeTask) string {
	for _, f := range rev.Failures {
		if f.Task == task {
			return f.Err
		}
	}
	return ""
}
