package domain

// Stage identifies the pipeline stage that excluded an article.
type Stage string

const (
	StageFilter    Stage = "filter"
	StagePrint     Stage = "print_judge"
	StageRelevance Stage = "relevance_judge"
	StageDedup     Stage = "dedup"
)

// Reason explains a rejection within a stage.
type Reason string

const (
	ReasonOutsideWindow           Reason = "outside_window"
	ReasonSourceNotAllowed        Reason = "source_not_allowed"
	ReasonDomainMismatch          Reason = "domain_mismatch"
	ReasonExcludedKeyword         Reason = "excluded_keyword"
	ReasonNoKeywordMatch          Reason = "no_keyword_match"
	ReasonBelowPrintThreshold     Reason = "below_print_threshold"
	ReasonBelowRelevanceThreshold Reason = "below_relevance_threshold"
	ReasonExcludedCategory        Reason = "excluded_category"
	ReasonJudgeError              Reason = "judge_error"
	ReasonDuplicateExcluded       Reason = "duplicate_excluded"
)

// Rejection links an excluded article to the stage and reason that dropped it.
type Rejection struct {
	Article Article
	Stage   Stage
	Reason  Reason
	Detail  string
}

// Report aggregates the rejections of one pipeline run so a caller can tell
// "no news today" from "all news failed judgment" from misconfiguration.
type Report struct {
	Total      int
	Selected   int
	Rejections []Rejection
}

// Add appends rejections to the report.
func (r *Report) Add(rejections ...Rejection) {
	r.Rejections = append(r.Rejections, rejections...)
}

// ByStage returns rejection counts keyed by stage.
func (r Report) ByStage() map[Stage]int {
	counts := make(map[Stage]int)
	for _, rej := range r.Rejections {
		counts[rej.Stage]++
	}
	return counts
}

// ByReason returns rejection counts keyed by reason.
func (r Report) ByReason() map[Reason]int {
	counts := make(map[Reason]int)
	for _, rej := range r.Rejections {
		counts[rej.Reason]++
	}
	return counts
}
