package domain

// JudgeTask selects which judgment the AI collaborator performs.
type JudgeTask string

const (
	TaskPrint     JudgeTask = "print"
	TaskRelevance JudgeTask = "relevance"
)

// Verdict is the structured outcome of a single judge call. Raw keeps the
// unmodified model output for diagnostics.
type Verdict struct {
	Task         JudgeTask
	PrintScore   *float64
	Practicality *float64
	Objectivity  *float64
	Tags         []string
	Reason       string
	Raw          string
}

// JudgeFailure records a failed or unparseable judge call on a review.
type JudgeFailure struct {
	Task JudgeTask
	Err  string
	Raw  string
}
