package judge

import (
	"context"
	"sync"

	"NewsDesk/internal/domain"
	"NewsDesk/internal/ports"
)

// Stub is a deterministic judge for tests. Verdicts and errors are looked up
// by article link; only the fields relevant to the requested task are
// returned, mirroring the real transports.
type Stub struct {
	Verdicts map[string]domain.Verdict
	Errs     map[string]error

	mu    sync.Mutex
	calls map[string]int
}

var _ ports.Judge = (*Stub)(nil)

// Judge returns the scripted verdict or error for the article's link.
func (s *Stub) Judge(ctx context.Context, task domain.JudgeTask, article domain.Article) (domain.Verdict, error) {
	s.mu.Lock()
	if s.calls == nil {
		s.calls = make(map[string]int)
	}
	s.calls[article.Link]++
	s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return domain.Verdict{Task: task}, err
	}
	if err, ok := s.Errs[article.Link]; ok {
		return domain.Verdict{Task: task, Raw: "판별 실패"}, err
	}

	v, ok := s.Verdicts[article.Link]
	if !ok {
		return domain.Verdict{Task: task}, nil
	}
	out := domain.Verdict{Task: task, Reason: v.Reason, Raw: v.Raw}
	if task == domain.TaskPrint {
		out.PrintScore = v.PrintScore
	} else {
		out.Practicality = v.Practicality
		out.Objectivity = v.Objectivity
		out.Tags = v.Tags
	}
	return out, nil
}

// Calls reports how many times the given link was judged.
func (s *Stub) Calls(link string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[link]
}
