package judge

import (
	"context"

	"NewsDesk/internal/domain"
	"NewsDesk/internal/ports"
)

type outcome struct {
	verdict domain.Verdict
	err     error
}

// judgeAll fans the batch out to the judge with bounded concurrency and
// reassembles outcomes in input order. A cancelled context turns the
// remaining calls into errors instead of blocking.
func judgeAll(ctx context.Context, j ports.Judge, task domain.JudgeTask, articles []domain.Article, concurrency int) []outcome {
	if concurrency < 1 {
		concurrency = 1
	}

	type result struct {
		index   int
		verdict domain.Verdict
		err     error
	}

	semaphore := make(chan struct{}, concurrency)
	results := make(chan result, len(articles))

	for i, article := range articles {
		go func(index int, a domain.Article) {
			select {
			case semaphore <- struct{}{}:
			case <-ctx.Done():
				results <- result{index: index, err: ctx.Err()}
				return
			}
			defer func() { <-semaphore }()

			v, err := j.Judge(ctx, task, a)
			results <- result{index: index, verdict: v, err: err}
		}(i, article)
	}

	out := make([]outcome, len(articles))
	for range articles {
		res := <-results
		out[res.index] = outcome{verdict: res.verdict, err: res.err}
	}
	return out
}
