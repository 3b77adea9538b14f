package ports

import (
	"context"
	"time"

	"NewsDesk/internal/domain"
	"NewsDesk/internal/window"
)

// CandidateSource pulls candidate articles from upstream providers
// (Naver search API, publisher RSS feeds).
type CandidateSource interface {
	Fetch(ctx context.Context, w window.Window) ([]domain.Article, error)
}

// Judge scores one article for a single editorial task and returns the
// parsed verdict together with the raw model output.
type Judge interface {
	Judge(ctx context.Context, task domain.JudgeTask, article domain.Article) (domain.Verdict, error)
}

// Notifier delivers the finished digest to Telegram or other channels.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// Scheduler controls when curation runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
