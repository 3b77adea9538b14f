package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"NewsDesk/internal/config"
	"NewsDesk/internal/dedup"
	"NewsDesk/internal/domain"
	"NewsDesk/internal/filter"
	"NewsDesk/internal/judge"
	"NewsDesk/internal/metrics"
	"NewsDesk/internal/ports"
	"NewsDesk/internal/window"
)

// Result is the outcome of one curation run: the ranked selection and the
// rejection accounting that explains everything that fell out.
type Result struct {
	Window   window.Window
	Articles []domain.Review
	Report   domain.Report
}

// Deps wires all collaborators into the curation pipeline. Source, stages,
// and Notifier may be nil; the corresponding step is skipped.
type Deps struct {
	Config    *config.Config
	Source    ports.CandidateSource
	Print     *judge.Stage
	Relevance *judge.Stage
	Notifier  ports.Notifier
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
}

// Pipeline implements the selection workflow: window, filter, judges,
// duplicate resolution, ranking.
type Pipeline struct {
	cfg       *config.Config
	source    ports.CandidateSource
	filter    *filter.Filter
	print     *judge.Stage
	relevance *judge.Stage
	resolver  *dedup.Resolver
	notifier  ports.Notifier
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewPipeline constructs the orchestration component. The filter and the
// duplicate resolver are derived from configuration.
func NewPipeline(deps Deps) *Pipeline {
	cfg := deps.Config
	if cfg == nil {
		return nil
	}
	m := deps.Metrics
	if m == nil {
		m = metrics.New()
	}
	return &Pipeline{
		cfg:       cfg,
		source:    deps.Source,
		filter:    filter.New(cfg.AllowedDomains(), cfg.Exclude.Keywords, cfg.SearchKeywords()),
		print:     deps.Print,
		relevance: deps.Relevance,
		resolver: dedup.NewResolver(dedup.TokenSet{}, cfg.Dedup.SimilarityCutoff, dedup.Weights{
			Print:        cfg.Weights.Print,
			Practicality: cfg.Weights.Practicality,
			SourceTier:   cfg.Weights.SourceTier,
		}, cfg.SourceTiers()),
		notifier: deps.Notifier,
		metrics:  m,
		logger:   deps.Logger,
	}
}

// Curate runs the decision engine over already-fetched candidates: window
// check, source and keyword filtering, the enabled judge stages, then
// duplicate resolution. It is deterministic for a fixed now and input.
func (p *Pipeline) Curate(ctx context.Context, now time.Time, candidates []domain.Article) (Result, error) {
	if p == nil || p.cfg == nil {
		return Result{}, fmt.Errorf("pipeline is not configured")
	}
	if err := p.cfg.Validate(); err != nil {
		return Result{}, err
	}
	w, err := window.Compute(now)
	if err != nil {
		return Result{}, err
	}

	report := domain.Report{Total: len(candidates)}

	accepted, rejections := p.filter.Apply(w, candidates)
	report.Add(rejections...)

	reviews := make([]domain.Review, 0, len(accepted))
	for _, art := range accepted {
		reviews = append(reviews, domain.NewReview(art))
	}

	reviews, rejections = p.print.Evaluate(ctx, reviews)
	report.Add(rejections...)

	reviews, rejections = p.relevance.Evaluate(ctx, reviews)
	report.Add(rejections...)

	selected, rejections := p.resolver.Resolve(reviews)
	report.Add(rejections...)

	report.Selected = len(selected)
	p.debug("curation done",
		"candidates", len(candidates),
		"selected", len(selected),
		"rejected", len(report.Rejections))

	return Result{Window: w, Articles: selected, Report: report}, nil
}

// Run performs a full operational pass: fetch candidates for the window,
// curate them, record metrics, and publish the digest when a notifier is
// wired. The whole pass runs under the configured timeout.
func (p *Pipeline) Run(ctx context.Context, now time.Time) (Result, error) {
	if p == nil || p.cfg == nil {
		return Result{}, fmt.Errorf("pipeline is not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout())
	defer cancel()

	started := time.Now()

	if err := p.cfg.Validate(); err != nil {
		p.metrics.SetError(err.Error())
		return Result{}, err
	}
	w, err := window.Compute(now)
	if err != nil {
		p.metrics.SetError(err.Error())
		return Result{}, err
	}

	var candidates []domain.Article
	if p.source != nil {
		candidates, err = p.source.Fetch(ctx, w)
		if err != nil {
			p.metrics.SetError(err.Error())
			return Result{}, fmt.Errorf("fetch candidates: %w", err)
		}
	}
	p.metrics.AddCandidates(len(candidates))

	result, err := p.Curate(ctx, now, candidates)
	if err != nil {
		p.metrics.SetError(err.Error())
		return Result{}, err
	}

	p.metrics.AddSelected(len(result.Articles))
	p.metrics.AddRejected(len(result.Report.Rejections))
	p.metrics.AddJudgeFailures(countJudgeFailures(result))
	p.metrics.AddDuplicatesExcluded(result.Report.ByReason()[domain.ReasonDuplicateExcluded])
	p.metrics.RecordRunDuration(time.Since(started))

	if p.notifier != nil && len(result.Articles) > 0 {
		if err := p.notifier.PublishDigest(ctx, BuildDigest(result)); err != nil {
			p.metrics.SetError(err.Error())
			return result, fmt.Errorf("publish digest: %w", err)
		}
		p.metrics.IncrementDigestsSent()
	}

	p.metrics.SetLastRun()
	return result, nil
}

// BuildDigest renders the ranked selection as a Markdown digest.
func BuildDigest(result Result) string {
	if len(result.Articles) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*오늘의 뉴스* (%s ~ %s)\n\n",
		result.Window.Start.Format("01/02 15:04"),
		result.Window.End.Format("01/02 15:04"))

	for i, rev := range result.Articles {
		fmt.Fprintf(&b, "%d. %s\n", i+1, rev.Article.Title)
		fmt.Fprintf(&b, "%s | 점수 %.2f\n%s\n\n",
			rev.Article.Source, rev.CompositeScore, rev.Article.Link)
	}

	return strings.TrimRight(b.String(), "\n")
}

// countJudgeFailures tallies judge errors across survivors and rejections.
func countJudgeFailures(result Result) int {
	count := 0
	for _, rev := range result.Articles {
		count += len(rev.Failures)
	}
	for _, rej := range result.Report.Rejections {
		if rej.Reason == domain.ReasonJudgeError {
			count++
		}
	}
	return count
}

func (p *Pipeline) debug(msg string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}
