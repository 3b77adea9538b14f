package source

import (
	"context"
	"fmt"
	"log/slog"

	"NewsDesk/internal/domain"
	"NewsDesk/internal/ports"
	"NewsDesk/internal/window"
)

// Aggregator implements CandidateSource over every registered provider,
// folding articles fetched under different keyword queries into one
// candidate per link.
type Aggregator struct {
	registry *Registry
	logger   *slog.Logger
}

var _ ports.CandidateSource = (*Aggregator)(nil)

// NewAggregator wires the provider registry into a single candidate source.
func NewAggregator(reg *Registry, log *slog.Logger) *Aggregator {
	return &Aggregator{registry: reg, logger: log}
}

// Fetch runs every registered provider for the window and merges their
// results by link. A failing provider is logged and skipped; its error is
// surfaced only when no provider produced anything at all.
func (a *Aggregator) Fetch(ctx context.Context, w window.Window) ([]domain.Article, error) {
	if a == nil || a.registry == nil {
		return nil, fmt.Errorf("source registry is not configured")
	}

	names := a.registry.Names()
	a.debug("fetch candidates", "sources", len(names),
		"window_start", w.Start.Format("2006-01-02 15:04"),
		"window_end", w.End.Format("2006-01-02 15:04"))

	var fetched []domain.Article
	var firstErr error
	for _, name := range names {
		fetcher, err := a.registry.Resolve(name)
		if err != nil {
			continue
		}
		results, err := fetcher.Fetch(ctx, w)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			a.warn("source fetch failed", "source", name, "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("source %s: %w", name, err)
			}
			continue
		}
		a.debug("source produced candidates", "source", name, "count", len(results))
		fetched = append(fetched, results...)
	}

	merged := mergeByLink(fetched)
	if len(merged) == 0 && firstErr != nil {
		return nil, firstErr
	}
	a.debug("aggregation done", "total_candidates", len(merged))
	return merged, nil
}

// mergeByLink folds duplicate links into a single candidate, keeping the
// first occurrence and unioning the keywords that retrieved each copy.
func mergeByLink(articles []domain.Article) []domain.Article {
	index := make(map[string]int, len(articles))
	merged := make([]domain.Article, 0, len(articles))
	for _, art := range articles {
		if art.Link == "" {
			merged = append(merged, art)
			continue
		}
		pos, ok := index[art.Link]
		if !ok {
			index[art.Link] = len(merged)
			merged = append(merged, art)
			continue
		}
		merged[pos].MatchedKeywords = domain.UnionKeywords(merged[pos].MatchedKeywords, art.MatchedKeywords)
		if merged[pos].Summary == "" {
			merged[pos].Summary = art.Summary
		}
	}
	return merged
}

func (a *Aggregator) debug(msg string, args ...interface{}) {
	if a.logger != nil {
		a.logger.Debug(msg, args...)
	}
}

func (a *Aggregator) warn(msg string, args ...interface{}) {
	if a.logger != nil {
		a.logger.Warn(msg, args...)
	}
}
