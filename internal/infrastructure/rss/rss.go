package rss

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"NewsDesk/internal/config"
	"NewsDesk/internal/domain"
	"NewsDesk/internal/filter"
	"NewsDesk/internal/source"
	"NewsDesk/internal/window"
)

const serviceName = "rss feed"

// Fetcher polls allow-listed publisher feeds as an alternate candidate
// source alongside the API search. Feed items carry no retrieval keyword,
// so each one is tagged with the search keywords found in its title and
// summary and dropped when none match.
type Fetcher struct {
	feeds    []config.FeedConfig
	keywords []string
	parser   *gofeed.Parser
	logger   *slog.Logger
}

var _ source.Fetcher = (*Fetcher)(nil)

// New builds a fetcher over the configured feeds and search keywords.
func New(cfg config.RSSConfig, keywords []string, log *slog.Logger) *Fetcher {
	return &Fetcher{
		feeds:    cfg.Feeds,
		keywords: keywords,
		parser:   gofeed.NewParser(),
		logger:   log,
	}
}

// Name identifies the provider inside the source registry.
func (f *Fetcher) Name() string { return "rss" }

// Fetch parses every configured feed. A failing feed is logged and skipped;
// its error surfaces only when no feed produced anything.
func (f *Fetcher) Fetch(ctx context.Context, w window.Window) ([]domain.Article, error) {
	if f == nil || len(f.feeds) == 0 {
		return nil, nil
	}

	var articles []domain.Article
	var firstErr error
	for _, feed := range f.feeds {
		parsed, err := f.parser.ParseURLWithContext(feed.URL, ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			f.warn("feed fetch failed", "source", feed.Source, "url", feed.URL, "error", err)
			if firstErr == nil {
				firstErr = &domain.ExternalCallError{
					Service: serviceName,
					Err:     fmt.Errorf("feed %s: %w", feed.Source, err),
				}
			}
			continue
		}

		kept := 0
		for _, item := range parsed.Items {
			art, ok := f.toArticle(feed, item)
			if !ok {
				continue
			}
			articles = append(articles, art)
			kept++
		}
		f.debug("feed parsed", "source", feed.Source, "items", len(parsed.Items), "kept", kept)
	}

	if len(articles) == 0 && firstErr != nil {
		return nil, firstErr
	}
	return articles, nil
}

func (f *Fetcher) toArticle(feed config.FeedConfig, item *gofeed.Item) (domain.Article, bool) {
	if item == nil || item.Link == "" {
		return domain.Article{}, false
	}

	var published time.Time
	if item.PublishedParsed != nil {
		published = *item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		published = *item.UpdatedParsed
	}

	title := stripMarkup(item.Title)
	summary := item.Description
	if summary == "" {
		summary = item.Content
	}
	summary = stripMarkup(summary)

	matched := filter.MatchKeywords(title, summary, f.keywords)
	if len(matched) == 0 {
		return domain.Article{}, false
	}

	return domain.Article{
		Title:           title,
		Summary:         summary,
		Link:            item.Link,
		Source:          feed.Source,
		PublishedAt:     published,
		MatchedKeywords: matched,
	}, true
}

// stripMarkup flattens embedded HTML to plain text and decodes entities.
func stripMarkup(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(doc.Text())
}

func (f *Fetcher) debug(msg string, args ...interface{}) {
	if f.logger != nil {
		f.logger.Debug(msg, args...)
	}
}

func (f *Fetcher) warn(msg string, args ...interface{}) {
	if f.logger != nil {
		f.logger.Warn(msg, args...)
	}
}
