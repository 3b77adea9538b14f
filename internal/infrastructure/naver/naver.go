package naver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"NewsDesk/internal/config"
	"NewsDesk/internal/domain"
	"NewsDesk/internal/filter"
	"NewsDesk/internal/retry"
	"NewsDesk/internal/source"
	"NewsDesk/internal/window"
)

const (
	serviceName = "naver news search"

	// The news search endpoint caps display at 100 items per page.
	pageSize = 100

	defaultMaxPages = 2
	callDelay       = 100 * time.Millisecond
)

// pubDateLayouts covers the RFC 822 family the news search endpoint emits,
// e.g. "Mon, 18 Dec 2023 01:30:00 +0900".
var pubDateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
}

// Client fetches news candidates from the Naver Open API, one search per
// keyword group and keyword pair.
type Client struct {
	endpoint     string
	clientID     string
	clientSecret string
	groups       []config.KeywordGroup
	maxPages     int
	sources      map[string]string
	delay        time.Duration
	retry        retry.Config
	httpClient   *http.Client
	logger       *slog.Logger
}

var _ source.Fetcher = (*Client)(nil)

// New builds a client from configuration. The allow-list maps publisher
// names to canonical domains and backfills each candidate's source name.
func New(cfg config.NaverConfig, search config.SearchConfig, allowed map[string]string, log *slog.Logger) *Client {
	maxPages := search.MaxPages
	if maxPages < 1 {
		maxPages = defaultMaxPages
	}
	return &Client{
		endpoint:     cfg.Endpoint,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		groups:       search.Groups,
		maxPages:     maxPages,
		sources:      allowed,
		delay:        callDelay,
		retry:        retry.Default(),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: log,
	}
}

// Name identifies the provider inside the source registry.
func (c *Client) Name() string { return "naver" }

// Fetch searches every configured group and keyword and converts the results
// into candidates tagged with their retrieving keyword. A failing keyword is
// logged and skipped; its error surfaces only when nothing was fetched.
func (c *Client) Fetch(ctx context.Context, w window.Window) ([]domain.Article, error) {
	if c == nil {
		return nil, fmt.Errorf("naver client is nil")
	}
	if c.clientID == "" || c.clientSecret == "" || c.endpoint == "" {
		return nil, &domain.ExternalCallError{Service: serviceName, Err: fmt.Errorf("client credentials are not configured")}
	}

	var articles []domain.Article
	var firstErr error
	for _, group := range c.groups {
		for _, keyword := range group.Keywords {
			query := fmt.Sprintf(`"%s" "%s"`, group.Name, keyword)
			items, err := c.searchAll(ctx, query)
			if err != nil {
				if ctx.Err() != nil {
					return nil, err
				}
				c.warn("keyword search failed", "query", query, "error", err)
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			c.debug("keyword search done", "query", query, "items", len(items))
			for _, item := range items {
				articles = append(articles, c.toArticle(item, keyword))
			}
		}
	}

	if len(articles) == 0 && firstErr != nil {
		return nil, firstErr
	}
	return articles, nil
}

// searchAll pages through one query until a short page, an error, or the
// page cap.
func (c *Client) searchAll(ctx context.Context, query string) ([]newsItem, error) {
	var items []newsItem
	for page := 0; page < c.maxPages; page++ {
		if page > 0 {
			if err := c.pause(ctx); err != nil {
				return nil, err
			}
		}
		batch, err := c.search(ctx, query, page*pageSize+1)
		if err != nil {
			return nil, err
		}
		items = append(items, batch...)
		if len(batch) < pageSize {
			break
		}
	}
	return items, nil
}

type searchResponse struct {
	Total int        `json:"total"`
	Start int        `json:"start"`
	Items []newsItem `json:"items"`
}

type newsItem struct {
	Title        string `json:"title"`
	OriginalLink string `json:"originallink"`
	Link         string `json:"link"`
	Description  string `json:"description"`
	PubDate      string `json:"pubDate"`
}

func (c *Client) search(ctx context.Context, query string, start int) ([]newsItem, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, &domain.ExternalCallError{Service: serviceName, Err: fmt.Errorf("parse endpoint: %w", err)}
	}
	q := u.Query()
	q.Set("query", query)
	q.Set("display", strconv.Itoa(pageSize))
	q.Set("start", strconv.Itoa(start))
	q.Set("sort", "sim")
	u.RawQuery = q.Encode()

	var payload searchResponse
	err = retry.WithRetry(ctx, c.retry, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return fmt.Errorf("new request: %w", err)
		}
		req.Header.Set("X-Naver-Client-Id", c.clientID)
		req.Header.Set("X-Naver-Client-Secret", c.clientSecret)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("search news: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			return fmt.Errorf("naver error %s: %s", resp.Status, strings.TrimSpace(string(body)))
		}

		payload = searchResponse{}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, &domain.ExternalCallError{Service: serviceName, Err: err}
	}
	return payload.Items, nil
}

// toArticle converts one API item. Titles and summaries arrive with <b>
// match markup and HTML entities; an unparseable pubDate leaves the zero
// time so the window filter rejects the candidate with a visible reason.
func (c *Client) toArticle(item newsItem, keyword string) domain.Article {
	published, _ := parsePubDate(item.PubDate)
	return domain.Article{
		Title:           stripMarkup(item.Title),
		Summary:         stripMarkup(item.Description),
		Link:            item.Link,
		Source:          c.sourceName(item.Link),
		PublishedAt:     published,
		MatchedKeywords: []string{keyword},
	}
}

// sourceName resolves the publisher name behind a link via the allow-list;
// unknown domains come back verbatim so rejections stay attributable.
func (c *Client) sourceName(link string) string {
	if name := filter.SourceFor(link, c.sources); name != "" {
		return name
	}
	return filter.ExtractDomain(link)
}

func parsePubDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range pubDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
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

func (c *Client) pause(ctx context.Context) error {
	if c.delay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(c.delay):
		return nil
	}
}

func (c *Client) debug(msg string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}

func (c *Client) warn(msg string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}
