package filter

import (
	"fmt"
	"strings"

	"NewsDesk/internal/domain"
	"NewsDesk/internal/window"
)

// Filter classifies candidates against the time window, the source
// allow-list, and the exclusion keywords, in that fixed order. It is
// stateless; every input article comes out either accepted or rejected
// with an attributable reason.
type Filter struct {
	domains  map[string]string
	exclude  []string
	keywords []string
}

// New builds a filter from the allow-list (source name to canonical domain),
// the exclusion keyword list, and the requested search keywords.
func New(allowed map[string]string, exclude, keywords []string) *Filter {
	return &Filter{
		domains:  allowed,
		exclude:  exclude,
		keywords: keywords,
	}
}

// Apply runs the filter chain over the batch. Accepted articles carry the
// union of their retrieval keywords and the search keywords found in
// title+summary; the union is never empty for an accepted article.
func (f *Filter) Apply(w window.Window, articles []domain.Article) ([]domain.Article, []domain.Rejection) {
	accepted := make([]domain.Article, 0, len(articles))
	var rejected []domain.Rejection

	for _, art := range articles {
		if !w.Contains(art.PublishedAt) {
			rejected = append(rejected, reject(art, domain.ReasonOutsideWindow,
				art.PublishedAt.Format("2006-01-02 15:04")))
			continue
		}

		wantDomain, ok := f.domains[art.Source]
		if !ok {
			rejected = append(rejected, reject(art, domain.ReasonSourceNotAllowed, art.Source))
			continue
		}
		if dom := ExtractDomain(art.Link); !domainMatches(dom, wantDomain) {
			rejected = append(rejected, reject(art, domain.ReasonDomainMismatch,
				fmt.Sprintf("%s is not %s", dom, wantDomain)))
			continue
		}

		if kw := f.excludedKeyword(art); kw != "" {
			rejected = append(rejected, reject(art, domain.ReasonExcludedKeyword, kw))
			continue
		}

		matched := domain.UnionKeywords(art.MatchedKeywords, MatchKeywords(art.Title, art.Summary, f.keywords))
		if len(matched) == 0 {
			rejected = append(rejected, reject(art, domain.ReasonNoKeywordMatch, ""))
			continue
		}

		art.MatchedKeywords = matched
		accepted = append(accepted, art)
	}

	return accepted, rejected
}

func (f *Filter) excludedKeyword(art domain.Article) string {
	title := strings.ToLower(art.Title)
	summary := strings.ToLower(art.Summary)
	for _, kw := range f.exclude {
		needle := strings.ToLower(kw)
		if needle == "" {
			continue
		}
		if strings.Contains(title, needle) || strings.Contains(summary, needle) {
			return kw
		}
	}
	return ""
}

func reject(art domain.Article, reason domain.Reason, detail string) domain.Rejection {
	return domain.Rejection{Article: art, Stage: domain.StageFilter, Reason: reason, Detail: detail}
}

// ExtractDomain returns the host of a link without scheme, port, and "www."
// prefix; empty when the link has no recognizable host.
func ExtractDomain(link string) string {
	rest := strings.TrimSpace(link)
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+3:]
	}
	if i := strings.IndexAny(rest, "/?#"); i >= 0 {
		rest = rest[:i]
	}
	if i := strings.IndexByte(rest, ':'); i >= 0 {
		rest = rest[:i]
	}
	rest = strings.TrimPrefix(rest, "www.")
	return strings.ToLower(rest)
}

// SourceFor reverse-maps a link to its allow-list source name. The longest
// matching domain wins so biz.chosun.com resolves to its own entry rather
// than the chosun.com one. Empty when nothing matches.
func SourceFor(link string, allowed map[string]string) string {
	dom := ExtractDomain(link)
	if dom == "" {
		return ""
	}

	var name string
	var best int
	for n, d := range allowed {
		if d != "" && domainMatches(dom, d) && len(d) > best {
			name, best = n, len(d)
		}
	}
	return name
}

func domainMatches(dom, want string) bool {
	if dom == "" || want == "" {
		return false
	}
	return dom == want || strings.HasSuffix(dom, "."+want)
}

// MatchKeywords reports which search keywords occur in the title or summary,
// matched case-insensitively as substrings.
func MatchKeywords(title, summary string, keywords []string) []string {
	text := strings.ToLower(title + " " + summary)
	var matched []string
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(text, strings.ToLower(kw)) {
			matched = append(matched, kw)
		}
	}
	return matched
}
