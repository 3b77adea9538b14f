package rss

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"NewsDesk/internal/config"
	"NewsDesk/internal/domain"
	"NewsDesk/internal/window"
)

var kst = time.FixedZone("KST", 9*60*60)

const feedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>경제 뉴스</title>
<link>https://www.hankyung.com</link>
<item>
  <title>국세청 &lt;b&gt;세무조사&lt;/b&gt; 착수</title>
  <link>https://www.hankyung.com/article/1</link>
  <description>국세청이 대기업 세무조사에 착수했다</description>
  <pubDate>Mon, 18 Dec 2023 01:30:00 +0900</pubDate>
</item>
<item>
  <title>프로야구 개막전 결과</title>
  <link>https://www.hankyung.com/article/2</link>
  <description>야구 소식</description>
  <pubDate>Mon, 18 Dec 2023 02:00:00 +0900</pubDate>
</item>
</channel>
</rss>`

func testWindow() window.Window {
	return window.Window{
		Start: time.Date(2023, 12, 17, 10, 0, 0, 0, kst),
		End:   time.Date(2023, 12, 18, 10, 0, 0, 0, kst),
	}
}

func TestFetchTagsKeywordMatches(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(feedXML))
	}))
	defer server.Close()

	f := New(
		config.RSSConfig{Feeds: []config.FeedConfig{{Source: "한국경제", URL: server.URL}}},
		[]string{"세무조사", "회계감리"},
		nil,
	)

	got, err := f.Fetch(context.Background(), testWindow())
	if err != nil {
		t.Fatalf("fetch returned error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected only the keyword-matching item, got %d", len(got))
	}

	art := got[0]
	if art.Title != "국세청 세무조사 착수" {
		t.Fatalf("expected markup stripped from title, got %q", art.Title)
	}
	if art.Source != "한국경제" {
		t.Fatalf("expected source from feed config, got %q", art.Source)
	}
	if want := []string{"세무조사"}; !reflect.DeepEqual(art.MatchedKeywords, want) {
		t.Fatalf("expected keywords %v, got %v", want, art.MatchedKeywords)
	}
	want := time.Date(2023, 12, 18, 1, 30, 0, 0, kst)
	if !art.PublishedAt.Equal(want) {
		t.Fatalf("expected published at %v, got %v", want, art.PublishedAt)
	}
}

func TestFetchContinuesOnFeedFailure(t *testing.T) {
	t.Parallel()

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer broken.Close()

	working := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(feedXML))
	}))
	defer working.Close()

	f := New(
		config.RSSConfig{Feeds: []config.FeedConfig{
			{Source: "조선일보", URL: broken.URL},
			{Source: "한국경제", URL: working.URL},
		}},
		[]string{"세무조사"},
		nil,
	)

	got, err := f.Fetch(context.Background(), testWindow())
	if err != nil {
		t.Fatalf("expected partial result without error, got %v", err)
	}
	if len(got) != 1 || got[0].Source != "한국경제" {
		t.Fatalf("expected surviving feed result, got %v", got)
	}
}

func TestFetchAllFeedsFail(t *testing.T) {
	t.Parallel()

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer broken.Close()

	f := New(
		config.RSSConfig{Feeds: []config.FeedConfig{{Source: "조선일보", URL: broken.URL}}},
		[]string{"세무조사"},
		nil,
	)

	_, err := f.Fetch(context.Background(), testWindow())
	if err == nil {
		t.Fatal("expected error when every feed fails")
	}
	var callErr *domain.ExternalCallError
	if !errors.As(err, &callErr) {
		t.Fatalf("expected external call error, got %T: %v", err, err)
	}
}

func TestFetchWithoutFeeds(t *testing.T) {
	t.Parallel()

	f := New(config.RSSConfig{}, []string{"세무조사"}, nil)

	got, err := f.Fetch(context.Background(), testWindow())
	if err != nil {
		t.Fatalf("expected nil error for empty feed list, got %v", err)
	}
	if got != nil {
		t.Fatalf("expected no candidates, got %v", got)
	}
}

func TestStripMarkup(t *testing.T) {
	t.Parallel()

	if got := stripMarkup("<p>감리 <b>결과</b> 발표</p>"); got != "감리 결과 발표" {
		t.Fatalf("expected tags stripped, got %q", got)
	}
	if got := stripMarkup("본문 그대로"); got != "본문 그대로" {
		t.Fatalf("expected plain text unchanged, got %q", got)
	}
}
