package news

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mohammad-safakhou/newsagent/models"
	"github.com/mohammad-safakhou/newsagent/news/cache"
	fetchmodels "github.com/mohammad-safakhou/newsagent/tools/web_fetch/models"
	searchmodels "github.com/mohammad-safakhou/newsagent/tools/web_search/models"
)

type fakeSearcher struct {
	results []searchmodels.Result
	err     error
	calls   int
}

func (f *fakeSearcher) Discover(ctx context.Context, q string, k int, sites []string) ([]searchmodels.Result, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

type fakeFetcher struct {
	texts map[string]string
	err   error
	delay time.Duration
}

func (f *fakeFetcher) Exec(ctx context.Context, link string) (fetchmodels.Result, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return fetchmodels.Result{}, ctx.Err()
		}
	}
	if f.err != nil {
		return fetchmodels.Result{}, f.err
	}
	return fetchmodels.Result{URL: link, Text: f.texts[link]}, nil
}

func longText(n int) string {
	return strings.Repeat("a", n)
}

func TestFetchArticlesFullContent(t *testing.T) {
	searcher := &fakeSearcher{results: []searchmodels.Result{
		{Title: "One", URL: "https://reuters.com/1", Source: "reuters.com", Snippet: "snippet one", PublishedAt: "2026-01-02"},
		{Title: "Two", URL: "https://bbc.com/2", Snippet: "snippet two"},
	}}
	fetcher := &fakeFetcher{texts: map[string]string{
		"https://reuters.com/1": longText(150),
		"https://bbc.com/2":     longText(200),
	}}
	r := NewRetriever(searcher, fetcher, nil, nil, time.Second, nil)

	articles, err := r.FetchArticles(context.Background(), models.NewsQuery{Topic: "ai", Count: 2})
	if err != nil {
		t.Fatalf("FetchArticles: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(articles))
	}
	if articles[0].Extraction != models.ExtractionFull {
		t.Errorf("expected full extraction, got %s", articles[0].Extraction)
	}
	if articles[0].Text() != longText(150) {
		t.Errorf("expected full content in Text()")
	}
	if articles[1].Source != "bbc.com" {
		t.Errorf("expected source derived from URL host, got %q", articles[1].Source)
	}
}

func TestFetchArticlesSnippetFallback(t *testing.T) {
	searcher := &fakeSearcher{results: []searchmodels.Result{
		{Title: "Short", URL: "https://cnn.com/1", Snippet: "just a snippet"},
	}}
	// Under the full-content threshold, so the snippet must win.
	fetcher := &fakeFetcher{texts: map[string]string{"https://cnn.com/1": "too short"}}
	r := NewRetriever(searcher, fetcher, nil, nil, time.Second, nil)

	articles, err := r.FetchArticles(context.Background(), models.NewsQuery{Topic: "ai", Count: 1})
	if err != nil {
		t.Fatalf("FetchArticles: %v", err)
	}
	if articles[0].Extraction != models.ExtractionFallback {
		t.Errorf("expected fallback extraction, got %s", articles[0].Extraction)
	}
	if articles[0].Text() != "just a snippet" {
		t.Errorf("expected snippet text, got %q", articles[0].Text())
	}
}

func TestFetchArticlesPlaceholder(t *testing.T) {
	searcher := &fakeSearcher{results: []searchmodels.Result{
		{Title: "Bare", URL: "https://apnews.com/1"},
	}}
	fetcher := &fakeFetcher{err: errors.New("boom")}
	r := NewRetriever(searcher, fetcher, nil, nil, time.Second, nil)

	articles, err := r.FetchArticles(context.Background(), models.NewsQuery{Topic: "ai", Count: 1})
	if err != nil {
		t.Fatalf("FetchArticles: %v", err)
	}
	if articles[0].Extraction != models.ExtractionMissing {
		t.Errorf("expected missing extraction, got %s", articles[0].Extraction)
	}
	if articles[0].Text() != models.PlaceholderContent {
		t.Errorf("expected placeholder text, got %q", articles[0].Text())
	}
}

func TestFetchArticlesDedupesAndCaps(t *testing.T) {
	searcher := &fakeSearcher{results: []searchmodels.Result{
		{Title: "A", URL: "https://reuters.com/a", Snippet: "s"},
		{Title: "A again", URL: "https://reuters.com/a", Snippet: "s"},
		{Title: "no url", Snippet: "s"},
		{Title: "B", URL: "https://bbc.com/b", Snippet: "s"},
		{Title: "C", URL: "https://cnn.com/c", Snippet: "s"},
	}}
	fetcher := &fakeFetcher{texts: map[string]string{}}
	r := NewRetriever(searcher, fetcher, nil, nil, time.Second, nil)

	articles, err := r.FetchArticles(context.Background(), models.NewsQuery{Topic: "ai", Count: 2})
	if err != nil {
		t.Fatalf("FetchArticles: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("expected 2 articles after dedupe and cap, got %d", len(articles))
	}
	if articles[0].URL != "https://reuters.com/a" || articles[1].URL != "https://bbc.com/b" {
		t.Errorf("unexpected ordering: %q, %q", articles[0].URL, articles[1].URL)
	}
}

func TestFetchArticlesNoResults(t *testing.T) {
	searcher := &fakeSearcher{}
	r := NewRetriever(searcher, &fakeFetcher{}, nil, nil, time.Second, nil)

	_, err := r.FetchArticles(context.Background(), models.NewsQuery{Topic: "obscure", Count: 3})
	if !errors.Is(err, ErrNoArticles) {
		t.Fatalf("expected ErrNoArticles, got %v", err)
	}
}

func TestFetchArticlesEmptyTopic(t *testing.T) {
	r := NewRetriever(&fakeSearcher{}, &fakeFetcher{}, nil, nil, time.Second, nil)

	_, err := r.FetchArticles(context.Background(), models.NewsQuery{Topic: "   "})
	if !errors.Is(err, models.ErrEmptyTopic) {
		t.Fatalf("expected ErrEmptyTopic, got %v", err)
	}
}

func TestFetchArticlesSlowFetcherFallsBack(t *testing.T) {
	searcher := &fakeSearcher{results: []searchmodels.Result{
		{Title: "Slow", URL: "https://nbcnews.com/1", Snippet: "quick snippet"},
	}}
	fetcher := &fakeFetcher{delay: 200 * time.Millisecond, texts: map[string]string{
		"https://nbcnews.com/1": longText(300),
	}}
	r := NewRetriever(searcher, fetcher, nil, nil, 10*time.Millisecond, nil)

	start := time.Now()
	articles, err := r.FetchArticles(context.Background(), models.NewsQuery{Topic: "ai", Count: 1})
	if err != nil {
		t.Fatalf("FetchArticles: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 150*time.Millisecond {
		t.Errorf("extraction did not honor per-article timeout, took %v", elapsed)
	}
	if articles[0].Extraction != models.ExtractionFallback {
		t.Errorf("expected fallback extraction, got %s", articles[0].Extraction)
	}
}

func TestFetchArticlesCacheHitSkipsSearch(t *testing.T) {
	store := cache.NewMemoryStore(time.Minute)
	cached := []models.Article{{Title: "Cached", URL: "https://reuters.com/c", Snippet: "s", Extraction: models.ExtractionFallback}}
	if err := store.Set(context.Background(), "ai", 3, cached); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	searcher := &fakeSearcher{}
	r := NewRetriever(searcher, &fakeFetcher{}, store, nil, time.Second, nil)

	articles, err := r.FetchArticles(context.Background(), models.NewsQuery{Topic: "ai", Count: 3})
	if err != nil {
		t.Fatalf("FetchArticles: %v", err)
	}
	if searcher.calls != 0 {
		t.Errorf("expected search to be skipped on cache hit, got %d calls", searcher.calls)
	}
	if len(articles) != 1 || articles[0].Title != "Cached" {
		t.Errorf("unexpected cached articles: %+v", articles)
	}
}

func TestFormatArticles(t *testing.T) {
	articles := []models.Article{
		{Title: "Headline", URL: "https://bbc.com/x", Source: "bbc.com", PublishedAt: "2026-01-05", FullContent: longText(400), Extraction: models.ExtractionFull},
		{URL: "https://cnn.com/y", Snippet: "short snippet", Extraction: models.ExtractionFallback},
	}
	out := FormatArticles("climate", articles)

	if !strings.HasPrefix(out, "Successfully fetched 2 articles about 'climate' with full content:\n\n") {
		t.Errorf("unexpected header: %q", out[:60])
	}
	for _, want := range []string{
		"📰 **Article 1: Headline**",
		"🔗 Source: bbc.com",
		"📅 Published: 2026-01-05",
		"🌐 URL: https://bbc.com/x",
		"📰 **Article 2: No title**",
		"🔗 Source: Unknown source",
		"📅 Published: Unknown date",
		"📝 Content Preview: short snippet...",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in output", want)
		}
	}
	// Preview must cut long bodies at 300 runes.
	if strings.Contains(out, longText(301)) {
		t.Errorf("content preview not truncated")
	}
	if !strings.Contains(out, longText(300)+"...") {
		t.Errorf("expected 300-rune preview with ellipsis")
	}
}

func TestFormatCombined(t *testing.T) {
	articles := []models.Article{
		{Title: "Headline", URL: "https://bbc.com/x", Source: "bbc.com", PublishedAt: "2026-01-05", Snippet: "s"},
	}
	out := FormatCombined("climate", articles, FormatSummary("the summary"))

	for _, want := range []string{
		"📰 **News Articles on 'climate'**\n\n",
		"Found 1 articles:\n\n",
		"**1. Headline**",
		"   Source: bbc.com",
		"   URL: https://bbc.com/x",
		"\n" + strings.Repeat("=", 50) + "\n\n",
		"📊 **Comprehensive News Summary**\n\nthe summary",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in output", want)
		}
	}
	sep := strings.Index(out, strings.Repeat("=", 50))
	sum := strings.Index(out, "📊")
	if sep == -1 || sum == -1 || sep > sum {
		t.Errorf("summary block must follow the separator")
	}
}

func TestSourceOfHost(t *testing.T) {
	cases := []struct {
		in   searchmodels.Result
		want string
	}{
		{searchmodels.Result{Source: "Reuters"}, "Reuters"},
		{searchmodels.Result{URL: "https://www.bbc.com/news/1"}, "bbc.com"},
		{searchmodels.Result{URL: "https://apnews.com/article"}, "apnews.com"},
		{searchmodels.Result{URL: "::bad::"}, ""},
	}
	for i, c := range cases {
		if got := sourceOf(c.in); got != c.want {
			t.Errorf("case %d: got %q want %q", i, got, c.want)
		}
	}
}

func TestDedupeKeepsOrder(t *testing.T) {
	in := []searchmodels.Result{
		{URL: " https://a "},
		{URL: "https://a"},
		{URL: "https://b"},
	}
	out := dedupe(in, 5)
	if len(out) != 2 {
		t.Fatalf("expected 2 results, got %d", len(out))
	}
	if out[0].URL != "https://a" || out[1].URL != "https://b" {
		t.Errorf("unexpected urls: %v", out)
	}
}

func TestDedupeCollapsesTrackingVariants(t *testing.T) {
	in := []searchmodels.Result{
		{Title: "first", URL: "https://www.example.com/story?utm_source=feed"},
		{Title: "same story", URL: "http://example.com/story/"},
		{Title: "other", URL: "https://example.com/other"},
	}
	out := dedupe(in, 5)
	if len(out) != 2 {
		t.Fatalf("expected 2 results, got %d", len(out))
	}
	if out[0].Title != "first" || out[1].Title != "other" {
		t.Errorf("unexpected candidates: %+v", out)
	}
	if out[0].URL != "https://www.example.com/story?utm_source=feed" {
		t.Errorf("dedupe must keep the original URL, got %q", out[0].URL)
	}
}

func TestFormatSummary(t *testing.T) {
	out := FormatSummary("All quiet.")
	if out != "📊 **Comprehensive News Summary**\n\nAll quiet." {
		t.Errorf("unexpected summary block: %q", out)
	}
}
