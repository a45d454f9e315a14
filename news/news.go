package news

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/mohammad-safakhou/newsagent/models"
	"github.com/mohammad-safakhou/newsagent/news/cache"
	"github.com/mohammad-safakhou/newsagent/tools/web_fetch"
	"github.com/mohammad-safakhou/newsagent/tools/web_search"
	searchmodels "github.com/mohammad-safakhou/newsagent/tools/web_search/models"
)

// ErrNoArticles is returned when the search phase finds nothing for a topic.
var ErrNoArticles = errors.New("no articles found")

// DefaultSites is the allow-listed set of news domains searched when the
// configuration does not override it.
var DefaultSites = []string{
	"news.yahoo.com",
	"reuters.com",
	"apnews.com",
	"bbc.com",
	"cnn.com",
	"nbcnews.com",
}

// fullContentMin is the minimum extracted length counted as a successful
// full-content extraction; anything shorter falls back to the snippet.
const fullContentMin = 100

// DefaultFetchTimeout bounds each per-article extraction attempt.
const DefaultFetchTimeout = 15 * time.Second

// Retriever runs the two retrieval phases: search for candidate articles,
// then extract full content per article with per-article fallback.
type Retriever struct {
	searcher     web_search.WebSearcher
	fetcher      web_fetch.WebFetcher
	store        cache.Store
	sites        []string
	fetchTimeout time.Duration
	logger       *log.Logger
}

// NewRetriever wires a retriever. store may be nil to disable caching;
// sites defaults to the built-in allow-list.
func NewRetriever(searcher web_search.WebSearcher, fetcher web_fetch.WebFetcher, store cache.Store, sites []string, fetchTimeout time.Duration, logger *log.Logger) *Retriever {
	if len(sites) == 0 {
		sites = DefaultSites
	}
	if fetchTimeout <= 0 {
		fetchTimeout = DefaultFetchTimeout
	}
	if logger == nil {
		logger = log.New(log.Writer(), "[NEWS] ", log.LstdFlags)
	}
	return &Retriever{
		searcher:     searcher,
		fetcher:      fetcher,
		store:        store,
		sites:        sites,
		fetchTimeout: fetchTimeout,
		logger:       logger,
	}
}

// FetchArticles returns up to query.Count articles for the topic. Every
// returned article has a non-empty URL, title and body text: extraction
// failures degrade per article to the snippet and then to the placeholder,
// never aborting the batch.
func (r *Retriever) FetchArticles(ctx context.Context, query models.NewsQuery) ([]models.Article, error) {
	q, err := query.Normalize()
	if err != nil {
		return nil, err
	}

	if r.store != nil {
		if cached, ok, err := r.store.Get(ctx, q.Topic, q.Count); err == nil && ok {
			return cached, nil
		} else if err != nil {
			r.logger.Printf("cache get %q: %v", q.Topic, err)
		}
	}

	results, err := r.searcher.Discover(ctx, q.Topic, q.Count, r.sites)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", q.Topic, err)
	}
	candidates := dedupe(results, q.Count)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w for topic: %s", ErrNoArticles, q.Topic)
	}

	articles := r.extractAll(ctx, candidates)

	if r.store != nil {
		if err := r.store.Set(ctx, q.Topic, q.Count, articles); err != nil {
			r.logger.Printf("cache set %q: %v", q.Topic, err)
		}
	}
	return articles, nil
}

// extractAll fans out one extraction per candidate, bounded by the candidate
// count, and fans back in positionally. Each attempt carries its own timeout
// so one slow article never stalls the batch.
func (r *Retriever) extractAll(ctx context.Context, candidates []searchmodels.Result) []models.Article {
	out := make([]models.Article, len(candidates))
	var wg sync.WaitGroup
	for i, c := range candidates {
		wg.Add(1)
		go func(i int, c searchmodels.Result) {
			defer wg.Done()
			out[i] = r.extractOne(ctx, c)
		}(i, c)
	}
	wg.Wait()
	return out
}

func (r *Retriever) extractOne(ctx context.Context, c searchmodels.Result) models.Article {
	article := models.Article{
		Title:       c.Title,
		URL:         c.URL,
		Source:      sourceOf(c),
		PublishedAt: c.PublishedAt,
		Snippet:     strings.TrimSpace(c.Snippet),
	}
	if article.Title == "" {
		article.Title = "No title"
	}

	fctx, cancel := context.WithTimeout(ctx, r.fetchTimeout)
	defer cancel()

	res, err := r.fetcher.Exec(fctx, c.URL)
	if err == nil && utf8.RuneCountInString(strings.TrimSpace(res.Text)) >= fullContentMin {
		article.FullContent = strings.TrimSpace(res.Text)
		article.Extraction = models.ExtractionFull
		if article.PublishedAt == "" {
			article.PublishedAt = res.PublishedAt
		}
		return article
	}
	if err != nil {
		r.logger.Printf("extract %s: %v", c.URL, err)
	}

	if article.Snippet != "" {
		article.Extraction = models.ExtractionFallback
		return article
	}
	article.Extraction = models.ExtractionMissing
	return article
}

// dedupe drops candidates without a URL and repeated articles, preserving
// order, and caps the batch at count. Repeats are detected on the canonical
// key, so tracking-link and scheme variants of one article collapse.
func dedupe(results []searchmodels.Result, count int) []searchmodels.Result {
	seen := make(map[string]struct{}, len(results))
	out := make([]searchmodels.Result, 0, count)
	for _, r := range results {
		if len(out) == count {
			break
		}
		u := strings.TrimSpace(r.URL)
		if u == "" {
			continue
		}
		key, err := canonicalKey(u)
		if err != nil {
			key = u
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		r.URL = u
		out = append(out, r)
	}
	return out
}

// sourceOf prefers the upstream-reported source and falls back to the URL
// host with any www prefix stripped.
func sourceOf(c searchmodels.Result) string {
	if c.Source != "" {
		return c.Source
	}
	u, err := url.Parse(c.URL)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

// FormatArticles renders the user-facing form of a fetched article set. The
// raw []Article and this string are distinct outputs: summarization always
// consumes the raw form.
func FormatArticles(topic string, articles []models.Article) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Successfully fetched %d articles about '%s' with full content:\n\n", len(articles), topic)
	for i, a := range articles {
		fmt.Fprintf(&b, "📰 **Article %d: %s**\n", i+1, a.DisplayTitle())
		fmt.Fprintf(&b, "🔗 Source: %s\n", a.DisplaySource())
		fmt.Fprintf(&b, "📅 Published: %s\n", a.DisplayDate())
		fmt.Fprintf(&b, "🌐 URL: %s\n", a.URL)
		fmt.Fprintf(&b, "📝 Content Preview: %s...\n\n", preview(a.Text(), 300))
	}
	return b.String()
}

// FormatSummary renders a summary text as the user-facing summary block.
func FormatSummary(summary string) string {
	return "📊 **Comprehensive News Summary**\n\n" + summary
}

// FormatCombined renders the combined retrieval-plus-summary result: the
// article list, a separator, then the already-formatted summary block.
func FormatCombined(topic string, articles []models.Article, summaryBlock string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📰 **News Articles on '%s'**\n\n", topic)
	fmt.Fprintf(&b, "Found %d articles:\n\n", len(articles))
	for i, a := range articles {
		fmt.Fprintf(&b, "**%d. %s**\n", i+1, a.DisplayTitle())
		fmt.Fprintf(&b, "   Source: %s\n", a.DisplaySource())
		fmt.Fprintf(&b, "   Published: %s\n", a.DisplayDate())
		fmt.Fprintf(&b, "   URL: %s\n\n", a.URL)
	}
	b.WriteString("\n" + strings.Repeat("=", 50) + "\n\n")
	b.WriteString(summaryBlock)
	return b.String()
}

func preview(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
