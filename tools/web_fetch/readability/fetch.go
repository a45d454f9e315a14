package readability

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
	"github.com/mohammad-safakhou/newsagent/tools/web_fetch/models"
)

// Fetch downloads a page directly and extracts its readable text. Works for
// server-rendered news sites without needing a browser or an external API.
type Fetch struct {
	Timeout  time.Duration
	MaxChars int
}

func (f Fetch) Exec(ctx context.Context, rawURL string) (models.Result, error) {
	if strings.TrimSpace(rawURL) == "" {
		return models.Result{}, errors.New("invalid url")
	}

	ctx, cancel := context.WithTimeout(ctx, f.Timeout)
	defer cancel()
	t0 := time.Now()

	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return models.Result{URL: rawURL}, fmt.Errorf("request: %w", err)
	}
	req.Header.Set("User-Agent", "newsagent/1.0 (+https://github.com/mohammad-safakhou/newsagent)")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return models.Result{URL: rawURL, Status: 599, ElapsedMS: int(time.Since(t0) / time.Millisecond)}, fmt.Errorf("do: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return models.Result{URL: rawURL, Status: resp.StatusCode, ElapsedMS: int(time.Since(t0) / time.Millisecond)},
			fmt.Errorf("fetch status %d", resp.StatusCode)
	}

	article, err := readability.FromReader(resp.Body, mustParseURL(rawURL))
	if err != nil {
		return models.Result{URL: rawURL, Status: resp.StatusCode, ElapsedMS: int(time.Since(t0) / time.Millisecond)},
			fmt.Errorf("readability: %w", err)
	}

	text := article.TextContent
	if f.MaxChars > 0 && len(text) > f.MaxChars {
		text = text[:f.MaxChars]
	}

	return models.Result{
		URL:       rawURL,
		Title:     strings.TrimSpace(article.Title),
		Text:      strings.TrimSpace(text),
		Status:    resp.StatusCode,
		ElapsedMS: int(time.Since(t0) / time.Millisecond),
	}, nil
}

func mustParseURL(raw string) *url.URL {
	u, err := url.Parse(raw)
	if err != nil {
		return &url.URL{}
	}
	return u
}
