package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mohammad-safakhou/newsagent/tools/web_search/models"
)

// DefaultEndpoint is the NewsAPI everything endpoint.
const DefaultEndpoint = "https://newsapi.org/v2/everything"

// Search queries NewsAPI. The domains parameter carries the allow-list,
// e.g. "bbc.com,reuters.com".
type Search struct {
	APIKey   string
	Endpoint string
	Timeout  time.Duration
}

func (s Search) Discover(ctx context.Context, q string, k int, sites []string) ([]models.Result, error) {
	if s.APIKey == "" {
		return nil, fmt.Errorf("newsapi key not configured")
	}

	params := url.Values{}
	params.Add("q", q)
	params.Add("pageSize", fmt.Sprintf("%d", k))
	params.Add("sortBy", "publishedAt")
	if len(sites) > 0 {
		params.Add("domains", strings.Join(sites, ","))
	}
	params.Add("apiKey", s.APIKey)

	endpoint := s.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	req, err := http.NewRequestWithContext(ctx, "GET", fmt.Sprintf("%s?%s", endpoint, params.Encode()), nil)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}

	client := &http.Client{Timeout: s.Timeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch news: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("newsapi status %d", resp.StatusCode)
	}

	var raw struct {
		Status   string `json:"status"`
		Articles []struct {
			Source struct {
				Name string `json:"name"`
			} `json:"source"`
			Title       string `json:"title"`
			Description string `json:"description"`
			URL         string `json:"url"`
			PublishedAt string `json:"publishedAt"`
		} `json:"articles"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if raw.Status != "ok" {
		return nil, fmt.Errorf("newsapi status %q", raw.Status)
	}

	var out []models.Result
	for i, a := range raw.Articles {
		if i >= k {
			break
		}
		out = append(out, models.Result{
			Title:       a.Title,
			URL:         a.URL,
			Source:      a.Source.Name,
			Snippet:     a.Description,
			PublishedAt: a.PublishedAt,
		})
	}
	return out, nil
}
