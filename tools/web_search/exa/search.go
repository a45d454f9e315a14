package exa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mohammad-safakhou/newsagent/tools/web_search/models"
)

// DefaultBaseURL is the Exa API root.
const DefaultBaseURL = "https://api.exa.ai"

// Search queries the Exa search API. Keyword search is used rather than
// neural search so topic queries behave like a news search box.
type Search struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

func (s Search) Discover(ctx context.Context, q string, k int, sites []string) ([]models.Result, error) {
	if s.APIKey == "" {
		return nil, fmt.Errorf("exa API key not configured")
	}

	payload := map[string]interface{}{
		"query":         q,
		"numResults":    k,
		"useAutoprompt": true,
		"type":          "keyword",
	}
	if len(sites) > 0 {
		payload["includeDomains"] = sites
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	baseURL := s.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	req, err := http.NewRequestWithContext(ctx, "POST", baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.APIKey)

	client := &http.Client{Timeout: s.Timeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("exa search status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var raw struct {
		Results []struct {
			Title         string `json:"title"`
			URL           string `json:"url"`
			Source        string `json:"source"`
			Text          string `json:"text"`
			PublishedDate string `json:"publishedDate"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	var out []models.Result
	for i, r := range raw.Results {
		if i >= k {
			break
		}
		out = append(out, models.Result{
			Title:       r.Title,
			URL:         r.URL,
			Source:      r.Source,
			Snippet:     r.Text,
			PublishedAt: r.PublishedDate,
		})
	}
	return out, nil
}
