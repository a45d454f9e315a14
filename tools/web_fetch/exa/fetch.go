package exa

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mohammad-safakhou/newsagent/tools/web_fetch/models"
)

// DefaultBaseURL is the Exa API root.
const DefaultBaseURL = "https://api.exa.ai"

// Fetch extracts article text through the Exa contents API, one URL per
// call so each article keeps its own timeout budget.
type Fetch struct {
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
	MaxChars int
}

func (f Fetch) Exec(ctx context.Context, url string) (models.Result, error) {
	if strings.TrimSpace(url) == "" {
		return models.Result{}, errors.New("invalid url")
	}
	if f.APIKey == "" {
		return models.Result{URL: url}, errors.New("exa API key not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, f.Timeout)
	defer cancel()
	t0 := time.Now()

	body, err := json.Marshal(map[string]interface{}{
		"urls":              []string{url},
		"includeImages":     false,
		"includeFormatting": false,
	})
	if err != nil {
		return models.Result{URL: url}, fmt.Errorf("marshal: %w", err)
	}

	baseURL := f.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	req, err := http.NewRequestWithContext(ctx, "POST", baseURL+"/contents", bytes.NewReader(body))
	if err != nil {
		return models.Result{URL: url}, fmt.Errorf("request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+f.APIKey)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return models.Result{URL: url, Status: 599, ElapsedMS: int(time.Since(t0) / time.Millisecond)}, fmt.Errorf("do: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return models.Result{URL: url, Status: resp.StatusCode, ElapsedMS: int(time.Since(t0) / time.Millisecond)},
			fmt.Errorf("exa contents status %d", resp.StatusCode)
	}

	var raw struct {
		Results []struct {
			URL           string `json:"url"`
			Title         string `json:"title"`
			PublishedDate string `json:"publishedDate"`
			Text          string `json:"text"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return models.Result{URL: url, Status: resp.StatusCode}, fmt.Errorf("decode: %w", err)
	}

	out := models.Result{URL: url, Status: resp.StatusCode, ElapsedMS: int(time.Since(t0) / time.Millisecond)}
	if len(raw.Results) == 0 {
		return out, nil
	}
	r := raw.Results[0]
	text := r.Text
	if f.MaxChars > 0 && len(text) > f.MaxChars {
		text = text[:f.MaxChars]
	}
	out.Title = strings.TrimSpace(r.Title)
	out.PublishedAt = r.PublishedDate
	out.Text = strings.TrimSpace(text)
	return out, nil
}
