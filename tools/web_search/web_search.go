package web_search

import (
	"context"
	"errors"
	"time"

	"github.com/mohammad-safakhou/newsagent/tools/web_search/exa"
	"github.com/mohammad-safakhou/newsagent/tools/web_search/models"
	"github.com/mohammad-safakhou/newsagent/tools/web_search/newsapi"
)

// DefaultTimeout bounds one search request.
const DefaultTimeout = 10 * time.Second

// WebSearcher finds candidate news articles for a query. Results are capped
// at k and restricted to the allow-listed sites when the backend supports
// domain filtering.
type WebSearcher interface {
	Discover(ctx context.Context, q string, k int, sites []string) ([]models.Result, error)
}

type Provider string

const (
	ExaProvider     Provider = "exa"
	NewsAPIProvider Provider = "newsapi"
)

var ErrUnsupportedProvider = errors.New("unsupported search provider")

func NewWebSearcher(provider Provider, apiKey string, timeout time.Duration) (WebSearcher, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	switch provider {
	case ExaProvider:
		return exa.Search{APIKey: apiKey, Timeout: timeout}, nil
	case NewsAPIProvider:
		return newsapi.Search{APIKey: apiKey, Timeout: timeout}, nil
	default:
		return nil, ErrUnsupportedProvider
	}
}
