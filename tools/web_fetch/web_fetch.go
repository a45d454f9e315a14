package web_fetch

import (
	"context"
	"errors"
	"time"

	"github.com/mohammad-safakhou/newsagent/tools/web_fetch/chromedp"
	"github.com/mohammad-safakhou/newsagent/tools/web_fetch/exa"
	"github.com/mohammad-safakhou/newsagent/tools/web_fetch/models"
	"github.com/mohammad-safakhou/newsagent/tools/web_fetch/readability"
)

const (
	DefaultTimeout  = 15 * time.Second
	MaxCharsDefault = 20000
)

// WebFetcher extracts the readable text of a single article URL. An empty
// Text in the result means extraction failed for that URL, not that the
// article does not exist.
type WebFetcher interface {
	Exec(ctx context.Context, url string) (models.Result, error)
}

type FetcherType string

const (
	// ExaFetcherType extracts through the Exa contents API.
	ExaFetcherType FetcherType = "exa"
	// ReadabilityFetcherType fetches the page directly and runs readability.
	ReadabilityFetcherType FetcherType = "readability"
	// ChromedpFetcherType renders the page in headless Chrome first, for
	// sites that only produce content client-side.
	ChromedpFetcherType FetcherType = "chromedp"
)

var ErrUnsupportedFetcher = errors.New("unsupported fetcher type")

func NewWebFetcher(fetcherType FetcherType, apiKey string, timeout time.Duration, maxChars int) (WebFetcher, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if maxChars <= 0 {
		maxChars = MaxCharsDefault
	}

	switch fetcherType {
	case ExaFetcherType:
		return exa.Fetch{APIKey: apiKey, Timeout: timeout, MaxChars: maxChars}, nil
	case ReadabilityFetcherType:
		return readability.Fetch{Timeout: timeout, MaxChars: maxChars}, nil
	case ChromedpFetcherType:
		return chromedp.Fetch{Timeout: timeout, MaxChars: maxChars}, nil
	default:
		return nil, ErrUnsupportedFetcher
	}
}
