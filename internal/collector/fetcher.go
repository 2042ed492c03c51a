package collector

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"CompanyPulse/internal/model"
)

var (
	// ErrTickerNotFound means the search returned no usable match.
	ErrTickerNotFound = errors.New("no ticker found")
	// ErrUpstreamUnavailable wraps every provider failure: transport errors,
	// bad status codes, undecodable or empty payloads.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// MarketSource resolves tickers and fetches prices.
type MarketSource interface {
	SearchTicker(ctx context.Context, query string) (model.TickerMatch, error)
	FetchHistory(ctx context.Context, symbol string) (model.PriceSeries, error)
	FetchQuote(ctx context.Context, symbol string) (model.Quote, error)
	Name() string
}

// NewsSource searches recent headlines, newest first.
type NewsSource interface {
	Search(ctx context.Context, query string, limit int) ([]model.Headline, error)
	Name() string
}

// newHTTPClient builds a client with optional proxy support.
func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}

// newLimiter paces requests to a provider; rps <= 0 disables pacing.
func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}
