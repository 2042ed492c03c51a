package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"golang.org/x/time/rate"

	"CompanyPulse/internal/metrics"
	"CompanyPulse/internal/model"
)

// GatewayFetcher implements MarketSource against a self-hosted market data
// REST gateway.
type GatewayFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	limiter *rate.Limiter
}

// NewGatewayFetcher creates a gateway fetcher with optional proxy support.
func NewGatewayFetcher(baseURL, apiKey, proxyURL string, rps float64) *GatewayFetcher {
	return &GatewayFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL),
		limiter: newLimiter(rps),
	}
}

func (f *GatewayFetcher) Name() string { return "gateway" }

// gwBar is the JSON shape of one daily bar.
type gwBar struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

type gwBars struct {
	Symbol   string  `json:"symbol"`
	Currency string  `json:"currency"`
	Bars     []gwBar `json:"bars"`
}

type gwMatch struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
	Type     string `json:"type"`
}

type gwQuote struct {
	Price     float64 `json:"price"`
	Currency  string  `json:"currency"`
	Timestamp int64   `json:"timestamp"`
}

func (f *GatewayFetcher) get(ctx context.Context, endpoint string, out any) error {
	if err := f.limiter.Wait(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: gateway: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: gateway status %d, body: %s", ErrUpstreamUnavailable, resp.StatusCode, truncateBody(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: gateway decode: %v", ErrUpstreamUnavailable, err)
	}
	return nil
}

func (f *GatewayFetcher) SearchTicker(ctx context.Context, query string) (match model.TickerMatch, err error) {
	start := time.Now()
	defer func() { metrics.ObserveUpstream(f.Name(), "search", start, err) }()

	endpoint := fmt.Sprintf("%s/api/v1/search?q=%s", f.BaseURL, url.QueryEscape(query))
	var matches []gwMatch
	if err := f.get(ctx, endpoint, &matches); err != nil {
		return model.TickerMatch{}, err
	}
	for _, m := range matches {
		if m.Symbol != "" {
			return model.TickerMatch{Symbol: m.Symbol, Name: m.Name, Exchange: m.Exchange, QuoteType: m.Type}, nil
		}
	}
	return model.TickerMatch{}, fmt.Errorf("%w for %q", ErrTickerNotFound, query)
}

func (f *GatewayFetcher) FetchHistory(ctx context.Context, symbol string) (series model.PriceSeries, err error) {
	start := time.Now()
	defer func() { metrics.ObserveUpstream(f.Name(), "history", start, err) }()

	endpoint := fmt.Sprintf("%s/api/v1/bars/daily?symbol=%s", f.BaseURL, url.QueryEscape(symbol))
	var res gwBars
	if err := f.get(ctx, endpoint, &res); err != nil {
		return model.PriceSeries{}, err
	}
	if len(res.Bars) == 0 {
		return model.PriceSeries{}, fmt.Errorf("%w: gateway: no bars for %s", ErrUpstreamUnavailable, symbol)
	}
	series = model.PriceSeries{Symbol: symbol, Currency: res.Currency}
	series.Points = make([]model.PricePoint, len(res.Bars))
	for i, b := range res.Bars {
		series.Points[i] = model.PricePoint{
			Date:     time.Unix(b.Timestamp, 0).UTC(),
			Open:     b.Open,
			High:     b.High,
			Low:      b.Low,
			Close:    b.Close,
			Volume:   b.Volume,
			Currency: res.Currency,
		}
	}
	sort.Slice(series.Points, func(i, j int) bool { return series.Points[i].Date.Before(series.Points[j].Date) })
	return series, nil
}

func (f *GatewayFetcher) FetchQuote(ctx context.Context, symbol string) (quote model.Quote, err error) {
	start := time.Now()
	defer func() { metrics.ObserveUpstream(f.Name(), "quote", start, err) }()

	endpoint := fmt.Sprintf("%s/api/v1/quote?symbol=%s", f.BaseURL, url.QueryEscape(symbol))
	var res gwQuote
	if err := f.get(ctx, endpoint, &res); err != nil {
		return model.Quote{}, err
	}
	if res.Price <= 0 {
		return model.Quote{}, fmt.Errorf("%w: gateway: no price for %s", ErrUpstreamUnavailable, symbol)
	}
	quote = model.Quote{Symbol: symbol, Price: res.Price, Currency: res.Currency}
	if res.Timestamp > 0 {
		quote.Time = time.Unix(res.Timestamp, 0).UTC()
	}
	return quote, nil
}
