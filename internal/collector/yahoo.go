package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"CompanyPulse/internal/metrics"
	"CompanyPulse/internal/model"
)

// DefaultYahooBaseURL is the public Yahoo Finance API host.
const DefaultYahooBaseURL = "https://query1.finance.yahoo.com"

// YahooFetcher implements MarketSource using the Yahoo Finance public API.
type YahooFetcher struct {
	BaseURL string
	Client  *http.Client
	limiter *rate.Limiter
}

// NewYahooFetcher creates a Yahoo Finance fetcher paced at rps requests per
// second.
func NewYahooFetcher(proxyURL string, rps float64) *YahooFetcher {
	return &YahooFetcher{
		BaseURL: DefaultYahooBaseURL,
		Client:  newHTTPClient(proxyURL),
		limiter: newLimiter(rps),
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// yahooSearch is the response of the v1 search API.
type yahooSearch struct {
	Quotes []struct {
		Symbol    string `json:"symbol"`
		ShortName string `json:"shortname"`
		LongName  string `json:"longname"`
		Exchange  string `json:"exchange"`
		QuoteType string `json:"quoteType"`
	} `json:"quotes"`
}

// yahooChart is the response of the v8 chart API. Bars Yahoo has no data
// for come back as nulls.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				Currency           string  `json:"currency"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				RegularMarketTime  int64   `json:"regularMarketTime"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func at(vals []*float64, i int) float64 {
	if i >= len(vals) || vals[i] == nil {
		return 0
	}
	return *vals[i]
}

func (f *YahooFetcher) get(ctx context.Context, endpoint string, out any) error {
	if err := f.limiter.Wait(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: yahoo fetch: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: yahoo read body: %v", ErrUpstreamUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: yahoo status %d, body: %s", ErrUpstreamUnavailable, resp.StatusCode, truncateBody(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: yahoo decode: %v", ErrUpstreamUnavailable, err)
	}
	return nil
}

// SearchTicker returns the first quote of a Yahoo search.
func (f *YahooFetcher) SearchTicker(ctx context.Context, query string) (match model.TickerMatch, err error) {
	start := time.Now()
	defer func() { metrics.ObserveUpstream(f.Name(), "search", start, err) }()

	u := fmt.Sprintf("%s/v1/finance/search?q=%s&quotesCount=5&newsCount=0",
		f.BaseURL, url.QueryEscape(query))
	var res yahooSearch
	if err := f.get(ctx, u, &res); err != nil {
		return model.TickerMatch{}, err
	}
	for _, q := range res.Quotes {
		if q.Symbol == "" {
			continue
		}
		name := q.ShortName
		if name == "" {
			name = q.LongName
		}
		return model.TickerMatch{
			Symbol:    q.Symbol,
			Name:      name,
			Exchange:  q.Exchange,
			QuoteType: q.QuoteType,
		}, nil
	}
	return model.TickerMatch{}, fmt.Errorf("%w for %q", ErrTickerNotFound, query)
}

func (f *YahooFetcher) fetchChart(ctx context.Context, symbol, interval, rng string) (*yahooChart, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		f.BaseURL, url.PathEscape(symbol), interval, rng)
	var chart yahooChart
	if err := f.get(ctx, u, &chart); err != nil {
		return nil, err
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("%w: yahoo api error: %s", ErrUpstreamUnavailable, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, fmt.Errorf("%w: yahoo: no data returned", ErrUpstreamUnavailable)
	}
	return &chart, nil
}

// FetchHistory returns the full daily history of symbol.
func (f *YahooFetcher) FetchHistory(ctx context.Context, symbol string) (series model.PriceSeries, err error) {
	start := time.Now()
	defer func() { metrics.ObserveUpstream(f.Name(), "history", start, err) }()

	chart, err := f.fetchChart(ctx, symbol, "1d", "max")
	if err != nil {
		return model.PriceSeries{}, err
	}
	result := chart.Chart.Result[0]
	series = model.PriceSeries{Symbol: symbol, Currency: result.Meta.Currency}
	if len(result.Indicators.Quote) == 0 || len(result.Timestamp) == 0 {
		return model.PriceSeries{}, fmt.Errorf("%w: yahoo: no bars for %s", ErrUpstreamUnavailable, symbol)
	}

	quote := result.Indicators.Quote[0]
	series.Points = make([]model.PricePoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		c := at(quote.Close, i)
		if c == 0 {
			continue // holidays and half-filled rows
		}
		series.Points = append(series.Points, model.PricePoint{
			Date:     time.Unix(ts, 0).UTC(),
			Open:     at(quote.Open, i),
			High:     at(quote.High, i),
			Low:      at(quote.Low, i),
			Close:    c,
			Volume:   at(quote.Volume, i),
			Currency: result.Meta.Currency,
		})
	}
	if len(series.Points) == 0 {
		return model.PriceSeries{}, fmt.Errorf("%w: yahoo: only empty bars for %s", ErrUpstreamUnavailable, symbol)
	}

	sort.Slice(series.Points, func(i, j int) bool { return series.Points[i].Date.Before(series.Points[j].Date) })
	return series, nil
}

// FetchQuote returns the regular market price from the chart metadata.
func (f *YahooFetcher) FetchQuote(ctx context.Context, symbol string) (quote model.Quote, err error) {
	start := time.Now()
	defer func() { metrics.ObserveUpstream(f.Name(), "quote", start, err) }()

	chart, err := f.fetchChart(ctx, symbol, "1d", "1d")
	if err != nil {
		return model.Quote{}, err
	}
	meta := chart.Chart.Result[0].Meta
	if meta.RegularMarketPrice <= 0 {
		return model.Quote{}, fmt.Errorf("%w: yahoo: no price for %s", ErrUpstreamUnavailable, symbol)
	}
	quote = model.Quote{
		Symbol:   symbol,
		Price:    meta.RegularMarketPrice,
		Currency: meta.Currency,
	}
	if meta.RegularMarketTime > 0 {
		quote.Time = time.Unix(meta.RegularMarketTime, 0).UTC()
	}
	return quote, nil
}

func truncateBody(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
