package collector

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"CompanyPulse/internal/calculator"
	"CompanyPulse/internal/model"
	"CompanyPulse/internal/ranker"
)

// ErrEmptyQuery is returned for a blank company name.
var ErrEmptyQuery = errors.New("empty company name")

// User-visible warnings for partial results.
const (
	WarnNoQuote   = "Stock price not available right now."
	WarnNoHistory = "No historical data available."
	WarnNoNews    = "No recent news found."
)

// Collector resolves a company and composes its insights from the market
// and news sources.
type Collector struct {
	Market MarketSource
	News   NewsSource
	// Periods is the growth table, in display order.
	Periods []model.GrowthPeriod
	// Ranking holds the relevance options; Subject is set per lookup.
	Ranking ranker.Options
	// NewsFetchLimit caps the headlines requested from the news source.
	NewsFetchLimit int
	now            func() time.Time
}

// NewCollector creates a new Collector.
func NewCollector(market MarketSource, news NewsSource, periods []model.GrowthPeriod, ranking ranker.Options) *Collector {
	if len(periods) == 0 {
		periods = model.DefaultGrowthPeriods
	}
	return &Collector{
		Market:  market,
		News:    news,
		Periods: periods,
		Ranking: ranking,
		now:     time.Now,
	}
}

// Collect looks up a company by free-text name. It fails only when the name
// is blank or the ticker cannot be resolved; missing prices or news degrade
// to warnings on the result.
func (c *Collector) Collect(ctx context.Context, query string) (*model.Insights, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	match, err := c.Market.SearchTicker(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("resolve ticker: %w", err)
	}

	in := &model.Insights{
		Query:       query,
		Ticker:      match,
		GeneratedAt: c.now().UTC(),
	}

	var (
		wg        sync.WaitGroup
		series    model.PriceSeries
		seriesErr error
		quote     model.Quote
		quoteErr  error
		headlines []model.Headline
		newsErr   error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		series, seriesErr = c.Market.FetchHistory(ctx, match.Symbol)
		quote, quoteErr = c.Market.FetchQuote(ctx, match.Symbol)
	}()
	go func() {
		defer wg.Done()
		if c.News == nil {
			newsErr = fmt.Errorf("%w: no news source configured", ErrUpstreamUnavailable)
			return
		}
		headlines, newsErr = c.News.Search(ctx, query, c.NewsFetchLimit)
	}()
	wg.Wait()

	if quoteErr != nil {
		log.Warn().Err(quoteErr).Str("symbol", match.Symbol).Msg("quote unavailable")
		in.Warn(WarnNoQuote)
	} else {
		in.Quote = &quote
	}

	if seriesErr != nil || len(series.Points) == 0 {
		log.Warn().Err(seriesErr).Str("symbol", match.Symbol).Msg("history unavailable")
		in.Warn(WarnNoHistory)
	}
	in.Series = calculator.Normalize(series)
	in.Growth = calculator.GrowthTable(in.Series, c.Periods)
	in.Trend = calculator.Summarize(in.Series)
	in.Indicators = calculator.ComputeIndicators(in.Series)

	if newsErr != nil || len(headlines) == 0 {
		log.Warn().Err(newsErr).Str("query", query).Msg("news unavailable")
		in.Warn(WarnNoNews)
	}
	opts := c.Ranking
	opts.Subject = query
	in.News = ranker.Rank(headlines, opts)

	log.Info().
		Str("query", query).
		Str("symbol", match.Symbol).
		Int("points", in.Series.Len()).
		Int("headlines", len(in.News.Headlines)).
		Int("warnings", len(in.Warnings)).
		Msg("insights collected")
	return in, nil
}
