package collector

import (
	"context"
	"fmt"
	"strings"
	"time"

	"CompanyPulse/internal/model"
)

// MockMarket returns controllable fixed data for development and testing.
// With no Series set it generates Days of gently rising bars around Price.
type MockMarket struct {
	Match      model.TickerMatch
	Price      float64
	Days       int
	Series     *model.PriceSeries
	SearchErr  error
	HistoryErr error
	QuoteErr   error
}

func (m *MockMarket) Name() string { return "mock" }

func (m *MockMarket) SearchTicker(_ context.Context, query string) (model.TickerMatch, error) {
	if m.SearchErr != nil {
		return model.TickerMatch{}, m.SearchErr
	}
	if m.Match.Symbol != "" {
		return m.Match, nil
	}
	sym := strings.ToUpper(strings.Join(strings.Fields(query), ""))
	if sym == "" {
		return model.TickerMatch{}, fmt.Errorf("%w for %q", ErrTickerNotFound, query)
	}
	return model.TickerMatch{Symbol: sym, Name: query}, nil
}

func (m *MockMarket) FetchHistory(_ context.Context, symbol string) (model.PriceSeries, error) {
	if m.HistoryErr != nil {
		return model.PriceSeries{}, m.HistoryErr
	}
	if m.Series != nil {
		return *m.Series, nil
	}
	days := m.Days
	if days == 0 {
		days = 400
	}
	return model.PriceSeries{
		Symbol:   symbol,
		Currency: "USD",
		Points:   generateMockBars(m.basePrice(), days),
	}, nil
}

func (m *MockMarket) FetchQuote(_ context.Context, symbol string) (model.Quote, error) {
	if m.QuoteErr != nil {
		return model.Quote{}, m.QuoteErr
	}
	return model.Quote{Symbol: symbol, Price: m.basePrice(), Currency: "USD", Time: time.Now().UTC()}, nil
}

func (m *MockMarket) basePrice() float64 {
	if m.Price > 0 {
		return m.Price
	}
	return 100
}

func generateMockBars(basePrice float64, count int) []model.PricePoint {
	bars := make([]model.PricePoint, count)
	today := time.Now().UTC().Truncate(24 * time.Hour)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.PricePoint{
			Date:     today.AddDate(0, 0, -(count - 1 - i)),
			Open:     p * 0.999,
			High:     p * 1.005,
			Low:      p * 0.995,
			Close:    p,
			Volume:   1000000,
			Currency: "USD",
		}
	}
	return bars
}

// MockNews returns fixed headlines.
type MockNews struct {
	Headlines []model.Headline
	Err       error
	// Queries records every query received.
	Queries []string
}

func (m *MockNews) Name() string { return "mock" }

func (m *MockNews) Search(_ context.Context, query string, limit int) ([]model.Headline, error) {
	m.Queries = append(m.Queries, query)
	if m.Err != nil {
		return nil, m.Err
	}
	hs := m.Headlines
	if limit > 0 && len(hs) > limit {
		hs = hs[:limit]
	}
	return hs, nil
}
