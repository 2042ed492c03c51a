package collector

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CompanyPulse/internal/model"
	"CompanyPulse/internal/ranker"
)

func testRanking() ranker.Options {
	return ranker.Options{
		Keywords:         []string{"growth"},
		IdentityKeywords: []string{"CEO", "merger"},
		IdentityRequired: true,
		Limit:            11,
	}
}

func testHeadlines() []model.Headline {
	return []model.Headline{
		{Title: "Acme names new CEO", Published: "2025-03-10T10:00:00Z"},
		{Title: "Globex merger", Published: "2025-03-09T10:00:00Z"},
		{Title: "Acme growth accelerates", Published: "2025-03-08T10:00:00Z"},
	}
}

func TestCollect_Full(t *testing.T) {
	market := &MockMarket{Match: model.TickerMatch{Symbol: "ACME", Name: "Acme Corporation"}, Price: 50, Days: 600}
	news := &MockNews{Headlines: testHeadlines()}
	c := NewCollector(market, news, nil, testRanking())
	c.NewsFetchLimit = 30
	fixed := time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return fixed }

	in, err := c.Collect(context.Background(), "  Acme ")
	require.NoError(t, err)

	assert.Equal(t, "Acme", in.Query)
	assert.Equal(t, "ACME", in.Ticker.Symbol)
	assert.Equal(t, fixed, in.GeneratedAt)
	require.NotNil(t, in.Quote)
	assert.Equal(t, 50.0, in.Quote.Price)
	assert.Empty(t, in.Warnings)

	require.Len(t, in.Growth, len(model.DefaultGrowthPeriods))
	assert.Equal(t, "1 Day", in.Growth[0].Label)
	assert.True(t, in.Growth[0].Growth.Available)
	assert.Equal(t, model.TrendUp, in.Trend.Label)
	assert.True(t, in.Indicators.MA200.Available)
	assert.Equal(t, 600, in.Series.Len())

	assert.Equal(t, []string{"Acme"}, news.Queries)
	require.Len(t, in.News.Headlines, 2)
	assert.Equal(t, "Acme names new CEO", in.News.Headlines[0].Title)
	assert.Equal(t, 1, in.News.Keywords["CEO"])
	assert.Equal(t, 1, in.News.Keywords["growth"])
}

func TestCollect_EmptyQuery(t *testing.T) {
	c := NewCollector(&MockMarket{}, &MockNews{}, nil, testRanking())
	_, err := c.Collect(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestCollect_TickerNotFound(t *testing.T) {
	market := &MockMarket{SearchErr: fmt.Errorf("%w for %q", ErrTickerNotFound, "zzz")}
	news := &MockNews{Headlines: testHeadlines()}
	c := NewCollector(market, news, nil, testRanking())

	in, err := c.Collect(context.Background(), "zzz")
	assert.Nil(t, in)
	assert.ErrorIs(t, err, ErrTickerNotFound)
	assert.Empty(t, news.Queries, "news is not fetched without a ticker")
}

func TestCollect_UpstreamFailuresBecomeWarnings(t *testing.T) {
	down := fmt.Errorf("%w: boom", ErrUpstreamUnavailable)
	market := &MockMarket{
		Match:      model.TickerMatch{Symbol: "ACME"},
		HistoryErr: down,
		QuoteErr:   down,
	}
	c := NewCollector(market, &MockNews{Err: errors.New("feed down")}, nil, testRanking())

	in, err := c.Collect(context.Background(), "Acme")
	require.NoError(t, err)

	assert.Equal(t, []string{WarnNoQuote, WarnNoHistory, WarnNoNews}, in.Warnings)
	assert.Nil(t, in.Quote)
	for _, g := range in.Growth {
		assert.False(t, g.Growth.Available, g.Label)
	}
	assert.Equal(t, model.TrendInsufficient, in.Trend.Label)
	assert.Empty(t, in.News.Headlines)
}

func TestCollect_NoNewsSource(t *testing.T) {
	c := NewCollector(&MockMarket{}, nil, nil, testRanking())
	in, err := c.Collect(context.Background(), "Acme")
	require.NoError(t, err)
	assert.Contains(t, in.Warnings, WarnNoNews)
}

func TestCollect_CustomPeriods(t *testing.T) {
	periods := []model.GrowthPeriod{{Label: "2 Weeks", Days: 14}, {Label: "1 Week", Days: 7}}
	c := NewCollector(&MockMarket{Days: 30}, &MockNews{}, periods, testRanking())
	in, err := c.Collect(context.Background(), "Acme")
	require.NoError(t, err)
	require.Len(t, in.Growth, 2)
	assert.Equal(t, "2 Weeks", in.Growth[0].Label)
	assert.Equal(t, "1 Week", in.Growth[1].Label)
}
