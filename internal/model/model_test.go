package model

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercent(t *testing.T) {
	assert.Equal(t, "N/A", NotAvailable.String())
	assert.Equal(t, "10.00%", PercentOf(10).String())
	assert.Equal(t, "+1.50%", PercentOf(1.5).Signed())
	assert.Equal(t, "-2.25%", PercentOf(-2.25).Signed())
	assert.False(t, PercentOf(math.NaN()).Available)
	assert.False(t, PercentOf(math.Inf(-1)).Available)
}

func TestPercentJSON(t *testing.T) {
	out, err := json.Marshal(struct {
		A Percent `json:"a"`
		B Percent `json:"b"`
	}{A: PercentOf(12.5)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":12.5,"b":null}`, string(out))

	var back struct {
		A Percent `json:"a"`
		B Percent `json:"b"`
	}
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, PercentOf(12.5), back.A)
	assert.Equal(t, NotAvailable, back.B)
}

func TestValueFormat(t *testing.T) {
	assert.Equal(t, "N/A", Value{}.Format("%.2f"))
	assert.Equal(t, "3.14", ValueOf(3.14159).Format("%.2f"))
	out, err := json.Marshal(Value{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}

func TestHeadlineDay(t *testing.T) {
	assert.Equal(t, "2025-03-09", Headline{Published: "2025-03-09T10:00:00Z"}.Day())
	assert.Equal(t, "2025", Headline{Published: "2025"}.Day())
	assert.Equal(t, "", Headline{}.Day())
}

func TestKeywordFrequencySorted(t *testing.T) {
	f := KeywordFrequency{"merger": 1, "ceo": 3, "growth": 1}
	assert.Equal(t, []KeywordCount{
		{Keyword: "ceo", Count: 3},
		{Keyword: "growth", Count: 1},
		{Keyword: "merger", Count: 1},
	}, f.Sorted())
}

func TestGrowthResultLookup(t *testing.T) {
	g := GrowthResult{{Label: "1 Day", Days: 1, Growth: PercentOf(1)}}
	p, ok := g.Lookup("1 Day")
	assert.True(t, ok)
	assert.Equal(t, 1.0, p.Value)
	_, ok = g.Lookup("1 Year")
	assert.False(t, ok)
}

func TestPriceSeriesHelpers(t *testing.T) {
	var s PriceSeries
	_, ok := s.Last()
	assert.False(t, ok)

	s.Points = []PricePoint{{Close: 1}, {Close: 2}}
	last, ok := s.Last()
	assert.True(t, ok)
	assert.Equal(t, 2.0, last.Close)
	assert.Equal(t, []float64{1, 2}, s.Closes())
	assert.Equal(t, 2, s.Len())

	assert.Equal(t, "ACME", TickerMatch{Symbol: "ACME"}.DisplayName())
	assert.Equal(t, "Acme Corp", TickerMatch{Symbol: "ACME", Name: "Acme Corp"}.DisplayName())
}
