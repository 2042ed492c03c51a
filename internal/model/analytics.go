package model

import "time"

// GrowthPeriod is a named lookback window in calendar days.
type GrowthPeriod struct {
	Label string `yaml:"label" json:"label"`
	Days  int    `yaml:"days" json:"days"`
}

// DefaultGrowthPeriods is the period table used when none is configured.
var DefaultGrowthPeriods = []GrowthPeriod{
	{Label: "1 Day", Days: 1},
	{Label: "1 Month", Days: 30},
	{Label: "1 Year", Days: 365},
	{Label: "3 Years", Days: 3 * 365},
	{Label: "5 Years", Days: 5 * 365},
	{Label: "7 Years", Days: 7 * 365},
	{Label: "11 Years", Days: 11 * 365},
}

// GrowthEntry is the growth over one period.
type GrowthEntry struct {
	Label  string  `json:"label"`
	Days   int     `json:"days"`
	Growth Percent `json:"growth"`
}

// GrowthResult keeps the caller's period order.
type GrowthResult []GrowthEntry

// Lookup returns the growth for a label.
func (g GrowthResult) Lookup(label string) (Percent, bool) {
	for _, e := range g {
		if e.Label == label {
			return e.Growth, true
		}
	}
	return NotAvailable, false
}

// TrendLabel is the coarse one-year direction of a series.
type TrendLabel string

const (
	TrendUp           TrendLabel = "uptrend"
	TrendDown         TrendLabel = "downtrend"
	TrendSideways     TrendLabel = "sideways"
	TrendInsufficient TrendLabel = "insufficient_data"
)

// TrendSummary holds the return, volatility and direction of a series.
type TrendSummary struct {
	AverageAnnualReturn  Percent    `json:"average_annual_return"`
	AnnualizedVolatility Percent    `json:"annualized_volatility"`
	Label                TrendLabel `json:"trend_label"`
	Points               int        `json:"points"`
}

// Indicators are technical levels shown next to the trend.
type Indicators struct {
	MA200       Value `json:"ma200"`
	RSI14       Value `json:"rsi14"`
	High52w     Value `json:"high_52w"`
	Low52w      Value `json:"low_52w"`
	Position52w Value `json:"position_52w"` // 0.0 ~ 1.0
}

// Insights is everything gathered for one company lookup.
type Insights struct {
	Query       string       `json:"query"`
	Ticker      TickerMatch  `json:"ticker"`
	Quote       *Quote       `json:"quote,omitempty"`
	Growth      GrowthResult `json:"growth"`
	Trend       TrendSummary `json:"trend"`
	Indicators  Indicators   `json:"indicators"`
	News        RankedNews   `json:"news"`
	Series      PriceSeries  `json:"-"`
	Warnings    []string     `json:"warnings,omitempty"`
	GeneratedAt time.Time    `json:"generated_at"`
}

// Warn appends a user-visible warning.
func (in *Insights) Warn(msg string) {
	in.Warnings = append(in.Warnings, msg)
}
