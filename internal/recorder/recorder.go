package recorder

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"CompanyPulse/internal/collector"
	"CompanyPulse/internal/model"
)

// Lookup outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeInvalid  = "invalid"
	OutcomeNoTicker = "no_ticker"
	OutcomeError    = "error"
)

// OutcomeOf classifies a Collect error.
func OutcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, collector.ErrEmptyQuery):
		return OutcomeInvalid
	case errors.Is(err, collector.ErrTickerNotFound):
		return OutcomeNoTicker
	default:
		return OutcomeError
	}
}

// LookupEvent is one company lookup, from any surface.
type LookupEvent struct {
	RequestID  string    `json:"request_id"`
	Time       time.Time `json:"time"`
	Source     string    `json:"source"` // "cli", "telegram", "http", "digest"
	Query      string    `json:"query"`
	Symbol     string    `json:"symbol,omitempty"`
	Price      float64   `json:"price,omitempty"`
	Growth1Y   *float64  `json:"growth_1y,omitempty"`
	TrendLabel string    `json:"trend_label,omitempty"`
	Volatility *float64  `json:"volatility,omitempty"`
	Headlines  int       `json:"headlines"`
	Warnings   int       `json:"warnings"`
	Outcome    string    `json:"outcome"`
}

// NewLookupEvent builds an event from a lookup result. requestID may be
// empty, in which case a new one is generated.
func NewLookupEvent(requestID, source, query string, in *model.Insights, outcome string) *LookupEvent {
	if requestID == "" {
		requestID = uuid.NewString()
	}
	evt := &LookupEvent{
		RequestID: requestID,
		Time:      time.Now().UTC(),
		Source:    source,
		Query:     query,
		Outcome:   outcome,
	}
	if in == nil {
		return evt
	}
	evt.Symbol = in.Ticker.Symbol
	if in.Quote != nil {
		evt.Price = in.Quote.Price
	}
	if g, ok := in.Growth.Lookup("1 Year"); ok && g.Available {
		v := g.Value
		evt.Growth1Y = &v
	}
	evt.TrendLabel = string(in.Trend.Label)
	if in.Trend.AnnualizedVolatility.Available {
		v := in.Trend.AnnualizedVolatility.Value
		evt.Volatility = &v
	}
	evt.Headlines = len(in.News.Headlines)
	evt.Warnings = len(in.Warnings)
	return evt
}

// Recorder persists the lookup audit log.
type Recorder interface {
	RecordLookup(evt *LookupEvent) error
	// RecentLookups returns up to limit events, newest first.
	RecentLookups(limit int) ([]LookupEvent, error)
	Close() error
}
