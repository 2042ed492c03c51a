package model

import "time"

// PricePoint is one daily bar of a price history.
type PricePoint struct {
	Date     time.Time `json:"date"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	Volume   float64   `json:"volume"`
	Currency string    `json:"currency,omitempty"`
}

// PriceSeries holds the daily history of one symbol.
// Points are expected in ascending date order with one point per day;
// calculator.Normalize enforces that before any computation.
type PriceSeries struct {
	Symbol   string       `json:"symbol"`
	Currency string       `json:"currency,omitempty"`
	Points   []PricePoint `json:"points"`
}

// Len returns the number of points.
func (s PriceSeries) Len() int { return len(s.Points) }

// Closes extracts the close prices in series order.
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Points))
	for i, p := range s.Points {
		closes[i] = p.Close
	}
	return closes
}

// Last returns the most recent point, if any.
func (s PriceSeries) Last() (PricePoint, bool) {
	if len(s.Points) == 0 {
		return PricePoint{}, false
	}
	return s.Points[len(s.Points)-1], true
}

// Quote is the latest traded price of a symbol.
type Quote struct {
	Symbol   string    `json:"symbol"`
	Price    float64   `json:"price"`
	Currency string    `json:"currency,omitempty"`
	Time     time.Time `json:"time"`
}

// TickerMatch is the best search hit for a free-text company name.
type TickerMatch struct {
	Symbol    string `json:"symbol"`
	Name      string `json:"name"`
	Exchange  string `json:"exchange,omitempty"`
	QuoteType string `json:"quote_type,omitempty"`
}

// DisplayName falls back to the symbol when the search hit carried no name.
func (t TickerMatch) DisplayName() string {
	if t.Name != "" {
		return t.Name
	}
	return t.Symbol
}
