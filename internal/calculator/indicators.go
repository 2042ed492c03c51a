package calculator

import (
	"CompanyPulse/internal/model"
)

// ComputeIndicators derives MA200, RSI14 and the 52-week range from a
// series. Indicators that need more history than available stay N/A.
func ComputeIndicators(series model.PriceSeries) model.Indicators {
	s := Normalize(series)
	closes := s.Closes()
	var ind model.Indicators

	if ma, err := SMA(closes, 200); err == nil {
		ind.MA200 = model.ValueOf(ma)
	}
	if rsi, err := RSI(closes, 14); err == nil {
		ind.RSI14 = model.ValueOf(rsi)
	}
	if h, l, err := HighLow(s.Points, TradingDaysPerYear); err == nil {
		ind.High52w = model.ValueOf(h)
		ind.Low52w = model.ValueOf(l)
		last, _ := s.Last()
		if pos, err := RangePosition(last.Close, h, l); err == nil {
			ind.Position52w = model.ValueOf(pos)
		}
	}
	return ind
}
