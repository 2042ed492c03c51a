package calculator

import (
	"time"

	"CompanyPulse/internal/model"
)

var day0 = time.Date(2022, 1, 3, 0, 0, 0, 0, time.UTC)

// dailySeries builds one point per calendar day starting at start.
func dailySeries(start time.Time, closes ...float64) model.PriceSeries {
	s := model.PriceSeries{Symbol: "TEST", Currency: "USD"}
	for i, c := range closes {
		s.Points = append(s.Points, model.PricePoint{
			Date:  start.AddDate(0, 0, i),
			Open:  c,
			High:  c * 1.01,
			Low:   c * 0.99,
			Close: c,
		})
	}
	return s
}

func ramp(n int, from, step float64) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = from + float64(i)*step
	}
	return closes
}
