package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"CompanyPulse/internal/model"
)

// Growth returns the percentage change of the close price over the last
// windowDays calendar days, rounded to 2 decimal places. It is NotAvailable
// when fewer than 2 points fall in the window or the start close is not
// positive.
func Growth(series model.PriceSeries, windowDays int) model.Percent {
	return growth(Normalize(series).Points, windowDays)
}

// GrowthTable computes Growth for each period, keeping the period order.
func GrowthTable(series model.PriceSeries, periods []model.GrowthPeriod) model.GrowthResult {
	points := Normalize(series).Points
	result := make(model.GrowthResult, 0, len(periods))
	for _, p := range periods {
		result = append(result, model.GrowthEntry{
			Label:  p.Label,
			Days:   p.Days,
			Growth: growth(points, p.Days),
		})
	}
	return result
}

// growth expects points already normalized.
func growth(points []model.PricePoint, windowDays int) model.Percent {
	if len(points) < 2 || windowDays < 0 {
		return model.NotAvailable
	}
	cutoff := points[len(points)-1].Date.AddDate(0, 0, -windowDays)
	start := sort.Search(len(points), func(i int) bool {
		return !points[i].Date.Before(cutoff)
	})
	window := points[start:]
	if len(window) < 2 {
		return model.NotAvailable
	}

	first, last := window[0].Close, window[len(window)-1].Close
	if !finite(first) || !finite(last) || first <= 0 {
		return model.NotAvailable
	}
	return model.PercentOf(round2((last - first) / first * 100))
}

func round2(v float64) float64 {
	if !finite(v) {
		return v
	}
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
