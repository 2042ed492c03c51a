package calculator

import (
	"math"
	"sort"
	"time"

	"CompanyPulse/internal/model"
)

// Normalize returns a copy of the series sorted by day with one point per
// day. Dates are truncated to midnight UTC of their calendar day; when a day
// repeats, the later point in input order wins.
func Normalize(series model.PriceSeries) model.PriceSeries {
	out := model.PriceSeries{Symbol: series.Symbol, Currency: series.Currency}
	if len(series.Points) == 0 {
		return out
	}

	points := make([]model.PricePoint, len(series.Points))
	copy(points, series.Points)
	for i := range points {
		points[i].Date = day(points[i].Date)
		if points[i].Currency == "" {
			points[i].Currency = series.Currency
		}
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })

	deduped := points[:0]
	for _, p := range points {
		if n := len(deduped); n > 0 && deduped[n-1].Date.Equal(p.Date) {
			deduped[n-1] = p
			continue
		}
		deduped = append(deduped, p)
	}
	out.Points = deduped
	return out
}

// DailyReturns computes close[i]/close[i-1] - 1 for i >= 1. Pairs with a
// non-positive or non-finite close are skipped.
func DailyReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		prev, cur := closes[i-1], closes[i]
		if !finite(prev) || !finite(cur) || prev <= 0 {
			continue
		}
		returns = append(returns, cur/prev-1)
	}
	return returns
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
