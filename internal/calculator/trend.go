package calculator

import (
	"math"

	"CompanyPulse/internal/model"
)

// TradingDaysPerYear is the one-year lookback of the trend label and the
// annualization factor of volatility.
const TradingDaysPerYear = 252

// Summarize computes the average annual return, annualized volatility and
// one-year trend label of a series.
func Summarize(series model.PriceSeries) model.TrendSummary {
	s := Normalize(series)
	closes := s.Closes()
	return model.TrendSummary{
		AverageAnnualReturn:  AverageAnnualReturn(s),
		AnnualizedVolatility: AnnualizedVolatility(DailyReturns(closes)),
		Label:                Trend(closes),
		Points:               len(closes),
	}
}

// AverageAnnualReturn is the mean of the year-over-year percentage changes
// of each calendar year's last close. Years are not compounded. Requires a
// normalized series with at least two distinct years.
func AverageAnnualReturn(series model.PriceSeries) model.Percent {
	var yearEnds []float64
	lastYear := 0
	for _, p := range series.Points {
		y := p.Date.Year()
		if len(yearEnds) > 0 && y == lastYear {
			yearEnds[len(yearEnds)-1] = p.Close
			continue
		}
		yearEnds = append(yearEnds, p.Close)
		lastYear = y
	}
	if len(yearEnds) < 2 {
		return model.NotAvailable
	}

	var sum float64
	var n int
	for i := 1; i < len(yearEnds); i++ {
		prev, cur := yearEnds[i-1], yearEnds[i]
		if !finite(prev) || !finite(cur) || prev <= 0 {
			continue
		}
		sum += (cur/prev - 1) * 100
		n++
	}
	if n == 0 {
		return model.NotAvailable
	}
	return model.PercentOf(sum / float64(n))
}

// AnnualizedVolatility is the sample standard deviation of daily returns
// scaled by sqrt(252), in percent.
func AnnualizedVolatility(returns []float64) model.Percent {
	sd, ok := sampleStdDev(returns)
	if !ok {
		return model.NotAvailable
	}
	return model.PercentOf(sd * math.Sqrt(TradingDaysPerYear) * 100)
}

// Trend compares the last close with the close 252 entries earlier.
func Trend(closes []float64) model.TrendLabel {
	n := len(closes)
	if n <= TradingDaysPerYear {
		return model.TrendInsufficient
	}
	last, past := closes[n-1], closes[n-1-TradingDaysPerYear]
	if !finite(last) || !finite(past) {
		return model.TrendInsufficient
	}
	switch {
	case last > past:
		return model.TrendUp
	case last < past:
		return model.TrendDown
	default:
		return model.TrendSideways
	}
}

func sampleStdDev(xs []float64) (float64, bool) {
	if len(xs) < 2 {
		return 0, false
	}
	var mean float64
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))

	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1)), true
}
