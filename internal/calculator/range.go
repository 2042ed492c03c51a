package calculator

import (
	"errors"
	"math"

	"CompanyPulse/internal/model"
)

// HighLow scans the most recent lookback points and returns the highest high
// and lowest low.
func HighLow(points []model.PricePoint, lookback int) (high, low float64, err error) {
	if len(points) == 0 {
		return 0, 0, errors.New("no points provided")
	}
	start := len(points) - lookback
	if start < 0 || lookback <= 0 {
		start = 0
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, p := range points[start:] {
		if p.High > high {
			high = p.High
		}
		if p.Low < low {
			low = p.Low
		}
	}
	return high, low, nil
}

// RangePosition returns where price sits within [low, high] (0.0~1.0).
func RangePosition(price, high, low float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	pos := (price - low) / (high - low)
	return math.Max(0, math.Min(1, pos)), nil
}
