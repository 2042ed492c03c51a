package chart

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"CompanyPulse/internal/model"
)

// Kind names a chart of an insights report.
type Kind string

const (
	KindPrice    Kind = "price"
	KindKeywords Kind = "keywords"
	KindDates    Kind = "dates"
)

// Kinds lists every chart kind in display order.
var Kinds = []Kind{KindPrice, KindKeywords, KindDates}

// ErrNotEnoughData is returned when there is nothing meaningful to plot.
var ErrNotEnoughData = errors.New("not enough data to chart")

var (
	indigo    = drawing.ColorFromHex("4b0082")
	lightGray = drawing.ColorFromHex("9ca3af")
)

// ParseKind validates a chart kind name.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown chart kind %q", s)
}

// Render draws one chart of the insights as PNG.
func Render(kind Kind, in *model.Insights) ([]byte, error) {
	switch kind {
	case KindPrice:
		return RenderPrice(in.Series, in.Ticker.DisplayName())
	case KindKeywords:
		return RenderKeywords(in.News.Keywords)
	case KindDates:
		return RenderDates(in.News.Dates)
	default:
		return nil, fmt.Errorf("unknown chart kind %q", kind)
	}
}

// RenderPrice renders the close price with a 50-day moving average.
func RenderPrice(series model.PriceSeries, title string) ([]byte, error) {
	if len(series.Points) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 price points, got %d", ErrNotEnoughData, len(series.Points))
	}

	xValues := make([]time.Time, len(series.Points))
	yValues := make([]float64, len(series.Points))
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, p := range series.Points {
		xValues[i] = p.Date
		yValues[i] = p.Close
		lo = math.Min(lo, p.Close)
		hi = math.Max(hi, p.Close)
	}

	closeSeries := chart.TimeSeries{
		Name: "Close",
		Style: chart.Style{
			StrokeColor: indigo,
			StrokeWidth: 1.5,
		},
		XValues: xValues,
		YValues: yValues,
	}
	smaSeries := &chart.SMASeries{
		Name: "SMA 50",
		Style: chart.Style{
			StrokeColor:     lightGray,
			StrokeWidth:     1.5,
			StrokeDashArray: []float64{5.0, 3.0},
		},
		InnerSeries: closeSeries,
		Period:      50,
	}

	currency := series.Currency
	graph := chart.Chart{
		Title:  title,
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 06")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			Range: paddedRange(lo, hi),
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.2f %s", f, currency)
				}
				return ""
			},
		},
		Series: []chart.Series{closeSeries, smaSeries},
	}
	graph.Elements = []chart.Renderable{chart.LegendLeft(&graph)}
	return render(&graph)
}

// RenderKeywords renders keyword counts as bars, most frequent first.
func RenderKeywords(freq model.KeywordFrequency) ([]byte, error) {
	counts := freq.Sorted()
	if len(counts) == 0 || counts[0].Count == 0 {
		return nil, fmt.Errorf("%w: no keyword matches", ErrNotEnoughData)
	}

	bars := make([]chart.Value, len(counts))
	maxCount := 0
	for i, c := range counts {
		bars[i] = chart.Value{
			Label: c.Keyword,
			Value: float64(c.Count),
			Style: chart.Style{FillColor: indigo, StrokeColor: indigo},
		}
		if c.Count > maxCount {
			maxCount = c.Count
		}
	}

	barWidth := 60
	if n := len(bars); n*(barWidth+10) > 800 {
		barWidth = max(10, 800/n-10)
	}

	graph := chart.BarChart{
		Title:    "Keyword Frequency in Headlines",
		Width:    900,
		Height:   400,
		BarWidth: barWidth,
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: float64(maxCount + 1)},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		Bars: bars,
	}
	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderDates renders the number of headlines per day, oldest first.
func RenderDates(freq model.DateFrequency) ([]byte, error) {
	var xValues []time.Time
	var yValues []float64
	maxCount := 0
	for _, d := range freq.Sorted() {
		t, err := time.Parse("2006-01-02", d.Day)
		if err != nil {
			continue
		}
		xValues = append(xValues, t)
		yValues = append(yValues, float64(d.Count))
		if d.Count > maxCount {
			maxCount = d.Count
		}
	}
	if len(xValues) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 days of news, got %d", ErrNotEnoughData, len(xValues))
	}

	graph := chart.Chart{
		Title:  "News Over Time",
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 02")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: float64(maxCount + 1)},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name: "Articles",
				Style: chart.Style{
					StrokeColor: indigo,
					StrokeWidth: 2,
					DotColor:    indigo,
					DotWidth:    4,
				},
				XValues: xValues,
				YValues: yValues,
			},
		},
	}
	return render(&graph)
}

func render(graph *chart.Chart) ([]byte, error) {
	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}

// paddedRange keeps a flat series from collapsing the axis.
func paddedRange(lo, hi float64) *chart.ContinuousRange {
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = math.Max(math.Abs(hi)*0.05, 1)
	}
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}
