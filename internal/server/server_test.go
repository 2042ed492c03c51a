package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CompanyPulse/internal/collector"
	"CompanyPulse/internal/model"
	"CompanyPulse/internal/ranker"
	"CompanyPulse/internal/recorder"
)

// stubLookup runs a real collector over mock sources and remembers the
// request IDs it was given.
type stubLookup struct {
	col        *collector.Collector
	requestIDs []string
}

func (s *stubLookup) Lookup(ctx context.Context, source, requestID, query string) (*model.Insights, error) {
	s.requestIDs = append(s.requestIDs, requestID)
	return s.col.Collect(ctx, query)
}

type stubRecorder struct {
	recorder.NoopRecorder
	events []recorder.LookupEvent
	limits []int
}

func (r *stubRecorder) RecentLookups(limit int) ([]recorder.LookupEvent, error) {
	r.limits = append(r.limits, limit)
	return r.events, nil
}

func newTestServer(t *testing.T, market *collector.MockMarket, news *collector.MockNews) (*Server, *stubLookup, *stubRecorder) {
	t.Helper()
	if market == nil {
		market = &collector.MockMarket{}
	}
	if news == nil {
		news = &collector.MockNews{Headlines: []model.Headline{
			{Title: "Acme growth beats estimates", Published: "2025-03-10T10:00:00Z"},
			{Title: "Acme growth slows", Published: "2025-03-09T10:00:00Z"},
		}}
	}
	lookup := &stubLookup{col: collector.NewCollector(market, news, nil, ranker.Options{Keywords: []string{"growth"}})}
	rec := &stubRecorder{}
	return New("127.0.0.1:0", lookup, rec), lookup, rec
}

func get(t *testing.T, s *Server, target string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var e errorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &e))
	return e
}

func TestHealthz(t *testing.T) {
	s, _, _ := newTestServer(t, nil, nil)
	rr := get(t, s, "/healthz")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
	assert.Len(t, rr.Header().Get("X-Request-ID"), 36)
}

func TestInsights_OK(t *testing.T) {
	s, lookup, _ := newTestServer(t, &collector.MockMarket{Match: model.TickerMatch{Symbol: "ACME", Name: "Acme Corp"}}, nil)
	rr := get(t, s, "/api/v1/insights?q=Acme", "X-Request-ID", "abc-123")

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Equal(t, "abc-123", rr.Header().Get("X-Request-ID"))
	assert.Equal(t, []string{"abc-123"}, lookup.requestIDs)

	var body struct {
		Query  string `json:"query"`
		Ticker struct {
			Symbol string `json:"symbol"`
		} `json:"ticker"`
		Growth []struct {
			Label  string   `json:"label"`
			Growth *float64 `json:"growth"`
		} `json:"growth"`
		Trend struct {
			Label string `json:"trend_label"`
		} `json:"trend"`
		News struct {
			Headlines []model.Headline `json:"headlines"`
			Keywords  map[string]int   `json:"keywords"`
		} `json:"news"`
		Series any `json:"series"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "Acme", body.Query)
	assert.Equal(t, "ACME", body.Ticker.Symbol)
	require.Len(t, body.Growth, len(model.DefaultGrowthPeriods))
	assert.Equal(t, "1 Day", body.Growth[0].Label)
	assert.NotNil(t, body.Growth[0].Growth)
	assert.Nil(t, body.Growth[len(body.Growth)-1].Growth, "11 years is beyond the mock history")
	assert.NotEmpty(t, body.Trend.Label)
	assert.Len(t, body.News.Headlines, 2)
	assert.Equal(t, 2, body.News.Keywords["growth"])
	assert.Nil(t, body.Series)
}

func TestInsights_Errors(t *testing.T) {
	tests := []struct {
		name   string
		market *collector.MockMarket
		target string
		status int
	}{
		{"missing q", nil, "/api/v1/insights", http.StatusBadRequest},
		{"blank q", nil, "/api/v1/insights?q=%20%20", http.StatusBadRequest},
		{"unknown ticker", &collector.MockMarket{SearchErr: fmt.Errorf("%w for %q", collector.ErrTickerNotFound, "x")}, "/api/v1/insights?q=x", http.StatusNotFound},
		{"search down", &collector.MockMarket{SearchErr: collector.ErrUpstreamUnavailable}, "/api/v1/insights?q=x", http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, _ := newTestServer(t, tt.market, nil)
			rr := get(t, s, tt.target)
			assert.Equal(t, tt.status, rr.Code)
			e := decodeError(t, rr)
			assert.NotEmpty(t, e.Error)
			assert.Equal(t, rr.Header().Get("X-Request-ID"), e.RequestID)
		})
	}
}

func TestInsights_PartialDataIsOK(t *testing.T) {
	s, _, _ := newTestServer(t, &collector.MockMarket{QuoteErr: collector.ErrUpstreamUnavailable}, &collector.MockNews{Err: collector.ErrUpstreamUnavailable})
	rr := get(t, s, "/api/v1/insights?q=Acme")
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Warnings []string `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, []string{collector.WarnNoQuote, collector.WarnNoNews}, body.Warnings)
}

func TestChart(t *testing.T) {
	s, _, _ := newTestServer(t, nil, nil)
	for _, kind := range []string{"price", "keywords", "dates"} {
		rr := get(t, s, "/api/v1/charts/"+kind+".png?q=Acme")
		require.Equal(t, http.StatusOK, rr.Code, kind)
		assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
		assert.True(t, strings.HasPrefix(rr.Body.String(), "\x89PNG"), kind)
	}
}

func TestChart_Errors(t *testing.T) {
	s, _, _ := newTestServer(t, nil, &collector.MockNews{Headlines: []model.Headline{{Title: "Acme quiet", Published: "2025-03-10"}}})

	assert.Equal(t, http.StatusNotFound, get(t, s, "/api/v1/charts/bogus.png?q=Acme").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, s, "/api/v1/charts/price.png").Code)
	assert.Equal(t, http.StatusUnprocessableEntity, get(t, s, "/api/v1/charts/keywords.png?q=Acme").Code)
	assert.Equal(t, http.StatusUnprocessableEntity, get(t, s, "/api/v1/charts/dates.png?q=Acme").Code)
}

func TestLookups(t *testing.T) {
	s, _, rec := newTestServer(t, nil, nil)

	rr := get(t, s, "/api/v1/lookups")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"lookups":[]}`, rr.Body.String())

	rec.events = []recorder.LookupEvent{{RequestID: "r1", Query: "acme", Source: "http", Outcome: recorder.OutcomeOK}}
	rr = get(t, s, "/api/v1/lookups?limit=1000")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"request_id":"r1"`)
	assert.Equal(t, []int{20, maxLookupsLimit}, rec.limits)

	assert.Equal(t, http.StatusBadRequest, get(t, s, "/api/v1/lookups?limit=zero").Code)
}

func TestMetricsAndNotFound(t *testing.T) {
	s, _, _ := newTestServer(t, nil, nil)
	get(t, s, "/healthz")

	rr := get(t, s, "/metrics")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "pulse_http_requests_total")

	rr = get(t, s, "/nope")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "not found", decodeError(t, rr).Error)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}
