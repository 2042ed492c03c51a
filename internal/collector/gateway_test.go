package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGatewayServer(t *testing.T) *GatewayFetcher {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/search", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "Acme" {
			w.Write([]byte(`[{"symbol":"ACME","name":"Acme Corporation","exchange":"NYSE","type":"EQUITY"}]`))
			return
		}
		w.Write([]byte(`[]`))
	})
	mux.HandleFunc("/api/v1/bars/daily", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("symbol") != "ACME" {
			w.Write([]byte(`{"bars":[]}`))
			return
		}
		w.Write([]byte(`{"symbol":"ACME","currency":"EUR","bars":[
			{"timestamp":1704326400,"open":1,"high":2,"low":1,"close":2,"volume":10},
			{"timestamp":1704240000,"open":1,"high":1,"low":1,"close":1,"volume":10}]}`))
	})
	mux.HandleFunc("/api/v1/quote", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"price":2.5,"currency":"EUR","timestamp":1704326400}`))
	})
	secured := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		mux.ServeHTTP(w, r)
	})
	srv := httptest.NewServer(secured)
	t.Cleanup(srv.Close)
	return NewGatewayFetcher(srv.URL, "secret", "", 0)
}

func TestGateway_RoundTrip(t *testing.T) {
	f := newGatewayServer(t)
	ctx := context.Background()

	m, err := f.SearchTicker(ctx, "Acme")
	require.NoError(t, err)
	assert.Equal(t, "ACME", m.Symbol)
	assert.Equal(t, "EQUITY", m.QuoteType)

	_, err = f.SearchTicker(ctx, "Globex")
	assert.ErrorIs(t, err, ErrTickerNotFound)

	s, err := f.FetchHistory(ctx, "ACME")
	require.NoError(t, err)
	require.Len(t, s.Points, 2)
	assert.Equal(t, 1.0, s.Points[0].Close)
	assert.Equal(t, "EUR", s.Currency)

	_, err = f.FetchHistory(ctx, "NONE")
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)

	q, err := f.FetchQuote(ctx, "ACME")
	require.NoError(t, err)
	assert.Equal(t, 2.5, q.Price)
}

func TestGateway_Unauthorized(t *testing.T) {
	f := newGatewayServer(t)
	f.APIKey = "wrong"
	_, err := f.FetchQuote(context.Background(), "ACME")
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
	assert.ErrorContains(t, err, "401")
}
