package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"CompanyPulse/internal/chart"
	"CompanyPulse/internal/collector"
	"CompanyPulse/internal/recorder"
)

const maxLookupsLimit = 200

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error(), RequestID: RequestID(r.Context())})
}

// lookupStatus maps a Collect error to an HTTP status.
func lookupStatus(err error) int {
	switch {
	case errors.Is(err, collector.ErrEmptyQuery):
		return http.StatusBadRequest
	case errors.Is(err, collector.ErrTickerNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	in, err := s.lookup.Lookup(r.Context(), "http", RequestID(r.Context()), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, lookupStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, in)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	kind, err := chart.ParseKind(mux.Vars(r)["kind"])
	if err != nil {
		writeError(w, r, http.StatusNotFound, err)
		return
	}
	in, err := s.lookup.Lookup(r.Context(), "http", RequestID(r.Context()), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, lookupStatus(err), err)
		return
	}
	png, err := chart.Render(kind, in)
	switch {
	case errors.Is(err, chart.ErrNotEnoughData):
		writeError(w, r, http.StatusUnprocessableEntity, err)
		return
	case err != nil:
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func (s *Server) handleLookups(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, r, http.StatusBadRequest, errors.New("limit must be a positive integer"))
			return
		}
		limit = min(n, maxLookupsLimit)
	}
	events, err := s.recorder.RecentLookups(limit)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	if events == nil {
		events = []recorder.LookupEvent{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"lookups": events})
}
