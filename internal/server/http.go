package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"TankDuel/internal/storage"
)

/* ------------------------------- HTTP ------------------------------- */

func (a *app) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/matches", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, matchListDTO{Matches: a.hub.Summaries()})
	})
	mux.HandleFunc("/results", a.serveResults)
	mux.HandleFunc("/ws", a.serveWS)
	return mux
}

func (a *app) serveResults(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}
	rows, err := a.store.Recent(r.Context(), limit)
	if err != nil {
		a.log.Error().Err(err).Msg("listing results")
		http.Error(w, "results unavailable", http.StatusInternalServerError)
		return
	}
	if rows == nil {
		rows = []storage.MatchResult{}
	}
	writeJSON(w, resultsDTO{Results: rows})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
