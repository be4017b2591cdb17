package main

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/milk9111/fadingmemory/system"
)

type hudResponse struct {
	HUD system.HUD `json:"hud"`
	Run runStats   `json:"run"`
}

// newRouter exposes a running simulation. It starts no goroutines.
func newRouter(r *runner, m *system.Metrics) *chi.Mux {
	mux := chi.NewRouter()
	mux.Use(middleware.Recoverer)

	mux.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]string{"status": "ok"})
	})
	mux.Get("/hud", func(w http.ResponseWriter, _ *http.Request) {
		hud, stats := r.Snapshot()
		writeJSON(w, hudResponse{HUD: hud, Run: stats})
	})
	mux.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
	return mux
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}
