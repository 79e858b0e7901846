package handlers

import (
	"net/http"

	"github.com/ECdison6227/flashcraft/internal/config"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRoutes(r *mux.Router, cfg *config.Config, ph *ProxyHandler) {
	r.NotFoundHandler = http.HandlerFunc(notFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	r.HandleFunc("/healthz", HandleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api/").Subrouter()
	api.NotFoundHandler = http.HandlerFunc(notFound)
	api.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)
	api.Use(CORSMiddleware(cfg))
	api.HandleFunc("/gemini", ph.HandleGenerate).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/flashcraft/generate_deck", ph.HandleGenerateDeck).Methods(http.MethodPost, http.MethodOptions)
}
