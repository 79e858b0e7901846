package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/ECdison6227/flashcraft/internal/quota"
)

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{Message: message}})
}

func writeRateLimited(w http.ResponseWriter, grant quota.Grant, message string) {
	w.Header().Set("Retry-After", strconv.Itoa(grant.RetryAfter))
	writeError(w, http.StatusTooManyRequests, message)
}

// setRateLimitHeaders exposes the consulted scope's budget and usage so
// clients can pace themselves without parsing error bodies.
func setRateLimitHeaders(w http.ResponseWriter, grant quota.Grant) {
	if grant.Model == "" {
		return
	}
	h := w.Header()
	h.Set("X-RateLimit-Scope", quota.ScopeFor(grant.Model))
	h.Set("X-RateLimit-RPD-Limit", strconv.Itoa(grant.RPD))
	h.Set("X-RateLimit-RPD-Used", strconv.Itoa(grant.DayUsed))
	h.Set("X-RateLimit-RPM-Limit", strconv.Itoa(grant.RPM))
	h.Set("X-RateLimit-RPM-Used", strconv.Itoa(grant.MinuteUsed))
}

// forwardResponse relays the upstream status and body unchanged. Only
// Content-Type is copied from the upstream headers; hop-by-hop and vendor
// headers are dropped, and the rate-limit headers are set locally before
// this runs.
func forwardResponse(w http.ResponseWriter, resp *http.Response) {
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.WriteHeader(resp.StatusCode)
	io.Copy(w, resp.Body)
}

func HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Not found")
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
}
