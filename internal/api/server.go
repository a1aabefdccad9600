// Package api provides the HTTP API the chart front-end reads from.
// GET endpoints evaluate the calculator on each request and are public.
// Snapshot writes require a bearer token and are rate limited.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/talgya/fi-verse/internal/fqcd"
	"github.com/talgya/fi-verse/internal/persistence"
)

// Server serves calculator output over HTTP.
type Server struct {
	Calc        *fqcd.Calculator
	DB          *persistence.DB // Snapshot store. Nil = snapshot endpoints return 503.
	Port        int
	AdminKey    string   // Bearer token for snapshot writes. Empty = writes disabled.
	CORSOrigins []string // Allowed in addition to the localhost dev servers.
	RateLimit   int      // Snapshot writes per IP per hour.
	Version     string

	// TrustedProxies lists peer addresses whose X-Forwarded-For header is
	// believed. Every other request is keyed on its remote address.
	TrustedProxies []string

	startedAt time.Time
	limiter   *RateLimiter
	proxies   map[string]bool
	initOnce  sync.Once
	http      *http.Server
}

func (s *Server) init() {
	s.initOnce.Do(func() {
		s.startedAt = time.Now()
		rate := s.RateLimit
		if rate <= 0 {
			rate = 30
		}
		s.limiter = NewRateLimiter(rate, time.Hour)
		s.proxies = make(map[string]bool, len(s.TrustedProxies))
		for _, p := range s.TrustedProxies {
			s.proxies[strings.TrimSpace(p)] = true
		}
	})
}

// Handler returns the routed handler with CORS and compression applied.
func (s *Server) Handler() http.Handler {
	s.init()

	mux := http.NewServeMux()

	// Public endpoints. Read-only; every request is a fresh evaluation.
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/constants", s.handleConstants)
	mux.HandleFunc("/api/v1/omega", s.handleOmega)
	mux.HandleFunc("/api/v1/phi", s.handlePhi)
	mux.HandleFunc("/api/v1/rotation", s.handleRotation)
	mux.HandleFunc("/api/v1/rotation/curve", s.handleRotationCurve)
	mux.HandleFunc("/api/v1/hubble", s.handleHubble)
	mux.HandleFunc("/api/v1/hubble/series", s.handleHubbleSeries)
	mux.HandleFunc("/api/v1/comparison", s.handleComparison)
	mux.HandleFunc("/api/v1/tension", s.handleTension)

	// Snapshot store (GET public, POST/DELETE require bearer token).
	mux.HandleFunc("/api/v1/snapshots", s.handleSnapshots)
	mux.HandleFunc("/api/v1/snapshot/", s.handleSnapshotDetail)

	return corsMiddleware(s.CORSOrigins, brotliMiddleware(mux))
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	addr := fmt.Sprintf(":%d", s.Port)
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "", "snapshots", s.DB != nil)

	go func() {
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.limiter != nil {
		s.limiter.Close()
	}
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Localhost dev servers are always allowed.
func corsMiddleware(extra []string, next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:4173": true,
		"http://localhost:3000": true,
	}
	for _, origin := range extra {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			allowedOrigins[origin] = true
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// checkBearerToken returns true if the request has a valid admin bearer token.
func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

// adminOnly wraps a handler to require bearer token auth.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.AdminKey == "" {
			writeError(w, http.StatusForbidden, "admin endpoints disabled (no admin key set)")
			return
		}
		if !s.checkBearerToken(r) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, data any) {
	writeJSONStatus(w, http.StatusOK, data)
}

// writeJSONStatus encodes before writing the header; a value that cannot be
// encoded is answered with a 500.
func writeJSONStatus(w http.ResponseWriter, status int, data any) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		slog.Error("encoding response", "error", err)
		buf.Reset()
		buf.WriteString(`{"error":"internal error"}` + "\n")
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSONStatus(w, status, map[string]string{"error": msg})
}

// writeErr maps domain errors onto status codes.
func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, fqcd.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, persistence.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		slog.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func allowMethods(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	w.Header().Set("Allow", strings.Join(methods, ", "))
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	return false
}
