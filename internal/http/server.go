// Package http serves the dashboard's JSON API: chart bundles plus
// the shared filter and highlight state.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"campfin/internal/filter"
	"campfin/internal/services"
)

type Server struct {
	http.Server
	charts      *services.ChartService
	coordinator *filter.Coordinator
	election    string
	limiter     *clickLimiter
	metrics     *securityMetrics

	// names hidden from every chart, shareable via URL
	excludedMu sync.Mutex
	excluded   []string

	shutdownOnce sync.Once
}

// NewServer configures routes, returning a ready-to-run http.Server.
func NewServer(addr string, charts *services.ChartService, coordinator *filter.Coordinator, election string) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		charts:      charts,
		coordinator: coordinator,
		election:    election,
		limiter:     newClickLimiter(),
		metrics:     &securityMetrics{},
	}

	mux.HandleFunc("/api/charts/", s.withAPIGuards(s.handleChart))
	mux.HandleFunc("/api/filters", s.withAPIGuards(s.handleFilterState))
	mux.HandleFunc("/api/filters/global", s.withAPIGuards(s.handleGlobalFilter))
	mux.HandleFunc("/api/filters/chart", s.withAPIGuards(s.handleChartFilter))
	mux.HandleFunc("/api/filters/hover", s.withAPIGuards(s.handleHover))
	mux.HandleFunc("/api/filters/excluded", s.withAPIGuards(s.handleExcluded))
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.limiter != nil {
			s.limiter.shutdown()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withAPIGuards adds rate limiting, security headers, and request
// logging to API handlers.
func (s *Server) withAPIGuards(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r)
		requestID := generateRequestID()

		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP)

		if detectSuspiciousRequest(r, s.metrics) {
			slog.WarnContext(ctx, "Suspicious request pattern",
				"request_id", requestID,
				"client_ip", clientIP,
				"url", r.URL.String())
		}

		// Mutating filter clicks are the only write path; limit those
		if r.Method == http.MethodPost && !s.limiter.allow(clientIP, s.metrics) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", clientIP)
	}
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
