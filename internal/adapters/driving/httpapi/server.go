// Package httpapi exposes the document QA service over HTTP.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Config assembles an HTTP server.
type Config struct {
	// Addr is the listen address.
	Addr string

	// AnswerRateLimit caps requests per second on the answer endpoint.
	// Zero or negative disables the limit.
	AnswerRateLimit float64

	Uploads driving.UploadService
	Answers driving.AnswerService
	Metrics driving.MetricsService
}

// Server serves the upload, answer and metrics endpoints.
type Server struct {
	uploads driving.UploadService
	answers driving.AnswerService
	metrics driving.MetricsService

	limiter *rate.Limiter
	httpSrv *http.Server
}

// NewServer creates the HTTP server. It does not start listening.
func NewServer(cfg Config) *Server {
	s := &Server{
		uploads: cfg.Uploads,
		answers: cfg.Answers,
		metrics: cfg.Metrics,
	}
	if cfg.AnswerRateLimit > 0 {
		// Global limiter with a burst of one second's worth of requests.
		burst := int(cfg.AnswerRateLimit)
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.AnswerRateLimit), burst)
	}

	s.httpSrv = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routed handler with middleware applied.
// Exposed separately so tests can drive it through httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /files/upload", s.handleUpload)
	mux.HandleFunc("POST /qa/answer", s.handleAnswer)
	mux.HandleFunc("GET /qa/metrics", s.handleMetrics)
	mux.HandleFunc("GET /health", s.handleHealth)

	return logRequests(mux)
}

// ListenAndServe starts serving and blocks until the server stops.
func (s *Server) ListenAndServe() error {
	logger.Info("http server listening on %s", s.httpSrv.Addr)
	return s.httpSrv.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

// statusWriter records the response status for the request log.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// logRequests logs every request with its status and duration.
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		logger.Info("%s %s -> %d (%s)", r.Method, r.URL.Path, sw.status, time.Since(start).Round(time.Millisecond))
	})
}
