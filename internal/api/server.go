// Package api exposes the analyzer over HTTP: submit a URL, poll the
// job, stream job updates, and inspect the brand table.
package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/scamlens/scamlens/internal/analysis"
	"github.com/scamlens/scamlens/internal/api/middleware"
	"github.com/scamlens/scamlens/internal/brand"
	serrors "github.com/scamlens/scamlens/internal/shared/errors"
)

// AnalyzeRequest is the submit payload.
type AnalyzeRequest struct {
	URL string `json:"url"`
}

// AnalyzerService starts analyses. Implemented by analysis.Coordinator.
type AnalyzerService interface {
	Submit(ctx context.Context, rawURL string) (*analysis.Job, error)
}

// JobStore serves job state for polling. Implemented by analysis.Manager.
type JobStore interface {
	Get(id string) (*analysis.Job, error)
	List(limit int) []analysis.Job
	Subscribe() (chan analysis.Job, func())
}

// Config wires a Server.
type Config struct {
	Analyzer    AnalyzerService
	Jobs        JobStore
	Brands      *brand.Table
	AuthToken   string
	Logger      *zap.Logger
	CORSOrigins []string // empty = allow all
	RateLimit   int      // requests per second per IP, 0 = disabled
	RateBurst   int
}

// Server is the HTTP front for the analyzer. Requests pass through
// RequestID -> Logging -> RateLimit -> CORS before reaching a handler;
// auth is applied per route.
type Server struct {
	cfg      Config
	mux      *http.ServeMux
	limiters *limiterMap
}

func NewServer(cfg Config) *Server {
	srv := &Server{
		cfg:      cfg,
		mux:      http.NewServeMux(),
		limiters: newLimiterMap(),
	}
	srv.routes()
	return srv
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	handler := middleware.RequestID(s.withLogging(s.withRateLimit(s.withCORS(s.mux))))
	handler.ServeHTTP(w, r)
}

func (s *Server) routes() {
	// Versioned routes are primary; bare /api aliases match what the
	// front end already calls.
	for _, prefix := range []string{"/api/v1", "/api"} {
		s.mux.Handle(prefix+"/health", http.HandlerFunc(s.handleHealth))
		s.mux.Handle(prefix+"/analyze", s.withAuth(http.HandlerFunc(s.handleAnalyze)))
		s.mux.Handle(prefix+"/status/", s.withAuth(http.HandlerFunc(s.handleStatus)))
		s.mux.Handle(prefix+"/jobs", s.withAuth(http.HandlerFunc(s.handleJobs)))
		s.mux.Handle(prefix+"/jobs-stream", s.withAuth(http.HandlerFunc(s.handleJobStream)))
		s.mux.Handle(prefix+"/brands", s.withAuth(http.HandlerFunc(s.handleBrands)))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w, r)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	job, err := s.cfg.Analyzer.Submit(r.Context(), req.URL)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusAccepted, job)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, r)
		return
	}
	id := pathSuffix(r.URL.Path, "/status/")
	if id == "" {
		s.writeError(w, r, http.StatusNotFound, errors.New("job ID required"))
		return
	}
	job, err := s.cfg.Jobs.Get(id)
	if err != nil {
		if errors.Is(err, serrors.ErrJobNotFound) {
			s.writeError(w, r, http.StatusNotFound, err)
			return
		}
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, job.StatusPayload())
}

func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, r)
		return
	}
	limit := 25
	if q := r.URL.Query().Get("limit"); q != "" {
		if parsed, err := strconv.Atoi(q); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	writeJSON(w, http.StatusOK, s.cfg.Jobs.List(limit))
}

func (s *Server) handleJobStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, r, http.StatusInternalServerError, errors.New("streaming unsupported"))
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	updates, unsubscribe := s.cfg.Jobs.Subscribe()
	defer unsubscribe()

	ctx := r.Context()
	for {
		select {
		case job, open := <-updates:
			if !open {
				return
			}
			payload, err := json.Marshal(job)
			if err != nil {
				s.requestLogger(r).Error("marshal job update", zap.Error(err))
				continue
			}
			if _, err := w.Write([]byte("event: job\ndata: ")); err != nil {
				return
			}
			if _, err := w.Write(payload); err != nil {
				return
			}
			if _, err := w.Write([]byte("\n\n")); err != nil {
				return
			}
			flusher.Flush()
		case <-ctx.Done():
			return
		}
	}
}

func (s *Server) handleBrands(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, r)
		return
	}
	table := s.cfg.Brands
	if table == nil {
		table = brand.DefaultTable()
	}
	writeJSON(w, http.StatusOK, table.Brands())
}

func (s *Server) withAuth(next http.Handler) http.Handler {
	if s.cfg.AuthToken == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("X-Auth-Token")
		if subtle.ConstantTimeCompare([]byte(token), []byte(s.cfg.AuthToken)) != 1 {
			s.writeError(w, r, http.StatusUnauthorized, errors.New("unauthorized"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		allowOrigin := "*"
		if len(s.cfg.CORSOrigins) > 0 {
			allowOrigin = ""
			for _, allowed := range s.cfg.CORSOrigins {
				if allowed == origin {
					allowOrigin = origin
					break
				}
			}
		}
		if allowOrigin != "" {
			w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Auth-Token")
			w.Header().Set("Access-Control-Max-Age", "3600")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.RateLimit <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		ip := clientIP(r)
		limiter := s.limiters.get(ip, s.cfg.RateLimit, s.cfg.RateBurst)
		if !limiter.Allow() {
			s.requestLogger(r).Warn("rate_limit_exceeded", zap.String("client_ip", ip))
			s.writeError(w, r, http.StatusTooManyRequests, errors.New("rate limit exceeded"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(lrw, r)

		if s.cfg.Logger != nil {
			s.cfg.Logger.Info("http_request",
				zap.String("request_id", middleware.GetRequestID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
				zap.Int("status", lrw.statusCode),
				zap.Duration("duration", time.Since(start)),
				zap.Int64("bytes", lrw.bytesWritten),
			)
		}
	})
}

// clientIP extracts the caller's IP, honoring the first hop of
// X-Forwarded-For and stripping any port.
func clientIP(r *http.Request) string {
	ip := r.RemoteAddr
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		ip = forwarded
		if idx := strings.Index(forwarded, ","); idx > 0 {
			ip = forwarded[:idx]
		}
		ip = strings.TrimSpace(ip)
	}
	if idx := strings.LastIndex(ip, ":"); idx > 0 {
		ip = ip[:idx]
	}
	return ip
}

// pathSuffix returns the path segment after marker, for both versioned
// and bare /api routes.
func pathSuffix(path, marker string) string {
	idx := strings.Index(path, marker)
	if idx < 0 {
		return ""
	}
	return strings.Trim(path[idx+len(marker):], "/")
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int64
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	n, err := lrw.ResponseWriter.Write(b)
	lrw.bytesWritten += int64(n)
	return n, err
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError sanitizes 5xx messages; details stay in the server log.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	msg := err.Error()
	if status >= 500 {
		s.requestLogger(r).Error("internal_server_error", zap.Error(err), zap.Int("status", status))
		msg = "internal server error"
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) requestLogger(r *http.Request) *zap.Logger {
	if s.cfg.Logger == nil {
		return zap.NewNop()
	}
	return s.cfg.Logger.With(
		zap.String("request_id", middleware.GetRequestID(r.Context())),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)
}

func (s *Server) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, r, http.StatusMethodNotAllowed, errors.New("method not allowed"))
}

// limiterMap tracks one token bucket per client IP, pruning idle
// entries in the background.
type limiterMap struct {
	mu       sync.Mutex
	limiters map[string]*ipLimiter
}

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newLimiterMap() *limiterMap {
	m := &limiterMap{limiters: make(map[string]*ipLimiter)}
	go m.cleanupLoop()
	return m
}

func (m *limiterMap) get(ip string, rps, burst int) *rate.Limiter {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.limiters[ip]
	if !ok {
		entry = &ipLimiter{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
		m.limiters[ip] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter
}

func (m *limiterMap) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		m.mu.Lock()
		for ip, entry := range m.limiters {
			if time.Since(entry.lastSeen) > 5*time.Minute {
				delete(m.limiters, ip)
			}
		}
		m.mu.Unlock()
	}
}
