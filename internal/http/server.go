// Package http exposes the ledger over a small JSON API: the UI layer
// posts transcripts and renders the resulting state.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"fareledger/internal/cache"
	"fareledger/internal/core"
	"fareledger/internal/ledger"
	"fareledger/internal/log"
	"fareledger/internal/voice"
)

type Server struct {
	http.Server
	interp      *voice.Interpreter
	store       ledger.Store
	rateLimiter *rateLimiter

	// Day summaries are cheap to recompute but hit the store; a short TTL
	// cache absorbs the UI polling them. Purged on every commit.
	summaryCache *cache.LRU[core.DaySummary]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, interp *voice.Interpreter, store ledger.Store) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		interp:       interp,
		store:        store,
		rateLimiter:  newRateLimiter(),
		summaryCache: cache.NewLRU[core.DaySummary](64, time.Minute),
		cacheManager: cache.NewManager(),
	}

	s.cacheManager.Register(s.summaryCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	// Commits also happen off-request (wait-window timer, shutdown flush,
	// AMQP transcript session), so the purge hangs off the interpreter's
	// commit hook rather than the transcript handler.
	interp.OnCommit(func(core.LedgerEntry) {
		s.summaryCache.Purge()
	})

	mux.HandleFunc("/api/transcript", s.withMiddleware(s.handleTranscript))
	mux.HandleFunc("/api/revenue", s.withMiddleware(s.handleListRevenue))
	mux.HandleFunc("/api/revenue/total", s.withMiddleware(s.handleRevenueTotal))
	mux.HandleFunc("/api/expenses", s.withMiddleware(s.handleListExpenses))
	mux.HandleFunc("/api/expenses/total", s.withMiddleware(s.handleExpensesTotal))
	mux.HandleFunc("/api/summary", s.withMiddleware(s.handleSummary))
	mux.HandleFunc("/healthz", s.handleHealth)

	return s
}

// Shutdown stops the cleanup goroutines, flushes any pending entry and then
// shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.stop()
		s.interp.Close()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withMiddleware applies, outside in: request id + logging, security
// headers, rate limiting.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return s.withRequestLog(s.withSecurityHeaders(s.withRateLimit(next)))
}

func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Cache-Control", "no-store")
		next(w, r)
	}
}

func (s *Server) withRateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := extractClientIP(r)
		if !s.rateLimiter.allow(ip) {
			slog.WarnContext(r.Context(), "rate limit exceeded",
				log.FieldClientIP, ip,
				log.FieldPath, r.URL.Path)
			writeError(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next(w, r)
	}
}

func (s *Server) withRequestLog(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := generateRequestID()
		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next(rw, r)

		slog.InfoContext(r.Context(), "request handled",
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldStatusCode, rw.status,
			log.FieldDuration, time.Since(start).Milliseconds())
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Simple in-memory per-IP rate limiter: 60 requests per minute.
type rateLimiter struct {
	mu           sync.Mutex
	clients      map[string]*clientInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientInfo struct {
	lastRequest time.Time
	requests    int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		clients:     make(map[string]*clientInfo),
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.clients[clientIP]
	if !exists {
		rl.clients[clientIP] = &clientInfo{lastRequest: now, requests: 1}
		return true
	}

	if now.Sub(client.lastRequest) > time.Minute {
		client.requests = 1
		client.lastRequest = now
		return true
	}

	client.requests++
	client.lastRequest = now
	return client.requests <= 60
}

func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *rateLimiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, client := range rl.clients {
		if client.lastRequest.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		close(rl.stopCleanup)
	})
}
