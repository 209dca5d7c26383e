// Package http serves the dashboard UI: HTML pages and HTMX partials
// rendered from embedded templates, plus JSON endpoints consumed by the
// charts on the client.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"grocerydash/internal/cache"
	"grocerydash/internal/core"
	"grocerydash/internal/ingest"
	"grocerydash/internal/view"
	appweb "grocerydash/web"
)

type Server struct {
	http.Server
	templates *template.Template

	dashboard *view.Dashboard
	finder    *view.Finder
	schema    ingest.Schema

	maxUploadBytes int64
	rateLimiter    *rateLimiter

	// Search results are memoized per snapshot; aggregation is pure, so
	// a cached entry never goes stale within one snapshot's lifetime.
	searchCache  *cache.LRUCache[core.SearchResult]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// Options tunes the server without widening the constructor every time
// a knob is added.
type Options struct {
	MaxUploadBytes int64
	CacheSize      int
	CacheTTL       time.Duration
}

// Simple in-memory rate limiter for mutating requests.
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

// cleanupStaleEntries removes client entries older than 10 minutes.
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

func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.clients[clientIP]
	if !exists {
		rl.clients[clientIP] = &clientInfo{lastRequest: now, requests: 1}
		return true
	}

	// Reset counter if more than 1 minute has passed
	if now.Sub(client.lastRequest) > time.Minute {
		client.requests = 1
		client.lastRequest = now
		return true
	}

	// Allow up to 60 requests per minute
	client.requests++
	client.lastRequest = now
	return client.requests <= 60
}

// NewServer configures routes and templates, returning a ready-to-run
// http.Server. Both views must be non-nil.
func NewServer(addr string, dashboard *view.Dashboard, finder *view.Finder, schema ingest.Schema, opts Options) *Server {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 8 << 20
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = 200
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}

	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		dashboard:      dashboard,
		finder:         finder,
		schema:         schema,
		maxUploadBytes: opts.MaxUploadBytes,
		rateLimiter:    newRateLimiter(),
		searchCache:    cache.NewLRUCache[core.SearchResult](opts.CacheSize, opts.CacheTTL),
		cacheManager:   cache.NewManager(),
	}

	s.cacheManager.Register(s.searchCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/", s.withSecurityHeaders(s.handleDashboard))
	mux.HandleFunc("/search", s.withSecurityHeaders(s.handleSearchPage))
	mux.HandleFunc("/upload", s.withSecurityHeaders(s.handleUpload))
	mux.HandleFunc("/find", s.withSecurityHeaders(s.handleFind))
	// UI partials
	mux.HandleFunc("/ui/overview", s.withSecurityHeaders(s.handleOverview))
	mux.HandleFunc("/ui/search-results", s.withSecurityHeaders(s.handleSearchResults))
	// JSON endpoints feeding the charts
	mux.HandleFunc("/api/categories", s.withSecurityHeaders(s.handleCategories))
	mux.HandleFunc("/api/stores", s.withSecurityHeaders(s.handleStores))
	mux.HandleFunc("/api/monthly", s.withSecurityHeaders(s.handleMonthly))
	mux.HandleFunc("/api/top-items", s.withSecurityHeaders(s.handleTopItems))
	mux.HandleFunc("/api/trips", s.withSecurityHeaders(s.handleTrips))
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withSecurityHeaders adds security headers, rate limiting, and request
// logging to responses.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Extract client IP (considering proxies)
		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP,
			"user_agent", r.Header.Get("User-Agent"))

		// Rate limiting applies to mutating requests only
		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' https://unpkg.com https://cdn.jsdelivr.net 'unsafe-eval'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
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

// handleReady reports ready once templates parsed; the app serves its
// prompt state even before any dataset has been ingested.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("templates not loaded"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
