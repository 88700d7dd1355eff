package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"resume-automation/internal/auth"
	"resume-automation/internal/config"
	"resume-automation/internal/detect"
	"resume-automation/internal/drive"
	"resume-automation/internal/fetch"
	"resume-automation/internal/generate"
	"resume-automation/internal/server/ratelimit"
	"resume-automation/internal/tracker"
)

// Generator runs the material generation chain.
type Generator interface {
	Generate(ctx context.Context, req generate.Request) (*generate.Materials, error)
}

// ApplicationStore records applications and answers duplicate/stat queries.
type ApplicationStore interface {
	Add(ctx context.Context, app tracker.Application) (uuid.UUID, error)
	IsDuplicate(ctx context.Context, company, role, url string) bool
	Stats(ctx context.Context) (*tracker.Stats, error)
}

// MaterialFiler files generated materials into cloud storage.
type MaterialFiler interface {
	FileMaterials(ctx context.Context, company, position string, docs []drive.Document) (string, error)
	ListTemplates(ctx context.Context) ([]drive.File, error)
}

// Deps are the collaborators behind the API. Any of Generator, Store and
// Filer may be nil; their routes then answer 503.
type Deps struct {
	Detector  *detect.Detector
	Fetcher   detect.Fetcher
	Generator Generator
	Store     ApplicationStore
	Filer     MaterialFiler
	Auth      *auth.Service
}

// Server is the HTTP server for the application assistant API.
type Server struct {
	httpServer  *http.Server
	deps        Deps
	validate    *validator.Validate
	rateLimiter *ratelimit.Limiter

	mu  sync.RWMutex
	cfg *config.Config
}

// New assembles the server around its collaborators.
func New(cfg *config.Config, deps Deps) *Server {
	if deps.Fetcher == nil {
		deps.Fetcher = &detect.HTTPFetcher{Options: &fetch.Options{
			Timeout:    cfg.Fetch.Timeout(),
			UserAgent:  fetch.DefaultUserAgent,
			UseBrowser: cfg.Fetch.UseBrowser,
		}}
	}
	if deps.Detector == nil {
		deps.Detector = detect.New(deps.Fetcher)
	}

	s := &Server{
		deps:        deps,
		cfg:         cfg,
		validate:    validator.New(),
		rateLimiter: ratelimit.NewLimiter(ratelimit.DefaultEndpointConfigs()),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/parse-job", s.handleParseJob)
	mux.HandleFunc("POST /api/generate", s.withAuth(s.handleGenerate))
	mux.HandleFunc("GET /api/templates", s.handleListTemplates)
	mux.HandleFunc("GET /api/settings", s.handleGetSettings)
	mux.HandleFunc("PUT /api/settings", s.withAuth(s.handlePutSettings))
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("GET /api/applications/stats", s.handleApplicationStats)
	mux.HandleFunc("POST /api/applications/check-duplicate", s.handleCheckDuplicate)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // generation runs are slow
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start begins listening and blocks until SIGINT/SIGTERM, then shuts down
// gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.rateLimiter.Stop()
	log.Println("Server stopped")
	return nil
}

// Handler exposes the configured handler for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// currentConfig returns the live config snapshot.
func (s *Server) currentConfig() *config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

func (s *Server) setConfig(cfg *config.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
}

// withCORS adds CORS headers.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.currentConfig().Server.AllowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// withRateLimit rejects clients over their per-endpoint budget.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(clientID(r), r.URL.Path, r.Method)

		if info.Limit > 0 {
			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
			w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
		}

		if !allowed {
			if info.RetryAfter > 0 {
				w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
			}
			log.Printf("[rate-limit] %s exceeded budget for %s %s", clientID(r), r.Method, r.URL.Path)
			s.errorResponse(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withAuth requires a valid bearer token when auth is configured. An
// unconfigured auth service leaves the API open for single-user local use.
func (s *Server) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.deps.Auth == nil {
			next(w, r)
			return
		}

		token, ok := bearerToken(r)
		if !ok {
			s.errorResponse(w, http.StatusUnauthorized, (&ErrUnauthorized{}).Error())
			return
		}
		if _, err := s.deps.Auth.Authenticate(token); err != nil {
			s.errorResponse(w, http.StatusUnauthorized, (&ErrUnauthorized{}).Error())
			return
		}

		next(w, r)
	}
}

func bearerToken(r *http.Request) (string, bool) {
	const prefix = "Bearer "
	header := r.Header.Get("Authorization")
	if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
		return "", false
	}
	return header[len(prefix):], true
}

// clientID extracts the client identifier (IP) from the request.
func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response.
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
