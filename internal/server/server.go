// Package server provides the HTTP REST API for the commute coach.
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
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/commute-coach/internal/catalog"
	"github.com/jonathan/commute-coach/internal/config"
	"github.com/jonathan/commute-coach/internal/db"
	"github.com/jonathan/commute-coach/internal/llm"
	"github.com/jonathan/commute-coach/internal/server/middleware"
	"github.com/jonathan/commute-coach/internal/server/ratelimit"
)

// Store is the set of database operations the HTTP handlers use.
// *db.DB satisfies it; tests substitute a mock.
type Store interface {
	DBClient

	MarkWatched(ctx context.Context, w *db.WatchedVideo) error
	ListWatched(ctx context.Context, userID uuid.UUID, limit int) ([]db.WatchedVideo, error)
	WatchedIDs(ctx context.Context, userID uuid.UUID, topic string) ([]string, error)
	MinutesByTopic(ctx context.Context, userID uuid.UUID) ([]db.TopicMinutes, error)
	WatchDays(ctx context.Context, userID uuid.UUID) ([]string, error)

	SavePack(ctx context.Context, p *db.SavedPack) (uuid.UUID, error)
	GetPack(ctx context.Context, id uuid.UUID) (*db.SavedPack, error)
	ListPacks(ctx context.Context, userID uuid.UUID, limit int) ([]db.SavedPack, error)
	DeletePack(ctx context.Context, id, userID uuid.UUID) error

	BlockSource(ctx context.Context, userID uuid.UUID, sourceID, reason string) error
	UnblockSource(ctx context.Context, userID uuid.UUID, sourceID string) error
	ListBlockedSources(ctx context.Context, userID uuid.UUID) ([]db.BlockedSource, error)
	BlockedSourceIDs(ctx context.Context, userID uuid.UUID) ([]string, error)

	Close()
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	db          Store
	source      catalog.Source
	llmClient   llm.Client
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	userService *UserService
	authHandler *AuthHandler
}

// Config holds server configuration
type Config struct {
	Port        int
	DatabaseURL string
	Source      catalog.Source
	LLMClient   llm.Client
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	// Connect to database
	database, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &Server{
		db:        database,
		source:    cfg.Source,
		llmClient: cfg.LLMClient,
	}

	// Initialize rate limiter
	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	// Initialize authentication services
	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	s.userService = NewUserService(database, passwordConfig)

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}
	s.jwtService = NewJWTService(jwtConfig)

	s.authHandler = NewAuthHandler(s.userService, s.jwtService)

	// Create HTTP server
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(s.routes()))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // Long timeout for chat streams
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// routes builds the router. Split out so tests can exercise the full mux.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	auth := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())

	// Public endpoints
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /register", s.handleRegister)
	mux.HandleFunc("POST /login", s.handleLogin)

	// Account endpoints
	mux.Handle("GET /me", auth(http.HandlerFunc(s.handleMe)))
	mux.Handle("PUT /me/password", auth(http.HandlerFunc(s.handleUpdatePassword)))

	// Pack building endpoints
	mux.Handle("POST /packs", auth(http.HandlerFunc(s.handleBuildPack)))
	mux.Handle("POST /v2/packs", auth(http.HandlerFunc(s.handleBuildPackV2)))

	// Saved pack endpoints
	mux.Handle("GET /packs", auth(http.HandlerFunc(s.handleListPacks)))
	mux.Handle("GET /packs/{id}", auth(http.HandlerFunc(s.handleGetPack)))
	mux.Handle("DELETE /packs/{id}", auth(http.HandlerFunc(s.handleDeletePack)))

	// Chat endpoints
	mux.Handle("POST /chat", auth(http.HandlerFunc(s.handleChat)))
	mux.Handle("POST /chat/stream", auth(http.HandlerFunc(s.handleChatStream)))

	// History and progress endpoints
	mux.Handle("POST /history", auth(http.HandlerFunc(s.handleMarkWatched)))
	mux.Handle("GET /history", auth(http.HandlerFunc(s.handleListHistory)))
	mux.Handle("GET /progress", auth(http.HandlerFunc(s.handleProgress)))
	mux.Handle("GET /achievements", auth(http.HandlerFunc(s.handleAchievements)))

	// Blocked source endpoints
	mux.Handle("GET /blocked-sources", auth(http.HandlerFunc(s.handleListBlockedSources)))
	mux.Handle("POST /blocked-sources", auth(http.HandlerFunc(s.handleBlockSource)))
	mux.Handle("DELETE /blocked-sources/{source_id}", auth(http.HandlerFunc(s.handleUnblockSource)))

	return mux
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
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

	// Stop rate limiter cleanup goroutine
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}

	s.db.Close()
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)

		if !allowed {
			s.setRateLimitHeaders(w, info)
			s.rateLimitResponse(w, info)
			return
		}

		s.setRateLimitHeaders(w, info)
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// handleRegister handles user registration requests.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	s.authHandler.Register(w, r)
}

// handleLogin handles user login requests.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	s.authHandler.Login(w, r)
}

// handleMe returns the authenticated user's profile.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	dbUser, err := s.db.GetUser(r.Context(), userID)
	if err != nil {
		log.Printf("[users] failed to get user %s: %v", userID, err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to get user")
		return
	}
	if dbUser == nil {
		s.errorResponse(w, http.StatusNotFound, "User not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, convertDBUserToTypesUser(dbUser))
}

// handleUpdatePassword handles password update requests.
func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	s.authHandler.UpdatePasswordWithUserID(w, r, userID)
}

// extractClientID extracts the client identifier from the request.
// For MVP, this uses the IP address from RemoteAddr.
// In the future, this could use X-Forwarded-For header (only from trusted proxies).
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// If parsing fails, use the whole RemoteAddr
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
