// Package api serves the liquidity engine over HTTP. Reads are public. Writes need a
// bearer token whose address is the account the write is signed as.
package api

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"cosmossdk.io/log"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/paw-chain/lpool/api/health"
	"github.com/paw-chain/lpool/pkg/engine"
)

// Server represents the main API server
type Server struct {
	router      *gin.Engine
	handler     http.Handler
	engine      *engine.Engine
	config      *Config
	authService *AuthService
	health      *health.HealthChecker
	logger      log.Logger
}

// Config holds server configuration
type Config struct {
	Host            string
	Port            string
	JWTSecret       []byte
	CORSOrigins     []string
	RateLimitRPS    int // zero disables rate limiting
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	Version         string
}

// DefaultConfig returns default server configuration
func DefaultConfig() *Config {
	return &Config{
		Host:            "0.0.0.0",
		Port:            "1317",
		CORSOrigins:     []string{"http://localhost:3000"},
		RateLimitRPS:    100,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// NewServer creates a new API server over eng.
func NewServer(eng *engine.Engine, config *Config, logger log.Logger) (*Server, error) {
	if eng == nil {
		return nil, errors.New("api: engine is required")
	}
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	logger = logger.With("module", "api")

	if len(config.JWTSecret) == 0 {
		secret := make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("failed to generate JWT secret: %w", err)
		}
		config.JWTSecret = secret
		logger.Warn("JWT secret generated randomly; write endpoints accept no externally issued tokens until api.jwt_secret is set")
	}

	checker := health.NewHealthChecker(config.Version, 5*time.Second, logger)
	checker.RegisterCheck("invariants", health.InvariantCheck(eng.CheckInvariants))
	checker.RegisterCheck("store", health.StoreCheck(eng.Height))

	server := &Server{
		engine:      eng,
		config:      config,
		authService: NewAuthService(config.JWTSecret),
		health:      checker,
		logger:      logger,
	}
	server.setupRouter()

	return server, nil
}

// setupRouter configures the gin router for /api and mounts it, with the health
// routes, behind CORS and compression.
func (s *Server) setupRouter() {
	gin.SetMode(gin.ReleaseMode)
	s.router = gin.New()

	// order matters: recovery first, rate limiting before handlers
	s.router.Use(gin.Recovery())
	s.router.Use(SecurityHeadersMiddleware())
	s.router.Use(RequestSizeLimitMiddleware(MaxRequestSize))
	s.router.Use(RequestIDMiddleware())
	s.router.Use(LoggerMiddleware(s.logger))
	if s.config.RateLimitRPS > 0 {
		s.router.Use(RateLimitMiddleware(s.config.RateLimitRPS))
	}

	s.registerRoutes()

	root := mux.NewRouter()
	s.health.RegisterRoutes(root)
	root.PathPrefix("/api/").Handler(s.router)

	c := cors.New(cors.Options{
		AllowedOrigins: s.config.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", headerRequestID},
		ExposedHeaders: []string{headerRequestID},
		MaxAge:         300,
	})
	s.handler = handlers.RecoveryHandler()(handlers.CompressHandler(c.Handler(root)))
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// IssueToken signs a token binding requests to address.
func (s *Server) IssueToken(address string, ttl time.Duration) (string, error) {
	return s.authService.GenerateToken(address, ttl)
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:           net.JoinHostPort(s.config.Host, s.config.Port),
		Handler:        s.handler,
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving api", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("api server: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
