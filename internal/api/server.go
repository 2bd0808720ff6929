// Package api provides the HTTP API server implementation.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/product-scanner/internal/logging"
	"github.com/product-scanner/internal/models"
	"github.com/product-scanner/internal/service"
	"github.com/product-scanner/internal/types"
)

// Service interfaces for dependency injection and testing

// ScanServiceInterface defines the interface for scan service operations
type ScanServiceInterface interface {
	LookupBarcode(ctx context.Context, userID, barcode string) (*models.Product, error)
	IdentifyFromImage(ctx context.Context, userID string, imageJPEG []byte) (*models.Product, error)
	SearchProducts(ctx context.Context, name, category string) ([]*models.Product, error)
	History(ctx context.Context, userID string, limit int) ([]*models.ScanRecord, error)
}

// SuggestionServiceInterface defines the interface for suggestion service operations
type SuggestionServiceInterface interface {
	Alternatives(ctx context.Context, product *models.Product) ([]models.Alternative, error)
}

// FavoriteServiceInterface defines the interface for favorite service operations
type FavoriteServiceInterface interface {
	Add(ctx context.Context, userID string, product *models.Product) (*models.Favorite, error)
	Remove(ctx context.Context, userID, favoriteID string) error
	List(ctx context.Context, userID string) ([]*models.Favorite, error)
}

// AnalyticsServiceInterface defines the interface for analytics service operations
type AnalyticsServiceInterface interface {
	ForUser(ctx context.Context, userID string) (*models.UserAnalytics, error)
}

// UserServiceInterface defines the interface for user service operations
type UserServiceInterface interface {
	Register(ctx context.Context, email string, tier types.UserTier) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// Server represents the HTTP API server.
type Server struct {
	router            *mux.Router
	httpServer        *http.Server
	scanService       ScanServiceInterface
	suggestionService SuggestionServiceInterface
	favoriteService   FavoriteServiceInterface
	analyticsService  AnalyticsServiceInterface
	userService       UserServiceInterface
	config            *ServerConfig
	logger            *logging.Logger
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	FreeTierRPS     int // Requests per second for free tier
	PaidTierRPS     int // Requests per second for paid tier
}

// NewServer creates a new API server instance.
func NewServer(
	config *ServerConfig,
	scanService *service.ScanService,
	suggestionService *service.SuggestionService,
	favoriteService *service.FavoriteService,
	analyticsService *service.AnalyticsService,
	userService *service.UserService,
	logger *logging.Logger,
) *Server {
	s := &Server{
		router:            mux.NewRouter(),
		scanService:       scanService,
		suggestionService: suggestionService,
		favoriteService:   favoriteService,
		analyticsService:  analyticsService,
		userService:       userService,
		config:            config,
		logger:            logger,
	}

	s.setupRouter()

	return s
}

// setupRouter configures the router with middleware and routes
func (s *Server) setupRouter() {
	rateLimiter := NewRateLimiter(s.config.FreeTierRPS, s.config.PaidTierRPS)

	// Set up middleware (order matters!)
	s.router.Use(LoggingMiddleware(s.logger))
	s.router.Use(RecoveryMiddleware(s.logger))
	s.router.Use(CORSMiddleware)
	s.router.Use(RateLimitMiddleware(rateLimiter))
	s.router.Use(CompressionMiddleware)

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%s", s.config.Host, s.config.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check endpoint
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	api := s.router.PathPrefix("/api").Subrouter()

	// Product endpoints
	api.HandleFunc("/products/search", s.handleSearchProducts).Methods("GET")
	api.HandleFunc("/products/identify", s.handleIdentifyProduct).Methods("POST")
	api.HandleFunc("/products/alternatives", s.handleGetAlternatives).Methods("POST")
	api.HandleFunc("/products/{barcode}", s.handleGetProduct).Methods("GET")

	// Scan history endpoints
	api.HandleFunc("/scans", s.handleGetScans).Methods("GET")

	// Favorite endpoints
	api.HandleFunc("/favorites", s.handleAddFavorite).Methods("POST")
	api.HandleFunc("/favorites", s.handleListFavorites).Methods("GET")
	api.HandleFunc("/favorites/{id}", s.handleRemoveFavorite).Methods("DELETE")

	// Analytics endpoints
	api.HandleFunc("/analytics", s.handleGetAnalytics).Methods("GET")

	// User endpoints
	api.HandleFunc("/users", s.handleCreateUser).Methods("POST")
	api.HandleFunc("/users/{id}", s.handleGetUser).Methods("GET")
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "product-scanner",
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.WithField("addr", s.httpServer.Addr).Info("Starting API server")
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server...")
	return s.httpServer.Shutdown(ctx)
}
