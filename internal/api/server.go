// Package api provides the HTTP API server implementation.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/asset-dashboard/internal/logging"
	"github.com/asset-dashboard/internal/news"
	"github.com/asset-dashboard/internal/service"
	"github.com/asset-dashboard/internal/storage"
	"github.com/asset-dashboard/internal/types"
	"github.com/gorilla/mux"
)

// Service interfaces for dependency injection and testing

// AssetServiceInterface defines the interface for the market-data operations
type AssetServiceInterface interface {
	GetDetails(ctx context.Context, ticker string) (*service.DetailsResponse, error)
	GetPrice(ctx context.Context, ticker string) (*service.PriceResponse, error)
	Search(ctx context.Context, query, assetType string) ([]types.SearchResult, error)
}

// NewsServiceInterface defines the interface for the news pipeline operations
type NewsServiceInterface interface {
	FetchAll(ctx context.Context) (news.FetchStats, error)
	Cleanup(ctx context.Context) (news.CleanupResult, error)
}

// NewsListerInterface defines the interface for listing stored articles
type NewsListerInterface interface {
	List(ctx context.Context, filter storage.NewsFilter) ([]*types.NewsArticle, int64, error)
}

// Server represents the HTTP API server.
type Server struct {
	router       *mux.Router
	handler      http.Handler
	httpServer   *http.Server
	assetService AssetServiceInterface
	newsService  NewsServiceInterface
	newsLister   NewsListerInterface
	config       *ServerConfig
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	NewsFetchAPIKey string // when set, POST /api/news/fetch requires a matching X-API-Key
}

// NewServer creates a new API server instance.
func NewServer(
	config *ServerConfig,
	assetService AssetServiceInterface,
	newsService NewsServiceInterface,
	newsLister NewsListerInterface,
) *Server {
	s := &Server{
		router:       mux.NewRouter(),
		assetService: assetService,
		newsService:  newsService,
		newsLister:   newsLister,
		config:       config,
	}

	s.setupRouter()

	return s
}

// setupRouter configures the router with middleware and routes
func (s *Server) setupRouter() {
	s.setupRoutes()

	// CORS sits outside the router so OPTIONS preflight is answered for
	// every path before method matching can produce a 405.
	s.handler = LoggingMiddleware(RecoveryMiddleware(CORSMiddleware(s.router)))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%s", s.config.Host, s.config.Port),
		Handler:      s.handler,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED",
			fmt.Sprintf("%s is not allowed on %s", r.Method, r.URL.Path), nil)
	})

	// Health check endpoint
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	api := s.router.PathPrefix("/api").Subrouter()

	// Market data endpoints
	api.HandleFunc("/asset-details", s.handleAssetDetails).Methods("GET")
	api.HandleFunc("/search-assets", s.handleSearchAssets).Methods("GET")
	api.HandleFunc("/price", s.handlePrice).Methods("GET")

	// News endpoints
	api.HandleFunc("/news", s.handleNewsList).Methods("GET")
	api.HandleFunc("/news/fetch", s.handleNewsFetch).Methods("POST")
	api.HandleFunc("/news/cleanup", s.handleNewsCleanup).Methods("POST")
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "asset-dashboard",
	})
}

// Handler returns the full middleware-wrapped handler. Used by tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	logging.GetGlobalLogger().WithField("addr", s.httpServer.Addr).Info("starting API server")
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	logging.GetGlobalLogger().Info("shutting down API server")
	return s.httpServer.Shutdown(ctx)
}
