package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/cors"

	"github.com/markb/shoplite/internal/cache"
	"github.com/markb/shoplite/internal/catalog"
	"github.com/markb/shoplite/internal/gate"
	"github.com/markb/shoplite/internal/log"
	"github.com/markb/shoplite/internal/pg"
	"github.com/markb/shoplite/internal/uploads"
)

type Server struct {
	config     Config
	router     *chi.Mux
	httpServer *http.Server

	pgDatabase  *pg.EmbeddedDatabase
	uploadStore *uploads.Store

	listCache    *cache.Store[string, []catalog.Product]
	productCache *cache.Store[uuid.UUID, catalog.Product]
}

type Config struct {
	Host      string
	Port      int
	DataDir   string
	UploadDir string

	AdminPathPrefix     string
	AdminUsername       string
	AdminPasswordDigest string

	PGPort     uint16
	PGUsername string
	PGPassword string
	PGDatabase string

	CORSOrigins []string
	CacheTTL    time.Duration

	RuntimePath string // Optional: unique runtime path for test isolation
}

func New(cfg Config) *Server {
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 30 * time.Second
	}
	return &Server{
		config:       cfg,
		router:       chi.NewRouter(),
		listCache:    cache.New[string, []catalog.Product](cfg.CacheTTL),
		productCache: cache.New[uuid.UUID, catalog.Product](cfg.CacheTTL),
	}
}

func (s *Server) Start(ctx context.Context) error {
	log.Info("starting Shoplite server...")

	// 1. Start embedded PostgreSQL
	log.Info("starting embedded PostgreSQL...")

	pgUsername := s.config.PGUsername
	if pgUsername == "" {
		pgUsername = "postgres"
	}
	pgPassword := s.config.PGPassword
	if pgPassword == "" {
		pgPassword = "postgres"
	}
	pgDatabase := s.config.PGDatabase
	if pgDatabase == "" {
		pgDatabase = "shoplite"
	}

	pgCfg := pg.Config{
		Port:        s.config.PGPort,
		Username:    pgUsername,
		Password:    pgPassword,
		Database:    pgDatabase,
		DataDir:     s.config.DataDir,
		Version:     "16.9.0",
		RuntimePath: s.config.RuntimePath,
	}
	s.pgDatabase = pg.NewEmbeddedDatabase(pgCfg)

	if err := s.pgDatabase.Start(ctx); err != nil {
		return fmt.Errorf("failed to start PostgreSQL: %w", err)
	}
	log.Info("PostgreSQL started", "port", s.config.PGPort)

	// 2. Initialize database schema
	if err := s.initSchema(ctx); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	// 3. Open the upload store
	uploadDir := s.config.UploadDir
	if uploadDir == "" {
		uploadDir = "./data/uploads"
	}
	store, err := uploads.New(uploadDir)
	if err != nil {
		return fmt.Errorf("failed to open upload store: %w", err)
	}
	s.uploadStore = store
	log.Info("upload store ready", "dir", uploadDir)

	// 4. Setup routes
	s.setupRoutes()

	// 5. Start main HTTP server
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Shoplite listening", "addr", addr)
		log.Info("endpoints available:")
		log.Info("  Storefront:", "path", "/api/products")
		log.Info("  Uploads:", "path", "/uploads/*")
		log.Info("  Admin:", "path", s.config.AdminPathPrefix+"/api/*")
		log.Info("  Health:", "path", "/health")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// 6. Wait for a shutdown signal, context cancellation, or a listen failure
	return s.waitForShutdown(ctx, errCh)
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	// Public storefront API, CORS-enabled
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: s.config.CORSOrigins,
		AllowedMethods: []string{http.MethodGet},
	})
	s.router.Group(func(r chi.Router) {
		r.Use(corsHandler.Handler)
		r.Get("/api/products", s.handleListProducts)
		r.Get("/api/products/{id}", s.handleGetProduct)
	})

	// Uploaded product images
	s.router.Handle("/uploads/*", http.StripPrefix("/uploads/", s.uploadStore.Handler()))

	// Admin API behind the Basic-Auth gate
	s.router.Route(s.config.AdminPathPrefix, func(r chi.Router) {
		r.Use(gate.Middleware(gate.Config{
			Username:       s.config.AdminUsername,
			PasswordDigest: s.config.AdminPasswordDigest,
			PathPrefix:     s.config.AdminPathPrefix,
		}))
		r.Get("/api/products", s.handleAdminListProducts)
		r.Post("/api/products", s.handleCreateProduct)
		r.Put("/api/products/{id}", s.handleUpdateProduct)
		r.Delete("/api/products/{id}", s.handleDeleteProduct)
		r.Post("/api/products/{id}/availability", s.handleSetAvailability)
		r.Post("/api/uploads", s.handleUpload)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"healthy"}`)
}

func (s *Server) initSchema(ctx context.Context) error {
	conn, err := s.pgDatabase.Connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	return catalog.InitSchema(ctx, conn)
}

func (s *Server) waitForShutdown(ctx context.Context, errCh <-chan error) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	var startErr error
	select {
	case sig := <-sigCh:
		log.Info("received signal, shutting down...", "signal", sig)
	case <-ctx.Done():
		startErr = ctx.Err()
	case err := <-errCh:
		log.Error("http server failed", "error", err)
		startErr = err
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if s.httpServer != nil {
		s.httpServer.Shutdown(shutdownCtx)
	}

	if s.pgDatabase != nil {
		s.pgDatabase.Stop()
	}

	log.Info("Shoplite stopped")
	return startErr
}
