package devserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Server is the development list server
type Server struct {
	cfg      Config
	db       *gorm.DB
	log      *zap.Logger
	metrics  *Metrics
	handlers *Handlers
	router   *gin.Engine
}

// New opens the database, seeds it and builds the router
func New(cfg Config, log *zap.Logger) (*Server, error) {
	if cfg.DSN == "" {
		cfg.DSN = defaultDSN
	}
	if cfg.DevToken == "" {
		cfg.DevToken = defaultDevToken
	}

	db, err := OpenDatabase(cfg.DSN, log, parseLogLevel(cfg.LogLevel) == zap.DebugLevel)
	if err != nil {
		return nil, err
	}

	if err := Seed(db, cfg.DevToken); err != nil {
		_ = closeDatabase(db)
		return nil, err
	}

	s := &Server{
		cfg:     cfg,
		db:      db,
		log:     log,
		metrics: NewMetrics(),
	}
	s.handlers = NewHandlers(db, log, s.metrics)
	s.router = s.setupRouter()
	return s, nil
}

func (s *Server) setupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(s.log))
	r.Use(requestMetrics(s.metrics))

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(config))

	r.GET("/health", s.handlers.Health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{})))

	api := r.Group("/api/v1")
	api.Use(gzip.Gzip(gzip.DefaultCompression))
	api.Use(requireUser(s.db))
	{
		lists := api.Group("/lists")
		lists.GET("", s.handlers.GetLists)
		lists.POST("", s.handlers.CreateList)
		lists.GET("/:id", s.handlers.GetList)
		lists.DELETE("/:id", s.handlers.DeleteList)
		lists.POST("/:id/items", s.handlers.AddListItem)
		lists.DELETE("/:id/items/:item_id", s.handlers.RemoveListItem)
		lists.PUT("/:id/reorder", s.handlers.ReorderList)
		lists.POST("/:id/follow", s.handlers.FollowList)
		lists.DELETE("/:id/follow", s.handlers.UnfollowList)

		api.GET("/media/search", s.handlers.SearchMedia)
	}

	return r
}

// Handler returns the HTTP handler of the server
func (s *Server) Handler() http.Handler {
	return s.router
}

// DB returns the server database
func (s *Server) DB() *gorm.DB {
	return s.db
}

// Metrics returns the server collectors
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("otakulist devserver listening", zap.String("addr", s.cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return <-errCh
}

// Close releases the database
func (s *Server) Close() error {
	return closeDatabase(s.db)
}
