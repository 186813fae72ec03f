// Package server exposes the forecast pipeline and user store over a thin
// HTTP layer. All numeric work happens in the service package; handlers only
// translate requests and map typed errors to status codes.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/earlystart/spendcast/internal/model"
	"github.com/earlystart/spendcast/internal/service"
)

// Store is the persistence surface the server needs.
type Store interface {
	SaveTransactions(ctx context.Context, txns []model.Transaction) (int, error)
	GetTransactions(ctx context.Context, from, to *time.Time) ([]model.Transaction, error)
	CreateUser(ctx context.Context, email, password string) error
	AuthenticateUser(ctx context.Context, email, password string) error
	UpdatePassword(ctx context.Context, email, newPassword string) error
}

// Server wires the HTTP routes.
type Server struct {
	store    Store
	pipeline *service.Pipeline
	chartDir string
	engine   *gin.Engine
}

// New creates a server around a store and a forecast pipeline. chartDir is
// where rendered charts are written; empty disables rendering.
func New(store Store, pipeline *service.Pipeline, chartDir string) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		store:    store,
		pipeline: pipeline,
		chartDir: chartDir,
		engine:   gin.New(),
	}
	s.engine.Use(gin.Recovery())
	s.engine.Use(cors.Default())

	s.engine.GET("/health", s.health)
	s.engine.POST("/add_user", s.addUser)
	s.engine.POST("/login", s.login)
	s.engine.POST("/forgot_password", s.forgotPassword)
	s.engine.POST("/upload", s.upload)
	s.engine.POST("/forecast", s.forecast)

	return s
}

// Handler returns the underlying HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until the context is canceled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "spendcast"})
}
