package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mohammedALrabeai/salon-sub001/internal/db"
	"github.com/mohammedALrabeai/salon-sub001/internal/handlers"
	"github.com/mohammedALrabeai/salon-sub001/internal/handlers/middleware"
	"github.com/mohammedALrabeai/salon-sub001/internal/logger"
	"github.com/mohammedALrabeai/salon-sub001/internal/repository/postgres"
	"github.com/mohammedALrabeai/salon-sub001/internal/service/auth"
)

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler

	logger logger.Logger
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	// Initialize logger
	log, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	// Connect to the database and run migrations
	pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
	}

	// Initialize repositories
	storage := postgres.NewStorage(pool)

	// Initialize services
	tokenService, err := auth.NewTokenService(auth.TokenConfig{
		AccessTTL:  time.Duration(c.AccessTokenTTL) * time.Second,
		RefreshTTL: time.Duration(c.RefreshTokenTTLDays) * 24 * time.Hour,
	}, storage)
	if err != nil {
		return nil, fmt.Errorf("error while creating token service. Err: %w", err)
	}

	loginService, err := auth.NewLoginService(auth.LoginConfig{
		MaxAttempts: c.LoginMaxAttempts,
		Decay:       time.Duration(c.LoginDecayMinutes) * time.Minute,
	}, tokenService, storage)
	if err != nil {
		return nil, fmt.Errorf("error while creating login service. Err: %w", err)
	}

	// Initialize handlers
	authHandler := handlers.NewAuth(loginService, tokenService, log)
	authMiddleware := middleware.AuthMiddleware(tokenService, log)

	mux := handlers.NewRouter(
		authHandler,
		tokenService,
		log,
		authMiddleware,
		middleware.LoggerMiddleware(log),
	)

	return &ServerApp{
		ListenAddr: c.ListenAddr,
		Handler:    mux,
		logger:     log,
	}, nil
}

// Run starts http server and closes gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.ListenAddr,
		Handler: s.Handler,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); err == context.DeadlineExceeded {
			s.logger.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		s.logger.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled, then close connections gracefully
	s.logger.Info("Starting server", "address", s.ListenAddr)
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed

	return err
}
