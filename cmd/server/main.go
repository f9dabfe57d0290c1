package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/timeglimpse/timeglimpse/internal/api"
	"github.com/timeglimpse/timeglimpse/internal/auth"
	"github.com/timeglimpse/timeglimpse/internal/config"
	"github.com/timeglimpse/timeglimpse/internal/db"
	"github.com/timeglimpse/timeglimpse/internal/document"
	mw "github.com/timeglimpse/timeglimpse/internal/middleware"
	"github.com/timeglimpse/timeglimpse/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	model, err := loadModel(ctx, cfg)
	if err != nil {
		slog.Error("load model", "error", err)
		os.Exit(1)
	}
	slog.Info("model loaded", "rows", len(model.RowIDs()))

	authService := auth.NewService(cfg.JWTSecret)
	if !authService.Enabled() {
		slog.Warn("JWT_SECRET not set, API is unauthenticated")
	}

	rowService := api.NewService(model, cfg.EngineOptions())
	rowHandler := api.NewHandler(rowService)

	hub := session.NewHub()
	wsHandler := session.NewHandler(hub, rowService, cfg.Origins())

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.Origins()))

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Protected API routes
	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.Use(authService.AuthMiddleware)
	rowHandler.Register(apiRouter)

	// WebSocket endpoint
	wsRouter := r.PathPrefix("/ws").Subrouter()
	wsRouter.Use(authService.AuthMiddleware)
	wsRouter.Handle("/rows/{rowId}", wsHandler)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")
		hub.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

// loadModel reads the model from DATA_FILE, then DATABASE_URL, and falls
// back to a generated sample row.
func loadModel(ctx context.Context, cfg *config.Config) (*document.Model, error) {
	switch {
	case cfg.DataFile != "":
		f, err := os.Open(cfg.DataFile)
		if err != nil {
			return nil, fmt.Errorf("open data file: %w", err)
		}
		defer f.Close()
		return document.Decode(f)

	case cfg.DatabaseURL != "":
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		defer pool.Close()
		if err := db.Migrate(ctx, pool); err != nil {
			return nil, err
		}
		return db.LoadModel(ctx, pool)

	default:
		slog.Info("no data source configured, using sample model")
		start := float64(time.Now().Add(-time.Hour).UnixMilli())
		model, _ := document.NewSampleModel(start, float64(time.Minute.Milliseconds()))
		return model, nil
	}
}
