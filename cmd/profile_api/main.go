package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/qluke/genshin-builds/internal/api"
	"github.com/qluke/genshin-builds/internal/catalog"
	"github.com/qluke/genshin-builds/internal/config"
	"github.com/qluke/genshin-builds/internal/logging"
	"github.com/qluke/genshin-builds/internal/profile"
	"github.com/qluke/genshin-builds/internal/store"
)

func main() {
	cfg, _, err := config.Load("profile_api", os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Error("server failed", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	db, err := store.Open(store.Config{Path: cfg.DBPath})
	if err != nil {
		return err
	}
	defer db.Close()

	if err := store.Migrate(context.Background(), db); err != nil {
		return fmt.Errorf("db migrate failed: %w", err)
	}

	cache := catalog.NewCache(cfg.DataDir)
	// Fail fast on a broken data dir instead of on the first request.
	if _, err := cache.Get(cfg.Lang); err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	svc := profile.NewService(store.NewRepo(db), cache, log)
	router := api.NewRouter(api.NewHandler(svc, log))

	httpSrv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP API server listening", zap.String("addr", cfg.Addr), zap.String("db", cfg.DBPath))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}
