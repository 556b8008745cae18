package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"tjrates-service/internal/application"
	"tjrates-service/internal/bootstrap"
	"tjrates-service/internal/config"
	"tjrates-service/internal/infrastructure/auth"
	httpserver "tjrates-service/internal/infrastructure/http"
	"tjrates-service/internal/infrastructure/logx"
)

func init() { _ = godotenv.Load() }

func main() {
	ctx := context.Background()
	logger := logx.L()
	cfg := config.Load()
	addr := ":" + cfg.Port

	if cfg.JWTSecret == "" {
		logger.Fatal("JWT_SECRET is required")
	}

	repos, cleanup, err := bootstrap.BuildRepos(ctx, cfg)
	if err != nil {
		logger.Fatal("bootstrap repos", zap.Error(err))
	}
	defer cleanup()

	lock, closeLock, err := bootstrap.BuildRunLock(cfg)
	if err != nil {
		logger.Fatal("bootstrap run lock", zap.Error(err))
	}
	defer closeLock()

	cityList, err := bootstrap.BuildCities(cfg)
	if err != nil {
		logger.Fatal("load cities", zap.Error(err))
	}

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL)
	market := application.NewMarketService(repos.Market, repos.Activities, repos.UoW, cityList)
	users := application.NewUserService(repos.Users, repos.Activities, auth.BcryptHasher{}, tokens, cityList)
	agg := bootstrap.BuildAggregator(cfg, bootstrap.BuildSources(cfg), repos.Rates, lock)

	srv := httpserver.NewServer(market, users, repos.Users, repos.Rates, agg, cityList, tokens,
		httpserver.WithPing(repos.DB.Ping))
	mux := httpserver.NewRouter(srv)

	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		logger.Info("server started", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	shutdownCtx, shCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shCancel()
	_ = server.Shutdown(shutdownCtx)
	logger.Info("server stopped")
}
