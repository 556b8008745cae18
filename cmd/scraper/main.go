package main

import (
	"context"
	"errors"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"tjrates-service/internal/application"
	"tjrates-service/internal/bootstrap"
	"tjrates-service/internal/config"
	"tjrates-service/internal/infrastructure/logx"
)

func init() { _ = godotenv.Load() }

// cmd/scraper runs exactly one scrape pass and exits. Scheduling is left to
// cron or the API's trigger endpoint.
func main() {
	ctx := context.Background()
	logger := logx.L()
	cfg := config.Load()

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

	agg := bootstrap.BuildAggregator(cfg, bootstrap.BuildSources(cfg), repos.Rates, lock)

	report, err := agg.Run(ctx)
	if err != nil {
		if errors.Is(err, application.ErrRunInProgress) {
			logger.Warn("another scrape run holds the lock; exiting")
			os.Exit(0)
		}
		logger.Fatal("scrape run", zap.Error(err))
	}

	logger.Info("scrape pass finished",
		zap.Int("sources", len(report.Results)),
		zap.Int("succeeded", report.Succeeded()),
		zap.Duration("took", report.FinishedAt.Sub(report.StartedAt)),
	)
	if report.Succeeded() == 0 && len(report.Results) > 0 {
		os.Exit(1)
	}
}
