package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"tjrates-service/internal/application"
	"tjrates-service/internal/cities"
	"tjrates-service/internal/config"
	"tjrates-service/internal/infrastructure/logx"
	"tjrates-service/internal/infrastructure/metrics"
	"tjrates-service/internal/infrastructure/pg"
	redisstore "tjrates-service/internal/infrastructure/redis"
	"tjrates-service/internal/scrape"
	"tjrates-service/internal/scrape/browser"
	"tjrates-service/internal/scrape/sources"
)

type Repos struct {
	Rates      *pg.RateRepo
	Market     *pg.MarketRateRepo
	Users      *pg.UserRepo
	Activities *pg.ActivityRepo
	UoW        *pg.UnitOfWork
	DB         *pg.DB
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// BuildRepos connects to Postgres, runs migrations and wires the repos.
func BuildRepos(ctx context.Context, cfg config.Config) (Repos, func(), error) {
	log := logx.L()
	if cfg.DatabaseURL == "" {
		return Repos{}, func() {}, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := pg.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return Repos{}, func() {}, err
	}
	if err := pg.RunMigrations(ctx, db); err != nil {
		db.Close()
		return Repos{}, func() {}, err
	}
	cleanup := func() {
		log.Info("closing pg")
		db.Close()
	}
	return Repos{
		Rates:      pg.NewRateRepo(db),
		Market:     pg.NewMarketRateRepo(db),
		Users:      pg.NewUserRepo(db),
		Activities: pg.NewActivityRepo(db),
		UoW:        &pg.UnitOfWork{Pool: db.Pool},
		DB:         db,
	}, cleanup, nil
}

// BuildRunLock builds the scrape run lock. RUN_LOCK_BACKEND=none falls back
// to the in-process noop lock.
func BuildRunLock(cfg config.Config) (application.RunLock, func(), error) {
	if getenv("RUN_LOCK_BACKEND", "redis") != "redis" {
		return application.NoopLock{}, func() {}, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	lock := redisstore.NewRunLock(client, cfg.RunLockTTL)
	return lock, func() { _ = client.Close() }, nil
}

// BuildSources wires the 17 bank adapters with a shared HTTP client and the
// headless browser renderer.
func BuildSources(cfg config.Config) []scrape.Source {
	return sources.All(sources.Deps{
		Client:   &http.Client{Timeout: cfg.SourceTimeout},
		Renderer: &browser.Chrome{ExecPath: cfg.ChromePath},
	})
}

// BuildAggregator assembles the scrape pipeline with metrics and the run lock.
func BuildAggregator(cfg config.Config, srcs []scrape.Source, sink application.RateSink, lock application.RunLock) *application.Aggregator {
	obs := metrics.NewRunObserver(prometheus.DefaultRegisterer)
	return application.NewAggregator(srcs, sink, logx.L(),
		application.WithRunLock(lock),
		application.WithObserver(obs),
		application.WithConcurrency(cfg.ScrapeConcurrency),
	)
}

// BuildCities loads the reference city list.
func BuildCities(cfg config.Config) (*cities.List, error) {
	return cities.Load(cfg.CitiesPath)
}
