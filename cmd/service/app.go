package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github-traffic-tracker/internal/api"
	"github-traffic-tracker/internal/config"
	"github-traffic-tracker/internal/credential"
	"github-traffic-tracker/internal/database"
	custom_errors "github-traffic-tracker/internal/errors"
	"github-traffic-tracker/internal/github"
	"github-traffic-tracker/internal/metrics"
	"github-traffic-tracker/internal/query"
	"github-traffic-tracker/internal/registry"
	"github-traffic-tracker/internal/scheduler"
	"github-traffic-tracker/internal/syncer"
	"github-traffic-tracker/internal/traffic"
)

// app holds the process-scoped components, all sharing one pool.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	dbpool    *pgxpool.Pool
	metrics   *metrics.Metrics
	registry  *registry.Registry
	tokens    *credential.Store
	store     *traffic.Store
	engine    *query.Engine
	syncer    *syncer.Syncer
	scheduler *scheduler.Scheduler
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	if err := runMigrations(cfg.MigrationsPath, cfg.DBURL); err != nil {
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}
	logger.Info("Database migrations applied successfully")

	dbpool, err := pgxpool.New(ctx, cfg.DBURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := dbpool.Ping(ctx); err != nil {
		dbpool.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}
	logger.Info("Database connection established")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	q := database.New(dbpool)
	a := &app{
		cfg:      cfg,
		logger:   logger,
		dbpool:   dbpool,
		metrics:  metrics.New(reg),
		registry: registry.New(q, logger),
		tokens:   credential.NewStore(q),
		store:    traffic.NewStore(dbpool, logger),
		engine:   query.NewEngine(q),
	}
	newSource := func(token string) (syncer.TrafficSource, error) {
		return github.NewClient(token, cfg.GithubAPIURL, logger)
	}
	a.syncer = syncer.NewSyncer(a.registry, a.tokens, a.store, newSource, a.metrics, logger, cfg.CollectConcurrency)
	a.scheduler = scheduler.New(a.syncer, logger)

	if err := a.bootstrap(ctx); err != nil {
		dbpool.Close()
		return nil, err
	}
	return a, nil
}

// bootstrap stores the configured token and tracked repositories, if any.
func (a *app) bootstrap(ctx context.Context) error {
	if a.cfg.GithubToken != "" {
		if err := a.tokens.Set(ctx, a.cfg.GithubToken); err != nil {
			return err
		}
		a.logger.Info("GitHub token loaded from configuration")
	}
	for _, r := range a.cfg.TrackedRepos {
		owner, name, err := registry.ParseFullName(strings.TrimSpace(r))
		if err != nil {
			return err
		}
		_, err = a.registry.Add(ctx, owner, name)
		var dup *custom_errors.ErrDuplicateRepository
		if err != nil && !errors.As(err, &dup) {
			return err
		}
	}
	return nil
}

func (a *app) deps() api.Deps {
	return api.Deps{
		Registry:  a.registry,
		Tokens:    a.tokens,
		Wiper:     a.store,
		Queries:   a.engine,
		Collector: a.scheduler,
		Metrics:   a.metrics.Handler(),
	}
}

func (a *app) close() {
	a.scheduler.Stop()
	a.dbpool.Close()
}

func runMigrations(source, dbURL string) error {
	m, err := migrate.New(source, dbURL)
	if err != nil {
		return err
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
