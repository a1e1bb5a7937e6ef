package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/pairwise/internal/config"
	"github.com/kailas-cloud/pairwise/internal/db"
	dbRedis "github.com/kailas-cloud/pairwise/internal/db/redis"
	"github.com/kailas-cloud/pairwise/internal/domain/metric"
	logpkg "github.com/kailas-cloud/pairwise/internal/logger"
	"github.com/kailas-cloud/pairwise/internal/metrics"
	judgmentrepo "github.com/kailas-cloud/pairwise/internal/repository/judgment"
	samplerepo "github.com/kailas-cloud/pairwise/internal/repository/sample"
	"github.com/kailas-cloud/pairwise/internal/repository/samplecache"
	userrepo "github.com/kailas-cloud/pairwise/internal/repository/user"
	"github.com/kailas-cloud/pairwise/internal/tracing"
	"github.com/kailas-cloud/pairwise/internal/version"
	cataloguc "github.com/kailas-cloud/pairwise/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/pairwise/internal/usecase/health"
	participantuc "github.com/kailas-cloud/pairwise/internal/usecase/participant"
	surveyuc "github.com/kailas-cloud/pairwise/internal/usecase/survey"
)

// app is the composition root shared by every subcommand.
type app struct {
	env     string
	cfg     config.Config
	logger  *zap.Logger
	store   db.Store
	tracing *tracing.Provider

	catalog      *cataloguc.Service
	participants *participantuc.Service
	survey       *surveyuc.Service
	health       *healthuc.Service
}

func loadConfig(opts *rootOptions) (config.Config, error) {
	if opts.configPath != "" {
		return config.LoadFile(opts.configPath)
	}
	return config.Load(opts.env)
}

// newApp loads configuration, connects to the store and wires services.
// overrides adjust the loaded configuration before wiring (CLI flags).
func newApp(ctx context.Context, opts *rootOptions, overrides ...func(*config.Config)) (*app, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	for _, o := range overrides {
		o(&cfg)
	}

	logger, err := logpkg.NewLogger(opts.env, cfg.Logging.Level, logpkg.FileOptions{
		Path:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	a := &app{env: opts.env, cfg: cfg, logger: logger}
	if err := a.wire(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) wire(ctx context.Context) error {
	cfg := a.cfg

	tp, err := tracing.Setup(ctx, tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		Endpoint:    cfg.Tracing.Endpoint,
		Insecure:    cfg.Tracing.Insecure,
		ServiceName: cfg.Tracing.ServiceName,
		Version:     version.Version,
		SampleRatio: cfg.Tracing.SampleRatio,
	}, a.logger)
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	a.tracing = tp

	// valkey and redis speak the same protocol; both go through rueidis.
	switch cfg.Database.Driver {
	case "valkey", "redis":
		a.store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:      cfg.Database.Addrs,
			Password:   cfg.Database.Password,
			ClientName: "pairwise",
		})
	default:
		return fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
	if err != nil {
		return fmt.Errorf("create database store: %w", err)
	}
	readiness := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
	if err := a.store.WaitForReady(ctx, readiness); err != nil {
		return fmt.Errorf("database not ready: %w", err)
	}

	metricsList, err := metric.ParseList(cfg.Survey.Metrics)
	if err != nil {
		return fmt.Errorf("survey metrics: %w", err)
	}
	policy, err := surveyuc.ParseExportPolicy(cfg.Survey.ExportIncomplete)
	if err != nil {
		return fmt.Errorf("survey export policy: %w", err)
	}

	metrics.RegisterSurveyMetrics()

	prefix := cfg.Storage.KeyPrefix
	samples := samplerepo.New(a.store).WithPrefix(prefix)
	users := userrepo.New(a.store).WithPrefix(prefix)
	judgments := judgmentrepo.New(a.store).WithPrefix(prefix)
	resolver := samplecache.New(samples, cfg.Survey.SampleCacheTTL(), metrics.SampleCacheTotal, a.logger)

	a.catalog = cataloguc.New(samples, resolver, resolver, os.DirFS(cfg.Survey.TasksDir), a.logger)
	a.participants = participantuc.New(users, resolver, a.logger)
	a.survey = surveyuc.New(resolver, users, judgments, a.logger).WithOptions(surveyuc.Options{
		Metrics:           metricsList,
		MaxRatio:          cfg.Survey.MaxRatio,
		ExportPolicy:      policy,
		ExportConcurrency: cfg.Survey.ExportConcurrency,
	})
	a.health = healthuc.New(a.store, a.catalog)
	return nil
}

// Close releases the store and flushes spans and logs.
func (a *app) Close() {
	if a.store != nil {
		a.store.Close()
	}
	if a.tracing != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.tracing.Shutdown(ctx); err != nil {
			a.logger.Warn("tracing shutdown", zap.Error(err))
		}
		cancel()
	}
	_ = a.logger.Sync()
}
