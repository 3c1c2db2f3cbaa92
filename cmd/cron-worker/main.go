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

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agentops/licensetrack/internal/app"
	"github.com/agentops/licensetrack/internal/cron"
	"github.com/agentops/licensetrack/pkg/config"
	"github.com/agentops/licensetrack/pkg/db"
	"github.com/agentops/licensetrack/pkg/instance"
	"github.com/agentops/licensetrack/pkg/logger"
	"github.com/agentops/licensetrack/pkg/metrics"
	"github.com/agentops/licensetrack/pkg/migrate"
	"github.com/agentops/licensetrack/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       cfg.App.LogLevel,
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	services, err := app.BuildServices(cfg, logg, dbClient, metrics.NewImportMetrics(prometheus.DefaultRegisterer))
	if err != nil {
		logg.Error(context.Background(), "failed to build services", err)
		os.Exit(1)
	}

	registry, err := buildRegistry(logg, services)
	if err != nil {
		logg.Error(context.Background(), "failed to register cron jobs", err)
		os.Exit(1)
	}

	lock, err := cron.NewRedisLock(redisClient, lockKey(redisClient, cfg.App.Env), cfg.Cron.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"instance": instance.GetID(),
		"interval": cfg.Cron.Interval.String(),
	})

	if cfg.Cron.MetricsAddr != "" {
		metricsServer := serveMetrics(ctx, logg, cfg.Cron.MetricsAddr)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			_ = metricsServer.Shutdown(shutdownCtx)
		}()
	}

	if cfg.Cron.RunOnce {
		logg.Info(ctx, "running single cron cycle")
		report, err := service.RunOnce(ctx)
		if err == nil {
			err = report.Err()
		}
		if err != nil {
			logg.Error(ctx, "cron cycle failed", err)
			os.Exit(1)
		}
		return
	}

	logg.Info(ctx, "starting cron worker")
	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

func serveMetrics(ctx context.Context, logg *logger.Logger, addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		logg.Info(logg.WithField(ctx, "addr", addr), "worker metrics listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "worker metrics server failed", err)
		}
	}()
	return server
}

// buildRegistry registers the needed-states job and, when the directory is
// configured, the licensing refresh that runs before it.
func buildRegistry(logg *logger.Logger, services *app.Services) (*cron.Registry, error) {
	registry := &cron.Registry{}

	if services.Licensing != nil {
		refresh, err := cron.NewLicensingRefreshJob(cron.LicensingRefreshJobParams{
			Logger:   logg,
			Salesmen: services.SalesmenRepo,
			Importer: services.Licensing,
		})
		if err != nil {
			return nil, fmt.Errorf("licensing refresh job: %w", err)
		}
		if err := registry.Register(refresh); err != nil {
			return nil, err
		}
	} else {
		logg.Warn(context.Background(), "directory credentials not configured, licensing refresh disabled")
	}

	needed, err := cron.NewNeededStatesJob(cron.NeededStatesJobParams{
		Logger:   logg,
		Salesmen: services.SalesmenRepo,
		Updater:  services.Salesmen,
	})
	if err != nil {
		return nil, fmt.Errorf("needed states job: %w", err)
	}
	if err := registry.Register(needed); err != nil {
		return nil, err
	}
	return registry, nil
}

func lockKey(client *redis.Client, env string) string {
	if env == "" {
		env = "local"
	}
	return client.LockKey(cron.LockName + ":" + env)
}
