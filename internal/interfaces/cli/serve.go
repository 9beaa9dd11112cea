package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	appcompliance "github.com/quantnexusai/faves-v3-benchmark/internal/application/compliance"
	"github.com/quantnexusai/faves-v3-benchmark/internal/config"
	"github.com/quantnexusai/faves-v3-benchmark/internal/domain/pattern"
	"github.com/quantnexusai/faves-v3-benchmark/internal/infrastructure/database/redis"
	"github.com/quantnexusai/faves-v3-benchmark/internal/infrastructure/messaging/kafka"
	"github.com/quantnexusai/faves-v3-benchmark/internal/infrastructure/monitoring/logging"
	"github.com/quantnexusai/faves-v3-benchmark/internal/infrastructure/monitoring/prometheus"
	"github.com/quantnexusai/faves-v3-benchmark/internal/infrastructure/snapshot"
	httpiface "github.com/quantnexusai/faves-v3-benchmark/internal/interfaces/http"
	"github.com/quantnexusai/faves-v3-benchmark/internal/interfaces/http/handlers"
)

func newServeCmd(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the classification API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadEnvironment(opts)
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if opts.ConfigPath != "" {
				config.Watch(opts.ConfigPath, func(next *config.Config) {
					if err := logger.SetLevel(next.Log.Level); err != nil {
						logger.Warn("config change ignored", logging.Err(err))
						return
					}
					logger.Info("log level updated", logging.String("level", next.Log.Level))
				})
			}

			lib, err := buildLibrary(cfg)
			if err != nil {
				return err
			}
			matcher := pattern.NewMatcher(lib, pattern.MatcherOptions{
				Timeout:           cfg.Matcher.PatternTimeout,
				MaxCandidateAtoms: cfg.Matcher.MaxCandidateAtoms,
			})
			source, cleanup, err := buildSource(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			svcOpts := appcompliance.Options{Logger: logger}
			if cfg.Metrics.Enabled {
				svcOpts.Metrics = prometheus.NewMetrics()
			}
			if cfg.Redis.Enabled {
				client, err := redis.Connect(ctx, cfg.Redis, logger)
				if err != nil {
					return err
				}
				defer client.Close()
				svcOpts.Cache = redis.NewVerdictCache(client, cfg.Redis.KeyPrefix, cfg.Redis.DefaultTTL, logger)
			}
			if cfg.Kafka.Enabled {
				svcOpts.Audit = kafka.NewAuditProducer(cfg.Kafka, logger)
			}

			svc, err := appcompliance.NewService(ctx, source, matcher, lib, svcOpts)
			if err != nil {
				return err
			}
			defer svc.Close()

			if cfg.Snapshot.Watch && cfg.Snapshot.Source == "csv" {
				watcher, err := snapshot.NewWatcher(cfg.Snapshot.Dir, logger, func() {
					if _, err := svc.Reload(ctx); err != nil {
						logger.Error("snapshot reload failed", logging.Err(err))
					}
				})
				if err != nil {
					return err
				}
				go watcher.Run(ctx)
			}

			router := httpiface.NewRouter(httpiface.RouterConfig{
				ClassifyHandler: handlers.NewClassifyHandler(svc, logger),
				HealthHandler:   handlers.NewHealthHandler(svc),
				Logger:          logger,
				Metrics:         svcOpts.Metrics,
				MetricsPath:     cfg.Metrics.Path,
				Mode:            cfg.Server.Mode,
			})
			server := httpiface.NewServer(cfg.Server, router, logger)

			errCh := make(chan error, 1)
			go func() { errCh <- server.Start() }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}
			return server.Stop(context.Background())
		},
	}
}
