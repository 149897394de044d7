package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	apiserver "github.com/applytrack/applytrack/internal/api_server"
	"github.com/applytrack/applytrack/internal/config"
	"github.com/applytrack/applytrack/internal/events"
	"github.com/applytrack/applytrack/internal/store"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the applytrack api",
	RunE: func(cmd *cobra.Command, args []string) error {
		defer zap.S().Info("API service stopped")

		cfg, err := config.New()
		if err != nil {
			zap.S().Fatalw("reading configuration", "error", err)
		}

		logger, undo := initLogger(cfg)
		defer func() { _ = logger.Sync() }()
		defer undo()

		zap.S().Info("Starting API service...")
		zap.S().Infow("Using config", "db_type", cfg.Database.Type, "address", cfg.Service.Address, "auth", cfg.Service.Auth.AuthenticationType)

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGQUIT)
		defer cancel()

		zap.S().Info("Initializing data store")
		s, err := store.NewStoreFromConfig(ctx, cfg)
		if err != nil {
			zap.S().Fatalw("initializing data store", "error", err)
		}
		defer func() { _ = s.Close() }()

		if err := s.InitialMigration(ctx); err != nil {
			zap.S().Fatalw("running initial migration", "error", err)
		}

		producer := events.NewEventProducer(newEventWriter(cfg.Service.EventsWriter))
		defer func() { _ = producer.Close() }()

		go func() {
			defer cancel()
			listener, err := newListener(cfg.Service.Address)
			if err != nil {
				zap.S().Fatalw("creating listener", "error", err)
			}

			server := apiserver.New(cfg, s, listener).WithEventWriter(producer)
			if err := server.Run(ctx); err != nil {
				zap.S().Fatalw("Error running server", "error", err)
			}
		}()

		go func() {
			defer cancel()
			listener, err := newListener(cfg.Service.MetricsAddress)
			if err != nil {
				zap.S().Fatalw("creating listener", "error", err)
			}

			metricsServer := apiserver.NewMetricServer(cfg.Service.MetricsAddress, listener, s, cfg.Service.MetricsInterval)
			if err := metricsServer.Run(ctx); err != nil {
				zap.S().Fatalw("failed to run metrics server", "error", err)
			}
		}()

		<-ctx.Done()
		return nil
	},
}

func newEventWriter(kind string) events.Writer {
	switch kind {
	case "stdout":
		return &events.StdoutWriter{}
	default:
		return events.NoopWriter{}
	}
}

func newListener(address string) (net.Listener, error) {
	if address == "" {
		address = "localhost:0"
	}
	return net.Listen("tcp", address)
}
