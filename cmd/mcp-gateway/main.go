// Command mcp-gateway runs the gateway over stdio or HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/contextworks/mcp-gateway/pkg/config"
	"github.com/contextworks/mcp-gateway/pkg/logging"
	"github.com/contextworks/mcp-gateway/pkg/observability"
	"github.com/contextworks/mcp-gateway/pkg/server"
	"github.com/contextworks/mcp-gateway/pkg/store"
	"github.com/contextworks/mcp-gateway/pkg/transport"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "mcp-gateway: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to a YAML config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	var formatter logging.Formatter
	if cfg.LogFormat == "json" {
		formatter = logging.NewJSONFormatter()
	}
	logger := logging.New(nil, formatter)
	logger.SetLevel(logging.ParseLevel(cfg.LogLevel))

	workspace, err := store.NewFileWorkspace(cfg.WorkspaceDir)
	if err != nil {
		return err
	}
	instructions, err := store.NewFileInstructions(cfg.InstructionsPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []server.Option{
		server.WithName(cfg.ServerName),
		server.WithVersion(cfg.ServerVersion),
		server.WithLogger(logger),
		server.WithWorkspace(workspace),
		server.WithInstructions(instructions),
		server.WithRateLimit(cfg.RateLimit, cfg.RateBurst),
		server.WithTransportConfig(transport.Config{
			Type:          transport.Type(cfg.Transport),
			HTTPAddr:      cfg.HTTPAddr,
			EnableMetrics: cfg.Metrics.Enabled,
			MetricsPath:   cfg.Metrics.Path,
			DevMode:       cfg.DevMode,
		}),
	}

	if cfg.Metrics.Enabled {
		opts = append(opts, server.WithMetrics(observability.NewMetrics(nil)))
	}

	if cfg.Tracing.Enabled {
		tracing, err := observability.NewTracing(ctx, observability.TracingConfig{
			ServiceName:    cfg.ServerName,
			ServiceVersion: cfg.ServerVersion,
			Endpoint:       cfg.Tracing.Endpoint,
			Insecure:       cfg.Tracing.Insecure,
			SampleRate:     cfg.Tracing.SampleRate,
		})
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(shutdownCtx); err != nil {
				logger.Warn("trace exporter shutdown failed", logging.Err(err))
			}
		}()
		opts = append(opts, server.WithTracing(tracing.Tracer()))
	}

	srv, err := server.New(opts...)
	if err != nil {
		return err
	}

	serveErr := srv.Serve(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown failed", logging.Err(err))
	}
	return serveErr
}
