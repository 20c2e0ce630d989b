// File: cmd/nanonet/main.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// nanonet runs a bridge over the selected networking core and logs every
// delivered event. With metrics enabled it serves /metrics for Prometheus.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"

	"github.com/momentics/nanonet/api"
	"github.com/momentics/nanonet/config"
	"github.com/momentics/nanonet/facade"
	"github.com/momentics/nanonet/gocore"
	"github.com/momentics/nanonet/internal/logger"
	"github.com/momentics/nanonet/native"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flagSet := pflag.NewFlagSet("nanonet", pflag.ContinueOnError)
	configPath := flagSet.String("config", "", "path to configuration file (default: ./nanonet.yaml if present)")
	address := flagSet.String("address", "", "listen address (IP literal)")
	port := flagSet.Uint16("port", 0, "listen port")
	logLevel := flagSet.String("log-level", "", "log level: DEBUG, INFO, WARN, ERROR")
	coreType := flagSet.String("core", "", "networking core: go or native")
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if flagSet.Changed("address") {
		cfg.Server.Address = *address
	}
	if flagSet.Changed("port") {
		cfg.Server.Port = *port
	}
	if flagSet.Changed("log-level") {
		cfg.Logging.Level = *logLevel
	}
	if flagSet.Changed("core") {
		cfg.Core.Type = *coreType
	}
	config.ApplyDefaults(cfg)
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	log, closeLog, err := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	if err != nil {
		return err
	}
	defer closeLog()

	core, err := newCore(cfg, log)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	opts := []facade.Option{
		facade.WithCore(core),
		facade.WithLogger(log),
		facade.WithDispatchCPU(cfg.Dispatch.CPU),
		facade.WithShutdownTimeout(cfg.Server.ShutdownTimeout),
	}
	if cfg.Dispatch.RecycleBuffers {
		opts = append(opts, facade.WithBufferRecycling())
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, facade.WithMetrics(registry), facade.WithMetricsNamespace(cfg.Metrics.Namespace))
	}

	bridge, err := facade.New(cfg.Server.Address, cfg.Server.Port, logEvents(log), opts...)
	if err != nil {
		return fmt.Errorf("failed to start bridge: %w", err)
	}

	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		metricsServer = serveMetrics(cfg.Metrics.Listen, registry, log)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runErr := make(chan error, 1)
	go func() { runErr <- bridge.Run() }()

	select {
	case <-ctx.Done():
		log.Info("signal received, shutting down")
	case err := <-runErr:
		if err != nil {
			log.Error("core stopped", "error", err)
		} else {
			log.Warn("core returned without shutdown")
		}
	}

	shutdownErr := bridge.Shutdown()
	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			log.Warn("metrics server shutdown failed", "error", err)
		}
	}
	log.Info("nanonet stopped", "stats", bridge.Stats())
	return shutdownErr
}

func newCore(cfg *config.Config, log *slog.Logger) (api.Core, error) {
	switch cfg.Core.Type {
	case config.CoreNative:
		return native.NewCore(native.WithLogger(log))
	default:
		opts, err := cfg.Core.GoOptions()
		if err != nil {
			return nil, err
		}
		return gocore.New(opts, gocore.WithLogger(log)), nil
	}
}

func logEvents(log *slog.Logger) api.Handler {
	return func(conn api.ConnectionHandle, data []byte) {
		log.Debug("event", "conn", conn.String(), "bytes", len(data))
	}
}

func serveMetrics(listen string, reg *prometheus.Registry, log *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Addr: listen, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info("metrics listening", "addr", listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed", "error", err)
		}
	}()
	return srv
}
