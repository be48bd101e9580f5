// Copyright The Telepipe Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/telepipe/telepipe/config"
	"github.com/telepipe/telepipe/obsreport"
)

// newLogger builds the service logger from the telemetry config section.
func newLogger(cfg config.TelemetryLogs) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		var err error
		level, err = zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid telemetry log level %q: %w", cfg.Level, err)
		}
	}
	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	return zapCfg.Build()
}

// telemetryServer serves the pipeline's own metrics in Prometheus format.
type telemetryServer struct {
	server *http.Server
}

// start begins serving /metrics on the configured address. An empty address
// disables the endpoint.
func (ts *telemetryServer) start(cfg config.TelemetryMetrics, tel *obsreport.Telemetry, logger *zap.Logger, asyncErrorChannel chan<- error) error {
	if cfg.Address == "" {
		return nil
	}
	ln, err := net.Listen("tcp", cfg.Address)
	if err != nil {
		return fmt.Errorf("cannot listen on telemetry address %q: %w", cfg.Address, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(tel.Registry(), promhttp.HandlerOpts{}))
	ts.server = &http.Server{Handler: mux}

	logger.Info("Serving telemetry metrics", zap.String("address", cfg.Address))
	go func() {
		if err := ts.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			asyncErrorChannel <- err
		}
	}()
	return nil
}

func (ts *telemetryServer) shutdown(ctx context.Context) error {
	if ts.server == nil {
		return nil
	}
	return ts.server.Shutdown(ctx)
}
