// Copyright The Telepipe Authors
// SPDX-License-Identifier: Apache-2.0

// Package service assembles the configured pipelines into a runnable process:
// it builds every component from the factories, starts them in dependency
// order, serves the self-metrics endpoint and coordinates shutdown.
package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/telepipe/telepipe/component"
	"github.com/telepipe/telepipe/config"
	"github.com/telepipe/telepipe/obsreport"
)

const shutdownTimeout = 30 * time.Second

// Settings holds everything needed to assemble a Service.
type Settings struct {
	BuildInfo component.BuildInfo
	Factories component.Factories
	Config    *config.Config
}

// Service is one assembled and runnable pipeline process.
type Service struct {
	buildInfo component.BuildInfo
	cfg       *config.Config
	logger    *zap.Logger
	telemetry *obsreport.Telemetry

	built     *builtPipelines
	telServer *telemetryServer

	// asyncErrorChannel receives fatal errors from component background
	// work; Run treats the first one as a stop signal.
	asyncErrorChannel chan error
}

// serviceHost is the component.Host handed to every component.
type serviceHost struct {
	asyncErrorChannel chan<- error
}

func (h *serviceHost) ReportFatalError(err error) {
	h.asyncErrorChannel <- err
}

// New builds a Service from validated configuration. No component is started
// yet; any build error leaves nothing to clean up.
func New(set Settings) (*Service, error) {
	logger, err := newLogger(set.Config.Service.Telemetry.Logs)
	if err != nil {
		return nil, err
	}

	telemetry := obsreport.New()
	telSet := component.TelemetrySettings{
		Logger:    logger,
		Metrics:   telemetry,
		BuildInfo: set.BuildInfo,
	}

	built, err := buildPipelines(telSet, set.Config, set.Factories)
	if err != nil {
		return nil, fmt.Errorf("cannot build pipelines: %w", err)
	}

	return &Service{
		buildInfo:         set.BuildInfo,
		cfg:               set.Config,
		logger:            logger,
		telemetry:         telemetry,
		built:             built,
		telServer:         &telemetryServer{},
		asyncErrorChannel: make(chan error, 1),
	}, nil
}

// Logger returns the service logger.
func (s *Service) Logger() *zap.Logger { return s.logger }

// Start brings the service up back to front: exporters first, then
// processors, then receivers, so a component never receives data before its
// downstream is ready. The first failure aborts the start; components already
// started are shut down.
func (s *Service) Start(ctx context.Context) error {
	s.logger.Info("Starting service",
		zap.String("version", s.buildInfo.Version))

	host := &serviceHost{asyncErrorChannel: s.asyncErrorChannel}

	if err := s.startComponents(ctx, host, s.built.exporters, "exporter"); err != nil {
		s.shutdownWithTimeout()
		return err
	}
	if err := s.startComponents(ctx, host, s.built.processors, "processor"); err != nil {
		s.shutdownWithTimeout()
		return err
	}
	if err := s.startComponents(ctx, host, s.built.receivers, "receiver"); err != nil {
		s.shutdownWithTimeout()
		return err
	}

	if err := s.telServer.start(s.cfg.Service.Telemetry.Metrics, s.telemetry, s.logger, s.asyncErrorChannel); err != nil {
		s.shutdownWithTimeout()
		return err
	}

	s.logger.Info("Service started")
	return nil
}

func (s *Service) startComponents(ctx context.Context, host component.Host, comps []builtComponent, kind string) error {
	for _, bc := range comps {
		s.logger.Info("Starting component",
			zap.String("kind", kind), zap.String("name", bc.name))
		if err := bc.comp.Start(ctx, host); err != nil {
			return fmt.Errorf("cannot start %s %q: %w", kind, bc.name, err)
		}
	}
	return nil
}

// Shutdown tears the service down front to back: receivers stop accepting,
// processors flush what they hold, exporters drain their queues, then the
// telemetry endpoint closes. Every component is shut down even if earlier
// ones fail; errors are aggregated.
func (s *Service) Shutdown(ctx context.Context) error {
	s.logger.Info("Stopping service")

	var errs error
	errs = multierr.Append(errs, s.shutdownComponents(ctx, s.built.receivers, "receiver"))
	errs = multierr.Append(errs, s.shutdownComponents(ctx, s.built.processors, "processor"))
	errs = multierr.Append(errs, s.shutdownComponents(ctx, s.built.exporters, "exporter"))
	errs = multierr.Append(errs, s.telServer.shutdown(ctx))

	s.logger.Info("Service stopped")
	return errs
}

func (s *Service) shutdownComponents(ctx context.Context, comps []builtComponent, kind string) error {
	var errs error
	for _, bc := range comps {
		if err := bc.comp.Shutdown(ctx); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("cannot shut down %s %q: %w", kind, bc.name, err))
		}
	}
	return errs
}

func (s *Service) shutdownWithTimeout() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		s.logger.Error("Shutdown after failed start reported errors", zap.Error(err))
	}
}

// Run starts the service and blocks until ctx is cancelled or a component
// reports a fatal error, then shuts down.
func (s *Service) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}

	var runErr error
	select {
	case err := <-s.asyncErrorChannel:
		s.logger.Error("Fatal error reported, shutting down", zap.Error(err))
		runErr = err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return multierr.Append(runErr, s.Shutdown(shutdownCtx))
}
