// Copyright The Telepipe Authors
// SPDX-License-Identifier: Apache-2.0

// Package otlpreceiver ingests telemetry over HTTP. Each signal has its own
// route accepting one JSON-encoded container per POST. Decoding is stateless
// and per-request; a malformed payload is rejected with a client-visible
// error without affecting other in-flight requests.
package otlpreceiver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/telepipe/telepipe/component"
	"github.com/telepipe/telepipe/obsreport"
)

type otlpReceiver struct {
	cfg      *Config
	settings component.TelemetrySettings
	next     component.NextConsumers

	logger  *zap.Logger
	obsrecv *obsreport.ReceiverMetrics

	server     *http.Server
	listener   net.Listener
	shutdownWG sync.WaitGroup
}

var _ component.Receiver = (*otlpReceiver)(nil)

func newReceiver(cfg *Config, set component.TelemetrySettings, name string, next component.NextConsumers) *otlpReceiver {
	return &otlpReceiver{
		cfg:      cfg,
		settings: set,
		next:     next,
		logger:   set.Logger,
		obsrecv:  set.Metrics.Receiver(name),
	}
}

// Start opens the configured endpoint and begins serving. Serving errors
// after a successful start are reported through the host.
func (r *otlpReceiver) Start(_ context.Context, host component.Host) error {
	router := mux.NewRouter()
	router.HandleFunc("/v1/traces", r.handleTraces).Methods(http.MethodPost)
	router.HandleFunc("/v1/metrics", r.handleMetrics).Methods(http.MethodPost)
	router.HandleFunc("/v1/logs", r.handleLogs).Methods(http.MethodPost)

	listener, err := r.cfg.HTTP.ToListener()
	if err != nil {
		return err
	}
	r.listener = listener
	r.server = r.cfg.HTTP.ToServer(router)

	r.shutdownWG.Add(1)
	go func() {
		defer r.shutdownWG.Done()
		if errHTTP := r.server.Serve(listener); errHTTP != nil && !errors.Is(errHTTP, http.ErrServerClosed) {
			host.ReportFatalError(errHTTP)
		}
	}()
	return nil
}

// Shutdown stops accepting new connections and waits for in-flight requests,
// bounded by ctx.
func (r *otlpReceiver) Shutdown(ctx context.Context) error {
	if r.server == nil {
		return nil
	}
	err := r.server.Shutdown(ctx)
	r.shutdownWG.Wait()
	return err
}
