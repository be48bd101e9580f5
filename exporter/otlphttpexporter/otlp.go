// Copyright The Telepipe Authors
// SPDX-License-Identifier: Apache-2.0

// Package otlphttpexporter forwards telemetry to a downstream HTTP sink in
// the same JSON encoding the receiver accepts. Delivery failures are
// classified for the retry sender: throttling responses carry the server's
// Retry-After hint, other server-side and network failures are transient,
// client-side rejections are permanent.
package otlphttpexporter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/telepipe/telepipe/consumer/consumererror"
	"github.com/telepipe/telepipe/exporter/exporterhelper"
	"github.com/telepipe/telepipe/model/otlpjson"
	"github.com/telepipe/telepipe/model/pdata"
)

const (
	headerRetryAfter     = "Retry-After"
	headerIdempotencyKey = "X-Idempotency-Key"

	defaultThrottleDelay = 10 * time.Second
)

type exporter struct {
	cfg    *Config
	client *http.Client
	logger *zap.Logger

	tracesURL  string
	metricsURL string
	logsURL    string
}

func newExporter(cfg *Config, logger *zap.Logger) (*exporter, error) {
	client, err := cfg.HTTPClientSettings.ToClient()
	if err != nil {
		return nil, err
	}
	return &exporter{
		cfg:        cfg,
		client:     client,
		logger:     logger,
		tracesURL:  cfg.Endpoint + "/v1/traces",
		metricsURL: cfg.Endpoint + "/v1/metrics",
		logsURL:    cfg.Endpoint + "/v1/logs",
	}, nil
}

func (e *exporter) pushTraces(ctx context.Context, td pdata.Traces) error {
	request, err := otlpjson.MarshalTraces(td)
	if err != nil {
		return consumererror.Permanent(err)
	}
	return e.export(ctx, e.tracesURL, request)
}

func (e *exporter) pushMetrics(ctx context.Context, md pdata.Metrics) error {
	request, err := otlpjson.MarshalMetrics(md)
	if err != nil {
		return consumererror.Permanent(err)
	}
	return e.export(ctx, e.metricsURL, request)
}

func (e *exporter) pushLogs(ctx context.Context, ld pdata.Logs) error {
	request, err := otlpjson.MarshalLogs(ld)
	if err != nil {
		return consumererror.Permanent(err)
	}
	return e.export(ctx, e.logsURL, request)
}

func (e *exporter) export(ctx context.Context, url string, request []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(request))
	if err != nil {
		return consumererror.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")
	// Stable across retries of one batch; lets the sink deduplicate
	// redelivery so retried batches are not double-counted.
	if key := exporterhelper.IdempotencyKeyFromContext(ctx); key != "" {
		req.Header.Set(headerIdempotencyKey, key)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		// Network-level failure, worth retrying.
		return fmt.Errorf("failed to make an HTTP request: %w", err)
	}
	defer func() {
		// Discard any remaining response body so the connection can be
		// reused.
		_, _ = io.Copy(ioutil.Discard, io.LimitReader(resp.Body, 1024))
		resp.Body.Close()
	}()

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}

	respErr := fmt.Errorf("error exporting items, request to %s responded with HTTP Status Code %d", url, resp.StatusCode)

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable:
		return consumererror.NewThrottleRetry(respErr, throttleDelay(resp))
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusRequestTimeout:
		return respErr
	default:
		// Remaining 4xx: the sink judged the batch malformed; a retry
		// would fail the same way.
		return consumererror.Permanent(respErr)
	}
}

func throttleDelay(resp *http.Response) time.Duration {
	if s := resp.Header.Get(headerRetryAfter); s != "" {
		if seconds, err := strconv.Atoi(s); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultThrottleDelay
}
