// Copyright The Telepipe Authors
// SPDX-License-Identifier: Apache-2.0

package otlphttpexporter

import (
	"context"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/telepipe/telepipe/component"
	"github.com/telepipe/telepipe/consumer/consumererror"
	"github.com/telepipe/telepipe/exporter/exporterhelper"
	"github.com/telepipe/telepipe/internal/testdata"
	"github.com/telepipe/telepipe/model/otlpjson"
	"github.com/telepipe/telepipe/obsreport"
)

type recordedRequest struct {
	path           string
	contentType    string
	idempotencyKey string
	authorization  string
	spanCount      int
}

type sinkServer struct {
	mu       sync.Mutex
	requests []recordedRequest
	status   int
	headers  map[string]string
}

func (s *sinkServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rec := recordedRequest{
		path:           r.URL.Path,
		contentType:    r.Header.Get("Content-Type"),
		idempotencyKey: r.Header.Get("X-Idempotency-Key"),
		authorization:  r.Header.Get("Authorization"),
	}
	if r.URL.Path == "/v1/traces" {
		body, _ := ioutil.ReadAll(r.Body)
		if td, err := otlpjson.UnmarshalTraces(body); err == nil {
			rec.spanCount = td.SpanCount()
		}
	}
	s.mu.Lock()
	s.requests = append(s.requests, rec)
	s.mu.Unlock()

	for k, v := range s.headers {
		w.Header().Set(k, v)
	}
	w.WriteHeader(s.status)
	_, _ = w.Write([]byte(`{"partialSuccess":{"rejectedItems":0}}`))
}

func (s *sinkServer) all() []recordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]recordedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

func testHelperSettings() component.TelemetrySettings {
	return component.TelemetrySettings{Logger: zap.NewNop(), Metrics: obsreport.New()}
}

func newTestExporter(t *testing.T, endpoint string, mutate ...func(*Config)) *exporter {
	cfg := createDefaultConfig()
	cfg.Endpoint = endpoint
	cfg.Timeout = 5 * time.Second
	for _, m := range mutate {
		m(cfg)
	}
	e, err := newExporter(cfg, zap.NewNop())
	require.NoError(t, err)
	return e
}

func TestPushTraces(t *testing.T) {
	sink := &sinkServer{status: http.StatusOK}
	srv := httptest.NewServer(sink)
	defer srv.Close()

	e := newTestExporter(t, srv.URL, func(cfg *Config) {
		cfg.Headers = map[string]string{"Authorization": "Bearer secret"}
	})

	require.NoError(t, e.pushTraces(context.Background(), testdata.GenerateTraces(3)))

	reqs := sink.all()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/v1/traces", reqs[0].path)
	assert.Equal(t, "application/json", reqs[0].contentType)
	assert.Equal(t, "Bearer secret", reqs[0].authorization)
	assert.Equal(t, 3, reqs[0].spanCount)
}

func TestPushRoutesPerSignal(t *testing.T) {
	sink := &sinkServer{status: http.StatusOK}
	srv := httptest.NewServer(sink)
	defer srv.Close()

	e := newTestExporter(t, srv.URL)
	require.NoError(t, e.pushMetrics(context.Background(), testdata.GenerateMetrics(1)))
	require.NoError(t, e.pushLogs(context.Background(), testdata.GenerateLogs(1)))

	reqs := sink.all()
	require.Len(t, reqs, 2)
	assert.Equal(t, "/v1/metrics", reqs[0].path)
	assert.Equal(t, "/v1/logs", reqs[1].path)
}

func TestIdempotencyKeyHeader(t *testing.T) {
	sink := &sinkServer{status: http.StatusOK}
	srv := httptest.NewServer(sink)
	defer srv.Close()

	e := newTestExporter(t, srv.URL)

	// The helper attaches the key via context; the exporter forwards it as
	// a header.
	exp, err := exporterhelper.NewTracesExporter(
		testHelperSettings(), "otlphttp",
		e.cfg.helperSettings(), e.pushTraces)
	require.NoError(t, err)
	require.NoError(t, exp.Start(context.Background(), nil))
	require.NoError(t, exp.ConsumeTraces(context.Background(), testdata.GenerateTraces(1)))

	require.Eventually(t, func() bool {
		return len(sink.all()) == 1
	}, 5*time.Second, time.Millisecond)
	assert.NotEmpty(t, sink.all()[0].idempotencyKey)
	require.NoError(t, exp.Shutdown(context.Background()))
}

func TestStatusThrottled(t *testing.T) {
	sink := &sinkServer{status: http.StatusTooManyRequests, headers: map[string]string{"Retry-After": "30"}}
	srv := httptest.NewServer(sink)
	defer srv.Close()

	err := newTestExporter(t, srv.URL).pushTraces(context.Background(), testdata.GenerateTraces(1))
	require.Error(t, err)
	assert.True(t, consumererror.IsThrottle(err))
	assert.Equal(t, 30*time.Second, consumererror.ThrottleDelay(err))
}

func TestStatusThrottledWithoutHint(t *testing.T) {
	sink := &sinkServer{status: http.StatusServiceUnavailable}
	srv := httptest.NewServer(sink)
	defer srv.Close()

	err := newTestExporter(t, srv.URL).pushTraces(context.Background(), testdata.GenerateTraces(1))
	require.Error(t, err)
	assert.True(t, consumererror.IsThrottle(err))
	assert.Equal(t, defaultThrottleDelay, consumererror.ThrottleDelay(err))
}

func TestStatusTransient(t *testing.T) {
	sink := &sinkServer{status: http.StatusInternalServerError}
	srv := httptest.NewServer(sink)
	defer srv.Close()

	err := newTestExporter(t, srv.URL).pushTraces(context.Background(), testdata.GenerateTraces(1))
	require.Error(t, err)
	assert.False(t, consumererror.IsPermanent(err))
	assert.False(t, consumererror.IsThrottle(err))
}

func TestStatusPermanent(t *testing.T) {
	sink := &sinkServer{status: http.StatusBadRequest}
	srv := httptest.NewServer(sink)
	defer srv.Close()

	err := newTestExporter(t, srv.URL).pushTraces(context.Background(), testdata.GenerateTraces(1))
	require.Error(t, err)
	assert.True(t, consumererror.IsPermanent(err))
}

func TestNetworkErrorTransient(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // connection refused from here on

	err := newTestExporter(t, srv.URL).pushTraces(context.Background(), testdata.GenerateTraces(1))
	require.Error(t, err)
	assert.False(t, consumererror.IsPermanent(err))
}

func TestConfigValidate(t *testing.T) {
	cfg := createDefaultConfig()
	assert.Error(t, cfg.Validate(), "endpoint is required")

	cfg.Endpoint = "http://backend:4318"
	assert.NoError(t, cfg.Validate())

	cfg.QueueSettings.QueueSize = -1
	assert.Error(t, cfg.Validate())
}
