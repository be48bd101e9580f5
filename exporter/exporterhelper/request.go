// Copyright The Telepipe Authors
// SPDX-License-Identifier: Apache-2.0

package exporterhelper

import (
	"context"

	"github.com/google/uuid"

	"github.com/telepipe/telepipe/model/pdata"
)

// request is one batch in flight toward a sink. A request moves through the
// sender chain: queued (Pending), exported (Sending), and either delivered,
// re-queued by the retry sender (Retrying), or dropped (Failed).
type request interface {
	// context returns the ingest context the batch was accepted under.
	context() context.Context

	// setContext replaces the request context; used to detach a queued
	// batch from the ingress request's cancellation.
	setContext(ctx context.Context)

	// count returns the number of items in the batch.
	count() int

	// signal returns the signal name, for metric labels.
	signal() string

	// export performs one delivery attempt.
	export(ctx context.Context) error
}

type baseRequest struct {
	ctx context.Context

	// key identifies the batch across retries so a sink can deduplicate
	// redelivery; it is minted once when the batch enters the exporter
	// and never changes.
	key string
}

func newBaseRequest(ctx context.Context) baseRequest {
	return baseRequest{ctx: ctx, key: uuid.NewString()}
}

func (req *baseRequest) context() context.Context { return req.ctx }

func (req *baseRequest) setContext(ctx context.Context) { req.ctx = ctx }

type idempotencyKeyCtx struct{}

// withIdempotencyKey attaches the batch's idempotency key ahead of a push
// call.
func withIdempotencyKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, idempotencyKeyCtx{}, key)
}

// IdempotencyKeyFromContext returns the idempotency key of the batch being
// pushed. Sinks forward it so the destination can deduplicate retries; it is
// stable across all attempts for one batch.
func IdempotencyKeyFromContext(ctx context.Context) string {
	key, _ := ctx.Value(idempotencyKeyCtx{}).(string)
	return key
}

// PushTraces sends one traces batch to the sink.
type PushTraces func(ctx context.Context, td pdata.Traces) error

// PushMetrics sends one metrics batch to the sink.
type PushMetrics func(ctx context.Context, md pdata.Metrics) error

// PushLogs sends one logs batch to the sink.
type PushLogs func(ctx context.Context, ld pdata.Logs) error

type tracesRequest struct {
	baseRequest
	td     pdata.Traces
	pusher PushTraces
}

func (req *tracesRequest) count() int     { return req.td.SpanCount() }
func (req *tracesRequest) signal() string { return "traces" }

func (req *tracesRequest) export(ctx context.Context) error {
	return req.pusher(withIdempotencyKey(ctx, req.key), req.td)
}

type metricsRequest struct {
	baseRequest
	md     pdata.Metrics
	pusher PushMetrics
}

func (req *metricsRequest) count() int     { return req.md.DataPointCount() }
func (req *metricsRequest) signal() string { return "metrics" }

func (req *metricsRequest) export(ctx context.Context) error {
	return req.pusher(withIdempotencyKey(ctx, req.key), req.md)
}

type logsRequest struct {
	baseRequest
	ld     pdata.Logs
	pusher PushLogs
}

func (req *logsRequest) count() int     { return req.ld.LogRecordCount() }
func (req *logsRequest) signal() string { return "logs" }

func (req *logsRequest) export(ctx context.Context) error {
	return req.pusher(withIdempotencyKey(ctx, req.key), req.ld)
}
