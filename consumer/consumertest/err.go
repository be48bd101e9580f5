// Copyright The Telepipe Authors
// SPDX-License-Identifier: Apache-2.0

package consumertest

import (
	"context"

	"github.com/telepipe/telepipe/consumer"
	"github.com/telepipe/telepipe/model/pdata"
)

type errConsumer struct {
	err error
}

// NewErr returns a consumer for all signals that always fails with the given
// error.
func NewErr(err error) *Consumer {
	return &Consumer{errConsumer{err: err}}
}

// NewNop returns a consumer for all signals that accepts and discards
// everything.
func NewNop() *Consumer {
	return &Consumer{errConsumer{}}
}

// Consumer implements consumer.Traces, consumer.Metrics and consumer.Logs.
type Consumer struct {
	errConsumer
}

func (e errConsumer) Capabilities() consumer.Capabilities {
	return consumer.Capabilities{}
}

func (e errConsumer) ConsumeTraces(context.Context, pdata.Traces) error {
	return e.err
}

func (e errConsumer) ConsumeMetrics(context.Context, pdata.Metrics) error {
	return e.err
}

func (e errConsumer) ConsumeLogs(context.Context, pdata.Logs) error {
	return e.err
}
