// Copyright The Telepipe Authors
// SPDX-License-Identifier: Apache-2.0

// Package consumer defines the interfaces through which telemetry moves
// between pipeline stages. A receiver pushes into the first consumer of a
// pipeline; each processor wraps the next consumer; exporters are the final
// consumers.
package consumer

import (
	"context"

	"github.com/telepipe/telepipe/model/pdata"
)

// Capabilities describes what a consumer does with the data it receives.
type Capabilities struct {
	// MutatesData is set if the consumer modifies the containers passed to
	// it. Upstream fan-out uses this to decide whether a clone is needed.
	MutatesData bool
}

type baseConsumer interface {
	Capabilities() Capabilities
}

// Traces receives trace containers.
type Traces interface {
	baseConsumer
	ConsumeTraces(ctx context.Context, td pdata.Traces) error
}

// Metrics receives metric containers.
type Metrics interface {
	baseConsumer
	ConsumeMetrics(ctx context.Context, md pdata.Metrics) error
}

// Logs receives log containers.
type Logs interface {
	baseConsumer
	ConsumeLogs(ctx context.Context, ld pdata.Logs) error
}
