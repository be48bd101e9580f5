// Copyright The Telepipe Authors
// SPDX-License-Identifier: Apache-2.0

// Package probabilisticsamplerprocessor retains a pseudo-random subset of
// spans, keyed by trace ID, so that every span of a trace receives the same
// sampling decision regardless of which batch or process it arrives in.
package probabilisticsamplerprocessor

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/fnv"

	"github.com/telepipe/telepipe/component"
	"github.com/telepipe/telepipe/consumer"
	"github.com/telepipe/telepipe/model/pdata"
	"github.com/telepipe/telepipe/obsreport"
)

// The hash is reduced to numHashBuckets buckets; the sampling percentage is
// scaled to a bucket threshold. 2^14 buckets keeps the quantization error of
// the configured percentage below 0.01%.
const (
	numHashBuckets     = 0x4000
	bitMaskHashBuckets = numHashBuckets - 1

	percentageScaleFactor = numHashBuckets / 100.0
)

// Config defines configuration for the probabilistic sampler.
type Config struct {
	// SamplingPercentage is the percentage of traces to keep, 0..100.
	SamplingPercentage float64 `mapstructure:"sampling_percentage"`

	// HashSeed salts the trace-id hash. All collectors of one tier must
	// share a seed for their decisions to agree; different tiers can use
	// different seeds to decorrelate their samples.
	HashSeed uint32 `mapstructure:"hash_seed"`
}

// Validate checks the processor configuration.
func (cfg *Config) Validate() error {
	if cfg.SamplingPercentage < 0 || cfg.SamplingPercentage > 100 {
		return fmt.Errorf("sampling_percentage %v must be in [0, 100]", cfg.SamplingPercentage)
	}
	return nil
}

type samplerProcessor struct {
	scaledSamplingRate uint32
	hashSeed           uint32
	obsproc            *obsreport.ProcessorMetrics
	next               consumer.Traces
}

var _ component.TracesProcessor = (*samplerProcessor)(nil)

const typeStr = "probabilistic_sampler"

// NewFactory returns the factory for the probabilistic sampler processor.
// The sampler applies to traces only.
func NewFactory() component.ProcessorFactory {
	return component.ProcessorFactory{
		Type: typeStr,
		CreateDefaultConfig: func() component.Config {
			return &Config{SamplingPercentage: 100}
		},
		CreateTraces: createTraces,
	}
}

func createTraces(set component.TelemetrySettings, name string, cfg component.Config, next consumer.Traces) (component.TracesProcessor, error) {
	sCfg, ok := cfg.(*Config)
	if !ok {
		return nil, errors.New("configuration is not a probabilistic sampler config")
	}
	return &samplerProcessor{
		// Adjust the sampling percentage to the bucket space so the
		// comparison against the hash is a single integer compare.
		scaledSamplingRate: uint32(sCfg.SamplingPercentage * percentageScaleFactor),
		hashSeed:           sCfg.HashSeed,
		obsproc:            set.Metrics.Processor(name),
		next:               next,
	}, nil
}

func (sp *samplerProcessor) Capabilities() consumer.Capabilities {
	return consumer.Capabilities{MutatesData: true}
}

func (sp *samplerProcessor) Start(context.Context, component.Host) error { return nil }
func (sp *samplerProcessor) Shutdown(context.Context) error              { return nil }

func (sp *samplerProcessor) ConsumeTraces(ctx context.Context, td pdata.Traces) error {
	dropped := 0
	for _, rs := range td.ResourceSpans {
		for _, ss := range rs.ScopeSpans {
			kept := ss.Spans[:0]
			for _, span := range ss.Spans {
				if sp.shouldSample(span.TraceID) {
					kept = append(kept, span)
					continue
				}
				dropped++
			}
			ss.Spans = kept
		}
	}
	if dropped > 0 {
		sp.obsproc.Dropped(component.SignalTraces, obsreport.ReasonSampled, dropped)
	}
	if td.SpanCount() == 0 {
		return nil
	}
	return sp.next.ConsumeTraces(ctx, td)
}

// shouldSample is deterministic for a given (trace id, seed, percentage):
// repeated runs and sibling spans of one trace always agree.
func (sp *samplerProcessor) shouldSample(tid pdata.TraceID) bool {
	return computeHash(tid.Bytes(), sp.hashSeed)&bitMaskHashBuckets < sp.scaledSamplingRate
}

func computeHash(b []byte, seed uint32) uint32 {
	h := fnv.New32a()
	var seedBytes [4]byte
	binary.LittleEndian.PutUint32(seedBytes[:], seed)
	// Hash.Write never returns an error.
	_, _ = h.Write(seedBytes[:])
	_, _ = h.Write(b)
	return h.Sum32()
}
