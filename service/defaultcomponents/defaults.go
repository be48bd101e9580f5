// Copyright The Telepipe Authors
// SPDX-License-Identifier: Apache-2.0

// Package defaultcomponents registers the components shipped with the
// default distribution binary.
package defaultcomponents

import (
	"go.uber.org/multierr"

	"github.com/telepipe/telepipe/component"
	"github.com/telepipe/telepipe/exporter/loggingexporter"
	"github.com/telepipe/telepipe/exporter/otlphttpexporter"
	"github.com/telepipe/telepipe/processor/attributesprocessor"
	"github.com/telepipe/telepipe/processor/batchprocessor"
	"github.com/telepipe/telepipe/processor/filterprocessor"
	"github.com/telepipe/telepipe/processor/probabilisticsamplerprocessor"
	"github.com/telepipe/telepipe/receiver/otlpreceiver"
)

// Components returns the factories of the default distribution.
func Components() (component.Factories, error) {
	var errs error

	receivers, err := component.MakeReceiverFactoryMap(
		otlpreceiver.NewFactory(),
	)
	errs = multierr.Append(errs, err)

	processors, err := component.MakeProcessorFactoryMap(
		batchprocessor.NewFactory(),
		filterprocessor.NewFactory(),
		attributesprocessor.NewFactory(),
		probabilisticsamplerprocessor.NewFactory(),
	)
	errs = multierr.Append(errs, err)

	exporters, err := component.MakeExporterFactoryMap(
		otlphttpexporter.NewFactory(),
		loggingexporter.NewFactory(),
	)
	errs = multierr.Append(errs, err)

	return component.Factories{
		Receivers:  receivers,
		Processors: processors,
		Exporters:  exporters,
	}, errs
}
