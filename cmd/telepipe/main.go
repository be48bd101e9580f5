// Copyright The Telepipe Authors
// SPDX-License-Identifier: Apache-2.0

// Program telepipe is the default distribution of the telemetry pipeline.
package main

import (
	"log"

	"github.com/telepipe/telepipe/component"
	"github.com/telepipe/telepipe/service"
	"github.com/telepipe/telepipe/service/defaultcomponents"
)

var version = "dev"

func main() {
	factories, err := defaultcomponents.Components()
	if err != nil {
		log.Fatalf("failed to build default components: %v", err)
	}

	buildInfo := component.BuildInfo{
		Command: "telepipe",
		Version: version,
	}

	cmd := service.NewCommand(buildInfo, factories)
	if err := cmd.Execute(); err != nil {
		log.Fatalf("service failed: %v", err)
	}
}
