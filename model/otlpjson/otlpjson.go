// Copyright The Telepipe Authors
// SPDX-License-Identifier: Apache-2.0

// Package otlpjson implements the JSON wire encoding for telemetry
// containers. The same encoding is used on ingress (receiver request bodies)
// and egress (exporter request bodies).
package otlpjson

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/telepipe/telepipe/model/pdata"
)

// MarshalTraces encodes a Traces container to its wire form.
func MarshalTraces(td pdata.Traces) ([]byte, error) {
	return marshal(td)
}

// MarshalMetrics encodes a Metrics container to its wire form.
func MarshalMetrics(md pdata.Metrics) ([]byte, error) {
	return marshal(md)
}

// MarshalLogs encodes a Logs container to its wire form.
func MarshalLogs(ld pdata.Logs) ([]byte, error) {
	return marshal(ld)
}

// UnmarshalTraces decodes a Traces container from its wire form. Unknown
// fields are rejected so that malformed payloads surface as decode errors
// instead of silently dropping data.
func UnmarshalTraces(data []byte) (pdata.Traces, error) {
	var td pdata.Traces
	if err := unmarshal(data, &td); err != nil {
		return pdata.Traces{}, err
	}
	return td, nil
}

// UnmarshalMetrics decodes a Metrics container from its wire form.
func UnmarshalMetrics(data []byte) (pdata.Metrics, error) {
	var md pdata.Metrics
	if err := unmarshal(data, &md); err != nil {
		return pdata.Metrics{}, err
	}
	return md, nil
}

// UnmarshalLogs decodes a Logs container from its wire form.
func UnmarshalLogs(data []byte) (pdata.Logs, error) {
	var ld pdata.Logs
	if err := unmarshal(data, &ld); err != nil {
		return pdata.Logs{}, err
	}
	return ld, nil
}

func marshal(v interface{}) ([]byte, error) {
	out, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal telemetry: %w", err)
	}
	return out, nil
}

func unmarshal(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("failed to unmarshal telemetry: %w", err)
	}
	return nil
}
