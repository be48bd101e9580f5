// Copyright The Telepipe Authors
// SPDX-License-Identifier: Apache-2.0

// Package pdata defines the in-memory representation of telemetry data as it
// moves through the pipeline. Data is grouped by the emitting Resource, then
// by the instrumentation Scope that produced it. Resource and Scope are held
// by pointer and shared across all items of the same origin; they must not be
// mutated after they are attached to a container.
package pdata

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// TraceID is a 16-byte trace identifier, rendered as 32 hex characters on the
// wire. The zero value is invalid for a span.
type TraceID [16]byte

// SpanID is an 8-byte span identifier, rendered as 16 hex characters on the
// wire. The zero value means "unset" (e.g. no parent).
type SpanID [8]byte

// IsEmpty returns true if the ID is all zeros.
func (t TraceID) IsEmpty() bool { return t == TraceID{} }

// HexString returns the canonical lowercase hex form of the ID.
func (t TraceID) HexString() string { return hex.EncodeToString(t[:]) }

// Bytes returns the raw ID bytes.
func (t TraceID) Bytes() []byte { return t[:] }

func (t TraceID) MarshalJSON() ([]byte, error) {
	if t.IsEmpty() {
		return json.Marshal("")
	}
	return json.Marshal(t.HexString())
}

func (t *TraceID) UnmarshalJSON(data []byte) error {
	return unmarshalHexID(data, t[:], "trace id")
}

// IsEmpty returns true if the ID is all zeros.
func (s SpanID) IsEmpty() bool { return s == SpanID{} }

// HexString returns the canonical lowercase hex form of the ID.
func (s SpanID) HexString() string { return hex.EncodeToString(s[:]) }

func (s SpanID) MarshalJSON() ([]byte, error) {
	if s.IsEmpty() {
		return json.Marshal("")
	}
	return json.Marshal(s.HexString())
}

func (s *SpanID) UnmarshalJSON(data []byte) error {
	return unmarshalHexID(data, s[:], "span id")
}

func unmarshalHexID(data []byte, dst []byte, what string) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	if str == "" {
		// Unset IDs are encoded as the empty string.
		for i := range dst {
			dst[i] = 0
		}
		return nil
	}
	if hex.DecodedLen(len(str)) != len(dst) {
		return fmt.Errorf("invalid %s length %d", what, len(str))
	}
	if _, err := hex.Decode(dst, []byte(str)); err != nil {
		return fmt.Errorf("invalid %s %q: %w", what, str, err)
	}
	return nil
}

// Map holds item, resource or scope attributes. Values are restricted to the
// JSON-representable scalars the wire codec produces: string, bool, int64,
// float64, and nested []interface{} / map[string]interface{}.
type Map map[string]interface{}

// NewMap returns an empty attribute map.
func NewMap() Map { return Map{} }

// Get returns the value for k and whether it is present.
func (m Map) Get(k string) (interface{}, bool) {
	v, ok := m[k]
	return v, ok
}

// Insert sets k to v only if k is absent.
func (m Map) Insert(k string, v interface{}) {
	if _, ok := m[k]; !ok {
		m[k] = v
	}
}

// Update sets k to v only if k is already present.
func (m Map) Update(k string, v interface{}) {
	if _, ok := m[k]; ok {
		m[k] = v
	}
}

// Upsert sets k to v unconditionally.
func (m Map) Upsert(k string, v interface{}) { m[k] = v }

// Delete removes k. Removing an absent key is a no-op.
func (m Map) Delete(k string) { delete(m, k) }

// Clone returns a shallow copy of the map.
func (m Map) Clone() Map {
	out := make(Map, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Resource identifies the entity that emitted a group of telemetry, via
// attributes such as service.name or host.name.
type Resource struct {
	Attributes Map `json:"attributes,omitempty"`
}

// Scope identifies the instrumentation library that produced a group of
// telemetry.
type Scope struct {
	Name    string `json:"name,omitempty"`
	Version string `json:"version,omitempty"`
}
