// Copyright The Telepipe Authors
// SPDX-License-Identifier: Apache-2.0

package pdata

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceIDJSON(t *testing.T) {
	tid := TraceID{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10}
	out, err := json.Marshal(tid)
	require.NoError(t, err)
	assert.Equal(t, `"0102030405060708090a0b0c0d0e0f10"`, string(out))

	var back TraceID
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, tid, back)
}

func TestTraceIDJSONEmpty(t *testing.T) {
	out, err := json.Marshal(TraceID{})
	require.NoError(t, err)
	assert.Equal(t, `""`, string(out))

	var back TraceID
	require.NoError(t, json.Unmarshal([]byte(`""`), &back))
	assert.True(t, back.IsEmpty())
}

func TestTraceIDJSONInvalid(t *testing.T) {
	var tid TraceID
	// Wrong length.
	assert.Error(t, json.Unmarshal([]byte(`"0102"`), &tid))
	// Not hex.
	assert.Error(t, json.Unmarshal([]byte(`"zz02030405060708090a0b0c0d0e0f10"`), &tid))
	// Not a string.
	assert.Error(t, json.Unmarshal([]byte(`42`), &tid))
}

func TestSpanIDJSON(t *testing.T) {
	sid := SpanID{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	out, err := json.Marshal(sid)
	require.NoError(t, err)
	assert.Equal(t, `"0102030405060708"`, string(out))

	var back SpanID
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, sid, back)

	assert.Error(t, json.Unmarshal([]byte(`"01"`), &back))
}

func TestMapOperations(t *testing.T) {
	m := NewMap()

	m.Insert("k", "v1")
	m.Insert("k", "v2")
	v, ok := m.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v1", v, "insert must not overwrite")

	m.Update("k", "v3")
	v, _ = m.Get("k")
	assert.Equal(t, "v3", v)

	m.Update("absent", "v")
	_, ok = m.Get("absent")
	assert.False(t, ok, "update must not create")

	m.Upsert("k", "v4")
	m.Upsert("new", "v5")
	v, _ = m.Get("k")
	assert.Equal(t, "v4", v)
	v, _ = m.Get("new")
	assert.Equal(t, "v5", v)

	m.Delete("k")
	_, ok = m.Get("k")
	assert.False(t, ok)
	m.Delete("k") // deleting twice is a no-op
}

func TestMapClone(t *testing.T) {
	m := Map{"a": "1", "b": int64(2)}
	c := m.Clone()
	c.Upsert("a", "changed")
	v, _ := m.Get("a")
	assert.Equal(t, "1", v)
}
