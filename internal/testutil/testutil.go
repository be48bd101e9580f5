// Copyright The Telepipe Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

// GetAvailableLocalAddress finds an available local port and returns an
// endpoint describing it. The port is free at the time of the call but there
// is no guarantee it stays free; good enough for tests.
func GetAvailableLocalAddress(t *testing.T) string {
	ln, err := net.Listen("tcp", "localhost:0")
	require.NoError(t, err, "failed to get a free local port")
	defer ln.Close()
	return ln.Addr().String()
}
