// Copyright The Telepipe Authors
// SPDX-License-Identifier: Apache-2.0

package consumererror

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var errTest = errors.New("testError")

func TestIsPermanent(t *testing.T) {
	assert.False(t, IsPermanent(nil))
	assert.False(t, IsPermanent(errTest))
	assert.True(t, IsPermanent(Permanent(errTest)))
}

func TestIsPermanentWrappedStd(t *testing.T) {
	err := fmt.Errorf("%w", Permanent(errTest))
	assert.True(t, IsPermanent(err))
}

func TestPermanentUnwrap(t *testing.T) {
	err := Permanent(errTest)
	assert.True(t, errors.Is(err, errTest))
}

func TestIsThrottle(t *testing.T) {
	assert.False(t, IsThrottle(nil))
	assert.False(t, IsThrottle(errTest))
	assert.False(t, IsThrottle(Permanent(errTest)))
	assert.True(t, IsThrottle(NewThrottleRetry(errTest, time.Second)))
}

func TestThrottleDelay(t *testing.T) {
	assert.Equal(t, time.Duration(0), ThrottleDelay(errTest))
	assert.Equal(t, 5*time.Second, ThrottleDelay(NewThrottleRetry(errTest, 5*time.Second)))

	// The throttle signal survives wrapping.
	wrapped := fmt.Errorf("sending failed: %w", NewThrottleRetry(errTest, 3*time.Second))
	assert.True(t, IsThrottle(wrapped))
	assert.Equal(t, 3*time.Second, ThrottleDelay(wrapped))
}

func TestThrottleUnwrap(t *testing.T) {
	err := NewThrottleRetry(errTest, time.Second)
	assert.True(t, errors.Is(err, errTest))
}
