// Copyright The Telepipe Authors
// SPDX-License-Identifier: Apache-2.0

package consumererror

import (
	"errors"
	"time"
)

type throttle struct {
	err   error
	delay time.Duration
}

// NewThrottleRetry wraps an error to indicate that the downstream is
// saturated or throttling and delivery should not be reattempted before
// delay has elapsed. How a sink detects throttling is sink-specific; the
// wrapper is the pipeline-wide contract.
func NewThrottleRetry(err error, delay time.Duration) error {
	return throttle{err: err, delay: delay}
}

func (t throttle) Error() string {
	return "Throttle (" + t.delay.String() + "), error: " + t.err.Error()
}

// Unwrap returns the wrapped error.
func (t throttle) Unwrap() error {
	return t.err
}

// IsThrottle checks if an error carries a throttling signal.
func IsThrottle(err error) bool {
	if err == nil {
		return false
	}
	var t throttle
	return errors.As(err, &t)
}

// ThrottleDelay returns the retry-after hint carried by err, or zero if err
// carries none.
func ThrottleDelay(err error) time.Duration {
	var t throttle
	if errors.As(err, &t) {
		return t.delay
	}
	return 0
}
