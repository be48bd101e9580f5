// Copyright The Telepipe Authors
// SPDX-License-Identifier: Apache-2.0

// Package consumererror provides wrappers that classify errors crossing
// consumer boundaries, so that senders can decide between retrying and
// dropping without inspecting sink-specific details.
package consumererror

import "errors"

type permanent struct {
	err error
}

// Permanent wraps an error to indicate that it is a permanent delivery
// failure: retrying the same data will never succeed and it should be
// dropped and reported.
func Permanent(err error) error {
	return permanent{err: err}
}

func (p permanent) Error() string {
	return "Permanent error: " + p.err.Error()
}

// Unwrap returns the wrapped error.
func (p permanent) Unwrap() error {
	return p.err
}

// IsPermanent checks if an error was wrapped with the Permanent function,
// anywhere in its chain.
func IsPermanent(err error) bool {
	if err == nil {
		return false
	}
	return errors.As(err, &permanent{})
}
