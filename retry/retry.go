// This file is part of livelist.
//
// livelist is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// livelist is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with livelist.  If not, see <https://www.gnu.org/licenses/>.

package retry

import (
	"context"
	"errors"
	"io"
	"net"
	"syscall"
	"time"

	"github.com/jpillora/backoff"
)

// Policy retries an operation on transient failures with
// exponential backoff. Each call to Do gets a fresh attempt counter.
type Policy struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// DefaultPolicy for network operations
var DefaultPolicy = Policy{
	MaxRetries: 3,
	BaseDelay:  1 * time.Second,
	MaxDelay:   10 * time.Second,
}

// Do runs op, retrying transient failures until MaxRetries is spent.
// The delay before retry k is min(BaseDelay * 2^(k-1), MaxDelay).
// Non-transient failures and context cancellation propagate right away.
func (p Policy) Do(ctx context.Context, op func() error) error {
	b := &backoff.Backoff{
		Min:    p.BaseDelay,
		Max:    p.MaxDelay,
		Factor: 2,
	}

	for attempt := 0; ; attempt++ {
		err := op()
		if err == nil {
			return nil
		}
		if !IsTransient(err) {
			return err
		}
		if attempt >= p.MaxRetries {
			return err
		}

		delay := b.Duration()
		// a server-suggested delay overrides our own schedule
		var status *StatusError
		if errors.As(err, &status) && status.RetryAfter > 0 {
			delay = status.RetryAfter
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

type transientError struct {
	err error
}

func (e transientError) Error() string {
	return e.err.Error()
}

func (e transientError) Unwrap() error {
	return e.err
}

func (e transientError) Transient() bool {
	return true
}

// Transient marks an error as retryable
func Transient(err error) error {
	if err == nil {
		return nil
	}

	return transientError{err: err}
}

// IsTransient is true if err is worth retrying
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var t interface{ Transient() bool }
	if errors.As(err, &t) {
		return t.Transient()
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	if errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}

	return false
}
