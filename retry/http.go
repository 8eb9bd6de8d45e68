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
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// StatusError is a non-2xx response. It is transient only for
// statuses the server may stop returning on its own (5xx, 429).
type StatusError struct {
	Code int
	// RetryAfter is the server-suggested delay, if any
	RetryAfter time.Duration
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.Code)
}

// Transient reports whether the status is worth retrying
func (e *StatusError) Transient() bool {
	return RetryableStatus(e.Code)
}

// NewStatusError from a response, capturing any Retry-After hint
func NewStatusError(res *http.Response) *StatusError {
	return &StatusError{
		Code:       res.StatusCode,
		RetryAfter: RetryAfter(res.Header.Get("Retry-After"), 0),
	}
}

// RetryableStatus is true for 5xx and 429
func RetryableStatus(code int) bool {
	return code >= 500 || code == http.StatusTooManyRequests
}

// RetryAfter parses a Retry-After header value as a delay.
// Seconds first, then an HTTP date, then the fallback.
func RetryAfter(value string, fallback time.Duration) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}

	if secs, err := strconv.Atoi(value); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}

	if at, err := http.ParseTime(value); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
		return 0
	}

	return fallback
}
