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
	"testing"
	"time"
)

var testPolicy = Policy{
	MaxRetries: 3,
	BaseDelay:  1 * time.Millisecond,
	MaxDelay:   10 * time.Millisecond,
}

func TestDoSucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	err := testPolicy.Do(context.Background(), func() error {
		calls++
		if calls <= 2 {
			return Transient(errors.New("connection reset"))
		}
		return nil
	})

	if err != nil {
		t.Fatal("want success got", err)
	}
	if calls != 3 {
		t.Error("want 3 invocations got", calls)
	}
}

func TestDoExhaustsRetries(t *testing.T) {
	calls := 0
	boom := Transient(errors.New("timeout"))
	start := time.Now()
	err := testPolicy.Do(context.Background(), func() error {
		calls++
		return boom
	})

	if err == nil {
		t.Fatal("want the last failure propagated")
	}
	if calls != testPolicy.MaxRetries+1 {
		t.Error("want", testPolicy.MaxRetries+1, "invocations got", calls)
	}
	// delays double from BaseDelay: 1ms + 2ms + 4ms at minimum
	if elapsed := time.Since(start); elapsed < 7*time.Millisecond {
		t.Error("retries came back too fast:", elapsed)
	}
}

func TestDoDoesNotRetryTerminalErrors(t *testing.T) {
	calls := 0
	err := testPolicy.Do(context.Background(), func() error {
		calls++
		return errors.New("bad request")
	})

	if err == nil {
		t.Fatal("want error")
	}
	if calls != 1 {
		t.Error("want exactly one invocation got", calls)
	}
}

func TestDoHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	slow := Policy{MaxRetries: 3, BaseDelay: time.Hour, MaxDelay: time.Hour}
	calls := 0
	err := slow.Do(ctx, func() error {
		calls++
		return Transient(errors.New("timeout"))
	})

	if !errors.Is(err, context.Canceled) {
		t.Error("want context.Canceled got", err)
	}
	if calls != 1 {
		t.Error("want one invocation got", calls)
	}
}

func TestRetryableStatus(t *testing.T) {
	for _, code := range []int{500, 502, 503, 429} {
		if !RetryableStatus(code) {
			t.Error("want", code, "retryable")
		}
	}
	for _, code := range []int{200, 301, 400, 401, 403, 404} {
		if RetryableStatus(code) {
			t.Error("want", code, "terminal")
		}
	}
}

func TestRetryAfterSeconds(t *testing.T) {
	if got := RetryAfter("5", time.Second); got != 5*time.Second {
		t.Error("got", got)
	}
}

func TestRetryAfterHTTPDate(t *testing.T) {
	at := time.Now().Add(30 * time.Second).UTC().Format("Mon, 02 Jan 2006 15:04:05 GMT")
	got := RetryAfter(at, time.Second)
	if got <= 0 || got > 30*time.Second {
		t.Error("got", got)
	}
}

func TestRetryAfterFallback(t *testing.T) {
	if got := RetryAfter("garbage", 7*time.Second); got != 7*time.Second {
		t.Error("got", got)
	}
	if got := RetryAfter("", 7*time.Second); got != 7*time.Second {
		t.Error("got", got)
	}
}

func TestStatusErrorTransient(t *testing.T) {
	if !IsTransient(&StatusError{Code: 503}) {
		t.Error("want 503 transient")
	}
	if IsTransient(&StatusError{Code: 404}) {
		t.Error("want 404 terminal")
	}
}
