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

package platform

import (
	"context"
	"errors"

	"github.com/bobbytrapz/livelist/stream"
)

// ErrUnsupported marks a capability a platform does not offer.
// Callers branch on it with errors.Is; it is not a failure.
var ErrUnsupported = errors.New("platform: capability not supported")

// Client is implemented by every platform backend
type Client interface {
	Platform() stream.Platform
	Name() string

	// IsAuthorized is a cheap credential check
	IsAuthorized(ctx context.Context) bool
	// Authorize obtains or validates credentials.
	// Idempotent; failure degrades queries, it never kills the process.
	Authorize(ctx context.Context) bool

	// GetChannelInfo resolves a platform-native id into a channel.
	// Gives (nil, nil) when the channel genuinely does not exist.
	GetChannelInfo(ctx context.Context, id string) (*stream.Channel, error)

	// GetLivestream always gives a livestream value.
	// Query failures land in ErrorMessage with Live false.
	GetLivestream(ctx context.Context, ch stream.Channel) stream.Livestream
	// GetLivestreams is the batched equivalent.
	// One result per input channel, in input order, never fewer.
	GetLivestreams(ctx context.Context, chs []stream.Channel) []stream.Livestream

	// optional capabilities give ErrUnsupported where the platform lacks them
	GetFollowedChannels(ctx context.Context, user string) ([]stream.Channel, error)
	GetTopStreams(ctx context.Context, game string, limit int) ([]stream.Livestream, error)
	SearchChannels(ctx context.Context, query string, limit int) ([]stream.Channel, error)

	// Reset drops the network session so the next call recreates it
	Reset()
	Close() error
}

// Offline gives a failed-query observation for one channel
func Offline(ch stream.Channel, errMsg string) stream.Livestream {
	return stream.Livestream{
		Channel:      ch,
		ErrorMessage: errMsg,
	}
}

// OfflineAll gives failed-query observations for a whole batch
func OfflineAll(chs []stream.Channel, errMsg string) []stream.Livestream {
	out := make([]stream.Livestream, 0, len(chs))
	for _, ch := range chs {
		out = append(out, Offline(ch, errMsg))
	}

	return out
}
