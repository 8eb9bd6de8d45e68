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

package monitor

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/bobbytrapz/livelist/platform"
	"github.com/bobbytrapz/livelist/stream"
)

// AddChannel verifies a channel exists on its platform and adds it.
// Adding a channel we already watch is a no-op.
func (m *Monitor) AddChannel(ctx context.Context, p stream.Platform, id string) error {
	c, err := m.Client(p)
	if err != nil {
		return fmt.Errorf("monitor.AddChannel: %s", err)
	}

	ch, err := c.GetChannelInfo(ctx, id)
	if err != nil {
		return fmt.Errorf("monitor.AddChannel: %s", err)
	}
	if ch == nil {
		return fmt.Errorf("monitor.AddChannel: no such channel on %s: %s", c.Name(), id)
	}

	added, err := m.AddDirect(*ch)
	if err != nil {
		return fmt.Errorf("monitor.AddChannel: %s", err)
	}
	if !added {
		// already watching; keep the existing channel's settings
		return nil
	}

	// check right away so the new channel has a status
	ls := c.GetLivestream(ctx, *ch)
	m.apply([]stream.Livestream{ls})
	if ls.Live {
		log.Println("monitor.AddChannel:", ch.Name(), "is live now!")
	}

	return nil
}

// AddDirect adds a channel without verifying it, for restores and
// imports. Reports whether the channel is new. The list is written
// before returning so an add survives a crash.
func (m *Monitor) AddDirect(ch stream.Channel) (added bool, err error) {
	key := ch.UniqueKey()

	m.mu.Lock()
	if _, ok := m.streams[key]; ok {
		m.mu.Unlock()
		return false, nil
	}
	m.streams[key] = &stream.Livestream{Channel: ch}
	m.mu.Unlock()

	if err := m.writeList(); err != nil {
		return true, fmt.Errorf("monitor.AddDirect: %s", err)
	}

	return true, nil
}

// RemoveChannel stops watching one channel.
// The list is written before returning.
func (m *Monitor) RemoveChannel(p stream.Platform, id string) error {
	key := stream.Channel{ChannelID: id, Platform: p}.UniqueKey()

	m.mu.Lock()
	_, ok := m.streams[key]
	if ok {
		delete(m.streams, key)
	}
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("monitor.RemoveChannel: we are not watching: %s", key)
	}

	if err := m.writeList(); err != nil {
		return fmt.Errorf("monitor.RemoveChannel: %s", err)
	}

	return nil
}

// RemoveChannels stops watching every channel on one platform.
// Gives the number removed.
func (m *Monitor) RemoveChannels(p stream.Platform) int {
	m.mu.Lock()
	removed := 0
	for key, s := range m.streams {
		if s.Channel.Platform == p {
			delete(m.streams, key)
			removed++
		}
	}
	m.mu.Unlock()

	if removed > 0 {
		if err := m.writeList(); err != nil {
			log.Println("monitor.RemoveChannels:", err)
		}
	}

	return removed
}

// HasChannel is true if the channel is being watched
func (m *Monitor) HasChannel(p stream.Platform, id string) bool {
	key := stream.Channel{ChannelID: id, Platform: p}.UniqueKey()

	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.streams[key]
	return ok
}

// ImportFollows adds every channel a user follows on one platform.
// Gives the number of new channels added.
func (m *Monitor) ImportFollows(ctx context.Context, p stream.Platform, user string) (int, error) {
	c, err := m.Client(p)
	if err != nil {
		return 0, fmt.Errorf("monitor.ImportFollows: %s", err)
	}

	follows, err := c.GetFollowedChannels(ctx, user)
	if errors.Is(err, platform.ErrUnsupported) {
		// platforms without follow lists just import nothing
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("monitor.ImportFollows: %s", err)
	}

	added := 0
	for _, ch := range follows {
		ok, err := m.AddDirect(ch)
		if err != nil {
			return added, fmt.Errorf("monitor.ImportFollows: %s", err)
		}
		if ok {
			added++
		}
	}

	if added > 0 {
		// give the newcomers a status right away
		m.Refresh(ctx)
	}

	return added, nil
}

// SetFavorite flags a channel as a favorite
func (m *Monitor) SetFavorite(p stream.Platform, id string, favorite bool) error {
	return m.setFlag(p, id, func(ch *stream.Channel) {
		ch.Favorite = favorite
	})
}

// SetDontNotify suppresses online announcements for a channel
func (m *Monitor) SetDontNotify(p stream.Platform, id string, dontNotify bool) error {
	return m.setFlag(p, id, func(ch *stream.Channel) {
		ch.DontNotify = dontNotify
	})
}

func (m *Monitor) setFlag(p stream.Platform, id string, set func(*stream.Channel)) error {
	key := stream.Channel{ChannelID: id, Platform: p}.UniqueKey()

	m.mu.Lock()
	s, ok := m.streams[key]
	if ok {
		set(&s.Channel)
	}
	m.mu.Unlock()

	if !ok {
		return errors.New("monitor.setFlag: we are not watching: " + key)
	}

	m.requestSave()

	return nil
}

// Streams gives a copy of every kept status
func (m *Monitor) Streams() []stream.Livestream {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]stream.Livestream, 0, len(m.streams))
	for _, s := range m.streams {
		out = append(out, *s)
	}

	return out
}

// Stream gives the kept status of one channel
func (m *Monitor) Stream(p stream.Platform, id string) (stream.Livestream, bool) {
	key := stream.Channel{ChannelID: id, Platform: p}.UniqueKey()

	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.streams[key]
	if !ok {
		return stream.Livestream{}, false
	}

	return *s, true
}
