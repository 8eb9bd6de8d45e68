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

// Package monitor holds the channel list and drives the polling loop.
// It owns the saved state and is the only writer of channels.json.
package monitor

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/bobbytrapz/livelist/options"
	"github.com/bobbytrapz/livelist/platform"
	"github.com/bobbytrapz/livelist/stream"
)

// EventType of a status transition
type EventType int

// transitions we report
const (
	EventOnline EventType = iota
	EventOffline
)

// Event is one status transition for one channel
type Event struct {
	Type   EventType
	Stream stream.Livestream
}

// Monitor watches every added channel across every platform
type Monitor struct {
	clients map[stream.Platform]platform.Client

	mu      sync.Mutex
	streams map[string]*stream.Livestream
	// loaded flips after the first refresh; before that, already-live
	// channels are state restoration, not news
	loaded bool

	listeners struct {
		sync.Mutex
		fns []func(Event)
	}

	refresh struct {
		sync.Mutex
		fns []func([]stream.Livestream)
	}

	save struct {
		sync.Mutex
		timer   *time.Timer
		pending bool
	}

	check chan struct{}
}

// New monitor over the given platform clients
func New(clients ...platform.Client) *Monitor {
	m := &Monitor{
		clients: make(map[stream.Platform]platform.Client),
		streams: make(map[string]*stream.Livestream),
		check:   make(chan struct{}, 1),
	}
	for _, c := range clients {
		m.clients[c.Platform()] = c
	}

	return m
}

// Client for a platform, if we have one
func (m *Monitor) Client(p stream.Platform) (platform.Client, error) {
	c, ok := m.clients[p]
	if !ok {
		return nil, fmt.Errorf("monitor.Client: no client for platform: %s", p)
	}

	return c, nil
}

// AddListener registers a transition callback.
// Callbacks run outside the state lock, one event at a time.
func (m *Monitor) AddListener(fn func(Event)) {
	m.listeners.Lock()
	defer m.listeners.Unlock()
	m.listeners.fns = append(m.listeners.fns, fn)
}

// AddRefreshListener registers a callback fired after every refresh
// cycle, transitions or not, with a snapshot of every kept status.
func (m *Monitor) AddRefreshListener(fn func([]stream.Livestream)) {
	m.refresh.Lock()
	defer m.refresh.Unlock()
	m.refresh.fns = append(m.refresh.fns, fn)
}

func (m *Monitor) emit(events []Event) {
	if len(events) == 0 {
		return
	}

	m.listeners.Lock()
	fns := make([]func(Event), len(m.listeners.fns))
	copy(fns, m.listeners.fns)
	m.listeners.Unlock()

	for _, ev := range events {
		for _, fn := range fns {
			fn(ev)
		}
	}
}

// Initialize loads the saved channel list and authorizes each client
func (m *Monitor) Initialize(ctx context.Context) error {
	if err := m.load(); err != nil {
		return fmt.Errorf("monitor.Initialize: %s", err)
	}

	for _, c := range m.clients {
		if !c.Authorize(ctx) {
			log.Println("monitor.Initialize:", c.Name(), "is not authorized")
		}
	}

	return nil
}

// Start polling. Blocks until the context is canceled.
func (m *Monitor) Start(ctx context.Context) error {
	if err := m.Initialize(ctx); err != nil {
		return fmt.Errorf("monitor.Start: %s", err)
	}

	// the first refresh restores state without announcements
	log.Println("monitor.Start: first check...")
	m.Refresh(ctx)

	pollRate := options.GetDuration("check_every")
	log.Println("monitor.Start: checking every", pollRate)
	tick := time.NewTicker(pollRate)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Println("monitor.Start:", ctx.Err())
			m.FlushPendingSave()
			return nil
		case <-tick.C:
			m.Refresh(ctx)
		case <-m.check:
			m.Refresh(ctx)
		}

		// the poll rate may have been adjusted
		if p := options.GetDuration("check_every"); p != pollRate {
			pollRate = p
			tick.Stop()
			tick = time.NewTicker(pollRate)
			log.Println("monitor.Start: new poll rate", pollRate)
		}
	}
}

// CheckNow makes the poll loop refresh right away
func (m *Monitor) CheckNow() {
	select {
	case m.check <- struct{}{}:
	default:
		// a check is already queued
	}
}

// Refresh queries every platform once and applies what came back
func (m *Monitor) Refresh(ctx context.Context) {
	defer m.refreshDone()

	byPlatform := m.channelsByPlatform()
	if len(byPlatform) == 0 {
		return
	}

	type result struct {
		platform stream.Platform
		streams  []stream.Livestream
	}

	results := make(chan result, len(byPlatform))
	var wg sync.WaitGroup
	for p, chs := range byPlatform {
		c, ok := m.clients[p]
		if !ok {
			log.Println("monitor.Refresh: no client for platform:", p)
			continue
		}

		wg.Add(1)
		go func(c platform.Client, p stream.Platform, chs []stream.Channel) {
			defer wg.Done()
			// one platform blowing up must not poison the others
			defer func() {
				if r := recover(); r != nil {
					log.Println("monitor.Refresh: panic:", c.Name(), r)
					results <- result{p, platform.OfflineAll(chs, fmt.Sprint(r))}
				}
			}()
			// credentials may have expired or failed at startup;
			// every cycle gets another chance
			if !c.Authorize(ctx) {
				log.Println("monitor.Refresh:", c.Name(), "is not authorized")
				results <- result{p, platform.OfflineAll(chs, "not authorized")}
				return
			}
			results <- result{p, c.GetLivestreams(ctx, chs)}
		}(c, p, chs)
	}
	wg.Wait()
	close(results)

	for r := range results {
		m.apply(r.streams)
	}
}

// refreshDone ends a cycle: announcements unlock after the first one
// and every refresh listener gets the fresh snapshot
func (m *Monitor) refreshDone() {
	m.finishInitialLoad()

	m.refresh.Lock()
	fns := make([]func([]stream.Livestream), len(m.refresh.fns))
	copy(fns, m.refresh.fns)
	m.refresh.Unlock()

	if len(fns) == 0 {
		return
	}

	snapshot := m.Streams()
	for _, fn := range fns {
		fn(snapshot)
	}
}

// apply merges fresh observations into the kept state and fires the
// transitions they caused
func (m *Monitor) apply(fresh []stream.Livestream) {
	var events []Event
	dirty := false

	m.mu.Lock()
	for _, f := range fresh {
		key := f.Channel.UniqueKey()
		kept, ok := m.streams[key]
		if !ok {
			// removed while the query was in flight
			continue
		}

		wasLive := kept.Live
		before := kept.LastLiveTime
		wentLive := kept.UpdateFrom(f)
		if !kept.LastLiveTime.Equal(before) {
			dirty = true
		}

		if f.ErrorMessage != "" {
			log.Println("monitor.apply:", kept.DisplayName()+":", f.ErrorMessage)
		}

		if !m.loaded {
			continue
		}
		if wentLive && !kept.Channel.DontNotify {
			events = append(events, Event{EventOnline, *kept})
		}
		if wasLive && !kept.Live {
			// offline transitions are always reported
			events = append(events, Event{EventOffline, *kept})
		}
	}
	m.mu.Unlock()

	m.emit(events)
	if dirty {
		m.requestSave()
	}
}

func (m *Monitor) finishInitialLoad() {
	m.mu.Lock()
	m.loaded = true
	m.mu.Unlock()
}

func (m *Monitor) channelsByPlatform() map[stream.Platform][]stream.Channel {
	m.mu.Lock()
	defer m.mu.Unlock()

	byPlatform := make(map[stream.Platform][]stream.Channel)
	for _, s := range m.streams {
		byPlatform[s.Channel.Platform] = append(byPlatform[s.Channel.Platform], s.Channel)
	}

	return byPlatform
}

// ResetSessions drops every client's network session
func (m *Monitor) ResetSessions() {
	for _, c := range m.clients {
		c.Reset()
	}
}

// CloseSessions closes every client
func (m *Monitor) CloseSessions() {
	for _, c := range m.clients {
		if err := c.Close(); err != nil {
			log.Println("monitor.CloseSessions:", c.Name()+":", err)
		}
	}
}
