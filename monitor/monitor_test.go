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
	"sync"
	"testing"

	"github.com/bobbytrapz/livelist/platform"
	"github.com/bobbytrapz/livelist/stream"
)

// fakeClient serves canned statuses for one platform
type fakeClient struct {
	platform stream.Platform
	statuses func(chs []stream.Channel) []stream.Livestream
	follows  func(user string) ([]stream.Channel, error)
	denyAuth bool
}

func (f *fakeClient) Platform() stream.Platform             { return f.platform }
func (f *fakeClient) Name() string                          { return string(f.platform) }
func (f *fakeClient) IsAuthorized(ctx context.Context) bool { return !f.denyAuth }
func (f *fakeClient) Authorize(ctx context.Context) bool    { return !f.denyAuth }
func (f *fakeClient) Reset()                                {}
func (f *fakeClient) Close() error                          { return nil }

func (f *fakeClient) GetChannelInfo(ctx context.Context, id string) (*stream.Channel, error) {
	ch := stream.NewChannel(id, f.platform, id)
	return &ch, nil
}

func (f *fakeClient) GetLivestream(ctx context.Context, ch stream.Channel) stream.Livestream {
	return f.GetLivestreams(ctx, []stream.Channel{ch})[0]
}

func (f *fakeClient) GetLivestreams(ctx context.Context, chs []stream.Channel) []stream.Livestream {
	return f.statuses(chs)
}

func (f *fakeClient) GetFollowedChannels(ctx context.Context, user string) ([]stream.Channel, error) {
	if f.follows != nil {
		return f.follows(user)
	}
	return nil, platform.ErrUnsupported
}

func (f *fakeClient) GetTopStreams(ctx context.Context, game string, limit int) ([]stream.Livestream, error) {
	return nil, platform.ErrUnsupported
}

func (f *fakeClient) SearchChannels(ctx context.Context, query string, limit int) ([]stream.Channel, error) {
	return nil, platform.ErrUnsupported
}

// allWith makes a canned status function where every channel shares one state
func allWith(live bool) func(chs []stream.Channel) []stream.Livestream {
	return func(chs []stream.Channel) []stream.Livestream {
		out := make([]stream.Livestream, 0, len(chs))
		for _, ch := range chs {
			out = append(out, stream.Livestream{Channel: ch, Live: live})
		}
		return out
	}
}

type eventRecorder struct {
	sync.Mutex
	events []Event
}

func (r *eventRecorder) record(ev Event) {
	r.Lock()
	defer r.Unlock()
	r.events = append(r.events, ev)
}

func (r *eventRecorder) count(t EventType) int {
	r.Lock()
	defer r.Unlock()
	n := 0
	for _, ev := range r.events {
		if ev.Type == t {
			n++
		}
	}
	return n
}

func TestOnlineEventFiresExactlyOnce(t *testing.T) {
	useTempDataPath(t)
	ctx := context.Background()
	fake := &fakeClient{platform: stream.Twitch, statuses: allWith(false)}
	m := New(fake)
	m.finishInitialLoad()

	rec := &eventRecorder{}
	m.AddListener(rec.record)

	if _, err := m.AddDirect(stream.NewChannel("somebody", stream.Twitch, "Somebody")); err != nil {
		t.Fatal(err)
	}

	// offline at first
	m.Refresh(ctx)
	if got := rec.count(EventOnline); got != 0 {
		t.Fatal("want no online events yet got", got)
	}

	// they go live; many refreshes later the event fired only once
	fake.statuses = allWith(true)
	m.Refresh(ctx)
	m.Refresh(ctx)
	m.Refresh(ctx)

	if got := rec.count(EventOnline); got != 1 {
		t.Error("want exactly one online event got", got)
	}
}

func TestOfflineEventAfterOnline(t *testing.T) {
	useTempDataPath(t)
	ctx := context.Background()
	fake := &fakeClient{platform: stream.Twitch, statuses: allWith(true)}
	m := New(fake)
	m.finishInitialLoad()

	rec := &eventRecorder{}
	m.AddListener(rec.record)

	m.AddDirect(stream.NewChannel("somebody", stream.Twitch, "Somebody"))
	m.Refresh(ctx)

	fake.statuses = allWith(false)
	m.Refresh(ctx)
	m.Refresh(ctx)

	if got := rec.count(EventOffline); got != 1 {
		t.Error("want exactly one offline event got", got)
	}
}

func TestInitialLoadDoesNotAnnounce(t *testing.T) {
	useTempDataPath(t)
	ctx := context.Background()
	fake := &fakeClient{platform: stream.Twitch, statuses: allWith(true)}
	m := New(fake)

	rec := &eventRecorder{}
	m.AddListener(rec.record)

	m.AddDirect(stream.NewChannel("somebody", stream.Twitch, "Somebody"))

	// they were already live before we started; that is not news
	m.Refresh(ctx)
	if got := rec.count(EventOnline); got != 0 {
		t.Fatal("want no events for the first refresh got", got)
	}

	// but fresh transitions after that are
	fake.statuses = allWith(false)
	m.Refresh(ctx)
	fake.statuses = allWith(true)
	m.Refresh(ctx)

	if got := rec.count(EventOnline); got != 1 {
		t.Error("want one online event got", got)
	}
}

func TestDontNotifySuppressesOnlineOnly(t *testing.T) {
	useTempDataPath(t)
	ctx := context.Background()
	fake := &fakeClient{platform: stream.Twitch, statuses: allWith(false)}
	m := New(fake)
	m.finishInitialLoad()

	rec := &eventRecorder{}
	m.AddListener(rec.record)

	ch := stream.NewChannel("somebody", stream.Twitch, "Somebody")
	ch.DontNotify = true
	m.AddDirect(ch)
	m.Refresh(ctx)

	fake.statuses = allWith(true)
	m.Refresh(ctx)
	if got := rec.count(EventOnline); got != 0 {
		t.Error("want online suppressed got", got)
	}

	fake.statuses = allWith(false)
	m.Refresh(ctx)
	if got := rec.count(EventOffline); got != 1 {
		t.Error("offline events are never suppressed; got", got)
	}
}

func TestPlatformFailureIsIsolated(t *testing.T) {
	useTempDataPath(t)
	ctx := context.Background()
	broken := &fakeClient{platform: stream.Twitch, statuses: func(chs []stream.Channel) []stream.Livestream {
		panic("api exploded")
	}}
	healthy := &fakeClient{platform: stream.Kick, statuses: allWith(true)}
	m := New(broken, healthy)
	m.finishInitialLoad()

	rec := &eventRecorder{}
	m.AddListener(rec.record)

	m.AddDirect(stream.NewChannel("broken", stream.Twitch, ""))
	m.AddDirect(stream.NewChannel("healthy", stream.Kick, ""))

	m.Refresh(ctx)

	// the healthy platform still came through
	if got := rec.count(EventOnline); got != 1 {
		t.Error("want one online event got", got)
	}

	// the broken platform's channel carries the failure
	s, ok := m.Stream(stream.Twitch, "broken")
	if !ok {
		t.Fatal("channel is gone")
	}
	if s.Live {
		t.Error("a failed query is not live")
	}
	if s.ErrorMessage == "" {
		t.Error("want the failure recorded")
	}
}

func TestApplyIgnoresRemovedChannels(t *testing.T) {
	m := New()
	m.finishInitialLoad()

	rec := &eventRecorder{}
	m.AddListener(rec.record)

	// an observation for a channel nobody watches anymore
	ch := stream.NewChannel("gone", stream.Twitch, "")
	m.apply([]stream.Livestream{{Channel: ch, Live: true}})

	if len(m.Streams()) != 0 {
		t.Error("apply must not resurrect removed channels")
	}
	if got := rec.count(EventOnline); got != 0 {
		t.Error("want no events got", got)
	}
}

func TestAddRemoveChannel(t *testing.T) {
	useTempDataPath(t)
	m := New()

	ch := stream.NewChannel("somebody", stream.Twitch, "Somebody")
	added, err := m.AddDirect(ch)
	if err != nil {
		t.Fatal(err)
	}
	if !added {
		t.Error("want a new channel reported as added")
	}
	added, err = m.AddDirect(ch)
	if err != nil {
		t.Fatal("a duplicate add is not an error:", err)
	}
	if added {
		t.Error("want the duplicate reported as already watched")
	}
	if !m.HasChannel(stream.Twitch, "somebody") {
		t.Error("want channel present")
	}

	if err := m.RemoveChannel(stream.Twitch, "somebody"); err != nil {
		t.Fatal(err)
	}
	if err := m.RemoveChannel(stream.Twitch, "somebody"); err == nil {
		t.Error("want missing remove rejected")
	}
}

func TestSetFlags(t *testing.T) {
	useTempDataPath(t)
	m := New()
	m.AddDirect(stream.NewChannel("somebody", stream.Kick, ""))

	if err := m.SetFavorite(stream.Kick, "somebody", true); err != nil {
		t.Fatal(err)
	}
	if err := m.SetDontNotify(stream.Kick, "somebody", true); err != nil {
		t.Fatal(err)
	}

	s, _ := m.Stream(stream.Kick, "somebody")
	if !s.Channel.Favorite || !s.Channel.DontNotify {
		t.Error("flags did not stick")
	}

	if err := m.SetFavorite(stream.Kick, "nobody", true); err == nil {
		t.Error("want unknown channel rejected")
	}
}

func TestRefreshListenerFiresEveryCycle(t *testing.T) {
	useTempDataPath(t)
	ctx := context.Background()
	fake := &fakeClient{platform: stream.Twitch, statuses: allWith(false)}
	m := New(fake)

	var mu sync.Mutex
	var snapshots [][]stream.Livestream
	m.AddRefreshListener(func(ss []stream.Livestream) {
		mu.Lock()
		defer mu.Unlock()
		snapshots = append(snapshots, ss)
	})

	// even an empty list completes a cycle
	m.Refresh(ctx)

	m.AddDirect(stream.NewChannel("somebody", stream.Twitch, "Somebody"))
	m.Refresh(ctx)
	m.Refresh(ctx)

	mu.Lock()
	defer mu.Unlock()
	if len(snapshots) != 3 {
		t.Fatal("want one snapshot per refresh got", len(snapshots))
	}
	if len(snapshots[0]) != 0 || len(snapshots[2]) != 1 {
		t.Error("snapshots do not reflect the list")
	}
}

func TestAddChannelTwiceIsNoOp(t *testing.T) {
	useTempDataPath(t)
	ctx := context.Background()
	fake := &fakeClient{platform: stream.Twitch, statuses: allWith(false)}
	m := New(fake)
	m.finishInitialLoad()

	if err := m.AddChannel(ctx, stream.Twitch, "somebody"); err != nil {
		t.Fatal(err)
	}
	if err := m.AddChannel(ctx, stream.Twitch, "somebody"); err != nil {
		t.Fatal("adding a channel we already watch is fine:", err)
	}
	if got := len(m.Streams()); got != 1 {
		t.Error("want 1 channel got", got)
	}
}

func TestImportFollowsUnsupportedPlatform(t *testing.T) {
	ctx := context.Background()
	fake := &fakeClient{platform: stream.Kick, statuses: allWith(false)}
	m := New(fake)

	added, err := m.ImportFollows(ctx, stream.Kick, "somebody")
	if err != nil {
		t.Fatal("no follow list just means nothing to import:", err)
	}
	if added != 0 {
		t.Error("want 0 added got", added)
	}
}

func TestImportFollowsAddsAndChecks(t *testing.T) {
	useTempDataPath(t)
	ctx := context.Background()
	fake := &fakeClient{
		platform: stream.Twitch,
		statuses: allWith(true),
		follows: func(user string) ([]stream.Channel, error) {
			return []stream.Channel{
				stream.NewChannel("alice", stream.Twitch, "Alice"),
				stream.NewChannel("bob", stream.Twitch, "Bob"),
			}, nil
		},
	}
	m := New(fake)
	m.finishInitialLoad()
	m.AddDirect(stream.NewChannel("alice", stream.Twitch, "Alice"))

	added, err := m.ImportFollows(ctx, stream.Twitch, "somebody")
	if err != nil {
		t.Fatal(err)
	}
	if added != 1 {
		t.Error("want only the new follow counted got", added)
	}

	// the import kicked off a check so the newcomer has a status
	s, ok := m.Stream(stream.Twitch, "bob")
	if !ok {
		t.Fatal("follow was not added")
	}
	if !s.Live {
		t.Error("want the fresh status applied")
	}
}

func TestUnauthorizedPlatformGoesOffline(t *testing.T) {
	useTempDataPath(t)
	ctx := context.Background()
	denied := &fakeClient{platform: stream.Twitch, statuses: allWith(true), denyAuth: true}
	healthy := &fakeClient{platform: stream.Kick, statuses: allWith(true)}
	m := New(denied, healthy)
	m.finishInitialLoad()

	m.AddDirect(stream.NewChannel("denied", stream.Twitch, ""))
	m.AddDirect(stream.NewChannel("healthy", stream.Kick, ""))

	m.Refresh(ctx)

	s, ok := m.Stream(stream.Twitch, "denied")
	if !ok {
		t.Fatal("channel is gone")
	}
	if s.Live {
		t.Error("an unauthorized platform reports nobody live")
	}
	if s.ErrorMessage != "not authorized" {
		t.Error("want the denial recorded got", s.ErrorMessage)
	}

	s, _ = m.Stream(stream.Kick, "healthy")
	if !s.Live {
		t.Error("the healthy platform still came through")
	}
}
