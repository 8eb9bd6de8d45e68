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

package stream

import (
	"testing"
	"time"
)

func TestUniqueKey(t *testing.T) {
	a := Channel{ChannelID: "alice", Platform: Twitch}
	b := Channel{ChannelID: "alice", Platform: Kick}
	c := Channel{ChannelID: "bob", Platform: Twitch}

	if a.UniqueKey() == b.UniqueKey() {
		t.Error("same id on different platforms must not collide")
	}
	if a.UniqueKey() == c.UniqueKey() {
		t.Error("different ids on the same platform must not collide")
	}

	// other fields never affect identity
	d := Channel{
		ChannelID:   "alice",
		Platform:    Twitch,
		DisplayName: "Alice",
		Favorite:    true,
		DontNotify:  true,
		AddedAt:     time.Now(),
	}
	if a.UniqueKey() != d.UniqueKey() {
		t.Error("want identical keys for identical (platform, id)")
	}
	if !a.Equal(d) {
		t.Error("want channels equal by unique key")
	}
}

func TestUpdateFromWentLive(t *testing.T) {
	ch := Channel{ChannelID: "alice", Platform: Twitch}
	existing := Livestream{Channel: ch}

	started := time.Now().Add(-30 * time.Minute)
	fresh := Livestream{
		Channel:   ch,
		Live:      true,
		Title:     "Test",
		Viewers:   500,
		StartTime: started,
	}

	before := time.Now().UTC()
	if !existing.UpdateFrom(fresh) {
		t.Fatal("want went live")
	}

	if !existing.Live {
		t.Error("want live")
	}
	if existing.Viewers != 500 {
		t.Error("want viewers 500 got", existing.Viewers)
	}
	if existing.StartTime != started {
		t.Error("want start time carried over")
	}
	// last live time records capture time, not the broadcast start
	if existing.LastLiveTime.Before(before) {
		t.Error("want last live time set to merge time got", existing.LastLiveTime)
	}
}

func TestUpdateFromWentOffline(t *testing.T) {
	ch := Channel{ChannelID: "alice", Platform: Twitch}
	lastBroadcast := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	existing := Livestream{Channel: ch, Live: true}
	fresh := Livestream{Channel: ch, Live: false, LastLiveTime: lastBroadcast}

	if existing.UpdateFrom(fresh) {
		t.Fatal("going offline is not going live")
	}
	if existing.Live {
		t.Error("want offline")
	}
	if !existing.LastLiveTime.Equal(lastBroadcast) {
		t.Error("want platform-reported last live time got", existing.LastLiveTime)
	}
}

func TestUpdateFromPreservesLastLiveTime(t *testing.T) {
	ch := Channel{ChannelID: "alice", Platform: Twitch}
	known := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	existing := Livestream{Channel: ch, Live: true, LastLiveTime: known}
	fresh := Livestream{Channel: ch, Live: false}

	existing.UpdateFrom(fresh)
	if !existing.LastLiveTime.Equal(known) {
		t.Error("want prior last live time preserved got", existing.LastLiveTime)
	}
}

func TestUpdateFromIdempotent(t *testing.T) {
	ch := Channel{ChannelID: "alice", Platform: Twitch}
	existing := Livestream{Channel: ch}
	fresh := Livestream{Channel: ch, Live: true, Viewers: 10}

	if !existing.UpdateFrom(fresh) {
		t.Fatal("want went live on first observation")
	}
	if existing.UpdateFrom(fresh) {
		t.Error("staying live must not report went live again")
	}
}

func TestStreamURL(t *testing.T) {
	cases := []struct {
		ls   Livestream
		want string
	}{
		{Livestream{Channel: Channel{ChannelID: "alice", Platform: Twitch}}, "https://twitch.tv/alice"},
		{Livestream{Channel: Channel{ChannelID: "UC123", Platform: YouTube}}, "https://youtube.com/channel/UC123/live"},
		{Livestream{Channel: Channel{ChannelID: "alice", Platform: Kick}}, "https://kick.com/alice"},
	}

	for _, c := range cases {
		if got := c.ls.StreamURL(); got != c.want {
			t.Error("want", c.want, "got", got)
		}
	}
}

func TestChatURLNeedsVideoID(t *testing.T) {
	ls := Livestream{Channel: Channel{ChannelID: "UC123", Platform: YouTube}}
	if ls.ChatURL() != "" {
		t.Error("no chat url without a video id")
	}

	ls.VideoID = "v123"
	if ls.ChatURL() != "https://youtube.com/live_chat?v=v123" {
		t.Error("got", ls.ChatURL())
	}
}
