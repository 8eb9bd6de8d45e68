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
	"fmt"
	"time"
)

// Livestream is the latest known status observation for one channel
type Livestream struct {
	Channel Channel
	Live    bool
	Title   string
	Game    string
	Viewers int
	// StartTime is when the current broadcast began, set only while live
	StartTime time.Time
	// LastLiveTime is the most recent known live moment.
	// It survives offline transitions so we can show "last seen".
	LastLiveTime time.Time
	ThumbnailURL string
	Language     string
	IsMature     bool
	// ErrorMessage is set when the status query failed.
	// It means the query failed, not that the channel is offline.
	ErrorMessage string
	// VideoID is the platform handle needed for chat association
	VideoID string
	// ChatroomID is kick's chat handle
	ChatroomID int
}

// UpdateFrom overwrites this observation with a fresh one for the same
// channel and reports whether the channel just went live.
func (s *Livestream) UpdateFrom(other Livestream) (wentLive bool) {
	wentLive = !s.Live && other.Live

	s.Live = other.Live
	s.Title = other.Title
	s.Game = other.Game
	s.Viewers = other.Viewers
	s.StartTime = other.StartTime
	s.ThumbnailURL = other.ThumbnailURL
	s.Language = other.Language
	s.IsMature = other.IsMature
	s.ErrorMessage = other.ErrorMessage
	s.VideoID = other.VideoID
	s.ChatroomID = other.ChatroomID

	if other.Live {
		// track the capture time, not the broadcast start;
		// uptime is derived from StartTime separately
		s.LastLiveTime = time.Now().UTC()
	} else if !other.LastLiveTime.IsZero() {
		// the platform's own record of the last broadcast wins
		s.LastLiveTime = other.LastLiveTime
	}

	return
}

// SetOffline marks the stream as not live
func (s *Livestream) SetOffline() {
	s.Live = false
	s.Viewers = 0
	s.StartTime = time.Time{}
}

// DisplayName for this stream
func (s Livestream) DisplayName() string {
	return s.Channel.Name()
}

// Uptime gives how long the stream has been live
func (s Livestream) Uptime() time.Duration {
	if !s.Live || s.StartTime.IsZero() {
		return 0
	}

	return time.Since(s.StartTime)
}

// StreamURL gives the watch page for this stream
func (s Livestream) StreamURL() string {
	switch s.Channel.Platform {
	case Twitch:
		return fmt.Sprintf("https://twitch.tv/%s", s.Channel.ChannelID)
	case YouTube:
		return fmt.Sprintf("https://youtube.com/channel/%s/live", s.Channel.ChannelID)
	case Kick:
		return fmt.Sprintf("https://kick.com/%s", s.Channel.ChannelID)
	}

	return ""
}

// ChatURL gives the chat page for this stream
func (s Livestream) ChatURL() string {
	switch s.Channel.Platform {
	case Twitch:
		return fmt.Sprintf("https://twitch.tv/popout/%s/chat", s.Channel.ChannelID)
	case YouTube:
		if s.VideoID == "" {
			return ""
		}
		return fmt.Sprintf("https://youtube.com/live_chat?v=%s", s.VideoID)
	case Kick:
		return fmt.Sprintf("https://kick.com/%s/chatroom", s.Channel.ChannelID)
	}

	return ""
}

// FormatViewers gives a short viewer count for display
func (s Livestream) FormatViewers() string {
	switch {
	case s.Viewers >= 1000000:
		return fmt.Sprintf("%.1fM", float64(s.Viewers)/1000000)
	case s.Viewers >= 1000:
		return fmt.Sprintf("%.1fK", float64(s.Viewers)/1000)
	}

	return fmt.Sprintf("%d", s.Viewers)
}

// FormatLastSeen gives a short "last seen" string for offline streams
func (s Livestream) FormatLastSeen() string {
	if s.Live || s.LastLiveTime.IsZero() {
		return ""
	}

	d := time.Since(s.LastLiveTime)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	case d < 365*24*time.Hour:
		return fmt.Sprintf("%dmo ago", int(d.Hours()/(24*30)))
	}

	return fmt.Sprintf("%dy ago", int(d.Hours()/(24*365)))
}
