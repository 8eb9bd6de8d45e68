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

import "time"

// Channel is a monitored identity on one platform
type Channel struct {
	ChannelID   string
	Platform    Platform
	DisplayName string
	// ImportedBy records follow-import provenance
	ImportedBy string
	// DontNotify suppresses online notifications for this channel
	DontNotify bool
	Favorite   bool
	AddedAt    time.Time
}

// NewChannel makes a channel added right now
func NewChannel(id string, platform Platform, displayName string) Channel {
	return Channel{
		ChannelID:   id,
		Platform:    platform,
		DisplayName: displayName,
		AddedAt:     time.Now(),
	}
}

// UniqueKey identifies this channel across every platform.
// It is the only correct way to compare two channels.
func (c Channel) UniqueKey() string {
	return string(c.Platform) + ":" + c.ChannelID
}

// Equal is true if both channels have the same unique key
func (c Channel) Equal(other Channel) bool {
	return c.UniqueKey() == other.UniqueKey()
}

// Name gives the display name, falling back to the channel id
func (c Channel) Name() string {
	if c.DisplayName != "" {
		return c.DisplayName
	}

	return c.ChannelID
}
