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

import "fmt"

// Platform is a streaming service we can monitor
type Platform string

// supported platforms
const (
	Twitch  Platform = "twitch"
	YouTube Platform = "youtube"
	Kick    Platform = "kick"
)

// Platforms lists every supported platform
func Platforms() []Platform {
	return []Platform{Twitch, YouTube, Kick}
}

// ParsePlatform reads a platform from its name
func ParsePlatform(s string) (Platform, error) {
	switch Platform(s) {
	case Twitch, YouTube, Kick:
		return Platform(s), nil
	}

	return "", fmt.Errorf("stream.ParsePlatform: unknown platform: '%s'", s)
}

func (p Platform) String() string {
	return string(p)
}
