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

package youtube

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/bobbytrapz/livelist/stream"
)

const playerResponseMarker = "var ytInitialPlayerResponse = "

// playerResponse is the slice of the player json we care about
type playerResponse struct {
	VideoDetails struct {
		VideoID       string `json:"videoId"`
		Title         string `json:"title"`
		Author        string `json:"author"`
		ChannelID     string `json:"channelId"`
		IsLive        bool   `json:"isLive"`
		IsLiveContent bool   `json:"isLiveContent"`
		ViewCount     string `json:"viewCount"`
		Thumbnail     struct {
			Thumbnails []struct {
				URL string `json:"url"`
			} `json:"thumbnails"`
		} `json:"thumbnail"`
	} `json:"videoDetails"`
	Microformat struct {
		PlayerMicroformatRenderer struct {
			LiveBroadcastDetails struct {
				IsLiveNow      bool   `json:"isLiveNow"`
				StartTimestamp string `json:"startTimestamp"`
			} `json:"liveBroadcastDetails"`
		} `json:"playerMicroformatRenderer"`
	} `json:"microformat"`
}

var errNoPlayerResponse = errors.New("youtube.extractPlayerResponse: no player data")

// extractPlayerResponse pulls the ytInitialPlayerResponse object out of
// the page script. The object ends at the matching close brace, not at
// a line ending, so we walk the braces while skipping string literals.
func extractPlayerResponse(page string) ([]byte, error) {
	at := strings.Index(page, playerResponseMarker)
	if at < 0 {
		return nil, errNoPlayerResponse
	}

	rest := page[at+len(playerResponseMarker):]
	if len(rest) == 0 || rest[0] != '{' {
		return nil, errNoPlayerResponse
	}

	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(rest); i++ {
		ch := rest[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return []byte(rest[:i+1]), nil
			}
		}
	}

	return nil, errNoPlayerResponse
}

// livestreamFromPage decides the channel's status from its /live page
func livestreamFromPage(ch stream.Channel, page string) stream.Livestream {
	raw, err := extractPlayerResponse(page)
	if err != nil {
		// an offline channel's /live page often has no player at all
		if sniffLive(page) {
			return stream.Livestream{Channel: ch, Live: true}
		}
		return stream.Livestream{Channel: ch}
	}

	var pr playerResponse
	if err := json.Unmarshal(raw, &pr); err != nil {
		return stream.Livestream{Channel: ch}
	}

	details := pr.VideoDetails
	broadcast := pr.Microformat.PlayerMicroformatRenderer.LiveBroadcastDetails
	live := details.IsLive || broadcast.IsLiveNow

	ls := stream.Livestream{
		Channel: ch,
		Live:    live,
		Title:   details.Title,
		VideoID: details.VideoID,
	}

	if !live {
		// the player may be a finished broadcast or a premiere
		return ls
	}

	if viewers, err := strconv.Atoi(details.ViewCount); err == nil {
		ls.Viewers = viewers
	}
	if thumbs := details.Thumbnail.Thumbnails; len(thumbs) > 0 {
		ls.ThumbnailURL = thumbs[len(thumbs)-1].URL
	}
	if at, err := time.Parse(time.RFC3339, broadcast.StartTimestamp); err == nil {
		ls.StartTime = at
	}

	return ls
}

// sniffLive looks for the markers a live page carries even when the
// player json failed to parse
func sniffLive(page string) bool {
	return strings.Contains(page, "hqdefault_live.jpg") ||
		strings.Contains(page, `"isLiveBroadcast":true`) ||
		strings.Contains(page, `"isLiveNow":true`)
}

// findChannelMeta reads the canonical link and og:title tags.
// The canonical link carries the UC channel id even on handle pages.
func findChannelMeta(buf *bytes.Buffer) (channelID, displayName string, err error) {
	doc, err := html.Parse(buf)
	if err != nil {
		return
	}

	var fn func(*html.Node)
	fn = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "link":
				var rel, href string
				for _, a := range n.Attr {
					switch a.Key {
					case "rel":
						rel = a.Val
					case "href":
						href = a.Val
					}
				}
				if rel == "canonical" {
					if at := strings.Index(href, "/channel/"); at >= 0 {
						id := href[at+len("/channel/"):]
						if slash := strings.IndexByte(id, '/'); slash >= 0 {
							id = id[:slash]
						}
						channelID = id
					}
				}
			case "meta":
				var property, content string
				for _, a := range n.Attr {
					switch a.Key {
					case "property":
						property = a.Val
					case "content":
						content = a.Val
					}
				}
				if property == "og:title" {
					displayName = content
				}
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			fn(c)
		}
	}
	fn(doc)

	return
}
