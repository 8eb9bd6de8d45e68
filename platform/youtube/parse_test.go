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
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/bobbytrapz/livelist/stream"
)

const livePage = `<html><head></head><body><script>
var ytInitialPlayerResponse = {"videoDetails":{"videoId":"dQw4w9WgXcQ","title":"24/7 lofi beats {live}","author":"Lofi Girl","channelId":"UCSJ4gkVC6NrvII8umztf0Ow","isLive":true,"isLiveContent":true,"viewCount":"21342","thumbnail":{"thumbnails":[{"url":"https://i.ytimg.com/vi/small.jpg"},{"url":"https://i.ytimg.com/vi/large.jpg"}]}},"microformat":{"playerMicroformatRenderer":{"liveBroadcastDetails":{"isLiveNow":true,"startTimestamp":"2026-08-20T08:00:00+00:00"}}}};var meta = {};
</script></body></html>`

const vodPage = `<html><head></head><body><script>
var ytInitialPlayerResponse = {"videoDetails":{"videoId":"xyz","title":"old broadcast","author":"Someone","isLive":false,"isLiveContent":true,"viewCount":"900"},"microformat":{"playerMicroformatRenderer":{"liveBroadcastDetails":{"isLiveNow":false,"startTimestamp":"2026-08-01T00:00:00+00:00"}}}};
</script></body></html>`

const offlinePage = `<html><head></head><body><script>var other = {"a":1};</script></body></html>`

func TestExtractPlayerResponseBraceMatching(t *testing.T) {
	// the title contains a brace inside a string literal
	raw, err := extractPlayerResponse(livePage)
	if err != nil {
		t.Fatal(err)
	}
	if raw[0] != '{' || raw[len(raw)-1] != '}' {
		t.Error("want a complete json object")
	}
}

func TestExtractPlayerResponseMissing(t *testing.T) {
	if _, err := extractPlayerResponse(offlinePage); err == nil {
		t.Error("want an error when no player data exists")
	}
}

func TestLivestreamFromLivePage(t *testing.T) {
	ch := stream.NewChannel("UCSJ4gkVC6NrvII8umztf0Ow", stream.YouTube, "Lofi Girl")
	ls := livestreamFromPage(ch, livePage)

	if !ls.Live {
		t.Fatal("want live")
	}
	if ls.Title != "24/7 lofi beats {live}" {
		t.Error("got title", ls.Title)
	}
	if ls.Viewers != 21342 {
		t.Error("got viewers", ls.Viewers)
	}
	if ls.VideoID != "dQw4w9WgXcQ" {
		t.Error("got video id", ls.VideoID)
	}
	if ls.ThumbnailURL != "https://i.ytimg.com/vi/large.jpg" {
		t.Error("want the largest thumbnail got", ls.ThumbnailURL)
	}
	if ls.StartTime.IsZero() {
		t.Error("want a start time")
	}
}

func TestLivestreamFromVODPage(t *testing.T) {
	ch := stream.NewChannel("UCx", stream.YouTube, "Someone")
	ls := livestreamFromPage(ch, vodPage)

	if ls.Live {
		t.Error("a finished broadcast is not live")
	}
	if ls.ErrorMessage != "" {
		t.Error("an offline channel is not an error")
	}
}

func TestLivestreamFromOfflinePage(t *testing.T) {
	ch := stream.NewChannel("UCx", stream.YouTube, "Someone")
	ls := livestreamFromPage(ch, offlinePage)

	if ls.Live {
		t.Error("want offline")
	}
}

func TestFindChannelMeta(t *testing.T) {
	page := `<html><head>
<link rel="canonical" href="https://www.youtube.com/channel/UCSJ4gkVC6NrvII8umztf0Ow/live">
<meta property="og:title" content="Lofi Girl">
</head><body></body></html>`

	id, name, err := findChannelMeta(bytes.NewBufferString(page))
	if err != nil {
		t.Fatal(err)
	}
	if id != "UCSJ4gkVC6NrvII8umztf0Ow" {
		t.Error("got id", id)
	}
	if name != "Lofi Girl" {
		t.Error("got name", name)
	}
}

func TestChannelFromPageFallsBack(t *testing.T) {
	// a page with no canonical link still yields a usable channel
	ch := channelFromPage("@somebody", bytes.NewBufferString(offlinePage))
	if ch.ChannelID != "@somebody" {
		t.Error("got", ch.ChannelID)
	}
	if ch.Platform != stream.YouTube {
		t.Error("got", ch.Platform)
	}
}

func TestReadResponseBadGzip(t *testing.T) {
	// a body claiming gzip but holding something else must not panic
	res := &http.Response{
		Header: http.Header{"Content-Encoding": []string{"gzip"}},
		Body:   io.NopCloser(strings.NewReader("this is not gzip")),
	}

	if _, err := readResponse(res); err == nil {
		t.Error("want an error for a bad gzip body")
	}
}

func TestLiveURL(t *testing.T) {
	for in, want := range map[string]string{
		"UCSJ4gkVC6NrvII8umztf0Ow": "https://www.youtube.com/channel/UCSJ4gkVC6NrvII8umztf0Ow/live",
		"@LofiGirl":                "https://www.youtube.com/@LofiGirl/live",
		"LofiGirl":                 "https://www.youtube.com/@LofiGirl/live",
	} {
		if got := liveURL(in); got != want {
			t.Errorf("liveURL(%q) = %q want %q", in, got, want)
		}
	}
}
