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

package kick

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestParseTimeBareTimestamp(t *testing.T) {
	at, err := parseTime("2023-04-05 16:19:06")
	if err != nil {
		t.Fatal(err)
	}

	want := time.Date(2023, 4, 5, 16, 19, 6, 0, time.UTC)
	if !at.Equal(want) {
		t.Error("got", at, "want", want)
	}
	if at.Location() != time.UTC {
		t.Error("bare timestamps are UTC")
	}
}

func TestParseTimeRFC3339(t *testing.T) {
	at, err := parseTime("2023-04-05T16:19:06+00:00")
	if err != nil {
		t.Fatal(err)
	}

	want := time.Date(2023, 4, 5, 16, 19, 6, 0, time.UTC)
	if !at.Equal(want) {
		t.Error("got", at, "want", want)
	}
}

func TestParseTimeGarbage(t *testing.T) {
	if _, err := parseTime("yesterday"); err == nil {
		t.Error("want an error")
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

func TestChannelResponseOffline(t *testing.T) {
	// an offline channel has a json null livestream
	raw := `{"id":1,"slug":"example","chatroom":{"id":77},"user":{"username":"Example"},"livestream":null}`

	var data channelResponse
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		t.Fatal(err)
	}

	if data.Livestream != nil {
		t.Error("want nil livestream")
	}
	if data.Chatroom.ID != 77 {
		t.Error("got chatroom", data.Chatroom.ID)
	}
}

func TestChannelResponseLive(t *testing.T) {
	raw := `{"id":1,"slug":"example","chatroom":{"id":77},"user":{"username":"Example"},
		"livestream":{"session_title":"hi","viewer_count":123,"created_at":"2023-04-05 16:19:06",
		"is_mature":true,"language":"English","categories":[{"name":"Just Chatting"}],
		"thumbnail":{"url":"https://example.com/t.jpg"}}}`

	var data channelResponse
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		t.Fatal(err)
	}

	live := data.Livestream
	if live == nil {
		t.Fatal("want a livestream")
	}
	if live.ViewerCount != 123 || live.SessionTitle != "hi" {
		t.Error("bad livestream decode")
	}
	if len(live.Categories) != 1 || live.Categories[0].Name != "Just Chatting" {
		t.Error("bad categories decode")
	}
}
