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
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/publicsuffix"

	"github.com/bobbytrapz/livelist/options"
	"github.com/bobbytrapz/livelist/platform"
	"github.com/bobbytrapz/livelist/retry"
	"github.com/bobbytrapz/livelist/stream"
)

const domainName = "kick.com"

// kick reports times like "2023-04-05 16:19:06" with no zone; they are UTC
const timeLayout = "2006-01-02 15:04:05"

// Client talks to kick's unofficial REST api.
// There is no documented public api so the shapes here follow what the
// site itself requests.
type Client struct {
	mu   sync.Mutex
	http *http.Client
}

// New kick client
func New() *Client {
	c := &Client{}
	c.Reset()
	return c
}

// Platform gives the platform this client handles
func (c *Client) Platform() stream.Platform {
	return stream.Kick
}

// Name for display
func (c *Client) Name() string {
	return "Kick"
}

// IsAuthorized is always true; public endpoints need no credentials
func (c *Client) IsAuthorized(ctx context.Context) bool {
	return true
}

// Authorize is a no-op for kick
func (c *Client) Authorize(ctx context.Context) bool {
	return true
}

func (c *Client) session() *http.Client {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.http
}

func (c *Client) makeRequest(ctx context.Context, url string) (req *http.Request, err error) {
	ua := options.Get("user_agent")

	req, err = http.NewRequest("GET", url, nil)
	if err != nil {
		return
	}

	// headers
	req.Header.Add("Host", domainName)
	req.Header.Add("Connection", "keep-alive")
	req.Header.Add("Accept", "application/json")
	req.Header.Add("Accept-Encoding", "gzip, deflate, br")
	req.Header.Add("Accept-Language", "en-US,en;q=0.8")
	req.Header.Add("User-Agent", ua)

	req = req.WithContext(ctx)

	return
}

// fetchJSON downloads and decodes one endpoint, retrying transient
// failures. notFound is true for a clean 404.
func (c *Client) fetchJSON(ctx context.Context, url string, into interface{}) (notFound bool, err error) {
	err = retry.DefaultPolicy.Do(ctx, func() error {
		req, err := c.makeRequest(ctx, url)
		if err != nil {
			return fmt.Errorf("kick.fetchJSON: %s", err)
		}

		res, err := c.session().Do(req)
		if err != nil {
			return retry.Transient(fmt.Errorf("kick.fetchJSON: %s", err))
		}
		defer res.Body.Close()

		if res.StatusCode == http.StatusNotFound {
			notFound = true
			return nil
		}
		if res.StatusCode != http.StatusOK {
			return retry.NewStatusError(res)
		}

		buf, err := readResponse(res)
		if err != nil {
			return retry.Transient(fmt.Errorf("kick.fetchJSON: %s", err))
		}

		if err := json.Unmarshal(buf.Bytes(), into); err != nil {
			return fmt.Errorf("kick.fetchJSON: %s", err)
		}

		return nil
	})

	return
}

type channelResponse struct {
	ID       int    `json:"id"`
	Slug     string `json:"slug"`
	Chatroom struct {
		ID int `json:"id"`
	} `json:"chatroom"`
	User struct {
		Username string `json:"username"`
	} `json:"user"`
	Livestream *struct {
		SessionTitle string `json:"session_title"`
		ViewerCount  int    `json:"viewer_count"`
		CreatedAt    string `json:"created_at"`
		IsMature     bool   `json:"is_mature"`
		Language     string `json:"language"`
		Categories   []struct {
			Name string `json:"name"`
		} `json:"categories"`
		Thumbnail struct {
			URL string `json:"url"`
		} `json:"thumbnail"`
	} `json:"livestream"`
}

type videosResponse []struct {
	CreatedAt string `json:"created_at"`
}

// GetChannelInfo resolves a kick slug into a channel
func (c *Client) GetChannelInfo(ctx context.Context, id string) (*stream.Channel, error) {
	var data channelResponse
	notFound, err := c.fetchJSON(ctx, fmt.Sprintf("https://kick.com/api/v2/channels/%s", url.PathEscape(id)), &data)
	if err != nil {
		return nil, fmt.Errorf("kick.GetChannelInfo: %s", err)
	}
	if notFound {
		return nil, nil
	}

	ch := stream.NewChannel(data.Slug, stream.Kick, data.User.Username)
	return &ch, nil
}

// GetLivestream gives the status for a single slug
func (c *Client) GetLivestream(ctx context.Context, ch stream.Channel) stream.Livestream {
	var data channelResponse
	notFound, err := c.fetchJSON(ctx, fmt.Sprintf("https://kick.com/api/v2/channels/%s", url.PathEscape(ch.ChannelID)), &data)
	if err != nil {
		log.Println("kick.GetLivestream:", err)
		return platform.Offline(ch, err.Error())
	}
	if notFound {
		return platform.Offline(ch, "channel not found")
	}

	ls := stream.Livestream{
		Channel:    ch,
		ChatroomID: data.Chatroom.ID,
	}

	if data.Livestream == nil {
		// offline; find when they last went live
		if at, err := c.lastBroadcast(ctx, ch.ChannelID); err == nil {
			ls.LastLiveTime = at
		}
		return ls
	}

	live := data.Livestream
	ls.Live = true
	ls.Title = live.SessionTitle
	ls.Viewers = live.ViewerCount
	ls.IsMature = live.IsMature
	ls.Language = live.Language
	ls.ThumbnailURL = live.Thumbnail.URL
	if len(live.Categories) > 0 {
		ls.Game = live.Categories[0].Name
	}
	if at, err := parseTime(live.CreatedAt); err == nil {
		ls.StartTime = at
	}

	return ls
}

// lastBroadcast finds the newest archived video's capture time
func (c *Client) lastBroadcast(ctx context.Context, slug string) (at time.Time, err error) {
	var videos videosResponse
	notFound, err := c.fetchJSON(ctx, fmt.Sprintf("https://kick.com/api/v2/channels/%s/videos", url.PathEscape(slug)), &videos)
	if err != nil {
		err = fmt.Errorf("kick.lastBroadcast: %s", err)
		return
	}
	if notFound || len(videos) == 0 {
		err = fmt.Errorf("kick.lastBroadcast: no videos for %s", slug)
		return
	}

	return parseTime(videos[0].CreatedAt)
}

// GetLivestreams fans out over the slugs with bounded concurrency
func (c *Client) GetLivestreams(ctx context.Context, chs []stream.Channel) []stream.Livestream {
	if len(chs) == 0 {
		return nil
	}

	limit := options.GetInt("performance.kick_concurrency")
	if limit < 1 {
		limit = 1
	}

	out := make([]stream.Livestream, len(chs))
	sem := make(chan struct{}, limit)
	var wg sync.WaitGroup
	for i, ch := range chs {
		wg.Add(1)
		go func(i int, ch stream.Channel) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			out[i] = c.GetLivestream(ctx, ch)
		}(i, ch)
	}
	wg.Wait()

	return out
}

// GetFollowedChannels needs a logged-in account we do not have
func (c *Client) GetFollowedChannels(ctx context.Context, user string) ([]stream.Channel, error) {
	return nil, platform.ErrUnsupported
}

type topResponse struct {
	Data []struct {
		Channel struct {
			Slug string `json:"slug"`
			User struct {
				Username string `json:"username"`
			} `json:"user"`
		} `json:"channel"`
		SessionTitle string `json:"session_title"`
		ViewerCount  int    `json:"viewer_count"`
		CreatedAt    string `json:"created_at"`
		IsMature     bool   `json:"is_mature"`
		Language     string `json:"language"`
		Categories   []struct {
			Name string `json:"name"`
		} `json:"categories"`
		Thumbnail struct {
			Src string `json:"src"`
		} `json:"thumbnail"`
	} `json:"data"`
}

// GetTopStreams gives kick's front-page live streams
func (c *Client) GetTopStreams(ctx context.Context, game string, limit int) ([]stream.Livestream, error) {
	if limit <= 0 {
		limit = 25
	}

	u := fmt.Sprintf("https://kick.com/api/v1/livestreams?page_size=%d&sort=desc", limit)
	if game != "" {
		u += "&category=" + url.QueryEscape(strings.ToLower(game))
	}

	var data topResponse
	notFound, err := c.fetchJSON(ctx, u, &data)
	if err != nil {
		return nil, fmt.Errorf("kick.GetTopStreams: %s", err)
	}
	if notFound {
		return nil, fmt.Errorf("kick.GetTopStreams: endpoint not found")
	}

	streams := make([]stream.Livestream, 0, len(data.Data))
	for _, entry := range data.Data {
		ch := stream.NewChannel(entry.Channel.Slug, stream.Kick, entry.Channel.User.Username)
		ls := stream.Livestream{
			Channel:      ch,
			Live:         true,
			Title:        entry.SessionTitle,
			Viewers:      entry.ViewerCount,
			IsMature:     entry.IsMature,
			Language:     entry.Language,
			ThumbnailURL: entry.Thumbnail.Src,
		}
		if len(entry.Categories) > 0 {
			ls.Game = entry.Categories[0].Name
		}
		if at, err := parseTime(entry.CreatedAt); err == nil {
			ls.StartTime = at
		}
		streams = append(streams, ls)
	}

	return streams, nil
}

type searchResponse struct {
	Channels []struct {
		Slug string `json:"slug"`
		User struct {
			Username string `json:"username"`
		} `json:"user"`
	} `json:"channels"`
}

// SearchChannels looks up channels by name
func (c *Client) SearchChannels(ctx context.Context, query string, limit int) ([]stream.Channel, error) {
	var data searchResponse
	u := "https://kick.com/api/search?searched_word=" + url.QueryEscape(query)
	notFound, err := c.fetchJSON(ctx, u, &data)
	if err != nil {
		return nil, fmt.Errorf("kick.SearchChannels: %s", err)
	}
	if notFound {
		return nil, fmt.Errorf("kick.SearchChannels: endpoint not found")
	}

	channels := make([]stream.Channel, 0, len(data.Channels))
	for _, found := range data.Channels {
		if limit > 0 && len(channels) >= limit {
			break
		}
		channels = append(channels, stream.NewChannel(found.Slug, stream.Kick, found.User.Username))
	}

	return channels, nil
}

// Reset replaces the http session and cookie jar
func (c *Client) Reset() {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		panic(err)
	}

	c.mu.Lock()
	c.http = &http.Client{
		Jar:     jar,
		Timeout: 60 * time.Second,
	}
	c.mu.Unlock()
}

// Close the client
func (c *Client) Close() error {
	c.session().CloseIdleConnections()
	return nil
}

// parseTime handles kick's bare timestamps and the odd RFC3339 one
func parseTime(value string) (time.Time, error) {
	if at, err := time.ParseInLocation(timeLayout, value, time.UTC); err == nil {
		return at, nil
	}

	return time.Parse(time.RFC3339, value)
}

func readResponse(res *http.Response) (buf *bytes.Buffer, err error) {
	encoding := res.Header.Get("Content-Encoding")
	var r io.ReadCloser
	switch encoding {
	case "gzip":
		r, err = gzip.NewReader(res.Body)
		if err != nil {
			err = fmt.Errorf("kick.readResponse: %s", err)
			return
		}
		defer r.Close()
	default:
		r = res.Body
	}

	buf = &bytes.Buffer{}
	io.Copy(buf, r)

	return
}
