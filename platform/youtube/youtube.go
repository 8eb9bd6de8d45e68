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
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/publicsuffix"

	"github.com/bobbytrapz/livelist/options"
	"github.com/bobbytrapz/livelist/platform"
	"github.com/bobbytrapz/livelist/retry"
	"github.com/bobbytrapz/livelist/stream"
)

const domainName = "www.youtube.com"

// Client watches youtube channels by reading their /live pages.
// No credentials are involved.
type Client struct {
	mu   sync.Mutex
	http *http.Client
}

// New youtube client
func New() *Client {
	c := &Client{}
	c.Reset()
	return c
}

// Platform gives the platform this client handles
func (c *Client) Platform() stream.Platform {
	return stream.YouTube
}

// Name for display
func (c *Client) Name() string {
	return "YouTube"
}

// IsAuthorized is always true; public pages need no credentials
func (c *Client) IsAuthorized(ctx context.Context) bool {
	return true
}

// Authorize is a no-op for youtube
func (c *Client) Authorize(ctx context.Context) bool {
	return true
}

// liveURL picks the watch page for an id.
// UC-prefixed ids are channel ids; the rest are handles.
func liveURL(id string) string {
	switch {
	case strings.HasPrefix(id, "UC"):
		return fmt.Sprintf("https://www.youtube.com/channel/%s/live", id)
	case strings.HasPrefix(id, "@"):
		return fmt.Sprintf("https://www.youtube.com/%s/live", id)
	}

	return fmt.Sprintf("https://www.youtube.com/@%s/live", id)
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
	req.Header.Add("Accept-Encoding", "gzip, deflate, br")
	req.Header.Add("Accept-Language", "en-US,en;q=0.8")
	req.Header.Add("User-Agent", ua)

	req = req.WithContext(ctx)

	return
}

// fetchPage downloads one page, retrying transient failures.
// notFound is true for a clean 404.
func (c *Client) fetchPage(ctx context.Context, url string) (buf *bytes.Buffer, notFound bool, err error) {
	err = retry.DefaultPolicy.Do(ctx, func() error {
		req, err := c.makeRequest(ctx, url)
		if err != nil {
			return fmt.Errorf("youtube.fetchPage: %s", err)
		}

		res, err := c.session().Do(req)
		if err != nil {
			return retry.Transient(fmt.Errorf("youtube.fetchPage: %s", err))
		}
		defer res.Body.Close()

		if res.StatusCode == http.StatusNotFound {
			notFound = true
			return nil
		}
		if res.StatusCode != http.StatusOK {
			return retry.NewStatusError(res)
		}

		buf, err = readResponse(res)
		if err != nil {
			return retry.Transient(fmt.Errorf("youtube.fetchPage: %s", err))
		}

		return nil
	})

	return
}

// GetChannelInfo resolves a channel id or handle by reading its page.
// When the page cannot be fetched or parsed we fall back to the id as
// given rather than refuse; a polling cycle will fill in the rest.
func (c *Client) GetChannelInfo(ctx context.Context, id string) (*stream.Channel, error) {
	buf, notFound, err := c.fetchPage(ctx, liveURL(id))
	if err != nil {
		log.Println("youtube.GetChannelInfo:", err)
		ch := stream.NewChannel(id, stream.YouTube, "")
		return &ch, nil
	}
	if notFound {
		return nil, nil
	}

	ch := channelFromPage(id, buf)
	return &ch, nil
}

// channelFromPage decides the channel for an id from its fetched page
func channelFromPage(id string, buf *bytes.Buffer) stream.Channel {
	channelID, displayName, err := findChannelMeta(buf)
	if err != nil || channelID == "" {
		if err != nil {
			log.Println("youtube.channelFromPage:", err)
		}
		// pages change shape often; keep the id we were given
		return stream.NewChannel(id, stream.YouTube, "")
	}

	return stream.NewChannel(channelID, stream.YouTube, displayName)
}

// GetLivestream reads the channel's /live page and decides from there
func (c *Client) GetLivestream(ctx context.Context, ch stream.Channel) stream.Livestream {
	buf, notFound, err := c.fetchPage(ctx, liveURL(ch.ChannelID))
	if err != nil {
		log.Println("youtube.GetLivestream:", err)
		return platform.Offline(ch, err.Error())
	}
	if notFound {
		return platform.Offline(ch, "channel not found")
	}

	return livestreamFromPage(ch, buf.String())
}

// GetLivestreams fans out over the channels with bounded concurrency
func (c *Client) GetLivestreams(ctx context.Context, chs []stream.Channel) []stream.Livestream {
	if len(chs) == 0 {
		return nil
	}

	limit := options.GetInt("performance.youtube_concurrency")
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

// GetFollowedChannels is not possible without youtube account access
func (c *Client) GetFollowedChannels(ctx context.Context, user string) ([]stream.Channel, error) {
	return nil, platform.ErrUnsupported
}

// GetTopStreams is not offered for youtube
func (c *Client) GetTopStreams(ctx context.Context, game string, limit int) ([]stream.Livestream, error) {
	return nil, platform.ErrUnsupported
}

// SearchChannels is not offered for youtube
func (c *Client) SearchChannels(ctx context.Context, query string, limit int) ([]stream.Channel, error) {
	return nil, platform.ErrUnsupported
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

func readResponse(res *http.Response) (buf *bytes.Buffer, err error) {
	encoding := res.Header.Get("Content-Encoding")
	var r io.ReadCloser
	switch encoding {
	case "gzip":
		r, err = gzip.NewReader(res.Body)
		if err != nil {
			err = fmt.Errorf("youtube.readResponse: %s", err)
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
