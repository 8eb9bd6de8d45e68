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

package twitch

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/nicklaw5/helix/v2"

	"github.com/bobbytrapz/livelist/options"
	"github.com/bobbytrapz/livelist/platform"
	"github.com/bobbytrapz/livelist/retry"
	"github.com/bobbytrapz/livelist/stream"
)

// helix caps streams/users lookups at 100 per request
const maxBatch = 100

// Settings for the twitch backend
type Settings struct {
	ClientID     string
	ClientSecret string
	AccessToken  string
}

// FromOptions reads the twitch settings block
func FromOptions() Settings {
	return Settings{
		ClientID:     options.Get("twitch.client_id"),
		ClientSecret: options.Get("twitch.client_secret"),
		AccessToken:  options.Get("twitch.access_token"),
	}
}

// Client queries twitch through the helix api
type Client struct {
	settings Settings

	mu    sync.Mutex
	helix *helix.Client
	token string
}

// New twitch client
func New(settings Settings) *Client {
	return &Client{
		settings: settings,
		token:    settings.AccessToken,
	}
}

// Platform gives the platform this client handles
func (c *Client) Platform() stream.Platform {
	return stream.Twitch
}

// Name for display
func (c *Client) Name() string {
	return "Twitch"
}

func (c *Client) session() (*helix.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.helix != nil {
		return c.helix, nil
	}

	h, err := helix.NewClient(&helix.Options{
		ClientID:       c.settings.ClientID,
		ClientSecret:   c.settings.ClientSecret,
		AppAccessToken: c.token,
	})
	if err != nil {
		return nil, fmt.Errorf("twitch.session: %s", err)
	}

	c.helix = h
	return h, nil
}

// IsAuthorized is true if we hold an access token
func (c *Client) IsAuthorized(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.token != ""
}

// Authorize obtains an app access token via client credentials
func (c *Client) Authorize(ctx context.Context) bool {
	if c.IsAuthorized(ctx) {
		return true
	}

	if c.settings.ClientID == "" || c.settings.ClientSecret == "" {
		return false
	}

	h, err := c.session()
	if err != nil {
		log.Println("twitch.Authorize:", err)
		return false
	}

	resp, err := h.RequestAppAccessToken(nil)
	if err != nil {
		log.Println("twitch.Authorize:", err)
		return false
	}
	if resp.StatusCode != http.StatusOK {
		log.Printf("twitch.Authorize: %d: %s %s", resp.StatusCode, resp.Error, resp.ErrorMessage)
		return false
	}

	c.mu.Lock()
	c.token = resp.Data.AccessToken
	c.helix.SetAppAccessToken(c.token)
	c.mu.Unlock()

	return true
}

// GetChannelInfo resolves a login name into a channel
func (c *Client) GetChannelInfo(ctx context.Context, id string) (*stream.Channel, error) {
	h, err := c.session()
	if err != nil {
		return nil, err
	}

	resp, err := h.GetUsers(&helix.UsersParams{Logins: []string{id}})
	if err != nil {
		return nil, fmt.Errorf("twitch.GetChannelInfo: %s", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("twitch.GetChannelInfo: %d: %s %s", resp.StatusCode, resp.Error, resp.ErrorMessage)
	}
	if len(resp.Data.Users) == 0 {
		return nil, nil
	}

	user := resp.Data.Users[0]
	ch := stream.NewChannel(user.Login, stream.Twitch, user.DisplayName)
	return &ch, nil
}

// GetLivestream gives the status for a single channel
func (c *Client) GetLivestream(ctx context.Context, ch stream.Channel) stream.Livestream {
	results := c.GetLivestreams(ctx, []stream.Channel{ch})
	ls := results[0]

	// offline channels get a best-effort last broadcast time
	if !ls.Live && ls.ErrorMessage == "" {
		if at, err := c.lastBroadcast(ctx, ch.ChannelID); err == nil {
			ls.LastLiveTime = at
		}
	}

	return ls
}

// GetLivestreams queries a whole batch of channels
func (c *Client) GetLivestreams(ctx context.Context, chs []stream.Channel) []stream.Livestream {
	if len(chs) == 0 {
		return nil
	}

	out := make([]stream.Livestream, 0, len(chs))
	for i := 0; i < len(chs); i += maxBatch {
		end := i + maxBatch
		if end > len(chs) {
			end = len(chs)
		}
		out = append(out, c.getBatch(ctx, chs[i:end])...)
	}

	return out
}

func (c *Client) getBatch(ctx context.Context, chs []stream.Channel) []stream.Livestream {
	h, err := c.session()
	if err != nil {
		return platform.OfflineAll(chs, err.Error())
	}

	logins := make([]string, 0, len(chs))
	for _, ch := range chs {
		logins = append(logins, ch.ChannelID)
	}

	var streams []helix.Stream
	err = retry.DefaultPolicy.Do(ctx, func() error {
		resp, err := h.GetStreams(&helix.StreamsParams{
			UserLogins: logins,
			First:      len(logins),
		})
		if err != nil {
			return retry.Transient(err)
		}
		if resp.StatusCode != http.StatusOK {
			if retry.RetryableStatus(resp.StatusCode) {
				return &retry.StatusError{
					Code:       resp.StatusCode,
					RetryAfter: retry.RetryAfter(resp.Header.Get("Retry-After"), 0),
				}
			}
			return fmt.Errorf("twitch.getBatch: %d: %s %s", resp.StatusCode, resp.Error, resp.ErrorMessage)
		}
		streams = resp.Data.Streams
		return nil
	})
	if err != nil {
		log.Println("twitch.getBatch:", err)
		return platform.OfflineAll(chs, err.Error())
	}

	byLogin := make(map[string]helix.Stream, len(streams))
	for _, s := range streams {
		byLogin[strings.ToLower(s.UserLogin)] = s
	}

	out := make([]stream.Livestream, 0, len(chs))
	for _, ch := range chs {
		s, ok := byLogin[strings.ToLower(ch.ChannelID)]
		if !ok || s.Type != "live" {
			out = append(out, stream.Livestream{Channel: ch})
			continue
		}

		out = append(out, stream.Livestream{
			Channel:      ch,
			Live:         true,
			Title:        s.Title,
			Game:         s.GameName,
			Viewers:      s.ViewerCount,
			StartTime:    s.StartedAt,
			ThumbnailURL: thumbnail(s.ThumbnailURL),
			Language:     s.Language,
			IsMature:     s.IsMature,
		})
	}

	return out
}

// lastBroadcast finds when the channel's most recent archive was made
func (c *Client) lastBroadcast(ctx context.Context, login string) (at time.Time, err error) {
	h, err := c.session()
	if err != nil {
		return
	}

	users, err := h.GetUsers(&helix.UsersParams{Logins: []string{login}})
	if err != nil || users.StatusCode != http.StatusOK || len(users.Data.Users) == 0 {
		err = fmt.Errorf("twitch.lastBroadcast: no user for %s", login)
		return
	}

	resp, err := h.GetVideos(&helix.VideosParams{
		UserID: users.Data.Users[0].ID,
		First:  1,
		Type:   "archive",
	})
	if err != nil {
		err = fmt.Errorf("twitch.lastBroadcast: %s", err)
		return
	}
	if resp.StatusCode != http.StatusOK || len(resp.Data.Videos) == 0 {
		err = fmt.Errorf("twitch.lastBroadcast: no videos for %s", login)
		return
	}

	at, err = time.Parse(time.RFC3339, resp.Data.Videos[0].CreatedAt)
	if err != nil {
		err = fmt.Errorf("twitch.lastBroadcast: %s", err)
	}

	return
}

// GetFollowedChannels imports the channels a user follows.
// Requires a user access token with the user:read:follows scope.
func (c *Client) GetFollowedChannels(ctx context.Context, user string) ([]stream.Channel, error) {
	if !c.IsAuthorized(ctx) {
		return nil, fmt.Errorf("twitch.GetFollowedChannels: authorization required")
	}
	if user == "" {
		return nil, fmt.Errorf("twitch.GetFollowedChannels: a user login is required")
	}

	h, err := c.session()
	if err != nil {
		return nil, err
	}

	users, err := h.GetUsers(&helix.UsersParams{Logins: []string{user}})
	if err != nil {
		return nil, fmt.Errorf("twitch.GetFollowedChannels: %s", err)
	}
	if users.StatusCode != http.StatusOK || len(users.Data.Users) == 0 {
		return nil, fmt.Errorf("twitch.GetFollowedChannels: unknown user: %s", user)
	}
	userID := users.Data.Users[0].ID

	var channels []stream.Channel
	params := &helix.GetFollowedChannelParams{
		UserID: userID,
		First:  100,
	}
	for {
		resp, err := h.GetFollowedChannels(params)
		if err != nil {
			return nil, fmt.Errorf("twitch.GetFollowedChannels: %s", err)
		}
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return nil, fmt.Errorf("twitch.GetFollowedChannels: authorization required")
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("twitch.GetFollowedChannels: %d: %s %s", resp.StatusCode, resp.Error, resp.ErrorMessage)
		}

		for _, f := range resp.Data.FollowedChannels {
			ch := stream.NewChannel(f.BroadcaserLogin, stream.Twitch, f.BroadcasterName)
			ch.ImportedBy = user
			channels = append(channels, ch)
		}

		cursor := resp.Data.Pagination.Cursor
		if cursor == "" || len(resp.Data.FollowedChannels) == 0 {
			break
		}
		params.After = cursor
	}

	return channels, nil
}

// GetTopStreams gives the top live streams, optionally for one game
func (c *Client) GetTopStreams(ctx context.Context, game string, limit int) ([]stream.Livestream, error) {
	h, err := c.session()
	if err != nil {
		return nil, err
	}

	if limit <= 0 || limit > maxBatch {
		limit = maxBatch
	}
	params := &helix.StreamsParams{First: limit}
	if game != "" {
		params.GameIDs = []string{game}
	}

	resp, err := h.GetStreams(params)
	if err != nil {
		return nil, fmt.Errorf("twitch.GetTopStreams: %s", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("twitch.GetTopStreams: %d: %s %s", resp.StatusCode, resp.Error, resp.ErrorMessage)
	}

	streams := make([]stream.Livestream, 0, len(resp.Data.Streams))
	for _, s := range resp.Data.Streams {
		ch := stream.NewChannel(s.UserLogin, stream.Twitch, s.UserName)
		streams = append(streams, stream.Livestream{
			Channel:      ch,
			Live:         true,
			Title:        s.Title,
			Game:         s.GameName,
			Viewers:      s.ViewerCount,
			StartTime:    s.StartedAt,
			ThumbnailURL: thumbnail(s.ThumbnailURL),
			Language:     s.Language,
			IsMature:     s.IsMature,
		})
	}

	return streams, nil
}

// SearchChannels looks up channels by name
func (c *Client) SearchChannels(ctx context.Context, query string, limit int) ([]stream.Channel, error) {
	h, err := c.session()
	if err != nil {
		return nil, err
	}

	if limit <= 0 || limit > maxBatch {
		limit = maxBatch
	}
	resp, err := h.SearchChannels(&helix.SearchChannelsParams{
		Channel: query,
		First:   limit,
	})
	if err != nil {
		return nil, fmt.Errorf("twitch.SearchChannels: %s", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("twitch.SearchChannels: %d: %s %s", resp.StatusCode, resp.Error, resp.ErrorMessage)
	}

	channels := make([]stream.Channel, 0, len(resp.Data.Channels))
	for _, found := range resp.Data.Channels {
		channels = append(channels, stream.NewChannel(found.BroadcasterLogin, stream.Twitch, found.DisplayName))
	}

	return channels, nil
}

// Reset drops the helix session so the next call recreates it
func (c *Client) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.helix = nil
}

// Close the client
func (c *Client) Close() error {
	c.Reset()
	return nil
}

// twitch thumbnails come templated
func thumbnail(url string) string {
	url = strings.Replace(url, "{width}", "320", 1)
	return strings.Replace(url, "{height}", "180", 1)
}
