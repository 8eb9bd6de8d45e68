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

package ipc

import (
	"context"
	"fmt"
	"log"

	"github.com/bobbytrapz/livelist/stream"
)

// ChannelRequest names one channel on one platform
type ChannelRequest struct {
	Platform  string
	ChannelID string
}

// ImportRequest asks for a user's follows on one platform
type ImportRequest struct {
	Platform string
	User     string
}

// FlagRequest sets one channel setting
type FlagRequest struct {
	Platform  string
	ChannelID string
	Value     bool
}

// Reply carries a message for the user
type Reply struct {
	Message string
}

// Add a channel to the watch list
func (c *Command) Add(req ChannelRequest, res *Reply) error {
	p, err := stream.ParsePlatform(req.Platform)
	if err != nil {
		return err
	}

	log.Println("ipc.Add:", p, req.ChannelID)
	if err := c.monitor.AddChannel(context.Background(), p, req.ChannelID); err != nil {
		return err
	}

	res.Message = fmt.Sprintf("%s added %s", p, req.ChannelID)
	return nil
}

// Remove a channel from the watch list
func (c *Command) Remove(req ChannelRequest, res *Reply) error {
	p, err := stream.ParsePlatform(req.Platform)
	if err != nil {
		return err
	}

	log.Println("ipc.Remove:", p, req.ChannelID)
	if err := c.monitor.RemoveChannel(p, req.ChannelID); err != nil {
		return err
	}

	res.Message = fmt.Sprintf("%s removed %s", p, req.ChannelID)
	return nil
}

// RemoveAll channels on one platform
func (c *Command) RemoveAll(req ChannelRequest, res *Reply) error {
	p, err := stream.ParsePlatform(req.Platform)
	if err != nil {
		return err
	}

	removed := c.monitor.RemoveChannels(p)
	log.Println("ipc.RemoveAll:", p, removed)

	res.Message = fmt.Sprintf("%s removed %d channels", p, removed)
	return nil
}

// Import a user's follows
func (c *Command) Import(req ImportRequest, res *Reply) error {
	p, err := stream.ParsePlatform(req.Platform)
	if err != nil {
		return err
	}

	log.Println("ipc.Import:", p, req.User)
	added, err := c.monitor.ImportFollows(context.Background(), p, req.User)
	if err != nil {
		return err
	}

	res.Message = fmt.Sprintf("%s imported %d channels followed by %s", p, added, req.User)
	return nil
}

// Favorite flags a channel
func (c *Command) Favorite(req FlagRequest, res *Reply) error {
	p, err := stream.ParsePlatform(req.Platform)
	if err != nil {
		return err
	}

	if err := c.monitor.SetFavorite(p, req.ChannelID, req.Value); err != nil {
		return err
	}

	res.Message = fmt.Sprintf("%s favorite %s: %t", p, req.ChannelID, req.Value)
	return nil
}

// DontNotify flags a channel
func (c *Command) DontNotify(req FlagRequest, res *Reply) error {
	p, err := stream.ParsePlatform(req.Platform)
	if err != nil {
		return err
	}

	if err := c.monitor.SetDontNotify(p, req.ChannelID, req.Value); err != nil {
		return err
	}

	res.Message = fmt.Sprintf("%s dont-notify %s: %t", p, req.ChannelID, req.Value)
	return nil
}
