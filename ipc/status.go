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
	"fmt"
	"log"

	"github.com/bobbytrapz/livelist/monitor"
)

// Dashboard represents a connected dashboard
type Dashboard struct {
	SelectURL   string
	StreamTable monitor.DisplayTable
}

var status Dashboard

func (c *Command) replicate(req *Dashboard, res *Dashboard) {
	if req.SelectURL == "?" {
		res.SelectURL = status.SelectURL
	} else {
		status.SelectURL = req.SelectURL
	}

	d := c.monitor.Display()
	res.StreamTable.Live = make([]monitor.DisplayRow, len(d.Live))
	copy(res.StreamTable.Live, d.Live)
	res.StreamTable.Offline = make([]monitor.DisplayRow, len(d.Offline))
	copy(res.StreamTable.Offline, d.Offline)
}

// Status for the dashboard
func (c *Command) Status(req *Dashboard, res *Dashboard) error {
	c.replicate(req, res)

	return nil
}

// CheckNow forces a poll attempt
func (c *Command) CheckNow(req *Dashboard, res *Dashboard) error {
	c.replicate(req, res)
	log.Println("ipc.CheckNow")
	c.monitor.CheckNow()
	return nil
}

// Debug for the dashboard
func (c *Command) Debug(s string, none *struct{}) error {
	fmt.Println(s)

	return nil
}
