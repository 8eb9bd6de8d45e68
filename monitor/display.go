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

package monitor

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/bobbytrapz/livelist/stream"
)

// DisplayRow of data
type DisplayRow struct {
	Status   string
	Name     string
	Platform string
	Title    string
	Link     string
	Favorite bool
}

// DisplayTable of everything we watch
type DisplayTable struct {
	Live    []DisplayRow
	Offline []DisplayRow
}

func displayRow(s stream.Livestream) (row DisplayRow) {
	row = DisplayRow{
		Name:     s.DisplayName(),
		Platform: string(s.Channel.Platform),
		Title:    s.Title,
		Link:     s.StreamURL(),
		Favorite: s.Channel.Favorite,
	}

	if s.Live {
		row.Status = fmt.Sprintf("Live (%s)", s.FormatViewers())
		if d := s.Uptime().Truncate(time.Minute); d > time.Minute {
			row.Status = fmt.Sprintf("Live (%s, %s)", s.FormatViewers(), strings.TrimSuffix(d.String(), "0s"))
		}
		return
	}

	row.Status = "Offline"
	if seen := s.FormatLastSeen(); seen != "" {
		row.Status = fmt.Sprintf("Offline (%s)", seen)
	}
	if s.ErrorMessage != "" {
		row.Status = "Unknown"
	}

	return
}

type byViewers []stream.Livestream

func (s byViewers) Len() int {
	return len(s)
}

func (s byViewers) Swap(a, b int) {
	s[a], s[b] = s[b], s[a]
}

func (s byViewers) Less(a, b int) bool {
	if s[a].Channel.Favorite != s[b].Channel.Favorite {
		return s[a].Channel.Favorite
	}

	if s[a].Viewers != s[b].Viewers {
		return s[a].Viewers > s[b].Viewers
	}

	return s[a].DisplayName() < s[b].DisplayName()
}

type byLastSeen []stream.Livestream

func (s byLastSeen) Len() int {
	return len(s)
}

func (s byLastSeen) Swap(a, b int) {
	s[a], s[b] = s[b], s[a]
}

func (s byLastSeen) Less(a, b int) bool {
	if s[a].Channel.Favorite != s[b].Channel.Favorite {
		return s[a].Channel.Favorite
	}

	if !s[a].LastLiveTime.Equal(s[b].LastLiveTime) {
		return s[a].LastLiveTime.After(s[b].LastLiveTime)
	}

	return s[a].DisplayName() < s[b].DisplayName()
}

// Display gives everything we watch sorted for the dashboard
func (m *Monitor) Display() (d DisplayTable) {
	var live []stream.Livestream
	var offline []stream.Livestream
	for _, s := range m.Streams() {
		if s.Live {
			live = append(live, s)
		} else {
			offline = append(offline, s)
		}
	}

	sort.Sort(byViewers(live))
	sort.Sort(byLastSeen(offline))

	for _, s := range live {
		d.Live = append(d.Live, displayRow(s))
	}
	for _, s := range offline {
		d.Offline = append(d.Offline, displayRow(s))
	}

	return
}

// Output for ui
func (d DisplayTable) Output(dst io.Writer) error {
	tw := tabwriter.NewWriter(dst, 0, 0, 4, ' ', 0)

	for _, row := range d.Live {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", row.Status, row.Name, row.Platform, row.Title)
	}
	if len(d.Live) > 0 && len(d.Offline) > 0 {
		fmt.Fprintln(tw, "\t\t\t")
	}

	for _, row := range d.Offline {
		fmt.Fprintf(tw, "%s\t%s\t%s\t\n", row.Status, row.Name, row.Platform)
	}

	return tw.Flush()
}
