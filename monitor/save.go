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
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/bobbytrapz/livelist/options"
	"github.com/bobbytrapz/livelist/stream"
)

// Filename of the channel list
const Filename = "channels.json"

// saveDelay batches bursts of changes into one write
const saveDelay = 2 * time.Second

func listPath() string {
	return filepath.Join(options.DataPath, Filename)
}

// record is one persisted channel
type record struct {
	ChannelID   string    `json:"channel_id"`
	Platform    string    `json:"platform"`
	DisplayName string    `json:"display_name"`
	ImportedBy  string    `json:"imported_by,omitempty"`
	DontNotify  bool      `json:"dont_notify,omitempty"`
	Favorite    bool      `json:"favorite,omitempty"`
	AddedAt     time.Time `json:"added_at"`
	// nil for channels we have never seen live
	LastLiveTime *time.Time `json:"last_live_time,omitempty"`
}

// requestSave schedules a write. Every change restarts the clock so
// the write lands a full delay after the last change, not the first.
func (m *Monitor) requestSave() {
	m.save.Lock()
	defer m.save.Unlock()

	m.save.pending = true
	if m.save.timer != nil {
		m.save.timer.Stop()
	}
	m.save.timer = time.AfterFunc(saveDelay, func() {
		m.save.Lock()
		m.save.timer = nil
		pending := m.save.pending
		m.save.pending = false
		m.save.Unlock()

		if pending {
			if err := m.writeList(); err != nil {
				log.Println("monitor.requestSave:", err)
			}
		}
	})
}

// FlushPendingSave writes right away if a save is waiting.
// Call before exit so nothing is lost to the delay window.
func (m *Monitor) FlushPendingSave() {
	m.save.Lock()
	if m.save.timer != nil {
		m.save.timer.Stop()
		m.save.timer = nil
	}
	pending := m.save.pending
	m.save.pending = false
	m.save.Unlock()

	if pending {
		if err := m.writeList(); err != nil {
			log.Println("monitor.FlushPendingSave:", err)
		}
	}
}

func (m *Monitor) writeList() error {
	m.mu.Lock()
	records := make([]record, 0, len(m.streams))
	for _, s := range m.streams {
		r := record{
			ChannelID:   s.Channel.ChannelID,
			Platform:    string(s.Channel.Platform),
			DisplayName: s.Channel.DisplayName,
			ImportedBy:  s.Channel.ImportedBy,
			DontNotify:  s.Channel.DontNotify,
			Favorite:    s.Channel.Favorite,
			AddedAt:     s.Channel.AddedAt,
		}
		if !s.LastLiveTime.IsZero() {
			at := s.LastLiveTime
			r.LastLiveTime = &at
		}
		records = append(records, r)
	}
	m.mu.Unlock()

	sort.Slice(records, func(i, j int) bool {
		if records[i].Platform != records[j].Platform {
			return records[i].Platform < records[j].Platform
		}
		return records[i].ChannelID < records[j].ChannelID
	})

	buf, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("monitor.writeList: %s", err)
	}

	if err := os.MkdirAll(options.DataPath, 0700); err != nil {
		return fmt.Errorf("monitor.writeList: %s", err)
	}

	// write whole then rename so a crash never leaves half a list
	tmp := listPath() + ".tmp"
	if err := os.WriteFile(tmp, buf, 0600); err != nil {
		return fmt.Errorf("monitor.writeList: %s", err)
	}
	if err := os.Rename(tmp, listPath()); err != nil {
		return fmt.Errorf("monitor.writeList: %s", err)
	}

	log.Println("monitor.writeList: saved", len(records), "channels")

	return nil
}

// load reads the channel list. A missing file is an empty list.
// A record that fails to decode is skipped, not fatal.
func (m *Monitor) load() error {
	buf, err := os.ReadFile(listPath())
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("monitor.load: %s", err)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(buf, &raw); err != nil {
		return fmt.Errorf("monitor.load: %s", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for n, entry := range raw {
		var r record
		if err := json.Unmarshal(entry, &r); err != nil {
			log.Printf("monitor.load: skipping record %d: %s", n, err)
			continue
		}

		p, err := stream.ParsePlatform(r.Platform)
		if err != nil || r.ChannelID == "" {
			log.Printf("monitor.load: skipping record %d: bad channel", n)
			continue
		}

		ch := stream.Channel{
			ChannelID:   r.ChannelID,
			Platform:    p,
			DisplayName: r.DisplayName,
			ImportedBy:  r.ImportedBy,
			DontNotify:  r.DontNotify,
			Favorite:    r.Favorite,
			AddedAt:     r.AddedAt,
		}
		ls := &stream.Livestream{Channel: ch}
		if r.LastLiveTime != nil {
			ls.LastLiveTime = *r.LastLiveTime
		}
		m.streams[ch.UniqueKey()] = ls
	}

	log.Println("monitor.load: watching", len(m.streams), "channels")

	return nil
}
