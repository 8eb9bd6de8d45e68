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

package options

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/bobbytrapz/livelist/homedir"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

var m sync.RWMutex

// Get an option
func Get(k string) string {
	m.RLock()
	defer m.RUnlock()

	return v.GetString(k)
}

// GetDuration an option
func GetDuration(k string) time.Duration {
	m.RLock()
	defer m.RUnlock()

	return v.GetDuration(k)
}

// GetInt an option
func GetInt(k string) int {
	m.RLock()
	defer m.RUnlock()

	return v.GetInt(k)
}

const (
	// Filename for config file
	Filename = "livelist"
	// Format for config file
	Format            = "toml"
	configPathWindows = `~\AppData\Roaming\livelist\`
	configPathUnix    = "~/.config/livelist/"
	dataPathWindows   = `~\AppData\Local\livelist\`
	dataPathUnix      = "~/.local/share/livelist/"
	defaultUserAgent  = `Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36`
	defaultListenAddr = "127.0.0.1:4847"
	// defaultRefreshEvery is how often we poll every platform
	defaultRefreshEvery  = 60 * time.Second
	defaultConcurrency   = 10
	defaultSelectFGColor = "black"
	defaultSelectBGColor = "white"
)

// ConfigPath is the path where the config file is kept
var ConfigPath string

// DataPath is the path where the channel list is kept
var DataPath string

var v = viper.New()

func init() {
	// set defaults
	v.SetDefault("check_every", defaultRefreshEvery)
	v.SetDefault("user_agent", defaultUserAgent)
	v.SetDefault("listen_on", defaultListenAddr)
	v.SetDefault("twitch.client_id", "")
	v.SetDefault("twitch.client_secret", "")
	v.SetDefault("twitch.access_token", "")
	v.SetDefault("performance.youtube_concurrency", defaultConcurrency)
	v.SetDefault("performance.kick_concurrency", defaultConcurrency)
	v.SetDefault("select_fg_color", defaultSelectFGColor)
	v.SetDefault("select_bg_color", defaultSelectBGColor)

	v.SetConfigType(Format)
	v.SetConfigName(Filename)

	var err error
	var configPath string
	var dataPath string
	if runtime.GOOS == "windows" {
		configPath, err = homedir.Expand(configPathWindows)
		if err == nil {
			dataPath, err = homedir.Expand(dataPathWindows)
		}
	} else {
		configPath, err = homedir.Expand(configPathUnix)
		if err == nil {
			dataPath, err = homedir.Expand(dataPathUnix)
		}
	}
	if err != nil {
		fmt.Println("options.init:", err)
		os.Exit(1)
	}

	ConfigPath = configPath
	DataPath = dataPath

	if err := os.MkdirAll(ConfigPath, 0700); err != nil {
		fmt.Println("error:", err)
		return
	}

	v.AddConfigPath(configPath)

	if err := v.ReadInConfig(); err != nil {
		p := filepath.Join(configPath, Filename+"."+Format)
		if err := v.WriteConfigAs(p); err != nil {
			panic(err)
		}
		fmt.Println("[ok] wrote new config file")
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		if ok, err := AreValid(); !ok {
			if err == errInvalidRefreshRate {
				v.Set("check_every", defaultRefreshEvery)
			}
		}
		fmt.Println("config file changed:", e.Name)
	})
}

var errInvalidRefreshRate = fmt.Errorf("error: check_every must be at least 10s")

// AreValid is true if the options are valid
func AreValid() (ok bool, err error) {
	if v.GetDuration("check_every") < 10*time.Second {
		err = errInvalidRefreshRate
		return
	}

	return true, nil
}
