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

package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/bobbytrapz/livelist/dashboard"
	"github.com/bobbytrapz/livelist/ipc"
	"github.com/bobbytrapz/livelist/monitor"
	"github.com/bobbytrapz/livelist/options"
	"github.com/bobbytrapz/livelist/platform/kick"
	"github.com/bobbytrapz/livelist/platform/twitch"
	"github.com/bobbytrapz/livelist/platform/youtube"
	"github.com/bobbytrapz/livelist/stream"
)

const (
	pidFileName = ".livelist-pid"
)

const backgroundEnvKey = "livelist_is_now_running_in_the_background"

func isRunningInBackground() bool {
	pidPath := filepath.Join(options.ConfigPath, pidFileName)
	_, err := os.Stat(pidPath)
	return err == nil
}

func runSelfInBackground() (*exec.Cmd, error) {
	// get the path of our executable
	exePath, err := os.Executable()
	if err != nil {
		panic(err)
	}

	// build a command with a modified environment
	cmd := exec.Command(exePath)
	env := os.Environ()
	env = append(env, backgroundEnvKey+"=1")
	cmd.Env = env
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("We could not start in the background: %s", err)
	}

	// write a pid file
	runinfo := fmt.Sprintf("%d", cmd.Process.Pid)
	pidPath := filepath.Join(options.ConfigPath, pidFileName)
	if err := os.WriteFile(pidPath, []byte(runinfo), 0644); err != nil {
		panic(err)
	}

	return cmd, nil
}

// newMonitor wires up a client for every platform
func newMonitor() *monitor.Monitor {
	return monitor.New(
		twitch.New(twitch.FromOptions()),
		youtube.New(),
		kick.New(),
	)
}

// announce transitions in the daemon log
func announce(ev monitor.Event) {
	switch ev.Type {
	case monitor.EventOnline:
		log.Println(ev.Stream.DisplayName(), "is live now!", ev.Stream.StreamURL())
	case monitor.EventOffline:
		log.Println(ev.Stream.DisplayName(), "went offline")
	}
}

// logCycle summarizes each completed check in the daemon log
func logCycle(streams []stream.Livestream) {
	live := 0
	for _, s := range streams {
		if s.Live {
			live++
		}
	}
	log.Println("checked", len(streams), "channels;", live, "live")
}

var rootCmd = &cobra.Command{
	Use:   "livelist",
	Short: "livelist: watch your favorite livestream channels",
	Long: `livelist: watch your favorite livestream channels
livelist watches channels across Twitch, YouTube, and Kick and tells you
the moment they go live.

This program comes with ABSOLUTELY NO WARRANTY;
This is free software, and you are welcome to redistribute it under certain conditions.
Details can be found at https://github.com/bobbytrapz/livelist/LICENSE.
`,
	Run: func(cmd *cobra.Command, args []string) {
		if !shouldRunInForeground && os.Getenv(backgroundEnvKey) == "" {
			if isRunningInBackground() {
				dashboard.Run(shouldColorLogo)
				return
			}

			_, err := runSelfInBackground()
			if err != nil {
				panic(err)
			}

			if shouldNotStartDashboard {
				return
			}

			<-time.After(1 * time.Second)
			dashboard.Run(shouldColorLogo)
			return
		}
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		if ok, err := options.AreValid(); !ok {
			fmt.Println(err)
			return
		}

		mon := newMonitor()
		mon.AddListener(announce)
		mon.AddRefreshListener(logCycle)

		// start ipc
		ipc.Start(ctx, mon)

		// start watching
		done := make(chan struct{})
		go func() {
			defer close(done)
			if err := mon.Start(ctx); err != nil {
				log.Println("cmd.root:", err)
			}
		}()

		// handle interrupt
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt)
		signal.Notify(sig, os.Kill)

		select {
		case <-sig:
			cancel()
		case <-done:
		}

		// nothing pending may be lost on the way out
		<-done
		mon.FlushPendingSave()
		mon.CloseSessions()
	},
}

var shouldRunInForeground = false
var shouldNotStartDashboard = false
var shouldColorLogo = false

func init() {
	rootCmd.Flags().BoolVarP(&shouldRunInForeground, "foreground", "f", false, "Run livelist in the foreground")
	rootCmd.Flags().BoolVarP(&shouldNotStartDashboard, "no-dashboard", "d", false, "Do not start the dashboard")
	rootCmd.Flags().BoolVar(&shouldColorLogo, "color", false, "Use the colorful logo")
}

// Execute root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
