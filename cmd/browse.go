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
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bobbytrapz/livelist/platform"
	"github.com/bobbytrapz/livelist/stream"
)

// these talk to the platforms directly so they work without the daemon

func init() {
	rootCmd.AddCommand(topCmd)
	topCmd.Flags().StringVarP(&topGame, "game", "g", "", "Only streams for this game or category")
	topCmd.Flags().IntVarP(&browseLimit, "limit", "n", 25, "How many results to show")
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVarP(&browseLimit, "limit", "n", 25, "How many results to show")
}

var topGame = ""
var browseLimit = 25

func clientFor(name string) (platform.Client, error) {
	p, err := stream.ParsePlatform(name)
	if err != nil {
		return nil, err
	}

	return newMonitor().Client(p)
}

var topCmd = &cobra.Command{
	Use:   "top [platform]",
	Short: "Show the top live streams on a platform",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c, err := clientFor(args[0])
		if err != nil {
			fmt.Println("error:", err)
			return
		}

		ctx := context.Background()
		c.Authorize(ctx)
		streams, err := c.GetTopStreams(ctx, topGame, browseLimit)
		if errors.Is(err, platform.ErrUnsupported) {
			fmt.Println(c.Name(), "does not offer top streams")
			return
		}
		if err != nil {
			fmt.Println("error:", err)
			return
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 4, ' ', 0)
		for _, s := range streams {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.FormatViewers(), s.DisplayName(), s.Game, s.Title)
		}
		tw.Flush()
	},
}

var searchCmd = &cobra.Command{
	Use:   "search [platform] [query]",
	Short: "Search a platform for channels",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		c, err := clientFor(args[0])
		if err != nil {
			fmt.Println("error:", err)
			return
		}

		ctx := context.Background()
		c.Authorize(ctx)
		channels, err := c.SearchChannels(ctx, args[1], browseLimit)
		if errors.Is(err, platform.ErrUnsupported) {
			fmt.Println(c.Name(), "does not offer channel search")
			return
		}
		if err != nil {
			fmt.Println("error:", err)
			return
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 4, ' ', 0)
		for _, ch := range channels {
			fmt.Fprintf(tw, "%s\t%s\n", ch.ChannelID, ch.Name())
		}
		tw.Flush()
	},
}
