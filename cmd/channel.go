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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bobbytrapz/livelist/ipc"
)

func init() {
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(removeCmd)
	removeCmd.Flags().BoolVar(&shouldRemoveAll, "all", false, "Remove every channel on the platform")
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(favoriteCmd)
	favoriteCmd.Flags().BoolVar(&shouldUnsetFlag, "unset", false, "Clear the flag instead")
	rootCmd.AddCommand(muteCmd)
	muteCmd.Flags().BoolVar(&shouldUnsetFlag, "unset", false, "Clear the flag instead")
}

var shouldRemoveAll = false
var shouldUnsetFlag = false

func callDaemon(method string, req interface{}) {
	remote, err := ipc.Dial()
	if err != nil {
		fmt.Println(err)
		return
	}
	defer remote.Close()

	var res ipc.Reply
	if err := remote.Call("Command."+method, req, &res); err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(res.Message)
}

var addCmd = &cobra.Command{
	Use:   "add [platform] [channel]",
	Short: "Add a channel to the watch list",
	Long: `Add a channel to the watch list.
The channel is looked up on the platform first so typos are caught here.
For example: livelist add twitch sodapoppin`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		callDaemon("Add", ipc.ChannelRequest{Platform: args[0], ChannelID: args[1]})
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove [platform] [channel]",
	Short: "Remove a channel from the watch list",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		if shouldRemoveAll {
			callDaemon("RemoveAll", ipc.ChannelRequest{Platform: args[0]})
			return
		}

		if len(args) != 2 {
			fmt.Println("error: give a channel or use --all")
			return
		}
		callDaemon("Remove", ipc.ChannelRequest{Platform: args[0], ChannelID: args[1]})
	},
}

var importCmd = &cobra.Command{
	Use:   "import [platform] [user]",
	Short: "Import every channel a user follows",
	Long: `Import every channel a user follows on a platform.
Only platforms that expose follow lists support this.
For example: livelist import twitch yourname`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		callDaemon("Import", ipc.ImportRequest{Platform: args[0], User: args[1]})
	},
}

var favoriteCmd = &cobra.Command{
	Use:   "favorite [platform] [channel]",
	Short: "Pin a channel to the top of the dashboard",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		callDaemon("Favorite", ipc.FlagRequest{Platform: args[0], ChannelID: args[1], Value: !shouldUnsetFlag})
	},
}

var muteCmd = &cobra.Command{
	Use:   "mute [platform] [channel]",
	Short: "Stop announcing when a channel goes live",
	Long: `Stop announcing when a channel goes live.
The channel stays on the watch list and going-offline is still reported.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		callDaemon("DontNotify", ipc.FlagRequest{Platform: args[0], ChannelID: args[1], Value: !shouldUnsetFlag})
	},
}
