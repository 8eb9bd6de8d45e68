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
	"os"

	"github.com/spf13/cobra"

	"github.com/bobbytrapz/livelist/ipc"
)

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(checkCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the watch list with current statuses",
	Run: func(cmd *cobra.Command, args []string) {
		remote, err := ipc.Dial()
		if err != nil {
			fmt.Println(err)
			return
		}
		defer remote.Close()

		req := ipc.Dashboard{SelectURL: "?"}
		var res ipc.Dashboard
		if err := remote.Call("Command.Status", &req, &res); err != nil {
			fmt.Println("error:", err)
			return
		}

		if len(res.StreamTable.Live)+len(res.StreamTable.Offline) == 0 {
			fmt.Println("Nothing is being watched yet.")
			return
		}

		if err := res.StreamTable.Output(os.Stdout); err != nil {
			fmt.Println("error:", err)
		}
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check every channel right now",
	Run: func(cmd *cobra.Command, args []string) {
		remote, err := ipc.Dial()
		if err != nil {
			fmt.Println(err)
			return
		}
		defer remote.Close()

		req := ipc.Dashboard{SelectURL: "?"}
		var res ipc.Dashboard
		if err := remote.Call("Command.CheckNow", &req, &res); err != nil {
			fmt.Println("error:", err)
			return
		}

		fmt.Println("[ok] checking now")
	},
}
