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

//go:build !windows

package dashboard

import (
	"fmt"
	"os/exec"
	"runtime"
)

func openLink(link string) error {
	if link == "" {
		return nil
	}

	app := "xdg-open"
	if runtime.GOOS == "darwin" {
		app = "open"
	}

	if _, err := exec.LookPath(app); err != nil {
		return fmt.Errorf("openLink: could not find: %s: %s", app, err)
	}

	return exec.Command(app, link).Run()
}
