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
	"net"
	"net/http"
	"net/rpc"
	"os"
	"time"

	"github.com/bobbytrapz/livelist/monitor"
	"github.com/bobbytrapz/livelist/options"
)

// Command to perform
type Command struct {
	monitor *monitor.Monitor
}

var server *http.Server

// Start ipc server
func Start(ctx context.Context, m *monitor.Monitor) {
	addr := options.Get("listen_on")

	c := &Command{monitor: m}
	rpc.Register(c)
	rpc.HandleHTTP()

	server = &http.Server{
		Addr: addr,
	}

	// clean shutdown
	go func() {
		<-ctx.Done()
		log.Println("ipc: finishing...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(ctx)
		log.Println("ipc: done")
	}()

	go func() {
		log.Println("ipc.Start: ok")
		if err := server.ListenAndServe(); err != nil {
			if op, ok := err.(*net.OpError); ok {
				if op.Op == "listen" {
					// assume we failed to bind
					fmt.Println("livelist is already using", addr)
					os.Exit(1)
				}
			}

			if err != http.ErrServerClosed {
				panic(err)
			}
		}
	}()
}

// Dial the running daemon
func Dial() (*rpc.Client, error) {
	addr := options.Get("listen_on")

	client, err := rpc.DialHTTP("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("ipc.Dial: is livelist running? (%s)", err)
	}

	return client, nil
}
