// Copyright 2018 The klaytn Authors
// This file is part of the klaytn library.
//
// The klaytn library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The klaytn library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the klaytn library. If not, see <http://www.gnu.org/licenses/>.

// Command gokoin is a thin external driver: it only parses flags into a
// node.Config and invokes the core's public operations. There is no
// interactive menu or graphical shell here — those are a separate concern.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"gopkg.in/urfave/cli.v1"

	"github.com/ground-x/gokoin/internal/log"
	"github.com/ground-x/gokoin/node"
)

var logger = log.NewModuleLogger(log.Node)

func main() {
	app := cli.NewApp()
	app.Name = "gokoin"
	app.Usage = "a fully-distributed, Bitcoin-like proof-of-work node"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "host", Value: "0.0.0.0", Usage: "listen host"},
		cli.IntFlag{Name: "port", Value: 30900, Usage: "listen port"},
		cli.StringFlag{Name: "wallet", Usage: "address coinbase rewards are paid to (defaults to host:port)"},
		cli.StringFlag{Name: "bootstrap", Usage: "comma-separated host:port peers to dial at startup"},
		cli.StringFlag{Name: "status", Usage: "host:port for the read-only debug HTTP surface (empty disables it)"},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	listenAddr := c.String("host") + ":" + strconv.Itoa(c.Int("port"))

	cfg := node.Config{
		ListenAddr: listenAddr,
		Wallet:     c.String("wallet"),
		Bootstrap:  splitAddrs(c.String("bootstrap")),
		StatusAddr: c.String("status"),
	}

	n := node.New(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		logger.Info("shutting down")
		cancel()
	}()

	return n.Run(ctx)
}

func splitAddrs(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
