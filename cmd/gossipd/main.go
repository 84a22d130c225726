// This file is part of gossipd, a gossip-overlay daemon in Golang.
// Copyright (C) 2026 The gossipd authors.
//
// gossipd is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.
//
// gossipd is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.
//
// SPDX-License-Identifier: AGPL3.0-or-later

package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bfix/gospel/logger"

	"github.com/bfix/gossipd/config"
	"github.com/bfix/gossipd/daemon"
)

// Exit codes: 0 clean shutdown, 1 missing/invalid config, 2 when an
// endpoint task fails. Failures of several tasks are not combined into
// one code.
const (
	exitOK            = 0
	exitConfig        = 1
	exitEndpointError = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	defer func() {
		logger.Println(logger.INFO, "[gossipd] Bye.")
		logger.Flush()
	}()
	logger.Println(logger.INFO, "[gossipd] Starting...")

	var cfgFile string
	flag.StringVar(&cfgFile, "c", "", "configuration file (default: search the usual locations)")
	flag.StringVar(&cfgFile, "config", "", "configuration file (default: search the usual locations)")
	flag.Parse()

	if cfgFile == "" {
		found, err := config.Locate("GOSSIPD_CONFIG_DIR")
		if err != nil {
			logger.Printf(logger.ERROR, "[gossipd] could not locate a configuration file: %s\n", err)
			return exitConfig
		}
		cfgFile = found
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		logger.Printf(logger.ERROR, "[gossipd] invalid configuration file %s: %s\n", cfgFile, err)
		return exitConfig
	}

	d, err := daemon.New(cfg)
	if err != nil {
		logger.Printf(logger.ERROR, "[gossipd] failed to build daemon: %s\n", err)
		return exitConfig
	}

	ctx, cancel := context.WithCancel(context.Background())
	runErr := make(chan error, 1)
	go func() { runErr <- d.Run(ctx) }()

	sigCh := make(chan os.Signal, 5)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	tick := time.NewTicker(5 * time.Minute)
	defer tick.Stop()

	for {
		select {
		case sig := <-sigCh:
			switch sig {
			case syscall.SIGINT, syscall.SIGTERM:
				logger.Printf(logger.INFO, "[gossipd] terminating on signal %s\n", sig)
				cancel()
				if err := <-runErr; err != nil {
					logger.Printf(logger.ERROR, "[gossipd] endpoint failed: %s\n", err)
					return exitEndpointError
				}
				return exitOK
			case syscall.SIGHUP:
				logger.Println(logger.INFO, "[gossipd] SIGHUP (no config reload implemented)")
			}
		case now := <-tick.C:
			snap := d.Stats()
			logger.Printf(logger.INFO, "[gossipd] heartbeat at %s: frames=%d cached=%d floods=%d lost=%d\n",
				now, snap.FramesProcessed, snap.AnnouncesCached, snap.FloodsEmitted, snap.ConnectionsLost)
		case err := <-runErr:
			cancel()
			if err != nil {
				logger.Printf(logger.ERROR, "[gossipd] endpoint failed: %s\n", err)
				return exitEndpointError
			}
			return exitOK
		}
	}
}
