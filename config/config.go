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

// Package config loads the daemon's INI configuration file with
// gopkg.in/ini.v1 and resolves which file to load when none is given
// explicitly. The loader structure (ParseConfig / package-level Cfg)
// follows a JSON config loader's shape, adapted from JSON to INI and to
// the smaller key set this daemon needs.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
)

// ErrMissingKey is returned by Load when one or more required keys are
// absent from the configuration file.
var ErrMissingKey = errors.New("config: missing required key")

// Config is the parsed, validated configuration.
type Config struct {
	HostKey        string // GLOBAL.HOSTKEY
	CacheSize      int    // GOSSIP.cache_size
	MaxConnections int    // GOSSIP.max_connections
	Bootstrapper   string // GOSSIP.bootstrapper, may be empty
	ListenAddress  string // GOSSIP.listen_address
	APIAddress     string // GOSSIP.api_address
	MaxTTL         int    // GOSSIP.max_ttl
}

// defaultSearchPaths are tried in order when no config file is named
// explicitly and the search-root environment variable is unset.
func defaultSearchPaths() []string {
	paths := []string{"./gossipd.conf", "/etc/gossipd/gossipd.conf"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "gossipd", "gossipd.conf"))
	}
	return paths
}

// template seeds a new configuration file when none can be found, so a
// first run always has something to edit rather than failing outright.
const template = `; gossipd configuration, seeded from the built-in template.
[GLOBAL]
HOSTKEY = ./hostkey

[GOSSIP]
cache_size      = 256
max_connections = 32
bootstrapper    =
listen_address  = 0.0.0.0:7000
api_address     = 127.0.0.1:7001
max_ttl         = 8
`

// Locate resolves the configuration file path. If envVar names a
// directory, "<dir>/gossipd.conf" is used (and must already exist).
// Otherwise the fixed search list is tried in order; failing that, a
// default configuration is seeded at the first search path and that
// path is returned.
func Locate(envVar string) (string, error) {
	if root := os.Getenv(envVar); root != "" {
		candidate := filepath.Join(root, "gossipd.conf")
		if _, err := os.Stat(candidate); err != nil {
			return "", fmt.Errorf("config: %s=%s: %w", envVar, root, err)
		}
		return candidate, nil
	}
	for _, p := range defaultSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	target := defaultSearchPaths()[0]
	if err := os.WriteFile(target, []byte(template), 0o644); err != nil {
		return "", fmt.Errorf("config: seeding default at %s: %w", target, err)
	}
	return target, nil
}

// Load parses path and validates every required key is present.
func Load(path string) (*Config, error) {
	file, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	global := file.Section("GLOBAL")
	gossip := file.Section("GOSSIP")

	var missing []string
	cfg := &Config{
		HostKey:       global.Key("HOSTKEY").String(),
		Bootstrapper:  gossip.Key("bootstrapper").String(),
		ListenAddress: gossip.Key("listen_address").String(),
		APIAddress:    gossip.Key("api_address").String(),
	}
	if cfg.HostKey == "" {
		missing = append(missing, "GLOBAL.HOSTKEY")
	}
	if cfg.ListenAddress == "" {
		missing = append(missing, "GOSSIP.listen_address")
	}
	if cfg.APIAddress == "" {
		missing = append(missing, "GOSSIP.api_address")
	}

	if v, err := gossip.Key("cache_size").Int(); err != nil {
		missing = append(missing, "GOSSIP.cache_size")
	} else {
		cfg.CacheSize = v
	}
	if v, err := gossip.Key("max_connections").Int(); err != nil {
		missing = append(missing, "GOSSIP.max_connections")
	} else {
		cfg.MaxConnections = v
	}
	if v, err := gossip.Key("max_ttl").Int(); err != nil {
		missing = append(missing, "GOSSIP.max_ttl")
	} else {
		cfg.MaxTTL = v
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingKey, strings.Join(missing, ", "))
	}
	return cfg, nil
}
