// Copyright (C) 2019 gyee authors
//
// This file is part of the gyee library.
//
// The gyee library is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The gyee library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with the gyee library.  If not, see <http://www.gnu.org/licenses/>.

package config

import (
	"flag"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/urfave/cli"
)

func newContext(t *testing.T, args ...string) *cli.Context {
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for _, f := range GlobalFlags {
		f.Apply(set)
	}
	if err := set.Parse(args); err != nil {
		t.Fatalf("parse flags %v", err)
	}
	return cli.NewContext(cli.NewApp(), set, nil)
}

func TestDefaultConfig(t *testing.T) {
	config, err := GetDefaultConfig()
	if err != nil {
		t.Fatalf("GetDefaultConfig() %v", err)
	}
	if config.App.LogLevel != "info" {
		t.Errorf("LogLevel %q", config.App.LogLevel)
	}
	if config.Chain.ChainID != 1 {
		t.Errorf("ChainID %d", config.Chain.ChainID)
	}
	if !config.App.Metrics {
		t.Errorf("metrics disabled by default")
	}
	if config.Storage.AccountCache != 1024 {
		t.Errorf("AccountCache %d", config.Storage.AccountCache)
	}
	if config.LogPath() != "" {
		t.Errorf("LogPath() %q", config.LogPath())
	}
}

func TestConfigFlags(t *testing.T) {
	ctx := newContext(t, "--datadir", "/tmp/bc", "--testnet", "--loglevel", "debug", "--logdir", "logs")
	config, err := GetConfig(ctx)
	if err != nil {
		t.Fatalf("GetConfig() %v", err)
	}
	if config.DataDir != "/tmp/bc" {
		t.Errorf("DataDir %q", config.DataDir)
	}
	if config.Chain.ChainID != TestNetChainID {
		t.Errorf("ChainID %d", config.Chain.ChainID)
	}
	if config.App.LogLevel != "debug" {
		t.Errorf("LogLevel %q", config.App.LogLevel)
	}
	if config.LogPath() != filepath.Join("/tmp/bc", "logs") {
		t.Errorf("LogPath() %q", config.LogPath())
	}
	if config.ChainDataDir() != filepath.Join("/tmp/bc", "chaindata") {
		t.Errorf("ChainDataDir() %q", config.ChainDataDir())
	}
}

func TestConfigFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "config")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	saved, _ := GetDefaultConfig()
	saved.DataDir = dir
	saved.App.LogLevel = "warn"
	saved.Storage.AccountCache = 16
	file := filepath.Join(dir, "config.toml")
	if err := SaveConfigToFile(file, saved); err != nil {
		t.Fatalf("SaveConfigToFile() %v", err)
	}

	// flags win over the file
	ctx := newContext(t, "--config", file, "--loglevel", "error")
	config, err := GetConfig(ctx)
	if err != nil {
		t.Fatalf("GetConfig() %v", err)
	}
	if config.DataDir != dir {
		t.Errorf("DataDir %q", config.DataDir)
	}
	if config.Storage.AccountCache != 16 {
		t.Errorf("AccountCache %d", config.Storage.AccountCache)
	}
	if config.App.LogLevel != "error" {
		t.Errorf("LogLevel %q", config.App.LogLevel)
	}

	ctx = newContext(t, "--config", filepath.Join(dir, "missing.toml"))
	if _, err := GetConfig(ctx); err == nil {
		t.Errorf("missing config file accepted")
	}
}
