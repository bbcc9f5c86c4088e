/*
 *  Copyright (C) 2017 gyee authors
 *
 *  This file is part of the gyee library.
 *
 *  The gyee library is free software: you can redistribute it and/or modify
 *  it under the terms of the GNU General Public License as published by
 *  the Free Software Foundation, either version 3 of the License, or
 *  (at your option) any later version.
 *
 *  The gyee library is distributed in the hope that it will be useful,
 *  but WITHOUT ANY WARRANTY; without even the implied warranty of
 *  MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 *  GNU General Public License for more details.
 *
 *  You should have received a copy of the GNU General Public License
 *  along with the gyee library.  If not, see <http://www.gnu.org/licenses/>.
 *
 */

package config

import (
	"bytes"
	"io/ioutil"
	"path/filepath"

	"github.com/BurntSushi/toml"
	pkgerrors "github.com/pkg/errors"
	"github.com/urfave/cli"
	"github.com/yeeco/blockchat/utils"
)

type Config struct {
	DataDir string
	App     *AppConfig
	Chain   *ChainConfig
	Storage *StorageConfig
}

type AppConfig struct {
	LogLevel    string
	LogDir      string
	LogRotation uint
	Metrics     bool
}

// Genesis file is only read when the data dir holds no ledger yet.
type ChainConfig struct {
	ChainID uint32
	Genesis string
}

type StorageConfig struct {
	AccountCache int
	FdLimit      uint64
}

const defaultConfig = `
[App]
LogLevel = "info"
LogDir = ""
LogRotation = 24
Metrics = true

[Chain]
ChainID = 1
Genesis = ""

[Storage]
AccountCache = 1024
FdLimit = 2048
`

const (
	// TestNetChainID is selected by --testnet
	TestNetChainID = 2
)

// GetConfig builds the config from defaults, the --config file and flags,
// in that order of precedence.
func GetConfig(ctx *cli.Context) (*Config, error) {
	config, err := GetDefaultConfig()
	if err != nil {
		return nil, err
	}
	if file := ctx.GlobalString(ConfigFileFlag.Name); file != "" {
		if err := LoadConfigFile(file, config); err != nil {
			return nil, err
		}
	}
	applyFlags(ctx, config)
	return config, nil
}

func GetDefaultConfig() (*Config, error) {
	config := new(Config)
	if _, err := toml.Decode(defaultConfig, config); err != nil {
		return nil, err
	}
	config.DataDir = utils.DefaultDataDir()
	return config, nil
}

// LoadConfigFile overlays the toml file on config.
func LoadConfigFile(file string, config *Config) error {
	if _, err := toml.DecodeFile(file, config); err != nil {
		return pkgerrors.Wrapf(err, "load config %s", file)
	}
	return nil
}

func SaveConfigToFile(file string, config *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(config); err != nil {
		return err
	}
	return ioutil.WriteFile(file, buf.Bytes(), 0644)
}

// LogPath resolves the log directory, relative paths live under DataDir.
func (c *Config) LogPath() string {
	dir := c.App.LogDir
	if dir == "" || filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(c.DataDir, dir)
}

func (c *Config) ChainDataDir() string {
	return filepath.Join(c.DataDir, "chaindata")
}
