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
	"github.com/urfave/cli"
)

var (
	ConfigFileFlag = cli.StringFlag{
		Name:  "config",
		Usage: "load configuration from `FILE`",
	}

	DataDirFlag = cli.StringFlag{
		Name:  "datadir",
		Usage: "blockchat data directory",
	}

	TestnetFlag = cli.BoolFlag{
		Name:  "testnet",
		Usage: "use the pre-configured test network genesis",
	}

	GenesisFlag = cli.StringFlag{
		Name:  "genesis",
		Usage: "genesis toml `FILE` for a fresh data directory",
	}

	//AppConfig Flag
	LogLevelFlag = cli.StringFlag{
		Name:  "loglevel",
		Usage: "log level: trace, debug, info, warn, error, fatal",
	}

	LogDirFlag = cli.StringFlag{
		Name:  "logdir",
		Usage: "directory of rotated log files, empty for stderr only",
	}

	GlobalFlags = []cli.Flag{
		ConfigFileFlag,
		DataDirFlag,
		TestnetFlag,
		GenesisFlag,
		LogLevelFlag,
		LogDirFlag,
	}
)

func applyFlags(ctx *cli.Context, cfg *Config) {
	getAppConfig(ctx, cfg)
	getChainConfig(ctx, cfg)
	getStorageConfig(ctx, cfg)
	if ctx.GlobalIsSet(DataDirFlag.Name) {
		cfg.DataDir = ctx.GlobalString(DataDirFlag.Name)
	}
}

func getAppConfig(ctx *cli.Context, cfg *Config) {
	if cfg.App == nil {
		cfg.App = &AppConfig{}
	}
	if ctx.GlobalIsSet(LogLevelFlag.Name) {
		cfg.App.LogLevel = ctx.GlobalString(LogLevelFlag.Name)
	}
	if ctx.GlobalIsSet(LogDirFlag.Name) {
		cfg.App.LogDir = ctx.GlobalString(LogDirFlag.Name)
	}
}

func getChainConfig(ctx *cli.Context, cfg *Config) {
	if cfg.Chain == nil {
		cfg.Chain = &ChainConfig{}
	}
	if ctx.GlobalBool(TestnetFlag.Name) {
		cfg.Chain.ChainID = TestNetChainID
	}
	if ctx.GlobalIsSet(GenesisFlag.Name) {
		cfg.Chain.Genesis = ctx.GlobalString(GenesisFlag.Name)
	}
}

func getStorageConfig(ctx *cli.Context, cfg *Config) {
	if cfg.Storage == nil {
		cfg.Storage = &StorageConfig{}
	}
}

// MergeFlags copies subcommand flags into the global set so GetConfig sees
// them wherever they were given.
func MergeFlags(action func(ctx *cli.Context) error) func(*cli.Context) error {
	return func(ctx *cli.Context) error {
		for _, name := range ctx.FlagNames() {
			if ctx.IsSet(name) {
				ctx.GlobalSet(name, ctx.String(name))
			}
		}
		return action(ctx)
	}
}
