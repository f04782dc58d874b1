// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"path/filepath"

	"github.com/ava-labs/avalanchego/api/metrics"
	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/starsfinance/nftcollection/chain"
	"github.com/starsfinance/nftcollection/codec"
	"github.com/starsfinance/nftcollection/collection"
	"github.com/starsfinance/nftcollection/config"
	"github.com/starsfinance/nftcollection/storage"
)

const loggerName = "nft-cli"

// environment is a chain opened over the data directory, with the
// collection implementation registered for the configured params.
type environment struct {
	cfg  config.Config
	logs *logFactory
	log  logging.Logger
	db   database.Database

	chain *chain.Chain
	code  *codec.Cell
}

func newEnvironment(cmd *cobra.Command) (*environment, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	dataDir, err := getConfigValue(cmd, "data-dir", false)
	if err != nil {
		return nil, err
	}
	switch {
	case dataDir != "":
	case cfg.DataDir != "":
		dataDir = cfg.DataDir
	default:
		dataDir = filepath.Join(configDir, "data")
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}
	logLevel, err := cfg.GetLogLevel()
	if err != nil {
		return nil, err
	}
	logDir := cfg.LogDir
	if logDir == "" {
		logDir = filepath.Join(dataDir, "logs")
	}

	logs := newLogFactory(logging.Config{
		RotatingWriterConfig: logging.RotatingWriterConfig{
			MaxSize:   8,
			MaxFiles:  4,
			MaxAge:    7,
			Directory: logDir,
		},
		LogLevel:     logLevel,
		DisplayLevel: logLevel,
		LogFormat:    logging.Plain,
	})
	log, err := logs.Make(loggerName)
	if err != nil {
		return nil, err
	}

	gatherer := metrics.NewPrefixGatherer()
	db, err := storage.New(cfg.Pebble, dataDir, storage.State, gatherer)
	if err != nil {
		logs.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	e := &environment{cfg: cfg, logs: logs, log: log, db: db}
	registry := chain.NewRegistry()
	e.code, err = collection.Register(registry, cfg.Collection.Params)
	if err != nil {
		return nil, e.closeWith(err)
	}
	chainMetrics := prometheus.NewRegistry()
	if err := gatherer.Register("chain", chainMetrics); err != nil {
		return nil, e.closeWith(err)
	}
	e.chain, err = chain.New(log, cfg.Chain, registry, db, chainMetrics)
	if err != nil {
		return nil, e.closeWith(err)
	}
	log.Debug("opened chain",
		zap.String("dataDir", dataDir),
		zap.Uint64("lt", e.chain.LT()),
	)
	return e, nil
}

func (e *environment) Close() error {
	errs := wrappers.Errs{}
	errs.Add(e.db.Close())
	e.logs.Close()
	return errs.Err
}

func (e *environment) closeWith(err error) error {
	errs := wrappers.Errs{}
	errs.Add(err, e.Close())
	return errs.Err
}

// sender resolves --from as an address, or else as a treasury name.
func (e *environment) sender(cmd *cobra.Command) (codec.Address, error) {
	from, err := getConfigValue(cmd, "from", true)
	if err != nil {
		return codec.NoneAddress, err
	}
	return e.resolve(from), nil
}

func (e *environment) resolve(nameOrAddress string) codec.Address {
	if addr, err := codec.ParseAddress(nameOrAddress); err == nil {
		return addr
	}
	return chain.TreasuryAddress(e.cfg.Chain.Workchain, nameOrAddress)
}

func (e *environment) collection(cmd *cobra.Command) (*collection.Client, error) {
	s, err := getConfigValue(cmd, "collection", true)
	if err != nil {
		return nil, err
	}
	addr, err := codec.ParseAddress(s)
	if err != nil {
		return nil, fmt.Errorf("failed to parse collection address: %w", err)
	}
	return collection.NewClient(e.chain, addr), nil
}

// withEnvironment opens an environment for the duration of [f].
func withEnvironment(cmd *cobra.Command, f func(*environment) error) error {
	e, err := newEnvironment(cmd)
	if err != nil {
		return err
	}
	if err := f(e); err != nil {
		return e.closeWith(err)
	}
	return e.Close()
}
