// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"errors"
	"fmt"
	"math/big"
	"os"

	"github.com/ava-labs/avalanchego/utils/logging"
	"gopkg.in/yaml.v2"

	"github.com/starsfinance/nftcollection/chain"
	"github.com/starsfinance/nftcollection/codec"
	"github.com/starsfinance/nftcollection/collection"
	"github.com/starsfinance/nftcollection/item"
	"github.com/starsfinance/nftcollection/pebble"
	"github.com/starsfinance/nftcollection/utils"
)

var (
	ErrZeroRoyaltyDenominator = errors.New("royalty denominator must not be zero")
	ErrRoyaltyTooLarge        = errors.New("royalty numerator exceeds denominator")
	ErrAmountTooLarge         = errors.New("amount does not fit in 64 bits")
)

type Config struct {
	LogLevel string `json:"logLevel" yaml:"logLevel"`
	// LogDir defaults to <DataDir>/logs.
	LogDir  string `json:"logDir" yaml:"logDir"`
	DataDir string `json:"dataDir" yaml:"dataDir"`

	Chain      chain.Config  `json:"chain" yaml:"chain"`
	Pebble     pebble.Config `json:"pebble" yaml:"pebble"`
	Collection Collection    `json:"collection" yaml:"collection"`
}

// Collection is the initial configuration of a collection to deploy.
// Amounts are decimal whole coins. Empty addresses resolve to the
// deployer.
type Collection struct {
	CollectionMeta string `json:"collectionMeta" yaml:"collectionMeta"`
	CommonMeta     string `json:"commonMeta" yaml:"commonMeta"`
	NextItemIndex  uint64 `json:"nextItemIndex" yaml:"nextItemIndex"`

	RoyaltyNumerator   uint16 `json:"royaltyNumerator" yaml:"royaltyNumerator"`
	RoyaltyDenominator uint16 `json:"royaltyDenominator" yaml:"royaltyDenominator"`
	RoyaltyAddress     string `json:"royaltyAddress" yaml:"royaltyAddress"`

	PurchaseFee string `json:"purchaseFee" yaml:"purchaseFee"`
	FeeAddress  string `json:"feeAddress" yaml:"feeAddress"`
	DeployValue string `json:"deployValue" yaml:"deployValue"`

	Params collection.Params `json:"params" yaml:"params"`
}

func NewDefaultConfig() Config {
	return Config{
		LogLevel:   logging.Info.LowerString(),
		Chain:      chain.NewDefaultConfig(),
		Pebble:     pebble.NewDefaultConfig(),
		Collection: NewDefaultCollection(),
	}
}

func NewDefaultCollection() Collection {
	return Collection{
		CollectionMeta:     "https://starsfinance.fra1.digitaloceanspaces.com/nft/collection.json",
		CommonMeta:         "https://starsfinance.fra1.digitaloceanspaces.com/nft/",
		NextItemIndex:      1,
		RoyaltyNumerator:   10,
		RoyaltyDenominator: 100,
		PurchaseFee:        "1",
		DeployValue:        "0.05",
		Params:             collection.DefaultParams(),
	}
}

// Load reads the YAML file at [path] over the defaults.
func Load(path string) (Config, error) {
	cfg := NewDefaultConfig()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: unable to parse %s", err, path)
	}
	return cfg, cfg.Collection.Verify()
}

func (c *Config) GetLogLevel() (logging.Level, error) {
	return logging.ToLevel(c.LogLevel)
}

func (c *Collection) Verify() error {
	if c.RoyaltyDenominator == 0 {
		return ErrZeroRoyaltyDenominator
	}
	if c.RoyaltyNumerator > c.RoyaltyDenominator {
		return ErrRoyaltyTooLarge
	}
	if _, err := c.Fee(); err != nil {
		return fmt.Errorf("%w: purchase fee", err)
	}
	if _, err := c.DeployAmount(); err != nil {
		return fmt.Errorf("%w: deploy value", err)
	}
	for _, addr := range []string{c.RoyaltyAddress, c.FeeAddress} {
		if _, err := resolve(addr, codec.NoneAddress); err != nil {
			return err
		}
	}
	return nil
}

func (c *Collection) Fee() (*big.Int, error) {
	return utils.ParseBalance(c.PurchaseFee)
}

func (c *Collection) DeployAmount() (uint64, error) {
	return ParseAmount(c.DeployValue)
}

// State returns the initial collection state [deployer] would deploy.
func (c *Collection) State(deployer codec.Address) (*collection.State, error) {
	royaltyAddr, err := resolve(c.RoyaltyAddress, deployer)
	if err != nil {
		return nil, err
	}
	feeAddr, err := resolve(c.FeeAddress, deployer)
	if err != nil {
		return nil, err
	}
	fee, err := c.Fee()
	if err != nil {
		return nil, err
	}
	content, err := collection.EncodeContent(c.CollectionMeta, c.CommonMeta)
	if err != nil {
		return nil, err
	}
	royalty, err := collection.EncodeRoyalty(c.RoyaltyNumerator, c.RoyaltyDenominator, royaltyAddr)
	if err != nil {
		return nil, err
	}
	return &collection.State{
		Owner:         deployer,
		NextItemIndex: c.NextItemIndex,
		Content:       content,
		ItemCode:      item.Code,
		Royalty:       royalty,
		PurchaseFee:   fee,
		FeeAddress:    feeAddr,
	}, nil
}

// ParseAmount converts decimal whole coins into nano units that fit a
// message value.
func ParseAmount(s string) (uint64, error) {
	v, err := utils.ParseBalance(s)
	if err != nil {
		return 0, err
	}
	if !v.IsUint64() {
		return 0, ErrAmountTooLarge
	}
	return v.Uint64(), nil
}

func resolve(s string, fallback codec.Address) (codec.Address, error) {
	if s == "" {
		return fallback, nil
	}
	return codec.ParseAddress(s)
}
