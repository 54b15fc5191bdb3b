// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"encoding/json"

	"github.com/33cn/rps/common/address"
	"github.com/33cn/rps/types"
	"github.com/pkg/errors"
)

// MaxRevealWindow 揭示窗口的上限(slot)
const MaxRevealWindow = int64(1e8)

// WagerLimit 单局押注的上限，托管账户中的 2W 也必须是合法的转账金额
const WagerLimit = types.MaxCoin/2 - 1

// Config [exec.sub.rps] 配置
type Config struct {
	RevealWindow      int64    `json:"revealWindow"`
	JoinMode          string   `json:"joinMode"`
	CommitScheme      string   `json:"commitScheme"`
	ExpiryPolicy      string   `json:"expiryPolicy"`
	MinWager          int64    `json:"minWager"`
	MaxWager          int64    `json:"maxWager"`
	Assets            []string `json:"assets"`
	RequireEntryProof bool     `json:"requireEntryProof"`
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{
		RevealWindow: 50,
		JoinMode:     JoinModeChoice,
		CommitScheme: SchemeKeccak256,
		ExpiryPolicy: ExpiryForfeit,
		MinWager:     1,
		MaxWager:     10000000000,
		Assets:       []string{"coins.bty"},
	}
}

// ParseConfig 解析 json 格式的子配置，没有配置的项使用默认值
func ParseConfig(sub []byte) (*Config, error) {
	cfg := DefaultConfig()
	if len(sub) > 0 {
		if err := json.Unmarshal(sub, cfg); err != nil {
			return nil, errors.Wrap(err, "decode rps config")
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 检查配置
func (c *Config) Validate() error {
	if c.RevealWindow <= 0 || c.RevealWindow > MaxRevealWindow {
		return errors.Wrapf(ErrInvalidConfig, "revealWindow %d", c.RevealWindow)
	}
	if c.JoinMode != JoinModeChoice && c.JoinMode != JoinModeCommit {
		return errors.Wrapf(ErrInvalidConfig, "joinMode %s", c.JoinMode)
	}
	if !ValidScheme(c.CommitScheme) {
		return errors.Wrapf(ErrInvalidConfig, "commitScheme %s", c.CommitScheme)
	}
	if c.ExpiryPolicy != ExpiryForfeit && c.ExpiryPolicy != ExpiryRefund {
		return errors.Wrapf(ErrInvalidConfig, "expiryPolicy %s", c.ExpiryPolicy)
	}
	if c.MinWager <= 0 || c.MaxWager < c.MinWager || c.MaxWager > WagerLimit {
		return errors.Wrapf(ErrInvalidConfig, "wager range [%d, %d]", c.MinWager, c.MaxWager)
	}
	if len(c.Assets) == 0 {
		return errors.Wrap(ErrInvalidConfig, "no asset allowed")
	}
	return nil
}

// AllowAsset 是否允许用该资产押注
func (c *Config) AllowAsset(asset string) bool {
	for _, a := range c.Assets {
		if a == asset {
			return true
		}
	}
	return false
}

// GameConfig 按部署配置生成一局游戏的配置
func (c *Config) GameConfig(asset string, wager int64, entryProof []byte) GameConfig {
	return GameConfig{
		Asset:        asset,
		Wager:        wager,
		EntryProof:   entryProof,
		RevealWindow: c.RevealWindow,
		JoinMode:     c.JoinMode,
		Scheme:       c.CommitScheme,
		ExpiryPolicy: c.ExpiryPolicy,
	}
}

// EscrowAddress 每局游戏独立的托管地址
func EscrowAddress(gameID string) string {
	return address.ExecAddress(RpsX + ":" + gameID)
}
