// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/33cn/rps/common"
	"github.com/33cn/rps/common/address"
	"github.com/33cn/rps/common/crypto"
	"github.com/33cn/rps/common/crypto/secp256k1"
	log "github.com/33cn/rps/common/log"
	ledger "github.com/33cn/rps/executor"
	"github.com/33cn/rps/metrics"
	rt "github.com/33cn/rps/system/dapp/rps/types"
	"github.com/33cn/rps/types"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// 全局参数
const (
	FlagConf = "conf"
	FlagKey  = "key"
)

// ErrConfNotFound --conf 指定的配置文件不存在
var ErrConfNotFound = errors.New("ErrConfNotFound")

var coinPrecision = decimal.New(types.Coin, 0)

// ParseAmount 把 "1.5" 这样的金额转换成最小单位
func ParseAmount(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, errors.Wrapf(types.ErrAmount, "amount %s", s)
	}
	v := d.Mul(coinPrecision)
	if !v.Equal(v.Truncate(0)) || v.Sign() <= 0 || v.GreaterThan(decimal.New(types.MaxCoin, 0)) {
		return 0, errors.Wrapf(types.ErrAmount, "amount %s", s)
	}
	return v.IntPart(), nil
}

// FormatAmount 最小单位转换成可读的金额
func FormatAmount(v int64) string {
	return decimal.New(v, 0).Div(coinPrecision).StringFixed(4)
}

// openLedger 按 --conf 打开本地账本
// 显式指定的配置文件不存在时报错，默认的配置文件不存在时使用内存数据库并给出警告
func openLedger(cmd *cobra.Command) (*ledger.Executor, error) {
	path, _ := cmd.Flags().GetString(FlagConf)
	var (
		cfg *types.Config
		sub *types.ConfigSubModule
		err error
	)
	_, serr := os.Stat(path)
	switch {
	case path != "" && serr == nil:
		cfg, sub, err = types.InitCfg(path)
	case cmd.Flags().Changed(FlagConf):
		return nil, errors.Wrapf(ErrConfNotFound, "%s", path)
	default:
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: config %s not found, using in-memory ledger, state will not be kept\n", path)
		cfg, sub, err = types.InitCfgString(types.GetDefaultCfgstring())
	}
	if err != nil {
		return nil, errors.Wrapf(err, "load config %s", path)
	}
	log.SetFileLog(cfg.Log)
	metrics.StartMetrics(cfg.Metrics)
	return ledger.New(cfg, sub)
}

// loadKey 读取 --key 指定的私钥
func loadKey(cmd *cobra.Command) (crypto.PrivKey, string, error) {
	hexkey, _ := cmd.Flags().GetString(FlagKey)
	if hexkey == "" {
		return nil, "", errors.New("private key is required, use --key")
	}
	c, err := crypto.New(secp256k1.Name)
	if err != nil {
		return nil, "", err
	}
	bkey, err := common.FromHex(hexkey)
	if err != nil {
		return nil, "", errors.Wrap(err, "decode key")
	}
	priv, err := c.PrivKeyFromBytes(bkey)
	if err != nil {
		return nil, "", errors.Wrap(err, "private key")
	}
	return priv, address.PubKeyToAddr(priv.PubKey().Bytes()), nil
}

// sendAction 签名并在下一个 slot 执行
func sendAction(cmd *cobra.Command, action *rt.RpsAction) {
	priv, _, err := loadKey(cmd)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return
	}
	exec, err := openLedger(cmd)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return
	}
	defer exec.Close()
	tx := types.NewTransaction(rt.RpsX, action)
	tx.Sign(secp256k1.ID, priv)
	receipt, err := exec.ExecTx(tx)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return
	}
	printJSON(cmd.OutOrStdout(), &txResult{
		Hash:   common.ToHex(tx.Hash()),
		Height: exec.Height(),
		Ty:     receipt.Ty,
		Logs:   len(receipt.Logs),
	})
}

// query 调用 rps 执行器的查询
func query(cmd *cobra.Command, funcName string, req types.ProtoMessage) (types.Message, error) {
	exec, err := openLedger(cmd)
	if err != nil {
		return nil, err
	}
	defer exec.Close()
	return exec.Query(rt.RpsX, funcName, types.Encode(req))
}

type txResult struct {
	Hash   string `json:"hash"`
	Height int64  `json:"height"`
	Ty     int32  `json:"ty"`
	Logs   int    `json:"logs"`
}

func printJSON(w io.Writer, v interface{}) {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		fmt.Fprintln(w, err)
		return
	}
	fmt.Fprintln(w, string(data))
}
