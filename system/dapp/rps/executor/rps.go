// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	log "github.com/33cn/rps/common/log"
	drivers "github.com/33cn/rps/system/dapp"
	rt "github.com/33cn/rps/system/dapp/rps/types"
	"github.com/33cn/rps/types"
)

var rlog = log.New("module", "execs.rps")

// Init 按 [exec.sub.rps] 配置注册执行器，重复调用时使用新的配置
func Init(name string, sub []byte) error {
	cfg, err := rt.ParseConfig(sub)
	if err != nil {
		return err
	}
	drivers.Register(name, func() drivers.Driver {
		return newRps(cfg)
	}, 0)
	rlog.Debug("Init", "name", name, "revealWindow", cfg.RevealWindow, "joinMode", cfg.JoinMode,
		"scheme", cfg.CommitScheme, "expiryPolicy", cfg.ExpiryPolicy)
	return nil
}

// Rps 石头剪刀布执行器
type Rps struct {
	drivers.DriverBase
	cfg *rt.Config
}

func newRps(cfg *rt.Config) drivers.Driver {
	r := &Rps{cfg: cfg}
	r.SetChild(r)
	return r
}

// GetName 执行器名称
func GetName() string {
	return newRps(rt.DefaultConfig()).GetName()
}

// GetDriverName 驱动名称
func (r *Rps) GetDriverName() string {
	return rt.RpsX
}

// Config 当前的部署配置
func (r *Rps) Config() *rt.Config {
	return r.cfg
}

func decodeAction(tx *types.Transaction) (*rt.RpsAction, error) {
	var action rt.RpsAction
	if err := types.Decode(tx.Payload, &action); err != nil {
		return nil, types.ErrDecode
	}
	return &action, nil
}

// CheckTx 只检查 payload 能否解析，具体的检查在执行时由状态机完成
func (r *Rps) CheckTx(tx *types.Transaction, index int) error {
	action, err := decodeAction(tx)
	if err != nil {
		return err
	}
	if action.GetActionName() == "unknown" {
		return types.ErrActionNotSupport
	}
	if action.Ty != rt.RpsActionCreate && action.GetGameID() == "" {
		return types.ErrInvalidParam
	}
	return nil
}

// Exec 执行交易
func (r *Rps) Exec(tx *types.Transaction, index int) (*types.Receipt, error) {
	action, err := decodeAction(tx)
	if err != nil {
		return nil, err
	}
	rlog.Debug("exec rps tx", "action", action.GetActionName(), "from", tx.From())
	actiondb := NewAction(r, tx, index)
	switch {
	case action.Ty == rt.RpsActionCreate && action.Create != nil:
		return actiondb.GameCreate(action.Create)
	case action.Ty == rt.RpsActionJoin && action.Join != nil:
		return actiondb.GameJoin(action.Join)
	case action.Ty == rt.RpsActionReveal && action.Reveal != nil:
		return actiondb.GameReveal(action.Reveal)
	case action.Ty == rt.RpsActionExpire && action.Expire != nil:
		return actiondb.GameExpire(action.Expire)
	case action.Ty == rt.RpsActionCancel && action.Cancel != nil:
		return actiondb.GameCancel(action.Cancel)
	}
	return nil, types.ErrActionNotSupport
}

// ExecLocal 根据回执维护状态和地址索引
func (r *Rps) ExecLocal(tx *types.Transaction, receipt *types.ReceiptData, index int) (*types.LocalDBSet, error) {
	set := &types.LocalDBSet{}
	if receipt.GetTy() != types.ExecOk {
		return set, nil
	}
	for _, item := range receipt.Logs {
		if item.Ty < rt.TyLogRpsCreate || item.Ty > rt.TyLogRpsCancel {
			continue
		}
		var rpslog rt.ReceiptRps
		if err := types.Decode(item.Log, &rpslog); err != nil {
			panic(err) //数据错误了，已经被修改了
		}
		set.KV = append(set.KV, updateIndex(&rpslog)...)
	}
	return set, nil
}
