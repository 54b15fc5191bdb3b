// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package executor 本地账本：校验签名，加载执行器驱动，按 slot 串行执行交易并原子地写入数据库
package executor

import (
	"sync"
	"time"

	"github.com/33cn/rps/account"
	"github.com/33cn/rps/common"
	"github.com/33cn/rps/common/address"
	dbm "github.com/33cn/rps/common/db"
	"github.com/33cn/rps/common/db/local"
	log "github.com/33cn/rps/common/log"
	"github.com/33cn/rps/metrics"
	"github.com/33cn/rps/pluginmgr"
	drivers "github.com/33cn/rps/system/dapp"
	"github.com/33cn/rps/types"
	"github.com/pkg/errors"
)

var elog = log.New("module", "execs")

var (
	heightKey        = []byte("ledger-Height")
	receiptKeyPrefix = []byte("ledger-Receipt:")
)

func calcReceiptKey(hash []byte) []byte {
	return append(append([]byte{}, receiptKeyPrefix...), []byte(common.ToHex(hash))...)
}

// Executor 账本执行器，同一时刻只执行一笔交易
type Executor struct {
	mu       sync.Mutex
	db       dbm.DB
	height   int64
	now      func() int64
	keepStat bool
}

// New 按配置打开数据库并初始化所有插件的执行器
func New(cfg *types.Config, sub *types.ConfigSubModule) (*Executor, error) {
	if err := pluginmgr.InitExec(sub); err != nil {
		return nil, err
	}
	db, err := dbm.NewDB(cfg.Store.Name, cfg.Store.Driver, cfg.Store.DbPath, cfg.Store.DbCache)
	if err != nil {
		return nil, errors.Wrapf(err, "open store %s", cfg.Store.Driver)
	}
	exec, err := NewWithDB(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	if cfg.Metrics != nil && cfg.Metrics.EnableMetrics {
		if err := metrics.Restore(db); err != nil {
			db.Close()
			return nil, err
		}
		exec.keepStat = true
	}
	return exec, nil
}

// NewWithDB 使用已经打开的数据库，执行器驱动需要事先注册
func NewWithDB(db dbm.DB) (*Executor, error) {
	exec := &Executor{
		db:  db,
		now: func() int64 { return time.Now().Unix() },
	}
	value, err := db.Get(heightKey)
	if err == nil {
		var h types.ReplyHeight
		if err := types.Decode(value, &h); err != nil {
			return nil, errors.Wrap(err, "decode height")
		}
		exec.height = h.Height
	}
	elog.Debug("executor open", "height", exec.height)
	return exec, nil
}

// KeepStat 是否在账本中保存累计统计
func (exec *Executor) KeepStat() bool {
	return exec.keepStat
}

// Close 保存累计统计后关闭数据库
func (exec *Executor) Close() {
	exec.mu.Lock()
	defer exec.mu.Unlock()
	if exec.keepStat {
		if err := metrics.Persist(exec.db); err != nil {
			elog.Error("Close", "persist stat err", err)
		}
	}
	exec.db.Close()
}

// Height 已经执行的最新 slot
func (exec *Executor) Height() int64 {
	exec.mu.Lock()
	defer exec.mu.Unlock()
	return exec.height
}

// AdvanceSlots 空转 n 个 slot，返回新的高度
func (exec *Executor) AdvanceSlots(n int64) (int64, error) {
	if n <= 0 {
		return 0, types.ErrInvalidParam
	}
	exec.mu.Lock()
	defer exec.mu.Unlock()
	height := exec.height + n
	if height < exec.height {
		return 0, types.ErrHeightOverflow
	}
	batch := exec.db.NewBatch(true)
	batch.Set(heightKey, types.Encode(&types.ReplyHeight{Height: height}))
	if err := batch.Write(); err != nil {
		return 0, errors.Wrap(err, "write height")
	}
	exec.height = height
	return height, nil
}

// ExecTx 在下一个 slot 执行一笔交易
// 交易失败时数据库不做任何修改，高度也不增加
func (exec *Executor) ExecTx(tx *types.Transaction) (*types.ReceiptData, error) {
	exec.mu.Lock()
	defer exec.mu.Unlock()
	start := time.Now()
	defer metrics.UpdateSince("exec.tx.time", start)

	receipt, err := exec.execTx(tx)
	if err != nil {
		metrics.Inc("exec.tx.err")
		elog.Error("ExecTx", "execer", string(tx.Execer), "height", exec.height+1, "err", err)
		return nil, err
	}
	metrics.Mark("tx")
	return receipt, nil
}

func (exec *Executor) execTx(tx *types.Transaction) (*types.ReceiptData, error) {
	height := exec.height + 1
	e := newExecutor(exec.db, height, exec.now())
	if err := e.checkTx(tx, 0); err != nil {
		return nil, err
	}
	driver, err := e.loadDriver(tx)
	if err != nil {
		return nil, err
	}
	receipt, err := e.execTx(driver, tx, 0)
	if err != nil {
		return nil, err
	}
	receiptData := &types.ReceiptData{Ty: receipt.Ty, Logs: receipt.Logs}
	set, err := e.execLocalTx(driver, tx, receiptData, 0)
	if err != nil {
		return nil, errors.Wrap(err, "exec local")
	}

	batch := exec.db.NewBatch(true)
	writeKVs(batch, receipt.KV)
	writeKVs(batch, set.KV)
	batch.Set(heightKey, types.Encode(&types.ReplyHeight{Height: height}))
	batch.Set(calcReceiptKey(tx.Hash()), types.Encode(receiptData))
	if err := batch.Write(); err != nil {
		return nil, errors.Wrap(err, "write batch")
	}
	exec.height = height
	elog.Debug("ExecTx", "execer", string(tx.Execer), "height", height, "hash", common.ToHex(tx.Hash()), "ty", receipt.Ty)
	return receiptData, nil
}

func writeKVs(batch dbm.Batch, kvs []*types.KeyValue) {
	for _, kv := range kvs {
		if kv.Value == nil {
			batch.Delete(kv.Key)
			continue
		}
		batch.Set(kv.Key, kv.Value)
	}
}

// Genesis 开发环境下给地址发放初始资产
func (exec *Executor) Genesis(asset, addr string, amount int64) (*types.ReceiptData, error) {
	if err := address.CheckAddress(addr); err != nil {
		elog.Error("Genesis", "addr", addr, "err", err)
		return nil, types.ErrInvalidAddress
	}
	exec.mu.Lock()
	defer exec.mu.Unlock()
	acc, err := account.NewAccountDBByAsset(asset, NewStateDB(exec.db))
	if err != nil {
		return nil, err
	}
	receipt, err := acc.GenesisInit(addr, amount)
	if err != nil {
		return nil, err
	}
	batch := exec.db.NewBatch(true)
	writeKVs(batch, receipt.KV)
	if err := batch.Write(); err != nil {
		return nil, errors.Wrap(err, "write batch")
	}
	elog.Info("Genesis", "asset", asset, "addr", addr, "amount", amount)
	return &types.ReceiptData{Ty: receipt.Ty, Logs: receipt.Logs}, nil
}

// GetBalance 查询账户余额
func (exec *Executor) GetBalance(req *types.ReqBalance) ([]*types.Account, error) {
	if req == nil || len(req.Addresses) == 0 {
		return nil, types.ErrInvalidParam
	}
	exec.mu.Lock()
	defer exec.mu.Unlock()
	acc, err := account.NewAccountDBByAsset(req.Asset, NewStateDB(exec.db))
	if err != nil {
		return nil, err
	}
	return acc.LoadAccounts(req.Addresses), nil
}

// Query 调用执行器的查询接口
func (exec *Executor) Query(execer, funcName string, params []byte) (types.Message, error) {
	exec.mu.Lock()
	defer exec.mu.Unlock()
	driver, err := drivers.LoadDriver(execer, exec.height)
	if err != nil {
		return nil, err
	}
	driver.SetStateDB(NewStateDB(exec.db))
	driver.SetLocalDB(local.NewLocalDB(exec.db, true))
	driver.SetEnv(exec.height, exec.now())
	return driver.Query(funcName, params)
}

// GetReceipt 按交易 hash 查询执行结果
func (exec *Executor) GetReceipt(hash []byte) (*types.ReceiptData, error) {
	exec.mu.Lock()
	defer exec.mu.Unlock()
	value, err := exec.db.Get(calcReceiptKey(hash))
	if err != nil {
		return nil, types.ErrReceiptNotFound
	}
	var r types.ReceiptData
	if err := types.Decode(value, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
