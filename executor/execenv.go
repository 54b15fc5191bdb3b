// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"bytes"

	dbm "github.com/33cn/rps/common/db"
	"github.com/33cn/rps/common/db/local"
	drivers "github.com/33cn/rps/system/dapp"
	"github.com/33cn/rps/types"
)

var statePrefix = []byte("mavl-")

// executor 执行一笔交易的上下文，状态写入 stateDB，本地索引写入 localDB
type executor struct {
	stateDB   *StateDB
	localDB   *local.DB
	height    int64
	blocktime int64
}

func newExecutor(maindb dbm.DB, height, blocktime int64) *executor {
	return &executor{
		stateDB:   NewStateDB(maindb),
		localDB:   local.NewLocalDB(maindb, false),
		height:    height,
		blocktime: blocktime,
	}
}

func (e *executor) setEnv(exec drivers.Driver) {
	exec.SetStateDB(e.stateDB)
	exec.SetLocalDB(e.localDB)
	exec.SetEnv(e.height, e.blocktime)
}

func (e *executor) loadDriver(tx *types.Transaction) (drivers.Driver, error) {
	exec, err := drivers.LoadDriver(string(tx.Execer), e.height)
	if err != nil {
		return nil, err
	}
	e.setEnv(exec)
	return exec, nil
}

func (e *executor) checkTx(tx *types.Transaction, index int) error {
	if tx.Size() > types.MaxTxSize {
		return types.ErrTxMsgSizeTooBig
	}
	if !tx.CheckSign() {
		return types.ErrSign
	}
	return nil
}

// execTx 在内存事务中执行交易，出错时回滚，成功后只保留在 stateDB 缓存中
func (e *executor) execTx(exec drivers.Driver, tx *types.Transaction, index int) (*types.Receipt, error) {
	if err := exec.CheckTx(tx, index); err != nil {
		return nil, err
	}
	e.stateDB.Begin()
	receipt, err := exec.Exec(tx, index)
	if err != nil {
		e.stateDB.Rollback()
		return nil, err
	}
	//合并两个receipt，如果执行不返回错误，那么就认为成功
	//需要检查两个东西:
	//1. statedb 中 Set的 key 必须是 在 receipt.GetKV() 这个集合中
	//2. receipt.GetKV() 中的 key, 必须是状态数据的前缀
	if err := e.checkKV(e.stateDB.GetSetKeys(), receipt.KV); err != nil {
		e.stateDB.Rollback()
		return nil, err
	}
	if err := e.checkKeyAllow(receipt.KV); err != nil {
		e.stateDB.Rollback()
		return nil, err
	}
	e.stateDB.Commit()
	return receipt, nil
}

func (e *executor) execLocalTx(exec drivers.Driver, tx *types.Transaction, r *types.ReceiptData, index int) (*types.LocalDBSet, error) {
	e.localDB.Begin()
	set, err := exec.ExecLocal(tx, r, index)
	if err != nil {
		e.localDB.Rollback()
		return nil, err
	}
	if err := e.checkPrefix(tx.Execer, set.KV); err != nil {
		e.localDB.Rollback()
		return nil, err
	}
	for _, kv := range set.KV {
		if err := e.localDB.Set(kv.Key, kv.Value); err != nil {
			e.localDB.Rollback()
			return nil, err
		}
	}
	if err := e.localDB.Commit(); err != nil {
		return nil, err
	}
	return set, nil
}

func (e *executor) checkKV(memset []string, kvs []*types.KeyValue) error {
	keys := make(map[string]bool)
	for _, kv := range kvs {
		k := kv.GetKey()
		keys[string(k)] = true
	}
	for _, key := range memset {
		if _, ok := keys[key]; !ok {
			elog.Error("err memset key", "key", key)
			//非法的receipt，交易执行失败
			return types.ErrNotAllowMemSetKey
		}
	}
	return nil
}

func (e *executor) checkKeyAllow(kvs []*types.KeyValue) error {
	for _, kv := range kvs {
		if !bytes.HasPrefix(kv.GetKey(), statePrefix) {
			elog.Error("err receipt key", "key", string(kv.GetKey()))
			return types.ErrNotAllowKey
		}
	}
	return nil
}

// checkPrefix 本地数据的 key 必须以 "执行器名-" 开头
func (e *executor) checkPrefix(execer []byte, kvs []*types.KeyValue) error {
	prefix := append(append([]byte{}, execer...), '-')
	for _, kv := range kvs {
		if !bytes.HasPrefix(kv.GetKey(), prefix) {
			elog.Error("err local key", "key", string(kv.GetKey()), "execer", string(execer))
			return types.ErrLocalPrefix
		}
	}
	return nil
}
