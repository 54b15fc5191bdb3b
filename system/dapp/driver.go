// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dapp 执行器驱动框架：驱动注册，执行环境以及状态/本地数据库的注入
package dapp

import (
	"github.com/33cn/rps/account"
	dbm "github.com/33cn/rps/common/db"
	log "github.com/33cn/rps/common/log"
	"github.com/33cn/rps/types"
)

var blog = log.New("module", "execs.base")

// Driver 执行器驱动接口
type Driver interface {
	SetStateDB(dbm.KV)
	GetStateDB() dbm.KV
	SetLocalDB(dbm.KVDB)
	GetLocalDB() dbm.KVDB
	//驱动的名字，这个名称是固定的
	GetDriverName() string
	//执行器的名称
	GetName() string
	SetName(string)
	SetEnv(height, blocktime int64)
	CheckTx(tx *types.Transaction, index int) error
	Exec(tx *types.Transaction, index int) (*types.Receipt, error)
	ExecLocal(tx *types.Transaction, receipt *types.ReceiptData, index int) (*types.LocalDBSet, error)
	Query(funcName string, params []byte) (types.Message, error)
}

// DriverBase 驱动的公共部分，具体执行器嵌入它并实现 Exec 等方法
type DriverBase struct {
	statedb   dbm.KV
	localdb   dbm.KVDB
	height    int64
	blocktime int64
	name      string
	child     Driver
}

// SetChild 设置具体执行器，GetDriverName 等方法转发给它
func (d *DriverBase) SetChild(e Driver) {
	d.child = e
}

// SetEnv 设置执行环境，height 即当前 slot
func (d *DriverBase) SetEnv(height, blocktime int64) {
	d.height = height
	d.blocktime = blocktime
}

// GetHeight 当前执行高度
func (d *DriverBase) GetHeight() int64 {
	return d.height
}

// GetBlockTime 当前执行时间
func (d *DriverBase) GetBlockTime() int64 {
	return d.blocktime
}

// SetStateDB set state db
func (d *DriverBase) SetStateDB(db dbm.KV) {
	d.statedb = db
}

// GetStateDB get state db
func (d *DriverBase) GetStateDB() dbm.KV {
	return d.statedb
}

// SetLocalDB set local db
func (d *DriverBase) SetLocalDB(db dbm.KVDB) {
	d.localdb = db
}

// GetLocalDB get local db
func (d *DriverBase) GetLocalDB() dbm.KVDB {
	return d.localdb
}

// GetName 执行器名称，未设置时使用驱动名称
func (d *DriverBase) GetName() string {
	if d.name == "" && d.child != nil {
		return d.child.GetDriverName()
	}
	return d.name
}

// SetName set name
func (d *DriverBase) SetName(name string) {
	d.name = name
}

// GetExecAddress 执行器地址
func (d *DriverBase) GetExecAddress() string {
	return ExecAddress(d.GetName())
}

// GetAccount 在状态数据库上打开 asset 对应的账户
func (d *DriverBase) GetAccount(asset string) (*account.DB, error) {
	return account.NewAccountDBByAsset(asset, d.statedb)
}

// CheckTx 默认不做检查
func (d *DriverBase) CheckTx(tx *types.Transaction, index int) error {
	return nil
}

// Exec 默认不支持任何 action
func (d *DriverBase) Exec(tx *types.Transaction, index int) (*types.Receipt, error) {
	blog.Debug("Exec not support", "execer", string(tx.Execer))
	return nil, types.ErrActionNotSupport
}

// ExecLocal 默认不写本地数据库
func (d *DriverBase) ExecLocal(tx *types.Transaction, receipt *types.ReceiptData, index int) (*types.LocalDBSet, error) {
	return &types.LocalDBSet{}, nil
}

// Query 默认不支持查询
func (d *DriverBase) Query(funcName string, params []byte) (types.Message, error) {
	return nil, types.ErrQueryNotSupport
}
