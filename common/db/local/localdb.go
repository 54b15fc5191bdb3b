// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package local 执行 ExecLocal 时使用的本地数据库，写入只进入内存缓存
package local

import (
	"sync"

	comdb "github.com/33cn/rps/common/db"
)

// DB local db for store key value in local
type DB struct {
	txcache  comdb.DB
	cache    comdb.DB
	maindb   comdb.DB
	intx     bool
	mu       sync.RWMutex
	readOnly bool
}

func newMemDB() comdb.DB {
	memdb, err := comdb.NewGoMemDB("", "", 0)
	if err != nil {
		panic(err)
	}
	return memdb
}

// NewLocalDB new local db
func NewLocalDB(maindb comdb.DB, readOnly bool) *DB {
	if readOnly {
		//只读模式不需要memdb，比如交易检查，可以使用该localdb，减少memdb内存开销
		return &DB{
			maindb:   maindb,
			readOnly: true,
		}
	}
	return &DB{
		cache:  newMemDB(),
		maindb: maindb,
	}
}

// Get get value from local db
func (l *DB) Get(key []byte) ([]byte, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	value, err := l.get(key)
	if err != nil {
		return nil, err
	}
	if isdeleted(value) {
		//表示已经删除了
		return nil, comdb.ErrNotFoundInDb
	}
	return value, nil
}

func (l *DB) get(key []byte) ([]byte, error) {
	if l.intx && l.txcache != nil {
		if value, err := l.txcache.Get(key); err == nil {
			return value, nil
		}
	}
	if l.cache != nil {
		if value, err := l.cache.Get(key); err == nil {
			return value, nil
		}
	}
	return l.maindb.Get(key)
}

// Set set key value to local db, nil value 代表删除
func (l *DB) Set(key []byte, value []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.readOnly {
		panic("set local db in read only mode")
	}
	if l.intx {
		if l.txcache == nil {
			l.txcache = newMemDB()
		}
		setdb2(l.txcache, key, value)
	} else {
		setdb2(l.cache, key, value)
	}
	return nil
}

// List 从数据库中查询数据列表，set 中的cache 更新不会影响这个list
func (l *DB) List(prefix, key []byte, count, direction int32) ([][]byte, error) {
	values := comdb.NewListHelper(l.maindb).List(prefix, key, count, direction)
	if len(values) == 0 {
		return nil, comdb.ErrNotFoundInDb
	}
	return values, nil
}

// PrefixCount 统计主数据库中 prefix 开头的 key 数量
func (l *DB) PrefixCount(prefix []byte) int64 {
	return comdb.NewListHelper(l.maindb).PrefixCount(prefix)
}

//Begin 开启内存事务处理
func (l *DB) Begin() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.intx = true
	l.txcache = nil
}

// Rollback reset tx
func (l *DB) Rollback() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.resetTx()
}

// Commit canche tx
func (l *DB) Commit() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.txcache == nil {
		l.resetTx()
		return nil
	}
	it := l.txcache.Iterator(nil, nil, false)
	defer it.Close()
	for it.Rewind(); it.Valid(); it.Next() {
		err := l.cache.Set(comdb.CloneByte(it.Key()), it.ValueCopy())
		if err != nil {
			return err
		}
	}
	l.resetTx()
	return nil
}

func (l *DB) resetTx() {
	l.intx = false
	l.txcache = nil
}

func setdb2(d comdb.DB, key []byte, value []byte) {
	//value == nil 特殊标记key，代表key已经删除了
	if value == nil {
		value = []byte{}
	}
	err := d.Set(key, value)
	if err != nil {
		panic(err)
	}
}

func isdeleted(d []byte) bool {
	return len(d) == 0
}
