// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package db 数据库存储接口以及 leveldb/memdb/badger 三种实现
package db

import (
	"bytes"
	"errors"
	"sync"
)

//ErrNotFoundInDb error
var ErrNotFoundInDb = errors.New("ErrNotFoundInDb")

//KV kv
type KV interface {
	Get(key []byte) ([]byte, error)
	Set(key []byte, value []byte) (err error)
}

//Lister 列表接口
type Lister interface {
	List(prefix, key []byte, count, direction int32) ([][]byte, error)
	PrefixCount(prefix []byte) int64
}

//KVDB kvdb，带有内存事务的数据库
type KVDB interface {
	KV
	Lister
	Begin()
	Rollback()
	Commit() error
}

//IteratorDB 迭代
type IteratorDB interface {
	Iterator(start []byte, end []byte, reserver bool) Iterator
}

//DB db
type DB interface {
	KV
	IteratorDB
	SetSync([]byte, []byte) error
	Delete([]byte) error
	DeleteSync([]byte) error
	Close()
	NewBatch(sync bool) Batch
	Stats() map[string]string
}

//Batch batch
type Batch interface {
	Set(key, value []byte)
	Delete(key []byte)
	Write() error
	ValueSize() int
	Reset()
}

//Iterator 迭代器
type Iterator interface {
	Rewind() bool
	Next() bool
	Valid() bool
	Key() []byte
	Value() []byte
	ValueCopy() []byte
	Error() error
	// Seek 正向定位到第一个 >= key 的位置，反向定位到最后一个 <= key 的位置
	Seek(key []byte) bool
	Close()
}

type itBase struct {
	start   []byte
	end     []byte
	reverse bool
}

func newItBase(start, end []byte, reverse bool) itBase {
	if end == nil {
		end = bytesPrefix(start)
	}
	return itBase{start: start, end: end, reverse: reverse}
}

func (it *itBase) checkKey(key []byte) bool {
	if len(it.start) > 0 && bytes.Compare(key, it.start) < 0 {
		return false
	}
	if it.end != nil && bytes.Compare(key, it.end) >= 0 {
		return false
	}
	return true
}

//const
const (
	LevelDBBackendStr    = "leveldb" // legacy, defaults to goleveldb.
	GoLevelDBBackendStr  = "goleveldb"
	MemDBBackendStr      = "memdb"
	GoBadgerDBBackendStr = "gobadgerdb"
)

type dbCreator func(name string, dir string, cache int) (DB, error)

var (
	backends   = map[string]dbCreator{}
	backendsMu sync.Mutex
)

//RegisterDBCreator 注册
func RegisterDBCreator(backend string, creator dbCreator, force bool) {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	_, ok := backends[backend]
	if !force && ok {
		return
	}
	backends[backend] = creator
}

//ErrDBBackendNotFound 未注册的存储类型
var ErrDBBackendNotFound = errors.New("ErrDBBackendNotFound")

//NewDB new
func NewDB(name string, backend string, dir string, cache int32) (DB, error) {
	backendsMu.Lock()
	creator, ok := backends[backend]
	backendsMu.Unlock()
	if !ok {
		return nil, ErrDBBackendNotFound
	}
	return creator(name, dir, int(cache))
}

//CloneByte 拷贝字节
func CloneByte(v []byte) []byte {
	if v == nil {
		return nil
	}
	value := make([]byte, len(v))
	copy(value, v)
	return value
}

func cloneByte(v []byte) []byte {
	return CloneByte(v)
}

// bytesPrefix 返回前缀区间的上界(不含)，前缀全部为 0xff 时没有上界
func bytesPrefix(prefix []byte) []byte {
	var limit []byte
	for i := len(prefix) - 1; i >= 0; i-- {
		c := prefix[i]
		if c < 0xff {
			limit = make([]byte, i+1)
			copy(limit, prefix)
			limit[i] = c + 1
			break
		}
	}
	return limit
}
