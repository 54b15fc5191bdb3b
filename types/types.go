// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"github.com/pkg/errors"
)

// Message is a query reply; replies are only printed, never stored.
type Message interface{}

// KeyValue is a single state write; a nil Value deletes the key.
type KeyValue struct {
	Key   []byte `json:"key"`
	Value []byte `json:"value"`
}

// GetKey returns the key
func (kv *KeyValue) GetKey() []byte {
	if kv == nil {
		return nil
	}
	return kv.Key
}

// GetValue returns the value
func (kv *KeyValue) GetValue() []byte {
	if kv == nil {
		return nil
	}
	return kv.Value
}

// ReceiptLog typed log entry produced by an executor
type ReceiptLog struct {
	Ty  int32  `json:"ty"`
	Log []byte `json:"log"`
}

// Receipt is the result of executing one transaction: the state writes to commit and the logs.
type Receipt struct {
	Ty   int32         `json:"ty"`
	KV   []*KeyValue   `json:"kv"`
	Logs []*ReceiptLog `json:"logs"`
}

// GetTy return receipt type
func (r *Receipt) GetTy() int32 {
	if r == nil {
		return 0
	}
	return r.Ty
}

// ReceiptData receipt as stored after execution, without state writes
type ReceiptData struct {
	Ty   int32         `json:"ty"`
	Logs []*ReceiptLog `json:"logs"`
}

// GetTy return receipt type
func (r *ReceiptData) GetTy() int32 {
	if r == nil {
		return 0
	}
	return r.Ty
}

// LocalDBSet local db writes derived from a receipt
type LocalDBSet struct {
	KV []*KeyValue `json:"kv"`
}

// Account balance record
type Account struct {
	Currency int32  `json:"currency"`
	Balance  int64  `json:"balance"`
	Frozen   int64  `json:"frozen"`
	Addr     string `json:"addr"`
}

// GetBalance returns the balance
func (acc *Account) GetBalance() int64 {
	if acc == nil {
		return 0
	}
	return acc.Balance
}

// GetFrozen returns the frozen amount
func (acc *Account) GetFrozen() int64 {
	if acc == nil {
		return 0
	}
	return acc.Frozen
}

// ReceiptAccountTransfer account snapshot before and after a balance change
type ReceiptAccountTransfer struct {
	Prev    *Account `json:"prev"`
	Current *Account `json:"current"`
}

// ReqBalance balance query
type ReqBalance struct {
	Addresses []string `json:"addresses"`
	Asset     string   `json:"asset"`
}

// ReplyHeight current ledger height
type ReplyHeight struct {
	Height int64 `json:"height"`
}

// Encode 序列化
func Encode(data ProtoMessage) []byte {
	return data.Marshal()
}

// Decode 反序列化，与 protobuf 一样空数据解码为零值
func Decode(data []byte, msg ProtoMessage) error {
	if err := msg.Unmarshal(data); err != nil {
		return errors.Wrap(ErrDecode, err.Error())
	}
	return nil
}

// MustDecode decode data into msg, panic on error
func MustDecode(data []byte, msg ProtoMessage) {
	if err := Decode(data, msg); err != nil {
		panic(err)
	}
}

// CheckAmount 检查转账金额
func CheckAmount(amount int64) bool {
	if amount <= 0 || amount >= MaxCoin {
		return false
	}
	return true
}
