// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

// coin conversation
const (
	Coin           int64 = 1e8
	MaxCoin        int64 = 1e17
	MaxTxSize            = 100000 //100K
	MaxTxsPerBlock       = 100000
)

// 空值标记，localdb 中 value 为空代表 key 已经删除
var EmptyValue = []byte("FFFFFFFFemptyBVBiCj5jvE15pEiwro8TQRGnJSNsJF")

// exec result
const (
	ExecErr  = 0
	ExecPack = 1
	ExecOk   = 2
)

// log type
const (
	TyLogReserved = 0
	TyLogErr      = 1
	TyLogFee      = 2

	TyLogTransfer        = 3
	TyLogGenesis         = 4
	TyLogDeposit         = 5
	TyLogExecTransfer    = 6
	TyLogExecWithdraw    = 7
	TyLogExecDeposit     = 8
	TyLogExecFrozen      = 9
	TyLogExecActive      = 10
	TyLogGenesisTransfer = 11
	TyLogGenesisDeposit  = 12
)

// list direction
const (
	ListDESC = int32(0)
	ListASC  = int32(1)
)
