// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"fmt"

	rt "github.com/33cn/rps/system/dapp/rps/types"
	"github.com/33cn/rps/types"
)

/*
  一局游戏在每次状态变更时都要建立新状态的索引，同时删除老状态的索引，以免形成脏数据。

  1.索引建立规则;
     根据状态索引建立： key= rps-status:status:HeightIndex
     状态地址索引建立：key= rps-addr:status:addr:HeightIndex
     value=GameRecord{gameID, index}
  2.游戏记录中保存了上一次状态变更的 PrevIndex，回执中带有变更前后的状态，
    由此可以得到准确的 key，从而删除 localDB 中的冗余索引。
*/

func calcGameStatusIndexKey(status int32, index int64) []byte {
	key := fmt.Sprintf("rps-status:%d:%018d", status, index)
	return []byte(key)
}

func calcGameStatusIndexPrefix(status int32) []byte {
	key := fmt.Sprintf("rps-status:%d:", status)
	return []byte(key)
}

func calcGameAddrIndexKey(status int32, addr string, index int64) []byte {
	key := fmt.Sprintf("rps-addr:%d:%s:%018d", status, addr, index)
	return []byte(key)
}

func calcGameAddrIndexPrefix(status int32, addr string) []byte {
	key := fmt.Sprintf("rps-addr:%d:%s:", status, addr)
	return []byte(key)
}

func addGameStatusIndex(status int32, gameID string, index int64) *types.KeyValue {
	kv := &types.KeyValue{}
	kv.Key = calcGameStatusIndexKey(status, index)
	kv.Value = types.Encode(&rt.GameRecord{GameID: gameID, Index: index})
	return kv
}

func addGameAddrIndex(status int32, gameID, addr string, index int64) *types.KeyValue {
	kv := &types.KeyValue{}
	kv.Key = calcGameAddrIndexKey(status, addr, index)
	kv.Value = types.Encode(&rt.GameRecord{GameID: gameID, Index: index})
	return kv
}

func delGameStatusIndex(status int32, index int64) *types.KeyValue {
	kv := &types.KeyValue{}
	kv.Key = calcGameStatusIndexKey(status, index)
	kv.Value = nil
	return kv
}

func delGameAddrIndex(status int32, addr string, index int64) *types.KeyValue {
	kv := &types.KeyValue{}
	kv.Key = calcGameAddrIndexKey(status, addr, index)
	//value置nil,提交时，会自动执行删除操作
	kv.Value = nil
	return kv
}

// statusPlayers 处于 status 时建立了地址索引的玩家
func statusPlayers(status int32, player1, player2 string) []string {
	if status == rt.StatusInitialized {
		return nil
	}
	if status == rt.StatusAcceptingChallenge || status == rt.StatusCancelled || player2 == "" {
		return []string{player1}
	}
	return []string{player1, player2}
}

//更新索引
func updateIndex(log *rt.ReceiptRps) (kvs []*types.KeyValue) {
	//先删除老状态的索引
	if log.PrevStatus != rt.StatusInitialized {
		kvs = append(kvs, delGameStatusIndex(log.PrevStatus, log.PrevIndex))
		for _, addr := range statusPlayers(log.PrevStatus, log.Player1, log.Player2) {
			kvs = append(kvs, delGameAddrIndex(log.PrevStatus, addr, log.PrevIndex))
		}
	}
	kvs = append(kvs, addGameStatusIndex(log.Status, log.GameID, log.Index))
	for _, addr := range statusPlayers(log.Status, log.Player1, log.Player2) {
		kvs = append(kvs, addGameAddrIndex(log.Status, log.GameID, addr, log.Index))
	}
	return kvs
}
