// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"fmt"
	"strconv"

	dbm "github.com/33cn/rps/common/db"
	rt "github.com/33cn/rps/system/dapp/rps/types"
	"github.com/pkg/errors"
)

// Key gameID to save key
func Key(id string) (key []byte) {
	key = append(key, []byte("mavl-"+rt.RpsX+"-")...)
	key = append(key, []byte(id)...)
	return key
}

// CalcCountKey 状态计数的 key，addr 为空时统计全部地址
func CalcCountKey(status int32, addr string) (key []byte) {
	key = append(key, []byte("mavl-"+rt.RpsX+"-")...)
	key = append(key, []byte(fmt.Sprintf("%s:%d:%s", rt.GameCount, status, addr))...)
	return key
}

func readGame(db dbm.KV, id string) (*rt.Game, error) {
	data, err := db.Get(Key(id))
	if err != nil {
		return nil, rt.ErrGameNotFound
	}
	game, err := rt.DecodeGame(data)
	if err != nil {
		//数据库中的数据被破坏
		rlog.Error("decode game", "id", id, "err", err)
		return nil, err
	}
	return game, nil
}

func queryCountByStatusAndAddr(db dbm.KV, status int32, addr string) (int64, error) {
	data, err := db.Get(CalcCountKey(status, addr))
	if err != nil {
		//没有记录时为0
		return 0, nil
	}
	count, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parse count %s", string(data))
	}
	return count, nil
}
