// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"fmt"

	dbm "github.com/33cn/rps/common/db"
	rt "github.com/33cn/rps/system/dapp/rps/types"
	"github.com/33cn/rps/types"
	"github.com/pkg/errors"
)

// Query 查询接口，参数为 protobuf 编码的请求
func (r *Rps) Query(funcName string, params []byte) (types.Message, error) {
	switch funcName {
	case rt.FuncNameGetGame:
		var req rt.ReqGameID
		if err := types.Decode(params, &req); err != nil {
			return nil, types.ErrDecode
		}
		return r.queryGame(&req)
	case rt.FuncNameGetGames:
		var req rt.ReqGameIDs
		if err := types.Decode(params, &req); err != nil {
			return nil, types.ErrDecode
		}
		return r.queryGames(&req)
	case rt.FuncNameListGames:
		var req rt.ReqGameList
		if err := types.Decode(params, &req); err != nil {
			return nil, types.ErrDecode
		}
		return r.listGames(&req)
	case rt.FuncNameGetGameCount:
		var req rt.ReqGameCount
		if err := types.Decode(params, &req); err != nil {
			return nil, types.ErrDecode
		}
		return r.queryCount(&req)
	case rt.FuncNameGetEscrow:
		var req rt.ReqGameID
		if err := types.Decode(params, &req); err != nil {
			return nil, types.ErrDecode
		}
		return r.queryEscrow(&req)
	}
	return nil, types.ErrQueryNotSupport
}

func (r *Rps) queryGame(req *rt.ReqGameID) (*rt.Game, error) {
	if req.GameID == "" {
		return nil, types.ErrInvalidParam
	}
	return readGame(r.GetStateDB(), req.GameID)
}

func (r *Rps) queryGames(req *rt.ReqGameIDs) (*rt.ReplyGames, error) {
	if len(req.GameIDs) > rt.MaxGameIDs {
		return nil, errors.Wrapf(types.ErrInvalidParam, "too many game ids, max %d", rt.MaxGameIDs)
	}
	games := make([]*rt.Game, 0, len(req.GameIDs))
	for _, id := range req.GameIDs {
		game, err := readGame(r.GetStateDB(), id)
		if err != nil {
			return nil, errors.Wrapf(err, "game %s", id)
		}
		games = append(games, game)
	}
	return &rt.ReplyGames{Games: games}, nil
}

func (r *Rps) listGames(req *rt.ReqGameList) (*rt.ReplyGames, error) {
	if req.Direction != rt.ListDESC && req.Direction != rt.ListASC {
		return nil, types.ErrInvalidParam
	}
	count := req.Count
	if count <= 0 {
		count = rt.DefaultCount
	}
	if count > rt.MaxCount {
		count = rt.MaxCount
	}
	var prefix []byte
	if req.Address == "" {
		prefix = calcGameStatusIndexPrefix(req.Status)
	} else {
		prefix = calcGameAddrIndexPrefix(req.Status, req.Address)
	}
	var key []byte
	if req.Index > 0 {
		key = append(key, prefix...)
		key = append(key, []byte(fmt.Sprintf("%018d", req.Index))...)
	}
	values, err := r.GetLocalDB().List(prefix, key, count, req.Direction)
	if err == dbm.ErrNotFoundInDb {
		return &rt.ReplyGames{Games: []*rt.Game{}}, nil
	}
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(values))
	for _, value := range values {
		var record rt.GameRecord
		if err := types.Decode(value, &record); err != nil {
			return nil, errors.Wrap(rt.ErrGameRecord, err.Error())
		}
		ids = append(ids, record.GameID)
	}
	return r.queryGames(&rt.ReqGameIDs{GameIDs: ids})
}

func (r *Rps) queryCount(req *rt.ReqGameCount) (*rt.ReplyGameCount, error) {
	count, err := queryCountByStatusAndAddr(r.GetStateDB(), req.Status, req.Address)
	if err != nil {
		return nil, err
	}
	return &rt.ReplyGameCount{Count: count}, nil
}

// queryEscrow 托管账户当前余额以及按状态应有的余额
func (r *Rps) queryEscrow(req *rt.ReqGameID) (*rt.ReplyEscrow, error) {
	game, err := r.queryGame(req)
	if err != nil {
		return nil, err
	}
	esc, err := newEscrow(r.GetStateDB(), game.GameID, game.Config.Asset)
	if err != nil {
		return nil, err
	}
	return &rt.ReplyEscrow{
		GameID:   game.GameID,
		Address:  esc.addr,
		Asset:    game.Config.Asset,
		Balance:  esc.balance(),
		Expected: expectedEscrow(game),
	}, nil
}

func expectedEscrow(game *rt.Game) int64 {
	switch game.GetStatus() {
	case rt.StatusAcceptingChallenge:
		return game.Config.Wager
	case rt.StatusAcceptingReveal:
		return 2 * game.Config.Wager
	}
	return 0
}
