// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"strconv"

	"github.com/33cn/rps/common"
	dbm "github.com/33cn/rps/common/db"
	"github.com/33cn/rps/metrics"
	drivers "github.com/33cn/rps/system/dapp"
	rt "github.com/33cn/rps/system/dapp/rps/types"
	"github.com/33cn/rps/types"
	"github.com/pkg/errors"
)

// Action 一笔交易的执行上下文
// 先由状态机计算新状态，检查是预期的状态之后再转账，最后检查托管账户余额
type Action struct {
	db        dbm.KV
	cfg       *rt.Config
	txhash    []byte
	fromaddr  string
	blocktime int64
	height    int64
	index     int
}

// NewAction new action
func NewAction(r *Rps, tx *types.Transaction, index int) *Action {
	return &Action{
		db:        r.GetStateDB(),
		cfg:       r.Config(),
		txhash:    tx.Hash(),
		fromaddr:  tx.From(),
		blocktime: r.GetBlockTime(),
		height:    r.GetHeight(),
		index:     index,
	}
}

// GetIndex 本次状态变更的 index
func (action *Action) GetIndex() int64 {
	return drivers.HeightIndex(action.height, int64(action.index))
}

// transition 执行状态机，新状态必须是 expect 中的一个
func (action *Action) transition(game *rt.Game, act rt.Action, name string, expect ...int32) (rt.GameState, error) {
	next, err := Apply(game.GameID, game.State, act, action.height)
	if err != nil {
		if r, ok := rt.AsReject(err); ok {
			metrics.Inc("rps.reject." + r.Class())
		}
		rlog.Error(name, "addr", action.fromaddr, "id", game.GameID, "height", action.height, "err", err)
		return nil, err
	}
	for _, s := range expect {
		if next.Status() == s {
			return next, nil
		}
	}
	rlog.Error(name, "addr", action.fromaddr, "id", game.GameID, "status", rt.StatusName(next.Status()), "err", rt.ErrUnexpectedState)
	return nil, errors.Wrapf(rt.ErrUnexpectedState, "game %s %s got %s", game.GameID, name, rt.StatusName(next.Status()))
}

func (action *Action) readGame(id string) (*rt.Game, error) {
	game, err := readGame(action.db, id)
	if err != nil {
		rlog.Error("readGame", "addr", action.fromaddr, "id", id, "err", err)
		return nil, err
	}
	return game, nil
}

// GameCreate 玩家1提交承诺并押注
func (action *Action) GameCreate(create *rt.RpsCreate) (*types.Receipt, error) {
	gameID := common.ToHex(action.txhash)
	if !action.cfg.AllowAsset(create.Asset) {
		return nil, errors.Wrapf(rt.ErrAssetNotAllow, "asset %s", create.Asset)
	}
	if create.Wager < action.cfg.MinWager || create.Wager > action.cfg.MaxWager {
		return nil, errors.Wrapf(rt.ErrWagerAmount, "wager %d not in [%d, %d]", create.Wager, action.cfg.MinWager, action.cfg.MaxWager)
	}
	if action.cfg.RequireEntryProof && len(create.EntryProof) == 0 {
		return nil, rt.ErrEntryProofNeeded
	}
	if _, err := readGame(action.db, gameID); err == nil {
		return nil, rt.ErrGameExists
	}
	cfg := action.cfg.GameConfig(create.Asset, create.Wager, create.EntryProof)
	game := &rt.Game{
		GameID:       gameID,
		Config:       cfg,
		State:        rt.Initialized{},
		CreateTxHash: gameID,
		CreateTime:   action.blocktime,
	}
	next, err := action.transition(game, rt.CreateGame{
		Player1:    action.fromaddr,
		Commitment: create.Commitment,
		Config:     cfg,
	}, "GameCreate", rt.StatusAcceptingChallenge)
	if err != nil {
		return nil, err
	}
	esc, err := newEscrow(action.db, gameID, cfg.Asset)
	if err != nil {
		return nil, err
	}
	if esc.balance() != 0 {
		return nil, errors.Wrapf(rt.ErrEscrowNotEmpty, "escrow %s", esc.addr)
	}
	receipt, err := esc.deposit(action.fromaddr, cfg.Wager)
	if err != nil {
		return nil, err
	}
	if err := esc.expect(cfg.Wager); err != nil {
		return nil, err
	}
	return action.commit(game, next, rt.TyLogRpsCreate, receipt), nil
}

// GameJoin 玩家2加入并押注
func (action *Action) GameJoin(join *rt.RpsJoin) (*types.Receipt, error) {
	game, err := action.readGame(join.GameID)
	if err != nil {
		return nil, err
	}
	next, err := action.transition(game, rt.JoinGame{
		Player2: action.fromaddr,
		Choice:  join.Choice,
		Secret:  join.Secret,
	}, "GameJoin", rt.StatusAcceptingReveal)
	if err != nil {
		return nil, err
	}
	esc, err := newEscrow(action.db, game.GameID, game.Config.Asset)
	if err != nil {
		return nil, err
	}
	receipt, err := esc.deposit(action.fromaddr, game.Config.Wager)
	if err != nil {
		return nil, err
	}
	if err := esc.expect(2 * game.Config.Wager); err != nil {
		return nil, err
	}
	return action.commit(game, next, rt.TyLogRpsJoin, receipt), nil
}

// GameReveal 揭示，开奖时在同一笔交易中结算
func (action *Action) GameReveal(reveal *rt.RpsReveal) (*types.Receipt, error) {
	game, err := action.readGame(reveal.GameID)
	if err != nil {
		return nil, err
	}
	next, err := action.transition(game, rt.Reveal{
		Player: action.fromaddr,
		Choice: reveal.Choice,
		Salt:   reveal.Salt,
	}, "GameReveal", rt.StatusResolved, rt.StatusAcceptingReveal)
	if err != nil {
		return nil, err
	}
	if next.Status() == rt.StatusAcceptingReveal {
		//commit 模式下玩家1已揭示，押金仍在托管账户中
		esc, err := newEscrow(action.db, game.GameID, game.Config.Asset)
		if err != nil {
			return nil, err
		}
		if err := esc.expect(2 * game.Config.Wager); err != nil {
			return nil, err
		}
		return action.commit(game, next, rt.TyLogRpsReveal), nil
	}
	return action.settle(game, next, rt.TyLogRpsReveal)
}

// GameExpire 揭示超时，按配置的策略结算
func (action *Action) GameExpire(expire *rt.RpsExpire) (*types.Receipt, error) {
	game, err := action.readGame(expire.GameID)
	if err != nil {
		return nil, err
	}
	next, err := action.transition(game, rt.ExpireGame{Player: action.fromaddr}, "GameExpire", rt.StatusExpired)
	if err != nil {
		return nil, err
	}
	return action.settle(game, next, rt.TyLogRpsExpire)
}

// GameCancel 无人应战时玩家1取消并取回押金
func (action *Action) GameCancel(cancel *rt.RpsCancel) (*types.Receipt, error) {
	game, err := action.readGame(cancel.GameID)
	if err != nil {
		return nil, err
	}
	next, err := action.transition(game, rt.CancelGame{Player: action.fromaddr}, "GameCancel", rt.StatusCancelled)
	if err != nil {
		return nil, err
	}
	return action.settle(game, next, rt.TyLogRpsCancel)
}

// settle 终态: 按 payouts 把托管账户转空
func (action *Action) settle(game *rt.Game, next rt.GameState, ty int32) (*types.Receipt, error) {
	esc, err := newEscrow(action.db, game.GameID, game.Config.Asset)
	if err != nil {
		return nil, err
	}
	receipts, err := esc.disburse(rt.PayoutsOf(next))
	if err != nil {
		return nil, err
	}
	if err := esc.expect(0); err != nil {
		return nil, err
	}
	return action.commit(game, next, ty, receipts...), nil
}

// commit 保存新状态，合并转账的回执
func (action *Action) commit(game *rt.Game, next rt.GameState, ty int32, transfers ...*types.Receipt) *types.Receipt {
	prevStatus := game.GetStatus()
	game.State = next
	game.PrevIndex = game.Index
	game.Index = action.GetIndex()

	player1, player2 := rt.Players(next)
	kvc := drivers.NewKVCreator(action.db)
	kvc.Add(Key(game.GameID), rt.EncodeGame(game))
	//commit 模式下玩家1揭示后状态不变，不重复计数
	if prevStatus != next.Status() {
		action.updateCount(kvc, next.Status(), "")
		for _, addr := range []string{player1, player2} {
			if addr != "" {
				action.updateCount(kvc, next.Status(), addr)
			}
		}
	}
	var logs []*types.ReceiptLog
	logs = append(logs, &types.ReceiptLog{
		Ty: ty,
		Log: types.Encode(&rt.ReceiptRps{
			GameID:     game.GameID,
			Status:     next.Status(),
			PrevStatus: prevStatus,
			Player1:    player1,
			Player2:    player2,
			Addr:       action.fromaddr,
			Index:      game.Index,
			PrevIndex:  game.PrevIndex,
		}),
	})
	for _, r := range transfers {
		kvc.AddList(r.KV)
		logs = append(logs, r.Logs...)
	}
	metrics.Mark("rps." + rt.StatusName(next.Status()))
	rlog.Info("rps transition", "id", game.GameID, "from", rt.StatusName(prevStatus), "to", rt.StatusName(next.Status()),
		"addr", action.fromaddr, "height", action.height)
	return &types.Receipt{Ty: types.ExecOk, KV: kvc.KVList(), Logs: logs}
}

// updateCount 根据状态，地址统计进入过该状态的游戏数量
func (action *Action) updateCount(kvc *drivers.KVCreator, status int32, addr string) {
	count, err := queryCountByStatusAndAddr(action.db, status, addr)
	if err != nil {
		rlog.Error("Query count have err:", "err", err)
	}
	kvc.Add(CalcCountKey(status, addr), []byte(strconv.FormatInt(count+1, 10)))
}
