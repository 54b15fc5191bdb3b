// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"testing"

	"github.com/33cn/rps/common"
	"github.com/33cn/rps/common/crypto"
	"github.com/33cn/rps/common/crypto/secp256k1"
	dbm "github.com/33cn/rps/common/db"
	ledger "github.com/33cn/rps/executor"
	rt "github.com/33cn/rps/system/dapp/rps/types"
	"github.com/33cn/rps/types"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	privKey1 = "6da92a632ab7deb67d38c0f6560bcfed28167998f6496db64c258d5e8393a81b"
	privKey2 = "19c069234f9d3e61135fefbeb7791b149cdf6af536f26bebb310d4cd22c3fee4"
	privKey3 = "7a80a1f75d7360c6123c32a78ecf978c1ac55636f87892df38d8b85a9aeff115"

	stake = types.Coin
)

const asset = "coins.bty"

type suite struct {
	t    *testing.T
	exec *ledger.Executor
	cfg  *rt.Config
}

func newSuite(t *testing.T, sub string) *suite {
	var data []byte
	if sub != "" {
		data = []byte(sub)
	}
	require.Nil(t, Init(rt.RpsX, data))
	cfg, err := rt.ParseConfig(data)
	require.Nil(t, err)
	db, err := dbm.NewGoMemDB("rps", "", 0)
	require.Nil(t, err)
	exec, err := ledger.NewWithDB(db)
	require.Nil(t, err)
	for _, addr := range []string{player1, player2, player3} {
		_, err := exec.Genesis(asset, addr, 100*types.Coin)
		require.Nil(t, err)
	}
	return &suite{t: t, exec: exec, cfg: cfg}
}

func (s *suite) tx(priv string, action *rt.RpsAction) *types.Transaction {
	return s.sign(priv, types.NewTransaction(rt.RpsX, action))
}

func (s *suite) sign(priv string, tx *types.Transaction) *types.Transaction {
	c, err := crypto.New(secp256k1.Name)
	require.Nil(s.t, err)
	bkey, err := common.FromHex(priv)
	require.Nil(s.t, err)
	key, err := c.PrivKeyFromBytes(bkey)
	require.Nil(s.t, err)
	tx.Sign(secp256k1.ID, key)
	return tx
}

func (s *suite) send(priv string, action *rt.RpsAction) (*types.ReceiptData, error) {
	return s.exec.ExecTx(s.tx(priv, action))
}

func (s *suite) mustSend(priv string, action *rt.RpsAction) *types.ReceiptData {
	r, err := s.send(priv, action)
	require.Nil(s.t, err)
	require.Equal(s.t, int32(types.ExecOk), r.Ty)
	return r
}

func (s *suite) create(priv, player string, choice rt.Choice) string {
	commitment, err := rt.Commit(s.cfg.CommitScheme, player, salt1, choice)
	require.Nil(s.t, err)
	tx := s.tx(priv, &rt.RpsAction{Ty: rt.RpsActionCreate, Create: &rt.RpsCreate{Asset: asset, Wager: stake, Commitment: commitment}})
	_, err = s.exec.ExecTx(tx)
	require.Nil(s.t, err)
	return common.ToHex(tx.Hash())
}

func joinAction(id string, choice rt.Choice) *rt.RpsAction {
	return &rt.RpsAction{Ty: rt.RpsActionJoin, Join: &rt.RpsJoin{GameID: id, Choice: &choice}}
}

func revealAction(id string, choice rt.Choice, salt uint64) *rt.RpsAction {
	return &rt.RpsAction{Ty: rt.RpsActionReveal, Reveal: &rt.RpsReveal{GameID: id, Choice: choice, Salt: salt}}
}

func expireAction(id string) *rt.RpsAction {
	return &rt.RpsAction{Ty: rt.RpsActionExpire, Expire: &rt.RpsExpire{GameID: id}}
}

func cancelAction(id string) *rt.RpsAction {
	return &rt.RpsAction{Ty: rt.RpsActionCancel, Cancel: &rt.RpsCancel{GameID: id}}
}

func (s *suite) balance(addr string) int64 {
	accs, err := s.exec.GetBalance(&types.ReqBalance{Asset: asset, Addresses: []string{addr}})
	require.Nil(s.t, err)
	return accs[0].Balance
}

func (s *suite) query(funcName string, req types.ProtoMessage) (types.Message, error) {
	return s.exec.Query(rt.RpsX, funcName, types.Encode(req))
}

func (s *suite) game(id string) *rt.Game {
	msg, err := s.query(rt.FuncNameGetGame, &rt.ReqGameID{GameID: id})
	require.Nil(s.t, err)
	return msg.(*rt.Game)
}

func (s *suite) escrow(id string) *rt.ReplyEscrow {
	msg, err := s.query(rt.FuncNameGetEscrow, &rt.ReqGameID{GameID: id})
	require.Nil(s.t, err)
	return msg.(*rt.ReplyEscrow)
}

func (s *suite) list(req *rt.ReqGameList) []*rt.Game {
	msg, err := s.query(rt.FuncNameListGames, req)
	require.Nil(s.t, err)
	return msg.(*rt.ReplyGames).Games
}

func (s *suite) count(status int32, addr string) int64 {
	msg, err := s.query(rt.FuncNameGetGameCount, &rt.ReqGameCount{Status: status, Address: addr})
	require.Nil(s.t, err)
	return msg.(*rt.ReplyGameCount).Count
}

func (s *suite) assertEscrow(id string, amount int64) {
	e := s.escrow(id)
	assert.Equal(s.t, amount, e.Balance)
	assert.Equal(s.t, amount, e.Expected)
}

func TestGameResolved(t *testing.T) {
	s := newSuite(t, "")
	id := s.create(privKey1, player1, rt.Rock)
	assert.Equal(t, rt.StatusAcceptingChallenge, s.game(id).GetStatus())
	assert.Equal(t, 99*types.Coin, s.balance(player1))
	s.assertEscrow(id, stake)
	assert.Equal(t, rt.EscrowAddress(id), s.escrow(id).Address)

	s.mustSend(privKey2, joinAction(id, rt.Scissors))
	g := s.game(id)
	assert.Equal(t, rt.StatusAcceptingReveal, g.GetStatus())
	assert.Equal(t, s.exec.Height()+s.cfg.RevealWindow, g.State.(rt.AcceptingReveal).ExpirySlot)
	s.assertEscrow(id, 2*stake)

	r := s.mustSend(privKey1, revealAction(id, rt.Rock, salt1))
	assert.Equal(t, int32(rt.TyLogRpsReveal), r.Logs[0].Ty)
	g = s.game(id)
	resolved := g.State.(rt.Resolved)
	assert.Equal(t, player1, resolved.Winner)
	assert.Equal(t, rt.Rock, resolved.Player1Choice)
	assert.Equal(t, rt.Scissors, resolved.Player2Choice)
	s.assertEscrow(id, 0)
	assert.Equal(t, 101*types.Coin, s.balance(player1))
	assert.Equal(t, 99*types.Coin, s.balance(player2))

	//索引只保留当前状态
	assert.Len(t, s.list(&rt.ReqGameList{Status: rt.StatusAcceptingChallenge}), 0)
	assert.Len(t, s.list(&rt.ReqGameList{Status: rt.StatusAcceptingReveal}), 0)
	games := s.list(&rt.ReqGameList{Status: rt.StatusResolved})
	require.Len(t, games, 1)
	assert.Equal(t, id, games[0].GameID)
	assert.Len(t, s.list(&rt.ReqGameList{Status: rt.StatusResolved, Address: player2}), 1)
	assert.Len(t, s.list(&rt.ReqGameList{Status: rt.StatusResolved, Address: player3}), 0)

	//统计进入过该状态的次数
	assert.Equal(t, int64(1), s.count(rt.StatusAcceptingChallenge, ""))
	assert.Equal(t, int64(1), s.count(rt.StatusAcceptingChallenge, player1))
	assert.Equal(t, int64(0), s.count(rt.StatusAcceptingChallenge, player2))
	assert.Equal(t, int64(1), s.count(rt.StatusResolved, player2))

	//终态之后不再接受任何 action
	_, err := s.send(privKey1, cancelAction(id))
	assert.Equal(t, rt.ErrGameFinished, errors.Cause(err))
}

func TestGamePlayer2Wins(t *testing.T) {
	s := newSuite(t, "")
	id := s.create(privKey1, player1, rt.Rock)
	s.mustSend(privKey2, joinAction(id, rt.Paper))
	s.mustSend(privKey1, revealAction(id, rt.Rock, salt1))
	assert.Equal(t, player2, s.game(id).State.(rt.Resolved).Winner)
	assert.Equal(t, 99*types.Coin, s.balance(player1))
	assert.Equal(t, 101*types.Coin, s.balance(player2))
}

func TestGameDraw(t *testing.T) {
	s := newSuite(t, "")
	id := s.create(privKey1, player1, rt.Paper)
	s.mustSend(privKey2, joinAction(id, rt.Paper))
	s.mustSend(privKey1, revealAction(id, rt.Paper, salt1))
	assert.Equal(t, "", s.game(id).State.(rt.Resolved).Winner)
	assert.Equal(t, 100*types.Coin, s.balance(player1))
	assert.Equal(t, 100*types.Coin, s.balance(player2))
	s.assertEscrow(id, 0)
}

func TestRejectIsNoop(t *testing.T) {
	s := newSuite(t, "")
	id := s.create(privKey1, player1, rt.Rock)
	s.mustSend(privKey2, joinAction(id, rt.Scissors))
	height := s.exec.Height()
	before := s.game(id)

	_, err := s.send(privKey1, revealAction(id, rt.Rock, salt1^1))
	r, ok := rt.AsReject(err)
	require.True(t, ok)
	assert.Equal(t, rt.ClassCommitmentMismatch, r.Class())
	assert.Equal(t, id, r.GameID)

	_, err = s.send(privKey1, revealAction(id, rt.Paper, salt1))
	assert.Equal(t, rt.ErrCommitmentMismatch, errors.Cause(err))
	_, err = s.send(privKey2, revealAction(id, rt.Rock, salt1))
	assert.Equal(t, rt.ErrNotPlayer, errors.Cause(err))
	_, err = s.send(privKey3, joinAction(id, rt.Rock))
	assert.Equal(t, rt.ErrInvalidTransition, errors.Cause(err))

	assert.Equal(t, height, s.exec.Height())
	assert.Equal(t, before, s.game(id))
	s.assertEscrow(id, 2*stake)
	assert.Equal(t, 99*types.Coin, s.balance(player1))
	assert.Equal(t, 99*types.Coin, s.balance(player2))
	assert.Equal(t, 100*types.Coin, s.balance(player3))
}

func TestSelfJoin(t *testing.T) {
	s := newSuite(t, "")
	id := s.create(privKey1, player1, rt.Rock)
	_, err := s.send(privKey1, joinAction(id, rt.Paper))
	assert.Equal(t, rt.ErrSelfJoin, errors.Cause(err))
	s.assertEscrow(id, stake)
}

func TestExpireTiming(t *testing.T) {
	s := newSuite(t, "")
	id := s.create(privKey1, player1, rt.Rock)
	_, err := s.exec.AdvanceSlots(99 - s.exec.Height())
	require.Nil(t, err)
	//join 在 slot 100 执行
	s.mustSend(privKey2, joinAction(id, rt.Paper))
	require.Equal(t, int64(100), s.exec.Height())
	assert.Equal(t, int64(150), s.game(id).State.(rt.AcceptingReveal).ExpirySlot)

	_, err = s.exec.AdvanceSlots(39)
	require.Nil(t, err)
	_, err = s.send(privKey3, expireAction(id))
	assert.Equal(t, rt.ErrRevealWindowOpen, errors.Cause(err))
	assert.Equal(t, int64(139), s.exec.Height())

	_, err = s.exec.AdvanceSlots(10)
	require.Nil(t, err)
	//slot 150 仍然可以揭示，也不能超时
	_, err = s.send(privKey3, expireAction(id))
	assert.Equal(t, rt.ErrRevealWindowOpen, errors.Cause(err))

	_, err = s.exec.AdvanceSlots(1)
	require.Nil(t, err)
	//slot 151
	_, err = s.send(privKey1, revealAction(id, rt.Rock, salt1))
	assert.Equal(t, rt.ErrRevealWindowClosed, errors.Cause(err))
	s.mustSend(privKey3, expireAction(id))

	e := s.game(id).State.(rt.Expired)
	assert.Equal(t, player1, e.Defaulter)
	assert.Equal(t, player2, e.RefundTo)
	assert.Equal(t, 99*types.Coin, s.balance(player1))
	assert.Equal(t, 101*types.Coin, s.balance(player2))
	assert.Equal(t, 100*types.Coin, s.balance(player3))
	s.assertEscrow(id, 0)
	assert.Len(t, s.list(&rt.ReqGameList{Status: rt.StatusExpired, Address: player1}), 1)
}

func TestExpireRefund(t *testing.T) {
	s := newSuite(t, `{"expiryPolicy":"refund","revealWindow":5}`)
	id := s.create(privKey1, player1, rt.Rock)
	s.mustSend(privKey2, joinAction(id, rt.Paper))
	_, err := s.exec.AdvanceSlots(5)
	require.Nil(t, err)
	s.mustSend(privKey2, expireAction(id))
	assert.Equal(t, 100*types.Coin, s.balance(player1))
	assert.Equal(t, 100*types.Coin, s.balance(player2))
	s.assertEscrow(id, 0)
}

func TestCancelGame(t *testing.T) {
	s := newSuite(t, "")
	id := s.create(privKey1, player1, rt.Rock)
	_, err := s.send(privKey2, cancelAction(id))
	assert.Equal(t, rt.ErrNotPlayer, errors.Cause(err))
	s.mustSend(privKey1, cancelAction(id))
	c := s.game(id).State.(rt.Cancelled)
	assert.Equal(t, player1, c.RefundTo)
	assert.Equal(t, 100*types.Coin, s.balance(player1))
	s.assertEscrow(id, 0)

	_, err = s.send(privKey2, joinAction(id, rt.Paper))
	assert.Equal(t, rt.ErrGameFinished, errors.Cause(err))
	assert.Len(t, s.list(&rt.ReqGameList{Status: rt.StatusCancelled, Address: player1}), 1)
	assert.Len(t, s.list(&rt.ReqGameList{Status: rt.StatusAcceptingChallenge, Address: player1}), 0)
}

func TestCommitModeGame(t *testing.T) {
	s := newSuite(t, `{"joinMode":"commit","commitScheme":"sm3"}`)
	id := s.create(privKey1, player1, rt.Scissors)
	secret, err := rt.Commit(rt.SchemeSm3, player2, salt2, rt.Paper)
	require.Nil(t, err)

	_, err = s.send(privKey2, joinAction(id, rt.Paper))
	assert.Equal(t, rt.ErrJoinModeMismatch, errors.Cause(err))
	s.mustSend(privKey2, &rt.RpsAction{Ty: rt.RpsActionJoin, Join: &rt.RpsJoin{GameID: id, Secret: secret}})

	_, err = s.send(privKey2, revealAction(id, rt.Paper, salt2))
	assert.Equal(t, rt.ErrNotPlayer, errors.Cause(err))
	s.mustSend(privKey1, revealAction(id, rt.Scissors, salt1))
	g := s.game(id)
	assert.Equal(t, rt.StatusAcceptingReveal, g.GetStatus())
	assert.Equal(t, rt.Scissors, *g.State.(rt.AcceptingReveal).Player1Choice)
	s.assertEscrow(id, 2*stake)
	assert.Len(t, s.list(&rt.ReqGameList{Status: rt.StatusAcceptingReveal, Address: player2}), 1)
	//玩家1揭示后仍然是 AcceptingReveal，同一局只计一次
	assert.Equal(t, int64(1), s.count(rt.StatusAcceptingReveal, ""))
	assert.Equal(t, int64(1), s.count(rt.StatusAcceptingReveal, player1))
	assert.Equal(t, int64(1), s.count(rt.StatusAcceptingReveal, player2))

	s.mustSend(privKey2, revealAction(id, rt.Paper, salt2))
	assert.Equal(t, player1, s.game(id).State.(rt.Resolved).Winner)
	assert.Equal(t, 101*types.Coin, s.balance(player1))
	assert.Equal(t, 99*types.Coin, s.balance(player2))
	assert.Len(t, s.list(&rt.ReqGameList{Status: rt.StatusAcceptingReveal}), 0)
	assert.Equal(t, int64(1), s.count(rt.StatusAcceptingReveal, player1))
	assert.Equal(t, int64(1), s.count(rt.StatusResolved, ""))
}

func TestCreateChecks(t *testing.T) {
	s := newSuite(t, `{"requireEntryProof":true,"maxWager":1000000000}`)
	commitment, _ := rt.Commit(s.cfg.CommitScheme, player1, salt1, rt.Rock)
	create := func(c rt.RpsCreate) error {
		_, err := s.send(privKey1, &rt.RpsAction{Ty: rt.RpsActionCreate, Create: &c})
		return err
	}
	err := create(rt.RpsCreate{Asset: "token.YCC", Wager: stake, Commitment: commitment, EntryProof: []byte("p")})
	assert.Equal(t, rt.ErrAssetNotAllow, errors.Cause(err))
	err = create(rt.RpsCreate{Asset: asset, Wager: 0, Commitment: commitment, EntryProof: []byte("p")})
	assert.Equal(t, rt.ErrWagerAmount, errors.Cause(err))
	err = create(rt.RpsCreate{Asset: asset, Wager: 11 * types.Coin, Commitment: commitment, EntryProof: []byte("p")})
	assert.Equal(t, rt.ErrWagerAmount, errors.Cause(err))
	err = create(rt.RpsCreate{Asset: asset, Wager: stake, Commitment: commitment})
	assert.Equal(t, rt.ErrEntryProofNeeded, errors.Cause(err))
	err = create(rt.RpsCreate{Asset: asset, Wager: stake, Commitment: commitment[:20], EntryProof: []byte("p")})
	assert.Equal(t, rt.ErrInvalidCommitment, errors.Cause(err))
	err = create(rt.RpsCreate{Asset: asset, Wager: 10 * types.Coin, Commitment: commitment, EntryProof: []byte("p")})
	assert.Nil(t, err)
	assert.Equal(t, 90*types.Coin, s.balance(player1))
	assert.Equal(t, int64(1), s.exec.Height())
}

func TestCreateNoBalance(t *testing.T) {
	s := newSuite(t, "")
	commitment, _ := rt.Commit(s.cfg.CommitScheme, player1, salt1, rt.Rock)
	_, err := s.send(privKey1, &rt.RpsAction{Ty: rt.RpsActionCreate, Create: &rt.RpsCreate{Asset: asset, Wager: 101 * types.Coin, Commitment: commitment}})
	assert.Equal(t, types.ErrNoBalance, errors.Cause(err))
	assert.Equal(t, int64(0), s.exec.Height())
	assert.Equal(t, int64(0), s.count(rt.StatusAcceptingChallenge, ""))
}

func TestEscrowNotEmpty(t *testing.T) {
	s := newSuite(t, "")
	commitment, _ := rt.Commit(s.cfg.CommitScheme, player1, salt1, rt.Rock)
	tx := s.tx(privKey1, &rt.RpsAction{Ty: rt.RpsActionCreate, Create: &rt.RpsCreate{Asset: asset, Wager: stake, Commitment: commitment}})
	id := common.ToHex(tx.Hash())
	_, err := s.exec.Genesis(asset, rt.EscrowAddress(id), 1)
	require.Nil(t, err)
	_, err = s.exec.ExecTx(tx)
	assert.Equal(t, rt.ErrEscrowNotEmpty, errors.Cause(err))
	assert.Equal(t, 100*types.Coin, s.balance(player1))
}

func TestJoinNoBalance(t *testing.T) {
	s := newSuite(t, `{"maxWager":20000000000}`)
	commitment, _ := rt.Commit(s.cfg.CommitScheme, player1, salt1, rt.Rock)
	tx := s.tx(privKey1, &rt.RpsAction{Ty: rt.RpsActionCreate, Create: &rt.RpsCreate{Asset: asset, Wager: 60 * types.Coin, Commitment: commitment}})
	_, err := s.exec.ExecTx(tx)
	require.Nil(t, err)
	id := common.ToHex(tx.Hash())
	//玩家2转出一部分之后余额不足
	_, err = s.send(privKey2, &rt.RpsAction{Ty: rt.RpsActionCreate, Create: &rt.RpsCreate{Asset: asset, Wager: 50 * types.Coin, Commitment: commitment}})
	require.Nil(t, err)
	_, err = s.send(privKey2, joinAction(id, rt.Paper))
	assert.Equal(t, types.ErrNoBalance, errors.Cause(err))
	assert.Equal(t, rt.StatusAcceptingChallenge, s.game(id).GetStatus())
	s.assertEscrow(id, 60*types.Coin)
}

func TestCheckTx(t *testing.T) {
	s := newSuite(t, "")
	_, err := s.send(privKey1, joinAction("", rt.Paper))
	assert.Equal(t, types.ErrInvalidParam, errors.Cause(err))
	_, err = s.send(privKey1, &rt.RpsAction{Ty: rt.RpsActionReveal})
	assert.Equal(t, types.ErrActionNotSupport, errors.Cause(err))
	_, err = s.send(privKey1, joinAction("0x00", rt.Paper))
	assert.Equal(t, rt.ErrGameNotFound, errors.Cause(err))

	tx := types.NewTransaction(rt.RpsX, joinAction("0x00", rt.Paper))
	_, err = s.exec.ExecTx(tx)
	assert.Equal(t, types.ErrSign, errors.Cause(err))

	//payload 被截断
	tx.Payload = tx.Payload[:len(tx.Payload)-1]
	_, err = s.exec.ExecTx(s.sign(privKey1, tx))
	assert.Equal(t, types.ErrDecode, errors.Cause(err))
	assert.Equal(t, int64(0), s.exec.Height())
}

func TestListGames(t *testing.T) {
	s := newSuite(t, "")
	var ids []string
	for i := 0; i < 3; i++ {
		ids = append(ids, s.create(privKey1, player1, rt.Rock))
	}
	games := s.list(&rt.ReqGameList{Status: rt.StatusAcceptingChallenge})
	require.Len(t, games, 3)
	//默认按 index 倒序
	assert.Equal(t, ids[2], games[0].GameID)
	assert.Equal(t, ids[0], games[2].GameID)

	page := s.list(&rt.ReqGameList{Status: rt.StatusAcceptingChallenge, Count: 1})
	require.Len(t, page, 1)
	next := s.list(&rt.ReqGameList{Status: rt.StatusAcceptingChallenge, Count: 1, Index: page[0].Index})
	require.Len(t, next, 1)
	assert.Equal(t, ids[1], next[0].GameID)

	asc := s.list(&rt.ReqGameList{Status: rt.StatusAcceptingChallenge, Address: player1, Direction: rt.ListASC})
	require.Len(t, asc, 3)
	assert.Equal(t, ids[0], asc[0].GameID)

	_, err := s.query(rt.FuncNameListGames, &rt.ReqGameList{Direction: 5})
	assert.Equal(t, types.ErrInvalidParam, errors.Cause(err))

	msg, err := s.query(rt.FuncNameGetGames, &rt.ReqGameIDs{GameIDs: ids})
	require.Nil(t, err)
	assert.Len(t, msg.(*rt.ReplyGames).Games, 3)
	_, err = s.query(rt.FuncNameGetGames, &rt.ReqGameIDs{GameIDs: append(ids, "0x00")})
	assert.Equal(t, rt.ErrGameNotFound, errors.Cause(err))
	_, err = s.query(rt.FuncNameGetGames, &rt.ReqGameIDs{GameIDs: make([]string, rt.MaxGameIDs+1)})
	assert.Equal(t, types.ErrInvalidParam, errors.Cause(err))
	_, err = s.query("GetNothing", &rt.ReqGameID{})
	assert.Equal(t, types.ErrQueryNotSupport, errors.Cause(err))
	_, err = s.exec.Query(rt.RpsX, rt.FuncNameGetGame, []byte("{"))
	assert.Equal(t, types.ErrDecode, errors.Cause(err))
	assert.Equal(t, int64(3), s.count(rt.StatusAcceptingChallenge, player1))
}
