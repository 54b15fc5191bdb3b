// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"github.com/33cn/rps/types"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

// 游戏记录使用 protobuf wire 格式保存
//
//	Game:       1 id, 2 config, 3 state, 4 createTxHash, 5 createTime, 6 index, 7 prevIndex
//	GameConfig: 1 asset, 2 wager, 3 entryProof, 4 revealWindow, 5 joinMode, 6 scheme, 7 expiryPolicy
//	GameState:  1 status, 2 player1, 3 player2, 4 commitment, 5 player2Commitment,
//	            6 player2Choice, 7 player1Choice, 8 expirySlot, 9 config, 10 winner,
//	            11 payouts, 12 refundTo, 13 defaulter
//	Payout:     1 addr, 2 amount
const (
	fieldGameID       protowire.Number = 1
	fieldGameConfig   protowire.Number = 2
	fieldGameState    protowire.Number = 3
	fieldGameCreateTx protowire.Number = 4
	fieldGameCreateAt protowire.Number = 5
	fieldGameIndex    protowire.Number = 6
	fieldGamePrevIdx  protowire.Number = 7

	fieldCfgAsset        protowire.Number = 1
	fieldCfgWager        protowire.Number = 2
	fieldCfgEntryProof   protowire.Number = 3
	fieldCfgRevealWindow protowire.Number = 4
	fieldCfgJoinMode     protowire.Number = 5
	fieldCfgScheme       protowire.Number = 6
	fieldCfgExpiryPolicy protowire.Number = 7

	fieldStStatus     protowire.Number = 1
	fieldStPlayer1    protowire.Number = 2
	fieldStPlayer2    protowire.Number = 3
	fieldStCommitment protowire.Number = 4
	fieldStP2Commit   protowire.Number = 5
	fieldStP2Choice   protowire.Number = 6
	fieldStP1Choice   protowire.Number = 7
	fieldStExpiry     protowire.Number = 8
	fieldStConfig     protowire.Number = 9
	fieldStWinner     protowire.Number = 10
	fieldStPayouts    protowire.Number = 11
	fieldStRefundTo   protowire.Number = 12
	fieldStDefaulter  protowire.Number = 13

	fieldPayoutAddr   protowire.Number = 1
	fieldPayoutAmount protowire.Number = 2
)

// EncodeGame 序列化游戏记录
func EncodeGame(g *Game) []byte {
	var b []byte
	b = types.AppendString(b, fieldGameID, g.GameID)
	b = types.AppendMessage(b, fieldGameConfig, encodeConfig(g.Config))
	if g.State != nil {
		b = types.AppendMessage(b, fieldGameState, encodeState(g.State))
	}
	b = types.AppendString(b, fieldGameCreateTx, g.CreateTxHash)
	b = types.AppendVarint(b, fieldGameCreateAt, g.CreateTime)
	b = types.AppendVarint(b, fieldGameIndex, g.Index)
	b = types.AppendVarint(b, fieldGamePrevIdx, g.PrevIndex)
	return b
}

func encodeConfig(c GameConfig) []byte {
	var b []byte
	b = types.AppendString(b, fieldCfgAsset, c.Asset)
	b = types.AppendVarint(b, fieldCfgWager, c.Wager)
	b = types.AppendBytes(b, fieldCfgEntryProof, c.EntryProof)
	b = types.AppendVarint(b, fieldCfgRevealWindow, c.RevealWindow)
	b = types.AppendString(b, fieldCfgJoinMode, c.JoinMode)
	b = types.AppendString(b, fieldCfgScheme, c.Scheme)
	b = types.AppendString(b, fieldCfgExpiryPolicy, c.ExpiryPolicy)
	return b
}

func encodePayouts(b []byte, payouts []Payout) []byte {
	for _, p := range payouts {
		var pb []byte
		pb = types.AppendString(pb, fieldPayoutAddr, p.Addr)
		pb = types.AppendVarint(pb, fieldPayoutAmount, p.Amount)
		b = types.AppendMessage(b, fieldStPayouts, pb)
	}
	return b
}

func appendChoice(b []byte, num protowire.Number, c *Choice) []byte {
	if c == nil {
		return b
	}
	//Rock 为 0，也需要写入以区分是否存在
	return types.AppendVarintAlways(b, num, int64(*c))
}

func encodeState(s GameState) []byte {
	var b []byte
	b = types.AppendVarintAlways(b, fieldStStatus, int64(s.Status()))
	switch v := s.(type) {
	case AcceptingChallenge:
		b = types.AppendString(b, fieldStPlayer1, v.Player1)
		b = types.AppendBytes(b, fieldStCommitment, v.Commitment)
		b = types.AppendMessage(b, fieldStConfig, encodeConfig(v.Config))
	case AcceptingReveal:
		b = types.AppendString(b, fieldStPlayer1, v.Player1)
		b = types.AppendString(b, fieldStPlayer2, v.Player2)
		b = types.AppendBytes(b, fieldStCommitment, v.Commitment)
		b = types.AppendBytes(b, fieldStP2Commit, v.Player2Commitment)
		b = appendChoice(b, fieldStP2Choice, v.Player2Choice)
		b = appendChoice(b, fieldStP1Choice, v.Player1Choice)
		b = types.AppendVarint(b, fieldStExpiry, v.ExpirySlot)
		b = types.AppendMessage(b, fieldStConfig, encodeConfig(v.Config))
	case Resolved:
		b = types.AppendString(b, fieldStPlayer1, v.Player1)
		b = types.AppendString(b, fieldStPlayer2, v.Player2)
		b = appendChoice(b, fieldStP2Choice, &v.Player2Choice)
		b = appendChoice(b, fieldStP1Choice, &v.Player1Choice)
		b = types.AppendString(b, fieldStWinner, v.Winner)
		b = encodePayouts(b, v.Payouts)
	case Expired:
		b = types.AppendString(b, fieldStPlayer1, v.Player1)
		b = types.AppendString(b, fieldStPlayer2, v.Player2)
		b = encodePayouts(b, v.Payouts)
		b = types.AppendString(b, fieldStRefundTo, v.RefundTo)
		b = types.AppendString(b, fieldStDefaulter, v.Defaulter)
	case Cancelled:
		b = types.AppendString(b, fieldStPlayer1, v.Player1)
		b = encodePayouts(b, v.Payouts)
		b = types.AppendString(b, fieldStRefundTo, v.RefundTo)
	}
	return b
}

func consumeChoice(typ protowire.Type, b []byte, v **Choice) (int, error) {
	var x int64
	n, err := types.ConsumeVarint(typ, b, &x)
	if n < 0 || err != nil {
		return n, err
	}
	c := Choice(x)
	if x < 0 || x > int64(Scissors) {
		return 0, errors.Wrapf(ErrGameRecord, "choice %d", x)
	}
	*v = &c
	return n, nil
}

// DecodeGame 反序列化游戏记录
func DecodeGame(data []byte) (*Game, error) {
	if len(data) == 0 {
		return nil, errors.Wrap(ErrGameRecord, "empty")
	}
	g := &Game{}
	err := types.ConsumeFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case fieldGameID:
			return types.ConsumeString(typ, b, &g.GameID)
		case fieldGameConfig:
			var msg []byte
			n, err := types.ConsumeBytes(typ, b, &msg)
			if n < 0 || err != nil {
				return n, err
			}
			g.Config, err = decodeConfig(msg)
			return n, err
		case fieldGameState:
			var msg []byte
			n, err := types.ConsumeBytes(typ, b, &msg)
			if n < 0 || err != nil {
				return n, err
			}
			g.State, err = decodeState(msg)
			return n, err
		case fieldGameCreateTx:
			return types.ConsumeString(typ, b, &g.CreateTxHash)
		case fieldGameCreateAt:
			return types.ConsumeVarint(typ, b, &g.CreateTime)
		case fieldGameIndex:
			return types.ConsumeVarint(typ, b, &g.Index)
		case fieldGamePrevIdx:
			return types.ConsumeVarint(typ, b, &g.PrevIndex)
		}
		return -1, nil
	})
	if err != nil {
		return nil, errors.Wrap(ErrGameRecord, err.Error())
	}
	if g.State == nil {
		g.State = Initialized{}
	}
	return g, nil
}

func decodeConfig(data []byte) (GameConfig, error) {
	var c GameConfig
	err := types.ConsumeFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case fieldCfgAsset:
			return types.ConsumeString(typ, b, &c.Asset)
		case fieldCfgWager:
			return types.ConsumeVarint(typ, b, &c.Wager)
		case fieldCfgEntryProof:
			return types.ConsumeBytes(typ, b, &c.EntryProof)
		case fieldCfgRevealWindow:
			return types.ConsumeVarint(typ, b, &c.RevealWindow)
		case fieldCfgJoinMode:
			return types.ConsumeString(typ, b, &c.JoinMode)
		case fieldCfgScheme:
			return types.ConsumeString(typ, b, &c.Scheme)
		case fieldCfgExpiryPolicy:
			return types.ConsumeString(typ, b, &c.ExpiryPolicy)
		}
		return -1, nil
	})
	return c, err
}

func decodePayout(data []byte) (Payout, error) {
	var p Payout
	err := types.ConsumeFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case fieldPayoutAddr:
			return types.ConsumeString(typ, b, &p.Addr)
		case fieldPayoutAmount:
			return types.ConsumeVarint(typ, b, &p.Amount)
		}
		return -1, nil
	})
	return p, err
}

// stateFields 解码时所有状态共用的字段
type stateFields struct {
	status            int64
	player1           string
	player2           string
	commitment        []byte
	player2Commitment []byte
	player2Choice     *Choice
	player1Choice     *Choice
	expirySlot        int64
	config            GameConfig
	winner            string
	payouts           []Payout
	refundTo          string
	defaulter         string
}

func decodeState(data []byte) (GameState, error) {
	var f stateFields
	err := types.ConsumeFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case fieldStStatus:
			return types.ConsumeVarint(typ, b, &f.status)
		case fieldStPlayer1:
			return types.ConsumeString(typ, b, &f.player1)
		case fieldStPlayer2:
			return types.ConsumeString(typ, b, &f.player2)
		case fieldStCommitment:
			return types.ConsumeBytes(typ, b, &f.commitment)
		case fieldStP2Commit:
			return types.ConsumeBytes(typ, b, &f.player2Commitment)
		case fieldStP2Choice:
			return consumeChoice(typ, b, &f.player2Choice)
		case fieldStP1Choice:
			return consumeChoice(typ, b, &f.player1Choice)
		case fieldStExpiry:
			return types.ConsumeVarint(typ, b, &f.expirySlot)
		case fieldStConfig:
			var msg []byte
			n, err := types.ConsumeBytes(typ, b, &msg)
			if n < 0 || err != nil {
				return n, err
			}
			f.config, err = decodeConfig(msg)
			return n, err
		case fieldStWinner:
			return types.ConsumeString(typ, b, &f.winner)
		case fieldStPayouts:
			var msg []byte
			n, err := types.ConsumeBytes(typ, b, &msg)
			if n < 0 || err != nil {
				return n, err
			}
			p, err := decodePayout(msg)
			if err != nil {
				return n, err
			}
			f.payouts = append(f.payouts, p)
			return n, nil
		case fieldStRefundTo:
			return types.ConsumeString(typ, b, &f.refundTo)
		case fieldStDefaulter:
			return types.ConsumeString(typ, b, &f.defaulter)
		}
		return -1, nil
	})
	if err != nil {
		return nil, err
	}
	return f.build()
}

func (f *stateFields) build() (GameState, error) {
	switch int32(f.status) {
	case StatusInitialized:
		return Initialized{}, nil
	case StatusAcceptingChallenge:
		return AcceptingChallenge{
			Player1:    f.player1,
			Commitment: f.commitment,
			Config:     f.config,
		}, nil
	case StatusAcceptingReveal:
		return AcceptingReveal{
			Player1:           f.player1,
			Player2:           f.player2,
			Commitment:        f.commitment,
			Config:            f.config,
			ExpirySlot:        f.expirySlot,
			Player2Choice:     f.player2Choice,
			Player2Commitment: f.player2Commitment,
			Player1Choice:     f.player1Choice,
		}, nil
	case StatusResolved:
		if f.player1Choice == nil || f.player2Choice == nil {
			return nil, errors.Wrap(ErrGameRecord, "resolved without choices")
		}
		return Resolved{
			Player1:       f.player1,
			Player2:       f.player2,
			Winner:        f.winner,
			Player1Choice: *f.player1Choice,
			Player2Choice: *f.player2Choice,
			Payouts:       f.payouts,
		}, nil
	case StatusExpired:
		return Expired{
			Player1:   f.player1,
			Player2:   f.player2,
			RefundTo:  f.refundTo,
			Defaulter: f.defaulter,
			Payouts:   f.payouts,
		}, nil
	case StatusCancelled:
		return Cancelled{
			Player1:  f.player1,
			RefundTo: f.refundTo,
			Payouts:  f.payouts,
		}, nil
	}
	return nil, errors.Wrapf(ErrGameRecord, "unknown status %d", f.status)
}
