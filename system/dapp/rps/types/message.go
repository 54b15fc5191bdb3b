// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"math"

	"github.com/33cn/rps/types"
	"google.golang.org/protobuf/encoding/protowire"
)

// 交易 payload、回执和本地索引的字段编号
//
//	RpsAction:    1 ty, 2 create, 3 join, 4 reveal, 5 expire, 6 cancel
//	RpsCreate:    1 asset, 2 wager, 3 commitment, 4 entryProof
//	RpsJoin:      1 gameID, 2 choice, 3 secret
//	RpsReveal:    1 gameID, 2 choice, 3 salt
//	RpsExpire:    1 gameID
//	RpsCancel:    1 gameID
//	ReceiptRps:   1 gameID, 2 status, 3 prevStatus, 4 player1, 5 player2, 6 addr, 7 index, 8 prevIndex
//	GameRecord:   1 gameID, 2 index
//	ReqGameID:    1 gameID
//	ReqGameIDs:   1 gameIDs
//	ReqGameList:  1 status, 2 address, 3 index, 4 count, 5 direction
//	ReqGameCount: 1 status, 2 address

// 出拳的合法性由状态机检查，这里只保证超出范围的值不会回绕成合法值
func consumeRawChoice(typ protowire.Type, b []byte, v *Choice) (int, error) {
	var x int64
	n, err := types.ConsumeVarint(typ, b, &x)
	if n < 0 || err != nil {
		return n, err
	}
	if x < 0 || x > math.MaxUint8 {
		x = math.MaxUint8
	}
	*v = Choice(x)
	return n, nil
}

// Marshal RpsAction
func (a *RpsAction) Marshal() []byte {
	var b []byte
	b = types.AppendVarint(b, 1, int64(a.Ty))
	if a.Create != nil {
		b = types.AppendMessage(b, 2, a.Create.Marshal())
	}
	if a.Join != nil {
		b = types.AppendMessage(b, 3, a.Join.Marshal())
	}
	if a.Reveal != nil {
		b = types.AppendMessage(b, 4, a.Reveal.Marshal())
	}
	if a.Expire != nil {
		b = types.AppendMessage(b, 5, a.Expire.Marshal())
	}
	if a.Cancel != nil {
		b = types.AppendMessage(b, 6, a.Cancel.Marshal())
	}
	return b
}

// Unmarshal RpsAction
func (a *RpsAction) Unmarshal(data []byte) error {
	*a = RpsAction{}
	return types.ConsumeFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return types.ConsumeInt32(typ, b, &a.Ty)
		case 2:
			a.Create = &RpsCreate{}
			return types.ConsumeMessage(typ, b, a.Create)
		case 3:
			a.Join = &RpsJoin{}
			return types.ConsumeMessage(typ, b, a.Join)
		case 4:
			a.Reveal = &RpsReveal{}
			return types.ConsumeMessage(typ, b, a.Reveal)
		case 5:
			a.Expire = &RpsExpire{}
			return types.ConsumeMessage(typ, b, a.Expire)
		case 6:
			a.Cancel = &RpsCancel{}
			return types.ConsumeMessage(typ, b, a.Cancel)
		}
		return -1, nil
	})
}

// Marshal RpsCreate
func (c *RpsCreate) Marshal() []byte {
	var b []byte
	b = types.AppendString(b, 1, c.Asset)
	b = types.AppendVarint(b, 2, c.Wager)
	b = types.AppendBytes(b, 3, c.Commitment)
	b = types.AppendBytes(b, 4, c.EntryProof)
	return b
}

// Unmarshal RpsCreate
func (c *RpsCreate) Unmarshal(data []byte) error {
	*c = RpsCreate{}
	return types.ConsumeFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return types.ConsumeString(typ, b, &c.Asset)
		case 2:
			return types.ConsumeVarint(typ, b, &c.Wager)
		case 3:
			return types.ConsumeBytes(typ, b, &c.Commitment)
		case 4:
			return types.ConsumeBytes(typ, b, &c.EntryProof)
		}
		return -1, nil
	})
}

// Marshal RpsJoin
func (j *RpsJoin) Marshal() []byte {
	var b []byte
	b = types.AppendString(b, 1, j.GameID)
	b = appendChoice(b, 2, j.Choice)
	b = types.AppendBytes(b, 3, j.Secret)
	return b
}

// Unmarshal RpsJoin
func (j *RpsJoin) Unmarshal(data []byte) error {
	*j = RpsJoin{}
	return types.ConsumeFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return types.ConsumeString(typ, b, &j.GameID)
		case 2:
			var c Choice
			n, err := consumeRawChoice(typ, b, &c)
			if n > 0 && err == nil {
				j.Choice = &c
			}
			return n, err
		case 3:
			return types.ConsumeBytes(typ, b, &j.Secret)
		}
		return -1, nil
	})
}

// Marshal RpsReveal
func (r *RpsReveal) Marshal() []byte {
	var b []byte
	b = types.AppendString(b, 1, r.GameID)
	b = types.AppendVarint(b, 2, int64(r.Choice))
	b = types.AppendVarint(b, 3, int64(r.Salt))
	return b
}

// Unmarshal RpsReveal
func (r *RpsReveal) Unmarshal(data []byte) error {
	*r = RpsReveal{}
	return types.ConsumeFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return types.ConsumeString(typ, b, &r.GameID)
		case 2:
			return consumeRawChoice(typ, b, &r.Choice)
		case 3:
			var salt int64
			n, err := types.ConsumeVarint(typ, b, &salt)
			r.Salt = uint64(salt)
			return n, err
		}
		return -1, nil
	})
}

// Marshal RpsExpire
func (e *RpsExpire) Marshal() []byte {
	return types.AppendString(nil, 1, e.GameID)
}

// Unmarshal RpsExpire
func (e *RpsExpire) Unmarshal(data []byte) error {
	*e = RpsExpire{}
	return consumeGameID(data, &e.GameID)
}

// Marshal RpsCancel
func (c *RpsCancel) Marshal() []byte {
	return types.AppendString(nil, 1, c.GameID)
}

// Unmarshal RpsCancel
func (c *RpsCancel) Unmarshal(data []byte) error {
	*c = RpsCancel{}
	return consumeGameID(data, &c.GameID)
}

func consumeGameID(data []byte, id *string) error {
	return types.ConsumeFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			return types.ConsumeString(typ, b, id)
		}
		return -1, nil
	})
}

// Marshal ReceiptRps
func (r *ReceiptRps) Marshal() []byte {
	var b []byte
	b = types.AppendString(b, 1, r.GameID)
	b = types.AppendVarint(b, 2, int64(r.Status))
	b = types.AppendVarint(b, 3, int64(r.PrevStatus))
	b = types.AppendString(b, 4, r.Player1)
	b = types.AppendString(b, 5, r.Player2)
	b = types.AppendString(b, 6, r.Addr)
	b = types.AppendVarint(b, 7, r.Index)
	b = types.AppendVarint(b, 8, r.PrevIndex)
	return b
}

// Unmarshal ReceiptRps
func (r *ReceiptRps) Unmarshal(data []byte) error {
	*r = ReceiptRps{}
	return types.ConsumeFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return types.ConsumeString(typ, b, &r.GameID)
		case 2:
			return types.ConsumeInt32(typ, b, &r.Status)
		case 3:
			return types.ConsumeInt32(typ, b, &r.PrevStatus)
		case 4:
			return types.ConsumeString(typ, b, &r.Player1)
		case 5:
			return types.ConsumeString(typ, b, &r.Player2)
		case 6:
			return types.ConsumeString(typ, b, &r.Addr)
		case 7:
			return types.ConsumeVarint(typ, b, &r.Index)
		case 8:
			return types.ConsumeVarint(typ, b, &r.PrevIndex)
		}
		return -1, nil
	})
}

// Marshal GameRecord
func (r *GameRecord) Marshal() []byte {
	var b []byte
	b = types.AppendString(b, 1, r.GameID)
	b = types.AppendVarint(b, 2, r.Index)
	return b
}

// Unmarshal GameRecord
func (r *GameRecord) Unmarshal(data []byte) error {
	*r = GameRecord{}
	return types.ConsumeFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return types.ConsumeString(typ, b, &r.GameID)
		case 2:
			return types.ConsumeVarint(typ, b, &r.Index)
		}
		return -1, nil
	})
}

// Marshal ReqGameID
func (req *ReqGameID) Marshal() []byte {
	return types.AppendString(nil, 1, req.GameID)
}

// Unmarshal ReqGameID
func (req *ReqGameID) Unmarshal(data []byte) error {
	*req = ReqGameID{}
	return consumeGameID(data, &req.GameID)
}

// Marshal ReqGameIDs
func (req *ReqGameIDs) Marshal() []byte {
	var b []byte
	for _, id := range req.GameIDs {
		//空 id 也要保留，数量检查依赖它
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendString(b, id)
	}
	return b
}

// Unmarshal ReqGameIDs
func (req *ReqGameIDs) Unmarshal(data []byte) error {
	*req = ReqGameIDs{}
	return types.ConsumeFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num != 1 {
			return -1, nil
		}
		var id string
		n, err := types.ConsumeString(typ, b, &id)
		if n > 0 && err == nil {
			req.GameIDs = append(req.GameIDs, id)
		}
		return n, err
	})
}

// Marshal ReqGameList
func (req *ReqGameList) Marshal() []byte {
	var b []byte
	b = types.AppendVarint(b, 1, int64(req.Status))
	b = types.AppendString(b, 2, req.Address)
	b = types.AppendVarint(b, 3, req.Index)
	b = types.AppendVarint(b, 4, int64(req.Count))
	b = types.AppendVarint(b, 5, int64(req.Direction))
	return b
}

// Unmarshal ReqGameList
func (req *ReqGameList) Unmarshal(data []byte) error {
	*req = ReqGameList{}
	return types.ConsumeFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return types.ConsumeInt32(typ, b, &req.Status)
		case 2:
			return types.ConsumeString(typ, b, &req.Address)
		case 3:
			return types.ConsumeVarint(typ, b, &req.Index)
		case 4:
			return types.ConsumeInt32(typ, b, &req.Count)
		case 5:
			return types.ConsumeInt32(typ, b, &req.Direction)
		}
		return -1, nil
	})
}

// Marshal ReqGameCount
func (req *ReqGameCount) Marshal() []byte {
	var b []byte
	b = types.AppendVarint(b, 1, int64(req.Status))
	b = types.AppendString(b, 2, req.Address)
	return b
}

// Unmarshal ReqGameCount
func (req *ReqGameCount) Unmarshal(data []byte) error {
	*req = ReqGameCount{}
	return types.ConsumeFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return types.ConsumeInt32(typ, b, &req.Status)
		case 2:
			return types.ConsumeString(typ, b, &req.Address)
		}
		return -1, nil
	})
}
