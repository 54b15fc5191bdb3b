// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

// Action 状态机的输入
type Action interface {
	action()
}

// CreateGame 玩家1提交承诺创建游戏
type CreateGame struct {
	Player1    string
	Commitment []byte
	Config     GameConfig
}

// JoinGame 玩家2加入，choice 模式给出 Choice，commit 模式给出 Secret(玩家2自己的承诺)
type JoinGame struct {
	Player2 string
	Choice  *Choice
	Secret  []byte
}

// Reveal 揭示出拳和 salt
type Reveal struct {
	Player string
	Choice Choice
	Salt   uint64
}

// ExpireGame 揭示超时后任何人都可以调用
type ExpireGame struct {
	Player string
}

// CancelGame 无人应战时玩家1取消
type CancelGame struct {
	Player string
}

func (CreateGame) action() {}
func (JoinGame) action()   {}
func (Reveal) action()     {}
func (ExpireGame) action() {}
func (CancelGame) action() {}

// RpsAction 交易的 payload，按 Ty 取对应的字段
type RpsAction struct {
	Ty     int32      `json:"ty"`
	Create *RpsCreate `json:"create,omitempty"`
	Join   *RpsJoin   `json:"join,omitempty"`
	Reveal *RpsReveal `json:"reveal,omitempty"`
	Expire *RpsExpire `json:"expire,omitempty"`
	Cancel *RpsCancel `json:"cancel,omitempty"`
}

// RpsCreate 创建游戏
type RpsCreate struct {
	Asset      string `json:"asset"`
	Wager      int64  `json:"wager"`
	Commitment []byte `json:"commitment"`
	EntryProof []byte `json:"entryProof,omitempty"`
}

// RpsJoin 加入游戏
type RpsJoin struct {
	GameID string  `json:"gameID"`
	Choice *Choice `json:"choice,omitempty"`
	Secret []byte  `json:"secret,omitempty"`
}

// RpsReveal 揭示
type RpsReveal struct {
	GameID string `json:"gameID"`
	Choice Choice `json:"choice"`
	Salt   uint64 `json:"salt"`
}

// RpsExpire 超时结算
type RpsExpire struct {
	GameID string `json:"gameID"`
}

// RpsCancel 取消
type RpsCancel struct {
	GameID string `json:"gameID"`
}

// GetActionName action 名称
func (a *RpsAction) GetActionName() string {
	switch {
	case a.Ty == RpsActionCreate && a.Create != nil:
		return "create"
	case a.Ty == RpsActionJoin && a.Join != nil:
		return "join"
	case a.Ty == RpsActionReveal && a.Reveal != nil:
		return "reveal"
	case a.Ty == RpsActionExpire && a.Expire != nil:
		return "expire"
	case a.Ty == RpsActionCancel && a.Cancel != nil:
		return "cancel"
	}
	return "unknown"
}

// GetGameID 除创建外的 action 作用的游戏
func (a *RpsAction) GetGameID() string {
	switch {
	case a.Join != nil:
		return a.Join.GameID
	case a.Reveal != nil:
		return a.Reveal.GameID
	case a.Expire != nil:
		return a.Expire.GameID
	case a.Cancel != nil:
		return a.Cancel.GameID
	}
	return ""
}

// ReceiptRps 每次状态转换的回执，ExecLocal 据此维护索引
type ReceiptRps struct {
	GameID     string `json:"gameID"`
	Status     int32  `json:"status"`
	PrevStatus int32  `json:"prevStatus"`
	Player1    string `json:"player1"`
	Player2    string `json:"player2,omitempty"`
	Addr       string `json:"addr"`
	Index      int64  `json:"index"`
	PrevIndex  int64  `json:"prevIndex"`
}

// GameRecord 本地索引中保存的记录
type GameRecord struct {
	GameID string `json:"gameID"`
	Index  int64  `json:"index"`
}

// ReqGameID 按 id 查询
type ReqGameID struct {
	GameID string `json:"gameID"`
}

// ReqGameIDs 批量查询
type ReqGameIDs struct {
	GameIDs []string `json:"gameIDs"`
}

// ReqGameList 按状态(和地址)分页查询，Index 为上一页最后一条的 index
type ReqGameList struct {
	Status    int32  `json:"status"`
	Address   string `json:"address,omitempty"`
	Index     int64  `json:"index,omitempty"`
	Count     int32  `json:"count,omitempty"`
	Direction int32  `json:"direction,omitempty"`
}

// ReplyGames 游戏列表
type ReplyGames struct {
	Games []*Game `json:"games"`
}

// ReqGameCount 按状态和地址统计
type ReqGameCount struct {
	Status  int32  `json:"status"`
	Address string `json:"address,omitempty"`
}

// ReplyGameCount 统计结果
type ReplyGameCount struct {
	Count int64 `json:"count"`
}

// ReplyEscrow 托管账户
type ReplyEscrow struct {
	GameID   string `json:"gameID"`
	Address  string `json:"address"`
	Asset    string `json:"asset"`
	Balance  int64  `json:"balance"`
	Expected int64  `json:"expected"`
}
