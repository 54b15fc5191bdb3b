// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

// GameConfig 一局游戏的配置，创建后不再改变
type GameConfig struct {
	Asset        string `json:"asset"`
	Wager        int64  `json:"wager"`
	EntryProof   []byte `json:"entryProof,omitempty"`
	RevealWindow int64  `json:"revealWindow"`
	JoinMode     string `json:"joinMode"`
	Scheme       string `json:"scheme"`
	ExpiryPolicy string `json:"expiryPolicy"`
}

// Validate 检查配置
func (c GameConfig) Validate() error {
	if c.Asset == "" || c.Wager <= 0 || c.Wager > WagerLimit || c.RevealWindow <= 0 {
		return ErrInvalidConfig
	}
	if c.JoinMode != JoinModeChoice && c.JoinMode != JoinModeCommit {
		return ErrInvalidConfig
	}
	if c.ExpiryPolicy != ExpiryForfeit && c.ExpiryPolicy != ExpiryRefund {
		return ErrInvalidConfig
	}
	if !ValidScheme(c.Scheme) {
		return ErrInvalidConfig
	}
	return nil
}

// Payout 从托管账户转出的一笔
type Payout struct {
	Addr   string `json:"addr"`
	Amount int64  `json:"amount"`
}

// GameState 游戏状态，每次状态转换都整体替换
type GameState interface {
	Status() int32
	gameState()
}

// Initialized 记录刚创建，还没有任何 action
type Initialized struct{}

// AcceptingChallenge 玩家1已经提交承诺并押注，等待对手
type AcceptingChallenge struct {
	Player1    string     `json:"player1"`
	Commitment []byte     `json:"commitment"`
	Config     GameConfig `json:"config"`
}

// AcceptingReveal 玩家2已经加入并押注，等待揭示
// choice 模式下 Player2Choice 有值；commit 模式下 Player2Commitment 有值，
// 玩家1揭示之后 Player1Choice 有值，等待玩家2揭示
type AcceptingReveal struct {
	Player1           string     `json:"player1"`
	Player2           string     `json:"player2"`
	Commitment        []byte     `json:"commitment"`
	Config            GameConfig `json:"config"`
	ExpirySlot        int64      `json:"expirySlot"`
	Player2Choice     *Choice    `json:"player2Choice,omitempty"`
	Player2Commitment []byte     `json:"player2Commitment,omitempty"`
	Player1Choice     *Choice    `json:"player1Choice,omitempty"`
}

// Resolved 已开奖，Winner 为空表示平局
type Resolved struct {
	Player1       string   `json:"player1"`
	Player2       string   `json:"player2"`
	Winner        string   `json:"winner,omitempty"`
	Player1Choice Choice   `json:"player1Choice"`
	Player2Choice Choice   `json:"player2Choice"`
	Payouts       []Payout `json:"payouts"`
}

// Expired 揭示超时，Defaulter 为没有按时揭示的一方
type Expired struct {
	Player1   string   `json:"player1"`
	Player2   string   `json:"player2"`
	RefundTo  string   `json:"refundTo"`
	Defaulter string   `json:"defaulter"`
	Payouts   []Payout `json:"payouts"`
}

// Cancelled 无人应战，玩家1取消
type Cancelled struct {
	Player1  string   `json:"player1"`
	RefundTo string   `json:"refundTo"`
	Payouts  []Payout `json:"payouts"`
}

// Status status
func (Initialized) Status() int32 { return StatusInitialized }

// Status status
func (AcceptingChallenge) Status() int32 { return StatusAcceptingChallenge }

// Status status
func (AcceptingReveal) Status() int32 { return StatusAcceptingReveal }

// Status status
func (Resolved) Status() int32 { return StatusResolved }

// Status status
func (Expired) Status() int32 { return StatusExpired }

// Status status
func (Cancelled) Status() int32 { return StatusCancelled }

func (Initialized) gameState()        {}
func (AcceptingChallenge) gameState() {}
func (AcceptingReveal) gameState()    {}
func (Resolved) gameState()           {}
func (Expired) gameState()            {}
func (Cancelled) gameState()          {}

// IsTerminal 终态不再接受任何 action
func IsTerminal(s GameState) bool {
	switch s.(type) {
	case Resolved, Expired, Cancelled:
		return true
	}
	return false
}

// PayoutsOf 终态需要从托管账户转出的金额
func PayoutsOf(s GameState) []Payout {
	switch v := s.(type) {
	case Resolved:
		return v.Payouts
	case Expired:
		return v.Payouts
	case Cancelled:
		return v.Payouts
	}
	return nil
}

// Players 参与游戏的地址
func Players(s GameState) (player1, player2 string) {
	switch v := s.(type) {
	case AcceptingChallenge:
		return v.Player1, ""
	case AcceptingReveal:
		return v.Player1, v.Player2
	case Resolved:
		return v.Player1, v.Player2
	case Expired:
		return v.Player1, v.Player2
	case Cancelled:
		return v.Player1, ""
	}
	return "", ""
}

// Game 状态数据库中的游戏记录，每个 GameID 只有一条
type Game struct {
	GameID       string     `json:"gameID"`
	Config       GameConfig `json:"config"`
	State        GameState  `json:"state"`
	CreateTxHash string     `json:"createTxHash"`
	CreateTime   int64      `json:"createTime"`
	Index        int64      `json:"index"`
	PrevIndex    int64      `json:"prevIndex"`
}

// GetStatus 当前状态
func (g *Game) GetStatus() int32 {
	if g == nil || g.State == nil {
		return StatusInitialized
	}
	return g.State.Status()
}
