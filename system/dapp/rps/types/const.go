// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

// 执行器名称
const (
	PackageName = "33cn.rps"
	RpsX        = "rps"
)

// ExecerRps 执行器名称
var ExecerRps = []byte(RpsX)

// rps action ty
const (
	RpsActionCreate = iota + 1
	RpsActionJoin
	RpsActionReveal
	RpsActionExpire
	RpsActionCancel
)

// 游戏状态，一局游戏的状态只会按这个顺序前进
//  0 -> 1 -> 2 (-> 2) -> 3|4
//       1 -> 5
const (
	StatusInitialized = int32(iota)
	StatusAcceptingChallenge
	StatusAcceptingReveal
	StatusResolved
	StatusExpired
	StatusCancelled
)

// log ty
const (
	TyLogRpsCreate = 751
	TyLogRpsJoin   = 752
	TyLogRpsReveal = 753
	TyLogRpsExpire = 754
	TyLogRpsCancel = 755
)

// 加入方式
const (
	// JoinModeChoice 玩家2加入时直接给出选择
	JoinModeChoice = "choice"
	// JoinModeCommit 玩家2加入时也提交承诺，之后双方依次揭示
	JoinModeCommit = "commit"
)

// 超时处理方式
const (
	// ExpiryForfeit 未揭示的一方输掉自己的押金
	ExpiryForfeit = "forfeit"
	// ExpiryRefund 双方各自取回押金
	ExpiryRefund = "refund"
)

// query func name
const (
	FuncNameGetGame      = "GetGame"
	FuncNameGetGames     = "GetGames"
	FuncNameListGames    = "ListGames"
	FuncNameGetGameCount = "GetGameCount"
	FuncNameGetEscrow    = "GetEscrow"
)

// list 参数
const (
	ListDESC     = int32(0)
	ListASC      = int32(1)
	DefaultCount = int32(20)  //默认一次取多少条记录
	MaxCount     = int32(100) //最多取100条
	MaxGameIDs   = 100

	GameCount = "GameCount" //根据状态，地址统计进入过该状态的游戏数量
)

// CommitmentLen 承诺的长度
const CommitmentLen = 32

var statusNames = map[int32]string{
	StatusInitialized:        "Initialized",
	StatusAcceptingChallenge: "AcceptingChallenge",
	StatusAcceptingReveal:    "AcceptingReveal",
	StatusResolved:           "Resolved",
	StatusExpired:            "Expired",
	StatusCancelled:          "Cancelled",
}

// StatusName 状态名称
func StatusName(status int32) string {
	if name, ok := statusNames[status]; ok {
		return name
	}
	return "Unknown"
}

// ParseStatus 由名称得到状态
func ParseStatus(name string) (int32, bool) {
	for status, n := range statusNames {
		if n == name {
			return status, true
		}
	}
	return 0, false
}
