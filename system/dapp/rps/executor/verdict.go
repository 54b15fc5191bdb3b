// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"bytes"

	rt "github.com/33cn/rps/system/dapp/rps/types"
)

// verifyCommitment 揭示时校验 H(player ‖ salt ‖ choice) 是否等于承诺
func verifyCommitment(scheme, player string, salt uint64, choice rt.Choice, commitment []byte) error {
	hash, err := rt.Commit(scheme, player, salt, choice)
	if err != nil {
		return err
	}
	if !bytes.Equal(hash, commitment) {
		return rt.ErrCommitmentMismatch
	}
	return nil
}

// judge 开奖，winner 为空表示平局
func judge(player1, player2 string, choice1, choice2 rt.Choice) (winner string) {
	switch {
	case choice1.Beats(choice2):
		return player1
	case choice2.Beats(choice1):
		return player2
	}
	return ""
}

// resolvedPayouts 赢家拿走双方押金，平局各自取回
func resolvedPayouts(player1, player2, winner string, wager int64) []rt.Payout {
	if winner == "" {
		return []rt.Payout{{Addr: player1, Amount: wager}, {Addr: player2, Amount: wager}}
	}
	return []rt.Payout{{Addr: winner, Amount: 2 * wager}}
}

// expiredPayouts forfeit: 守约的一方拿走双方押金; refund: 各自取回
func expiredPayouts(cfg rt.GameConfig, player1, player2, honest string) []rt.Payout {
	if cfg.ExpiryPolicy == rt.ExpiryRefund {
		return []rt.Payout{{Addr: player1, Amount: cfg.Wager}, {Addr: player2, Amount: cfg.Wager}}
	}
	return []rt.Payout{{Addr: honest, Amount: 2 * cfg.Wager}}
}
