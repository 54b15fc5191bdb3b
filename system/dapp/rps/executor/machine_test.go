// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"testing"

	rt "github.com/33cn/rps/system/dapp/rps/types"
	"github.com/33cn/rps/types"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	player1 = "1KSBd17H7ZK8iT37aJztFB22XGwsPTdwE4"
	player2 = "1JRNjdEqp4LJ5fqycUBm9ayCKSeeskgMKR"
	player3 = "1NLHPEcbTWWxxU3dGUZBhayjrCHD3psX7k"
	wager   = int64(100)
	salt1   = uint64(0x5eed)
	salt2   = uint64(0xbeef)
	gameID  = "0x01"
)

func gameConfig(mutate ...func(*rt.GameConfig)) rt.GameConfig {
	cfg := rt.DefaultConfig().GameConfig("coins.bty", wager, nil)
	for _, f := range mutate {
		f(&cfg)
	}
	return cfg
}

func commitMode(c *rt.GameConfig) { c.JoinMode = rt.JoinModeCommit }

func refund(c *rt.GameConfig) { c.ExpiryPolicy = rt.ExpiryRefund }

func mustCommit(t *testing.T, scheme, player string, salt uint64, choice rt.Choice) []byte {
	c, err := rt.Commit(scheme, player, salt, choice)
	require.Nil(t, err)
	return c
}

func choicePtr(c rt.Choice) *rt.Choice {
	return &c
}

func mustApply(t *testing.T, state rt.GameState, action rt.Action, now int64) rt.GameState {
	next, err := Apply(gameID, state, action, now)
	require.Nil(t, err)
	return next
}

// reject 检查拒绝的原因，并且状态保持不变
func reject(t *testing.T, state rt.GameState, action rt.Action, now int64, reason error) {
	next, err := Apply(gameID, state, action, now)
	require.NotNil(t, err)
	r, ok := rt.AsReject(err)
	require.True(t, ok)
	assert.Equal(t, gameID, r.GameID)
	assert.Equal(t, reason, errors.Cause(err))
	assert.Equal(t, state, next)
}

func created(t *testing.T, cfg rt.GameConfig, choice rt.Choice) rt.GameState {
	return mustApply(t, rt.Initialized{}, rt.CreateGame{
		Player1:    player1,
		Commitment: mustCommit(t, cfg.Scheme, player1, salt1, choice),
		Config:     cfg,
	}, 1)
}

func joined(t *testing.T, cfg rt.GameConfig, choice1, choice2 rt.Choice, now int64) rt.GameState {
	s := created(t, cfg, choice1)
	join := rt.JoinGame{Player2: player2}
	if cfg.JoinMode == rt.JoinModeCommit {
		join.Secret = mustCommit(t, cfg.Scheme, player2, salt2, choice2)
	} else {
		join.Choice = choicePtr(choice2)
	}
	return mustApply(t, s, join, now)
}

func TestCreate(t *testing.T) {
	cfg := gameConfig()
	s := created(t, cfg, rt.Rock)
	c, ok := s.(rt.AcceptingChallenge)
	require.True(t, ok)
	assert.Equal(t, player1, c.Player1)
	assert.Equal(t, cfg, c.Config)
	assert.Equal(t, rt.StatusAcceptingChallenge, s.Status())

	//nil 视为 Initialized
	_, err := Apply(gameID, nil, rt.CreateGame{Player1: player1, Commitment: make([]byte, 32), Config: cfg}, 1)
	assert.Nil(t, err)

	reject(t, rt.Initialized{}, rt.CreateGame{Commitment: make([]byte, 32), Config: cfg}, 1, rt.ErrEmptyPlayer)
	reject(t, rt.Initialized{}, rt.CreateGame{Player1: player1, Commitment: make([]byte, 31), Config: cfg}, 1, rt.ErrInvalidCommitment)
	reject(t, rt.Initialized{}, rt.CreateGame{Player1: player1, Commitment: make([]byte, 32), Config: gameConfig(func(c *rt.GameConfig) {
		c.Wager = 0
	})}, 1, rt.ErrInvalidConfig)
	//2W 会溢出合法金额
	reject(t, rt.Initialized{}, rt.CreateGame{Player1: player1, Commitment: make([]byte, 32), Config: gameConfig(func(c *rt.GameConfig) {
		c.Wager = rt.WagerLimit + 1
	})}, 1, rt.ErrInvalidConfig)
	big := mustApply(t, rt.Initialized{}, rt.CreateGame{Player1: player1, Commitment: make([]byte, 32), Config: gameConfig(func(c *rt.GameConfig) {
		c.Wager = rt.WagerLimit
	})}, 1)
	big = mustApply(t, big, rt.JoinGame{Player2: player2, Choice: choicePtr(rt.Paper)}, 2)
	big = mustApply(t, big, rt.ExpireGame{Player: player2}, 2+rt.DefaultConfig().RevealWindow+1)
	for _, p := range rt.PayoutsOf(big) {
		assert.True(t, p.Amount > 0 && p.Amount < types.MaxCoin)
	}
	reject(t, s, rt.CreateGame{Player1: player1, Commitment: make([]byte, 32), Config: cfg}, 2, rt.ErrInvalidTransition)
}

func TestJoin(t *testing.T) {
	cfg := gameConfig()
	s := created(t, cfg, rt.Rock)
	next := mustApply(t, s, rt.JoinGame{Player2: player2, Choice: choicePtr(rt.Paper)}, 100)
	r, ok := next.(rt.AcceptingReveal)
	require.True(t, ok)
	assert.Equal(t, int64(100+cfg.RevealWindow), r.ExpirySlot)
	assert.Equal(t, rt.Paper, *r.Player2Choice)
	assert.Equal(t, player2, r.Player2)

	reject(t, s, rt.JoinGame{Player2: player1, Choice: choicePtr(rt.Paper)}, 100, rt.ErrSelfJoin)
	reject(t, s, rt.JoinGame{Choice: choicePtr(rt.Paper)}, 100, rt.ErrEmptyPlayer)
	reject(t, s, rt.JoinGame{Player2: player2}, 100, rt.ErrJoinModeMismatch)
	reject(t, s, rt.JoinGame{Player2: player2, Choice: choicePtr(rt.Paper), Secret: make([]byte, 32)}, 100, rt.ErrJoinModeMismatch)
	reject(t, s, rt.JoinGame{Player2: player2, Choice: choicePtr(rt.Choice(3))}, 100, rt.ErrInvalidChoice)
	reject(t, next, rt.JoinGame{Player2: player3, Choice: choicePtr(rt.Rock)}, 101, rt.ErrInvalidTransition)
	reject(t, rt.Initialized{}, rt.JoinGame{Player2: player2, Choice: choicePtr(rt.Rock)}, 1, rt.ErrInvalidTransition)
}

func TestJoinCommitMode(t *testing.T) {
	cfg := gameConfig(commitMode)
	s := created(t, cfg, rt.Rock)
	secret := mustCommit(t, cfg.Scheme, player2, salt2, rt.Paper)
	next := mustApply(t, s, rt.JoinGame{Player2: player2, Secret: secret}, 10)
	r := next.(rt.AcceptingReveal)
	assert.Equal(t, secret, r.Player2Commitment)
	assert.Nil(t, r.Player2Choice)

	reject(t, s, rt.JoinGame{Player2: player2, Choice: choicePtr(rt.Paper)}, 10, rt.ErrJoinModeMismatch)
	reject(t, s, rt.JoinGame{Player2: player2, Secret: make([]byte, 16)}, 10, rt.ErrInvalidCommitment)
}

func TestEndToEnd(t *testing.T) {
	cfg := gameConfig()
	//Rock 赢 Scissors
	s := joined(t, cfg, rt.Rock, rt.Scissors, 10)
	next := mustApply(t, s, rt.Reveal{Player: player1, Choice: rt.Rock, Salt: salt1}, 20)
	r := next.(rt.Resolved)
	assert.Equal(t, player1, r.Winner)
	assert.Equal(t, []rt.Payout{{Addr: player1, Amount: 2 * wager}}, r.Payouts)

	//Rock 输给 Paper
	s = joined(t, cfg, rt.Rock, rt.Paper, 10)
	next = mustApply(t, s, rt.Reveal{Player: player1, Choice: rt.Rock, Salt: salt1}, 20)
	r = next.(rt.Resolved)
	assert.Equal(t, player2, r.Winner)
	assert.Equal(t, rt.Rock, r.Player1Choice)
	assert.Equal(t, rt.Paper, r.Player2Choice)
	assert.Equal(t, []rt.Payout{{Addr: player2, Amount: 2 * wager}}, r.Payouts)

	//平局各自取回
	s = joined(t, cfg, rt.Scissors, rt.Scissors, 10)
	next = mustApply(t, s, rt.Reveal{Player: player1, Choice: rt.Scissors, Salt: salt1}, 20)
	r = next.(rt.Resolved)
	assert.Equal(t, "", r.Winner)
	assert.Equal(t, []rt.Payout{{Addr: player1, Amount: wager}, {Addr: player2, Amount: wager}}, r.Payouts)
}

func TestWinnerMatrix(t *testing.T) {
	choices := []rt.Choice{rt.Rock, rt.Paper, rt.Scissors}
	for _, c1 := range choices {
		for _, c2 := range choices {
			s := joined(t, gameConfig(), c1, c2, 1)
			r := mustApply(t, s, rt.Reveal{Player: player1, Choice: c1, Salt: salt1}, 2).(rt.Resolved)
			var total int64
			for _, p := range r.Payouts {
				total += p.Amount
			}
			assert.Equal(t, 2*wager, total)
			switch {
			case c1 == c2:
				assert.Equal(t, "", r.Winner)
			case c1.Beats(c2):
				assert.Equal(t, player1, r.Winner)
			default:
				assert.Equal(t, player2, r.Winner)
			}
		}
	}
}

func TestRevealMismatch(t *testing.T) {
	for _, scheme := range []string{rt.SchemeKeccak256, rt.SchemeSha256, rt.SchemeSm3} {
		cfg := gameConfig(func(c *rt.GameConfig) { c.Scheme = scheme })
		s := joined(t, cfg, rt.Rock, rt.Paper, 10)
		reject(t, s, rt.Reveal{Player: player1, Choice: rt.Paper, Salt: salt1}, 20, rt.ErrCommitmentMismatch)
		reject(t, s, rt.Reveal{Player: player1, Choice: rt.Scissors, Salt: salt1}, 20, rt.ErrCommitmentMismatch)
		//salt 任意一位不同
		for bit := uint(0); bit < 64; bit++ {
			reject(t, s, rt.Reveal{Player: player1, Choice: rt.Rock, Salt: salt1 ^ (1 << bit)}, 20, rt.ErrCommitmentMismatch)
		}
		mustApply(t, s, rt.Reveal{Player: player1, Choice: rt.Rock, Salt: salt1}, 20)
	}
}

func TestRevealRejects(t *testing.T) {
	s := joined(t, gameConfig(), rt.Rock, rt.Paper, 10)
	reject(t, s, rt.Reveal{Player: player2, Choice: rt.Rock, Salt: salt1}, 20, rt.ErrNotPlayer)
	reject(t, s, rt.Reveal{Player: player3, Choice: rt.Rock, Salt: salt1}, 20, rt.ErrNotPlayer)
	reject(t, s, rt.Reveal{Player: player1, Choice: rt.Choice(7), Salt: salt1}, 20, rt.ErrInvalidChoice)
	reject(t, created(t, gameConfig(), rt.Rock), rt.Reveal{Player: player1, Choice: rt.Rock, Salt: salt1}, 20, rt.ErrInvalidTransition)
}

func TestRevealWindow(t *testing.T) {
	cfg := gameConfig()
	s := joined(t, cfg, rt.Rock, rt.Paper, 100)
	expiry := s.(rt.AcceptingReveal).ExpirySlot
	assert.Equal(t, int64(150), expiry)
	reveal := rt.Reveal{Player: player1, Choice: rt.Rock, Salt: salt1}

	//揭示: now <= expiry
	mustApply(t, s, reveal, expiry-1)
	mustApply(t, s, reveal, expiry)
	reject(t, s, reveal, expiry+1, rt.ErrRevealWindowClosed)

	//超时: now > expiry
	expire := rt.ExpireGame{Player: player2}
	reject(t, s, expire, 140, rt.ErrRevealWindowOpen)
	reject(t, s, expire, expiry-1, rt.ErrRevealWindowOpen)
	reject(t, s, expire, expiry, rt.ErrRevealWindowOpen)
	mustApply(t, s, expire, expiry+1)
	mustApply(t, s, expire, 151)
}

func TestExpire(t *testing.T) {
	s := joined(t, gameConfig(), rt.Rock, rt.Paper, 100)
	next := mustApply(t, s, rt.ExpireGame{Player: player3}, 151)
	e := next.(rt.Expired)
	assert.Equal(t, player1, e.Defaulter)
	assert.Equal(t, player2, e.RefundTo)
	assert.Equal(t, []rt.Payout{{Addr: player2, Amount: 2 * wager}}, e.Payouts)

	s = joined(t, gameConfig(refund), rt.Rock, rt.Paper, 100)
	e = mustApply(t, s, rt.ExpireGame{Player: player1}, 151).(rt.Expired)
	assert.Equal(t, []rt.Payout{{Addr: player1, Amount: wager}, {Addr: player2, Amount: wager}}, e.Payouts)

	reject(t, created(t, gameConfig(), rt.Rock), rt.ExpireGame{Player: player1}, 1000, rt.ErrInvalidTransition)
}

func TestCancel(t *testing.T) {
	s := created(t, gameConfig(), rt.Rock)
	reject(t, s, rt.CancelGame{Player: player2}, 5, rt.ErrNotPlayer)
	next := mustApply(t, s, rt.CancelGame{Player: player1}, 5)
	c := next.(rt.Cancelled)
	assert.Equal(t, player1, c.RefundTo)
	assert.Equal(t, []rt.Payout{{Addr: player1, Amount: wager}}, c.Payouts)

	reject(t, joined(t, gameConfig(), rt.Rock, rt.Paper, 10), rt.CancelGame{Player: player1}, 11, rt.ErrInvalidTransition)
}

func TestCommitModeReveal(t *testing.T) {
	cfg := gameConfig(commitMode)
	s := joined(t, cfg, rt.Paper, rt.Rock, 10)
	//玩家2不能先揭示
	reject(t, s, rt.Reveal{Player: player2, Choice: rt.Rock, Salt: salt2}, 20, rt.ErrNotPlayer)

	half := mustApply(t, s, rt.Reveal{Player: player1, Choice: rt.Paper, Salt: salt1}, 20)
	r := half.(rt.AcceptingReveal)
	assert.Equal(t, rt.Paper, *r.Player1Choice)
	assert.Equal(t, int64(20+cfg.RevealWindow), r.ExpirySlot)

	reject(t, half, rt.Reveal{Player: player1, Choice: rt.Paper, Salt: salt1}, 21, rt.ErrNotPlayer)
	reject(t, half, rt.Reveal{Player: player2, Choice: rt.Scissors, Salt: salt2}, 21, rt.ErrCommitmentMismatch)

	done := mustApply(t, half, rt.Reveal{Player: player2, Choice: rt.Rock, Salt: salt2}, 21).(rt.Resolved)
	assert.Equal(t, player1, done.Winner)
	assert.Equal(t, []rt.Payout{{Addr: player1, Amount: 2 * wager}}, done.Payouts)

	//玩家1已揭示，玩家2超时
	e := mustApply(t, half, rt.ExpireGame{Player: player1}, r.ExpirySlot+1).(rt.Expired)
	assert.Equal(t, player2, e.Defaulter)
	assert.Equal(t, player1, e.RefundTo)
	assert.Equal(t, []rt.Payout{{Addr: player1, Amount: 2 * wager}}, e.Payouts)

	//玩家1没有揭示
	e = mustApply(t, s, rt.ExpireGame{Player: player2}, 61).(rt.Expired)
	assert.Equal(t, player1, e.Defaulter)
	assert.Equal(t, player2, e.RefundTo)
}

func TestTerminalRejectAll(t *testing.T) {
	s := joined(t, gameConfig(), rt.Rock, rt.Paper, 10)
	terminals := []rt.GameState{
		mustApply(t, s, rt.Reveal{Player: player1, Choice: rt.Rock, Salt: salt1}, 11),
		mustApply(t, s, rt.ExpireGame{Player: player2}, 61),
		mustApply(t, created(t, gameConfig(), rt.Rock), rt.CancelGame{Player: player1}, 2),
	}
	actions := []rt.Action{
		rt.CreateGame{Player1: player1, Commitment: make([]byte, 32), Config: gameConfig()},
		rt.JoinGame{Player2: player2, Choice: choicePtr(rt.Rock)},
		rt.Reveal{Player: player1, Choice: rt.Rock, Salt: salt1},
		rt.ExpireGame{Player: player2},
		rt.CancelGame{Player: player1},
	}
	for _, state := range terminals {
		for _, a := range actions {
			reject(t, state, a, 1000, rt.ErrGameFinished)
		}
	}
}

func TestDeterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		a := joined(t, gameConfig(), rt.Rock, rt.Scissors, 10)
		b := joined(t, gameConfig(), rt.Rock, rt.Scissors, 10)
		assert.Equal(t, a, b)
		ra := mustApply(t, a, rt.Reveal{Player: player1, Choice: rt.Rock, Salt: salt1}, 30)
		rb := mustApply(t, b, rt.Reveal{Player: player1, Choice: rt.Rock, Salt: salt1}, 30)
		assert.Equal(t, ra, rb)
	}
}

func TestRejectClass(t *testing.T) {
	s := joined(t, gameConfig(), rt.Rock, rt.Paper, 10)
	_, err := Apply(gameID, s, rt.Reveal{Player: player1, Choice: rt.Paper, Salt: salt1}, 20)
	r, _ := rt.AsReject(err)
	assert.Equal(t, rt.ClassCommitmentMismatch, r.Class())
	_, err = Apply(gameID, s, rt.ExpireGame{Player: player1}, 20)
	r, _ = rt.AsReject(err)
	assert.Equal(t, rt.ClassTiming, r.Class())
	_, err = Apply(gameID, s, rt.CancelGame{Player: player1}, 20)
	r, _ = rt.AsReject(err)
	assert.Equal(t, rt.ClassInvalidTransition, r.Class())
}
