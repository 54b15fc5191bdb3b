// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	rt "github.com/33cn/rps/system/dapp/rps/types"
)

/*
Apply 是游戏的状态机，没有任何副作用:

	Initialized        --CreateGame-->  AcceptingChallenge
	AcceptingChallenge --JoinGame---->  AcceptingReveal
	AcceptingChallenge --CancelGame-->  Cancelled
	AcceptingReveal    --Reveal------>  Resolved
	AcceptingReveal    --Reveal------>  AcceptingReveal (commit 模式下玩家1先揭示)
	AcceptingReveal    --ExpireGame-->  Expired

成功时返回新的状态，拒绝时原样返回输入的状态和 *RejectError。
now 为当前 slot，揭示要求 now <= ExpirySlot，超时结算要求 now > ExpirySlot。
*/
func Apply(gameID string, state rt.GameState, action rt.Action, now int64) (rt.GameState, error) {
	if state == nil {
		state = rt.Initialized{}
	}
	next, reason := apply(state, action, now)
	if reason != nil {
		return state, rt.NewRejectError(gameID, reason)
	}
	return next, nil
}

func apply(state rt.GameState, action rt.Action, now int64) (rt.GameState, error) {
	if rt.IsTerminal(state) {
		return nil, rt.ErrGameFinished
	}
	switch a := action.(type) {
	case rt.CreateGame:
		s, ok := state.(rt.Initialized)
		if !ok {
			return nil, rt.ErrInvalidTransition
		}
		return create(s, a)
	case rt.JoinGame:
		s, ok := state.(rt.AcceptingChallenge)
		if !ok {
			return nil, rt.ErrInvalidTransition
		}
		return join(s, a, now)
	case rt.Reveal:
		s, ok := state.(rt.AcceptingReveal)
		if !ok {
			return nil, rt.ErrInvalidTransition
		}
		return reveal(s, a, now)
	case rt.ExpireGame:
		s, ok := state.(rt.AcceptingReveal)
		if !ok {
			return nil, rt.ErrInvalidTransition
		}
		return expire(s, now)
	case rt.CancelGame:
		s, ok := state.(rt.AcceptingChallenge)
		if !ok {
			return nil, rt.ErrInvalidTransition
		}
		return cancel(s, a)
	}
	return nil, rt.ErrInvalidTransition
}

func create(_ rt.Initialized, a rt.CreateGame) (rt.GameState, error) {
	if a.Player1 == "" {
		return nil, rt.ErrEmptyPlayer
	}
	if len(a.Commitment) != rt.CommitmentLen {
		return nil, rt.ErrInvalidCommitment
	}
	if err := a.Config.Validate(); err != nil {
		return nil, err
	}
	return rt.AcceptingChallenge{
		Player1:    a.Player1,
		Commitment: a.Commitment,
		Config:     a.Config,
	}, nil
}

func join(s rt.AcceptingChallenge, a rt.JoinGame, now int64) (rt.GameState, error) {
	if a.Player2 == "" {
		return nil, rt.ErrEmptyPlayer
	}
	if a.Player2 == s.Player1 {
		return nil, rt.ErrSelfJoin
	}
	next := rt.AcceptingReveal{
		Player1:    s.Player1,
		Player2:    a.Player2,
		Commitment: s.Commitment,
		Config:     s.Config,
		ExpirySlot: now + s.Config.RevealWindow,
	}
	switch s.Config.JoinMode {
	case rt.JoinModeChoice:
		if a.Choice == nil || a.Secret != nil {
			return nil, rt.ErrJoinModeMismatch
		}
		if !a.Choice.Valid() {
			return nil, rt.ErrInvalidChoice
		}
		choice := *a.Choice
		next.Player2Choice = &choice
	case rt.JoinModeCommit:
		if a.Secret == nil || a.Choice != nil {
			return nil, rt.ErrJoinModeMismatch
		}
		if len(a.Secret) != rt.CommitmentLen {
			return nil, rt.ErrInvalidCommitment
		}
		next.Player2Commitment = a.Secret
	default:
		return nil, rt.ErrInvalidConfig
	}
	return next, nil
}

func reveal(s rt.AcceptingReveal, a rt.Reveal, now int64) (rt.GameState, error) {
	//commit 模式下玩家1揭示之后轮到玩家2
	player2Turn := s.Config.JoinMode == rt.JoinModeCommit && s.Player1Choice != nil
	expected := s.Player1
	if player2Turn {
		expected = s.Player2
	}
	if a.Player != expected {
		return nil, rt.ErrNotPlayer
	}
	if now > s.ExpirySlot {
		return nil, rt.ErrRevealWindowClosed
	}
	if !a.Choice.Valid() {
		return nil, rt.ErrInvalidChoice
	}
	if player2Turn {
		if err := verifyCommitment(s.Config.Scheme, s.Player2, a.Salt, a.Choice, s.Player2Commitment); err != nil {
			return nil, err
		}
		return resolve(s, *s.Player1Choice, a.Choice), nil
	}
	if err := verifyCommitment(s.Config.Scheme, s.Player1, a.Salt, a.Choice, s.Commitment); err != nil {
		return nil, err
	}
	if s.Config.JoinMode == rt.JoinModeCommit {
		choice := a.Choice
		next := s
		next.Player1Choice = &choice
		next.ExpirySlot = now + s.Config.RevealWindow
		return next, nil
	}
	if s.Player2Choice == nil {
		return nil, rt.ErrInvalidTransition
	}
	return resolve(s, a.Choice, *s.Player2Choice), nil
}

func resolve(s rt.AcceptingReveal, choice1, choice2 rt.Choice) rt.GameState {
	winner := judge(s.Player1, s.Player2, choice1, choice2)
	return rt.Resolved{
		Player1:       s.Player1,
		Player2:       s.Player2,
		Winner:        winner,
		Player1Choice: choice1,
		Player2Choice: choice2,
		Payouts:       resolvedPayouts(s.Player1, s.Player2, winner, s.Config.Wager),
	}
}

func expire(s rt.AcceptingReveal, now int64) (rt.GameState, error) {
	if now <= s.ExpirySlot {
		return nil, rt.ErrRevealWindowOpen
	}
	//等待揭示的一方违约
	defaulter, honest := s.Player1, s.Player2
	if s.Config.JoinMode == rt.JoinModeCommit && s.Player1Choice != nil {
		defaulter, honest = s.Player2, s.Player1
	}
	return rt.Expired{
		Player1:   s.Player1,
		Player2:   s.Player2,
		RefundTo:  honest,
		Defaulter: defaulter,
		Payouts:   expiredPayouts(s.Config, s.Player1, s.Player2, honest),
	}, nil
}

func cancel(s rt.AcceptingChallenge, a rt.CancelGame) (rt.GameState, error) {
	if a.Player != s.Player1 {
		return nil, rt.ErrNotPlayer
	}
	return rt.Cancelled{
		Player1:  s.Player1,
		RefundTo: s.Player1,
		Payouts:  []rt.Payout{{Addr: s.Player1, Amount: s.Config.Wager}},
	}, nil
}
