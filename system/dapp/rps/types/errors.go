// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"errors"
	"fmt"
)

// 状态机拒绝的原因
var (
	ErrInvalidTransition  = errors.New("ErrInvalidTransition")
	ErrGameFinished       = errors.New("ErrGameFinished")
	ErrSelfJoin           = errors.New("ErrSelfJoin")
	ErrNotPlayer          = errors.New("ErrNotPlayer")
	ErrEmptyPlayer        = errors.New("ErrEmptyPlayer")
	ErrJoinModeMismatch   = errors.New("ErrJoinModeMismatch")
	ErrInvalidChoice      = errors.New("ErrInvalidChoice")
	ErrInvalidCommitment  = errors.New("ErrInvalidCommitment")
	ErrInvalidConfig      = errors.New("ErrInvalidConfig")
	ErrInvalidScheme      = errors.New("ErrInvalidScheme")
	ErrCommitmentMismatch = errors.New("ErrCommitmentMismatch")
	ErrRevealWindowClosed = errors.New("ErrRevealWindowClosed")
	ErrRevealWindowOpen   = errors.New("ErrRevealWindowOpen")
)

// 执行器的错误
var (
	ErrGameExists       = errors.New("ErrGameExists")
	ErrGameNotFound     = errors.New("ErrGameNotFound")
	ErrUnexpectedState  = errors.New("ErrUnexpectedState")
	ErrEscrowNotEmpty   = errors.New("ErrEscrowNotEmpty")
	ErrEscrowBalance    = errors.New("ErrEscrowBalance")
	ErrAssetNotAllow    = errors.New("ErrAssetNotAllow")
	ErrWagerAmount      = errors.New("ErrWagerAmount")
	ErrEntryProofNeeded = errors.New("ErrEntryProofNeeded")
	ErrGameRecord       = errors.New("ErrGameRecord")
)

// 拒绝的分类
const (
	ClassInvalidTransition  = "invalid-transition"
	ClassCommitmentMismatch = "commitment-mismatch"
	ClassTiming             = "timing"
)

// RejectError 状态机拒绝一个 action，拒绝时状态不变
type RejectError struct {
	GameID string
	Reason error
}

// NewRejectError new reject error
func NewRejectError(gameID string, reason error) *RejectError {
	return &RejectError{GameID: gameID, Reason: reason}
}

func (e *RejectError) Error() string {
	return fmt.Sprintf("game %s rejected: %v", e.GameID, e.Reason)
}

// Cause 兼容 github.com/pkg/errors.Cause
func (e *RejectError) Cause() error {
	return e.Reason
}

// Unwrap 兼容 errors.Is
func (e *RejectError) Unwrap() error {
	return e.Reason
}

// Class 拒绝的分类
func (e *RejectError) Class() string {
	switch e.Reason {
	case ErrCommitmentMismatch:
		return ClassCommitmentMismatch
	case ErrRevealWindowClosed, ErrRevealWindowOpen:
		return ClassTiming
	}
	return ClassInvalidTransition
}

// AsReject 从错误链中取出 RejectError
func AsReject(err error) (*RejectError, bool) {
	var r *RejectError
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}
