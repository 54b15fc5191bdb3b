// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"encoding/binary"

	"github.com/33cn/rps/common/crypto"
)

// 承诺使用的 hash 算法，每局游戏创建时固定
const (
	SchemeKeccak256 = "keccak256"
	SchemeSha256    = "sha256"
	SchemeSm3       = "sm3"
)

var schemes = map[string]func([]byte) []byte{
	SchemeKeccak256: crypto.Keccak256,
	SchemeSha256:    crypto.Sha256,
	SchemeSm3:       crypto.Sm3Hash,
}

// ValidScheme 是否支持该 hash 算法
func ValidScheme(scheme string) bool {
	_, ok := schemes[scheme]
	return ok
}

// CommitPreimage 承诺的原文: 玩家地址 ‖ salt(8字节小端) ‖ 出拳(1字节)
func CommitPreimage(player string, salt uint64, choice Choice) []byte {
	buf := make([]byte, 0, len(player)+9)
	buf = append(buf, player...)
	var s [8]byte
	binary.LittleEndian.PutUint64(s[:], salt)
	buf = append(buf, s[:]...)
	return append(buf, byte(choice))
}

// Commit 计算承诺
func Commit(scheme string, player string, salt uint64, choice Choice) ([]byte, error) {
	hash, ok := schemes[scheme]
	if !ok {
		return nil, ErrInvalidScheme
	}
	if !choice.Valid() {
		return nil, ErrInvalidChoice
	}
	return hash(CommitPreimage(player, salt, choice)), nil
}
