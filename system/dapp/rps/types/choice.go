// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"strings"
)

// Choice 出拳，数值即写入承诺的那个字节
type Choice uint8

// 石头 布 剪刀
const (
	Rock Choice = iota
	Paper
	Scissors
)

var choiceNames = [...]string{"Rock", "Paper", "Scissors"}

// Valid 是否是合法的出拳
func (c Choice) Valid() bool {
	return c <= Scissors
}

func (c Choice) String() string {
	if !c.Valid() {
		return "Unknown"
	}
	return choiceNames[c]
}

// Beats c 是否赢 other: 石头赢剪刀，剪刀赢布，布赢石头
func (c Choice) Beats(other Choice) bool {
	return c.Valid() && other.Valid() && (uint8(c)+3-uint8(other))%3 == 1
}

// ParseChoice 解析出拳，支持名称和数字
func ParseChoice(s string) (Choice, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rock", "0":
		return Rock, nil
	case "paper", "1":
		return Paper, nil
	case "scissors", "2":
		return Scissors, nil
	}
	return 0, ErrInvalidChoice
}
