// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"github.com/33cn/rps/common"
	"github.com/33cn/rps/common/address"
	"github.com/33cn/rps/common/crypto"
	"github.com/google/uuid"
)

// Signature 交易签名
type Signature struct {
	Ty        int32  `json:"ty"`
	Pubkey    []byte `json:"pubkey"`
	Signature []byte `json:"signature"`
}

// GetPubkey return pubkey
func (sig *Signature) GetPubkey() []byte {
	if sig == nil {
		return nil
	}
	return sig.Pubkey
}

// Transaction 交易，payload 为执行器的 action
type Transaction struct {
	Execer    []byte     `json:"execer"`
	Payload   []byte     `json:"payload"`
	Nonce     string     `json:"nonce"`
	Signature *Signature `json:"signature,omitempty"`
}

// GetSignature return signature
func (tx *Transaction) GetSignature() *Signature {
	if tx == nil {
		return nil
	}
	return tx.Signature
}

// NewTransaction 构造未签名交易，nonce 使用 uuid 保证相同 payload 的交易 hash 不同
func NewTransaction(execer string, action ProtoMessage) *Transaction {
	return &Transaction{
		Execer:  []byte(execer),
		Payload: Encode(action),
		Nonce:   uuid.New().String(),
	}
}

//Hash 交易的hash不包含签名
func (tx *Transaction) Hash() []byte {
	copytx := *tx
	copytx.Signature = nil
	data := Encode(&copytx)
	return common.Sha256(data)
}

//Size 交易大小
func (tx *Transaction) Size() int {
	return len(Encode(tx))
}

//Sign 交易签名
func (tx *Transaction) Sign(ty int32, priv crypto.PrivKey) {
	tx.Signature = nil
	data := Encode(tx)
	pub := priv.PubKey()
	sign := priv.Sign(data)
	tx.Signature = &Signature{
		Ty:        ty,
		Pubkey:    pub.Bytes(),
		Signature: sign.Bytes(),
	}
}

//CheckSign 检查签名
func (tx *Transaction) CheckSign() bool {
	sig := tx.GetSignature()
	if sig == nil {
		return false
	}
	copytx := *tx
	copytx.Signature = nil
	data := Encode(&copytx)
	c, err := crypto.New(crypto.GetName(int(sig.Ty)))
	if err != nil {
		return false
	}
	return crypto.BasicValidation(c, data, sig.Pubkey, sig.Signature) == nil
}

//From 交易from地址
func (tx *Transaction) From() string {
	return address.PubKeyToAddr(tx.GetSignature().GetPubkey())
}
