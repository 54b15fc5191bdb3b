// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"google.golang.org/protobuf/encoding/protowire"
)

// 写入数据库和参与签名的消息都使用 protobuf wire 格式，字段编号如下
//
//	KeyValue:               1 key, 2 value
//	ReceiptLog:             1 ty, 2 log
//	ReceiptData:            1 ty, 2 logs
//	Account:                1 currency, 2 balance, 3 frozen, 4 addr
//	ReceiptAccountTransfer: 1 prev, 2 current
//	ReqBalance:             1 addresses, 2 asset
//	ReplyHeight:            1 height
//	Signature:              1 ty, 2 pubkey, 3 signature
//	Transaction:            1 execer, 2 payload, 3 signature, 6 nonce

// Marshal KeyValue
func (kv *KeyValue) Marshal() []byte {
	var b []byte
	b = AppendBytes(b, 1, kv.Key)
	b = AppendBytes(b, 2, kv.Value)
	return b
}

// Unmarshal KeyValue
func (kv *KeyValue) Unmarshal(data []byte) error {
	*kv = KeyValue{}
	return ConsumeFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return ConsumeBytes(typ, b, &kv.Key)
		case 2:
			return ConsumeBytes(typ, b, &kv.Value)
		}
		return -1, nil
	})
}

// Marshal ReceiptLog
func (l *ReceiptLog) Marshal() []byte {
	var b []byte
	b = AppendVarint(b, 1, int64(l.Ty))
	b = AppendBytes(b, 2, l.Log)
	return b
}

// Unmarshal ReceiptLog
func (l *ReceiptLog) Unmarshal(data []byte) error {
	*l = ReceiptLog{}
	return ConsumeFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return ConsumeInt32(typ, b, &l.Ty)
		case 2:
			return ConsumeBytes(typ, b, &l.Log)
		}
		return -1, nil
	})
}

// Marshal ReceiptData
func (r *ReceiptData) Marshal() []byte {
	var b []byte
	b = AppendVarint(b, 1, int64(r.Ty))
	for _, l := range r.Logs {
		b = AppendMessage(b, 2, l.Marshal())
	}
	return b
}

// Unmarshal ReceiptData
func (r *ReceiptData) Unmarshal(data []byte) error {
	*r = ReceiptData{}
	return ConsumeFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return ConsumeInt32(typ, b, &r.Ty)
		case 2:
			l := &ReceiptLog{}
			n, err := ConsumeMessage(typ, b, l)
			if n > 0 && err == nil {
				r.Logs = append(r.Logs, l)
			}
			return n, err
		}
		return -1, nil
	})
}

// Marshal Account
func (acc *Account) Marshal() []byte {
	var b []byte
	b = AppendVarint(b, 1, int64(acc.Currency))
	b = AppendVarint(b, 2, acc.Balance)
	b = AppendVarint(b, 3, acc.Frozen)
	b = AppendString(b, 4, acc.Addr)
	return b
}

// Unmarshal Account
func (acc *Account) Unmarshal(data []byte) error {
	*acc = Account{}
	return ConsumeFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return ConsumeInt32(typ, b, &acc.Currency)
		case 2:
			return ConsumeVarint(typ, b, &acc.Balance)
		case 3:
			return ConsumeVarint(typ, b, &acc.Frozen)
		case 4:
			return ConsumeString(typ, b, &acc.Addr)
		}
		return -1, nil
	})
}

// Marshal ReceiptAccountTransfer
func (r *ReceiptAccountTransfer) Marshal() []byte {
	var b []byte
	if r.Prev != nil {
		b = AppendMessage(b, 1, r.Prev.Marshal())
	}
	if r.Current != nil {
		b = AppendMessage(b, 2, r.Current.Marshal())
	}
	return b
}

// Unmarshal ReceiptAccountTransfer
func (r *ReceiptAccountTransfer) Unmarshal(data []byte) error {
	*r = ReceiptAccountTransfer{}
	return ConsumeFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			r.Prev = &Account{}
			return ConsumeMessage(typ, b, r.Prev)
		case 2:
			r.Current = &Account{}
			return ConsumeMessage(typ, b, r.Current)
		}
		return -1, nil
	})
}

// Marshal ReqBalance
func (req *ReqBalance) Marshal() []byte {
	var b []byte
	for _, addr := range req.Addresses {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendString(b, addr)
	}
	b = AppendString(b, 2, req.Asset)
	return b
}

// Unmarshal ReqBalance
func (req *ReqBalance) Unmarshal(data []byte) error {
	*req = ReqBalance{}
	return ConsumeFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			var addr string
			n, err := ConsumeString(typ, b, &addr)
			if n > 0 && err == nil {
				req.Addresses = append(req.Addresses, addr)
			}
			return n, err
		case 2:
			return ConsumeString(typ, b, &req.Asset)
		}
		return -1, nil
	})
}

// Marshal ReplyHeight
func (r *ReplyHeight) Marshal() []byte {
	return AppendVarint(nil, 1, r.Height)
}

// Unmarshal ReplyHeight
func (r *ReplyHeight) Unmarshal(data []byte) error {
	*r = ReplyHeight{}
	return ConsumeFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			return ConsumeVarint(typ, b, &r.Height)
		}
		return -1, nil
	})
}

// Marshal Signature
func (sig *Signature) Marshal() []byte {
	var b []byte
	b = AppendVarint(b, 1, int64(sig.Ty))
	b = AppendBytes(b, 2, sig.Pubkey)
	b = AppendBytes(b, 3, sig.Signature)
	return b
}

// Unmarshal Signature
func (sig *Signature) Unmarshal(data []byte) error {
	*sig = Signature{}
	return ConsumeFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return ConsumeInt32(typ, b, &sig.Ty)
		case 2:
			return ConsumeBytes(typ, b, &sig.Pubkey)
		case 3:
			return ConsumeBytes(typ, b, &sig.Signature)
		}
		return -1, nil
	})
}

// Marshal Transaction
func (tx *Transaction) Marshal() []byte {
	var b []byte
	b = AppendBytes(b, 1, tx.Execer)
	b = AppendBytes(b, 2, tx.Payload)
	if tx.Signature != nil {
		b = AppendMessage(b, 3, tx.Signature.Marshal())
	}
	b = AppendString(b, 6, tx.Nonce)
	return b
}

// Unmarshal Transaction
func (tx *Transaction) Unmarshal(data []byte) error {
	*tx = Transaction{}
	return ConsumeFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return ConsumeBytes(typ, b, &tx.Execer)
		case 2:
			return ConsumeBytes(typ, b, &tx.Payload)
		case 3:
			tx.Signature = &Signature{}
			return ConsumeMessage(typ, b, tx.Signature)
		case 6:
			return ConsumeString(typ, b, &tx.Nonce)
		}
		return -1, nil
	})
}
