// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import (
	"google.golang.org/protobuf/encoding/protowire"
)

// ProtoMessage 按 protobuf wire 格式编解码的消息
type ProtoMessage interface {
	Marshal() []byte
	Unmarshal(data []byte) error
}

// AppendString 空字符串不写入
func AppendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

// AppendBytes 空数据不写入
func AppendBytes(b []byte, num protowire.Number, v []byte) []byte {
	if len(v) == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

// AppendVarint 0 不写入
func AppendVarint(b []byte, num protowire.Number, v int64) []byte {
	if v == 0 {
		return b
	}
	return AppendVarintAlways(b, num, v)
}

// AppendVarintAlways 0 也写入
func AppendVarintAlways(b []byte, num protowire.Number, v int64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(v))
}

// AppendBool false 不写入
func AppendBool(b []byte, num protowire.Number, v bool) []byte {
	if !v {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, protowire.EncodeBool(v))
}

// AppendMessage 嵌套消息，长度为0也写入
func AppendMessage(b []byte, num protowire.Number, msg []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, msg)
}

// ConsumeFields 依次处理每个字段，f 返回消耗的字节数，返回 -1 表示跳过该字段
func ConsumeFields(b []byte, f func(num protowire.Number, typ protowire.Type, b []byte) (int, error)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		n, err := f(num, typ, b)
		if err != nil {
			return err
		}
		if n < 0 {
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return protowire.ParseError(n)
			}
		}
		b = b[n:]
	}
	return nil
}

// ConsumeString 读取字符串字段
func ConsumeString(typ protowire.Type, b []byte, v *string) (int, error) {
	if typ != protowire.BytesType {
		return -1, nil
	}
	s, n := protowire.ConsumeString(b)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	*v = s
	return n, nil
}

// ConsumeBytes 读取 bytes 字段，返回的数据是拷贝
func ConsumeBytes(typ protowire.Type, b []byte, v *[]byte) (int, error) {
	if typ != protowire.BytesType {
		return -1, nil
	}
	s, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	*v = append([]byte{}, s...)
	return n, nil
}

// ConsumeVarint 读取整数字段
func ConsumeVarint(typ protowire.Type, b []byte, v *int64) (int, error) {
	if typ != protowire.VarintType {
		return -1, nil
	}
	x, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	*v = int64(x)
	return n, nil
}

// ConsumeInt32 读取 int32 字段
func ConsumeInt32(typ protowire.Type, b []byte, v *int32) (int, error) {
	var x int64
	n, err := ConsumeVarint(typ, b, &x)
	if n < 0 || err != nil {
		return n, err
	}
	*v = int32(x)
	return n, nil
}

// ConsumeBool 读取 bool 字段
func ConsumeBool(typ protowire.Type, b []byte, v *bool) (int, error) {
	var x int64
	n, err := ConsumeVarint(typ, b, &x)
	if n < 0 || err != nil {
		return n, err
	}
	*v = protowire.DecodeBool(uint64(x))
	return n, nil
}

// ConsumeMessage 读取嵌套消息
func ConsumeMessage(typ protowire.Type, b []byte, msg ProtoMessage) (int, error) {
	var data []byte
	n, err := ConsumeBytes(typ, b, &data)
	if n < 0 || err != nil {
		return n, err
	}
	return n, msg.Unmarshal(data)
}
