// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

import "errors"

var (
	ErrNotFound             = errors.New("ErrNotFound")
	ErrNoBalance            = errors.New("ErrNoBalance")
	ErrAmount               = errors.New("ErrAmount")
	ErrSendSameToRecv       = errors.New("ErrSendSameToRecv")
	ErrExecNameNotAllow     = errors.New("ErrExecNameNotAllow")
	ErrSymbolNameNotAllow   = errors.New("ErrSymbolNameNotAllow")
	ErrInvalidParam         = errors.New("ErrInvalidParam")
	ErrActionNotSupport     = errors.New("ErrActionNotSupport")
	ErrQueryNotSupport      = errors.New("ErrQueryNotSupport")
	ErrUnRegistedDriver     = errors.New("ErrUnRegistedDriver")
	ErrSign                 = errors.New("ErrSign")
	ErrTxMsgSizeTooBig      = errors.New("ErrTxMsgSizeTooBig")
	ErrEmpty                = errors.New("ErrEmpty")
	ErrDecode               = errors.New("ErrDecode")
	ErrHeightOverflow       = errors.New("ErrHeightOverflow")
	ErrReceiptNotFound      = errors.New("ErrReceiptNotFound")
	ErrAccountExist         = errors.New("ErrAccountExist")
	ErrGenesisNotAllow      = errors.New("ErrGenesisNotAllow")
	ErrInvalidAddress       = errors.New("ErrInvalidAddress")
	ErrStoreDriverNotFound  = errors.New("ErrStoreDriverNotFound")
	ErrConfigSubNotFound    = errors.New("ErrConfigSubNotFound")
	ErrUnknownLogLevel      = errors.New("ErrUnknownLogLevel")
	ErrDriverAlreadyRegistd = errors.New("ErrDriverAlreadyRegistd")
	ErrUnknowDriver         = errors.New("ErrUnknowDriver")
	ErrNotAllowMemSetKey    = errors.New("ErrNotAllowMemSetKey")
	ErrNotAllowKey          = errors.New("ErrNotAllowKey")
	ErrLocalPrefix          = errors.New("ErrLocalPrefix")
)
