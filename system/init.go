// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package system 注册系统内置的插件
package system

import (
	_ "github.com/33cn/rps/common/crypto/secp256k1" //register crypto
	_ "github.com/33cn/rps/system/dapp/rps"         //register rps plugin
)
