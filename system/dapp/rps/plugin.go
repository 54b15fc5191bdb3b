// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rps 石头剪刀布插件: 承诺-揭示的对局状态机以及押注托管结算
package rps

import (
	"github.com/33cn/rps/pluginmgr"
	"github.com/33cn/rps/system/dapp/rps/commands"
	"github.com/33cn/rps/system/dapp/rps/executor"
	rt "github.com/33cn/rps/system/dapp/rps/types"
)

func init() {
	pluginmgr.Register(&pluginmgr.PluginBase{
		Name:     rt.PackageName,
		ExecName: rt.RpsX,
		Exec:     executor.Init,
		Cmd:      commands.RpsCmd,
	})
}
