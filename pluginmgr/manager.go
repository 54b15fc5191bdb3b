// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pluginmgr

import (
	"sort"
	"sync"

	log "github.com/33cn/rps/common/log"
	"github.com/33cn/rps/types"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	mgrlog      = log.New("module", "plugin.manager")
	mu          sync.RWMutex
	pluginItems = make(map[string]Plugin)
)

// Register 注册插件，同名插件重复注册会 panic
func Register(p Plugin) {
	if p == nil {
		panic("plugin param is nil")
	}
	packageName := p.GetName()
	if len(packageName) == 0 {
		panic("plugin package name is empty")
	}
	mu.Lock()
	defer mu.Unlock()
	if _, ok := pluginItems[packageName]; ok {
		panic("execute plugin item is existed. name = " + packageName)
	}
	pluginItems[packageName] = p
}

// InitExec 初始化所有插件的执行器，可以多次调用，每次按传入的配置重新初始化
func InitExec(sub *types.ConfigSubModule) error {
	var exec map[string][]byte
	if sub != nil {
		exec = sub.Exec
	}
	for _, item := range sorted() {
		if err := item.InitExec(exec); err != nil {
			mgrlog.Error("InitExec", "plugin", item.GetName(), "err", err)
			return errors.Wrapf(err, "init exec %s", item.GetExecutorName())
		}
	}
	return nil
}

// HasExec 是否有插件提供了执行器 name
func HasExec(name string) bool {
	mu.RLock()
	defer mu.RUnlock()
	for _, item := range pluginItems {
		if item.GetExecutorName() == name {
			return true
		}
	}
	return false
}

// AddCmd 添加所有插件的命令行
func AddCmd(rootCmd *cobra.Command) {
	for _, item := range sorted() {
		item.AddCmd(rootCmd)
	}
}

func sorted() []Plugin {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(pluginItems))
	for name := range pluginItems {
		names = append(names, name)
	}
	sort.Strings(names)
	items := make([]Plugin, 0, len(names))
	for _, name := range names {
		items = append(items, pluginItems[name])
	}
	return items
}
