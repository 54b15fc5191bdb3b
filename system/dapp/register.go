// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dapp

import (
	"sort"
	"sync"

	"github.com/33cn/rps/common/address"
	log "github.com/33cn/rps/common/log"
	"github.com/33cn/rps/types"
)

var elog = log.New("module", "execs")

// DriverCreate defines a drivercreate function
type DriverCreate func() Driver

type driverWithHeight struct {
	create DriverCreate
	height int64
}

var (
	mu                 sync.RWMutex
	execDrivers        = make(map[string]*driverWithHeight)
	registedExecDriver = make(map[string]*driverWithHeight)
)

// Register register driver height in name
// 重复注册同一个名字时覆盖旧的驱动，执行器按新的配置重新初始化时会走到这里
func Register(name string, create DriverCreate, height int64) {
	if len(name) == 0 {
		panic("Execute: Register empty driver name")
	}
	if create == nil {
		panic("Execute: Register driver is nil")
	}
	mu.Lock()
	defer mu.Unlock()
	if _, dup := registedExecDriver[name]; dup {
		elog.Debug("Register driver again", "driver", name)
	}
	driverHeight := &driverWithHeight{
		create: create,
		height: height,
	}
	registedExecDriver[name] = driverHeight
	execDrivers[ExecAddress(name)] = driverHeight
}

// LoadDriver load driver, height 为 -1 时不检查启用高度
func LoadDriver(name string, height int64) (driver Driver, err error) {
	mu.RLock()
	c, ok := registedExecDriver[name]
	mu.RUnlock()
	if !ok {
		elog.Debug("LoadDriver", "driver", name)
		return nil, types.ErrUnRegistedDriver
	}
	if height >= c.height || height == -1 {
		driver = c.create()
		driver.SetName(name)
		return driver, nil
	}
	return nil, types.ErrUnknowDriver
}

// IsDriverAddress whether or not execdrivers by address
func IsDriverAddress(addr string, height int64) bool {
	mu.RLock()
	c, ok := execDrivers[addr]
	mu.RUnlock()
	if !ok {
		return false
	}
	return height >= c.height || height == -1
}

// DriverNames 已注册的执行器名称，按字母排序
func DriverNames() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registedExecDriver))
	for name := range registedExecDriver {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ExecAddress return exec address
func ExecAddress(name string) string {
	return address.ExecAddress(name)
}
