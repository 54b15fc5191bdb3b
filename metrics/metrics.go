// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package metrics 执行器运行统计，基于 go-metrics
package metrics

import (
	"io"
	"sort"
	"time"

	rpslog "github.com/33cn/rps/common/log"
	"github.com/33cn/rps/types"
	"github.com/pkg/errors"
	go_metrics "github.com/rcrowley/go-metrics"
	"google.golang.org/protobuf/encoding/protowire"
)

var (
	log = rpslog.New("module", "rps metrics")
)

// Registry 执行器统计使用的注册表
var Registry = go_metrics.NewRegistry()

//StartMetrics 根据配置文件相关参数启动，未开启时使用空实现
func StartMetrics(cfg *types.Metrics) {
	if cfg == nil || !cfg.EnableMetrics {
		log.Info("Metrics data is not enabled to emit")
		go_metrics.UseNilMetrics = true
		return
	}
	go_metrics.UseNilMetrics = false
}

// Mark 记录一次 action 执行
func Mark(name string) {
	go_metrics.GetOrRegisterMeter("exec."+name, Registry).Mark(1)
}

// Inc 计数器加一，比如按原因统计的拒绝次数
func Inc(name string) {
	go_metrics.GetOrRegisterCounter(name, Registry).Inc(1)
}

// UpdateSince 记录执行耗时
func UpdateSince(name string, start time.Time) {
	go_metrics.GetOrRegisterTimer(name, Registry).UpdateSince(start)
}

// Count 获取计数器或 meter 的值
func Count(name string) int64 {
	switch m := Registry.Get(name).(type) {
	case go_metrics.Counter:
		return m.Count()
	case go_metrics.Meter:
		return m.Count()
	}
	return 0
}

// WriteOnce 输出当前统计
func WriteOnce(w io.Writer) {
	go_metrics.WriteOnce(Registry, w)
}

// StatKey 账本中保存累计统计的 key
var StatKey = []byte("ledger-Stat")

// KV 保存统计的存储
type KV interface {
	Get(key []byte) ([]byte, error)
	Set(key []byte, value []byte) error
}

const (
	kindCounter = 1
	kindMeter   = 2
)

// stat 一项累计值: 1 name, 2 kind, 3 count
type stat struct {
	name  string
	kind  int64
	count int64
}

func (s *stat) Marshal() []byte {
	var b []byte
	b = types.AppendString(b, 1, s.name)
	b = types.AppendVarint(b, 2, s.kind)
	b = types.AppendVarint(b, 3, s.count)
	return b
}

func (s *stat) Unmarshal(data []byte) error {
	*s = stat{}
	return types.ConsumeFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return types.ConsumeString(typ, b, &s.name)
		case 2:
			return types.ConsumeVarint(typ, b, &s.kind)
		case 3:
			return types.ConsumeVarint(typ, b, &s.count)
		}
		return -1, nil
	})
}

// Persist 保存计数器和 meter 的累计值，耗时统计只在本进程内有效
func Persist(db KV) error {
	var stats []*stat
	Registry.Each(func(name string, i interface{}) {
		switch m := i.(type) {
		case go_metrics.Counter:
			stats = append(stats, &stat{name: name, kind: kindCounter, count: m.Count()})
		case go_metrics.Meter:
			stats = append(stats, &stat{name: name, kind: kindMeter, count: m.Count()})
		}
	})
	sort.Slice(stats, func(i, j int) bool { return stats[i].name < stats[j].name })
	var b []byte
	for _, s := range stats {
		b = types.AppendMessage(b, 1, s.Marshal())
	}
	return db.Set(StatKey, b)
}

// Restore 用账本中保存的累计值替换当前注册表
func Restore(db KV) error {
	Registry.UnregisterAll()
	data, err := db.Get(StatKey)
	if err != nil || len(data) == 0 {
		return nil
	}
	var stats []*stat
	err = types.ConsumeFields(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num != 1 {
			return -1, nil
		}
		s := &stat{}
		n, err := types.ConsumeMessage(typ, b, s)
		if n > 0 && err == nil {
			stats = append(stats, s)
		}
		return n, err
	})
	if err != nil {
		return errors.Wrap(err, "decode stat")
	}
	for _, s := range stats {
		switch s.kind {
		case kindCounter:
			go_metrics.GetOrRegisterCounter(s.name, Registry).Inc(s.count)
		case kindMeter:
			go_metrics.GetOrRegisterMeter(s.name, Registry).Mark(s.count)
		}
	}
	log.Debug("Restore", "stats", len(stats))
	return nil
}
