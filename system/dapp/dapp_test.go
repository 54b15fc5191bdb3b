// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dapp

import (
	"testing"

	dbm "github.com/33cn/rps/common/db"
	"github.com/33cn/rps/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echo struct {
	DriverBase
}

func newEcho() Driver {
	e := &echo{}
	e.SetChild(e)
	return e
}

func (e *echo) GetDriverName() string {
	return "echo"
}

func TestRegisterAndLoad(t *testing.T) {
	Register("echo", newEcho, 10)

	_, err := LoadDriver("echo", 9)
	assert.Equal(t, types.ErrUnknowDriver, err)
	_, err = LoadDriver("nothing", 100)
	assert.Equal(t, types.ErrUnRegistedDriver, err)

	d, err := LoadDriver("echo", 10)
	require.Nil(t, err)
	assert.Equal(t, "echo", d.GetName())
	assert.Equal(t, "echo", d.GetDriverName())
	_, err = LoadDriver("echo", -1)
	require.Nil(t, err)

	assert.True(t, IsDriverAddress(ExecAddress("echo"), 10))
	assert.False(t, IsDriverAddress(ExecAddress("echo"), 9))
	assert.Contains(t, DriverNames(), "echo")

	// 再次注册覆盖启用高度
	Register("echo", newEcho, 0)
	_, err = LoadDriver("echo", 0)
	require.Nil(t, err)
}

func TestDriverBaseDefaults(t *testing.T) {
	d := newEcho().(*echo)
	d.SetEnv(5, 1000)
	assert.Equal(t, int64(5), d.GetHeight())
	assert.Equal(t, int64(1000), d.GetBlockTime())
	assert.Equal(t, "echo", d.GetName())
	d.SetName("echo2")
	assert.Equal(t, "echo2", d.GetName())
	assert.Equal(t, ExecAddress("echo2"), d.GetExecAddress())

	tx := types.NewTransaction("echo", &types.ReplyHeight{Height: 1})
	assert.Nil(t, d.CheckTx(tx, 0))
	_, err := d.Exec(tx, 0)
	assert.Equal(t, types.ErrActionNotSupport, err)
	set, err := d.ExecLocal(tx, &types.ReceiptData{}, 0)
	require.Nil(t, err)
	assert.Empty(t, set.KV)
	_, err = d.Query("Anything", nil)
	assert.Equal(t, types.ErrQueryNotSupport, err)
}

func TestDriverBaseAccount(t *testing.T) {
	db, err := dbm.NewGoMemDB("state", "", 0)
	require.Nil(t, err)
	d := newEcho().(*echo)
	d.SetStateDB(db)
	assert.Equal(t, db, d.GetStateDB())

	acc, err := d.GetAccount("coins.bty")
	require.Nil(t, err)
	assert.Equal(t, "coins.bty", acc.Asset())
	_, err = d.GetAccount("bty")
	assert.NotNil(t, err)
}

func TestHeightIndexAndKVCreator(t *testing.T) {
	assert.Equal(t, int64(2*types.MaxTxsPerBlock+3), HeightIndex(2, 3))
	assert.Equal(t, "000000000000200003", HeightIndexStr(2, 3))

	db, err := dbm.NewGoMemDB("kv", "", 0)
	require.Nil(t, err)
	c := NewKVCreator(db)
	c.Add([]byte("a"), []byte("1")).AddKV([]byte("b"), []byte("2"))
	c.AddList([]*types.KeyValue{{Key: []byte("c"), Value: []byte("3")}})
	assert.Len(t, c.KVList(), 3)

	v, err := db.Get([]byte("a"))
	require.Nil(t, err)
	assert.Equal(t, []byte("1"), v)
	_, err = db.Get([]byte("b"))
	assert.NotNil(t, err)
}
