// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package local

import (
	"testing"

	comdb "github.com/33cn/rps/common/db"
	"github.com/stretchr/testify/require"
)

func newMainDB(t *testing.T) comdb.DB {
	maindb, err := comdb.NewGoMemDB("main", "", 0)
	require.Nil(t, err)
	return maindb
}

func TestLocalDBGetSet(t *testing.T) {
	maindb := newMainDB(t)
	maindb.Set([]byte("k1"), []byte("main"))
	db := NewLocalDB(maindb, false)

	v, err := db.Get([]byte("k1"))
	require.Nil(t, err)
	require.Equal(t, []byte("main"), v)

	require.Nil(t, db.Set([]byte("k1"), []byte("cache")))
	v, err = db.Get([]byte("k1"))
	require.Nil(t, err)
	require.Equal(t, []byte("cache"), v)
	// main db untouched
	v, err = maindb.Get([]byte("k1"))
	require.Nil(t, err)
	require.Equal(t, []byte("main"), v)

	require.Nil(t, db.Set([]byte("k1"), nil))
	_, err = db.Get([]byte("k1"))
	require.Equal(t, comdb.ErrNotFoundInDb, err)

	_, err = db.Get([]byte("k2"))
	require.Equal(t, comdb.ErrNotFoundInDb, err)
}

func TestLocalDBTx(t *testing.T) {
	db := NewLocalDB(newMainDB(t), false)
	db.Begin()
	require.Nil(t, db.Set([]byte("a"), []byte("1")))
	v, err := db.Get([]byte("a"))
	require.Nil(t, err)
	require.Equal(t, []byte("1"), v)
	db.Rollback()
	_, err = db.Get([]byte("a"))
	require.Equal(t, comdb.ErrNotFoundInDb, err)

	db.Begin()
	require.Nil(t, db.Set([]byte("a"), []byte("2")))
	require.Nil(t, db.Commit())
	v, err = db.Get([]byte("a"))
	require.Nil(t, err)
	require.Equal(t, []byte("2"), v)

	db.Begin()
	require.Nil(t, db.Set([]byte("a"), nil))
	require.Nil(t, db.Commit())
	_, err = db.Get([]byte("a"))
	require.Equal(t, comdb.ErrNotFoundInDb, err)

	// commit without writes
	db.Begin()
	require.Nil(t, db.Commit())
}

func TestLocalDBReadOnly(t *testing.T) {
	maindb := newMainDB(t)
	maindb.Set([]byte("k"), []byte("v"))
	db := NewLocalDB(maindb, true)
	v, err := db.Get([]byte("k"))
	require.Nil(t, err)
	require.Equal(t, []byte("v"), v)
	require.Panics(t, func() { db.Set([]byte("k"), nil) })
}

func TestLocalDBList(t *testing.T) {
	maindb := newMainDB(t)
	maindb.Set([]byte("game:1"), []byte("v1"))
	maindb.Set([]byte("game:2"), []byte("v2"))
	maindb.Set([]byte("game:3"), []byte("v3"))
	maindb.Set([]byte("other:1"), []byte("o1"))
	db := NewLocalDB(maindb, true)

	values, err := db.List([]byte("game:"), nil, 0, comdb.ListASC)
	require.Nil(t, err)
	require.Equal(t, [][]byte{[]byte("v1"), []byte("v2"), []byte("v3")}, values)

	values, err = db.List([]byte("game:"), []byte("game:3"), 1, comdb.ListDESC)
	require.Nil(t, err)
	require.Equal(t, [][]byte{[]byte("v2")}, values)

	_, err = db.List([]byte("none:"), nil, 0, comdb.ListASC)
	require.Equal(t, comdb.ErrNotFoundInDb, err)
	require.Equal(t, int64(3), db.PrefixCount([]byte("game:")))
}
