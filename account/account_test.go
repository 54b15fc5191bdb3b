// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package account

import (
	"testing"

	"github.com/33cn/rps/common/db"
	"github.com/33cn/rps/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	addr1 = "14ZTV2wHG3uPHnA5cBJmNxAxxvbzS7Z5mE"
	addr2 = "24ZTV2wHG3uPHnA5cBJmNxAxxvbzS7Z5mE"
	addr3 = "34ZTV2wHG3uPHnA5cBJmNxAxxvbzS7Z5mE"
	addr4 = "44ZTV2wHG3uPHnA5cBJmNxAxxvbzS7Z5mE"
)

func GenerAccDb(t *testing.T) (*DB, *DB) {
	//构造账户数据库
	stroedb, _ := db.NewGoMemDB("gomemdb", "test", 128)
	accCoin, err := NewAccountDBByAsset("coins.bty", stroedb)
	require.Nil(t, err)

	stroedb2, _ := db.NewGoMemDB("gomemdb", "test", 128)
	accToken, err := NewAccountDB("token", "test", stroedb2)
	require.Nil(t, err)
	return accCoin, accToken
}

func (acc *DB) GenerAccData() {
	// 加入账户
	account := &types.Account{
		Balance: 1000 * 1e8,
		Addr:    addr1,
	}
	acc.SaveAccount(account)

	account.Balance = 900 * 1e8
	account.Addr = addr2
	acc.SaveAccount(account)

	account.Balance = 800 * 1e8
	account.Addr = addr3
	acc.SaveAccount(account)

	account.Balance = 700 * 1e8
	account.Addr = addr4
	acc.SaveAccount(account)
}

func TestNewAccountDB(t *testing.T) {
	_, err := NewAccountDB("co-ins", "bty", nil)
	assert.Equal(t, types.ErrExecNameNotAllow, err)
	_, err = NewAccountDB("coins", "b-ty", nil)
	assert.Equal(t, types.ErrSymbolNameNotAllow, err)
	_, err = NewAccountDBByAsset("coins", nil)
	assert.Equal(t, types.ErrInvalidParam, err)
	_, err = NewAccountDBByAsset("coins.", nil)
	assert.Equal(t, types.ErrInvalidParam, err)

	acc, err := NewAccountDBByAsset("coins.bty", nil)
	require.Nil(t, err)
	assert.Equal(t, "coins.bty", acc.Asset())
	assert.Equal(t, []byte("mavl-coins-bty-"+addr1), acc.AccountKey(addr1))
}

func TestCheckTransfer(t *testing.T) {
	accCoin, tokenCoin := GenerAccDb(t)
	accCoin.GenerAccData()
	tokenCoin.GenerAccData()

	require.NoError(t, accCoin.CheckTransfer(addr1, addr2, 10*1e8))
	require.NoError(t, tokenCoin.CheckTransfer(addr3, addr4, 10*1e8))
	require.Equal(t, types.ErrNoBalance, accCoin.CheckTransfer(addr4, addr1, 701*1e8))
	require.Equal(t, types.ErrAmount, accCoin.CheckTransfer(addr1, addr2, 0))
	require.Equal(t, types.ErrSendSameToRecv, accCoin.CheckTransfer(addr1, addr1, 1))
}

func TestTransfer(t *testing.T) {
	accCoin, tokenCoin := GenerAccDb(t)
	accCoin.GenerAccData()
	tokenCoin.GenerAccData()

	receipt, err := accCoin.Transfer(addr1, addr2, 10*1e8)
	require.NoError(t, err)
	require.Equal(t, int32(types.ExecOk), receipt.Ty)
	require.Len(t, receipt.KV, 2)
	require.Len(t, receipt.Logs, 2)
	require.Equal(t, int64(990*1e8), accCoin.LoadAccount(addr1).Balance)
	require.Equal(t, int64(910*1e8), accCoin.LoadAccount(addr2).Balance)

	var log1 types.ReceiptAccountTransfer
	require.Nil(t, types.Decode(receipt.Logs[0].Log, &log1))
	require.Equal(t, int64(1000*1e8), log1.Prev.Balance)
	require.Equal(t, int64(990*1e8), log1.Current.Balance)

	_, err = tokenCoin.Transfer(addr3, addr4, 801*1e8)
	require.Equal(t, types.ErrNoBalance, err)
	require.Equal(t, int64(800*1e8), tokenCoin.LoadAccount(addr3).Balance)
	require.Equal(t, int64(700*1e8), tokenCoin.LoadAccount(addr4).Balance)

	_, err = accCoin.Transfer(addr1, addr1, 1)
	require.Equal(t, types.ErrSendSameToRecv, err)
	// unknown account loads as empty
	require.Equal(t, int64(0), accCoin.LoadAccount("1NLHPEcbTWWxxU3dGUZBhayjrCHD3psX7k").Balance)
}

func TestGenesisInit(t *testing.T) {
	accCoin, _ := GenerAccDb(t)
	receipt, err := accCoin.GenesisInit(addr1, 100*1e8)
	require.NoError(t, err)
	require.Equal(t, int32(types.TyLogGenesisTransfer), receipt.Logs[0].Ty)
	require.Equal(t, int64(100*1e8), accCoin.LoadAccount(addr1).Balance)

	_, err = accCoin.GenesisInit(addr1, types.MaxCoin-1)
	require.Equal(t, types.ErrAmount, err)
	_, err = accCoin.GenesisInit(addr1, -1)
	require.Equal(t, types.ErrAmount, err)

	accs := accCoin.LoadAccounts([]string{addr1, addr2})
	require.Len(t, accs, 2)
	require.Equal(t, int64(0), accs[1].Balance)
}
