// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executor

import (
	"github.com/33cn/rps/account"
	dbm "github.com/33cn/rps/common/db"
	rt "github.com/33cn/rps/system/dapp/rps/types"
	"github.com/33cn/rps/types"
	"github.com/pkg/errors"
)

// escrow 每局游戏独立的托管账户，押注转入，结算时转出
// 所有转账只写入状态数据库的内存事务，交易失败时由执行器整体回滚
type escrow struct {
	acc  *account.DB
	addr string
}

func newEscrow(db dbm.KV, gameID, asset string) (*escrow, error) {
	acc, err := account.NewAccountDBByAsset(asset, db)
	if err != nil {
		return nil, errors.Wrapf(err, "escrow asset %s", asset)
	}
	return &escrow{acc: acc, addr: rt.EscrowAddress(gameID)}, nil
}

func (e *escrow) balance() int64 {
	return e.acc.LoadAccount(e.addr).GetBalance()
}

func (e *escrow) deposit(from string, amount int64) (*types.Receipt, error) {
	receipt, err := e.acc.Transfer(from, e.addr, amount)
	if err != nil {
		return nil, errors.Wrapf(err, "deposit %d from %s", amount, from)
	}
	return receipt, nil
}

func (e *escrow) disburse(payouts []rt.Payout) ([]*types.Receipt, error) {
	var receipts []*types.Receipt
	for _, p := range payouts {
		receipt, err := e.acc.Transfer(e.addr, p.Addr, p.Amount)
		if err != nil {
			return nil, errors.Wrapf(err, "payout %d to %s", p.Amount, p.Addr)
		}
		receipts = append(receipts, receipt)
	}
	return receipts, nil
}

// expect 转账之后托管账户的余额必须等于预期
func (e *escrow) expect(amount int64) error {
	if b := e.balance(); b != amount {
		return errors.Wrapf(rt.ErrEscrowBalance, "escrow %s balance %d, expect %d", e.addr, b, amount)
	}
	return nil
}
