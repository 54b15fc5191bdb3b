// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commands

import (
	"fmt"

	"github.com/33cn/rps/common"
	"github.com/33cn/rps/common/address"
	"github.com/33cn/rps/common/crypto"
	"github.com/33cn/rps/common/crypto/secp256k1"
	"github.com/33cn/rps/types"
	"github.com/spf13/cobra"
)

// AccountCmd account command
func AccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Account management",
		Args:  cobra.MinimumNArgs(1),
	}
	cmd.AddCommand(
		GenKeyCmd(),
		BalanceCmd(),
		FaucetCmd(),
	)
	return cmd
}

// GenKeyCmd generate a new private key
func GenKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "genkey",
		Short: "Generate a secp256k1 private key and its address",
		Run:   genKey,
	}
	return cmd
}

type keyResult struct {
	PrivKey string `json:"privkey"`
	PubKey  string `json:"pubkey"`
	Addr    string `json:"addr"`
}

func genKey(cmd *cobra.Command, args []string) {
	c, err := crypto.New(secp256k1.Name)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return
	}
	priv, err := c.GenKey()
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return
	}
	pub := priv.PubKey().Bytes()
	printJSON(cmd.OutOrStdout(), &keyResult{
		PrivKey: common.ToHex(priv.Bytes()),
		PubKey:  common.ToHex(pub),
		Addr:    address.PubKeyToAddr(pub),
	})
}

// BalanceCmd query balance
func BalanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Get balance of addresses",
		Run:   balance,
	}
	addBalanceFlags(cmd)
	return cmd
}

func addBalanceFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceP("addr", "a", nil, "account addresses")
	cmd.MarkFlagRequired("addr")
	cmd.Flags().StringP("asset", "s", "coins.bty", "asset, exec.symbol")
}

type accountResult struct {
	Addr    string `json:"addr"`
	Asset   string `json:"asset"`
	Balance string `json:"balance"`
}

func balance(cmd *cobra.Command, args []string) {
	addrs, _ := cmd.Flags().GetStringSlice("addr")
	asset, _ := cmd.Flags().GetString("asset")
	exec, err := openLedger(cmd)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return
	}
	defer exec.Close()
	accs, err := exec.GetBalance(&types.ReqBalance{Addresses: addrs, Asset: asset})
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return
	}
	var result []*accountResult
	for _, acc := range accs {
		result = append(result, &accountResult{Addr: acc.Addr, Asset: asset, Balance: FormatAmount(acc.Balance)})
	}
	printJSON(cmd.OutOrStdout(), result)
}

// FaucetCmd 开发环境下给地址发放资产
func FaucetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "faucet",
		Short: "Issue genesis funds to an address (local ledger only)",
		Run:   faucet,
	}
	addFaucetFlags(cmd)
	return cmd
}

func addFaucetFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("addr", "a", "", "receiver address")
	cmd.MarkFlagRequired("addr")
	cmd.Flags().StringP("amount", "m", "", "amount, e.g. 100 or 0.5")
	cmd.MarkFlagRequired("amount")
	cmd.Flags().StringP("asset", "s", "coins.bty", "asset, exec.symbol")
}

func faucet(cmd *cobra.Command, args []string) {
	addr, _ := cmd.Flags().GetString("addr")
	amountStr, _ := cmd.Flags().GetString("amount")
	asset, _ := cmd.Flags().GetString("asset")
	amount, err := ParseAmount(amountStr)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return
	}
	exec, err := openLedger(cmd)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return
	}
	defer exec.Close()
	if _, err := exec.Genesis(asset, addr, amount); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return
	}
	printJSON(cmd.OutOrStdout(), &accountResult{Addr: addr, Asset: asset, Balance: FormatAmount(amount)})
}
