// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commands

import (
	"fmt"

	"github.com/33cn/rps/common"
	"github.com/33cn/rps/metrics"
	"github.com/33cn/rps/types"
	"github.com/spf13/cobra"
)

// ChainCmd 本地账本的 slot
func ChainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chain",
		Short: "Local ledger slots and receipts",
		Args:  cobra.MinimumNArgs(1),
	}
	cmd.AddCommand(
		HeightCmd(),
		AdvanceCmd(),
		ReceiptCmd(),
		StatCmd(),
	)
	return cmd
}

// HeightCmd current slot
func HeightCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "height",
		Short: "Get the latest executed slot",
		Run:   height,
	}
	return cmd
}

func height(cmd *cobra.Command, args []string) {
	exec, err := openLedger(cmd)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return
	}
	defer exec.Close()
	printJSON(cmd.OutOrStdout(), &types.ReplyHeight{Height: exec.Height()})
}

// AdvanceCmd skip idle slots
func AdvanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "advance",
		Short: "Advance the ledger by n idle slots",
		Run:   advance,
	}
	cmd.Flags().Int64P("slots", "n", 1, "number of slots")
	return cmd
}

func advance(cmd *cobra.Command, args []string) {
	n, _ := cmd.Flags().GetInt64("slots")
	exec, err := openLedger(cmd)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return
	}
	defer exec.Close()
	h, err := exec.AdvanceSlots(n)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return
	}
	printJSON(cmd.OutOrStdout(), &types.ReplyHeight{Height: h})
}

// ReceiptCmd query tx receipt
func ReceiptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "receipt",
		Short: "Get the receipt of an executed transaction",
		Run:   receipt,
	}
	cmd.Flags().StringP("hash", "t", "", "transaction hash")
	cmd.MarkFlagRequired("hash")
	return cmd
}

func receipt(cmd *cobra.Command, args []string) {
	hash, _ := cmd.Flags().GetString("hash")
	bhash, err := common.FromHex(hash)
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
	r, err := exec.GetReceipt(bhash)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return
	}
	printJSON(cmd.OutOrStdout(), r)
}

// StatCmd 账本的累计执行统计，需要开启 metrics
func StatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stat",
		Short: "Print execution metrics kept in the ledger",
		Run:   stat,
	}
	return cmd
}

func stat(cmd *cobra.Command, args []string) {
	exec, err := openLedger(cmd)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return
	}
	defer exec.Close()
	if !exec.KeepStat() {
		fmt.Fprintln(cmd.ErrOrStderr(), "metrics is not enabled, set enableMetrics in [metrics]")
		return
	}
	metrics.WriteOnce(cmd.OutOrStdout())
}
