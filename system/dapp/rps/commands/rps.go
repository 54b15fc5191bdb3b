// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package commands rps 命令行: 构造并在本地账本上执行对局交易，查询对局
package commands

import (
	"fmt"

	"github.com/33cn/rps/common"
	rt "github.com/33cn/rps/system/dapp/rps/types"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// RpsCmd rps command
func RpsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Rock-paper-scissors game management",
		Args:  cobra.MinimumNArgs(1),
	}
	cmd.AddCommand(
		CommitCmd(),
		CreateCmd(),
		JoinCmd(),
		RevealCmd(),
		ExpireCmd(),
		CancelCmd(),
		ShowCmd(),
		ListCmd(),
		CountCmd(),
		EscrowCmd(),
	)
	return cmd
}

// CommitCmd 计算承诺
func CommitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Compute the commitment of a choice",
		Run:   commit,
	}
	addChoiceSaltFlags(cmd)
	cmd.Flags().StringP("addr", "a", "", "player address, default the address of --key")
	cmd.Flags().StringP("scheme", "m", rt.SchemeKeccak256, "hash scheme: keccak256, sha256, sm3")
	return cmd
}

func addChoiceSaltFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("choice", "c", "", "rock, paper or scissors")
	cmd.MarkFlagRequired("choice")
	cmd.Flags().Uint64P("salt", "s", 0, "secret salt")
	cmd.MarkFlagRequired("salt")
}

func commitment(cmd *cobra.Command, scheme string) ([]byte, error) {
	choiceStr, _ := cmd.Flags().GetString("choice")
	salt, _ := cmd.Flags().GetUint64("salt")
	addr, _ := cmd.Flags().GetString("addr")
	choice, err := rt.ParseChoice(choiceStr)
	if err != nil {
		return nil, err
	}
	if addr == "" {
		_, from, err := loadKey(cmd)
		if err != nil {
			return nil, err
		}
		addr = from
	}
	return rt.Commit(scheme, addr, salt, choice)
}

func commit(cmd *cobra.Command, args []string) {
	scheme, _ := cmd.Flags().GetString("scheme")
	c, err := commitment(cmd, scheme)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return
	}
	fmt.Fprintln(cmd.OutOrStdout(), common.ToHex(c))
}

// CreateCmd create game
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a game with a committed choice and deposit the wager",
		Run:   create,
	}
	addCreateFlags(cmd)
	return cmd
}

func addCreateFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("amount", "m", "", "wager, e.g. 1 or 0.5")
	cmd.MarkFlagRequired("amount")
	cmd.Flags().StringP("commitment", "c", "", "commitment hex, see game commit")
	cmd.MarkFlagRequired("commitment")
	cmd.Flags().StringP("asset", "s", "coins.bty", "asset, exec.symbol")
	cmd.Flags().StringP("proof", "p", "", "entry proof")
}

func create(cmd *cobra.Command, args []string) {
	amountStr, _ := cmd.Flags().GetString("amount")
	commitHex, _ := cmd.Flags().GetString("commitment")
	asset, _ := cmd.Flags().GetString("asset")
	proof, _ := cmd.Flags().GetString("proof")
	amount, err := ParseAmount(amountStr)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return
	}
	c, err := common.FromHex(commitHex)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), errors.Wrap(err, "commitment"))
		return
	}
	var entryProof []byte
	if proof != "" {
		entryProof = []byte(proof)
	}
	sendAction(cmd, &rt.RpsAction{
		Ty: rt.RpsActionCreate,
		Create: &rt.RpsCreate{
			Asset:      asset,
			Wager:      amount,
			Commitment: c,
			EntryProof: entryProof,
		},
	})
}

// JoinCmd join game
func JoinCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "join",
		Short: "Join a game and deposit the same wager",
		Run:   join,
	}
	addGameIDFlag(cmd)
	cmd.Flags().StringP("choice", "c", "", "choice, when the join mode is choice")
	cmd.Flags().StringP("secret", "r", "", "own commitment hex, when the join mode is commit")
	return cmd
}

func addGameIDFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("gameID", "g", "", "game id")
	cmd.MarkFlagRequired("gameID")
}

func join(cmd *cobra.Command, args []string) {
	gameID, _ := cmd.Flags().GetString("gameID")
	choiceStr, _ := cmd.Flags().GetString("choice")
	secretHex, _ := cmd.Flags().GetString("secret")
	j := &rt.RpsJoin{GameID: gameID}
	if choiceStr != "" {
		choice, err := rt.ParseChoice(choiceStr)
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), err)
			return
		}
		j.Choice = &choice
	}
	if secretHex != "" {
		secret, err := common.FromHex(secretHex)
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), errors.Wrap(err, "secret"))
			return
		}
		j.Secret = secret
	}
	sendAction(cmd, &rt.RpsAction{Ty: rt.RpsActionJoin, Join: j})
}

// RevealCmd reveal choice
func RevealCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reveal",
		Short: "Reveal the committed choice and salt",
		Run:   reveal,
	}
	addGameIDFlag(cmd)
	addChoiceSaltFlags(cmd)
	return cmd
}

func reveal(cmd *cobra.Command, args []string) {
	gameID, _ := cmd.Flags().GetString("gameID")
	choiceStr, _ := cmd.Flags().GetString("choice")
	salt, _ := cmd.Flags().GetUint64("salt")
	choice, err := rt.ParseChoice(choiceStr)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return
	}
	sendAction(cmd, &rt.RpsAction{
		Ty:     rt.RpsActionReveal,
		Reveal: &rt.RpsReveal{GameID: gameID, Choice: choice, Salt: salt},
	})
}

// ExpireCmd settle expired game
func ExpireCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expire",
		Short: "Settle a game whose reveal window has closed",
		Run:   expire,
	}
	addGameIDFlag(cmd)
	return cmd
}

func expire(cmd *cobra.Command, args []string) {
	gameID, _ := cmd.Flags().GetString("gameID")
	sendAction(cmd, &rt.RpsAction{Ty: rt.RpsActionExpire, Expire: &rt.RpsExpire{GameID: gameID}})
}

// CancelCmd cancel game
func CancelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cancel",
		Short: "Cancel a game nobody joined and take back the wager",
		Run:   cancel,
	}
	addGameIDFlag(cmd)
	return cmd
}

func cancel(cmd *cobra.Command, args []string) {
	gameID, _ := cmd.Flags().GetString("gameID")
	sendAction(cmd, &rt.RpsAction{Ty: rt.RpsActionCancel, Cancel: &rt.RpsCancel{GameID: gameID}})
}

type gameResult struct {
	GameID     string       `json:"gameID"`
	Status     string       `json:"status"`
	Asset      string       `json:"asset"`
	Wager      string       `json:"wager"`
	JoinMode   string       `json:"joinMode"`
	Scheme     string       `json:"scheme"`
	Expiry     string       `json:"expiryPolicy"`
	CreateTime int64        `json:"createTime"`
	Index      int64        `json:"index"`
	State      rt.GameState `json:"state"`
}

func toGameResult(g *rt.Game) *gameResult {
	return &gameResult{
		GameID:     g.GameID,
		Status:     rt.StatusName(g.GetStatus()),
		Asset:      g.Config.Asset,
		Wager:      FormatAmount(g.Config.Wager),
		JoinMode:   g.Config.JoinMode,
		Scheme:     g.Config.Scheme,
		Expiry:     g.Config.ExpiryPolicy,
		CreateTime: g.CreateTime,
		Index:      g.Index,
		State:      g.State,
	}
}

// ShowCmd show game
func ShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show games by id",
		Run:   show,
	}
	cmd.Flags().StringSliceP("gameIDs", "g", nil, "game ids")
	cmd.MarkFlagRequired("gameIDs")
	return cmd
}

func show(cmd *cobra.Command, args []string) {
	ids, _ := cmd.Flags().GetStringSlice("gameIDs")
	msg, err := query(cmd, rt.FuncNameGetGames, &rt.ReqGameIDs{GameIDs: ids})
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return
	}
	printGames(cmd, msg.(*rt.ReplyGames))
}

func printGames(cmd *cobra.Command, reply *rt.ReplyGames) {
	result := make([]*gameResult, 0, len(reply.Games))
	for _, g := range reply.Games {
		result = append(result, toGameResult(g))
	}
	printJSON(cmd.OutOrStdout(), result)
}

// ListCmd list games
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List games by status and address",
		Run:   list,
	}
	addStatusAddrFlags(cmd)
	cmd.Flags().Int64P("index", "i", 0, "index of the last game of the previous page")
	cmd.Flags().Int32P("count", "n", rt.DefaultCount, "page size")
	cmd.Flags().Int32P("direction", "d", rt.ListDESC, "0: desc, 1: asc")
	return cmd
}

func addStatusAddrFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("status", "t", "", "AcceptingChallenge, AcceptingReveal, Resolved, Expired, Cancelled")
	cmd.MarkFlagRequired("status")
	cmd.Flags().StringP("addr", "a", "", "player address")
}

func parseStatus(cmd *cobra.Command) (int32, error) {
	name, _ := cmd.Flags().GetString("status")
	status, ok := rt.ParseStatus(name)
	if !ok {
		return 0, errors.Errorf("unknown status %s", name)
	}
	return status, nil
}

func list(cmd *cobra.Command, args []string) {
	status, err := parseStatus(cmd)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return
	}
	addr, _ := cmd.Flags().GetString("addr")
	index, _ := cmd.Flags().GetInt64("index")
	count, _ := cmd.Flags().GetInt32("count")
	direction, _ := cmd.Flags().GetInt32("direction")
	msg, err := query(cmd, rt.FuncNameListGames, &rt.ReqGameList{
		Status:    status,
		Address:   addr,
		Index:     index,
		Count:     count,
		Direction: direction,
	})
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return
	}
	printGames(cmd, msg.(*rt.ReplyGames))
}

// CountCmd count games
func CountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "count",
		Short: "Count games that have entered a status",
		Run:   count,
	}
	addStatusAddrFlags(cmd)
	return cmd
}

func count(cmd *cobra.Command, args []string) {
	status, err := parseStatus(cmd)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return
	}
	addr, _ := cmd.Flags().GetString("addr")
	msg, err := query(cmd, rt.FuncNameGetGameCount, &rt.ReqGameCount{Status: status, Address: addr})
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return
	}
	printJSON(cmd.OutOrStdout(), msg)
}

// EscrowCmd show escrow
func EscrowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "escrow",
		Short: "Show the escrow account of a game",
		Run:   escrow,
	}
	addGameIDFlag(cmd)
	return cmd
}

type escrowResult struct {
	GameID   string `json:"gameID"`
	Address  string `json:"address"`
	Asset    string `json:"asset"`
	Balance  string `json:"balance"`
	Expected string `json:"expected"`
}

func escrow(cmd *cobra.Command, args []string) {
	gameID, _ := cmd.Flags().GetString("gameID")
	msg, err := query(cmd, rt.FuncNameGetEscrow, &rt.ReqGameID{GameID: gameID})
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return
	}
	e := msg.(*rt.ReplyEscrow)
	printJSON(cmd.OutOrStdout(), &escrowResult{
		GameID:   e.GameID,
		Address:  e.Address,
		Asset:    e.Asset,
		Balance:  FormatAmount(e.Balance),
		Expected: FormatAmount(e.Expected),
	})
}
