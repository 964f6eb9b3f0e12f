/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/common-nighthawk/go-figure"
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/zeromicro/go-zero/core/logx"

	"github.com/ricardocr987/squads-scripting/internal/config"
	"github.com/ricardocr987/squads-scripting/internal/multisig"
)

// menuCmd represents the menu command
var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Interactive menu over every multisig operation",
	Long: `Menu walks the whole multisig lifecycle from one prompt: create,
fund, propose, vote, execute and close, with the members file watched for
edits while the menu is open.`,
	Run: func(cmd *cobra.Command, args []string) {
		runMenu(cmd.Context())
	},
}

func runMenu(ctx context.Context) {
	sc := loadContext()

	banner := figure.NewColorFigure(sc.Config.Banner.Text, sc.Config.Banner.FontName, sc.Config.Banner.Color, true)
	banner.Print()

	sc.Store.Watch()
	membersChanged := make(chan struct{}, 1)
	go config.WatchMembers(sc.Config.Squads.MembersPath, membersChanged)

	reader := bufio.NewReader(os.Stdin)
	for {
		select {
		case <-membersChanged:
			fmt.Println("members file changed, the next create picks it up")
		default:
		}

		fmt.Println()
		fmt.Println(" 1) create multisig")
		fmt.Println(" 2) fund vault")
		fmt.Println(" 3) propose transfer")
		fmt.Println(" 4) approve")
		fmt.Println(" 5) reject")
		fmt.Println(" 6) cancel")
		fmt.Println(" 7) execute")
		fmt.Println(" 8) close accounts")
		fmt.Println(" 9) info")
		fmt.Println("10) proposals")
		fmt.Println(" 0) quit")

		switch choice := prompt(reader, "> "); choice {
		case "0", "q", "quit", "exit":
			return
		case "1":
			res, err := sc.Service.Create(ctx, prompt(reader, "memo (optional): "))
			if err != nil {
				logx.Error(err)
				continue
			}
			fmt.Printf("created %s (vault %s)\n", res.Record.Multisig, res.Record.Vault)
		case "2":
			amount := cast.ToFloat64(prompt(reader, "SOL into vault: "))
			res, err := sc.Service.Fund(ctx, solToLamports(amount))
			if err != nil {
				logx.Error(err)
				continue
			}
			fmt.Printf("wallet %.4f SOL, vault %.4f SOL\n", lamportsToSol(res.WalletBalance), lamportsToSol(res.VaultBalance))
		case "3":
			recipient, err := solana.PublicKeyFromBase58(prompt(reader, "recipient: "))
			if err != nil {
				logx.Error(err)
				continue
			}
			amount := cast.ToFloat64(prompt(reader, "amount (SOL): "))
			if amount <= 0 {
				fmt.Println("amount must be a positive SOL amount")
				continue
			}
			memo := prompt(reader, "memo (optional): ")
			res, err := sc.Service.ProposeTransfer(ctx, recipient, solToLamports(amount), memo)
			if err != nil {
				logx.Error(err)
				continue
			}
			fmt.Printf("proposal #%d opened, %s\n", res.TransactionIndex, res.Signature)
		case "4":
			res, err := sc.Service.Approve(ctx, promptIndex(reader), "")
			if err != nil {
				logx.Error(err)
				continue
			}
			fmt.Printf("approved proposal #%d, %s\n", res.TransactionIndex, res.Signature)
		case "5":
			res, err := sc.Service.Reject(ctx, promptIndex(reader), "")
			if err != nil {
				logx.Error(err)
				continue
			}
			fmt.Printf("rejected proposal #%d, %s\n", res.TransactionIndex, res.Signature)
		case "6":
			res, err := sc.Service.Cancel(ctx, promptIndex(reader), "")
			if err != nil {
				logx.Error(err)
				continue
			}
			fmt.Printf("cancel vote cast on proposal #%d, %s\n", res.TransactionIndex, res.Signature)
		case "7":
			res, err := sc.Service.Execute(ctx, promptIndex(reader))
			if err != nil {
				logx.Error(err)
				continue
			}
			fmt.Printf("executed transaction #%d, %s\n", res.TransactionIndex, res.Signature)
		case "8":
			res, err := sc.Service.Close(ctx, promptIndex(reader))
			if err != nil {
				logx.Error(err)
				continue
			}
			fmt.Printf("closed transaction #%d, rent to %s\n", res.TransactionIndex, res.RentCollector)
		case "9":
			res, err := sc.Service.Info(ctx)
			if err != nil {
				logx.Error(err)
				continue
			}
			views, err := sc.Service.Proposals(ctx, 10)
			if err != nil {
				logx.Error(err)
				continue
			}
			fmt.Print(multisig.RenderTree(res, views))
		case "10":
			views, err := sc.Service.Proposals(ctx, 10)
			if err != nil {
				logx.Error(err)
				continue
			}
			if len(views) == 0 {
				fmt.Println("no proposals yet")
				continue
			}
			for i := range views {
				printProposal(&views[i])
			}
		default:
			fmt.Printf("unknown choice %q\n", choice)
		}
	}
}

// prompt reads one trimmed line. A closed stdin reads as "0" so the menu
// loop falls through to quit.
func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "0"
	}
	return strings.TrimSpace(line)
}

// promptIndex asks for a transaction index, empty meaning the latest.
func promptIndex(reader *bufio.Reader) uint64 {
	return cast.ToUint64(prompt(reader, "transaction index (empty for latest): "))
}

func init() {
	rootCmd.AddCommand(menuCmd)

	// Here you will define your flags and configuration settings.

	// Cobra supports Persistent Flags which will work for this command
	// and all subcommands, e.g.:
	// menuCmd.PersistentFlags().String("foo", "", "A help for foo")

	// Cobra supports local flags which will only run when this command
	// is called directly, e.g.:
	// menuCmd.Flags().BoolP("toggle", "t", false, "Help message for toggle")
}
