/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/zeromicro/go-zero/core/logx"
)

// proposeCmd represents the propose command
var proposeCmd = &cobra.Command{
	Use:   "propose <recipient> <amount-sol>",
	Short: "Propose a SOL transfer out of the vault",
	Long: `Propose stores a SOL transfer from the vault as a vault transaction
and opens its proposal for voting, both in one atomic transaction. The
transfer only moves once the proposal is approved and executed.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		sc := loadContext()

		recipient, err := solana.PublicKeyFromBase58(args[0])
		logx.Must(errors.Wrapf(err, "recipient %q", args[0]))

		amount := cast.ToFloat64(args[1])
		if amount <= 0 {
			logx.Must(errors.Errorf("amount %q is not a positive SOL amount", args[1]))
		}
		memo, _ := cmd.Flags().GetString("memo")

		res, err := sc.Service.ProposeTransfer(cmd.Context(), recipient, solToLamports(amount), memo)
		logx.Must(err)

		fmt.Printf("proposal #%d opened\n", res.TransactionIndex)
		fmt.Printf("  transaction: %s\n", res.Transaction)
		fmt.Printf("  proposal:    %s\n", res.Proposal)
		fmt.Printf("  signature:   %s\n", res.Signature)
	},
}

func init() {
	rootCmd.AddCommand(proposeCmd)

	// Here you will define your flags and configuration settings.

	proposeCmd.Flags().String("memo", "", "memo stored with the vault transaction")
}
