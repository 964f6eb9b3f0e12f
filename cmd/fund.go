/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
	"github.com/zeromicro/go-zero/core/logx"
)

// fundCmd represents the fund command
var fundCmd = &cobra.Command{
	Use:   "fund",
	Short: "Airdrop to the wallet and move SOL into the vault",
	Long: `Fund requests a devnet airdrop for the operator wallet when the
config allows one, then transfers the given amount of SOL into the vault so
later proposals have something to spend.`,
	Run: func(cmd *cobra.Command, args []string) {
		sc := loadContext()

		amount, _ := cmd.Flags().GetFloat64("amount")
		res, err := sc.Service.Fund(cmd.Context(), solToLamports(amount))
		logx.Must(err)

		if res.AirdropSignature != (solana.Signature{}) {
			fmt.Printf("  airdrop:   %s\n", res.AirdropSignature)
		}
		if res.TransferSignature != (solana.Signature{}) {
			fmt.Printf("  transfer:  %s\n", res.TransferSignature)
		}
		fmt.Printf("  wallet:    %.4f SOL\n", lamportsToSol(res.WalletBalance))
		fmt.Printf("  vault:     %.4f SOL\n", lamportsToSol(res.VaultBalance))
	},
}

func init() {
	rootCmd.AddCommand(fundCmd)

	// Here you will define your flags and configuration settings.

	fundCmd.Flags().Float64("amount", 0.1, "SOL to move into the vault")
}
