/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zeromicro/go-zero/core/logx"
)

// cancelCmd represents the cancel command
var cancelCmd = &cobra.Command{
	Use:   "cancel [index]",
	Short: "Cancel an approved proposal",
	Long: `Cancel votes to cancel the approved proposal at the given
transaction index before it executes. Without an index the latest proposal
is voted on.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sc := loadContext()

		memo, _ := cmd.Flags().GetString("memo")
		res, err := sc.Service.Cancel(cmd.Context(), indexArg(args), memo)
		logx.Must(err)

		fmt.Printf("cancel vote cast on proposal #%d\n", res.TransactionIndex)
		fmt.Printf("  proposal:  %s\n", res.Proposal)
		fmt.Printf("  signature: %s\n", res.Signature)
	},
}

func init() {
	rootCmd.AddCommand(cancelCmd)

	// Here you will define your flags and configuration settings.

	cancelCmd.Flags().String("memo", "", "memo stored with the vote")
}
