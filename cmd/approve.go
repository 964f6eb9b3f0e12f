/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zeromicro/go-zero/core/logx"
)

// approveCmd represents the approve command
var approveCmd = &cobra.Command{
	Use:   "approve [index]",
	Short: "Approve a proposal",
	Long: `Approve casts an approve vote on the proposal at the given
transaction index. Without an index the latest proposal is voted on.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sc := loadContext()

		memo, _ := cmd.Flags().GetString("memo")
		res, err := sc.Service.Approve(cmd.Context(), indexArg(args), memo)
		logx.Must(err)

		fmt.Printf("approved proposal #%d\n", res.TransactionIndex)
		fmt.Printf("  proposal:  %s\n", res.Proposal)
		fmt.Printf("  signature: %s\n", res.Signature)
	},
}

func init() {
	rootCmd.AddCommand(approveCmd)

	// Here you will define your flags and configuration settings.

	approveCmd.Flags().String("memo", "", "memo stored with the vote")
}
