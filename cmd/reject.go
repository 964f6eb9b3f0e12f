/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zeromicro/go-zero/core/logx"
)

// rejectCmd represents the reject command
var rejectCmd = &cobra.Command{
	Use:   "reject [index]",
	Short: "Reject a proposal",
	Long: `Reject casts a reject vote on the proposal at the given transaction
index. Without an index the latest proposal is voted on.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sc := loadContext()

		memo, _ := cmd.Flags().GetString("memo")
		res, err := sc.Service.Reject(cmd.Context(), indexArg(args), memo)
		logx.Must(err)

		fmt.Printf("rejected proposal #%d\n", res.TransactionIndex)
		fmt.Printf("  proposal:  %s\n", res.Proposal)
		fmt.Printf("  signature: %s\n", res.Signature)
	},
}

func init() {
	rootCmd.AddCommand(rejectCmd)

	// Here you will define your flags and configuration settings.

	rejectCmd.Flags().String("memo", "", "memo stored with the vote")
}
