/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zeromicro/go-zero/core/logx"
)

// executeCmd represents the execute command
var executeCmd = &cobra.Command{
	Use:   "execute [index]",
	Short: "Execute an approved vault transaction",
	Long: `Execute runs the approved vault transaction at the given index on
chain, moving the proposed funds out of the vault. Without an index the
latest transaction is executed.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sc := loadContext()

		res, err := sc.Service.Execute(cmd.Context(), indexArg(args))
		logx.Must(err)

		fmt.Printf("executed vault transaction #%d\n", res.TransactionIndex)
		fmt.Printf("  transaction: %s\n", res.Transaction)
		fmt.Printf("  signature:   %s\n", res.Signature)
	},
}

func init() {
	rootCmd.AddCommand(executeCmd)

	// Here you will define your flags and configuration settings.

	// Cobra supports Persistent Flags which will work for this command
	// and all subcommands, e.g.:
	// executeCmd.PersistentFlags().String("foo", "", "A help for foo")

	// Cobra supports local flags which will only run when this command
	// is called directly, e.g.:
	// executeCmd.Flags().BoolP("toggle", "t", false, "Help message for toggle")
}
