/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zeromicro/go-zero/core/logx"
)

// closeCmd represents the close command
var closeCmd = &cobra.Command{
	Use:   "close [index]",
	Short: "Close a settled transaction and reclaim its rent",
	Long: `Close reclaims the rent of a settled vault transaction and its
proposal into the multisig's rent collector. The multisig must have been
created with a rent collector. Without an index the latest transaction is
closed.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sc := loadContext()

		res, err := sc.Service.Close(cmd.Context(), indexArg(args))
		logx.Must(err)

		fmt.Printf("closed accounts of transaction #%d\n", res.TransactionIndex)
		fmt.Printf("  rent collector: %s\n", res.RentCollector)
		fmt.Printf("  signature:      %s\n", res.Signature)
	},
}

func init() {
	rootCmd.AddCommand(closeCmd)

	// Here you will define your flags and configuration settings.

	// Cobra supports Persistent Flags which will work for this command
	// and all subcommands, e.g.:
	// closeCmd.PersistentFlags().String("foo", "", "A help for foo")

	// Cobra supports local flags which will only run when this command
	// is called directly, e.g.:
	// closeCmd.Flags().BoolP("toggle", "t", false, "Help message for toggle")
}
