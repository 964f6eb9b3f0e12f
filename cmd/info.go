/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zeromicro/go-zero/core/logx"

	"github.com/ricardocr987/squads-scripting/internal/multisig"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the recorded multisig and its balances",
	Long: `Info renders the recorded multisig as a tree: member set, balances
and the state of recent proposals.`,
	Run: func(cmd *cobra.Command, args []string) {
		sc := loadContext()

		res, err := sc.Service.Info(cmd.Context())
		logx.Must(err)
		views, err := sc.Service.Proposals(cmd.Context(), 10)
		logx.Must(err)

		fmt.Print(multisig.RenderTree(res, views))
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)

	// Here you will define your flags and configuration settings.

	// Cobra supports Persistent Flags which will work for this command
	// and all subcommands, e.g.:
	// infoCmd.PersistentFlags().String("foo", "", "A help for foo")

	// Cobra supports local flags which will only run when this command
	// is called directly, e.g.:
	// infoCmd.Flags().BoolP("toggle", "t", false, "Help message for toggle")
}
