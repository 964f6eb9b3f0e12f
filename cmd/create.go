/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zeromicro/go-zero/core/logx"
)

// createCmd represents the create command
var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a multisig from the members file",
	Long: `Create deploys a new Squads v4 multisig from the configured members
file and records its addresses in the state file. Refuses to run when a
multisig is already recorded.`,
	Run: func(cmd *cobra.Command, args []string) {
		sc := loadContext()

		memo, _ := cmd.Flags().GetString("memo")
		res, err := sc.Service.Create(cmd.Context(), memo)
		logx.Must(err)

		fmt.Println("multisig created")
		fmt.Printf("  multisig:   %s\n", res.Record.Multisig)
		fmt.Printf("  vault:      %s\n", res.Record.Vault)
		fmt.Printf("  create key: %s\n", res.Record.CreateKey)
		fmt.Printf("  members:    %d, threshold %d\n", res.Members, res.Threshold)
		fmt.Printf("  signature:  %s\n", res.Signature)
	},
}

func init() {
	rootCmd.AddCommand(createCmd)

	// Here you will define your flags and configuration settings.

	createCmd.Flags().String("memo", "", "memo recorded with the creation")
}
