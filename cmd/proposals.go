/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/zeromicro/go-zero/core/logx"

	"github.com/ricardocr987/squads-scripting/internal/multisig"
)

// proposalsCmd represents the proposals command
var proposalsCmd = &cobra.Command{
	Use:   "proposals [index]",
	Short: "Show proposal vote tallies",
	Long: `Proposals lists the recent proposals with their vote tallies, or a
single proposal when a transaction index is given.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sc := loadContext()

		if index := indexArg(args); index > 0 {
			view, err := sc.Service.ProposalStatus(cmd.Context(), index)
			logx.Must(err)
			printProposal(view)
			return
		}

		views, err := sc.Service.Proposals(cmd.Context(), 10)
		logx.Must(err)
		if len(views) == 0 {
			fmt.Println("no proposals yet")
			return
		}
		for i := range views {
			printProposal(&views[i])
		}
	},
}

func printProposal(view *multisig.ProposalView) {
	fmt.Printf("proposal #%d [%s]\n", view.TransactionIndex, view.State.Status.Kind)
	fmt.Printf("  address:     %s\n", view.Proposal)
	fmt.Printf("  transaction: %s\n", view.Transaction)
	fmt.Printf("  approvals:   %d of %d needed\n", len(view.State.Approved), view.Threshold)
	if n := len(view.State.Rejected); n > 0 {
		fmt.Printf("  rejections:  %d\n", n)
	}
	if n := len(view.State.Cancelled); n > 0 {
		fmt.Printf("  cancels:     %d\n", n)
	}
	if ts := view.State.Status.Timestamp; ts > 0 {
		fmt.Printf("  since:       %s\n", time.Unix(ts, 0).UTC().Format(time.RFC3339))
	}
}

func init() {
	rootCmd.AddCommand(proposalsCmd)

	// Here you will define your flags and configuration settings.

	// Cobra supports Persistent Flags which will work for this command
	// and all subcommands, e.g.:
	// proposalsCmd.PersistentFlags().String("foo", "", "A help for foo")

	// Cobra supports local flags which will only run when this command
	// is called directly, e.g.:
	// proposalsCmd.Flags().BoolP("toggle", "t", false, "Help message for toggle")
}
