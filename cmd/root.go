/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/gagliardetto/solana-go"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/zeromicro/go-zero/core/logx"

	"github.com/ricardocr987/squads-scripting/internal/config"
	"github.com/ricardocr987/squads-scripting/internal/svc"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "squads",
	Short: "Squads v4 multisig scripting from the command line",
	Long: `squads drives a Squads v4 multisig on Solana end to end: create it
from a members file, fund its vault, propose SOL transfers, vote, execute
and reclaim rent, with priority fees estimated per transaction.`,
	// Uncomment the following line if your bare application
	// has an action associated with it:
	// Run: func(cmd *cobra.Command, args []string) { },
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Here you will define your flags and configuration settings.
	// Cobra supports persistent flags, which, if defined here,
	// will be global for your application.

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "etc/squads.yaml", "config file")

	// Cobra also supports local flags, which will only run
	// when this action is called directly.
	rootCmd.Flags().BoolP("toggle", "t", false, "Help message for toggle")
}

// loadContext loads the config file and wires every dependency the commands
// share. Exits on any setup error.
func loadContext() *svc.ServiceContext {
	godotenv.Load()

	c := config.MustLoad(cfgFile)
	logx.MustSetup(c.Log.LogConf)
	return svc.NewServiceContext(c)
}

// indexArg reads an optional transaction index argument, 0 meaning latest.
func indexArg(args []string) uint64 {
	if len(args) == 0 {
		return 0
	}
	index := cast.ToUint64(args[0])
	if index == 0 {
		logx.Must(errors.Errorf("transaction index %q is not a positive number", args[0]))
	}
	return index
}

func solToLamports(amount float64) uint64 {
	return uint64(amount * float64(solana.LAMPORTS_PER_SOL))
}

func lamportsToSol(lamports uint64) float64 {
	return float64(lamports) / float64(solana.LAMPORTS_PER_SOL)
}
