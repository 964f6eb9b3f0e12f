/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/zeromicro/go-zero/rest"

	"github.com/ricardocr987/squads-scripting/internal/config"
	"github.com/ricardocr987/squads-scripting/internal/handler"
	"github.com/ricardocr987/squads-scripting/internal/svc"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the read only status API",
	Long: `Serve exposes the multisig state over HTTP: node status, the
recorded multisig and its proposals. The API never signs or sends anything.`,
	Run: func(cmd *cobra.Command, args []string) {
		Start(cfgFile)
	},
}

// Start boots the status API from the same config file the other commands
// use and blocks until the server stops.
func Start(cfgFile string) {
	godotenv.Load()

	c := config.MustLoad(cfgFile)

	server := rest.MustNewServer(c.Rest.RestConf)
	defer server.Stop()

	ctx := svc.NewServiceContext(c)
	handler.RegisterHandlers(server, ctx)

	fmt.Printf("Starting server at %s:%d...\n", c.Rest.Host, c.Rest.Port)
	server.Start()
}

func init() {
	rootCmd.AddCommand(serveCmd)

	// Here you will define your flags and configuration settings.

	// Cobra supports Persistent Flags which will work for this command
	// and all subcommands, e.g.:
	// serveCmd.PersistentFlags().String("foo", "", "A help for foo")

	// Cobra supports local flags which will only run when this command
	// is called directly, e.g.:
	// serveCmd.Flags().BoolP("toggle", "t", false, "Help message for toggle")
}
