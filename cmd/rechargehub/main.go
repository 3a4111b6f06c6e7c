package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import seeders so their init() funcs register themselves.
	_ "github.com/shashiranjanraj/rechargehub/database/seeders"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "rechargehub",
	Short: "RechargeHub — mobile recharge plan marketplace API",
	Long:  "RechargeHub serves the recharge-plan marketplace: user accounts, plan catalogue, transactions, and feedback over HTTP/JSON.",
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)
	rootCmd.AddCommand(seedCmd)
}
