package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "zil-bridge",
	Short: "A CLI for bridging Zilliqa assets through TradeHub",
	Long: `zil-bridge locks assets on Zilliqa, waits for the TradeHub deposit and
withdraws the bridged denom to an external address. Every step is confirmed
against the TradeHub transfer indexer.

Examples:
  zil-bridge bridge 1 ZIL to zusd6 --dest-address 0xA476... --dest-account swth1...
  zil-bridge transfers swth1... --watch
  zil-bridge list-tokens
  zil-bridge address
  zil-bridge serve`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file (default is $HOME/.zil-bridge.yaml)")
}

func printError(err error) {
	fmt.Printf("\nError: %v\n\n", err)
}

func printSuccess(message string) {
	fmt.Printf("\n%s\n\n", message)
}
