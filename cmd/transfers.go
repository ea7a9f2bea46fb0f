package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"zil-bridge/pkg/observer"
	"zil-bridge/pkg/types"
)

var (
	watchTransfers bool
	watchInterval  int
	transferLimit  int
)

var transfersCmd = &cobra.Command{
	Use:     "transfers [account]",
	Aliases: []string{"status"},
	Short:   "Show the latest TradeHub transfers of an account",
	Long: `Show the deposit and withdrawal history of a TradeHub account, newest first.
The account defaults to tradehub.account.

Examples:
  zil-bridge transfers swth1pacamg4ey0nx6mrhr7qyhfj0g3pw359cnjyv6d
  zil-bridge transfers --watch
  zil-bridge transfers swth1... --watch --interval 10`,
	Args: cobra.MaximumNArgs(1),
	Run:  runTransfers,
}

func init() {
	rootCmd.AddCommand(transfersCmd)

	transfersCmd.Flags().BoolVarP(&watchTransfers, "watch", "w", false, "Watch transfers continuously")
	transfersCmd.Flags().IntVar(&watchInterval, "interval", 5, "Polling interval in seconds (when watching)")
	transfersCmd.Flags().IntVarP(&transferLimit, "limit", "n", 10, "Number of transfers to show (0 for all)")
}

func runTransfers(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	a, err := loadApp(cmd)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	account := a.cfg.TradeHub.Account
	if len(args) == 1 {
		account = args[0]
	}
	if account == "" {
		printError(fmt.Errorf("account is required (argument or tradehub.account)"))
		os.Exit(1)
	}

	if err := a.cfg.ValidatePolling(); err != nil {
		printError(err)
		os.Exit(1)
	}
	obs := a.observer()

	if watchTransfers {
		watchAccountTransfers(obs, account, jsonOutput)
	} else {
		checkTransfers(obs, account, jsonOutput)
	}
}

func checkTransfers(obs *observer.Observer, account string, jsonOutput bool) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Fetching transfers..."
		s.Start()
	}

	transfers, err := obs.Transfers(context.Background(), account, transferLimit)
	if !jsonOutput {
		s.Stop()
	}

	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if jsonOutput {
		jsonData, _ := json.MarshalIndent(transfers, "", "  ")
		fmt.Println(string(jsonData))
	} else {
		displayTransfers(transfers, account)
	}
}

func watchAccountTransfers(obs *observer.Observer, account string, jsonOutput bool) {
	if jsonOutput {
		fmt.Println(`{"error": "watch mode not supported with JSON output"}`)
		os.Exit(1)
	}
	if watchInterval <= 0 {
		printError(fmt.Errorf("interval must be greater than 0"))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("\nWatching transfers of %s\n", color.CyanString(account))
	fmt.Printf("Checking every %d seconds. Press Ctrl+C to stop.\n\n", watchInterval)

	ticker := time.NewTicker(time.Duration(watchInterval) * time.Second)
	defer ticker.Stop()

	// Check immediately first
	checkAndDisplayTransfers(ctx, obs, account)

	// Then check periodically
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			checkAndDisplayTransfers(ctx, obs, account)
		}
	}
}

func checkAndDisplayTransfers(ctx context.Context, obs *observer.Observer, account string) {
	transfers, err := obs.Transfers(ctx, account, transferLimit)
	if err != nil {
		if ctx.Err() == nil {
			color.Red("Error: %v", err)
		}
		return
	}

	displayTransfers(transfers, account)
}

func displayTransfers(transfers []types.TransferRecord, account string) {
	fmt.Println("\n" + strings.Repeat("=", 70))
	color.Green("                        TRANSFERS")
	fmt.Println(strings.Repeat("=", 70))

	fmt.Printf("\n  Account: %s\n", color.CyanString(account))

	if len(transfers) == 0 {
		fmt.Println("\n  No transfers found.")
		fmt.Println("\n" + strings.Repeat("=", 70) + "\n")
		return
	}

	for _, t := range transfers {
		fmt.Printf("\n  %-10s  %s %s  on %s  %s\n",
			strings.ToUpper(t.TransferType),
			t.Amount,
			color.YellowString(t.Denom),
			t.Blockchain,
			getColoredTransferStatus(t.Status))
		if t.TransactionHash != "" {
			fmt.Printf("              Tx: %s\n", color.HiBlackString(t.TransactionHash))
		}
	}

	fmt.Println("\n" + strings.Repeat("=", 70) + "\n")
}

func getColoredTransferStatus(status string) string {
	status = strings.ToUpper(status)

	switch status {
	case "SUCCESS":
		return color.GreenString(status)
	case "CONFIRMING", "PENDING":
		return color.YellowString(status)
	case "FAILED":
		return color.RedString(status)
	default:
		return status
	}
}
