package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"zil-bridge/pkg/bridge"
	"zil-bridge/pkg/parser"
	"zil-bridge/pkg/types"
)

var (
	destAddress    string
	destAccount    string
	withdrawAmount string
	noConfirm      bool
)

var bridgeCmd = &cobra.Command{
	Use:   "bridge <amount> <token> to <denom>",
	Short: "Bridge a Zilliqa asset to TradeHub and withdraw it",
	Long: `Lock an asset in the Zilliqa lock proxy, wait for TradeHub to credit the
deposit, then withdraw the bridged denom to an external address.

A run ends in one of: complete, deposit_not_observed, withdraw_not_confirmed,
submission_failed, chain_confirmation_failed or cancelled. A run that stops at
deposit_not_observed or withdraw_not_confirmed may still settle; check it with
'zil-bridge transfers <account>'. Press Ctrl+C to cancel a run.

Examples:
  zil-bridge bridge 1 ZIL to zusd6 --dest-address 0xA476FcEdc061797fA2A6f80BD9E020a056904298 --dest-account swth1...
  zil-bridge bridge 2.5 zil to zusd6 --withdraw-amount 1 --yes`,
	Args: cobra.MinimumNArgs(1),
	Run:  runBridge,
}

func init() {
	rootCmd.AddCommand(bridgeCmd)

	bridgeCmd.Flags().StringVar(&destAddress, "dest-address", "", "Withdrawal destination address (default bridge.dest_address)")
	bridgeCmd.Flags().StringVar(&destAccount, "dest-account", "", "TradeHub account receiving the deposit (default tradehub.account)")
	bridgeCmd.Flags().StringVar(&withdrawAmount, "withdraw-amount", "", "Amount of the bridged denom to withdraw (default: the locked amount)")
	bridgeCmd.Flags().BoolVarP(&noConfirm, "yes", "y", false, "Skip confirmation prompt")
}

func runBridge(cmd *cobra.Command, args []string) {
	parsed, err := parser.ParseBridgeCommand(strings.Join(args, " "))
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	if withdrawAmount != "" {
		parsed.WithdrawAmount, err = decimal.NewFromString(withdrawAmount)
		if err != nil {
			printError(fmt.Errorf("invalid withdraw amount %q: %w", withdrawAmount, err))
			os.Exit(1)
		}
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")

	a, err := loadApp(cmd)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	defer func() { _ = a.logger.Sync() }()

	req, err := a.bridgeRequest(*parsed, destAddress, destAccount)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	var (
		notifier bridge.Notifier = bridge.NewLogNotifier(a.logger)
		terminal *terminalNotifier
	)
	if !jsonOutput {
		terminal = newTerminalNotifier()
		notifier = terminal
	}

	orch, err := a.orchestrator(notifier)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if !jsonOutput {
		displayBridgePlan(req)
		if !noConfirm && !confirmBridge() {
			fmt.Println("\nBridge cancelled.")
			os.Exit(0)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if terminal != nil {
		terminal.Start()
	}
	out, err := orch.Execute(ctx, req)
	if terminal != nil {
		terminal.Stop()
	}

	if jsonOutput {
		output := map[string]interface{}{"outcome": out}
		if err != nil {
			output["error"] = err.Error()
		}
		jsonData, _ := json.MarshalIndent(output, "", "  ")
		fmt.Println(string(jsonData))
	} else {
		displayOutcome(out, req)
	}

	if err != nil {
		if !jsonOutput {
			printError(err)
		}
		os.Exit(1)
	}
	if out.Status != bridge.StatusComplete {
		os.Exit(2)
	}
}

func displayBridgePlan(req types.BridgeRequest) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Green("                     BRIDGE TRANSFER")
	fmt.Println(strings.Repeat("=", 60))

	withdraw := req.WithdrawAmount
	if withdraw.IsZero() {
		withdraw = req.Amount
	}

	fmt.Printf("\n  Lock:              %s %s\n", req.Amount, color.YellowString(req.Asset.Symbol))
	fmt.Printf("  Withdraw:          %s %s\n", withdraw, color.YellowString(req.WithdrawDenom))
	fmt.Printf("  TradeHub Account:  %s\n", color.CyanString(req.DestAccount))
	fmt.Printf("  Destination:       %s\n", color.CyanString(req.DestAddress))
	fmt.Printf("  Lock Proxy Hash:   %s\n", color.HiBlackString(req.Asset.LockProxyHash))

	fmt.Println("\n" + strings.Repeat("=", 60) + "\n")
}

func displayOutcome(out *bridge.Outcome, req types.BridgeRequest) {
	if out == nil {
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Green("                     BRIDGE RESULT")
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("\n  Run ID:            %s\n", out.RunID)
	fmt.Printf("  Status:            %s\n", getColoredStatus(out.Status))
	if out.LockTxID != "" {
		fmt.Printf("  Lock Tx:           %s\n", color.HiBlackString(out.LockTxID))
	}
	if out.WithdrawTxHash != "" {
		fmt.Printf("  Withdrawal Tx:     %s\n", color.HiBlackString(out.WithdrawTxHash))
	}
	fmt.Printf("  Deposit Polls:     %d\n", out.DepositAttempts)
	fmt.Printf("  Withdrawal Polls:  %d\n", out.WithdrawAttempts)

	fmt.Println("\n" + strings.Repeat("=", 60))

	if out.Status.Soft() {
		fmt.Println("\nFunds may still be in flight. Check the transfer history with:")
		color.Cyan("  zil-bridge transfers %s\n", req.DestAccount)
	}
}

func getColoredStatus(status bridge.Status) string {
	s := strings.ToUpper(string(status))

	switch status {
	case bridge.StatusComplete:
		return color.GreenString(s)
	case bridge.StatusDepositNotObserved, bridge.StatusWithdrawNotConfirmed:
		return color.YellowString(s)
	case bridge.StatusCancelled:
		return color.MagentaString(s)
	default:
		return color.RedString(s)
	}
}

func confirmBridge() bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Print("\nProceed with bridge? (y/N): ")

	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
