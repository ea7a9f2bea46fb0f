package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"zil-bridge/pkg/client"
	"zil-bridge/pkg/gateway"
)

var showBalance bool

var addressCmd = &cobra.Command{
	Use:   "address",
	Short: "Show the Zilliqa and TradeHub addresses of the configured keys",
	Long: `Derive the Zilliqa source address from zilliqa.private_key and the TradeHub
account from tradehub.mnemonic.

Examples:
  zil-bridge address
  zil-bridge address --balance`,
	Args: cobra.NoArgs,
	Run:  runAddress,
}

func init() {
	rootCmd.AddCommand(addressCmd)

	addressCmd.Flags().BoolVar(&showBalance, "balance", false, "Query the Zilliqa balance, nonce and minimum gas price")
}

type addressInfo struct {
	ZilAddress     string `json:"zil_address,omitempty"`
	ZilChecksummed string `json:"zil_checksummed,omitempty"`
	ZilBech32      string `json:"zil_bech32,omitempty"`
	SWTHAccount    string `json:"swth_account,omitempty"`
	Balance        string `json:"balance,omitempty"`
	Nonce          uint64 `json:"nonce,omitempty"`
	MinGasPrice    string `json:"min_gas_price,omitempty"`
}

func runAddress(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	a, err := loadApp(cmd)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	var info addressInfo

	if a.cfg.Zilliqa.PrivateKey != "" {
		info.ZilAddress, err = gateway.ZilAddressFromPrivateKey(a.cfg.Zilliqa.PrivateKey)
		if err != nil {
			printError(err)
			os.Exit(1)
		}
		info.ZilChecksummed, _ = gateway.ZilChecksumAddress(info.ZilAddress)
		info.ZilBech32, _ = gateway.ZilBech32Address(info.ZilAddress)
	}

	if a.cfg.TradeHub.Mnemonic != "" {
		key, err := gateway.DeriveTradeHubKey(a.cfg.TradeHub.Mnemonic)
		if err != nil {
			printError(err)
			os.Exit(1)
		}
		info.SWTHAccount, err = gateway.SWTHAddressFromPubKey(key.PubKey())
		if err != nil {
			printError(err)
			os.Exit(1)
		}
	}

	if info.ZilAddress == "" && info.SWTHAccount == "" {
		printError(fmt.Errorf("neither zilliqa.private_key nor tradehub.mnemonic is configured"))
		os.Exit(1)
	}

	if showBalance && info.ZilAddress != "" {
		if err := loadBalance(a.cfg.Zilliqa.RPCURL, &info); err != nil {
			printError(err)
			os.Exit(1)
		}
	}

	if jsonOutput {
		jsonData, _ := json.MarshalIndent(info, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Green("                       ADDRESSES")
	fmt.Println(strings.Repeat("=", 60))

	if info.ZilAddress != "" {
		fmt.Printf("\n  Zilliqa (base16):  %s\n", color.CyanString(info.ZilChecksummed))
		fmt.Printf("  Zilliqa (bech32):  %s\n", color.CyanString(info.ZilBech32))
	}
	if info.SWTHAccount != "" {
		fmt.Printf("  TradeHub:          %s\n", color.CyanString(info.SWTHAccount))
		if a.cfg.TradeHub.Account != "" && a.cfg.TradeHub.Account != info.SWTHAccount {
			color.Yellow("  tradehub.account %s differs from the mnemonic account", a.cfg.TradeHub.Account)
		}
	}
	if info.Balance != "" {
		fmt.Printf("  Balance (Qa):      %s\n", info.Balance)
		fmt.Printf("  Nonce:             %d\n", info.Nonce)
		fmt.Printf("  Min Gas Price:     %s\n", info.MinGasPrice)
	}

	fmt.Println("\n" + strings.Repeat("=", 60) + "\n")
}

func loadBalance(rpcURL string, info *addressInfo) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	zil := client.NewZilliqaClient(rpcURL)
	balance, err := zil.GetBalance(ctx, info.ZilAddress)
	if err != nil {
		return err
	}
	info.Balance = balance.Balance
	info.Nonce = balance.Nonce

	info.MinGasPrice, err = zil.GetMinimumGasPrice(ctx)
	return err
}
