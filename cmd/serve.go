package cmd

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"zil-bridge/pkg/api"
	"zil-bridge/pkg/bridge"
	"zil-bridge/pkg/parser"
	"zil-bridge/pkg/types"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the bridge over HTTP",
	Long: `Start an HTTP server exposing:

  GET  /health
  GET  /metrics                      (when monitoring.enabled)
  POST /api/v1/bridge                run one bridge transfer
  GET  /api/v1/transfers/{account}   latest transfers of an account

Each POST runs its own bridge transfer and responds once it ends.

Examples:
  zil-bridge serve
  zil-bridge serve --config ./bridge.yaml`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) {
	a, err := loadApp(cmd)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	defer func() { _ = a.logger.Sync() }()

	orch, err := a.orchestrator(bridge.NewLogNotifier(a.logger))
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	deps := api.Deps{
		Executor:  orch,
		Transfers: a.observer(),
		BuildRequest: func(body api.BridgeRequest) (types.BridgeRequest, error) {
			amount, withdraw, err := body.ParseAmounts()
			if err != nil {
				return types.BridgeRequest{}, err
			}
			parsed := types.BridgeRequest{
				Amount:         amount,
				WithdrawAmount: withdraw,
				Asset:          types.Asset{Symbol: parser.NormalizeTokenSymbol(body.Token)},
				WithdrawDenom:  body.WithdrawDenom,
			}
			return a.bridgeRequest(parsed, body.DestAddress, body.DestAccount)
		},
		Logger: a.logger,
	}
	if a.cfg.Monitoring.Enabled {
		deps.MetricsHandler = a.metrics.Handler()
	}

	addr := net.JoinHostPort(a.cfg.Server.Host, strconv.Itoa(a.cfg.Server.Port))
	srv := api.NewHTTPServer(addr, api.NewRouter(deps))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.logger.Info("Starting bridge server",
		zap.String("address", addr),
		zap.Bool("metrics", a.cfg.Monitoring.Enabled))

	if err := api.ServeAndWait(ctx, a.logger, srv, 0); err != nil {
		printError(fmt.Errorf("server stopped: %w", err))
		os.Exit(1)
	}
	printSuccess("Server stopped.")
}
