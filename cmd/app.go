package cmd

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"zil-bridge/config"
	"zil-bridge/internal/metrics"
	"zil-bridge/pkg/asset"
	"zil-bridge/pkg/bridge"
	"zil-bridge/pkg/client"
	"zil-bridge/pkg/gateway"
	"zil-bridge/pkg/observer"
	"zil-bridge/pkg/types"
)

// app holds what every command builds from configuration
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	registry *asset.Registry
	metrics  *metrics.Recorder
}

func loadApp(cmd *cobra.Command) (*app, error) {
	path, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")

	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if verbose {
		cfg.Logging.Level = "debug"
	}
	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return nil, err
	}

	registry, err := asset.NewRegistry(cfg.Tokens)
	if err != nil {
		return nil, fmt.Errorf("invalid token config: %w", err)
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		metrics:  metrics.New(),
	}, nil
}

func (a *app) tradeHubClient() *client.TradeHubClient {
	return client.NewTradeHubClient(a.cfg.TradeHub.RESTURL)
}

func (a *app) observer() *observer.Observer {
	return observer.New(a.tradeHubClient())
}

func (a *app) bridgeConfig() (bridge.Config, error) {
	gasPrice, err := decimal.NewFromString(a.cfg.Zilliqa.GasPrice)
	if err != nil {
		return bridge.Config{}, fmt.Errorf("invalid zilliqa.gas_price %q: %w", a.cfg.Zilliqa.GasPrice, err)
	}

	return bridge.Config{
		SourceBlockchain:   a.cfg.Bridge.SourceBlockchain,
		GasPrice:           gasPrice,
		GasLimit:           a.cfg.Zilliqa.GasLimit,
		FeeAddress:         a.cfg.TradeHub.FeeAddress,
		FeeAmount:          a.cfg.TradeHub.FeeAmount,
		WithdrawSuccessLog: a.cfg.Bridge.WithdrawSuccessLog,
	}, nil
}

// orchestrator wires the Zilliqa and TradeHub gateways into a bridge orchestrator
func (a *app) orchestrator(notifier bridge.Notifier) (*bridge.Orchestrator, error) {
	if err := a.cfg.ValidateForBridge(); err != nil {
		return nil, err
	}
	bridgeCfg, err := a.bridgeConfig()
	if err != nil {
		return nil, err
	}

	zil := client.NewZilliqaClient(a.cfg.Zilliqa.RPCURL)
	hub := a.tradeHubClient()

	lockers := gateway.NewManager()
	lockers.Register(a.cfg.Bridge.SourceBlockchain, gateway.NewZilliqaLocker(zil, gateway.ZilliqaConfig{
		ChainID:          a.cfg.Zilliqa.ChainID,
		MsgVersion:       a.cfg.Zilliqa.MsgVersion,
		LockProxyAddress: a.cfg.Zilliqa.LockProxyAddress,
		ConfirmAttempts:  a.cfg.Zilliqa.ConfirmAttempts,
		ConfirmInterval:  a.cfg.Zilliqa.ConfirmInterval,
	}, a.logger))

	tradeHub := gateway.NewTradeHubGateway(hub, gateway.TradeHubConfig{
		ChainID:  a.cfg.TradeHub.ChainID,
		Mnemonic: a.cfg.TradeHub.Mnemonic,
		FeeDenom: a.cfg.TradeHub.FeeDenom,
		TxFee:    a.cfg.TradeHub.TxFee,
		TxGas:    a.cfg.TradeHub.TxGas,
	}, a.logger)

	return bridge.New(bridge.Dependencies{
		Locker:        lockers,
		Authenticator: tradeHub,
		Withdrawer:    tradeHub,
		Observer:      observer.New(hub),
	}, bridgeCfg,
		bridge.WithLogger(a.logger),
		bridge.WithNotifier(notifier),
		bridge.WithRecorder(a.metrics),
		bridge.WithPollConfig(bridge.PollConfig{
			MaxAttempts: a.cfg.Bridge.PollAttempts,
			Interval:    a.cfg.Bridge.PollInterval,
		}),
	)
}

// bridgeRequest completes a parsed request with the registry asset and configured defaults
func (a *app) bridgeRequest(parsed types.BridgeRequest, destAddress, destAccount string) (types.BridgeRequest, error) {
	req := parsed

	req.DestAccount = firstNonEmpty(destAccount, a.cfg.TradeHub.Account)
	req.DestAddress = firstNonEmpty(destAddress, a.cfg.Bridge.DestAddress)
	req.WithdrawDenom = strings.ToLower(firstNonEmpty(req.WithdrawDenom, a.cfg.Bridge.WithdrawDenom))
	req.Signer = a.cfg.Zilliqa.PrivateKey

	resolved, err := a.registry.Lookup(req.Asset.Symbol, req.DestAccount)
	if err != nil {
		return types.BridgeRequest{}, err
	}
	req.Asset = resolved

	return req, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
