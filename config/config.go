package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"zil-bridge/pkg/types"
)

// Config holds the application configuration
type Config struct {
	Zilliqa    ZilliqaConfig    `mapstructure:"zilliqa"`
	TradeHub   TradeHubConfig   `mapstructure:"tradehub"`
	Bridge     BridgeConfig     `mapstructure:"bridge"`
	Tokens     []types.Asset    `mapstructure:"tokens"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Server     ServerConfig     `mapstructure:"server"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
}

// ZilliqaConfig contains source chain settings
type ZilliqaConfig struct {
	RPCURL           string        `mapstructure:"rpc_url"`
	ChainID          uint32        `mapstructure:"chain_id"`
	MsgVersion       uint32        `mapstructure:"msg_version"`
	PrivateKey       string        `mapstructure:"private_key"`
	GasPrice         string        `mapstructure:"gas_price"`
	GasLimit         uint64        `mapstructure:"gas_limit"`
	LockProxyAddress string        `mapstructure:"lock_proxy_address"`
	ConfirmAttempts  int           `mapstructure:"confirm_attempts"`
	ConfirmInterval  time.Duration `mapstructure:"confirm_interval"`
}

// TradeHubConfig contains destination ledger settings
type TradeHubConfig struct {
	RESTURL    string `mapstructure:"rest_url"`
	ChainID    string `mapstructure:"chain_id"`
	Mnemonic   string `mapstructure:"mnemonic"`
	Account    string `mapstructure:"account"`
	FeeAddress string `mapstructure:"fee_address"`
	FeeAmount  string `mapstructure:"fee_amount"`
	FeeDenom   string `mapstructure:"fee_denom"`
	TxFee      string `mapstructure:"tx_fee"`
	TxGas      string `mapstructure:"tx_gas"`
}

// BridgeConfig contains orchestration settings
type BridgeConfig struct {
	SourceBlockchain   string        `mapstructure:"source_blockchain"`
	WithdrawDenom      string        `mapstructure:"withdraw_denom"`
	DestAddress        string        `mapstructure:"dest_address"`
	PollAttempts       int           `mapstructure:"poll_attempts"`
	PollInterval       time.Duration `mapstructure:"poll_interval"`
	WithdrawSuccessLog string        `mapstructure:"withdraw_success_log"`
}

// LoggingConfig contains logger settings
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// MonitoringConfig toggles the metrics endpoint
type MonitoringConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Load reads configuration from environment variables and config file
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".zil-bridge")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME")
	v.AddConfigPath(".")

	setDefaults(v)

	// Read from environment variables, e.g. ZIL_BRIDGE_ZILLIQA_PRIVATE_KEY
	v.SetEnvPrefix("ZIL_BRIDGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return unmarshal(v)
}

// LoadFile reads configuration from an explicit path
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v)

	v.SetEnvPrefix("ZIL_BRIDGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("zilliqa.rpc_url", "https://dev-api.zilliqa.com")
	v.SetDefault("zilliqa.chain_id", 333)
	v.SetDefault("zilliqa.msg_version", 1)
	v.SetDefault("zilliqa.gas_price", "2000000000")
	v.SetDefault("zilliqa.gas_limit", 25000)
	v.SetDefault("zilliqa.lock_proxy_address", "0xa5484b227f35f5e192e444146a3d9e09f4cdad80")
	v.SetDefault("zilliqa.confirm_attempts", 33)
	v.SetDefault("zilliqa.confirm_interval", "1s")
	// AutomaticEnv only resolves keys viper already knows about
	v.SetDefault("zilliqa.private_key", "")

	v.SetDefault("tradehub.rest_url", "https://dev-tradescan.switcheo.org")
	v.SetDefault("tradehub.chain_id", "switcheochain")
	v.SetDefault("tradehub.mnemonic", "")
	v.SetDefault("tradehub.account", "")
	v.SetDefault("tradehub.fee_address", "swth1prv0t8j8tqcdngdmjlt59pwy6dxxmtqgycy2h7")
	v.SetDefault("tradehub.fee_amount", "1")
	v.SetDefault("tradehub.fee_denom", "swth")
	v.SetDefault("tradehub.tx_fee", "100000000")
	v.SetDefault("tradehub.tx_gas", "100000000000")

	v.SetDefault("bridge.source_blockchain", "zil")
	v.SetDefault("bridge.withdraw_denom", "zusd6")
	v.SetDefault("bridge.dest_address", "")
	v.SetDefault("bridge.poll_attempts", 20)
	v.SetDefault("bridge.poll_interval", "2s")
	v.SetDefault("bridge.withdraw_success_log", "Withdrawal success")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output_path", "stderr")

	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8089)
	v.SetDefault("monitoring.enabled", true)
}

// ValidateForBridge checks the settings needed to run a bridge transfer
func (c *Config) ValidateForBridge() error {
	if c.Zilliqa.RPCURL == "" {
		return fmt.Errorf("zilliqa.rpc_url is required")
	}
	if c.Zilliqa.PrivateKey == "" {
		return fmt.Errorf("Zilliqa private key not found. Please set ZIL_BRIDGE_ZILLIQA_PRIVATE_KEY or zilliqa.private_key in .zil-bridge.yaml")
	}
	if c.TradeHub.Mnemonic == "" {
		return fmt.Errorf("TradeHub mnemonic not found. Please set ZIL_BRIDGE_TRADEHUB_MNEMONIC or tradehub.mnemonic in .zil-bridge.yaml")
	}
	if c.TradeHub.Account == "" {
		return fmt.Errorf("tradehub.account is required")
	}
	return c.ValidatePolling()
}

// ValidatePolling checks the indexer polling budget
func (c *Config) ValidatePolling() error {
	if c.TradeHub.RESTURL == "" {
		return fmt.Errorf("tradehub.rest_url is required")
	}
	if c.Bridge.PollAttempts <= 0 {
		return fmt.Errorf("bridge.poll_attempts must be greater than 0")
	}
	if c.Bridge.PollInterval < 0 {
		return fmt.Errorf("bridge.poll_interval cannot be negative")
	}
	if c.Bridge.WithdrawSuccessLog == "" {
		return fmt.Errorf("bridge.withdraw_success_log is required")
	}
	return nil
}
