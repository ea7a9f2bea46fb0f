package types

import "github.com/shopspring/decimal"

// Transfer types reported by the TradeHub indexer
const (
	TransferTypeDeposit    = "deposit"
	TransferTypeWithdrawal = "withdrawal"
)

// Asset describes a token that can be locked on the source chain
type Asset struct {
	Name          string `json:"name" mapstructure:"name"`
	Symbol        string `json:"symbol" mapstructure:"symbol"`
	Denom         string `json:"denom" mapstructure:"denom"`
	Decimals      int32  `json:"decimals" mapstructure:"decimals"`
	Blockchain    string `json:"blockchain" mapstructure:"blockchain"`
	ChainID       int    `json:"chain_id" mapstructure:"chain_id"`
	AssetID       string `json:"asset_id" mapstructure:"asset_id"`
	LockProxyHash string `json:"lock_proxy_hash" mapstructure:"lock_proxy_hash"`
	Originator    string `json:"originator,omitempty" mapstructure:"originator"`
	IsActive      bool   `json:"is_active" mapstructure:"is_active"`
}

// BridgeRequest is the input to one bridge run
type BridgeRequest struct {
	Signer         string          // hex private key for the source chain
	SourceAddress  string          // derived from Signer when empty
	DestAddress    string          // withdrawal destination on the external chain
	DestAccount    string          // swth bech32 account on TradeHub
	Amount         decimal.Decimal // human units of Asset
	Asset          Asset
	WithdrawDenom  string
	WithdrawAmount decimal.Decimal // defaults to Amount when zero
}

// LockParams is the source-chain lock call derived from a BridgeRequest
type LockParams struct {
	DestAccountBytes []byte
	Amount           decimal.Decimal // smallest unit, integer valued
	Asset            Asset
	GasPrice         decimal.Decimal
	GasLimit         uint64
	SourceAddress    string
	Signer           string
}

// TransferRecord is a single entry from the TradeHub transfer history
type TransferRecord struct {
	ID              string `json:"id"`
	TransferType    string `json:"transfer_type"`
	Blockchain      string `json:"blockchain"`
	ContractHash    string `json:"contract_hash"`
	Denom           string `json:"denom"`
	Status          string `json:"status"`
	Amount          string `json:"amount"`
	Account         string `json:"account"`
	TransactionHash string `json:"transaction_hash,omitempty"`
}

// WithdrawRequest is a TradeHub withdrawal message; fields are kept in
// alphabetical JSON order because amino signs the sorted encoding
type WithdrawRequest struct {
	Amount     string `json:"amount"`
	Denom      string `json:"denom"`
	FeeAddress string `json:"fee_address"`
	FeeAmount  string `json:"fee_amount"`
	Originator string `json:"originator"`
	ToAddress  string `json:"to_address"`
}

// WithdrawLog is one message log of a broadcast response
type WithdrawLog struct {
	MsgIndex int    `json:"msg_index"`
	Log      string `json:"log"`
}

// WithdrawResponse is the broadcast result of a withdrawal
type WithdrawResponse struct {
	TxHash string        `json:"txhash"`
	Height string        `json:"height"`
	RawLog string        `json:"raw_log"`
	Logs   []WithdrawLog `json:"logs"`
}

// Receipt is the source-chain confirmation of a transaction
type Receipt struct {
	Success       bool   `json:"success"`
	CumulativeGas string `json:"cumulative_gas"`
	EpochNum      string `json:"epoch_num"`
}
