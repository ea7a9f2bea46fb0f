package gateway

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/tyler-smith/go-bip39"
	"go.uber.org/zap"

	"zil-bridge/pkg/client"
	"zil-bridge/pkg/types"
)

// swthCoinType is the BIP-44 coin type used by TradeHub wallets
const swthCoinType = 118

const msgWithdrawType = "coin/MsgWithdraw"

// TradeHubAPI is the subset of the TradeHub API used by TradeHubGateway
type TradeHubAPI interface {
	GetAccount(ctx context.Context, address string) (*client.Account, error)
	BroadcastTx(ctx context.Context, tx json.RawMessage) (*types.WithdrawResponse, error)
}

// TradeHubConfig configures TradeHubGateway
type TradeHubConfig struct {
	ChainID  string
	Mnemonic string
	FeeDenom string
	TxFee    string
	TxGas    string
}

// TradeHubSession is a wallet session derived from a mnemonic
type TradeHubSession struct {
	key           *btcec.PrivateKey
	address       string
	accountNumber string
	sequence      string
}

// Originator implements Session
func (s *TradeHubSession) Originator() string {
	return s.address
}

// TradeHubGateway opens wallet sessions and submits withdrawals on TradeHub
type TradeHubGateway struct {
	api    TradeHubAPI
	cfg    TradeHubConfig
	logger *zap.Logger
}

// NewTradeHubGateway creates a new TradeHub gateway
func NewTradeHubGateway(api TradeHubAPI, cfg TradeHubConfig, logger *zap.Logger) *TradeHubGateway {
	if cfg.FeeDenom == "" {
		cfg.FeeDenom = "swth"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TradeHubGateway{api: api, cfg: cfg, logger: logger}
}

// DeriveTradeHubKey derives the m/44'/118'/0'/0/0 key from a mnemonic
func DeriveTradeHubKey(mnemonic string) (*btcec.PrivateKey, error) {
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, "")
	if err != nil {
		return nil, fmt.Errorf("invalid mnemonic: %w", err)
	}

	key, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, fmt.Errorf("failed to create master key: %w", err)
	}

	path := []uint32{
		hdkeychain.HardenedKeyStart + 44,
		hdkeychain.HardenedKeyStart + swthCoinType,
		hdkeychain.HardenedKeyStart,
		0,
		0,
	}
	for _, idx := range path {
		key, err = key.Derive(idx)
		if err != nil {
			return nil, fmt.Errorf("failed to derive key: %w", err)
		}
	}

	return key.ECPrivKey()
}

// Connect derives the wallet key and loads the account state
func (g *TradeHubGateway) Connect(ctx context.Context) (Session, error) {
	key, err := DeriveTradeHubKey(g.cfg.Mnemonic)
	if err != nil {
		return nil, err
	}

	address, err := SWTHAddressFromPubKey(key.PubKey())
	if err != nil {
		return nil, err
	}

	account, err := g.api.GetAccount(ctx, address)
	if err != nil {
		return nil, err
	}

	g.logger.Debug("TradeHub session opened",
		zap.String("address", address),
		zap.String("account_number", account.AccountNumber),
		zap.String("sequence", account.Sequence))

	return &TradeHubSession{
		key:           key,
		address:       address,
		accountNumber: account.AccountNumber,
		sequence:      account.Sequence,
	}, nil
}

// Amino JSON types. Field order is alphabetical, amino signs sorted JSON.
type coin struct {
	Amount string `json:"amount"`
	Denom  string `json:"denom"`
}

type stdFee struct {
	Amount []coin `json:"amount"`
	Gas    string `json:"gas"`
}

type stdMsg struct {
	Type  string                `json:"type"`
	Value types.WithdrawRequest `json:"value"`
}

type signDoc struct {
	AccountNumber string   `json:"account_number"`
	ChainID       string   `json:"chain_id"`
	Fee           stdFee   `json:"fee"`
	Memo          string   `json:"memo"`
	Msgs          []stdMsg `json:"msgs"`
	Sequence      string   `json:"sequence"`
}

type pubKey struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type stdSignature struct {
	PubKey    pubKey `json:"pub_key"`
	Signature string `json:"signature"`
}

type stdTx struct {
	Fee        stdFee         `json:"fee"`
	Memo       string         `json:"memo"`
	Msg        []stdMsg       `json:"msg"`
	Signatures []stdSignature `json:"signatures"`
}

// SubmitWithdraw signs a coin/MsgWithdraw and broadcasts it in block mode
func (g *TradeHubGateway) SubmitWithdraw(ctx context.Context, req types.WithdrawRequest, session Session) (*types.WithdrawResponse, error) {
	sess, ok := session.(*TradeHubSession)
	if !ok || sess == nil {
		return nil, fmt.Errorf("unsupported session type %T", session)
	}
	if req.Originator == "" {
		req.Originator = sess.address
	}

	tx, err := g.signWithdraw(req, sess)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(tx)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tx: %w", err)
	}

	g.logger.Debug("Broadcasting withdrawal",
		zap.String("denom", req.Denom),
		zap.String("amount", req.Amount),
		zap.String("to", req.ToAddress))

	return g.api.BroadcastTx(ctx, raw)
}

func (g *TradeHubGateway) signWithdraw(req types.WithdrawRequest, sess *TradeHubSession) (*stdTx, error) {
	fee := stdFee{Amount: []coin{{Amount: g.cfg.TxFee, Denom: g.cfg.FeeDenom}}, Gas: g.cfg.TxGas}
	msgs := []stdMsg{{Type: msgWithdrawType, Value: req}}

	doc, err := json.Marshal(signDoc{
		AccountNumber: sess.accountNumber,
		ChainID:       g.cfg.ChainID,
		Fee:           fee,
		Msgs:          msgs,
		Sequence:      sess.sequence,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode sign doc: %w", err)
	}

	hash := sha256.Sum256(doc)
	sig, err := ethcrypto.Sign(hash[:], sess.key.ToECDSA())
	if err != nil {
		return nil, fmt.Errorf("failed to sign withdrawal: %w", err)
	}

	sigs := []stdSignature{{
		PubKey: pubKey{
			Type:  "tendermint/PubKeySecp256k1",
			Value: base64.StdEncoding.EncodeToString(sess.key.PubKey().SerializeCompressed()),
		},
		// drop the recovery id, cosmos expects r||s
		Signature: base64.StdEncoding.EncodeToString(sig[:64]),
	}}

	return &stdTx{
		Fee:        fee,
		Msg:        msgs,
		Signatures: sigs,
	}, nil
}
