package gateway

import (
	"fmt"
	"math/big"

	"google.golang.org/protobuf/encoding/protowire"
)

// txCoreInfo mirrors the ProtoTransactionCoreInfo message that Zilliqa signs:
//
//	version=1 nonce=2 toaddr=3 senderpubkey=4 amount=5 gasprice=6 gaslimit=7 code=8 data=9
//
// senderpubkey, amount and gasprice are ByteArray{data=1} sub-messages.
type txCoreInfo struct {
	Version  uint32
	Nonce    uint64
	ToAddr   []byte
	PubKey   []byte
	Amount   *big.Int
	GasPrice *big.Int
	GasLimit uint64
	Code     string
	Data     string
}

func (t txCoreInfo) marshal() ([]byte, error) {
	amount, err := uint128Bytes(t.Amount)
	if err != nil {
		return nil, fmt.Errorf("amount: %w", err)
	}
	gasPrice, err := uint128Bytes(t.GasPrice)
	if err != nil {
		return nil, fmt.Errorf("gas price: %w", err)
	}

	var b []byte
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(t.Version))
	b = protowire.AppendTag(b, 2, protowire.VarintType)
	b = protowire.AppendVarint(b, t.Nonce)
	b = protowire.AppendTag(b, 3, protowire.BytesType)
	b = protowire.AppendBytes(b, t.ToAddr)
	b = appendByteArray(b, 4, t.PubKey)
	b = appendByteArray(b, 5, amount)
	b = appendByteArray(b, 6, gasPrice)
	b = protowire.AppendTag(b, 7, protowire.VarintType)
	b = protowire.AppendVarint(b, t.GasLimit)
	if t.Code != "" {
		b = protowire.AppendTag(b, 8, protowire.BytesType)
		b = protowire.AppendString(b, t.Code)
	}
	if t.Data != "" {
		b = protowire.AppendTag(b, 9, protowire.BytesType)
		b = protowire.AppendString(b, t.Data)
	}
	return b, nil
}

func appendByteArray(b []byte, num protowire.Number, data []byte) []byte {
	var inner []byte
	inner = protowire.AppendTag(inner, 1, protowire.BytesType)
	inner = protowire.AppendBytes(inner, data)

	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, inner)
}

// uint128Bytes encodes v as 16 big-endian bytes
func uint128Bytes(v *big.Int) ([]byte, error) {
	if v == nil {
		v = new(big.Int)
	}
	if v.Sign() < 0 || v.BitLen() > 128 {
		return nil, fmt.Errorf("value %s does not fit in uint128", v)
	}
	return v.FillBytes(make([]byte, 16)), nil
}
