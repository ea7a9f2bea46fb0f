package gateway

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/ripemd160"
)

// Bech32 prefixes
const (
	ZilHRP  = "zil"
	SWTHHRP = "swth"
)

// ParsePrivateKey decodes a hex secp256k1 private key
func ParsePrivateKey(hexKey string) (*btcec.PrivateKey, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	if len(raw) != 32 {
		return nil, fmt.Errorf("invalid private key: expected 32 bytes, got %d", len(raw))
	}
	priv, _ := btcec.PrivKeyFromBytes(raw)
	return priv, nil
}

// ZilAddressFromPubKey returns the lower-case base16 Zilliqa address of a public key
func ZilAddressFromPubKey(pub *btcec.PublicKey) string {
	sum := sha256.Sum256(pub.SerializeCompressed())
	return hex.EncodeToString(sum[12:])
}

// ZilAddressFromPrivateKey returns the lower-case base16 Zilliqa address of a hex private key
func ZilAddressFromPrivateKey(hexKey string) (string, error) {
	priv, err := ParsePrivateKey(hexKey)
	if err != nil {
		return "", err
	}
	return ZilAddressFromPubKey(priv.PubKey()), nil
}

// ZilChecksumAddress returns the 0x-prefixed Zilliqa checksummed form of a base16 address
func ZilChecksumAddress(address string) (string, error) {
	address = strings.ToLower(strings.TrimPrefix(address, "0x"))
	raw, err := hex.DecodeString(address)
	if err != nil || len(raw) != 20 {
		return "", fmt.Errorf("invalid zilliqa address: %s", address)
	}

	sum := sha256.Sum256(raw)
	v := new(big.Int).SetBytes(sum[:])

	var b strings.Builder
	b.WriteString("0x")
	for i, c := range address {
		if c >= '0' && c <= '9' {
			b.WriteRune(c)
			continue
		}
		if v.Bit(255-6*i) == 1 {
			b.WriteString(strings.ToUpper(string(c)))
		} else {
			b.WriteRune(c)
		}
	}
	return b.String(), nil
}

// ZilBech32Address converts a base16 Zilliqa address to its zil1 form
func ZilBech32Address(address string) (string, error) {
	raw, err := hex.DecodeString(strings.ToLower(strings.TrimPrefix(address, "0x")))
	if err != nil || len(raw) != 20 {
		return "", fmt.Errorf("invalid zilliqa address: %s", address)
	}
	return encodeBech32(ZilHRP, raw)
}

// ZilBase16Address normalizes a zil1 bech32 or base16 Zilliqa address to lower-case base16
func ZilBase16Address(address string) (string, error) {
	address = strings.TrimSpace(address)
	if strings.HasPrefix(strings.ToLower(address), ZilHRP+"1") {
		hrp, data, err := bech32.Decode(address)
		if err != nil || hrp != ZilHRP {
			return "", fmt.Errorf("invalid zilliqa address: %s", address)
		}
		raw, err := bech32.ConvertBits(data, 5, 8, false)
		if err != nil || len(raw) != 20 {
			return "", fmt.Errorf("invalid zilliqa address: %s", address)
		}
		return hex.EncodeToString(raw), nil
	}

	address = strings.ToLower(strings.TrimPrefix(address, "0x"))
	if raw, err := hex.DecodeString(address); err != nil || len(raw) != 20 {
		return "", fmt.Errorf("invalid zilliqa address: %s", address)
	}
	return address, nil
}

// SWTHAddressBytes decodes a swth bech32 account into its 20 address bytes
func SWTHAddressBytes(address string) ([]byte, error) {
	hrp, data, err := bech32.Decode(address)
	if err != nil {
		return nil, fmt.Errorf("invalid swth address %s: %w", address, err)
	}
	if hrp != SWTHHRP && hrp != "t"+SWTHHRP {
		return nil, fmt.Errorf("invalid swth address %s: unexpected prefix %s", address, hrp)
	}
	raw, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return nil, fmt.Errorf("invalid swth address %s: %w", address, err)
	}
	return raw, nil
}

// SWTHAddressFromPubKey returns the swth bech32 account of a public key
func SWTHAddressFromPubKey(pub *btcec.PublicKey) (string, error) {
	sha := sha256.Sum256(pub.SerializeCompressed())
	h := ripemd160.New()
	h.Write(sha[:])
	return encodeBech32(SWTHHRP, h.Sum(nil))
}

// ChecksumDestAddress returns the EIP-55 checksummed destination address without 0x.
// TradeHub rejects withdrawals to non-checksummed addresses.
func ChecksumDestAddress(address string) (string, error) {
	if !common.IsHexAddress(address) {
		return "", fmt.Errorf("invalid destination address: %s", address)
	}
	return strings.TrimPrefix(common.HexToAddress(address).Hex(), "0x"), nil
}

func encodeBech32(hrp string, raw []byte) (string, error) {
	conv, err := bech32.ConvertBits(raw, 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("failed to convert bits: %w", err)
	}
	encoded, err := bech32.Encode(hrp, conv)
	if err != nil {
		return "", fmt.Errorf("bech32 encode failed: %w", err)
	}
	return encoded, nil
}
