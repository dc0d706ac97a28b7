// Package accounts describes deployer credentials without exposing them.
package accounts

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// ErrEmptySecret is returned for a credential variable that is set but blank.
var ErrEmptySecret = errors.New("account secret is empty")

// Account is the public view of one configured signer.
type Account struct {
	Index   int    `json:"index"`
	Address string `json:"address,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Address derives the signer address of a hex encoded private key.
func Address(secret string) (common.Address, error) {
	hexKey := strings.TrimPrefix(strings.TrimSpace(secret), "0x")
	if hexKey == "" {
		return common.Address{}, ErrEmptySecret
	}

	privateKey, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return common.Address{}, fmt.Errorf("parse private key: %w", err)
	}
	return crypto.PubkeyToAddress(privateKey.PublicKey), nil
}

// Describe returns one Account per secret. A secret that is not a valid key
// is reported in Error; signing with it will fail in the framework.
func Describe(secrets []string) []Account {
	out := make([]Account, 0, len(secrets))
	for i, secret := range secrets {
		account := Account{Index: i}
		addr, err := Address(secret)
		if err != nil {
			account.Error = err.Error()
		} else {
			account.Address = addr.Hex()
		}
		out = append(out, account)
	}
	return out
}
