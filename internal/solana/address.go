package solana

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"io"
	"strings"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// ErrInvalidAddress is returned for strings that are not Solana public keys.
var ErrInvalidAddress = errors.New("invalid solana address")

// PublicKeyLength is the byte length of a Solana public key.
const PublicKeyLength = 32

// DecodeAddress decodes a base58 public key and checks its length.
func DecodeAddress(addr string) ([]byte, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidAddress)
	}
	raw, err := base58.Decode(addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if len(raw) != PublicKeyLength {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidAddress, len(raw))
	}
	return raw, nil
}

// ValidateMint checks that addr is a well-formed public key. Mints may be
// program derived, so the curve is not checked.
func ValidateMint(addr string) error {
	_, err := DecodeAddress(addr)
	return err
}

// ValidateWallet checks that addr is a well-formed public key on the
// ed25519 curve, as every keypair-owned wallet is.
func ValidateWallet(addr string) error {
	raw, err := DecodeAddress(addr)
	if err != nil {
		return err
	}
	if !IsOnCurve(raw) {
		return fmt.Errorf("%w: off curve", ErrInvalidAddress)
	}
	return nil
}

// IsOnCurve reports whether point decodes to an ed25519 curve point.
func IsOnCurve(point []byte) bool {
	if len(point) != PublicKeyLength {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(point)
	return err == nil
}

// NewWalletAddress generates a throwaway wallet public key from rand.
// Used for demo data; the private key is discarded.
func NewWalletAddress(rand io.Reader) (string, error) {
	pub, _, err := ed25519.GenerateKey(rand)
	if err != nil {
		return "", fmt.Errorf("generate wallet key: %w", err)
	}
	return base58.Encode(pub), nil
}
