package solana

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeAddress(t *testing.T) {
	raw, err := DecodeAddress("So11111111111111111111111111111111111111112")
	require.NoError(t, err)
	assert.Len(t, raw, PublicKeyLength)

	for _, bad := range []string{"", "   ", "0OIl", "abc", "So1111111111111111111111111111111111111111211111"} {
		_, err := DecodeAddress(bad)
		assert.True(t, errors.Is(err, ErrInvalidAddress), "input %q", bad)
	}
}

func TestValidateMint(t *testing.T) {
	assert.NoError(t, ValidateMint(TokenProgramID))
	assert.Error(t, ValidateMint("not-a-mint"))
}

func TestValidateWallet(t *testing.T) {
	wallet, err := NewWalletAddress(bytes.NewReader(bytes.Repeat([]byte{7}, 64)))
	require.NoError(t, err)
	assert.NoError(t, ValidateWallet(wallet))

	// Deterministic seed yields the same address.
	again, err := NewWalletAddress(bytes.NewReader(bytes.Repeat([]byte{7}, 64)))
	require.NoError(t, err)
	assert.Equal(t, wallet, again)
}

func TestIsOnCurve(t *testing.T) {
	raw, err := DecodeAddress("11111111111111111111111111111111")
	require.NoError(t, err)
	// The all-zero key encodes y = 0, a valid curve point.
	assert.True(t, IsOnCurve(raw))

	assert.False(t, IsOnCurve([]byte{1, 2, 3}))
}
