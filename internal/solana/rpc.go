package solana

import "context"

// RPCClient defines the Solana JSON-RPC calls used for mint checks and
// market cap derivation.
type RPCClient interface {
	// GetSlot returns the current slot.
	GetSlot(ctx context.Context) (int64, error)

	// GetAccountInfo returns account info, or nil if the account does not exist.
	GetAccountInfo(ctx context.Context, pubkey string) (*AccountInfo, error)

	// GetTokenSupply returns the UI supply of an SPL mint.
	GetTokenSupply(ctx context.Context, mint string) (*TokenSupply, error)
}

// SPL token program owners a mint account may have.
const (
	TokenProgramID     = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
	Token2022ProgramID = "TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb"
)

// IsTokenProgram reports whether owner is an SPL token program.
func IsTokenProgram(owner string) bool {
	return owner == TokenProgramID || owner == Token2022ProgramID
}
