package stub

import (
	"context"
	"errors"
	"sync"

	"pokelaunch/internal/solana"
)

// ErrNotFound is returned when a mint has no supply entry.
var ErrNotFound = errors.New("not found")

// RPCClient implements solana.RPCClient for testing.
type RPCClient struct {
	mu       sync.Mutex
	Slot     int64
	Accounts map[string]*solana.AccountInfo
	Supplies map[string]*solana.TokenSupply
	Calls    map[string]int
}

// NewRPCClient creates a new stub RPC client.
func NewRPCClient() *RPCClient {
	return &RPCClient{
		Accounts: make(map[string]*solana.AccountInfo),
		Supplies: make(map[string]*solana.TokenSupply),
		Calls:    make(map[string]int),
	}
}

// AddMint registers a mint owned by the SPL token program with the given UI supply.
func (c *RPCClient) AddMint(mint string, supply float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Accounts[mint] = &solana.AccountInfo{Owner: solana.TokenProgramID, Lamports: 1_461_600}
	c.Supplies[mint] = &solana.TokenSupply{Decimals: 6, UIAmount: supply}
}

// GetSlot returns the configured slot.
func (c *RPCClient) GetSlot(_ context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls["getSlot"]++
	return c.Slot, nil
}

// GetAccountInfo returns the registered account or nil.
func (c *RPCClient) GetAccountInfo(_ context.Context, pubkey string) (*solana.AccountInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls["getAccountInfo"]++
	info, ok := c.Accounts[pubkey]
	if !ok {
		return nil, nil
	}
	infoCopy := *info
	return &infoCopy, nil
}

// GetTokenSupply returns the registered supply or ErrNotFound.
func (c *RPCClient) GetTokenSupply(_ context.Context, mint string) (*solana.TokenSupply, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls["getTokenSupply"]++
	supply, ok := c.Supplies[mint]
	if !ok {
		return nil, ErrNotFound
	}
	supplyCopy := *supply
	return &supplyCopy, nil
}

var _ solana.RPCClient = (*RPCClient)(nil)
