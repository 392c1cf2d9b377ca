package solana

// AccountInfo represents Solana account information.
type AccountInfo struct {
	Lamports   uint64 `json:"lamports"`
	Owner      string `json:"owner"`
	Data       string `json:"data"` // base64 encoded
	Executable bool   `json:"executable"`
	RentEpoch  uint64 `json:"rentEpoch"`
}

// TokenSupply is the result of getTokenSupply.
type TokenSupply struct {
	Amount   string  // raw amount as decimal string
	Decimals int     // mint decimals
	UIAmount float64 // amount adjusted for decimals
}
