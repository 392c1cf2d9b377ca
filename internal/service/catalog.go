// Package service exposes the token catalog to the HTTP and CLI surfaces.
// It loads snapshots from storage and hands them to the pure ranking and
// selection packages.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"

	"pokelaunch/internal/domain"
	"pokelaunch/internal/leaderboard"
	"pokelaunch/internal/observability"
	"pokelaunch/internal/selection"
	"pokelaunch/internal/solana"
	"pokelaunch/internal/storage"
)

// Launch limits.
const (
	MaxNameLength   = 32
	MaxTickerLength = 10
	MaxMoves        = 4
	MaxHP           = 999
	MaxDamage       = 999
	DefaultHP       = 100
)

const pumpBaseURL = "https://pump.fun/"

// Options configures a Catalog.
type Options struct {
	Tokens    storage.TokenStore
	Templates storage.TemplateStore       // optional
	Snapshots storage.MarketSnapshotStore // optional
	RPC       solana.RPCClient            // optional, verifies mint accounts
	Now       func() time.Time
	Logger    *zap.Logger
}

// Catalog serves token listings, launches and leaderboards.
type Catalog struct {
	tokens    storage.TokenStore
	templates storage.TemplateStore
	snapshots storage.MarketSnapshotStore
	rpc       solana.RPCClient
	now       func() time.Time
	log       *zap.Logger
}

// New creates a Catalog. Tokens is required.
func New(opts Options) *Catalog {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Catalog{
		tokens:    opts.Tokens,
		templates: opts.Templates,
		snapshots: opts.Snapshots,
		rpc:       opts.RPC,
		now:       opts.Now,
		log:       opts.Logger,
	}
}

// Tokens returns the records selected by a raw filter key. The second value
// reports whether the key was recognized; unknown keys list everything.
func (c *Catalog) Tokens(ctx context.Context, filter string) ([]domain.TokenRecord, bool, error) {
	all, err := c.tokens.List(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("list tokens: %w", err)
	}
	out, known := selection.Select(all, filter)
	if !known {
		c.log.Debug("unknown filter key", zap.String("filter", filter))
	}
	return out, known, nil
}

// Token returns one record by id.
func (c *Catalog) Token(ctx context.Context, id string) (*domain.TokenRecord, error) {
	return c.tokens.GetByID(ctx, id)
}

// History returns stored market snapshots of a token within [start, end].
// A zero end means now.
func (c *Catalog) History(ctx context.Context, id string, start, end int64) ([]*domain.MarketSnapshot, error) {
	if _, err := c.tokens.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if c.snapshots == nil {
		return []*domain.MarketSnapshot{}, nil
	}
	if end <= 0 {
		end = c.now().UnixMilli()
	}
	if start > end {
		return nil, fmt.Errorf("%w: start after end", storage.ErrInvalidInput)
	}
	return c.snapshots.GetByTimeRange(ctx, id, start, end)
}

// Leaderboard builds the creator leaderboard from the current snapshot and
// re-sorts it for display. Ranks keep the popularity order.
func (c *Catalog) Leaderboard(ctx context.Context, field leaderboard.CreatorField, dir leaderboard.Direction) ([]domain.CreatorAggregate, error) {
	all, err := c.tokens.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tokens: %w", err)
	}
	board := leaderboard.BuildCreatorLeaderboard(all)
	s := leaderboard.Summarize(board)
	observability.RecordLeaderboardBuild(s.Tokens, s.Creators, s.RewardPool)
	return leaderboard.SortCreators(board, field, dir), nil
}

// TokenLeaderboard returns every record sorted by field.
func (c *Catalog) TokenLeaderboard(ctx context.Context, field leaderboard.TokenField, dir leaderboard.Direction) ([]domain.TokenRecord, error) {
	all, err := c.tokens.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tokens: %w", err)
	}
	return leaderboard.SortTokens(all, field, dir), nil
}

// Templates lists the starter card templates.
func (c *Catalog) Templates(ctx context.Context) ([]domain.Template, error) {
	if c.templates == nil {
		return []domain.Template{}, nil
	}
	return c.templates.List(ctx)
}

// LaunchRequest describes a new token card.
type LaunchRequest struct {
	TemplateID       string        `json:"templateId,omitempty"`
	Name             string        `json:"name"`
	Ticker           string        `json:"ticker"`
	Description      string        `json:"description,omitempty"`
	Category         string        `json:"category,omitempty"`
	Rarity           string        `json:"rarity,omitempty"`
	HP               int           `json:"hp,omitempty"`
	ImageURL         string        `json:"imageUrl,omitempty"`
	Moves            []domain.Move `json:"moves,omitempty"`
	CreatorWallet    string        `json:"creatorWallet,omitempty"`
	MintAddress      string        `json:"mintAddress,omitempty"`
	TwitterLink      string        `json:"twitterLink,omitempty"`
	InitialMarketCap float64       `json:"initialMarketCap,omitempty"`
}

// Launch validates req and appends a new record. Unknown category labels
// fall back to Meme and unknown rarities to Common. Invalid input is
// reported as storage.ErrInvalidInput.
func (c *Catalog) Launch(ctx context.Context, req LaunchRequest) (*domain.TokenRecord, error) {
	if req.TemplateID != "" {
		if err := c.applyTemplate(ctx, &req); err != nil {
			return nil, err
		}
	}

	if err := validateLaunch(&req); err != nil {
		return nil, err
	}

	if req.MintAddress != "" {
		if err := c.checkMint(ctx, req.MintAddress); err != nil {
			return nil, err
		}
	}

	nowMs := c.now().UnixMilli()
	rec := &domain.TokenRecord{
		ID:            domain.NewTokenID(),
		Name:          req.Name,
		Ticker:        req.Ticker,
		Description:   req.Description,
		Category:      domain.CategoryOrDefault(req.Category),
		Rarity:        domain.RarityOrDefault(req.Rarity),
		HP:            req.HP,
		ImageURL:      req.ImageURL,
		Moves:         req.Moves,
		MarketCap:     req.InitialMarketCap,
		CreatorWallet: req.CreatorWallet,
		TwitterLink:   req.TwitterLink,
		CreatedAt:     nowMs,
		UpdatedAt:     nowMs,
	}
	if req.MintAddress != "" {
		mint := req.MintAddress
		rec.MintAddress = &mint
		rec.PumpURL = pumpBaseURL + mint
	} else {
		rec.PumpURL = pumpBaseURL + "launch/" + rec.ID
	}

	if err := rec.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrInvalidInput, err)
	}
	if err := c.tokens.Append(ctx, rec); err != nil {
		return nil, fmt.Errorf("append token: %w", err)
	}

	observability.RecordTokenLaunched()
	c.log.Info("token launched",
		zap.String("id", rec.ID),
		zap.String("ticker", rec.Ticker),
		zap.String("creator", rec.CreatorWallet),
		zap.Bool("on_chain", rec.MintAddress != nil),
	)
	return rec, nil
}

func (c *Catalog) applyTemplate(ctx context.Context, req *LaunchRequest) error {
	templates, err := c.Templates(ctx)
	if err != nil {
		return fmt.Errorf("list templates: %w", err)
	}
	for _, t := range templates {
		if t.ID != req.TemplateID {
			continue
		}
		if req.Category == "" {
			req.Category = string(t.Category)
		}
		if req.Rarity == "" {
			req.Rarity = string(t.Rarity)
		}
		if req.HP == 0 {
			req.HP = t.HP
		}
		if req.ImageURL == "" {
			req.ImageURL = t.ImageURL
		}
		if len(req.Moves) == 0 {
			req.Moves = append([]domain.Move(nil), t.BaseMoves...)
		}
		return nil
	}
	return fmt.Errorf("%w: unknown template %q", storage.ErrInvalidInput, req.TemplateID)
}

func validateLaunch(req *LaunchRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Ticker = strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(req.Ticker), "$")))
	req.CreatorWallet = strings.TrimSpace(req.CreatorWallet)
	req.MintAddress = strings.TrimSpace(req.MintAddress)

	switch {
	case req.Name == "":
		return invalid("name is required")
	case len(req.Name) > MaxNameLength:
		return invalid("name longer than %d characters", MaxNameLength)
	case req.Ticker == "":
		return invalid("ticker is required")
	case len(req.Ticker) > MaxTickerLength:
		return invalid("ticker longer than %d characters", MaxTickerLength)
	}
	for _, r := range req.Ticker {
		if !unicode.IsUpper(r) && !unicode.IsDigit(r) {
			return invalid("ticker must be letters and digits")
		}
	}

	if req.HP == 0 {
		req.HP = DefaultHP
	}
	if req.HP < 1 || req.HP > MaxHP {
		return invalid("hp must be between 1 and %d", MaxHP)
	}

	if len(req.Moves) > MaxMoves {
		return invalid("at most %d moves", MaxMoves)
	}
	for i, m := range req.Moves {
		if strings.TrimSpace(m.Name) == "" {
			return invalid("move %d has no name", i+1)
		}
		if m.Damage < 0 || m.Damage > MaxDamage {
			return invalid("move %q damage must be between 0 and %d", m.Name, MaxDamage)
		}
	}

	if req.InitialMarketCap < 0 {
		return invalid("initial market cap must be >= 0")
	}

	if req.CreatorWallet != "" {
		if err := solana.ValidateWallet(req.CreatorWallet); err != nil {
			return fmt.Errorf("%w: creator wallet: %v", storage.ErrInvalidInput, err)
		}
	}
	if req.MintAddress != "" {
		if err := solana.ValidateMint(req.MintAddress); err != nil {
			return fmt.Errorf("%w: mint address: %v", storage.ErrInvalidInput, err)
		}
	}
	return nil
}

// checkMint rejects mints that are already listed or, when an RPC client
// is configured, that do not exist as SPL token accounts.
func (c *Catalog) checkMint(ctx context.Context, mint string) error {
	_, err := c.tokens.GetByMint(ctx, mint)
	switch {
	case err == nil:
		return fmt.Errorf("%w: mint %s already listed", storage.ErrDuplicateKey, mint)
	case !errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("lookup mint: %w", err)
	}

	if c.rpc == nil {
		return nil
	}
	info, err := c.rpc.GetAccountInfo(ctx, mint)
	if err != nil {
		return fmt.Errorf("get mint account: %w", err)
	}
	if info == nil {
		return invalid("mint %s not found on chain", mint)
	}
	if !solana.IsTokenProgram(info.Owner) {
		return invalid("account %s is not a token mint", mint)
	}
	return nil
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", storage.ErrInvalidInput, fmt.Sprintf(format, args...))
}
