package marketdata

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"pokelaunch/internal/domain"
	"pokelaunch/internal/observability"
	"pokelaunch/internal/solana"
	"pokelaunch/internal/storage"
	"pokelaunch/internal/tier"
)

// Source provides live market data.
type Source interface {
	Quotes(ctx context.Context, mints []string) (map[string]Quote, error)
	Holders(ctx context.Context, mint string) (int64, bool, error)
}

// SupplySource resolves on-chain mint supply.
type SupplySource interface {
	GetTokenSupply(ctx context.Context, mint string) (*solana.TokenSupply, error)
}

// Listener is notified with a fresh snapshot after every completed run.
type Listener interface {
	MarketRefreshed(ctx context.Context, tokens []domain.TokenRecord)
}

// Options configures a Refresher.
type Options struct {
	Store     storage.TokenStore
	Snapshots storage.MarketSnapshotStore // optional
	Source    Source                      // optional, nil disables live data
	Supply    SupplySource                // optional
	Listener  Listener                    // optional
	Interval  time.Duration
	Simulate  bool // random walk for records without a mint
	Seed      int64
	Now       func() time.Time
	Logger    *zap.Logger
}

// Result summarizes one refresh run.
type Result struct {
	Live      int  // records updated from the live source
	Simulated int  // records moved by the demo walk
	Snapshots int  // snapshots written
	Skipped   bool // a run was already in progress
}

// Refresher periodically updates market data on stored records.
type Refresher struct {
	opts Options
	rng  *rand.Rand
	log  *zap.Logger

	mu      sync.Mutex
	running bool
	lastRun time.Time
	runs    int
}

// NewRefresher creates a Refresher. Store is required.
func NewRefresher(opts Options) *Refresher {
	if opts.Interval <= 0 {
		opts.Interval = time.Minute
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Refresher{
		opts: opts,
		rng:  rand.New(rand.NewSource(seed)),
		log:  opts.Logger,
	}
}

// Run refreshes immediately and then on every interval until ctx is done.
func (r *Refresher) Run(ctx context.Context) error {
	r.log.Info("starting market refresher",
		zap.Duration("interval", r.opts.Interval),
		zap.Bool("simulate", r.opts.Simulate),
		zap.Bool("live", r.opts.Source != nil),
	)

	r.tick(ctx)

	ticker := time.NewTicker(r.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

func (r *Refresher) tick(ctx context.Context) {
	res, err := r.RunOnce(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		r.log.Warn("market refresh failed", zap.Error(err))
		return
	}
	if res.Skipped {
		return
	}
	r.log.Debug("market refresh complete",
		zap.Int("live", res.Live),
		zap.Int("simulated", res.Simulated),
		zap.Int("snapshots", res.Snapshots),
	)
}

// Status reports whether a run is in progress, when the last one finished
// and how many have completed.
func (r *Refresher) Status() (running bool, lastRun time.Time, runs int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running, r.lastRun, r.runs
}

// RunOnce performs a single refresh. Overlapping calls return a skipped
// Result without doing any work.
func (r *Refresher) RunOnce(ctx context.Context) (Result, error) {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		observability.RecordRefreshSkipped()
		r.log.Debug("refresh already running, skipping")
		return Result{Skipped: true}, nil
	}
	r.running = true
	r.mu.Unlock()

	start := time.Now()
	res, err := r.refresh(ctx)

	r.mu.Lock()
	r.running = false
	r.lastRun = r.opts.Now()
	r.runs++
	r.mu.Unlock()

	status := "success"
	if err != nil {
		status = "error"
	}
	observability.RecordRefreshRun(status, time.Since(start).Seconds(), r.opts.Now().Unix())
	return res, err
}

func (r *Refresher) refresh(ctx context.Context) (Result, error) {
	var res Result

	tokens, err := r.opts.Store.List(ctx)
	if err != nil {
		return res, fmt.Errorf("list tokens: %w", err)
	}

	nowMs := r.opts.Now().UnixMilli()
	updates := make(map[string]domain.MarketUpdate, len(tokens))

	if r.opts.Source != nil {
		live, err := r.liveUpdates(ctx, tokens, nowMs)
		if err != nil {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			// Partial batches still apply.
			r.log.Warn("live market data incomplete", zap.Error(err))
		}
		for id, u := range live {
			updates[id] = u
		}
		res.Live = len(live)
	}

	if r.opts.Simulate {
		for i := range tokens {
			t := &tokens[i]
			if t.Mint() != "" {
				continue
			}
			mc, change := RandomWalk(t.MarketCap, r.rng.Float64())
			updates[t.ID] = domain.MarketUpdate{
				MarketCap:      mc,
				PriceUSD:       mc / DefaultTokenSupply,
				Volume24h:      t.Volume24h,
				PriceChange24h: change,
				UpdatedAt:      nowMs,
			}
			res.Simulated++
		}
	}

	snapshots := make([]*domain.MarketSnapshot, 0, len(updates))
	for i := range tokens {
		t := &tokens[i]
		u, ok := updates[t.ID]
		if !ok {
			continue
		}
		if err := r.opts.Store.UpdateMarketData(ctx, t.ID, u); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				continue
			}
			return res, fmt.Errorf("update %s: %w", t.ID, err)
		}
		t.Apply(u)
		snapshots = append(snapshots, &domain.MarketSnapshot{
			TokenID:     t.ID,
			TimestampMs: nowMs,
			MarketCap:   t.MarketCap,
			PriceUSD:    t.PriceUSD,
			Volume24h:   t.Volume24h,
			Holders:     t.Holders(),
			Stage:       tier.TokenStage(*t),
		})
	}
	observability.RecordTokensRefreshed("live", res.Live)
	observability.RecordTokensRefreshed("simulated", res.Simulated)

	if r.opts.Snapshots != nil && len(snapshots) > 0 {
		if err := r.opts.Snapshots.InsertBulk(ctx, snapshots); err != nil {
			r.log.Warn("store market snapshots", zap.Error(err), zap.Int("count", len(snapshots)))
		} else {
			res.Snapshots = len(snapshots)
			observability.RecordSnapshotsStored(len(snapshots))
		}
	}

	if r.opts.Listener != nil {
		r.opts.Listener.MarketRefreshed(ctx, tokens)
	}

	return res, nil
}

// liveUpdates builds updates for records with a mint address and a quote.
func (r *Refresher) liveUpdates(ctx context.Context, tokens []domain.TokenRecord, nowMs int64) (map[string]domain.MarketUpdate, error) {
	byMint := make(map[string]*domain.TokenRecord)
	mints := make([]string, 0, len(tokens))
	for i := range tokens {
		if m := tokens[i].Mint(); m != "" {
			if _, dup := byMint[m]; !dup {
				mints = append(mints, m)
			}
			byMint[m] = &tokens[i]
		}
	}
	if len(mints) == 0 {
		return nil, nil
	}

	quotes, qerr := r.opts.Source.Quotes(ctx, mints)
	updates := make(map[string]domain.MarketUpdate, len(quotes))

	for _, mint := range mints {
		q, ok := quotes[mint]
		if !ok {
			continue
		}
		t := byMint[mint]

		mc := q.MarketCap
		if mc <= 0 {
			mc = MarketCapFromPrice(q.PriceUSD, r.supply(ctx, mint))
		}

		u := domain.MarketUpdate{
			MarketCap:      mc,
			PriceUSD:       q.PriceUSD,
			Volume24h:      q.Volume24h,
			PriceChange24h: q.PriceChange24h,
			UpdatedAt:      nowMs,
		}
		if holders, ok, err := r.opts.Source.Holders(ctx, mint); err != nil {
			r.log.Debug("holder lookup failed", zap.String("mint", mint), zap.Error(err))
		} else if ok {
			u.HolderCount = &holders
		}
		updates[t.ID] = u
	}

	return updates, qerr
}

func (r *Refresher) supply(ctx context.Context, mint string) float64 {
	if r.opts.Supply == nil {
		return DefaultTokenSupply
	}
	s, err := r.opts.Supply.GetTokenSupply(ctx, mint)
	if err != nil || s == nil || s.UIAmount <= 0 {
		return DefaultTokenSupply
	}
	return s.UIAmount
}
