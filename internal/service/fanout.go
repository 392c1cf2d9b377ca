package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"pokelaunch/internal/domain"
	"pokelaunch/internal/leaderboard"
	"pokelaunch/internal/observability"
	"pokelaunch/internal/publish"
)

// MessageLeaderboard is the push message type carrying a LeaderboardEvent.
const MessageLeaderboard = "leaderboard"

// Broadcaster pushes a typed message to connected clients.
type Broadcaster interface {
	Broadcast(msgType string, payload interface{})
}

// EventPublisher delivers leaderboard events downstream.
type EventPublisher interface {
	Publish(ctx context.Context, evt publish.LeaderboardEvent) error
}

// Fanout rebuilds the creator leaderboard after every market refresh and
// distributes it. Both sinks are optional.
type Fanout struct {
	hub Broadcaster
	pub EventPublisher
	now func() time.Time
	log *zap.Logger
}

// NewFanout creates a Fanout.
func NewFanout(hub Broadcaster, pub EventPublisher, log *zap.Logger) *Fanout {
	if log == nil {
		log = zap.NewNop()
	}
	return &Fanout{hub: hub, pub: pub, now: time.Now, log: log}
}

// MarketRefreshed implements marketdata.Listener.
func (f *Fanout) MarketRefreshed(ctx context.Context, tokens []domain.TokenRecord) {
	board := leaderboard.BuildCreatorLeaderboard(tokens)
	s := leaderboard.Summarize(board)
	observability.RecordLeaderboardBuild(s.Tokens, s.Creators, s.RewardPool)

	evt := publish.NewLeaderboardEvent(board, f.now())

	if f.hub != nil {
		f.hub.Broadcast(MessageLeaderboard, evt)
	}
	if f.pub != nil {
		if err := f.pub.Publish(ctx, evt); err != nil {
			f.log.Warn("publish leaderboard event", zap.String("event_id", evt.ID), zap.Error(err))
		}
	}

	f.log.Debug("leaderboard distributed",
		zap.Int("creators", s.Creators),
		zap.Int("tokens", s.Tokens),
		zap.Float64("reward_pool", s.RewardPool),
	)
}
