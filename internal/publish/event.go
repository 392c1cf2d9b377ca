// Package publish emits leaderboard snapshots to Kafka.
package publish

import (
	"time"

	"github.com/google/uuid"

	"pokelaunch/internal/domain"
	"pokelaunch/internal/leaderboard"
	"pokelaunch/internal/tier"
)

// EventTypeLeaderboard identifies leaderboard snapshot events.
const EventTypeLeaderboard = "leaderboard.snapshot"

// SchemaVersion is the current LeaderboardEvent payload version.
const SchemaVersion = "v1"

// CreatorEntry is one ranked creator inside a LeaderboardEvent.
type CreatorEntry struct {
	Creator         string  `json:"creator"`
	Rank            int     `json:"rank"`
	Badge           string  `json:"badge"`
	Tokens          int     `json:"tokens"`
	TotalMarketCap  float64 `json:"totalMarketCap"`
	TotalPopularity int64   `json:"totalPopularity"`
	RewardAmount    float64 `json:"rewardAmount"`
	TopTokenID      string  `json:"topTokenId"`
	MaxStage        int     `json:"maxStage"`
}

// LeaderboardEvent is a point-in-time creator ranking.
type LeaderboardEvent struct {
	ID             string         `json:"id"`
	Type           string         `json:"type"`
	SchemaVersion  string         `json:"schemaVersion"`
	GeneratedAt    int64          `json:"generatedAt"` // ms
	Tokens         int            `json:"tokens"`
	TotalMarketCap float64        `json:"totalMarketCap"`
	RewardPool     float64        `json:"rewardPool"`
	Creators       []CreatorEntry `json:"creators"`
}

// NewLeaderboardEvent captures a built leaderboard as an event.
func NewLeaderboardEvent(board []domain.CreatorAggregate, at time.Time) LeaderboardEvent {
	summary := leaderboard.Summarize(board)
	evt := LeaderboardEvent{
		ID:             uuid.NewString(),
		Type:           EventTypeLeaderboard,
		SchemaVersion:  SchemaVersion,
		GeneratedAt:    at.UnixMilli(),
		Tokens:         summary.Tokens,
		TotalMarketCap: summary.TotalMarketCap,
		RewardPool:     summary.RewardPool,
		Creators:       make([]CreatorEntry, 0, len(board)),
	}
	for i := range board {
		agg := &board[i]
		evt.Creators = append(evt.Creators, CreatorEntry{
			Creator:         agg.CreatorIdentity,
			Rank:            agg.Rank,
			Badge:           string(tier.RankBadge(agg.Rank)),
			Tokens:          len(agg.Tokens),
			TotalMarketCap:  agg.TotalMarketCap,
			TotalPopularity: agg.TotalPopularity,
			RewardAmount:    agg.RewardAmount,
			TopTokenID:      agg.TopToken.ID,
			MaxStage:        int(agg.MaxStage(tier.EvolutionStageFor)),
		})
	}
	return evt
}
