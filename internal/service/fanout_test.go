package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pokelaunch/internal/domain"
	"pokelaunch/internal/publish"
	"pokelaunch/internal/seed"
)

type captureHub struct {
	mu       sync.Mutex
	types    []string
	payloads []interface{}
}

func (h *captureHub) Broadcast(msgType string, payload interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.types = append(h.types, msgType)
	h.payloads = append(h.payloads, payload)
}

type capturePublisher struct {
	events []publish.LeaderboardEvent
	err    error
}

func (p *capturePublisher) Publish(_ context.Context, evt publish.LeaderboardEvent) error {
	p.events = append(p.events, evt)
	return p.err
}

func TestFanout_MarketRefreshed(t *testing.T) {
	records, err := seed.Tokens(4, 9, time.Now())
	require.NoError(t, err)

	hub := &captureHub{}
	pub := &capturePublisher{}
	f := NewFanout(hub, pub, nil)
	f.now = func() time.Time { return fixedNow }

	f.MarketRefreshed(context.Background(), records)

	require.Equal(t, []string{MessageLeaderboard}, hub.types)
	evt, ok := hub.payloads[0].(publish.LeaderboardEvent)
	require.True(t, ok)
	assert.Equal(t, 9, evt.Tokens)
	assert.Equal(t, fixedNow.UnixMilli(), evt.GeneratedAt)
	require.Len(t, pub.events, 1)
	assert.Equal(t, evt.ID, pub.events[0].ID)
}

func TestFanout_PublishErrorIsNotFatal(t *testing.T) {
	hub := &captureHub{}
	f := NewFanout(hub, &capturePublisher{err: errors.New("broker down")}, nil)

	f.MarketRefreshed(context.Background(), []domain.TokenRecord{})

	assert.Len(t, hub.types, 1)
}

func TestFanout_NoSinks(t *testing.T) {
	f := NewFanout(nil, nil, nil)
	assert.NotPanics(t, func() {
		f.MarketRefreshed(context.Background(), nil)
	})
}
