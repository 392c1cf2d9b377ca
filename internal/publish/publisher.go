package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"pokelaunch/internal/observability"
)

// DefaultTopic receives leaderboard snapshots.
const DefaultTopic = "pokelaunch.leaderboard"

// Config holds the Kafka publishing options.
type Config struct {
	Enabled      bool
	Brokers      []string
	Topic        string
	Acks         int
	WriteTimeout time.Duration
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

const queueSize = 64

var (
	errNotStarted = errors.New("publisher not started")
	errStopped    = errors.New("publisher stopped")
)

// Publisher delivers leaderboard events to Kafka from a background loop.
// A disabled Publisher accepts and drops every event.
type Publisher struct {
	cfg     Config
	log     *zap.Logger
	writer  messageWriter
	enabled bool

	queue     chan kafka.Message
	runCtx    context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	startOnce sync.Once
	stopOnce  sync.Once
	started   atomic.Bool
}

// NewPublisher builds a Publisher backed by a kafka.Writer.
func NewPublisher(cfg Config, log *zap.Logger) (*Publisher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if !cfg.Enabled {
		log.Info("leaderboard publisher disabled")
		return &Publisher{cfg: cfg, log: log}, nil
	}
	if strings.TrimSpace(cfg.Topic) == "" {
		cfg.Topic = DefaultTopic
	}
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("at least one kafka broker is required")
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		RequiredAcks:           kafka.RequiredAcks(cfg.Acks),
		Balancer:               &kafka.Hash{},
		WriteTimeout:           cfg.WriteTimeout,
		AllowAutoTopicCreation: true,
	}
	return newPublisherWithWriter(cfg, log, w), nil
}

func newPublisherWithWriter(cfg Config, log *zap.Logger, w messageWriter) *Publisher {
	return &Publisher{
		cfg:     cfg,
		log:     log.With(zap.String("topic", cfg.Topic)),
		writer:  w,
		enabled: true,
		queue:   make(chan kafka.Message, queueSize),
	}
}

// Enabled reports whether events are delivered.
func (p *Publisher) Enabled() bool {
	return p.enabled
}

// Start launches the delivery loop.
func (p *Publisher) Start(ctx context.Context) {
	if !p.enabled {
		return
	}
	p.startOnce.Do(func() {
		p.runCtx, p.cancel = context.WithCancel(ctx)
		p.started.Store(true)
		p.wg.Add(1)
		go p.run()
		p.log.Info("leaderboard publisher started")
	})
}

// Stop drains queued events and closes the writer.
func (p *Publisher) Stop(ctx context.Context) error {
	if !p.enabled {
		return nil
	}
	var stopErr error
	p.stopOnce.Do(func() {
		if p.cancel != nil {
			p.cancel()
		}
		done := make(chan struct{})
		go func() {
			p.wg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-ctx.Done():
			stopErr = ctx.Err()
		}
		if err := p.writer.Close(); err != nil {
			p.log.Warn("close kafka writer", zap.Error(err))
		}
		p.log.Info("leaderboard publisher stopped")
	})
	return stopErr
}

// Publish queues evt for delivery, keyed by its id.
func (p *Publisher) Publish(ctx context.Context, evt LeaderboardEvent) error {
	if !p.enabled {
		return nil
	}
	if !p.started.Load() {
		return errNotStarted
	}
	value, err := json.Marshal(evt)
	if err != nil {
		observability.RecordEventPublished(err)
		return fmt.Errorf("encode leaderboard event: %w", err)
	}
	msg := kafka.Message{Key: []byte(evt.ID), Value: value, Time: time.UnixMilli(evt.GeneratedAt)}

	select {
	case p.queue <- msg:
		return nil
	case <-ctx.Done():
		observability.RecordEventPublished(ctx.Err())
		return ctx.Err()
	case <-p.runCtx.Done():
		observability.RecordEventPublished(errStopped)
		return errStopped
	}
}

func (p *Publisher) run() {
	defer p.wg.Done()
	for {
		select {
		case <-p.runCtx.Done():
			p.drain()
			p.started.Store(false)
			return
		case msg := <-p.queue:
			p.deliver(p.runCtx, msg)
		}
	}
}

func (p *Publisher) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), p.cfg.WriteTimeout+time.Second)
	defer cancel()
	for {
		select {
		case msg := <-p.queue:
			p.deliver(ctx, msg)
		default:
			return
		}
	}
}

func (p *Publisher) deliver(ctx context.Context, msg kafka.Message) {
	err := p.writer.WriteMessages(ctx, msg)
	observability.RecordEventPublished(err)
	if err != nil {
		p.log.Warn("publish leaderboard event", zap.Error(err), zap.ByteString("key", msg.Key))
		return
	}
	p.log.Debug("leaderboard event published", zap.ByteString("key", msg.Key))
}
