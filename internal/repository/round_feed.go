package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/guesswise-backend/internal/config"
	"github.com/stemsi/guesswise-backend/internal/model"
)

// feedBuffer bounds each subscriber's backlog. Slow subscribers miss events
// rather than stalling publishers.
const feedBuffer = 32

// RedisRoundFeed broadcasts finished rounds over Redis Pub/Sub so every server
// instance sees them.
type RedisRoundFeed struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewRedisRoundFeed creates a new RedisRoundFeed.
func NewRedisRoundFeed(rdb *redis.Client, log zerolog.Logger) *RedisRoundFeed {
	return &RedisRoundFeed{
		rdb: rdb,
		log: log.With().Str("component", "round_feed").Logger(),
	}
}

func (f *RedisRoundFeed) Publish(ctx context.Context, event model.RoundEvent) error {
	raw, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal round event: %w", err)
	}
	if err := f.rdb.Publish(ctx, config.WorkerKey.RoundFeedChannel, raw).Err(); err != nil {
		return fmt.Errorf("publish round event: %w", err)
	}
	return nil
}

// Subscribe streams events until ctx is done; the channel is then closed.
func (f *RedisRoundFeed) Subscribe(ctx context.Context) (<-chan model.RoundEvent, error) {
	pubsub := f.rdb.Subscribe(ctx, config.WorkerKey.RoundFeedChannel)
	// Wait for the subscription confirmation so no event published after
	// Subscribe returns is lost.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("subscribe round feed: %w", err)
	}

	out := make(chan model.RoundEvent, feedBuffer)
	go func() {
		defer close(out)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var event model.RoundEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					f.log.Warn().Err(err).Msg("Dropping malformed round event")
					continue
				}
				select {
				case out <- event:
				default:
				}
			}
		}
	}()
	return out, nil
}

// MemoryRoundFeed fans events out to in-process subscribers.
type MemoryRoundFeed struct {
	mu   sync.Mutex
	subs map[chan model.RoundEvent]struct{}
}

// NewMemoryRoundFeed creates a new MemoryRoundFeed.
func NewMemoryRoundFeed() *MemoryRoundFeed {
	return &MemoryRoundFeed{subs: make(map[chan model.RoundEvent]struct{})}
}

func (f *MemoryRoundFeed) Publish(_ context.Context, event model.RoundEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subs {
		select {
		case ch <- event:
		default:
		}
	}
	return nil
}

// Subscribe streams events until ctx is done; the channel is then closed.
func (f *MemoryRoundFeed) Subscribe(ctx context.Context) (<-chan model.RoundEvent, error) {
	ch := make(chan model.RoundEvent, feedBuffer)

	f.mu.Lock()
	f.subs[ch] = struct{}{}
	f.mu.Unlock()

	go func() {
		<-ctx.Done()
		f.mu.Lock()
		delete(f.subs, ch)
		f.mu.Unlock()
		close(ch)
	}()
	return ch, nil
}
