package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/guesswise-backend/internal/config"
	"github.com/stemsi/guesswise-backend/internal/metrics"
	"github.com/stemsi/guesswise-backend/internal/model"
)

const (
	HistoryBatchSize    = 50
	HistoryBatchTimeout = 2 * time.Second
	HistoryPollTimeout  = 1 * time.Second
)

// HistoryWriter persists finished rounds.
type HistoryWriter interface {
	WriteBatch(ctx context.Context, events []model.RoundEvent) error
	WriteOne(ctx context.Context, event model.RoundEvent) error
}

// HistoryWorker drains the persist_rounds_queue into the history tables.
type HistoryWorker struct {
	rdb     *redis.Client
	writer  HistoryWriter
	metrics *metrics.Metrics
	log     zerolog.Logger
}

func NewHistoryWorker(rdb *redis.Client, writer HistoryWriter, m *metrics.Metrics, log zerolog.Logger) *HistoryWorker {
	if m == nil {
		m = metrics.New(nil)
	}
	return &HistoryWorker{
		rdb:     rdb,
		writer:  writer,
		metrics: m,
		log:     log.With().Str("component", "history_worker").Logger(),
	}
}

// ----------------------------------------------------------------
// Worker loop with batching
// ----------------------------------------------------------------

func (w *HistoryWorker) Start(ctx context.Context) {
	w.log.Info().Msg("HistoryWorker started")

	batch := make([]model.RoundEvent, 0, HistoryBatchSize)
	lastFlush := time.Now()

	for {
		if len(batch) > 0 &&
			(len(batch) >= HistoryBatchSize || time.Since(lastFlush) >= HistoryBatchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			return

		default:
			event, ok := w.next(ctx)
			if ok {
				batch = append(batch, event)
			}
		}
	}
}

// next pops one event, waiting up to HistoryPollTimeout.
func (w *HistoryWorker) next(ctx context.Context) (model.RoundEvent, bool) {
	item, err := w.rdb.BLPop(ctx, HistoryPollTimeout, config.WorkerKey.PersistRoundsQueue).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("BLPop error")
		}
		return model.RoundEvent{}, false
	}
	if len(item) < 2 {
		return model.RoundEvent{}, false
	}

	event, err := decodeRoundEvent(item[1])
	if err != nil {
		w.log.Error().Err(err).Msg("Invalid round event payload")
		return model.RoundEvent{}, false
	}
	return event, true
}

func decodeRoundEvent(raw string) (model.RoundEvent, error) {
	var event model.RoundEvent
	if err := json.Unmarshal([]byte(raw), &event); err != nil {
		return model.RoundEvent{}, err
	}
	if event.PlayerID == "" || !event.Status.Terminal() {
		return model.RoundEvent{}, errors.New("round event is missing player id or terminal status")
	}
	if _, err := uuid.Parse(event.RoundID); err != nil {
		return model.RoundEvent{}, fmt.Errorf("round event id %q: %w", event.RoundID, err)
	}
	return event, nil
}

// ----------------------------------------------------------------
// Batch write with per-row fallback
// ----------------------------------------------------------------

// flushSafe writes a batch, falling back to single-row writes; rows that still
// fail are pushed back onto the queue.
func (w *HistoryWorker) flushSafe(ctx context.Context, batch []model.RoundEvent) {
	if len(batch) == 0 {
		return
	}

	err := w.writer.WriteBatch(ctx, batch)
	if err == nil {
		w.metrics.HistoryFlushed.WithLabelValues("ok").Add(float64(len(batch)))
		w.log.Debug().Int("rounds", len(batch)).Msg("History batch written")
		return
	}

	w.log.Warn().Err(err).Int("rounds", len(batch)).Msg("Bulk history write failed, using fallback")

	for _, event := range batch {
		if err := w.writer.WriteOne(ctx, event); err != nil {
			w.log.Error().Err(err).Str("round_id", event.RoundID).Msg("WriteOne failed, requeueing")
			w.requeue(ctx, event)
			continue
		}
		w.metrics.HistoryFlushed.WithLabelValues("ok").Inc()
	}
}

// requeue pushes a failed round back onto the queue. Rounds that cannot be
// requeued are dropped and counted.
func (w *HistoryWorker) requeue(ctx context.Context, event model.RoundEvent) {
	raw, err := json.Marshal(event)
	if err == nil {
		err = w.rdb.RPush(ctx, config.WorkerKey.PersistRoundsQueue, raw).Err()
	}
	if err != nil {
		w.log.Error().Err(err).Str("round_id", event.RoundID).Msg("Failed to requeue round, dropping it")
		w.metrics.HistoryFlushed.WithLabelValues("dropped").Inc()
		return
	}
	w.metrics.HistoryFlushed.WithLabelValues("requeued").Inc()
}
