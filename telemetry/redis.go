package telemetry

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/evdnx/zonerecovery/logger"
	"github.com/evdnx/zonerecovery/zone"
)

// StreamAdder is the subset of *redis.Client the journal needs.
type StreamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// RedisJournal appends every cycle event to a Redis stream.
type RedisJournal struct {
	rdb     StreamAdder
	stream  string
	maxLen  int64
	timeout time.Duration
	log     logger.Logger
}

// NewRedisJournal writes to stream, trimming it to roughly maxLen entries
// (0 keeps everything).
func NewRedisJournal(rdb StreamAdder, stream string, maxLen int64, log logger.Logger) *RedisJournal {
	if log == nil {
		log = logger.NewNop()
	}
	return &RedisJournal{
		rdb:     rdb,
		stream:  stream,
		maxLen:  maxLen,
		timeout: 2 * time.Second,
		log:     log,
	}
}

// Append writes one event and returns the stream entry ID.
func (j *RedisJournal) Append(ctx context.Context, ev zone.Event) (string, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return "", err
	}
	args := &redis.XAddArgs{
		Stream: j.stream,
		Values: map[string]interface{}{
			"kind":     string(ev.Kind),
			"strategy": ev.Strategy,
			"cycle_id": ev.CycleID,
			"event":    string(payload),
		},
	}
	if j.maxLen > 0 {
		args.MaxLen = j.maxLen
		args.Approx = true
	}
	return j.rdb.XAdd(ctx, args).Result()
}

// OnCycleEvent journals ev with a bounded timeout; failures are logged.
func (j *RedisJournal) OnCycleEvent(ev zone.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()
	if _, err := j.Append(ctx, ev); err != nil {
		j.log.Error("journal_append_failed",
			logger.String("stream", j.stream),
			logger.String("cycle_id", ev.CycleID),
			logger.Err(err),
		)
	}
}
