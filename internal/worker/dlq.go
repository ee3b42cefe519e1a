package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Jobs that fail for good land in dlq:<queue>, newest first. An
// administrator lists them and, once the scenario is fixed, reprocesses them.
const DLQPrefix = "dlq:"

type DLQEntry struct {
	OriginalQueue string          `json:"original_queue"`
	JobID         uuid.UUID       `json:"job_id"`
	JobType       string          `json:"job_type"`
	Payload       json.RawMessage `json:"payload"`
	Reason        string          `json:"reason"`
	FailedAt      time.Time       `json:"failed_at"`
	Attempts      int             `json:"attempts"`
}

func SendToDLQ(ctx context.Context, rdb *redis.Client, queue string, job Job, reason string) {
	data, err := json.Marshal(DLQEntry{
		OriginalQueue: queue,
		JobID:         job.ID,
		JobType:       job.Type,
		Payload:       job.Payload,
		Reason:        reason,
		FailedAt:      time.Now().UTC(),
		Attempts:      job.Tentativas,
	})
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: marshal falhou")
		return
	}

	// the job already failed; a cancelled ctx must not lose it
	if err := rdb.LPush(context.WithoutCancel(ctx), DLQPrefix+queue, data).Err(); err != nil {
		log.Error().Err(err).Str("queue", queue).Str("job_id", job.ID.String()).Msg("dlq: push falhou")
		return
	}
	log.Warn().
		Str("queue", queue).
		Str("job_id", job.ID.String()).
		Str("job_type", job.Type).
		Str("reason", reason).
		Int("attempts", job.Tentativas).
		Msg("dlq: job movido para a fila de falhas")
}

func DLQLength(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, DLQPrefix+queue).Result()
}

// ListDLQ returns up to limit entries, newest first. Unreadable entries are
// skipped.
func ListDLQ(ctx context.Context, rdb *redis.Client, queue string, limit int64) ([]DLQEntry, error) {
	raw, err := rdb.LRange(ctx, DLQPrefix+queue, 0, limit-1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]DLQEntry, 0, len(raw))
	for _, r := range raw {
		var e DLQEntry
		if json.Unmarshal([]byte(r), &e) == nil {
			out = append(out, e)
		}
	}
	return out, nil
}

// ReprocessarDLQ moves up to limit of the oldest entries back to their queue
// with a fresh attempt count. Entries without a known job type are dropped,
// since no worker could run them. Returns how many were re-enqueued.
func ReprocessarDLQ(ctx context.Context, rdb *redis.Client, queue string, limit int) (int, error) {
	reenfileirados := 0
	for i := 0; i < limit; i++ {
		raw, err := rdb.RPop(ctx, DLQPrefix+queue).Result()
		if errors.Is(err, redis.Nil) {
			break
		}
		if err != nil {
			return reenfileirados, err
		}
		var e DLQEntry
		if err := json.Unmarshal([]byte(raw), &e); err != nil || e.JobType != JobRecalculo {
			log.Warn().Str("queue", queue).Str("job_type", e.JobType).Msg("dlq: entrada descartada no reprocessamento")
			continue
		}
		job := Job{ID: e.JobID, Type: e.JobType, Payload: e.Payload}
		if err := enqueue(ctx, rdb, queue, job); err != nil {
			// put it back where it was so nothing is lost
			_ = rdb.RPush(context.WithoutCancel(ctx), DLQPrefix+queue, raw).Err()
			return reenfileirados, err
		}
		reenfileirados++
	}
	if reenfileirados > 0 {
		log.Info().Str("queue", queue).Int("jobs", reenfileirados).Msg("dlq: jobs reenfileirados")
	}
	return reenfileirados, nil
}
