package worker

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueCalculo = "jobs:calculo"

	JobRecalculo = "recalculo"
)

// Job is the generic envelope for all async tasks. Tentativas counts the
// runs already made, so a re-enqueued job carries its history.
type Job struct {
	ID         uuid.UUID       `json:"id"`
	Type       string          `json:"type"`
	Payload    json.RawMessage `json:"payload"`
	Tentativas int             `json:"tentativas"`
}

// RecalculoPayload is the body of a JobRecalculo.
type RecalculoPayload struct {
	CenarioID uuid.UUID `json:"cenario_id"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueRecalculo schedules a full recalculation of the scenario and
// returns the job ID.
func (d *Dispatcher) EnqueueRecalculo(ctx context.Context, cenarioID uuid.UUID) (uuid.UUID, error) {
	data, err := json.Marshal(RecalculoPayload{CenarioID: cenarioID})
	if err != nil {
		return uuid.Nil, err
	}
	job := Job{ID: uuid.New(), Type: JobRecalculo, Payload: data}
	if err := enqueue(ctx, d.rdb, QueueCalculo, job); err != nil {
		return uuid.Nil, err
	}
	return job.ID, nil
}

func enqueue(ctx context.Context, rdb *redis.Client, queue string, job Job) error {
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return rdb.LPush(ctx, queue, encoded).Err()
}

// PoolConfig holds what the workers need besides Redis.
type PoolConfig struct {
	Workers       int
	MaxTentativas int
	Recalculador  Recalculador
}

// StartWorkerPool launches cfg.Workers goroutines consuming QueueCalculo.
// Each goroutine blocks on BRPOP, so idle workers cost nothing. The returned
// function blocks until every worker has returned after ctx is cancelled.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, cfg PoolConfig) (aguardar func()) {
	w := &recalculoWorker{
		rdb:           rdb,
		recalculador:  cfg.Recalculador,
		maxTentativas: cfg.MaxTentativas,
		espera:        backoff,
	}
	var wg sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			runWorker(ctx, rdb, w, id)
		}(i)
	}
	log.Info().Msgf("worker pool started with %d workers", cfg.Workers)
	return wg.Wait
}

func runWorker(ctx context.Context, rdb *redis.Client, w *recalculoWorker, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, QueueCalculo).Result()
			if err != nil {
				continue
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, w, result[0], result[1])
		}
	}
}

func processJob(ctx context.Context, w *recalculoWorker, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		bruto, _ := json.Marshal(raw)
		SendToDLQ(ctx, w.rdb, queue, Job{Payload: bruto}, "payload ilegível")
		return
	}
	switch job.Type {
	case JobRecalculo:
		w.Process(ctx, job)
	default:
		log.Warn().Str("type", job.Type).Str("queue", queue).Msg("unknown job type")
		SendToDLQ(ctx, w.rdb, queue, job, "tipo de job desconhecido")
	}
}
