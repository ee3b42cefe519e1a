//go:build integration

package worker

import (
	"context"
	"testing"
	"time"

	"orcamento/internal/service"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	rdC, err := tcRedis.RunContainer(ctx, testcontainers.WithImage("redis:7-alpine"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(context.Background()) })

	url, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	rdb := redis.NewClient(opts)
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestDispatcher_FalhaPermanenteVaiParaDLQ(t *testing.T) {
	rdb := setupRedis(t)
	ctx := context.Background()

	cenarioID := uuid.New()
	jobID, err := NewDispatcher(rdb).EnqueueRecalculo(ctx, cenarioID)
	require.NoError(t, err)

	res, err := rdb.BRPop(ctx, time.Second, QueueCalculo).Result()
	require.NoError(t, err)

	w := &recalculoWorker{
		rdb:           rdb,
		recalculador:  &stubRecalculador{err: service.ErrCenarioImutavel},
		maxTentativas: 3,
		espera:        backoff,
	}
	processJob(ctx, w, res[0], res[1])

	n, err := DLQLength(ctx, rdb, QueueCalculo)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	entradas, err := ListDLQ(ctx, rdb, QueueCalculo, 10)
	require.NoError(t, err)
	require.Len(t, entradas, 1)
	assert.Equal(t, jobID, entradas[0].JobID)
	assert.Equal(t, JobRecalculo, entradas[0].JobType)
	assert.Equal(t, 1, entradas[0].Attempts)
}

func TestDispatcher_FalhaTransitoriaReagenda(t *testing.T) {
	rdb := setupRedis(t)
	ctx := context.Background()

	_, err := NewDispatcher(rdb).EnqueueRecalculo(ctx, uuid.New())
	require.NoError(t, err)
	res, err := rdb.BRPop(ctx, time.Second, QueueCalculo).Result()
	require.NoError(t, err)

	w := &recalculoWorker{
		rdb:           rdb,
		recalculador:  &stubRecalculador{err: context.DeadlineExceeded},
		maxTentativas: 3,
		espera:        func(int) time.Duration { return 0 },
	}
	processJob(ctx, w, res[0], res[1])

	tamanho, err := rdb.LLen(ctx, QueueCalculo).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), tamanho)
	n, err := DLQLength(ctx, rdb, QueueCalculo)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestProcessJob_TipoDesconhecido(t *testing.T) {
	rdb := setupRedis(t)
	ctx := context.Background()
	w := &recalculoWorker{rdb: rdb, recalculador: &stubRecalculador{}, maxTentativas: 3, espera: backoff}

	processJob(ctx, w, QueueCalculo, `{"id":"`+uuid.NewString()+`","type":"exportar","payload":{}}`)
	processJob(ctx, w, QueueCalculo, `não é json`)

	entradas, err := ListDLQ(ctx, rdb, QueueCalculo, 10)
	require.NoError(t, err)
	require.Len(t, entradas, 2)
	assert.Equal(t, "payload ilegível", entradas[0].Reason)
	assert.Equal(t, "tipo de job desconhecido", entradas[1].Reason)
}

func TestReprocessarDLQ(t *testing.T) {
	rdb := setupRedis(t)
	ctx := context.Background()
	w := &recalculoWorker{rdb: rdb, recalculador: &stubRecalculador{}, maxTentativas: 3, espera: backoff}

	job := Job{ID: uuid.New(), Type: JobRecalculo, Payload: []byte(`{"cenario_id":"` + uuid.NewString() + `"}`), Tentativas: 3}
	SendToDLQ(ctx, rdb, QueueCalculo, job, "máximo de tentativas (3) excedido")
	processJob(ctx, w, QueueCalculo, `{"id":"`+uuid.NewString()+`","type":"exportar","payload":{}}`)

	n, err := ReprocessarDLQ(ctx, rdb, QueueCalculo, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	restantes, err := DLQLength(ctx, rdb, QueueCalculo)
	require.NoError(t, err)
	assert.Zero(t, restantes)

	res, err := rdb.BRPop(ctx, time.Second, QueueCalculo).Result()
	require.NoError(t, err)
	assert.Contains(t, res[1], job.ID.String())
	assert.Contains(t, res[1], `"tentativas":0`)
}
