package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"orcamento/internal/calculo"
	"orcamento/internal/dto"
	"orcamento/internal/service"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRecalculador struct {
	err      error
	chamadas int
}

func (s *stubRecalculador) CalcularTudo(_ context.Context, _ uuid.UUID, _ *uuid.UUID) (*dto.CalcularTudoResponse, error) {
	s.chamadas++
	if s.err != nil {
		return nil, s.err
	}
	return &dto.CalcularTudoResponse{}, nil
}

// redisIndisponivel returns a client whose commands fail fast; DLQ and
// re-enqueue failures are only logged, which is enough for these tests.
func redisIndisponivel() *redis.Client {
	return redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
}

func novoJob(t *testing.T, tentativas int) Job {
	t.Helper()
	data, err := json.Marshal(RecalculoPayload{CenarioID: uuid.New()})
	require.NoError(t, err)
	return Job{ID: uuid.New(), Type: JobRecalculo, Payload: data, Tentativas: tentativas}
}

func TestBackoff(t *testing.T) {
	tests := []struct {
		tentativa int
		want      time.Duration
	}{
		{1, time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{5, 16 * time.Second},
		{6, 30 * time.Second},
		{40, 30 * time.Second},
		{80, 30 * time.Second},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.tentativa), func(t *testing.T) {
			assert.Equal(t, tt.want, backoff(tt.tentativa))
		})
	}
}

func TestProcess(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		tentativas int
		reagenda   bool
	}{
		{name: "sucesso"},
		{name: "falha de infraestrutura reagenda", err: errors.New("dial tcp: timeout"), reagenda: true},
		{name: "tentativas esgotadas", err: errors.New("dial tcp: timeout"), tentativas: 2},
		{name: "cenário inexistente vai direto para DLQ", err: fmt.Errorf("cenário: %w", service.ErrNaoEncontrado)},
		{name: "ciclo de span vai direto para DLQ", err: &calculo.ErroCiclo{Caminho: []uuid.UUID{uuid.New()}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &stubRecalculador{err: tt.err}
			var esperas []int
			w := &recalculoWorker{
				rdb:           redisIndisponivel(),
				recalculador:  rec,
				maxTentativas: 3,
				espera: func(n int) time.Duration {
					esperas = append(esperas, n)
					return 0
				},
			}

			w.Process(context.Background(), novoJob(t, tt.tentativas))

			assert.Equal(t, 1, rec.chamadas)
			if tt.reagenda {
				assert.Equal(t, []int{tt.tentativas + 1}, esperas)
			} else {
				assert.Empty(t, esperas)
			}
		})
	}
}

func TestProcess_PayloadInvalido(t *testing.T) {
	rec := &stubRecalculador{}
	w := &recalculoWorker{rdb: redisIndisponivel(), recalculador: rec, maxTentativas: 3, espera: backoff}

	w.Process(context.Background(), Job{ID: uuid.New(), Type: JobRecalculo, Payload: json.RawMessage(`{"cenario_id":"x"}`)})
	w.Process(context.Background(), Job{ID: uuid.New(), Type: JobRecalculo, Payload: json.RawMessage(`{}`)})

	assert.Zero(t, rec.chamadas)
}
