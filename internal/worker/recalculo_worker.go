package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"orcamento/internal/dto"
	"orcamento/internal/service"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Recalculador runs the three passes of a scenario.
type Recalculador interface {
	CalcularTudo(ctx context.Context, cenarioID uuid.UUID, secaoID *uuid.UUID) (*dto.CalcularTudoResponse, error)
}

type recalculoWorker struct {
	rdb           *redis.Client
	recalculador  Recalculador
	maxTentativas int
	espera        func(tentativa int) time.Duration
}

// backoff: 1s, 2s, 4s ... capped at 30s.
func backoff(tentativa int) time.Duration {
	d := time.Second << (tentativa - 1)
	if d <= 0 || d > 30*time.Second {
		return 30 * time.Second
	}
	return d
}

// Process runs one recalculation job. Infrastructure failures are
// re-enqueued after a backoff until maxTentativas; errors caused by the
// scenario itself go straight to the DLQ since a retry would fail the same way.
func (w *recalculoWorker) Process(ctx context.Context, job Job) {
	var payload RecalculoPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil || payload.CenarioID == uuid.Nil {
		log.Error().Str("job_id", job.ID.String()).Msg("recalculo_worker: invalid payload")
		SendToDLQ(ctx, w.rdb, QueueCalculo, job, "payload inválido")
		return
	}

	job.Tentativas++
	inicio := time.Now()
	resp, err := w.recalculador.CalcularTudo(ctx, payload.CenarioID, nil)
	if err == nil {
		log.Info().
			Str("job_id", job.ID.String()).
			Str("cenario_id", payload.CenarioID.String()).
			Int("tentativas", job.Tentativas).
			Int("custos_folha", resp.Folha.Quantidade).
			Int("custos_tecnologia", resp.Tecnologia.CustosCriados).
			Int("receitas", resp.Receita.ReceitasCalculadas).
			Dur("duracao", time.Since(inicio)).
			Msg("recalculo_worker: cenário recalculado")
		return
	}

	if service.Permanente(err) {
		log.Warn().Err(err).Str("job_id", job.ID.String()).Msg("recalculo_worker: falha definitiva")
		SendToDLQ(ctx, w.rdb, QueueCalculo, job, err.Error())
		return
	}
	if job.Tentativas >= w.maxTentativas {
		log.Error().Err(err).Str("job_id", job.ID.String()).Int("tentativas", job.Tentativas).Msg("recalculo_worker: tentativas esgotadas")
		SendToDLQ(ctx, w.rdb, QueueCalculo, job, fmt.Sprintf("máximo de tentativas (%d) excedido: %v", w.maxTentativas, err))
		return
	}

	espera := w.espera(job.Tentativas)
	log.Warn().
		Err(err).
		Str("job_id", job.ID.String()).
		Int("tentativa", job.Tentativas).
		Dur("espera", espera).
		Msg("recalculo_worker: falhou, reagendando")
	select {
	case <-ctx.Done():
		// shutting down: put it back so the next process picks it up
	case <-time.After(espera):
	}
	if err := enqueue(context.WithoutCancel(ctx), w.rdb, QueueCalculo, job); err != nil {
		log.Error().Err(err).Str("job_id", job.ID.String()).Msg("recalculo_worker: falha ao reagendar")
	}
}
