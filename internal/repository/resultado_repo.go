package repository

import (
	"context"
	"fmt"

	"orcamento/internal/calculo"
	"orcamento/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Escopo is the unit a calculation pass replaces: one scenario, optionally
// one section, and the pass that owns the rows.
type Escopo struct {
	CenarioID uuid.UUID
	SecaoID   *uuid.UUID
	Passe     calculo.Passe
}

// chaveLock serializes runs of the same pass on the same scenario. A
// section-scoped run and a full run overlap, so the section is left out.
func (e Escopo) chaveLock() string {
	return fmt.Sprintf("calculo:%s:%s", e.CenarioID, e.Passe)
}

// Resultados is everything one pass run produced.
type Resultados struct {
	Custos     []model.CustoCalculado
	Receitas   []model.ReceitaCalculada
	Pendencias []model.CalculoPendencia
}

type ResultadoRepository interface {
	// Substituir clears the scope's previous rows and inserts the new ones
	// in a single transaction.
	Substituir(ctx context.Context, e Escopo, r Resultados) error
	ListCustos(ctx context.Context, cenarioID uuid.UUID, secaoID *uuid.UUID, ano int) ([]model.CustoCalculado, error)
	ListReceitas(ctx context.Context, cenarioID uuid.UUID, secaoID *uuid.UUID, ano int) ([]model.ReceitaCalculada, error)
	ListPendencias(ctx context.Context, cenarioID uuid.UUID, secaoID *uuid.UUID) ([]model.CalculoPendencia, error)
}

type resultadoRepo struct{ db *gorm.DB }

func NewResultadoRepository(db *gorm.DB) ResultadoRepository { return &resultadoRepo{db: db} }

const loteInsercao = 500

func (r *resultadoRepo) Substituir(ctx context.Context, e Escopo, res Resultados) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", e.chaveLock()).Error; err != nil {
			return fmt.Errorf("lock do escopo: %w", err)
		}

		custos := tx.Where("cenario_id = ? AND passe = ?", e.CenarioID, string(e.Passe))
		if e.SecaoID != nil {
			custos = custos.Where("cenario_secao_id = ?", *e.SecaoID)
		}
		if err := custos.Delete(&model.CustoCalculado{}).Error; err != nil {
			return err
		}

		if e.Passe == calculo.PasseReceita {
			receitas := tx.Where("cenario_id = ?", e.CenarioID)
			if e.SecaoID != nil {
				receitas = receitas.Where("cenario_secao_id = ?", *e.SecaoID)
			}
			if err := receitas.Delete(&model.ReceitaCalculada{}).Error; err != nil {
				return err
			}
		}

		pend := tx.Where("cenario_id = ? AND passe = ?", e.CenarioID, string(e.Passe))
		if e.SecaoID != nil {
			pend = pend.Where("cenario_secao_id = ?", *e.SecaoID)
		}
		if err := pend.Delete(&model.CalculoPendencia{}).Error; err != nil {
			return err
		}

		if len(res.Custos) > 0 {
			if err := tx.CreateInBatches(res.Custos, loteInsercao).Error; err != nil {
				return err
			}
		}
		if len(res.Receitas) > 0 {
			if err := tx.CreateInBatches(res.Receitas, loteInsercao).Error; err != nil {
				return err
			}
		}
		if len(res.Pendencias) > 0 {
			if err := tx.CreateInBatches(res.Pendencias, loteInsercao).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *resultadoRepo) ListCustos(ctx context.Context, cenarioID uuid.UUID, secaoID *uuid.UUID, ano int) ([]model.CustoCalculado, error) {
	var out []model.CustoCalculado
	q := r.db.WithContext(ctx).Where("cenario_id = ? AND ano = ?", cenarioID, ano)
	if secaoID != nil {
		q = q.Where("cenario_secao_id = ?", *secaoID)
	}
	err := q.Order("conta_codigo, rubrica_codigo, mes").Find(&out).Error
	return out, err
}

func (r *resultadoRepo) ListReceitas(ctx context.Context, cenarioID uuid.UUID, secaoID *uuid.UUID, ano int) ([]model.ReceitaCalculada, error) {
	var out []model.ReceitaCalculada
	q := r.db.WithContext(ctx).Where("cenario_id = ? AND ano = ?", cenarioID, ano)
	if secaoID != nil {
		q = q.Where("cenario_secao_id = ?", *secaoID)
	}
	err := q.Order("receita_cenario_id, mes").Find(&out).Error
	return out, err
}

func (r *resultadoRepo) ListPendencias(ctx context.Context, cenarioID uuid.UUID, secaoID *uuid.UUID) ([]model.CalculoPendencia, error) {
	var out []model.CalculoPendencia
	q := r.db.WithContext(ctx).Where("cenario_id = ?", cenarioID)
	if secaoID != nil {
		q = q.Where("cenario_secao_id = ?", *secaoID)
	}
	err := q.Order("passe, referencia, ano, mes").Find(&out).Error
	return out, err
}
