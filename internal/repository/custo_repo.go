package repository

import (
	"context"

	"orcamento/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CustoRepository stores direct costs and technology allocations with their
// rateio destinations.
type CustoRepository interface {
	CreateCusto(ctx context.Context, c *model.CustoDireto) error
	ListCustos(ctx context.Context, cenarioID uuid.UUID, secaoID *uuid.UUID) ([]model.CustoDireto, error)
	DeleteCusto(ctx context.Context, cenarioID, id uuid.UUID) error

	CreateAlocacao(ctx context.Context, a *model.AlocacaoTecnologia) error
	ListAlocacoes(ctx context.Context, cenarioID uuid.UUID, secaoID *uuid.UUID) ([]model.AlocacaoTecnologia, error)
	DeleteAlocacao(ctx context.Context, cenarioID, id uuid.UUID) error
}

type custoRepo struct{ db *gorm.DB }

func NewCustoRepository(db *gorm.DB) CustoRepository { return &custoRepo{db: db} }

func (r *custoRepo) CreateCusto(ctx context.Context, c *model.CustoDireto) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *custoRepo) ListCustos(ctx context.Context, cenarioID uuid.UUID, secaoID *uuid.UUID) ([]model.CustoDireto, error) {
	var out []model.CustoDireto
	err := r.escopo(ctx, cenarioID, secaoID).Find(&out).Error
	return out, err
}

func (r *custoRepo) DeleteCusto(ctx context.Context, cenarioID, id uuid.UUID) error {
	return r.remover(ctx, &model.CustoDireto{}, cenarioID, id)
}

func (r *custoRepo) CreateAlocacao(ctx context.Context, a *model.AlocacaoTecnologia) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *custoRepo) ListAlocacoes(ctx context.Context, cenarioID uuid.UUID, secaoID *uuid.UUID) ([]model.AlocacaoTecnologia, error) {
	var out []model.AlocacaoTecnologia
	err := r.escopo(ctx, cenarioID, secaoID).Find(&out).Error
	return out, err
}

func (r *custoRepo) DeleteAlocacao(ctx context.Context, cenarioID, id uuid.UUID) error {
	return r.remover(ctx, &model.AlocacaoTecnologia{}, cenarioID, id)
}

func (r *custoRepo) escopo(ctx context.Context, cenarioID uuid.UUID, secaoID *uuid.UUID) *gorm.DB {
	q := r.db.WithContext(ctx).Preload("Rateio").Where("cenario_id = ?", cenarioID)
	if secaoID != nil {
		q = q.Where("cenario_secao_id = ?", *secaoID)
	}
	return q.Order("created_at ASC")
}

func (r *custoRepo) remover(ctx context.Context, item any, cenarioID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("cenario_id = ? AND id = ?", cenarioID, id).Delete(item)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("origem_id = ?", id).Delete(&model.RateioDestino{}).Error
	})
}
