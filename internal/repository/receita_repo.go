package repository

import (
	"context"

	"orcamento/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReceitaRepository interface {
	Create(ctx context.Context, r *model.ReceitaCenario) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ReceitaCenario, error)
	ListByCenario(ctx context.Context, cenarioID uuid.UUID, secaoID *uuid.UUID) ([]model.ReceitaCenario, error)
	Delete(ctx context.Context, cenarioID, id uuid.UUID) error
	// SalvarPremissas upserts the monthly premises of a revenue line.
	SalvarPremissas(ctx context.Context, receitaID uuid.UUID, premissas []model.PremissaReceita) error
}

type receitaRepo struct{ db *gorm.DB }

func NewReceitaRepository(db *gorm.DB) ReceitaRepository { return &receitaRepo{db: db} }

func (r *receitaRepo) Create(ctx context.Context, rec *model.ReceitaCenario) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *receitaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ReceitaCenario, error) {
	var rec model.ReceitaCenario
	err := r.db.WithContext(ctx).
		Preload("Premissas", func(db *gorm.DB) *gorm.DB { return db.Order("ano, mes") }).
		First(&rec, "id = ?", id).Error
	return &rec, err
}

func (r *receitaRepo) ListByCenario(ctx context.Context, cenarioID uuid.UUID, secaoID *uuid.UUID) ([]model.ReceitaCenario, error) {
	var out []model.ReceitaCenario
	q := r.db.WithContext(ctx).
		Preload("Premissas", func(db *gorm.DB) *gorm.DB { return db.Order("ano, mes") }).
		Where("cenario_id = ?", cenarioID)
	if secaoID != nil {
		q = q.Where("cenario_secao_id = ?", *secaoID)
	}
	err := q.Order("created_at ASC").Find(&out).Error
	return out, err
}

func (r *receitaRepo) Delete(ctx context.Context, cenarioID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("cenario_id = ? AND id = ?", cenarioID, id).Delete(&model.ReceitaCenario{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("receita_cenario_id = ?", id).Delete(&model.PremissaReceita{}).Error
	})
}

func (r *receitaRepo) SalvarPremissas(ctx context.Context, receitaID uuid.UUID, premissas []model.PremissaReceita) error {
	if len(premissas) == 0 {
		return nil
	}
	for i := range premissas {
		premissas[i].ReceitaCenarioID = receitaID
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "receita_cenario_id"}, {Name: "ano"}, {Name: "mes"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"vopdu", "indice_conversao", "ticket_medio", "fator", "indice_estorno", "dias_uteis",
		}),
	}).Create(&premissas).Error
}
