package repository

import (
	"context"

	"orcamento/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PremissaRepository stores the payroll premises of a scenario: function
// indicators and the rubricas applied to its positions.
type PremissaRepository interface {
	SalvarPremissasFuncao(ctx context.Context, premissas []model.PremissaFuncao) error
	ListPremissasFuncao(ctx context.Context, cenarioID uuid.UUID, secaoID *uuid.UUID) ([]model.PremissaFuncao, error)

	CreateRubrica(ctx context.Context, r *model.CenarioRubrica) error
	ListRubricas(ctx context.Context, cenarioID uuid.UUID) ([]model.CenarioRubrica, error)
	DeleteRubrica(ctx context.Context, cenarioID, id uuid.UUID) error
}

type premissaRepo struct{ db *gorm.DB }

func NewPremissaRepository(db *gorm.DB) PremissaRepository { return &premissaRepo{db: db} }

// SalvarPremissasFuncao upserts by (seção, função, ano, mês).
func (r *premissaRepo) SalvarPremissasFuncao(ctx context.Context, premissas []model.PremissaFuncao) error {
	if len(premissas) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cenario_secao_id"}, {Name: "funcao_id"}, {Name: "ano"}, {Name: "mes"}},
		DoUpdates: clause.AssignmentColumns([]string{"absenteismo", "turnover", "indice_ferias", "dias_treinamento"}),
	}).Create(&premissas).Error
}

func (r *premissaRepo) ListPremissasFuncao(ctx context.Context, cenarioID uuid.UUID, secaoID *uuid.UUID) ([]model.PremissaFuncao, error) {
	var out []model.PremissaFuncao
	q := r.db.WithContext(ctx).Where("cenario_id = ?", cenarioID)
	if secaoID != nil {
		q = q.Where("cenario_secao_id = ?", *secaoID)
	}
	err := q.Order("funcao_id, ano, mes").Find(&out).Error
	return out, err
}

func (r *premissaRepo) CreateRubrica(ctx context.Context, rub *model.CenarioRubrica) error {
	return r.db.WithContext(ctx).Create(rub).Error
}

func (r *premissaRepo) ListRubricas(ctx context.Context, cenarioID uuid.UUID) ([]model.CenarioRubrica, error) {
	var out []model.CenarioRubrica
	err := r.db.WithContext(ctx).Where("cenario_id = ?", cenarioID).Order("created_at ASC").Find(&out).Error
	return out, err
}

func (r *premissaRepo) DeleteRubrica(ctx context.Context, cenarioID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("cenario_id = ? AND id = ?", cenarioID, id).Delete(&model.CenarioRubrica{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
