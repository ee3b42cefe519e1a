package repository

import (
	"context"
	"time"

	"orcamento/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QuadroRepository covers headcount positions and the rules that derive
// their quantities (spans and rateio groups).
type QuadroRepository interface {
	Create(ctx context.Context, q *model.QuadroPessoal) error
	FindByID(ctx context.Context, cenarioID, id uuid.UUID) (*model.QuadroPessoal, error)
	ListByCenario(ctx context.Context, cenarioID uuid.UUID, secaoID *uuid.UUID) ([]model.QuadroPessoal, error)
	// Update saves the position and replaces its monthly quantities.
	Update(ctx context.Context, q *model.QuadroPessoal) error
	Delete(ctx context.Context, cenarioID, id uuid.UUID) error
	// AplicarSpans upserts the given monthly quantities per position and
	// stamps span_aplicado_em.
	AplicarSpans(ctx context.Context, valores map[uuid.UUID][]model.QuadroQuantidade) (criados, atualizados int, err error)

	CreateSpan(ctx context.Context, s *model.FuncaoSpan) error
	ListSpans(ctx context.Context, cenarioID uuid.UUID) ([]model.FuncaoSpan, error)
	DeleteSpan(ctx context.Context, cenarioID, id uuid.UUID) error

	CreateGrupo(ctx context.Context, g *model.RateioGrupo) error
	ListGrupos(ctx context.Context, cenarioID uuid.UUID) ([]model.RateioGrupo, error)
	DeleteGrupo(ctx context.Context, cenarioID, id uuid.UUID) error
	GrupoEmUso(ctx context.Context, id uuid.UUID) (bool, error)
}

type quadroRepo struct{ db *gorm.DB }

func NewQuadroRepository(db *gorm.DB) QuadroRepository { return &quadroRepo{db: db} }

func (r *quadroRepo) Create(ctx context.Context, q *model.QuadroPessoal) error {
	return r.db.WithContext(ctx).Create(q).Error
}

func (r *quadroRepo) FindByID(ctx context.Context, cenarioID, id uuid.UUID) (*model.QuadroPessoal, error) {
	var q model.QuadroPessoal
	err := r.db.WithContext(ctx).
		Preload("Quantidades", func(db *gorm.DB) *gorm.DB { return db.Order("ano, mes") }).
		Where("cenario_id = ? AND id = ?", cenarioID, id).
		First(&q).Error
	return &q, err
}

func (r *quadroRepo) ListByCenario(ctx context.Context, cenarioID uuid.UUID, secaoID *uuid.UUID) ([]model.QuadroPessoal, error) {
	var out []model.QuadroPessoal
	q := r.db.WithContext(ctx).
		Preload("Quantidades", func(db *gorm.DB) *gorm.DB { return db.Order("ano, mes") }).
		Where("cenario_id = ?", cenarioID)
	if secaoID != nil {
		q = q.Where("cenario_secao_id = ?", *secaoID)
	}
	err := q.Order("created_at ASC").Find(&out).Error
	return out, err
}

func (r *quadroRepo) Update(ctx context.Context, q *model.QuadroPessoal) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(q).Error; err != nil {
			return err
		}
		if err := tx.Where("quadro_pessoal_id = ?", q.ID).Delete(&model.QuadroQuantidade{}).Error; err != nil {
			return err
		}
		for i := range q.Quantidades {
			q.Quantidades[i].QuadroPessoalID = q.ID
		}
		return criar(tx, q.Quantidades)
	})
}

func (r *quadroRepo) Delete(ctx context.Context, cenarioID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("cenario_id = ? AND id = ?", cenarioID, id).Delete(&model.QuadroPessoal{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("quadro_pessoal_id = ?", id).Delete(&model.QuadroQuantidade{}).Error
	})
}

func (r *quadroRepo) AplicarSpans(ctx context.Context, valores map[uuid.UUID][]model.QuadroQuantidade) (int, int, error) {
	criados, atualizados := 0, 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		agora := time.Now()
		for posicaoID, meses := range valores {
			var existentes []model.QuadroQuantidade
			if err := tx.Where("quadro_pessoal_id = ?", posicaoID).Find(&existentes).Error; err != nil {
				return err
			}
			ja := make(map[[2]int]bool, len(existentes))
			for _, e := range existentes {
				ja[[2]int{e.Ano, e.Mes}] = true
			}
			for i := range meses {
				meses[i].QuadroPessoalID = posicaoID
				if ja[[2]int{meses[i].Ano, meses[i].Mes}] {
					atualizados++
				} else {
					criados++
				}
			}
			if len(meses) > 0 {
				err := tx.Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "quadro_pessoal_id"}, {Name: "ano"}, {Name: "mes"}},
					DoUpdates: clause.AssignmentColumns([]string{"quantidade"}),
				}).Create(&meses).Error
				if err != nil {
					return err
				}
			}
			if err := tx.Model(&model.QuadroPessoal{}).Where("id = ?", posicaoID).
				Updates(map[string]any{"span_aplicado_em": agora, "updated_at": agora}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return criados, atualizados, err
}

// ── Spans ────────────────────────────────────────────────────────────────────

func (r *quadroRepo) CreateSpan(ctx context.Context, s *model.FuncaoSpan) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *quadroRepo) ListSpans(ctx context.Context, cenarioID uuid.UUID) ([]model.FuncaoSpan, error) {
	var out []model.FuncaoSpan
	err := r.db.WithContext(ctx).Preload("Bases").Where("cenario_id = ?", cenarioID).Order("created_at ASC").Find(&out).Error
	return out, err
}

func (r *quadroRepo) DeleteSpan(ctx context.Context, cenarioID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("cenario_id = ? AND id = ?", cenarioID, id).Delete(&model.FuncaoSpan{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("funcao_span_id = ?", id).Delete(&model.FuncaoSpanBase{}).Error
	})
}

// ── Rateio groups ────────────────────────────────────────────────────────────

func (r *quadroRepo) CreateGrupo(ctx context.Context, g *model.RateioGrupo) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *quadroRepo) ListGrupos(ctx context.Context, cenarioID uuid.UUID) ([]model.RateioGrupo, error) {
	var out []model.RateioGrupo
	err := r.db.WithContext(ctx).Where("cenario_id = ?", cenarioID).Order("nome ASC").Find(&out).Error
	return out, err
}

func (r *quadroRepo) DeleteGrupo(ctx context.Context, cenarioID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("cenario_id = ? AND id = ?", cenarioID, id).Delete(&model.RateioGrupo{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *quadroRepo) GrupoEmUso(ctx context.Context, id uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.QuadroPessoal{}).Where("rateio_grupo_id = ?", id).Count(&n).Error
	return n > 0, err
}
