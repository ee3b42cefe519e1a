package repository

import (
	"context"

	"orcamento/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EmpresaRepository adds the company's tax and payroll rate tables to the
// catalog contract.
type EmpresaRepository interface {
	CatalogoRepository[model.Empresa]

	ListTributos(ctx context.Context, empresaID uuid.UUID) ([]model.Tributo, error)
	CreateTributos(ctx context.Context, tributos []model.Tributo) error
	DeleteTributo(ctx context.Context, empresaID, id uuid.UUID) error

	ListEncargos(ctx context.Context, empresaID uuid.UUID) ([]model.Encargo, error)
	CreateEncargos(ctx context.Context, encargos []model.Encargo) error
	DeleteEncargo(ctx context.Context, empresaID, id uuid.UUID) error
}

type empresaRepo struct {
	*catalogoRepo[model.Empresa]
}

func NewEmpresaRepository(db *gorm.DB) EmpresaRepository {
	return &empresaRepo{&catalogoRepo[model.Empresa]{
		db:          db,
		referencias: []Referencia{{"cenario_empresas", "empresa_id"}},
	}}
}

// Delete removes the company together with its tributos and encargos.
func (r *empresaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("empresa_id = ?", id).Delete(&model.Tributo{}).Error; err != nil {
			return err
		}
		if err := tx.Where("empresa_id = ?", id).Delete(&model.Encargo{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Empresa{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *empresaRepo) ListTributos(ctx context.Context, empresaID uuid.UUID) ([]model.Tributo, error) {
	var out []model.Tributo
	err := r.db.WithContext(ctx).Where("empresa_id = ?", empresaID).Order("codigo ASC").Find(&out).Error
	return out, err
}

func (r *empresaRepo) CreateTributos(ctx context.Context, tributos []model.Tributo) error {
	if len(tributos) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&tributos).Error
}

func (r *empresaRepo) DeleteTributo(ctx context.Context, empresaID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("empresa_id = ? AND id = ?", empresaID, id).Delete(&model.Tributo{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *empresaRepo) ListEncargos(ctx context.Context, empresaID uuid.UUID) ([]model.Encargo, error) {
	var out []model.Encargo
	err := r.db.WithContext(ctx).Where("empresa_id = ?", empresaID).Order("categoria ASC, codigo ASC").Find(&out).Error
	return out, err
}

func (r *empresaRepo) CreateEncargos(ctx context.Context, encargos []model.Encargo) error {
	if len(encargos) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&encargos).Error
}

func (r *empresaRepo) DeleteEncargo(ctx context.Context, empresaID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("empresa_id = ? AND id = ?", empresaID, id).Delete(&model.Encargo{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
