package repository

import (
	"context"

	"orcamento/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Referencia is a table column that points at a catalog entry. A catalog
// entry still referenced by any of them cannot be deleted.
type Referencia struct {
	Tabela string
	Coluna string
}

// CatalogoRepository is the data access contract shared by the catalog
// tables (funções, centros de custo, fornecedores, tipos de custo e de
// receita, empresas).
type CatalogoRepository[T any] interface {
	Create(ctx context.Context, item *T) error
	FindByID(ctx context.Context, id uuid.UUID) (*T, error)
	FindByCodigo(ctx context.Context, codigo string) (*T, error)
	List(ctx context.Context, apenasAtivos bool) ([]T, error)
	Update(ctx context.Context, item *T) error
	Delete(ctx context.Context, id uuid.UUID) error
	// EmUso reports whether any scenario row still references id.
	EmUso(ctx context.Context, id uuid.UUID) (bool, error)
}

type catalogoRepo[T any] struct {
	db          *gorm.DB
	referencias []Referencia
}

func NewCatalogoRepository[T any](db *gorm.DB, refs ...Referencia) CatalogoRepository[T] {
	return &catalogoRepo[T]{db: db, referencias: refs}
}

func (r *catalogoRepo[T]) Create(ctx context.Context, item *T) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *catalogoRepo[T]) FindByID(ctx context.Context, id uuid.UUID) (*T, error) {
	var item T
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	return &item, err
}

func (r *catalogoRepo[T]) FindByCodigo(ctx context.Context, codigo string) (*T, error) {
	var item T
	err := r.db.WithContext(ctx).Where("codigo = ?", codigo).First(&item).Error
	return &item, err
}

func (r *catalogoRepo[T]) List(ctx context.Context, apenasAtivos bool) ([]T, error) {
	var itens []T
	q := r.db.WithContext(ctx).Order("codigo ASC")
	if apenasAtivos {
		q = q.Where("ativo = true")
	}
	err := q.Find(&itens).Error
	return itens, err
}

func (r *catalogoRepo[T]) Update(ctx context.Context, item *T) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *catalogoRepo[T]) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(new(T), "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *catalogoRepo[T]) EmUso(ctx context.Context, id uuid.UUID) (bool, error) {
	for _, ref := range r.referencias {
		var n int64
		err := r.db.WithContext(ctx).Table(ref.Tabela).Where(ref.Coluna+" = ?", id).Limit(1).Count(&n).Error
		if err != nil {
			return false, err
		}
		if n > 0 {
			return true, nil
		}
	}
	return false, nil
}

// ── Catalog instances ────────────────────────────────────────────────────────

func NewFuncaoRepository(db *gorm.DB) CatalogoRepository[model.Funcao] {
	return NewCatalogoRepository[model.Funcao](db,
		Referencia{"quadro_pessoal", "funcao_id"},
		Referencia{"funcao_spans", "funcao_id"},
		Referencia{"funcao_span_bases", "funcao_id"},
		Referencia{"rateio_grupos", "funcao_origem_id"},
		Referencia{"premissas_funcao", "funcao_id"},
		Referencia{"cenario_rubricas", "funcao_id"},
		Referencia{"custos_diretos", "funcao_base_id"},
		Referencia{"alocacoes_tecnologia", "funcao_base_id"},
		Referencia{"receitas_cenario", "funcao_id"},
	)
}

func NewCentroCustoRepository(db *gorm.DB) CatalogoRepository[model.CentroCusto] {
	return NewCatalogoRepository[model.CentroCusto](db,
		Referencia{"cenario_centros_custo", "centro_custo_id"},
		Referencia{"quadro_pessoal", "centro_custo_id"},
		Referencia{"custos_diretos", "centro_custo_id"},
		Referencia{"alocacoes_tecnologia", "centro_custo_id"},
		Referencia{"rateio_destinos", "centro_custo_id"},
		Referencia{"receitas_cenario", "centro_custo_id"},
	)
}

func NewFornecedorRepository(db *gorm.DB) CatalogoRepository[model.Fornecedor] {
	return NewCatalogoRepository[model.Fornecedor](db,
		Referencia{"custos_diretos", "fornecedor_id"},
		Referencia{"alocacoes_tecnologia", "fornecedor_id"},
	)
}

func NewTipoCustoRepository(db *gorm.DB) CatalogoRepository[model.TipoCusto] {
	return NewCatalogoRepository[model.TipoCusto](db,
		Referencia{"cenario_rubricas", "tipo_custo_id"},
		Referencia{"custos_diretos", "tipo_custo_id"},
		Referencia{"alocacoes_tecnologia", "tipo_custo_id"},
	)
}

func NewTipoReceitaRepository(db *gorm.DB) CatalogoRepository[model.TipoReceita] {
	return NewCatalogoRepository[model.TipoReceita](db,
		Referencia{"receitas_cenario", "tipo_receita_id"},
	)
}
