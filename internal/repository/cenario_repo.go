package repository

import (
	"context"
	"fmt"

	"orcamento/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CenarioRepository interface {
	Create(ctx context.Context, c *model.Cenario) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Cenario, error)
	FindByCodigo(ctx context.Context, codigo string) (*model.Cenario, error)
	List(ctx context.Context, status string) ([]model.Cenario, error)
	Update(ctx context.Context, c *model.Cenario) error
	// Delete removes the scenario and every scenario-scoped row.
	Delete(ctx context.Context, id uuid.UUID) error

	// Structure
	CreateEmpresa(ctx context.Context, e *model.CenarioEmpresa) error
	CreateCliente(ctx context.Context, c *model.CenarioCliente) error
	CreateSecao(ctx context.Context, s *model.CenarioSecao) error
	UpdateSecao(ctx context.Context, s *model.CenarioSecao) error
	FindSecao(ctx context.Context, cenarioID, secaoID uuid.UUID) (*model.CenarioSecao, error)
	CreateCentroCusto(ctx context.Context, c *model.CenarioCentroCusto) error

	// CarregarArvore loads the full tree plus referenced catalog entries.
	CarregarArvore(ctx context.Context, id uuid.UUID) (*Arvore, error)
	// CriarArvore inserts a complete tree (IDs already assigned) in one
	// transaction.
	CriarArvore(ctx context.Context, a *Arvore) error
}

type cenarioRepo struct{ db *gorm.DB }

func NewCenarioRepository(db *gorm.DB) CenarioRepository { return &cenarioRepo{db: db} }

func (r *cenarioRepo) Create(ctx context.Context, c *model.Cenario) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *cenarioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Cenario, error) {
	var c model.Cenario
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *cenarioRepo) FindByCodigo(ctx context.Context, codigo string) (*model.Cenario, error) {
	var c model.Cenario
	err := r.db.WithContext(ctx).Where("codigo = ?", codigo).First(&c).Error
	return &c, err
}

func (r *cenarioRepo) List(ctx context.Context, status string) ([]model.Cenario, error) {
	var out []model.Cenario
	q := r.db.WithContext(ctx).Order("ano_inicio DESC, mes_inicio DESC, codigo ASC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Find(&out).Error
	return out, err
}

func (r *cenarioRepo) Update(ctx context.Context, c *model.Cenario) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// Child tables without a cenario_id column, cleared through their parent.
var tabelasFilhas = []struct{ tabela, coluna, pai string }{
	{"quadro_quantidades", "quadro_pessoal_id", "quadro_pessoal"},
	{"funcao_span_bases", "funcao_span_id", "funcao_spans"},
	{"premissas_receita", "receita_cenario_id", "receitas_cenario"},
}

// Scenario-scoped tables, leaves first.
var tabelasCenario = []string{
	"calculo_pendencias",
	"receitas_calculadas",
	"custos_calculados",
	"rateio_destinos",
	"receitas_cenario",
	"alocacoes_tecnologia",
	"custos_diretos",
	"cenario_rubricas",
	"premissas_funcao",
	"rateio_grupos",
	"funcao_spans",
	"quadro_pessoal",
	"cenario_centros_custo",
	"cenario_secoes",
	"cenario_clientes",
	"cenario_empresas",
}

func (r *cenarioRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, f := range tabelasFilhas {
			sql := fmt.Sprintf("DELETE FROM %s WHERE %s IN (SELECT id FROM %s WHERE cenario_id = ?)", f.tabela, f.coluna, f.pai)
			if err := tx.Exec(sql, id).Error; err != nil {
				return err
			}
		}
		for _, t := range tabelasCenario {
			if err := tx.Exec("DELETE FROM "+t+" WHERE cenario_id = ?", id).Error; err != nil {
				return err
			}
		}
		res := tx.Delete(&model.Cenario{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// ── Structure ────────────────────────────────────────────────────────────────

func (r *cenarioRepo) CreateEmpresa(ctx context.Context, e *model.CenarioEmpresa) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *cenarioRepo) CreateCliente(ctx context.Context, c *model.CenarioCliente) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *cenarioRepo) CreateSecao(ctx context.Context, s *model.CenarioSecao) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *cenarioRepo) UpdateSecao(ctx context.Context, s *model.CenarioSecao) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *cenarioRepo) FindSecao(ctx context.Context, cenarioID, secaoID uuid.UUID) (*model.CenarioSecao, error) {
	var s model.CenarioSecao
	err := r.db.WithContext(ctx).Where("cenario_id = ? AND id = ?", cenarioID, secaoID).First(&s).Error
	return &s, err
}

func (r *cenarioRepo) CreateCentroCusto(ctx context.Context, c *model.CenarioCentroCusto) error {
	return r.db.WithContext(ctx).Create(c).Error
}

// ── Tree ─────────────────────────────────────────────────────────────────────

func (r *cenarioRepo) CarregarArvore(ctx context.Context, id uuid.UUID) (*Arvore, error) {
	db := r.db.WithContext(ctx)
	a := &Arvore{}
	if err := db.First(&a.Cenario, "id = ?", id).Error; err != nil {
		return nil, err
	}

	porCenario := db.Where("cenario_id = ?", id).Session(&gorm.Session{})
	carregar := []struct {
		destino any
		ordem   string
		preload string
	}{
		{&a.Empresas, "created_at", ""},
		{&a.Clientes, "created_at", ""},
		{&a.Secoes, "created_at", ""},
		{&a.CentrosCusto, "created_at", ""},
		{&a.Quadro, "created_at", "Quantidades"},
		{&a.Spans, "created_at", "Bases"},
		{&a.Grupos, "created_at", ""},
		{&a.PremissasFuncao, "ano, mes", ""},
		{&a.Rubricas, "created_at", ""},
		{&a.Custos, "created_at", "Rateio"},
		{&a.Alocacoes, "created_at", "Rateio"},
		{&a.Receitas, "created_at", "Premissas"},
	}
	for _, c := range carregar {
		q := porCenario.Order(c.ordem)
		if c.preload != "" {
			q = q.Preload(c.preload)
		}
		if err := q.Find(c.destino).Error; err != nil {
			return nil, fmt.Errorf("carregar cenário %s: %w", id, err)
		}
	}

	if err := r.carregarCatalogo(db, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (r *cenarioRepo) carregarCatalogo(db *gorm.DB, a *Arvore) error {
	var funcoes []model.Funcao
	if err := db.Find(&funcoes).Error; err != nil {
		return err
	}
	a.Funcoes = make(map[uuid.UUID]model.Funcao, len(funcoes))
	for _, f := range funcoes {
		a.Funcoes[f.ID] = f
	}

	var tipos []model.TipoCusto
	if err := db.Find(&tipos).Error; err != nil {
		return err
	}
	a.TiposCusto = make(map[uuid.UUID]model.TipoCusto, len(tipos))
	for _, t := range tipos {
		a.TiposCusto[t.ID] = t
	}

	var tiposReceita []model.TipoReceita
	if err := db.Find(&tiposReceita).Error; err != nil {
		return err
	}
	a.TiposReceita = make(map[uuid.UUID]model.TipoReceita, len(tiposReceita))
	for _, t := range tiposReceita {
		a.TiposReceita[t.ID] = t
	}

	a.Tributos = make(map[uuid.UUID][]model.Tributo)
	a.Encargos = make(map[uuid.UUID][]model.Encargo)
	if len(a.Empresas) == 0 {
		return nil
	}
	empresas := make([]uuid.UUID, 0, len(a.Empresas))
	for _, e := range a.Empresas {
		empresas = append(empresas, e.EmpresaID)
	}
	var tributos []model.Tributo
	if err := db.Where("empresa_id IN ?", empresas).Order("codigo").Find(&tributos).Error; err != nil {
		return err
	}
	for _, t := range tributos {
		a.Tributos[t.EmpresaID] = append(a.Tributos[t.EmpresaID], t)
	}
	var encargos []model.Encargo
	if err := db.Where("empresa_id IN ?", empresas).Order("codigo").Find(&encargos).Error; err != nil {
		return err
	}
	for _, e := range encargos {
		a.Encargos[e.EmpresaID] = append(a.Encargos[e.EmpresaID], e)
	}
	return nil
}

func criar[T any](tx *gorm.DB, itens []T) error {
	if len(itens) == 0 {
		return nil
	}
	return tx.Create(&itens).Error
}

func (r *cenarioRepo) CriarArvore(ctx context.Context, a *Arvore) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&a.Cenario).Error; err != nil {
			return err
		}
		// Has-many children (quantidades, bases, rateio, premissas) are
		// inserted by gorm together with their parents.
		passos := []func() error{
			func() error { return criar(tx, a.Empresas) },
			func() error { return criar(tx, a.Clientes) },
			func() error { return criar(tx, a.Secoes) },
			func() error { return criar(tx, a.CentrosCusto) },
			func() error { return criar(tx, a.Grupos) },
			func() error { return criar(tx, a.Quadro) },
			func() error { return criar(tx, a.Spans) },
			func() error { return criar(tx, a.PremissasFuncao) },
			func() error { return criar(tx, a.Rubricas) },
			func() error { return criar(tx, a.Custos) },
			func() error { return criar(tx, a.Alocacoes) },
			func() error { return criar(tx, a.Receitas) },
		}
		for _, p := range passos {
			if err := p(); err != nil {
				return err
			}
		}
		return nil
	})
}
