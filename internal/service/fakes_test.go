package service_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"orcamento/internal/calculo"
	"orcamento/internal/model"
	"orcamento/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

// ── CenarioRepository ────────────────────────────────────────────────────────

type fakeCenarioRepo struct {
	arvores map[uuid.UUID]*repository.Arvore
}

var _ repository.CenarioRepository = (*fakeCenarioRepo)(nil)

func newFakeCenarioRepo() *fakeCenarioRepo {
	return &fakeCenarioRepo{arvores: make(map[uuid.UUID]*repository.Arvore)}
}

func novoID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (r *fakeCenarioRepo) Create(_ context.Context, c *model.Cenario) error {
	novoID(&c.ID)
	c.CreatedAt, c.UpdatedAt = time.Now(), time.Now()
	r.arvores[c.ID] = &repository.Arvore{Cenario: *c}
	return nil
}

func (r *fakeCenarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cenario, error) {
	a, ok := r.arvores[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := a.Cenario
	return &c, nil
}

func (r *fakeCenarioRepo) FindByCodigo(_ context.Context, codigo string) (*model.Cenario, error) {
	for _, a := range r.arvores {
		if a.Cenario.Codigo == codigo {
			c := a.Cenario
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCenarioRepo) List(_ context.Context, status string) ([]model.Cenario, error) {
	var out []model.Cenario
	for _, a := range r.arvores {
		if status == "" || a.Cenario.Status == status {
			out = append(out, a.Cenario)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Codigo < out[j].Codigo })
	return out, nil
}

func (r *fakeCenarioRepo) Update(_ context.Context, c *model.Cenario) error {
	a, ok := r.arvores[c.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	a.Cenario = *c
	return nil
}

func (r *fakeCenarioRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.arvores[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.arvores, id)
	return nil
}

func (r *fakeCenarioRepo) CreateEmpresa(_ context.Context, e *model.CenarioEmpresa) error {
	novoID(&e.ID)
	a := r.arvores[e.CenarioID]
	a.Empresas = append(a.Empresas, *e)
	return nil
}

func (r *fakeCenarioRepo) CreateCliente(_ context.Context, c *model.CenarioCliente) error {
	novoID(&c.ID)
	a := r.arvores[c.CenarioID]
	a.Clientes = append(a.Clientes, *c)
	return nil
}

func (r *fakeCenarioRepo) CreateSecao(_ context.Context, s *model.CenarioSecao) error {
	novoID(&s.ID)
	a := r.arvores[s.CenarioID]
	a.Secoes = append(a.Secoes, *s)
	return nil
}

func (r *fakeCenarioRepo) UpdateSecao(_ context.Context, s *model.CenarioSecao) error {
	a := r.arvores[s.CenarioID]
	for i := range a.Secoes {
		if a.Secoes[i].ID == s.ID {
			a.Secoes[i] = *s
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeCenarioRepo) FindSecao(_ context.Context, cenarioID, secaoID uuid.UUID) (*model.CenarioSecao, error) {
	a, ok := r.arvores[cenarioID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	s, ok := a.Secao(secaoID)
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &s, nil
}

func (r *fakeCenarioRepo) CreateCentroCusto(_ context.Context, c *model.CenarioCentroCusto) error {
	novoID(&c.ID)
	a := r.arvores[c.CenarioID]
	a.CentrosCusto = append(a.CentrosCusto, *c)
	return nil
}

func (r *fakeCenarioRepo) CarregarArvore(_ context.Context, id uuid.UUID) (*repository.Arvore, error) {
	a, ok := r.arvores[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeCenarioRepo) CriarArvore(_ context.Context, a *repository.Arvore) error {
	r.arvores[a.Cenario.ID] = a
	return nil
}

// ── CatalogoRepository[T] ────────────────────────────────────────────────────

type fakeCatalogo[T any] struct {
	itens  map[uuid.UUID]*T
	id     func(*T) *uuid.UUID
	codigo func(*T) string
	emUso  map[uuid.UUID]bool
}

func newFakeCatalogo[T any](id func(*T) *uuid.UUID, codigo func(*T) string) *fakeCatalogo[T] {
	return &fakeCatalogo[T]{itens: make(map[uuid.UUID]*T), id: id, codigo: codigo, emUso: make(map[uuid.UUID]bool)}
}

func newFakeFuncoes() *fakeCatalogo[model.Funcao] {
	return newFakeCatalogo(func(f *model.Funcao) *uuid.UUID { return &f.ID }, func(f *model.Funcao) string { return f.Codigo })
}

func newFakeTiposCusto() *fakeCatalogo[model.TipoCusto] {
	return newFakeCatalogo(func(t *model.TipoCusto) *uuid.UUID { return &t.ID }, func(t *model.TipoCusto) string { return t.Codigo })
}

func (r *fakeCatalogo[T]) Create(_ context.Context, item *T) error {
	novoID(r.id(item))
	cp := *item
	r.itens[*r.id(item)] = &cp
	return nil
}

func (r *fakeCatalogo[T]) FindByID(_ context.Context, id uuid.UUID) (*T, error) {
	it, ok := r.itens[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *it
	return &cp, nil
}

func (r *fakeCatalogo[T]) FindByCodigo(_ context.Context, codigo string) (*T, error) {
	for _, it := range r.itens {
		if r.codigo(it) == codigo {
			cp := *it
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCatalogo[T]) List(_ context.Context, _ bool) ([]T, error) {
	out := make([]T, 0, len(r.itens))
	for _, it := range r.itens {
		out = append(out, *it)
	}
	sort.Slice(out, func(i, j int) bool { return r.codigo(&out[i]) < r.codigo(&out[j]) })
	return out, nil
}

func (r *fakeCatalogo[T]) Update(_ context.Context, item *T) error {
	cp := *item
	r.itens[*r.id(item)] = &cp
	return nil
}

func (r *fakeCatalogo[T]) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.itens[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.itens, id)
	return nil
}

func (r *fakeCatalogo[T]) EmUso(_ context.Context, id uuid.UUID) (bool, error) {
	return r.emUso[id], nil
}

// ── EmpresaRepository ────────────────────────────────────────────────────────

type fakeEmpresaRepo struct {
	*fakeCatalogo[model.Empresa]
	tributos []model.Tributo
	encargos []model.Encargo
}

var _ repository.EmpresaRepository = (*fakeEmpresaRepo)(nil)

func newFakeEmpresaRepo() *fakeEmpresaRepo {
	return &fakeEmpresaRepo{fakeCatalogo: newFakeCatalogo(
		func(e *model.Empresa) *uuid.UUID { return &e.ID },
		func(e *model.Empresa) string { return e.Codigo },
	)}
}

func (r *fakeEmpresaRepo) ListTributos(_ context.Context, empresaID uuid.UUID) ([]model.Tributo, error) {
	var out []model.Tributo
	for _, t := range r.tributos {
		if t.EmpresaID == empresaID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeEmpresaRepo) CreateTributos(_ context.Context, tributos []model.Tributo) error {
	for i := range tributos {
		novoID(&tributos[i].ID)
	}
	r.tributos = append(r.tributos, tributos...)
	return nil
}

func (r *fakeEmpresaRepo) DeleteTributo(_ context.Context, empresaID, id uuid.UUID) error {
	for i, t := range r.tributos {
		if t.ID == id && t.EmpresaID == empresaID {
			r.tributos = append(r.tributos[:i], r.tributos[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeEmpresaRepo) ListEncargos(_ context.Context, empresaID uuid.UUID) ([]model.Encargo, error) {
	var out []model.Encargo
	for _, e := range r.encargos {
		if e.EmpresaID == empresaID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeEmpresaRepo) CreateEncargos(_ context.Context, encargos []model.Encargo) error {
	for i := range encargos {
		novoID(&encargos[i].ID)
	}
	r.encargos = append(r.encargos, encargos...)
	return nil
}

func (r *fakeEmpresaRepo) DeleteEncargo(_ context.Context, empresaID, id uuid.UUID) error {
	for i, e := range r.encargos {
		if e.ID == id && e.EmpresaID == empresaID {
			r.encargos = append(r.encargos[:i], r.encargos[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// ── QuadroRepository ─────────────────────────────────────────────────────────

// fakeQuadroRepo writes straight into the scenario trees of a
// fakeCenarioRepo, so CarregarArvore sees every change.
type fakeQuadroRepo struct {
	cenarios    *fakeCenarioRepo
	gruposEmUso map[uuid.UUID]bool
}

var _ repository.QuadroRepository = (*fakeQuadroRepo)(nil)

func newFakeQuadroRepo(cenarios *fakeCenarioRepo) *fakeQuadroRepo {
	return &fakeQuadroRepo{cenarios: cenarios, gruposEmUso: make(map[uuid.UUID]bool)}
}

func (r *fakeQuadroRepo) Create(_ context.Context, q *model.QuadroPessoal) error {
	novoID(&q.ID)
	for i := range q.Quantidades {
		novoID(&q.Quantidades[i].ID)
		q.Quantidades[i].QuadroPessoalID = q.ID
	}
	a := r.cenarios.arvores[q.CenarioID]
	a.Quadro = append(a.Quadro, *q)
	return nil
}

func (r *fakeQuadroRepo) FindByID(_ context.Context, cenarioID, id uuid.UUID) (*model.QuadroPessoal, error) {
	a, ok := r.cenarios.arvores[cenarioID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	for _, q := range a.Quadro {
		if q.ID == id {
			return &q, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeQuadroRepo) ListByCenario(_ context.Context, cenarioID uuid.UUID, secaoID *uuid.UUID) ([]model.QuadroPessoal, error) {
	var out []model.QuadroPessoal
	for _, q := range r.cenarios.arvores[cenarioID].Quadro {
		if secaoID == nil || q.CenarioSecaoID == *secaoID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (r *fakeQuadroRepo) Update(_ context.Context, q *model.QuadroPessoal) error {
	a := r.cenarios.arvores[q.CenarioID]
	for i := range a.Quadro {
		if a.Quadro[i].ID == q.ID {
			a.Quadro[i] = *q
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeQuadroRepo) Delete(_ context.Context, cenarioID, id uuid.UUID) error {
	a := r.cenarios.arvores[cenarioID]
	for i := range a.Quadro {
		if a.Quadro[i].ID == id {
			a.Quadro = append(a.Quadro[:i], a.Quadro[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeQuadroRepo) AplicarSpans(_ context.Context, valores map[uuid.UUID][]model.QuadroQuantidade) (int, int, error) {
	criados, atualizados := 0, 0
	agora := time.Now()
	for _, a := range r.cenarios.arvores {
		for i := range a.Quadro {
			novos, ok := valores[a.Quadro[i].ID]
			if !ok {
				continue
			}
			if len(a.Quadro[i].Quantidades) == 0 {
				criados += len(novos)
			} else {
				atualizados += len(novos)
			}
			a.Quadro[i].Quantidades = novos
			a.Quadro[i].SpanAplicadoEm = &agora
		}
	}
	return criados, atualizados, nil
}

func (r *fakeQuadroRepo) CreateSpan(_ context.Context, s *model.FuncaoSpan) error {
	novoID(&s.ID)
	for i := range s.Bases {
		novoID(&s.Bases[i].ID)
		s.Bases[i].FuncaoSpanID = s.ID
	}
	a := r.cenarios.arvores[s.CenarioID]
	a.Spans = append(a.Spans, *s)
	return nil
}

func (r *fakeQuadroRepo) ListSpans(_ context.Context, cenarioID uuid.UUID) ([]model.FuncaoSpan, error) {
	return append([]model.FuncaoSpan(nil), r.cenarios.arvores[cenarioID].Spans...), nil
}

func (r *fakeQuadroRepo) DeleteSpan(_ context.Context, cenarioID, id uuid.UUID) error {
	a := r.cenarios.arvores[cenarioID]
	for i := range a.Spans {
		if a.Spans[i].ID == id {
			a.Spans = append(a.Spans[:i], a.Spans[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeQuadroRepo) CreateGrupo(_ context.Context, g *model.RateioGrupo) error {
	novoID(&g.ID)
	a := r.cenarios.arvores[g.CenarioID]
	a.Grupos = append(a.Grupos, *g)
	return nil
}

func (r *fakeQuadroRepo) ListGrupos(_ context.Context, cenarioID uuid.UUID) ([]model.RateioGrupo, error) {
	return append([]model.RateioGrupo(nil), r.cenarios.arvores[cenarioID].Grupos...), nil
}

func (r *fakeQuadroRepo) DeleteGrupo(_ context.Context, cenarioID, id uuid.UUID) error {
	a := r.cenarios.arvores[cenarioID]
	for i := range a.Grupos {
		if a.Grupos[i].ID == id {
			a.Grupos = append(a.Grupos[:i], a.Grupos[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeQuadroRepo) GrupoEmUso(_ context.Context, id uuid.UUID) (bool, error) {
	return r.gruposEmUso[id], nil
}

// ── ResultadoRepository ──────────────────────────────────────────────────────

// fakeResultadoRepo mirrors the scope rules of the SQL repository. The three
// passes of calcular-tudo write concurrently, hence the mutex.
type fakeResultadoRepo struct {
	mu          sync.Mutex
	custos      []model.CustoCalculado
	receitas    []model.ReceitaCalculada
	pendencias  []model.CalculoPendencia
	leiturasDRE int
}

var _ repository.ResultadoRepository = (*fakeResultadoRepo)(nil)

func noEscopo(e repository.Escopo, cenarioID, secaoID uuid.UUID) bool {
	return cenarioID == e.CenarioID && (e.SecaoID == nil || secaoID == *e.SecaoID)
}

func (r *fakeResultadoRepo) Substituir(_ context.Context, e repository.Escopo, res repository.Resultados) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	custos := r.custos[:0:0]
	for _, c := range r.custos {
		if c.Passe == string(e.Passe) && noEscopo(e, c.CenarioID, c.CenarioSecaoID) {
			continue
		}
		custos = append(custos, c)
	}
	r.custos = append(custos, res.Custos...)

	if e.Passe == calculo.PasseReceita {
		receitas := r.receitas[:0:0]
		for _, rc := range r.receitas {
			if noEscopo(e, rc.CenarioID, rc.CenarioSecaoID) {
				continue
			}
			receitas = append(receitas, rc)
		}
		r.receitas = append(receitas, res.Receitas...)
	}

	pend := r.pendencias[:0:0]
	for _, p := range r.pendencias {
		mesmo := p.CenarioID == e.CenarioID && p.Passe == string(e.Passe) &&
			(e.SecaoID == nil || (p.CenarioSecaoID != nil && *p.CenarioSecaoID == *e.SecaoID))
		if !mesmo {
			pend = append(pend, p)
		}
	}
	r.pendencias = append(pend, res.Pendencias...)
	return nil
}

func (r *fakeResultadoRepo) ListCustos(_ context.Context, cenarioID uuid.UUID, secaoID *uuid.UUID, ano int) ([]model.CustoCalculado, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leiturasDRE++
	var out []model.CustoCalculado
	for _, c := range r.custos {
		if c.CenarioID == cenarioID && c.Ano == ano && (secaoID == nil || c.CenarioSecaoID == *secaoID) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeResultadoRepo) ListReceitas(_ context.Context, cenarioID uuid.UUID, secaoID *uuid.UUID, ano int) ([]model.ReceitaCalculada, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.ReceitaCalculada
	for _, rc := range r.receitas {
		if rc.CenarioID == cenarioID && rc.Ano == ano && (secaoID == nil || rc.CenarioSecaoID == *secaoID) {
			out = append(out, rc)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Mes < out[j].Mes })
	return out, nil
}

func (r *fakeResultadoRepo) ListPendencias(_ context.Context, cenarioID uuid.UUID, secaoID *uuid.UUID) ([]model.CalculoPendencia, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.CalculoPendencia
	for _, p := range r.pendencias {
		if p.CenarioID != cenarioID {
			continue
		}
		if secaoID != nil && (p.CenarioSecaoID == nil || *p.CenarioSecaoID != *secaoID) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeResultadoRepo) custosDoPasse(passe calculo.Passe) []model.CustoCalculado {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.CustoCalculado
	for _, c := range r.custos {
		if c.Passe == string(passe) {
			out = append(out, c)
		}
	}
	return out
}

// ── Cache / Agendador ────────────────────────────────────────────────────────

type fakeCache struct {
	mu    sync.Mutex
	dados map[string][]byte
}

func newFakeCache() *fakeCache { return &fakeCache{dados: make(map[string][]byte)} }

func (c *fakeCache) Get(_ context.Context, chave string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.dados[chave]
	return b, ok
}

func (c *fakeCache) Set(_ context.Context, chave string, valor []byte, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dados[chave] = valor
}

func (c *fakeCache) InvalidarPrefixo(_ context.Context, prefixo string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.dados {
		if strings.HasPrefix(k, prefixo) {
			delete(c.dados, k)
		}
	}
}

type fakeAgendador struct {
	jobs []uuid.UUID
}

func (a *fakeAgendador) EnqueueRecalculo(_ context.Context, cenarioID uuid.UUID) (uuid.UUID, error) {
	a.jobs = append(a.jobs, cenarioID)
	return uuid.New(), nil
}
