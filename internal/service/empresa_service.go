package service

import (
	"context"

	"orcamento/internal/dto"
	"orcamento/internal/model"
	"orcamento/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EmpresaService interface {
	CatalogoService[dto.EmpresaRequest, dto.EmpresaResponse]

	ListarTributos(ctx context.Context, empresaID uuid.UUID) ([]dto.TributoResponse, error)
	CriarTributo(ctx context.Context, empresaID uuid.UUID, req dto.TributoRequest) (*dto.TributoResponse, error)
	ExcluirTributo(ctx context.Context, empresaID, id uuid.UUID) error

	ListarEncargos(ctx context.Context, empresaID uuid.UUID) ([]dto.EncargoResponse, error)
	CriarEncargo(ctx context.Context, empresaID uuid.UUID, req dto.EncargoRequest) (*dto.EncargoResponse, error)
	ExcluirEncargo(ctx context.Context, empresaID, id uuid.UUID) error

	// GerarPadroes seeds the usual Brazilian tributos and encargos, skipping
	// codes the company already has.
	GerarPadroes(ctx context.Context, empresaID uuid.UUID) (*dto.GerarPadroesResponse, error)
}

type empresaService struct {
	CatalogoService[dto.EmpresaRequest, dto.EmpresaResponse]
	repo repository.EmpresaRepository
}

func NewEmpresaService(repo repository.EmpresaRepository) EmpresaService {
	base := novoCatalogoService[model.Empresa](repo, mapeamento[model.Empresa, dto.EmpresaRequest, dto.EmpresaResponse]{
		entidade: "empresa",
		id:       func(e *model.Empresa) uuid.UUID { return e.ID },
		codigo:   func(r dto.EmpresaRequest) string { return r.Codigo },
		aplicar: func(e *model.Empresa, r dto.EmpresaRequest) {
			e.Codigo, e.Nome, e.CNPJ, e.Ativo = r.Codigo, r.Nome, r.CNPJ, ativo(r.Ativo)
		},
		resposta: func(e model.Empresa) dto.EmpresaResponse {
			return dto.EmpresaResponse{ID: e.ID, Codigo: e.Codigo, Nome: e.Nome, CNPJ: e.CNPJ, Ativo: e.Ativo}
		},
	})
	return &empresaService{CatalogoService: base, repo: repo}
}

func (s *empresaService) existe(ctx context.Context, empresaID uuid.UUID) error {
	_, err := s.repo.FindByID(ctx, empresaID)
	return buscar(err, "empresa")
}

// ── Tributos ─────────────────────────────────────────────────────────────────

func (s *empresaService) ListarTributos(ctx context.Context, empresaID uuid.UUID) ([]dto.TributoResponse, error) {
	if err := s.existe(ctx, empresaID); err != nil {
		return nil, err
	}
	tributos, err := s.repo.ListTributos(ctx, empresaID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TributoResponse, 0, len(tributos))
	for _, t := range tributos {
		out = append(out, mapTributo(t))
	}
	return out, nil
}

func (s *empresaService) CriarTributo(ctx context.Context, empresaID uuid.UUID, req dto.TributoRequest) (*dto.TributoResponse, error) {
	if err := s.existe(ctx, empresaID); err != nil {
		return nil, err
	}
	existentes, err := s.repo.ListTributos(ctx, empresaID)
	if err != nil {
		return nil, err
	}
	for _, t := range existentes {
		if t.Codigo == req.Codigo {
			return nil, conflito("a empresa já possui o tributo %s", req.Codigo)
		}
	}
	t := model.Tributo{
		EmpresaID:      empresaID,
		Codigo:         req.Codigo,
		Nome:           req.Nome,
		Aliquota:       req.Aliquota,
		ContaCodigo:    req.ContaCodigo,
		ContaDescricao: req.ContaDescricao,
	}
	lote := []model.Tributo{t}
	if err := s.repo.CreateTributos(ctx, lote); err != nil {
		return nil, err
	}
	resp := mapTributo(lote[0])
	return &resp, nil
}

func (s *empresaService) ExcluirTributo(ctx context.Context, empresaID, id uuid.UUID) error {
	return buscar(s.repo.DeleteTributo(ctx, empresaID, id), "tributo")
}

// ── Encargos ─────────────────────────────────────────────────────────────────

func (s *empresaService) ListarEncargos(ctx context.Context, empresaID uuid.UUID) ([]dto.EncargoResponse, error) {
	if err := s.existe(ctx, empresaID); err != nil {
		return nil, err
	}
	encargos, err := s.repo.ListEncargos(ctx, empresaID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.EncargoResponse, 0, len(encargos))
	for _, e := range encargos {
		out = append(out, mapEncargo(e))
	}
	return out, nil
}

func (s *empresaService) CriarEncargo(ctx context.Context, empresaID uuid.UUID, req dto.EncargoRequest) (*dto.EncargoResponse, error) {
	if err := s.existe(ctx, empresaID); err != nil {
		return nil, err
	}
	existentes, err := s.repo.ListEncargos(ctx, empresaID)
	if err != nil {
		return nil, err
	}
	for _, e := range existentes {
		if e.Codigo == req.Codigo {
			return nil, conflito("a empresa já possui o encargo %s", req.Codigo)
		}
	}
	e := model.Encargo{
		EmpresaID:      empresaID,
		Codigo:         req.Codigo,
		Nome:           req.Nome,
		Categoria:      req.Categoria,
		Tipo:           valorOu(req.Tipo, "OUTRO"),
		BaseCalculo:    valorOu(req.BaseCalculo, "SALARIO"),
		Aliquota:       req.Aliquota,
		ContaCodigo:    req.ContaCodigo,
		ContaDescricao: req.ContaDescricao,
	}
	lote := []model.Encargo{e}
	if err := s.repo.CreateEncargos(ctx, lote); err != nil {
		return nil, err
	}
	resp := mapEncargo(lote[0])
	return &resp, nil
}

func (s *empresaService) ExcluirEncargo(ctx context.Context, empresaID, id uuid.UUID) error {
	return buscar(s.repo.DeleteEncargo(ctx, empresaID, id), "encargo")
}

// ── Padrões ──────────────────────────────────────────────────────────────────

var tributosPadrao = []model.Tributo{
	{Codigo: "PIS", Nome: "PIS", Aliquota: decimal.RequireFromString("1.65"), ContaCodigo: "3.2.01", ContaDescricao: "PIS sobre faturamento"},
	{Codigo: "COFINS", Nome: "COFINS", Aliquota: decimal.RequireFromString("7.6"), ContaCodigo: "3.2.02", ContaDescricao: "COFINS sobre faturamento"},
	{Codigo: "ISS", Nome: "ISS", Aliquota: decimal.NewFromInt(5), ContaCodigo: "3.2.03", ContaDescricao: "ISS sobre serviços"},
}

var encargosPadrao = []model.Encargo{
	{Codigo: "INSS", Nome: "INSS patronal", Categoria: "ENCARGO", Tipo: "INSS", BaseCalculo: "SALARIO",
		Aliquota: decimal.NewFromInt(20), ContaCodigo: "4.1.02", ContaDescricao: "INSS"},
	{Codigo: "RAT", Nome: "RAT/SAT", Categoria: "ENCARGO", Tipo: "INSS", BaseCalculo: "SALARIO",
		Aliquota: decimal.NewFromInt(2), ContaCodigo: "4.1.02", ContaDescricao: "INSS"},
	{Codigo: "TERCEIROS", Nome: "Outras entidades", Categoria: "ENCARGO", Tipo: "INSS", BaseCalculo: "SALARIO",
		Aliquota: decimal.RequireFromString("5.8"), ContaCodigo: "4.1.02", ContaDescricao: "INSS"},
	{Codigo: "FGTS", Nome: "FGTS", Categoria: "ENCARGO", Tipo: "FGTS", BaseCalculo: "SALARIO",
		Aliquota: decimal.NewFromInt(8), ContaCodigo: "4.1.03", ContaDescricao: "FGTS"},
	{Codigo: "PROV_FERIAS", Nome: "Provisão de férias + 1/3", Categoria: "PROVISAO", Tipo: "FERIAS", BaseCalculo: "SALARIO",
		Aliquota: decimal.RequireFromString("11.11"), ContaCodigo: "4.1.04", ContaDescricao: "Provisão de férias"},
	{Codigo: "PROV_13", Nome: "Provisão de 13º salário", Categoria: "PROVISAO", Tipo: "DECIMO_TERCEIRO", BaseCalculo: "SALARIO",
		Aliquota: decimal.RequireFromString("8.33"), ContaCodigo: "4.1.05", ContaDescricao: "Provisão de 13º salário"},
	{Codigo: "FGTS_PROV", Nome: "FGTS sobre provisões", Categoria: "ENCARGO", Tipo: "OUTRO", BaseCalculo: "PROVISAO",
		Aliquota: decimal.NewFromInt(8), ContaCodigo: "4.1.03", ContaDescricao: "FGTS"},
}

func (s *empresaService) GerarPadroes(ctx context.Context, empresaID uuid.UUID) (*dto.GerarPadroesResponse, error) {
	if err := s.existe(ctx, empresaID); err != nil {
		return nil, err
	}
	tributos, err := s.repo.ListTributos(ctx, empresaID)
	if err != nil {
		return nil, err
	}
	encargos, err := s.repo.ListEncargos(ctx, empresaID)
	if err != nil {
		return nil, err
	}

	temTributo := make(map[string]bool, len(tributos))
	for _, t := range tributos {
		temTributo[t.Codigo] = true
	}
	var novosTributos []model.Tributo
	for _, t := range tributosPadrao {
		if !temTributo[t.Codigo] {
			t.EmpresaID = empresaID
			novosTributos = append(novosTributos, t)
		}
	}

	temEncargo := make(map[string]bool, len(encargos))
	for _, e := range encargos {
		temEncargo[e.Codigo] = true
	}
	var novosEncargos []model.Encargo
	for _, e := range encargosPadrao {
		if !temEncargo[e.Codigo] {
			e.EmpresaID = empresaID
			novosEncargos = append(novosEncargos, e)
		}
	}

	if err := s.repo.CreateTributos(ctx, novosTributos); err != nil {
		return nil, err
	}
	if err := s.repo.CreateEncargos(ctx, novosEncargos); err != nil {
		return nil, err
	}
	return &dto.GerarPadroesResponse{TributosCriados: len(novosTributos), EncargosCriados: len(novosEncargos)}, nil
}

// ── Mapping helpers ──────────────────────────────────────────────────────────

func mapTributo(t model.Tributo) dto.TributoResponse {
	return dto.TributoResponse{
		ID:             t.ID,
		EmpresaID:      t.EmpresaID,
		Codigo:         t.Codigo,
		Nome:           t.Nome,
		Aliquota:       t.Aliquota,
		ContaCodigo:    t.ContaCodigo,
		ContaDescricao: t.ContaDescricao,
	}
}

func mapEncargo(e model.Encargo) dto.EncargoResponse {
	return dto.EncargoResponse{
		ID:             e.ID,
		EmpresaID:      e.EmpresaID,
		Codigo:         e.Codigo,
		Nome:           e.Nome,
		Categoria:      e.Categoria,
		Tipo:           e.Tipo,
		BaseCalculo:    e.BaseCalculo,
		Aliquota:       e.Aliquota,
		ContaCodigo:    e.ContaCodigo,
		ContaDescricao: e.ContaDescricao,
	}
}

func valorOu(v, padrao string) string {
	if v == "" {
		return padrao
	}
	return v
}
