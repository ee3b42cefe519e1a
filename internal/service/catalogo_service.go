package service

import (
	"context"
	"errors"

	"orcamento/internal/dto"
	"orcamento/internal/model"
	"orcamento/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogoService defines the CRUD shared by the catalog entries. Deleting
// an entry still referenced by a scenario fails with ErrConflito.
type CatalogoService[Req, Resp any] interface {
	Criar(ctx context.Context, req Req) (*Resp, error)
	Listar(ctx context.Context, apenasAtivos bool) ([]Resp, error)
	ObterPorID(ctx context.Context, id uuid.UUID) (*Resp, error)
	Atualizar(ctx context.Context, id uuid.UUID, req Req) (*Resp, error)
	Excluir(ctx context.Context, id uuid.UUID) error
}

// mapeamento tells the generic service how to read and write one catalog type.
type mapeamento[T, Req, Resp any] struct {
	entidade string
	id       func(*T) uuid.UUID
	codigo   func(Req) string
	aplicar  func(*T, Req)
	resposta func(T) Resp
}

type catalogoService[T, Req, Resp any] struct {
	repo repository.CatalogoRepository[T]
	m    mapeamento[T, Req, Resp]
}

func novoCatalogoService[T, Req, Resp any](repo repository.CatalogoRepository[T], m mapeamento[T, Req, Resp]) *catalogoService[T, Req, Resp] {
	return &catalogoService[T, Req, Resp]{repo: repo, m: m}
}

func (s *catalogoService[T, Req, Resp]) codigoLivre(ctx context.Context, codigo string, atual uuid.UUID) error {
	existente, err := s.repo.FindByCodigo(ctx, codigo)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if err == nil && s.m.id(existente) != atual {
		return conflito("já existe %s com o código %s", s.m.entidade, codigo)
	}
	return nil
}

func (s *catalogoService[T, Req, Resp]) Criar(ctx context.Context, req Req) (*Resp, error) {
	if err := s.codigoLivre(ctx, s.m.codigo(req), uuid.Nil); err != nil {
		return nil, err
	}
	item := new(T)
	s.m.aplicar(item, req)
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	resp := s.m.resposta(*item)
	return &resp, nil
}

func (s *catalogoService[T, Req, Resp]) Listar(ctx context.Context, apenasAtivos bool) ([]Resp, error) {
	itens, err := s.repo.List(ctx, apenasAtivos)
	if err != nil {
		return nil, err
	}
	out := make([]Resp, 0, len(itens))
	for _, it := range itens {
		out = append(out, s.m.resposta(it))
	}
	return out, nil
}

func (s *catalogoService[T, Req, Resp]) ObterPorID(ctx context.Context, id uuid.UUID) (*Resp, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, buscar(err, s.m.entidade)
	}
	resp := s.m.resposta(*item)
	return &resp, nil
}

func (s *catalogoService[T, Req, Resp]) Atualizar(ctx context.Context, id uuid.UUID, req Req) (*Resp, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, buscar(err, s.m.entidade)
	}
	if err := s.codigoLivre(ctx, s.m.codigo(req), id); err != nil {
		return nil, err
	}
	s.m.aplicar(item, req)
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	resp := s.m.resposta(*item)
	return &resp, nil
}

func (s *catalogoService[T, Req, Resp]) Excluir(ctx context.Context, id uuid.UUID) error {
	emUso, err := s.repo.EmUso(ctx, id)
	if err != nil {
		return err
	}
	if emUso {
		return conflito("%s em uso por um ou mais cenários", s.m.entidade)
	}
	return buscar(s.repo.Delete(ctx, id), s.m.entidade)
}

func ativo(v *bool) bool { return v == nil || *v }

// ── Instances ─────────────────────────────────────────────────────────────────

type (
	FuncaoService      = CatalogoService[dto.FuncaoRequest, dto.FuncaoResponse]
	CentroCustoService = CatalogoService[dto.CentroCustoRequest, dto.CentroCustoResponse]
	FornecedorService  = CatalogoService[dto.FornecedorRequest, dto.FornecedorResponse]
	TipoCustoService   = CatalogoService[dto.TipoCustoRequest, dto.TipoCustoResponse]
	TipoReceitaService = CatalogoService[dto.TipoReceitaRequest, dto.TipoReceitaResponse]
)

func NewFuncaoService(repo repository.CatalogoRepository[model.Funcao]) FuncaoService {
	return novoCatalogoService(repo, mapeamento[model.Funcao, dto.FuncaoRequest, dto.FuncaoResponse]{
		entidade: "função",
		id:       func(f *model.Funcao) uuid.UUID { return f.ID },
		codigo:   func(r dto.FuncaoRequest) string { return r.Codigo },
		aplicar: func(f *model.Funcao, r dto.FuncaoRequest) {
			f.Codigo, f.Nome, f.SalarioBase, f.Ativo = r.Codigo, r.Nome, r.SalarioBase, ativo(r.Ativo)
		},
		resposta: func(f model.Funcao) dto.FuncaoResponse {
			return dto.FuncaoResponse{ID: f.ID, Codigo: f.Codigo, Nome: f.Nome, SalarioBase: f.SalarioBase, Ativo: f.Ativo}
		},
	})
}

func NewCentroCustoService(repo repository.CatalogoRepository[model.CentroCusto]) CentroCustoService {
	return novoCatalogoService(repo, mapeamento[model.CentroCusto, dto.CentroCustoRequest, dto.CentroCustoResponse]{
		entidade: "centro de custo",
		id:       func(c *model.CentroCusto) uuid.UUID { return c.ID },
		codigo:   func(r dto.CentroCustoRequest) string { return r.Codigo },
		aplicar: func(c *model.CentroCusto, r dto.CentroCustoRequest) {
			c.Codigo, c.Nome, c.Ativo = r.Codigo, r.Nome, ativo(r.Ativo)
		},
		resposta: func(c model.CentroCusto) dto.CentroCustoResponse {
			return dto.CentroCustoResponse{ID: c.ID, Codigo: c.Codigo, Nome: c.Nome, Ativo: c.Ativo}
		},
	})
}

func NewFornecedorService(repo repository.CatalogoRepository[model.Fornecedor]) FornecedorService {
	return novoCatalogoService(repo, mapeamento[model.Fornecedor, dto.FornecedorRequest, dto.FornecedorResponse]{
		entidade: "fornecedor",
		id:       func(f *model.Fornecedor) uuid.UUID { return f.ID },
		codigo:   func(r dto.FornecedorRequest) string { return r.Codigo },
		aplicar: func(f *model.Fornecedor, r dto.FornecedorRequest) {
			f.Codigo, f.Nome, f.CNPJ, f.Ativo = r.Codigo, r.Nome, r.CNPJ, ativo(r.Ativo)
		},
		resposta: func(f model.Fornecedor) dto.FornecedorResponse {
			return dto.FornecedorResponse{ID: f.ID, Codigo: f.Codigo, Nome: f.Nome, CNPJ: f.CNPJ, Ativo: f.Ativo}
		},
	})
}

func NewTipoCustoService(repo repository.CatalogoRepository[model.TipoCusto]) TipoCustoService {
	return novoCatalogoService(repo, mapeamento[model.TipoCusto, dto.TipoCustoRequest, dto.TipoCustoResponse]{
		entidade: "tipo de custo",
		id:       func(t *model.TipoCusto) uuid.UUID { return t.ID },
		codigo:   func(r dto.TipoCustoRequest) string { return r.Codigo },
		aplicar: func(t *model.TipoCusto, r dto.TipoCustoRequest) {
			t.Codigo, t.Nome = r.Codigo, r.Nome
			t.ContaCodigo, t.ContaDescricao = r.ContaCodigo, r.ContaDescricao
			t.IncideFGTS, t.IncideINSS = r.IncideFGTS, r.IncideINSS
			t.ReflexoFerias, t.Reflexo13 = r.ReflexoFerias, r.Reflexo13
			t.Ativo = ativo(r.Ativo)
		},
		resposta: func(t model.TipoCusto) dto.TipoCustoResponse {
			return dto.TipoCustoResponse{
				ID: t.ID, Codigo: t.Codigo, Nome: t.Nome,
				ContaCodigo: t.ContaCodigo, ContaDescricao: t.ContaDescricao,
				IncideFGTS: t.IncideFGTS, IncideINSS: t.IncideINSS,
				ReflexoFerias: t.ReflexoFerias, Reflexo13: t.Reflexo13,
				Ativo: t.Ativo,
			}
		},
	})
}

func NewTipoReceitaService(repo repository.CatalogoRepository[model.TipoReceita]) TipoReceitaService {
	return novoCatalogoService(repo, mapeamento[model.TipoReceita, dto.TipoReceitaRequest, dto.TipoReceitaResponse]{
		entidade: "tipo de receita",
		id:       func(t *model.TipoReceita) uuid.UUID { return t.ID },
		codigo:   func(r dto.TipoReceitaRequest) string { return r.Codigo },
		aplicar: func(t *model.TipoReceita, r dto.TipoReceitaRequest) {
			t.Codigo, t.Nome = r.Codigo, r.Nome
			t.ContaCodigo, t.ContaDescricao = r.ContaCodigo, r.ContaDescricao
			t.Ativo = ativo(r.Ativo)
		},
		resposta: func(t model.TipoReceita) dto.TipoReceitaResponse {
			return dto.TipoReceitaResponse{
				ID: t.ID, Codigo: t.Codigo, Nome: t.Nome,
				ContaCodigo: t.ContaCodigo, ContaDescricao: t.ContaDescricao, Ativo: t.Ativo,
			}
		},
	})
}
