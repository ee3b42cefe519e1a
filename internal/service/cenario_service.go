package service

import (
	"context"
	"errors"

	"orcamento/internal/calculo"
	"orcamento/internal/dto"
	"orcamento/internal/model"
	"orcamento/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	StatusRascunho  = "RASCUNHO"
	StatusAprovado  = "APROVADO"
	StatusBloqueado = "BLOQUEADO"
)

// transicoes lists the allowed status changes. BLOQUEADO is terminal.
var transicoes = map[string][]string{
	StatusRascunho: {StatusAprovado},
	StatusAprovado: {StatusRascunho, StatusBloqueado},
}

func transicaoPermitida(de, para string) bool {
	for _, s := range transicoes[de] {
		if s == para {
			return true
		}
	}
	return false
}

type CenarioService interface {
	Criar(ctx context.Context, req dto.CenarioRequest) (*dto.CenarioResponse, error)
	Listar(ctx context.Context, filter dto.CenarioFilter) ([]dto.CenarioResponse, error)
	ObterPorID(ctx context.Context, id uuid.UUID) (*dto.CenarioResponse, error)
	Atualizar(ctx context.Context, id uuid.UUID, req dto.CenarioRequest) (*dto.CenarioResponse, error)
	Excluir(ctx context.Context, id uuid.UUID) error
	AlterarStatus(ctx context.Context, id uuid.UUID, req dto.AlterarStatusRequest) (*dto.CenarioResponse, error)
	Duplicar(ctx context.Context, id uuid.UUID, req dto.DuplicarCenarioRequest) (*dto.CenarioResponse, error)

	Estrutura(ctx context.Context, id uuid.UUID) (*dto.EstruturaResponse, error)
	AdicionarEmpresa(ctx context.Context, id uuid.UUID, req dto.AdicionarEmpresaRequest) (*dto.IDResponse, error)
	AdicionarCliente(ctx context.Context, id uuid.UUID, req dto.AdicionarClienteRequest) (*dto.IDResponse, error)
	AdicionarSecao(ctx context.Context, id uuid.UUID, req dto.SecaoRequest) (*dto.IDResponse, error)
	AtualizarSecao(ctx context.Context, id, secaoID uuid.UUID, req dto.AtualizarSecaoRequest) error
	AdicionarCentroCusto(ctx context.Context, id uuid.UUID, req dto.AdicionarCentroCustoRequest) (*dto.IDResponse, error)
}

type cenarioService struct {
	repo     repository.CenarioRepository
	empresas repository.CatalogoRepository[model.Empresa]
	centros  repository.CatalogoRepository[model.CentroCusto]
}

func NewCenarioService(
	repo repository.CenarioRepository,
	empresas repository.CatalogoRepository[model.Empresa],
	centros repository.CatalogoRepository[model.CentroCusto],
) CenarioService {
	return &cenarioService{repo: repo, empresas: empresas, centros: centros}
}

func mapCenario(c model.Cenario) dto.CenarioResponse {
	return dto.CenarioResponse{
		ID:        c.ID,
		Codigo:    c.Codigo,
		Nome:      c.Nome,
		Descricao: c.Descricao,
		AnoInicio: c.AnoInicio,
		MesInicio: c.MesInicio,
		AnoFim:    c.AnoFim,
		MesFim:    c.MesFim,
		Status:    c.Status,
		OrigemID:  c.OrigemID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// rascunho loads the scenario and fails unless it can still be edited.
func rascunho(ctx context.Context, repo repository.CenarioRepository, id uuid.UUID) (*model.Cenario, error) {
	c, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, buscar(err, "cenário")
	}
	if c.Status != StatusRascunho {
		return nil, &erroServico{msg: "cenário " + c.Codigo + " está " + c.Status + " e não pode ser alterado", tipo: ErrCenarioImutavel}
	}
	return c, nil
}

func (s *cenarioService) codigoLivre(ctx context.Context, codigo string, atual uuid.UUID) error {
	existente, err := s.repo.FindByCodigo(ctx, codigo)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if err == nil && existente.ID != atual {
		return conflito("já existe um cenário com o código %s", codigo)
	}
	return nil
}

func (s *cenarioService) Criar(ctx context.Context, req dto.CenarioRequest) (*dto.CenarioResponse, error) {
	if _, err := calculo.ExpandirPeriodo(req.AnoInicio, req.MesInicio, req.AnoFim, req.MesFim); err != nil {
		return nil, err
	}
	if err := s.codigoLivre(ctx, req.Codigo, uuid.Nil); err != nil {
		return nil, err
	}
	c := &model.Cenario{
		Codigo:    req.Codigo,
		Nome:      req.Nome,
		Descricao: req.Descricao,
		AnoInicio: req.AnoInicio,
		MesInicio: req.MesInicio,
		AnoFim:    req.AnoFim,
		MesFim:    req.MesFim,
		Status:    StatusRascunho,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	resp := mapCenario(*c)
	return &resp, nil
}

func (s *cenarioService) Listar(ctx context.Context, filter dto.CenarioFilter) ([]dto.CenarioResponse, error) {
	list, err := s.repo.List(ctx, filter.Status)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CenarioResponse, 0, len(list))
	for _, c := range list {
		out = append(out, mapCenario(c))
	}
	return out, nil
}

func (s *cenarioService) ObterPorID(ctx context.Context, id uuid.UUID) (*dto.CenarioResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, buscar(err, "cenário")
	}
	resp := mapCenario(*c)
	return &resp, nil
}

func (s *cenarioService) Atualizar(ctx context.Context, id uuid.UUID, req dto.CenarioRequest) (*dto.CenarioResponse, error) {
	c, err := rascunho(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	if _, err := calculo.ExpandirPeriodo(req.AnoInicio, req.MesInicio, req.AnoFim, req.MesFim); err != nil {
		return nil, err
	}
	if req.Codigo != c.Codigo {
		if err := s.codigoLivre(ctx, req.Codigo, id); err != nil {
			return nil, err
		}
	}
	c.Codigo = req.Codigo
	c.Nome = req.Nome
	c.Descricao = req.Descricao
	c.AnoInicio, c.MesInicio = req.AnoInicio, req.MesInicio
	c.AnoFim, c.MesFim = req.AnoFim, req.MesFim
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	resp := mapCenario(*c)
	return &resp, nil
}

func (s *cenarioService) Excluir(ctx context.Context, id uuid.UUID) error {
	if _, err := rascunho(ctx, s.repo, id); err != nil {
		return err
	}
	return buscar(s.repo.Delete(ctx, id), "cenário")
}

func (s *cenarioService) AlterarStatus(ctx context.Context, id uuid.UUID, req dto.AlterarStatusRequest) (*dto.CenarioResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, buscar(err, "cenário")
	}
	if !transicaoPermitida(c.Status, req.Status) {
		return nil, &erroServico{msg: "transição de " + c.Status + " para " + req.Status + " não permitida", tipo: ErrTransicaoInvalida}
	}
	de := c.Status
	c.Status = req.Status
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	log.Info().Str("cenario_id", id.String()).Str("de", de).Str("para", c.Status).Msg("status do cenário alterado")
	resp := mapCenario(*c)
	return &resp, nil
}

// Duplicar copies the whole scenario tree into a new draft. Any status can
// be duplicated.
func (s *cenarioService) Duplicar(ctx context.Context, id uuid.UUID, req dto.DuplicarCenarioRequest) (*dto.CenarioResponse, error) {
	if err := s.codigoLivre(ctx, req.Codigo, uuid.Nil); err != nil {
		return nil, err
	}
	a, err := s.repo.CarregarArvore(ctx, id)
	if err != nil {
		return nil, buscar(err, "cenário")
	}
	copia := ClonarArvore(a, req.Codigo, req.Nome)
	if err := s.repo.CriarArvore(ctx, copia); err != nil {
		return nil, err
	}
	log.Info().Str("origem_id", id.String()).Str("cenario_id", copia.Cenario.ID.String()).
		Int("posicoes", len(copia.Quadro)).Msg("cenário duplicado")
	resp := mapCenario(copia.Cenario)
	return &resp, nil
}

// ── Estrutura ─────────────────────────────────────────────────────────────────

func (s *cenarioService) Estrutura(ctx context.Context, id uuid.UUID) (*dto.EstruturaResponse, error) {
	a, err := s.repo.CarregarArvore(ctx, id)
	if err != nil {
		return nil, buscar(err, "cenário")
	}

	centrosPorSecao := make(map[uuid.UUID][]dto.EstruturaCentroResponse)
	for _, cc := range a.CentrosCusto {
		item := dto.EstruturaCentroResponse{ID: cc.ID, CentroCustoID: cc.CentroCustoID}
		if centro, err := s.centros.FindByID(ctx, cc.CentroCustoID); err == nil {
			item.Codigo, item.Nome = centro.Codigo, centro.Nome
		}
		centrosPorSecao[cc.CenarioSecaoID] = append(centrosPorSecao[cc.CenarioSecaoID], item)
	}
	secoesPorCliente := make(map[uuid.UUID][]dto.EstruturaSecaoResponse)
	for _, sec := range a.Secoes {
		secoesPorCliente[sec.CenarioClienteID] = append(secoesPorCliente[sec.CenarioClienteID], dto.EstruturaSecaoResponse{
			ID: sec.ID, Nome: sec.Nome, FatorPA: sec.FatorPA, CentrosCusto: centrosPorSecao[sec.ID],
		})
	}
	clientesPorEmpresa := make(map[uuid.UUID][]dto.EstruturaClienteResponse)
	for _, cl := range a.Clientes {
		clientesPorEmpresa[cl.CenarioEmpresaID] = append(clientesPorEmpresa[cl.CenarioEmpresaID], dto.EstruturaClienteResponse{
			ID: cl.ID, Nome: cl.Nome, Secoes: secoesPorCliente[cl.ID],
		})
	}

	resp := &dto.EstruturaResponse{Cenario: mapCenario(a.Cenario), Empresas: []dto.EstruturaEmpresaResponse{}}
	for _, e := range a.Empresas {
		item := dto.EstruturaEmpresaResponse{ID: e.ID, EmpresaID: e.EmpresaID, Clientes: clientesPorEmpresa[e.ID]}
		if emp, err := s.empresas.FindByID(ctx, e.EmpresaID); err == nil {
			item.Nome = emp.Nome
		}
		resp.Empresas = append(resp.Empresas, item)
	}
	return resp, nil
}

func (s *cenarioService) AdicionarEmpresa(ctx context.Context, id uuid.UUID, req dto.AdicionarEmpresaRequest) (*dto.IDResponse, error) {
	if _, err := rascunho(ctx, s.repo, id); err != nil {
		return nil, err
	}
	if _, err := s.empresas.FindByID(ctx, req.EmpresaID); err != nil {
		return nil, buscar(err, "empresa")
	}
	e := &model.CenarioEmpresa{CenarioID: id, EmpresaID: req.EmpresaID}
	if err := s.repo.CreateEmpresa(ctx, e); err != nil {
		return nil, err
	}
	return &dto.IDResponse{ID: e.ID}, nil
}

func (s *cenarioService) AdicionarCliente(ctx context.Context, id uuid.UUID, req dto.AdicionarClienteRequest) (*dto.IDResponse, error) {
	if _, err := rascunho(ctx, s.repo, id); err != nil {
		return nil, err
	}
	c := &model.CenarioCliente{CenarioID: id, CenarioEmpresaID: req.CenarioEmpresaID, Nome: req.Nome}
	if err := s.repo.CreateCliente(ctx, c); err != nil {
		return nil, err
	}
	return &dto.IDResponse{ID: c.ID}, nil
}

func validarFatorPA(req *dto.SecaoRequest) error {
	if req.FatorPA != nil && !req.FatorPA.IsPositive() {
		return invalido("fator_pa", "fator_pa deve ser maior que zero")
	}
	return nil
}

func (s *cenarioService) AdicionarSecao(ctx context.Context, id uuid.UUID, req dto.SecaoRequest) (*dto.IDResponse, error) {
	if _, err := rascunho(ctx, s.repo, id); err != nil {
		return nil, err
	}
	if err := validarFatorPA(&req); err != nil {
		return nil, err
	}
	sec := &model.CenarioSecao{CenarioID: id, CenarioClienteID: req.CenarioClienteID, Nome: req.Nome, FatorPA: req.FatorPA}
	if err := s.repo.CreateSecao(ctx, sec); err != nil {
		return nil, err
	}
	return &dto.IDResponse{ID: sec.ID}, nil
}

func (s *cenarioService) AtualizarSecao(ctx context.Context, id, secaoID uuid.UUID, req dto.AtualizarSecaoRequest) error {
	if _, err := rascunho(ctx, s.repo, id); err != nil {
		return err
	}
	sec, err := s.repo.FindSecao(ctx, id, secaoID)
	if err != nil {
		return buscar(err, "seção")
	}
	if err := validarFatorPA(&dto.SecaoRequest{FatorPA: req.FatorPA}); err != nil {
		return err
	}
	if req.Nome != nil {
		sec.Nome = *req.Nome
	}
	if req.FatorPA != nil {
		sec.FatorPA = req.FatorPA
	}
	return s.repo.UpdateSecao(ctx, sec)
}

func (s *cenarioService) AdicionarCentroCusto(ctx context.Context, id uuid.UUID, req dto.AdicionarCentroCustoRequest) (*dto.IDResponse, error) {
	if _, err := rascunho(ctx, s.repo, id); err != nil {
		return nil, err
	}
	if _, err := s.repo.FindSecao(ctx, id, req.CenarioSecaoID); err != nil {
		return nil, buscar(err, "seção")
	}
	if _, err := s.centros.FindByID(ctx, req.CentroCustoID); err != nil {
		return nil, buscar(err, "centro de custo")
	}
	cc := &model.CenarioCentroCusto{CenarioID: id, CenarioSecaoID: req.CenarioSecaoID, CentroCustoID: req.CentroCustoID}
	if err := s.repo.CreateCentroCusto(ctx, cc); err != nil {
		return nil, err
	}
	return &dto.IDResponse{ID: cc.ID}, nil
}
