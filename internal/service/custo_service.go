package service

import (
	"context"
	"errors"

	"orcamento/internal/calculo"
	"orcamento/internal/dto"
	"orcamento/internal/model"
	"orcamento/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CustoService manages direct costs and technology allocations.
type CustoService interface {
	CriarCusto(ctx context.Context, cenarioID uuid.UUID, req dto.CustoRequest) (*dto.CustoResponse, error)
	ListarCustos(ctx context.Context, cenarioID uuid.UUID, secaoID *uuid.UUID) ([]dto.CustoResponse, error)
	ExcluirCusto(ctx context.Context, cenarioID, id uuid.UUID) error

	CriarAlocacao(ctx context.Context, cenarioID uuid.UUID, req dto.CustoRequest) (*dto.CustoResponse, error)
	ListarAlocacoes(ctx context.Context, cenarioID uuid.UUID, secaoID *uuid.UUID) ([]dto.CustoResponse, error)
	ExcluirAlocacao(ctx context.Context, cenarioID, id uuid.UUID) error
}

type custoService struct {
	cenarios   repository.CenarioRepository
	repo       repository.CustoRepository
	tiposCusto repository.CatalogoRepository[model.TipoCusto]
}

func NewCustoService(cenarios repository.CenarioRepository, repo repository.CustoRepository, tiposCusto repository.CatalogoRepository[model.TipoCusto]) CustoService {
	return &custoService{cenarios: cenarios, repo: repo, tiposCusto: tiposCusto}
}

func (s *custoService) CriarCusto(ctx context.Context, cenarioID uuid.UUID, req dto.CustoRequest) (*dto.CustoResponse, error) {
	if req.TipoValor == "" {
		return nil, invalido("tipo_valor", "tipo_valor é obrigatório")
	}
	item, rateio, err := s.preparar(ctx, cenarioID, req, req.TipoValor)
	if err != nil {
		return nil, err
	}
	c := &model.CustoDireto{ItemCusto: item, Rateio: rateio}
	if err := s.repo.CreateCusto(ctx, c); err != nil {
		return nil, err
	}
	resp := mapCusto(c.ID, c.ItemCusto, c.Rateio)
	return &resp, nil
}

func (s *custoService) ListarCustos(ctx context.Context, cenarioID uuid.UUID, secaoID *uuid.UUID) ([]dto.CustoResponse, error) {
	if _, err := s.cenarios.FindByID(ctx, cenarioID); err != nil {
		return nil, buscar(err, "cenário")
	}
	custos, err := s.repo.ListCustos(ctx, cenarioID, secaoID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CustoResponse, 0, len(custos))
	for _, c := range custos {
		out = append(out, mapCusto(c.ID, c.ItemCusto, c.Rateio))
	}
	return out, nil
}

func (s *custoService) ExcluirCusto(ctx context.Context, cenarioID, id uuid.UUID) error {
	if _, err := rascunho(ctx, s.cenarios, cenarioID); err != nil {
		return err
	}
	return buscar(s.repo.DeleteCusto(ctx, cenarioID, id), "custo")
}

func (s *custoService) CriarAlocacao(ctx context.Context, cenarioID uuid.UUID, req dto.CustoRequest) (*dto.CustoResponse, error) {
	tipo := req.TipoAlocacao
	if tipo == "" {
		tipo = req.TipoValor
	}
	switch calculo.TipoValor(tipo) {
	case calculo.ValorFixo, calculo.ValorVariavel:
	case "":
		return nil, invalido("tipo_alocacao", "tipo_alocacao é obrigatório")
	default:
		return nil, invalido("tipo_alocacao", "alocação de tecnologia aceita apenas FIXO ou VARIAVEL")
	}
	item, rateio, err := s.preparar(ctx, cenarioID, req, tipo)
	if err != nil {
		return nil, err
	}
	a := &model.AlocacaoTecnologia{ItemCusto: item, Rateio: rateio}
	if err := s.repo.CreateAlocacao(ctx, a); err != nil {
		return nil, err
	}
	resp := mapCusto(a.ID, a.ItemCusto, a.Rateio)
	return &resp, nil
}

func (s *custoService) ListarAlocacoes(ctx context.Context, cenarioID uuid.UUID, secaoID *uuid.UUID) ([]dto.CustoResponse, error) {
	if _, err := s.cenarios.FindByID(ctx, cenarioID); err != nil {
		return nil, buscar(err, "cenário")
	}
	alocacoes, err := s.repo.ListAlocacoes(ctx, cenarioID, secaoID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CustoResponse, 0, len(alocacoes))
	for _, a := range alocacoes {
		out = append(out, mapCusto(a.ID, a.ItemCusto, a.Rateio))
	}
	return out, nil
}

func (s *custoService) ExcluirAlocacao(ctx context.Context, cenarioID, id uuid.UUID) error {
	if _, err := rascunho(ctx, s.cenarios, cenarioID); err != nil {
		return err
	}
	return buscar(s.repo.DeleteAlocacao(ctx, cenarioID, id), "alocação")
}

// preparar validates the request against the scenario and the engine rules
// and returns the row to persist.
func (s *custoService) preparar(ctx context.Context, cenarioID uuid.UUID, req dto.CustoRequest, tipoValor string) (model.ItemCusto, []model.RateioDestino, error) {
	var item model.ItemCusto
	if _, err := rascunho(ctx, s.cenarios, cenarioID); err != nil {
		return item, nil, err
	}
	if err := s.secaoDoCenario(ctx, cenarioID, req.CenarioSecaoID, "cenario_secao_id"); err != nil {
		return item, nil, err
	}
	if _, err := s.tiposCusto.FindByID(ctx, req.TipoCustoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return item, nil, invalido("tipo_custo_id", "tipo de custo inexistente")
		}
		return item, nil, err
	}
	if (req.InicioAno == nil) != (req.InicioMes == nil) || (req.FimAno == nil) != (req.FimMes == nil) {
		return item, nil, invalido("vigencia", "informe ano e mês juntos no início e no fim da vigência")
	}
	if req.ValorFixo.IsNegative() || req.ValorUnitario.IsNegative() {
		return item, nil, invalido("valor_fixo", "valores não podem ser negativos")
	}

	item = model.ItemCusto{
		CenarioID:      cenarioID,
		CenarioSecaoID: req.CenarioSecaoID,
		CentroCustoID:  req.CentroCustoID,
		TipoCustoID:    req.TipoCustoID,
		FornecedorID:   req.FornecedorID,
		Descricao:      req.Descricao,
		TipoValor:      tipoValor,
		ValorFixo:      req.ValorFixo,
		ValorUnitario:  req.ValorUnitario,
		UnidadeMedida:  req.UnidadeMedida,
		FuncaoBaseID:   req.FuncaoBaseID,
		InicioAno:      req.InicioAno,
		InicioMes:      req.InicioMes,
		FimAno:         req.FimAno,
		FimMes:         req.FimMes,
	}
	rateio := make([]model.RateioDestino, 0, len(req.Rateio))
	for _, d := range req.Rateio {
		if err := s.secaoDoCenario(ctx, cenarioID, d.CenarioSecaoID, "rateio"); err != nil {
			return item, nil, err
		}
		rateio = append(rateio, model.RateioDestino{
			CenarioID:      cenarioID,
			CenarioSecaoID: d.CenarioSecaoID,
			CentroCustoID:  d.CentroCustoID,
			Percentual:     d.Percentual,
		})
	}

	a := &repository.Arvore{}
	if err := calculo.ValidarItemCusto(itemCustoDe(item, uuid.Nil, rateio, a, "", "")); err != nil {
		return item, nil, err
	}
	return item, rateio, nil
}

func (s *custoService) secaoDoCenario(ctx context.Context, cenarioID, secaoID uuid.UUID, campo string) error {
	if _, err := s.cenarios.FindSecao(ctx, cenarioID, secaoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return invalido(campo, "seção %s não pertence ao cenário", secaoID)
		}
		return err
	}
	return nil
}

func mapCusto(id uuid.UUID, it model.ItemCusto, rateio []model.RateioDestino) dto.CustoResponse {
	destinos := make([]dto.RateioDestinoResponse, 0, len(rateio))
	for _, d := range rateio {
		destinos = append(destinos, dto.RateioDestinoResponse{
			CenarioSecaoID: d.CenarioSecaoID, CentroCustoID: d.CentroCustoID, Percentual: d.Percentual,
		})
	}
	return dto.CustoResponse{
		ID:             id,
		CenarioSecaoID: it.CenarioSecaoID,
		CentroCustoID:  it.CentroCustoID,
		TipoCustoID:    it.TipoCustoID,
		FornecedorID:   it.FornecedorID,
		Descricao:      it.Descricao,
		TipoValor:      it.TipoValor,
		ValorFixo:      it.ValorFixo,
		ValorUnitario:  it.ValorUnitario,
		UnidadeMedida:  it.UnidadeMedida,
		FuncaoBaseID:   it.FuncaoBaseID,
		InicioAno:      it.InicioAno,
		InicioMes:      it.InicioMes,
		FimAno:         it.FimAno,
		FimMes:         it.FimMes,
		Rateio:         destinos,
	}
}
