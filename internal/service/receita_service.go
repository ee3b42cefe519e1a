package service

import (
	"context"
	"errors"

	"orcamento/internal/dto"
	"orcamento/internal/model"
	"orcamento/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ReceitaService interface {
	Criar(ctx context.Context, cenarioID uuid.UUID, req dto.ReceitaRequest) (*dto.ReceitaResponse, error)
	Listar(ctx context.Context, cenarioID uuid.UUID, secaoID *uuid.UUID) ([]dto.ReceitaResponse, error)
	ObterPorID(ctx context.Context, id uuid.UUID) (*dto.ReceitaResponse, error)
	Excluir(ctx context.Context, cenarioID, id uuid.UUID) error
	// SalvarPremissas upserts monthly premises of a VARIAVEL revenue line.
	SalvarPremissas(ctx context.Context, receitaID uuid.UUID, itens []dto.PremissaReceitaItem) (*dto.PremissasBulkResponse, error)
}

type receitaService struct {
	cenarios     repository.CenarioRepository
	repo         repository.ReceitaRepository
	tiposReceita repository.CatalogoRepository[model.TipoReceita]
}

func NewReceitaService(cenarios repository.CenarioRepository, repo repository.ReceitaRepository, tiposReceita repository.CatalogoRepository[model.TipoReceita]) ReceitaService {
	return &receitaService{cenarios: cenarios, repo: repo, tiposReceita: tiposReceita}
}

func (s *receitaService) Criar(ctx context.Context, cenarioID uuid.UUID, req dto.ReceitaRequest) (*dto.ReceitaResponse, error) {
	if _, err := rascunho(ctx, s.cenarios, cenarioID); err != nil {
		return nil, err
	}
	if _, err := s.cenarios.FindSecao(ctx, cenarioID, req.CenarioSecaoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalido("cenario_secao_id", "seção não pertence ao cenário")
		}
		return nil, err
	}
	if _, err := s.tiposReceita.FindByID(ctx, req.TipoReceitaID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalido("tipo_receita_id", "tipo de receita inexistente")
		}
		return nil, err
	}
	if req.ValorMinimoPA != nil && req.ValorMaximoPA != nil && req.ValorMinimoPA.GreaterThan(*req.ValorMaximoPA) {
		return nil, invalido("valor_minimo_pa", "valor mínimo por PA maior que o máximo")
	}

	rec := &model.ReceitaCenario{
		CenarioID:       cenarioID,
		CenarioSecaoID:  req.CenarioSecaoID,
		CentroCustoID:   req.CentroCustoID,
		TipoReceitaID:   req.TipoReceitaID,
		FuncaoID:        req.FuncaoID,
		TipoCalculo:     req.TipoCalculo,
		ValorFixo:       req.ValorFixo,
		ValorMinimoPA:   req.ValorMinimoPA,
		ValorMaximoPA:   req.ValorMaximoPA,
		UsarPAProdutivo: req.UsarPAProdutivo,
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, err
	}
	resp := mapReceita(*rec)
	return &resp, nil
}

func (s *receitaService) Listar(ctx context.Context, cenarioID uuid.UUID, secaoID *uuid.UUID) ([]dto.ReceitaResponse, error) {
	if _, err := s.cenarios.FindByID(ctx, cenarioID); err != nil {
		return nil, buscar(err, "cenário")
	}
	receitas, err := s.repo.ListByCenario(ctx, cenarioID, secaoID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReceitaResponse, 0, len(receitas))
	for _, r := range receitas {
		out = append(out, mapReceita(r))
	}
	return out, nil
}

func (s *receitaService) ObterPorID(ctx context.Context, id uuid.UUID) (*dto.ReceitaResponse, error) {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, buscar(err, "receita")
	}
	resp := mapReceita(*rec)
	return &resp, nil
}

func (s *receitaService) Excluir(ctx context.Context, cenarioID, id uuid.UUID) error {
	if _, err := rascunho(ctx, s.cenarios, cenarioID); err != nil {
		return err
	}
	return buscar(s.repo.Delete(ctx, cenarioID, id), "receita")
}

func (s *receitaService) SalvarPremissas(ctx context.Context, receitaID uuid.UUID, itens []dto.PremissaReceitaItem) (*dto.PremissasBulkResponse, error) {
	rec, err := s.repo.FindByID(ctx, receitaID)
	if err != nil {
		return nil, buscar(err, "receita")
	}
	if _, err := rascunho(ctx, s.cenarios, rec.CenarioID); err != nil {
		return nil, err
	}

	um := decimal.NewFromInt(1)
	vistos := make(map[[2]int]bool, len(itens))
	premissas := make([]model.PremissaReceita, 0, len(itens))
	for _, it := range itens {
		if it.ReceitaCenarioID != nil && *it.ReceitaCenarioID != receitaID {
			return nil, invalido("receita_cenario_id", "premissa de %02d/%d pertence a outra receita", it.Mes, it.Ano)
		}
		k := [2]int{it.Ano, it.Mes}
		if vistos[k] {
			return nil, invalido("mes", "premissa de %02d/%d repetida", it.Mes, it.Ano)
		}
		vistos[k] = true
		estorno := it.Estorno()
		if estorno.IsNegative() || estorno.GreaterThan(um) {
			return nil, invalido("indice_estorno", "índice de estorno deve ser uma fração entre 0 e 1")
		}
		premissas = append(premissas, model.PremissaReceita{
			Ano:             it.Ano,
			Mes:             it.Mes,
			VOPDU:           it.VOPDU,
			IndiceConversao: it.IndiceConversao,
			TicketMedio:     it.TicketMedio,
			Fator:           it.Fator,
			IndiceEstorno:   estorno,
			DiasUteis:       it.DiasUteis,
		})
	}
	if err := s.repo.SalvarPremissas(ctx, receitaID, premissas); err != nil {
		return nil, err
	}
	return &dto.PremissasBulkResponse{Salvas: len(premissas)}, nil
}

func mapReceita(r model.ReceitaCenario) dto.ReceitaResponse {
	premissas := make([]dto.PremissaReceitaResponse, 0, len(r.Premissas))
	for _, p := range r.Premissas {
		premissas = append(premissas, dto.PremissaReceitaResponse{
			Ano:              p.Ano,
			Mes:              p.Mes,
			VOPDU:            p.VOPDU,
			IndiceConversao:  p.IndiceConversao,
			TicketMedio:      p.TicketMedio,
			Fator:            p.Fator,
			IndiceEstorno:    p.IndiceEstorno,
			IndiceEstornoPct: dto.FracaoParaPercentual(p.IndiceEstorno),
			DiasUteis:        p.DiasUteis,
		})
	}
	return dto.ReceitaResponse{
		ID:              r.ID,
		CenarioSecaoID:  r.CenarioSecaoID,
		CentroCustoID:   r.CentroCustoID,
		TipoReceitaID:   r.TipoReceitaID,
		FuncaoID:        r.FuncaoID,
		TipoCalculo:     r.TipoCalculo,
		ValorFixo:       r.ValorFixo,
		ValorMinimoPA:   r.ValorMinimoPA,
		ValorMaximoPA:   r.ValorMaximoPA,
		UsarPAProdutivo: r.UsarPAProdutivo,
		Premissas:       premissas,
	}
}
