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

// PremissaService manages the payroll premises of a scenario. Function
// indicators travel as percentages and are stored as fractions.
type PremissaService interface {
	SalvarPremissasFuncao(ctx context.Context, cenarioID uuid.UUID, req dto.PremissasFuncaoBulkRequest) (*dto.PremissasBulkResponse, error)
	ListarPremissasFuncao(ctx context.Context, cenarioID uuid.UUID, secaoID *uuid.UUID) ([]dto.PremissaFuncaoResponse, error)

	CriarRubrica(ctx context.Context, cenarioID uuid.UUID, req dto.RubricaRequest) (*dto.RubricaResponse, error)
	ListarRubricas(ctx context.Context, cenarioID uuid.UUID) ([]dto.RubricaResponse, error)
	ExcluirRubrica(ctx context.Context, cenarioID, id uuid.UUID) error
}

type premissaService struct {
	cenarios   repository.CenarioRepository
	repo       repository.PremissaRepository
	tiposCusto repository.CatalogoRepository[model.TipoCusto]
}

func NewPremissaService(cenarios repository.CenarioRepository, repo repository.PremissaRepository, tiposCusto repository.CatalogoRepository[model.TipoCusto]) PremissaService {
	return &premissaService{cenarios: cenarios, repo: repo, tiposCusto: tiposCusto}
}

func (s *premissaService) SalvarPremissasFuncao(ctx context.Context, cenarioID uuid.UUID, req dto.PremissasFuncaoBulkRequest) (*dto.PremissasBulkResponse, error) {
	if _, err := rascunho(ctx, s.cenarios, cenarioID); err != nil {
		return nil, err
	}
	secoes := make(map[uuid.UUID]bool)
	premissas := make([]model.PremissaFuncao, 0, len(req.Premissas))
	for _, p := range req.Premissas {
		if !secoes[p.CenarioSecaoID] {
			if _, err := s.cenarios.FindSecao(ctx, cenarioID, p.CenarioSecaoID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, invalido("cenario_secao_id", "seção %s não pertence ao cenário", p.CenarioSecaoID)
				}
				return nil, err
			}
			secoes[p.CenarioSecaoID] = true
		}
		premissas = append(premissas, model.PremissaFuncao{
			CenarioID:       cenarioID,
			CenarioSecaoID:  p.CenarioSecaoID,
			FuncaoID:        p.FuncaoID,
			Ano:             p.Ano,
			Mes:             p.Mes,
			Absenteismo:     dto.PercentualParaFracao(p.Absenteismo),
			Turnover:        dto.PercentualParaFracao(p.Turnover),
			IndiceFerias:    dto.PercentualParaFracao(p.IndiceFerias),
			DiasTreinamento: p.DiasTreinamento,
		})
	}
	if err := s.repo.SalvarPremissasFuncao(ctx, premissas); err != nil {
		return nil, err
	}
	return &dto.PremissasBulkResponse{Salvas: len(premissas)}, nil
}

func (s *premissaService) ListarPremissasFuncao(ctx context.Context, cenarioID uuid.UUID, secaoID *uuid.UUID) ([]dto.PremissaFuncaoResponse, error) {
	if _, err := s.cenarios.FindByID(ctx, cenarioID); err != nil {
		return nil, buscar(err, "cenário")
	}
	premissas, err := s.repo.ListPremissasFuncao(ctx, cenarioID, secaoID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PremissaFuncaoResponse, 0, len(premissas))
	for _, p := range premissas {
		out = append(out, dto.PremissaFuncaoResponse{
			ID:              p.ID,
			CenarioSecaoID:  p.CenarioSecaoID,
			FuncaoID:        p.FuncaoID,
			Ano:             p.Ano,
			Mes:             p.Mes,
			Absenteismo:     dto.FracaoParaPercentual(p.Absenteismo),
			Turnover:        dto.FracaoParaPercentual(p.Turnover),
			IndiceFerias:    dto.FracaoParaPercentual(p.IndiceFerias),
			DiasTreinamento: p.DiasTreinamento,
		})
	}
	return out, nil
}

// ── Rubricas ─────────────────────────────────────────────────────────────────

func (s *premissaService) CriarRubrica(ctx context.Context, cenarioID uuid.UUID, req dto.RubricaRequest) (*dto.RubricaResponse, error) {
	if _, err := rascunho(ctx, s.cenarios, cenarioID); err != nil {
		return nil, err
	}
	if _, err := s.tiposCusto.FindByID(ctx, req.TipoCustoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalido("tipo_custo_id", "tipo de custo inexistente")
		}
		return nil, err
	}
	r := &model.CenarioRubrica{
		CenarioID:   cenarioID,
		TipoCustoID: req.TipoCustoID,
		FuncaoID:    req.FuncaoID,
		Regime:      req.Regime,
		TipoValor:   req.TipoValor,
		Valor:       req.Valor,
	}
	if err := s.repo.CreateRubrica(ctx, r); err != nil {
		return nil, err
	}
	resp := mapRubrica(*r)
	return &resp, nil
}

func (s *premissaService) ListarRubricas(ctx context.Context, cenarioID uuid.UUID) ([]dto.RubricaResponse, error) {
	if _, err := s.cenarios.FindByID(ctx, cenarioID); err != nil {
		return nil, buscar(err, "cenário")
	}
	rubricas, err := s.repo.ListRubricas(ctx, cenarioID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RubricaResponse, 0, len(rubricas))
	for _, r := range rubricas {
		out = append(out, mapRubrica(r))
	}
	return out, nil
}

func (s *premissaService) ExcluirRubrica(ctx context.Context, cenarioID, id uuid.UUID) error {
	if _, err := rascunho(ctx, s.cenarios, cenarioID); err != nil {
		return err
	}
	return buscar(s.repo.DeleteRubrica(ctx, cenarioID, id), "rubrica")
}

func mapRubrica(r model.CenarioRubrica) dto.RubricaResponse {
	return dto.RubricaResponse{
		ID:          r.ID,
		TipoCustoID: r.TipoCustoID,
		FuncaoID:    r.FuncaoID,
		Regime:      r.Regime,
		TipoValor:   r.TipoValor,
		Valor:       r.Valor,
	}
}
