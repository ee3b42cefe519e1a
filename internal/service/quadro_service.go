package service

import (
	"context"
	"errors"

	"orcamento/internal/calculo"
	"orcamento/internal/dto"
	"orcamento/internal/model"
	"orcamento/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// QuadroService manages the headcount positions of a scenario and the span
// and rateio rules that derive their quantities.
type QuadroService interface {
	Criar(ctx context.Context, cenarioID uuid.UUID, req dto.QuadroRequest) (*dto.QuadroResponse, error)
	Listar(ctx context.Context, cenarioID uuid.UUID, secaoID *uuid.UUID) ([]dto.QuadroResponse, error)
	ObterPorID(ctx context.Context, cenarioID, id uuid.UUID) (*dto.QuadroResponse, error)
	Atualizar(ctx context.Context, cenarioID, id uuid.UUID, req dto.QuadroRequest) (*dto.QuadroResponse, error)
	Excluir(ctx context.Context, cenarioID, id uuid.UUID) error

	CriarSpan(ctx context.Context, cenarioID uuid.UUID, req dto.SpanRequest) (*dto.SpanResponse, error)
	ListarSpans(ctx context.Context, cenarioID uuid.UUID) ([]dto.SpanResponse, error)
	ExcluirSpan(ctx context.Context, cenarioID, id uuid.UUID) error
	// CalcularSpans resolves every span position over the scenario period.
	// Without aplicar nothing is written.
	CalcularSpans(ctx context.Context, cenarioID uuid.UUID, aplicar bool) (*dto.CalcularSpansResponse, error)

	CriarGrupo(ctx context.Context, cenarioID uuid.UUID, req dto.RateioGrupoRequest) (*dto.RateioGrupoResponse, error)
	ListarGrupos(ctx context.Context, cenarioID uuid.UUID) ([]dto.RateioGrupoResponse, error)
	ExcluirGrupo(ctx context.Context, cenarioID, id uuid.UUID) error
}

type quadroService struct {
	cenarios repository.CenarioRepository
	repo     repository.QuadroRepository
	funcoes  repository.CatalogoRepository[model.Funcao]
}

func NewQuadroService(cenarios repository.CenarioRepository, repo repository.QuadroRepository, funcoes repository.CatalogoRepository[model.Funcao]) QuadroService {
	return &quadroService{cenarios: cenarios, repo: repo, funcoes: funcoes}
}

// ── Posições ─────────────────────────────────────────────────────────────────

func (s *quadroService) Criar(ctx context.Context, cenarioID uuid.UUID, req dto.QuadroRequest) (*dto.QuadroResponse, error) {
	c, err := rascunho(ctx, s.cenarios, cenarioID)
	if err != nil {
		return nil, err
	}
	if err := s.validarPosicao(ctx, cenarioID, req); err != nil {
		return nil, err
	}
	q := &model.QuadroPessoal{CenarioID: cenarioID}
	aplicarPosicao(q, req, c.AnoInicio)
	if err := s.repo.Create(ctx, q); err != nil {
		return nil, err
	}
	resp := mapQuadro(*q, c.AnoInicio)
	return &resp, nil
}

func (s *quadroService) Listar(ctx context.Context, cenarioID uuid.UUID, secaoID *uuid.UUID) ([]dto.QuadroResponse, error) {
	c, err := s.cenarios.FindByID(ctx, cenarioID)
	if err != nil {
		return nil, buscar(err, "cenário")
	}
	posicoes, err := s.repo.ListByCenario(ctx, cenarioID, secaoID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.QuadroResponse, 0, len(posicoes))
	for _, q := range posicoes {
		out = append(out, mapQuadro(q, c.AnoInicio))
	}
	return out, nil
}

func (s *quadroService) ObterPorID(ctx context.Context, cenarioID, id uuid.UUID) (*dto.QuadroResponse, error) {
	c, err := s.cenarios.FindByID(ctx, cenarioID)
	if err != nil {
		return nil, buscar(err, "cenário")
	}
	q, err := s.repo.FindByID(ctx, cenarioID, id)
	if err != nil {
		return nil, buscar(err, "posição")
	}
	resp := mapQuadro(*q, c.AnoInicio)
	return &resp, nil
}

func (s *quadroService) Atualizar(ctx context.Context, cenarioID, id uuid.UUID, req dto.QuadroRequest) (*dto.QuadroResponse, error) {
	c, err := rascunho(ctx, s.cenarios, cenarioID)
	if err != nil {
		return nil, err
	}
	q, err := s.repo.FindByID(ctx, cenarioID, id)
	if err != nil {
		return nil, buscar(err, "posição")
	}
	if err := s.validarPosicao(ctx, cenarioID, req); err != nil {
		return nil, err
	}
	eraSpan := q.TipoCalculo == string(calculo.TipoSpan)
	aplicadas := q.Quantidades
	aplicarPosicao(q, req, c.AnoInicio)
	if eraSpan && q.TipoCalculo == string(calculo.TipoSpan) {
		// applied span values survive edits of the other fields
		if q.SpanAplicadoEm != nil {
			q.Quantidades = aplicadas
		}
	} else {
		q.SpanAplicadoEm = nil
	}
	if err := s.repo.Update(ctx, q); err != nil {
		return nil, err
	}
	resp := mapQuadro(*q, c.AnoInicio)
	return &resp, nil
}

func (s *quadroService) Excluir(ctx context.Context, cenarioID, id uuid.UUID) error {
	if _, err := rascunho(ctx, s.cenarios, cenarioID); err != nil {
		return err
	}
	return buscar(s.repo.Delete(ctx, cenarioID, id), "posição")
}

func (s *quadroService) validarPosicao(ctx context.Context, cenarioID uuid.UUID, req dto.QuadroRequest) error {
	if _, err := s.cenarios.FindSecao(ctx, cenarioID, req.CenarioSecaoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return invalido("cenario_secao_id", "seção não pertence ao cenário")
		}
		return err
	}
	if _, err := s.funcoes.FindByID(ctx, req.FuncaoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return invalido("funcao_id", "função inexistente")
		}
		return err
	}
	if req.Salario != nil && req.Salario.IsNegative() {
		return invalido("salario", "salário não pode ser negativo")
	}
	if req.TipoCalculo != string(calculo.TipoRateio) {
		return nil
	}
	if req.RateioGrupoID == nil || req.RateioPercentual == nil {
		return invalido("rateio_grupo_id", "posição de rateio exige grupo e percentual")
	}
	if req.RateioPercentual.IsNegative() || req.RateioPercentual.GreaterThan(decimal.NewFromInt(100)) {
		return invalido("rateio_percentual", "percentual deve estar entre 0 e 100")
	}
	grupos, err := s.repo.ListGrupos(ctx, cenarioID)
	if err != nil {
		return err
	}
	for _, g := range grupos {
		if g.ID == *req.RateioGrupoID {
			return nil
		}
	}
	return invalido("rateio_grupo_id", "grupo de rateio não pertence ao cenário")
}

// aplicarPosicao copies the request onto q. Only manual positions keep the
// requested quantities; span and rateio values are derived.
func aplicarPosicao(q *model.QuadroPessoal, req dto.QuadroRequest, anoInicial int) {
	q.CenarioSecaoID = req.CenarioSecaoID
	q.CentroCustoID = req.CentroCustoID
	q.FuncaoID = req.FuncaoID
	q.Regime = req.Regime
	q.TipoCalculo = req.TipoCalculo
	q.Salario = req.Salario
	q.RateioGrupoID, q.RateioPercentual = nil, nil
	q.QtdJan, q.QtdFev, q.QtdMar, q.QtdAbr, q.QtdMai, q.QtdJun = nil, nil, nil, nil, nil, nil
	q.QtdJul, q.QtdAgo, q.QtdSet, q.QtdOut, q.QtdNov, q.QtdDez = nil, nil, nil, nil, nil, nil
	q.Quantidades = nil

	switch calculo.TipoDerivacao(req.TipoCalculo) {
	case calculo.TipoManual:
		for _, m := range req.Quantidades(anoInicial) {
			q.Quantidades = append(q.Quantidades, model.QuadroQuantidade{Ano: m.Ano, Mes: m.Mes, Quantidade: m.Quantidade})
		}
	case calculo.TipoRateio:
		q.RateioGrupoID, q.RateioPercentual = req.RateioGrupoID, req.RateioPercentual
	}
}

// ── Spans ────────────────────────────────────────────────────────────────────

func (s *quadroService) CriarSpan(ctx context.Context, cenarioID uuid.UUID, req dto.SpanRequest) (*dto.SpanResponse, error) {
	if _, err := rascunho(ctx, s.cenarios, cenarioID); err != nil {
		return nil, err
	}
	if req.CenarioSecaoID != nil {
		if _, err := s.cenarios.FindSecao(ctx, cenarioID, *req.CenarioSecaoID); err != nil {
			return nil, buscar(err, "seção")
		}
	}
	for _, b := range req.FuncoesBase {
		if b == req.FuncaoID {
			return nil, invalido("funcoes_base", "a função não pode ser base do próprio span")
		}
	}

	existentes, err := s.repo.ListSpans(ctx, cenarioID)
	if err != nil {
		return nil, err
	}
	regras := make([]calculo.RegraSpan, 0, len(existentes)+1)
	for _, e := range existentes {
		if e.FuncaoID == req.FuncaoID && mesmaSecao(e.CenarioSecaoID, req.CenarioSecaoID) {
			return nil, conflito("já existe um span para esta função no mesmo escopo")
		}
		regras = append(regras, regraSpanDe(e))
	}
	novo := &model.FuncaoSpan{CenarioID: cenarioID, CenarioSecaoID: req.CenarioSecaoID, FuncaoID: req.FuncaoID, Ratio: req.Ratio}
	for _, b := range req.FuncoesBase {
		novo.Bases = append(novo.Bases, model.FuncaoSpanBase{FuncaoID: b})
	}
	regras = append(regras, regraSpanDe(*novo))
	if _, err := calculo.OrdenarSpans(regras); err != nil {
		return nil, err
	}

	if err := s.repo.CreateSpan(ctx, novo); err != nil {
		return nil, err
	}
	resp := mapSpan(*novo)
	return &resp, nil
}

func (s *quadroService) ListarSpans(ctx context.Context, cenarioID uuid.UUID) ([]dto.SpanResponse, error) {
	if _, err := s.cenarios.FindByID(ctx, cenarioID); err != nil {
		return nil, buscar(err, "cenário")
	}
	spans, err := s.repo.ListSpans(ctx, cenarioID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SpanResponse, 0, len(spans))
	for _, sp := range spans {
		out = append(out, mapSpan(sp))
	}
	return out, nil
}

func (s *quadroService) ExcluirSpan(ctx context.Context, cenarioID, id uuid.UUID) error {
	if _, err := rascunho(ctx, s.cenarios, cenarioID); err != nil {
		return err
	}
	return buscar(s.repo.DeleteSpan(ctx, cenarioID, id), "span")
}

func (s *quadroService) CalcularSpans(ctx context.Context, cenarioID uuid.UUID, aplicar bool) (*dto.CalcularSpansResponse, error) {
	if aplicar {
		if _, err := rascunho(ctx, s.cenarios, cenarioID); err != nil {
			return nil, err
		}
	}
	a, err := s.cenarios.CarregarArvore(ctx, cenarioID)
	if err != nil {
		return nil, buscar(err, "cenário")
	}
	periodo, res, err := resolverQuadro(a, true)
	if err != nil {
		return nil, err
	}

	resp := &dto.CalcularSpansResponse{
		Aplicado:   aplicar,
		TotalMeses: len(periodo),
		Pendencias: res.Pendencias,
	}
	funcoes := make(map[uuid.UUID]struct{})
	for _, v := range res.Spans {
		funcoes[v.FuncaoID] = struct{}{}
	}
	resp.TotalFuncoes = len(funcoes)

	if !aplicar {
		resp.Resultados = make([]dto.SpanCalculado, 0, len(res.Spans))
		for _, v := range res.Spans {
			resp.Resultados = append(resp.Resultados, dto.SpanCalculado{
				QuadroPessoalID: v.PosicaoID,
				FuncaoID:        v.FuncaoID,
				CenarioSecaoID:  v.Local.SecaoID,
				CentroCustoID:   v.Local.CentroCustoID,
				Ano:             v.Competencia.Ano,
				Mes:             v.Competencia.Mes,
				SomaBase:        v.SomaBase,
				Ratio:           v.Ratio,
				Quantidade:      v.Quantidade,
			})
		}
		return resp, nil
	}

	valores := make(map[uuid.UUID][]model.QuadroQuantidade)
	for _, v := range res.Spans {
		valores[v.PosicaoID] = append(valores[v.PosicaoID], model.QuadroQuantidade{
			Ano: v.Competencia.Ano, Mes: v.Competencia.Mes, Quantidade: v.Quantidade,
		})
	}
	resp.Criados, resp.Atualizados, err = s.repo.AplicarSpans(ctx, valores)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func regraSpanDe(sp model.FuncaoSpan) calculo.RegraSpan {
	bases := make([]uuid.UUID, 0, len(sp.Bases))
	for _, b := range sp.Bases {
		bases = append(bases, b.FuncaoID)
	}
	return calculo.RegraSpan{ID: sp.ID, SecaoID: sp.CenarioSecaoID, FuncaoID: sp.FuncaoID, Bases: bases, Ratio: sp.Ratio}
}

func mesmaSecao(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// ── Grupos de rateio ─────────────────────────────────────────────────────────

func (s *quadroService) CriarGrupo(ctx context.Context, cenarioID uuid.UUID, req dto.RateioGrupoRequest) (*dto.RateioGrupoResponse, error) {
	if _, err := rascunho(ctx, s.cenarios, cenarioID); err != nil {
		return nil, err
	}
	if (req.QuantidadeFixa == nil) == (req.FuncaoOrigemID == nil) {
		return nil, invalido("quantidade_fixa", "informe quantidade_fixa ou funcao_origem_id, e apenas um deles")
	}
	if req.QuantidadeFixa != nil && req.QuantidadeFixa.IsNegative() {
		return nil, invalido("quantidade_fixa", "quantidade fixa não pode ser negativa")
	}
	g := &model.RateioGrupo{CenarioID: cenarioID, Nome: req.Nome, QuantidadeFixa: req.QuantidadeFixa, FuncaoOrigemID: req.FuncaoOrigemID}
	if err := s.repo.CreateGrupo(ctx, g); err != nil {
		return nil, err
	}
	resp := mapGrupo(*g)
	return &resp, nil
}

func (s *quadroService) ListarGrupos(ctx context.Context, cenarioID uuid.UUID) ([]dto.RateioGrupoResponse, error) {
	if _, err := s.cenarios.FindByID(ctx, cenarioID); err != nil {
		return nil, buscar(err, "cenário")
	}
	grupos, err := s.repo.ListGrupos(ctx, cenarioID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RateioGrupoResponse, 0, len(grupos))
	for _, g := range grupos {
		out = append(out, mapGrupo(g))
	}
	return out, nil
}

func (s *quadroService) ExcluirGrupo(ctx context.Context, cenarioID, id uuid.UUID) error {
	if _, err := rascunho(ctx, s.cenarios, cenarioID); err != nil {
		return err
	}
	emUso, err := s.repo.GrupoEmUso(ctx, id)
	if err != nil {
		return err
	}
	if emUso {
		return conflito("grupo de rateio em uso por posições do quadro")
	}
	return buscar(s.repo.DeleteGrupo(ctx, cenarioID, id), "grupo de rateio")
}

// ── Mapping helpers ──────────────────────────────────────────────────────────

func mapQuadro(q model.QuadroPessoal, anoInicial int) dto.QuadroResponse {
	qtds := make([]dto.QuantidadeMes, 0, len(q.Quantidades))
	for _, m := range q.Quantidades {
		qtds = append(qtds, dto.QuantidadeMes{Ano: m.Ano, Mes: m.Mes, Quantidade: m.Quantidade})
	}
	return dto.QuadroResponse{
		ID:                q.ID,
		CenarioID:         q.CenarioID,
		CenarioSecaoID:    q.CenarioSecaoID,
		CentroCustoID:     q.CentroCustoID,
		FuncaoID:          q.FuncaoID,
		Regime:            q.Regime,
		TipoCalculo:       q.TipoCalculo,
		Salario:           q.Salario,
		QuantidadesMes:    qtds,
		RateioGrupoID:     q.RateioGrupoID,
		RateioPercentual:  q.RateioPercentual,
		SpanAplicado:      q.SpanAplicadoEm != nil,
		QuantidadesLegado: dto.NovoLegado(qtds, anoInicial),
	}
}

func mapSpan(sp model.FuncaoSpan) dto.SpanResponse {
	bases := make([]uuid.UUID, 0, len(sp.Bases))
	for _, b := range sp.Bases {
		bases = append(bases, b.FuncaoID)
	}
	return dto.SpanResponse{ID: sp.ID, CenarioSecaoID: sp.CenarioSecaoID, FuncaoID: sp.FuncaoID, FuncoesBase: bases, Ratio: sp.Ratio}
}

func mapGrupo(g model.RateioGrupo) dto.RateioGrupoResponse {
	return dto.RateioGrupoResponse{ID: g.ID, Nome: g.Nome, QuantidadeFixa: g.QuantidadeFixa, FuncaoOrigemID: g.FuncaoOrigemID}
}
