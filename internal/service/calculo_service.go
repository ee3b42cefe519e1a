package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"orcamento/internal/calculo"
	"orcamento/internal/dto"
	"orcamento/internal/model"
	"orcamento/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Cache is the byte cache the DRE reads through. A nil Cache disables
// caching.
type Cache interface {
	Get(ctx context.Context, chave string) ([]byte, bool)
	Set(ctx context.Context, chave string, valor []byte, ttl time.Duration)
	InvalidarPrefixo(ctx context.Context, prefixo string)
}

// Agendador enqueues asynchronous recalculations.
type Agendador interface {
	EnqueueRecalculo(ctx context.Context, cenarioID uuid.UUID) (uuid.UUID, error)
}

type CalculoService interface {
	CalcularFolha(ctx context.Context, cenarioID uuid.UUID, secaoID *uuid.UUID) (*dto.CalculoFolhaResponse, error)
	CalcularTecnologia(ctx context.Context, cenarioID uuid.UUID, secaoID *uuid.UUID) (*dto.CalculoTecnologiaResponse, error)
	CalcularReceitas(ctx context.Context, cenarioID uuid.UUID, secaoID *uuid.UUID) (*dto.CalculoReceitaResponse, error)
	// CalcularTudo runs the three passes concurrently over one snapshot.
	CalcularTudo(ctx context.Context, cenarioID uuid.UUID, secaoID *uuid.UUID) (*dto.CalcularTudoResponse, error)
	DRE(ctx context.Context, cenarioID uuid.UUID, q dto.DREQuery) (*dto.DREResponse, error)
	ReceitasCalculadas(ctx context.Context, cenarioID uuid.UUID, secaoID *uuid.UUID, ano int) ([]dto.ReceitaCalculadaResponse, error)
	AgendarRecalculo(ctx context.Context, cenarioID uuid.UUID) (*dto.RecalculoResponse, error)
}

type calculoService struct {
	cenarios   repository.CenarioRepository
	resultados repository.ResultadoRepository
	calendario calculo.Calendario
	cache      Cache
	cacheTTL   time.Duration
	agendador  Agendador
}

func NewCalculoService(
	cenarios repository.CenarioRepository,
	resultados repository.ResultadoRepository,
	calendario calculo.Calendario,
	cache Cache,
	cacheTTL time.Duration,
	agendador Agendador,
) CalculoService {
	return &calculoService{
		cenarios:   cenarios,
		resultados: resultados,
		calendario: calendario,
		cache:      cache,
		cacheTTL:   cacheTTL,
		agendador:  agendador,
	}
}

// execucao is one loaded scenario snapshot with its resolved headcount,
// shared read-only by the passes of a run.
type execucao struct {
	arvore  *repository.Arvore
	periodo []calculo.Competencia
	quadro  *calculo.ResultadoQuadro
	secaoID *uuid.UUID
	escopo  map[uuid.UUID]struct{}
}

func (s *calculoService) preparar(ctx context.Context, cenarioID uuid.UUID, secaoID *uuid.UUID) (*execucao, error) {
	a, err := s.cenarios.CarregarArvore(ctx, cenarioID)
	if err != nil {
		return nil, buscar(err, "cenário")
	}
	if a.Cenario.Status != StatusRascunho {
		return nil, &erroServico{msg: fmt.Sprintf("cenário %s está %s; cálculos exigem RASCUNHO", a.Cenario.Codigo, a.Cenario.Status), tipo: ErrCenarioImutavel}
	}
	if secaoID != nil {
		if _, ok := a.Secao(*secaoID); !ok {
			return nil, naoEncontrado("seção")
		}
	}
	periodo, res, err := resolverQuadro(a, false)
	if err != nil {
		return nil, err
	}
	ex := &execucao{arvore: a, periodo: periodo, quadro: res, secaoID: secaoID}
	if secaoID != nil {
		ex.escopo = referenciasDaSecao(a, *secaoID)
	}
	return ex, nil
}

// referenciasDaSecao collects the IDs whose pendências belong to a section
// run: the section itself, its positions and rateio groups, and the cost and
// revenue items that land on it.
func referenciasDaSecao(a *repository.Arvore, secaoID uuid.UUID) map[uuid.UUID]struct{} {
	refs := map[uuid.UUID]struct{}{secaoID: {}}
	for _, q := range a.Quadro {
		if q.CenarioSecaoID != secaoID {
			continue
		}
		refs[q.ID] = struct{}{}
		if q.RateioGrupoID != nil {
			refs[*q.RateioGrupoID] = struct{}{}
		}
	}
	noEscopo := func(it model.ItemCusto, rateio []model.RateioDestino) bool {
		if len(rateio) == 0 {
			return it.CenarioSecaoID == secaoID
		}
		for _, d := range rateio {
			if d.CenarioSecaoID == secaoID {
				return true
			}
		}
		return false
	}
	for _, c := range a.Custos {
		if noEscopo(c.ItemCusto, c.Rateio) {
			refs[c.ID] = struct{}{}
		}
	}
	for _, t := range a.Alocacoes {
		if noEscopo(t.ItemCusto, t.Rateio) {
			refs[t.ID] = struct{}{}
		}
	}
	for _, r := range a.Receitas {
		if r.CenarioSecaoID == secaoID {
			refs[r.ID] = struct{}{}
		}
	}
	return refs
}

func (ex *execucao) lancamentoNoEscopo(l calculo.Lancamento) bool {
	return ex.secaoID == nil || l.SecaoID == *ex.secaoID
}

func (ex *execucao) pendencias(passe calculo.Passe, pend []calculo.Pendencia) []model.CalculoPendencia {
	out := make([]model.CalculoPendencia, 0, len(pend))
	for _, p := range pend {
		if ex.escopo != nil && p.ReferenciaID != nil {
			if _, ok := ex.escopo[*p.ReferenciaID]; !ok {
				continue
			}
		}
		// A section run only replaces its own section's rows.
		if ex.secaoID != nil && p.SecaoID != nil && *p.SecaoID != *ex.secaoID {
			continue
		}
		out = append(out, calculoPendencia(ex.arvore.Cenario.ID, ex.secaoID, passe, p))
	}
	return out
}

func (ex *execucao) custos(ls []calculo.Lancamento) []model.CustoCalculado {
	out := make([]model.CustoCalculado, 0, len(ls))
	for _, l := range ls {
		if ex.lancamentoNoEscopo(l) {
			out = append(out, custoCalculado(ex.arvore.Cenario.ID, l))
		}
	}
	return out
}

func (ex *execucao) escopoDe(passe calculo.Passe) repository.Escopo {
	return repository.Escopo{CenarioID: ex.arvore.Cenario.ID, SecaoID: ex.secaoID, Passe: passe}
}

func paraPendencias(rows []model.CalculoPendencia) []calculo.Pendencia {
	out := make([]calculo.Pendencia, 0, len(rows))
	for _, r := range rows {
		out = append(out, pendenciaDe(r))
	}
	return out
}

// ── Passes ────────────────────────────────────────────────────────────────────

// passeFolha computes payroll (per company, with its encargos) plus direct
// costs. Headcount pendências are reported here since this pass is the one
// that consumes the quadro directly.
func (s *calculoService) passeFolha(ctx context.Context, ex *execucao) (*dto.CalculoFolhaResponse, error) {
	a := ex.arvore
	var (
		lancs []calculo.Lancamento
		pend  = append([]calculo.Pendencia(nil), ex.quadro.Pendencias...)
	)
	rubricas := rubricasFolha(a)
	for empresaID, posicoes := range posicoesFolhaPorEmpresa(a) {
		ls, p := calculo.CalcularFolha(ex.periodo, posicoes, rubricas, encargosDe(a, empresaID), ex.quadro.Quadro)
		lancs = append(lancs, ls...)
		pend = append(pend, p...)
	}
	ls, p := calculo.CalcularCustos(ex.periodo, custosDiretos(a), ex.quadro.Quadro)
	lancs = append(lancs, ls...)
	pend = append(pend, p...)

	res := repository.Resultados{Custos: ex.custos(lancs), Pendencias: ex.pendencias(calculo.PasseFolha, pend)}
	if err := s.resultados.Substituir(ctx, ex.escopoDe(calculo.PasseFolha), res); err != nil {
		return nil, fmt.Errorf("gravar folha: %w", err)
	}
	s.registrar(ex, calculo.PasseFolha, len(res.Custos), len(res.Pendencias))
	return &dto.CalculoFolhaResponse{Quantidade: len(res.Custos), Pendencias: paraPendencias(res.Pendencias)}, nil
}

func (s *calculoService) passeTecnologia(ctx context.Context, ex *execucao) (*dto.CalculoTecnologiaResponse, error) {
	ls, pend := calculo.CalcularCustos(ex.periodo, alocacoesTecnologia(ex.arvore), ex.quadro.Quadro)
	res := repository.Resultados{Custos: ex.custos(ls), Pendencias: ex.pendencias(calculo.PasseTecnologia, pend)}
	if err := s.resultados.Substituir(ctx, ex.escopoDe(calculo.PasseTecnologia), res); err != nil {
		return nil, fmt.Errorf("gravar tecnologia: %w", err)
	}
	s.registrar(ex, calculo.PasseTecnologia, len(res.Custos), len(res.Pendencias))
	return &dto.CalculoTecnologiaResponse{CustosCriados: len(res.Custos), Pendencias: paraPendencias(res.Pendencias)}, nil
}

func (s *calculoService) passeReceita(ctx context.Context, ex *execucao) (*dto.CalculoReceitaResponse, error) {
	a := ex.arvore
	resultados, pend := calculo.CalcularReceitas(ex.periodo, itensReceita(a), ex.quadro.Quadro, s.calendario)

	var noEscopo []calculo.ResultadoReceita
	receitas := make([]model.ReceitaCalculada, 0, len(resultados))
	for _, r := range resultados {
		if ex.secaoID != nil && r.Local.SecaoID != *ex.secaoID {
			continue
		}
		noEscopo = append(noEscopo, r)
		receitas = append(receitas, receitaCalculada(a.Cenario.ID, r))
	}
	tributos := ex.custos(calculo.TributosSobreReceita(noEscopo, tributosPorSecao(a)))

	res := repository.Resultados{Custos: tributos, Receitas: receitas, Pendencias: ex.pendencias(calculo.PasseReceita, pend)}
	if err := s.resultados.Substituir(ctx, ex.escopoDe(calculo.PasseReceita), res); err != nil {
		return nil, fmt.Errorf("gravar receitas: %w", err)
	}
	s.registrar(ex, calculo.PasseReceita, len(receitas)+len(tributos), len(res.Pendencias))
	return &dto.CalculoReceitaResponse{
		ReceitasCalculadas: len(receitas),
		TributosCriados:    len(tributos),
		Pendencias:         paraPendencias(res.Pendencias),
	}, nil
}

func (s *calculoService) registrar(ex *execucao, passe calculo.Passe, linhas, pendencias int) {
	ev := log.Info()
	if pendencias > 0 {
		ev = log.Warn()
	}
	ev = ev.Str("cenario_id", ex.arvore.Cenario.ID.String()).Str("passe", string(passe)).
		Int("linhas", linhas).Int("pendencias", pendencias)
	if ex.secaoID != nil {
		ev = ev.Str("cenario_secao_id", ex.secaoID.String())
	}
	ev.Msg("cálculo concluído")
}

// ── Operations ────────────────────────────────────────────────────────────────

func (s *calculoService) CalcularFolha(ctx context.Context, cenarioID uuid.UUID, secaoID *uuid.UUID) (*dto.CalculoFolhaResponse, error) {
	ex, err := s.preparar(ctx, cenarioID, secaoID)
	if err != nil {
		return nil, err
	}
	defer s.invalidar(ctx, cenarioID)
	return s.passeFolha(ctx, ex)
}

func (s *calculoService) CalcularTecnologia(ctx context.Context, cenarioID uuid.UUID, secaoID *uuid.UUID) (*dto.CalculoTecnologiaResponse, error) {
	ex, err := s.preparar(ctx, cenarioID, secaoID)
	if err != nil {
		return nil, err
	}
	defer s.invalidar(ctx, cenarioID)
	return s.passeTecnologia(ctx, ex)
}

func (s *calculoService) CalcularReceitas(ctx context.Context, cenarioID uuid.UUID, secaoID *uuid.UUID) (*dto.CalculoReceitaResponse, error) {
	ex, err := s.preparar(ctx, cenarioID, secaoID)
	if err != nil {
		return nil, err
	}
	defer s.invalidar(ctx, cenarioID)
	return s.passeReceita(ctx, ex)
}

func (s *calculoService) CalcularTudo(ctx context.Context, cenarioID uuid.UUID, secaoID *uuid.UUID) (*dto.CalcularTudoResponse, error) {
	ex, err := s.preparar(ctx, cenarioID, secaoID)
	if err != nil {
		return nil, err
	}
	defer s.invalidar(ctx, cenarioID)

	var resp dto.CalcularTudoResponse
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := s.passeFolha(gctx, ex)
		if err == nil {
			resp.Folha = *r
		}
		return err
	})
	g.Go(func() error {
		r, err := s.passeTecnologia(gctx, ex)
		if err == nil {
			resp.Tecnologia = *r
		}
		return err
	})
	g.Go(func() error {
		r, err := s.passeReceita(gctx, ex)
		if err == nil {
			resp.Receita = *r
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *calculoService) AgendarRecalculo(ctx context.Context, cenarioID uuid.UUID) (*dto.RecalculoResponse, error) {
	c, err := s.cenarios.FindByID(ctx, cenarioID)
	if err != nil {
		return nil, buscar(err, "cenário")
	}
	if c.Status != StatusRascunho {
		return nil, &erroServico{msg: "cálculos exigem cenário em RASCUNHO", tipo: ErrCenarioImutavel}
	}
	jobID, err := s.agendador.EnqueueRecalculo(ctx, cenarioID)
	if err != nil {
		return nil, fmt.Errorf("agendar recálculo: %w", err)
	}
	return &dto.RecalculoResponse{JobID: jobID, Status: "agendado"}, nil
}

// ── DRE ───────────────────────────────────────────────────────────────────────

func chaveDRE(cenarioID uuid.UUID, geracao string, secaoID *uuid.UUID, ano int) string {
	secao := "todas"
	if secaoID != nil {
		secao = secaoID.String()
	}
	return fmt.Sprintf("dre:%s:%s:%s:%d", cenarioID, geracao, secao, ano)
}

// The generation is part of every DRE key and changes on each invalidation.
// A read that loaded its rows before a pass committed therefore stores its
// result under a key nobody asks for anymore.
func chaveGeracao(cenarioID uuid.UUID) string { return fmt.Sprintf("dre-geracao:%s", cenarioID) }

func (s *calculoService) geracao(ctx context.Context, cenarioID uuid.UUID) string {
	if b, ok := s.cache.Get(ctx, chaveGeracao(cenarioID)); ok {
		return string(b)
	}
	return "0"
}

func (s *calculoService) invalidar(ctx context.Context, cenarioID uuid.UUID) {
	if s.cache != nil {
		s.cache.Set(ctx, chaveGeracao(cenarioID), []byte(uuid.NewString()), 0)
		s.cache.InvalidarPrefixo(ctx, fmt.Sprintf("dre:%s:", cenarioID))
	}
}

func (s *calculoService) DRE(ctx context.Context, cenarioID uuid.UUID, q dto.DREQuery) (*dto.DREResponse, error) {
	var chave string
	if s.cache != nil {
		chave = chaveDRE(cenarioID, s.geracao(ctx, cenarioID), q.CenarioSecaoID, q.Ano)
		if b, ok := s.cache.Get(ctx, chave); ok {
			var resp dto.DREResponse
			if err := json.Unmarshal(b, &resp); err == nil {
				return &resp, nil
			}
		}
	}

	if _, err := s.cenarios.FindByID(ctx, cenarioID); err != nil {
		return nil, buscar(err, "cenário")
	}
	custos, err := s.resultados.ListCustos(ctx, cenarioID, q.CenarioSecaoID, q.Ano)
	if err != nil {
		return nil, err
	}
	receitas, err := s.resultados.ListReceitas(ctx, cenarioID, q.CenarioSecaoID, q.Ano)
	if err != nil {
		return nil, err
	}
	pend, err := s.resultados.ListPendencias(ctx, cenarioID, q.CenarioSecaoID)
	if err != nil {
		return nil, err
	}

	lancs := make([]calculo.Lancamento, 0, len(custos)+len(receitas))
	for _, c := range custos {
		lancs = append(lancs, lancamentoDe(c))
	}
	for _, r := range receitas {
		lancs = append(lancs, resultadoReceitaDe(r).Lancamento())
	}
	dre := calculo.AgregarDRE(q.Ano, lancs)

	resp := &dto.DREResponse{
		CenarioID:      cenarioID,
		CenarioSecaoID: q.CenarioSecaoID,
		Ano:            dre.Ano,
		Linhas:         dre.Linhas,
		TotalGeral:     dre.TotalGeral,
		Completo:       len(pend) == 0,
		Pendencias:     paraPendencias(pend),
	}
	if resp.Linhas == nil {
		resp.Linhas = []calculo.LinhaDRE{}
	}
	if s.cache != nil {
		if b, err := json.Marshal(resp); err == nil {
			s.cache.Set(ctx, chave, b, s.cacheTTL)
		}
	}
	return resp, nil
}

func (s *calculoService) ReceitasCalculadas(ctx context.Context, cenarioID uuid.UUID, secaoID *uuid.UUID, ano int) ([]dto.ReceitaCalculadaResponse, error) {
	if _, err := s.cenarios.FindByID(ctx, cenarioID); err != nil {
		return nil, buscar(err, "cenário")
	}
	rows, err := s.resultados.ListReceitas(ctx, cenarioID, secaoID, ano)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReceitaCalculadaResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ReceitaCalculadaResponse{
			ReceitaCenarioID: r.ReceitaCenarioID,
			CenarioSecaoID:   r.CenarioSecaoID,
			CentroCustoID:    r.CentroCustoID,
			FuncaoID:         r.FuncaoID,
			ContaCodigo:      r.ContaCodigo,
			Ano:              r.Ano,
			Mes:              r.Mes,
			ValorBruto:       r.ValorBruto,
			ValorCalculado:   r.ValorCalculado,
			Limite:           r.Limite,
			Memoria:          r.Memoria,
		})
	}
	return out, nil
}
