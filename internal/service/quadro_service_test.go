package service_test

import (
	"context"
	"testing"

	"orcamento/internal/calculo"
	"orcamento/internal/dto"
	"orcamento/internal/model"
	"orcamento/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type quadroFixture struct {
	base       cenarioBase
	cenarios   *fakeCenarioRepo
	repo       *fakeQuadroRepo
	supervisor uuid.UUID
	svc        service.QuadroService
}

func novoQuadroFixture(t *testing.T) *quadroFixture {
	t.Helper()
	f := &quadroFixture{base: novoCenarioBase(), cenarios: newFakeCenarioRepo()}
	require.NoError(t, f.cenarios.CriarArvore(context.Background(), f.base.arvore))
	f.repo = newFakeQuadroRepo(f.cenarios)

	funcoes := newFakeFuncoes()
	ctx := context.Background()
	require.NoError(t, funcoes.Create(ctx, &model.Funcao{ID: f.base.atendente, Codigo: "ATD", Nome: "Atendente", SalarioBase: d("2000")}))
	sup := &model.Funcao{Codigo: "SUP", Nome: "Supervisor", SalarioBase: d("5000")}
	require.NoError(t, funcoes.Create(ctx, sup))
	f.supervisor = sup.ID

	f.svc = service.NewQuadroService(f.cenarios, f.repo, funcoes)
	return f
}

func (f *quadroFixture) cenarioID() uuid.UUID { return f.base.arvore.Cenario.ID }

func (f *quadroFixture) posicaoSpan(t *testing.T) *dto.QuadroResponse {
	t.Helper()
	resp, err := f.svc.Criar(context.Background(), f.cenarioID(), dto.QuadroRequest{
		CenarioSecaoID: f.base.secao1, CentroCustoID: f.base.centro, FuncaoID: f.supervisor,
		Regime: "CLT", TipoCalculo: "span",
	})
	require.NoError(t, err)
	return resp
}

func TestQuadro_CriarComColunasLegado(t *testing.T) {
	f := novoQuadroFixture(t)
	req := dto.QuadroRequest{
		CenarioSecaoID: f.base.secao1, CentroCustoID: f.base.centro, FuncaoID: f.base.atendente,
		Regime: "CLT", TipoCalculo: "manual",
	}
	req.QtdJan = dp("5")
	req.QtdFev = dp("6")

	resp, err := f.svc.Criar(context.Background(), f.cenarioID(), req)
	require.NoError(t, err)
	require.NotEmpty(t, resp.QuantidadesMes)
	assert.Equal(t, 2025, resp.QuantidadesMes[0].Ano)
	assert.Equal(t, 1, resp.QuantidadesMes[0].Mes)
	assert.True(t, d("5").Equal(resp.QuantidadesMes[0].Quantidade))
	require.NotNil(t, resp.QtdFev)
	assert.True(t, d("6").Equal(*resp.QtdFev))
}

func TestQuadro_SecaoDeOutroCenario(t *testing.T) {
	f := novoQuadroFixture(t)

	_, err := f.svc.Criar(context.Background(), f.cenarioID(), dto.QuadroRequest{
		CenarioSecaoID: uuid.New(), CentroCustoID: f.base.centro, FuncaoID: f.base.atendente,
		Regime: "CLT", TipoCalculo: "manual",
	})
	var ev *calculo.ErroValidacao
	require.ErrorAs(t, err, &ev)
	assert.Equal(t, "cenario_secao_id", ev.Campo)
}

func TestQuadro_RateioExigeGrupo(t *testing.T) {
	f := novoQuadroFixture(t)
	ctx := context.Background()
	req := dto.QuadroRequest{
		CenarioSecaoID: f.base.secao1, CentroCustoID: f.base.centro, FuncaoID: f.base.atendente,
		Regime: "CLT", TipoCalculo: "rateio",
	}

	_, err := f.svc.Criar(ctx, f.cenarioID(), req)
	var ev *calculo.ErroValidacao
	require.ErrorAs(t, err, &ev)
	assert.Equal(t, "rateio_grupo_id", ev.Campo)

	g, err := f.svc.CriarGrupo(ctx, f.cenarioID(), dto.RateioGrupoRequest{Nome: "Backoffice", QuantidadeFixa: dp("10")})
	require.NoError(t, err)
	req.RateioGrupoID = &g.ID
	req.RateioPercentual = dp("150")
	_, err = f.svc.Criar(ctx, f.cenarioID(), req)
	require.ErrorAs(t, err, &ev)
	assert.Equal(t, "rateio_percentual", ev.Campo)

	req.RateioPercentual = dp("50")
	resp, err := f.svc.Criar(ctx, f.cenarioID(), req)
	require.NoError(t, err)
	assert.Empty(t, resp.QuantidadesMes)
}

func TestQuadro_GrupoExigeUmaOrigem(t *testing.T) {
	f := novoQuadroFixture(t)
	origem := f.base.atendente

	_, err := f.svc.CriarGrupo(context.Background(), f.cenarioID(), dto.RateioGrupoRequest{
		Nome: "Ambos", QuantidadeFixa: dp("3"), FuncaoOrigemID: &origem,
	})
	var ev *calculo.ErroValidacao
	assert.ErrorAs(t, err, &ev)

	_, err = f.svc.CriarGrupo(context.Background(), f.cenarioID(), dto.RateioGrupoRequest{Nome: "Nenhum"})
	assert.ErrorAs(t, err, &ev)
}

func TestQuadro_ExcluirGrupoEmUso(t *testing.T) {
	f := novoQuadroFixture(t)
	ctx := context.Background()
	g, err := f.svc.CriarGrupo(ctx, f.cenarioID(), dto.RateioGrupoRequest{Nome: "Backoffice", QuantidadeFixa: dp("10")})
	require.NoError(t, err)
	f.repo.gruposEmUso[g.ID] = true

	assert.ErrorIs(t, f.svc.ExcluirGrupo(ctx, f.cenarioID(), g.ID), service.ErrConflito)

	f.repo.gruposEmUso[g.ID] = false
	require.NoError(t, f.svc.ExcluirGrupo(ctx, f.cenarioID(), g.ID))
	grupos, err := f.svc.ListarGrupos(ctx, f.cenarioID())
	require.NoError(t, err)
	assert.Empty(t, grupos)
}

func TestSpan_RejeitaAutoReferencia(t *testing.T) {
	f := novoQuadroFixture(t)

	_, err := f.svc.CriarSpan(context.Background(), f.cenarioID(), dto.SpanRequest{
		FuncaoID: f.supervisor, FuncoesBase: []uuid.UUID{f.supervisor}, Ratio: d("10"),
	})
	var ev *calculo.ErroValidacao
	require.ErrorAs(t, err, &ev)
	assert.Equal(t, "funcoes_base", ev.Campo)
}

func TestSpan_RejeitaCiclo(t *testing.T) {
	f := novoQuadroFixture(t)
	ctx := context.Background()

	_, err := f.svc.CriarSpan(ctx, f.cenarioID(), dto.SpanRequest{
		FuncaoID: f.supervisor, FuncoesBase: []uuid.UUID{f.base.atendente}, Ratio: d("15"),
	})
	require.NoError(t, err)

	_, err = f.svc.CriarSpan(ctx, f.cenarioID(), dto.SpanRequest{
		FuncaoID: f.base.atendente, FuncoesBase: []uuid.UUID{f.supervisor}, Ratio: d("2"),
	})
	assert.ErrorIs(t, err, calculo.ErrCicloSpan)
	assert.True(t, service.Permanente(err))

	spans, err := f.svc.ListarSpans(ctx, f.cenarioID())
	require.NoError(t, err)
	assert.Len(t, spans, 1)
}

func TestSpan_DuplicadoNoMesmoEscopo(t *testing.T) {
	f := novoQuadroFixture(t)
	ctx := context.Background()
	req := dto.SpanRequest{FuncaoID: f.supervisor, FuncoesBase: []uuid.UUID{f.base.atendente}, Ratio: d("15")}

	_, err := f.svc.CriarSpan(ctx, f.cenarioID(), req)
	require.NoError(t, err)
	_, err = f.svc.CriarSpan(ctx, f.cenarioID(), req)
	assert.ErrorIs(t, err, service.ErrConflito)

	// a section-scoped rule for the same function is a different scope
	req.CenarioSecaoID = &f.base.secao1
	_, err = f.svc.CriarSpan(ctx, f.cenarioID(), req)
	assert.NoError(t, err)
}

func TestSpan_CalcularSemAplicar(t *testing.T) {
	f := novoQuadroFixture(t)
	ctx := context.Background()
	pos := f.posicaoSpan(t)
	_, err := f.svc.CriarSpan(ctx, f.cenarioID(), dto.SpanRequest{
		FuncaoID: f.supervisor, FuncoesBase: []uuid.UUID{f.base.atendente}, Ratio: d("15"),
	})
	require.NoError(t, err)

	resp, err := f.svc.CalcularSpans(ctx, f.cenarioID(), false)
	require.NoError(t, err)
	assert.False(t, resp.Aplicado)
	assert.Equal(t, 3, resp.TotalMeses)
	assert.Equal(t, 1, resp.TotalFuncoes)
	require.Len(t, resp.Resultados, 3)
	for _, r := range resp.Resultados {
		assert.Equal(t, pos.ID, r.QuadroPessoalID)
		assert.True(t, d("20").Equal(r.SomaBase))
		// ceil(20 / 15)
		assert.True(t, d("2").Equal(r.Quantidade), r.Quantidade.String())
	}

	atual, err := f.svc.ObterPorID(ctx, f.cenarioID(), pos.ID)
	require.NoError(t, err)
	assert.False(t, atual.SpanAplicado)
	assert.Empty(t, atual.QuantidadesMes)
}

func TestSpan_Aplicar(t *testing.T) {
	f := novoQuadroFixture(t)
	ctx := context.Background()
	pos := f.posicaoSpan(t)
	_, err := f.svc.CriarSpan(ctx, f.cenarioID(), dto.SpanRequest{
		FuncaoID: f.supervisor, FuncoesBase: []uuid.UUID{f.base.atendente}, Ratio: d("15"),
	})
	require.NoError(t, err)

	resp, err := f.svc.CalcularSpans(ctx, f.cenarioID(), true)
	require.NoError(t, err)
	assert.True(t, resp.Aplicado)
	assert.Equal(t, 3, resp.Criados)
	assert.Empty(t, resp.Resultados)

	atual, err := f.svc.ObterPorID(ctx, f.cenarioID(), pos.ID)
	require.NoError(t, err)
	assert.True(t, atual.SpanAplicado)
	require.Len(t, atual.QuantidadesMes, 3)
	assert.True(t, d("2").Equal(atual.QuantidadesMes[0].Quantidade))

	resp, err = f.svc.CalcularSpans(ctx, f.cenarioID(), true)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Criados)
	assert.Equal(t, 3, resp.Atualizados)
}

func TestSpan_AplicarExigeRascunho(t *testing.T) {
	f := novoQuadroFixture(t)
	f.cenarios.arvores[f.cenarioID()].Cenario.Status = service.StatusAprovado

	_, err := f.svc.CalcularSpans(context.Background(), f.cenarioID(), true)
	assert.ErrorIs(t, err, service.ErrCenarioImutavel)

	// the dry run only reads
	_, err = f.svc.CalcularSpans(context.Background(), f.cenarioID(), false)
	assert.NoError(t, err)
}
