package calculo

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func ano2026(t *testing.T) []Competencia {
	t.Helper()
	p, err := ExpandirPeriodo(2026, 1, 2026, 12)
	require.NoError(t, err)
	return p
}

func constante(periodo []Competencia, v string) map[Competencia]decimal.Decimal {
	out := make(map[Competencia]decimal.Decimal, len(periodo))
	for _, c := range periodo {
		out[c] = d(v)
	}
	return out
}

func manual(local Local, funcao uuid.UUID, qtds map[Competencia]decimal.Decimal) Posicao {
	return Posicao{ID: uuid.New(), Local: local, FuncaoID: funcao, Regime: RegimeCLT, Derivacao: Manual{Quantidades: qtds}}
}

func novoLocal() Local { return Local{SecaoID: uuid.New(), CentroCustoID: uuid.New()} }

var jan = Competencia{Ano: 2026, Mes: 1}

// ── Span ─────────────────────────────────────────────────────────────────────

func TestSpanQuantidade_ArredondaParaCima(t *testing.T) {
	assert.True(t, SpanQuantidade(d("70"), d("35")).Equal(d("2")))
	assert.True(t, SpanQuantidade(d("71"), d("35")).Equal(d("3")))
	assert.True(t, SpanQuantidade(d("0"), d("35")).IsZero())
}

func TestResolverQuadro_SpanSomaBasesDoMesmoCentro(t *testing.T) {
	periodo := ano2026(t)
	local := novoLocal()
	outro := novoLocal()
	atendente, backoffice, supervisor := uuid.New(), uuid.New(), uuid.New()

	sup := Posicao{ID: uuid.New(), Local: local, FuncaoID: supervisor, Regime: RegimeCLT, Derivacao: Span{}}
	res, err := ResolverQuadro(EntradaQuadro{
		Periodo: periodo,
		Posicoes: []Posicao{
			manual(local, atendente, constante(periodo, "50")),
			manual(local, backoffice, constante(periodo, "21")),
			// A different cost center must not feed the span.
			manual(outro, atendente, constante(periodo, "100")),
			sup,
		},
		Spans: []RegraSpan{{ID: uuid.New(), FuncaoID: supervisor, Bases: []uuid.UUID{atendente, backoffice}, Ratio: d("35")}},
	})
	require.NoError(t, err)
	assert.Empty(t, res.Pendencias)

	for _, c := range periodo {
		assert.True(t, res.Quadro.Quantidade(sup.ID, c).Equal(d("3")), "mês %s", c)
	}
	require.Len(t, res.Spans, 12)
	assert.True(t, res.Spans[0].SomaBase.Equal(d("71")))
}

func TestResolverQuadro_SpanEncadeado(t *testing.T) {
	periodo := ano2026(t)
	local := novoLocal()
	atendente, supervisor, coordenador := uuid.New(), uuid.New(), uuid.New()

	coord := Posicao{ID: uuid.New(), Local: local, FuncaoID: coordenador, Regime: RegimeCLT, Derivacao: Span{}}
	sup := Posicao{ID: uuid.New(), Local: local, FuncaoID: supervisor, Regime: RegimeCLT, Derivacao: Span{}}
	res, err := ResolverQuadro(EntradaQuadro{
		Periodo: periodo,
		// Coordinator listed first: the resolver must still compute supervisors before it.
		Posicoes: []Posicao{coord, sup, manual(local, atendente, constante(periodo, "100"))},
		Spans: []RegraSpan{
			{ID: uuid.New(), FuncaoID: coordenador, Bases: []uuid.UUID{supervisor}, Ratio: d("2")},
			{ID: uuid.New(), FuncaoID: supervisor, Bases: []uuid.UUID{atendente}, Ratio: d("25")},
		},
	})
	require.NoError(t, err)
	assert.True(t, res.Quadro.Quantidade(sup.ID, jan).Equal(d("4")))
	assert.True(t, res.Quadro.Quantidade(coord.ID, jan).Equal(d("2")))
}

func TestResolverQuadro_CicloRejeitadoAntesDoCalculo(t *testing.T) {
	periodo := ano2026(t)
	local := novoLocal()
	a, b := uuid.New(), uuid.New()

	res, err := ResolverQuadro(EntradaQuadro{
		Periodo: periodo,
		Posicoes: []Posicao{
			{ID: uuid.New(), Local: local, FuncaoID: a, Regime: RegimeCLT, Derivacao: Span{}},
			{ID: uuid.New(), Local: local, FuncaoID: b, Regime: RegimeCLT, Derivacao: Span{}},
		},
		Spans: []RegraSpan{
			{ID: uuid.New(), FuncaoID: a, Bases: []uuid.UUID{b}, Ratio: d("10")},
			{ID: uuid.New(), FuncaoID: b, Bases: []uuid.UUID{a}, Ratio: d("10")},
		},
	})
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, ErrCicloSpan))

	var ciclo *ErroCiclo
	require.ErrorAs(t, err, &ciclo)
	assert.Len(t, ciclo.Caminho, 3)
	assert.Equal(t, ciclo.Caminho[0], ciclo.Caminho[2])
}

func TestOrdenarSpans_AutoReferenciaRejeitada(t *testing.T) {
	a := uuid.New()
	_, err := ResolverQuadro(EntradaQuadro{
		Spans: []RegraSpan{{ID: uuid.New(), FuncaoID: a, Bases: []uuid.UUID{a}, Ratio: d("1")}},
	})
	var ev *ErroValidacao
	require.ErrorAs(t, err, &ev)
	assert.Equal(t, "funcoes_base", ev.Campo)
}

func TestResolverQuadro_RatioZeroViraPendencia(t *testing.T) {
	periodo := ano2026(t)
	local := novoLocal()
	atendente, supervisor := uuid.New(), uuid.New()
	sup := Posicao{ID: uuid.New(), Local: local, FuncaoID: supervisor, Regime: RegimeCLT, Derivacao: Span{}}
	base := manual(local, atendente, constante(periodo, "10"))

	res, err := ResolverQuadro(EntradaQuadro{
		Periodo:  periodo,
		Posicoes: []Posicao{base, sup},
		Spans:    []RegraSpan{{ID: uuid.New(), FuncaoID: supervisor, Bases: []uuid.UUID{atendente}, Ratio: decimal.Zero}},
	})
	require.NoError(t, err)
	require.Len(t, res.Pendencias, 1)
	assert.Equal(t, "funcao_span", res.Pendencias[0].Referencia)
	assert.True(t, res.Quadro.Quantidade(sup.ID, jan).IsZero())
	// The rest of the batch is still resolved.
	assert.True(t, res.Quadro.Quantidade(base.ID, jan).Equal(d("10")))
}

func TestResolverQuadro_SpanAplicadoLidoComoManual(t *testing.T) {
	periodo := ano2026(t)
	local := novoLocal()
	atendente, supervisor := uuid.New(), uuid.New()
	sup := Posicao{ID: uuid.New(), Local: local, FuncaoID: supervisor, Regime: RegimeCLT,
		Derivacao: Span{Aplicadas: constante(periodo, "7")}}
	entrada := EntradaQuadro{
		Periodo:  periodo,
		Posicoes: []Posicao{manual(local, atendente, constante(periodo, "70")), sup},
		Spans:    []RegraSpan{{ID: uuid.New(), FuncaoID: supervisor, Bases: []uuid.UUID{atendente}, Ratio: d("35")}},
	}

	res, err := ResolverQuadro(entrada)
	require.NoError(t, err)
	assert.True(t, res.Quadro.Quantidade(sup.ID, jan).Equal(d("7")))
	assert.Empty(t, res.Spans)

	entrada.RecalcularSpans = true
	res, err = ResolverQuadro(entrada)
	require.NoError(t, err)
	assert.True(t, res.Quadro.Quantidade(sup.ID, jan).Equal(d("2")))
}

// ── Rateio ───────────────────────────────────────────────────────────────────

func TestResolverQuadro_RateioDeFuncaoOrigem(t *testing.T) {
	periodo := ano2026(t)
	origem, destino := novoLocal(), novoLocal()
	atendente, apoio := uuid.New(), uuid.New()
	grupo := GrupoRateio{ID: uuid.New(), FuncaoOrigemID: &atendente}

	p1 := Posicao{ID: uuid.New(), Local: origem, FuncaoID: apoio, Regime: RegimeCLT, Derivacao: Rateio{GrupoID: grupo.ID, Percentual: d("60")}}
	p2 := Posicao{ID: uuid.New(), Local: destino, FuncaoID: apoio, Regime: RegimeCLT, Derivacao: Rateio{GrupoID: grupo.ID, Percentual: d("40")}}

	res, err := ResolverQuadro(EntradaQuadro{
		Periodo:  periodo,
		Posicoes: []Posicao{manual(origem, atendente, constante(periodo, "15")), p1, p2},
		Grupos:   []GrupoRateio{grupo},
	})
	require.NoError(t, err)
	assert.True(t, res.Quadro.Quantidade(p1.ID, jan).Equal(d("9")))
	assert.True(t, res.Quadro.Quantidade(p2.ID, jan).Equal(d("6")))
}

func TestResolverQuadro_RateioQuantidadeFixa(t *testing.T) {
	periodo := ano2026(t)
	grupo := GrupoRateio{ID: uuid.New(), QuantidadeFixa: dp("10")}
	p := Posicao{ID: uuid.New(), Local: novoLocal(), FuncaoID: uuid.New(), Regime: RegimePJ, Derivacao: Rateio{GrupoID: grupo.ID, Percentual: d("100")}}

	res, err := ResolverQuadro(EntradaQuadro{Periodo: periodo, Posicoes: []Posicao{p}, Grupos: []GrupoRateio{grupo}})
	require.NoError(t, err)
	assert.True(t, res.Quadro.Quantidade(p.ID, jan).Equal(d("10")))
}

func TestResolverQuadro_RateioSomaDiferenteDeCem(t *testing.T) {
	grupo := GrupoRateio{ID: uuid.New(), QuantidadeFixa: dp("10")}
	_, err := ResolverQuadro(EntradaQuadro{
		Periodo: ano2026(t),
		Posicoes: []Posicao{
			{ID: uuid.New(), Local: novoLocal(), FuncaoID: uuid.New(), Regime: RegimeCLT, Derivacao: Rateio{GrupoID: grupo.ID, Percentual: d("60")}},
			{ID: uuid.New(), Local: novoLocal(), FuncaoID: uuid.New(), Regime: RegimeCLT, Derivacao: Rateio{GrupoID: grupo.ID, Percentual: d("39.5")}},
		},
		Grupos: []GrupoRateio{grupo},
	})
	var ev *ErroValidacao
	require.ErrorAs(t, err, &ev)
	assert.Equal(t, "rateio_percentual", ev.Campo)
}

func TestResolverQuadro_RateioOrigemDerivadaDeRateio(t *testing.T) {
	apoio := uuid.New()
	grupo := GrupoRateio{ID: uuid.New(), FuncaoOrigemID: &apoio}
	_, err := ResolverQuadro(EntradaQuadro{
		Periodo: ano2026(t),
		Posicoes: []Posicao{
			{ID: uuid.New(), Local: novoLocal(), FuncaoID: apoio, Regime: RegimeCLT, Derivacao: Rateio{GrupoID: grupo.ID, Percentual: d("100")}},
		},
		Grupos: []GrupoRateio{grupo},
	})
	var ev *ErroValidacao
	require.ErrorAs(t, err, &ev)
	assert.Equal(t, "funcao_origem_id", ev.Campo)
}

func TestResolverQuadro_SpanSobreFuncaoDeRateio(t *testing.T) {
	periodo := ano2026(t)
	local := novoLocal()
	atendente, supervisor := uuid.New(), uuid.New()
	grupo := GrupoRateio{ID: uuid.New(), QuantidadeFixa: dp("70")}

	sup := Posicao{ID: uuid.New(), Local: local, FuncaoID: supervisor, Regime: RegimeCLT, Derivacao: Span{}}
	atd := Posicao{ID: uuid.New(), Local: local, FuncaoID: atendente, Regime: RegimeCLT, Derivacao: Rateio{GrupoID: grupo.ID, Percentual: d("100")}}
	res, err := ResolverQuadro(EntradaQuadro{
		Periodo:  periodo,
		Posicoes: []Posicao{sup, atd},
		Spans:    []RegraSpan{{ID: uuid.New(), FuncaoID: supervisor, Bases: []uuid.UUID{atendente}, Ratio: d("35")}},
		Grupos:   []GrupoRateio{grupo},
	})
	require.NoError(t, err)
	assert.Empty(t, res.Pendencias)
	assert.True(t, res.Quadro.Quantidade(atd.ID, jan).Equal(d("70")))
	assert.True(t, res.Quadro.Quantidade(sup.ID, jan).Equal(d("2")), res.Quadro.Quantidade(sup.ID, jan).String())
	require.Len(t, res.Spans, 12)
	assert.True(t, res.Spans[0].SomaBase.Equal(d("70")))
}

func TestResolverQuadro_RateioDeOrigemSpan(t *testing.T) {
	periodo := ano2026(t)
	local, destino := novoLocal(), novoLocal()
	atendente, supervisor, apoio := uuid.New(), uuid.New(), uuid.New()
	grupo := GrupoRateio{ID: uuid.New(), FuncaoOrigemID: &supervisor}

	ap := Posicao{ID: uuid.New(), Local: destino, FuncaoID: apoio, Regime: RegimeCLT, Derivacao: Rateio{GrupoID: grupo.ID, Percentual: d("50")}}
	res, err := ResolverQuadro(EntradaQuadro{
		Periodo: periodo,
		Posicoes: []Posicao{
			ap,
			{ID: uuid.New(), Local: local, FuncaoID: supervisor, Regime: RegimeCLT, Derivacao: Span{}},
			manual(local, atendente, constante(periodo, "100")),
		},
		Spans:  []RegraSpan{{ID: uuid.New(), FuncaoID: supervisor, Bases: []uuid.UUID{atendente}, Ratio: d("25")}},
		Grupos: []GrupoRateio{grupo},
	})
	require.NoError(t, err)
	assert.True(t, res.Quadro.Quantidade(ap.ID, jan).Equal(d("2")))
}

func TestResolverQuadro_CicloEntreSpanERateio(t *testing.T) {
	local := novoLocal()
	supervisor, apoio := uuid.New(), uuid.New()
	grupo := GrupoRateio{ID: uuid.New(), FuncaoOrigemID: &supervisor}

	res, err := ResolverQuadro(EntradaQuadro{
		Periodo: ano2026(t),
		Posicoes: []Posicao{
			{ID: uuid.New(), Local: local, FuncaoID: supervisor, Regime: RegimeCLT, Derivacao: Span{}},
			{ID: uuid.New(), Local: local, FuncaoID: apoio, Regime: RegimeCLT, Derivacao: Rateio{GrupoID: grupo.ID, Percentual: d("100")}},
		},
		Spans:  []RegraSpan{{ID: uuid.New(), FuncaoID: supervisor, Bases: []uuid.UUID{apoio}, Ratio: d("10")}},
		Grupos: []GrupoRateio{grupo},
	})
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrCicloSpan)
}

// ── Legacy columns ───────────────────────────────────────────────────────────

func TestNormalizarQuantidades(t *testing.T) {
	var legado [12]*decimal.Decimal
	legado[0] = dp("5")
	legado[11] = dp("8")

	out := NormalizarQuantidades(nil, legado, 2027)
	assert.Len(t, out, 2)
	assert.True(t, out[Competencia{Ano: 2027, Mes: 1}].Equal(d("5")))
	assert.True(t, out[Competencia{Ano: 2027, Mes: 12}].Equal(d("8")))

	// The normalized list wins even when legacy columns are filled.
	out = NormalizarQuantidades([]QuantidadeMes{{Ano: 2028, Mes: 2, Quantidade: d("3")}}, legado, 2027)
	assert.Len(t, out, 1)
	assert.True(t, out[Competencia{Ano: 2028, Mes: 2}].Equal(d("3")))
}
