package calculo

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quadroSimples(t *testing.T, local Local, funcao uuid.UUID, hc string, fatorPA string) (*Quadro, []Competencia) {
	t.Helper()
	periodo := ano2026(t)
	fatores := map[uuid.UUID]decimal.Decimal{}
	if fatorPA != "" {
		fatores[local.SecaoID] = d(fatorPA)
	}
	res, err := ResolverQuadro(EntradaQuadro{
		Periodo:  periodo,
		Posicoes: []Posicao{manual(local, funcao, constante(periodo, hc))},
		FatorPA:  fatores,
	})
	require.NoError(t, err)
	return res.Quadro, periodo
}

func somaValores(ls []Lancamento) decimal.Decimal {
	s := decimal.Zero
	for _, l := range ls {
		s = s.Add(l.Valor)
	}
	return s
}

func TestDividirValor_FechaNoTotal(t *testing.T) {
	partes := DividirValor(d("100"), []decimal.Decimal{d("33.33"), d("33.33"), d("33.34")})
	require.Len(t, partes, 3)
	soma := partes[0].Add(partes[1]).Add(partes[2])
	assert.True(t, soma.Equal(d("100")), soma.String())
	assert.True(t, partes[0].Equal(d("33.33")))
}

func TestValidarPercentuais(t *testing.T) {
	assert.NoError(t, ValidarPercentuais([]decimal.Decimal{d("50"), d("49.995")}))
	assert.Error(t, ValidarPercentuais([]decimal.Decimal{d("50"), d("49.9")}))
	assert.Error(t, ValidarPercentuais([]decimal.Decimal{d("150"), d("-50")}))
	assert.Error(t, ValidarPercentuais(nil))
}

func TestCalcularCustos_TiposDeValor(t *testing.T) {
	local := novoLocal()
	atendente := uuid.New()
	q, periodo := quadroSimples(t, local, atendente, "20", "4")
	conta := Conta{Codigo: "4.1.01", Descricao: "Custos operacionais"}

	itens := []ItemCusto{
		{ID: uuid.New(), Passe: PasseFolha, Categoria: CategoriaDireto, Local: local, Conta: conta, TipoValor: ValorFixo, ValorFixo: d("1500")},
		{ID: uuid.New(), Passe: PasseFolha, Categoria: CategoriaDireto, Local: local, Conta: conta, TipoValor: ValorVariavel, ValorUnitario: d("10"), Unidade: UnidadeHCTotal},
		{ID: uuid.New(), Passe: PasseFolha, Categoria: CategoriaDireto, Local: local, Conta: conta, TipoValor: ValorFixoVariavel, ValorFixo: d("100"), ValorUnitario: d("30"), Unidade: UnidadePAFuncao, FuncaoBaseID: &atendente},
	}
	out, pend := CalcularCustos(periodo, itens, q)
	require.Empty(t, pend)
	require.Len(t, out, 36)

	porItem := map[uuid.UUID]decimal.Decimal{}
	for _, l := range out {
		if l.Competencia == jan {
			porItem[l.OrigemID] = l.Valor
		}
	}
	assert.True(t, porItem[itens[0].ID].Equal(d("1500")))
	assert.True(t, porItem[itens[1].ID].Equal(d("200")))
	// 100 + 30 × (20 / 4)
	assert.True(t, porItem[itens[2].ID].Equal(d("250")))
}

func TestCalcularCustos_RateioSomaOTotal(t *testing.T) {
	a, b, c := novoLocal(), novoLocal(), novoLocal()
	q, periodo := quadroSimples(t, a, uuid.New(), "10", "")
	item := ItemCusto{
		ID: uuid.New(), Passe: PasseTecnologia, Categoria: CategoriaTecnologia,
		Conta: Conta{Codigo: "4.2.01"}, TipoValor: ValorFixo, ValorFixo: d("1000"),
		Rateio: []Destino{{Local: a, Percentual: d("33.33")}, {Local: b, Percentual: d("33.33")}, {Local: c, Percentual: d("33.34")}},
	}
	out, pend := CalcularCustos(periodo, []ItemCusto{item}, q)
	require.Empty(t, pend)
	require.Len(t, out, 36)

	var doMes []Lancamento
	for _, l := range out {
		if l.Competencia == jan {
			doMes = append(doMes, l)
		}
	}
	require.Len(t, doMes, 3)
	assert.True(t, somaValores(doMes).Equal(d("1000")))
	for _, l := range doMes {
		require.NotNil(t, l.RateioGrupoID)
		assert.Equal(t, item.ID, *l.RateioGrupoID)
	}
}

func TestCalcularCustos_RateioVariavelMedeOGrupoInteiro(t *testing.T) {
	periodo := ano2026(t)
	a, b := novoLocal(), novoLocal()
	f := uuid.New()
	res, err := ResolverQuadro(EntradaQuadro{
		Periodo:  periodo,
		Posicoes: []Posicao{manual(a, f, constante(periodo, "6")), manual(b, f, constante(periodo, "4"))},
	})
	require.NoError(t, err)

	item := ItemCusto{
		ID: uuid.New(), Passe: PasseTecnologia, Categoria: CategoriaTecnologia,
		TipoValor: ValorVariavel, ValorUnitario: d("50"), Unidade: UnidadeHCTotal,
		Rateio: []Destino{{Local: a, Percentual: d("50")}, {Local: b, Percentual: d("50")}},
	}
	out, _ := CalcularCustos(periodo[:1], []ItemCusto{item}, res.Quadro)
	require.Len(t, out, 2)
	// 50 × (6 + 4) split in half.
	assert.True(t, out[0].Valor.Equal(d("250")))
	assert.True(t, out[1].Valor.Equal(d("250")))
}

func TestCalcularCustos_SemFatorPAViraPendencia(t *testing.T) {
	local := novoLocal()
	q, periodo := quadroSimples(t, local, uuid.New(), "20", "")
	itens := []ItemCusto{
		{ID: uuid.New(), Passe: PasseFolha, Categoria: CategoriaDireto, Local: local, TipoValor: ValorVariavel, ValorUnitario: d("10"), Unidade: UnidadePATotal},
		{ID: uuid.New(), Passe: PasseFolha, Categoria: CategoriaDireto, Local: local, TipoValor: ValorFixo, ValorFixo: d("10")},
	}
	out, pend := CalcularCustos(periodo, itens, q)
	assert.Len(t, pend, 12)
	assert.Len(t, out, 12)
	assert.Equal(t, itens[1].ID, out[0].OrigemID)
}

func TestCalcularCustos_Vigencia(t *testing.T) {
	local := novoLocal()
	q, periodo := quadroSimples(t, local, uuid.New(), "1", "")
	item := ItemCusto{
		ID: uuid.New(), Passe: PasseFolha, Categoria: CategoriaDireto, Local: local,
		TipoValor: ValorFixo, ValorFixo: d("10"),
		Inicio: &Competencia{Ano: 2026, Mes: 3}, Fim: &Competencia{Ano: 2026, Mes: 5},
	}
	out, _ := CalcularCustos(periodo, []ItemCusto{item}, q)
	assert.Len(t, out, 3)
}

func TestValidarItemCusto_FuncaoBaseObrigatoria(t *testing.T) {
	err := ValidarItemCusto(ItemCusto{TipoValor: ValorVariavel, Unidade: UnidadeHCFuncao})
	var ev *ErroValidacao
	require.ErrorAs(t, err, &ev)
	assert.Equal(t, "funcao_base_id", ev.Campo)
}
