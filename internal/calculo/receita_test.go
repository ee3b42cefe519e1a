package calculo

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func premissas(periodo []Competencia, ticket string, dias int) map[Competencia]PremissaReceita {
	out := make(map[Competencia]PremissaReceita, len(periodo))
	for _, c := range periodo {
		dd := dias
		out[c] = PremissaReceita{
			VOPDU: d("1"), IndiceConversao: d("1"), TicketMedio: d(ticket),
			Fator: d("1"), IndiceEstorno: decimal.Zero, DiasUteis: &dd,
		}
	}
	return out
}

func TestCalcularReceitas_FixaPAOrcamento2026(t *testing.T) {
	local := novoLocal()
	atendente := uuid.New()
	q, periodo := quadroSimples(t, local, atendente, "20", "4")

	item := ItemReceita{ID: uuid.New(), Local: local, FuncaoID: &atendente, Tipo: ReceitaFixaPA, ValorFixo: d("1000")}
	out, pend := CalcularReceitas(periodo, []ItemReceita{item}, q, nil)
	require.Empty(t, pend)
	require.Len(t, out, 12)

	total := decimal.Zero
	for _, r := range out {
		assert.True(t, r.ValorCalculado.Equal(d("5000")), "mês %s: %s", r.Competencia, r.ValorCalculado)
		assert.True(t, r.Memoria.PA.Equal(d("5")))
		total = total.Add(r.ValorCalculado)
	}
	assert.True(t, total.Equal(d("60000")))

	var ls []Lancamento
	for _, r := range out {
		ls = append(ls, r.Lancamento())
	}
	dre := AgregarDRE(2026, ls)
	assert.True(t, dre.TotalGeral.Equal(d("-60000")))
}

func TestCalcularReceitas_FixaCCEHC(t *testing.T) {
	local := novoLocal()
	atendente := uuid.New()
	q, periodo := quadroSimples(t, local, atendente, "20", "")

	itens := []ItemReceita{
		{ID: uuid.New(), Local: local, Tipo: ReceitaFixaCC, ValorFixo: d("750")},
		{ID: uuid.New(), Local: local, FuncaoID: &atendente, Tipo: ReceitaFixaHC, ValorFixo: d("30")},
	}
	out, pend := CalcularReceitas(periodo[:1], itens, q, nil)
	require.Empty(t, pend)
	require.Len(t, out, 2)
	assert.True(t, out[0].ValorCalculado.Equal(d("750")))
	assert.True(t, out[1].ValorCalculado.Equal(d("600")))
}

func TestCalcularReceitas_LimiteMinimo(t *testing.T) {
	local := novoLocal()
	f := uuid.New()
	q, periodo := quadroSimples(t, local, f, "40", "4")

	item := ItemReceita{
		ID: uuid.New(), Local: local, FuncaoID: &f, Tipo: ReceitaVariavel,
		ValorMinimoPA: dp("50"), Premissas: premissas(periodo, "40", 1),
	}
	out, pend := CalcularReceitas(periodo[:1], []ItemReceita{item}, q, nil)
	require.Empty(t, pend)
	require.Len(t, out, 1)
	assert.True(t, out[0].ValorBruto.Equal(d("400")))
	assert.True(t, out[0].ValorCalculado.Equal(d("500")))
	assert.Equal(t, LimiteMinimo, out[0].Limite)
}

func TestCalcularReceitas_LimiteMaximo(t *testing.T) {
	local := novoLocal()
	f := uuid.New()
	q, periodo := quadroSimples(t, local, f, "40", "4")

	item := ItemReceita{
		ID: uuid.New(), Local: local, FuncaoID: &f, Tipo: ReceitaVariavel,
		ValorMaximoPA: dp("55"), Premissas: premissas(periodo, "60", 1),
	}
	out, _ := CalcularReceitas(periodo[:1], []ItemReceita{item}, q, nil)
	require.Len(t, out, 1)
	assert.True(t, out[0].ValorBruto.Equal(d("600")))
	assert.True(t, out[0].ValorCalculado.Equal(d("550")))
	assert.Equal(t, LimiteMaximo, out[0].Limite)
	require.NotNil(t, out[0].Memoria.ValorPorPA)
	assert.True(t, out[0].Memoria.ValorPorPA.Equal(d("60")))
}

func TestCalcularReceitas_VariavelComEstornoECalendario(t *testing.T) {
	local := novoLocal()
	f := uuid.New()
	q, _ := quadroSimples(t, local, f, "8", "4")

	p := PremissaReceita{VOPDU: d("10"), IndiceConversao: d("0.5"), TicketMedio: d("20"), Fator: d("1"), IndiceEstorno: d("0.1")}
	item := ItemReceita{
		ID: uuid.New(), Local: local, FuncaoID: &f, Tipo: ReceitaVariavel,
		Premissas: map[Competencia]PremissaReceita{{Ano: 2026, Mes: 3}: p},
	}
	// March 2026 has 22 business days: 2 × 10 × 0.5 × 20 × 1 × 22 × 0.9
	out, pend := CalcularReceitas([]Competencia{{Ano: 2026, Mes: 3}}, []ItemReceita{item}, q, NovoCalendario(nil))
	require.Empty(t, pend)
	require.Len(t, out, 1)
	assert.True(t, out[0].ValorCalculado.Equal(d("3960")), out[0].ValorCalculado.String())
	require.NotNil(t, out[0].Memoria.DiasUteis)
	assert.Equal(t, 22, *out[0].Memoria.DiasUteis)
}

func TestCalcularReceitas_PAProdutivoNaoAfetaLimite(t *testing.T) {
	local := novoLocal()
	f := uuid.New()
	q, periodo := quadroSimples(t, local, f, "40", "4")

	item := ItemReceita{
		ID: uuid.New(), Local: local, FuncaoID: &f, Tipo: ReceitaVariavel,
		ValorMinimoPA: dp("50"), Premissas: premissas(periodo, "50", 1),
		Indicadores: map[Competencia]Indicadores{jan: {Absenteismo: d("0.1")}},
	}
	out, _ := CalcularReceitas(periodo[:1], []ItemReceita{item}, q, nil)
	require.Len(t, out, 1)
	// Productive PA 9 gives 450 gross; the minimum is 50 × nominal PA 10.
	assert.True(t, out[0].ValorBruto.Equal(d("450")))
	assert.True(t, out[0].ValorCalculado.Equal(d("500")))
	require.NotNil(t, out[0].Memoria.PAProdutivo)
	assert.True(t, out[0].Memoria.PAProdutivo.Equal(d("9")))
}

func TestCalcularReceitas_PendenciasNaoInterrompemLote(t *testing.T) {
	local := novoLocal()
	f := uuid.New()
	q, periodo := quadroSimples(t, local, f, "20", "")

	itens := []ItemReceita{
		{ID: uuid.New(), Local: local, FuncaoID: &f, Tipo: ReceitaFixaPA, ValorFixo: d("1000")},
		{ID: uuid.New(), Local: local, Tipo: ReceitaFixaHC, ValorFixo: d("1")},
		{ID: uuid.New(), Local: local, Tipo: ReceitaFixaCC, ValorFixo: d("10")},
	}
	out, pend := CalcularReceitas(periodo[:2], itens, q, nil)
	// Missing fator_pa: one per month. Missing function: one per item.
	assert.Len(t, pend, 3)
	require.Len(t, out, 2)
	assert.Equal(t, itens[2].ID, out[0].ReceitaID)
}

func TestCalcularReceitas_PremissaAusente(t *testing.T) {
	local := novoLocal()
	f := uuid.New()
	q, periodo := quadroSimples(t, local, f, "20", "4")
	item := ItemReceita{ID: uuid.New(), Local: local, FuncaoID: &f, Tipo: ReceitaVariavel, Premissas: premissas(periodo[:6], "1", 1)}

	out, pend := CalcularReceitas(periodo, []ItemReceita{item}, q, nil)
	assert.Len(t, out, 6)
	require.Len(t, pend, 6)
	assert.Equal(t, 7, pend[0].Competencia.Mes)
}

func TestLimitar_SemPA(t *testing.T) {
	v, l := Limitar(d("100"), decimal.Zero, dp("50"), nil)
	assert.True(t, v.Equal(d("100")))
	assert.Equal(t, LimiteNenhum, l)
}

func TestTributosSobreReceita(t *testing.T) {
	local := novoLocal()
	r := ResultadoReceita{ReceitaID: uuid.New(), Local: local, Competencia: jan, ValorCalculado: d("5000")}
	trib := map[uuid.UUID][]Tributo{local.SecaoID: {
		{ID: uuid.New(), Rubrica: Rubrica{Codigo: "PIS"}, Conta: Conta{Codigo: "3.2.01"}, Aliquota: d("0.65")},
		{ID: uuid.New(), Rubrica: Rubrica{Codigo: "COFINS"}, Conta: Conta{Codigo: "3.2.01"}, Aliquota: d("3")},
	}}
	out := TributosSobreReceita([]ResultadoReceita{r}, trib)
	require.Len(t, out, 2)
	assert.True(t, out[0].Valor.Equal(d("32.5")))
	assert.True(t, out[1].Valor.Equal(d("150")))
	assert.Equal(t, CategoriaTributo, out[1].Categoria)
}
