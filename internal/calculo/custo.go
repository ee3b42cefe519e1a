package calculo

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TipoValor string

const (
	ValorFixo         TipoValor = "FIXO"
	ValorVariavel     TipoValor = "VARIAVEL"
	ValorFixoVariavel TipoValor = "FIXO_VARIAVEL"
)

// Unidade is the measurement basis of a variable cost.
type Unidade string

const (
	UnidadeHCTotal  Unidade = "HC_TOTAL"
	UnidadeHCFuncao Unidade = "HC_FUNCAO"
	UnidadePATotal  Unidade = "PA_TOTAL"
	UnidadePAFuncao Unidade = "PA_FUNCAO"
)

func (u Unidade) porFuncao() bool { return u == UnidadeHCFuncao || u == UnidadePAFuncao }
func (u Unidade) emPA() bool      { return u == UnidadePATotal || u == UnidadePAFuncao }

// Destino is one cost center of a rateio split.
type Destino struct {
	Local      Local
	Percentual decimal.Decimal
}

// ItemCusto is a direct cost or a technology allocation.
type ItemCusto struct {
	ID            uuid.UUID
	Passe         Passe
	Categoria     Categoria
	Local         Local
	Conta         Conta
	Rubrica       Rubrica
	TipoValor     TipoValor
	ValorFixo     decimal.Decimal
	ValorUnitario decimal.Decimal
	Unidade       Unidade
	FuncaoBaseID  *uuid.UUID
	// Rateio, when present, replaces Local: the value is computed for the
	// whole group and split among the destinations.
	Rateio        []Destino
	RateioGrupoID *uuid.UUID
	Inicio        *Competencia
	Fim           *Competencia
}

func (it ItemCusto) variavel() bool {
	return it.TipoValor == ValorVariavel || it.TipoValor == ValorFixoVariavel
}

func (it ItemCusto) vigente(c Competencia) bool {
	if it.Inicio != nil && c.Antes(*it.Inicio) {
		return false
	}
	if it.Fim != nil && it.Fim.Antes(c) {
		return false
	}
	return true
}

// ValidarItemCusto rejects inconsistent cost configurations.
func ValidarItemCusto(it ItemCusto) error {
	switch it.TipoValor {
	case ValorFixo, ValorVariavel, ValorFixoVariavel:
	default:
		return novoErroValidacao("tipo_valor", "tipo de valor inválido %q", it.TipoValor)
	}
	if it.variavel() {
		switch it.Unidade {
		case UnidadeHCTotal, UnidadeHCFuncao, UnidadePATotal, UnidadePAFuncao:
		default:
			return novoErroValidacao("unidade_medida", "unidade de medida inválida %q", it.Unidade)
		}
		if it.Unidade.porFuncao() && it.FuncaoBaseID == nil {
			return novoErroValidacao("funcao_base_id", "unidade %s exige uma função base", it.Unidade)
		}
	}
	if len(it.Rateio) > 0 {
		pcts := make([]decimal.Decimal, 0, len(it.Rateio))
		for _, d := range it.Rateio {
			pcts = append(pcts, d.Percentual)
		}
		if err := ValidarPercentuais(pcts); err != nil {
			return novoErroValidacao("rateio", "%s", err.Error())
		}
	}
	if it.Inicio != nil && it.Fim != nil && it.Fim.Antes(*it.Inicio) {
		return ErrPeriodoInvalido
	}
	return nil
}

// Medida reads the HC or PA basis of unidade summed over the given cost
// centers. ok is false when a PA basis hits a section without fator_pa.
func Medida(q *Quadro, u Unidade, locais []Local, funcaoID *uuid.UUID, c Competencia) (decimal.Decimal, bool) {
	var f *uuid.UUID
	if u.porFuncao() {
		f = funcaoID
	}
	total := decimal.Zero
	for _, l := range locais {
		if u.emPA() {
			pa, ok := q.PA(l, f, c)
			if !ok {
				return decimal.Zero, false
			}
			total = total.Add(pa)
			continue
		}
		total = total.Add(q.HC(l, f, c))
	}
	return total, true
}

// CalcularCustos computes every cost item for every month of the period.
func CalcularCustos(periodo []Competencia, itens []ItemCusto, q *Quadro) ([]Lancamento, []Pendencia) {
	var (
		out  []Lancamento
		pend []Pendencia
	)
	for _, it := range itens {
		id := it.ID
		if err := ValidarItemCusto(it); err != nil {
			pend = append(pend, novaPendencia(string(it.Categoria), &id, nil, "%s", err.Error()).na(it.Local))
			continue
		}

		locais := []Local{it.Local}
		if len(it.Rateio) > 0 {
			locais = locais[:0]
			for _, d := range it.Rateio {
				locais = append(locais, d.Local)
			}
		}

		for _, c := range periodo {
			if !it.vigente(c) {
				continue
			}
			valor := decimal.Zero
			if it.TipoValor != ValorVariavel {
				valor = it.ValorFixo
			}
			if it.variavel() {
				medida, ok := Medida(q, it.Unidade, locais, it.FuncaoBaseID, c)
				if !ok {
					comp := c
					pend = append(pend, novaPendencia(string(it.Categoria), &id, &comp, "fator_pa ausente ou zero na seção do centro de custo").na(it.Local))
					continue
				}
				valor = valor.Add(it.ValorUnitario.Mul(medida))
			}
			if valor.IsZero() {
				continue
			}
			out = append(out, distribuir(it, c, valor)...)
		}
	}
	return out, pend
}

func distribuir(it ItemCusto, c Competencia, valor decimal.Decimal) []Lancamento {
	base := Lancamento{
		Passe:       it.Passe,
		Categoria:   it.Categoria,
		OrigemID:    it.ID,
		FuncaoID:    it.FuncaoBaseID,
		Conta:       it.Conta,
		Rubrica:     it.Rubrica,
		Competencia: c,
	}
	if len(it.Rateio) == 0 {
		base.SecaoID = it.Local.SecaoID
		base.CentroCustoID = it.Local.CentroCustoID
		base.Valor = arredondar(valor)
		return []Lancamento{base}
	}

	grupo := it.ID
	if it.RateioGrupoID != nil {
		grupo = *it.RateioGrupoID
	}
	pcts := make([]decimal.Decimal, len(it.Rateio))
	for i, d := range it.Rateio {
		pcts[i] = d.Percentual
	}
	partes := DividirValor(valor, pcts)

	out := make([]Lancamento, 0, len(it.Rateio))
	for i, d := range it.Rateio {
		l := base
		l.SecaoID = d.Local.SecaoID
		l.CentroCustoID = d.Local.CentroCustoID
		l.Valor = partes[i]
		g := grupo
		pct := d.Percentual
		l.RateioGrupoID = &g
		l.RateioPercentual = &pct
		out = append(out, l)
	}
	return out
}
