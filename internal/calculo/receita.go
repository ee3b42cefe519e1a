package calculo

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TipoCalculoReceita string

const (
	ReceitaFixaCC   TipoCalculoReceita = "FIXA_CC"
	ReceitaFixaHC   TipoCalculoReceita = "FIXA_HC"
	ReceitaFixaPA   TipoCalculoReceita = "FIXA_PA"
	ReceitaVariavel TipoCalculoReceita = "VARIAVEL"
)

// Limite records which per-PA bound clamped a revenue value.
type Limite string

const (
	LimiteNenhum Limite = ""
	LimiteMinimo Limite = "MINIMO"
	LimiteMaximo Limite = "MAXIMO"
)

// PremissaReceita is the monthly productivity premise of a VARIAVEL revenue.
// IndiceEstorno is a fraction (0–1). DiasUteis overrides the calendar.
type PremissaReceita struct {
	VOPDU           decimal.Decimal
	IndiceConversao decimal.Decimal
	TicketMedio     decimal.Decimal
	Fator           decimal.Decimal
	IndiceEstorno   decimal.Decimal
	DiasUteis       *int
}

// Indicadores are the monthly premise indicators of a function. Absenteismo,
// IndiceFerias and Turnover are fractions (0–1).
type Indicadores struct {
	Absenteismo     decimal.Decimal
	Turnover        decimal.Decimal
	IndiceFerias    decimal.Decimal
	DiasTreinamento decimal.Decimal
}

// ItemReceita is one revenue line of a cost center.
type ItemReceita struct {
	ID            uuid.UUID
	Local         Local
	FuncaoID      *uuid.UUID
	Tipo          TipoCalculoReceita
	ValorFixo     decimal.Decimal
	ValorMinimoPA *decimal.Decimal
	ValorMaximoPA *decimal.Decimal
	Conta         Conta
	Rubrica       Rubrica
	Premissas     map[Competencia]PremissaReceita
	// Indicadores, when set, make a VARIAVEL revenue run on productive PA.
	// Left empty the plain PA formula applies.
	Indicadores   map[Competencia]Indicadores
}

// MemoriaCalculo is the indicator snapshot kept with every computed month.
type MemoriaCalculo struct {
	HC              decimal.Decimal  `json:"hc"`
	PA              decimal.Decimal  `json:"pa"`
	FatorPA         decimal.Decimal  `json:"fator_pa"`
	PAProdutivo     *decimal.Decimal `json:"pa_produtivo,omitempty"`
	ValorFixo       decimal.Decimal  `json:"valor_fixo"`
	DiasUteis       *int             `json:"dias_uteis,omitempty"`
	VOPDU           *decimal.Decimal `json:"vopdu,omitempty"`
	IndiceConversao *decimal.Decimal `json:"indice_conversao,omitempty"`
	TicketMedio     *decimal.Decimal `json:"ticket_medio,omitempty"`
	Fator           *decimal.Decimal `json:"fator,omitempty"`
	IndiceEstorno   *decimal.Decimal `json:"indice_estorno,omitempty"`
	Absenteismo     *decimal.Decimal `json:"absenteismo,omitempty"`
	IndiceFerias    *decimal.Decimal `json:"indice_ferias,omitempty"`
	Turnover        *decimal.Decimal `json:"turnover,omitempty"`
	DiasTreinamento *decimal.Decimal `json:"dias_treinamento,omitempty"`
	ValorMinimoPA   *decimal.Decimal `json:"valor_minimo_pa,omitempty"`
	ValorMaximoPA   *decimal.Decimal `json:"valor_maximo_pa,omitempty"`
	ValorPorPA      *decimal.Decimal `json:"valor_por_pa,omitempty"`
}

// ResultadoReceita is the computed revenue of one item and month. ValorBruto
// is the value before the per-PA clamp, ValorCalculado after it.
type ResultadoReceita struct {
	ReceitaID      uuid.UUID
	Local          Local
	FuncaoID       *uuid.UUID
	Competencia    Competencia
	Conta          Conta
	Rubrica        Rubrica
	ValorBruto     decimal.Decimal
	ValorCalculado decimal.Decimal
	Limite         Limite
	Memoria        MemoriaCalculo
}

// ValidarItemReceita rejects revenue lines missing required settings.
func ValidarItemReceita(it ItemReceita) error {
	switch it.Tipo {
	case ReceitaFixaCC:
	case ReceitaFixaHC, ReceitaFixaPA, ReceitaVariavel:
		if it.FuncaoID == nil {
			return novoErroValidacao("funcao_id", "receita do tipo %s exige uma função", it.Tipo)
		}
	default:
		return novoErroValidacao("tipo_calculo", "tipo de cálculo inválido %q", it.Tipo)
	}
	if it.ValorMinimoPA != nil && it.ValorMaximoPA != nil && it.ValorMinimoPA.GreaterThan(*it.ValorMaximoPA) {
		return novoErroValidacao("valor_minimo_pa", "valor mínimo por PA maior que o máximo")
	}
	return nil
}

// Limitar clamps bruto to [minimo×PA, maximo×PA]. Without positive PA there
// is no per-PA value and nothing is clamped.
func Limitar(bruto, pa decimal.Decimal, minimo, maximo *decimal.Decimal) (decimal.Decimal, Limite) {
	if !pa.IsPositive() {
		return bruto, LimiteNenhum
	}
	porPA := bruto.Div(pa)
	if minimo != nil && porPA.LessThan(*minimo) {
		return minimo.Mul(pa), LimiteMinimo
	}
	if maximo != nil && porPA.GreaterThan(*maximo) {
		return maximo.Mul(pa), LimiteMaximo
	}
	return bruto, LimiteNenhum
}

// ValorBrutoVariavel is PA × vopdu × conversão × ticket × fator × dias úteis ×
// (1 − estorno).
func ValorBrutoVariavel(pa decimal.Decimal, p PremissaReceita, diasUteis int) decimal.Decimal {
	return pa.
		Mul(p.VOPDU).
		Mul(p.IndiceConversao).
		Mul(p.TicketMedio).
		Mul(p.Fator).
		Mul(decimal.NewFromInt(int64(diasUteis))).
		Mul(decimal.NewFromInt(1).Sub(p.IndiceEstorno))
}

// PAProdutivo discounts absenteeism, vacations and training days from PA.
func PAProdutivo(pa decimal.Decimal, ind Indicadores, diasUteis int) decimal.Decimal {
	um := decimal.NewFromInt(1)
	prod := pa.Mul(um.Sub(ind.Absenteismo)).Mul(um.Sub(ind.IndiceFerias))
	if diasUteis > 0 && ind.DiasTreinamento.IsPositive() {
		fracao := ind.DiasTreinamento.Div(decimal.NewFromInt(int64(diasUteis)))
		if fracao.GreaterThan(um) {
			fracao = um
		}
		prod = prod.Mul(um.Sub(fracao))
	}
	return prod
}

// CalcularReceitas computes every revenue item for every month.
func CalcularReceitas(periodo []Competencia, itens []ItemReceita, q *Quadro, cal Calendario) ([]ResultadoReceita, []Pendencia) {
	if cal == nil {
		cal = NovoCalendario(nil)
	}
	var (
		out  []ResultadoReceita
		pend []Pendencia
	)
	for _, it := range itens {
		id := it.ID
		if err := ValidarItemReceita(it); err != nil {
			pend = append(pend, novaPendencia("receita", &id, nil, "%s", err.Error()).na(it.Local))
			continue
		}
		for _, c := range periodo {
			r, motivo := calcularMes(it, c, q, cal)
			if motivo != "" {
				comp := c
				pend = append(pend, novaPendencia("receita", &id, &comp, "%s", motivo).na(it.Local))
				continue
			}
			out = append(out, r)
		}
	}
	return out, pend
}

func calcularMes(it ItemReceita, c Competencia, q *Quadro, cal Calendario) (ResultadoReceita, string) {
	res := ResultadoReceita{
		ReceitaID:   it.ID,
		Local:       it.Local,
		FuncaoID:    it.FuncaoID,
		Competencia: c,
		Conta:       it.Conta,
		Rubrica:     it.Rubrica,
	}
	mem := MemoriaCalculo{ValorFixo: it.ValorFixo}

	if it.Tipo != ReceitaFixaCC {
		mem.HC = q.HC(it.Local, it.FuncaoID, c)
	}
	if it.Tipo == ReceitaFixaPA || it.Tipo == ReceitaVariavel {
		fator, ok := q.FatorPA(it.Local.SecaoID)
		if !ok {
			return res, "fator_pa ausente ou zero na seção"
		}
		mem.FatorPA = fator
		mem.PA = mem.HC.Div(fator)
	}

	var bruto decimal.Decimal
	switch it.Tipo {
	case ReceitaFixaCC:
		bruto = it.ValorFixo
	case ReceitaFixaHC:
		bruto = it.ValorFixo.Mul(mem.HC)
	case ReceitaFixaPA:
		bruto = it.ValorFixo.Mul(mem.PA)
	case ReceitaVariavel:
		p, ok := it.Premissas[c]
		if !ok {
			return res, "premissa de receita ausente para " + c.String()
		}
		dias := cal.DiasUteis(c.Ano, c.Mes)
		if p.DiasUteis != nil {
			dias = *p.DiasUteis
		}
		pa := mem.PA
		if ind, ok := it.Indicadores[c]; ok {
			pa = PAProdutivo(mem.PA, ind, dias)
			mem.Absenteismo = ptr(ind.Absenteismo)
			mem.IndiceFerias = ptr(ind.IndiceFerias)
			mem.Turnover = ptr(ind.Turnover)
			mem.DiasTreinamento = ptr(ind.DiasTreinamento)
		}
		mem.PAProdutivo = ptr(pa)
		mem.DiasUteis = &dias
		mem.VOPDU = ptr(p.VOPDU)
		mem.IndiceConversao = ptr(p.IndiceConversao)
		mem.TicketMedio = ptr(p.TicketMedio)
		mem.Fator = ptr(p.Fator)
		mem.IndiceEstorno = ptr(p.IndiceEstorno)
		bruto = ValorBrutoVariavel(pa, p, dias)
	}

	calculado, limite := bruto, LimiteNenhum
	if it.Tipo == ReceitaVariavel {
		mem.ValorMinimoPA = it.ValorMinimoPA
		mem.ValorMaximoPA = it.ValorMaximoPA
		if mem.PA.IsPositive() {
			mem.ValorPorPA = ptr(bruto.Div(mem.PA).Round(4))
		}
		calculado, limite = Limitar(bruto, mem.PA, it.ValorMinimoPA, it.ValorMaximoPA)
	}

	res.ValorBruto = arredondar(bruto)
	res.ValorCalculado = arredondar(calculado)
	res.Limite = limite
	res.Memoria = mem
	return res, ""
}

// Lancamento turns a computed revenue into a DRE line. Revenue is a credit,
// so it is stored negative.
func (r ResultadoReceita) Lancamento() Lancamento {
	return Lancamento{
		Passe:         PasseReceita,
		Categoria:     CategoriaReceita,
		OrigemID:      r.ReceitaID,
		SecaoID:       r.Local.SecaoID,
		CentroCustoID: r.Local.CentroCustoID,
		FuncaoID:      r.FuncaoID,
		Conta:         r.Conta,
		Rubrica:       r.Rubrica,
		Competencia:   r.Competencia,
		Valor:         r.ValorCalculado.Neg(),
	}
}

// Tributo is a company revenue tax (percentage).
type Tributo struct {
	ID       uuid.UUID
	Rubrica  Rubrica
	Conta    Conta
	Aliquota decimal.Decimal
}

// TributosSobreReceita produces one TRIBUTO cost line per tax and computed
// revenue month. tributos is keyed by section, since each section belongs to
// exactly one company.
func TributosSobreReceita(resultados []ResultadoReceita, tributos map[uuid.UUID][]Tributo) []Lancamento {
	var out []Lancamento
	for _, r := range resultados {
		for _, t := range tributos[r.Local.SecaoID] {
			v := arredondar(percentual(r.ValorCalculado, t.Aliquota))
			if v.IsZero() {
				continue
			}
			out = append(out, Lancamento{
				Passe:         PasseReceita,
				Categoria:     CategoriaTributo,
				OrigemID:      r.ReceitaID,
				SecaoID:       r.Local.SecaoID,
				CentroCustoID: r.Local.CentroCustoID,
				FuncaoID:      r.FuncaoID,
				Conta:         t.Conta,
				Rubrica:       t.Rubrica,
				Competencia:   r.Competencia,
				Valor:         v,
			})
		}
	}
	return out
}

func ptr(d decimal.Decimal) *decimal.Decimal { return &d }
