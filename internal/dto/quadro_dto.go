package dto

import (
	"sort"

	"orcamento/internal/calculo"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ─── Quadro de pessoal ───────────────────────────────────────────────────────

type QuantidadeMes struct {
	Ano        int             `json:"ano"        validate:"required,min=2000,max=2100"`
	Mes        int             `json:"mes"        validate:"required,min=1,max=12"`
	Quantidade decimal.Decimal `json:"quantidade" validate:"min=0"`
}

// QuantidadesLegado is the flat twelve-column shape older clients send and
// read. It always refers to the scenario's first year.
type QuantidadesLegado struct {
	QtdJan *decimal.Decimal `json:"qtd_jan,omitempty"`
	QtdFev *decimal.Decimal `json:"qtd_fev,omitempty"`
	QtdMar *decimal.Decimal `json:"qtd_mar,omitempty"`
	QtdAbr *decimal.Decimal `json:"qtd_abr,omitempty"`
	QtdMai *decimal.Decimal `json:"qtd_mai,omitempty"`
	QtdJun *decimal.Decimal `json:"qtd_jun,omitempty"`
	QtdJul *decimal.Decimal `json:"qtd_jul,omitempty"`
	QtdAgo *decimal.Decimal `json:"qtd_ago,omitempty"`
	QtdSet *decimal.Decimal `json:"qtd_set,omitempty"`
	QtdOut *decimal.Decimal `json:"qtd_out,omitempty"`
	QtdNov *decimal.Decimal `json:"qtd_nov,omitempty"`
	QtdDez *decimal.Decimal `json:"qtd_dez,omitempty"`
}

func (l QuantidadesLegado) Meses() [12]*decimal.Decimal {
	return [12]*decimal.Decimal{
		l.QtdJan, l.QtdFev, l.QtdMar, l.QtdAbr, l.QtdMai, l.QtdJun,
		l.QtdJul, l.QtdAgo, l.QtdSet, l.QtdOut, l.QtdNov, l.QtdDez,
	}
}

// NovoLegado fills the flat columns from the first-year months of qtds.
func NovoLegado(qtds []QuantidadeMes, anoInicial int) QuantidadesLegado {
	var m [12]*decimal.Decimal
	for _, q := range qtds {
		if q.Ano == anoInicial && q.Mes >= 1 && q.Mes <= 12 {
			v := q.Quantidade
			m[q.Mes-1] = &v
		}
	}
	return QuantidadesLegado{
		QtdJan: m[0], QtdFev: m[1], QtdMar: m[2], QtdAbr: m[3], QtdMai: m[4], QtdJun: m[5],
		QtdJul: m[6], QtdAgo: m[7], QtdSet: m[8], QtdOut: m[9], QtdNov: m[10], QtdDez: m[11],
	}
}

type QuadroRequest struct {
	CenarioSecaoID   uuid.UUID        `json:"cenario_secao_id"  validate:"required"`
	CentroCustoID    uuid.UUID        `json:"centro_custo_id"   validate:"required"`
	FuncaoID         uuid.UUID        `json:"funcao_id"         validate:"required"`
	Regime           string           `json:"regime"            validate:"required,oneof=CLT PJ"`
	TipoCalculo      string           `json:"tipo_calculo"      validate:"required,oneof=manual span rateio"`
	Salario          *decimal.Decimal `json:"salario"`
	QuantidadesMes   []QuantidadeMes  `json:"quantidades_mes"   validate:"omitempty,dive"`
	RateioGrupoID    *uuid.UUID       `json:"rateio_grupo_id"`
	RateioPercentual *decimal.Decimal `json:"rateio_percentual"`
	QuantidadesLegado
}

// Quantidades normalizes the request to the list shape: the list wins, the
// legacy columns are read only when it is empty.
func (r QuadroRequest) Quantidades(anoInicial int) []QuantidadeMes {
	lista := make([]calculo.QuantidadeMes, 0, len(r.QuantidadesMes))
	for _, q := range r.QuantidadesMes {
		lista = append(lista, calculo.QuantidadeMes{Ano: q.Ano, Mes: q.Mes, Quantidade: q.Quantidade})
	}
	norm := calculo.NormalizarQuantidades(lista, r.Meses(), anoInicial)

	out := make([]QuantidadeMes, 0, len(norm))
	for c, q := range norm {
		out = append(out, QuantidadeMes{Ano: c.Ano, Mes: c.Mes, Quantidade: q})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Ano != out[j].Ano {
			return out[i].Ano < out[j].Ano
		}
		return out[i].Mes < out[j].Mes
	})
	return out
}

type QuadroResponse struct {
	ID               uuid.UUID        `json:"id"`
	CenarioID        uuid.UUID        `json:"cenario_id"`
	CenarioSecaoID   uuid.UUID        `json:"cenario_secao_id"`
	CentroCustoID    uuid.UUID        `json:"centro_custo_id"`
	FuncaoID         uuid.UUID        `json:"funcao_id"`
	Regime           string           `json:"regime"`
	TipoCalculo      string           `json:"tipo_calculo"`
	Salario          *decimal.Decimal `json:"salario"`
	QuantidadesMes   []QuantidadeMes  `json:"quantidades_mes"`
	RateioGrupoID    *uuid.UUID       `json:"rateio_grupo_id"`
	RateioPercentual *decimal.Decimal `json:"rateio_percentual"`
	SpanAplicado     bool             `json:"span_aplicado"`
	QuantidadesLegado
}

// ─── Spans ───────────────────────────────────────────────────────────────────

type SpanRequest struct {
	CenarioSecaoID *uuid.UUID      `json:"cenario_secao_id"`
	FuncaoID       uuid.UUID       `json:"funcao_id"       validate:"required"`
	FuncoesBase    []uuid.UUID     `json:"funcoes_base"    validate:"required,min=1"`
	Ratio          decimal.Decimal `json:"ratio"           validate:"required,gt=0"`
}

type SpanResponse struct {
	ID             uuid.UUID       `json:"id"`
	CenarioSecaoID *uuid.UUID      `json:"cenario_secao_id"`
	FuncaoID       uuid.UUID       `json:"funcao_id"`
	FuncoesBase    []uuid.UUID     `json:"funcoes_base"`
	Ratio          decimal.Decimal `json:"ratio"`
}

type SpanCalculado struct {
	QuadroPessoalID uuid.UUID       `json:"quadro_pessoal_id"`
	FuncaoID        uuid.UUID       `json:"funcao_id"`
	CenarioSecaoID  uuid.UUID       `json:"cenario_secao_id"`
	CentroCustoID   uuid.UUID       `json:"centro_custo_id"`
	Ano             int             `json:"ano"`
	Mes             int             `json:"mes"`
	SomaBase        decimal.Decimal `json:"soma_base"`
	Ratio           decimal.Decimal `json:"ratio"`
	Quantidade      decimal.Decimal `json:"quantidade"`
}

// CalcularSpansResponse answers both modes: the dry run fills TotalFuncoes,
// TotalMeses and Resultados; "aplicar" fills Criados and Atualizados.
type CalcularSpansResponse struct {
	Aplicado     bool                `json:"aplicado"`
	TotalFuncoes int                 `json:"total_funcoes"`
	TotalMeses   int                 `json:"total_meses"`
	Resultados   []SpanCalculado     `json:"resultados,omitempty"`
	Criados      int                 `json:"criados"`
	Atualizados  int                 `json:"atualizados"`
	Pendencias   []calculo.Pendencia `json:"pendencias"`
}

// ─── Grupos de rateio ────────────────────────────────────────────────────────

type RateioGrupoRequest struct {
	Nome           string           `json:"nome"             validate:"required,max=120"`
	QuantidadeFixa *decimal.Decimal `json:"quantidade_fixa"`
	FuncaoOrigemID *uuid.UUID       `json:"funcao_origem_id"`
}

type RateioGrupoResponse struct {
	ID             uuid.UUID        `json:"id"`
	Nome           string           `json:"nome"`
	QuantidadeFixa *decimal.Decimal `json:"quantidade_fixa"`
	FuncaoOrigemID *uuid.UUID       `json:"funcao_origem_id"`
}
