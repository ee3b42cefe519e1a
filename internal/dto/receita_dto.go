package dto

import (
	"orcamento/internal/calculo"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ReceitaRequest struct {
	CenarioSecaoID  uuid.UUID        `json:"cenario_secao_id" validate:"required"`
	CentroCustoID   uuid.UUID        `json:"centro_custo_id"  validate:"required"`
	TipoReceitaID   uuid.UUID        `json:"tipo_receita_id"  validate:"required"`
	FuncaoID        *uuid.UUID       `json:"funcao_id"`
	TipoCalculo     string           `json:"tipo_calculo"     validate:"required,oneof=FIXA_CC FIXA_HC FIXA_PA VARIAVEL"`
	ValorFixo       decimal.Decimal  `json:"valor_fixo"       validate:"min=0"`
	ValorMinimoPA   *decimal.Decimal `json:"valor_minimo_pa"`
	ValorMaximoPA   *decimal.Decimal `json:"valor_maximo_pa"`
	// UsarPAProdutivo makes a VARIAVEL revenue use productive PA (PA minus
	// absenteeism, vacations and training days from the function premises)
	// instead of plain PA. The min/max clamp always uses plain PA.
	UsarPAProdutivo bool             `json:"usar_pa_produtivo"`
}

type ReceitaResponse struct {
	ID              uuid.UUID                 `json:"id"`
	CenarioSecaoID  uuid.UUID                 `json:"cenario_secao_id"`
	CentroCustoID   uuid.UUID                 `json:"centro_custo_id"`
	TipoReceitaID   uuid.UUID                 `json:"tipo_receita_id"`
	FuncaoID        *uuid.UUID                `json:"funcao_id"`
	TipoCalculo     string                    `json:"tipo_calculo"`
	ValorFixo       decimal.Decimal           `json:"valor_fixo"`
	ValorMinimoPA   *decimal.Decimal          `json:"valor_minimo_pa"`
	ValorMaximoPA   *decimal.Decimal          `json:"valor_maximo_pa"`
	UsarPAProdutivo bool                      `json:"usar_pa_produtivo"`
	Premissas       []PremissaReceitaResponse `json:"premissas"`
}

// PremissaReceitaItem is one row of the bulk premise endpoint. IndiceEstorno
// is a 0–1 fraction; IndiceEstornoPct (0–100) is accepted instead for
// clients that send the UI percentage.
type PremissaReceitaItem struct {
	ReceitaCenarioID *uuid.UUID       `json:"receita_cenario_id"`
	Ano              int              `json:"ano"                validate:"required,min=2000,max=2100"`
	Mes              int              `json:"mes"                validate:"required,min=1,max=12"`
	VOPDU            decimal.Decimal  `json:"vopdu"              validate:"min=0"`
	IndiceConversao  decimal.Decimal  `json:"indice_conversao"   validate:"min=0"`
	TicketMedio      decimal.Decimal  `json:"ticket_medio"       validate:"min=0"`
	Fator            decimal.Decimal  `json:"fator"              validate:"min=0"`
	IndiceEstorno    *decimal.Decimal `json:"indice_estorno"`
	IndiceEstornoPct *decimal.Decimal `json:"indice_estorno_pct"`
	DiasUteis        *int             `json:"dias_uteis"         validate:"omitempty,min=0,max=31"`
}

// Estorno returns the chargeback index as a fraction, whichever shape the
// client sent.
func (p PremissaReceitaItem) Estorno() decimal.Decimal {
	switch {
	case p.IndiceEstorno != nil:
		return *p.IndiceEstorno
	case p.IndiceEstornoPct != nil:
		return PercentualParaFracao(*p.IndiceEstornoPct)
	}
	return decimal.Zero
}

type PremissaReceitaResponse struct {
	Ano              int             `json:"ano"`
	Mes              int             `json:"mes"`
	VOPDU            decimal.Decimal `json:"vopdu"`
	IndiceConversao  decimal.Decimal `json:"indice_conversao"`
	TicketMedio      decimal.Decimal `json:"ticket_medio"`
	Fator            decimal.Decimal `json:"fator"`
	IndiceEstorno    decimal.Decimal `json:"indice_estorno"`
	IndiceEstornoPct decimal.Decimal `json:"indice_estorno_pct"`
	DiasUteis        *int            `json:"dias_uteis"`
}

type PremissasBulkResponse struct {
	Salvas int `json:"salvas"`
}

type ReceitaCalculadaResponse struct {
	ReceitaCenarioID uuid.UUID              `json:"receita_cenario_id"`
	CenarioSecaoID   uuid.UUID              `json:"cenario_secao_id"`
	CentroCustoID    uuid.UUID              `json:"centro_custo_id"`
	FuncaoID         *uuid.UUID             `json:"funcao_id"`
	ContaCodigo      string                 `json:"conta_codigo"`
	Ano              int                    `json:"ano"`
	Mes              int                    `json:"mes"`
	ValorBruto       decimal.Decimal        `json:"valor_bruto"`
	ValorCalculado   decimal.Decimal        `json:"valor_calculado"`
	Limite           string                 `json:"limite_aplicado,omitempty"`
	Memoria          calculo.MemoriaCalculo `json:"memoria_calculo"`
}
