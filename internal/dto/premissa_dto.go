package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var cem = decimal.NewFromInt(100)

// PercentualParaFracao converts a 0–100 UI percentage into the 0–1 fraction
// the engine and the database use.
func PercentualParaFracao(pct decimal.Decimal) decimal.Decimal { return pct.Div(cem) }

// FracaoParaPercentual is the inverse of PercentualParaFracao.
func FracaoParaPercentual(f decimal.Decimal) decimal.Decimal { return f.Mul(cem) }

// ─── Premissas de função ─────────────────────────────────────────────────────

// PremissaFuncaoRequest carries percentages (0–100) as edited in the UI.
type PremissaFuncaoRequest struct {
	CenarioSecaoID  uuid.UUID       `json:"cenario_secao_id" validate:"required"`
	FuncaoID        uuid.UUID       `json:"funcao_id"        validate:"required"`
	Ano             int             `json:"ano"              validate:"required,min=2000,max=2100"`
	Mes             int             `json:"mes"              validate:"required,min=1,max=12"`
	Absenteismo     decimal.Decimal `json:"absenteismo"      validate:"min=0,max=100"`
	Turnover        decimal.Decimal `json:"turnover"         validate:"min=0,max=100"`
	IndiceFerias    decimal.Decimal `json:"indice_ferias"    validate:"min=0,max=100"`
	DiasTreinamento decimal.Decimal `json:"dias_treinamento" validate:"min=0,max=31"`
}

type PremissasFuncaoBulkRequest struct {
	Premissas []PremissaFuncaoRequest `json:"premissas" validate:"required,min=1,dive"`
}

type PremissaFuncaoResponse struct {
	ID              uuid.UUID       `json:"id"`
	CenarioSecaoID  uuid.UUID       `json:"cenario_secao_id"`
	FuncaoID        uuid.UUID       `json:"funcao_id"`
	Ano             int             `json:"ano"`
	Mes             int             `json:"mes"`
	Absenteismo     decimal.Decimal `json:"absenteismo"`
	Turnover        decimal.Decimal `json:"turnover"`
	IndiceFerias    decimal.Decimal `json:"indice_ferias"`
	DiasTreinamento decimal.Decimal `json:"dias_treinamento"`
}

// ─── Rubricas do cenário ─────────────────────────────────────────────────────

type RubricaRequest struct {
	TipoCustoID uuid.UUID       `json:"tipo_custo_id" validate:"required"`
	FuncaoID    *uuid.UUID      `json:"funcao_id"`
	Regime      *string         `json:"regime"        validate:"omitempty,oneof=CLT PJ"`
	TipoValor   string          `json:"tipo_valor"    validate:"required,oneof=SALARIO PERCENTUAL_SALARIO VALOR_POR_HC"`
	Valor       decimal.Decimal `json:"valor"         validate:"min=0"`
}

type RubricaResponse struct {
	ID          uuid.UUID       `json:"id"`
	TipoCustoID uuid.UUID       `json:"tipo_custo_id"`
	FuncaoID    *uuid.UUID      `json:"funcao_id"`
	Regime      *string         `json:"regime"`
	TipoValor   string          `json:"tipo_valor"`
	Valor       decimal.Decimal `json:"valor"`
}
