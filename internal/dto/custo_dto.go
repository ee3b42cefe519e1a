package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RateioDestinoRequest struct {
	CenarioSecaoID uuid.UUID       `json:"cenario_secao_id" validate:"required"`
	CentroCustoID  uuid.UUID       `json:"centro_custo_id"  validate:"required"`
	Percentual     decimal.Decimal `json:"percentual"       validate:"min=0,max=100"`
}

// CustoRequest serves both direct costs (tipo_valor) and technology
// allocations (tipo_alocacao, no FIXO_VARIAVEL).
type CustoRequest struct {
	CenarioSecaoID uuid.UUID              `json:"cenario_secao_id" validate:"required"`
	CentroCustoID  uuid.UUID              `json:"centro_custo_id"  validate:"required"`
	TipoCustoID    uuid.UUID              `json:"tipo_custo_id"    validate:"required"`
	FornecedorID   *uuid.UUID             `json:"fornecedor_id"`
	Descricao      string                 `json:"descricao"        validate:"required,max=200"`
	TipoValor      string                 `json:"tipo_valor"       validate:"omitempty,oneof=FIXO VARIAVEL FIXO_VARIAVEL"`
	TipoAlocacao   string                 `json:"tipo_alocacao"    validate:"omitempty,oneof=FIXO VARIAVEL"`
	ValorFixo      decimal.Decimal        `json:"valor_fixo"`
	ValorUnitario  decimal.Decimal        `json:"valor_unitario_variavel"`
	UnidadeMedida  *string                `json:"unidade_medida"   validate:"omitempty,oneof=HC_TOTAL HC_FUNCAO PA_TOTAL PA_FUNCAO"`
	FuncaoBaseID   *uuid.UUID             `json:"funcao_base_id"`
	InicioAno      *int                   `json:"inicio_ano"       validate:"omitempty,min=2000,max=2100"`
	InicioMes      *int                   `json:"inicio_mes"       validate:"omitempty,min=1,max=12"`
	FimAno         *int                   `json:"fim_ano"          validate:"omitempty,min=2000,max=2100"`
	FimMes         *int                   `json:"fim_mes"          validate:"omitempty,min=1,max=12"`
	Rateio         []RateioDestinoRequest `json:"rateio"           validate:"omitempty,dive"`
}

type RateioDestinoResponse struct {
	CenarioSecaoID uuid.UUID       `json:"cenario_secao_id"`
	CentroCustoID  uuid.UUID       `json:"centro_custo_id"`
	Percentual     decimal.Decimal `json:"percentual"`
}

type CustoResponse struct {
	ID             uuid.UUID               `json:"id"`
	CenarioSecaoID uuid.UUID               `json:"cenario_secao_id"`
	CentroCustoID  uuid.UUID               `json:"centro_custo_id"`
	TipoCustoID    uuid.UUID               `json:"tipo_custo_id"`
	FornecedorID   *uuid.UUID              `json:"fornecedor_id"`
	Descricao      string                  `json:"descricao"`
	TipoValor      string                  `json:"tipo_valor"`
	ValorFixo      decimal.Decimal         `json:"valor_fixo"`
	ValorUnitario  decimal.Decimal         `json:"valor_unitario_variavel"`
	UnidadeMedida  *string                 `json:"unidade_medida"`
	FuncaoBaseID   *uuid.UUID              `json:"funcao_base_id"`
	InicioAno      *int                    `json:"inicio_ano"`
	InicioMes      *int                    `json:"inicio_mes"`
	FimAno         *int                    `json:"fim_ano"`
	FimMes         *int                    `json:"fim_mes"`
	Rateio         []RateioDestinoResponse `json:"rateio"`
}
