package dto

import (
	"orcamento/internal/calculo"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DREQuery struct {
	Ano            int        `form:"ano" validate:"required,min=2000,max=2100"`
	CenarioSecaoID *uuid.UUID `form:"-"`
}

type CalculoFolhaResponse struct {
	Quantidade int                 `json:"quantidade"`
	Pendencias []calculo.Pendencia `json:"pendencias"`
}

type CalculoTecnologiaResponse struct {
	CustosCriados int                 `json:"custos_criados"`
	Pendencias    []calculo.Pendencia `json:"pendencias"`
}

type CalculoReceitaResponse struct {
	ReceitasCalculadas int                 `json:"receitas_calculadas"`
	TributosCriados    int                 `json:"tributos_criados"`
	Pendencias         []calculo.Pendencia `json:"pendencias"`
}

type CalcularTudoResponse struct {
	Folha      CalculoFolhaResponse      `json:"folha"`
	Tecnologia CalculoTecnologiaResponse `json:"tecnologia"`
	Receita    CalculoReceitaResponse    `json:"receita"`
}

type RecalculoResponse struct {
	JobID  uuid.UUID `json:"job_id"`
	Status string    `json:"status"`
}

// DREResponse keeps the stored sign: costs positive, credits negative.
// Completo is false when the last runs left pendências.
type DREResponse struct {
	CenarioID      uuid.UUID           `json:"cenario_id"`
	CenarioSecaoID *uuid.UUID          `json:"cenario_secao_id"`
	Ano            int                 `json:"ano"`
	Linhas         []calculo.LinhaDRE  `json:"linhas"`
	TotalGeral     decimal.Decimal     `json:"total_geral"`
	Completo       bool                `json:"completo"`
	Pendencias     []calculo.Pendencia `json:"pendencias"`
}
