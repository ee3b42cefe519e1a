package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CenarioRequest struct {
	Codigo    string  `json:"codigo"     validate:"required,max=30"`
	Nome      string  `json:"nome"       validate:"required,min=2,max=120"`
	Descricao *string `json:"descricao"  validate:"omitempty,max=500"`
	AnoInicio int     `json:"ano_inicio" validate:"required,min=2000,max=2100"`
	MesInicio int     `json:"mes_inicio" validate:"required,min=1,max=12"`
	AnoFim    int     `json:"ano_fim"    validate:"required,min=2000,max=2100"`
	MesFim    int     `json:"mes_fim"    validate:"required,min=1,max=12"`
}

type AlterarStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=RASCUNHO APROVADO BLOQUEADO"`
}

type DuplicarCenarioRequest struct {
	Codigo string `json:"codigo" validate:"required,max=30"`
	Nome   string `json:"nome"   validate:"required,min=2,max=120"`
}

type CenarioFilter struct {
	Status string `form:"status" validate:"omitempty,oneof=RASCUNHO APROVADO BLOQUEADO"`
}

type AdicionarEmpresaRequest struct {
	EmpresaID uuid.UUID `json:"empresa_id" validate:"required"`
}

type AdicionarClienteRequest struct {
	CenarioEmpresaID uuid.UUID `json:"cenario_empresa_id" validate:"required"`
	Nome             string    `json:"nome"               validate:"required,max=120"`
}

type SecaoRequest struct {
	CenarioClienteID uuid.UUID        `json:"cenario_cliente_id" validate:"required"`
	Nome             string           `json:"nome"               validate:"required,max=120"`
	FatorPA          *decimal.Decimal `json:"fator_pa"`
}

type AtualizarSecaoRequest struct {
	Nome    *string          `json:"nome"     validate:"omitempty,max=120"`
	FatorPA *decimal.Decimal `json:"fator_pa"`
}

type AdicionarCentroCustoRequest struct {
	CenarioSecaoID uuid.UUID `json:"cenario_secao_id" validate:"required"`
	CentroCustoID  uuid.UUID `json:"centro_custo_id"  validate:"required"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CenarioResponse struct {
	ID        uuid.UUID  `json:"id"`
	Codigo    string     `json:"codigo"`
	Nome      string     `json:"nome"`
	Descricao *string    `json:"descricao"`
	AnoInicio int        `json:"ano_inicio"`
	MesInicio int        `json:"mes_inicio"`
	AnoFim    int        `json:"ano_fim"`
	MesFim    int        `json:"mes_fim"`
	Status    string     `json:"status"`
	OrigemID  *uuid.UUID `json:"origem_id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type IDResponse struct {
	ID uuid.UUID `json:"id"`
}

type EstruturaResponse struct {
	Cenario  CenarioResponse            `json:"cenario"`
	Empresas []EstruturaEmpresaResponse `json:"empresas"`
}

type EstruturaEmpresaResponse struct {
	ID        uuid.UUID                  `json:"id"`
	EmpresaID uuid.UUID                  `json:"empresa_id"`
	Nome      string                     `json:"nome"`
	Clientes  []EstruturaClienteResponse `json:"clientes"`
}

type EstruturaClienteResponse struct {
	ID     uuid.UUID                `json:"id"`
	Nome   string                   `json:"nome"`
	Secoes []EstruturaSecaoResponse `json:"secoes"`
}

type EstruturaSecaoResponse struct {
	ID           uuid.UUID                 `json:"id"`
	Nome         string                    `json:"nome"`
	FatorPA      *decimal.Decimal          `json:"fator_pa"`
	CentrosCusto []EstruturaCentroResponse `json:"centros_custo"`
}

type EstruturaCentroResponse struct {
	ID            uuid.UUID `json:"id"`
	CentroCustoID uuid.UUID `json:"centro_custo_id"`
	Codigo        string    `json:"codigo"`
	Nome          string    `json:"nome"`
}
