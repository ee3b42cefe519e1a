package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ─── Funções ─────────────────────────────────────────────────────────────────

type FuncaoRequest struct {
	Codigo      string          `json:"codigo"       validate:"required,max=30"`
	Nome        string          `json:"nome"         validate:"required,min=2,max=120"`
	SalarioBase decimal.Decimal `json:"salario_base" validate:"min=0"`
	Ativo       *bool           `json:"ativo"`
}

type FuncaoResponse struct {
	ID          uuid.UUID       `json:"id"`
	Codigo      string          `json:"codigo"`
	Nome        string          `json:"nome"`
	SalarioBase decimal.Decimal `json:"salario_base"`
	Ativo       bool            `json:"ativo"`
}

// ─── Centros de custo / Fornecedores ─────────────────────────────────────────

type CentroCustoRequest struct {
	Codigo string `json:"codigo" validate:"required,max=30"`
	Nome   string `json:"nome"   validate:"required,min=2,max=120"`
	Ativo  *bool  `json:"ativo"`
}

type CentroCustoResponse struct {
	ID     uuid.UUID `json:"id"`
	Codigo string    `json:"codigo"`
	Nome   string    `json:"nome"`
	Ativo  bool      `json:"ativo"`
}

type FornecedorRequest struct {
	Codigo string  `json:"codigo" validate:"required,max=30"`
	Nome   string  `json:"nome"   validate:"required,min=2,max=120"`
	CNPJ   *string `json:"cnpj"   validate:"omitempty,len=14,numeric"`
	Ativo  *bool   `json:"ativo"`
}

type FornecedorResponse struct {
	ID     uuid.UUID `json:"id"`
	Codigo string    `json:"codigo"`
	Nome   string    `json:"nome"`
	CNPJ   *string   `json:"cnpj"`
	Ativo  bool      `json:"ativo"`
}

// ─── Tipos de custo (rubricas) / Tipos de receita ────────────────────────────

type TipoCustoRequest struct {
	Codigo         string `json:"codigo"          validate:"required,max=30"`
	Nome           string `json:"nome"            validate:"required,min=2,max=120"`
	ContaCodigo    string `json:"conta_codigo"    validate:"required,max=30"`
	ContaDescricao string `json:"conta_descricao" validate:"max=200"`
	IncideFGTS     bool   `json:"incide_fgts"`
	IncideINSS     bool   `json:"incide_inss"`
	ReflexoFerias  bool   `json:"reflexo_ferias"`
	Reflexo13      bool   `json:"reflexo_13"`
	Ativo          *bool  `json:"ativo"`
}

type TipoCustoResponse struct {
	ID             uuid.UUID `json:"id"`
	Codigo         string    `json:"codigo"`
	Nome           string    `json:"nome"`
	ContaCodigo    string    `json:"conta_codigo"`
	ContaDescricao string    `json:"conta_descricao"`
	IncideFGTS     bool      `json:"incide_fgts"`
	IncideINSS     bool      `json:"incide_inss"`
	ReflexoFerias  bool      `json:"reflexo_ferias"`
	Reflexo13      bool      `json:"reflexo_13"`
	Ativo          bool      `json:"ativo"`
}

type TipoReceitaRequest struct {
	Codigo         string `json:"codigo"          validate:"required,max=30"`
	Nome           string `json:"nome"            validate:"required,min=2,max=120"`
	ContaCodigo    string `json:"conta_codigo"    validate:"required,max=30"`
	ContaDescricao string `json:"conta_descricao" validate:"max=200"`
	Ativo          *bool  `json:"ativo"`
}

type TipoReceitaResponse struct {
	ID             uuid.UUID `json:"id"`
	Codigo         string    `json:"codigo"`
	Nome           string    `json:"nome"`
	ContaCodigo    string    `json:"conta_codigo"`
	ContaDescricao string    `json:"conta_descricao"`
	Ativo          bool      `json:"ativo"`
}

// ─── Empresas ────────────────────────────────────────────────────────────────

type EmpresaRequest struct {
	Codigo string  `json:"codigo" validate:"required,max=30"`
	Nome   string  `json:"nome"   validate:"required,min=2,max=120"`
	CNPJ   *string `json:"cnpj"   validate:"omitempty,len=14,numeric"`
	Ativo  *bool   `json:"ativo"`
}

type EmpresaResponse struct {
	ID     uuid.UUID `json:"id"`
	Codigo string    `json:"codigo"`
	Nome   string    `json:"nome"`
	CNPJ   *string   `json:"cnpj"`
	Ativo  bool      `json:"ativo"`
}

// Aliquota is a percentage (0–100).
type TributoRequest struct {
	Codigo         string          `json:"codigo"          validate:"required,max=30"`
	Nome           string          `json:"nome"            validate:"required,max=120"`
	Aliquota       decimal.Decimal `json:"aliquota"        validate:"min=0,max=100"`
	ContaCodigo    string          `json:"conta_codigo"    validate:"required,max=30"`
	ContaDescricao string          `json:"conta_descricao" validate:"max=200"`
}

type TributoResponse struct {
	ID             uuid.UUID       `json:"id"`
	EmpresaID      uuid.UUID       `json:"empresa_id"`
	Codigo         string          `json:"codigo"`
	Nome           string          `json:"nome"`
	Aliquota       decimal.Decimal `json:"aliquota"`
	ContaCodigo    string          `json:"conta_codigo"`
	ContaDescricao string          `json:"conta_descricao"`
}

type EncargoRequest struct {
	Codigo         string          `json:"codigo"          validate:"required,max=30"`
	Nome           string          `json:"nome"            validate:"required,max=120"`
	Categoria      string          `json:"categoria"       validate:"required,oneof=ENCARGO PROVISAO IMPOSTO"`
	Tipo           string          `json:"tipo"            validate:"omitempty,oneof=INSS FGTS FERIAS DECIMO_TERCEIRO OUTRO"`
	BaseCalculo    string          `json:"base_calculo"    validate:"omitempty,oneof=SALARIO TOTAL PROVISAO"`
	Aliquota       decimal.Decimal `json:"aliquota"        validate:"min=0,max=100"`
	ContaCodigo    string          `json:"conta_codigo"    validate:"required,max=30"`
	ContaDescricao string          `json:"conta_descricao" validate:"max=200"`
}

type EncargoResponse struct {
	ID             uuid.UUID       `json:"id"`
	EmpresaID      uuid.UUID       `json:"empresa_id"`
	Codigo         string          `json:"codigo"`
	Nome           string          `json:"nome"`
	Categoria      string          `json:"categoria"`
	Tipo           string          `json:"tipo"`
	BaseCalculo    string          `json:"base_calculo"`
	Aliquota       decimal.Decimal `json:"aliquota"`
	ContaCodigo    string          `json:"conta_codigo"`
	ContaDescricao string          `json:"conta_descricao"`
}

type GerarPadroesResponse struct {
	TributosCriados int `json:"tributos_criados"`
	EncargosCriados int `json:"encargos_criados"`
}
