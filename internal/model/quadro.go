package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuadroPessoal is a headcount position: one function at one cost center of
// a section, under one regime.
// TipoCalculo: "manual" | "span" | "rateio"
// Regime: "CLT" | "PJ"
type QuadroPessoal struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CenarioID      uuid.UUID `gorm:"type:uuid;index;not null"`
	CenarioSecaoID uuid.UUID `gorm:"type:uuid;index;not null"`
	CentroCustoID  uuid.UUID `gorm:"type:uuid;index;not null"`
	FuncaoID       uuid.UUID `gorm:"type:uuid;index;not null"`
	Regime         string    `gorm:"type:varchar(5);not null;default:'CLT'"`
	TipoCalculo    string    `gorm:"type:varchar(10);not null;default:'manual'"`
	// Salario overrides the function's base salary for this position.
	Salario *decimal.Decimal `gorm:"type:decimal(12,2)"`

	// Legacy monthly columns, read only when Quantidades is empty and only
	// for the scenario's first year.
	QtdJan *decimal.Decimal `gorm:"type:decimal(10,2)"`
	QtdFev *decimal.Decimal `gorm:"type:decimal(10,2)"`
	QtdMar *decimal.Decimal `gorm:"type:decimal(10,2)"`
	QtdAbr *decimal.Decimal `gorm:"type:decimal(10,2)"`
	QtdMai *decimal.Decimal `gorm:"type:decimal(10,2)"`
	QtdJun *decimal.Decimal `gorm:"type:decimal(10,2)"`
	QtdJul *decimal.Decimal `gorm:"type:decimal(10,2)"`
	QtdAgo *decimal.Decimal `gorm:"type:decimal(10,2)"`
	QtdSet *decimal.Decimal `gorm:"type:decimal(10,2)"`
	QtdOut *decimal.Decimal `gorm:"type:decimal(10,2)"`
	QtdNov *decimal.Decimal `gorm:"type:decimal(10,2)"`
	QtdDez *decimal.Decimal `gorm:"type:decimal(10,2)"`

	RateioGrupoID    *uuid.UUID       `gorm:"type:uuid;index"`
	RateioPercentual *decimal.Decimal `gorm:"type:decimal(7,4)"`
	// SpanAplicadoEm is set by "aplicar": from then on Quantidades holds the
	// committed span values.
	SpanAplicadoEm *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Quantidades []QuadroQuantidade `gorm:"foreignKey:QuadroPessoalID"`
}

func (QuadroPessoal) TableName() string { return "quadro_pessoal" }

// Legado returns the twelve legacy columns in month order.
func (q *QuadroPessoal) Legado() [12]*decimal.Decimal {
	return [12]*decimal.Decimal{
		q.QtdJan, q.QtdFev, q.QtdMar, q.QtdAbr, q.QtdMai, q.QtdJun,
		q.QtdJul, q.QtdAgo, q.QtdSet, q.QtdOut, q.QtdNov, q.QtdDez,
	}
}

// QuadroQuantidade is the normalized monthly quantity of a position.
type QuadroQuantidade struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	QuadroPessoalID uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_quadro_qtd_mes;not null"`
	Ano             int             `gorm:"uniqueIndex:idx_quadro_qtd_mes;not null"`
	Mes             int             `gorm:"uniqueIndex:idx_quadro_qtd_mes;not null"`
	Quantidade      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
}

func (QuadroQuantidade) TableName() string { return "quadro_quantidades" }

// FuncaoSpan derives FuncaoID's quantity from the base functions:
// ceil(Σ base / Ratio). CenarioSecaoID nil applies it to every section.
type FuncaoSpan struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CenarioID      uuid.UUID       `gorm:"type:uuid;index;not null"`
	CenarioSecaoID *uuid.UUID      `gorm:"type:uuid;index"`
	FuncaoID       uuid.UUID       `gorm:"type:uuid;not null"`
	Ratio          decimal.Decimal `gorm:"type:decimal(10,4);not null"`
	CreatedAt      time.Time

	Bases []FuncaoSpanBase `gorm:"foreignKey:FuncaoSpanID"`
}

func (FuncaoSpan) TableName() string { return "funcao_spans" }

type FuncaoSpanBase struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FuncaoSpanID uuid.UUID `gorm:"type:uuid;index;not null"`
	FuncaoID     uuid.UUID `gorm:"type:uuid;not null"`
}

func (FuncaoSpanBase) TableName() string { return "funcao_span_bases" }

// RateioGrupo supplies the total split among rateio positions: a fixed
// quantity or the computed headcount of an origin function.
type RateioGrupo struct {
	ID             uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CenarioID      uuid.UUID        `gorm:"type:uuid;index;not null"`
	Nome           string           `gorm:"not null"`
	QuantidadeFixa *decimal.Decimal `gorm:"type:decimal(10,2)"`
	FuncaoOrigemID *uuid.UUID       `gorm:"type:uuid"`
	CreatedAt      time.Time
}

func (RateioGrupo) TableName() string { return "rateio_grupos" }

// PremissaFuncao holds the monthly indicators of a function in a section.
// Absenteismo, Turnover and IndiceFerias are fractions (0–1).
type PremissaFuncao struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CenarioID       uuid.UUID       `gorm:"type:uuid;index;not null"`
	CenarioSecaoID  uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_premissa_funcao_mes;not null"`
	FuncaoID        uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_premissa_funcao_mes;not null"`
	Ano             int             `gorm:"uniqueIndex:idx_premissa_funcao_mes;not null"`
	Mes             int             `gorm:"uniqueIndex:idx_premissa_funcao_mes;not null"`
	Absenteismo     decimal.Decimal `gorm:"type:decimal(7,6);not null;default:0"`
	Turnover        decimal.Decimal `gorm:"type:decimal(7,6);not null;default:0"`
	IndiceFerias    decimal.Decimal `gorm:"type:decimal(7,6);not null;default:0"`
	DiasTreinamento decimal.Decimal `gorm:"type:decimal(6,2);not null;default:0"`
}

func (PremissaFuncao) TableName() string { return "premissas_funcao" }

// CenarioRubrica applies a payroll rubrica (TipoCusto) to the scenario's
// positions, optionally restricted to one function or regime.
// TipoValor: "SALARIO" | "PERCENTUAL_SALARIO" | "VALOR_POR_HC"
type CenarioRubrica struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CenarioID   uuid.UUID       `gorm:"type:uuid;index;not null"`
	TipoCustoID uuid.UUID       `gorm:"type:uuid;index;not null"`
	FuncaoID    *uuid.UUID      `gorm:"type:uuid"`
	Regime      *string         `gorm:"type:varchar(5)"`
	TipoValor   string          `gorm:"type:varchar(20);not null"`
	Valor       decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0"`
	CreatedAt   time.Time
}

func (CenarioRubrica) TableName() string { return "cenario_rubricas" }
