package model

import (
	"time"

	"orcamento/internal/calculo"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustoCalculado is one computed monthly cost line. Rows are owned by a
// calculation pass (Passe) and replaced as a whole on every recalculation of
// their scope. Valor keeps the stored sign.
type CustoCalculado struct {
	ID               uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CenarioID        uuid.UUID        `gorm:"type:uuid;index:idx_custo_calc_escopo;not null"`
	CenarioSecaoID   uuid.UUID        `gorm:"type:uuid;index:idx_custo_calc_escopo;not null"`
	Passe            string           `gorm:"type:varchar(20);index:idx_custo_calc_escopo;not null"`
	CentroCustoID    uuid.UUID        `gorm:"type:uuid;not null"`
	Categoria        string           `gorm:"type:varchar(20);not null"`
	OrigemID         uuid.UUID        `gorm:"type:uuid;not null"`
	FuncaoID         *uuid.UUID       `gorm:"type:uuid"`
	QuadroPessoalID  *uuid.UUID       `gorm:"type:uuid"`
	ContaCodigo      string           `gorm:"index;not null"`
	ContaDescricao   string
	RubricaCodigo    string `gorm:"not null"`
	RubricaNome      string
	Ano              int              `gorm:"index;not null"`
	Mes              int              `gorm:"not null"`
	Valor            decimal.Decimal  `gorm:"type:decimal(14,2);not null"`
	RateioGrupoID    *uuid.UUID       `gorm:"type:uuid"`
	RateioPercentual *decimal.Decimal `gorm:"type:decimal(7,4)"`
	CreatedAt        time.Time
}

func (CustoCalculado) TableName() string { return "custos_calculados" }

// ReceitaCalculada is the computed revenue of one line and month, stored
// positive; the DRE reads it as a credit.
// Limite: "" | "MINIMO" | "MAXIMO"
type ReceitaCalculada struct {
	ID               uuid.UUID              `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CenarioID        uuid.UUID              `gorm:"type:uuid;index:idx_receita_calc_escopo;not null"`
	CenarioSecaoID   uuid.UUID              `gorm:"type:uuid;index:idx_receita_calc_escopo;not null"`
	CentroCustoID    uuid.UUID              `gorm:"type:uuid;not null"`
	ReceitaCenarioID uuid.UUID              `gorm:"type:uuid;index;not null"`
	FuncaoID         *uuid.UUID             `gorm:"type:uuid"`
	ContaCodigo      string                 `gorm:"not null"`
	ContaDescricao   string
	RubricaCodigo    string                 `gorm:"not null"`
	RubricaNome      string
	Ano              int                    `gorm:"index;not null"`
	Mes              int                    `gorm:"not null"`
	ValorBruto       decimal.Decimal        `gorm:"type:decimal(14,2);not null"`
	ValorCalculado   decimal.Decimal        `gorm:"type:decimal(14,2);not null"`
	Limite           string                 `gorm:"type:varchar(10)"`
	Memoria          calculo.MemoriaCalculo `gorm:"serializer:json;type:jsonb"`
	CreatedAt        time.Time
}

func (ReceitaCalculada) TableName() string { return "receitas_calculadas" }

// CalculoPendencia is a per-item problem found by the last run of a pass.
// CenarioSecaoID is nil when the pass ran for the whole scenario.
type CalculoPendencia struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CenarioID      uuid.UUID  `gorm:"type:uuid;index;not null"`
	CenarioSecaoID *uuid.UUID `gorm:"type:uuid"`
	Passe          string     `gorm:"type:varchar(20);not null"`
	Referencia     string     `gorm:"not null"`
	ReferenciaID   *uuid.UUID `gorm:"type:uuid"`
	Ano            *int
	Mes            *int
	Mensagem       string `gorm:"not null"`
	CreatedAt      time.Time
}

func (CalculoPendencia) TableName() string { return "calculo_pendencias" }
