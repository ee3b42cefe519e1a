package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cenario is a planning exercise over an inclusive month range.
// Status: "RASCUNHO" | "APROVADO" | "BLOQUEADO"
type Cenario struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo    string    `gorm:"uniqueIndex;not null"`
	Nome      string    `gorm:"not null"`
	Descricao *string
	AnoInicio int    `gorm:"not null"`
	MesInicio int    `gorm:"not null"`
	AnoFim    int    `gorm:"not null"`
	MesFim    int    `gorm:"not null"`
	Status    string `gorm:"type:varchar(20);not null;default:'RASCUNHO'"`
	// OrigemID is the scenario this one was duplicated from.
	OrigemID  *uuid.UUID `gorm:"type:uuid"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Every scenario-scoped table carries CenarioID so the whole tree can be
// loaded and cleared by scenario.

type CenarioEmpresa struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CenarioID uuid.UUID `gorm:"type:uuid;index;not null"`
	EmpresaID uuid.UUID `gorm:"type:uuid;index;not null"`
	CreatedAt time.Time
}

func (CenarioEmpresa) TableName() string { return "cenario_empresas" }

type CenarioCliente struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CenarioID        uuid.UUID `gorm:"type:uuid;index;not null"`
	CenarioEmpresaID uuid.UUID `gorm:"type:uuid;index;not null"`
	Nome             string    `gorm:"not null"`
	CreatedAt        time.Time
}

func (CenarioCliente) TableName() string { return "cenario_clientes" }

// CenarioSecao is an operation of a client. FatorPA converts headcount into
// attendance positions (PA = HC / FatorPA).
type CenarioSecao struct {
	ID               uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CenarioID        uuid.UUID        `gorm:"type:uuid;index;not null"`
	CenarioClienteID uuid.UUID        `gorm:"type:uuid;index;not null"`
	Nome             string           `gorm:"not null"`
	FatorPA          *decimal.Decimal `gorm:"column:fator_pa;type:decimal(10,4)"`
	CreatedAt        time.Time
}

func (CenarioSecao) TableName() string { return "cenario_secoes" }

type CenarioCentroCusto struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CenarioID      uuid.UUID `gorm:"type:uuid;index;not null"`
	CenarioSecaoID uuid.UUID `gorm:"type:uuid;index;not null"`
	CentroCustoID  uuid.UUID `gorm:"type:uuid;index;not null"`
	CreatedAt      time.Time
}

func (CenarioCentroCusto) TableName() string { return "cenario_centros_custo" }
