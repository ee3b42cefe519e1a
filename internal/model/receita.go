package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReceitaCenario is a revenue line of a cost center.
// TipoCalculo: "FIXA_CC" | "FIXA_HC" | "FIXA_PA" | "VARIAVEL"
type ReceitaCenario struct {
	ID              uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CenarioID       uuid.UUID        `gorm:"type:uuid;index;not null"`
	CenarioSecaoID  uuid.UUID        `gorm:"type:uuid;index;not null"`
	CentroCustoID   uuid.UUID        `gorm:"type:uuid;index;not null"`
	TipoReceitaID   uuid.UUID        `gorm:"type:uuid;index;not null"`
	FuncaoID        *uuid.UUID       `gorm:"type:uuid"`
	TipoCalculo     string           `gorm:"type:varchar(20);not null"`
	ValorFixo       decimal.Decimal  `gorm:"type:decimal(14,2);not null;default:0"`
	ValorMinimoPA   *decimal.Decimal `gorm:"column:valor_minimo_pa;type:decimal(14,2)"`
	ValorMaximoPA   *decimal.Decimal `gorm:"column:valor_maximo_pa;type:decimal(14,2)"`
	// VARIAVEL only: discount absenteeism, vacations and training from PA.
	UsarPAProdutivo bool             `gorm:"column:usar_pa_produtivo;not null;default:false"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Premissas []PremissaReceita `gorm:"foreignKey:ReceitaCenarioID"`
}

func (ReceitaCenario) TableName() string { return "receitas_cenario" }

// PremissaReceita is the monthly premise of a VARIAVEL revenue.
// IndiceEstorno is stored as a fraction (0–1).
type PremissaReceita struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ReceitaCenarioID uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_premissa_receita_mes;not null"`
	Ano              int             `gorm:"uniqueIndex:idx_premissa_receita_mes;not null"`
	Mes              int             `gorm:"uniqueIndex:idx_premissa_receita_mes;not null"`
	VOPDU            decimal.Decimal `gorm:"column:vopdu;type:decimal(14,4);not null;default:0"`
	IndiceConversao  decimal.Decimal `gorm:"type:decimal(9,6);not null;default:0"`
	TicketMedio      decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	Fator            decimal.Decimal `gorm:"type:decimal(9,4);not null;default:1"`
	IndiceEstorno    decimal.Decimal `gorm:"type:decimal(7,6);not null;default:0"`
	DiasUteis        *int
}

func (PremissaReceita) TableName() string { return "premissas_receita" }
