package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemCusto holds the fields shared by direct costs and technology
// allocations.
// TipoValor: "FIXO" | "VARIAVEL" | "FIXO_VARIAVEL"
// UnidadeMedida: "HC_TOTAL" | "HC_FUNCAO" | "PA_TOTAL" | "PA_FUNCAO"
type ItemCusto struct {
	CenarioID      uuid.UUID       `gorm:"type:uuid;index;not null"`
	CenarioSecaoID uuid.UUID       `gorm:"type:uuid;index;not null"`
	CentroCustoID  uuid.UUID       `gorm:"type:uuid;index;not null"`
	TipoCustoID    uuid.UUID       `gorm:"type:uuid;index;not null"`
	FornecedorID   *uuid.UUID      `gorm:"type:uuid;index"`
	Descricao      string          `gorm:"not null"`
	TipoValor      string          `gorm:"type:varchar(20);not null"`
	ValorFixo      decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	ValorUnitario  decimal.Decimal `gorm:"type:decimal(14,4);not null;default:0"`
	UnidadeMedida  *string         `gorm:"type:varchar(20)"`
	FuncaoBaseID   *uuid.UUID      `gorm:"type:uuid"`
	InicioAno      *int
	InicioMes      *int
	FimAno         *int
	FimMes         *int
}

// CustoDireto is a direct operating cost of a cost center.
type CustoDireto struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ItemCusto `gorm:"embedded"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Rateio []RateioDestino `gorm:"foreignKey:OrigemID"`
}

func (CustoDireto) TableName() string { return "custos_diretos" }

// AlocacaoTecnologia is a technology cost (licenses, infrastructure) of a
// cost center. FIXO_VARIAVEL is not accepted here.
type AlocacaoTecnologia struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ItemCusto `gorm:"embedded"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Rateio []RateioDestino `gorm:"foreignKey:OrigemID"`
}

func (AlocacaoTecnologia) TableName() string { return "alocacoes_tecnologia" }

// RateioDestino is one destination of a split cost. OrigemID points to the
// CustoDireto or AlocacaoTecnologia being split.
type RateioDestino struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CenarioID      uuid.UUID       `gorm:"type:uuid;index;not null"`
	OrigemID       uuid.UUID       `gorm:"type:uuid;index;not null"`
	CenarioSecaoID uuid.UUID       `gorm:"type:uuid;not null"`
	CentroCustoID  uuid.UUID       `gorm:"type:uuid;not null"`
	Percentual     decimal.Decimal `gorm:"type:decimal(7,4);not null"`
}

func (RateioDestino) TableName() string { return "rateio_destinos" }
