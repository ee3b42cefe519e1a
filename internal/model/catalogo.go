package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Empresa owns the revenue taxes (Tributo) and payroll rates (Encargo) used
// by every scenario it takes part in.
type Empresa struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo    string    `gorm:"uniqueIndex;not null"`
	Nome      string    `gorm:"not null"`
	CNPJ      *string   `gorm:"column:cnpj"`
	Ativo     bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Tributos []Tributo `gorm:"foreignKey:EmpresaID"`
	Encargos []Encargo `gorm:"foreignKey:EmpresaID"`
}

// Tributo is a revenue tax; Aliquota is a percentage.
type Tributo struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmpresaID      uuid.UUID       `gorm:"type:uuid;index;not null"`
	Codigo         string          `gorm:"not null"`
	Nome           string          `gorm:"not null"`
	Aliquota       decimal.Decimal `gorm:"type:decimal(7,4);not null"`
	ContaCodigo    string          `gorm:"not null"`
	ContaDescricao string
	CreatedAt      time.Time
}

// Encargo is a payroll charge, provision or tax.
// Categoria: "ENCARGO" | "PROVISAO" | "IMPOSTO"
// BaseCalculo: "SALARIO" | "TOTAL" | "PROVISAO"
// Tipo links the encargo to a rubrica incidence flag: "INSS" | "FGTS" | "FERIAS" | "DECIMO_TERCEIRO" | "OUTRO"
type Encargo struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmpresaID      uuid.UUID       `gorm:"type:uuid;index;not null"`
	Codigo         string          `gorm:"not null"`
	Nome           string          `gorm:"not null"`
	Categoria      string          `gorm:"type:varchar(20);not null"`
	Tipo           string          `gorm:"type:varchar(20);not null;default:'OUTRO'"`
	BaseCalculo    string          `gorm:"type:varchar(20);not null;default:'SALARIO'"`
	Aliquota       decimal.Decimal `gorm:"type:decimal(7,4);not null"`
	ContaCodigo    string          `gorm:"not null"`
	ContaDescricao string
	CreatedAt      time.Time
}

// Funcao is a shared catalog entry; scenario rows reference it by ID, so
// duplicating a scenario never copies functions.
type Funcao struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo      string          `gorm:"uniqueIndex;not null"`
	Nome        string          `gorm:"not null"`
	SalarioBase decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Ativo       bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Funcao) TableName() string { return "funcoes" }

type CentroCusto struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo    string    `gorm:"uniqueIndex;not null"`
	Nome      string    `gorm:"not null"`
	Ativo     bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CentroCusto) TableName() string { return "centros_custo" }

type Fornecedor struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo    string    `gorm:"uniqueIndex;not null"`
	Nome      string    `gorm:"not null"`
	CNPJ      *string   `gorm:"column:cnpj"`
	Ativo     bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Fornecedor) TableName() string { return "fornecedores" }

// TipoCusto is a rubrica: payroll event or cost type with its account and
// incidence flags.
type TipoCusto struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo         string    `gorm:"uniqueIndex;not null"`
	Nome           string    `gorm:"not null"`
	ContaCodigo    string    `gorm:"not null"`
	ContaDescricao string
	IncideFGTS     bool `gorm:"column:incide_fgts;not null;default:false"`
	IncideINSS     bool `gorm:"column:incide_inss;not null;default:false"`
	ReflexoFerias  bool `gorm:"not null;default:false"`
	Reflexo13      bool `gorm:"column:reflexo_13;not null;default:false"`
	Ativo          bool `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (TipoCusto) TableName() string { return "tipos_custo" }

type TipoReceita struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo         string    `gorm:"uniqueIndex;not null"`
	Nome           string    `gorm:"not null"`
	ContaCodigo    string    `gorm:"not null"`
	ContaDescricao string
	Ativo          bool `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (TipoReceita) TableName() string { return "tipos_receita" }
