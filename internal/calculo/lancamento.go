package calculo

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Passe identifies an independent calculation pass. Each pass owns a disjoint
// set of computed rows so two passes never clear each other's output.
type Passe string

const (
	PasseFolha      Passe = "FOLHA"
	PasseTecnologia Passe = "TECNOLOGIA"
	PasseReceita    Passe = "RECEITA"
)

// Categoria classifies a computed line for the DRE.
type Categoria string

const (
	CategoriaFolha      Categoria = "FOLHA"
	CategoriaEncargo    Categoria = "ENCARGO"
	CategoriaProvisao   Categoria = "PROVISAO"
	CategoriaImposto    Categoria = "IMPOSTO"
	CategoriaDireto     Categoria = "CUSTO_DIRETO"
	CategoriaTecnologia Categoria = "TECNOLOGIA"
	CategoriaTributo    Categoria = "TRIBUTO"
	CategoriaReceita    Categoria = "RECEITA"
)

// Conta is an accounting account of the chart used by the DRE.
type Conta struct {
	Codigo    string
	Descricao string
}

// Rubrica identifies the catalog entry (tipo de custo, encargo, tributo or
// tipo de receita) a line was produced from.
type Rubrica struct {
	Codigo string
	Nome   string
}

// Lancamento is one monthly computed value. Valor keeps the stored sign:
// positive for costs, negative for discounts and credits.
type Lancamento struct {
	Passe            Passe
	Categoria        Categoria
	OrigemID         uuid.UUID
	SecaoID          uuid.UUID
	CentroCustoID    uuid.UUID
	FuncaoID         *uuid.UUID
	PosicaoID        *uuid.UUID
	Conta            Conta
	Rubrica          Rubrica
	Competencia      Competencia
	Valor            decimal.Decimal
	RateioGrupoID    *uuid.UUID
	RateioPercentual *decimal.Decimal
}

var cem = decimal.NewFromInt(100)

const casasMoeda int32 = 2

func percentual(valor, pct decimal.Decimal) decimal.Decimal {
	return valor.Mul(pct).Div(cem)
}

func arredondar(v decimal.Decimal) decimal.Decimal { return v.Round(casasMoeda) }
