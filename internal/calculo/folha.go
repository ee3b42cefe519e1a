package calculo

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TipoValorRubrica tells how a payroll rubrica turns a position into money.
type TipoValorRubrica string

const (
	// RubricaSalario: salary × quantity.
	RubricaSalario TipoValorRubrica = "SALARIO"
	// RubricaPercentualSalario: valor% of salary × quantity.
	RubricaPercentualSalario TipoValorRubrica = "PERCENTUAL_SALARIO"
	// RubricaValorPorHC: valor × quantity.
	RubricaValorPorHC TipoValorRubrica = "VALOR_POR_HC"
)

// Incidencia holds the payroll incidence flags of a rubrica.
type Incidencia struct {
	FGTS          bool
	INSS          bool
	ReflexoFerias bool
	Reflexo13     bool
}

// RubricaFolha is a payroll event applied to the scenario's positions.
// FuncaoID and Regime, when set, restrict the positions it applies to.
type RubricaFolha struct {
	ID         uuid.UUID
	Rubrica    Rubrica
	Conta      Conta
	Incidencia Incidencia
	FuncaoID   *uuid.UUID
	Regime     *Regime
	TipoValor  TipoValorRubrica
	Valor      decimal.Decimal
}

// CategoriaDoEncargo groups encargos by how they land in the DRE.
type CategoriaDoEncargo string

const (
	EncargoEncargo  CategoriaDoEncargo = "ENCARGO"
	EncargoProvisao CategoriaDoEncargo = "PROVISAO"
	EncargoImposto  CategoriaDoEncargo = "IMPOSTO"
)

type BaseCalculo string

const (
	BaseSalario  BaseCalculo = "SALARIO"
	BaseTotal    BaseCalculo = "TOTAL"
	BaseProvisao BaseCalculo = "PROVISAO"
)

// TipoEncargo links an encargo to the rubrica incidence flag that enables it.
type TipoEncargo string

const (
	TipoINSS           TipoEncargo = "INSS"
	TipoFGTS           TipoEncargo = "FGTS"
	TipoFerias         TipoEncargo = "FERIAS"
	TipoDecimoTerceiro TipoEncargo = "DECIMO_TERCEIRO"
	TipoOutro          TipoEncargo = "OUTRO"
)

// Encargo is a company payroll charge, provision or tax rate (percentage).
type Encargo struct {
	ID          uuid.UUID
	Rubrica     Rubrica
	Conta       Conta
	Categoria   CategoriaDoEncargo
	Tipo        TipoEncargo
	BaseCalculo BaseCalculo
	Aliquota    decimal.Decimal
}

// habilitado reports whether the rubrica's flags enable this encargo.
// Provisions follow the vacation/13th reflexes; charges follow FGTS or INSS
// (other charges ride on the INSS base). Taxes apply to every rubrica.
func (e Encargo) habilitado(inc Incidencia) bool {
	switch e.Tipo {
	case TipoFerias:
		return inc.ReflexoFerias
	case TipoDecimoTerceiro:
		return inc.Reflexo13
	case TipoFGTS:
		return inc.FGTS
	case TipoINSS:
		return inc.INSS
	}
	switch e.Categoria {
	case EncargoProvisao:
		return inc.ReflexoFerias || inc.Reflexo13
	case EncargoEncargo:
		return inc.INSS
	}
	return true
}

func (e Encargo) base(salario, provisoes decimal.Decimal) decimal.Decimal {
	switch e.BaseCalculo {
	case BaseProvisao:
		return provisoes
	case BaseTotal:
		return salario.Add(provisoes)
	}
	return salario
}

// PosicaoFolha is a headcount position with its monthly salary.
type PosicaoFolha struct {
	PosicaoID uuid.UUID
	Local     Local
	FuncaoID  uuid.UUID
	Regime    Regime
	Salario   decimal.Decimal
}

func (r RubricaFolha) aplica(p PosicaoFolha) bool {
	if r.FuncaoID != nil && *r.FuncaoID != p.FuncaoID {
		return false
	}
	if r.Regime != nil && *r.Regime != p.Regime {
		return false
	}
	return true
}

// ValorPara returns the rubrica amount for a position quantity.
func (r RubricaFolha) ValorPara(salario, quantidade decimal.Decimal) decimal.Decimal {
	switch r.TipoValor {
	case RubricaSalario:
		return salario.Mul(quantidade)
	case RubricaPercentualSalario:
		return percentual(salario, r.Valor).Mul(quantidade)
	case RubricaValorPorHC:
		return r.Valor.Mul(quantidade)
	}
	return decimal.Zero
}

type chaveFolha struct {
	posicaoID uuid.UUID
	comp      Competencia
	codigo    string
	categoria Categoria
}

// CalcularFolha computes payroll lines per position and month. Each rubrica
// amount B produces its own line; for CLT positions the enabled provisions P
// are B × aliquota and the enabled charges and taxes use SALARIO=B,
// PROVISAO=P or TOTAL=B+P as base. PJ positions only carry taxes. Lines that
// share position, month and code are summed.
func CalcularFolha(periodo []Competencia, posicoes []PosicaoFolha, rubricas []RubricaFolha, encargos []Encargo, q *Quadro) ([]Lancamento, []Pendencia) {
	var pend []Pendencia
	acumulado := make(map[chaveFolha]*Lancamento)
	var ordem []chaveFolha

	somar := func(p PosicaoFolha, c Competencia, cat Categoria, rub Rubrica, conta Conta, valor decimal.Decimal) {
		if valor.IsZero() {
			return
		}
		k := chaveFolha{posicaoID: p.PosicaoID, comp: c, codigo: rub.Codigo, categoria: cat}
		if l, ok := acumulado[k]; ok {
			l.Valor = l.Valor.Add(valor)
			return
		}
		pid, fid := p.PosicaoID, p.FuncaoID
		acumulado[k] = &Lancamento{
			Passe:         PasseFolha,
			Categoria:     cat,
			OrigemID:      p.PosicaoID,
			SecaoID:       p.Local.SecaoID,
			CentroCustoID: p.Local.CentroCustoID,
			FuncaoID:      &fid,
			PosicaoID:     &pid,
			Conta:         conta,
			Rubrica:       rub,
			Competencia:   c,
			Valor:         valor,
		}
		ordem = append(ordem, k)
	}

	provisoes, demais := separarEncargos(encargos)

	for _, p := range posicoes {
		if p.Salario.IsNegative() {
			id := p.PosicaoID
			pend = append(pend, novaPendencia("quadro_pessoal", &id, nil, "salário negativo").na(p.Local))
			continue
		}
		for _, c := range periodo {
			qtd := q.Quantidade(p.PosicaoID, c)
			if !qtd.IsPositive() {
				continue
			}
			for _, r := range rubricas {
				if !r.aplica(p) {
					continue
				}
				b := r.ValorPara(p.Salario, qtd)
				if b.IsZero() {
					continue
				}
				somar(p, c, CategoriaFolha, r.Rubrica, r.Conta, b)

				prov := decimal.Zero
				if p.Regime == RegimeCLT {
					for _, e := range provisoes {
						if !e.habilitado(r.Incidencia) {
							continue
						}
						v := percentual(e.base(b, decimal.Zero), e.Aliquota)
						prov = prov.Add(v)
						somar(p, c, CategoriaProvisao, e.Rubrica, e.Conta, v)
					}
				}
				for _, e := range demais {
					if p.Regime != RegimeCLT && e.Categoria != EncargoImposto {
						continue
					}
					if !e.habilitado(r.Incidencia) {
						continue
					}
					cat := CategoriaEncargo
					if e.Categoria == EncargoImposto {
						cat = CategoriaImposto
					}
					somar(p, c, cat, e.Rubrica, e.Conta, percentual(e.base(b, prov), e.Aliquota))
				}
			}
		}
	}

	out := make([]Lancamento, 0, len(ordem))
	for _, k := range ordem {
		l := *acumulado[k]
		l.Valor = arredondar(l.Valor)
		out = append(out, l)
	}
	return out, pend
}

func separarEncargos(encargos []Encargo) (provisoes, demais []Encargo) {
	for _, e := range encargos {
		if e.Categoria == EncargoProvisao {
			provisoes = append(provisoes, e)
		} else {
			demais = append(demais, e)
		}
	}
	sort.SliceStable(provisoes, func(i, j int) bool { return provisoes[i].Rubrica.Codigo < provisoes[j].Rubrica.Codigo })
	sort.SliceStable(demais, func(i, j int) bool { return demais[i].Rubrica.Codigo < demais[j].Rubrica.Codigo })
	return provisoes, demais
}
