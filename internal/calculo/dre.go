package calculo

import (
	"sort"

	"github.com/shopspring/decimal"
)

// LinhaDRE is one DRE row: an account total (TipoCustoCodigo nil) or one of
// its rubrica sub-rows. Values keep the stored sign.
type LinhaDRE struct {
	ContaCodigo     string              `json:"conta_codigo"`
	ContaDescricao  string              `json:"conta_descricao"`
	TipoCustoCodigo *string             `json:"tipo_custo_codigo,omitempty"`
	TipoCustoNome   *string             `json:"tipo_custo_nome,omitempty"`
	Categoria       Categoria           `json:"categoria,omitempty"`
	ValoresMensais  [12]decimal.Decimal `json:"valores_mensais"`
	Total           decimal.Decimal     `json:"total"`
}

func (l *LinhaDRE) somar(mes int, v decimal.Decimal) {
	l.ValoresMensais[mes-1] = l.ValoresMensais[mes-1].Add(v)
	l.Total = l.Total.Add(v)
}

// DRE is the income statement of one scenario year.
type DRE struct {
	Ano        int             `json:"ano"`
	Linhas     []LinhaDRE      `json:"linhas"`
	TotalGeral decimal.Decimal `json:"total_geral"`
}

// AgregarDRE groups the lines of ano by account and, inside each account, by
// rubrica. Lines of other years are ignored. Accounts are ordered by code and
// every account row is followed by its rubrica rows, also ordered by code.
func AgregarDRE(ano int, lancamentos []Lancamento) DRE {
	type grupoConta struct {
		linha    LinhaDRE
		rubricas map[string]*LinhaDRE
	}
	contas := make(map[string]*grupoConta)
	dre := DRE{Ano: ano, TotalGeral: decimal.Zero}

	for _, l := range lancamentos {
		if l.Competencia.Ano != ano || !l.Competencia.valida() {
			continue
		}
		g, ok := contas[l.Conta.Codigo]
		if !ok {
			g = &grupoConta{
				linha:    LinhaDRE{ContaCodigo: l.Conta.Codigo, ContaDescricao: l.Conta.Descricao},
				rubricas: make(map[string]*LinhaDRE),
			}
			contas[l.Conta.Codigo] = g
		}
		g.linha.somar(l.Competencia.Mes, l.Valor)

		sub, ok := g.rubricas[l.Rubrica.Codigo]
		if !ok {
			codigo, nome := l.Rubrica.Codigo, l.Rubrica.Nome
			sub = &LinhaDRE{
				ContaCodigo:     l.Conta.Codigo,
				ContaDescricao:  l.Conta.Descricao,
				TipoCustoCodigo: &codigo,
				TipoCustoNome:   &nome,
				Categoria:       l.Categoria,
			}
			g.rubricas[l.Rubrica.Codigo] = sub
		}
		sub.somar(l.Competencia.Mes, l.Valor)
		dre.TotalGeral = dre.TotalGeral.Add(l.Valor)
	}

	codigos := make([]string, 0, len(contas))
	for c := range contas {
		codigos = append(codigos, c)
	}
	sort.Strings(codigos)

	dre.Linhas = make([]LinhaDRE, 0, len(contas))
	for _, c := range codigos {
		g := contas[c]
		dre.Linhas = append(dre.Linhas, g.linha)

		subs := make([]string, 0, len(g.rubricas))
		for r := range g.rubricas {
			subs = append(subs, r)
		}
		sort.Strings(subs)
		for _, r := range subs {
			dre.Linhas = append(dre.Linhas, *g.rubricas[r])
		}
	}
	return dre
}
