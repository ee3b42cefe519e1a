package service

import (
	"orcamento/internal/calculo"
	"orcamento/internal/model"
	"orcamento/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ── Arvore → engine inputs ────────────────────────────────────────────────────

func periodoDoCenario(c model.Cenario) ([]calculo.Competencia, error) {
	return calculo.ExpandirPeriodo(c.AnoInicio, c.MesInicio, c.AnoFim, c.MesFim)
}

func quantidadesDe(q model.QuadroPessoal, anoInicial int) map[calculo.Competencia]decimal.Decimal {
	lista := make([]calculo.QuantidadeMes, 0, len(q.Quantidades))
	for _, m := range q.Quantidades {
		lista = append(lista, calculo.QuantidadeMes{Ano: m.Ano, Mes: m.Mes, Quantidade: m.Quantidade})
	}
	return calculo.NormalizarQuantidades(lista, q.Legado(), anoInicial)
}

func posicaoDe(q model.QuadroPessoal, anoInicial int) (calculo.Posicao, error) {
	p := calculo.Posicao{
		ID:       q.ID,
		Local:    calculo.Local{SecaoID: q.CenarioSecaoID, CentroCustoID: q.CentroCustoID},
		FuncaoID: q.FuncaoID,
		Regime:   calculo.Regime(q.Regime),
	}
	switch calculo.TipoDerivacao(q.TipoCalculo) {
	case calculo.TipoManual:
		p.Derivacao = calculo.Manual{Quantidades: quantidadesDe(q, anoInicial)}
	case calculo.TipoSpan:
		var aplicadas map[calculo.Competencia]decimal.Decimal
		if q.SpanAplicadoEm != nil {
			aplicadas = quantidadesDe(q, anoInicial)
		}
		p.Derivacao = calculo.Span{Aplicadas: aplicadas}
	case calculo.TipoRateio:
		if q.RateioGrupoID == nil || q.RateioPercentual == nil {
			return p, invalido("rateio_grupo_id", "posição %s de rateio sem grupo ou percentual", q.ID)
		}
		p.Derivacao = calculo.Rateio{GrupoID: *q.RateioGrupoID, Percentual: *q.RateioPercentual}
	default:
		return p, invalido("tipo_calculo", "tipo de cálculo inválido %q", q.TipoCalculo)
	}
	return p, nil
}

func entradaQuadro(a *repository.Arvore, periodo []calculo.Competencia, recalcularSpans bool) (calculo.EntradaQuadro, error) {
	e := calculo.EntradaQuadro{
		Periodo:         periodo,
		FatorPA:         make(map[uuid.UUID]decimal.Decimal),
		RecalcularSpans: recalcularSpans,
	}
	for _, q := range a.Quadro {
		p, err := posicaoDe(q, a.Cenario.AnoInicio)
		if err != nil {
			return e, err
		}
		e.Posicoes = append(e.Posicoes, p)
	}
	for _, s := range a.Spans {
		bases := make([]uuid.UUID, 0, len(s.Bases))
		for _, b := range s.Bases {
			bases = append(bases, b.FuncaoID)
		}
		e.Spans = append(e.Spans, calculo.RegraSpan{
			ID: s.ID, SecaoID: s.CenarioSecaoID, FuncaoID: s.FuncaoID, Bases: bases, Ratio: s.Ratio,
		})
	}
	for _, g := range a.Grupos {
		e.Grupos = append(e.Grupos, calculo.GrupoRateio{ID: g.ID, QuantidadeFixa: g.QuantidadeFixa, FuncaoOrigemID: g.FuncaoOrigemID})
	}
	for _, s := range a.Secoes {
		if s.FatorPA != nil {
			e.FatorPA[s.ID] = *s.FatorPA
		}
	}
	return e, nil
}

func resolverQuadro(a *repository.Arvore, recalcularSpans bool) ([]calculo.Competencia, *calculo.ResultadoQuadro, error) {
	periodo, err := periodoDoCenario(a.Cenario)
	if err != nil {
		return nil, nil, err
	}
	e, err := entradaQuadro(a, periodo, recalcularSpans)
	if err != nil {
		return nil, nil, err
	}
	res, err := calculo.ResolverQuadro(e)
	if err != nil {
		return nil, nil, err
	}
	return periodo, res, nil
}

func competenciaDe(ano, mes *int) *calculo.Competencia {
	if ano == nil || mes == nil {
		return nil
	}
	return &calculo.Competencia{Ano: *ano, Mes: *mes}
}

func itemCustoDe(it model.ItemCusto, id uuid.UUID, rateio []model.RateioDestino, a *repository.Arvore, passe calculo.Passe, cat calculo.Categoria) calculo.ItemCusto {
	tc := a.TiposCusto[it.TipoCustoID]
	out := calculo.ItemCusto{
		ID:            id,
		Passe:         passe,
		Categoria:     cat,
		Local:         calculo.Local{SecaoID: it.CenarioSecaoID, CentroCustoID: it.CentroCustoID},
		Conta:         calculo.Conta{Codigo: tc.ContaCodigo, Descricao: tc.ContaDescricao},
		Rubrica:       calculo.Rubrica{Codigo: tc.Codigo, Nome: tc.Nome},
		TipoValor:     calculo.TipoValor(it.TipoValor),
		ValorFixo:     it.ValorFixo,
		ValorUnitario: it.ValorUnitario,
		FuncaoBaseID:  it.FuncaoBaseID,
		Inicio:        competenciaDe(it.InicioAno, it.InicioMes),
		Fim:           competenciaDe(it.FimAno, it.FimMes),
	}
	if it.UnidadeMedida != nil {
		out.Unidade = calculo.Unidade(*it.UnidadeMedida)
	}
	for _, d := range rateio {
		out.Rateio = append(out.Rateio, calculo.Destino{
			Local:      calculo.Local{SecaoID: d.CenarioSecaoID, CentroCustoID: d.CentroCustoID},
			Percentual: d.Percentual,
		})
	}
	return out
}

func custosDiretos(a *repository.Arvore) []calculo.ItemCusto {
	out := make([]calculo.ItemCusto, 0, len(a.Custos))
	for _, c := range a.Custos {
		out = append(out, itemCustoDe(c.ItemCusto, c.ID, c.Rateio, a, calculo.PasseFolha, calculo.CategoriaDireto))
	}
	return out
}

func alocacoesTecnologia(a *repository.Arvore) []calculo.ItemCusto {
	out := make([]calculo.ItemCusto, 0, len(a.Alocacoes))
	for _, t := range a.Alocacoes {
		out = append(out, itemCustoDe(t.ItemCusto, t.ID, t.Rateio, a, calculo.PasseTecnologia, calculo.CategoriaTecnologia))
	}
	return out
}

// posicoesFolhaPorEmpresa groups positions by the company of their section,
// since each company has its own encargo rates.
func posicoesFolhaPorEmpresa(a *repository.Arvore) map[uuid.UUID][]calculo.PosicaoFolha {
	out := make(map[uuid.UUID][]calculo.PosicaoFolha)
	for _, q := range a.Quadro {
		empresaID, ok := a.EmpresaDaSecao(q.CenarioSecaoID)
		if !ok {
			continue
		}
		salario := a.Funcoes[q.FuncaoID].SalarioBase
		if q.Salario != nil {
			salario = *q.Salario
		}
		out[empresaID] = append(out[empresaID], calculo.PosicaoFolha{
			PosicaoID: q.ID,
			Local:     calculo.Local{SecaoID: q.CenarioSecaoID, CentroCustoID: q.CentroCustoID},
			FuncaoID:  q.FuncaoID,
			Regime:    calculo.Regime(q.Regime),
			Salario:   salario,
		})
	}
	return out
}

func rubricasFolha(a *repository.Arvore) []calculo.RubricaFolha {
	out := make([]calculo.RubricaFolha, 0, len(a.Rubricas))
	for _, r := range a.Rubricas {
		tc := a.TiposCusto[r.TipoCustoID]
		rf := calculo.RubricaFolha{
			ID:      r.ID,
			Rubrica: calculo.Rubrica{Codigo: tc.Codigo, Nome: tc.Nome},
			Conta:   calculo.Conta{Codigo: tc.ContaCodigo, Descricao: tc.ContaDescricao},
			Incidencia: calculo.Incidencia{
				FGTS: tc.IncideFGTS, INSS: tc.IncideINSS,
				ReflexoFerias: tc.ReflexoFerias, Reflexo13: tc.Reflexo13,
			},
			FuncaoID:  r.FuncaoID,
			TipoValor: calculo.TipoValorRubrica(r.TipoValor),
			Valor:     r.Valor,
		}
		if r.Regime != nil {
			reg := calculo.Regime(*r.Regime)
			rf.Regime = &reg
		}
		out = append(out, rf)
	}
	return out
}

func encargosDe(a *repository.Arvore, empresaID uuid.UUID) []calculo.Encargo {
	src := a.Encargos[empresaID]
	out := make([]calculo.Encargo, 0, len(src))
	for _, e := range src {
		out = append(out, calculo.Encargo{
			ID:          e.ID,
			Rubrica:     calculo.Rubrica{Codigo: e.Codigo, Nome: e.Nome},
			Conta:       calculo.Conta{Codigo: e.ContaCodigo, Descricao: e.ContaDescricao},
			Categoria:   calculo.CategoriaDoEncargo(e.Categoria),
			Tipo:        calculo.TipoEncargo(e.Tipo),
			BaseCalculo: calculo.BaseCalculo(e.BaseCalculo),
			Aliquota:    e.Aliquota,
		})
	}
	return out
}

type chaveIndicador struct {
	secaoID  uuid.UUID
	funcaoID uuid.UUID
}

func itensReceita(a *repository.Arvore) []calculo.ItemReceita {
	indicadores := make(map[chaveIndicador]map[calculo.Competencia]calculo.Indicadores)
	for _, p := range a.PremissasFuncao {
		k := chaveIndicador{p.CenarioSecaoID, p.FuncaoID}
		if indicadores[k] == nil {
			indicadores[k] = make(map[calculo.Competencia]calculo.Indicadores)
		}
		indicadores[k][calculo.Competencia{Ano: p.Ano, Mes: p.Mes}] = calculo.Indicadores{
			Absenteismo:     p.Absenteismo,
			Turnover:        p.Turnover,
			IndiceFerias:    p.IndiceFerias,
			DiasTreinamento: p.DiasTreinamento,
		}
	}

	out := make([]calculo.ItemReceita, 0, len(a.Receitas))
	for _, r := range a.Receitas {
		tr := a.TiposReceita[r.TipoReceitaID]
		it := calculo.ItemReceita{
			ID:            r.ID,
			Local:         calculo.Local{SecaoID: r.CenarioSecaoID, CentroCustoID: r.CentroCustoID},
			FuncaoID:      r.FuncaoID,
			Tipo:          calculo.TipoCalculoReceita(r.TipoCalculo),
			ValorFixo:     r.ValorFixo,
			ValorMinimoPA: r.ValorMinimoPA,
			ValorMaximoPA: r.ValorMaximoPA,
			Conta:         calculo.Conta{Codigo: tr.ContaCodigo, Descricao: tr.ContaDescricao},
			Rubrica:       calculo.Rubrica{Codigo: tr.Codigo, Nome: tr.Nome},
			Premissas:     make(map[calculo.Competencia]calculo.PremissaReceita, len(r.Premissas)),
		}
		for _, p := range r.Premissas {
			it.Premissas[calculo.Competencia{Ano: p.Ano, Mes: p.Mes}] = calculo.PremissaReceita{
				VOPDU:           p.VOPDU,
				IndiceConversao: p.IndiceConversao,
				TicketMedio:     p.TicketMedio,
				Fator:           p.Fator,
				IndiceEstorno:   p.IndiceEstorno,
				DiasUteis:       p.DiasUteis,
			}
		}
		if r.UsarPAProdutivo && r.FuncaoID != nil {
			it.Indicadores = indicadores[chaveIndicador{r.CenarioSecaoID, *r.FuncaoID}]
		}
		out = append(out, it)
	}
	return out
}

func tributosPorSecao(a *repository.Arvore) map[uuid.UUID][]calculo.Tributo {
	out := make(map[uuid.UUID][]calculo.Tributo, len(a.Secoes))
	for _, s := range a.Secoes {
		empresaID, ok := a.EmpresaDaSecao(s.ID)
		if !ok {
			continue
		}
		for _, t := range a.Tributos[empresaID] {
			out[s.ID] = append(out[s.ID], calculo.Tributo{
				ID:       t.ID,
				Rubrica:  calculo.Rubrica{Codigo: t.Codigo, Nome: t.Nome},
				Conta:    calculo.Conta{Codigo: t.ContaCodigo, Descricao: t.ContaDescricao},
				Aliquota: t.Aliquota,
			})
		}
	}
	return out
}

// ── Engine outputs → rows ─────────────────────────────────────────────────────

func custoCalculado(cenarioID uuid.UUID, l calculo.Lancamento) model.CustoCalculado {
	return model.CustoCalculado{
		ID:               uuid.New(),
		CenarioID:        cenarioID,
		CenarioSecaoID:   l.SecaoID,
		Passe:            string(l.Passe),
		CentroCustoID:    l.CentroCustoID,
		Categoria:        string(l.Categoria),
		OrigemID:         l.OrigemID,
		FuncaoID:         l.FuncaoID,
		QuadroPessoalID:  l.PosicaoID,
		ContaCodigo:      l.Conta.Codigo,
		ContaDescricao:   l.Conta.Descricao,
		RubricaCodigo:    l.Rubrica.Codigo,
		RubricaNome:      l.Rubrica.Nome,
		Ano:              l.Competencia.Ano,
		Mes:              l.Competencia.Mes,
		Valor:            l.Valor,
		RateioGrupoID:    l.RateioGrupoID,
		RateioPercentual: l.RateioPercentual,
	}
}

func lancamentoDe(c model.CustoCalculado) calculo.Lancamento {
	return calculo.Lancamento{
		Passe:         calculo.Passe(c.Passe),
		Categoria:     calculo.Categoria(c.Categoria),
		OrigemID:      c.OrigemID,
		SecaoID:       c.CenarioSecaoID,
		CentroCustoID: c.CentroCustoID,
		FuncaoID:      c.FuncaoID,
		PosicaoID:     c.QuadroPessoalID,
		Conta:         calculo.Conta{Codigo: c.ContaCodigo, Descricao: c.ContaDescricao},
		Rubrica:       calculo.Rubrica{Codigo: c.RubricaCodigo, Nome: c.RubricaNome},
		Competencia:   calculo.Competencia{Ano: c.Ano, Mes: c.Mes},
		Valor:         c.Valor,
	}
}

func receitaCalculada(cenarioID uuid.UUID, r calculo.ResultadoReceita) model.ReceitaCalculada {
	return model.ReceitaCalculada{
		ID:               uuid.New(),
		CenarioID:        cenarioID,
		CenarioSecaoID:   r.Local.SecaoID,
		CentroCustoID:    r.Local.CentroCustoID,
		ReceitaCenarioID: r.ReceitaID,
		FuncaoID:         r.FuncaoID,
		ContaCodigo:      r.Conta.Codigo,
		ContaDescricao:   r.Conta.Descricao,
		RubricaCodigo:    r.Rubrica.Codigo,
		RubricaNome:      r.Rubrica.Nome,
		Ano:              r.Competencia.Ano,
		Mes:              r.Competencia.Mes,
		ValorBruto:       r.ValorBruto,
		ValorCalculado:   r.ValorCalculado,
		Limite:           string(r.Limite),
		Memoria:          r.Memoria,
	}
}

// resultadoReceitaDe rebuilds the engine view of a stored revenue row, used
// by the DRE to turn it into a credit line.
func resultadoReceitaDe(r model.ReceitaCalculada) calculo.ResultadoReceita {
	return calculo.ResultadoReceita{
		ReceitaID:      r.ReceitaCenarioID,
		Local:          calculo.Local{SecaoID: r.CenarioSecaoID, CentroCustoID: r.CentroCustoID},
		FuncaoID:       r.FuncaoID,
		Competencia:    calculo.Competencia{Ano: r.Ano, Mes: r.Mes},
		Conta:          calculo.Conta{Codigo: r.ContaCodigo, Descricao: r.ContaDescricao},
		Rubrica:        calculo.Rubrica{Codigo: r.RubricaCodigo, Nome: r.RubricaNome},
		ValorBruto:     r.ValorBruto,
		ValorCalculado: r.ValorCalculado,
		Limite:         calculo.Limite(r.Limite),
		Memoria:        r.Memoria,
	}
}

// calculoPendencia stores a problem under the section of the item it refers
// to; secaoID is only the fallback for problems the engine did not locate.
func calculoPendencia(cenarioID uuid.UUID, secaoID *uuid.UUID, passe calculo.Passe, p calculo.Pendencia) model.CalculoPendencia {
	if p.SecaoID != nil {
		secaoID = p.SecaoID
	}
	out := model.CalculoPendencia{
		ID:             uuid.New(),
		CenarioID:      cenarioID,
		CenarioSecaoID: secaoID,
		Passe:          string(passe),
		Referencia:     p.Referencia,
		ReferenciaID:   p.ReferenciaID,
		Mensagem:       p.Mensagem,
	}
	if p.Competencia != nil {
		ano, mes := p.Competencia.Ano, p.Competencia.Mes
		out.Ano, out.Mes = &ano, &mes
	}
	return out
}

func pendenciaDe(p model.CalculoPendencia) calculo.Pendencia {
	out := calculo.Pendencia{Referencia: p.Referencia, ReferenciaID: p.ReferenciaID, Mensagem: p.Mensagem, SecaoID: p.CenarioSecaoID}
	if p.Ano != nil && p.Mes != nil {
		out.Competencia = &calculo.Competencia{Ano: *p.Ano, Mes: *p.Mes}
	}
	return out
}
