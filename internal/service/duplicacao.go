package service

import (
	"orcamento/internal/model"
	"orcamento/internal/repository"

	"github.com/google/uuid"
)

// remapa holds old→new IDs for every scenario-scoped row. Catalog IDs never
// enter it, so de() leaves them untouched.
type remapa map[uuid.UUID]uuid.UUID

func (m remapa) novo(antigo uuid.UUID) {
	m[antigo] = uuid.New()
}

func (m remapa) de(antigo uuid.UUID) uuid.UUID {
	if n, ok := m[antigo]; ok {
		return n
	}
	return antigo
}

func (m remapa) dePtr(antigo *uuid.UUID) *uuid.UUID {
	if antigo == nil {
		return nil
	}
	n := m.de(*antigo)
	return &n
}

// ClonarArvore deep-copies a scenario tree into a new RASCUNHO scenario.
// The first traversal assigns a new ID to every scenario-scoped row; the
// second copies the rows rewriting their references through the map.
// Computed rows are not copied.
func ClonarArvore(a *repository.Arvore, codigo, nome string) *repository.Arvore {
	m := remapa{}
	m.novo(a.Cenario.ID)
	for _, e := range a.Empresas {
		m.novo(e.ID)
	}
	for _, c := range a.Clientes {
		m.novo(c.ID)
	}
	for _, s := range a.Secoes {
		m.novo(s.ID)
	}
	for _, c := range a.CentrosCusto {
		m.novo(c.ID)
	}
	for _, g := range a.Grupos {
		m.novo(g.ID)
	}
	for _, q := range a.Quadro {
		m.novo(q.ID)
		for _, qq := range q.Quantidades {
			m.novo(qq.ID)
		}
	}
	for _, s := range a.Spans {
		m.novo(s.ID)
		for _, b := range s.Bases {
			m.novo(b.ID)
		}
	}
	for _, p := range a.PremissasFuncao {
		m.novo(p.ID)
	}
	for _, r := range a.Rubricas {
		m.novo(r.ID)
	}
	for _, c := range a.Custos {
		m.novo(c.ID)
		for _, d := range c.Rateio {
			m.novo(d.ID)
		}
	}
	for _, t := range a.Alocacoes {
		m.novo(t.ID)
		for _, d := range t.Rateio {
			m.novo(d.ID)
		}
	}
	for _, r := range a.Receitas {
		m.novo(r.ID)
		for _, p := range r.Premissas {
			m.novo(p.ID)
		}
	}

	cenarioID := m.de(a.Cenario.ID)
	origem := a.Cenario.ID
	out := &repository.Arvore{
		Cenario: model.Cenario{
			ID:        cenarioID,
			Codigo:    codigo,
			Nome:      nome,
			Descricao: a.Cenario.Descricao,
			AnoInicio: a.Cenario.AnoInicio,
			MesInicio: a.Cenario.MesInicio,
			AnoFim:    a.Cenario.AnoFim,
			MesFim:    a.Cenario.MesFim,
			Status:    StatusRascunho,
			OrigemID:  &origem,
		},
		Funcoes:      a.Funcoes,
		TiposCusto:   a.TiposCusto,
		TiposReceita: a.TiposReceita,
		Tributos:     a.Tributos,
		Encargos:     a.Encargos,
	}

	for _, e := range a.Empresas {
		out.Empresas = append(out.Empresas, model.CenarioEmpresa{ID: m.de(e.ID), CenarioID: cenarioID, EmpresaID: e.EmpresaID})
	}
	for _, c := range a.Clientes {
		out.Clientes = append(out.Clientes, model.CenarioCliente{
			ID: m.de(c.ID), CenarioID: cenarioID, CenarioEmpresaID: m.de(c.CenarioEmpresaID), Nome: c.Nome,
		})
	}
	for _, s := range a.Secoes {
		out.Secoes = append(out.Secoes, model.CenarioSecao{
			ID: m.de(s.ID), CenarioID: cenarioID, CenarioClienteID: m.de(s.CenarioClienteID), Nome: s.Nome, FatorPA: s.FatorPA,
		})
	}
	for _, c := range a.CentrosCusto {
		out.CentrosCusto = append(out.CentrosCusto, model.CenarioCentroCusto{
			ID: m.de(c.ID), CenarioID: cenarioID, CenarioSecaoID: m.de(c.CenarioSecaoID), CentroCustoID: c.CentroCustoID,
		})
	}
	for _, g := range a.Grupos {
		g.ID, g.CenarioID = m.de(g.ID), cenarioID
		out.Grupos = append(out.Grupos, g)
	}
	for _, q := range a.Quadro {
		novo := q
		novo.ID, novo.CenarioID = m.de(q.ID), cenarioID
		novo.CenarioSecaoID = m.de(q.CenarioSecaoID)
		novo.RateioGrupoID = m.dePtr(q.RateioGrupoID)
		novo.Quantidades = make([]model.QuadroQuantidade, 0, len(q.Quantidades))
		for _, qq := range q.Quantidades {
			qq.ID, qq.QuadroPessoalID = m.de(qq.ID), novo.ID
			novo.Quantidades = append(novo.Quantidades, qq)
		}
		out.Quadro = append(out.Quadro, novo)
	}
	for _, s := range a.Spans {
		novo := s
		novo.ID, novo.CenarioID = m.de(s.ID), cenarioID
		novo.CenarioSecaoID = m.dePtr(s.CenarioSecaoID)
		novo.Bases = make([]model.FuncaoSpanBase, 0, len(s.Bases))
		for _, b := range s.Bases {
			b.ID, b.FuncaoSpanID = m.de(b.ID), novo.ID
			novo.Bases = append(novo.Bases, b)
		}
		out.Spans = append(out.Spans, novo)
	}
	for _, p := range a.PremissasFuncao {
		p.ID, p.CenarioID, p.CenarioSecaoID = m.de(p.ID), cenarioID, m.de(p.CenarioSecaoID)
		out.PremissasFuncao = append(out.PremissasFuncao, p)
	}
	for _, r := range a.Rubricas {
		r.ID, r.CenarioID = m.de(r.ID), cenarioID
		out.Rubricas = append(out.Rubricas, r)
	}
	for _, c := range a.Custos {
		novo := c
		novo.ID = m.de(c.ID)
		novo.ItemCusto = clonarItemCusto(c.ItemCusto, cenarioID, m)
		novo.Rateio = clonarRateio(c.Rateio, novo.ID, cenarioID, m)
		out.Custos = append(out.Custos, novo)
	}
	for _, t := range a.Alocacoes {
		novo := t
		novo.ID = m.de(t.ID)
		novo.ItemCusto = clonarItemCusto(t.ItemCusto, cenarioID, m)
		novo.Rateio = clonarRateio(t.Rateio, novo.ID, cenarioID, m)
		out.Alocacoes = append(out.Alocacoes, novo)
	}
	for _, r := range a.Receitas {
		novo := r
		novo.ID, novo.CenarioID = m.de(r.ID), cenarioID
		novo.CenarioSecaoID = m.de(r.CenarioSecaoID)
		novo.Premissas = make([]model.PremissaReceita, 0, len(r.Premissas))
		for _, p := range r.Premissas {
			p.ID, p.ReceitaCenarioID = m.de(p.ID), novo.ID
			novo.Premissas = append(novo.Premissas, p)
		}
		out.Receitas = append(out.Receitas, novo)
	}
	return out
}

func clonarItemCusto(it model.ItemCusto, cenarioID uuid.UUID, m remapa) model.ItemCusto {
	it.CenarioID = cenarioID
	it.CenarioSecaoID = m.de(it.CenarioSecaoID)
	return it
}

func clonarRateio(destinos []model.RateioDestino, origemID, cenarioID uuid.UUID, m remapa) []model.RateioDestino {
	out := make([]model.RateioDestino, 0, len(destinos))
	for _, d := range destinos {
		d.ID, d.CenarioID, d.OrigemID = m.de(d.ID), cenarioID, origemID
		d.CenarioSecaoID = m.de(d.CenarioSecaoID)
		out = append(out, d)
	}
	return out
}
