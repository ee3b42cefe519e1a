package repository

import (
	"orcamento/internal/model"

	"github.com/google/uuid"
)

// Arvore is a scenario with every scenario-scoped row it owns, plus the
// catalog entries those rows reference. It is what the calculation passes
// read and what duplication clones.
type Arvore struct {
	Cenario         model.Cenario
	Empresas        []model.CenarioEmpresa
	Clientes        []model.CenarioCliente
	Secoes          []model.CenarioSecao
	CentrosCusto    []model.CenarioCentroCusto
	Quadro          []model.QuadroPessoal
	Spans           []model.FuncaoSpan
	Grupos          []model.RateioGrupo
	PremissasFuncao []model.PremissaFuncao
	Rubricas        []model.CenarioRubrica
	Custos          []model.CustoDireto
	Alocacoes       []model.AlocacaoTecnologia
	Receitas        []model.ReceitaCenario

	// Catalog, keyed by ID. Tributos and Encargos are keyed by EmpresaID.
	Funcoes      map[uuid.UUID]model.Funcao
	TiposCusto   map[uuid.UUID]model.TipoCusto
	TiposReceita map[uuid.UUID]model.TipoReceita
	Tributos     map[uuid.UUID][]model.Tributo
	Encargos     map[uuid.UUID][]model.Encargo
}

// EmpresaDaSecao walks seção → cliente → empresa do cenário.
func (a *Arvore) EmpresaDaSecao(secaoID uuid.UUID) (uuid.UUID, bool) {
	var clienteID uuid.UUID
	achou := false
	for _, s := range a.Secoes {
		if s.ID == secaoID {
			clienteID, achou = s.CenarioClienteID, true
			break
		}
	}
	if !achou {
		return uuid.Nil, false
	}
	var cenarioEmpresaID uuid.UUID
	achou = false
	for _, c := range a.Clientes {
		if c.ID == clienteID {
			cenarioEmpresaID, achou = c.CenarioEmpresaID, true
			break
		}
	}
	if !achou {
		return uuid.Nil, false
	}
	for _, e := range a.Empresas {
		if e.ID == cenarioEmpresaID {
			return e.EmpresaID, true
		}
	}
	return uuid.Nil, false
}

// Secao returns the section with the given ID.
func (a *Arvore) Secao(id uuid.UUID) (model.CenarioSecao, bool) {
	for _, s := range a.Secoes {
		if s.ID == id {
			return s, true
		}
	}
	return model.CenarioSecao{}, false
}
