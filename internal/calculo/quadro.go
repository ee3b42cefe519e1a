package calculo

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Regime string

const (
	RegimeCLT Regime = "CLT"
	RegimePJ  Regime = "PJ"
)

type TipoDerivacao string

const (
	TipoManual TipoDerivacao = "manual"
	TipoSpan   TipoDerivacao = "span"
	TipoRateio TipoDerivacao = "rateio"
)

// Derivacao is the strategy that produces a position's monthly quantities.
// Manual, Span and Rateio are its only implementations, so a position can
// never carry span and rateio settings at the same time.
type Derivacao interface {
	Tipo() TipoDerivacao
}

// Manual quantities typed by the user.
type Manual struct {
	Quantidades map[Competencia]decimal.Decimal
}

// Span quantities are derived from base functions. Aplicadas holds the values
// committed by the last "aplicar" run; while set they are read as manual
// quantities.
type Span struct {
	Aplicadas map[Competencia]decimal.Decimal
}

// Rateio takes a percentage of a group total.
type Rateio struct {
	GrupoID    uuid.UUID
	Percentual decimal.Decimal
}

func (Manual) Tipo() TipoDerivacao { return TipoManual }
func (Span) Tipo() TipoDerivacao   { return TipoSpan }
func (Rateio) Tipo() TipoDerivacao { return TipoRateio }

// Local is a cost center inside a scenario section.
type Local struct {
	SecaoID       uuid.UUID
	CentroCustoID uuid.UUID
}

// Posicao is a headcount position (quadro de pessoal row).
type Posicao struct {
	ID        uuid.UUID
	Local     Local
	FuncaoID  uuid.UUID
	Regime    Regime
	Derivacao Derivacao
}

// GrupoRateio supplies the total distributed among rateio positions: either
// a fixed quantity or the computed headcount of an origin function.
type GrupoRateio struct {
	ID             uuid.UUID
	QuantidadeFixa *decimal.Decimal
	FuncaoOrigemID *uuid.UUID
}

// QuantidadeMes is the normalized storage shape of a monthly quantity.
type QuantidadeMes struct {
	Ano        int
	Mes        int
	Quantidade decimal.Decimal
}

// NormalizarQuantidades prefers the normalized list; only when it is empty the
// twelve legacy columns are read, and they map to the scenario's first year.
func NormalizarQuantidades(lista []QuantidadeMes, legado [12]*decimal.Decimal, anoInicial int) map[Competencia]decimal.Decimal {
	out := make(map[Competencia]decimal.Decimal)
	if len(lista) > 0 {
		for _, q := range lista {
			out[Competencia{Ano: q.Ano, Mes: q.Mes}] = q.Quantidade
		}
		return out
	}
	for i, v := range legado {
		if v != nil {
			out[Competencia{Ano: anoInicial, Mes: i + 1}] = *v
		}
	}
	return out
}

// ── Quadro ────────────────────────────────────────────────────────────────────

type chaveFuncao struct {
	local    Local
	funcaoID uuid.UUID
	comp     Competencia
}

type chaveLocal struct {
	local Local
	comp  Competencia
}

type chaveTotal struct {
	funcaoID uuid.UUID
	comp     Competencia
}

// Quadro is the resolved headcount of a scenario, indexed for the cost and
// revenue engines.
type Quadro struct {
	porPosicao  map[uuid.UUID]map[Competencia]decimal.Decimal
	porFuncao   map[chaveFuncao]decimal.Decimal
	porLocal    map[chaveLocal]decimal.Decimal
	totalFuncao map[chaveTotal]decimal.Decimal
	fatorPA     map[uuid.UUID]decimal.Decimal
}

func novoQuadro(fatorPA map[uuid.UUID]decimal.Decimal) *Quadro {
	if fatorPA == nil {
		fatorPA = map[uuid.UUID]decimal.Decimal{}
	}
	return &Quadro{
		porPosicao:  make(map[uuid.UUID]map[Competencia]decimal.Decimal),
		porFuncao:   make(map[chaveFuncao]decimal.Decimal),
		porLocal:    make(map[chaveLocal]decimal.Decimal),
		totalFuncao: make(map[chaveTotal]decimal.Decimal),
		fatorPA:     fatorPA,
	}
}

func (q *Quadro) registrar(p Posicao, c Competencia, qtd decimal.Decimal) {
	meses, ok := q.porPosicao[p.ID]
	if !ok {
		meses = make(map[Competencia]decimal.Decimal)
		q.porPosicao[p.ID] = meses
	}
	meses[c] = meses[c].Add(qtd)

	kf := chaveFuncao{local: p.Local, funcaoID: p.FuncaoID, comp: c}
	q.porFuncao[kf] = q.porFuncao[kf].Add(qtd)
	kl := chaveLocal{local: p.Local, comp: c}
	q.porLocal[kl] = q.porLocal[kl].Add(qtd)
	kt := chaveTotal{funcaoID: p.FuncaoID, comp: c}
	q.totalFuncao[kt] = q.totalFuncao[kt].Add(qtd)
}

// Quantidade returns the resolved quantity of one position.
func (q *Quadro) Quantidade(posicaoID uuid.UUID, c Competencia) decimal.Decimal {
	return q.porPosicao[posicaoID][c]
}

// HC returns the headcount at a cost center, optionally scoped to one function.
func (q *Quadro) HC(local Local, funcaoID *uuid.UUID, c Competencia) decimal.Decimal {
	if funcaoID != nil {
		return q.porFuncao[chaveFuncao{local: local, funcaoID: *funcaoID, comp: c}]
	}
	return q.porLocal[chaveLocal{local: local, comp: c}]
}

// TotalFuncao sums a function's headcount over the whole scenario.
func (q *Quadro) TotalFuncao(funcaoID uuid.UUID, c Competencia) decimal.Decimal {
	return q.totalFuncao[chaveTotal{funcaoID: funcaoID, comp: c}]
}

// FatorPA returns the section's headcount-to-PA factor; ok is false when the
// factor is missing or not positive.
func (q *Quadro) FatorPA(secaoID uuid.UUID) (decimal.Decimal, bool) {
	f, ok := q.fatorPA[secaoID]
	return f, ok && f.IsPositive()
}

// PA converts headcount into attendance positions: HC / fator_pa.
func (q *Quadro) PA(local Local, funcaoID *uuid.UUID, c Competencia) (decimal.Decimal, bool) {
	fator, ok := q.FatorPA(local.SecaoID)
	if !ok {
		return decimal.Zero, false
	}
	return q.HC(local, funcaoID, c).Div(fator), true
}

// ── Resolver ──────────────────────────────────────────────────────────────────

// EntradaQuadro is everything the resolver needs for one scenario.
type EntradaQuadro struct {
	Periodo  []Competencia
	Posicoes []Posicao
	Spans    []RegraSpan
	Grupos   []GrupoRateio
	FatorPA  map[uuid.UUID]decimal.Decimal
	// RecalcularSpans ignores applied span values and derives every span
	// position from its base functions.
	RecalcularSpans bool
}

// ResultadoQuadro is the resolved headcount plus the span values computed
// live and the per-item problems found along the way.
type ResultadoQuadro struct {
	Quadro     *Quadro
	Spans      []QuantidadeSpan
	Pendencias []Pendencia
}

// ResolverQuadro resolves every position for every month of the period.
// Manual (and applied span) quantities are registered first. Live span and
// rateio positions then follow function by function in dependency order: a
// span waits for its base functions and a rateio waits for its group's origin
// function, whichever way each of those is derived. A dependency loop between
// them is rejected with *ErroCiclo.
func ResolverQuadro(e EntradaQuadro) (*ResultadoQuadro, error) {
	if err := validarPosicoes(e.Posicoes); err != nil {
		return nil, err
	}
	regras, err := indexarSpans(e.Spans)
	if err != nil {
		return nil, err
	}
	if _, err := OrdenarSpans(e.Spans); err != nil {
		return nil, err
	}
	grupos, err := validarGrupos(e.Grupos, e.Posicoes)
	if err != nil {
		return nil, err
	}

	res := &ResultadoQuadro{Quadro: novoQuadro(e.FatorPA)}
	q := res.Quadro

	derivadas := make(map[uuid.UUID]*posicoesDerivadas)
	derivada := func(f uuid.UUID) *posicoesDerivadas {
		pd, ok := derivadas[f]
		if !ok {
			pd = &posicoesDerivadas{}
			derivadas[f] = pd
		}
		return pd
	}
	for _, p := range e.Posicoes {
		switch d := p.Derivacao.(type) {
		case Manual:
			registrarMeses(q, p, e.Periodo, d.Quantidades)
		case Span:
			if !e.RecalcularSpans && d.Aplicadas != nil {
				registrarMeses(q, p, e.Periodo, d.Aplicadas)
				continue
			}
			pd := derivada(p.FuncaoID)
			pd.spans = append(pd.spans, p)
		case Rateio:
			pd := derivada(p.FuncaoID)
			pd.rateios = append(pd.rateios, p)
		}
	}

	ordem, err := ordenarDerivadas(derivadas, e.Spans, grupos)
	if err != nil {
		return nil, err
	}
	totais := make(map[uuid.UUID]map[Competencia]decimal.Decimal, len(grupos))
	for _, f := range ordem {
		pd := derivadas[f]
		spans, pend := resolverSpans(q, e.Periodo, regras, pd.spans)
		res.Spans = append(res.Spans, spans...)
		res.Pendencias = append(res.Pendencias, pend...)
		res.Pendencias = append(res.Pendencias, resolverRateios(q, e.Periodo, grupos, totais, pd.rateios)...)
	}
	return res, nil
}

// posicoesDerivadas are the positions of one function still to be computed.
type posicoesDerivadas struct {
	spans   []Posicao
	rateios []Posicao
}

func ordenarDerivadas(derivadas map[uuid.UUID]*posicoesDerivadas, regras []RegraSpan, grupos map[uuid.UUID]GrupoRateio) ([]uuid.UUID, error) {
	deps := make(map[uuid.UUID][]uuid.UUID, len(derivadas))
	for f := range derivadas {
		deps[f] = nil
	}
	for _, r := range regras {
		if pd, ok := derivadas[r.FuncaoID]; ok && len(pd.spans) > 0 {
			deps[r.FuncaoID] = append(deps[r.FuncaoID], r.Bases...)
		}
	}
	for f, pd := range derivadas {
		for _, p := range pd.rateios {
			if g := grupos[p.Derivacao.(Rateio).GrupoID]; g.FuncaoOrigemID != nil {
				deps[f] = append(deps[f], *g.FuncaoOrigemID)
			}
		}
	}
	return ordenarDependencias(deps)
}

func registrarMeses(q *Quadro, p Posicao, periodo []Competencia, qtds map[Competencia]decimal.Decimal) {
	for _, c := range periodo {
		q.registrar(p, c, qtds[c])
	}
}

func validarPosicoes(posicoes []Posicao) error {
	vistos := make(map[uuid.UUID]struct{}, len(posicoes))
	for _, p := range posicoes {
		if p.Derivacao == nil {
			return novoErroValidacao("tipo_calculo", "posição %s sem estratégia de cálculo", p.ID)
		}
		if p.Regime != RegimeCLT && p.Regime != RegimePJ {
			return novoErroValidacao("regime", "regime inválido %q na posição %s", p.Regime, p.ID)
		}
		if _, dup := vistos[p.ID]; dup {
			return novoErroValidacao("id", "posição %s duplicada", p.ID)
		}
		vistos[p.ID] = struct{}{}
	}
	return nil
}

func validarGrupos(grupos []GrupoRateio, posicoes []Posicao) (map[uuid.UUID]GrupoRateio, error) {
	idx := make(map[uuid.UUID]GrupoRateio, len(grupos))
	for _, g := range grupos {
		if g.QuantidadeFixa == nil && g.FuncaoOrigemID == nil {
			return nil, novoErroValidacao("rateio_grupo", "grupo %s sem total de origem", g.ID)
		}
		if g.QuantidadeFixa != nil && g.FuncaoOrigemID != nil {
			return nil, novoErroValidacao("rateio_grupo", "grupo %s com total fixo e função de origem ao mesmo tempo", g.ID)
		}
		idx[g.ID] = g
	}

	membros := make(map[uuid.UUID][]decimal.Decimal)
	funcoesRateio := make(map[uuid.UUID]struct{})
	for _, p := range posicoes {
		r, ok := p.Derivacao.(Rateio)
		if !ok {
			continue
		}
		if _, existe := idx[r.GrupoID]; !existe {
			return nil, novoErroValidacao("rateio_grupo_id", "posição %s aponta para grupo de rateio inexistente", p.ID)
		}
		membros[r.GrupoID] = append(membros[r.GrupoID], r.Percentual)
		funcoesRateio[p.FuncaoID] = struct{}{}
	}
	for id, pcts := range membros {
		if err := ValidarPercentuais(pcts); err != nil {
			return nil, novoErroValidacao("rateio_percentual", "grupo %s: %s", id, err.Error())
		}
	}
	for _, g := range grupos {
		if g.FuncaoOrigemID == nil {
			continue
		}
		if _, circular := funcoesRateio[*g.FuncaoOrigemID]; circular {
			return nil, novoErroValidacao("funcao_origem_id", "grupo %s usa como origem uma função derivada por rateio", g.ID)
		}
	}
	return idx, nil
}

// resolverRateios registers rateio positions from their group totals. A total
// is read once, the first time its group is used; the origin function of a
// group is never rateio-derived, so later registrations do not change it.
func resolverRateios(q *Quadro, periodo []Competencia, grupos map[uuid.UUID]GrupoRateio, totais map[uuid.UUID]map[Competencia]decimal.Decimal, rateios []Posicao) []Pendencia {
	sort.SliceStable(rateios, func(i, j int) bool { return rateios[i].ID.String() < rateios[j].ID.String() })
	var pend []Pendencia
	for _, p := range rateios {
		r := p.Derivacao.(Rateio)
		if r.Percentual.IsNegative() {
			id := p.ID
			pend = append(pend, novaPendencia("quadro_pessoal", &id, nil, "percentual de rateio negativo").na(p.Local))
			continue
		}
		total, ok := totais[r.GrupoID]
		if !ok {
			g := grupos[r.GrupoID]
			total = make(map[Competencia]decimal.Decimal, len(periodo))
			for _, c := range periodo {
				if g.QuantidadeFixa != nil {
					total[c] = *g.QuantidadeFixa
				} else {
					total[c] = q.TotalFuncao(*g.FuncaoOrigemID, c)
				}
			}
			totais[r.GrupoID] = total
		}
		for _, c := range periodo {
			q.registrar(p, c, percentual(total[c], r.Percentual))
		}
	}
	return pend
}
