package calculo

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RegraSpan derives a target function's quantity from its base functions:
// ceil(Σ base quantities at the same cost center / Ratio). SecaoID nil makes
// the rule valid for every section of the scenario.
type RegraSpan struct {
	ID       uuid.UUID
	SecaoID  *uuid.UUID
	FuncaoID uuid.UUID
	Bases    []uuid.UUID
	Ratio    decimal.Decimal
}

// QuantidadeSpan is a value computed for one span position and month.
type QuantidadeSpan struct {
	PosicaoID   uuid.UUID
	RegraID     uuid.UUID
	FuncaoID    uuid.UUID
	Local       Local
	Competencia Competencia
	SomaBase    decimal.Decimal
	Ratio       decimal.Decimal
	Quantidade  decimal.Decimal
}

type chaveRegra struct {
	funcaoID uuid.UUID
	secaoID  uuid.UUID // uuid.Nil for scenario-wide rules
}

func indexarSpans(regras []RegraSpan) (map[chaveRegra]RegraSpan, error) {
	idx := make(map[chaveRegra]RegraSpan, len(regras))
	for _, r := range regras {
		if len(r.Bases) == 0 {
			return nil, novoErroValidacao("funcoes_base", "span %s sem funções base", r.ID)
		}
		for _, b := range r.Bases {
			if b == r.FuncaoID {
				return nil, novoErroValidacao("funcoes_base", "span %s referencia a própria função", r.ID)
			}
		}
		k := chaveRegra{funcaoID: r.FuncaoID}
		if r.SecaoID != nil {
			k.secaoID = *r.SecaoID
		}
		if _, dup := idx[k]; dup {
			return nil, novoErroValidacao("funcao_id", "mais de um span para a função %s no mesmo escopo", r.FuncaoID)
		}
		idx[k] = r
	}
	return idx, nil
}

// OrdenarSpans returns the span target functions ordered so that every
// function comes after the span-derived functions it depends on. A chain that
// loops back (A from B, B from A) is rejected with *ErroCiclo before anything
// is computed.
func OrdenarSpans(regras []RegraSpan) ([]uuid.UUID, error) {
	deps := make(map[uuid.UUID][]uuid.UUID)
	for _, r := range regras {
		deps[r.FuncaoID] = append(deps[r.FuncaoID], r.Bases...)
	}
	return ordenarDependencias(deps)
}

// ordenarDependencias is a depth-first topological sort over function IDs.
// Only keys of deps are ordered; edges to other functions are ignored since
// those are already resolved.
func ordenarDependencias(deps map[uuid.UUID][]uuid.UUID) ([]uuid.UUID, error) {
	alvos := make([]uuid.UUID, 0, len(deps))
	for f := range deps {
		alvos = append(alvos, f)
	}
	sort.Slice(alvos, func(i, j int) bool { return alvos[i].String() < alvos[j].String() })

	const (
		branco = iota
		cinza
		preto
	)
	cor := make(map[uuid.UUID]int, len(deps))
	ordem := make([]uuid.UUID, 0, len(deps))
	var pilha []uuid.UUID

	var visitar func(f uuid.UUID) error
	visitar = func(f uuid.UUID) error {
		cor[f] = cinza
		pilha = append(pilha, f)
		for _, b := range deps[f] {
			if _, derivada := deps[b]; !derivada {
				continue
			}
			switch cor[b] {
			case cinza:
				return &ErroCiclo{Caminho: caminhoCiclo(pilha, b)}
			case branco:
				if err := visitar(b); err != nil {
					return err
				}
			}
		}
		pilha = pilha[:len(pilha)-1]
		cor[f] = preto
		ordem = append(ordem, f)
		return nil
	}

	for _, f := range alvos {
		if cor[f] == branco {
			if err := visitar(f); err != nil {
				return nil, err
			}
		}
	}
	return ordem, nil
}

func caminhoCiclo(pilha []uuid.UUID, inicio uuid.UUID) []uuid.UUID {
	for i, f := range pilha {
		if f == inicio {
			caminho := append([]uuid.UUID{}, pilha[i:]...)
			return append(caminho, inicio)
		}
	}
	return append(append([]uuid.UUID{}, pilha...), inicio)
}

func regraPara(regras map[chaveRegra]RegraSpan, p Posicao) (RegraSpan, bool) {
	if r, ok := regras[chaveRegra{funcaoID: p.FuncaoID, secaoID: p.Local.SecaoID}]; ok {
		return r, true
	}
	r, ok := regras[chaveRegra{funcaoID: p.FuncaoID}]
	return r, ok
}

// SpanQuantidade is the span formula itself.
func SpanQuantidade(somaBase, ratio decimal.Decimal) decimal.Decimal {
	return somaBase.Div(ratio).Ceil()
}

func resolverSpans(q *Quadro, periodo []Competencia, regras map[chaveRegra]RegraSpan, posicoes []Posicao) ([]QuantidadeSpan, []Pendencia) {
	var (
		out  []QuantidadeSpan
		pend []Pendencia
	)
	for _, p := range posicoes {
		id := p.ID
		regra, ok := regraPara(regras, p)
		if !ok {
			pend = append(pend, novaPendencia("quadro_pessoal", &id, nil, "posição span sem regra de span configurada para a função %s", p.FuncaoID).na(p.Local))
			registrarMeses(q, p, periodo, nil)
			continue
		}
		if !regra.Ratio.IsPositive() {
			pend = append(pend, novaPendencia("funcao_span", &regra.ID, nil, "ratio do span deve ser maior que zero (função %s)", p.FuncaoID).na(p.Local))
			registrarMeses(q, p, periodo, nil)
			continue
		}
		for _, c := range periodo {
			soma := decimal.Zero
			for _, b := range regra.Bases {
				base := b
				soma = soma.Add(q.HC(p.Local, &base, c))
			}
			qtd := SpanQuantidade(soma, regra.Ratio)
			q.registrar(p, c, qtd)
			out = append(out, QuantidadeSpan{
				PosicaoID:   p.ID,
				RegraID:     regra.ID,
				FuncaoID:    p.FuncaoID,
				Local:       p.Local,
				Competencia: c,
				SomaBase:    soma,
				Ratio:       regra.Ratio,
				Quantidade:  qtd,
			})
		}
	}
	return out, pend
}
