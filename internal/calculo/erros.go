// Package calculo holds the pure budget calculation engine: period expansion,
// headcount resolution (manual, span, rateio), cost, payroll, revenue and DRE
// aggregation. Nothing in here touches the database; the service layer loads
// a scenario, converts it into these types and persists the results.
package calculo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrPeriodoInvalido = errors.New("data final deve ser posterior à data inicial")
	ErrCicloSpan       = errors.New("ciclo detectado na configuração de spans")
)

// ErroValidacao is a client-correctable configuration error scoped to a field
// or group. Computation never starts when one is returned.
type ErroValidacao struct {
	Campo    string
	Mensagem string
}

func (e *ErroValidacao) Error() string {
	if e.Campo == "" {
		return e.Mensagem
	}
	return e.Campo + ": " + e.Mensagem
}

func novoErroValidacao(campo, formato string, args ...any) *ErroValidacao {
	return &ErroValidacao{Campo: campo, Mensagem: fmt.Sprintf(formato, args...)}
}

// ErroCiclo reports the chain of functions forming a span cycle.
type ErroCiclo struct {
	Caminho []uuid.UUID
}

func (e *ErroCiclo) Error() string {
	ids := make([]string, 0, len(e.Caminho))
	for _, id := range e.Caminho {
		ids = append(ids, id.String())
	}
	return fmt.Sprintf("%s: %s", ErrCicloSpan.Error(), strings.Join(ids, " -> "))
}

func (e *ErroCiclo) Unwrap() error { return ErrCicloSpan }

// Pendencia is a per-item computation problem (division by zero, missing
// premise, missing span rule). The affected item is skipped and the rest of
// the batch is still computed.
type Pendencia struct {
	Referencia   string       `json:"referencia"`
	ReferenciaID *uuid.UUID   `json:"referencia_id,omitempty"`
	Competencia  *Competencia `json:"competencia,omitempty"`
	Mensagem     string       `json:"mensagem"`
	// SecaoID is the section of the item the problem belongs to.
	SecaoID *uuid.UUID `json:"secao_id,omitempty"`
}

func novaPendencia(ref string, id *uuid.UUID, comp *Competencia, formato string, args ...any) Pendencia {
	return Pendencia{
		Referencia:   ref,
		ReferenciaID: id,
		Competencia:  comp,
		Mensagem:     fmt.Sprintf(formato, args...),
	}
}

func (p Pendencia) na(local Local) Pendencia {
	secao := local.SecaoID
	p.SecaoID = &secao
	return p
}
