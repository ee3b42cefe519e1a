package service

import (
	"errors"
	"fmt"

	"orcamento/internal/calculo"

	"gorm.io/gorm"
)

// Sentinel kinds the handlers map to HTTP statuses. Concrete errors carry a
// readable message and unwrap to one of these.
var (
	ErrNaoEncontrado     = errors.New("registro não encontrado")
	ErrConflito          = errors.New("conflito")
	ErrCenarioImutavel   = errors.New("cenário não está em rascunho")
	ErrTransicaoInvalida = errors.New("transição de status inválida")
)

type erroServico struct {
	msg  string
	tipo error
}

func (e *erroServico) Error() string { return e.msg }
func (e *erroServico) Unwrap() error { return e.tipo }

func naoEncontrado(entidade string) error {
	return &erroServico{msg: entidade + " não encontrado", tipo: ErrNaoEncontrado}
}

func conflito(formato string, args ...any) error {
	return &erroServico{msg: fmt.Sprintf(formato, args...), tipo: ErrConflito}
}

func invalido(campo, formato string, args ...any) error {
	return &calculo.ErroValidacao{Campo: campo, Mensagem: fmt.Sprintf(formato, args...)}
}

// buscar turns gorm's not-found into ErrNaoEncontrado for entidade.
func buscar(err error, entidade string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return naoEncontrado(entidade)
	}
	return err
}

// Permanente reports whether err comes from the request or the scenario
// state rather than from infrastructure. Retrying such an error yields the
// same result.
func Permanente(err error) bool {
	var ev *calculo.ErroValidacao
	var ec *calculo.ErroCiclo
	return errors.As(err, &ev) ||
		errors.As(err, &ec) ||
		errors.Is(err, calculo.ErrCicloSpan) ||
		errors.Is(err, calculo.ErrPeriodoInvalido) ||
		errors.Is(err, ErrNaoEncontrado) ||
		errors.Is(err, ErrConflito) ||
		errors.Is(err, ErrCenarioImutavel) ||
		errors.Is(err, ErrTransicaoInvalida)
}
