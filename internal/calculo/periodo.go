package calculo

import (
	"fmt"
	"time"
)

// Competencia is a (year, month) pair of the planning horizon.
type Competencia struct {
	Ano int `json:"ano"`
	Mes int `json:"mes"`
}

func (c Competencia) String() string { return fmt.Sprintf("%04d-%02d", c.Ano, c.Mes) }

// Proxima returns the following month, rolling the year over after December.
func (c Competencia) Proxima() Competencia {
	if c.Mes == 12 {
		return Competencia{Ano: c.Ano + 1, Mes: 1}
	}
	return Competencia{Ano: c.Ano, Mes: c.Mes + 1}
}

// Antes reports whether c precedes o.
func (c Competencia) Antes(o Competencia) bool {
	if c.Ano != o.Ano {
		return c.Ano < o.Ano
	}
	return c.Mes < o.Mes
}

func (c Competencia) valida() bool { return c.Mes >= 1 && c.Mes <= 12 && c.Ano > 0 }

// ExpandirPeriodo lists every month between start and end, both inclusive.
func ExpandirPeriodo(anoInicio, mesInicio, anoFim, mesFim int) ([]Competencia, error) {
	inicio := Competencia{Ano: anoInicio, Mes: mesInicio}
	fim := Competencia{Ano: anoFim, Mes: mesFim}
	if !inicio.valida() {
		return nil, novoErroValidacao("mes_inicio", "competência inicial inválida (%d/%d)", mesInicio, anoInicio)
	}
	if !fim.valida() {
		return nil, novoErroValidacao("mes_fim", "competência final inválida (%d/%d)", mesFim, anoFim)
	}
	if fim.Antes(inicio) {
		return nil, ErrPeriodoInvalido
	}

	var periodo []Competencia
	for c := inicio; !fim.Antes(c); c = c.Proxima() {
		periodo = append(periodo, c)
	}
	return periodo, nil
}

// Calendario resolves the number of business days of a month.
type Calendario interface {
	DiasUteis(ano, mes int) int
}

// CalendarioFeriados counts Monday–Friday days minus the registered holidays.
type CalendarioFeriados struct {
	feriados map[time.Time]struct{}
}

func NovoCalendario(feriados []time.Time) *CalendarioFeriados {
	c := &CalendarioFeriados{feriados: make(map[time.Time]struct{}, len(feriados))}
	for _, f := range feriados {
		c.feriados[truncarDia(f)] = struct{}{}
	}
	return c
}

func (c *CalendarioFeriados) DiasUteis(ano, mes int) int {
	dia := time.Date(ano, time.Month(mes), 1, 0, 0, 0, 0, time.UTC)
	total := 0
	for dia.Month() == time.Month(mes) {
		if dia.Weekday() != time.Saturday && dia.Weekday() != time.Sunday {
			if _, feriado := c.feriados[dia]; !feriado {
				total++
			}
		}
		dia = dia.AddDate(0, 0, 1)
	}
	return total
}

func truncarDia(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
