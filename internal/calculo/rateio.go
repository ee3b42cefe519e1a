package calculo

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ToleranciaRateio is the accepted deviation of a rateio group's percentage
// sum from 100.
var ToleranciaRateio = decimal.RequireFromString("0.01")

// ValidarPercentuais checks that a rateio group's percentages are non-negative
// and add up to 100 within ToleranciaRateio.
func ValidarPercentuais(pcts []decimal.Decimal) error {
	if len(pcts) == 0 {
		return errors.New("grupo de rateio vazio")
	}
	soma := decimal.Zero
	for _, p := range pcts {
		if p.IsNegative() {
			return fmt.Errorf("percentual negativo (%s)", p.String())
		}
		soma = soma.Add(p)
	}
	if soma.Sub(cem).Abs().GreaterThan(ToleranciaRateio) {
		return fmt.Errorf("percentuais somam %s, esperado 100", soma.String())
	}
	return nil
}

// DividirValor splits total by the given percentages, rounded to cents. The
// rounding remainder goes to the last share so the shares always add up to
// the rounded total.
func DividirValor(total decimal.Decimal, pcts []decimal.Decimal) []decimal.Decimal {
	partes := make([]decimal.Decimal, len(pcts))
	if len(pcts) == 0 {
		return partes
	}
	alvo := arredondar(total)
	acumulado := decimal.Zero
	for i, p := range pcts[:len(pcts)-1] {
		partes[i] = arredondar(percentual(total, p))
		acumulado = acumulado.Add(partes[i])
	}
	partes[len(pcts)-1] = alvo.Sub(acumulado)
	return partes
}
