// Package nfe reúne utilidades de formato de la Nota Fiscal Eletrônica brasileña:
// montos en notación local, CNPJ y fechas dd/mm/aaaa.
package nfe

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount se devuelve cuando un monto no puede interpretarse en modo estricto.
var ErrInvalidAmount = errors.New("nfe: monto inválido")

// ParseDecimal interpreta montos escritos en notación brasileña o con punto decimal.
// Elimina el símbolo "R$" y los espacios. Con punto y coma a la vez, el punto es
// separador de miles y la coma el decimal ("1.234,56" → 1234.56). Con solo coma,
// la coma es el decimal ("12,5" → 12.5). Todo lo que no se pueda interpretar vale 0.
func ParseDecimal(raw string) decimal.Decimal {
	s := strings.ReplaceAll(raw, "R$", "")
	s = strings.Join(strings.Fields(s), "")
	if s == "" {
		return decimal.Zero
	}
	hasDot := strings.Contains(s, ".")
	hasComma := strings.Contains(s, ",")
	switch {
	case hasDot && hasComma:
		parts := strings.Split(s, ",")
		if len(parts) != 2 {
			return decimal.Zero
		}
		s = strings.ReplaceAll(parts[0], ".", "") + "." + parts[1]
	case hasComma:
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseDecimalStrict acepta un número con punto o coma decimal y falla en lugar de devolver 0.
// Se usa para datos capturados por el usuario (altas y ediciones manuales).
func ParseDecimalStrict(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// NonNegative fuerza a cero los montos negativos.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
