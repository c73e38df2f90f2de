package nfe

import (
	"fmt"
	"unicode"
)

// pesos del módulo 11 para los dígitos verificadores del CNPJ (Receita Federal).
var (
	cnpjWeightsFirst  = [12]int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjWeightsSecond = [13]int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// ValidateCNPJ valida que el CNPJ (con o sin puntos, barra y guion) tenga 14 dígitos
// y dígitos verificadores correctos. "11.222.333/0001-81" y "11222333000181" son equivalentes.
func ValidateCNPJ(taxID string) error {
	digits := OnlyDigits(taxID)
	if len(digits) != 14 {
		return fmt.Errorf("nfe: CNPJ debe tener 14 dígitos, se encontraron %d", len(digits))
	}
	first := checkDigit(digits[:12], cnpjWeightsFirst[:])
	if digits[12] != first {
		return fmt.Errorf("nfe: primer dígito verificador del CNPJ inválido: esperado %c, recibido %c", first, digits[12])
	}
	second := checkDigit(digits[:13], cnpjWeightsSecond[:])
	if digits[13] != second {
		return fmt.Errorf("nfe: segundo dígito verificador del CNPJ inválido: esperado %c, recibido %c", second, digits[13])
	}
	return nil
}

// FormatCNPJ devuelve el CNPJ con máscara NN.NNN.NNN/NNNN-NN. Si no tiene 14 dígitos lo devuelve sin cambios.
func FormatCNPJ(taxID string) string {
	d := OnlyDigits(taxID)
	if len(d) != 14 {
		return taxID
	}
	return d[0:2] + "." + d[2:5] + "." + d[5:8] + "/" + d[8:12] + "-" + d[12:14]
}

// OnlyDigits descarta todo lo que no sea dígito decimal.
func OnlyDigits(s string) string {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r < unicode.MaxASCII && unicode.IsDigit(r) {
			out = append(out, byte(r))
		}
	}
	return string(out)
}

func checkDigit(base string, weights []int) byte {
	var sum int
	for i := 0; i < len(base); i++ {
		sum += int(base[i]-'0') * weights[i]
	}
	remainder := sum % 11
	if remainder < 2 {
		return '0'
	}
	return byte('0' + (11 - remainder))
}
