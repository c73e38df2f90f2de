package catalog

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
)

// número pegado a una unidad de medida: "10mm" → "10 mm".
var unitSuffix = regexp.MustCompile(`(\d)(mm|cm|m|kg|mg|g|ml|l|un|pc|pcs)\b`)

// Fold pliega mayúsculas/minúsculas según Unicode (comparaciones sin distinguir caja).
func Fold(s string) string {
	return cases.Fold().String(s)
}

// NormalizeName clave de equivalencia de un nombre de insumo: case-fold, coma decimal
// como punto, espacios colapsados y un espacio entre el número y su unidad.
// Es idempotente: NormalizeName(NormalizeName(x)) == NormalizeName(x).
func NormalizeName(name string) string {
	s := Fold(name)
	s = strings.ReplaceAll(s, ",", ".")
	s = strings.Join(strings.Fields(s), " ")
	return unitSuffix.ReplaceAllString(s, "$1 $2")
}
