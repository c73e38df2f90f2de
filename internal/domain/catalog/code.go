// Package catalog contiene la lógica pura del catálogo de insumos: códigos de producto,
// normalización de nombres y consolidación de registros para búsqueda y paginación.
package catalog

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

const (
	// CodeLength dígitos de un código generado.
	CodeLength = 6
	// MinCodeLength longitud mínima para conservar un código extraído.
	MinCodeLength = 4

	codeSpace       = 1_000_000
	maxCodeAttempts = 100
)

// CodeSet conjunto de códigos ya usados (catálogo existente más los emitidos en la importación en curso).
type CodeSet map[string]struct{}

// NewCodeSet construye el conjunto a partir de una lista de códigos; ignora los vacíos.
func NewCodeSet(codes ...string) CodeSet {
	s := make(CodeSet, len(codes))
	for _, c := range codes {
		s.Add(c)
	}
	return s
}

// Has indica si el código ya está tomado.
func (s CodeSet) Has(code string) bool {
	_, ok := s[code]
	return ok
}

// Add registra el código como tomado.
func (s CodeSet) Add(code string) {
	if code = strings.TrimSpace(code); code != "" {
		s[code] = struct{}{}
	}
}

// CodeGenerator emite códigos numéricos de 6 dígitos que no colisionan con un CodeSet.
type CodeGenerator struct {
	intn func(n int) int
	now  func() time.Time
}

// NewCodeGenerator generador con la fuente aleatoria global y el reloj del sistema.
func NewCodeGenerator() *CodeGenerator {
	return &CodeGenerator{intn: rand.Intn, now: time.Now}
}

// NewCodeGeneratorWith permite fijar la fuente aleatoria y el reloj (tests).
func NewCodeGeneratorWith(intn func(n int) int, now func() time.Time) *CodeGenerator {
	return &CodeGenerator{intn: intn, now: now}
}

// Generate devuelve un código de 6 dígitos ausente en existing. Tras 100 intentos
// fallidos cae a los 6 últimos dígitos del timestamp Unix, que pueden colisionar.
// No agrega el código al conjunto.
func (g *CodeGenerator) Generate(existing CodeSet) string {
	for i := 0; i < maxCodeAttempts; i++ {
		code := fmt.Sprintf("%0*d", CodeLength, g.intn(codeSpace))
		if !existing.Has(code) {
			return code
		}
	}
	return fmt.Sprintf("%0*d", CodeLength, g.now().Unix()%codeSpace)
}

// NeedsRepair indica si un código extraído debe reemplazarse (vacío o más corto que MinCodeLength).
func NeedsRepair(code string) bool {
	return len([]rune(strings.TrimSpace(code))) < MinCodeLength
}

// Ensure devuelve code si es utilizable o un código nuevo si no lo es.
// En ambos casos el código resultante queda registrado en existing para el resto del lote.
func (g *CodeGenerator) Ensure(code string, existing CodeSet) string {
	code = strings.TrimSpace(code)
	if NeedsRepair(code) {
		code = g.Generate(existing)
	}
	existing.Add(code)
	return code
}
