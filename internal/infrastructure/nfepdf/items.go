package nfepdf

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Insumos-api/pkg/nfe"
)

// candidate línea de producto cruda, antes del filtro de validación y la reparación de código.
type candidate struct {
	Code      string
	Name      string
	Unit      string
	Quantity  string
	UnitPrice decimal.Decimal
}

// itemStrategy una forma de leer las líneas de producto del DANFE. Cada estrategia es pura.
type itemStrategy struct {
	name string
	run  func(page *pageContent) []candidate
}

// estrategias en orden de prioridad: gana la primera que produzca al menos una línea válida.
var itemStrategies = []itemStrategy{
	{name: "tabla", run: tableCandidates},
	{name: "texto", run: textCandidates},
}

// columnas de la tabla de productos del DANFE.
const (
	colCode     = 0
	colName     = 1
	colUnit     = 5
	colQuantity = 6
	colPrice    = 7
	minColumns  = 7

	defaultTableUnit = "CT"
	placeholderCode  = "PDF_"
)

var (
	tableHeaderMarkers = []string{"CÓDIGO PRODUTO", "DESCRIÇÃO", "QUANT", "VALOR UNIT"}

	reProductsSection = regexp.MustCompile(`(?is)DADOS\s+DOS\s+PRODUTOS\s*/\s*SERVIÇOS(.*?)DADOS\s+ADICIONAIS`)
	reProductLine     = regexp.MustCompile(`(\d{6})\s+(.+?)\s+(\d+)\s+(\d+)\s+(\d+)\s+([A-Z]{2})\s+([\d.,]+)\s+([\d.,]+)`)

	// palabras de ruido administrativo del DANFE que nunca son productos.
	noiseKeywords = []string{
		"PROTOCOLO", "PESO", "LIQUIDO", "LÍQUIDO", "ENDERECO", "ENDEREÇO", "CHAVE", "ACESSO", "TOTAL",
	}
)

// selectCandidates ejecuta las estrategias en orden y devuelve las líneas válidas de la primera
// que produzca alguna, junto con el nombre de esa estrategia.
func selectCandidates(page *pageContent) ([]candidate, string) {
	for _, s := range itemStrategies {
		var valid []candidate
		for _, c := range s.run(page) {
			if isValidCandidate(c) {
				valid = append(valid, c)
			}
		}
		if len(valid) > 0 {
			return valid, s.name
		}
	}
	return nil, ""
}

// tableCandidates lee las filas que siguen a la cabecera de la tabla de productos.
func tableCandidates(page *pageContent) []candidate {
	var out []candidate
	for _, table := range page.Tables {
		start := headerRowIndex(table)
		if start < 0 {
			continue
		}
		for _, row := range table[start+1:] {
			if len(row) < minColumns {
				continue
			}
			name := strings.TrimSpace(row[colName])
			if name == "" {
				continue
			}
			out = append(out, candidate{
				Code:      strings.TrimSpace(row[colCode]),
				Name:      name,
				Unit:      cell(row, colUnit, defaultTableUnit),
				Quantity:  cell(row, colQuantity, "0"),
				UnitPrice: nfe.ParseDecimal(cell(row, colPrice, "0")),
			})
		}
	}
	return out
}

// textCandidates aplica la expresión de línea de producto a la sección de productos del texto.
func textCandidates(page *pageContent) []candidate {
	m := reProductsSection.FindStringSubmatch(page.Text)
	if m == nil {
		return nil
	}
	var out []candidate
	for _, g := range reProductLine.FindAllStringSubmatch(m[1], -1) {
		out = append(out, candidate{
			Code:      g[1],
			Name:      strings.TrimSpace(g[2]),
			Unit:      g[6],
			Quantity:  g[7],
			UnitPrice: nfe.ParseDecimal(g[8]),
		})
	}
	return out
}

// isValidCandidate filtro común a todas las estrategias: nombre real, sin palabras de ruido,
// precio y cantidad positivos.
func isValidCandidate(c candidate) bool {
	name := strings.TrimSpace(c.Name)
	if name == "" || name == "Sem nome" {
		return false
	}
	upper := strings.ToUpper(name)
	for _, kw := range noiseKeywords {
		if strings.Contains(upper, kw) {
			return false
		}
	}
	if !c.UnitPrice.IsPositive() {
		return false
	}
	return nfe.ParseDecimal(c.Quantity).IsPositive()
}

func headerRowIndex(table [][]string) int {
	for i, row := range table {
		joined := strings.ToUpper(strings.Join(row, " "))
		for _, marker := range tableHeaderMarkers {
			if strings.Contains(joined, marker) {
				return i
			}
		}
	}
	return -1
}

func cell(row []string, idx int, def string) string {
	if idx >= len(row) {
		return def
	}
	if s := strings.TrimSpace(row[idx]); s != "" {
		return s
	}
	return def
}
