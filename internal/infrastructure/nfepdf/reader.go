package nfepdf

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/jhoicas/Insumos-api/internal/domain"
)

// Separaciones horizontales (puntos PDF) entre fragmentos de texto de una misma fila.
const (
	wordGap = 1.0 // mayor que esto: espacio entre palabras
	cellGap = 6.0 // mayor que esto: nueva celda
)

// pageContent texto de la primera página: filas divididas en celdas, el texto plano
// (celdas unidas por espacio, filas por salto de línea) y las tablas detectadas.
type pageContent struct {
	Rows   [][]string
	Text   string
	Tables [][][]string
}

// readFirstPage abre el PDF en memoria y extrae el contenido de la página 1.
func readFirstPage(data []byte) (page *pageContent, err error) {
	defer func() {
		if r := recover(); r != nil {
			page = nil
			err = domain.NewExtractionError(domain.KindParseFailure, "PDF ilegible", fmt.Errorf("%v", r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, domain.NewExtractionError(domain.KindParseFailure, "PDF inválido", err)
	}
	if reader.NumPage() < 1 {
		return nil, domain.NewExtractionError(domain.KindParseFailure, "PDF sin páginas", nil)
	}
	p := reader.Page(1)
	if p.V.IsNull() {
		return nil, domain.NewExtractionError(domain.KindParseFailure, "primera página vacía", nil)
	}
	rows, err := p.GetTextByRow()
	if err != nil {
		return nil, domain.NewExtractionError(domain.KindParseFailure, "no se pudo leer el texto del PDF", err)
	}
	// De arriba hacia abajo: mayor Y primero.
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Position > rows[j].Position })

	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		if c := splitCells(row.Content); len(c) > 0 {
			cells = append(cells, c)
		}
	}
	return newPageContent(cells), nil
}

// newPageContent arma el texto plano y detecta tablas a partir de filas ya divididas en celdas.
func newPageContent(rows [][]string) *pageContent {
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, strings.Join(r, " "))
	}
	return &pageContent{
		Rows:   rows,
		Text:   strings.Join(lines, "\n"),
		Tables: detectTables(rows),
	}
}

// splitCells agrupa los fragmentos de una fila en celdas según la distancia horizontal.
func splitCells(texts pdf.TextHorizontal) []string {
	if len(texts) == 0 {
		return nil
	}
	sorted := make([]pdf.Text, len(texts))
	copy(sorted, texts)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	var cells []string
	var cur strings.Builder
	prevEnd := 0.0
	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			cells = append(cells, s)
		}
		cur.Reset()
	}
	for i, t := range sorted {
		if i > 0 {
			gap := t.X - prevEnd
			switch {
			case gap > cellGap:
				flush()
			case gap > wordGap:
				cur.WriteByte(' ')
			}
		}
		cur.WriteString(t.S)
		prevEnd = t.X + textWidth(t)
	}
	flush()
	return cells
}

// textWidth ancho del fragmento; algunas fuentes no informan W y se estima con el tamaño de letra.
func textWidth(t pdf.Text) float64 {
	if t.W > 0 {
		return t.W
	}
	return float64(len([]rune(t.S))) * t.FontSize * 0.5
}

// detectTables agrupa filas consecutivas con dos o más celdas; un bloque de al menos dos filas es una tabla.
func detectTables(rows [][]string) [][][]string {
	var tables [][][]string
	var cur [][]string
	flush := func() {
		if len(cur) >= 2 {
			tables = append(tables, cur)
		}
		cur = nil
	}
	for _, r := range rows {
		if len(r) >= 2 {
			cur = append(cur, r)
			continue
		}
		flush()
	}
	flush()
	return tables
}
