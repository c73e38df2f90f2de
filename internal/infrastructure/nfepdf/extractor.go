// Package nfepdf extrae cabecera y líneas de producto del DANFE (representación impresa de la NF-e)
// a partir de la primera página del PDF.
//
// Las líneas se buscan primero en la tabla de productos y, si no hay ninguna válida, en el
// texto de la sección "DADOS DOS PRODUTOS / SERVIÇOS".
package nfepdf

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Insumos-api/internal/domain"
	"github.com/jhoicas/Insumos-api/internal/domain/catalog"
	"github.com/jhoicas/Insumos-api/internal/domain/entity"
	"github.com/jhoicas/Insumos-api/pkg/nfe"
)

// Extractor convierte bytes de un DANFE en PDF en un entity.ExtractedInvoice.
type Extractor struct {
	codes *catalog.CodeGenerator
	now   func() time.Time
	log   zerolog.Logger
}

// NewExtractor construye el extractor.
func NewExtractor(codes *catalog.CodeGenerator, log zerolog.Logger) *Extractor {
	return &Extractor{codes: codes, now: time.Now, log: log}
}

// WithClock fija el reloj (fecha de emisión por omisión y ExtractedAt).
func (e *Extractor) WithClock(now func() time.Time) *Extractor {
	e.now = now
	return e
}

// Extract lee la página 1 del PDF y devuelve cabecera y líneas válidas.
func (e *Extractor) Extract(data []byte, existing catalog.CodeSet) (out *entity.ExtractedInvoice, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = domain.NewExtractionError(domain.KindUnexpected, "error inesperado procesando el PDF", fmt.Errorf("%v", r))
		}
	}()
	page, err := readFirstPage(data)
	if err != nil {
		return nil, err
	}
	return e.extractFromPage(page, existing)
}

func (e *Extractor) extractFromPage(page *pageContent, existing catalog.CodeSet) (*entity.ExtractedInvoice, error) {
	now := e.now()
	header := extractHeader(page.Text, now)

	candidates, strategy := selectCandidates(page)
	if len(candidates) == 0 {
		return nil, domain.NewExtractionError(domain.KindNoItemsFound, "no se encontraron productos válidos en el DANFE", nil)
	}
	e.log.Debug().Str("estrategia", strategy).Int("items", len(candidates)).Msg("líneas extraídas del DANFE")

	if existing == nil {
		existing = catalog.NewCodeSet()
	}
	items := make([]entity.LineItem, 0, len(candidates))
	for _, c := range candidates {
		code := c.Code
		if strings.HasPrefix(code, placeholderCode) {
			code = ""
		}
		items = append(items, entity.LineItem{
			Code:          e.codes.Ensure(code, existing),
			Name:          c.Name,
			Unit:          c.Unit,
			Quantity:      c.Quantity,
			UnitPrice:     nfe.NonNegative(c.UnitPrice),
			EmissionDate:  header.EmissionDate,
			SupplierName:  header.SupplierName,
			SupplierTaxID: header.SupplierTaxID,
			ExtractedAt:   now,
		})
	}
	return &entity.ExtractedInvoice{Header: header, Items: items}, nil
}
