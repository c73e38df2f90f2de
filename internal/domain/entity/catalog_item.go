package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CatalogItem es un insumo persistido en el catálogo (una fila por línea importada o cargada a mano).
// El nombre normalizado no se almacena: se recalcula en cada consulta.
type CatalogItem struct {
	ID            string
	Code          string
	Name          string
	Unit          string
	Quantity      string
	UnitPrice     decimal.Decimal
	EmissionDate  string
	SupplierName  string
	SupplierTaxID string
	ExtractedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
