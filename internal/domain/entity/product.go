package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product es una ficha técnica: un producto armado a partir de insumos del catálogo.
// TotalCost es la suma de los subtotales de sus insumos.
type Product struct {
	ID        string
	Name      string
	NameLower string // clave de unicidad (case-fold del nombre)
	Inputs    []ProductInput
	TotalCost decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProductInput insumo consumido por un producto.
type ProductInput struct {
	ItemID    string          `json:"item_id,omitempty"`
	Code      string          `json:"codigo,omitempty"`
	Name      string          `json:"nome"`
	Unit      string          `json:"unidade"`
	UnitPrice decimal.Decimal `json:"valor_unitario"`
	Quantity  decimal.Decimal `json:"quantidade"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}
