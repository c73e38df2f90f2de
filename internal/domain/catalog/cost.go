package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Insumos-api/internal/domain/entity"
)

// InputSubtotal costo de un insumo dentro de una ficha técnica: precio unitario × cantidad.
// Cantidades o precios negativos cuentan como cero.
func InputSubtotal(unitPrice, quantity decimal.Decimal) decimal.Decimal {
	if unitPrice.IsNegative() || quantity.IsNegative() {
		return decimal.Zero
	}
	return unitPrice.Mul(quantity)
}

// PriceInputs completa el Subtotal de cada insumo y devuelve el costo total de la ficha.
func PriceInputs(inputs []entity.ProductInput) decimal.Decimal {
	total := decimal.Zero
	for i := range inputs {
		inputs[i].Subtotal = InputSubtotal(inputs[i].UnitPrice, inputs[i].Quantity)
		total = total.Add(inputs[i].Subtotal)
	}
	return total
}
