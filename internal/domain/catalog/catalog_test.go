package catalog_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Insumos-api/internal/domain/catalog"
	"github.com/jhoicas/Insumos-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var baseTime = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

// sequence devuelve una fuente "aleatoria" que entrega los valores en orden y luego repite el último.
func sequence(values ...int) func(int) int {
	i := 0
	return func(int) int {
		v := values[i]
		if i < len(values)-1 {
			i++
		}
		return v
	}
}

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func item(id, code, name, price string, createdAt time.Time) *entity.CatalogItem {
	return &entity.CatalogItem{
		ID:        id,
		Code:      code,
		Name:      name,
		Unit:      "UN",
		UnitPrice: decimal.RequireFromString(price),
		CreatedAt: createdAt,
	}
}

func ids(items []*entity.CatalogItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Códigos
// ──────────────────────────────────────────────────────────────────────────────

func TestGenerate_CodigoDeSeisDigitos(t *testing.T) {
	gen := catalog.NewCodeGeneratorWith(sequence(42), fixedClock(baseTime))
	code := gen.Generate(catalog.NewCodeSet())
	assert.Equal(t, "000042", code)
}

func TestGenerate_EvitaColisiones(t *testing.T) {
	gen := catalog.NewCodeGeneratorWith(sequence(123456, 123456, 654321), fixedClock(baseTime))
	code := gen.Generate(catalog.NewCodeSet("123456"))
	assert.Equal(t, "654321", code, "debe saltar el código ya existente")
}

func TestGenerate_FallbackTimestampTrasCienIntentos(t *testing.T) {
	gen := catalog.NewCodeGeneratorWith(sequence(7), fixedClock(baseTime))
	code := gen.Generate(catalog.NewCodeSet("000007"))
	assert.Equal(t, fmt.Sprintf("%06d", baseTime.Unix()%1_000_000), code)
}

func TestGenerate_FuenteRealProduceSeisDigitos(t *testing.T) {
	gen := catalog.NewCodeGenerator()
	existing := catalog.NewCodeSet()
	for i := 0; i < 50; i++ {
		code := gen.Ensure("", existing)
		assert.Len(t, code, catalog.CodeLength)
	}
	assert.Len(t, existing, 50, "los códigos emitidos en el lote no deben repetirse")
}

func TestEnsure_ReparaCodigosCortosOVacios(t *testing.T) {
	gen := catalog.NewCodeGeneratorWith(sequence(1, 2, 3), fixedClock(baseTime))
	existing := catalog.NewCodeSet()

	assert.Equal(t, "000001", gen.Ensure("", existing))
	assert.Equal(t, "000002", gen.Ensure("12", existing))
	assert.Equal(t, "ABCD", gen.Ensure(" ABCD ", existing), "un código de 4 caracteres se conserva")
	assert.True(t, existing.Has("000001"))
	assert.True(t, existing.Has("000002"))
	assert.True(t, existing.Has("ABCD"))
}

func TestEnsure_CodigosEmitidosNoSeRepitenEnElLote(t *testing.T) {
	gen := catalog.NewCodeGeneratorWith(sequence(5, 5, 6), fixedClock(baseTime))
	existing := catalog.NewCodeSet()
	first := gen.Ensure("", existing)
	second := gen.Ensure("", existing)
	assert.Equal(t, "000005", first)
	assert.Equal(t, "000006", second)
}

// ──────────────────────────────────────────────────────────────────────────────
// Normalización
// ──────────────────────────────────────────────────────────────────────────────

func TestNormalizeName_Equivalencias(t *testing.T) {
	assert.Equal(t, catalog.NormalizeName("Parafuso 10MM"), catalog.NormalizeName("parafuso  10 mm"))
	assert.Equal(t, catalog.NormalizeName("Tubo 1,5m"), catalog.NormalizeName("TUBO 1.5 M"))
	assert.Equal(t, "cola branca 500 ml", catalog.NormalizeName("  Cola   Branca 500ml "))
}

func TestNormalizeName_Idempotente(t *testing.T) {
	inputs := []string{"Parafuso 10MM", "Tubo 1,5m", "  Cola   Branca 500ml ", "Straße 2kg", "ÁGUA 20L", ""}
	for _, in := range inputs {
		once := catalog.NormalizeName(in)
		assert.Equal(t, once, catalog.NormalizeName(once), "entrada %q", in)
	}
}

func TestNormalizeName_NoSeparaPalabras(t *testing.T) {
	assert.Equal(t, "2metros", catalog.NormalizeName("2metros"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Search
// ──────────────────────────────────────────────────────────────────────────────

func TestSearch_ConsolidaPorNombreNormalizado(t *testing.T) {
	records := []*entity.CatalogItem{
		item("a", "100001", "Parafuso 10mm", "1.00", baseTime.Add(3*time.Minute)),
		item("b", "100002", "Porca M8", "0.50", baseTime.Add(2*time.Minute)),
		item("c", "100003", "PARAFUSO 10 MM", "0.80", baseTime.Add(1*time.Minute)),
	}
	got := catalog.Search(records, "", 10)
	assert.Equal(t, []string{"a", "b"}, ids(got), "el registro más reciente representa al nombre")
}

func TestSearch_EmpateEnFechaGanaMayorPrecio(t *testing.T) {
	records := []*entity.CatalogItem{
		item("a", "1", "Cola", "2.00", baseTime),
		item("b", "2", "Arruela", "1.00", baseTime),
		item("c", "3", "cola", "3.50", baseTime),
	}
	got := catalog.Search(records, "", 10)
	require.Len(t, got, 2)
	assert.Equal(t, "c", got[0].ID, "a igual fecha el de mayor precio reemplaza al primero")
	assert.Equal(t, "b", got[1].ID, "el orden de los lugares no cambia")
}

func TestSearch_FiltraPorNombreOCodigoSinCaja(t *testing.T) {
	records := []*entity.CatalogItem{
		item("a", "ABC123", "Tinta azul", "10", baseTime.Add(2*time.Minute)),
		item("b", "XYZ999", "Pincel", "5", baseTime.Add(1*time.Minute)),
		item("c", "QWE111", "TINTA VERMELHA", "12", baseTime),
	}
	assert.Equal(t, []string{"a", "c"}, ids(catalog.Search(records, "tinta", 10)))
	assert.Equal(t, []string{"b"}, ids(catalog.Search(records, "xyz", 10)))
	assert.Empty(t, catalog.Search(records, "nada", 10))
}

func TestSearch_SeDetieneAlAlcanzarElLimite(t *testing.T) {
	records := []*entity.CatalogItem{
		item("a", "1", "Alfa", "1", baseTime),
		item("b", "2", "Beta", "1", baseTime),
		item("c", "3", "alfa", "9", baseTime),
	}
	got := catalog.Search(records, "", 2)
	assert.Equal(t, []string{"a", "b"}, ids(got), "tras completar los lugares no se revisan más registros")
}

func TestSearch_ResultadosSinNombresRepetidos(t *testing.T) {
	records := []*entity.CatalogItem{
		item("a", "1", "Fita 10mm", "1", baseTime.Add(5*time.Second)),
		item("b", "2", "fita 10 MM", "1", baseTime.Add(4*time.Second)),
		item("c", "3", "Fita 20mm", "1", baseTime.Add(3*time.Second)),
		item("d", "4", "FITA 20 mm", "1", baseTime.Add(2*time.Second)),
	}
	got := catalog.Search(records, "fita", 10)
	seen := map[string]bool{}
	for _, it := range got {
		key := catalog.NormalizeName(it.Name)
		assert.False(t, seen[key], "nombre repetido: %s", key)
		seen[key] = true
	}
	assert.Len(t, got, 2)
}

// ──────────────────────────────────────────────────────────────────────────────
// CollapsePage
// ──────────────────────────────────────────────────────────────────────────────

func TestCollapsePage_ConsolidaPorCodigoPrimeraAparicion(t *testing.T) {
	records := []*entity.CatalogItem{
		item("a", "ABC", "Uno", "1", baseTime.Add(3*time.Second)),
		item("b", "abc", "Dos", "1", baseTime.Add(2*time.Second)),
		item("c", "DEF", "Tres", "1", baseTime.Add(1*time.Second)),
	}
	page, next := catalog.CollapsePage(records, 5)
	assert.Equal(t, []string{"a", "c"}, ids(page))
	assert.Empty(t, next, "sin registros extra no hay cursor")
}

func TestCollapsePage_CodigosVaciosNoSeConsolidan(t *testing.T) {
	records := []*entity.CatalogItem{
		item("a", "", "Uno", "1", baseTime),
		item("b", " ", "Dos", "1", baseTime),
	}
	page, _ := catalog.CollapsePage(records, 5)
	assert.Equal(t, []string{"a", "b"}, ids(page))
}

func TestCollapsePage_CursorEsElUltimoDeLaVentana(t *testing.T) {
	records := []*entity.CatalogItem{
		item("a", "1", "Uno", "1", baseTime),
		item("b", "2", "Dos", "1", baseTime),
		item("c", "3", "Tres", "1", baseTime),
	}
	page, next := catalog.CollapsePage(records, 2)
	assert.Equal(t, []string{"a", "b"}, ids(page))
	assert.Equal(t, "b", next)
}

func TestCollapsePage_PaginaPuedeTenerMenosQueLimit(t *testing.T) {
	records := []*entity.CatalogItem{
		item("a", "X", "Uno", "1", baseTime),
		item("b", "x", "Dos", "1", baseTime),
		item("c", "Y", "Tres", "1", baseTime),
	}
	page, next := catalog.CollapsePage(records, 2)
	assert.Equal(t, []string{"a"}, ids(page), "la consolidación puede dejar la página corta")
	assert.Equal(t, "b", next, "el cursor apunta al último registro crudo de la ventana")
}

// ──────────────────────────────────────────────────────────────────────────────
// Costos de ficha técnica
// ──────────────────────────────────────────────────────────────────────────────

func TestPriceInputs_SumaSubtotales(t *testing.T) {
	inputs := []entity.ProductInput{
		{Name: "Cola", UnitPrice: decimal.RequireFromString("2.50"), Quantity: decimal.RequireFromString("2")},
		{Name: "Fita", UnitPrice: decimal.RequireFromString("1.25"), Quantity: decimal.RequireFromString("4")},
		{Name: "Erro", UnitPrice: decimal.RequireFromString("-3"), Quantity: decimal.RequireFromString("1")},
	}
	total := catalog.PriceInputs(inputs)
	assert.True(t, decimal.RequireFromString("10").Equal(total), "total obtenido %s", total)
	assert.True(t, decimal.RequireFromString("5").Equal(inputs[0].Subtotal))
	assert.True(t, inputs[2].Subtotal.IsZero())
}
