package catalog_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Insumos-api/internal/application/catalog"
	"github.com/jhoicas/Insumos-api/internal/application/dto"
	"github.com/jhoicas/Insumos-api/internal/domain"
	"github.com/jhoicas/Insumos-api/internal/domain/entity"
	"github.com/jhoicas/Insumos-api/internal/domain/repository"
)

// ─────────────────────────────────────────────────────────────────────────────
// Fakes
// ─────────────────────────────────────────────────────────────────────────────

type fakeItems struct {
	records []*entity.CatalogItem
	failGet error
}

var _ repository.CatalogItemRepository = (*fakeItems)(nil)

func (f *fakeItems) sorted() []*entity.CatalogItem {
	out := append([]*entity.CatalogItem(nil), f.records...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (f *fakeItems) CreateBatch(_ context.Context, items []*entity.CatalogItem) error {
	f.records = append(f.records, items...)
	return nil
}

func (f *fakeItems) GetByID(_ context.Context, id string) (*entity.CatalogItem, error) {
	if f.failGet != nil {
		return nil, f.failGet
	}
	for _, r := range f.records {
		if r.ID == id {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeItems) FindEquivalent(_ context.Context, item *entity.CatalogItem) (*entity.CatalogItem, error) {
	for _, r := range f.records {
		if r.Name == item.Name && r.Unit == item.Unit && r.UnitPrice.Equal(item.UnitPrice) &&
			r.EmissionDate == item.EmissionDate && (item.Code == "" || r.Code == item.Code) {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeItems) ListRecent(_ context.Context, limit int) ([]*entity.CatalogItem, error) {
	all := f.sorted()
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (f *fakeItems) ListPage(ctx context.Context, afterID string, limit int) ([]*entity.CatalogItem, error) {
	all := f.sorted()
	for i, r := range all {
		if r.ID == afterID {
			rest := all[i+1:]
			if len(rest) > limit {
				rest = rest[:limit]
			}
			return rest, nil
		}
	}
	return f.ListRecent(ctx, limit)
}

func (f *fakeItems) ListCodes(_ context.Context) ([]string, error) {
	var codes []string
	for _, r := range f.records {
		if r.Code != "" {
			codes = append(codes, r.Code)
		}
	}
	return codes, nil
}

func (f *fakeItems) Update(_ context.Context, item *entity.CatalogItem) error {
	for i, r := range f.records {
		if r.ID == item.ID {
			f.records[i] = item
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeItems) Delete(_ context.Context, id string) error {
	for i, r := range f.records {
		if r.ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// fakeTx ejecuta fn sobre el mismo repo; calls cuenta las transacciones abiertas.
type fakeTx struct {
	repo  *fakeItems
	calls int
}

func (t *fakeTx) RunCatalog(_ context.Context, fn func(items repository.CatalogItemRepository) error) error {
	t.calls++
	return fn(t.repo)
}

var base = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func rec(name, code, price string, minutes int) *entity.CatalogItem {
	at := base.Add(time.Duration(minutes) * time.Minute)
	return &entity.CatalogItem{
		ID:           uuid.New().String(),
		Code:         code,
		Name:         name,
		Unit:         "UN",
		Quantity:     "1",
		UnitPrice:    decimal.RequireFromString(price),
		EmissionDate: "2024-05-01",
		CreatedAt:    at,
		UpdatedAt:    at,
	}
}

func newUseCase(records ...*entity.CatalogItem) (*catalog.CatalogUseCase, *fakeItems, *fakeTx) {
	repo := &fakeItems{records: records}
	tx := &fakeTx{repo: repo}
	uc := catalog.NewCatalogUseCase(repo, tx, 0).WithClock(func() time.Time { return base.Add(24 * time.Hour) })
	return uc, repo, tx
}

func names(items []dto.CatalogItemResponse) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Name)
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// List / Search / ListPage
// ─────────────────────────────────────────────────────────────────────────────

func TestSearch_SoloElRegistroMasReciente(t *testing.T) {
	older := rec("Parafuso", "100001", "1.50", 0)
	newer := rec("PARAFUSO", "100002", "1.20", 10)
	uc, _, _ := newUseCase(older, newer, rec("Arruela", "200001", "0.10", 5))

	page, err := uc.List(context.Background(), dto.ListItemsRequest{Query: "parafuso"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1, "mismo nombre normalizado se consolida")
	assert.Equal(t, newer.ID, page.Items[0].ID, "gana el más reciente")
	assert.Nil(t, page.NextCursor, "la búsqueda nunca pagina")
}

func TestSearch_PorCodigo(t *testing.T) {
	uc, _, _ := newUseCase(rec("Parafuso", "123456", "1", 0), rec("Arruela", "654321", "1", 1))
	page, err := uc.List(context.Background(), dto.ListItemsRequest{Query: "6543"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Arruela"}, names(page.Items))
}

func TestListPage_CursorYConsolidacionPorCodigo(t *testing.T) {
	a := rec("A", "111111", "1", 5)
	b := rec("B", "111111", "1", 4) // mismo código que A: se descarta
	c := rec("C", "222222", "1", 3)
	d := rec("D", "333333", "1", 2)
	uc, _, _ := newUseCase(a, b, c, d)

	first, err := uc.List(context.Background(), dto.ListItemsRequest{Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C"}, names(first.Items))
	require.NotNil(t, first.NextCursor)
	assert.Equal(t, c.ID, *first.NextCursor, "el cursor es el último registro crudo de la ventana")

	second, err := uc.List(context.Background(), dto.ListItemsRequest{Limit: 3, Cursor: *first.NextCursor})
	require.NoError(t, err)
	assert.Equal(t, []string{"D"}, names(second.Items))
	assert.Nil(t, second.NextCursor)
}

func TestListPage_CursorInvalidoEmpiezaDesdeElPrincipio(t *testing.T) {
	uc, _, _ := newUseCase(rec("A", "111111", "1", 1), rec("B", "222222", "1", 0))
	page, err := uc.List(context.Background(), dto.ListItemsRequest{Cursor: "no-es-uuid"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, names(page.Items))
}

func TestList_LimitSeAcota(t *testing.T) {
	var records []*entity.CatalogItem
	for i := 0; i < 150; i++ {
		records = append(records, rec("Item", "", "1", i))
	}
	uc, _, _ := newUseCase(records...)
	page, err := uc.List(context.Background(), dto.ListItemsRequest{Limit: 500})
	require.NoError(t, err)
	assert.Len(t, page.Items, dto.MaxLimit)
	assert.NotNil(t, page.NextCursor)
}

func TestList_RespuestaSinFornecedorEsNula(t *testing.T) {
	uc, _, _ := newUseCase(rec("A", "111111", "2.5", 0))
	page, err := uc.List(context.Background(), dto.ListItemsRequest{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Nil(t, page.Items[0].SupplierName)
	assert.Nil(t, page.Items[0].SupplierTaxID)
	assert.InDelta(t, 2.5, page.Items[0].UnitPrice, 1e-9)
}

// ─────────────────────────────────────────────────────────────────────────────
// CreateBatch
// ─────────────────────────────────────────────────────────────────────────────

func TestCreateBatch_GrabaTodo(t *testing.T) {
	uc, repo, tx := newUseCase()
	out, err := uc.CreateBatch(context.Background(), dto.CreateItemsRequest{Items: []dto.NewItemRequest{
		{Name: " Parafuso ", Unit: "UN", UnitPrice: "1,50", EmissionDate: "2024-05-01"},
		{Code: "123456", Name: "Arruela", Unit: "UN", UnitPrice: "0.2", EmissionDate: "2024-05-01", SupplierTaxID: "11.222.333/0001-81"},
	}})
	require.NoError(t, err)
	assert.Equal(t, &dto.CreateItemsResponse{Success: true, Created: 2}, out)
	assert.Equal(t, 1, tx.calls, "todo el lote en una transacción")
	require.Len(t, repo.records, 2)
	assert.Equal(t, "Parafuso", repo.records[0].Name)
	assert.True(t, repo.records[0].UnitPrice.Equal(decimal.RequireFromString("1.5")))
	assert.Equal(t, "11222333000181", repo.records[1].SupplierTaxID)
}

func TestCreateBatch_Vacio(t *testing.T) {
	uc, _, _ := newUseCase()
	_, err := uc.CreateBatch(context.Background(), dto.CreateItemsRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateBatch_CampoObligatorioAusente(t *testing.T) {
	uc, repo, tx := newUseCase()
	_, err := uc.CreateBatch(context.Background(), dto.CreateItemsRequest{Items: []dto.NewItemRequest{
		{Name: "Parafuso", Unit: "UN", UnitPrice: "1", EmissionDate: "2024-05-01"},
		{Name: "Arruela", Unit: "UN", UnitPrice: "abc", EmissionDate: "2024-05-01"},
	}})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.True(t, strings.Contains(err.Error(), "ítem 2"), "el mensaje indica la posición (base 1)")
	assert.Empty(t, repo.records)
	assert.Zero(t, tx.calls)
}

func TestCreateBatch_ConflictoNoGrabaNada(t *testing.T) {
	existing := rec("Parafuso", "", "1.5", 0)
	uc, repo, _ := newUseCase(existing)

	_, err := uc.CreateBatch(context.Background(), dto.CreateItemsRequest{Items: []dto.NewItemRequest{
		{Name: "Nuevo", Unit: "UN", UnitPrice: "3", EmissionDate: "2024-05-01"},
		{Name: "Parafuso", Unit: "UN", UnitPrice: "1,50", EmissionDate: "2024-05-01"},
	}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))

	conflicts, ok := catalog.IsConflicts(err)
	require.True(t, ok)
	require.Len(t, conflicts, 1)
	assert.Equal(t, 1, conflicts[0].Index)
	assert.Nil(t, conflicts[0].Item.Code)
	assert.Len(t, repo.records, 1, "un conflicto rechaza el lote entero")
}

func TestCreateBatch_CodigoDistintoNoEsConflicto(t *testing.T) {
	uc, repo, _ := newUseCase(rec("Parafuso", "111111", "1.5", 0))
	_, err := uc.CreateBatch(context.Background(), dto.CreateItemsRequest{Items: []dto.NewItemRequest{
		{Code: "222222", Name: "Parafuso", Unit: "UN", UnitPrice: "1.5", EmissionDate: "2024-05-01"},
	}})
	require.NoError(t, err)
	assert.Len(t, repo.records, 2)
}

// ─────────────────────────────────────────────────────────────────────────────
// Patch / Delete
// ─────────────────────────────────────────────────────────────────────────────

func TestPatch_ActualizaCampos(t *testing.T) {
	item := rec("Parafuso", "111111", "1", 0)
	uc, repo, _ := newUseCase(item)
	price := dto.LooseNumber("2,75")
	name := " Parafuso sextavado "

	require.NoError(t, uc.Patch(context.Background(), item.ID, dto.PatchItemRequest{Name: &name, UnitPrice: &price}))
	got := repo.records[0]
	assert.Equal(t, "Parafuso sextavado", got.Name)
	assert.True(t, got.UnitPrice.Equal(decimal.RequireFromString("2.75")))
	assert.Equal(t, "111111", got.Code, "campos ausentes no cambian")
	assert.Equal(t, base.Add(24*time.Hour), got.UpdatedAt)
}

func TestPatch_Errores(t *testing.T) {
	item := rec("Parafuso", "111111", "1", 0)
	uc, _, _ := newUseCase(item)
	bad := dto.LooseNumber("abc")

	assert.ErrorIs(t, uc.Patch(context.Background(), item.ID, dto.PatchItemRequest{}), domain.ErrInvalidInput)
	assert.ErrorIs(t, uc.Patch(context.Background(), item.ID, dto.PatchItemRequest{UnitPrice: &bad}), domain.ErrInvalidInput)
	assert.ErrorIs(t, uc.Patch(context.Background(), uuid.New().String(), dto.PatchItemRequest{}), domain.ErrNotFound)
	assert.ErrorIs(t, uc.Patch(context.Background(), "no-es-uuid", dto.PatchItemRequest{}), domain.ErrNotFound)
}

func TestDelete(t *testing.T) {
	item := rec("Parafuso", "111111", "1", 0)
	uc, repo, _ := newUseCase(item)

	require.NoError(t, uc.Delete(context.Background(), item.ID))
	assert.Empty(t, repo.records)
	assert.ErrorIs(t, uc.Delete(context.Background(), item.ID), domain.ErrNotFound)
	assert.ErrorIs(t, uc.Delete(context.Background(), "x"), domain.ErrNotFound)
}
