package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Insumos-api/internal/application/dto"
	"github.com/jhoicas/Insumos-api/internal/domain"
	domcatalog "github.com/jhoicas/Insumos-api/internal/domain/catalog"
	"github.com/jhoicas/Insumos-api/internal/domain/entity"
	"github.com/jhoicas/Insumos-api/internal/domain/repository"
	"github.com/jhoicas/Insumos-api/pkg/nfe"
)

// TxRunner ejecuta fn dentro de una transacción con el repositorio del catálogo atado a ella.
type TxRunner interface {
	RunCatalog(ctx context.Context, fn func(items repository.CatalogItemRepository) error) error
}

// DefaultSearchWindow cantidad de registros recientes sobre los que corre la búsqueda.
const DefaultSearchWindow = 1000

// ConflictsError rechaza un alta en lote porque algunos insumos ya existen. Nada se graba.
type ConflictsError struct {
	Conflicts []dto.ItemConflict
}

func (e *ConflictsError) Error() string {
	return fmt.Sprintf("%d insumo(s) ya existen en el catálogo", len(e.Conflicts))
}

func (e *ConflictsError) Unwrap() error { return domain.ErrConflict }

// CatalogUseCase consulta y mantiene el catálogo de insumos.
type CatalogUseCase struct {
	items        repository.CatalogItemRepository
	tx           TxRunner
	searchWindow int
	now          func() time.Time
}

// NewCatalogUseCase construye el caso de uso. searchWindow <= 0 usa DefaultSearchWindow.
func NewCatalogUseCase(items repository.CatalogItemRepository, tx TxRunner, searchWindow int) *CatalogUseCase {
	if searchWindow <= 0 {
		searchWindow = DefaultSearchWindow
	}
	return &CatalogUseCase{items: items, tx: tx, searchWindow: searchWindow, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *CatalogUseCase) WithClock(now func() time.Time) *CatalogUseCase {
	uc.now = now
	return uc
}

// List resuelve GET /api/itens: con q busca en todo el catálogo; sin q pagina por cursor.
func (uc *CatalogUseCase) List(ctx context.Context, in dto.ListItemsRequest) (*dto.ItemPageResponse, error) {
	limit := dto.ClampLimit(in.Limit)
	if q := strings.TrimSpace(in.Query); q != "" {
		return uc.Search(ctx, q, limit)
	}
	return uc.ListPage(ctx, in.Cursor, limit)
}

// Search busca por nombre o código dentro de la ventana de registros recientes y consolida
// los resultados por nombre normalizado. Nunca devuelve cursor.
func (uc *CatalogUseCase) Search(ctx context.Context, query string, limit int) (*dto.ItemPageResponse, error) {
	records, err := uc.items.ListRecent(ctx, uc.searchWindow)
	if err != nil {
		return nil, err
	}
	found := domcatalog.Search(records, query, limit)
	return &dto.ItemPageResponse{Items: toCatalogItemResponses(found), NextCursor: nil}, nil
}

// ListPage devuelve una página consolidada por código a partir del cursor (ID del último registro
// de la página anterior). Un cursor desconocido o mal formado empieza desde el principio.
func (uc *CatalogUseCase) ListPage(ctx context.Context, cursor string, limit int) (*dto.ItemPageResponse, error) {
	cursor = strings.TrimSpace(cursor)
	if _, err := uuid.Parse(cursor); err != nil {
		cursor = ""
	}
	records, err := uc.items.ListPage(ctx, cursor, limit+1)
	if err != nil {
		return nil, err
	}
	page, next := domcatalog.CollapsePage(records, limit)
	resp := &dto.ItemPageResponse{Items: toCatalogItemResponses(page)}
	if next != "" {
		resp.NextCursor = &next
	}
	return resp, nil
}

// CreateBatch valida todos los insumos, rechaza el lote entero si alguno ya existe (ConflictsError)
// y, si no, los graba en una sola transacción.
func (uc *CatalogUseCase) CreateBatch(ctx context.Context, in dto.CreateItemsRequest) (*dto.CreateItemsResponse, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: envíe un arreglo \"itens\" con al menos un ítem", domain.ErrInvalidInput)
	}

	now := uc.now()
	records := make([]*entity.CatalogItem, 0, len(in.Items))
	for idx, it := range in.Items {
		rec, ok := newCatalogItem(it, now)
		if !ok {
			return nil, fmt.Errorf("%w: campos obligatorios ausentes en el ítem %d", domain.ErrInvalidInput, idx+1)
		}
		records = append(records, rec)
	}

	err := uc.tx.RunCatalog(ctx, func(items repository.CatalogItemRepository) error {
		var conflicts []dto.ItemConflict
		for idx, rec := range records {
			existing, err := items.FindEquivalent(ctx, rec)
			if err != nil {
				return err
			}
			if existing != nil {
				conflicts = append(conflicts, dto.ItemConflict{Index: idx, Item: toConflictItem(rec)})
			}
		}
		if len(conflicts) > 0 {
			return &ConflictsError{Conflicts: conflicts}
		}
		return items.CreateBatch(ctx, records)
	})
	if err != nil {
		return nil, err
	}
	return &dto.CreateItemsResponse{Success: true, Created: len(records)}, nil
}

// Patch edita nombre, unidad, precio o código de un insumo existente.
func (uc *CatalogUseCase) Patch(ctx context.Context, id string, in dto.PatchItemRequest) error {
	item, err := uc.find(ctx, id)
	if err != nil {
		return err
	}
	if in.UnitPrice != nil {
		price, err := nfe.ParseDecimalStrict(in.UnitPrice.String())
		if err != nil {
			return fmt.Errorf("%w: valor_unitario inválido", domain.ErrInvalidInput)
		}
		item.UnitPrice = price
	}
	if in.IsEmpty() {
		return fmt.Errorf("%w: ninguna modificación válida enviada", domain.ErrInvalidInput)
	}
	if in.Name != nil {
		item.Name = strings.TrimSpace(*in.Name)
	}
	if in.Unit != nil {
		item.Unit = strings.TrimSpace(*in.Unit)
	}
	if in.Code != nil {
		item.Code = strings.TrimSpace(*in.Code)
	}
	item.UpdatedAt = uc.now()
	return uc.items.Update(ctx, item)
}

// Delete elimina un insumo. domain.ErrNotFound si no existe.
func (uc *CatalogUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrNotFound
	}
	return uc.items.Delete(ctx, id)
}

func (uc *CatalogUseCase) find(ctx context.Context, id string) (*entity.CatalogItem, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	item, err := uc.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

// newCatalogItem normaliza un insumo del alta manual. ok=false si falta un campo obligatorio
// o el precio no es numérico.
func newCatalogItem(in dto.NewItemRequest, now time.Time) (*entity.CatalogItem, bool) {
	name := strings.TrimSpace(in.Name)
	unit := strings.TrimSpace(in.Unit)
	emission := strings.TrimSpace(in.EmissionDate)
	price, err := nfe.ParseDecimalStrict(in.UnitPrice.String())
	if name == "" || unit == "" || emission == "" || err != nil {
		return nil, false
	}
	return &entity.CatalogItem{
		ID:            uuid.New().String(),
		Code:          strings.TrimSpace(in.Code),
		Name:          name,
		Unit:          unit,
		Quantity:      strings.TrimSpace(in.Quantity.String()),
		UnitPrice:     price,
		EmissionDate:  emission,
		SupplierName:  strings.TrimSpace(in.SupplierName),
		SupplierTaxID: nfe.OnlyDigits(in.SupplierTaxID),
		CreatedAt:     now,
		UpdatedAt:     now,
	}, true
}

func toConflictItem(rec *entity.CatalogItem) dto.ConflictItem {
	return dto.ConflictItem{
		Code:         optional(rec.Code),
		Name:         rec.Name,
		Unit:         rec.Unit,
		UnitPrice:    rec.UnitPrice.InexactFloat64(),
		EmissionDate: rec.EmissionDate,
	}
}

func toCatalogItemResponses(items []*entity.CatalogItem) []dto.CatalogItemResponse {
	out := make([]dto.CatalogItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.CatalogItemResponse{
			ID:            it.ID,
			Code:          it.Code,
			Name:          it.Name,
			Unit:          it.Unit,
			Quantity:      it.Quantity,
			UnitPrice:     it.UnitPrice.InexactFloat64(),
			EmissionDate:  it.EmissionDate,
			SupplierName:  optional(it.SupplierName),
			SupplierTaxID: optional(it.SupplierTaxID),
			ExtractedAt:   it.ExtractedAt,
			CreatedAt:     it.CreatedAt,
			UpdatedAt:     it.UpdatedAt,
		})
	}
	return out
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// IsConflicts extrae los conflictos de un alta en lote rechazada.
func IsConflicts(err error) ([]dto.ItemConflict, bool) {
	var ce *ConflictsError
	if errors.As(err, &ce) {
		return ce.Conflicts, true
	}
	return nil, false
}
