package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Insumos-api/internal/domain"
	"github.com/jhoicas/Insumos-api/internal/domain/entity"
	"github.com/jhoicas/Insumos-api/internal/domain/repository"
)

var _ repository.CatalogItemRepository = (*CatalogItemRepo)(nil)

const catalogItemColumns = `id, code, name, unit, quantity, unit_price, COALESCE(emission_date, ''),
	COALESCE(supplier_name, ''), COALESCE(supplier_tax_id, ''), extracted_at, created_at, updated_at`

// CatalogItemRepo implementación del puerto CatalogItemRepository sobre PostgreSQL (usable con pool o tx).
type CatalogItemRepo struct {
	q Querier
}

// NewCatalogItemRepository construye el adaptador del catálogo. Pasar pool o tx (Querier).
func NewCatalogItemRepository(q Querier) *CatalogItemRepo {
	return &CatalogItemRepo{q: q}
}

// CreateBatch inserta todos los registros en un único envío (pgx.Batch).
func (r *CatalogItemRepo) CreateBatch(ctx context.Context, items []*entity.CatalogItem) error {
	if len(items) == 0 {
		return nil
	}
	query := `
		INSERT INTO catalog_items (id, code, name, unit, quantity, unit_price, emission_date,
			supplier_name, supplier_tax_id, extracted_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	b := &pgx.Batch{}
	for _, it := range items {
		b.Queue(query,
			it.ID, it.Code, it.Name, it.Unit, it.Quantity, it.UnitPrice, nullIfEmpty(it.EmissionDate),
			nullIfEmpty(it.SupplierName), nullIfEmpty(it.SupplierTaxID), it.ExtractedAt, it.CreatedAt, it.UpdatedAt,
		)
	}
	results := r.q.SendBatch(ctx, b)
	for range items {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			if isUniqueViolation(err) {
				return domain.ErrDuplicate
			}
			return fmt.Errorf("insert catalog item: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("insert catalog items: %w", err)
	}
	return nil
}

// GetByID obtiene un registro por ID.
func (r *CatalogItemRepo) GetByID(ctx context.Context, id string) (*entity.CatalogItem, error) {
	query := `SELECT ` + catalogItemColumns + ` FROM catalog_items WHERE id = $1`
	it, err := scanCatalogItem(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get catalog item: %w", err)
	}
	return it, nil
}

// FindEquivalent busca un registro con el mismo nombre, unidad, precio, fecha y (si se informa) código.
func (r *CatalogItemRepo) FindEquivalent(ctx context.Context, item *entity.CatalogItem) (*entity.CatalogItem, error) {
	query := `SELECT ` + catalogItemColumns + `
		FROM catalog_items
		WHERE name = $1 AND unit = $2 AND unit_price = $3 AND COALESCE(emission_date, '') = $4
		  AND ($5::text = '' OR code = $5::text)
		LIMIT 1`
	it, err := scanCatalogItem(r.q.QueryRow(ctx, query, item.Name, item.Unit, item.UnitPrice, item.EmissionDate, item.Code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find equivalent catalog item: %w", err)
	}
	return it, nil
}

// ListRecent devuelve los limit registros más recientes.
func (r *CatalogItemRepo) ListRecent(ctx context.Context, limit int) ([]*entity.CatalogItem, error) {
	query := `SELECT ` + catalogItemColumns + ` FROM catalog_items ORDER BY created_at DESC, id DESC LIMIT $1`
	return r.list(ctx, query, limit)
}

// ListPage devuelve hasta limit registros que siguen al registro afterID en orden de listado.
func (r *CatalogItemRepo) ListPage(ctx context.Context, afterID string, limit int) ([]*entity.CatalogItem, error) {
	if afterID != "" {
		var createdAt time.Time
		var id string
		err := r.q.QueryRow(ctx, `SELECT created_at, id FROM catalog_items WHERE id = $1`, afterID).Scan(&createdAt, &id)
		switch {
		case err == nil:
			query := `SELECT ` + catalogItemColumns + `
				FROM catalog_items
				WHERE (created_at, id) < ($1, $2::uuid)
				ORDER BY created_at DESC, id DESC LIMIT $3`
			return r.list(ctx, query, createdAt, id, limit)
		case !errors.Is(err, pgx.ErrNoRows):
			return nil, fmt.Errorf("resolve cursor: %w", err)
		}
	}
	return r.ListRecent(ctx, limit)
}

// ListCodes devuelve todos los códigos no vacíos del catálogo.
func (r *CatalogItemRepo) ListCodes(ctx context.Context) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT DISTINCT code FROM catalog_items WHERE code <> ''`)
	if err != nil {
		return nil, fmt.Errorf("list codes: %w", err)
	}
	defer rows.Close()
	var codes []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan code: %w", err)
		}
		codes = append(codes, c)
	}
	return codes, rows.Err()
}

// Update persiste los campos editables de un registro.
func (r *CatalogItemRepo) Update(ctx context.Context, item *entity.CatalogItem) error {
	query := `
		UPDATE catalog_items SET code = $2, name = $3, unit = $4, unit_price = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, item.ID, item.Code, item.Name, item.Unit, item.UnitPrice, item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update catalog item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un registro por ID.
func (r *CatalogItemRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM catalog_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete catalog item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CatalogItemRepo) list(ctx context.Context, query string, args ...any) ([]*entity.CatalogItem, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list catalog items: %w", err)
	}
	defer rows.Close()
	var list []*entity.CatalogItem
	for rows.Next() {
		it, err := scanCatalogItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan catalog item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

func scanCatalogItem(row pgx.Row) (*entity.CatalogItem, error) {
	var it entity.CatalogItem
	err := row.Scan(
		&it.ID, &it.Code, &it.Name, &it.Unit, &it.Quantity, &it.UnitPrice, &it.EmissionDate,
		&it.SupplierName, &it.SupplierTaxID, &it.ExtractedAt, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}
