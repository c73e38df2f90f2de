package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Insumos-api/internal/domain"
	"github.com/jhoicas/Insumos-api/internal/domain/entity"
	"github.com/jhoicas/Insumos-api/internal/domain/repository"
)

var _ repository.InvoiceRecordRepository = (*InvoiceRecordRepo)(nil)

// InvoiceRecordRepo registro de notas fiscales admitidas sobre PostgreSQL.
type InvoiceRecordRepo struct {
	q Querier
}

// NewInvoiceRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRecordRepository(q Querier) *InvoiceRecordRepo {
	return &InvoiceRecordRepo{q: q}
}

// CreateIfAbsent inserta con ON CONFLICT DO NOTHING: la comprobación y la escritura son una sola sentencia.
func (r *InvoiceRecordRepo) CreateIfAbsent(ctx context.Context, rec *entity.InvoiceRecord) (bool, error) {
	query := `
		INSERT INTO invoice_records (id, tax_id, invoice_number, filename, document_kind, digest, storage_path, item_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING`
	tag, err := r.q.Exec(ctx, query,
		rec.ID, rec.TaxID, rec.InvoiceNumber, rec.Filename, rec.DocumentKind,
		nullIfEmpty(rec.Digest), nullIfEmpty(rec.StoragePath), rec.ItemCount, rec.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert invoice record: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// GetByID obtiene un registro por su clave "cnpj-numero".
func (r *InvoiceRecordRepo) GetByID(ctx context.Context, id string) (*entity.InvoiceRecord, error) {
	query := `
		SELECT id, tax_id, invoice_number, filename, document_kind, COALESCE(digest, ''), COALESCE(storage_path, ''), item_count, created_at
		FROM invoice_records WHERE id = $1`
	var rec entity.InvoiceRecord
	err := r.q.QueryRow(ctx, query, id).Scan(
		&rec.ID, &rec.TaxID, &rec.InvoiceNumber, &rec.Filename, &rec.DocumentKind,
		&rec.Digest, &rec.StoragePath, &rec.ItemCount, &rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice record: %w", err)
	}
	return &rec, nil
}

// SetStoragePath guarda la ruta del documento archivado.
func (r *InvoiceRecordRepo) SetStoragePath(ctx context.Context, id, path string) error {
	tag, err := r.q.Exec(ctx, `UPDATE invoice_records SET storage_path = $2 WHERE id = $1`, id, path)
	if err != nil {
		return fmt.Errorf("update invoice record storage path: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
