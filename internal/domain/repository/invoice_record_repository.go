package repository

import (
	"context"

	"github.com/jhoicas/Insumos-api/internal/domain/entity"
)

// InvoiceRecordRepository define el puerto de persistencia del registro de notas importadas (DIP).
type InvoiceRecordRepository interface {
	// CreateIfAbsent inserta el registro de forma atómica. created=false si la clave ya existía.
	CreateIfAbsent(ctx context.Context, rec *entity.InvoiceRecord) (created bool, err error)
	GetByID(ctx context.Context, id string) (*entity.InvoiceRecord, error)
	SetStoragePath(ctx context.Context, id, path string) error
}
