package repository

import (
	"context"

	"github.com/jhoicas/Insumos-api/internal/domain/entity"
)

// CatalogItemRepository define el puerto de persistencia del catálogo de insumos (DIP).
// Todos los listados van del más reciente al más antiguo: (created_at DESC, id DESC).
type CatalogItemRepository interface {
	CreateBatch(ctx context.Context, items []*entity.CatalogItem) error
	GetByID(ctx context.Context, id string) (*entity.CatalogItem, error)
	// FindEquivalent busca un registro con el mismo nombre, unidad, precio y fecha de emisión
	// (y el mismo código cuando item.Code no está vacío). nil, nil si no hay.
	FindEquivalent(ctx context.Context, item *entity.CatalogItem) (*entity.CatalogItem, error)
	ListRecent(ctx context.Context, limit int) ([]*entity.CatalogItem, error)
	// ListPage devuelve hasta limit registros posteriores (en orden de listado) al registro afterID.
	// afterID vacío o desconocido empieza desde el principio.
	ListPage(ctx context.Context, afterID string, limit int) ([]*entity.CatalogItem, error)
	ListCodes(ctx context.Context) ([]string, error)
	Update(ctx context.Context, item *entity.CatalogItem) error
	// Delete devuelve domain.ErrNotFound si el registro no existe.
	Delete(ctx context.Context, id string) error
}
