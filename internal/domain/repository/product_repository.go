package repository

import (
	"context"

	"github.com/jhoicas/Insumos-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para las fichas técnicas (DIP).
type ProductRepository interface {
	// Create devuelve domain.ErrDuplicate si ya existe un producto con el mismo NameLower.
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByNameLower(ctx context.Context, nameLower string) (*entity.Product, error)
	// ListRecent devuelve los productos más recientes primero.
	ListRecent(ctx context.Context, limit int) ([]*entity.Product, error)
}
