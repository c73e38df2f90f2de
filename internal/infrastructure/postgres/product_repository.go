package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Insumos-api/internal/domain"
	"github.com/jhoicas/Insumos-api/internal/domain/entity"
	"github.com/jhoicas/Insumos-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
// Los insumos se guardan como JSONB en la misma fila.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto. El índice único sobre name_lower decide los duplicados.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	inputs, err := json.Marshal(product.Inputs)
	if err != nil {
		return fmt.Errorf("marshal product inputs: %w", err)
	}
	query := `
		INSERT INTO products (id, name, name_lower, inputs, total_cost, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err = r.q.Exec(ctx, query,
		product.ID, product.Name, product.NameLower, inputs, product.TotalCost, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	query := `SELECT id, name, name_lower, inputs, total_cost, created_at, updated_at FROM products WHERE id = $1`
	p, err := scanProduct(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetByNameLower obtiene un producto por su nombre normalizado.
func (r *ProductRepo) GetByNameLower(ctx context.Context, nameLower string) (*entity.Product, error) {
	query := `SELECT id, name, name_lower, inputs, total_cost, created_at, updated_at FROM products WHERE name_lower = $1`
	p, err := scanProduct(r.q.QueryRow(ctx, query, nameLower))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by name: %w", err)
	}
	return p, nil
}

// ListRecent lista los productos más recientes.
func (r *ProductRepo) ListRecent(ctx context.Context, limit int) ([]*entity.Product, error) {
	query := `
		SELECT id, name, name_lower, inputs, total_cost, created_at, updated_at
		FROM products ORDER BY created_at DESC, id DESC LIMIT $1`
	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var inputs []byte
	if err := row.Scan(&p.ID, &p.Name, &p.NameLower, &inputs, &p.TotalCost, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if len(inputs) > 0 {
		if err := json.Unmarshal(inputs, &p.Inputs); err != nil {
			return nil, fmt.Errorf("unmarshal product inputs: %w", err)
		}
	}
	return &p, nil
}
