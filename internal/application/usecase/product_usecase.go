package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Insumos-api/internal/application/dto"
	"github.com/jhoicas/Insumos-api/internal/domain"
	"github.com/jhoicas/Insumos-api/internal/domain/catalog"
	"github.com/jhoicas/Insumos-api/internal/domain/entity"
	"github.com/jhoicas/Insumos-api/internal/domain/repository"
	"github.com/jhoicas/Insumos-api/pkg/nfe"
)

// RecentProductsLimit cantidad de fichas devueltas por el listado.
const RecentProductsLimit = 20

// CostSheetGenerator genera el PDF de la ficha de costos de un producto.
type CostSheetGenerator interface {
	GenerateCostSheet(ctx context.Context, product *entity.Product) ([]byte, error)
}

// ProductUseCase casos de uso de las fichas técnicas (productos armados con insumos del catálogo).
// El costo se recalcula siempre en el servidor.
type ProductUseCase struct {
	repo   repository.ProductRepository
	sheets CostSheetGenerator
	now    func() time.Time
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, sheets CostSheetGenerator) *ProductUseCase {
	return &ProductUseCase{repo: repo, sheets: sheets, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *ProductUseCase) WithClock(now func() time.Time) *ProductUseCase {
	uc.now = now
	return uc
}

// Create crea una ficha. Devuelve ErrDuplicate si ya existe una con el mismo nombre (sin distinguir caja).
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.CreateProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: campo obligatorio faltante: nomeProduto", domain.ErrInvalidInput)
	}
	if len(in.Inputs) == 0 {
		return nil, fmt.Errorf("%w: informe al menos un insumo", domain.ErrInvalidInput)
	}

	nameLower := catalog.Fold(name)
	existing, err := uc.repo.GetByNameLower(ctx, nameLower)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	inputs := make([]entity.ProductInput, 0, len(in.Inputs))
	for idx, it := range in.Inputs {
		price, errP := amount(it.UnitPrice)
		qty, errQ := amount(it.Quantity)
		if errP != nil || errQ != nil {
			return nil, fmt.Errorf("%w: insumo %d: valores inválidos", domain.ErrInvalidInput, idx+1)
		}
		inputs = append(inputs, entity.ProductInput{
			ItemID:    strings.TrimSpace(it.ItemID),
			Code:      strings.TrimSpace(it.Code),
			Name:      strings.TrimSpace(it.Name),
			Unit:      strings.TrimSpace(it.Unit),
			UnitPrice: price,
			Quantity:  qty,
		})
	}

	now := uc.now()
	product := &entity.Product{
		ID:        uuid.New().String(),
		Name:      name,
		NameLower: nameLower,
		Inputs:    inputs,
		TotalCost: catalog.PriceInputs(inputs),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return &dto.CreateProductResponse{Success: true, ID: product.ID}, nil
}

// ListRecent devuelve las fichas más recientes.
func (uc *ProductUseCase) ListRecent(ctx context.Context) ([]dto.ProductResponse, error) {
	products, err := uc.repo.ListRecent(ctx, RecentProductsLimit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out, nil
}

// CostSheet genera el PDF de la ficha de costos. Devuelve bytes y nombre de archivo sugerido.
func (uc *ProductUseCase) CostSheet(ctx context.Context, id string) (pdfBytes []byte, filename string, err error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, "", domain.ErrNotFound
	}
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if product == nil {
		return nil, "", domain.ErrNotFound
	}
	pdfBytes, err = uc.sheets.GenerateCostSheet(ctx, product)
	if err != nil {
		return nil, "", fmt.Errorf("ficha de costos: %w", err)
	}
	return pdfBytes, "ficha-" + product.ID + ".pdf", nil
}

// amount interpreta precio o cantidad; vacío vale cero.
func amount(raw dto.LooseNumber) (decimal.Decimal, error) {
	if strings.TrimSpace(raw.String()) == "" {
		return decimal.Zero, nil
	}
	return nfe.ParseDecimalStrict(raw.String())
}

func toProductResponse(p *entity.Product) dto.ProductResponse {
	inputs := make([]dto.ProductInputResponse, 0, len(p.Inputs))
	for _, in := range p.Inputs {
		inputs = append(inputs, dto.ProductInputResponse{
			ItemID:    in.ItemID,
			Code:      in.Code,
			Name:      in.Name,
			Unit:      in.Unit,
			UnitPrice: in.UnitPrice.InexactFloat64(),
			Quantity:  in.Quantity.InexactFloat64(),
			Subtotal:  in.Subtotal.InexactFloat64(),
		})
	}
	return dto.ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		NameLower: p.NameLower,
		Inputs:    inputs,
		TotalCost: p.TotalCost.InexactFloat64(),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
