package dto

import "time"

// ExtractedItemResponse línea extraída de una nota fiscal, tal como la recibe el front antes de guardarla.
type ExtractedItemResponse struct {
	Code          string    `json:"codigo"`
	Name          string    `json:"nome"`
	Unit          string    `json:"unidade"`
	Quantity      string    `json:"quantidade"`
	UnitPrice     float64   `json:"valor_unitario"`
	EmissionDate  *string   `json:"data_emissao"`
	SupplierName  *string   `json:"fornecedor"`
	SupplierTaxID *string   `json:"cnpj_fornecedor"`
	Timestamp     time.Time `json:"timestamp"`
}

// CatalogItemResponse insumo persistido en el catálogo.
type CatalogItemResponse struct {
	ID            string     `json:"id"`
	Code          string     `json:"codigo"`
	Name          string     `json:"nome"`
	Unit          string     `json:"unidade"`
	Quantity      string     `json:"quantidade"`
	UnitPrice     float64    `json:"valor_unitario"`
	EmissionDate  string     `json:"data_emissao"`
	SupplierName  *string    `json:"fornecedor"`
	SupplierTaxID *string    `json:"cnpj_fornecedor"`
	ExtractedAt   *time.Time `json:"timestamp,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ListItemsRequest parámetros de GET /api/itens.
type ListItemsRequest struct {
	Query  string `query:"q"`
	Limit  int    `query:"limit"`
	Cursor string `query:"cursor"`
}

// ItemPageResponse página del catálogo. NextCursor es nil en la búsqueda y en la última página.
type ItemPageResponse struct {
	Items      []CatalogItemResponse `json:"items"`
	NextCursor *string               `json:"next_cursor"`
}

// NewItemRequest insumo de un alta manual.
type NewItemRequest struct {
	Code          string      `json:"codigo"`
	Name          string      `json:"nome"`
	Unit          string      `json:"unidade"`
	UnitPrice     LooseNumber `json:"valor_unitario"`
	EmissionDate  string      `json:"data_emissao"`
	Quantity      LooseNumber `json:"quantidade"`
	SupplierName  string      `json:"fornecedor"`
	SupplierTaxID string      `json:"cnpj_fornecedor"`
}

// CreateItemsRequest alta en lote: todo o nada.
type CreateItemsRequest struct {
	Items []NewItemRequest `json:"itens"`
}

// CreateItemsResponse resultado de un alta en lote aceptada.
type CreateItemsResponse struct {
	Success bool `json:"success"`
	Created int  `json:"created"`
}

// ConflictItem datos del insumo en conflicto, ya normalizados.
type ConflictItem struct {
	Code         *string `json:"codigo"`
	Name         string  `json:"nome"`
	Unit         string  `json:"unidade"`
	UnitPrice    float64 `json:"valor_unitario"`
	EmissionDate string  `json:"data_emissao"`
}

// ItemConflict insumo del lote que ya existe en el catálogo. Index es la posición en el lote (base 0).
type ItemConflict struct {
	Index int          `json:"index"`
	Item  ConflictItem `json:"item"`
}

// ConflictsResponse respuesta 409 de un alta en lote rechazada.
type ConflictsResponse struct {
	Success   bool           `json:"success"`
	Conflicts []ItemConflict `json:"conflicts"`
}

// PatchItemRequest edición parcial de un insumo. Los campos nil no se tocan.
type PatchItemRequest struct {
	Code      *string      `json:"codigo"`
	Name      *string      `json:"nome"`
	Unit      *string      `json:"unidade"`
	UnitPrice *LooseNumber `json:"valor_unitario"`
}

// IsEmpty indica si la edición no trae ningún campo editable.
func (p PatchItemRequest) IsEmpty() bool {
	return p.Code == nil && p.Name == nil && p.Unit == nil && p.UnitPrice == nil
}
