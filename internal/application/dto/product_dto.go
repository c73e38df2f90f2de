package dto

import "time"

// ProductInputRequest insumo de una ficha técnica. Precio y cantidad aceptan coma decimal.
type ProductInputRequest struct {
	ItemID    string      `json:"id_item"`
	Code      string      `json:"codigo"`
	Name      string      `json:"nome"`
	Unit      string      `json:"unidade"`
	UnitPrice LooseNumber `json:"valor_unitario"`
	Quantity  LooseNumber `json:"quantidade"`
}

// CreateProductRequest entrada para crear una ficha técnica.
type CreateProductRequest struct {
	Name   string                `json:"nomeProduto"`
	Inputs []ProductInputRequest `json:"insumos"`
}

// CreateProductResponse resultado del alta.
type CreateProductResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

// ProductInputResponse insumo con el subtotal recalculado por el servidor.
type ProductInputResponse struct {
	ItemID    string  `json:"id_item,omitempty"`
	Code      string  `json:"codigo,omitempty"`
	Name      string  `json:"nome"`
	Unit      string  `json:"unidade"`
	UnitPrice float64 `json:"valor_unitario"`
	Quantity  float64 `json:"quantidade"`
	Subtotal  float64 `json:"subtotal"`
}

// ProductResponse salida de una ficha técnica.
type ProductResponse struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"nome"`
	NameLower string                 `json:"nome_lower"`
	Inputs    []ProductInputResponse `json:"insumos"`
	TotalCost float64                `json:"custo_total"`
	CreatedAt time.Time              `json:"data_criacao"`
	UpdatedAt time.Time              `json:"ultima_atualizacao"`
}
