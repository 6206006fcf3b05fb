package dto

import "github.com/shopspring/decimal"

// CreateProductRequest body pour POST /api/products.
// InitialStock > 0 produit l'entrée "initial" du ledger du produit.
type CreateProductRequest struct {
	Reference    string           `json:"reference"`
	Name         string           `json:"name"`
	Category     string           `json:"category,omitempty"`
	Unit         string           `json:"unit,omitempty"`
	Price        decimal.Decimal  `json:"price"`
	TaxRate      *decimal.Decimal `json:"tax_rate,omitempty"`
	InitialStock decimal.Decimal  `json:"initial_stock"`
}

// UpdateProductRequest body pour PUT /api/products/:id.
// Le stock courant n'est pas modifiable ici : passer par une rectification.
type UpdateProductRequest struct {
	Name     string           `json:"name,omitempty"`
	Category string           `json:"category,omitempty"`
	Unit     string           `json:"unit,omitempty"`
	Price    *decimal.Decimal `json:"price,omitempty"`
	TaxRate  *decimal.Decimal `json:"tax_rate,omitempty"`
}

// ProductResponse représentation d'un produit.
type ProductResponse struct {
	ID           string          `json:"id"`
	Reference    string          `json:"reference"`
	Name         string          `json:"name"`
	Category     string          `json:"category,omitempty"`
	Unit         string          `json:"unit,omitempty"`
	Price        decimal.Decimal `json:"price"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	InitialStock decimal.Decimal `json:"initial_stock"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	CreatedAt    string          `json:"created_at"`
}
