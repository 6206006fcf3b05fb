package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product représente un produit du catalogue (multi-société).
// CurrentStock est le champ "stock courant" maintenu par les mouvements ;
// InitialStock est la quantité saisie à la création du produit.
type Product struct {
	ID           string
	CompanyID    string
	Reference    string // code unique par société (SKU)
	Name         string
	Category     string
	Unit         string          // pièce, kg, litre...
	Price        decimal.Decimal // prix de vente HT
	TaxRate      decimal.Decimal // TVA : 0, 0.07, 0.10, 0.14, 0.20
	InitialStock decimal.Decimal // stock saisi à la création
	CurrentStock decimal.Decimal // stock courant (mis à jour par les mouvements)
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
