package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterAdjustmentRequest body pour POST /api/stock/adjustments.
// La quantité est signée : positive pour un ajout, négative pour un retrait.
type RegisterAdjustmentRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Reason    string          `json:"reason,omitempty"`
	Reference string          `json:"reference,omitempty"`
}

// LedgerEntryDTO ligne de l'historique de stock affiché. Les soldes sont
// formatés à exactement 3 décimales (granularité d'unité de mesure).
type LedgerEntryDTO struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	Quantity      string    `json:"quantity"`
	Date          time.Time `json:"date"`
	Reason        string    `json:"reason,omitempty"`
	UserName      string    `json:"user_name,omitempty"`
	Reference     string    `json:"reference,omitempty"`
	OrderID       string    `json:"order_id,omitempty"`
	Synthetic     bool      `json:"synthetic"`
	PreviousStock string    `json:"previous_stock"`
	NewStock      string    `json:"new_stock"`
}

// LedgerResponse historique rejoué d'un produit. TotalEntries donne la taille
// du ledger avant filtrage : un Entries vide avec TotalEntries > 0 signifie
// "tout est filtré", avec TotalEntries == 0 "aucun mouvement n'existe".
type LedgerResponse struct {
	ProductID    string           `json:"product_id"`
	ProductName  string           `json:"product_name"`
	Unit         string           `json:"unit,omitempty"`
	Entries      []LedgerEntryDTO `json:"entries"`
	TotalEntries int              `json:"total_entries"`
}

// StockMovementDTO mouvement de stock brut, tel que journalisé (sans rejeu
// de soldes).
type StockMovementDTO struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Type      string          `json:"type"`
	Quantity  decimal.Decimal `json:"quantity"`
	Date      time.Time       `json:"date"`
	Reason    string          `json:"reason,omitempty"`
	UserName  string          `json:"user_name,omitempty"`
	Reference string          `json:"reference,omitempty"`
	OrderID   string          `json:"order_id,omitempty"`
}

// LinkedOrderDTO détail de la commande liée à une entrée de ledger
// (action "voir la commande").
type LinkedOrderDTO struct {
	ID            string          `json:"id"`
	Number        string          `json:"number"`
	Status        string          `json:"status"`
	ClientName    string          `json:"client_name,omitempty"`
	ClientType    string          `json:"client_type,omitempty"`
	OrderDate     time.Time       `json:"order_date"`
	DeliveryDate  *time.Time      `json:"delivery_date,omitempty"`
	CreatedByName string          `json:"created_by_name,omitempty"`
	TotalTTC      decimal.Decimal `json:"total_ttc"`
	Items         []OrderItemDTO  `json:"items"`
}
