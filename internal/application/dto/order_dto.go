package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemDTO ligne de commande.
type OrderItemDTO struct {
	ProductID   string          `json:"product_id,omitempty"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// CreateOrderRequest body pour POST /api/orders.
type CreateOrderRequest struct {
	ClientID   string         `json:"client_id,omitempty"`
	ClientType string         `json:"client_type,omitempty"` // particulier | entreprise
	ClientName string         `json:"client_name,omitempty"`
	Items      []OrderItemDTO `json:"items"`
}

// OrderResponse représentation d'une commande.
type OrderResponse struct {
	ID            string          `json:"id"`
	Number        string          `json:"number"`
	Status        string          `json:"status"`
	ClientID      string          `json:"client_id,omitempty"`
	ClientType    string          `json:"client_type,omitempty"`
	ClientName    string          `json:"client_name,omitempty"`
	Items         []OrderItemDTO  `json:"items"`
	OrderDate     time.Time       `json:"order_date"`
	DeliveryDate  *time.Time      `json:"delivery_date,omitempty"`
	CreatedByName string          `json:"created_by_name,omitempty"`
	TotalTTC      decimal.Decimal `json:"total_ttc"`
	InvoiceID     string          `json:"invoice_id,omitempty"`
}
