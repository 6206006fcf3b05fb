package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Statuts d'une commande client.
const (
	OrderStatusEnAttente = "en_attente"
	OrderStatusConfirme  = "confirme"
	OrderStatusLivre     = "livre" // déclenche la décrémentation du stock
	OrderStatusAnnule    = "annule"
)

// Types de client.
const (
	ClientTypeParticulier = "particulier"
	ClientTypeEntreprise  = "entreprise"
)

// Order représente une commande client avec ses lignes.
type Order struct {
	ID            string
	CompanyID     string
	Number        string
	Status        string
	ClientID      string
	ClientType    string // particulier | entreprise
	ClientName    string // dénormalisé pour l'affichage et l'historique
	Items         []OrderItem
	OrderDate     time.Time
	DeliveryDate  *time.Time // renseignée au passage en "livre"
	UpdatedAt     *time.Time
	CreatedAt     time.Time
	CreatedByName string
	UserName      string
	TotalTTC      decimal.Decimal
	InvoiceID     string // renseigné après conversion en facture (garde anti double comptage)
}

// OrderItem ligne de commande. ProductID peut être vide pour les commandes
// historiques ; le rapprochement se fait alors sur ProductName.
type OrderItem struct {
	ProductID   string
	ProductName string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// IsDelivered indique si la commande est au statut livré.
func (o Order) IsDelivered() bool {
	return o.Status == OrderStatusLivre
}

// EffectiveDate renvoie la date à utiliser pour une entrée de ledger
// synthétique : date de livraison, puis date de mise à jour, puis date de
// commande, puis l'instant courant.
func (o Order) EffectiveDate(now time.Time) time.Time {
	if o.DeliveryDate != nil && !o.DeliveryDate.IsZero() {
		return *o.DeliveryDate
	}
	if o.UpdatedAt != nil && !o.UpdatedAt.IsZero() {
		return *o.UpdatedAt
	}
	if !o.OrderDate.IsZero() {
		return o.OrderDate
	}
	return now
}
