package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Types de mouvement de stock.
const (
	MovementTypeInitial           = "initial"             // stock initial à la création du produit
	MovementTypeAdjustment        = "adjustment"          // rectification manuelle (signe déjà porté par la donnée)
	MovementTypeOrderOut          = "order_out"           // sortie liée à une commande livrée
	MovementTypeOrderCancelReturn = "order_cancel_return" // retour suite à annulation de commande
)

// StockMovement représente un événement modifiant la quantité en stock d'un
// produit. Les enregistrements sont en lecture seule pour le rejoueur de
// ledger : créés par la livraison de commandes, la rectification manuelle ou
// la création du produit, jamais modifiés ni supprimés par lui.
type StockMovement struct {
	ID                 string
	CompanyID          string
	ProductID          string
	Type               string
	Quantity           decimal.Decimal // signée ; normalisée par le collecteur pour les types commande
	Date               time.Time       // date de l'événement (peut être zéro si seul AdjustmentDateTime existe)
	AdjustmentDateTime *time.Time      // horodatage précis de la rectification, prioritaire sur Date
	Reason             string
	UserName           string
	Reference          string // facture, bon de commande, note de rectification...
	OrderID            string // référence optionnelle vers la commande d'origine
	CreatedAt          time.Time
}

// EffectiveTime renvoie l'horodatage de tri : AdjustmentDateTime s'il est
// présent, sinon Date. Si les deux sont absents (défaut de qualité de donnée),
// la valeur zéro est renvoyée et l'entrée se classe en tout début de ledger.
func (m StockMovement) EffectiveTime() time.Time {
	if m.AdjustmentDateTime != nil && !m.AdjustmentDateTime.IsZero() {
		return *m.AdjustmentDateTime
	}
	return m.Date
}
