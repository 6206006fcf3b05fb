package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entry est une ligne de ledger matérialisée à la demande : un mouvement de
// stock (réel ou synthétique) annoté des soldes avant/après calculés par le
// rejeu. Jamais persistée ; recalculée de zéro à chaque invocation.
type Entry struct {
	ID        string
	ProductID string
	Type      string          // initial | adjustment | order_out | order_cancel_return
	Quantity  decimal.Decimal // toujours signée après collecte
	Time      time.Time       // horodatage effectif (zéro si donnée défectueuse : classée en début de ledger)
	Reason    string
	UserName  string
	Reference string
	OrderID   string
	Synthetic bool // inférée d'une commande livrée sans mouvement explicite

	// Soldes calculés par Replay.
	PreviousStock decimal.Decimal
	NewStock      decimal.Decimal
}

// Period fenêtre rapide de filtrage.
type Period string

const (
	PeriodAll     Period = "all"
	PeriodWeek    Period = "week"
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "quarter"
)

// TypeFilter filtre par nature de mouvement.
type TypeFilter string

const (
	TypeFilterAll         TypeFilter = "all"
	TypeFilterOrders      TypeFilter = "orders"
	TypeFilterAdjustments TypeFilter = "adjustments"
	TypeFilterInitial     TypeFilter = "initial"
)

// FilterParams paramètres de projection du ledger affiché. Les filtres actifs
// se composent en ET logique ; aucune combinaison n'est invalide (une plage
// inversée produit simplement un résultat vide).
type FilterParams struct {
	Period Period
	From   *time.Time
	To     *time.Time
	Type   TypeFilter
}
