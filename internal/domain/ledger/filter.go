package ledger

import (
	"time"

	"github.com/facturati/facturati-api/internal/domain/entity"
)

// Apply projette le ledger rejoué (ordre décroissant) sur les filtres actifs,
// composés en ET logique, en préservant l'ordre. Un résultat vide est valide ;
// distinguer "aucun mouvement filtré" de "aucun mouvement du tout" revient à
// l'appelant via la taille du ledger avant filtrage. Une plage de dates
// inversée exclut simplement toutes les entrées, sans erreur.
func Apply(entries []Entry, p FilterParams, now time.Time) []Entry {
	from := p.From
	if lower, ok := periodStart(p.Period, now); ok && (from == nil || lower.After(*from)) {
		from = &lower
	}

	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if from != nil && e.Time.Before(*from) {
			continue
		}
		if p.To != nil && e.Time.After(*p.To) {
			continue
		}
		if !matchesType(e.Type, p.Type) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func periodStart(p Period, now time.Time) (time.Time, bool) {
	switch p {
	case PeriodWeek:
		return now.AddDate(0, 0, -7), true
	case PeriodMonth:
		return now.AddDate(0, -1, 0), true
	case PeriodQuarter:
		return now.AddDate(0, -3, 0), true
	default:
		return time.Time{}, false
	}
}

func matchesType(movementType string, f TypeFilter) bool {
	switch f {
	case TypeFilterOrders:
		return movementType == entity.MovementTypeOrderOut || movementType == entity.MovementTypeOrderCancelReturn
	case TypeFilterAdjustments:
		return movementType == entity.MovementTypeAdjustment
	case TypeFilterInitial:
		return movementType == entity.MovementTypeInitial
	default:
		return true
	}
}
