package ledger

import "github.com/facturati/facturati-api/internal/domain/entity"

// Dedup réduit les groupes d'entrées liées aux commandes qui décrivent le même
// événement physique à un seul représentant. Les processus amont peuvent
// écrire un mouvement à la création de la commande puis à nouveau à son
// annulation, ou rejouer une écriture après un échec transitoire : l'affichage
// doit montrer chaque événement réel une seule fois.
//
// Clé de regroupement : (type, orderId, productId, reference, quantité
// arrondie à 3 décimales). Au sein d'un groupe, l'entrée la plus récente
// l'emporte ; à horodatage égal, la dernière rencontrée dans l'ordre
// d'itération. Les types hors commande passent inchangés. Idempotent.
func Dedup(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	index := make(map[dedupKey]int)

	for _, e := range entries {
		if e.Type != entity.MovementTypeOrderOut && e.Type != entity.MovementTypeOrderCancelReturn {
			out = append(out, e)
			continue
		}
		key := dedupKey{
			Type:      e.Type,
			OrderID:   e.OrderID,
			ProductID: e.ProductID,
			Reference: e.Reference,
			Quantity:  e.Quantity.Round(3).String(),
		}
		if i, seen := index[key]; seen {
			// ">=" : à égalité d'horodatage, la plus récemment vue est retenue.
			if !e.Time.Before(out[i].Time) {
				out[i] = e
			}
			continue
		}
		index[key] = len(out)
		out = append(out, e)
	}

	return out
}

type dedupKey struct {
	Type      string
	OrderID   string
	ProductID string
	Reference string
	Quantity  string
}
