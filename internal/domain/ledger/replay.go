package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/facturati/facturati-api/internal/domain/entity"
)

// Replay trie les entrées par ordre chronologique croissant (tri stable, les
// ex æquo conservent leur ordre relatif d'origine) et calcule les soldes par
// rejeu en avant :
//
//   - "initial" : solde précédent 0, solde courant = quantité ;
//   - sinon : solde précédent = cumul, cumul += quantité signée.
//
// Le résultat est ensuite retrié par ordre décroissant pour l'affichage (le
// plus récent en premier). Les quantités sont décimales : aucune dérive
// flottante possible sur les longues chaînes de rejeu. Si aucune entrée
// "initial" n'existe, le rejeu part de 0 au premier événement ; le cumul
// obtenu peut différer du champ "stock courant" du produit, écart d'affichage
// assumé et non corrigé ici.
func Replay(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time.Before(out[j].Time)
	})

	running := decimal.Zero
	for i := range out {
		if out[i].Type == entity.MovementTypeInitial {
			out[i].PreviousStock = decimal.Zero
			running = out[i].Quantity
		} else {
			out[i].PreviousStock = running
			running = running.Add(out[i].Quantity)
		}
		out[i].NewStock = running
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time.After(out[j].Time)
	})

	return out
}

// Build exécute la chaîne complète collecte -> déduplication -> rejeu pour un
// produit. C'est le point d'entrée du reconstructeur d'historique de stock :
// fonction pure, sans état partagé, appelable depuis n'importe quelle
// goroutine sans synchronisation.
func Build(product *entity.Product, movements []entity.StockMovement, orders []entity.Order, now time.Time) []Entry {
	return Replay(Collect(product, movements, orders, now))
}
