package ledger

import (
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/facturati/facturati-api/internal/domain/entity"
)

// Collect rassemble les entrées candidates du ledger d'un produit depuis les
// trois origines possibles, puis unionne les commandes livrées dont la
// livraison n'a jamais produit de mouvement explicite :
//
//  1. une entrée "initial" synthétique si le stock initial du produit est > 0,
//     datée à la création du produit ;
//  2. les rectifications manuelles, quantité prise telle quelle ;
//  3. les mouvements liés aux commandes, signe normalisé (sortie négative,
//     retour positif) puis dédupliqués ;
//  4. une sortie synthétique par commande livrée contenant le produit et
//     absente de l'ensemble des mouvements survivants de l'étape 3.
//
// Deux chemins d'écriture indépendants alimentent les mouvements (le service
// de traitement des commandes et les commandes passées en "livre" sans
// mouvement enregistré) ; l'union doit compter chaque événement une seule fois.
// Le résultat n'est pas ordonné ; Replay s'en charge.
func Collect(product *entity.Product, movements []entity.StockMovement, orders []entity.Order, now time.Time) []Entry {
	var entries []Entry

	// 1. Stock initial synthétique.
	if product.InitialStock.GreaterThan(decimal.Zero) {
		entries = append(entries, Entry{
			ID:        "initial-" + product.ID,
			ProductID: product.ID,
			Type:      entity.MovementTypeInitial,
			Quantity:  product.InitialStock,
			Time:      product.CreatedAt,
			Reason:    "Stock initial",
			Synthetic: true,
		})
	}

	// 2. Rectifications manuelles, signe déjà correct dans la donnée.
	for _, m := range movements {
		if m.ProductID != product.ID || m.Type != entity.MovementTypeAdjustment {
			continue
		}
		entries = append(entries, fromMovement(m, m.Quantity))
	}

	// 3. Mouvements liés aux commandes, signe normalisé puis déduplication.
	var orderEntries []Entry
	for _, m := range movements {
		if m.ProductID != product.ID {
			continue
		}
		switch m.Type {
		case entity.MovementTypeOrderOut:
			orderEntries = append(orderEntries, fromMovement(m, m.Quantity.Abs().Neg()))
		case entity.MovementTypeOrderCancelReturn:
			orderEntries = append(orderEntries, fromMovement(m, m.Quantity.Abs()))
		}
	}
	orderEntries = Dedup(orderEntries)
	entries = append(entries, orderEntries...)

	// IDs de commande déjà couverts par un mouvement explicite survivant.
	covered := make(map[string]bool, len(orderEntries))
	for _, e := range orderEntries {
		if e.OrderID != "" {
			covered[e.OrderID] = true
		}
	}

	// 4. Sorties synthétiques pour les commandes livrées sans mouvement.
	wanted := normalizeName(product.Name)
	for _, o := range orders {
		if !o.IsDelivered() || covered[o.ID] {
			continue
		}
		qty := decimal.Zero
		for _, item := range o.Items {
			if normalizeName(item.ProductName) == wanted {
				qty = qty.Add(item.Quantity)
			}
		}
		if !qty.GreaterThan(decimal.Zero) {
			continue
		}
		userName := o.CreatedByName
		if userName == "" {
			userName = o.UserName
		}
		entries = append(entries, Entry{
			ID:        "order-" + o.ID,
			ProductID: product.ID,
			Type:      entity.MovementTypeOrderOut,
			Quantity:  qty.Neg(),
			Time:      o.EffectiveDate(now),
			Reason:    "Livraison commande " + o.Number,
			UserName:  userName,
			Reference: o.Number,
			OrderID:   o.ID,
			Synthetic: true,
		})
	}

	return entries
}

func fromMovement(m entity.StockMovement, qty decimal.Decimal) Entry {
	return Entry{
		ID:        m.ID,
		ProductID: m.ProductID,
		Type:      m.Type,
		Quantity:  qty,
		Time:      m.EffectiveTime(),
		Reason:    m.Reason,
		UserName:  m.UserName,
		Reference: m.Reference,
		OrderID:   m.OrderID,
	}
}

// Suppression des diacritiques pour le rapprochement de libellés produits
// ("Café moulu" et "Cafe Moulu" désignent le même article dans les commandes
// historiques).
var nameFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func normalizeName(s string) string {
	folded, _, err := transform.String(nameFolder, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.Join(strings.Fields(folded), " "))
}
