package ledger_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturati/facturati-api/internal/domain/entity"
	"github.com/facturati/facturati-api/internal/domain/ledger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var (
	now      = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	creation = time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func produit(initial string) *entity.Product {
	return &entity.Product{
		ID:           "prod-1",
		CompanyID:    "soc-1",
		Reference:    "CAF-001",
		Name:         "Café moulu",
		Unit:         "kg",
		InitialStock: d(initial),
		CreatedAt:    creation,
	}
}

func mouvement(id, typ, qty string, at time.Time, orderID, ref string) entity.StockMovement {
	return entity.StockMovement{
		ID:        id,
		ProductID: "prod-1",
		Type:      typ,
		Quantity:  d(qty),
		Date:      at,
		OrderID:   orderID,
		Reference: ref,
	}
}

func commandeLivree(id, number, productName, qty string, delivered time.Time) entity.Order {
	return entity.Order{
		ID:           id,
		Number:       number,
		Status:       entity.OrderStatusLivre,
		Items:        []entity.OrderItem{{ProductName: productName, Quantity: d(qty)}},
		OrderDate:    delivered.AddDate(0, 0, -2),
		DeliveryDate: &delivered,
	}
}

// chronologique remet le ledger affiché (décroissant) en ordre croissant.
func chronologique(entries []ledger.Entry) []ledger.Entry {
	out := make([]ledger.Entry, len(entries))
	for i, e := range entries {
		out[len(entries)-1-i] = e
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Propriétés du rejeu
// ──────────────────────────────────────────────────────────────────────────────

// Continuité des soldes : newStock[i] == previousStock[i] + quantité signée,
// et previousStock[i+1] == newStock[i] sur la séquence chronologique.
func TestReplay_ContinuiteDesSoldes(t *testing.T) {
	livraison := creation.AddDate(0, 0, 10)
	retour := creation.AddDate(0, 0, 20)
	entries := ledger.Build(
		produit("100"),
		[]entity.StockMovement{
			mouvement("m1", entity.MovementTypeOrderOut, "-30", livraison, "cmd-1", "CMD-001"),
			mouvement("m2", entity.MovementTypeAdjustment, "-5.250", creation.AddDate(0, 0, 15), "", ""),
			mouvement("m3", entity.MovementTypeOrderCancelReturn, "30", retour, "cmd-1", "CMD-001"),
		},
		nil, now,
	)

	chain := chronologique(entries)
	require.NotEmpty(t, chain)
	for i, e := range chain {
		assert.True(t, e.NewStock.Equal(e.PreviousStock.Add(e.Quantity)),
			"entrée %d : newStock doit valoir previousStock + quantité", i)
		if i > 0 {
			assert.True(t, e.PreviousStock.Equal(chain[i-1].NewStock),
				"entrée %d : previousStock doit enchaîner sur le newStock précédent", i)
		}
	}
}

// Ancrage initial : avec initialStock > 0, la première entrée chronologique
// est de type initial et part d'un solde précédent nul.
func TestReplay_AncrageInitial(t *testing.T) {
	entries := ledger.Build(
		produit("100"),
		[]entity.StockMovement{
			mouvement("m1", entity.MovementTypeAdjustment, "4", creation.AddDate(0, 0, 3), "", ""),
		},
		nil, now,
	)

	chain := chronologique(entries)
	require.Len(t, chain, 2)
	assert.Equal(t, entity.MovementTypeInitial, chain[0].Type)
	assert.True(t, chain[0].PreviousStock.IsZero())
	assert.True(t, chain[0].NewStock.Equal(d("100")))
}

// Sans stock initial, le rejeu part de zéro au premier événement.
func TestReplay_SansStockInitial_PartDeZero(t *testing.T) {
	entries := ledger.Build(
		produit("0"),
		[]entity.StockMovement{
			mouvement("m1", entity.MovementTypeAdjustment, "12", creation.AddDate(0, 0, 1), "", ""),
		},
		nil, now,
	)

	require.Len(t, entries, 1)
	assert.True(t, entries[0].PreviousStock.IsZero())
	assert.True(t, entries[0].NewStock.Equal(d("12")))
}

// Horodatage absent : l'entrée se classe de façon déterministe en tout début
// de ledger au lieu de provoquer une erreur.
func TestReplay_HorodatageAbsent_ClasseEnPremier(t *testing.T) {
	sans := entity.StockMovement{
		ID:        "m-sans-date",
		ProductID: "prod-1",
		Type:      entity.MovementTypeAdjustment,
		Quantity:  d("2"),
	}
	entries := ledger.Build(
		produit("0"),
		[]entity.StockMovement{
			mouvement("m1", entity.MovementTypeAdjustment, "5", creation.AddDate(0, 0, 1), "", ""),
			sans,
		},
		nil, now,
	)

	chain := chronologique(entries)
	require.Len(t, chain, 2)
	assert.Equal(t, "m-sans-date", chain[0].ID)
	assert.True(t, chain[1].NewStock.Equal(d("7")))
}

// Les ex æquo conservent leur ordre relatif d'origine (tri stable).
func TestReplay_ExAequoStables(t *testing.T) {
	at := creation.AddDate(0, 0, 5)
	entries := ledger.Replay([]ledger.Entry{
		{ID: "a", Type: entity.MovementTypeAdjustment, Quantity: d("1"), Time: at},
		{ID: "b", Type: entity.MovementTypeAdjustment, Quantity: d("2"), Time: at},
	})
	chain := chronologique(entries)
	assert.Equal(t, "a", chain[0].ID)
	assert.Equal(t, "b", chain[1].ID)
	assert.True(t, chain[1].NewStock.Equal(d("3")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Déduplication
// ──────────────────────────────────────────────────────────────────────────────

// Deux écritures du même événement physique (retry amont) ne doivent produire
// qu'une seule ligne ; la plus récente l'emporte.
func TestDedup_RetryAmont_UneSeuleLigne(t *testing.T) {
	t1 := creation.AddDate(0, 0, 10)
	t2 := t1.Add(2 * time.Minute)
	in := []ledger.Entry{
		{ID: "m1", ProductID: "prod-1", Type: entity.MovementTypeOrderOut, Quantity: d("-30"), Time: t1, OrderID: "cmd-1", Reference: "CMD-001"},
		{ID: "m2", ProductID: "prod-1", Type: entity.MovementTypeOrderOut, Quantity: d("-30"), Time: t2, OrderID: "cmd-1", Reference: "CMD-001"},
	}

	out := ledger.Dedup(in)
	require.Len(t, out, 1)
	assert.Equal(t, "m2", out[0].ID, "le représentant retenu doit être le plus récent")
}

// À horodatage égal, la dernière entrée rencontrée est retenue (comparaison ≥).
func TestDedup_EgaliteHorodatage_DerniereVueGagne(t *testing.T) {
	at := creation.AddDate(0, 0, 10)
	in := []ledger.Entry{
		{ID: "m1", ProductID: "prod-1", Type: entity.MovementTypeOrderOut, Quantity: d("-30"), Time: at, OrderID: "cmd-1"},
		{ID: "m2", ProductID: "prod-1", Type: entity.MovementTypeOrderOut, Quantity: d("-30"), Time: at, OrderID: "cmd-1"},
	}

	out := ledger.Dedup(in)
	require.Len(t, out, 1)
	assert.Equal(t, "m2", out[0].ID)
}

// Une sortie et un retour sur la même commande ne sont PAS des doublons
// (types différents dans la clé).
func TestDedup_SortieEtRetour_Conserves(t *testing.T) {
	t1 := creation.AddDate(0, 0, 10)
	in := []ledger.Entry{
		{ID: "m1", ProductID: "prod-1", Type: entity.MovementTypeOrderOut, Quantity: d("-30"), Time: t1, OrderID: "cmd-1"},
		{ID: "m2", ProductID: "prod-1", Type: entity.MovementTypeOrderCancelReturn, Quantity: d("30"), Time: t1.Add(time.Hour), OrderID: "cmd-1"},
	}

	out := ledger.Dedup(in)
	assert.Len(t, out, 2)
}

// La quantité est comparée arrondie à 3 décimales : un écart au-delà de la
// granularité d'unité de mesure reste un doublon.
func TestDedup_QuantiteArrondie3Decimales(t *testing.T) {
	t1 := creation.AddDate(0, 0, 10)
	in := []ledger.Entry{
		{ID: "m1", ProductID: "prod-1", Type: entity.MovementTypeOrderOut, Quantity: d("-30.0001"), Time: t1, OrderID: "cmd-1"},
		{ID: "m2", ProductID: "prod-1", Type: entity.MovementTypeOrderOut, Quantity: d("-30.0004"), Time: t1.Add(time.Minute), OrderID: "cmd-1"},
	}

	out := ledger.Dedup(in)
	assert.Len(t, out, 1)
}

// Idempotence : Dedup(Dedup(x)) == Dedup(x).
func TestDedup_Idempotence(t *testing.T) {
	t1 := creation.AddDate(0, 0, 10)
	in := []ledger.Entry{
		{ID: "m1", ProductID: "prod-1", Type: entity.MovementTypeOrderOut, Quantity: d("-30"), Time: t1, OrderID: "cmd-1"},
		{ID: "m2", ProductID: "prod-1", Type: entity.MovementTypeOrderOut, Quantity: d("-30"), Time: t1.Add(time.Minute), OrderID: "cmd-1"},
		{ID: "m3", ProductID: "prod-1", Type: entity.MovementTypeAdjustment, Quantity: d("5"), Time: t1},
	}

	once := ledger.Dedup(in)
	twice := ledger.Dedup(once)
	assert.Equal(t, once, twice)
}

// ──────────────────────────────────────────────────────────────────────────────
// Collecte et union commandes/mouvements
// ──────────────────────────────────────────────────────────────────────────────

// Normalisation de signe : une sortie enregistrée positive devient négative,
// un retour enregistré négatif devient positif.
func TestCollect_NormalisationDesSignes(t *testing.T) {
	t1 := creation.AddDate(0, 0, 10)
	entries := ledger.Collect(
		produit("0"),
		[]entity.StockMovement{
			mouvement("m1", entity.MovementTypeOrderOut, "30", t1, "cmd-1", "CMD-001"),
			mouvement("m2", entity.MovementTypeOrderCancelReturn, "-30", t1.Add(time.Hour), "cmd-1", "CMD-001"),
		},
		nil, now,
	)

	require.Len(t, entries, 2)
	byID := map[string]ledger.Entry{}
	for _, e := range entries {
		byID[e.ID] = e
	}
	assert.True(t, byID["m1"].Quantity.Equal(d("-30")), "une sortie est toujours négative")
	assert.True(t, byID["m2"].Quantity.Equal(d("30")), "un retour est toujours positif")
}

// Complétude de l'union : chaque commande livrée contenant le produit pèse
// exactement une fois sur le ledger, qu'un mouvement explicite existe ou non.
func TestCollect_UnionCommandes_JamaisZeroNiDouble(t *testing.T) {
	delivered := creation.AddDate(0, 0, 10)
	order := commandeLivree("cmd-1", "CMD-001", "Café moulu", "30", delivered)

	// Mouvement explicite présent : la voie synthétique doit se taire.
	avecMouvement := ledger.Collect(
		produit("100"),
		[]entity.StockMovement{
			mouvement("m1", entity.MovementTypeOrderOut, "-30", delivered, "cmd-1", "CMD-001"),
		},
		[]entity.Order{order}, now,
	)
	assert.Len(t, avecMouvement, 2, "initial + un seul effet de commande")

	// Aucun mouvement : exactement une entrée synthétique de -30.
	sansMouvement := ledger.Collect(produit("100"), nil, []entity.Order{order}, now)
	require.Len(t, sansMouvement, 2)
	var synth *ledger.Entry
	for i := range sansMouvement {
		if sansMouvement[i].Synthetic && sansMouvement[i].Type == entity.MovementTypeOrderOut {
			synth = &sansMouvement[i]
		}
	}
	require.NotNil(t, synth, "une sortie synthétique doit être générée")
	assert.True(t, synth.Quantity.Equal(d("-30")))
	assert.Equal(t, "cmd-1", synth.OrderID)
	assert.Equal(t, delivered, synth.Time, "la date de livraison est prioritaire")
}

// Le rapprochement par libellé ignore accents, casse et espaces superflus.
func TestCollect_RapprochementLibelleInsensibleAuxAccents(t *testing.T) {
	delivered := creation.AddDate(0, 0, 10)
	order := commandeLivree("cmd-1", "CMD-001", "  CAFE  MOULU ", "12.5", delivered)

	entries := ledger.Collect(produit("0"), nil, []entity.Order{order}, now)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Quantity.Equal(d("-12.5")))
}

// Plusieurs lignes du même produit dans une commande sont sommées.
func TestCollect_LignesMultiplesSommees(t *testing.T) {
	delivered := creation.AddDate(0, 0, 10)
	order := entity.Order{
		ID:     "cmd-1",
		Number: "CMD-001",
		Status: entity.OrderStatusLivre,
		Items: []entity.OrderItem{
			{ProductName: "Café moulu", Quantity: d("10")},
			{ProductName: "Café moulu", Quantity: d("2.500")},
			{ProductName: "Thé vert", Quantity: d("4")},
		},
		DeliveryDate: &delivered,
	}

	entries := ledger.Collect(produit("0"), nil, []entity.Order{order}, now)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Quantity.Equal(d("-12.5")))
}

// Les commandes non livrées n'alimentent jamais le ledger.
func TestCollect_CommandeNonLivreeIgnoree(t *testing.T) {
	order := commandeLivree("cmd-1", "CMD-001", "Café moulu", "30", creation.AddDate(0, 0, 10))
	order.Status = entity.OrderStatusConfirme

	entries := ledger.Collect(produit("0"), nil, []entity.Order{order}, now)
	assert.Empty(t, entries)
}

// Sans date de livraison ni mise à jour, la date de commande est utilisée ;
// à défaut de tout, l'instant courant.
func TestCollect_PreferenceDeDates(t *testing.T) {
	orderDate := creation.AddDate(0, 0, 8)
	order := entity.Order{
		ID:        "cmd-1",
		Number:    "CMD-001",
		Status:    entity.OrderStatusLivre,
		Items:     []entity.OrderItem{{ProductName: "Café moulu", Quantity: d("1")}},
		OrderDate: orderDate,
	}
	entries := ledger.Collect(produit("0"), nil, []entity.Order{order}, now)
	require.Len(t, entries, 1)
	assert.Equal(t, orderDate, entries[0].Time)

	sansDates := entity.Order{
		ID:     "cmd-2",
		Number: "CMD-002",
		Status: entity.OrderStatusLivre,
		Items:  []entity.OrderItem{{ProductName: "Café moulu", Quantity: d("1")}},
	}
	entries = ledger.Collect(produit("0"), nil, []entity.Order{sansDates}, now)
	require.Len(t, entries, 1)
	assert.Equal(t, now, entries[0].Time)
}

// ──────────────────────────────────────────────────────────────────────────────
// Scénarios de bout en bout
// ──────────────────────────────────────────────────────────────────────────────

// Scénario A : stock initial 100, aucun autre mouvement -> une seule entrée,
// solde 100.
func TestScenario_StockInitialSeul(t *testing.T) {
	entries := ledger.Build(produit("100"), nil, nil, now)

	require.Len(t, entries, 1)
	assert.Equal(t, entity.MovementTypeInitial, entries[0].Type)
	assert.True(t, entries[0].NewStock.Equal(d("100")))
}

// Scénario B : initial 100 + une livraison de 30 avec mouvement explicite ->
// deux entrées, solde final 70.
func TestScenario_LivraisonAvecMouvementExplicite(t *testing.T) {
	delivered := creation.AddDate(0, 0, 10)
	entries := ledger.Build(
		produit("100"),
		[]entity.StockMovement{
			mouvement("m1", entity.MovementTypeOrderOut, "-30", delivered, "cmd-1", "CMD-001"),
		},
		[]entity.Order{commandeLivree("cmd-1", "CMD-001", "Café moulu", "30", delivered)},
		now,
	)

	require.Len(t, entries, 2)
	assert.True(t, entries[0].NewStock.Equal(d("70")), "le plus récent est affiché en premier")
}

// Scénario C : même commande livrée mais sans aucun mouvement explicite ->
// exactement une entrée synthétique de -30, jamais trois entrées au total.
func TestScenario_LivraisonSansMouvement_SyntheseUnique(t *testing.T) {
	delivered := creation.AddDate(0, 0, 10)
	entries := ledger.Build(
		produit("100"),
		nil,
		[]entity.Order{commandeLivree("cmd-1", "CMD-001", "Café moulu", "30", delivered)},
		now,
	)

	require.Len(t, entries, 2)
	assert.True(t, entries[0].Synthetic)
	assert.True(t, entries[0].Quantity.Equal(d("-30")))
	assert.True(t, entries[0].NewStock.Equal(d("70")))
}

// Scénario D : une annulation restitue les 30 unités après le scénario B ->
// le solde final revient à 100.
func TestScenario_AnnulationRestitueLeStock(t *testing.T) {
	delivered := creation.AddDate(0, 0, 10)
	returned := delivered.AddDate(0, 0, 5)
	entries := ledger.Build(
		produit("100"),
		[]entity.StockMovement{
			mouvement("m1", entity.MovementTypeOrderOut, "-30", delivered, "cmd-1", "CMD-001"),
			mouvement("m2", entity.MovementTypeOrderCancelReturn, "30", returned, "cmd-1", "CMD-001"),
		},
		nil, now,
	)

	require.Len(t, entries, 3)
	assert.True(t, entries[0].NewStock.Equal(d("100")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Filtres
// ──────────────────────────────────────────────────────────────────────────────

func ledgerPourFiltres(t *testing.T) []ledger.Entry {
	t.Helper()
	recent := now.AddDate(0, 0, -2)
	ancien := now.AddDate(0, -2, 0)
	return ledger.Build(
		produit("100"),
		[]entity.StockMovement{
			mouvement("m1", entity.MovementTypeOrderOut, "-30", ancien, "cmd-1", "CMD-001"),
			mouvement("m2", entity.MovementTypeAdjustment, "5", recent, "", ""),
			mouvement("m3", entity.MovementTypeOrderOut, "-10", recent.Add(time.Hour), "cmd-2", "CMD-002"),
		},
		nil, now,
	)
}

// Commutativité : type puis période == période puis type.
func TestFilter_Commutativite(t *testing.T) {
	entries := ledgerPourFiltres(t)

	typeDAbord := ledger.Apply(
		ledger.Apply(entries, ledger.FilterParams{Type: ledger.TypeFilterOrders}, now),
		ledger.FilterParams{Period: ledger.PeriodWeek}, now,
	)
	periodeDAbord := ledger.Apply(
		ledger.Apply(entries, ledger.FilterParams{Period: ledger.PeriodWeek}, now),
		ledger.FilterParams{Type: ledger.TypeFilterOrders}, now,
	)

	assert.Equal(t, typeDAbord, periodeDAbord)
	require.Len(t, typeDAbord, 1)
	assert.Equal(t, "m3", typeDAbord[0].ID)
}

// Les filtres composent en ET et préservent l'ordre décroissant.
func TestFilter_CompositionEtOrdre(t *testing.T) {
	entries := ledgerPourFiltres(t)

	orders := ledger.Apply(entries, ledger.FilterParams{Type: ledger.TypeFilterOrders}, now)
	require.Len(t, orders, 2)
	assert.True(t, orders[0].Time.After(orders[1].Time), "l'ordre décroissant est préservé")

	adj := ledger.Apply(entries, ledger.FilterParams{Type: ledger.TypeFilterAdjustments}, now)
	require.Len(t, adj, 1)
	assert.Equal(t, "m2", adj[0].ID)

	init := ledger.Apply(entries, ledger.FilterParams{Type: ledger.TypeFilterInitial}, now)
	require.Len(t, init, 1)
	assert.Equal(t, entity.MovementTypeInitial, init[0].Type)
}

// Plage explicite : bornes inclusives ; combinée à la période rapide, la plus
// restrictive s'applique.
func TestFilter_PlageExplicite(t *testing.T) {
	entries := ledgerPourFiltres(t)

	from := now.AddDate(0, -3, 0)
	to := now.AddDate(0, -1, 0)
	out := ledger.Apply(entries, ledger.FilterParams{From: &from, To: &to}, now)
	require.Len(t, out, 1)
	assert.Equal(t, "m1", out[0].ID)
}

// Une plage inversée (fin avant début) renvoie un résultat vide, sans erreur.
func TestFilter_PlageInversee_VideSansErreur(t *testing.T) {
	entries := ledgerPourFiltres(t)

	from := now
	to := now.AddDate(0, -1, 0)
	out := ledger.Apply(entries, ledger.FilterParams{From: &from, To: &to}, now)
	assert.Empty(t, out)
}
