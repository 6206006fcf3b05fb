// Package metrics expose les compteurs Prometheus de l'application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LedgerRebuilds nombre de reconstructions d'historique de stock
	// (le ledger est recalculé de zéro à chaque consultation).
	LedgerRebuilds = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "facturati",
		Name:      "stock_ledger_rebuilds_total",
		Help:      "Nombre de reconstructions du ledger de stock.",
	})

	// LedgerEntriesReplayed taille des ledgers rejoués, pour surveiller la
	// croissance des historiques produit.
	LedgerEntriesReplayed = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "facturati",
		Name:      "stock_ledger_entries_replayed",
		Help:      "Nombre d'entrées rejouées par reconstruction de ledger.",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
	})

	// HTTPRequests compteur de requêtes par route et statut.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "facturati",
		Name:      "http_requests_total",
		Help:      "Requêtes HTTP par méthode, route et code de statut.",
	}, []string{"method", "route", "status"})
)
