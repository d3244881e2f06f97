package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Mutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "contagio_mutations_total",
		Help: "Total facade mutations applied, labelled by operation.",
	}, []string{"op"})

	CascadePasses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "contagio_cascade_passes_total",
		Help: "Total fixed-point scan passes run by the dependency engine.",
	})

	CascadePromotions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "contagio_cascade_promotions_total",
		Help: "Missions promoted LOCKED -> AVAILABLE by the forward cascade.",
	})

	CascadeDemotions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "contagio_cascade_demotions_total",
		Help: "Missions forced back to LOCKED by the backward cascade.",
	})

	FlavorFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "contagio_flavor_fallbacks_total",
		Help: "Flavor-text generations that degraded to the local fallback.",
	})

	SaveOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "contagio_save_operations_total",
		Help: "Save slot operations, labelled by kind and status.",
	}, []string{"kind", "status"})
)
