// Package metrics expone los contadores Prometheus del motor de stock.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Resultados de un plan de duplicación.
const (
	ResultApplied  = "applied"
	ResultRejected = "rejected"
	ResultFailed   = "failed"
)

// Metrics colectores del servicio. Se registran en el Registerer que se pase a New.
type Metrics struct {
	GroupsBuilt      prometheus.Counter
	GroupingRecords  prometheus.Histogram
	DuplicationPlans *prometheus.CounterVec
	Pagination       *prometheus.CounterVec
}

// New crea y registra los colectores.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		GroupsBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stock_groups_built_total",
			Help: "Grupos lógicos de inventario construidos.",
		}),
		GroupingRecords: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "stock_grouping_records",
			Help:    "Filas crudas por ciclo de agrupación.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),
		DuplicationPlans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stock_duplication_plans_total",
			Help: "Planes de duplicación por resultado.",
		}, []string{"result"}),
		Pagination: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stock_pagination_total",
			Help: "Vistas paginadas por modo (server/client).",
		}, []string{"mode"}),
	}
	reg.MustRegister(m.GroupsBuilt, m.GroupingRecords, m.DuplicationPlans, m.Pagination)
	return m
}
