package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "inventory", Name: "http_requests_total", Help: "Number of HTTP requests by method, route and status."},
		[]string{"method", "route", "status"},
	)
	PurchasesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "inventory", Name: "purchases_total", Help: "Number of recorded model purchases."},
	)
	ModelsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "inventory", Name: "models_created_total", Help: "Number of model listings created."},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(HTTPRequests)
	reg.MustRegister(PurchasesTotal)
	reg.MustRegister(ModelsCreated)
}
