package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	OperationAdd    = "add"
	OperationRemove = "remove"
	OperationUpdate = "update"
)

// Cart counts cart operations per kind and tracks open sessions and event
// streams.
type Cart struct {
	Operations *prometheus.CounterVec
	Sessions   prometheus.Gauge
	Streams    prometheus.Gauge
}

func NewCart(registerer prometheus.Registerer) *Cart {
	m := &Cart{
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "cart",
			Name:      "operations_total",
			Help:      "Cart operations by kind.",
		}, []string{"operation"}),
		Sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "storefront",
			Subsystem: "cart",
			Name:      "sessions",
			Help:      "Carts held in memory.",
		}),
		Streams: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "storefront",
			Subsystem: "cart",
			Name:      "event_streams",
			Help:      "Open cart event streams.",
		}),
	}
	registerer.MustRegister(m.Operations, m.Sessions, m.Streams)
	return m
}
