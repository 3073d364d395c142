package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	CertificatesIssued   prometheus.Counter
	PropertiesRegistered prometheus.Counter
	SharesSold           prometheus.Counter
	YieldPaid            prometheus.Counter
	AuthFailures         prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		CertificatesIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "civitas_certificates_issued_total",
			Help: "Total number of certificate credentials issued",
		}),
		PropertiesRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "civitas_properties_registered_total",
			Help: "Total number of properties registered",
		}),
		SharesSold: promauto.NewCounter(prometheus.CounterOpts{
			Name: "civitas_shares_sold_total",
			Help: "Total number of property share units sold",
		}),
		YieldPaid: promauto.NewCounter(prometheus.CounterOpts{
			Name: "civitas_yield_paid_total",
			Help: "Total yield paid out, in the smallest monetary unit",
		}),
		AuthFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "civitas_auth_failures_total",
			Help: "Total number of rejected operation authorizations",
		}),
	}
}
