package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	AccountOpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "custapi_account_ops_total",
			Help: "Account operations counter by operation and outcome",
		},
		[]string{"op", "outcome"}, // register|login|update|delete , ok|rejected|error
	)
)

func MustRegister(r prometheus.Registerer) {
	r.MustRegister(
		AccountOpsTotal,
	)
}
