package app

import (
	"github.com/iov-one/revshare/x/distribution"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are updated only after a successful commit so that rolled back
// operations are never counted.
var (
	distributionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "revshare",
		Subsystem: "ledger",
		Name:      "distributions_total",
		Help:      "Number of committed payment distributions.",
	})
	grossAmountTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "revshare",
		Subsystem: "ledger",
		Name:      "gross_amount_total",
		Help:      "Sum of gross amounts of committed payment distributions.",
	})
	feeAmountTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "revshare",
		Subsystem: "ledger",
		Name:      "fee_amount_total",
		Help:      "Sum of platform fees collected by committed distributions.",
	})
	batchTransfersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "revshare",
		Subsystem: "ledger",
		Name:      "batch_transfers_total",
		Help:      "Number of batch transfers by outcome.",
	}, []string{"result"})
	commitVersion = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "revshare",
		Subsystem: "ledger",
		Name:      "commit_version",
		Help:      "Latest committed store version.",
	})
)

func observeDistribution(e *distribution.DistributionEvent) {
	distributionsTotal.Inc()
	grossAmountTotal.Add(float64(e.GrossAmount))
	feeAmountTotal.Add(float64(e.Fee))
}

func observeBatch(ok, failed int) {
	batchTransfersTotal.WithLabelValues("ok").Add(float64(ok))
	batchTransfersTotal.WithLabelValues("failed").Add(float64(failed))
}
