package utils

import (
	"strconv"
	"time"

	"github.com/iov-one/revshare"
	"github.com/iov-one/revshare/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	operationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "revshare",
		Name:      "operations_total",
		Help:      "Number of processed operations by message path, mode and result code.",
	}, []string{"path", "mode", "code"})

	operationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "revshare",
		Name:      "operation_duration_seconds",
		Help:      "Time spent processing an operation.",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
	}, []string{"path", "mode"})
)

// Metrics is a decorator that counts processed operations and measures
// their duration.
type Metrics struct{}

var _ revshare.Decorator = Metrics{}

// NewMetrics creates a Metrics decorator
func NewMetrics() Metrics {
	return Metrics{}
}

// Check records a dry run operation.
func (m Metrics) Check(ctx revshare.Context, store revshare.KVStore, tx revshare.Tx, next revshare.Checker) (*revshare.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	observe(tx, "check", start, err)
	return res, err
}

// Deliver records an executed operation.
func (m Metrics) Deliver(ctx revshare.Context, store revshare.KVStore, tx revshare.Tx, next revshare.Deliverer) (*revshare.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	observe(tx, "deliver", start, err)
	return res, err
}

func observe(tx revshare.Tx, mode string, start time.Time, err error) {
	path := revshare.GetPath(tx)
	code := "0"
	if err != nil {
		code = strconv.FormatUint(uint64(errors.Code(err)), 10)
	}
	operationsTotal.WithLabelValues(path, mode, code).Inc()
	operationDuration.WithLabelValues(path, mode).Observe(time.Since(start).Seconds())
}
