package utils

import (
	"time"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is a decorator counting the processed transactions and
// measuring how long they take, per message path.
type Metrics struct {
	total    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ timelock.Decorator = Metrics{}

// NewMetrics creates a Metrics decorator with its collectors registered
// in given registry.
func NewMetrics(reg prometheus.Registerer) (Metrics, error) {
	m := Metrics{
		total: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "timelock",
				Name:      "tx_total",
				Help:      "Total number of processed transactions.",
			},
			[]string{"call", "path", "result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "timelock",
				Name:      "tx_duration_seconds",
				Help:      "Time it took to process a transaction.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"call", "path"},
		),
	}
	for _, c := range []prometheus.Collector{m.total, m.duration} {
		if err := reg.Register(c); err != nil {
			return m, errors.Wrap(errors.ErrHuman, err.Error())
		}
	}
	return m, nil
}

func (m Metrics) Check(ctx timelock.Context, store timelock.KVStore, tx timelock.Tx, next timelock.Checker) (*timelock.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	m.observe("check", tx, start, err)
	return res, err
}

func (m Metrics) Deliver(ctx timelock.Context, store timelock.KVStore, tx timelock.Tx, next timelock.Deliverer) (*timelock.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	m.observe("deliver", tx, start, err)
	return res, err
}

func (m Metrics) observe(call string, tx timelock.Tx, start time.Time, err error) {
	path := timelock.GetPath(tx)
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.total.WithLabelValues(call, path, result).Inc()
	m.duration.WithLabelValues(call, path).Observe(time.Since(start).Seconds())
}
