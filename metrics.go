package vacation

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/viant/vacation/fault"
)

const outcomeOK = "ok"

type metrics struct {
	operations *prometheus.CounterVec
	latency    *prometheus.HistogramVec
}

func newMetrics(registerer prometheus.Registerer) (*metrics, error) {
	ret := &metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vacation",
			Name:      "transitions_total",
			Help:      "Vacation operations by outcome kind.",
		}, []string{"op", "kind"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "vacation",
			Name:      "transition_seconds",
			Help:      "Vacation operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
	}
	if registerer == nil {
		return ret, nil
	}
	if err := registerer.Register(ret.operations); err != nil {
		existing, err := alreadyRegistered(err)
		if err != nil {
			return nil, err
		}
		ret.operations = existing.(*prometheus.CounterVec)
	}
	if err := registerer.Register(ret.latency); err != nil {
		existing, err := alreadyRegistered(err)
		if err != nil {
			return nil, err
		}
		ret.latency = existing.(*prometheus.HistogramVec)
	}
	return ret, nil
}

func alreadyRegistered(err error) (prometheus.Collector, error) {
	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		return already.ExistingCollector, nil
	}
	return nil, err
}

func (m *metrics) observe(op string, started time.Time, err error) {
	outcome := outcomeOK
	if err != nil {
		outcome = fault.KindOf(err).String()
	}
	m.operations.WithLabelValues(op, outcome).Inc()
	m.latency.WithLabelValues(op).Observe(time.Since(started).Seconds())
}
