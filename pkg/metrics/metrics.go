// Package metrics exports sieve pipeline activity as Prometheus metrics.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/zoobzio/sieve"
)

// Observer is a sieve.Observer that mirrors buffer occupancy, aggregate
// counters and consumer sums into Prometheus collectors.
//
// Counters in sieve restart from zero on every run, so they are exported as
// gauges rather than Prometheus counters.
type Observer struct {
	sieve.NoOpObserver

	events      prometheus.Counter
	size        prometheus.Gauge
	capacity    prometheus.Gauge
	utilization prometheus.Gauge
	produced    prometheus.Gauge
	consumed    *prometheus.GaugeVec
	sums        *prometheus.GaugeVec
}

// New creates an Observer and registers its collectors with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func New(namespace string, reg prometheus.Registerer) (*Observer, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	o := &Observer{
		events: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Pipeline steps reported to observers",
		}),
		size: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "buffer_size",
			Help:      "Items currently buffered",
		}),
		capacity: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "buffer_capacity",
			Help:      "Maximum number of buffered items",
		}),
		utilization: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "buffer_utilization_percent",
			Help:      "Buffer occupancy as a percentage of capacity",
		}),
		produced: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "items_produced",
			Help:      "Items produced in the current run",
		}),
		consumed: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "items_consumed",
			Help:      "Items consumed in the current run by value classification",
		}, []string{"category"}),
		sums: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "consumer_sum",
			Help:      "Running sum of each consumer",
		}, []string{"consumer", "category"}),
	}

	for _, c := range []prometheus.Collector{
		o.events, o.size, o.capacity, o.utilization, o.produced, o.consumed, o.sums,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// OnEvent implements sieve.Observer.
func (o *Observer) OnEvent(_ string) {
	o.events.Inc()
}

// OnSum implements sieve.Observer.
func (o *Observer) OnSum(consumer int, category sieve.Category, sum int) {
	o.sums.WithLabelValues(strconv.Itoa(consumer), category.String()).Set(float64(sum))
}

// OnStats implements sieve.Observer.
func (o *Observer) OnStats(stats sieve.Stats) {
	o.size.Set(float64(stats.Size))
	o.capacity.Set(float64(stats.Capacity))
	o.utilization.Set(float64(stats.Utilization()))
	o.produced.Set(float64(stats.Produced))
	for _, c := range sieve.AllCategories {
		o.consumed.WithLabelValues(c.String()).Set(float64(stats.ConsumedIn(c)))
	}
}

var _ sieve.Observer = (*Observer)(nil)
