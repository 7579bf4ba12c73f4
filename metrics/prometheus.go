// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"errors"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vechain/cstake/log"
)

const namespace = "cstake"

var logger = log.WithContext("pkg", "metrics")

// InitializePrometheusMetrics switches the process to Prometheus collection. It is idempotent.
func InitializePrometheusMetrics() {
	if _, ok := metrics.(*promProvider); !ok {
		metrics = newPromProvider(prometheus.DefaultRegisterer)
		registerHostCollector()
	}
}

type promProvider struct {
	registerer prometheus.Registerer
	meters     sync.Map // name => meter
	mu         sync.Mutex
}

func newPromProvider(registerer prometheus.Registerer) *promProvider {
	return &promProvider{registerer: registerer}
}

// load returns the meter stored under name, creating it once.
func load[T any](p *promProvider, name string, create func() T) T {
	if m, ok := p.meters.Load(name); ok {
		return m.(T)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if m, ok := p.meters.Load(name); ok {
		return m.(T)
	}
	m := create()
	p.meters.Store(name, m)
	return m
}

// register adds c to the registry. A collector registered earlier under the same
// description is returned instead of c.
func register[C prometheus.Collector](p *promProvider, name string, c C) C {
	if err := p.registerer.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		logger.Warn("unable to register metric", "name", name, "err", err)
	}
	return c
}

func (p *promProvider) counter(name string) CountMeter {
	return load(p, name, func() CountMeter {
		return promCounter{register(p, name, prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
		}))}
	})
}

func (p *promProvider) counterVec(name string, labels []string) CountVecMeter {
	return load(p, name, func() CountVecMeter {
		return promCounterVec{register(p, name, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
		}, labels))}
	})
}

func (p *promProvider) gaugeVec(name string, labels []string) GaugeVecMeter {
	return load(p, name, func() GaugeVecMeter {
		return promGaugeVec{register(p, name, prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      name,
		}, labels))}
	})
}

func (p *promProvider) histogramVec(name string, labels []string, buckets []int64) HistogramVecMeter {
	return load(p, name, func() HistogramVecMeter {
		floatBuckets := make([]float64, 0, len(buckets))
		for _, b := range buckets {
			floatBuckets = append(floatBuckets, float64(b))
		}
		return promHistogramVec{register(p, name, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      name,
			Buckets:   floatBuckets,
		}, labels))}
	})
}

func (p *promProvider) handler() http.Handler {
	return promhttp.Handler()
}

type promCounter struct{ counter prometheus.Counter }

func (c promCounter) Add(i int64) { c.counter.Add(float64(i)) }

type promCounterVec struct{ vec *prometheus.CounterVec }

func (c promCounterVec) AddWithLabel(i int64, labels map[string]string) {
	c.vec.With(labels).Add(float64(i))
}

type promGaugeVec struct{ vec *prometheus.GaugeVec }

func (g promGaugeVec) AddWithLabel(i int64, labels map[string]string) {
	g.vec.With(labels).Add(float64(i))
}

func (g promGaugeVec) SetWithLabel(i int64, labels map[string]string) {
	g.vec.With(labels).Set(float64(i))
}

type promHistogramVec struct{ vec *prometheus.HistogramVec }

func (h promHistogramVec) ObserveWithLabels(i int64, labels map[string]string) {
	h.vec.With(labels).Observe(float64(i))
}
