// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package metrics exposes process wide meters. Meters are no-ops until
// InitializePrometheusMetrics is called; declare them with the LazyLoad helpers
// so that package variables resolve to the active provider on first use.
package metrics

import (
	"net/http"
	"sync"
)

// provider creates meters by name. A second request for a name returns the first meter.
type provider interface {
	counter(name string) CountMeter
	counterVec(name string, labels []string) CountVecMeter
	gaugeVec(name string, labels []string) GaugeVecMeter
	histogramVec(name string, labels []string, buckets []int64) HistogramVecMeter
	handler() http.Handler
}

var metrics provider = nopProvider{}

// NoOp reports whether metrics collection is disabled.
func NoOp() bool {
	_, ok := metrics.(nopProvider)
	return ok
}

// HTTPHandler serves the collected metrics, or 404 when collection is disabled.
func HTTPHandler() http.Handler {
	return metrics.handler()
}

// BucketHTTPReqs are the histogram buckets of request durations in milliseconds.
var BucketHTTPReqs = []int64{
	0, 1, 2, 5, 10, 20, 30, 50, 75, 100,
	150, 200, 300, 400, 500, 750, 1000,
	1500, 2000, 3000, 4000, 5000, 10000,
}

// CountMeter is a monotonically increasing counter.
type CountMeter interface {
	Add(int64)
}

// CountVecMeter is a counter partitioned by labels.
type CountVecMeter interface {
	AddWithLabel(int64, map[string]string)
}

// GaugeVecMeter is a value that goes up and down, partitioned by labels.
type GaugeVecMeter interface {
	AddWithLabel(int64, map[string]string)
	SetWithLabel(int64, map[string]string)
}

// HistogramVecMeter samples observations into buckets, partitioned by labels.
type HistogramVecMeter interface {
	ObserveWithLabels(int64, map[string]string)
}

func Counter(name string) CountMeter { return metrics.counter(name) }

func CounterVec(name string, labels []string) CountVecMeter {
	return metrics.counterVec(name, labels)
}

func GaugeVec(name string, labels []string) GaugeVecMeter {
	return metrics.gaugeVec(name, labels)
}

func HistogramVec(name string, labels []string, buckets []int64) HistogramVecMeter {
	return metrics.histogramVec(name, labels, buckets)
}

// LazyLoad defers f to the first call, so a meter can be declared as a package
// variable before the provider is chosen.
func LazyLoad[T any](f func() T) func() T {
	var (
		result T
		once   sync.Once
	)
	return func() T {
		once.Do(func() {
			result = f()
		})
		return result
	}
}

func LazyLoadCounter(name string) func() CountMeter {
	return LazyLoad(func() CountMeter { return Counter(name) })
}

func LazyLoadCounterVec(name string, labels []string) func() CountVecMeter {
	return LazyLoad(func() CountVecMeter { return CounterVec(name, labels) })
}

func LazyLoadGaugeVec(name string, labels []string) func() GaugeVecMeter {
	return LazyLoad(func() GaugeVecMeter { return GaugeVec(name, labels) })
}

func LazyLoadHistogramVec(name string, labels []string, buckets []int64) func() HistogramVecMeter {
	return LazyLoad(func() HistogramVecMeter { return HistogramVec(name, labels, buckets) })
}
