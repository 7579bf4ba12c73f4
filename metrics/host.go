// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"os"
	"sync/atomic"

	"github.com/elastic/gosigar"
	"github.com/prometheus/client_golang/prometheus"
)

// HostCollector reports host memory and the resident size of this process.
// It implements prometheus.Collector.
type HostCollector struct {
	pid int

	memTotalDesc     *prometheus.Desc
	memFreeDesc      *prometheus.Desc
	procResidentDesc *prometheus.Desc
}

// NewHostCollector creates a collector for the current process.
func NewHostCollector() *HostCollector {
	return &HostCollector{
		pid: os.Getpid(),
		memTotalDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "host", "memory_total_bytes"),
			"Total physical memory of the host.",
			nil, nil,
		),
		memFreeDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "host", "memory_free_bytes"),
			"Physical memory available to new allocations.",
			nil, nil,
		),
		procResidentDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "process", "resident_memory_bytes"),
			"Resident set size of the process.",
			nil, nil,
		),
	}
}

func (c *HostCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.memTotalDesc
	ch <- c.memFreeDesc
	ch <- c.procResidentDesc
}

func (c *HostCollector) Collect(ch chan<- prometheus.Metric) {
	var mem gosigar.Mem
	if err := mem.Get(); err == nil {
		ch <- prometheus.MustNewConstMetric(c.memTotalDesc, prometheus.GaugeValue, float64(mem.Total))
		ch <- prometheus.MustNewConstMetric(c.memFreeDesc, prometheus.GaugeValue, float64(mem.ActualFree))
	}
	var proc gosigar.ProcMem
	if err := proc.Get(c.pid); err == nil {
		ch <- prometheus.MustNewConstMetric(c.procResidentDesc, prometheus.GaugeValue, float64(proc.Resident))
	}
}

var hostRegistered atomic.Bool

func registerHostCollector() {
	if hostRegistered.CompareAndSwap(false, true) {
		if err := prometheus.Register(NewHostCollector()); err != nil {
			logger.Warn("unable to register host collector", "err", err)
		}
	}
}
