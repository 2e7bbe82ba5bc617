/*
Copyright © contributors to CloudNativePG, established as
CloudNativePG a Series of LF Projects, LLC.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.

SPDX-License-Identifier: Apache-2.0
*/

package tuner

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "pgtuner"
	subsystem = "config"
)

// Metrics exposes the computed configuration as Prometheus gauges so a
// harness run can be compared across hosts and profile choices.
type Metrics struct {
	SharedBuffersMB      *prometheus.GaugeVec
	EffectiveCacheSizeMB *prometheus.GaugeVec
	MaintenanceWorkMemMB *prometheus.GaugeVec
	WorkMemMB            *prometheus.GaugeVec
	WALBuffersMB         *prometheus.GaugeVec
	MaxConnections       *prometheus.GaugeVec
	IOWorkers            *prometheus.GaugeVec
	WorkerProcesses      *prometheus.GaugeVec
	ComputationsTotal    *prometheus.CounterVec
}

// NewMetrics creates configuration metrics
func NewMetrics() *Metrics {
	labels := []string{"workload", "storage"}

	newGauge := func(name, help string) *prometheus.GaugeVec {
		return prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      name,
				Help:      help,
			},
			labels,
		)
	}

	return &Metrics{
		SharedBuffersMB:      newGauge("shared_buffers_mb", "Computed shared_buffers in MB"),
		EffectiveCacheSizeMB: newGauge("effective_cache_size_mb", "Computed effective_cache_size in MB"),
		MaintenanceWorkMemMB: newGauge("maintenance_work_mem_mb", "Computed maintenance_work_mem in MB"),
		WorkMemMB:            newGauge("work_mem_mb", "Computed work_mem in MB"),
		WALBuffersMB:         newGauge("wal_buffers_mb", "Computed wal_buffers in MB"),
		MaxConnections:       newGauge("max_connections", "Computed max_connections"),
		IOWorkers:            newGauge("io_workers", "Computed io_workers"),
		WorkerProcesses:      newGauge("max_worker_processes", "Computed max_worker_processes"),
		ComputationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "computations_total",
				Help:      "Total number of sizing computations",
			},
			labels,
		),
	}
}

// Register registers all metrics with the provided registry
func (m *Metrics) Register(registry prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.SharedBuffersMB,
		m.EffectiveCacheSizeMB,
		m.MaintenanceWorkMemMB,
		m.WorkMemMB,
		m.WALBuffersMB,
		m.MaxConnections,
		m.IOWorkers,
		m.WorkerProcesses,
		m.ComputationsTotal,
	}

	for _, c := range collectors {
		if err := registry.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Record updates all gauges from a computed configuration
func (m *Metrics) Record(cfg *Config) {
	if cfg == nil {
		return
	}
	workload := cfg.Workload.Name
	storage := cfg.Storage.Name

	m.SharedBuffersMB.WithLabelValues(workload, storage).Set(float64(cfg.SharedBuffersMB))
	m.EffectiveCacheSizeMB.WithLabelValues(workload, storage).Set(float64(cfg.EffectiveCacheSizeMB))
	m.MaintenanceWorkMemMB.WithLabelValues(workload, storage).Set(float64(cfg.MaintenanceWorkMemMB))
	m.WorkMemMB.WithLabelValues(workload, storage).Set(float64(cfg.WorkMemMB))
	m.WALBuffersMB.WithLabelValues(workload, storage).Set(float64(cfg.WALBuffersMB))
	m.MaxConnections.WithLabelValues(workload, storage).Set(float64(cfg.MaxConnections))
	m.IOWorkers.WithLabelValues(workload, storage).Set(float64(cfg.IOWorkersCount))
	m.WorkerProcesses.WithLabelValues(workload, storage).Set(float64(cfg.WorkerProcessesCount))
	m.ComputationsTotal.WithLabelValues(workload, storage).Inc()
}
