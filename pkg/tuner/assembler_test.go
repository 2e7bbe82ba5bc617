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
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Compute", func() {
	It("assemble a complete configuration for a typical host", func() {
		cfg := Compute(Resources{TotalRAMMB: 4096, CPUCores: 4}, WorkloadWeb, StorageSSD)

		Expect(cfg.SharedBuffersMB).To(Equal(int64(1024)))
		Expect(cfg.MaxConnections).To(Equal(170))
		Expect(cfg.EffectiveCacheSizeMB).To(Equal(int64(2048)))
		Expect(cfg.MaintenanceWorkMemMB).To(Equal(int64(256)))
		Expect(cfg.WALBuffersMB).To(Equal(int64(16)))
		Expect(cfg.MinWALSizeMB).To(Equal(int64(1024)))
		Expect(cfg.MaxWALSizeMB).To(Equal(int64(4096)))
		Expect(cfg.RandomPageCost).To(Equal(1.1))
		Expect(cfg.EffectiveIOConcurrency).To(Equal(200))
		Expect(cfg.MaintenanceIOConcurrency).To(Equal(20))
		Expect(cfg.IOWorkersCount).To(Equal(1))
		Expect(cfg.WorkerProcessesCount).To(Equal(6))
	})

	It("feed downstream calculators only computed upstream outputs", func() {
		cfg := Compute(Resources{TotalRAMMB: 4096, CPUCores: 4}, WorkloadMixed, StorageSSD)

		// max_connections = 102, so work_mem sees a 1020MB connection
		// overhead: pool = 4096-1024-1020-512 = 1540, divisor 408
		Expect(cfg.MaxConnections).To(Equal(102))
		Expect(cfg.WorkMemMB).To(Equal(int64(3)))
	})

	It("fall back to mixed and ssd for unknown profile names", func() {
		cfg := Compute(Resources{TotalRAMMB: 8192, CPUCores: 2}, "warehouse", "nvme")
		Expect(cfg.Workload.Name).To(Equal(WorkloadMixed))
		Expect(cfg.Storage.Name).To(Equal(StorageSSD))
	})

	It("produce identical output for identical input", func() {
		res := Resources{TotalRAMMB: 16384, CPUCores: 16}
		first := Compute(res, WorkloadDW, StorageSAN)
		second := Compute(res, WorkloadDW, StorageSAN)
		Expect(second).To(Equal(first))
		Expect(second.Render()).To(Equal(first.Render()))
	})

	It("keep effective_cache_size at least twice shared_buffers", func() {
		for _, ram := range []int64{64, 512, 1024, 2048, 4096, 8192, 16384, 65536, 262144} {
			for _, workload := range WorkloadNames() {
				cfg := Compute(Resources{TotalRAMMB: ram, CPUCores: 8}, workload, StorageSSD)
				Expect(cfg.EffectiveCacheSizeMB).To(
					BeNumerically(">=", 2*cfg.SharedBuffersMB),
					"ram=%d workload=%s", ram, workload)
			}
		}
	})

	It("keep every output within its documented bounds", func() {
		for _, ram := range []int64{1, 100, 1024, 3000, 8192, 100000, 1 << 20} {
			for _, cores := range []int{1, 2, 48, 256} {
				for _, workload := range WorkloadNames() {
					cfg := Compute(Resources{TotalRAMMB: ram, CPUCores: cores}, workload, StorageHDD)

					Expect(cfg.SharedBuffersMB).To(And(
						BeNumerically(">=", MinSharedBuffersMB),
						BeNumerically("<=", MaxSharedBuffersMB)))
					Expect(cfg.MaxConnections).To(BeNumerically(">=", MinMaxConnections))
					Expect(cfg.MaintenanceWorkMemMB).To(And(
						BeNumerically(">=", MinMaintenanceWorkMemMB),
						BeNumerically("<=", MaxMaintenanceWorkMemMB)))
					Expect(cfg.WorkMemMB).To(And(
						BeNumerically(">=", 1),
						BeNumerically("<=", 256)))
					Expect(cfg.WALBuffersMB).To(And(
						BeNumerically(">=", MinWALBuffersMB),
						BeNumerically("<=", MaxWALBuffersMB)))
					Expect(cfg.IOWorkersCount).To(And(
						BeNumerically(">=", MinIOWorkers),
						BeNumerically("<=", MaxIOWorkers)))
					Expect(cfg.WorkerProcessesCount).To(And(
						BeNumerically(">=", MinWorkerProcesses),
						BeNumerically("<=", MaxWorkerProcesses)))
				}
			}
		}
	})
})

var _ = Describe("Render", func() {
	It("render ordered name = value lines with MB suffixes", func() {
		cfg := Compute(Resources{TotalRAMMB: 2048, CPUCores: 2}, WorkloadWeb, StorageSSD)

		rendered := cfg.Render()
		Expect(rendered).To(ContainSubstring("shared_buffers = 512MB\n"))
		Expect(rendered).To(ContainSubstring("max_connections = 140\n"))
		Expect(rendered).To(ContainSubstring("random_page_cost = 1.1\n"))
		Expect(rendered).To(ContainSubstring(
			"shared_preload_libraries = 'pg_stat_statements,auto_explain'\n"))
	})

	It("keep a stable parameter order", func() {
		cfg := Compute(Resources{TotalRAMMB: 2048, CPUCores: 2}, WorkloadOLTP, StorageHDD)

		params := cfg.Parameters()
		names := make([]string, len(params))
		for i, param := range params {
			names[i] = param.Name
		}

		Expect(names).To(Equal([]string{
			"max_connections",
			"shared_buffers",
			"effective_cache_size",
			"maintenance_work_mem",
			"work_mem",
			"wal_buffers",
			"min_wal_size",
			"max_wal_size",
			"random_page_cost",
			"effective_io_concurrency",
			"maintenance_io_concurrency",
			"io_workers",
			"max_worker_processes",
			"shared_preload_libraries",
		}))
	})

	It("render counts as bare integers", func() {
		cfg := Compute(Resources{TotalRAMMB: 8192, CPUCores: 8}, WorkloadMixed, StorageSAN)

		rendered := cfg.Render()
		Expect(rendered).To(ContainSubstring("effective_io_concurrency = 300\n"))
		Expect(rendered).To(ContainSubstring("io_workers = 2\n"))
		Expect(rendered).To(ContainSubstring("max_worker_processes = 12\n"))
	})
})
