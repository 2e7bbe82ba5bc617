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

// Resources describes the host facts the sizing pipeline consumes.
// Both fields must be positive; the engine clamps outputs but does not
// reject under-provisioned hosts, that policy belongs to the caller.
type Resources struct {
	TotalRAMMB int64 `json:"totalRamMB"`
	CPUCores   int   `json:"cpuCores"`
}

// DefaultPreloadLibraries is the library list rendered into
// shared_preload_libraries unless the caller overrides it.
var DefaultPreloadLibraries = []string{"pg_stat_statements", "auto_explain"}

// Config is the complete computed tuning parameter set. It is a plain
// value object: construct it through Compute, never mutate it afterwards.
type Config struct {
	Workload WorkloadProfile `json:"workload"`
	Storage  StorageProfile  `json:"storage"`

	MaxConnections           int      `json:"maxConnections"`
	SharedBuffersMB          int64    `json:"sharedBuffersMB"`
	EffectiveCacheSizeMB     int64    `json:"effectiveCacheSizeMB"`
	MaintenanceWorkMemMB     int64    `json:"maintenanceWorkMemMB"`
	WorkMemMB                int64    `json:"workMemMB"`
	WALBuffersMB             int64    `json:"walBuffersMB"`
	MinWALSizeMB             int64    `json:"minWalSizeMB"`
	MaxWALSizeMB             int64    `json:"maxWalSizeMB"`
	RandomPageCost           float64  `json:"randomPageCost"`
	EffectiveIOConcurrency   int      `json:"effectiveIoConcurrency"`
	MaintenanceIOConcurrency int      `json:"maintenanceIoConcurrency"`
	IOWorkersCount           int      `json:"ioWorkers"`
	WorkerProcessesCount     int      `json:"workerProcesses"`
	PreloadLibraries         []string `json:"preloadLibraries"`
}

// Compute runs the whole sizing pipeline and assembles the result.
//
// The calculators run in dependency order: shared_buffers and
// max_connections first (independent of each other), then the values
// derived from them. Each calculator receives only the upstream outputs
// it declares, never the accumulating configuration.
func Compute(res Resources, workloadName, storageName string) *Config {
	workload := LookupWorkload(workloadName)
	storage := LookupStorage(storageName)

	sharedBuffers := SharedBuffersMB(res.TotalRAMMB)
	maxConnections := MaxConnections(res.TotalRAMMB, workload)

	return &Config{
		Workload: workload,
		Storage:  storage,

		MaxConnections:           maxConnections,
		SharedBuffersMB:          sharedBuffers,
		EffectiveCacheSizeMB:     EffectiveCacheSizeMB(res.TotalRAMMB, sharedBuffers),
		MaintenanceWorkMemMB:     MaintenanceWorkMemMB(res.TotalRAMMB, workload),
		WorkMemMB:                WorkMemMB(res.TotalRAMMB, sharedBuffers, maxConnections, workload),
		WALBuffersMB:             WALBuffersMB(sharedBuffers),
		MinWALSizeMB:             workload.MinWALSizeMB,
		MaxWALSizeMB:             workload.MaxWALSizeMB,
		RandomPageCost:           storage.RandomPageCost,
		EffectiveIOConcurrency:   storage.IOConcurrency,
		MaintenanceIOConcurrency: storage.MaintIOConcurrency,
		IOWorkersCount:           IOWorkers(res.CPUCores),
		WorkerProcessesCount:     WorkerProcesses(res.CPUCores),
		PreloadLibraries:         DefaultPreloadLibraries,
	}
}
