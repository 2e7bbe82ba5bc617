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

const (
	// MinIOWorkers is the floor for io_workers.
	MinIOWorkers = 1

	// MaxIOWorkers is the cap for io_workers.
	MaxIOWorkers = 64

	// MinWorkerProcesses is the floor for max_worker_processes.
	MinWorkerProcesses = 2

	// MaxWorkerProcesses is the cap for max_worker_processes.
	MaxWorkerProcesses = 64
)

// IOWorkers computes the number of I/O worker processes: one per four
// cores, clamped to [1, 64].
func IOWorkers(cpuCores int) int {
	value := cpuCores / 4
	if value < MinIOWorkers {
		value = MinIOWorkers
	}
	if value > MaxIOWorkers {
		value = MaxIOWorkers
	}
	return value
}

// WorkerProcesses computes max_worker_processes as 1.5x the core count
// (integer floored), clamped to [2, 64].
func WorkerProcesses(cpuCores int) int {
	value := cpuCores + cpuCores/2
	if value < MinWorkerProcesses {
		value = MinWorkerProcesses
	}
	if value > MaxWorkerProcesses {
		value = MaxWorkerProcesses
	}
	return value
}
