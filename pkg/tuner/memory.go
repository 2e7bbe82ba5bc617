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
	// MinSharedBuffersMB is the floor for shared_buffers.
	MinSharedBuffersMB = 64

	// MaxSharedBuffersMB is the cap for shared_buffers.
	MaxSharedBuffersMB = 32768

	// MinMaintenanceWorkMemMB is the floor for maintenance_work_mem.
	MinMaintenanceWorkMemMB = 32

	// MaxMaintenanceWorkMemMB is the cap for maintenance_work_mem.
	MaxMaintenanceWorkMemMB = 2048

	// MinWALBuffersMB is the floor for wal_buffers.
	MinWALBuffersMB = 1

	// MaxWALBuffersMB is the cap for wal_buffers.
	MaxWALBuffersMB = 16

	// OSReserveMB is the fixed memory reserve for the OS and sidecar
	// services when budgeting per-connection work memory.
	OSReserveMB = 512

	// ConnOverheadMB is the memory reserved per connection before the
	// work_mem pool is divided.
	ConnOverheadMB = 10
)

// SharedBuffersMB computes the shared_buffers size from total RAM.
// The RAM share shrinks as the host grows: small hosts can afford 25% of
// RAM for the buffer pool, very large hosts waste memory beyond 15%.
func SharedBuffersMB(totalRAMMB int64) int64 {
	var ratio int64
	switch {
	case totalRAMMB <= 1024:
		ratio = 25
	case totalRAMMB <= 8192:
		ratio = 25
	case totalRAMMB <= 32768:
		ratio = 20
	default:
		ratio = 15
	}

	value := totalRAMMB * ratio / 100
	if value < MinSharedBuffersMB {
		value = MinSharedBuffersMB
	}
	if value > MaxSharedBuffersMB {
		value = MaxSharedBuffersMB
	}
	return value
}

// EffectiveCacheSizeMB estimates the memory available for disk caching:
// total RAM minus shared_buffers minus a 20% (min 512MB) reserve for the
// OS and other services, at 70% to stay conservative. The result is never
// below twice shared_buffers, the planner assumption PostgreSQL itself
// documents as a sane lower bound.
func EffectiveCacheSizeMB(totalRAMMB, sharedBuffersMB int64) int64 {
	otherUsage := totalRAMMB * 20 / 100
	if otherUsage < OSReserveMB {
		otherUsage = OSReserveMB
	}

	cacheAvail := totalRAMMB - sharedBuffersMB - otherUsage
	if cacheAvail < 0 {
		cacheAvail = 0
	}

	value := cacheAvail * 70 / 100
	if minimum := 2 * sharedBuffersMB; value < minimum {
		value = minimum
	}
	return value
}

// MaintenanceWorkMemMB computes maintenance_work_mem from total RAM.
// Data warehouse workloads run large index builds and get 1/8 of RAM,
// everything else 1/16. Clamped to [32, 2048] MB.
func MaintenanceWorkMemMB(totalRAMMB int64, workload WorkloadProfile) int64 {
	var value int64
	if workload.Name == WorkloadDW {
		value = totalRAMMB / 8
	} else {
		value = totalRAMMB / 16
	}

	if value < MinMaintenanceWorkMemMB {
		value = MinMaintenanceWorkMemMB
	}
	if value > MaxMaintenanceWorkMemMB {
		value = MaxMaintenanceWorkMemMB
	}
	return value
}

// WorkMemMB divides the memory left after shared_buffers, per-connection
// overhead and the OS reserve across four concurrent sorts per connection.
// Analytical workloads (dw, mixed) may exceed the 32MB base cap on larger
// hosts; web and oltp stay at 32MB regardless of RAM, because their
// concurrency makes large per-sort budgets dangerous.
func WorkMemMB(totalRAMMB, sharedBuffersMB int64, maxConnections int, workload WorkloadProfile) int64 {
	connOverhead := int64(maxConnections) * ConnOverheadMB

	pool := totalRAMMB - sharedBuffersMB - connOverhead - OSReserveMB
	if pool < 256 {
		pool = 256
	}

	// maxConnections is clamped to >= 20 upstream, so the divisor is
	// always positive.
	divisor := int64(maxConnections) * 4
	value := pool / divisor
	if value < 1 {
		value = 1
	}

	capMB := workMemCapMB(totalRAMMB, workload)
	if value > capMB {
		value = capMB
	}
	return value
}

// workMemCapMB returns the RAM-tiered work_mem cap for the workload.
func workMemCapMB(totalRAMMB int64, workload WorkloadProfile) int64 {
	if workload.Name != WorkloadDW && workload.Name != WorkloadMixed {
		return 32
	}

	switch {
	case totalRAMMB >= 32768:
		return 256
	case totalRAMMB >= 8192:
		return 128
	case totalRAMMB >= 2048:
		return 64
	default:
		return 32
	}
}

// WALBuffersMB computes wal_buffers as 3% of shared_buffers, clamped to
// [1, 16] MB. Values strictly between 14 and 16 are rounded up to 16:
// a 15MB WAL buffer has no practical benefit over the cap and only makes
// the rendered configuration look arbitrary.
func WALBuffersMB(sharedBuffersMB int64) int64 {
	value := sharedBuffersMB * 3 / 100
	if value < MinWALBuffersMB {
		value = MinWALBuffersMB
	}
	if value > MaxWALBuffersMB {
		value = MaxWALBuffersMB
	}
	if value > 14 && value < 16 {
		value = 16
	}
	return value
}
