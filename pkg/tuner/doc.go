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

// Package tuner computes a complete set of PostgreSQL tuning parameters
// from the host resources (RAM, CPU cores) and a declarative profile
// choice (workload type, storage type).
//
// The computation is a one-shot pure pipeline of sub-calculators:
// - shared_buffers and max_connections from raw inputs
// - effective_cache_size, work_mem, wal_buffers downstream of those
// - maintenance_work_mem and worker counts independently
//
// Every calculator is a total function over positive integers: unknown
// profile names fall back to defaults, and every output is clamped to a
// documented floor/cap. Two calls with identical inputs always produce
// identical output, so the result can be diffed byte-for-byte in tests.
package tuner
