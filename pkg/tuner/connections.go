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

// MinMaxConnections is the floor for max_connections. It also guarantees
// the work_mem divisor is bounded away from zero.
const MinMaxConnections = 20

// MaxConnections scales the workload's baseline connection count down on
// memory-constrained hosts. The baseline assumes 8GB or more of RAM.
func MaxConnections(totalRAMMB int64, workload WorkloadProfile) int {
	var scale int
	switch {
	case totalRAMMB < 2048:
		scale = 50
	case totalRAMMB < 4096:
		scale = 70
	case totalRAMMB < 8192:
		scale = 85
	default:
		scale = 100
	}

	value := workload.BaseMaxConnections * scale / 100
	if value < MinMaxConnections {
		value = MinMaxConnections
	}
	return value
}
