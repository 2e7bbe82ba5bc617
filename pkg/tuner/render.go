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
	"fmt"
	"strconv"
	"strings"
)

// Parameter is a single rendered postgresql.conf entry.
type Parameter struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Parameters renders the configuration as an ordered list of
// postgresql.conf entries. Memory sizes carry an explicit MB suffix,
// counts are bare integers and the preload library list is a quoted,
// comma-joined string. The order is stable across calls.
func (c *Config) Parameters() []Parameter {
	return []Parameter{
		{Name: "max_connections", Value: strconv.Itoa(c.MaxConnections)},
		{Name: "shared_buffers", Value: renderMB(c.SharedBuffersMB)},
		{Name: "effective_cache_size", Value: renderMB(c.EffectiveCacheSizeMB)},
		{Name: "maintenance_work_mem", Value: renderMB(c.MaintenanceWorkMemMB)},
		{Name: "work_mem", Value: renderMB(c.WorkMemMB)},
		{Name: "wal_buffers", Value: renderMB(c.WALBuffersMB)},
		{Name: "min_wal_size", Value: renderMB(c.MinWALSizeMB)},
		{Name: "max_wal_size", Value: renderMB(c.MaxWALSizeMB)},
		{Name: "random_page_cost", Value: renderFloat(c.RandomPageCost)},
		{Name: "effective_io_concurrency", Value: strconv.Itoa(c.EffectiveIOConcurrency)},
		{Name: "maintenance_io_concurrency", Value: strconv.Itoa(c.MaintenanceIOConcurrency)},
		{Name: "io_workers", Value: strconv.Itoa(c.IOWorkersCount)},
		{Name: "max_worker_processes", Value: strconv.Itoa(c.WorkerProcessesCount)},
		{Name: "shared_preload_libraries", Value: renderQuotedList(c.PreloadLibraries)},
	}
}

// Render produces a postgresql.conf fragment, one "name = value" line per
// parameter, terminated by a newline.
func (c *Config) Render() string {
	var builder strings.Builder
	for _, param := range c.Parameters() {
		fmt.Fprintf(&builder, "%s = %s\n", param.Name, param.Value)
	}
	return builder.String()
}

func renderMB(value int64) string {
	return strconv.FormatInt(value, 10) + "MB"
}

func renderFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func renderQuotedList(items []string) string {
	return "'" + strings.Join(items, ",") + "'"
}
