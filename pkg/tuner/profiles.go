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

import "sort"

const (
	// WorkloadWeb is a read-heavy web application workload.
	WorkloadWeb = "web"

	// WorkloadOLTP is a transactional workload with many short writes.
	WorkloadOLTP = "oltp"

	// WorkloadDW is a data warehouse workload with few, large queries.
	WorkloadDW = "dw"

	// WorkloadMixed is the default general-purpose workload.
	WorkloadMixed = "mixed"
)

const (
	// StorageSSD is local solid-state storage.
	StorageSSD = "ssd"

	// StorageHDD is rotational storage.
	StorageHDD = "hdd"

	// StorageSAN is network-attached storage.
	StorageSAN = "san"
)

// WorkloadProfile carries the baseline tuning assumptions for a named
// workload type.
type WorkloadProfile struct {
	Name               string
	BaseMaxConnections int
	MinWALSizeMB       int64
	MaxWALSizeMB       int64
}

// StorageProfile carries the I/O cost assumptions for a named storage type.
type StorageProfile struct {
	Name               string
	RandomPageCost     float64
	IOConcurrency      int
	MaintIOConcurrency int
}

var workloadProfiles = map[string]WorkloadProfile{
	WorkloadWeb:   {Name: WorkloadWeb, BaseMaxConnections: 200, MinWALSizeMB: 1024, MaxWALSizeMB: 4096},
	WorkloadOLTP:  {Name: WorkloadOLTP, BaseMaxConnections: 300, MinWALSizeMB: 2048, MaxWALSizeMB: 8192},
	WorkloadDW:    {Name: WorkloadDW, BaseMaxConnections: 100, MinWALSizeMB: 4096, MaxWALSizeMB: 16384},
	WorkloadMixed: {Name: WorkloadMixed, BaseMaxConnections: 120, MinWALSizeMB: 1024, MaxWALSizeMB: 4096},
}

var storageProfiles = map[string]StorageProfile{
	StorageSSD: {Name: StorageSSD, RandomPageCost: 1.1, IOConcurrency: 200, MaintIOConcurrency: 20},
	StorageHDD: {Name: StorageHDD, RandomPageCost: 4.0, IOConcurrency: 2, MaintIOConcurrency: 10},
	StorageSAN: {Name: StorageSAN, RandomPageCost: 1.1, IOConcurrency: 300, MaintIOConcurrency: 20},
}

// LookupWorkload returns the workload profile for the given name.
// Unknown names silently resolve to the mixed profile; callers that want
// a diagnostic should check KnownWorkload first.
func LookupWorkload(name string) WorkloadProfile {
	if profile, ok := workloadProfiles[name]; ok {
		return profile
	}
	return workloadProfiles[WorkloadMixed]
}

// LookupStorage returns the storage profile for the given name.
// Unknown names silently resolve to the ssd profile; callers that want
// a diagnostic should check KnownStorage first.
func LookupStorage(name string) StorageProfile {
	if profile, ok := storageProfiles[name]; ok {
		return profile
	}
	return storageProfiles[StorageSSD]
}

// KnownWorkload returns true if the name maps to a defined workload profile.
func KnownWorkload(name string) bool {
	_, ok := workloadProfiles[name]
	return ok
}

// KnownStorage returns true if the name maps to a defined storage profile.
func KnownStorage(name string) bool {
	_, ok := storageProfiles[name]
	return ok
}

// WorkloadNames returns the defined workload profile names, sorted.
func WorkloadNames() []string {
	names := make([]string, 0, len(workloadProfiles))
	for name := range workloadProfiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// StorageNames returns the defined storage profile names, sorted.
func StorageNames() []string {
	names := make([]string, 0, len(storageProfiles))
	for name := range storageProfiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
