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

// Package detect reads the host resource facts (container memory limit,
// CPU quota) consumed by the sizing pipeline.
package detect

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/cloudnative-pg/machinery/pkg/log"

	"github.com/cloudnative-pg/postgres-tuner/pkg/tuner"
)

const (
	cgroupV2MemoryMax = "/sys/fs/cgroup/memory.max"
	cgroupV2CPUMax    = "/sys/fs/cgroup/cpu.max"

	cgroupV1MemoryLimit = "/sys/fs/cgroup/memory/memory.limit_in_bytes"
	cgroupV1CPUQuota    = "/sys/fs/cgroup/cpu/cpu.cfs_quota_us"
	cgroupV1CPUPeriod   = "/sys/fs/cgroup/cpu/cpu.cfs_period_us"

	procMeminfo = "/proc/meminfo"

	// cgroup v1 reports a page-rounded int64 max when no limit is set.
	// Anything above 1 PiB is not a real container limit.
	v1UnlimitedThreshold = int64(1) << 50
)

// ReadFileFunc is the function signature used to read cgroup and procfs
// files. This is exposed for testing purposes to allow mocking.
type ReadFileFunc func(path string) ([]byte, error)

// Prober detects host resources from cgroup limits, falling back to
// /proc/meminfo and runtime.NumCPU when the container is unconfined.
type Prober struct {
	readFile ReadFileFunc
	numCPU   func() int
}

// NewProber creates a new Prober reading the real filesystem.
func NewProber() *Prober {
	return &Prober{
		readFile: os.ReadFile,
		numCPU:   runtime.NumCPU,
	}
}

// NewProberWithFuncs creates a new Prober with custom read and CPU-count
// functions. This is intended for testing.
func NewProberWithFuncs(readFile ReadFileFunc, numCPU func() int) *Prober {
	return &Prober{
		readFile: readFile,
		numCPU:   numCPU,
	}
}

// Detect returns the host resources. Both values are clamped to at
// least 1 so the result is always a valid sizing input.
func (p *Prober) Detect() (tuner.Resources, error) {
	ramMB, err := p.TotalRAMMB()
	if err != nil {
		return tuner.Resources{}, err
	}

	cores := p.CPUCores()

	if ramMB < 1 {
		ramMB = 1
	}
	if cores < 1 {
		cores = 1
	}

	return tuner.Resources{TotalRAMMB: ramMB, CPUCores: cores}, nil
}

// TotalRAMMB returns the memory limit of the current container in MB,
// or the host memory when no cgroup limit applies.
func (p *Prober) TotalRAMMB() (int64, error) {
	if limit, ok := p.cgroupMemoryLimit(); ok {
		return limit / (1024 * 1024), nil
	}

	memTotal, err := p.meminfoTotalBytes()
	if err != nil {
		return 0, fmt.Errorf("detecting total memory: %w", err)
	}
	return memTotal / (1024 * 1024), nil
}

// CPUCores returns the CPU quota of the current container rounded up to
// whole cores, or the host core count when no quota applies.
func (p *Prober) CPUCores() int {
	if cores, ok := p.cgroupCPULimit(); ok {
		return cores
	}
	return p.numCPU()
}

func (p *Prober) cgroupMemoryLimit() (int64, bool) {
	if raw, err := p.readFile(cgroupV2MemoryMax); err == nil {
		content := strings.TrimSpace(string(raw))
		if content != "max" {
			if limit, err := strconv.ParseInt(content, 10, 64); err == nil && limit > 0 {
				return limit, true
			}
		}
		// cgroup v2 present but unconfined
		return 0, false
	}

	if raw, err := p.readFile(cgroupV1MemoryLimit); err == nil {
		content := strings.TrimSpace(string(raw))
		if limit, err := strconv.ParseInt(content, 10, 64); err == nil &&
			limit > 0 && limit < v1UnlimitedThreshold {
			return limit, true
		}
	}

	return 0, false
}

func (p *Prober) cgroupCPULimit() (int, bool) {
	if raw, err := p.readFile(cgroupV2CPUMax); err == nil {
		fields := strings.Fields(strings.TrimSpace(string(raw)))
		if len(fields) == 2 && fields[0] != "max" {
			quota, quotaErr := strconv.ParseInt(fields[0], 10, 64)
			period, periodErr := strconv.ParseInt(fields[1], 10, 64)
			if quotaErr == nil && periodErr == nil && quota > 0 && period > 0 {
				return int((quota + period - 1) / period), true
			}
		}
		return 0, false
	}

	quotaRaw, quotaErr := p.readFile(cgroupV1CPUQuota)
	periodRaw, periodErr := p.readFile(cgroupV1CPUPeriod)
	if quotaErr == nil && periodErr == nil {
		quota, quotaErr := strconv.ParseInt(strings.TrimSpace(string(quotaRaw)), 10, 64)
		period, periodErr := strconv.ParseInt(strings.TrimSpace(string(periodRaw)), 10, 64)
		if quotaErr == nil && periodErr == nil && quota > 0 && period > 0 {
			return int((quota + period - 1) / period), true
		}
	}

	return 0, false
}

// meminfoTotalBytes parses the MemTotal line of /proc/meminfo.
func (p *Prober) meminfoTotalBytes() (int64, error) {
	raw, err := p.readFile(procMeminfo)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", procMeminfo, err)
	}

	for _, line := range strings.Split(string(raw), "\n") {
		if !strings.HasPrefix(line, "MemTotal:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			break
		}
		kb, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parsing MemTotal %q: %w", fields[1], err)
		}
		return kb * 1024, nil
	}

	log.Warning("MemTotal not found in meminfo", "path", procMeminfo)
	return 0, fmt.Errorf("MemTotal not found in %s", procMeminfo)
}
