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

var _ = Describe("SharedBuffersMB", func() {
	It("use 25% on small hosts", func() {
		Expect(SharedBuffersMB(512)).To(Equal(int64(128)))
		Expect(SharedBuffersMB(1024)).To(Equal(int64(256)))
		Expect(SharedBuffersMB(4096)).To(Equal(int64(1024)))
		Expect(SharedBuffersMB(8192)).To(Equal(int64(2048)))
	})

	It("use 20% between 8GB and 32GB", func() {
		Expect(SharedBuffersMB(16384)).To(Equal(int64(3276)))
		Expect(SharedBuffersMB(32768)).To(Equal(int64(6553)))
	})

	It("use 15% above 32GB", func() {
		Expect(SharedBuffersMB(65536)).To(Equal(int64(9830)))
	})

	It("enforce the 64MB floor", func() {
		Expect(SharedBuffersMB(1)).To(Equal(int64(64)))
		Expect(SharedBuffersMB(128)).To(Equal(int64(64)))
	})

	It("enforce the 32GB cap", func() {
		// 15% of 256GB would be 39321MB
		Expect(SharedBuffersMB(262144)).To(Equal(int64(32768)))
	})

	It("never decrease when RAM grows within a tier", func() {
		previous := int64(0)
		for ram := int64(1024); ram <= 8192; ram += 512 {
			value := SharedBuffersMB(ram)
			Expect(value).To(BeNumerically(">=", previous))
			previous = value
		}
	})
})

var _ = Describe("EffectiveCacheSizeMB", func() {
	It("take 70% of what is left after shared_buffers and the OS reserve", func() {
		// other = 20% of 16384 = 3276, avail = 16384-3276-3276 = 9832
		Expect(EffectiveCacheSizeMB(16384, 3276)).To(Equal(int64(6882)))
	})

	It("apply the 512MB minimum reserve on small hosts", func() {
		// other = max(20% of 2048, 512) = 512, avail = 2048-512-512 = 1024
		// 70% = 716, below 2x512 so the minimum wins
		Expect(EffectiveCacheSizeMB(2048, 512)).To(Equal(int64(1024)))
	})

	It("never return less than twice shared_buffers", func() {
		// avail = 4096-1024-819 = 2253, 70% = 1577 < 2048
		Expect(EffectiveCacheSizeMB(4096, 1024)).To(Equal(int64(2048)))
	})

	It("clamp a negative cache estimate to zero before the minimum", func() {
		// 64MB host: reserves exceed RAM entirely
		Expect(EffectiveCacheSizeMB(64, 64)).To(Equal(int64(128)))
	})
})

var _ = Describe("MaintenanceWorkMemMB", func() {
	It("give data warehouses 1/8 of RAM", func() {
		Expect(MaintenanceWorkMemMB(8192, LookupWorkload(WorkloadDW))).To(Equal(int64(1024)))
	})

	It("give everything else 1/16 of RAM", func() {
		Expect(MaintenanceWorkMemMB(8192, LookupWorkload(WorkloadWeb))).To(Equal(int64(512)))
		Expect(MaintenanceWorkMemMB(8192, LookupWorkload(WorkloadMixed))).To(Equal(int64(512)))
	})

	It("enforce the 32MB floor", func() {
		Expect(MaintenanceWorkMemMB(100, LookupWorkload(WorkloadWeb))).To(Equal(int64(32)))
	})

	It("enforce the 2048MB cap", func() {
		Expect(MaintenanceWorkMemMB(65536, LookupWorkload(WorkloadDW))).To(Equal(int64(2048)))
	})
})

var _ = Describe("WorkMemMB", func() {
	It("divide the remaining pool across four sorts per connection", func() {
		// pool = 4096-1024-840-512 = 1720, divisor = 84*4 = 336
		Expect(WorkMemMB(4096, 1024, 84, LookupWorkload(WorkloadMixed))).To(Equal(int64(5)))
	})

	It("floor the pool at 256MB when reserves exceed RAM", func() {
		// pool would be negative, floored to 256; 256/(20*4) = 3
		Expect(WorkMemMB(512, 512, 20, LookupWorkload(WorkloadWeb))).To(Equal(int64(3)))
	})

	It("never return less than 1MB", func() {
		// pool floored to 256, divisor 300*4 = 1200
		Expect(WorkMemMB(1024, 256, 300, LookupWorkload(WorkloadOLTP))).To(Equal(int64(1)))
	})

	It("cap web and oltp at 32MB regardless of RAM", func() {
		// pool = 65536-9830-2000-512 = 53194, divisor = 800
		Expect(WorkMemMB(65536, 9830, 200, LookupWorkload(WorkloadWeb))).To(Equal(int64(32)))
		Expect(WorkMemMB(65536, 9830, 200, LookupWorkload(WorkloadOLTP))).To(Equal(int64(32)))
	})

	It("raise the cap for analytical workloads by RAM tier", func() {
		dw := LookupWorkload(WorkloadDW)
		// 65536MB host: cap 256; pool = 65536-9830-1000-512 = 54194, divisor 400
		Expect(WorkMemMB(65536, 9830, 100, dw)).To(Equal(int64(135)))
		// 8192MB host: cap 128; pool = 8192-2048-1000-512 = 4632, divisor 400 -> 11
		Expect(WorkMemMB(8192, 2048, 100, dw)).To(Equal(int64(11)))
	})

	It("keep the base 32MB cap for analytical workloads on small hosts", func() {
		dw := LookupWorkload(WorkloadDW)
		// 1024MB host stays below the 2048MB tier
		// pool floored to 256, divisor 50*4 = 200 -> 1
		Expect(WorkMemMB(1024, 256, 50, dw)).To(Equal(int64(1)))
	})
})

var _ = Describe("WALBuffersMB", func() {
	It("use 3% of shared_buffers", func() {
		Expect(WALBuffersMB(256)).To(Equal(int64(7)))
		Expect(WALBuffersMB(400)).To(Equal(int64(12)))
	})

	It("enforce the 1MB floor", func() {
		Expect(WALBuffersMB(16)).To(Equal(int64(1)))
	})

	It("enforce the 16MB cap", func() {
		// 3% of 1024 = 30, capped
		Expect(WALBuffersMB(1024)).To(Equal(int64(16)))
	})

	It("round 15MB up to the cap", func() {
		// 3% of 512 = 15.36, floored to 15, then rounded up
		Expect(WALBuffersMB(512)).To(Equal(int64(16)))
	})

	It("leave 14MB alone", func() {
		// 3% of 476 = 14.28 -> 14
		Expect(WALBuffersMB(476)).To(Equal(int64(14)))
	})
})
