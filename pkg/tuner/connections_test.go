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

var _ = Describe("MaxConnections", func() {
	It("halve the baseline below 2GB", func() {
		Expect(MaxConnections(1024, LookupWorkload(WorkloadMixed))).To(Equal(60))
		Expect(MaxConnections(1024, LookupWorkload(WorkloadWeb))).To(Equal(100))
	})

	It("scale to 70% below 4GB", func() {
		Expect(MaxConnections(3000, LookupWorkload(WorkloadOLTP))).To(Equal(210))
		Expect(MaxConnections(2048, LookupWorkload(WorkloadWeb))).To(Equal(140))
	})

	It("scale to 85% below 8GB", func() {
		Expect(MaxConnections(4096, LookupWorkload(WorkloadWeb))).To(Equal(170))
		Expect(MaxConnections(4096, LookupWorkload(WorkloadMixed))).To(Equal(102))
	})

	It("keep the baseline from 8GB up", func() {
		Expect(MaxConnections(8192, LookupWorkload(WorkloadOLTP))).To(Equal(300))
		Expect(MaxConnections(262144, LookupWorkload(WorkloadDW))).To(Equal(100))
	})

	It("never return less than the 20 connection floor", func() {
		for _, name := range WorkloadNames() {
			Expect(MaxConnections(1, LookupWorkload(name))).To(BeNumerically(">=", MinMaxConnections))
		}
	})

	It("never decrease when RAM grows within a tier", func() {
		workload := LookupWorkload(WorkloadOLTP)
		previous := 0
		for ram := int64(2048); ram < 4096; ram += 256 {
			value := MaxConnections(ram, workload)
			Expect(value).To(BeNumerically(">=", previous))
			previous = value
		}
	})
})
