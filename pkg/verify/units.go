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

package verify

import (
	"fmt"
	"strconv"
	"strings"
)

// baseUnitBytes maps the unit suffixes pg_settings uses for memory
// parameters to bytes. A unit may carry a leading multiplier, e.g.
// shared_buffers is reported in "8kB" pages.
var baseUnitBytes = map[string]int64{
	"B":  1,
	"kB": 1024,
	"MB": 1024 * 1024,
	"GB": 1024 * 1024 * 1024,
	"TB": 1024 * 1024 * 1024 * 1024,
}

// NormalizeMB converts a pg_settings (setting, unit) pair for a memory
// parameter into megabytes. The setting is the raw counter value, the
// unit is the per-increment size such as "8kB", "kB" or "MB".
func NormalizeMB(setting, unit string) (int64, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(setting), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing setting %q: %w", setting, err)
	}

	unitBytes, err := unitToBytes(strings.TrimSpace(unit))
	if err != nil {
		return 0, err
	}

	return value * unitBytes / (1024 * 1024), nil
}

// unitToBytes parses a pg_settings memory unit, optionally prefixed by a
// multiplier ("8kB" -> 8192).
func unitToBytes(unit string) (int64, error) {
	for suffix, bytes := range baseUnitBytes {
		if !strings.HasSuffix(unit, suffix) {
			continue
		}
		prefix := strings.TrimSuffix(unit, suffix)
		if prefix == "" {
			return bytes, nil
		}
		multiplier, err := strconv.ParseInt(prefix, 10, 64)
		if err != nil {
			continue
		}
		return multiplier * bytes, nil
	}
	return 0, fmt.Errorf("unknown memory unit %q", unit)
}

// normalizeList canonicalizes a comma-separated PostgreSQL list value:
// quotes stripped, spaces trimmed, empty entries removed.
func normalizeList(value string) []string {
	trimmed := strings.Trim(strings.TrimSpace(value), "'")
	if trimmed == "" {
		return nil
	}

	var items []string
	for _, item := range strings.Split(trimmed, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
