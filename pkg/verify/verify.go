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

// Package verify compares a computed tuning configuration against the
// settings a running PostgreSQL instance actually reports.
package verify

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/cloudnative-pg/machinery/pkg/log"
	"github.com/jackc/pgx/v5"

	"github.com/cloudnative-pg/postgres-tuner/pkg/tuner"
)

const (
	connectAttempts = 5
	connectDelay    = 2 * time.Second
)

// Mismatch describes one parameter whose live value differs from the
// computed one.
type Mismatch struct {
	Name     string `json:"name"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
}

type valueKind int

const (
	kindMemoryMB valueKind = iota
	kindInteger
	kindFloat
	kindList
)

type expectation struct {
	name      string
	kind      valueKind
	wantMB    int64
	wantInt   int
	wantFloat float64
	wantList  []string
}

func expectations(cfg *tuner.Config) []expectation {
	return []expectation{
		{name: "max_connections", kind: kindInteger, wantInt: cfg.MaxConnections},
		{name: "shared_buffers", kind: kindMemoryMB, wantMB: cfg.SharedBuffersMB},
		{name: "effective_cache_size", kind: kindMemoryMB, wantMB: cfg.EffectiveCacheSizeMB},
		{name: "maintenance_work_mem", kind: kindMemoryMB, wantMB: cfg.MaintenanceWorkMemMB},
		{name: "work_mem", kind: kindMemoryMB, wantMB: cfg.WorkMemMB},
		{name: "wal_buffers", kind: kindMemoryMB, wantMB: cfg.WALBuffersMB},
		{name: "min_wal_size", kind: kindMemoryMB, wantMB: cfg.MinWALSizeMB},
		{name: "max_wal_size", kind: kindMemoryMB, wantMB: cfg.MaxWALSizeMB},
		{name: "random_page_cost", kind: kindFloat, wantFloat: cfg.RandomPageCost},
		{name: "effective_io_concurrency", kind: kindInteger, wantInt: cfg.EffectiveIOConcurrency},
		{name: "maintenance_io_concurrency", kind: kindInteger, wantInt: cfg.MaintenanceIOConcurrency},
		{name: "io_workers", kind: kindInteger, wantInt: cfg.IOWorkersCount},
		{name: "max_worker_processes", kind: kindInteger, wantInt: cfg.WorkerProcessesCount},
		{name: "shared_preload_libraries", kind: kindList, wantList: cfg.PreloadLibraries},
	}
}

// Check connects to the instance at dsn and reports every parameter of
// the computed configuration whose live pg_settings value differs.
// Parameters the server does not know (older major versions) are skipped.
func Check(ctx context.Context, dsn string, cfg *tuner.Config) ([]Mismatch, error) {
	contextLogger := log.FromContext(ctx)

	conn, err := connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to instance: %w", err)
	}
	defer func() {
		if closeErr := conn.Close(ctx); closeErr != nil {
			contextLogger.Warning("Failed to close connection", "error", closeErr)
		}
	}()

	expected := expectations(cfg)
	names := make([]string, len(expected))
	for i, e := range expected {
		names[i] = e.name
	}

	rows, err := conn.Query(ctx,
		"SELECT name, setting, unit FROM pg_settings WHERE name = ANY($1)", names)
	if err != nil {
		return nil, fmt.Errorf("querying pg_settings: %w", err)
	}
	defer rows.Close()

	type liveSetting struct {
		setting string
		unit    string
	}
	live := make(map[string]liveSetting, len(expected))
	for rows.Next() {
		var name, setting string
		var unit *string
		if err := rows.Scan(&name, &setting, &unit); err != nil {
			return nil, fmt.Errorf("scanning pg_settings row: %w", err)
		}
		entry := liveSetting{setting: setting}
		if unit != nil {
			entry.unit = *unit
		}
		live[name] = entry
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading pg_settings: %w", err)
	}

	var mismatches []Mismatch
	for _, e := range expected {
		actual, ok := live[e.name]
		if !ok {
			contextLogger.Debug("Parameter not known by server, skipping", "name", e.name)
			continue
		}
		if mismatch := compare(e, actual.setting, actual.unit); mismatch != nil {
			mismatches = append(mismatches, *mismatch)
		}
	}

	return mismatches, nil
}

func connect(ctx context.Context, dsn string) (*pgx.Conn, error) {
	return retry.DoWithData(
		func() (*pgx.Conn, error) {
			return pgx.Connect(ctx, dsn)
		},
		retry.Context(ctx),
		retry.Attempts(connectAttempts),
		retry.Delay(connectDelay),
	)
}

func compare(e expectation, setting, unit string) *Mismatch {
	switch e.kind {
	case kindMemoryMB:
		gotMB, err := NormalizeMB(setting, unit)
		if err != nil || gotMB != e.wantMB {
			return &Mismatch{
				Name:     e.name,
				Expected: fmt.Sprintf("%dMB", e.wantMB),
				Actual:   fmt.Sprintf("%s %s", setting, unit),
			}
		}

	case kindInteger:
		got, err := strconv.Atoi(setting)
		if err != nil || got != e.wantInt {
			return &Mismatch{
				Name:     e.name,
				Expected: strconv.Itoa(e.wantInt),
				Actual:   setting,
			}
		}

	case kindFloat:
		got, err := strconv.ParseFloat(setting, 64)
		if err != nil || got != e.wantFloat {
			return &Mismatch{
				Name:     e.name,
				Expected: strconv.FormatFloat(e.wantFloat, 'f', -1, 64),
				Actual:   setting,
			}
		}

	case kindList:
		if !slices.Equal(normalizeList(setting), e.wantList) {
			return &Mismatch{
				Name:     e.name,
				Expected: fmt.Sprintf("%v", e.wantList),
				Actual:   setting,
			}
		}
	}

	return nil
}
