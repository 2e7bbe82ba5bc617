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

package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/cheynewallace/tabby"
	"github.com/cloudnative-pg/machinery/pkg/log"
	"github.com/logrusorgru/aurora/v4"
	"github.com/spf13/cobra"
	"k8s.io/apimachinery/pkg/api/resource"

	"github.com/cloudnative-pg/postgres-tuner/pkg/detect"
	"github.com/cloudnative-pg/postgres-tuner/pkg/tuner"
)

type computeOptions struct {
	memory     string
	cpus       int
	workload   string
	storage    string
	autoDetect bool
	output     string
	writePath  string
}

// newComputeCmd creates the "compute" subcommand
func newComputeCmd() *cobra.Command {
	var opts computeOptions

	computeCmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute tuning parameters for the given resources and profiles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCompute(cmd, &opts)
		},
	}

	computeCmd.Flags().StringVar(&opts.memory, "memory", "",
		"Total memory as a quantity, e.g. 4Gi or 512Mi")
	computeCmd.Flags().IntVar(&opts.cpus, "cpus", 0,
		"Number of CPU cores")
	computeCmd.Flags().StringVar(&opts.workload, "workload", tuner.WorkloadMixed,
		"Workload profile. One of "+strings.Join(tuner.WorkloadNames(), "|"))
	computeCmd.Flags().StringVar(&opts.storage, "storage", tuner.StorageSSD,
		"Storage profile. One of "+strings.Join(tuner.StorageNames(), "|"))
	computeCmd.Flags().BoolVar(&opts.autoDetect, "detect", false,
		"Detect memory and CPU from cgroup limits instead of flags")
	computeCmd.Flags().StringVarP(&opts.output, "output", "o", "text",
		"Output format. One of text|json|conf")
	computeCmd.Flags().StringVar(&opts.writePath, "write", "",
		"Write the conf fragment to this file in addition to stdout output")

	return computeCmd
}

func runCompute(cmd *cobra.Command, opts *computeOptions) error {
	res, err := resolveResources(opts)
	if err != nil {
		return err
	}

	warnUnknownProfiles(opts.workload, opts.storage)

	cfg := tuner.Compute(res, opts.workload, opts.storage)

	if opts.writePath != "" {
		if err := os.WriteFile(opts.writePath, []byte(cfg.Render()), 0o600); err != nil {
			return fmt.Errorf("writing conf fragment: %w", err)
		}
	}

	switch opts.output {
	case "json":
		return printJSON(cfg)
	case "conf":
		fmt.Fprint(cmd.OutOrStdout(), cfg.Render())
		return nil
	default:
		printConfigText(res, cfg)
		return nil
	}
}

// resolveResources builds the sizing input either from cgroup detection
// or from the explicit flags.
func resolveResources(opts *computeOptions) (tuner.Resources, error) {
	if opts.autoDetect {
		return detect.NewProber().Detect()
	}

	if opts.memory == "" || opts.cpus <= 0 {
		return tuner.Resources{}, fmt.Errorf("either --detect or both --memory and --cpus are required")
	}

	qty, err := resource.ParseQuantity(opts.memory)
	if err != nil {
		return tuner.Resources{}, fmt.Errorf("parsing --memory %q: %w", opts.memory, err)
	}

	ramMB := qty.Value() / (1024 * 1024)
	if ramMB < 1 {
		return tuner.Resources{}, fmt.Errorf("--memory %q is below 1MB", opts.memory)
	}

	return tuner.Resources{TotalRAMMB: ramMB, CPUCores: opts.cpus}, nil
}

// warnUnknownProfiles surfaces the silent profile fallback of the engine.
// The engine itself stays total; the diagnostic belongs to the CLI.
func warnUnknownProfiles(workload, storage string) {
	if !tuner.KnownWorkload(workload) {
		log.Warning("Unknown workload profile, falling back to default",
			"workload", workload,
			"fallback", tuner.WorkloadMixed)
	}
	if !tuner.KnownStorage(storage) {
		log.Warning("Unknown storage profile, falling back to default",
			"storage", storage,
			"fallback", tuner.StorageSSD)
	}
}

func printJSON(value any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

func printConfigText(res tuner.Resources, cfg *tuner.Config) {
	fmt.Printf("Resources: %s RAM, %s cores\n",
		aurora.Bold(fmt.Sprintf("%dMB", res.TotalRAMMB)),
		aurora.Bold(res.CPUCores))
	fmt.Printf("Profiles:  workload=%s storage=%s\n\n",
		aurora.Green(cfg.Workload.Name),
		aurora.Green(cfg.Storage.Name))

	t := tabby.New()
	t.AddHeader("PARAMETER", "VALUE")
	for _, param := range cfg.Parameters() {
		t.AddLine(param.Name, param.Value)
	}
	t.Print()
}
