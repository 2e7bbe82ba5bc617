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
	"fmt"

	"github.com/cheynewallace/tabby"
	"github.com/logrusorgru/aurora/v4"
	"github.com/spf13/cobra"

	"github.com/cloudnative-pg/postgres-tuner/pkg/tuner"
	"github.com/cloudnative-pg/postgres-tuner/pkg/verify"
)

// newVerifyCmd creates the "verify" subcommand
func newVerifyCmd() *cobra.Command {
	var opts computeOptions
	var dsn string

	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Compare computed parameters against a running instance",
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := resolveResources(&opts)
			if err != nil {
				return err
			}

			warnUnknownProfiles(opts.workload, opts.storage)

			cfg := tuner.Compute(res, opts.workload, opts.storage)

			mismatches, err := verify.Check(cmd.Context(), dsn, cfg)
			if err != nil {
				return err
			}

			if opts.output == "json" {
				return printJSON(mismatches)
			}

			if len(mismatches) == 0 {
				fmt.Printf("Settings: %s\n", aurora.Green("all match"))
				return nil
			}

			t := tabby.New()
			t.AddHeader("PARAMETER", "EXPECTED", "ACTUAL")
			for _, m := range mismatches {
				t.AddLine(m.Name, m.Expected, aurora.Red(m.Actual).String())
			}
			t.Print()

			return fmt.Errorf("%d parameters differ from the computed configuration", len(mismatches))
		},
	}

	verifyCmd.Flags().StringVar(&dsn, "dsn", "",
		"PostgreSQL connection string of the instance to verify")
	verifyCmd.Flags().StringVar(&opts.memory, "memory", "",
		"Total memory as a quantity, e.g. 4Gi or 512Mi")
	verifyCmd.Flags().IntVar(&opts.cpus, "cpus", 0,
		"Number of CPU cores")
	verifyCmd.Flags().StringVar(&opts.workload, "workload", tuner.WorkloadMixed,
		"Workload profile used when the instance was configured")
	verifyCmd.Flags().StringVar(&opts.storage, "storage", tuner.StorageSSD,
		"Storage profile used when the instance was configured")
	verifyCmd.Flags().BoolVar(&opts.autoDetect, "detect", false,
		"Detect memory and CPU from cgroup limits instead of flags")
	verifyCmd.Flags().StringVarP(&opts.output, "output", "o", "text",
		"Output format. One of text|json")

	_ = verifyCmd.MarkFlagRequired("dsn")

	return verifyCmd
}
