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

	"github.com/logrusorgru/aurora/v4"
	"github.com/spf13/cobra"

	"github.com/cloudnative-pg/postgres-tuner/pkg/detect"
)

// newDetectCmd creates the "detect" subcommand
func newDetectCmd() *cobra.Command {
	detectCmd := &cobra.Command{
		Use:   "detect",
		Short: "Print the detected host resources",
		RunE: func(cmd *cobra.Command, _ []string) error {
			output, err := cmd.Flags().GetString("output")
			if err != nil {
				return err
			}

			res, err := detect.NewProber().Detect()
			if err != nil {
				return err
			}

			if output == "json" {
				return printJSON(res)
			}

			fmt.Printf("Total RAM: %s\n", aurora.Bold(fmt.Sprintf("%dMB", res.TotalRAMMB)))
			fmt.Printf("CPU cores: %s\n", aurora.Bold(res.CPUCores))
			return nil
		},
	}

	detectCmd.Flags().StringP("output", "o", "text", "Output format. One of text|json")

	return detectCmd
}
