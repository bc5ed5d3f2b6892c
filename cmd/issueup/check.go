// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newCheckCommand(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the GitHub API key and show the remaining rate limit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := loadRuntime(cmd, root, nil)
			if err != nil {
				return err
			}
			_, client := rt.newClient()

			viewer, err := client.GetViewer(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to verify credential: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Authenticated as %s\n", viewer.Login)
			fmt.Fprintf(out, "Rate limit: %d of %d remaining (last query cost %d)\n",
				viewer.Remaining, viewer.Limit, viewer.Cost)
			if !viewer.ResetAt.IsZero() {
				fmt.Fprintf(out, "Resets at: %s\n", viewer.ResetAt.UTC().Format(time.RFC3339))
			}
			return nil
		},
	}
}
