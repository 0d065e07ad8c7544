// Copyright (C) 2025-2026 CardinalHQ, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cardinalhq/lakereader/internal/helpers"
)

func init() {
	cmd := &cobra.Command{
		Use:   "detect <path>...",
		Short: "Show how each path would be opened",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runDetect(c.OutOrStdout(), args)
		},
	}

	rootCmd.AddCommand(cmd)
}

func runDetect(w io.Writer, paths []string) error {
	for _, p := range paths {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n", p, helpers.ClassifyLocation(p), helpers.ClassifyEncoding(p)); err != nil {
			return err
		}
	}
	return nil
}
