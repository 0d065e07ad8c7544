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
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cardinalhq/lakereader/config"
	"github.com/cardinalhq/lakereader/internal/dfs"
	"github.com/cardinalhq/lakereader/internal/helpers"
	"github.com/cardinalhq/lakereader/internal/logctx"
)

func init() {
	var recursive bool

	cmd := &cobra.Command{
		Use:   "rm <path>",
		Short: "Delete a file or directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runWithTelemetry("lakereader-rm", func(ctx context.Context) error {
				cfg, err := config.Load()
				if err != nil {
					return fmt.Errorf("failed to load config: %w", err)
				}
				client, err := dfs.NewClient(ctx, cfg.DFS)
				if err != nil {
					return fmt.Errorf("failed to create dfs client: %w", err)
				}
				defer func() {
					_ = closeClient(client)
				}()
				return runRemove(ctx, c.OutOrStdout(), client, args[0], recursive)
			})
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Remove directories and their contents")

	rootCmd.AddCommand(cmd)
}

// runRemove deletes path. Distributed paths go through client; local paths
// are removed directly.
func runRemove(ctx context.Context, w io.Writer, client dfs.Client, path string, recursive bool) error {
	target := client
	if helpers.ClassifyLocation(path) == helpers.LocationLocal {
		target = dfs.NewFileClient("")
	} else if client == nil {
		return fmt.Errorf("%w: %s", dfs.ErrNotConfigured, path)
	}

	removed, err := target.Delete(ctx, path, recursive)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}
	logctx.FromContext(ctx).Debug("Delete finished", slog.String("path", path), slog.Bool("removed", removed))

	if !removed {
		_, err = fmt.Fprintf(w, "%s: not found\n", path)
		return err
	}
	_, err = fmt.Fprintf(w, "removed %s\n", path)
	return err
}
