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
	"golang.org/x/sync/errgroup"

	"github.com/cardinalhq/lakereader/config"
	"github.com/cardinalhq/lakereader/internal/filereader"
	"github.com/cardinalhq/lakereader/internal/logctx"
)

func init() {
	var (
		flags    readerFlags
		parallel int
	)

	cmd := &cobra.Command{
		Use:   "count <path>...",
		Short: "Count the records of one or more files",
		Long: `Count the records of each path, reading up to --parallel files at once.
Output is "path<TAB>count" in argument order. Parallelism is across files;
each file is still read by a single reader.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runWithTelemetry("lakereader-count", func(ctx context.Context) error {
				cfg, err := config.Load()
				if err != nil {
					return fmt.Errorf("failed to load config: %w", err)
				}
				opts, closeDFS, err := readerOptions(ctx, cfg, flags)
				if err != nil {
					return err
				}
				defer func() {
					if err := closeDFS(); err != nil {
						logctx.FromContext(ctx).Warn("Failed to close dfs client", slog.Any("error", err))
					}
				}()
				return runCount(ctx, c.OutOrStdout(), args, opts, parallel)
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&parallel, "parallel", 4, "Maximum number of files read at once")

	rootCmd.AddCommand(cmd)
}

func runCount(ctx context.Context, w io.Writer, paths []string, opts filereader.Options, parallel int) error {
	if parallel < 1 {
		parallel = 1
	}
	counts := make([]int64, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, path := range paths {
		g.Go(func() error {
			n, err := countRecords(gctx, path, opts)
			if err != nil {
				return err
			}
			counts[i] = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, path := range paths {
		if _, err := fmt.Fprintf(w, "%s\t%d\n", path, counts[i]); err != nil {
			return err
		}
	}
	return nil
}

func countRecords(ctx context.Context, path string, opts filereader.Options) (int64, error) {
	reader, err := filereader.Open(ctx, path, opts)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = reader.Close()
	}()

	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		ok, err := reader.Next()
		if err != nil {
			return 0, err
		}
		if !ok {
			return reader.NumRead(), nil
		}
	}
}
