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
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/cardinalhq/lakereader/config"
	"github.com/cardinalhq/lakereader/internal/filereader"
	"github.com/cardinalhq/lakereader/internal/helpers"
	"github.com/cardinalhq/lakereader/internal/logctx"
)

// Spool files older than this belong to readers that were never closed.
const staleSpoolAge = time.Hour

func init() {
	var (
		flags     readerFlags
		limit     int64
		countOnly bool
	)

	cmd := &cobra.Command{
		Use:   "cat <path>",
		Short: "Print the records of a file",
		Long: `Print one record per line. Text records print their value; sequence
file records print "key<TAB>value".`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runWithTelemetry("lakereader-cat", func(ctx context.Context) error {
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
				if n := helpers.CleanStaleSpool(opts.TempDir, staleSpoolAge); n > 0 {
					logctx.FromContext(ctx).Debug("Removed stale spool files", slog.Int("count", n))
				}
				return runCat(ctx, c.OutOrStdout(), args[0], opts, limit, countOnly)
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().Int64Var(&limit, "limit", 0, "Stop after this many records (0 means no limit)")
	cmd.Flags().BoolVar(&countOnly, "count", false, "Print only the number of records")

	rootCmd.AddCommand(cmd)
}

func runCat(ctx context.Context, w io.Writer, path string, opts filereader.Options, limit int64, countOnly bool) error {
	reader, err := filereader.Open(ctx, path, opts)
	if err != nil {
		return err
	}
	defer func() {
		_ = reader.Close()
	}()

	bw := bufio.NewWriter(w)
	keyed := reader.Encoding() == helpers.EncodingContainer

	for limit <= 0 || reader.NumRead() < limit {
		if err := ctx.Err(); err != nil {
			return err
		}
		ok, err := reader.Next()
		if err != nil {
			_ = bw.Flush()
			return err
		}
		if !ok {
			break
		}
		if countOnly {
			continue
		}
		rec, _ := reader.Record()
		if keyed {
			_, err = fmt.Fprintf(bw, "%s\t%s\n", rec.Key, rec.Value)
		} else {
			_, err = fmt.Fprintln(bw, rec.Value)
		}
		if err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	if countOnly {
		if _, err := fmt.Fprintln(bw, reader.NumRead()); err != nil {
			return fmt.Errorf("failed to write count: %w", err)
		}
	}

	logctx.FromContext(ctx).Debug("Finished reading", slog.String("path", path), slog.Int64("records", reader.NumRead()))
	return bw.Flush()
}
