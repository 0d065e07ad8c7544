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

	"github.com/spf13/cobra"

	"github.com/cardinalhq/lakereader/config"
	"github.com/cardinalhq/lakereader/internal/dfs"
	"github.com/cardinalhq/lakereader/internal/filereader"
	"github.com/cardinalhq/lakereader/internal/helpers"
)

// readerFlags are the per-invocation overrides shared by reading commands.
type readerFlags struct {
	charset  string
	encoding string
	tuning   bool
}

func (f *readerFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.charset, "charset", "", "Charset of text records (default from reader.charset)")
	cmd.Flags().StringVar(&f.encoding, "encoding", "auto", "Encoding: auto, plain, gzip, zip or sequencefile")
	cmd.Flags().BoolVar(&f.tuning, "tuning", false, "Enable the decoder tuning flag")
}

// readerOptions merges configuration and flags. The returned closer
// releases the distributed filesystem client.
func readerOptions(ctx context.Context, cfg *config.Config, flags readerFlags) (filereader.Options, func() error, error) {
	encoding, err := helpers.ParseEncoding(flags.encoding)
	if err != nil {
		return filereader.Options{}, nil, err
	}

	client, err := dfs.NewClient(ctx, cfg.DFS)
	if err != nil {
		return filereader.Options{}, nil, fmt.Errorf("failed to create dfs client: %w", err)
	}

	charset := cfg.Reader.Charset
	if flags.charset != "" {
		charset = flags.charset
	}

	opts := filereader.Options{
		Charset:      charset,
		Encoding:     encoding,
		Tuning:       cfg.Reader.Tuning || flags.tuning,
		DFS:          client,
		TempDir:      cfg.Reader.TempDir,
		MaxLineBytes: cfg.Reader.MaxLineBytes,
	}
	return opts, func() error { return closeClient(client) }, nil
}

func closeClient(client dfs.Client) error {
	if c, ok := client.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
