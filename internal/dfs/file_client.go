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

package dfs

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// FileClient serves distributed paths out of a local directory, as with a
// mounted cluster filesystem. Tests use it in place of a real cluster.
type FileClient struct {
	base string
}

var _ Client = (*FileClient)(nil)

// NewFileClient returns a client rooted at base.
func NewFileClient(base string) *FileClient {
	return &FileClient{base: base}
}

// LocalPath maps a distributed path to its location under the root.
func (c *FileClient) LocalPath(p string) string {
	_, name := SplitPath(p)
	return filepath.Join(c.base, filepath.FromSlash(name))
}

// Open returns the file itself, so callers may use it as an io.ReaderAt.
func (c *FileClient) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	f, err := os.Open(c.LocalPath(p))
	if err != nil {
		recordOpenError(ctx, BackendLocal, err)
		return nil, err
	}
	openCount.Add(ctx, 1, metric.WithAttributes(attribute.String("backend", BackendLocal)))
	return f, nil
}

// Delete removes the file or tree at p.
func (c *FileClient) Delete(ctx context.Context, p string, recursive bool) (bool, error) {
	target := c.LocalPath(p)
	if _, err := os.Lstat(target); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if recursive {
		return true, os.RemoveAll(target)
	}
	return true, os.Remove(target)
}
