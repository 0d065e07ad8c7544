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

package filereader

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardinalhq/lakereader/internal/dfs"
	"github.com/cardinalhq/lakereader/internal/helpers"
)

// streamOnlyClient hides the io.ReaderAt of the files it serves, like an
// object store download.
type streamOnlyClient struct {
	inner *dfs.FileClient
	opens int
}

func (c *streamOnlyClient) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	c.opens++
	rc, err := c.inner.Open(ctx, p)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (c *streamOnlyClient) Delete(ctx context.Context, p string, recursive bool) (bool, error) {
	return c.inner.Delete(ctx, p, recursive)
}

// downloadClient serves DownloadTo from a local root and refuses Open, so
// tests can tell which path the opener took.
type downloadClient struct {
	inner     *dfs.FileClient
	downloads int
}

func (c *downloadClient) Open(context.Context, string) (io.ReadCloser, error) {
	return nil, errors.New("unexpected call to Open")
}

func (c *downloadClient) Delete(ctx context.Context, p string, recursive bool) (bool, error) {
	return c.inner.Delete(ctx, p, recursive)
}

func (c *downloadClient) DownloadTo(_ context.Context, p string, w io.WriterAt) (int64, error) {
	c.downloads++
	data, err := os.ReadFile(c.inner.LocalPath(p))
	if err != nil {
		return 0, err
	}
	n, err := w.WriteAt(data, 0)
	return int64(n), err
}

func TestOpenDistributedEncodings(t *testing.T) {
	root := t.TempDir()
	client := dfs.NewFileClient(root)

	writeFile(t, filepath.Join(root, "data", "plain.txt"), linesPayload(testValues))
	writeFile(t, filepath.Join(root, "data", "lines.gz"), gzipBytes(t, linesPayload(testValues)))
	writeFile(t, filepath.Join(root, "data", "lines.zip"), zipBytes(t,
		zipEntry{name: "part-00000", data: linesPayload(testValues[:2])},
		zipEntry{name: "part-00001", data: linesPayload(testValues[2:])},
	))
	writeFile(t, filepath.Join(root, "data", "pairs.sf"), textSequenceFile(testKeys, testValues))

	for _, p := range []string{
		"/hdfs/data/plain.txt",
		"dfs://namenode:8020/data/lines.gz",
		"hdfs://namenode:8020/data/lines.zip",
		"/hdfs/data/pairs.sf",
	} {
		t.Run(p, func(t *testing.T) {
			reader, err := Open(context.Background(), p, Options{DFS: client})
			require.NoError(t, err)
			defer func() { _ = reader.Close() }()

			assert.Equal(t, helpers.LocationDistributed, reader.Location())
			assert.Equal(t, testValues, valuesOf(drain(t, reader)))
		})
	}
}

func TestOpenDistributedSequenceFileKeys(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "pairs.sf"), textSequenceFile(testKeys, testValues))

	reader, err := Open(context.Background(), "/hdfs/pairs.sf", Options{DFS: dfs.NewFileClient(root)})
	require.NoError(t, err)
	defer func() { _ = reader.Close() }()

	records := drain(t, reader)
	require.Len(t, records, len(testKeys))
	for i := range testKeys {
		assert.Equal(t, testKeys[i], records[i].Key)
		assert.Equal(t, testValues[i], records[i].Value)
	}
}

func TestOpenDistributedWithoutClient(t *testing.T) {
	reader, err := Open(context.Background(), "/hdfs/data/plain.txt", Options{})
	assert.Nil(t, reader)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOpen)
	assert.ErrorIs(t, err, ErrNoDFS)
}

func TestOpenDistributedMissing(t *testing.T) {
	reader, err := Open(context.Background(), "dfs://nn/nope.gz", Options{DFS: dfs.NewFileClient(t.TempDir())})
	assert.Nil(t, reader)
	assert.ErrorIs(t, err, ErrOpen)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestOpenRandomAccessUsesFileDirectly(t *testing.T) {
	root := t.TempDir()
	data := zipBytes(t, zipEntry{name: "p", data: []byte("x\n")})
	writeFile(t, filepath.Join(root, "a.zip"), data)
	spool := t.TempDir()

	opener := NewOpener(dfs.NewFileClient(root), spool)
	raf, err := opener.OpenRandomAccess(context.Background(), "/hdfs/a.zip")
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), raf.Size)

	entries, err := os.ReadDir(spool)
	require.NoError(t, err)
	assert.Empty(t, entries, "seekable streams are not spooled")
	require.NoError(t, raf.Close())
}

func TestOpenDistributedZipSpoolsToTempDir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "logs", "day.zip"), zipBytes(t,
		zipEntry{name: "part-00000", data: []byte("one\ntwo\n")},
		zipEntry{name: "part-00001", data: []byte("three\n")},
	))
	spool := t.TempDir()
	client := &streamOnlyClient{inner: dfs.NewFileClient(root)}

	reader, err := Open(context.Background(), "/hdfs/logs/day.zip", Options{DFS: client, TempDir: spool})
	require.NoError(t, err)

	entries, err := os.ReadDir(spool)
	require.NoError(t, err)
	require.Len(t, entries, 1, "non-seekable archive is copied to the temp dir")

	assert.Equal(t, []string{"one", "two", "three"}, valuesOf(drain(t, reader)))
	require.NoError(t, reader.Close())
	assert.Equal(t, 1, client.opens)

	entries, err = os.ReadDir(spool)
	require.NoError(t, err)
	assert.Empty(t, entries, "spooled copy is removed on close")
}

func TestOpenDistributedZipSpoolFailure(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "day.zip"), zipBytes(t, zipEntry{name: "p", data: []byte("x\n")}))
	client := &streamOnlyClient{inner: dfs.NewFileClient(root)}

	missing := filepath.Join(t.TempDir(), "does-not-exist")
	_, err := Open(context.Background(), "/hdfs/day.zip", Options{DFS: client, TempDir: missing})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOpen)
}

func TestOpenerLocalMissing(t *testing.T) {
	opener := NewOpener(nil, "")
	_, err := opener.Open(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, ErrOpen)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestOpenDistributedZipUsesDownloader(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "logs", "day.zip"), zipBytes(t,
		zipEntry{name: "part-00000", data: []byte("one\n")},
		zipEntry{name: "part-00001", data: []byte("two\n")},
	))
	spool := t.TempDir()
	client := &downloadClient{inner: dfs.NewFileClient(root)}

	reader, err := Open(context.Background(), "dfs://nn/logs/day.zip", Options{DFS: client, TempDir: spool})
	require.NoError(t, err)
	assert.Equal(t, 1, client.downloads)

	assert.Equal(t, []string{"one", "two"}, valuesOf(drain(t, reader)))
	require.NoError(t, reader.Close())

	entries, err := os.ReadDir(spool)
	require.NoError(t, err)
	assert.Empty(t, entries, "downloaded copy is removed on close")
}

func TestOpenDistributedZipDownloadMissing(t *testing.T) {
	spool := t.TempDir()
	client := &downloadClient{inner: dfs.NewFileClient(t.TempDir())}

	_, err := Open(context.Background(), "dfs://nn/none.zip", Options{DFS: client, TempDir: spool})
	assert.ErrorIs(t, err, ErrOpen)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	entries, err := os.ReadDir(spool)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
