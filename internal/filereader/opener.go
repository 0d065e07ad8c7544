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
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/cardinalhq/lakereader/internal/dfs"
	"github.com/cardinalhq/lakereader/internal/helpers"
)

var errIsDirectory = errors.New("is a directory")

// Opener opens byte streams for local and distributed paths. The
// distributed client is injected so tests can substitute a local root.
type Opener struct {
	DFS     dfs.Client
	TempDir string
}

func NewOpener(client dfs.Client, tempDir string) *Opener {
	return &Opener{DFS: client, TempDir: tempDir}
}

// Open returns a stream over path. Failures wrap ErrOpen and the
// underlying error; nothing is retried and there is no fallback between
// local and distributed access.
func (o *Opener) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	switch helpers.ClassifyLocation(path) {
	case helpers.LocationDistributed:
		if o.DFS == nil {
			return nil, openError(fmt.Errorf("%w: %s", ErrNoDFS, path))
		}
		rc, err := o.DFS.Open(ctx, path)
		if err != nil {
			return nil, openError(err)
		}
		return rc, nil
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, openError(err)
		}
		fi, err := f.Stat()
		if err != nil {
			_ = f.Close()
			return nil, openError(err)
		}
		if fi.IsDir() {
			_ = f.Close()
			return nil, openError(&fs.PathError{Op: "open", Path: path, Err: errIsDirectory})
		}
		return f, nil
	}
}

// RandomAccessFile is a stream that can also be read at arbitrary offsets.
type RandomAccessFile struct {
	io.ReaderAt
	io.Closer
	Size int64
}

type statReaderAt interface {
	io.ReaderAt
	Stat() (os.FileInfo, error)
}

// hdfs.FileReader reports its FileInfo without an error.
type infoReaderAt interface {
	io.ReaderAt
	Stat() os.FileInfo
}

// OpenRandomAccess returns path as an io.ReaderAt. Clients that implement
// dfs.Downloader fill a temp file under TempDir directly; other streams
// that cannot seek are copied there. The temp file is removed on Close.
func (o *Opener) OpenRandomAccess(ctx context.Context, path string) (*RandomAccessFile, error) {
	if helpers.ClassifyLocation(path) == helpers.LocationDistributed {
		if dl, ok := o.DFS.(dfs.Downloader); ok {
			return o.download(ctx, dl, path)
		}
	}

	rc, err := o.Open(ctx, path)
	if err != nil {
		return nil, err
	}

	if sra, ok := rc.(statReaderAt); ok {
		fi, err := sra.Stat()
		if err != nil {
			_ = rc.Close()
			return nil, openError(fmt.Errorf("stat %s: %w", path, err))
		}
		return &RandomAccessFile{ReaderAt: sra, Closer: rc, Size: fi.Size()}, nil
	}
	if ira, ok := rc.(infoReaderAt); ok {
		return &RandomAccessFile{ReaderAt: ira, Closer: rc, Size: ira.Stat().Size()}, nil
	}

	return o.spool(rc, path)
}

func (o *Opener) download(ctx context.Context, dl dfs.Downloader, path string) (*RandomAccessFile, error) {
	f, err := os.CreateTemp(o.TempDir, helpers.SpoolPrefix+"*")
	if err != nil {
		return nil, openError(fmt.Errorf("create temp file: %w", err))
	}
	size, err := dl.DownloadTo(ctx, path, f)
	if err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return nil, openError(err)
	}
	return &RandomAccessFile{ReaderAt: f, Closer: &removeOnClose{f: f}, Size: size}, nil
}

func (o *Opener) spool(rc io.ReadCloser, path string) (*RandomAccessFile, error) {
	defer func() { _ = rc.Close() }()

	f, err := os.CreateTemp(o.TempDir, helpers.SpoolPrefix+"*")
	if err != nil {
		return nil, openError(fmt.Errorf("create temp file: %w", err))
	}
	size, err := io.Copy(f, rc)
	if err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return nil, openError(fmt.Errorf("copy %s to temp file: %w", path, err))
	}
	return &RandomAccessFile{ReaderAt: f, Closer: &removeOnClose{f: f}, Size: size}, nil
}

type removeOnClose struct {
	f *os.File
}

func (r *removeOnClose) Close() error {
	err := r.f.Close()
	if rmErr := os.Remove(r.f.Name()); rmErr != nil && err == nil {
		err = rmErr
	}
	return err
}
