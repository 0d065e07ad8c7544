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

// Package dfs provides access to the distributed filesystem that backs
// "/hdfs/", "dfs://" and "hdfs://" paths.
package dfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cardinalhq/lakereader/internal/helpers"
)

// Client is the distributed filesystem surface the readers depend on.
type Client interface {
	// Open returns a stream over the file at path. Missing files produce an
	// error matching fs.ErrNotExist.
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes path, and everything below it when recursive is set.
	// It reports whether anything was removed.
	Delete(ctx context.Context, path string, recursive bool) (bool, error)
}

// Downloader is implemented by clients that can fill a local file with
// parallel ranged reads. It returns the number of bytes written.
type Downloader interface {
	DownloadTo(ctx context.Context, path string, w io.WriterAt) (int64, error)
}

// ErrNotConfigured is returned when a distributed path is used without a backend.
var ErrNotConfigured = errors.New("no distributed filesystem configured")

const (
	BackendNone  = "none"
	BackendLocal = "local"
	BackendHDFS  = "hdfs"
	BackendS3    = "s3"
	BackendAzure = "azure"
	BackendGCS   = "gcs"
)

// Config selects and configures the distributed filesystem backend.
type Config struct {
	Backend string `mapstructure:"backend"`

	// HDFS
	Namenode string `mapstructure:"namenode"`
	User     string `mapstructure:"user"`

	// Local mount
	Root string `mapstructure:"root"`

	// S3
	Bucket          string `mapstructure:"bucket"`
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`

	// Azure
	AzureAccountURL string `mapstructure:"azure_account_url"`
	AzureContainer  string `mapstructure:"azure_container"`

	// GCS
	GCSBucket         string `mapstructure:"gcs_bucket"`
	GCSServiceAccount string `mapstructure:"gcs_service_account"`
}

func DefaultConfig() Config {
	return Config{Backend: BackendNone}
}

// NewClient builds the client for cfg.Backend. BackendNone yields a nil
// client and no error; distributed paths then fail at open time.
func NewClient(ctx context.Context, cfg Config) (Client, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", BackendNone:
		return nil, nil
	case BackendLocal:
		if cfg.Root == "" {
			return nil, errors.New("dfs.root is required for the local backend")
		}
		return NewFileClient(cfg.Root), nil
	case BackendHDFS:
		return NewHDFSClient(cfg.Namenode, cfg.User), nil
	case BackendS3:
		return NewS3Client(ctx, cfg)
	case BackendAzure:
		return NewAzureClient(cfg)
	case BackendGCS:
		return NewGCSClient(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported dfs backend: %s", cfg.Backend)
	}
}

// SplitPath normalizes the three distributed path forms. For scheme paths
// host is the authority ("namenode:port"); for "/hdfs/..." mounts host is
// empty. name always starts with "/". Paths that are not distributed are
// returned unchanged with an empty host.
func SplitPath(p string) (host, name string) {
	switch {
	case strings.HasPrefix(p, helpers.HDFSScheme):
		return splitAuthority(strings.TrimPrefix(p, helpers.HDFSScheme))
	case strings.HasPrefix(p, helpers.DFSScheme):
		return splitAuthority(strings.TrimPrefix(p, helpers.DFSScheme))
	case strings.HasPrefix(p, helpers.DistributedMountPrefix):
		return "", "/" + strings.TrimPrefix(p, helpers.DistributedMountPrefix)
	default:
		return "", p
	}
}

func splitAuthority(rest string) (string, string) {
	idx := strings.Index(rest, "/")
	if idx == -1 {
		return rest, "/"
	}
	return rest[:idx], rest[idx:]
}

// objectKey turns a distributed path into an object store key.
func objectKey(p string) string {
	_, name := SplitPath(p)
	return strings.TrimPrefix(name, "/")
}
