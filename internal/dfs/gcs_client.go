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
	"fmt"
	"io"
	"io/fs"

	"cloud.google.com/go/storage"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/api/impersonate"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// gcsBucket is the subset of *storage.BucketHandle used here.
type gcsBucket interface {
	NewReader(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]string, error)
}

type storageBucket struct {
	h *storage.BucketHandle
}

func (b storageBucket) NewReader(ctx context.Context, key string) (io.ReadCloser, error) {
	// Gzip-encoded objects are served as stored.
	r, err := b.h.Object(key).ReadCompressed(true).NewReader(ctx)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (b storageBucket) Delete(ctx context.Context, key string) error {
	return b.h.Object(key).Delete(ctx)
}

func (b storageBucket) List(ctx context.Context, prefix string) ([]string, error) {
	it := b.h.Objects(ctx, &storage.Query{Prefix: prefix})
	var keys []string
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			return keys, nil
		}
		if err != nil {
			return nil, err
		}
		keys = append(keys, attrs.Name)
	}
}

// GCSClient stores distributed paths as objects in one Google Cloud
// Storage bucket.
type GCSClient struct {
	client *storage.Client
	bucket gcsBucket
	name   string
	tracer trace.Tracer
}

var _ Client = (*GCSClient)(nil)

func NewGCSClient(ctx context.Context, cfg Config) (*GCSClient, error) {
	if cfg.GCSBucket == "" {
		return nil, errors.New("dfs.gcs_bucket is required for the gcs backend")
	}

	var opts []option.ClientOption
	if cfg.GCSServiceAccount != "" {
		ts, err := impersonate.CredentialsTokenSource(ctx, impersonate.CredentialsConfig{
			TargetPrincipal: cfg.GCSServiceAccount,
			Scopes:          []string{storage.ScopeFullControl},
		})
		if err != nil {
			return nil, fmt.Errorf("creating impersonated token source: %w", err)
		}
		opts = append(opts, option.WithTokenSource(ts))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating GCP storage client: %w", err)
	}
	c := newGCSClientWithBucket(storageBucket{h: client.Bucket(cfg.GCSBucket)}, cfg.GCSBucket)
	c.client = client
	return c, nil
}

func newGCSClientWithBucket(bucket gcsBucket, name string) *GCSClient {
	return &GCSClient{
		bucket: bucket,
		name:   name,
		tracer: otel.Tracer("github.com/cardinalhq/lakereader/internal/dfs"),
	}
}

func (c *GCSClient) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	key := objectKey(p)
	rc, err := c.bucket.NewReader(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			err = &fs.PathError{Op: "open", Path: p, Err: fs.ErrNotExist}
		} else {
			err = fmt.Errorf("read gs://%s/%s: %w", c.name, key, err)
		}
		recordOpenError(ctx, BackendGCS, err)
		return nil, err
	}
	openCount.Add(ctx, 1, metric.WithAttributes(attribute.String("backend", BackendGCS)))
	return rc, nil
}

// Delete removes the object at p, and with recursive set every object
// under "p/". GCS has no batch delete, so objects go one at a time.
func (c *GCSClient) Delete(ctx context.Context, p string, recursive bool) (bool, error) {
	key := objectKey(p)

	ctx, span := c.tracer.Start(ctx, "dfs.gcs.Delete",
		trace.WithAttributes(
			attribute.String("bucket", c.name),
			attribute.String("key", key),
			attribute.Bool("recursive", recursive),
		),
	)
	defer span.End()

	removed, err := c.deleteObject(ctx, key)
	if err != nil {
		span.RecordError(err)
		return false, err
	}
	if !recursive {
		return removed, nil
	}

	prefix := key + "/"
	if key == "" {
		prefix = ""
	}
	keys, err := c.bucket.List(ctx, prefix)
	if err != nil {
		err = fmt.Errorf("list gs://%s/%s: %w", c.name, prefix, err)
		span.RecordError(err)
		return removed, err
	}
	for _, k := range keys {
		ok, err := c.deleteObject(ctx, k)
		if err != nil {
			span.RecordError(err)
			return removed, err
		}
		removed = removed || ok
	}
	span.SetAttributes(attribute.Int("object_count", len(keys)))
	return removed, nil
}

func (c *GCSClient) deleteObject(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, nil
	}
	if err := c.bucket.Delete(ctx, key); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("delete gs://%s/%s: %w", c.name, key, err)
	}
	return true, nil
}

// Close releases the underlying storage client.
func (c *GCSClient) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}
