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

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// s3API is the subset of *s3.Client used here.
type s3API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	DeleteObjects(ctx context.Context, in *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3Client stores distributed paths as objects in a single bucket, keyed
// by the path with its distributed prefix removed.
type S3Client struct {
	api    s3API
	bucket string
	tracer trace.Tracer
}

var (
	_ Client     = (*S3Client)(nil)
	_ Downloader = (*S3Client)(nil)
)

// s3 caps DeleteObjects at this many keys per request.
const maxDeleteBatch = 1000

func NewS3Client(ctx context.Context, cfg Config) (*S3Client, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("dfs.bucket is required for the s3 backend")
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	otelaws.AppendMiddlewares(&awsCfg.APIOptions)

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newS3ClientWithAPI(client, cfg.Bucket), nil
}

func newS3ClientWithAPI(api s3API, bucket string) *S3Client {
	return &S3Client{
		api:    api,
		bucket: bucket,
		tracer: otel.Tracer("github.com/cardinalhq/lakereader/internal/dfs"),
	}
}

func (c *S3Client) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	key := objectKey(p)
	out, err := c.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			err = &fs.PathError{Op: "open", Path: p, Err: fs.ErrNotExist}
		} else {
			err = fmt.Errorf("get s3://%s/%s: %w", c.bucket, key, err)
		}
		recordOpenError(ctx, BackendS3, err)
		return nil, err
	}
	openCount.Add(ctx, 1, metric.WithAttributes(attribute.String("backend", BackendS3)))
	return out.Body, nil
}

// DownloadTo copies the object at p into w using parallel ranged GETs.
func (c *S3Client) DownloadTo(ctx context.Context, p string, w io.WriterAt) (int64, error) {
	key := objectKey(p)

	ctx, span := c.tracer.Start(ctx, "dfs.s3.DownloadTo",
		trace.WithAttributes(
			attribute.String("bucket", c.bucket),
			attribute.String("key", key),
		),
	)
	defer span.End()

	downloader := manager.NewDownloader(c.api)
	size, err := downloader.Download(ctx, w, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			err = &fs.PathError{Op: "open", Path: p, Err: fs.ErrNotExist}
		} else {
			err = fmt.Errorf("download s3://%s/%s: %w", c.bucket, key, err)
		}
		span.RecordError(err)
		recordOpenError(ctx, BackendS3, err)
		return 0, err
	}
	openCount.Add(ctx, 1, metric.WithAttributes(attribute.String("backend", BackendS3)))
	return size, nil
}

// Delete removes the object at p. With recursive set, every object under
// "p/" is removed as well, mirroring a directory delete.
func (c *S3Client) Delete(ctx context.Context, p string, recursive bool) (bool, error) {
	key := objectKey(p)

	removed := false
	if _, err := c.api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}); err == nil {
		if _, err := c.api.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(c.bucket),
			Key:    aws.String(key),
		}); err != nil {
			return false, fmt.Errorf("delete s3://%s/%s: %w", c.bucket, key, err)
		}
		removed = true
	} else {
		var nf *types.NotFound
		if !errors.As(err, &nf) {
			return false, fmt.Errorf("head s3://%s/%s: %w", c.bucket, key, err)
		}
	}

	if !recursive {
		return removed, nil
	}

	prefix := key + "/"
	if key == "" {
		prefix = ""
	}
	var batch []types.ObjectIdentifier
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		_, err := c.api.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(c.bucket),
			Delete: &types.Delete{Objects: batch, Quiet: aws.Bool(true)},
		})
		batch = batch[:0]
		if err != nil {
			return fmt.Errorf("delete objects under s3://%s/%s: %w", c.bucket, prefix, err)
		}
		removed = true
		return nil
	}

	paginator := s3.NewListObjectsV2Paginator(c.api, &s3.ListObjectsV2Input{
		Bucket: aws.String(c.bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return removed, fmt.Errorf("list s3://%s/%s: %w", c.bucket, prefix, err)
		}
		for _, obj := range page.Contents {
			batch = append(batch, types.ObjectIdentifier{Key: obj.Key})
			if len(batch) == maxDeleteBatch {
				if err := flush(); err != nil {
					return removed, err
				}
			}
		}
	}
	if err := flush(); err != nil {
		return removed, err
	}
	return removed, nil
}
