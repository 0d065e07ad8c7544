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

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// AzureClient stores distributed paths as blobs in one container.
type AzureClient struct {
	client    *azblob.Client
	container string
}

var _ Client = (*AzureClient)(nil)

func NewAzureClient(cfg Config) (*AzureClient, error) {
	if cfg.AzureAccountURL == "" || cfg.AzureContainer == "" {
		return nil, errors.New("dfs.azure_account_url and dfs.azure_container are required for the azure backend")
	}
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure credential: %w", err)
	}
	client, err := azblob.NewClient(cfg.AzureAccountURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure blob client: %w", err)
	}
	return &AzureClient{client: client, container: cfg.AzureContainer}, nil
}

func (c *AzureClient) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	name := objectKey(p)
	resp, err := c.client.DownloadStream(ctx, c.container, name, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			err = &fs.PathError{Op: "open", Path: p, Err: fs.ErrNotExist}
		} else {
			err = fmt.Errorf("download blob %s/%s: %w", c.container, name, err)
		}
		recordOpenError(ctx, BackendAzure, err)
		return nil, err
	}
	openCount.Add(ctx, 1, metric.WithAttributes(attribute.String("backend", BackendAzure)))
	return resp.Body, nil
}

func (c *AzureClient) Delete(ctx context.Context, p string, recursive bool) (bool, error) {
	name := objectKey(p)

	removed := false
	if _, err := c.client.DeleteBlob(ctx, c.container, name, nil); err == nil {
		removed = true
	} else if !bloberror.HasCode(err, bloberror.BlobNotFound) {
		return false, fmt.Errorf("delete blob %s/%s: %w", c.container, name, err)
	}

	if !recursive {
		return removed, nil
	}

	prefix := name + "/"
	pager := c.client.NewListBlobsFlatPager(c.container, &azblob.ListBlobsFlatOptions{Prefix: &prefix})
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return removed, fmt.Errorf("list blobs %s/%s: %w", c.container, prefix, err)
		}
		for _, item := range page.Segment.BlobItems {
			if item.Name == nil {
				continue
			}
			if _, err := c.client.DeleteBlob(ctx, c.container, *item.Name, nil); err != nil &&
				!bloberror.HasCode(err, bloberror.BlobNotFound) {
				return removed, fmt.Errorf("delete blob %s/%s: %w", c.container, *item.Name, err)
			}
			removed = true
		}
	}
	return removed, nil
}
