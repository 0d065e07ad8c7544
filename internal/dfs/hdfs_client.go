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
	"sync"

	"github.com/colinmarc/hdfs/v2"
	"github.com/hashicorp/go-multierror"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// HDFSClient talks to HDFS namenodes. One underlying connection is kept per
// namenode address; scheme paths carry their own address, mount paths use
// the configured default.
type HDFSClient struct {
	namenode string
	user     string

	mu      sync.Mutex
	clients map[string]*hdfs.Client
}

var _ Client = (*HDFSClient)(nil)

func NewHDFSClient(namenode, user string) *HDFSClient {
	return &HDFSClient{
		namenode: namenode,
		user:     user,
		clients:  map[string]*hdfs.Client{},
	}
}

func (c *HDFSClient) clientFor(host string) (*hdfs.Client, error) {
	addr := host
	if addr == "" {
		addr = c.namenode
	}
	if addr == "" {
		return nil, errors.New("no namenode address in path and dfs.namenode is not set")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if cl, ok := c.clients[addr]; ok {
		return cl, nil
	}
	cl, err := hdfs.NewClient(hdfs.ClientOptions{
		Addresses: []string{addr},
		User:      c.user,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to namenode %s: %w", addr, err)
	}
	c.clients[addr] = cl
	return cl, nil
}

// Open returns an *hdfs.FileReader, which also supports ReadAt and Stat.
func (c *HDFSClient) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	host, name := SplitPath(p)
	cl, err := c.clientFor(host)
	if err != nil {
		recordOpenError(ctx, BackendHDFS, err)
		return nil, err
	}
	r, err := cl.Open(name)
	if err != nil {
		recordOpenError(ctx, BackendHDFS, err)
		return nil, err
	}
	openCount.Add(ctx, 1, metric.WithAttributes(attribute.String("backend", BackendHDFS)))
	return r, nil
}

func (c *HDFSClient) Delete(ctx context.Context, p string, recursive bool) (bool, error) {
	host, name := SplitPath(p)
	cl, err := c.clientFor(host)
	if err != nil {
		return false, err
	}
	if _, err := cl.Stat(name); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if recursive {
		err = cl.RemoveAll(name)
	} else {
		err = cl.Remove(name)
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Close drops every namenode connection.
func (c *HDFSClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var result *multierror.Error
	for addr, cl := range c.clients {
		if err := cl.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("close namenode %s: %w", addr, err))
		}
		delete(c.clients, addr)
	}
	return result.ErrorOrNil()
}
