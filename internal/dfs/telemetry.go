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
	"io/fs"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	openCount  metric.Int64Counter
	openErrors metric.Int64Counter
)

func init() {
	meter := otel.Meter("github.com/cardinalhq/lakereader/internal/dfs")

	var err error
	openCount, err = meter.Int64Counter(
		"lakereader.dfs.open.count",
		metric.WithDescription("Number of distributed filesystem streams opened"),
	)
	if err != nil {
		panic(fmt.Errorf("failed to create open.count counter: %w", err))
	}

	openErrors, err = meter.Int64Counter(
		"lakereader.dfs.open.errors",
		metric.WithDescription("Number of distributed filesystem open failures"),
	)
	if err != nil {
		panic(fmt.Errorf("failed to create open.errors counter: %w", err))
	}
}

func recordOpenError(ctx context.Context, backend string, err error) {
	reason := "unknown"
	if errors.Is(err, fs.ErrNotExist) {
		reason = "not_found"
	}
	openErrors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("backend", backend),
		attribute.String("reason", reason),
	))
}
