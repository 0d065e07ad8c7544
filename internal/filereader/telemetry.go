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
	"fmt"

	"go.opentelemetry.io/otel"
	otelmetric "go.opentelemetry.io/otel/metric"
)

var (
	recordsReadCounter  otelmetric.Int64Counter
	openErrorsCounter   otelmetric.Int64Counter
	decodeErrorsCounter otelmetric.Int64Counter
)

func init() {
	meter := otel.Meter("github.com/cardinalhq/lakereader/internal/filereader")

	var err error
	recordsReadCounter, err = meter.Int64Counter(
		"lakereader.reader.records.read",
		otelmetric.WithDescription("Number of records delivered by record readers"),
	)
	if err != nil {
		panic(fmt.Errorf("failed to create records.read counter: %w", err))
	}

	openErrorsCounter, err = meter.Int64Counter(
		"lakereader.reader.open.errors",
		otelmetric.WithDescription("Number of record readers that failed to open"),
	)
	if err != nil {
		panic(fmt.Errorf("failed to create open.errors counter: %w", err))
	}

	decodeErrorsCounter, err = meter.Int64Counter(
		"lakereader.reader.decode.errors",
		otelmetric.WithDescription("Number of record readers that failed while decoding"),
	)
	if err != nil {
		panic(fmt.Errorf("failed to create decode.errors counter: %w", err))
	}
}
