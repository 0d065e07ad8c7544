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

	"github.com/hashicorp/go-multierror"
)

// SequentialDecoder reads from multiple decoders sequentially in the order provided.
// It drains the first decoder, then the second, and so on, so the caller sees
// one continuous stream.
type SequentialDecoder struct {
	decoders     []Decoder
	currentIndex int
	current      Decoder
	closed       bool
	done         bool
	rowCount     int64
}

var _ Decoder = (*SequentialDecoder)(nil)

// NewSequentialDecoder creates a SequentialDecoder over decoders, which it
// owns and closes on Close. An empty list is valid and yields nothing.
func NewSequentialDecoder(decoders []Decoder) (*SequentialDecoder, error) {
	for i, d := range decoders {
		if d == nil {
			return nil, fmt.Errorf("decoder at index %d is nil", i)
		}
	}

	return &SequentialDecoder{decoders: decoders}, nil
}

func (sd *SequentialDecoder) Advance() (bool, error) {
	if sd.closed || sd.done {
		return false, nil
	}

	for sd.currentIndex < len(sd.decoders) {
		d := sd.decoders[sd.currentIndex]
		ok, err := d.Advance()
		if err != nil {
			sd.done = true
			sd.current = nil
			return false, fmt.Errorf("part %d: %w", sd.currentIndex, err)
		}
		if ok {
			sd.current = d
			sd.rowCount++
			return true, nil
		}
		sd.currentIndex++
	}

	sd.done = true
	sd.current = nil
	return false, nil
}

func (sd *SequentialDecoder) Key() string {
	if sd.current == nil {
		return ""
	}
	return sd.current.Key()
}

func (sd *SequentialDecoder) Value() string {
	if sd.current == nil {
		return ""
	}
	return sd.current.Value()
}

// Close closes all underlying decoders and releases resources.
func (sd *SequentialDecoder) Close() error {
	if sd.closed {
		return nil
	}
	sd.closed = true
	sd.current = nil

	var result *multierror.Error
	for i, d := range sd.decoders {
		if err := d.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("failed to close part %d: %w", i, err))
		}
	}
	return result.ErrorOrNil()
}

// CurrentDecoderIndex returns the index of the decoder currently being read from.
// Returns -1 if all decoders are exhausted or the decoder is closed.
func (sd *SequentialDecoder) CurrentDecoderIndex() int {
	if sd.closed || sd.currentIndex >= len(sd.decoders) {
		return -1
	}
	return sd.currentIndex
}

// TotalDecoderCount returns the number of parts.
func (sd *SequentialDecoder) TotalDecoderCount() int {
	return len(sd.decoders)
}

// TotalRowsReturned returns the number of records returned across all parts.
func (sd *SequentialDecoder) TotalRowsReturned() int64 {
	return sd.rowCount
}
