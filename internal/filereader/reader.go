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

// Record is one unit of iteration. Text encodings leave Key empty.
type Record struct {
	Key   string
	Value string
}

// Decoder is implemented by every format decoder.
type Decoder interface {
	// Advance loads the next record. It returns false with a nil error once
	// the input is exhausted, and keeps doing so on later calls. Errors are
	// wrapped in ErrDecode.
	Advance() (bool, error)

	// Key returns the current record's key, or "" for text formats.
	Key() string

	// Value returns the current record's payload.
	Value() string

	// Close releases the decoder's streams. It is safe to call more than once.
	Close() error
}

// DefaultMaxLineBytes bounds a single text line.
const DefaultMaxLineBytes = 16 * 1024 * 1024

// DecoderOptions is shared by all decoders.
type DecoderOptions struct {
	// Charset is an IANA charset name. Empty means UTF-8.
	Charset string

	// MaxLineBytes bounds a single line; zero means DefaultMaxLineBytes.
	MaxLineBytes int

	// Tuning is a reserved decoder tuning flag. It defaults to false and no
	// decoder currently changes behavior when it is set.
	Tuning bool
}

func (o DecoderOptions) maxLineBytes() int {
	if o.MaxLineBytes <= 0 {
		return DefaultMaxLineBytes
	}
	return o.MaxLineBytes
}
