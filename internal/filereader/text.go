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
	"io"

	"github.com/klauspost/compress/gzip"
)

// PlainTextDecoder yields one record per line of a text stream.
type PlainTextDecoder struct {
	*lineDecoder
}

var _ Decoder = (*PlainTextDecoder)(nil)

// NewPlainTextDecoder takes ownership of rc and closes it on Close, including
// when construction fails.
func NewPlainTextDecoder(rc io.ReadCloser, opts DecoderOptions) (*PlainTextDecoder, error) {
	ld, err := newLineDecoder(rc, opts)
	if err != nil {
		_ = rc.Close()
		return nil, err
	}
	return &PlainTextDecoder{lineDecoder: ld}, nil
}

// GzipTextDecoder yields one record per line of a gzip-compressed text
// stream. Concatenated gzip members are read as one stream.
type GzipTextDecoder struct {
	*lineDecoder
}

var _ Decoder = (*GzipTextDecoder)(nil)

// NewGzipTextDecoder takes ownership of rc. A malformed gzip header fails
// construction with ErrOpen.
func NewGzipTextDecoder(rc io.ReadCloser, opts DecoderOptions) (*GzipTextDecoder, error) {
	gz, err := gzip.NewReader(rc)
	if err != nil {
		_ = rc.Close()
		return nil, openError(fmt.Errorf("failed to create gzip reader: %w", err))
	}

	mrc := &multiReadCloser{
		Reader:  gz,
		closers: []io.Closer{gz, rc},
	}

	ld, err := newLineDecoder(mrc, opts)
	if err != nil {
		_ = mrc.Close()
		return nil, err
	}
	return &GzipTextDecoder{lineDecoder: ld}, nil
}
