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
	"context"
	"fmt"
	"log/slog"

	"github.com/cardinalhq/lakereader/internal/helpers"
	"github.com/cardinalhq/lakereader/internal/logctx"
)

// NewDecoder opens path through opener and wraps it in the decoder for
// encoding. EncodingAuto is resolved from the path suffix first.
//
//   - plain: PlainTextDecoder over the raw stream
//   - gzip: GzipTextDecoder over the raw stream
//   - zip: ZipTextDecoder over a random access view of the archive
//   - sequencefile: local paths (files or part directories) are opened by
//     path; distributed paths are read from the distributed stream
func NewDecoder(ctx context.Context, path string, encoding helpers.Encoding, opener *Opener, opts DecoderOptions) (Decoder, error) {
	if encoding == helpers.EncodingAuto {
		encoding = helpers.ClassifyEncoding(path)
	}

	switch encoding {
	case helpers.EncodingPlainText:
		return createPlainTextDecoder(ctx, path, opener, opts)
	case helpers.EncodingGzippedText:
		return createGzipTextDecoder(ctx, path, opener, opts)
	case helpers.EncodingZippedText:
		return createZipTextDecoder(ctx, path, opener, opts)
	case helpers.EncodingContainer:
		return createSequenceFileDecoder(ctx, path, opener, opts)
	default:
		return nil, fmt.Errorf("unsupported encoding: %s", encoding)
	}
}

func createPlainTextDecoder(ctx context.Context, path string, opener *Opener, opts DecoderOptions) (Decoder, error) {
	rc, err := opener.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	d, err := NewPlainTextDecoder(rc, opts)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func createGzipTextDecoder(ctx context.Context, path string, opener *Opener, opts DecoderOptions) (Decoder, error) {
	rc, err := opener.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	d, err := NewGzipTextDecoder(rc, opts)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func createZipTextDecoder(ctx context.Context, path string, opener *Opener, opts DecoderOptions) (Decoder, error) {
	raf, err := opener.OpenRandomAccess(ctx, path)
	if err != nil {
		return nil, err
	}
	d, err := NewZipTextDecoder(raf, raf.Size, raf, opts)
	if err != nil {
		return nil, err
	}
	logctx.FromContext(ctx).Debug("Opened zip archive",
		slog.Int("entries", d.EntryCount()),
		slog.Int64("size", raf.Size))
	return d, nil
}

func createSequenceFileDecoder(ctx context.Context, path string, opener *Opener, opts DecoderOptions) (Decoder, error) {
	if helpers.ClassifyLocation(path) == helpers.LocationLocal {
		return OpenSequenceFile(path, opts)
	}
	rc, err := opener.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	d, err := NewSequenceFileDecoder(rc, opts)
	if err != nil {
		return nil, err
	}
	return d, nil
}
