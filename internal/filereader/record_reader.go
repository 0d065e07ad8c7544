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
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	otelmetric "go.opentelemetry.io/otel/metric"

	"github.com/cardinalhq/lakereader/internal/dfs"
	"github.com/cardinalhq/lakereader/internal/helpers"
	"github.com/cardinalhq/lakereader/internal/logctx"
)

// Options configures a RecordReader.
type Options struct {
	// Charset is an IANA charset name; empty means UTF-8.
	Charset string

	// Encoding overrides suffix detection. EncodingAuto (the zero value)
	// classifies the path.
	Encoding helpers.Encoding

	// Tuning is the reserved decoder tuning flag, passed through to the
	// decoder unchanged. Default false.
	Tuning bool

	// DFS serves distributed paths. Nil means distributed paths fail to open.
	DFS dfs.Client

	// TempDir receives spooled copies of distributed zip archives. Empty
	// means the OS default.
	TempDir string

	// MaxLineBytes bounds a text line; zero means DefaultMaxLineBytes.
	MaxLineBytes int
}

type readerState int

const (
	stateReady readerState = iota
	stateHasRecord
	stateExhausted
	stateFailed
	stateClosed
)

// RecordReader iterates the records of one file, whatever its encoding or
// location. It is not safe for concurrent use.
//
// Value and Key return "" unless the last call to Next returned true; that
// covers the time before the first Next, after exhaustion, after an error
// and after Close.
type RecordReader struct {
	path     string
	encoding helpers.Encoding
	location helpers.Location
	decoder  Decoder
	logger   *slog.Logger

	state   readerState
	numRead int64
	err     error
}

// Open classifies path (unless opts.Encoding overrides the encoding),
// opens its streams and returns a reader positioned before the first
// record. On failure nothing is left open and the error wraps ErrOpen.
func Open(ctx context.Context, path string, opts Options) (*RecordReader, error) {
	encoding := opts.Encoding
	if encoding == helpers.EncodingAuto {
		encoding = helpers.ClassifyEncoding(path)
	}
	location := helpers.ClassifyLocation(path)

	ctx = logctx.With(ctx,
		slog.String("path", path),
		slog.String("encoding", encoding.String()),
		slog.String("location", location.String()),
	)
	logger := logctx.FromContext(ctx)

	opener := NewOpener(opts.DFS, opts.TempDir)
	decoder, err := NewDecoder(ctx, path, encoding, opener, DecoderOptions{
		Charset:      opts.Charset,
		MaxLineBytes: opts.MaxLineBytes,
		Tuning:       opts.Tuning,
	})
	if err != nil {
		openErrorsCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("encoding", encoding.String()),
			attribute.String("reason", openErrorReason(err)),
		))
		logger.Debug("Failed to open record reader", slog.Any("error", err))
		return nil, openError(fmt.Errorf("%s: %w", path, err))
	}

	logger.Debug("Opened record reader")
	return newRecordReader(path, encoding, location, decoder, logger), nil
}

func newRecordReader(path string, encoding helpers.Encoding, location helpers.Location, decoder Decoder, logger *slog.Logger) *RecordReader {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecordReader{
		path:     path,
		encoding: encoding,
		location: location,
		decoder:  decoder,
		logger:   logger,
	}
}

func openErrorReason(err error) string {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "not_found"
	case errors.Is(err, fs.ErrPermission):
		return "permission"
	case errors.Is(err, ErrCharset):
		return "charset"
	case errors.Is(err, ErrNoDFS):
		return "no_dfs"
	default:
		return "malformed"
	}
}

// Next advances to the next record. It returns false with a nil error once
// the input is exhausted, and keeps returning that. A decode failure is
// returned (wrapping ErrDecode) on the call where it happens; from then on
// Next returns false and the same error. NumRead grows by exactly one for
// every true result.
func (r *RecordReader) Next() (bool, error) {
	switch r.state {
	case stateExhausted:
		return false, nil
	case stateFailed:
		return false, r.err
	case stateClosed:
		return false, ErrClosed
	}

	ok, err := r.decoder.Advance()
	if err != nil {
		r.state = stateFailed
		r.err = decodeError(fmt.Errorf("%s: record %d: %w", r.path, r.numRead+1, err))
		decodeErrorsCounter.Add(context.Background(), 1, otelmetric.WithAttributes(
			attribute.String("encoding", r.encoding.String()),
		))
		r.logger.Debug("Record reader failed", slog.Int64("numRead", r.numRead), slog.Any("error", r.err))
		return false, r.err
	}
	if !ok {
		r.state = stateExhausted
		return false, nil
	}
	r.state = stateHasRecord
	r.numRead++
	return true, nil
}

// Value returns the current record's payload.
func (r *RecordReader) Value() string {
	if r.state != stateHasRecord {
		return ""
	}
	return r.decoder.Value()
}

// Key returns the current record's key. Text encodings have no keys, so it
// is always "" for them.
func (r *RecordReader) Key() string {
	if r.state != stateHasRecord {
		return ""
	}
	return r.decoder.Key()
}

// Record returns the current record and whether there is one.
func (r *RecordReader) Record() (Record, bool) {
	if r.state != stateHasRecord {
		return Record{}, false
	}
	return Record{Key: r.decoder.Key(), Value: r.decoder.Value()}, true
}

// NumRead returns how many records Next has delivered.
func (r *RecordReader) NumRead() int64 {
	return r.numRead
}

func (r *RecordReader) Path() string { return r.path }

func (r *RecordReader) Encoding() helpers.Encoding { return r.encoding }

func (r *RecordReader) Location() helpers.Location { return r.location }

// Close releases every stream held by the reader. Later calls are no-ops.
func (r *RecordReader) Close() error {
	if r.state == stateClosed {
		return nil
	}
	r.state = stateClosed

	recordsReadCounter.Add(context.Background(), r.numRead, otelmetric.WithAttributes(
		attribute.String("encoding", r.encoding.String()),
	))
	r.logger.Debug("Closed record reader", slog.Int64("numRead", r.numRead))

	if r.decoder == nil {
		return nil
	}
	err := r.decoder.Close()
	r.decoder = nil
	return err
}
