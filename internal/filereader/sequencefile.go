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
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/colinmarc/sequencefile"
)

// TextWritableClass is the only key and value class the container decoder accepts.
const TextWritableClass = "org.apache.hadoop.io.Text"

// SequenceFileDecoder yields the key/value pairs of a Hadoop SequenceFile in
// stored order. Text is UTF-8 on the wire, so keys and values are decoded as
// UTF-8 whatever charset the reader was configured with.
type SequenceFileDecoder struct {
	sf     *sequencefile.Reader
	closer io.Closer

	key    string
	value  string
	count  int64
	done   bool
	closed bool
}

var _ Decoder = (*SequenceFileDecoder)(nil)

// NewSequenceFileDecoder reads the header from rc and takes ownership of it.
func NewSequenceFileDecoder(rc io.ReadCloser, opts DecoderOptions) (*SequenceFileDecoder, error) {
	if _, err := lookupCharset(opts.Charset); err != nil {
		_ = rc.Close()
		return nil, err
	}

	sf := sequencefile.NewReader(rc)
	if err := sf.ReadHeader(); err != nil {
		_ = rc.Close()
		return nil, openError(fmt.Errorf("failed to read sequence file header: %w", err))
	}
	if sf.Header.KeyClassName != TextWritableClass || sf.Header.ValueClassName != TextWritableClass {
		_ = rc.Close()
		return nil, openError(fmt.Errorf("unsupported sequence file classes %s/%s, want %s",
			sf.Header.KeyClassName, sf.Header.ValueClassName, TextWritableClass))
	}

	return &SequenceFileDecoder{sf: sf, closer: rc}, nil
}

func (d *SequenceFileDecoder) Advance() (bool, error) {
	if d.done || d.closed {
		return false, nil
	}
	if !d.sf.Scan() {
		d.done = true
		d.key, d.value = "", ""
		if err := d.sf.Err(); err != nil {
			return false, decodeError(fmt.Errorf("sequence file record %d: %w", d.count+1, err))
		}
		return false, nil
	}

	key, err := decodeText(d.sf.Key())
	if err == nil {
		var value string
		value, err = decodeText(d.sf.Value())
		if err == nil {
			d.count++
			d.key, d.value = key, value
			return true, nil
		}
	}
	d.done = true
	d.key, d.value = "", ""
	return false, decodeError(fmt.Errorf("sequence file record %d: %w", d.count+1, err))
}

// decodeText unwraps a serialized Text writable.
func decodeText(b []byte) (s string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed Text writable: %v", r)
		}
	}()
	s = sequencefile.Text(b)
	if !utf8.ValidString(s) {
		return "", errors.New("text writable is not valid UTF-8")
	}
	return s, nil
}

func (d *SequenceFileDecoder) Key() string { return d.key }

func (d *SequenceFileDecoder) Value() string { return d.value }

func (d *SequenceFileDecoder) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	d.key, d.value = "", ""
	d.sf = nil

	var err error
	if d.closer != nil {
		err = d.closer.Close()
		d.closer = nil
	}
	return err
}

// OpenSequenceFile opens a local container by path. A directory, as left
// behind by a folder writer, is read as the concatenation of its part files
// in name order; names starting with "_" or "." are ignored.
func OpenSequenceFile(path string, opts DecoderOptions) (Decoder, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, openError(err)
	}
	if !fi.IsDir() {
		d, err := openSequenceFilePart(path, opts)
		if err != nil {
			return nil, err
		}
		return d, nil
	}

	parts, err := sequenceFileParts(path)
	if err != nil {
		return nil, openError(err)
	}

	decoders := make([]Decoder, 0, len(parts))
	for _, part := range parts {
		d, err := openSequenceFilePart(part, opts)
		if err != nil {
			for _, opened := range decoders {
				_ = opened.Close()
			}
			return nil, err
		}
		decoders = append(decoders, d)
	}
	return NewSequentialDecoder(decoders)
}

func openSequenceFilePart(path string, opts DecoderOptions) (*SequenceFileDecoder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, openError(err)
	}
	d, err := NewSequenceFileDecoder(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

func sequenceFileParts(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var parts []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") {
			continue
		}
		parts = append(parts, filepath.Join(dir, name))
	}
	sort.Strings(parts)
	return parts, nil
}
