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
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

// lineScanner splits a charset-decoded stream into lines. "\n" and "\r\n"
// terminators are stripped; a final unterminated line is still returned.
type lineScanner struct {
	src      *latchReader
	scanner  *bufio.Scanner
	validate bool
	line     string
	lineNo   int64
}

func newLineScanner(r io.Reader, opts DecoderOptions) (*lineScanner, error) {
	cr, validate, err := charsetReader(r, opts.Charset)
	if err != nil {
		return nil, err
	}
	s := &lineScanner{src: &latchReader{r: cr}, validate: validate}
	s.scanner = bufio.NewScanner(s.src)
	// The scanner's limit is the larger of max and the initial capacity.
	maxLine := opts.maxLineBytes()
	s.scanner.Buffer(make([]byte, 0, min(64*1024, maxLine)), maxLine)
	s.scanner.Split(s.split)
	return s, nil
}

// split is bufio.ScanLines, except that an unterminated tail left behind by
// a failed read is reported as that failure instead of as a final line.
func (s *lineScanner) split(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && s.src.err != nil && bytes.IndexByte(data, '\n') < 0 {
		return 0, nil, s.src.err
	}
	return bufio.ScanLines(data, atEOF)
}

// latchReader remembers the first read error other than io.EOF.
type latchReader struct {
	r   io.Reader
	err error
}

func (l *latchReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) && l.err == nil {
		l.err = err
	}
	return n, err
}

// next returns false, nil at end of stream. Errors are already wrapped in
// ErrDecode.
func (s *lineScanner) next() (bool, error) {
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return false, decodeError(fmt.Errorf("reading line %d: %w", s.lineNo+1, err))
		}
		return false, nil
	}
	s.lineNo++
	b := s.scanner.Bytes()
	if s.validate && !utf8.Valid(b) {
		return false, decodeError(fmt.Errorf("line %d is not valid UTF-8", s.lineNo))
	}
	// Charset decoders replace bytes they cannot map with U+FFFD.
	if !s.validate && bytes.ContainsRune(b, utf8.RuneError) {
		return false, decodeError(fmt.Errorf("line %d has bytes that are invalid in the charset", s.lineNo))
	}
	s.line = string(b)
	return true, nil
}

// lineDecoder is the shared implementation of the single-stream text decoders.
type lineDecoder struct {
	lines   *lineScanner
	closer  io.Closer
	current string
	done    bool
	closed  bool
}

func newLineDecoder(rc io.ReadCloser, opts DecoderOptions) (*lineDecoder, error) {
	lines, err := newLineScanner(rc, opts)
	if err != nil {
		return nil, err
	}
	return &lineDecoder{lines: lines, closer: rc}, nil
}

func (d *lineDecoder) Advance() (bool, error) {
	if d.done || d.closed {
		return false, nil
	}
	ok, err := d.lines.next()
	if err != nil || !ok {
		d.done = true
		d.current = ""
		return false, err
	}
	d.current = d.lines.line
	return true, nil
}

func (d *lineDecoder) Key() string { return "" }

func (d *lineDecoder) Value() string { return d.current }

func (d *lineDecoder) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	d.current = ""

	var err error
	if d.closer != nil {
		err = d.closer.Close()
		d.closer = nil
	}
	d.lines = nil
	return err
}

// multiReadCloser reads from the outermost layer and closes every layer in
// the order given.
type multiReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiReadCloser) Close() error {
	var firstErr error
	for _, c := range m.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
