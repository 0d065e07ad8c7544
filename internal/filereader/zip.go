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

	"github.com/klauspost/compress/zip"
)

// ZipTextDecoder reads every file entry of a zip archive as text, in the
// order the entries are stored, and presents their lines as one continuous
// record stream. Directory entries are skipped.
type ZipTextDecoder struct {
	entries []*zip.File
	closer  io.Closer
	opts    DecoderOptions

	// cursor: entryIdx is the entry being read (or next to open when lines
	// is nil), lineInEntry counts lines delivered from it.
	entryIdx    int
	lineInEntry int64
	entry       io.ReadCloser
	lines       *lineScanner

	current string
	done    bool
	closed  bool
}

var _ Decoder = (*ZipTextDecoder)(nil)

// NewZipTextDecoder reads the archive directory from ra. closer, if non-nil,
// is owned by the decoder and is closed on Close or when construction fails.
func NewZipTextDecoder(ra io.ReaderAt, size int64, closer io.Closer, opts DecoderOptions) (*ZipTextDecoder, error) {
	fail := func(err error) (*ZipTextDecoder, error) {
		if closer != nil {
			_ = closer.Close()
		}
		return nil, err
	}

	// Resolve the charset once so a bad name fails here, not mid-iteration.
	if _, err := lookupCharset(opts.Charset); err != nil {
		return fail(err)
	}

	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return fail(openError(fmt.Errorf("unable to create zip reader: %w", err)))
	}

	entries := make([]*zip.File, 0, len(zr.File))
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		entries = append(entries, f)
	}

	return &ZipTextDecoder{
		entries: entries,
		closer:  closer,
		opts:    opts,
	}, nil
}

func (z *ZipTextDecoder) Advance() (bool, error) {
	if z.done || z.closed {
		return false, nil
	}

	for {
		if z.lines == nil {
			if z.entryIdx >= len(z.entries) {
				z.finish()
				return false, nil
			}
			if err := z.openEntry(); err != nil {
				z.finish()
				return false, err
			}
		}

		ok, err := z.lines.next()
		if err != nil {
			name, line := z.Position()
			z.finish()
			return false, decodeError(fmt.Errorf("zip entry %s after line %d: %w", name, line, err))
		}
		if ok {
			z.lineInEntry++
			z.current = z.lines.line
			return true, nil
		}

		if err := z.closeEntry(); err != nil {
			name := z.entries[z.entryIdx].Name
			z.finish()
			return false, decodeError(fmt.Errorf("zip entry %s: %w", name, err))
		}
		z.entryIdx++
	}
}

func (z *ZipTextDecoder) openEntry() error {
	f := z.entries[z.entryIdx]
	rc, err := f.Open()
	if err != nil {
		return decodeError(fmt.Errorf("open zip entry %s: %w", f.Name, err))
	}
	lines, err := newLineScanner(rc, z.opts)
	if err != nil {
		_ = rc.Close()
		return err
	}
	z.entry = rc
	z.lines = lines
	z.lineInEntry = 0
	return nil
}

func (z *ZipTextDecoder) closeEntry() error {
	z.lines = nil
	if z.entry == nil {
		return nil
	}
	err := z.entry.Close()
	z.entry = nil
	return err
}

func (z *ZipTextDecoder) finish() {
	z.done = true
	z.current = ""
	_ = z.closeEntry()
}

func (z *ZipTextDecoder) Key() string { return "" }

func (z *ZipTextDecoder) Value() string { return z.current }

// Position reports the entry being read and how many of its lines have
// been delivered.
func (z *ZipTextDecoder) Position() (entry string, line int64) {
	if z.entryIdx >= len(z.entries) {
		return "", 0
	}
	return z.entries[z.entryIdx].Name, z.lineInEntry
}

// EntryCount returns the number of file entries in the archive.
func (z *ZipTextDecoder) EntryCount() int { return len(z.entries) }

func (z *ZipTextDecoder) Close() error {
	if z.closed {
		return nil
	}
	z.closed = true
	z.current = ""
	_ = z.closeEntry()

	if z.closer != nil {
		err := z.closer.Close()
		z.closer = nil
		return err
	}
	return nil
}
