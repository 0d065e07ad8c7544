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
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardinalhq/lakereader/internal/logctx"
)

func zipDecoderValues(t *testing.T, d *ZipTextDecoder) []string {
	t.Helper()
	var out []string
	for {
		ok, err := d.Advance()
		require.NoError(t, err)
		if !ok {
			return out
		}
		out = append(out, d.Value())
	}
}

func TestZipTextDecoderNoEntries(t *testing.T) {
	data := zipBytes(t)
	d, err := NewZipTextDecoder(bytes.NewReader(data), int64(len(data)), nil, DecoderOptions{})
	require.NoError(t, err)
	defer func() { _ = d.Close() }()

	assert.Equal(t, 0, d.EntryCount())
	ok, err := d.Advance()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestZipTextDecoderEntryBoundaries(t *testing.T) {
	data := zipBytes(t,
		zipEntry{name: "dir/"},
		zipEntry{name: "dir/part-00000", data: []byte("a\nb")},
		zipEntry{name: "empty", data: []byte{}},
		zipEntry{name: "part-00001", data: []byte("c\r\nd\n")},
		zipEntry{name: "part-00002", data: []byte("\n")},
	)
	d, err := NewZipTextDecoder(bytes.NewReader(data), int64(len(data)), nil, DecoderOptions{})
	require.NoError(t, err)
	defer func() { _ = d.Close() }()

	assert.Equal(t, 4, d.EntryCount(), "directory entries are skipped")
	// The unterminated "b" does not merge with the next entry's first line.
	assert.Equal(t, []string{"a", "b", "c", "d", ""}, zipDecoderValues(t, d))

	ok, err := d.Advance()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestZipTextDecoderPosition(t *testing.T) {
	data := zipBytes(t,
		zipEntry{name: "first", data: []byte("1\n2\n")},
		zipEntry{name: "second", data: []byte("3\n")},
	)
	d, err := NewZipTextDecoder(bytes.NewReader(data), int64(len(data)), nil, DecoderOptions{})
	require.NoError(t, err)
	defer func() { _ = d.Close() }()

	want := []struct {
		value string
		entry string
		line  int64
	}{
		{"1", "first", 1},
		{"2", "first", 2},
		{"3", "second", 1},
	}
	for _, w := range want {
		ok, err := d.Advance()
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, w.value, d.Value())
		entry, line := d.Position()
		assert.Equal(t, w.entry, entry)
		assert.Equal(t, w.line, line)
	}
}

func TestZipTextDecoderCorruptEntry(t *testing.T) {
	payload := bytes.Repeat([]byte("the same line over and over\n"), 2000)
	data := zipBytes(t,
		zipEntry{name: "good", data: []byte("ok\n")},
		zipEntry{name: "bad", data: payload},
	)

	// Flip bytes inside the second entry's compressed data, just past its
	// local header name. The CRC check catches it even if inflate does not.
	idx := bytes.Index(data, []byte("bad")) + 3 + 40
	corrupt := append([]byte(nil), data...)
	for i := idx; i < idx+16 && i < len(corrupt); i++ {
		corrupt[i] ^= 0xff
	}

	d, err := NewZipTextDecoder(bytes.NewReader(corrupt), int64(len(corrupt)), nil, DecoderOptions{})
	require.NoError(t, err)
	defer func() { _ = d.Close() }()

	ok, err := d.Advance()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "ok", d.Value())

	var decodeErr error
	for {
		ok, err := d.Advance()
		if err != nil {
			decodeErr = err
			break
		}
		if !ok {
			break
		}
	}
	require.Error(t, decodeErr)
	assert.ErrorIs(t, decodeErr, ErrDecode)
	assert.ErrorContains(t, decodeErr, "zip entry bad")
}

func TestOpenZipLogsWithReaderAttributes(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "day.zip"), zipBytes(t,
		zipEntry{name: "part-00000", data: []byte("a\n")},
		zipEntry{name: "part-00001", data: []byte("b\n")},
	))

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := logctx.WithLogger(context.Background(), logger)

	reader, err := Open(ctx, path, Options{})
	require.NoError(t, err)
	require.NoError(t, reader.Close())

	out := buf.String()
	assert.Contains(t, out, "Opened zip archive")
	assert.Contains(t, out, "entries=2")
	assert.Contains(t, out, "path="+path)
	assert.Contains(t, out, "encoding=zip")
}

type countingCloser struct {
	closed int
}

func (c *countingCloser) Close() error {
	c.closed++
	return nil
}

func TestZipTextDecoderOwnsCloser(t *testing.T) {
	data := zipBytes(t, zipEntry{name: "p", data: []byte("x\n")})

	closer := &countingCloser{}
	d, err := NewZipTextDecoder(bytes.NewReader(data), int64(len(data)), closer, DecoderOptions{})
	require.NoError(t, err)
	require.NoError(t, d.Close())
	require.NoError(t, d.Close())
	assert.Equal(t, 1, closer.closed)

	closer = &countingCloser{}
	_, err = NewZipTextDecoder(bytes.NewReader([]byte("junk")), 4, closer, DecoderOptions{})
	require.Error(t, err)
	assert.Equal(t, 1, closer.closed, "closer is released when construction fails")
}
