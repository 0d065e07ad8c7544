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
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"
)

var (
	testKeys   = []string{"aaa", "bbb", "ccc"}
	testValues = []string{"asdfawaaa", "bbawverwab", "awefaweccc"}
)

func linesPayload(lines []string) []byte {
	var buf bytes.Buffer
	for _, l := range lines {
		buf.WriteString(l)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

func writeFile(t *testing.T, path string, data []byte) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func gzipBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	_, err := gw.Write(data)
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	return buf.Bytes()
}

type zipEntry struct {
	name string
	data []byte
}

func zipBytes(t *testing.T, entries ...zipEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.Create(e.name)
		require.NoError(t, err)
		if e.data != nil {
			_, err = w.Write(e.data)
			require.NoError(t, err)
		}
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// writeHadoopVInt mirrors WritableUtils.writeVLong.
func writeHadoopVInt(buf *bytes.Buffer, i int64) {
	if i >= -112 && i <= 127 {
		buf.WriteByte(byte(i))
		return
	}
	l := int64(-112)
	if i < 0 {
		i ^= -1
		l = -120
	}
	for tmp := i; tmp != 0; tmp >>= 8 {
		l--
	}
	buf.WriteByte(byte(l))
	if l < -120 {
		l = -(l + 120)
	} else {
		l = -(l + 112)
	}
	for idx := l; idx != 0; idx-- {
		shift := uint((idx - 1) * 8)
		buf.WriteByte(byte((i >> shift) & 0xff))
	}
}

func hadoopText(s string) []byte {
	var buf bytes.Buffer
	writeHadoopVInt(&buf, int64(len(s)))
	buf.WriteString(s)
	return buf.Bytes()
}

// sequenceFileBytes builds an uncompressed version 6 SequenceFile.
func sequenceFileBytes(keyClass, valueClass string, keys, values []string) []byte {
	var buf bytes.Buffer
	buf.WriteString("SEQ")
	buf.WriteByte(6)
	buf.Write(hadoopText(keyClass))
	buf.Write(hadoopText(valueClass))
	buf.WriteByte(0) // compressed
	buf.WriteByte(0) // block compressed
	_ = binary.Write(&buf, binary.BigEndian, int32(0))
	buf.Write([]byte("0123456789abcdef"))

	for i := range keys {
		k := hadoopText(keys[i])
		v := hadoopText(values[i])
		_ = binary.Write(&buf, binary.BigEndian, int32(len(k)+len(v)))
		_ = binary.Write(&buf, binary.BigEndian, int32(len(k)))
		buf.Write(k)
		buf.Write(v)
	}
	return buf.Bytes()
}

func textSequenceFile(keys, values []string) []byte {
	return sequenceFileBytes(TextWritableClass, TextWritableClass, keys, values)
}

// drain reads every record, checking the counter as it goes.
func drain(t *testing.T, r *RecordReader) []Record {
	t.Helper()
	var out []Record
	for {
		ok, err := r.Next()
		require.NoError(t, err)
		if !ok {
			return out
		}
		rec, present := r.Record()
		require.True(t, present)
		out = append(out, rec)
		require.Equal(t, int64(len(out)), r.NumRead())
	}
}

func valuesOf(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Value
	}
	return out
}
