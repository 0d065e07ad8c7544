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

// Package filereader iterates records stored as plain text, gzip-compressed
// text, zip archives of text parts, or Hadoop SequenceFiles, on the local
// filesystem or on a distributed filesystem.
//
// # Overview
//
// A RecordReader owns exactly one Decoder, chosen once when it is opened:
//
//	type Decoder interface {
//	    Advance() (bool, error)  // false, nil once exhausted
//	    Key() string             // "" for text formats
//	    Value() string
//	    Close() error
//	}
//
// The encoding comes from the path suffix unless Options.Encoding overrides
// it: ".gz" is gzip text, ".zip" is a zip archive, ".sf" is a SequenceFile,
// anything else is plain text. Paths under "/hdfs/" or using the "dfs://" or
// "hdfs://" schemes are opened through Options.DFS; all others locally.
//
// Example usage:
//
//	reader, err := filereader.Open(ctx, "/data/corpus.txt.gz", filereader.Options{Charset: "UTF-8"})
//	if err != nil {
//	    return err
//	}
//	defer reader.Close()
//
//	for {
//	    ok, err := reader.Next()
//	    if err != nil {
//	        return err
//	    }
//	    if !ok {
//	        break
//	    }
//	    fmt.Println(reader.NumRead(), reader.Value())
//	}
//
// # Format Decoders
//
//   - PlainTextDecoder: one record per line, "\n" or "\r\n" stripped
//   - GzipTextDecoder: the same lines after gzip decompression
//   - ZipTextDecoder: the lines of every archive entry, entries in stored
//     order, presented as one stream
//   - SequenceFileDecoder: Text/Text key value pairs in stored order
//   - SequentialDecoder: concatenates decoders, used for SequenceFile part
//     directories
//
// # Errors
//
// Open failures wrap ErrOpen, failures while advancing wrap ErrDecode.
// Exhaustion is not an error. Nothing is retried.
//
// # Resource Management
//
//   - Readers and decoders must be closed via Close(); Close is idempotent
//   - Decoders own the streams handed to them, even when construction fails
//   - Distributed zip archives that cannot be read at random offsets are
//     downloaded (clients implementing dfs.Downloader) or spooled to a temp
//     file that is removed on Close
package filereader
