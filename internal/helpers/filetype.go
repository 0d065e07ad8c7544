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

package helpers

import (
	"fmt"
	"strings"
)

// Encoding identifies how the bytes of a record file are stored.
type Encoding int

const (
	// EncodingAuto asks the reader to classify the path itself.
	EncodingAuto Encoding = iota
	EncodingPlainText
	EncodingGzippedText
	EncodingZippedText
	EncodingContainer
)

const (
	GzipSuffix      = ".gz"
	ZipSuffix       = ".zip"
	ContainerSuffix = ".sf"
)

func (e Encoding) String() string {
	switch e {
	case EncodingAuto:
		return "auto"
	case EncodingPlainText:
		return "plain"
	case EncodingGzippedText:
		return "gzip"
	case EncodingZippedText:
		return "zip"
	case EncodingContainer:
		return "sequencefile"
	default:
		return fmt.Sprintf("encoding(%d)", int(e))
	}
}

// ParseEncoding maps a user supplied encoding name onto an Encoding.
// The empty string is treated as "auto".
func ParseEncoding(name string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return EncodingAuto, nil
	case "plain", "text", "txt":
		return EncodingPlainText, nil
	case "gzip", "gz":
		return EncodingGzippedText, nil
	case "zip":
		return EncodingZippedText, nil
	case "sequencefile", "sf", "container":
		return EncodingContainer, nil
	default:
		return EncodingAuto, fmt.Errorf("unknown encoding %q", name)
	}
}

// ClassifyEncoding decides the encoding of a file from its suffix alone.
// Anything that is not gzip, zip or a sequence file is plain text.
func ClassifyEncoding(p string) Encoding {
	switch {
	case strings.HasSuffix(p, GzipSuffix):
		return EncodingGzippedText
	case strings.HasSuffix(p, ZipSuffix):
		return EncodingZippedText
	case strings.HasSuffix(p, ContainerSuffix):
		return EncodingContainer
	default:
		return EncodingPlainText
	}
}

// Location says which filesystem a path resolves against.
type Location int

const (
	LocationLocal Location = iota
	LocationDistributed
)

const (
	DistributedMountPrefix = "/hdfs/"
	DFSScheme              = "dfs://"
	HDFSScheme             = "hdfs://"
)

func (l Location) String() string {
	if l == LocationDistributed {
		return "distributed"
	}
	return "local"
}

// ClassifyLocation looks only at the textual prefix of p.
func ClassifyLocation(p string) Location {
	if strings.HasPrefix(p, DistributedMountPrefix) ||
		strings.HasPrefix(p, DFSScheme) ||
		strings.HasPrefix(p, HDFSScheme) {
		return LocationDistributed
	}
	return LocationLocal
}
