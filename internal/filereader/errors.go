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
)

var (
	// ErrOpen marks failures while constructing a reader: missing or
	// unreadable paths and malformed archive, gzip or container headers.
	ErrOpen = errors.New("open failed")

	// ErrDecode marks failures while advancing: bad charset bytes, corrupt
	// compressed data, corrupt archive entries, malformed container records.
	ErrDecode = errors.New("decode failed")

	// ErrCharset is returned, wrapped in ErrOpen, for unknown charset names.
	ErrCharset = errors.New("unsupported charset")

	// ErrNoDFS is returned, wrapped in ErrOpen, when a distributed path is
	// opened without a distributed filesystem client.
	ErrNoDFS = errors.New("no distributed filesystem client")

	// ErrClosed is returned by Next after Close.
	ErrClosed = errors.New("reader is closed")
)

func openError(err error) error {
	if errors.Is(err, ErrOpen) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrOpen, err)
}

func decodeError(err error) error {
	if errors.Is(err, ErrDecode) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrDecode, err)
}
