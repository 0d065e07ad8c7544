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
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// lookupCharset resolves an IANA charset name. A nil encoding means the
// input is UTF-8 and is passed through with strict validation.
func lookupCharset(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return nil, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, openError(fmt.Errorf("%w %q", ErrCharset, name))
	}
	if enc == unicode.UTF8 {
		return nil, nil
	}
	return enc, nil
}

// charsetReader converts r to UTF-8. It reports whether the caller still
// has to validate the bytes it reads; when it does not, unmappable input
// shows up as utf8.RuneError in the output.
func charsetReader(r io.Reader, name string) (io.Reader, bool, error) {
	enc, err := lookupCharset(name)
	if err != nil {
		return nil, false, err
	}
	if enc == nil {
		return r, true, nil
	}
	return transform.NewReader(r, enc.NewDecoder()), false, nil
}
