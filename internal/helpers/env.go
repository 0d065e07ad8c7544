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
	"os"
	"strings"
)

// EnvEnabled reports whether any of the named environment variables holds
// a true value ("true", "1", "yes", "on", "enable", "enabled", any case).
// Unset, empty and false values ("false", "0", "no", "off", "disable",
// "disabled") do not enable; any other non-empty value does.
func EnvEnabled(names ...string) bool {
	for _, name := range names {
		if envBool(os.Getenv(name)) {
			return true
		}
	}
	return false
}

func envBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "false", "0", "no", "off", "disable", "disabled":
		return false
	default:
		return true
	}
}
