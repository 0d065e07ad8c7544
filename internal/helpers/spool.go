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
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// SpoolPrefix names the temp files that hold spooled copies of
// distributed archives.
const SpoolPrefix = "lakereader-"

// CleanStaleSpool removes spool files in dir older than maxAge, left behind
// by processes that did not get to close their readers. An empty dir means
// the OS temp dir. It returns how many files were removed.
func CleanStaleSpool(dir string, maxAge time.Duration) int {
	if dir == "" {
		dir = os.TempDir()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		slog.Debug("Failed to read spool dir (ignoring)", slog.String("path", dir), slog.Any("error", err))
		return 0
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), SpoolPrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := os.Remove(path); err != nil {
			slog.Debug("Failed to remove stale spool file", slog.String("path", path), slog.Any("error", err))
			continue
		}
		removed++
	}
	return removed
}
