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

package cmd

import (
	"context"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchSignalsFirstSignalCancels(t *testing.T) {
	sigs := make(chan os.Signal, 2)
	exits := make(chan int, 1)
	ctx, stop := watchSignals(context.Background(), sigs, func(code int) { exits <- code })
	defer stop()

	sigs <- syscall.SIGTERM
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("context was not cancelled by the first signal")
	}
	assert.Empty(t, exits)

	sigs <- os.Interrupt
	select {
	case code := <-exits:
		assert.Equal(t, exitCodeInterrupted, code)
	case <-time.After(5 * time.Second):
		t.Fatal("second signal did not exit")
	}
}

func TestWatchSignalsStop(t *testing.T) {
	sigs := make(chan os.Signal, 2)
	exits := make(chan int, 2)
	ctx, stop := watchSignals(context.Background(), sigs, func(code int) { exits <- code })

	stop()
	stop()
	require.ErrorIs(t, ctx.Err(), context.Canceled)

	sigs <- os.Interrupt
	sigs <- os.Interrupt
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, exits)
}
