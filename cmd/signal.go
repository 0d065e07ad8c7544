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
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// exitCodeInterrupted is the shell convention for death by SIGINT.
const exitCodeInterrupted = 130

// handleSignals returns a context that is cancelled on the first SIGINT or
// SIGTERM, so reading stops between records. A second signal exits at once.
func handleSignals(ctx context.Context) (context.Context, context.CancelFunc) {
	sigs := make(chan os.Signal, 2)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	ctx, cancel := watchSignals(ctx, sigs, os.Exit)
	return ctx, func() {
		signal.Stop(sigs)
		cancel()
	}
}

func watchSignals(parent context.Context, sigs <-chan os.Signal, exit func(int)) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	stopped := make(chan struct{})

	// A stop that races with a signal wins.
	isStopped := func() bool {
		select {
		case <-stopped:
			return true
		default:
			return false
		}
	}

	go func() {
		select {
		case sig := <-sigs:
			if isStopped() {
				return
			}
			slog.Info("Stopping after the current record", slog.String("signal", sig.String()))
			cancel()
		case <-stopped:
			return
		}
		select {
		case sig := <-sigs:
			if isStopped() {
				return
			}
			slog.Warn("Exiting without cleanup", slog.String("signal", sig.String()))
			exit(exitCodeInterrupted)
		case <-stopped:
		}
	}()

	var once sync.Once
	return ctx, func() {
		once.Do(func() { close(stopped) })
		cancel()
	}
}
