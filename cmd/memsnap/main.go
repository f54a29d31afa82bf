// SPDX-FileCopyrightText: 2026 The memsnap authors
//
// SPDX-License-Identifier: MIT

// Command memsnap builds a compressed virtual filesystem snapshot of the
// paths selected by glob patterns, reusing a persisted write cache and the
// previously emitted artifact to keep repeated builds incremental.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/memsnap/memsnap/internal/cmd"
)

func main() {
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)

	rc := cmd.Run(ctx, os.Args, os.Stderr)

	cancel()
	os.Exit(rc)
}
