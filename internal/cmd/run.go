// SPDX-FileCopyrightText: 2026 The memsnap authors
//
// SPDX-License-Identifier: MIT

// Package cmd implements the build driver CLI. It wires pattern selection,
// root derivation, the write cache, the snapshot writer and the artifact
// codec into one build pass.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/memsnap/memsnap/internal/artifact"
	"github.com/memsnap/memsnap/internal/selector"
	"github.com/memsnap/memsnap/internal/snapshot"
	"github.com/memsnap/memsnap/internal/writecache"
)

// Run is the main entry point for the CLI command.
func Run(ctx context.Context, args []string, stderr io.Writer) int {
	cfg, err := parseArgs(args, stderr)
	if err != nil {
		// Parse errors and usage are already printed by the flag set.
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}

		return -1
	}

	setupLogging(stderr, cfg.debug)

	err = run(ctx, cfg)
	if err != nil {
		slog.Error(err.Error())
		return 1
	}

	return 0
}

func run(ctx context.Context, cfg *config) error {
	paths, err := selector.Select(ctx, cfg.includes, cfg.excludes)
	if err != nil {
		return fmt.Errorf("select paths: %w", err)
	}

	// An empty selection is a valid no-op build: no artifact is emitted
	// and the cache file is left untouched.
	if len(paths) == 0 {
		slog.Info("No paths selected, not producing an artifact")
		return nil
	}

	root, err := snapshot.DeriveRoot(paths)
	if err != nil {
		return fmt.Errorf("derive root: %w", err)
	}

	slog.Debug("Derived common root",
		slog.String("root", root),
		slog.Int("paths", len(paths)))

	cachePath := filepath.Join(cfg.cacheDir, cacheFileName)
	cache := writecache.Load(cachePath)

	artifactPath := filepath.Join(cfg.outputDir, cfg.artifactName)
	prior := artifact.LoadPrior(artifactPath)

	if prior == nil {
		slog.Debug("No prior artifact, building fresh image")
	}

	image, result, writeErr := snapshot.Write(ctx, snapshot.WriteSpec{
		Paths:     paths,
		Root:      root,
		Cache:     cache,
		Image:     prior,
		Fsys:      os.DirFS("/"),
		Workers:   cfg.jobs,
		KeepGoing: cfg.keepGoing,
	})

	// The cache is persisted even if the pass failed or the artifact
	// cannot be finalized. Persistence failures themselves cost only the
	// incrementality of the next build, never this build's artifact.
	persistCache(cache, cfg.cacheDir, cachePath)

	if writeErr != nil {
		return fmt.Errorf("snapshot: %w", writeErr)
	}

	err = artifact.Write(artifactPath, image)
	if err != nil {
		return fmt.Errorf("finalize artifact: %w", err)
	}

	slog.Info("Artifact written",
		slog.String("path", artifactPath),
		slog.Int("written", result.Written),
		slog.Int("skipped", result.Skipped),
		slog.Int("dirs", result.Dirs),
		slog.Int("failed", len(result.Failed)))

	return nil
}

func persistCache(cache *writecache.Cache, dir, path string) {
	err := os.MkdirAll(dir, 0o755)
	if err == nil {
		err = cache.Persist(path)
	}

	if err != nil {
		slog.Error("Failed to persist write cache, next build is a full"+
			" rebuild",
			slog.String("path", path),
			slog.Any("error", err))
	}
}
