// SPDX-FileCopyrightText: 2026 The memsnap authors
//
// SPDX-License-Identifier: MIT

// Package snapshot builds a virtual filesystem image from a set of
// selected real paths, writing only content whose fingerprint differs from
// the persisted write cache.
package snapshot

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/memsnap/memsnap/internal/virtfs"
	"github.com/memsnap/memsnap/internal/writecache"
)

// WriteSpec describes one snapshot pass.
type WriteSpec struct {
	// Paths is the set of absolute paths to snapshot.
	Paths []string

	// Root is the common ancestor the paths are rebased against, as
	// returned by [DeriveRoot].
	Root string

	// Cache decides which file contents are already represented correctly
	// in the prior image. It is mutated in place.
	Cache *writecache.Cache

	// Image is the prior image to update. If nil, a fresh empty image is
	// created.
	Image *virtfs.FS

	// Fsys is the filesystem the paths are read from. Absolute paths are
	// resolved relative to its root, so [os.DirFS]("/") reads the real
	// filesystem.
	Fsys fs.FS

	// Workers bounds the concurrent stat/read/fingerprint operations.
	// Zero or negative means [runtime.NumCPU].
	Workers int

	// KeepGoing records per-path stat/read failures in the result instead
	// of aborting the pass on the first one.
	KeepGoing bool
}

// Result reports what one snapshot pass did.
type Result struct {
	// Written counts content writes issued against the image.
	Written int

	// Skipped counts files whose fingerprint matched the cache.
	Skipped int

	// Dirs counts selected directories ensured in the image. Directory
	// creation is unconditional and never cache-checked.
	Dirs int

	// Failed holds the paths that could not be snapshotted, keyed by
	// their absolute path.
	Failed map[string]error
}

// readResult is the outcome of the concurrent stat/read/fingerprint phase
// for one path. Only the consuming goroutine touches image and cache.
type readResult struct {
	path        string
	virtualPath string
	dir         bool
	content     []byte
	fingerprint writecache.Fingerprint
	err         error
}

// Write runs one snapshot pass and returns the mutated image together with
// the pass result.
//
// Reads run concurrently on a bounded worker pool. All image and cache
// mutations are applied by a single goroutine, in the order the reads
// complete. The order across paths is not guaranteed, only the handling of
// each path is deterministic.
func Write(ctx context.Context, spec WriteSpec) (*virtfs.FS, *Result, error) {
	image := spec.Image
	if image == nil {
		image = virtfs.New()
	}

	workers := spec.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan readResult)

	go func() {
		defer close(results)

		readGroup := errgroup.Group{}
		readGroup.SetLimit(workers)

		for _, p := range spec.Paths {
			if ctx.Err() != nil {
				break
			}

			readGroup.Go(func() error {
				select {
				case results <- readPath(spec.Fsys, p, spec.Root):
				case <-ctx.Done():
				}

				return nil
			})
		}

		_ = readGroup.Wait()
	}()

	result := &Result{
		Failed: map[string]error{},
	}

	var failedErr error

	for res := range results {
		if failedErr != nil {
			continue // drain so the workers can finish
		}

		err := apply(image, spec.Cache, res, result)
		if err != nil {
			result.Failed[res.path] = err

			slog.Warn("Failed to snapshot path",
				slog.String("path", res.path),
				slog.Any("error", err))

			if !spec.KeepGoing {
				failedErr = fmt.Errorf("%w: %s", ErrPathFailed, res.path)

				cancel()
			}
		}
	}

	if failedErr != nil {
		return image, result, failedErr
	}

	if err := ctx.Err(); err != nil {
		return image, result, err //nolint:wrapcheck
	}

	return image, result, nil
}

// readPath stats the path and, for regular files, reads the content and
// computes its fingerprint. It only reads, never mutates shared state.
func readPath(fsys fs.FS, p, root string) readResult {
	res := readResult{
		path:        p,
		virtualPath: VirtualPath(p, root),
	}

	name := fsName(p)

	info, err := fs.Stat(fsys, name)
	if err != nil {
		res.err = err
		return res
	}

	if info.IsDir() {
		res.dir = true
		return res
	}

	content, err := fs.ReadFile(fsys, name)
	if err != nil {
		res.err = err
		return res
	}

	res.content = content
	res.fingerprint = writecache.Sum(content)

	return res
}

// apply issues the image mutation for one read result. Directories are
// created unconditionally, file content only when the cache disagrees with
// the fresh fingerprint.
func apply(
	image *virtfs.FS,
	cache *writecache.Cache,
	res readResult,
	result *Result,
) error {
	if res.err != nil {
		return res.err
	}

	if res.dir {
		err := image.MkdirAll(res.virtualPath)
		if err != nil {
			return err //nolint:wrapcheck
		}

		result.Dirs++

		return nil
	}

	if cached, exists := cache.Get(res.virtualPath); exists {
		if cached == res.fingerprint {
			result.Skipped++
			return nil
		}
	}

	err := image.MkdirAll(path.Dir(res.virtualPath))
	if err != nil {
		return err //nolint:wrapcheck
	}

	err = image.WriteFile(res.virtualPath, res.content)
	if err != nil {
		return err //nolint:wrapcheck
	}

	cache.Set(res.virtualPath, res.fingerprint)
	result.Written++

	return nil
}

// fsName converts an absolute path into an [fs.ValidPath] name relative to
// the filesystem root.
func fsName(p string) string {
	name := strings.TrimPrefix(path.Clean(p), "/")
	if name == "" {
		name = "."
	}

	return name
}
