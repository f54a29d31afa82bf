// SPDX-FileCopyrightText: 2026 The memsnap authors
//
// SPDX-License-Identifier: MIT

// Package selector expands inclusion and exclusion glob patterns against
// the real filesystem into a deduplicated set of absolute paths.
package selector

import (
	"context"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"
)

// Select expands all include patterns concurrently, applies the exclude
// patterns to the union of their matches and returns the remaining paths as
// a sorted, deduplicated list of absolute paths.
//
// Include patterns use shell glob semantics including "**". Exclude
// patterns follow gitignore-style precedence: they are evaluated in order,
// the last matching pattern decides, and a leading "!" re-includes. An
// exclude pattern without a path separator matches against the base name.
//
// Patterns that match nothing are not an error. An empty result is valid
// and means the build has nothing to snapshot.
func Select(ctx context.Context, includes, excludes []string) ([]string, error) {
	for _, pattern := range excludes {
		trimmed := strings.TrimPrefix(pattern, "!")
		if !doublestar.ValidatePattern(trimmed) {
			return nil, fmt.Errorf("exclude pattern %q: %w",
				pattern, doublestar.ErrBadPattern)
		}
	}

	matches := make([][]string, len(includes))
	eg, ctx := errgroup.WithContext(ctx)

	for idx, pattern := range includes {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err //nolint:wrapcheck
			}

			found, err := doublestar.FilepathGlob(pattern)
			if err != nil {
				return fmt.Errorf("include pattern %q: %w", pattern, err)
			}

			matches[idx] = found

			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err //nolint:wrapcheck
	}

	pathSet := make(map[string]struct{})

	for _, found := range matches {
		for _, match := range found {
			if excluded(excludes, match) {
				continue
			}

			absPath, err := filepath.Abs(match)
			if err != nil {
				return nil, fmt.Errorf("absolute path for %s: %w", match, err)
			}

			pathSet[absPath] = struct{}{}
		}
	}

	return slices.Sorted(maps.Keys(pathSet)), nil
}

// excluded reports whether the given path is dropped by the exclude
// patterns. The last matching pattern wins, so a later "!" pattern can
// re-include a path a previous pattern dropped.
func excluded(excludes []string, path string) bool {
	matched := false

	for _, pattern := range excludes {
		negate := strings.HasPrefix(pattern, "!")
		trimmed := strings.TrimPrefix(pattern, "!")

		if matchPattern(trimmed, path) {
			matched = !negate
		}
	}

	return matched
}

func matchPattern(pattern, path string) bool {
	normalized := filepath.ToSlash(path)

	// Patterns are validated upfront, so Match cannot fail here.
	if ok, _ := doublestar.Match(pattern, normalized); ok {
		return true
	}

	// A bare pattern without a separator matches the base name, like a
	// gitignore pattern does.
	if !strings.Contains(pattern, "/") {
		ok, _ := doublestar.Match(pattern, filepath.Base(path))
		return ok
	}

	return false
}
