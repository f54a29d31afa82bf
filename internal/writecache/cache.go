// SPDX-FileCopyrightText: 2026 The memsnap authors
//
// SPDX-License-Identifier: MIT

// Package writecache persists content fingerprints of written files across
// builds. It is what makes repeated builds incremental: a virtual path
// whose freshly computed fingerprint matches the cached one is already
// represented correctly in the previously emitted image and does not need
// to be written again.
//
// Entries are never pruned. A path that drops out of the selection keeps
// its cache entry, matching the additive snapshot policy of the image
// itself.
package writecache

import (
	"errors"
	"io/fs"
	"log/slog"
	"maps"
	"slices"

	"github.com/function61/gokit/jsonfile"
)

// FormatVersion is the version tag of the persisted cache file. A cache
// file with a different version is discarded on load instead of silently
// corrupting incrementality decisions.
const FormatVersion = 1

// Cache maps virtual paths to the [Fingerprint] of the content that was
// last written for them. Construct with [New] or [Load]. It is an explicit
// value owned by the caller and is not safe for concurrent mutation.
type Cache struct {
	entries map[string]Fingerprint
}

// New creates a new empty [Cache].
func New() *Cache {
	return &Cache{
		entries: make(map[string]Fingerprint),
	}
}

// Get returns the fingerprint stored for the given virtual path.
func (c *Cache) Get(virtualPath string) (Fingerprint, bool) {
	fingerprint, exists := c.entries[virtualPath]
	return fingerprint, exists
}

// Set stores the fingerprint for the given virtual path, replacing any
// previous one.
func (c *Cache) Set(virtualPath string, fingerprint Fingerprint) {
	c.entries[virtualPath] = fingerprint
}

// Len returns the number of stored entries.
func (c *Cache) Len() int {
	return len(c.entries)
}

// cacheFile is the persisted shape: a version tag and a flat list of
// [virtualPath, fingerprint] pairs.
type cacheFile struct {
	Version int         `json:"version"`
	Entries [][2]string `json:"entries"`
}

// Load reads a persisted cache from the given file path.
//
// Any failure degrades to an empty cache: the build then runs as a full
// rebuild instead of an incremental one. Failures other than a missing
// file are logged so silently degraded incrementality stays observable.
func Load(path string) *Cache {
	cache := New()

	var file cacheFile

	err := jsonfile.Read(path, &file, true)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("Discarding unreadable write cache",
				slog.String("path", path),
				slog.Any("error", err))
		}

		return cache
	}

	if file.Version != FormatVersion {
		slog.Warn("Discarding write cache with unsupported version",
			slog.String("path", path),
			slog.Int("version", file.Version))

		return cache
	}

	for _, entry := range file.Entries {
		cache.entries[entry[0]] = Fingerprint(entry[1])
	}

	return cache
}

// Persist writes the cache to the given file path, with entries in lexical
// order of their virtual paths so repeated builds produce identical files.
//
// Persistence failures are non-fatal by contract. The caller logs them and
// still emits the artifact, at the cost of losing incrementality on the
// next build.
func (c *Cache) Persist(path string) error {
	file := cacheFile{
		Version: FormatVersion,
		Entries: make([][2]string, 0, len(c.entries)),
	}

	for _, virtualPath := range slices.Sorted(maps.Keys(c.entries)) {
		file.Entries = append(file.Entries, [2]string{
			virtualPath,
			string(c.entries[virtualPath]),
		})
	}

	//nolint:wrapcheck
	return jsonfile.Write(path, &file)
}
