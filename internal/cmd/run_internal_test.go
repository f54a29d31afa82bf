// SPDX-FileCopyrightText: 2026 The memsnap authors
//
// SPDX-License-Identifier: MIT

package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/memsnap/memsnap/internal/artifact"
	"github.com/memsnap/memsnap/internal/writecache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildConfig(t *testing.T, includes ...string) *config {
	t.Helper()

	workDir := t.TempDir()

	return &config{
		includes:     stringList(includes),
		artifactName: "mem.zip",
		cacheDir:     filepath.Join(workDir, "cache"),
		outputDir:    filepath.Join(workDir, "out"),
		keepGoing:    true,
	}
}

func writeSourceTree(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src", "mods"), 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "src", "index.js"), []byte("A"), 0o600))
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "src", "mods", "x.js"), []byte("B"), 0o600))

	return dir
}

func TestRunBuildPass(t *testing.T) {
	dir := writeSourceTree(t)
	cfg := buildConfig(t, filepath.Join(dir, "src", "**"))

	require.NoError(t, run(t.Context(), cfg))

	artifactPath := filepath.Join(cfg.outputDir, "mem.zip")

	image := artifact.LoadPrior(artifactPath)
	require.NotNil(t, image)

	content, err := image.ReadFile("index.js")
	require.NoError(t, err)
	assert.Equal(t, []byte("A"), content)

	content, err = image.ReadFile("mods/x.js")
	require.NoError(t, err)
	assert.Equal(t, []byte("B"), content)

	cache := writecache.Load(filepath.Join(cfg.cacheDir, cacheFileName))
	assert.Equal(t, 2, cache.Len())

	fingerprint, exists := cache.Get("/index.js")
	assert.True(t, exists)
	assert.Equal(t, writecache.Sum([]byte("A")), fingerprint)
}

func TestRunIncrementalRebuild(t *testing.T) {
	dir := writeSourceTree(t)
	cfg := buildConfig(t, filepath.Join(dir, "src", "**"))

	require.NoError(t, run(t.Context(), cfg))

	// Change one file between builds. The emitted artifact must pick up
	// the new content, the cache entry of the other file stays unchanged.
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "src", "index.js"), []byte("A2"), 0o600))

	require.NoError(t, run(t.Context(), cfg))

	image := artifact.LoadPrior(filepath.Join(cfg.outputDir, "mem.zip"))
	require.NotNil(t, image)

	content, err := image.ReadFile("index.js")
	require.NoError(t, err)
	assert.Equal(t, []byte("A2"), content)

	cache := writecache.Load(filepath.Join(cfg.cacheDir, cacheFileName))

	fingerprint, exists := cache.Get("/index.js")
	assert.True(t, exists)
	assert.Equal(t, writecache.Sum([]byte("A2")), fingerprint)

	fingerprint, exists = cache.Get("/mods/x.js")
	assert.True(t, exists)
	assert.Equal(t, writecache.Sum([]byte("B")), fingerprint)
}

func TestRunAdditiveSnapshot(t *testing.T) {
	dir := writeSourceTree(t)
	cfg := buildConfig(t, filepath.Join(dir, "src", "**"))

	require.NoError(t, run(t.Context(), cfg))

	// Narrow the selection. Paths from the previous build stay in the
	// image, nothing is pruned.
	cfg.includes = stringList{filepath.Join(dir, "src", "index.js")}

	require.NoError(t, run(t.Context(), cfg))

	image := artifact.LoadPrior(filepath.Join(cfg.outputDir, "mem.zip"))
	require.NotNil(t, image)

	content, err := image.ReadFile("mods/x.js")
	require.NoError(t, err)
	assert.Equal(t, []byte("B"), content)
}

func TestRunEmptySelection(t *testing.T) {
	dir := writeSourceTree(t)
	cfg := buildConfig(t, filepath.Join(dir, "src", "*.missing"))

	require.NoError(t, run(t.Context(), cfg))

	// No artifact is produced and the cache file is not touched.
	_, err := os.Stat(filepath.Join(cfg.outputDir, "mem.zip"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = os.Stat(filepath.Join(cfg.cacheDir, cacheFileName))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestRunExcludes(t *testing.T) {
	dir := writeSourceTree(t)
	cfg := buildConfig(t, filepath.Join(dir, "src", "**"))
	cfg.excludes = stringList{"x.js"}

	require.NoError(t, run(t.Context(), cfg))

	image := artifact.LoadPrior(filepath.Join(cfg.outputDir, "mem.zip"))
	require.NotNil(t, image)

	_, err := image.ReadFile("mods/x.js")
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = image.ReadFile("index.js")
	require.NoError(t, err)
}
