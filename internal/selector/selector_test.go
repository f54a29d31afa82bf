// SPDX-FileCopyrightText: 2026 The memsnap authors
//
// SPDX-License-Identifier: MIT

package selector_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/memsnap/memsnap/internal/selector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeFiles(t *testing.T, names ...string) string {
	t.Helper()

	dir := t.TempDir()

	for _, name := range names {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(name), 0o600))
	}

	return dir
}

func TestSelectPrecedence(t *testing.T) {
	dir := writeFiles(t, "a.ts", "b.ts", "tty.ts")

	paths, err := selector.Select(t.Context(),
		[]string{filepath.Join(dir, "*.ts")},
		[]string{"tty.ts"})
	require.NoError(t, err)

	expected := []string{
		filepath.Join(dir, "a.ts"),
		filepath.Join(dir, "b.ts"),
	}
	assert.Equal(t, expected, paths)
}

func TestSelectReinclude(t *testing.T) {
	dir := writeFiles(t, "a.ts", "b.ts", "tty.ts")

	paths, err := selector.Select(t.Context(),
		[]string{filepath.Join(dir, "*.ts")},
		[]string{"*.ts", "!b.ts"})
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(dir, "b.ts")}, paths)
}

func TestSelectDeduplicates(t *testing.T) {
	dir := writeFiles(t, "src/index.js", "src/mods/x.js")

	paths, err := selector.Select(t.Context(),
		[]string{
			filepath.Join(dir, "src", "**"),
			filepath.Join(dir, "src", "index.js"),
		},
		nil)
	require.NoError(t, err)

	expected := []string{
		filepath.Join(dir, "src"),
		filepath.Join(dir, "src", "index.js"),
		filepath.Join(dir, "src", "mods"),
		filepath.Join(dir, "src", "mods", "x.js"),
	}
	assert.Equal(t, expected, paths)
}

func TestSelectNoMatches(t *testing.T) {
	dir := writeFiles(t, "a.ts")

	paths, err := selector.Select(t.Context(),
		[]string{filepath.Join(dir, "*.go")},
		nil)
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestSelectExcludeSubtree(t *testing.T) {
	dir := writeFiles(t, "src/index.js", "src/vendor/dep.js")

	paths, err := selector.Select(t.Context(),
		[]string{filepath.Join(dir, "src", "**")},
		[]string{"**/vendor/**", "**/vendor"})
	require.NoError(t, err)

	expected := []string{
		filepath.Join(dir, "src"),
		filepath.Join(dir, "src", "index.js"),
	}
	assert.Equal(t, expected, paths)
}

func TestSelectBadPattern(t *testing.T) {
	_, err := selector.Select(t.Context(), []string{"src/["}, nil)
	require.ErrorIs(t, err, doublestar.ErrBadPattern)

	_, err = selector.Select(t.Context(), []string{"src/**"}, []string{"["})
	require.ErrorIs(t, err, doublestar.ErrBadPattern)
}
