// SPDX-FileCopyrightText: 2026 The memsnap authors
//
// SPDX-License-Identifier: MIT

package artifact

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/memsnap/memsnap/internal/virtfs"
)

// ErrUnsupportedEntry is returned if a serialized image contains an entry
// type the image model does not have.
var ErrUnsupportedEntry = errors.New("unsupported archive entry")

// LoadPrior reconstructs the image from a previously emitted artifact at
// the given path.
//
// Any failure, a missing file as well as corrupt compression or corrupt
// serialization, means there is no prior image to build on: the build then
// starts from a fresh empty image. Failures other than a missing file are
// logged, they cost the incremental fast path but are never fatal.
func LoadPrior(path string) *virtfs.FS {
	file, err := os.Open(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("Ignoring unreadable prior artifact",
				slog.String("path", path),
				slog.Any("error", err))
		}

		return nil
	}
	defer file.Close()

	fsys, err := Decode(file)
	if err != nil {
		slog.Warn("Ignoring corrupt prior artifact",
			slog.String("path", path),
			slog.Any("error", err))

		return nil
	}

	return fsys
}

// Write finalizes the image into the artifact file at the given path,
// creating the parent directory as needed.
//
// The artifact is written to a temporary file first and moved into place,
// so a crashed build never leaves a half written artifact to be picked up
// as prior image by the next build.
func Write(path string, fsys *virtfs.FS) error {
	dir := filepath.Dir(path)

	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	file, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("create artifact file: %w", err)
	}

	err = Encode(file, fsys)
	if err != nil {
		_ = file.Close()
		_ = os.Remove(file.Name())

		return fmt.Errorf("encode artifact: %w", err)
	}

	err = file.Close()
	if err != nil {
		_ = os.Remove(file.Name())

		return fmt.Errorf("close artifact file: %w", err)
	}

	err = os.Rename(file.Name(), path)
	if err != nil {
		_ = os.Remove(file.Name())

		return fmt.Errorf("move artifact into place: %w", err)
	}

	return nil
}
