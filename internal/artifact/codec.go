// SPDX-FileCopyrightText: 2026 The memsnap authors
//
// SPDX-License-Identifier: MIT

// Package artifact converts a virtual filesystem image to and from the
// compressed byte artifact that a build emits.
//
// The serialized form is a CPIO archive of the image, the compression is
// gzip. Decompression followed by deserialization reconstructs an image
// equal to the original, so a prior artifact can seed the next incremental
// build.
package artifact

import (
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/cavaliergopher/cpio"
	"github.com/klauspost/compress/gzip"

	"github.com/memsnap/memsnap/internal/virtfs"
)

const numLinks = 2

// Encode serializes the given image and writes it gzip compressed to the
// given writer.
func Encode(w io.Writer, fsys *virtfs.FS) error {
	gzipWriter := gzip.NewWriter(w)
	cpioWriter := cpio.NewWriter(gzipWriter)

	for name, entry := range fsys.All() {
		var err error
		if entry.IsDir() {
			err = writeDirectory(cpioWriter, name)
		} else {
			err = writeRegular(cpioWriter, fsys, name)
		}

		if err != nil {
			return err
		}
	}

	if err := cpioWriter.Close(); err != nil {
		return fmt.Errorf("close archive: %w", err)
	}

	if err := gzipWriter.Close(); err != nil {
		return fmt.Errorf("close compressor: %w", err)
	}

	return nil
}

// Decode reads a gzip compressed serialized image from the given reader
// and reconstructs the image.
func Decode(r io.Reader) (*virtfs.FS, error) {
	gzipReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("open compressed image: %w", err)
	}
	defer gzipReader.Close()

	fsys := virtfs.New()
	cpioReader := cpio.NewReader(gzipReader)

	for {
		header, err := cpioReader.Next()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("read archive: %w", err)
		}

		err = restore(fsys, cpioReader, header)
		if err != nil {
			return nil, err
		}
	}

	return fsys, nil
}

func writeDirectory(w *cpio.Writer, name string) error {
	header := &cpio.Header{
		Name:  name,
		Mode:  cpio.TypeDir | cpio.ModePerm,
		Links: numLinks,
	}

	if err := w.WriteHeader(header); err != nil {
		return fmt.Errorf("write header for %s: %w", name, err)
	}

	return nil
}

func writeRegular(w *cpio.Writer, fsys *virtfs.FS, name string) error {
	content, err := fsys.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}

	header := &cpio.Header{
		Name: name,
		Mode: cpio.TypeReg | cpio.ModePerm,
		Size: int64(len(content)),
	}

	if err := w.WriteHeader(header); err != nil {
		return fmt.Errorf("write header for %s: %w", name, err)
	}

	if _, err := w.Write(content); err != nil {
		return fmt.Errorf("write body for %s: %w", name, err)
	}

	return nil
}

func restore(fsys *virtfs.FS, r *cpio.Reader, header *cpio.Header) error {
	info := header.FileInfo()

	switch {
	case info.IsDir():
		err := fsys.MkdirAll(header.Name)
		if err != nil {
			return fmt.Errorf("restore dir %s: %w", header.Name, err)
		}
	case info.Mode().IsRegular():
		content, err := io.ReadAll(r)
		if err != nil {
			return fmt.Errorf("read body for %s: %w", header.Name, err)
		}

		err = fsys.MkdirAll(path.Dir(header.Name))
		if err != nil {
			return fmt.Errorf("restore parent for %s: %w", header.Name, err)
		}

		err = fsys.WriteFile(header.Name, content)
		if err != nil {
			return fmt.Errorf("restore file %s: %w", header.Name, err)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedEntry, header.Name)
	}

	return nil
}
