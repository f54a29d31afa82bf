// SPDX-FileCopyrightText: 2026 The memsnap authors
//
// SPDX-License-Identifier: MIT

package virtfs

import (
	"io/fs"
	"iter"
	"path"
	"strings"
)

// FS represents a simple [fs.FS] that supports directories and bytes-backed
// regular files.
//
// Regular files are created or overwritten with [FS.WriteFile]. Use
// [FS.Mkdir] or [FS.MkdirAll] to create any required directories
// beforehand. Names are slash-separated; a leading slash is accepted and
// stripped, so virtual paths rooted at "/" address the same files as
// [fs.ValidPath] names.
type FS struct {
	root directory
}

var _ fs.FS = (*FS)(nil)

// New creates a new empty [FS].
func New() *FS {
	return &FS{
		root: make(directory),
	}
}

// Open opens the named file.
//
// It returns a [PathError] in case of errors.
func (fsys *FS) Open(name string) (fs.File, error) {
	file, err := fsys.open(name)
	if err != nil {
		return nil, &PathError{
			Op:   "open",
			Path: name,
			Err:  err,
		}
	}

	return file, nil
}

// ReadFile returns the complete content of the named regular file.
//
// It returns a [PathError] in case of errors.
func (fsys *FS) ReadFile(name string) ([]byte, error) {
	found, err := fsys.find(clean(name))
	if err != nil {
		return nil, &PathError{
			Op:   "read",
			Path: name,
			Err:  err,
		}
	}

	regular, isRegular := found.(regularFile)
	if !isRegular {
		return nil, &PathError{
			Op:   "read",
			Path: name,
			Err:  ErrFileIsDir,
		}
	}

	content := make([]byte, len(regular))
	copy(content, regular)

	return content, nil
}

// Lstat returns information about the file with the given name.
//
// It returns a [PathError] in case of errors.
func (fsys *FS) Lstat(name string) (fs.FileInfo, error) {
	file, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return file.Stat() //nolint:wrapcheck
}

// Mkdir creates a new directory with the given name. The parent directory
// must exist.
//
// It returns a [PathError] in case of errors.
func (fsys *FS) Mkdir(name string) error {
	parentName, dirName := path.Split(clean(name))

	parent, err := fsys.subDir(clean(parentName))
	if err != nil {
		return &PathError{
			Op:   "mkdir",
			Path: name,
			Err:  err,
		}
	}

	err = parent.add(dirName, &directory{})
	if err != nil {
		return &PathError{
			Op:   "mkdir",
			Path: name,
			Err:  err,
		}
	}

	return nil
}

// MkdirAll creates a directory with the given name along with all necessary
// parents.
//
// It returns a [PathError] in case of errors. If the directory exists
// already, it does nothing and returns nil.
func (fsys *FS) MkdirAll(name string) error {
	cleaned := clean(name)

	found, err := fsys.find(cleaned)
	if err == nil {
		if _, isDir := found.(*directory); isDir {
			return nil
		}

		return &PathError{
			Op:   "mkdir",
			Path: name,
			Err:  ErrFileNotDir,
		}
	}

	parent := path.Dir(cleaned)
	if parent != cleaned {
		err = fsys.MkdirAll(parent)
		if err != nil {
			return err
		}
	}

	return fsys.Mkdir(name)
}

// WriteFile creates a regular file with the given name holding the given
// content. An existing regular file with the same name is overwritten. The
// parent directory must exist.
//
// It returns a [PathError] in case of errors.
func (fsys *FS) WriteFile(name string, content []byte) error {
	owned := make([]byte, len(content))
	copy(owned, content)

	dirName, fileName := path.Split(clean(name))

	parent, err := fsys.subDir(clean(dirName))
	if err != nil {
		return &PathError{
			Op:   "write",
			Path: name,
			Err:  err,
		}
	}

	err = parent.add(fileName, regularFile(owned))
	if err != nil {
		return &PathError{
			Op:   "write",
			Path: name,
			Err:  err,
		}
	}

	return nil
}

// All returns an iterator over all files in the filesystem, depth-first
// with the entries of each directory in lexical order. The root directory
// itself is not yielded. Yielded names are [fs.ValidPath] names.
func (fsys *FS) All() iter.Seq2[string, fs.DirEntry] {
	return func(yield func(string, fs.DirEntry) bool) {
		fsys.root.all(".", yield)
	}
}

func (d *directory) all(base string, yield func(string, fs.DirEntry) bool) bool {
	for _, entry := range d.entries() {
		name := entry.Name()
		if base != "." {
			name = path.Join(base, name)
		}

		if !yield(name, entry) {
			return false
		}

		dEntry, isDirEntry := entry.(*dirEntry)
		if !isDirEntry {
			continue
		}

		if sub, isDir := dEntry.file.(*directory); isDir {
			if !sub.all(name, yield) {
				return false
			}
		}
	}

	return true
}

func (fsys *FS) subDir(name string) (*directory, error) {
	found, err := fsys.find(name)
	if err != nil {
		return nil, err
	}

	dir, isDir := found.(*directory)
	if !isDir {
		return nil, ErrFileNotDir
	}

	return dir, nil
}

func (fsys *FS) open(name string) (fs.File, error) {
	found, err := fsys.find(clean(name))
	if err != nil {
		return nil, err
	}

	return found.open(dirEntry{clean(name), found})
}

//nolint:ireturn
func (fsys *FS) find(name string) (file, error) {
	var found file = &fsys.root

	if name == "" || name == "." {
		return found, nil
	}

	if !fs.ValidPath(name) {
		return nil, ErrFileInvalid
	}

	for element := range strings.SplitSeq(name, "/") {
		dir, isDir := found.(*directory)
		if !isDir {
			return nil, ErrFileNotExist
		}

		next, exists := (*dir)[element]
		if !exists {
			return nil, ErrFileNotExist
		}

		found = next
	}

	return found, nil
}

func clean(name string) string {
	cleaned := path.Clean(name)
	return strings.TrimPrefix(cleaned, "/")
}
