// SPDX-FileCopyrightText: 2026 The memsnap authors
//
// SPDX-License-Identifier: MIT

package snapshot

import (
	"path/filepath"
	"strings"
)

// DeriveRoot computes the longest common ancestor directory of the given
// absolute paths, aligned at path element boundaries. For a single path its
// parent directory is the root. It returns [ErrNoPaths] for an empty set.
//
// The root is used purely for rebasing paths into the virtual filesystem,
// never for filesystem access.
func DeriveRoot(paths []string) (string, error) {
	if len(paths) == 0 {
		return "", ErrNoPaths
	}

	if len(paths) == 1 {
		return filepath.Dir(filepath.Clean(paths[0])), nil
	}

	separator := string(filepath.Separator)
	common := strings.Split(filepath.Clean(paths[0]), separator)

	for _, path := range paths[1:] {
		elements := strings.Split(filepath.Clean(path), separator)
		common = common[:commonLen(common, elements)]
	}

	root := strings.Join(common, separator)
	if root == "" {
		root = separator
	}

	return root, nil
}

func commonLen(left, right []string) int {
	limit := min(len(left), len(right))

	for idx := range limit {
		if left[idx] != right[idx] {
			return idx
		}
	}

	return limit
}

// VirtualPath rebases the given absolute path under "/" relative to the
// given root. The result is always slash separated and rooted at "/". The
// root itself maps to "/".
func VirtualPath(path, root string) string {
	cleaned := filepath.Clean(path)
	cleanedRoot := filepath.Clean(root)

	if cleaned == cleanedRoot {
		return "/"
	}

	// Strip the root only at an element boundary.
	prefix := cleanedRoot
	if prefix != string(filepath.Separator) {
		prefix += string(filepath.Separator)
	}

	cleaned = strings.TrimPrefix(cleaned, prefix)

	virtual := filepath.ToSlash(cleaned)
	if !strings.HasPrefix(virtual, "/") {
		virtual = "/" + virtual
	}

	return virtual
}
