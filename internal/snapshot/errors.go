// SPDX-FileCopyrightText: 2026 The memsnap authors
//
// SPDX-License-Identifier: MIT

package snapshot

import "errors"

var (
	// ErrNoPaths is returned if a root should be derived from an empty
	// path set.
	ErrNoPaths = errors.New("no paths to derive root from")

	// ErrPathFailed is returned by [Write] if a path could not be
	// snapshotted and the spec does not allow to keep going.
	ErrPathFailed = errors.New("path failed")
)
