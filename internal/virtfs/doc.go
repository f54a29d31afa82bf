// SPDX-FileCopyrightText: 2026 The memsnap authors
//
// SPDX-License-Identifier: MIT

// Package virtfs provides the in-memory virtual filesystem image that
// snapshots are built into.
//
// An [FS] holds directories and bytes-backed regular files. It is mutated
// by a single writer during one build pass and then serialized by the
// artifact codec. It is not safe for concurrent mutation.
package virtfs
