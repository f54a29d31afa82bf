// SPDX-FileCopyrightText: 2026 The memsnap authors
//
// SPDX-License-Identifier: MIT

package writecache

import (
	"encoding/hex"

	sha256 "github.com/minio/sha256-simd"
)

// Fingerprint is a hex encoded digest of raw file content. It is a pure
// function of the content bytes, so equal content yields equal fingerprints
// across runs and across processes. Modification time and size are never
// part of it.
type Fingerprint string

// Sum computes the [Fingerprint] for the given content.
func Sum(content []byte) Fingerprint {
	digest := sha256.Sum256(content)
	return Fingerprint(hex.EncodeToString(digest[:]))
}
