// Copyright 2026 The JACS Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// artifactDomainKey is a 32-byte key for BLAKE3 keyed hashing of
// artifact payloads. Domain separation ensures artifact digests can
// never collide with hashes computed over other JACS byte strings.
// The byte values are the ASCII encoding of the domain name,
// zero-padded to 32 bytes — readable in hex dumps without sacrificing
// any cryptographic property. Fixed constant: changing it invalidates
// every existing envelope digest.
var artifactDomainKey = [32]byte{
	'j', 'a', 'c', 's', '.', 'e', 'n', 'v', 'e', 'l', 'o', 'p', 'e', '.',
	'a', 'r', 't', 'i', 'f', 'a', 'c', 't', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// ArtifactDigest computes the hex BLAKE3 keyed digest of an artifact
// payload. This is the value stored in Envelope.ArtifactDigest and
// covered by the envelope signature. Empty payloads digest to the
// keyed hash of zero bytes, not to "".
func ArtifactDigest(payload []byte) string {
	hasher, err := blake3.NewKeyed(artifactDomainKey[:])
	if err != nil {
		// NewKeyed fails only on a key that is not 32 bytes.
		panic("schema: BLAKE3 keyed hasher initialization failed: " + err.Error())
	}
	hasher.Write(payload)
	return hex.EncodeToString(hasher.Sum(nil))
}
