// Copyright 2026 The JACS Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the standard CBOR encoding configuration
// shared by every JACS package.
//
// JACS uses two serialization formats with a clear boundary:
//
//   - JSON for interop surfaces: provenance envelopes on the wire,
//     agent cards, the well-known discovery documents, and CLI output.
//     These must stay readable by non-Go JACS implementations.
//   - CBOR for internal byte-exact material: signing payloads (the
//     bytes an Ed25519 signature covers), envelope bundles, and
//     trust-store records on disk.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2):
// sorted map keys, smallest integer encoding, no indefinite-length
// items. Same logical data always produces identical bytes — which is
// what makes CBOR suitable for signing payloads: a signature computed
// over codec.Marshal output can be re-derived by any verifier from
// the same logical content.
//
// For buffer-oriented operations:
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// Types that are only ever CBOR use `cbor` struct tags; types shared
// between the JSON interop surface and CBOR (envelope bundles) use
// `json` tags only — fxamacker/cbor reads json tags as fallback, so a
// single tag controls field naming for both formats. Never use both
// tags on one field.
package codec
