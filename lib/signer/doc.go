// Copyright 2026 The JACS Authors
// SPDX-License-Identifier: Apache-2.0

// Package signer implements envelope signing and signature
// verification with Ed25519.
//
// The chain-of-custody core in lib/provenance is deliberately agnostic
// about the signature primitive: it delegates to whatever implements
// its Signer interface. This package is the reference implementation.
// Signatures cover the deterministic CBOR encoding (lib/codec) of the
// envelope header, the artifact digest, and the parent envelope ids —
// so the signed bytes can be re-derived exactly by any verifier from
// the envelope's logical content, independent of JSON formatting.
//
// An Agent signs with its own private key and verifies envelopes it
// signed itself. A Directory verifies envelopes from multiple agents
// by resolving the public key hash embedded in each signature against
// registered keys. Key generation helpers exist for tests and tooling;
// durable key storage is the caller's concern.
package signer
