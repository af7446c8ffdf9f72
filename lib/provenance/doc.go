// Copyright 2026 The JACS Authors
// SPDX-License-Identifier: Apache-2.0

// Package provenance implements the chain-of-custody core: wrapping
// artifacts in signed envelopes and verifying envelope chains.
//
// A Wrapper produces one envelope per artifact hop. Each envelope may
// embed the envelopes it extends, so repeated wrapping builds a
// directed ancestry graph — the chain of custody. The Wrapper performs
// no validation of parents: it records what the caller hands it and
// delegates signing to an external Signer.
//
// A ChainVerifier walks that graph depth-first. The graph is
// attacker-controlled: a hostile sender can alias one envelope from
// several parents (a legitimate diamond) or construct a cycle (always
// malicious). The verifier distinguishes the two with a visited set
// scoped to one top-level call and unwound on exit, so diamonds verify
// cleanly while cycles fail the whole call with a CycleError.
//
// Signature failures are never fatal: a chain with one broken ancestor
// still yields a full diagnostic tree, with the break recorded where
// it happened and parentSignaturesValid false at every level above it.
//
// Envelope chains can be exported for delivery or archival as
// compressed bundles (deterministic CBOR + LZ4 or zstd); see Export
// and Import.
//
// Recursion depth equals chain length. The verifier imposes no hard
// depth limit beyond cycle detection; callers receiving envelopes from
// untrusted peers should bound chain length externally, since an
// unbounded ancestor chain is a resource-exhaustion vector.
package provenance
