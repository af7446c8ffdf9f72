// Copyright 2026 The JACS Authors
// SPDX-License-Identifier: Apache-2.0

// Package schema defines the interop data shapes shared by every JACS
// component: the provenance envelope that wraps an artifact, and the
// agent card that a remote agent publishes to describe itself.
//
// Both types cross implementation boundaries — envelopes are produced
// and consumed by JACS implementations in other languages, and agent
// cards follow the A2A discovery document shape — so the JSON field
// names here are protocol constants. Changing them breaks interop.
//
// Envelopes form a chain of custody: each envelope may embed the
// envelopes it extends in JacsParentSignatures. That ancestry graph is
// attacker-controlled input. Nothing in this package assumes it is
// acyclic; the verifier in lib/provenance treats it as possibly
// hostile.
package schema
