// Copyright 2026 The JACS Authors
// SPDX-License-Identifier: Apache-2.0

// Package trust evaluates trust policies against remote agent cards.
//
// A receiving agent classifies a remote agent's self-declared card
// into a trust level (untrusted, registered, trusted) and decides
// pass/fail under a named policy (open, verified, strict). Assessment
// is a pure function of the card and policy, except for one optional
// lookup against a trust store when the policy is strict.
//
// The package also provides the trust store itself: a persisted
// allow-list of agent identifiers, file-backed with an in-memory
// index. Assessment only requires the lookup contract, so any
// implementation of the Lookup signature can stand in for the store.
package trust
