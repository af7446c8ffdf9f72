// Copyright 2026 The JACS Authors
// SPDX-License-Identifier: Apache-2.0

// Package interop builds the discovery documents an agent publishes
// under /.well-known/ and serves them over HTTP.
//
// Five documents are built in one pass from one identity input: the
// agent card, a JSON Web Key Set, the identity descriptor, the public
// key document, and the extension descriptor. Building them together
// keeps them mutually consistent (same agent id, same key hash) even
// though each is fetched independently by remote peers.
package interop
