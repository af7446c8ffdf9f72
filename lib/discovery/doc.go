// Copyright 2026 The JACS Authors
// SPDX-License-Identifier: Apache-2.0

// Package discovery fetches remote agent cards from their well-known
// location and composes card retrieval with trust assessment.
//
// Discovery is deliberately thin: one GET per call, no retries, no
// caching. Callers own retry policy. The fetched card is adversarial
// input until it has passed trust assessment, and even then only its
// declared capabilities are believed, never its payload claims.
package discovery
