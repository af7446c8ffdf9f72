// Copyright 2026 The JACS Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time abstraction for testability.
//
// Production code accepts a Clock interface parameter instead of
// calling time.Now directly. In production, Real() provides standard
// library behavior. In tests, Fake() provides a deterministic clock
// that advances only when Advance is called — so envelope timestamps
// and expiry checks are exact, not "roughly now".
//
// Wiring pattern: add a Clock field to structs that stamp time:
//
//	w := provenance.NewWrapper(provenance.WrapperConfig{
//	    Signer: signer,
//	    Clock:  clock.Real(),
//	})
//
// In tests:
//
//	c := clock.Fake(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
//	w := provenance.NewWrapper(provenance.WrapperConfig{Signer: signer, Clock: c})
//	c.Advance(time.Minute)
package clock
