// Copyright 2026 The JACS Authors
// SPDX-License-Identifier: Apache-2.0

package signer

import (
	"crypto/ed25519"
	"fmt"
	"sync"

	"github.com/jacs-foundation/jacs/lib/schema"
)

// Directory verifies envelopes signed by any of a set of known agents.
// Keys are resolved by the public key hash embedded in each envelope
// signature, so one Directory can verify a chain of custody whose
// ancestors were signed by different agents.
//
// Directory is safe for concurrent use.
type Directory struct {
	mu   sync.RWMutex
	keys map[string]ed25519.PublicKey // key hash → public key
}

// NewDirectory creates an empty key directory.
func NewDirectory() *Directory {
	return &Directory{keys: make(map[string]ed25519.PublicKey)}
}

// Add registers a public key. Returns the key hash it is registered
// under. Re-adding the same key is a no-op.
func (d *Directory) Add(publicKey ed25519.PublicKey) (string, error) {
	if len(publicKey) != ed25519.PublicKeySize {
		return "", fmt.Errorf("signer: public key must be %d bytes, got %d",
			ed25519.PublicKeySize, len(publicKey))
	}
	hash := KeyHash(publicKey)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.keys[hash] = publicKey
	return hash, nil
}

// Lookup returns the public key registered under the given hash.
func (d *Directory) Lookup(keyHash string) (ed25519.PublicKey, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	key, ok := d.keys[keyHash]
	return key, ok
}

// Verify checks an envelope's signature against the registered key
// matching its public key hash. Returns ErrUnknownKey when no
// registered key matches.
func (d *Directory) Verify(envelope *schema.Envelope) error {
	signature := envelope.JacsSignature
	if signature == nil || signature.Signature == "" {
		return ErrNotSigned
	}

	key, ok := d.Lookup(signature.PublicKeyHash)
	if !ok {
		return fmt.Errorf("%w: envelope %s, key hash %s",
			ErrUnknownKey, envelope.JacsID, signature.PublicKeyHash)
	}
	return verifyWithKey(envelope, key)
}
