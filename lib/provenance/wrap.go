// Copyright 2026 The JACS Authors
// SPDX-License-Identifier: Apache-2.0

package provenance

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jacs-foundation/jacs/lib/clock"
	"github.com/jacs-foundation/jacs/lib/schema"
)

// Signer signs an envelope's content, returning the envelope with an
// embedded signature. The signature algorithm and canonicalization are
// implementation-defined; lib/signer provides the Ed25519 reference.
type Signer interface {
	Sign(envelope *schema.Envelope) (*schema.Envelope, error)
}

// SignatureVerifier checks a single envelope's signature and content.
// A nil return means the envelope is authentic; any error means it is
// not (the chain verifier records the message, it never propagates
// signature errors).
type SignatureVerifier interface {
	Verify(envelope *schema.Envelope) error
}

// Wrapper builds provenance envelopes around artifacts.
type Wrapper struct {
	signer Signer
	clock  clock.Clock
}

// WrapperConfig configures a Wrapper.
type WrapperConfig struct {
	// Signer signs every envelope the wrapper produces. Required.
	Signer Signer

	// Clock stamps envelope creation times. Defaults to clock.Real().
	Clock clock.Clock
}

// NewWrapper creates a Wrapper.
func NewWrapper(config WrapperConfig) (*Wrapper, error) {
	if config.Signer == nil {
		return nil, errors.New("provenance: Signer is required")
	}
	c := config.Clock
	if c == nil {
		c = clock.Real()
	}
	return &Wrapper{signer: config.Signer, clock: c}, nil
}

// Wrap builds a signed envelope around an artifact. The artifact may
// be any JSON-serializable value; json.RawMessage and []byte payloads
// are embedded as-is. Parents are attached verbatim — no
// deduplication, and no validation of the parents' own signatures
// (verification happens on the receiving side).
//
// Each call allocates a fresh envelope id, so wrapping the same
// artifact twice produces two distinct envelopes.
func (w *Wrapper) Wrap(artifact any, artifactType string, parents ...*schema.Envelope) (*schema.Envelope, error) {
	if artifactType == "" {
		return nil, errors.New("provenance: artifact type is required")
	}

	payload, err := marshalArtifact(artifact)
	if err != nil {
		return nil, fmt.Errorf("provenance: encoding artifact: %w", err)
	}

	envelope := &schema.Envelope{
		JacsID:               uuid.NewString(),
		JacsVersion:          uuid.NewString(),
		JacsType:             schema.TypePrefix + artifactType,
		JacsLevel:            schema.LevelArtifact,
		JacsVersionDate:      w.clock.Now().UTC().Truncate(time.Second),
		JacsParentSignatures: parents,
		Artifact:             payload,
		ArtifactDigest:       schema.ArtifactDigest(payload),
	}

	signed, err := w.signer.Sign(envelope)
	if err != nil {
		return nil, fmt.Errorf("provenance: signing envelope %s: %w", envelope.JacsID, err)
	}

	// Reattach the payload and parents in case the signer returned a
	// stripped envelope. The signer owns the signature; the wrapper
	// owns the rest.
	signed.Artifact = payload
	signed.JacsParentSignatures = parents
	return signed, nil
}

// SignArtifact is an alias of Wrap. Some call sites use either name;
// behavior is identical.
func (w *Wrapper) SignArtifact(artifact any, artifactType string, parents ...*schema.Envelope) (*schema.Envelope, error) {
	return w.Wrap(artifact, artifactType, parents...)
}

// marshalArtifact converts an arbitrary payload to raw JSON. Raw
// payloads pass through untouched so wrapping never reformats what
// the caller produced.
func marshalArtifact(artifact any) (json.RawMessage, error) {
	switch value := artifact.(type) {
	case nil:
		return nil, nil
	case json.RawMessage:
		return value, nil
	case []byte:
		return json.RawMessage(value), nil
	default:
		return json.Marshal(value)
	}
}
