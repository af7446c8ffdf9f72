// Copyright 2026 The JACS Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"encoding/json"
	"strings"
	"time"
)

// TypePrefix is prepended to the caller-supplied artifact type when an
// envelope is created. A "task" artifact becomes a "a2a-task" envelope.
const TypePrefix = "a2a-"

// LevelArtifact is the envelope level for provenance-wrapped artifacts.
// It is the only level this implementation produces.
const LevelArtifact = "artifact"

// Signature is the signer-produced attestation embedded in an
// envelope. The core treats it as opaque: it is produced and checked
// by the external signer, never interpreted by the chain verifier
// beyond reading the identity fields into verification results.
type Signature struct {
	// AgentID identifies the signing agent.
	AgentID string `json:"agentID"`

	// AgentVersion is the signing agent's version at signing time.
	AgentVersion string `json:"agentVersion,omitempty"`

	// PublicKeyHash is the SHA-256 hex digest of the signer's public
	// key, letting a verifier pick the right key from a key set.
	PublicKeyHash string `json:"publicKeyHash,omitempty"`

	// SigningAlgorithm names the signature algorithm (e.g.
	// "ring-Ed25519"). Implementation-defined.
	SigningAlgorithm string `json:"signingAlgorithm,omitempty"`

	// Signature is the base64-encoded signature bytes.
	Signature string `json:"signature"`
}

// Envelope is a provenance-wrapped artifact. The JSON field names are
// the JACS document field names and are shared with non-Go
// implementations.
//
// JacsParentSignatures is adversarial input: a hostile sender can
// alias the same envelope from multiple parents or construct an
// outright cycle. Consumers must verify chains through
// lib/provenance, which performs cycle detection.
type Envelope struct {
	// JacsID uniquely identifies an envelope within one verification
	// pass. It is a UUID allocated at wrap time; the verifier uses it
	// for cycle detection, not for global uniqueness guarantees.
	JacsID string `json:"jacsId"`

	// JacsVersion is the version identifier of this envelope revision.
	JacsVersion string `json:"jacsVersion,omitempty"`

	// JacsType tags the wrapped artifact, e.g. "a2a-task",
	// "a2a-message", "a2a-workflow-step".
	JacsType string `json:"jacsType"`

	// JacsLevel is LevelArtifact for every envelope this core creates.
	JacsLevel string `json:"jacsLevel,omitempty"`

	// JacsVersionDate is the creation timestamp.
	JacsVersionDate time.Time `json:"jacsVersionDate"`

	// JacsSignature is the signer attestation over this envelope's
	// content. Nil only on the intermediate value handed to a signer.
	JacsSignature *Signature `json:"jacsSignature,omitempty"`

	// JacsParentSignatures holds the prior envelopes this one extends,
	// verbatim as supplied at wrap time. Forms the chain of custody.
	JacsParentSignatures []*Envelope `json:"jacsParentSignatures,omitempty"`

	// Artifact is the wrapped payload, opaque to this core.
	Artifact json.RawMessage `json:"artifact,omitempty"`

	// ArtifactDigest is the hex BLAKE3 digest of Artifact, computed at
	// wrap time and covered by the signature. Tampering with the
	// payload after wrapping breaks either the digest or the
	// signature, and verification reports the node invalid.
	ArtifactDigest string `json:"artifactDigest,omitempty"`
}

// ArtifactType returns the envelope's artifact type with the "a2a-"
// prefix stripped: "a2a-task" → "task". Types without the prefix are
// returned unchanged.
func (e *Envelope) ArtifactType() string {
	return strings.TrimPrefix(e.JacsType, TypePrefix)
}

// SignerID returns the signing agent's id, or "" when the envelope is
// unsigned.
func (e *Envelope) SignerID() string {
	if e.JacsSignature == nil {
		return ""
	}
	return e.JacsSignature.AgentID
}
