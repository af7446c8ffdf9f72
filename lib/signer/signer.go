// Copyright 2026 The JACS Authors
// SPDX-License-Identifier: Apache-2.0

package signer

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/jacs-foundation/jacs/lib/codec"
	"github.com/jacs-foundation/jacs/lib/schema"
)

// AlgorithmEd25519 is the signing algorithm name written into
// signatures produced by this package. The name follows the JACS
// algorithm vocabulary.
const AlgorithmEd25519 = "ring-Ed25519"

// Errors returned by signing and verification.
var (
	ErrNotSigned        = errors.New("signer: envelope has no signature")
	ErrInvalidSignature = errors.New("signer: signature verification failed")
	ErrDigestMismatch   = errors.New("signer: artifact digest does not match payload")
	ErrUnknownKey       = errors.New("signer: no registered key matches the signature's public key hash")
)

// signingPayload is the content an envelope signature covers: the
// envelope header, the artifact digest, and the ids of the parent
// envelopes (binding the chain topology without re-signing the
// parents' own content). Encoded with deterministic CBOR so the same
// logical envelope always produces the same signed bytes.
type signingPayload struct {
	ID             string   `cbor:"1,keyasint"`
	Version        string   `cbor:"2,keyasint,omitempty"`
	Type           string   `cbor:"3,keyasint"`
	Level          string   `cbor:"4,keyasint,omitempty"`
	VersionDate    int64    `cbor:"5,keyasint"`
	ArtifactDigest string   `cbor:"6,keyasint,omitempty"`
	ParentIDs      []string `cbor:"7,keyasint,omitempty"`
	AgentID        string   `cbor:"8,keyasint"`
	AgentVersion   string   `cbor:"9,keyasint,omitempty"`
}

// payloadBytes derives the signed bytes for an envelope attributed to
// the given agent identity.
func payloadBytes(envelope *schema.Envelope, agentID, agentVersion string) ([]byte, error) {
	payload := signingPayload{
		ID:             envelope.JacsID,
		Version:        envelope.JacsVersion,
		Type:           envelope.JacsType,
		Level:          envelope.JacsLevel,
		VersionDate:    envelope.JacsVersionDate.Unix(),
		ArtifactDigest: envelope.ArtifactDigest,
		AgentID:        agentID,
		AgentVersion:   agentVersion,
	}
	for _, parent := range envelope.JacsParentSignatures {
		if parent == nil {
			continue
		}
		payload.ParentIDs = append(payload.ParentIDs, parent.JacsID)
	}

	data, err := codec.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("signer: encoding signing payload: %w", err)
	}
	return data, nil
}

// KeyHash returns the SHA-256 hex digest of a raw public key. This is
// the value published in identity documents and embedded in envelope
// signatures so a verifier can select the right key. SHA-256 (not
// BLAKE3) because the hash appears in interop documents consumed by
// non-Go JACS implementations.
func KeyHash(publicKey []byte) string {
	digest := sha256.Sum256(publicKey)
	return hex.EncodeToString(digest[:])
}

// GenerateKeypair generates a new Ed25519 keypair using crypto/rand.
func GenerateKeypair() (ed25519.PublicKey, ed25519.PrivateKey, error) {
	public, private, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("signer: generating Ed25519 keypair: %w", err)
	}
	return public, private, nil
}

// Agent signs envelopes on behalf of one agent identity and verifies
// envelopes signed with its own key. For verifying envelopes from
// other agents, use a Directory.
type Agent struct {
	agentID      string
	agentVersion string
	private      ed25519.PrivateKey
	public       ed25519.PublicKey
	keyHash      string
}

// AgentConfig configures an Agent.
type AgentConfig struct {
	// AgentID identifies the signing agent. Required.
	AgentID string

	// AgentVersion is recorded in signatures. Optional.
	AgentVersion string

	// PrivateKey is the Ed25519 private key. Required.
	PrivateKey ed25519.PrivateKey
}

// NewAgent creates a signing Agent.
func NewAgent(config AgentConfig) (*Agent, error) {
	if config.AgentID == "" {
		return nil, errors.New("signer: AgentID is required")
	}
	if len(config.PrivateKey) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("signer: private key must be %d bytes, got %d",
			ed25519.PrivateKeySize, len(config.PrivateKey))
	}
	public := config.PrivateKey.Public().(ed25519.PublicKey)
	return &Agent{
		agentID:      config.AgentID,
		agentVersion: config.AgentVersion,
		private:      config.PrivateKey,
		public:       public,
		keyHash:      KeyHash(public),
	}, nil
}

// AgentID returns the identity this agent signs as.
func (a *Agent) AgentID() string { return a.agentID }

// PublicKey returns the agent's raw Ed25519 public key.
func (a *Agent) PublicKey() ed25519.PublicKey { return a.public }

// Sign signs the envelope's content and returns a copy carrying the
// signature. The input envelope is not mutated.
func (a *Agent) Sign(envelope *schema.Envelope) (*schema.Envelope, error) {
	payload, err := payloadBytes(envelope, a.agentID, a.agentVersion)
	if err != nil {
		return nil, err
	}

	signed := *envelope
	signed.JacsSignature = &schema.Signature{
		AgentID:          a.agentID,
		AgentVersion:     a.agentVersion,
		PublicKeyHash:    a.keyHash,
		SigningAlgorithm: AlgorithmEd25519,
		Signature:        base64.StdEncoding.EncodeToString(ed25519.Sign(a.private, payload)),
	}
	return &signed, nil
}

// Verify checks the envelope's signature against this agent's own
// public key. Returns nil when the signature is valid and the artifact
// digest matches the payload.
func (a *Agent) Verify(envelope *schema.Envelope) error {
	return verifyWithKey(envelope, a.public)
}

// verifyWithKey checks an envelope signature against a specific key
// and re-derives the artifact digest from the payload bytes.
func verifyWithKey(envelope *schema.Envelope, publicKey ed25519.PublicKey) error {
	signature := envelope.JacsSignature
	if signature == nil || signature.Signature == "" {
		return ErrNotSigned
	}

	// The digest is covered by the signature, so a mutated artifact
	// with an updated digest fails the signature check, and a mutated
	// artifact with the original digest fails here.
	if envelope.ArtifactDigest != "" {
		if schema.ArtifactDigest(envelope.Artifact) != envelope.ArtifactDigest {
			return fmt.Errorf("%w: envelope %s", ErrDigestMismatch, envelope.JacsID)
		}
	}

	signatureBytes, err := base64.StdEncoding.DecodeString(signature.Signature)
	if err != nil {
		return fmt.Errorf("signer: decoding signature on envelope %s: %w", envelope.JacsID, err)
	}

	payload, err := payloadBytes(envelope, signature.AgentID, signature.AgentVersion)
	if err != nil {
		return err
	}

	if !ed25519.Verify(publicKey, payload, signatureBytes) {
		return fmt.Errorf("%w: envelope %s signed by %s", ErrInvalidSignature, envelope.JacsID, signature.AgentID)
	}
	return nil
}
