// Copyright 2026 The JACS Authors
// SPDX-License-Identifier: Apache-2.0

package interop

import (
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/jacs-foundation/jacs/lib/schema"
	"github.com/jacs-foundation/jacs/lib/signer"
)

// Well-known document paths. Protocol constants shared with non-Go
// implementations.
const (
	CardPath      = "/.well-known/agent-card.json"
	KeySetPath    = "/.well-known/jwks.json"
	IdentityPath  = "/.well-known/jacs-agent.json"
	PublicKeyPath = "/.well-known/jacs-pubkey.json"
	ExtensionPath = "/.well-known/jacs-extension.json"
)

// signaturePlaceholder marks where a real JWS goes once card signing
// is wired up. Peers treat a placeholder-signed card as unsigned.
const signaturePlaceholder = "unsigned-placeholder"

// supportedAlgorithms is the static list published in the extension
// descriptor. It describes the protocol family, not what the running
// agent has keys for.
var supportedAlgorithms = []string{
	"RSA-PSS",
	"ring-Ed25519",
	"pq-dilithium",
	"pq2025",
}

// postQuantumMarkers are matched as lowercase substrings against the
// declared algorithm name to compute the post-quantum flag.
var postQuantumMarkers = []string{"dilithium", "kyber", "falcon", "sphincs", "pq"}

// Identity is the one input all five documents are built from.
type Identity struct {
	// AgentID is the agent's JACS identifier. Required.
	AgentID string

	// AgentVersion is the agent's version identifier.
	AgentVersion string

	// AgentType classifies the agent (e.g. "ai", "human", "service").
	AgentType string

	// Name and Description fill the published card.
	Name        string
	Description string

	// BaseURL is the agent's public base URL, used for the card's
	// declared interfaces.
	BaseURL string

	// Algorithm is the declared signing algorithm name (e.g.
	// "ring-Ed25519"). Used for JWKS algorithm inference and the
	// post-quantum flag.
	Algorithm string

	// PublicKey is the raw public key bytes. A 32-byte key is
	// treated as Ed25519.
	PublicKey []byte

	// Skills populate the card's skill list.
	Skills []schema.AgentSkill
}

// JSONWebKey is one entry in the published key set.
type JSONWebKey struct {
	KeyType   string `json:"kty"`
	Curve     string `json:"crv,omitempty"`
	KeyID     string `json:"kid"`
	Algorithm string `json:"alg,omitempty"`
	X         string `json:"x,omitempty"`
	Use       string `json:"use,omitempty"`
}

// KeySet is the JWKS document shape.
type KeySet struct {
	Keys []JSONWebKey `json:"keys"`
}

// IdentityDescriptor is the jacs-agent.json document shape.
type IdentityDescriptor struct {
	JacsID           string `json:"jacsId"`
	JacsVersion      string `json:"jacsVersion,omitempty"`
	AgentType        string `json:"agentType,omitempty"`
	PublicKeyHash    string `json:"publicKeyHash"`
	SigningAlgorithm string `json:"signingAlgorithm,omitempty"`
	PostQuantum      bool   `json:"postQuantum"`
	SchemaURI        string `json:"schema"`
	PublicKeyURI     string `json:"publicKeyEndpoint"`
	CardURI          string `json:"agentCardEndpoint"`
}

// PublicKeyDocument is the jacs-pubkey.json document shape.
type PublicKeyDocument struct {
	AgentID       string `json:"agentId"`
	PublicKey     string `json:"publicKey"`
	PublicKeyHash string `json:"publicKeyHash"`
	Algorithm     string `json:"algorithm,omitempty"`
}

// ExtensionDescriptor is the jacs-extension.json document shape: a
// static capability manifest, identical for every agent running this
// implementation.
type ExtensionDescriptor struct {
	URI                 string   `json:"uri"`
	Version             string   `json:"version"`
	Description         string   `json:"description"`
	SupportedAlgorithms []string `json:"supportedAlgorithms"`
	SignEndpoint        string   `json:"signEndpoint"`
	VerifyEndpoint      string   `json:"verifyEndpoint"`
	PublicKeyEndpoint   string   `json:"publicKeyEndpoint"`
}

// Documents holds the five mutually consistent discovery documents.
type Documents struct {
	// Card is the capability descriptor without signatures; SignedCard
	// carries the signature placeholder structure.
	Card       *schema.AgentCard
	SignedCard *schema.AgentCard

	KeySet    *KeySet
	Identity  *IdentityDescriptor
	PublicKey *PublicKeyDocument
	Extension *ExtensionDescriptor
}

// Build constructs all five documents from one identity. The key hash
// in the identity descriptor and public key document is the same
// SHA-256 value, and every document carries the same agent id, so the
// set stays consistent no matter which subset a peer fetches.
func Build(identity Identity) (*Documents, error) {
	if identity.AgentID == "" {
		return nil, fmt.Errorf("interop: AgentID is required")
	}

	keyHash := signer.KeyHash(identity.PublicKey)

	card := buildCard(identity)
	signedCard := *card
	signedCard.Signatures = []schema.CardSignature{{JWS: signaturePlaceholder}}

	return &Documents{
		Card:       card,
		SignedCard: &signedCard,
		KeySet:     buildKeySet(identity),
		Identity: &IdentityDescriptor{
			JacsID:           identity.AgentID,
			JacsVersion:      identity.AgentVersion,
			AgentType:        identity.AgentType,
			PublicKeyHash:    keyHash,
			SigningAlgorithm: identity.Algorithm,
			PostQuantum:      isPostQuantum(identity.Algorithm),
			SchemaURI:        "https://hai.ai/schemas/agent/v1/agent.schema.json",
			PublicKeyURI:     PublicKeyPath,
			CardURI:          CardPath,
		},
		PublicKey: &PublicKeyDocument{
			AgentID:       identity.AgentID,
			PublicKey:     base64.StdEncoding.EncodeToString(identity.PublicKey),
			PublicKeyHash: keyHash,
			Algorithm:     identity.Algorithm,
		},
		Extension: &ExtensionDescriptor{
			URI:                 schema.ExtensionURI,
			Version:             "1.0.0",
			Description:         "JACS provenance signing and verification",
			SupportedAlgorithms: supportedAlgorithms,
			SignEndpoint:        "/api/v1/sign",
			VerifyEndpoint:      "/api/v1/verify",
			PublicKeyEndpoint:   PublicKeyPath,
		},
	}, nil
}

func buildCard(identity Identity) *schema.AgentCard {
	card := &schema.AgentCard{
		Name:               identity.Name,
		Description:        identity.Description,
		Version:            identity.AgentVersion,
		ProtocolVersions:   []string{"0.3.0"},
		DefaultInputModes:  []string{"application/json"},
		DefaultOutputModes: []string{"application/json"},
		Capabilities: schema.AgentCapabilities{
			Extensions: []schema.AgentExtension{
				{
					URI:         schema.ExtensionURI,
					Description: "JACS provenance signing and verification",
				},
			},
		},
		Skills: identity.Skills,
		Metadata: map[string]any{
			schema.MetadataAgentIDKey: identity.AgentID,
		},
	}
	if identity.BaseURL != "" {
		card.SupportedInterfaces = []schema.AgentInterface{
			{URL: identity.BaseURL, ProtocolBinding: "JSONRPC"},
		}
	}
	return card
}

// buildKeySet emits the JWKS. A 32-byte key is published as OKP/
// Ed25519 with the raw key in x. Otherwise the algorithm name is
// inferred from the declared algorithm string; with no match the key
// list is empty rather than a guess.
func buildKeySet(identity Identity) *KeySet {
	if len(identity.PublicKey) == ed25519.PublicKeySize {
		return &KeySet{Keys: []JSONWebKey{{
			KeyType:   "OKP",
			Curve:     "Ed25519",
			KeyID:     identity.AgentID,
			Algorithm: "EdDSA",
			X:         base64.RawURLEncoding.EncodeToString(identity.PublicKey),
			Use:       "sig",
		}}}
	}

	keyType, algorithm := inferAlgorithm(identity.Algorithm)
	if algorithm == "" {
		return &KeySet{Keys: []JSONWebKey{}}
	}
	return &KeySet{Keys: []JSONWebKey{{
		KeyType:   keyType,
		KeyID:     identity.AgentID,
		Algorithm: algorithm,
		Use:       "sig",
	}}}
}

// inferAlgorithm maps a declared algorithm name to a JWS algorithm by
// case-insensitive substring match. The heuristic is kept for
// compatibility with existing identity documents; it can misclassify
// algorithm names coined after this list was fixed.
func inferAlgorithm(declared string) (keyType, algorithm string) {
	lowered := strings.ToLower(declared)
	switch {
	case strings.Contains(lowered, "ed25519"):
		return "OKP", "EdDSA"
	case strings.Contains(lowered, "rsa"):
		return "RSA", "RS256"
	case strings.Contains(lowered, "ecdsa"), strings.Contains(lowered, "es256"):
		return "EC", "ES256"
	default:
		return "", ""
	}
}

// isPostQuantum reports whether the declared algorithm name matches
// any post-quantum marker.
func isPostQuantum(declared string) bool {
	lowered := strings.ToLower(declared)
	for _, marker := range postQuantumMarkers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}
