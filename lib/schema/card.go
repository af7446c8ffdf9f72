// Copyright 2026 The JACS Authors
// SPDX-License-Identifier: Apache-2.0

package schema

// ExtensionURI is the well-known provenance extension identifier. A
// remote agent card that declares this URI among its capability
// extensions is considered JACS-registered by the trust policy
// evaluator. Protocol constant — shared with non-Go implementations.
const ExtensionURI = "https://hai.ai/extensions/jacs-provenance/v1"

// Agent cards may embed the agent's JACS identifier in their metadata
// map under these keys. MetadataAgentIDKey is what this implementation
// writes; legacy cards used MetadataAgentIDKeyLegacy.
const (
	MetadataAgentIDKey       = "jacs_agent_id"
	MetadataAgentIDKeyLegacy = "agent_id"
)

// AgentInterface is one transport endpoint a remote agent accepts
// requests on.
type AgentInterface struct {
	URL             string `json:"url"`
	ProtocolBinding string `json:"protocolBinding,omitempty"`
	Tenant          string `json:"tenant,omitempty"`
}

// AgentExtension declares one protocol extension an agent supports.
// The trust evaluator matches URI exactly against ExtensionURI.
type AgentExtension struct {
	URI         string `json:"uri"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`
}

// AgentCapabilities groups the optional capabilities a card declares.
type AgentCapabilities struct {
	Extensions []AgentExtension `json:"extensions,omitempty"`
}

// AgentSkill is one distinct capability an agent advertises.
type AgentSkill struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// CardSignature is a JSON Web Signature computed over an agent card.
type CardSignature struct {
	JWS string `json:"jws"`
}

// AgentCard is a remote agent's self-declared capability descriptor.
// Received verbatim over the network (Discovery Client) or built
// locally (lib/interop). Immutable once received: nothing in this
// repository mutates a card after construction.
type AgentCard struct {
	Name                string            `json:"name"`
	Description         string            `json:"description,omitempty"`
	Version             string            `json:"version,omitempty"`
	ProtocolVersions    []string          `json:"protocolVersions,omitempty"`
	SupportedInterfaces []AgentInterface  `json:"supportedInterfaces,omitempty"`
	DefaultInputModes   []string          `json:"defaultInputModes,omitempty"`
	DefaultOutputModes  []string          `json:"defaultOutputModes,omitempty"`
	Capabilities        AgentCapabilities `json:"capabilities"`
	Skills              []AgentSkill      `json:"skills,omitempty"`
	Signatures          []CardSignature   `json:"signatures,omitempty"`
	Metadata            map[string]any    `json:"metadata,omitempty"`
}

// HasExtension reports whether the card declares a capability
// extension with exactly the given URI.
func (c *AgentCard) HasExtension(uri string) bool {
	for _, extension := range c.Capabilities.Extensions {
		if extension.URI == uri {
			return true
		}
	}
	return false
}

// AgentID extracts the agent identifier embedded in the card's
// metadata. Checks MetadataAgentIDKey first, then the legacy key.
// Returns "" when neither key holds a non-empty string — non-string
// values are ignored rather than coerced.
func (c *AgentCard) AgentID() string {
	for _, key := range []string{MetadataAgentIDKey, MetadataAgentIDKeyLegacy} {
		if value, ok := c.Metadata[key].(string); ok && value != "" {
			return value
		}
	}
	return ""
}
